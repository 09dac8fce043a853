// Package jsonmap reads loosely typed values out of decoded JSON documents.
//
// Every accessor is total: missing keys, nil values and unexpected types fall back to the zero
// value (or report ok=false) instead of failing.
package jsonmap

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Lookup returns the raw value stored under key.
func Lookup(src map[string]any, key string) (any, bool) {
	if src == nil {
		return nil, false
	}
	raw, ok := src[key]
	if !ok || raw == nil {
		return nil, false
	}
	return raw, true
}

// Has reports whether key is present with a non-nil value.
func Has(src map[string]any, key string) bool {
	_, ok := Lookup(src, key)
	return ok
}

// Map returns the nested object under key.
func Map(src map[string]any, key string) (map[string]any, bool) {
	raw, ok := Lookup(src, key)
	if !ok {
		return nil, false
	}
	nested, ok := raw.(map[string]any)
	return nested, ok
}

// Path walks nested objects and returns the value at the final key.
func Path(src map[string]any, keys ...string) (any, bool) {
	if len(keys) == 0 {
		return nil, false
	}
	current := src
	for _, key := range keys[:len(keys)-1] {
		next, ok := Map(current, key)
		if !ok {
			return nil, false
		}
		current = next
	}
	return Lookup(current, keys[len(keys)-1])
}

// Maps returns the objects of the array under key, skipping non-object items.
func Maps(src map[string]any, key string) ([]map[string]any, bool) {
	raw, ok := Lookup(src, key)
	if !ok {
		return nil, false
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, false
	}
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out, true
}

// String renders scalar values as text. Numbers use their shortest decimal form.
func String(src map[string]any, key string) (string, bool) {
	raw, ok := Lookup(src, key)
	if !ok {
		return "", false
	}
	return Scalar(raw)
}

// Scalar renders a JSON scalar as text.
func Scalar(raw any) (string, bool) {
	switch typed := raw.(type) {
	case string:
		return strings.TrimSpace(typed), true
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(typed), 'f', -1, 32), true
	case int:
		return strconv.Itoa(typed), true
	case int64:
		return strconv.FormatInt(typed, 10), true
	case json.Number:
		return typed.String(), true
	case bool:
		return strconv.FormatBool(typed), true
	default:
		return "", false
	}
}

// StringOr returns the rendered scalar or fallback when it is missing or blank.
func StringOr(src map[string]any, key, fallback string) string {
	value, ok := String(src, key)
	if !ok || value == "" {
		return fallback
	}
	return value
}

// Int64 parses integral values. Non-numeric values report ok=false.
func Int64(src map[string]any, key string) (int64, bool) {
	raw, ok := Lookup(src, key)
	if !ok {
		return 0, false
	}
	return AsInt64(raw)
}

// AsInt64 converts a decoded JSON scalar into an integer.
func AsInt64(raw any) (int64, bool) {
	switch typed := raw.(type) {
	case float64:
		if math.IsNaN(typed) || math.IsInf(typed, 0) {
			return 0, false
		}
		return int64(typed), true
	case float32:
		return int64(typed), true
	case int:
		return int64(typed), true
	case int64:
		return typed, true
	case json.Number:
		if v, err := typed.Int64(); err == nil {
			return v, true
		}
		f, err := typed.Float64()
		if err != nil {
			return 0, false
		}
		return int64(f), true
	case string:
		value := strings.TrimSpace(typed)
		if v, err := strconv.ParseInt(value, 10, 64); err == nil {
			return v, true
		}
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, false
		}
		return int64(f), true
	default:
		return 0, false
	}
}

// Int returns the integer under key or zero.
func Int(src map[string]any, key string) int {
	v, _ := Int64(src, key)
	return int(v)
}
