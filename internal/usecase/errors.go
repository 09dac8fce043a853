package usecase

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMissingParameter = errors.New("missing parameter")
	ErrNotFound         = errors.New("resource not found")
	ErrUpstream         = errors.New("upstream request failed")
)

// UpstreamError describes a failed provider call. It matches ErrUpstream.
type UpstreamError struct {
	Endpoint   string
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	var b strings.Builder
	b.WriteString("upstream ")
	b.WriteString(e.Endpoint)
	if e.StatusCode > 0 {
		fmt.Fprintf(&b, " status=%d", e.StatusCode)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	return b.String()
}

func (e *UpstreamError) Unwrap() error {
	return ErrUpstream
}

// MissingParameters builds an ErrMissingParameter naming every absent field.
func MissingParameters(names ...string) error {
	return fmt.Errorf("%w: %s", ErrMissingParameter, strings.Join(names, ", "))
}
