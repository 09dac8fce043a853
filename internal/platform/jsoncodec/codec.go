// Package jsoncodec encodes cached documents deterministically.
package jsoncodec

import (
	"github.com/bytedance/sonic"
	"github.com/valyala/bytebufferpool"
)

const indent = "    "

// api sorts map keys so identical values always produce identical bytes.
var api = sonic.ConfigStd

// Marshal encodes v as indented JSON terminated by a newline.
func Marshal(v any) ([]byte, error) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	enc := api.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", indent)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}

	out := make([]byte, buf.Len())
	copy(out, buf.B)
	return out, nil
}

// MarshalCompact encodes v without indentation.
func MarshalCompact(v any) ([]byte, error) {
	return api.Marshal(v)
}

func Unmarshal(data []byte, target any) error {
	return api.Unmarshal(data, target)
}
