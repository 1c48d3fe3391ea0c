package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

func putField(out map[string]json.RawMessage, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	out[key] = b
	return nil
}

// takeField decodes raw[key] into dst and removes it from raw. A missing key
// leaves dst untouched.
func takeField(raw map[string]json.RawMessage, key string, dst any) error {
	v, ok := raw[key]
	if !ok {
		return nil
	}
	if err := json.Unmarshal(v, dst); err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	delete(raw, key)
	return nil
}

// takeLenient decodes raw[key] as T. null is consumed and yields nil; a value
// of another JSON type stays in raw untouched.
func takeLenient[T any](raw map[string]json.RawMessage, key string) *T {
	v, ok := raw[key]
	if !ok {
		return nil
	}
	if bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
		delete(raw, key)
		return nil
	}
	var out T
	if err := json.Unmarshal(v, &out); err != nil {
		return nil
	}
	delete(raw, key)
	return &out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneRaw(in map[string]json.RawMessage) map[string]json.RawMessage {
	if in == nil {
		return nil
	}
	out := make(map[string]json.RawMessage, len(in))
	for k, v := range in {
		out[k] = append(json.RawMessage(nil), v...)
	}
	return out
}
