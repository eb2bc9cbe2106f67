package catalog

import (
	"bytes"
	"encoding/json"
)

// Optional records whether a value was supplied at all. The zero Optional is
// absent, which is distinct from a supplied zero value.
type Optional[T any] struct {
	value T
	set   bool
}

// Some returns a present Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, set: true}
}

// None returns an absent Optional.
func None[T any]() Optional[T] {
	return Optional[T]{}
}

func (o Optional[T]) IsSet() bool {
	return o.set
}

// Get returns the value and whether it was supplied.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.set
}

// OrElse returns the value when present and fallback otherwise.
func (o Optional[T]) OrElse(fallback T) T {
	if o.set {
		return o.value
	}
	return fallback
}

// UnmarshalJSON only runs when the key is present in the document, so any
// decoded key marks the Optional as set. A JSON null decodes to T's zero
// value (nil for pointer types).
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	var v T
	if !bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
	}
	o.value = v
	o.set = true
	return nil
}

// MarshalJSON writes the value, or null when absent.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.set {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}
