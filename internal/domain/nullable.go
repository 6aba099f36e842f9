package domain

import (
	"bytes"
	"encoding/json"
)

// Nullable is a patch field for an optional value. The zero value leaves the
// stored value unchanged; Set with a nil Value clears it.
type Nullable[T any] struct {
	Set   bool
	Value *T
}

// SetTo returns a patch field that stores v.
func SetTo[T any](v T) Nullable[T] { return Nullable[T]{Set: true, Value: &v} }

// Clear returns a patch field that removes the stored value.
func Clear[T any]() Nullable[T] { return Nullable[T]{Set: true} }

// Merge returns the value after applying the patch to current.
func (n Nullable[T]) Merge(current *T) *T {
	if !n.Set {
		return current
	}
	return n.Value
}

// UnmarshalJSON marks the field as set whenever the key is present, so an
// explicit null clears the value while an absent key leaves it untouched.
func (n *Nullable[T]) UnmarshalJSON(b []byte) error {
	n.Set = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		n.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	n.Value = &v
	return nil
}

func (n Nullable[T]) MarshalJSON() ([]byte, error) {
	if !n.Set || n.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*n.Value)
}
