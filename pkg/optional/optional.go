// Copyright (c) 2026 Darkshelf. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package optional provides a value that remembers whether it was explicitly set.

It is the building block for partial updates: a JSON field that is absent stays
unset, while a field that is present (including an explicit null) is set.
Wrap a pointer type to allow clearing nullable columns:

	var year optional.Value[*int] // absent: untouched, null: cleared, 1999: set
*/
package optional

import "encoding/json"

// Value holds a T together with a presence bit.
type Value[T any] struct {
	value T
	set   bool
}

// Of returns a set [Value] holding v.
func Of[T any](v T) Value[T] {
	return Value[T]{value: v, set: true}
}

// Get returns the held value and whether it was set.
func (o Value[T]) Get() (T, bool) {
	return o.value, o.set
}

// IsSet reports whether the value was explicitly provided.
func (o Value[T]) IsSet() bool {
	return o.set
}

// IsZero reports whether the value is unset, so `omitzero` drops unset fields when encoding.
func (o Value[T]) IsZero() bool {
	return !o.set
}

// UnmarshalJSON marks the value as set, including for a literal null.
func (o *Value[T]) UnmarshalJSON(data []byte) error {
	if err := json.Unmarshal(data, &o.value); err != nil {
		return err
	}
	o.set = true
	return nil
}

// MarshalJSON encodes the held value. Unset values encode as null.
func (o Value[T]) MarshalJSON() ([]byte, error) {
	if !o.set {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}
