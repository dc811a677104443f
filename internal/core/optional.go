package core

import "encoding/json"

// Optional is a patch field for nullable columns. It distinguishes a field
// that was absent from the payload (Set false) from an explicit null
// (Set true, Null true) and from a value.
type Optional[T any] struct {
	Set   bool
	Null  bool
	Value T
}

// Some returns an Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: v}
}

// Null returns an Optional that clears the column.
func Null[T any]() Optional[T] {
	return Optional[T]{Set: true, Null: true}
}

func (o *Optional[T]) UnmarshalJSON(b []byte) error {
	o.Set = true
	if string(b) == "null" {
		var zero T
		o.Null, o.Value = true, zero
		return nil
	}
	o.Null = false
	return json.Unmarshal(b, &o.Value)
}

// Ptr converts the value to the pointer form used by entities.
func (o Optional[T]) Ptr() *T {
	if !o.Set || o.Null {
		return nil
	}
	v := o.Value
	return &v
}

// apply writes the optional into dst when it was present in the payload.
func (o Optional[T]) apply(dst **T) {
	if o.Set {
		*dst = o.Ptr()
	}
}
