package service

import (
	"bytes"
	"encoding/json"
	"errors"
)

// Optional is a JSON request field that records whether the key was present,
// whether it was an explicit null, and whether its value had the wrong JSON
// type. A wrong type is kept as Invalid instead of failing the whole decode so
// the service can answer with a field-specific validation message.
type Optional[T any] struct {
	Set     bool
	Null    bool
	Invalid bool
	Value   T
}

// Some returns a present, non-null Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: v}
}

// Null returns a present Optional that carried an explicit JSON null.
func Null[T any]() Optional[T] {
	return Optional[T]{Set: true, Null: true}
}

// Wrong returns a present Optional whose JSON value had the wrong type.
func Wrong[T any]() Optional[T] {
	return Optional[T]{Set: true, Invalid: true}
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	*o = Optional[T]{Set: true}
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Null = true
		return nil
	}
	if err := json.Unmarshal(data, &o.Value); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			o.Invalid = true
			return nil
		}
		return err
	}
	return nil
}

// HasValue reports whether the field was present with a well-typed, non-null value.
func (o Optional[T]) HasValue() bool {
	return o.Set && !o.Null && !o.Invalid
}
