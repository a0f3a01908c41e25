package envelope

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
)

// Shape turns the raw result.data payload into T.
type Shape[T any] interface {
	Decode(raw []byte) (T, error)
}

// ShapeFunc adapts a function to Shape.
type ShapeFunc[T any] func(raw []byte) (T, error)

// Decode calls f.
func (f ShapeFunc[T]) Decode(raw []byte) (T, error) { return f(raw) }

// Validator is implemented by payload types that reject incomplete data,
// for example a missing required field.
type Validator interface {
	Validate() error
}

// JSONShape decodes with encoding/json. Strict rejects unknown fields.
// A decoded value implementing Validator is validated before it is returned.
type JSONShape[T any] struct {
	Strict bool
}

// Decode implements Shape.
func (s JSONShape[T]) Decode(raw []byte) (T, error) {
	var zero T
	var out T

	dec := json.NewDecoder(bytes.NewReader(raw))
	if s.Strict {
		dec.DisallowUnknownFields()
	}
	if err := dec.Decode(&out); err != nil {
		return zero, err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return zero, errors.New("unexpected data after payload")
	}
	if err := validate(&out); err != nil {
		return zero, err
	}
	return out, nil
}

func validate[T any](out *T) error {
	if v, ok := any(out).(Validator); ok {
		return v.Validate()
	}
	if v, ok := any(*out).(Validator); ok {
		return v.Validate()
	}
	return nil
}
