package listing

import (
	"encoding/json"
	"fmt"
)

// Status tells whether a Field holds a value
type Status uint8

const (
	// StatusNotFound means the text did not yield a usable value
	StatusNotFound Status = iota
	// StatusNotAvailable means the value does not exist or cannot be derived
	StatusNotAvailable
	// StatusFound means the field holds a value
	StatusFound
)

func (s Status) String() string {
	switch s {
	case StatusFound:
		return "found"
	case StatusNotAvailable:
		return "n/a"
	default:
		return "not found"
	}
}

// Field is an extracted value or the reason there is none.
// The zero value is NotFound.
type Field[T any] struct {
	value  T
	status Status
}

// Found wraps a value
func Found[T any](v T) Field[T] {
	return Field[T]{value: v, status: StatusFound}
}

// NotFound is a field the text did not yield
func NotFound[T any]() Field[T] {
	return Field[T]{status: StatusNotFound}
}

// NotAvailable is a field that does not apply
func NotAvailable[T any]() Field[T] {
	return Field[T]{status: StatusNotAvailable}
}

// Get returns the value and whether it was found
func (f Field[T]) Get() (T, bool) {
	return f.value, f.status == StatusFound
}

// OK reports whether the field holds a value
func (f Field[T]) OK() bool {
	return f.status == StatusFound
}

// Status returns the field state
func (f Field[T]) Status() Status {
	return f.status
}

// String renders the value, or the status when there is none
func (f Field[T]) String() string {
	if f.status == StatusFound {
		return fmt.Sprint(f.value)
	}
	return f.status.String()
}

// MarshalJSON encodes the value, or null when there is none
func (f Field[T]) MarshalJSON() ([]byte, error) {
	if f.status != StatusFound {
		return []byte("null"), nil
	}
	return json.Marshal(f.value)
}

// UnmarshalJSON decodes a value as Found and null as NotFound
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = NotFound[T]()
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = Found(v)
	return nil
}
