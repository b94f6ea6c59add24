package state

import (
	"errors"
	"fmt"
)

// ErrEmpty is returned when reading from a store that holds no value.
var ErrEmpty = errors.New("state: store is empty")

var (
	errNilValue   = errors.New("nil value")
	errNotPointer = errors.New("target must be a non-nil pointer")
	errLossy      = errors.New("value does not survive a round trip; unexported fields and interface fields holding non-JSON types cannot be stored")
)

// TypeMismatchError is returned when a read asks for a type other than the
// one currently stored.
type TypeMismatchError struct {
	Want string
	Have string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("state: cannot read %s as %s", e.Have, e.Want)
}

// EncodeError wraps a failure to serialize a value into the store.
type EncodeError struct {
	Type string
	Err  error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("state: could not serialize %s: %v", e.Type, e.Err)
}

func (e *EncodeError) Unwrap() error {
	return e.Err
}

// DecodeError wraps a failure to deserialize the stored bytes.
type DecodeError struct {
	Type string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("state: could not deserialize %s: %v", e.Type, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
