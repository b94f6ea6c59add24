package state

import (
	"bytes"
	"encoding/json"
	"errors"
	"reflect"
)

// envelope is what actually lives in the buffer: the payload plus the name
// of the Go type it was encoded from.
type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Store is a single serialized value. The zero value is an empty store ready
// to use.
type Store struct {
	buf []byte
}

// New creates an empty store.
func New() *Store {
	return &Store{}
}

// NewWith creates a store already holding v.
func NewWith(v any) (*Store, error) {
	s := New()
	if err := s.Save(v); err != nil {
		return nil, err
	}
	return s, nil
}

// Get reads the stored value as a T.
func Get[T any](s *Store) (T, error) {
	var out T
	err := s.Load(&out)
	return out, err
}

// Set replaces the stored value with v.
func Set[T any](s *Store, v T) error {
	return s.Save(v)
}

// Save serializes v into the store, replacing whatever was there. Values
// that would not read back identical, such as structs carrying non-zero
// unexported fields, are rejected with an *EncodeError and leave the store
// untouched.
func (s *Store) Save(v any) error {
	if v == nil {
		return &EncodeError{Type: "<nil>", Err: errNilValue}
	}
	t := reflect.TypeOf(v)
	name := typeName(t)

	payload, err := json.Marshal(v)
	if err != nil {
		return &EncodeError{Type: name, Err: err}
	}

	back := reflect.New(t)
	if err := json.Unmarshal(payload, back.Interface()); err != nil {
		return &EncodeError{Type: name, Err: err}
	}
	if !sameValue(reflect.ValueOf(v), back.Elem()) {
		return &EncodeError{Type: name, Err: errLossy}
	}

	out, err := json.Marshal(envelope{Type: name, Payload: payload})
	if err != nil {
		return &EncodeError{Type: name, Err: err}
	}
	s.buf = out
	return nil
}

// Load deserializes the stored value into ptr, which must be a non-nil
// pointer to the type that was last saved.
func (s *Store) Load(ptr any) error {
	rv := reflect.ValueOf(ptr)
	if !rv.IsValid() || rv.Kind() != reflect.Pointer || rv.IsNil() {
		return &DecodeError{Type: "<nil>", Err: errNotPointer}
	}
	want := typeName(rv.Type().Elem())

	env, err := s.envelope()
	if err != nil {
		return err
	}
	if env.Type != want {
		return &TypeMismatchError{Want: want, Have: env.Type}
	}

	// Decode into a fresh value so stale contents of *ptr never leak into
	// the result.
	fresh := reflect.New(rv.Type().Elem())
	if err := json.Unmarshal(env.Payload, fresh.Interface()); err != nil {
		return &DecodeError{Type: want, Err: err}
	}
	rv.Elem().Set(fresh.Elem())
	return nil
}

// TypeName returns the Go type name of the stored value, or "" when empty.
func (s *Store) TypeName() string {
	env, err := s.envelope()
	if err != nil {
		return ""
	}
	return env.Type
}

// Empty reports whether the store holds no value.
func (s *Store) Empty() bool {
	return len(s.buf) == 0
}

// Reset drops the stored value.
func (s *Store) Reset() {
	s.buf = nil
}

// Raw returns a copy of the serialized buffer.
func (s *Store) Raw() []byte {
	return bytes.Clone(s.buf)
}

// SetRaw replaces the buffer with bytes previously obtained from Raw.
func (s *Store) SetRaw(raw []byte) error {
	if len(raw) == 0 {
		s.buf = nil
		return nil
	}
	if _, err := decodeEnvelope(raw); err != nil {
		return err
	}
	s.buf = bytes.Clone(raw)
	return nil
}

func (s *Store) envelope() (envelope, error) {
	if s == nil || len(s.buf) == 0 {
		return envelope{}, ErrEmpty
	}
	return decodeEnvelope(s.buf)
}

func decodeEnvelope(raw []byte) (envelope, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return env, &DecodeError{Type: "envelope", Err: err}
	}
	if env.Type == "" || len(env.Payload) == 0 {
		return env, &DecodeError{Type: "envelope", Err: errors.New("missing type or payload")}
	}
	return env, nil
}

// typeName qualifies named types with their package path so that two
// packages declaring the same type name do not collide.
func typeName(t reflect.Type) string {
	switch t.Kind() {
	case reflect.Pointer:
		return "*" + typeName(t.Elem())
	case reflect.Slice:
		return "[]" + typeName(t.Elem())
	case reflect.Map:
		return "map[" + typeName(t.Key()) + "]" + typeName(t.Elem())
	}
	if t.Name() != "" && t.PkgPath() != "" {
		return t.PkgPath() + "." + t.Name()
	}
	return t.String()
}

var boolType = reflect.TypeOf(true)

// sameValue is reflect.DeepEqual except that types with an Equal(T) bool
// method, such as time.Time, compare through it. Unexported fields are compared too, so anything the encoder dropped shows
// up as a difference.
func sameValue(a, b reflect.Value) bool {
	if a.IsValid() != b.IsValid() {
		return false
	}
	if !a.IsValid() {
		return true
	}
	if a.Type() != b.Type() {
		return false
	}
	if eq, ok := a.Type().MethodByName("Equal"); ok && a.CanInterface() && b.CanInterface() &&
		eq.Type.NumIn() == 2 && eq.Type.In(1) == a.Type() &&
		eq.Type.NumOut() == 1 && eq.Type.Out(0) == boolType {
		return a.MethodByName("Equal").Call([]reflect.Value{b})[0].Bool()
	}

	switch a.Kind() {
	case reflect.Pointer, reflect.Interface:
		if a.IsNil() || b.IsNil() {
			return a.IsNil() == b.IsNil()
		}
		return sameValue(a.Elem(), b.Elem())
	case reflect.Slice:
		if a.IsNil() != b.IsNil() || a.Len() != b.Len() {
			return false
		}
		for i := 0; i < a.Len(); i++ {
			if !sameValue(a.Index(i), b.Index(i)) {
				return false
			}
		}
		return true
	case reflect.Array:
		for i := 0; i < a.Len(); i++ {
			if !sameValue(a.Index(i), b.Index(i)) {
				return false
			}
		}
		return true
	case reflect.Map:
		if a.IsNil() != b.IsNil() || a.Len() != b.Len() {
			return false
		}
		iter := a.MapRange()
		for iter.Next() {
			bv := b.MapIndex(iter.Key())
			if !bv.IsValid() || !sameValue(iter.Value(), bv) {
				return false
			}
		}
		return true
	case reflect.Struct:
		for i := 0; i < a.NumField(); i++ {
			if !sameValue(a.Field(i), b.Field(i)) {
				return false
			}
		}
		return true
	case reflect.Bool:
		return a.Bool() == b.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return a.Int() == b.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return a.Uint() == b.Uint()
	case reflect.Float32, reflect.Float64:
		return a.Float() == b.Float()
	case reflect.Complex64, reflect.Complex128:
		return a.Complex() == b.Complex()
	case reflect.String:
		return a.String() == b.String()
	default:
		// Funcs, channels and unsafe pointers never get past the encoder.
		return false
	}
}
