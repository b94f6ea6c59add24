// Package state provides the opaque payload shared between suites, hooks and specs.
//
// A Store holds exactly one serialized value. Callers pick the Go type on the
// way in and on the way out:
//   - Set / Save serialize a value into the store, replacing the previous one
//   - Get / Load deserialize it back into the caller's type
//
// The engine never sees the payload's shape. Reading with a type other than
// the one last stored fails with a *TypeMismatchError instead of yielding a
// partially decoded value.
package state
