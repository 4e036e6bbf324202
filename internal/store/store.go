// Package store persists secure key records. The durable tier is BadgerDB;
// an in-memory table keeps the vault usable for the life of the process when
// the durable tier is broken. Records are opaque bytes here — the keystore
// owns their shape.
package store

import "errors"

// ErrNotFound reports that no record exists under the requested name in the
// queried tier(s).
var ErrNotFound = errors.New("store: record not found")

// RecordStore is the key-value capability the secure key store writes
// through. Put must be atomic per name: a concurrent Get never observes a
// partially written record.
type RecordStore interface {
	Put(name string, record []byte) error
	Get(name string) ([]byte, error)
	Delete(name string) error
	List() ([]string, error)
}
