package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v4"
)

// recordPrefix namespaces secure records inside the shared BadgerDB.
const recordPrefix = "secure:"

// Badger is the durable record tier. Each Put runs in its own transaction,
// so a record is either fully visible or absent.
type Badger struct {
	db *badger.DB
}

// NewBadger wraps an already-open BadgerDB handle.
func NewBadger(db *badger.DB) *Badger {
	return &Badger{db: db}
}

func recordKey(name string) []byte {
	return []byte(recordPrefix + name)
}

func (b *Badger) Put(name string, record []byte) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(recordKey(name), record)
	})
	if err != nil {
		return fmt.Errorf("writing record %q: %w", name, err)
	}
	return nil
}

func (b *Badger) Get(name string) ([]byte, error) {
	var record []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(recordKey(name))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			record = append([]byte(nil), val...)
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("reading record %q: %w", name, err)
	}
	return record, nil
}

func (b *Badger) Delete(name string) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(recordKey(name))
	})
	if err != nil {
		return fmt.Errorf("deleting record %q: %w", name, err)
	}
	return nil
}

func (b *Badger) List() ([]string, error) {
	var names []string
	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(recordPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			key := string(it.Item().KeyCopy(nil))
			names = append(names, strings.TrimPrefix(key, recordPrefix))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}
	return names, nil
}
