package store

import (
	"errors"
	"sort"

	"github.com/sirupsen/logrus"
)

// Tiered composes the durable tier with the in-memory fallback. Writes go to
// the durable tier first and degrade to memory on any failure; reads try the
// durable tier first and fall through to memory, so a record written during
// an outage stays reachable within the process. A nil primary means the
// durable tier never opened.
type Tiered struct {
	primary  RecordStore
	fallback RecordStore
	log      *logrus.Logger
}

// NewTiered builds the two-tier store. fallback must not be nil.
func NewTiered(primary, fallback RecordStore, log *logrus.Logger) *Tiered {
	return &Tiered{primary: primary, fallback: fallback, log: log}
}

// Durable reports whether the durable tier is present. When false, callers
// must treat storage as best-effort for the life of the process.
func (t *Tiered) Durable() bool {
	return t.primary != nil
}

func (t *Tiered) Put(name string, record []byte) error {
	if t.primary != nil {
		err := t.primary.Put(name, record)
		if err == nil {
			return nil
		}
		t.log.WithError(err).WithField("record", name).
			Warn("durable store write failed, keeping record in memory only")
	}
	return t.fallback.Put(name, record)
}

func (t *Tiered) Get(name string) ([]byte, error) {
	if t.primary != nil {
		record, err := t.primary.Get(name)
		if err == nil {
			return record, nil
		}
		if !errors.Is(err, ErrNotFound) {
			t.log.WithError(err).WithField("record", name).
				Warn("durable store read failed, trying memory")
		}
	}
	return t.fallback.Get(name)
}

// Delete removes the record from both tiers. A failure in the durable tier
// is reported after the memory tier has been cleaned up.
func (t *Tiered) Delete(name string) error {
	var primaryErr error
	if t.primary != nil {
		primaryErr = t.primary.Delete(name)
	}
	if err := t.fallback.Delete(name); err != nil {
		return err
	}
	return primaryErr
}

// List returns the union of both tiers' record names, sorted.
func (t *Tiered) List() ([]string, error) {
	seen := make(map[string]bool)
	if t.primary != nil {
		names, err := t.primary.List()
		if err != nil {
			t.log.WithError(err).Warn("durable store list failed, reporting memory records only")
		} else {
			for _, name := range names {
				seen[name] = true
			}
		}
	}
	names, err := t.fallback.List()
	if err != nil {
		return nil, err
	}
	for _, name := range names {
		seen[name] = true
	}

	merged := make([]string, 0, len(seen))
	for name := range seen {
		merged = append(merged, name)
	}
	sort.Strings(merged)
	return merged, nil
}
