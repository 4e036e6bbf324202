package store

import (
	"errors"
	"io"
	"os"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func setupBadger(t *testing.T) (*Badger, func()) {
	t.Helper()
	dir, err := os.MkdirTemp("", "shardvault-store-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		os.RemoveAll(dir)
		t.Fatalf("failed to open badger: %v", err)
	}
	cleanup := func() {
		db.Close()
		os.RemoveAll(dir)
	}
	return NewBadger(db), cleanup
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func testRoundTrip(t *testing.T, s RecordStore) {
	t.Helper()

	_, err := s.Get("missing")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Put("master", []byte(`{"version":2}`)))
	got, err := s.Get("master")
	require.NoError(t, err)
	require.Equal(t, []byte(`{"version":2}`), got)

	// Overwrite wins.
	require.NoError(t, s.Put("master", []byte(`{"version":3}`)))
	got, err = s.Get("master")
	require.NoError(t, err)
	require.Equal(t, []byte(`{"version":3}`), got)

	require.NoError(t, s.Put("backup", []byte("b")))
	names, err := s.List()
	require.NoError(t, err)
	require.Equal(t, []string{"backup", "master"}, names)

	require.NoError(t, s.Delete("master"))
	_, err = s.Get("master")
	require.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, s.Delete("master"), "deleting an absent record is not an error")
}

func TestMemoryRoundTrip(t *testing.T) {
	testRoundTrip(t, NewMemory())
}

func TestBadgerRoundTrip(t *testing.T) {
	s, cleanup := setupBadger(t)
	defer cleanup()
	testRoundTrip(t, s)
}

func TestTieredRoundTrip(t *testing.T) {
	primary, cleanup := setupBadger(t)
	defer cleanup()
	testRoundTrip(t, NewTiered(primary, NewMemory(), quietLogger()))
}

func TestMemoryCopiesRecords(t *testing.T) {
	m := NewMemory()
	record := []byte("mutable")
	require.NoError(t, m.Put("k", record))
	record[0] = 'X'

	got, err := m.Get("k")
	require.NoError(t, err)
	require.Equal(t, []byte("mutable"), got)

	got[0] = 'Y'
	again, err := m.Get("k")
	require.NoError(t, err)
	require.Equal(t, []byte("mutable"), again)
}

// failingStore simulates a durable tier whose every operation errors.
type failingStore struct{}

var errDiskGone = errors.New("simulated disk failure")

func (failingStore) Put(string, []byte) error { return errDiskGone }

func (failingStore) Get(string) ([]byte, error) { return nil, errDiskGone }

func (failingStore) Delete(string) error { return errDiskGone }

func (failingStore) List() ([]string, error) { return nil, errDiskGone }

func TestTieredFallsBackOnPrimaryFailure(t *testing.T) {
	tiered := NewTiered(failingStore{}, NewMemory(), quietLogger())

	require.NoError(t, tiered.Put("master", []byte("record")), "write must succeed via memory")

	got, err := tiered.Get("master")
	require.NoError(t, err)
	require.Equal(t, []byte("record"), got)

	names, err := tiered.List()
	require.NoError(t, err)
	require.Equal(t, []string{"master"}, names)
}

func TestTieredWithoutPrimary(t *testing.T) {
	tiered := NewTiered(nil, NewMemory(), quietLogger())
	require.False(t, tiered.Durable())

	require.NoError(t, tiered.Put("k", []byte("v")))
	got, err := tiered.Get("k")
	require.NoError(t, err)
	require.Equal(t, []byte("v"), got)

	require.NoError(t, tiered.Delete("k"))
	_, err = tiered.Get("k")
	require.ErrorIs(t, err, ErrNotFound)
}

// A record that only ever reached the memory tier must stay readable even
// when the primary tier is healthy but does not hold it.
func TestTieredGetFallsThroughOnNotFound(t *testing.T) {
	primary, cleanup := setupBadger(t)
	defer cleanup()
	memory := NewMemory()
	require.NoError(t, memory.Put("orphan", []byte("memory-only")))

	tiered := NewTiered(primary, memory, quietLogger())
	require.True(t, tiered.Durable())

	got, err := tiered.Get("orphan")
	require.NoError(t, err)
	require.Equal(t, []byte("memory-only"), got)

	_, err = tiered.Get("nowhere")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestTieredDeleteClearsBothTiers(t *testing.T) {
	primary, cleanup := setupBadger(t)
	defer cleanup()
	memory := NewMemory()
	tiered := NewTiered(primary, memory, quietLogger())

	require.NoError(t, primary.Put("k", []byte("durable")))
	require.NoError(t, memory.Put("k", []byte("ephemeral")))

	require.NoError(t, tiered.Delete("k"))
	_, err := primary.Get("k")
	require.ErrorIs(t, err, ErrNotFound)
	_, err = memory.Get("k")
	require.ErrorIs(t, err, ErrNotFound)
}
