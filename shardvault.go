// Package shardvault splits secrets into threshold shares over GF(256) and
// protects master keys at rest under password-derived encryption.
//
// The two subsystems are independent: the sharing engines (pkg/shamir) are
// pure computation over an injected randomness source, while the key store
// persists records through a durable BadgerDB tier with an in-memory
// fallback that keeps protect/reveal available within the process when the
// durable tier is broken.
package shardvault

import (
	"crypto/rand"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/sirupsen/logrus"

	"github.com/skralg/shardvault/internal/keystore"
	"github.com/skralg/shardvault/internal/provider"
	"github.com/skralg/shardvault/internal/store"
	"github.com/skralg/shardvault/pkg/spaceinfo"
)

var log *logrus.Logger

// Vault is the library facade. All methods are safe for concurrent use;
// concurrent Protect calls on the same record name are last-writer-wins
// with the record always written as one atomic unit.
type Vault struct {
	badgerDB       *badger.DB // nil when the durable tier is unavailable
	records        *store.Tiered
	keys           *keystore.Store
	config         Config
	splitCounter   uint64
	combineCounter uint64
	keyOpCounter   uint64
}

// Init opens the vault. A durable-store failure (missing space, open error)
// is not fatal: the vault degrades to in-memory records, logs the
// degradation, and Durable reports false so callers know storage is
// best-effort for the life of the process.
func Init(config *Config) (*Vault, error) {
	if config == nil {
		return nil, fmt.Errorf("config for vault must not be nil")
	}
	if config.Logger == nil {
		config.Logger = logrus.New()
	}
	log = config.Logger

	if config.Rand == nil {
		config.Rand = rand.Reader
	}
	if config.Now == nil {
		config.Now = time.Now
	}
	if err := config.checkConfig(); err != nil {
		return nil, fmt.Errorf("error checking config for vault: %w", err)
	}

	var db *badger.DB
	var primary store.RecordStore
	if err := spaceinfo.CheckMinimumFree(config.Paths[0], config.MinimumFreeSpace); err != nil {
		log.WithError(err).Warn("durable store disabled, records will live in memory only")
	} else {
		opts := badger.DefaultOptions(config.Paths[0])
		opts.Logger = nil
		opts.SyncWrites = true

		opened, err := badger.Open(opts)
		if err != nil {
			log.WithError(err).Warn("opening durable store failed, falling back to in-memory records")
		} else {
			db = opened
			primary = store.NewBadger(opened)
			if err := spaceinfo.LogDiskUsage(log, config.Paths); err != nil {
				log.WithError(err).Debug("could not report disk usage")
			}
		}
	}

	tiered := store.NewTiered(primary, store.NewMemory(), config.Logger)
	crypto := &provider.Platform{Rand: config.Rand}

	return &Vault{
		badgerDB: db,
		records:  tiered,
		keys:     keystore.New(tiered, crypto, config.Logger, config.Now),
		config:   *config,
	}, nil
}

// Durable reports whether the durable storage tier is live. When false,
// protected keys survive only as long as the process.
func (v *Vault) Durable() bool {
	return v.records.Durable()
}

// Close releases the durable store. Safe to call when the durable tier
// never opened.
func (v *Vault) Close() error {
	if v.badgerDB == nil {
		return nil
	}
	return v.badgerDB.Close()
}
