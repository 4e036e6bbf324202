package shardvault

import (
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"
)

// Config controls how Init opens the vault.
type Config struct {
	// Paths holds the directories considered for the durable store. The
	// first entry is where BadgerDB is opened.
	Paths []string

	// MinimumFreeSpace is the free space in GB required on the durable
	// store's volume before it is opened. Zero disables the check.
	MinimumFreeSpace int

	// Logger receives the vault's structured logs. A default logger is
	// created when nil.
	Logger *logrus.Logger

	// Rand supplies polynomial coefficients, salts and nonces. Defaults
	// to crypto/rand.Reader. Inject a fixed source only in tests.
	Rand io.Reader

	// Now supplies record timestamps. Defaults to time.Now.
	Now func() time.Time
}

func (c *Config) checkConfig() error {
	if len(c.Paths) == 0 {
		return fmt.Errorf("config needs at least one storage path")
	}
	for _, path := range c.Paths {
		if path == "" {
			return fmt.Errorf("storage paths must not be empty")
		}
	}
	if c.MinimumFreeSpace < 0 {
		return fmt.Errorf("minimum free space must not be negative")
	}
	return nil
}
