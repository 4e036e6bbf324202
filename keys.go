package shardvault

import (
	"sync/atomic"

	"github.com/skralg/shardvault/internal/keystore"
)

// Protect encrypts masterKey under password and stores it under the default
// record name. Storage is durable when Durable reports true and best-effort
// (process-lifetime) otherwise.
func (v *Vault) Protect(masterKey []byte, password string) error {
	return v.ProtectNamed(keystore.DefaultKeyName, masterKey, password)
}

// ProtectNamed is Protect for an explicit logical record name.
func (v *Vault) ProtectNamed(name string, masterKey []byte, password string) error {
	atomic.AddUint64(&v.keyOpCounter, 1)
	return v.keys.Protect(name, masterKey, password)
}

// Reveal recovers the master key stored under the default record name.
// A wrong password and a missing record are deliberately indistinguishable.
func (v *Vault) Reveal(password string) ([]byte, error) {
	return v.RevealNamed(keystore.DefaultKeyName, password)
}

// RevealNamed is Reveal for an explicit logical record name.
func (v *Vault) RevealNamed(name, password string) ([]byte, error) {
	atomic.AddUint64(&v.keyOpCounter, 1)
	return v.keys.Reveal(name, password)
}

// DeleteKey removes the record stored under name from both storage tiers.
func (v *Vault) DeleteKey(name string) error {
	atomic.AddUint64(&v.keyOpCounter, 1)
	return v.keys.Delete(name)
}

// ListKeys returns the names of all stored key records across both tiers.
func (v *Vault) ListKeys() ([]string, error) {
	return v.keys.List()
}
