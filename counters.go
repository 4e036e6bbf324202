package shardvault

import (
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

// StartOperationCounter logs the vault's operations per second until stop is
// closed. Purely observational; counters reset on every tick.
func (v *Vault) StartOperationCounter(stop <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(1 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				splits := atomic.SwapUint64(&v.splitCounter, 0)
				combines := atomic.SwapUint64(&v.combineCounter, 0)
				keyOps := atomic.SwapUint64(&v.keyOpCounter, 0)
				log.WithFields(logrus.Fields{
					"split_ops":   splits,
					"combine_ops": combines,
					"key_ops":     keyOps,
				}).Info("vault operations per second")
			}
		}
	}()
}
