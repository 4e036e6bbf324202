package shardvault

import (
	"fmt"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/skralg/shardvault/pkg/shamir"
)

// SplitSecret splits text into total shares of which any threshold
// reconstruct it. The shares are transportable strings; hand each one to a
// different custodian.
func (v *Vault) SplitSecret(text string, encoding shamir.Encoding, total, threshold int) ([]*shamir.Share, error) {
	atomic.AddUint64(&v.splitCounter, 1)

	secret, err := shamir.NewSecret(text, encoding)
	if err != nil {
		return nil, err
	}
	shares, err := shamir.Split(secret, total, threshold, v.config.Rand)
	if err != nil {
		return nil, fmt.Errorf("splitting secret: %w", err)
	}

	log.WithFields(logrus.Fields{
		"shares":    total,
		"threshold": threshold,
	}).Debug("split secret")
	return shares, nil
}

// CombineShares reconstructs the secret text from the supplied shares.
// Supplying fewer shares than the split-time threshold yields a wrong
// secret, not an error; see shamir.Combine.
func (v *Vault) CombineShares(shares []*shamir.Share) (string, error) {
	atomic.AddUint64(&v.combineCounter, 1)
	return shamir.CombineText(shares)
}

// CombineSerialized parses serialized share strings and reconstructs the
// secret text. The encoding tag is supplied out of band because the share
// payload intentionally does not carry it.
func (v *Vault) CombineSerialized(values []string, encoding shamir.Encoding) (string, error) {
	shares := make([]*shamir.Share, len(values))
	for i, value := range values {
		share, err := shamir.ParseShare(value, encoding)
		if err != nil {
			return "", fmt.Errorf("share %d: %w", i, err)
		}
		shares[i] = share
	}
	return v.CombineShares(shares)
}
