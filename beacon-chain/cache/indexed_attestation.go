package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/gridbox-network/grysm/config/params"
	"github.com/gridbox-network/grysm/consensus-types/gbtypes"
)

// IndexedAttestationCache memoizes attestation data root to indexed
// attestation conversions for the duration of a block's processing, so the
// same attestation appearing twice in one block does not recompute committees.
type IndexedAttestationCache struct {
	c *gocache.Cache
}

// NewIndexedAttestationCache creates a TTL keyed store for converted
// indexed attestations. Entries expire after one epoch.
func NewIndexedAttestationCache() *IndexedAttestationCache {
	secsInEpoch := time.Duration(uint64(params.BeaconConfig().SlotsPerEpoch) * params.BeaconConfig().SecondsPerSlot)
	return &IndexedAttestationCache{
		c: gocache.New(secsInEpoch*time.Second, secsInEpoch*time.Second),
	}
}

// Get retrieves the memoized indexed attestation for an attestation data root,
// or nil if none was recorded.
func (c *IndexedAttestationCache) Get(dataRoot [32]byte) *gbtypes.IndexedAttestation {
	item, exists := c.c.Get(string(dataRoot[:]))
	if !exists {
		return nil
	}
	att, ok := item.(*gbtypes.IndexedAttestation)
	if !ok {
		return nil
	}
	return att
}

// Put records the indexed attestation converted from the attestation with the
// given data root.
func (c *IndexedAttestationCache) Put(dataRoot [32]byte, att *gbtypes.IndexedAttestation) {
	if att == nil {
		return
	}
	c.c.SetDefault(string(dataRoot[:]), att)
}
