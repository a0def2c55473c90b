package cache

import (
	"sync"

	lru "github.com/hashicorp/golang-lru"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	types "github.com/gridbox-network/grysm/consensus-types/primitives"
)

var (
	// maxProposerIndicesCacheSize defines the max number of proposer indices on per block root basis can cache.
	// Due to reorgs, it's good to keep the old cache around for quickly switch over.
	maxProposerIndicesCacheSize = 8

	// ProposerIndicesCacheMiss tracks the number of proposerIndices requests that aren't present in the cache.
	ProposerIndicesCacheMiss = promauto.NewCounter(prometheus.CounterOpts{
		Name: "proposer_indices_cache_miss",
		Help: "The number of proposer indices requests that aren't present in the cache.",
	})
	// ProposerIndicesCacheHit tracks the number of proposerIndices requests that are in the cache.
	ProposerIndicesCacheHit = promauto.NewCounter(prometheus.CounterOpts{
		Name: "proposer_indices_cache_hit",
		Help: "The number of proposer indices requests that are present in the cache.",
	})
)

// ProposerIndices defines the cached proposer indices of an epoch, keyed by
// the block root the duties were computed against.
type ProposerIndices struct {
	BlockRoot       [32]byte
	ProposerIndices []types.ValidatorIndex
}

// ProposerIndicesCache is a struct with 1 LRU cache for looking up proposer indices by root.
type ProposerIndicesCache struct {
	cache *lru.Cache
	lock  sync.RWMutex
}

// NewProposerIndicesCache creates a new proposer indices cache for storing/accessing proposer index on per epoch basis.
func NewProposerIndicesCache() (*ProposerIndicesCache, error) {
	c, err := lru.New(maxProposerIndicesCacheSize)
	if err != nil {
		return nil, err
	}
	return &ProposerIndicesCache{cache: c}, nil
}

// AddProposerIndices adds ProposerIndices object to the cache.
// This method also trims the least recently added ProposerIndices object if the cache size has reached the max cache
// size limit.
func (c *ProposerIndicesCache) AddProposerIndices(p *ProposerIndices) error {
	if p == nil {
		return ErrNotProposerIndices
	}

	c.lock.Lock()
	defer c.lock.Unlock()

	c.cache.Add(p.BlockRoot, p)
	return nil
}

// ProposerIndices returns the proposer indices of a block root seed.
func (c *ProposerIndicesCache) ProposerIndices(r [32]byte) ([]types.ValidatorIndex, error) {
	c.lock.RLock()
	defer c.lock.RUnlock()

	obj, exists := c.cache.Get(r)
	if !exists {
		ProposerIndicesCacheMiss.Inc()
		return nil, nil
	}
	ProposerIndicesCacheHit.Inc()

	item, ok := obj.(*ProposerIndices)
	if !ok {
		return nil, ErrNotProposerIndices
	}
	return item.ProposerIndices, nil
}

// HasProposerIndices returns the proposer indices of a block root seed.
func (c *ProposerIndicesCache) HasProposerIndices(r [32]byte) bool {
	c.lock.RLock()
	defer c.lock.RUnlock()

	return c.cache.Contains(r)
}
