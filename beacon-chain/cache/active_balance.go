package cache

import (
	"sync"

	lru "github.com/hashicorp/golang-lru"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/gridbox-network/grysm/beacon-chain/state"
	"github.com/gridbox-network/grysm/config/params"
	"github.com/gridbox-network/grysm/encoding/bytesutil"
	"github.com/gridbox-network/grysm/time/slots"
)

var (
	// maxBalanceCacheSize defines the max number of active balances can cache.
	maxBalanceCacheSize = 8

	// Metrics.
	balanceCacheMiss = promauto.NewCounter(prometheus.CounterOpts{
		Name: "total_effective_balance_cache_miss",
		Help: "The number of get requests that aren't present in the cache.",
	})
	balanceCacheHit = promauto.NewCounter(prometheus.CounterOpts{
		Name: "total_effective_balance_cache_hit",
		Help: "The number of get requests that are present in the cache.",
	})
)

// BalanceCache is a struct with 1 LRU cache for looking up total active balance by epoch.
type BalanceCache struct {
	cache *lru.Cache
	lock  sync.RWMutex
}

// NewEffectiveBalanceCache creates a new effective balance cache for storing/accessing total balance by epoch.
func NewEffectiveBalanceCache() (*BalanceCache, error) {
	c, err := lru.New(maxBalanceCacheSize)
	if err != nil {
		return nil, err
	}
	return &BalanceCache{cache: c}, nil
}

// AddTotalEffectiveBalance adds a new total effective balance entry for current balance for state `st` into the cache.
func (c *BalanceCache) AddTotalEffectiveBalance(st state.ReadOnlyBeaconState, balance uint64) error {
	key, err := balanceCacheKey(st)
	if err != nil {
		return err
	}

	c.lock.Lock()
	defer c.lock.Unlock()

	c.cache.Add(key, balance)
	return nil
}

// Get returns the current epoch's effective balance for state `st` in cache.
func (c *BalanceCache) Get(st state.ReadOnlyBeaconState) (uint64, error) {
	key, err := balanceCacheKey(st)
	if err != nil {
		return 0, err
	}

	c.lock.RLock()
	defer c.lock.RUnlock()

	value, exists := c.cache.Get(key)
	if !exists {
		balanceCacheMiss.Inc()
		return 0, ErrNotFound
	}
	balanceCacheHit.Inc()
	return value.(uint64), nil
}

// Given input state `st`, balance key is constructed as:
// (current_epoch + current_epoch_randao_mix)
func balanceCacheKey(st state.ReadOnlyBeaconState) (string, error) {
	currentEpoch := slots.ToEpoch(st.Slot())
	mixIdx := uint64(currentEpoch) % uint64(params.BeaconConfig().EpochsPerHistoricalVector)
	mix, err := st.RandaoMixAtIndex(mixIdx)
	if err != nil {
		return "", err
	}
	b := append(bytesutil.Bytes8(uint64(currentEpoch)), mix...)
	return string(b), nil
}
