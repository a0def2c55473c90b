package cache

import (
	"context"
	"sync"

	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/gridbox-network/grysm/config/params"
	types "github.com/gridbox-network/grysm/consensus-types/primitives"
	"github.com/gridbox-network/grysm/container/slice"
	mathutil "github.com/gridbox-network/grysm/math"
)

var (
	// maxCommitteesCacheSize defines the max number of shuffled committees on per randao basis can cache.
	// Due to reorgs and long finality, it's good to keep the old cache around for quickly switch over.
	maxCommitteesCacheSize = 32

	// CommitteeCacheMiss tracks the number of committee requests that aren't present in the cache.
	CommitteeCacheMiss = promauto.NewCounter(prometheus.CounterOpts{
		Name: "committee_cache_miss",
		Help: "The number of committee requests that aren't present in the cache.",
	})
	// CommitteeCacheHit tracks the number of committee requests that are in the cache.
	CommitteeCacheHit = promauto.NewCounter(prometheus.CounterOpts{
		Name: "committee_cache_hit",
		Help: "The number of committee requests that are present in the cache.",
	})
)

// Committees defines the shuffled committees seed.
type Committees struct {
	CommitteeCount  uint64
	Seed            [32]byte
	ShuffledIndices []types.ValidatorIndex
	SortedIndices   []types.ValidatorIndex
}

// CommitteeCache is a struct with 1 LRU cache for looking up shuffled indices list by seed.
type CommitteeCache struct {
	cache      *lru.Cache
	lock       sync.RWMutex
	inProgress map[string]bool
}

// NewCommitteesCache creates a new committee cache for storing/accessing shuffled indices of a committee.
func NewCommitteesCache() (*CommitteeCache, error) {
	c, err := lru.New(maxCommitteesCacheSize)
	if err != nil {
		return nil, err
	}
	return &CommitteeCache{
		cache:      c,
		inProgress: make(map[string]bool),
	}, nil
}

// Committee fetches the shuffled indices by slot and committee index. Every list of shuffled
// indices represents one committee. Returns true if the list exists with slot and committee index.
// Otherwise returns false, nil.
func (c *CommitteeCache) Committee(ctx context.Context, slot types.Slot, seed [32]byte, index types.CommitteeIndex) ([]types.ValidatorIndex, error) {
	if err := c.checkInProgress(ctx, seed); err != nil {
		return nil, err
	}

	c.lock.RLock()
	defer c.lock.RUnlock()

	obj, exists := c.cache.Get(key(seed))
	if !exists {
		CommitteeCacheMiss.Inc()
		return nil, nil
	}
	CommitteeCacheHit.Inc()

	item, ok := obj.(*Committees)
	if !ok {
		return nil, ErrNotCommittee
	}

	committeeCountPerSlot := uint64(1)
	if item.CommitteeCount/uint64(params.BeaconConfig().SlotsPerEpoch) > 1 {
		committeeCountPerSlot = item.CommitteeCount / uint64(params.BeaconConfig().SlotsPerEpoch)
	}

	indexOffSet, err := mathutil.Add64(uint64(index), uint64(slot.ModSlot(params.BeaconConfig().SlotsPerEpoch).Mul(committeeCountPerSlot)))
	if err != nil {
		return nil, err
	}
	start, end := startEndIndices(item, indexOffSet)

	if end > uint64(len(item.ShuffledIndices)) || end < start {
		return nil, errors.New("requested index out of bound")
	}

	return item.ShuffledIndices[start:end], nil
}

// AddCommitteeShuffledList adds Committee shuffled list object to the cache.
// This method also trims the least recently list if the cache size has ready the max cache size limit.
func (c *CommitteeCache) AddCommitteeShuffledList(committees *Committees) error {
	if committees == nil {
		return ErrNotCommittee
	}

	c.lock.Lock()
	defer c.lock.Unlock()

	c.cache.Add(key(committees.Seed), committees)
	return nil
}

// ActiveIndices returns the active indices of a given seed stored in cache.
func (c *CommitteeCache) ActiveIndices(ctx context.Context, seed [32]byte) ([]types.ValidatorIndex, error) {
	if err := c.checkInProgress(ctx, seed); err != nil {
		return nil, err
	}

	c.lock.RLock()
	defer c.lock.RUnlock()

	obj, exists := c.cache.Get(key(seed))
	if !exists {
		CommitteeCacheMiss.Inc()
		return nil, nil
	}
	CommitteeCacheHit.Inc()

	item, ok := obj.(*Committees)
	if !ok {
		return nil, ErrNotCommittee
	}
	return item.SortedIndices, nil
}

// ActiveIndicesCount returns the active indices count of a given seed stored in cache.
func (c *CommitteeCache) ActiveIndicesCount(ctx context.Context, seed [32]byte) (int, error) {
	if err := c.checkInProgress(ctx, seed); err != nil {
		return 0, err
	}

	c.lock.RLock()
	defer c.lock.RUnlock()

	obj, exists := c.cache.Get(key(seed))
	if !exists {
		CommitteeCacheMiss.Inc()
		return 0, nil
	}
	CommitteeCacheHit.Inc()

	item, ok := obj.(*Committees)
	if !ok {
		return 0, ErrNotCommittee
	}
	return len(item.SortedIndices), nil
}

// HasEntry returns true if the committee cache has a value.
func (c *CommitteeCache) HasEntry(seed string) bool {
	c.lock.RLock()
	defer c.lock.RUnlock()

	_, ok := c.cache.Get(seed)
	return ok
}

// MarkInProgress a request so that any other similar requests will block on
// Get until MarkNotInProgress is called.
func (c *CommitteeCache) MarkInProgress(seed [32]byte) error {
	c.lock.Lock()
	defer c.lock.Unlock()

	s := key(seed)
	if c.inProgress[s] {
		return ErrAlreadyInProgress
	}
	c.inProgress[s] = true
	return nil
}

// MarkNotInProgress will release the lock on a given seed. Any requests blocked
// on Get may now resolve.
func (c *CommitteeCache) MarkNotInProgress(seed [32]byte) error {
	c.lock.Lock()
	defer c.lock.Unlock()

	delete(c.inProgress, key(seed))
	return nil
}

// Clear resets the committee cache to its initial state.
func (c *CommitteeCache) Clear() {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.cache.Purge()
	c.inProgress = make(map[string]bool)
}

func (c *CommitteeCache) checkInProgress(ctx context.Context, seed [32]byte) error {
	delay := minDelay
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		c.lock.RLock()
		inProgress := c.inProgress[key(seed)]
		c.lock.RUnlock()
		if !inProgress {
			return nil
		}
		delay = sleepWithBackoff(delay)
	}
}

func startEndIndices(c *Committees, index uint64) (uint64, uint64) {
	validatorCount := uint64(len(c.ShuffledIndices))
	start := slice.SplitOffset(validatorCount, c.CommitteeCount, index)
	end := slice.SplitOffset(validatorCount, c.CommitteeCount, index+1)
	return start, end
}

// Using seed as source for key to handle reorgs in the same epoch.
// The seed is derived from state's array of randao mixes and epoch value
// hashed together. This avoids collisions on different validator set. Spec definition:
// https://github.com/ethereum/consensus-specs/blob/master/specs/phase0/beacon-chain.md#get_seed
func key(seed [32]byte) string {
	return string(seed[:])
}
