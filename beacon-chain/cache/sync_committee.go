package cache

import (
	"github.com/dgraph-io/ristretto"
	"github.com/pkg/errors"

	"github.com/gridbox-network/grysm/beacon-chain/state"
	fieldparams "github.com/gridbox-network/grysm/config/fieldparams"
	types "github.com/gridbox-network/grysm/consensus-types/primitives"
	"github.com/gridbox-network/grysm/encoding/bytesutil"
)

var (
	// maxSyncCommitteeSize defines the max number of sync committee position maps can cache.
	// 3 should be enough to cover the current and the upcoming sync committee periods.
	maxSyncCommitteeSize = int64(3)

	// syncCommitteeItemCost dictates the cost of each sync committee position map stored in cache.
	syncCommitteeItemCost = int64(1)
)

type syncCommitteeIndexPosition struct {
	currentPositions map[[fieldparams.BLSPubkeyLength]byte][]types.CommitteeIndex
	nextPositions    map[[fieldparams.BLSPubkeyLength]byte][]types.CommitteeIndex
}

// SyncCommitteeCache caches the positions of validator pubkeys within
// the current and next sync committees, keyed by the committee period root.
type SyncCommitteeCache struct {
	cache *ristretto.Cache
}

// NewSyncCommittee initializes and returns a new SyncCommitteeCache.
func NewSyncCommittee() *SyncCommitteeCache {
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 10 * maxSyncCommitteeSize,
		MaxCost:     maxSyncCommitteeSize,
		BufferItems: 64,
	})
	if err != nil {
		panic(err)
	}
	return &SyncCommitteeCache{cache: cache}
}

// CurrentPeriodIndexPosition returns the positions `pubKey` occupies in the
// current period's sync committee stored under `root`. An empty slice means
// the validator is not part of that committee.
func (s *SyncCommitteeCache) CurrentPeriodIndexPosition(root [32]byte, pubKey [fieldparams.BLSPubkeyLength]byte) ([]types.CommitteeIndex, error) {
	pos, err := s.idxPositionInCommittee(root)
	if err != nil {
		return nil, err
	}
	indices, ok := pos.currentPositions[pubKey]
	if !ok {
		return []types.CommitteeIndex{}, nil
	}
	return indices, nil
}

// NextPeriodIndexPosition returns the positions `pubKey` occupies in the next
// period's sync committee stored under `root`.
func (s *SyncCommitteeCache) NextPeriodIndexPosition(root [32]byte, pubKey [fieldparams.BLSPubkeyLength]byte) ([]types.CommitteeIndex, error) {
	pos, err := s.idxPositionInCommittee(root)
	if err != nil {
		return nil, err
	}
	indices, ok := pos.nextPositions[pubKey]
	if !ok {
		return []types.CommitteeIndex{}, nil
	}
	return indices, nil
}

// UpdatePositionsInCommittee updates the position map of input root, walking
// the committees of input state.
func (s *SyncCommitteeCache) UpdatePositionsInCommittee(root [32]byte, st state.ReadOnlyBeaconState) error {
	currentCommittee, err := st.CurrentSyncCommittee()
	if err != nil {
		return err
	}
	if currentCommittee == nil {
		return errors.New("state has no current sync committee")
	}
	nextCommittee, err := st.NextSyncCommittee()
	if err != nil {
		return err
	}

	pos := &syncCommitteeIndexPosition{
		currentPositions: positionsByPubkey(currentCommittee.Pubkeys),
	}
	if nextCommittee != nil {
		pos.nextPositions = positionsByPubkey(nextCommittee.Pubkeys)
	}

	if !s.cache.Set(root[:], pos, syncCommitteeItemCost) {
		return errors.New("could not save sync committee positions in cache")
	}
	s.cache.Wait()
	return nil
}

func (s *SyncCommitteeCache) idxPositionInCommittee(root [32]byte) (*syncCommitteeIndexPosition, error) {
	item, exists := s.cache.Get(root[:])
	if !exists {
		return nil, ErrNonExistingSyncCommitteeKey
	}
	pos, ok := item.(*syncCommitteeIndexPosition)
	if !ok {
		return nil, errNotSyncCommitteeIndexPosition
	}
	return pos, nil
}

func positionsByPubkey(pubkeys [][]byte) map[[fieldparams.BLSPubkeyLength]byte][]types.CommitteeIndex {
	positions := make(map[[fieldparams.BLSPubkeyLength]byte][]types.CommitteeIndex)
	for i, pubkey := range pubkeys {
		p := bytesutil.ToBytes48(pubkey)
		positions[p] = append(positions[p], types.CommitteeIndex(i))
	}
	return positions
}
