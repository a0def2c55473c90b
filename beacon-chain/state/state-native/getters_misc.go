package state_native

import (
	"github.com/gridbox-network/grysm/consensus-types/gbtypes"
	types "github.com/gridbox-network/grysm/consensus-types/primitives"
	"github.com/gridbox-network/grysm/encoding/bytesutil"
	"github.com/pkg/errors"
)

// GenesisTime of the beacon state as a uint64.
func (b *BeaconState) GenesisTime() uint64 {
	b.lock.RLock()
	defer b.lock.RUnlock()

	return b.genesisTime
}

// GenesisValidatorsRoot of the beacon state.
func (b *BeaconState) GenesisValidatorsRoot() []byte {
	b.lock.RLock()
	defer b.lock.RUnlock()

	return bytesutil.SafeCopyBytes(b.genesisValidatorsRoot)
}

// Slot of the current beacon chain state.
func (b *BeaconState) Slot() types.Slot {
	b.lock.RLock()
	defer b.lock.RUnlock()

	return b.slot
}

// Fork version of the beacon chain.
func (b *BeaconState) Fork() *gbtypes.Fork {
	b.lock.RLock()
	defer b.lock.RUnlock()

	return b.fork.Copy()
}

// LatestBlockHeader stored within the beacon state.
func (b *BeaconState) LatestBlockHeader() *gbtypes.BeaconBlockHeader {
	b.lock.RLock()
	defer b.lock.RUnlock()

	return b.latestBlockHeader.Copy()
}

// BlockRoots kept track of in the beacon state.
func (b *BeaconState) BlockRoots() [][]byte {
	b.lock.RLock()
	defer b.lock.RUnlock()

	return bytesutil.SafeCopy2dBytes(b.blockRoots)
}

// BlockRootAtIndex retrieves a specific block root based on an
// input index value.
func (b *BeaconState) BlockRootAtIndex(idx uint64) ([]byte, error) {
	b.lock.RLock()
	defer b.lock.RUnlock()

	if idx >= uint64(len(b.blockRoots)) {
		return nil, errors.Errorf("block root index %d out of bounds %d", idx, len(b.blockRoots))
	}
	return bytesutil.SafeCopyBytes(b.blockRoots[idx]), nil
}
