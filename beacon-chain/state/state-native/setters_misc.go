package state_native

import (
	"github.com/gridbox-network/grysm/consensus-types/gbtypes"
	types "github.com/gridbox-network/grysm/consensus-types/primitives"
	"github.com/gridbox-network/grysm/encoding/bytesutil"
	"github.com/pkg/errors"
	"github.com/prysmaticlabs/go-bitfield"
)

// SetSlot for the beacon chain.
func (b *BeaconState) SetSlot(val types.Slot) error {
	b.lock.Lock()
	defer b.lock.Unlock()

	b.slot = val
	return nil
}

// SetFork version for the beacon chain.
func (b *BeaconState) SetFork(val *gbtypes.Fork) error {
	if val == nil {
		return errors.New("nil fork")
	}

	b.lock.Lock()
	defer b.lock.Unlock()

	b.fork = val.Copy()
	return nil
}

// SetLatestBlockHeader in the beacon state.
func (b *BeaconState) SetLatestBlockHeader(val *gbtypes.BeaconBlockHeader) error {
	if val == nil {
		return errors.New("nil latest block header")
	}

	b.lock.Lock()
	defer b.lock.Unlock()

	b.latestBlockHeader = val.Copy()
	return nil
}

// UpdateBlockRootAtIndex for the beacon chain.
func (b *BeaconState) UpdateBlockRootAtIndex(idx uint64, blockRoot [32]byte) error {
	b.lock.Lock()
	defer b.lock.Unlock()

	if idx >= uint64(len(b.blockRoots)) {
		return errors.Errorf("block root index %d out of bounds %d", idx, len(b.blockRoots))
	}
	r := make([]byte, 32)
	copy(r, blockRoot[:])
	b.blockRoots[idx] = r
	return nil
}

// SetRandaoMixes for the beacon state.
func (b *BeaconState) SetRandaoMixes(val [][]byte) error {
	b.lock.Lock()
	defer b.lock.Unlock()

	b.randaoMixes = bytesutil.SafeCopy2dBytes(val)
	return nil
}

// UpdateRandaoMixesAtIndex for the beacon state.
func (b *BeaconState) UpdateRandaoMixesAtIndex(idx uint64, val []byte) error {
	b.lock.Lock()
	defer b.lock.Unlock()

	if idx >= uint64(len(b.randaoMixes)) {
		return errors.Errorf("randao mix index %d out of bounds %d", idx, len(b.randaoMixes))
	}
	b.randaoMixes[idx] = bytesutil.SafeCopyBytes(val)
	return nil
}

// SetJustificationBits for the beacon state.
func (b *BeaconState) SetJustificationBits(val bitfield.Bitvector4) error {
	b.lock.Lock()
	defer b.lock.Unlock()

	b.justificationBits = bitfield.Bitvector4(bytesutil.SafeCopyBytes(val))
	return nil
}

// SetPreviousJustifiedCheckpoint for the beacon state.
func (b *BeaconState) SetPreviousJustifiedCheckpoint(val *gbtypes.Checkpoint) error {
	if val == nil {
		return errors.New("nil checkpoint")
	}

	b.lock.Lock()
	defer b.lock.Unlock()

	b.previousJustifiedCheckpoint = val.Copy()
	return nil
}

// SetCurrentJustifiedCheckpoint for the beacon state.
func (b *BeaconState) SetCurrentJustifiedCheckpoint(val *gbtypes.Checkpoint) error {
	if val == nil {
		return errors.New("nil checkpoint")
	}

	b.lock.Lock()
	defer b.lock.Unlock()

	b.currentJustifiedCheckpoint = val.Copy()
	return nil
}

// SetFinalizedCheckpoint for the beacon state.
func (b *BeaconState) SetFinalizedCheckpoint(val *gbtypes.Checkpoint) error {
	if val == nil {
		return errors.New("nil checkpoint")
	}

	b.lock.Lock()
	defer b.lock.Unlock()

	b.finalizedCheckpoint = val.Copy()
	return nil
}
