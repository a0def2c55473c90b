package state_native

import (
	"github.com/gridbox-network/grysm/consensus-types/gbtypes"
	types "github.com/gridbox-network/grysm/consensus-types/primitives"
	"github.com/prysmaticlabs/go-bitfield"
)

// JustificationBits marking which epochs justified on the beacon chain.
func (b *BeaconState) JustificationBits() bitfield.Bitvector4 {
	b.lock.RLock()
	defer b.lock.RUnlock()

	res := make([]byte, len(b.justificationBits.Bytes()))
	copy(res, b.justificationBits.Bytes())
	return res
}

// PreviousJustifiedCheckpoint denoting an epoch and block root.
func (b *BeaconState) PreviousJustifiedCheckpoint() *gbtypes.Checkpoint {
	b.lock.RLock()
	defer b.lock.RUnlock()

	return b.previousJustifiedCheckpoint.Copy()
}

// CurrentJustifiedCheckpoint denoting an epoch and block root.
func (b *BeaconState) CurrentJustifiedCheckpoint() *gbtypes.Checkpoint {
	b.lock.RLock()
	defer b.lock.RUnlock()

	return b.currentJustifiedCheckpoint.Copy()
}

// MatchCurrentJustifiedCheckpoint returns true if input checkpoint matches
// the current justified checkpoint in state.
func (b *BeaconState) MatchCurrentJustifiedCheckpoint(c *gbtypes.Checkpoint) bool {
	b.lock.RLock()
	defer b.lock.RUnlock()

	return c.Equal(b.currentJustifiedCheckpoint)
}

// MatchPreviousJustifiedCheckpoint returns true if the input checkpoint matches
// the previous justified checkpoint in state.
func (b *BeaconState) MatchPreviousJustifiedCheckpoint(c *gbtypes.Checkpoint) bool {
	b.lock.RLock()
	defer b.lock.RUnlock()

	return c.Equal(b.previousJustifiedCheckpoint)
}

// FinalizedCheckpoint denoting an epoch and block root.
func (b *BeaconState) FinalizedCheckpoint() *gbtypes.Checkpoint {
	b.lock.RLock()
	defer b.lock.RUnlock()

	return b.finalizedCheckpoint.Copy()
}

// FinalizedCheckpointEpoch returns the epoch value of the finalized checkpoint.
func (b *BeaconState) FinalizedCheckpointEpoch() types.Epoch {
	b.lock.RLock()
	defer b.lock.RUnlock()

	if b.finalizedCheckpoint == nil {
		return 0
	}
	return b.finalizedCheckpoint.Epoch
}
