package helpers

import (
	"fmt"

	"github.com/gridbox-network/grysm/beacon-chain/state"
	"github.com/gridbox-network/grysm/config/params"
	"github.com/gridbox-network/grysm/consensus-types/gbtypes"
	types "github.com/gridbox-network/grysm/consensus-types/primitives"
	"github.com/gridbox-network/grysm/time/slots"
	"github.com/pkg/errors"
)

// VerifyNilBeaconBlock checks if any composite field of the input signed beacon block is nil.
// Access to these nil fields will result in run time panic, it is recommended
// to run these checks as first line of defense.
func VerifyNilBeaconBlock(b *gbtypes.SignedBeaconBlock) error {
	if b == nil {
		return errors.New("signed beacon block can't be nil")
	}
	if b.Block == nil {
		return errors.New("beacon block can't be nil")
	}
	if b.Block.Body == nil {
		return errors.New("beacon block body can't be nil")
	}
	return nil
}

// BlockRoot returns the block root stored in the beacon state for epoch start slot.
//
// Spec pseudocode definition:
//  def get_block_root(state: BeaconState, epoch: Epoch) -> Root:
//    """
//    Return the block root at the start of a recent ``epoch``.
//    """
//    return get_block_root_at_slot(state, compute_start_slot_at_epoch(epoch))
func BlockRoot(state state.ReadOnlyBeaconState, epoch types.Epoch) ([]byte, error) {
	s, err := slots.EpochStart(epoch)
	if err != nil {
		return nil, err
	}
	return BlockRootAtSlot(state, s)
}

// BlockRootAtSlot returns the block root stored in the beacon state for a recent slot.
// It returns an error if the requested block root is not within the slot range.
//
// Spec pseudocode definition:
//  def get_block_root_at_slot(state: BeaconState, slot: Slot) -> Root:
//    """
//    Return the block root at a recent ``slot``.
//    """
//    assert slot < state.slot <= slot + SLOTS_PER_HISTORICAL_ROOT
//    return state.block_roots[slot % SLOTS_PER_HISTORICAL_ROOT]
func BlockRootAtSlot(state state.ReadOnlyBeaconState, slot types.Slot) ([]byte, error) {
	if slot >= state.Slot() || state.Slot() > slot+params.BeaconConfig().SlotsPerHistoricalRoot {
		return []byte{}, fmt.Errorf("slot %d out of bounds", slot)
	}
	return state.BlockRootAtIndex(uint64(slot.ModSlot(params.BeaconConfig().SlotsPerHistoricalRoot)))
}
