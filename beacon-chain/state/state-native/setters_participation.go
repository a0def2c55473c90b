package state_native

import (
	"github.com/gridbox-network/grysm/beacon-chain/state"
	"github.com/gridbox-network/grysm/encoding/bytesutil"
	"github.com/gridbox-network/grysm/runtime/version"
)

// SetCurrentParticipationBits for the beacon state. Updates the entire
// list to a new value by overwriting the previous one.
func (b *BeaconState) SetCurrentParticipationBits(val []byte) error {
	if b.version == version.Phase0 {
		return state.ErrNotSupported("SetCurrentParticipationBits", b.version)
	}

	b.lock.Lock()
	defer b.lock.Unlock()

	b.currentEpochParticipation = bytesutil.SafeCopyBytes(val)
	return nil
}

// SetPreviousParticipationBits for the beacon state. Updates the entire
// list to a new value by overwriting the previous one.
func (b *BeaconState) SetPreviousParticipationBits(val []byte) error {
	if b.version == version.Phase0 {
		return state.ErrNotSupported("SetPreviousParticipationBits", b.version)
	}

	b.lock.Lock()
	defer b.lock.Unlock()

	b.previousEpochParticipation = bytesutil.SafeCopyBytes(val)
	return nil
}

// AppendCurrentParticipationBits for the beacon state. Appends the new value
// to the end of list.
func (b *BeaconState) AppendCurrentParticipationBits(val byte) error {
	if b.version == version.Phase0 {
		return state.ErrNotSupported("AppendCurrentParticipationBits", b.version)
	}

	b.lock.Lock()
	defer b.lock.Unlock()

	b.currentEpochParticipation = append(b.currentEpochParticipation, val)
	return nil
}

// AppendPreviousParticipationBits for the beacon state. Appends the new value
// to the end of list.
func (b *BeaconState) AppendPreviousParticipationBits(val byte) error {
	if b.version == version.Phase0 {
		return state.ErrNotSupported("AppendPreviousParticipationBits", b.version)
	}

	b.lock.Lock()
	defer b.lock.Unlock()

	b.previousEpochParticipation = append(b.previousEpochParticipation, val)
	return nil
}

// ModifyCurrentParticipationBits modifies the current participation bitfield via
// the provided mutator function.
func (b *BeaconState) ModifyCurrentParticipationBits(mutator func(val []byte) ([]byte, error)) error {
	if b.version == version.Phase0 {
		return state.ErrNotSupported("ModifyCurrentParticipationBits", b.version)
	}

	b.lock.Lock()
	defer b.lock.Unlock()

	participation, err := mutator(bytesutil.SafeCopyBytes(b.currentEpochParticipation))
	if err != nil {
		return err
	}
	b.currentEpochParticipation = participation
	return nil
}

// ModifyPreviousParticipationBits modifies the previous participation bitfield via
// the provided mutator function.
func (b *BeaconState) ModifyPreviousParticipationBits(mutator func(val []byte) ([]byte, error)) error {
	if b.version == version.Phase0 {
		return state.ErrNotSupported("ModifyPreviousParticipationBits", b.version)
	}

	b.lock.Lock()
	defer b.lock.Unlock()

	participation, err := mutator(bytesutil.SafeCopyBytes(b.previousEpochParticipation))
	if err != nil {
		return err
	}
	b.previousEpochParticipation = participation
	return nil
}

// SetInactivityScores for the beacon state. Updates the entire
// list to a new value by overwriting the previous one.
func (b *BeaconState) SetInactivityScores(val []uint64) error {
	if b.version == version.Phase0 {
		return state.ErrNotSupported("SetInactivityScores", b.version)
	}

	b.lock.Lock()
	defer b.lock.Unlock()

	b.inactivityScores = safeCopyUint64(val)
	return nil
}

// AppendInactivityScore for the beacon state. Appends the new value
// to the end of list.
func (b *BeaconState) AppendInactivityScore(s uint64) error {
	if b.version == version.Phase0 {
		return state.ErrNotSupported("AppendInactivityScore", b.version)
	}

	b.lock.Lock()
	defer b.lock.Unlock()

	b.inactivityScores = append(b.inactivityScores, s)
	return nil
}
