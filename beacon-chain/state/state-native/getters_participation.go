package state_native

import (
	"github.com/gridbox-network/grysm/beacon-chain/state"
	"github.com/gridbox-network/grysm/encoding/bytesutil"
	"github.com/gridbox-network/grysm/runtime/version"
)

// CurrentEpochParticipation corresponding to participation bits on the beacon chain.
func (b *BeaconState) CurrentEpochParticipation() ([]byte, error) {
	if b.version == version.Phase0 {
		return nil, state.ErrNotSupported("CurrentEpochParticipation", b.version)
	}

	b.lock.RLock()
	defer b.lock.RUnlock()

	return bytesutil.SafeCopyBytes(b.currentEpochParticipation), nil
}

// PreviousEpochParticipation corresponding to participation bits on the beacon chain.
func (b *BeaconState) PreviousEpochParticipation() ([]byte, error) {
	if b.version == version.Phase0 {
		return nil, state.ErrNotSupported("PreviousEpochParticipation", b.version)
	}

	b.lock.RLock()
	defer b.lock.RUnlock()

	return bytesutil.SafeCopyBytes(b.previousEpochParticipation), nil
}

// InactivityScores of validators participating in consensus on the beacon chain.
func (b *BeaconState) InactivityScores() ([]uint64, error) {
	if b.version == version.Phase0 {
		return nil, state.ErrNotSupported("InactivityScores", b.version)
	}

	b.lock.RLock()
	defer b.lock.RUnlock()

	return safeCopyUint64(b.inactivityScores), nil
}
