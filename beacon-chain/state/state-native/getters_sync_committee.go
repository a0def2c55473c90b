package state_native

import (
	"github.com/gridbox-network/grysm/beacon-chain/state"
	"github.com/gridbox-network/grysm/consensus-types/gbtypes"
	"github.com/gridbox-network/grysm/encoding/bytesutil"
	"github.com/gridbox-network/grysm/runtime/version"
	"github.com/prysmaticlabs/go-bitfield"
)

// CurrentSyncCommittee of the current sync committee in beacon chain state.
func (b *BeaconState) CurrentSyncCommittee() (*gbtypes.SyncCommittee, error) {
	if b.version == version.Phase0 {
		return nil, state.ErrNotSupported("CurrentSyncCommittee", b.version)
	}

	b.lock.RLock()
	defer b.lock.RUnlock()

	if b.currentSyncCommittee == nil {
		return nil, nil
	}
	return b.currentSyncCommittee.Copy(), nil
}

// NextSyncCommittee of the next sync committee in beacon chain state.
func (b *BeaconState) NextSyncCommittee() (*gbtypes.SyncCommittee, error) {
	if b.version == version.Phase0 {
		return nil, state.ErrNotSupported("NextSyncCommittee", b.version)
	}

	b.lock.RLock()
	defer b.lock.RUnlock()

	if b.nextSyncCommittee == nil {
		return nil, nil
	}
	return b.nextSyncCommittee.Copy(), nil
}

// CurrentSyncAggregateBits returns the participation bits recorded from the
// latest processed sync aggregate.
func (b *BeaconState) CurrentSyncAggregateBits() (bitfield.Bitvector512, error) {
	if b.version == version.Phase0 {
		return nil, state.ErrNotSupported("CurrentSyncAggregateBits", b.version)
	}

	b.lock.RLock()
	defer b.lock.RUnlock()

	return bytesutil.SafeCopyBytes(b.currentSyncAggregateBits), nil
}
