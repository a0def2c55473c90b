package state_native

import (
	"github.com/gridbox-network/grysm/beacon-chain/state"
	"github.com/gridbox-network/grysm/consensus-types/gbtypes"
	"github.com/gridbox-network/grysm/encoding/bytesutil"
	"github.com/gridbox-network/grysm/runtime/version"
	"github.com/pkg/errors"
	"github.com/prysmaticlabs/go-bitfield"
)

// SetCurrentSyncCommittee for the beacon state.
func (b *BeaconState) SetCurrentSyncCommittee(val *gbtypes.SyncCommittee) error {
	if b.version == version.Phase0 {
		return state.ErrNotSupported("SetCurrentSyncCommittee", b.version)
	}
	if val == nil {
		return errors.New("nil sync committee")
	}

	b.lock.Lock()
	defer b.lock.Unlock()

	b.currentSyncCommittee = val.Copy()
	return nil
}

// SetNextSyncCommittee for the beacon state.
func (b *BeaconState) SetNextSyncCommittee(val *gbtypes.SyncCommittee) error {
	if b.version == version.Phase0 {
		return state.ErrNotSupported("SetNextSyncCommittee", b.version)
	}
	if val == nil {
		return errors.New("nil sync committee")
	}

	b.lock.Lock()
	defer b.lock.Unlock()

	b.nextSyncCommittee = val.Copy()
	return nil
}

// SetCurrentSyncAggregateBits records the participation bits of the latest
// processed sync aggregate for later reward attribution.
func (b *BeaconState) SetCurrentSyncAggregateBits(val bitfield.Bitvector512) error {
	if b.version == version.Phase0 {
		return state.ErrNotSupported("SetCurrentSyncAggregateBits", b.version)
	}

	b.lock.Lock()
	defer b.lock.Unlock()

	b.currentSyncAggregateBits = bitfield.Bitvector512(bytesutil.SafeCopyBytes(val))
	return nil
}
