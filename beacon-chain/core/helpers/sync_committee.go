package helpers

import (
	"bytes"

	"github.com/gridbox-network/grysm/beacon-chain/cache"
	"github.com/gridbox-network/grysm/beacon-chain/state"
	fieldparams "github.com/gridbox-network/grysm/config/fieldparams"
	types "github.com/gridbox-network/grysm/consensus-types/primitives"
	"github.com/gridbox-network/grysm/crypto/hash"
	"github.com/pkg/errors"
)

// IsCurrentPeriodSyncCommittee returns true if the input validator index belongs in the current period sync committee
// along with the sync committee root.
func IsCurrentPeriodSyncCommittee(st state.ReadOnlyBeaconState, valIdx types.ValidatorIndex) (bool, error) {
	root, err := syncPeriodCacheKey(st)
	if err != nil {
		return false, err
	}
	indices, err := syncCommitteeCache.CurrentPeriodIndexPosition(root, st.PubkeyAtIndex(valIdx))
	if err == cache.ErrNonExistingSyncCommitteeKey {
		val, err := st.ValidatorAtIndexReadOnly(valIdx)
		if err != nil {
			return false, err
		}
		committee, err := st.CurrentSyncCommittee()
		if err != nil {
			return false, err
		}

		// Fill in the cache on miss so that the following lookups do not have
		// to walk the committee pubkeys again.
		if err := UpdateSyncCommitteeCache(st); err != nil {
			return false, err
		}

		return len(findSubCommitteeIndices(val.PublicKey(), committee.Pubkeys)) > 0, nil
	}
	if err != nil {
		return false, err
	}
	return len(indices) > 0, nil
}

// IsNextPeriodSyncCommittee returns true if the input validator index belongs in the next period sync committee
// along with the sync committee root.
func IsNextPeriodSyncCommittee(st state.ReadOnlyBeaconState, valIdx types.ValidatorIndex) (bool, error) {
	root, err := syncPeriodCacheKey(st)
	if err != nil {
		return false, err
	}
	indices, err := syncCommitteeCache.NextPeriodIndexPosition(root, st.PubkeyAtIndex(valIdx))
	if err == cache.ErrNonExistingSyncCommitteeKey {
		val, err := st.ValidatorAtIndexReadOnly(valIdx)
		if err != nil {
			return false, err
		}
		committee, err := st.NextSyncCommittee()
		if err != nil {
			return false, err
		}
		return len(findSubCommitteeIndices(val.PublicKey(), committee.Pubkeys)) > 0, nil
	}
	if err != nil {
		return false, err
	}
	return len(indices) > 0, nil
}

// CurrentPeriodSyncSubcommitteeIndices returns the subcommittee indices of the
// current period sync committee for input validator.
func CurrentPeriodSyncSubcommitteeIndices(st state.ReadOnlyBeaconState, valIdx types.ValidatorIndex) ([]types.CommitteeIndex, error) {
	root, err := syncPeriodCacheKey(st)
	if err != nil {
		return nil, err
	}
	indices, err := syncCommitteeCache.CurrentPeriodIndexPosition(root, st.PubkeyAtIndex(valIdx))
	if err == cache.ErrNonExistingSyncCommitteeKey {
		val, err := st.ValidatorAtIndexReadOnly(valIdx)
		if err != nil {
			return nil, err
		}
		committee, err := st.CurrentSyncCommittee()
		if err != nil {
			return nil, err
		}

		if err := UpdateSyncCommitteeCache(st); err != nil {
			return nil, err
		}

		return findSubCommitteeIndices(val.PublicKey(), committee.Pubkeys), nil
	}
	if err != nil {
		return nil, err
	}
	return indices, nil
}

// NextPeriodSyncSubcommitteeIndices returns the subcommittee indices of the next period sync committee for input validator.
func NextPeriodSyncSubcommitteeIndices(st state.ReadOnlyBeaconState, valIdx types.ValidatorIndex) ([]types.CommitteeIndex, error) {
	root, err := syncPeriodCacheKey(st)
	if err != nil {
		return nil, err
	}
	indices, err := syncCommitteeCache.NextPeriodIndexPosition(root, st.PubkeyAtIndex(valIdx))
	if err == cache.ErrNonExistingSyncCommitteeKey {
		val, err := st.ValidatorAtIndexReadOnly(valIdx)
		if err != nil {
			return nil, err
		}
		committee, err := st.NextSyncCommittee()
		if err != nil {
			return nil, err
		}
		return findSubCommitteeIndices(val.PublicKey(), committee.Pubkeys), nil
	}
	if err != nil {
		return nil, err
	}
	return indices, nil
}

// UpdateSyncCommitteeCache updates sync committee cache.
// It uses `state`'s current and next sync committee pubkeys to build the
// position maps under the current committee's content root.
func UpdateSyncCommitteeCache(st state.ReadOnlyBeaconState) error {
	root, err := syncPeriodCacheKey(st)
	if err != nil {
		return err
	}
	return syncCommitteeCache.UpdatePositionsInCommittee(root, st)
}

// syncPeriodCacheKey derives the cache key for the state's sync committee
// period as the hash of the current committee's member pubkeys. The key is
// stable for every state within the same period.
func syncPeriodCacheKey(st state.ReadOnlyBeaconState) ([32]byte, error) {
	committee, err := st.CurrentSyncCommittee()
	if err != nil {
		return [32]byte{}, err
	}
	if committee == nil {
		return [32]byte{}, errors.New("state has no current sync committee")
	}
	buf := make([]byte, 0, len(committee.Pubkeys)*fieldparams.BLSPubkeyLength)
	for _, pubkey := range committee.Pubkeys {
		buf = append(buf, pubkey...)
	}
	return hash.Hash(buf), nil
}

// Loop through `pubKeys` for matching `pubKey` and get the indices where it matches.
func findSubCommitteeIndices(pubKey [fieldparams.BLSPubkeyLength]byte, pubKeys [][]byte) []types.CommitteeIndex {
	indices := make([]types.CommitteeIndex, 0)
	for i, k := range pubKeys {
		if bytes.Equal(pubKey[:], k) {
			indices = append(indices, types.CommitteeIndex(i))
		}
	}
	return indices
}
