package altair

import (
	"github.com/gridbox-network/grysm/beacon-chain/core/helpers"
	"github.com/gridbox-network/grysm/beacon-chain/core/signing"
	"github.com/gridbox-network/grysm/beacon-chain/state"
	"github.com/gridbox-network/grysm/config/features"
	"github.com/gridbox-network/grysm/config/params"
	"github.com/gridbox-network/grysm/consensus-types/gbtypes"
	types "github.com/gridbox-network/grysm/consensus-types/primitives"
	"github.com/gridbox-network/grysm/crypto/bls"
	"github.com/gridbox-network/grysm/runtime/version"
	"github.com/gridbox-network/grysm/time/slots"
	"github.com/pkg/errors"
)

// ProcessSyncAggregate verifies the sync committee signature over the previous
// slot's block root and records which committee members participated. Reward
// accounting for participants happens in a separate pass, so no balances move
// here.
//
// Spec code (signature verification and participation tracking of
// process_sync_aggregate):
//  def process_sync_aggregate(state: BeaconState, sync_aggregate: SyncAggregate) -> None:
//    # Verify sync committee aggregate signature signing over the previous slot block root
//    committee_pubkeys = state.current_sync_committee.pubkeys
//    participant_pubkeys = [pubkey for pubkey, bit in zip(committee_pubkeys, sync_aggregate.sync_committee_bits) if bit]
//    previous_slot = max(state.slot, Slot(1)) - Slot(1)
//    domain = get_domain(state, DOMAIN_SYNC_COMMITTEE, compute_epoch_at_slot(previous_slot))
//    signing_root = compute_signing_root(get_block_root_at_slot(state, previous_slot), domain)
//    assert eth2_fast_aggregate_verify(participant_pubkeys, signing_root, sync_aggregate.sync_committee_signature)
func ProcessSyncAggregate(beaconState state.BeaconState, sync *gbtypes.SyncAggregate) (state.BeaconState, error) {
	if beaconState.Version() == version.Phase0 {
		return nil, errors.New("sync aggregate is not supported for phase 0 state")
	}
	if sync == nil || sync.SyncCommitteeBits == nil {
		return nil, errors.New("nil sync aggregate in block body")
	}
	votedKeys, err := FilterSyncCommitteeVotes(beaconState, sync)
	if err != nil {
		return nil, err
	}

	if !features.Get().SkipBLSVerify {
		if err := VerifySyncCommitteeSig(beaconState, votedKeys, sync.SyncCommitteeSignature); err != nil {
			return nil, err
		}
	}
	if err := beaconState.SetCurrentSyncAggregateBits(sync.SyncCommitteeBits); err != nil {
		return nil, err
	}
	return beaconState, nil
}

// FilterSyncCommitteeVotes returns the public keys of the current sync
// committee members whose participation bit is set.
func FilterSyncCommitteeVotes(beaconState state.ReadOnlyBeaconState, sync *gbtypes.SyncAggregate) ([]bls.PublicKey, error) {
	currentSyncCommittee, err := beaconState.CurrentSyncCommittee()
	if err != nil {
		return nil, err
	}
	if currentSyncCommittee == nil {
		return nil, errors.New("nil current sync committee in state")
	}
	committeeKeys := currentSyncCommittee.Pubkeys
	if sync.SyncCommitteeBits.Len() > uint64(len(committeeKeys)) {
		return nil, errors.New("bits length exceeds committee length")
	}
	votedKeys := make([]bls.PublicKey, 0, len(committeeKeys))
	for i := uint64(0); i < sync.SyncCommitteeBits.Len(); i++ {
		if sync.SyncCommitteeBits.BitAt(i) {
			pubKey, err := bls.PublicKeyFromBytes(committeeKeys[i])
			if err != nil {
				return nil, err
			}
			votedKeys = append(votedKeys, pubKey)
		}
	}
	return votedKeys, nil
}

// VerifySyncCommitteeSig verifies the aggregate signature of the given voted
// keys over the previous slot's block root. An empty vote set with the G2
// point at infinity signature is vacuously valid.
func VerifySyncCommitteeSig(beaconState state.ReadOnlyBeaconState, votedKeys []bls.PublicKey, syncSig []byte) error {
	ps := slots.PrevSlot(beaconState.Slot())
	d, err := signing.Domain(beaconState.Fork(), slots.ToEpoch(ps), params.BeaconConfig().DomainSyncCommittee, beaconState.GenesisValidatorsRoot())
	if err != nil {
		return err
	}
	pbr, err := helpers.BlockRootAtSlot(beaconState, ps)
	if err != nil {
		return err
	}
	sszBytes := types.SSZBytes(pbr)
	r, err := signing.ComputeSigningRoot(&sszBytes, d)
	if err != nil {
		return err
	}
	sig, err := bls.SignatureFromBytes(syncSig)
	if err != nil {
		return err
	}
	if !sig.Eth2FastAggregateVerify(votedKeys, r) {
		return errors.Wrap(signing.ErrSigFailedToVerify, "could not verify sync committee signature")
	}
	return nil
}
