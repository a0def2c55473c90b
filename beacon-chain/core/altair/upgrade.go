package altair

import (
	"context"

	"github.com/gridbox-network/grysm/beacon-chain/core/time"
	"github.com/gridbox-network/grysm/beacon-chain/state"
	statenative "github.com/gridbox-network/grysm/beacon-chain/state/state-native"
	"github.com/gridbox-network/grysm/config/params"
	"github.com/gridbox-network/grysm/consensus-types/gbtypes"
	"github.com/gridbox-network/grysm/runtime/version"
	"github.com/prysmaticlabs/go-bitfield"
)

// UpgradeToAltair updates input state to return the version Altair state.
//
// Spec code:
// def upgrade_to_altair(pre: phase0.BeaconState) -> BeaconState:
//    epoch = phase0.get_current_epoch(pre)
//    post = BeaconState(
//        # Versioning
//        genesis_time=pre.genesis_time,
//        genesis_validators_root=pre.genesis_validators_root,
//        slot=pre.slot,
//        fork=Fork(
//            previous_version=pre.fork.current_version,
//            current_version=ALTAIR_FORK_VERSION,
//            epoch=epoch,
//        ),
//        # History
//        latest_block_header=pre.latest_block_header,
//        block_roots=pre.block_roots,
//        # Registry
//        validators=pre.validators,
//        balances=pre.balances,
//        # Randomness
//        randao_mixes=pre.randao_mixes,
//        # Slashings
//        slashings=pre.slashings,
//        # Participation
//        previous_epoch_participation=[ParticipationFlags(0b0000_0000) for _ in range(len(pre.validators))],
//        current_epoch_participation=[ParticipationFlags(0b0000_0000) for _ in range(len(pre.validators))],
//        # Finality
//        justification_bits=pre.justification_bits,
//        previous_justified_checkpoint=pre.previous_justified_checkpoint,
//        current_justified_checkpoint=pre.current_justified_checkpoint,
//        finalized_checkpoint=pre.finalized_checkpoint,
//        # Inactivity
//        inactivity_scores=[uint64(0) for _ in range(len(pre.validators))],
//    )
//    # Fill in sync committees
//    # Note: A duplicate committee is assigned for the current and next committee at the fork boundary
//    post.current_sync_committee = get_next_sync_committee(post)
//    post.next_sync_committee = get_next_sync_committee(post)
//    return post
func UpgradeToAltair(ctx context.Context, st state.BeaconState) (state.BeaconState, error) {
	epoch := time.CurrentEpoch(st)
	numValidators := st.NumValidators()

	f := &statenative.Fields{
		Version:               version.Altair,
		GenesisTime:           st.GenesisTime(),
		GenesisValidatorsRoot: st.GenesisValidatorsRoot(),
		Slot:                  st.Slot(),
		Fork: &gbtypes.Fork{
			PreviousVersion: st.Fork().CurrentVersion,
			CurrentVersion:  params.BeaconConfig().AltairForkVersion,
			Epoch:           epoch,
		},
		LatestBlockHeader:           st.LatestBlockHeader(),
		BlockRoots:                  st.BlockRoots(),
		RandaoMixes:                 st.RandaoMixes(),
		Validators:                  st.Validators(),
		Balances:                    st.Balances(),
		Slashings:                   st.Slashings(),
		PreviousEpochParticipation:  make([]byte, numValidators),
		CurrentEpochParticipation:   make([]byte, numValidators),
		JustificationBits:           st.JustificationBits(),
		PreviousJustifiedCheckpoint: st.PreviousJustifiedCheckpoint(),
		CurrentJustifiedCheckpoint:  st.CurrentJustifiedCheckpoint(),
		FinalizedCheckpoint:         st.FinalizedCheckpoint(),
		InactivityScores:            make([]uint64, numValidators),
		CurrentSyncAggregateBits:    bitfield.NewBitvector512(),
	}
	newState, err := statenative.InitializeFromFields(f)
	if err != nil {
		return nil, err
	}

	// A duplicate committee is assigned for the current and next committee at
	// the fork boundary.
	committee, err := NextSyncCommittee(ctx, newState)
	if err != nil {
		return nil, err
	}
	if err := newState.SetCurrentSyncCommittee(committee); err != nil {
		return nil, err
	}
	if err := newState.SetNextSyncCommittee(committee.Copy()); err != nil {
		return nil, err
	}
	return newState, nil
}
