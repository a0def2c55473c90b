// Package blocks contains block processing libraries according to
// the consensus spec: attestations, proposer and attester slashings,
// and their verification rules.
package blocks

import (
	"bytes"
	"context"
	"fmt"

	"github.com/gridbox-network/grysm/beacon-chain/cache"
	"github.com/gridbox-network/grysm/beacon-chain/core/altair"
	"github.com/gridbox-network/grysm/beacon-chain/core/helpers"
	"github.com/gridbox-network/grysm/beacon-chain/core/signing"
	"github.com/gridbox-network/grysm/beacon-chain/core/time"
	"github.com/gridbox-network/grysm/beacon-chain/state"
	"github.com/gridbox-network/grysm/config/features"
	"github.com/gridbox-network/grysm/config/params"
	"github.com/gridbox-network/grysm/consensus-types/gbtypes"
	types "github.com/gridbox-network/grysm/consensus-types/primitives"
	"github.com/gridbox-network/grysm/crypto/bls"
	mathutil "github.com/gridbox-network/grysm/math"
	"github.com/gridbox-network/grysm/runtime/version"
	"github.com/pkg/errors"
	"go.opencensus.io/trace"
)

// indexedAttCache memoizes attestation data root to indexed attestation
// conversions so one attestation checked twice within a block costs a
// single committee computation.
var indexedAttCache = cache.NewIndexedAttestationCache()

// ProcessAttestations applies processing operations to a block's inner attestation
// records.
func ProcessAttestations(
	ctx context.Context,
	beaconState state.BeaconState,
	b *gbtypes.SignedBeaconBlock,
) (state.BeaconState, error) {
	if err := helpers.VerifyNilBeaconBlock(b); err != nil {
		return nil, err
	}

	var err error
	for idx, attestation := range b.Block.Body.Attestations {
		beaconState, err = ProcessAttestation(ctx, beaconState, attestation)
		if err != nil {
			return nil, errors.Wrapf(err, "could not verify attestation at index %d in block", idx)
		}
	}
	return beaconState, nil
}

// ProcessAttestation verifies an input attestation can pass through processing using the given beacon state.
func ProcessAttestation(
	ctx context.Context,
	beaconState state.BeaconState,
	att *gbtypes.Attestation,
) (state.BeaconState, error) {
	beaconState, err := ProcessAttestationNoVerifySignature(ctx, beaconState, att)
	if err != nil {
		return nil, err
	}
	return beaconState, VerifyAttestationSignature(ctx, beaconState, att)
}

// ProcessAttestationsNoVerifySignature applies processing operations to a block's inner attestation
// records. The only difference would be that the attestation signature would not be verified.
func ProcessAttestationsNoVerifySignature(
	ctx context.Context,
	beaconState state.BeaconState,
	b *gbtypes.SignedBeaconBlock,
) (state.BeaconState, error) {
	if err := helpers.VerifyNilBeaconBlock(b); err != nil {
		return nil, err
	}
	body := b.Block.Body
	var err error
	for idx, attestation := range body.Attestations {
		beaconState, err = ProcessAttestationNoVerifySignature(ctx, beaconState, attestation)
		if err != nil {
			return nil, errors.Wrapf(err, "could not verify attestation at index %d in block", idx)
		}
	}
	return beaconState, nil
}

// VerifyAttestationForBlockInclusion verifies that an attestation may be
// carried by a block built on the given state: the inclusion window
// (att.slot + MIN_ATTESTATION_INCLUSION_DELAY <= state.slot <= att.slot +
// SLOTS_PER_EPOCH) on top of the state checks.
func VerifyAttestationForBlockInclusion(
	ctx context.Context,
	beaconState state.ReadOnlyBeaconState,
	att *gbtypes.Attestation,
) error {
	if err := helpers.ValidateNilAttestation(att); err != nil {
		return err
	}
	s := att.Data.Slot
	minInclusionCheck := s+params.BeaconConfig().MinAttestationInclusionDelay <= beaconState.Slot()
	epochInclusionCheck := beaconState.Slot() <= s+params.BeaconConfig().SlotsPerEpoch
	if !minInclusionCheck {
		return fmt.Errorf(
			"attestation slot %d + inclusion delay %d > state slot %d",
			s,
			params.BeaconConfig().MinAttestationInclusionDelay,
			beaconState.Slot(),
		)
	}
	if !epochInclusionCheck {
		return fmt.Errorf(
			"state slot %d > attestation slot %d + SLOTS_PER_EPOCH %d",
			beaconState.Slot(),
			s,
			params.BeaconConfig().SlotsPerEpoch,
		)
	}
	return VerifyAttestationForState(ctx, beaconState, att)
}

// VerifyAttestationForState verifies an attestation's structure and Casper FFG
// vote against the given state, without verifying its signature.
func VerifyAttestationForState(
	ctx context.Context,
	beaconState state.ReadOnlyBeaconState,
	att *gbtypes.Attestation,
) error {
	ctx, span := trace.StartSpan(ctx, "core.VerifyAttestationForState")
	defer span.End()

	if err := helpers.ValidateNilAttestation(att); err != nil {
		return err
	}
	if err := VerifyCasperFFGVote(beaconState, att.Data); err != nil {
		return err
	}
	if err := helpers.ValidateSlotTargetEpoch(att.Data); err != nil {
		return err
	}

	activeValidatorCount, err := helpers.ActiveValidatorCount(ctx, beaconState, att.Data.Target.Epoch)
	if err != nil {
		return err
	}
	c := helpers.SlotCommitteeCount(activeValidatorCount)
	if uint64(att.Data.CommitteeIndex) >= c {
		return fmt.Errorf("committee index %d >= committee count %d", att.Data.CommitteeIndex, c)
	}

	if err := helpers.VerifyAttestationBitfieldLengths(ctx, beaconState, att); err != nil {
		return errors.Wrap(err, "could not verify attestation bitfields")
	}

	// Verify attesting indices are correct.
	indexedAtt, err := convertToIndexedMemoized(ctx, beaconState, att)
	if err != nil {
		return err
	}

	return helpers.IsValidAttestationIndices(ctx, indexedAtt)
}

// VerifyCasperFFGVote checks an attestation data's FFG vote against the
// state's justification: the target must sit in the current or previous
// epoch, the source epoch can never exceed the target epoch, and the source
// must equal the justified checkpoint matching the target's epoch.
func VerifyCasperFFGVote(beaconState state.ReadOnlyBeaconState, data *gbtypes.AttestationData) error {
	if data.Source.Epoch > data.Target.Epoch {
		return fmt.Errorf(
			"source epoch %d cannot exceed target epoch %d",
			data.Source.Epoch,
			data.Target.Epoch,
		)
	}

	currEpoch := time.CurrentEpoch(beaconState)
	prevEpoch := time.PrevEpoch(beaconState)
	if data.Target.Epoch != prevEpoch && data.Target.Epoch != currEpoch {
		return fmt.Errorf(
			"expected target epoch (%d) to be the previous epoch (%d) or the current epoch (%d)",
			data.Target.Epoch,
			prevEpoch,
			currEpoch,
		)
	}

	var justified *gbtypes.Checkpoint
	if data.Target.Epoch == currEpoch {
		justified = beaconState.CurrentJustifiedCheckpoint()
	} else {
		justified = beaconState.PreviousJustifiedCheckpoint()
	}
	if matchesJustified(data.Source, justified) {
		return nil
	}
	return fmt.Errorf(
		"source checkpoint (epoch %d, root %#x) does not match justified checkpoint (epoch %d, root %#x)",
		data.Source.Epoch, data.Source.Root,
		justified.Epoch, justified.Root,
	)
}

// matchesJustified applies the source equality rule. Strict equality is the
// default; with the lenient feature flag set, a source within a two epoch
// drift of the justified checkpoint is accepted as long as the roots agree.
func matchesJustified(source, justified *gbtypes.Checkpoint) bool {
	if source.Epoch == justified.Epoch && bytes.Equal(source.Root, justified.Root) {
		return true
	}
	if !features.Get().EnableLenientFFGSource {
		return false
	}
	var drift uint64
	if source.Epoch > justified.Epoch {
		drift = uint64(source.Epoch - justified.Epoch)
	} else {
		drift = uint64(justified.Epoch - source.Epoch)
	}
	return drift <= 2 && bytes.Equal(source.Root, justified.Root)
}

// ProcessAttestationNoVerifySignature processes the attestation without verifying the attestation signature. This
// method is used to validate attestations whose signatures have already been verified.
func ProcessAttestationNoVerifySignature(
	ctx context.Context,
	beaconState state.BeaconState,
	att *gbtypes.Attestation,
) (state.BeaconState, error) {
	ctx, span := trace.StartSpan(ctx, "core.ProcessAttestationNoVerifySignature")
	defer span.End()

	if err := VerifyAttestationForBlockInclusion(ctx, beaconState, att); err != nil {
		return nil, err
	}

	// Participation flags exist from Altair onward; a phase 0 state carries no
	// attestation bookkeeping in this model.
	if beaconState.Version() == version.Phase0 {
		return beaconState, nil
	}
	return setParticipationFlags(ctx, beaconState, att)
}

// setParticipationFlags stamps the source/target/head timeliness flags of
// every attester of the given attestation into the matching epoch's
// participation registry.
//
// Spec pseudocode definition (participation updates of process_attestation):
//  # Update epoch participation flags
//  if data.target.epoch == get_current_epoch(state):
//      epoch_participation = state.current_epoch_participation
//  else:
//      epoch_participation = state.previous_epoch_participation
//
//  for index in get_attesting_indices(state, data, attestation.aggregation_bits):
//      for flag_index, weight in get_flag_indices_and_weights():
//          if flag_index in participation_flag_indices and not has_flag(epoch_participation[index], flag_index):
//              epoch_participation[index] = add_flag(epoch_participation[index], flag_index)
func setParticipationFlags(
	ctx context.Context,
	beaconState state.BeaconState,
	att *gbtypes.Attestation,
) (state.BeaconState, error) {
	delay, err := beaconState.Slot().SafeSubSlot(att.Data.Slot)
	if err != nil {
		return nil, err
	}
	flagIndices, err := attestationParticipationFlagIndices(beaconState, att.Data, delay)
	if err != nil {
		return nil, err
	}

	committee, err := helpers.BeaconCommitteeFromState(ctx, beaconState, att.Data.Slot, att.Data.CommitteeIndex)
	if err != nil {
		return nil, err
	}
	indices, err := helpers.AttestingIndices(att.AggregationBits, committee)
	if err != nil {
		return nil, err
	}

	mutator := func(participation []byte) ([]byte, error) {
		for _, idx := range indices {
			if idx >= uint64(len(participation)) {
				return nil, fmt.Errorf("validator index %d out of participation registry bounds %d", idx, len(participation))
			}
			b := participation[idx]
			for _, flag := range flagIndices {
				b, err = altair.AddValidatorFlag(b, flag)
				if err != nil {
					return nil, err
				}
			}
			participation[idx] = b
		}
		return participation, nil
	}
	if att.Data.Target.Epoch == time.CurrentEpoch(beaconState) {
		err = beaconState.ModifyCurrentParticipationBits(mutator)
	} else {
		err = beaconState.ModifyPreviousParticipationBits(mutator)
	}
	if err != nil {
		return nil, err
	}
	return beaconState, nil
}

// attestationParticipationFlagIndices retrieves a map of attestation scoring based on Altair's participation flag indices.
// This is used to facilitate process attestation during state transition to determine attestation reward.
//
// Spec code:
//  def get_attestation_participation_flag_indices(state: BeaconState,
//                                               data: AttestationData,
//                                               inclusion_delay: uint64) -> Sequence[int]:
//    """
//    Return the flag indices that are satisfied by an attestation.
//    """
//    ...
//    participation_flag_indices = []
//    if is_matching_source and inclusion_delay <= integer_squareroot(SLOTS_PER_EPOCH):
//        participation_flag_indices.append(TIMELY_SOURCE_FLAG_INDEX)
//    if is_matching_target and inclusion_delay <= SLOTS_PER_EPOCH:
//        participation_flag_indices.append(TIMELY_TARGET_FLAG_INDEX)
//    if is_matching_head and inclusion_delay == MIN_ATTESTATION_INCLUSION_DELAY:
//        participation_flag_indices.append(TIMELY_HEAD_FLAG_INDEX)
//
//    return participation_flag_indices
func attestationParticipationFlagIndices(beaconState state.ReadOnlyBeaconState, data *gbtypes.AttestationData, delay types.Slot) ([]uint8, error) {
	cfg := params.BeaconConfig()
	flags := make([]uint8, 0, 3)

	// The FFG source match was verified before this point.
	if delay <= types.Slot(mathutil.IntegerSquareRoot(uint64(cfg.SlotsPerEpoch))) {
		flags = append(flags, cfg.TimelySourceFlagIndex)
	}

	targetRoot, err := helpers.BlockRoot(beaconState, data.Target.Epoch)
	if err != nil {
		return nil, err
	}
	matchedTarget := bytes.Equal(data.Target.Root, targetRoot)
	if matchedTarget && delay <= cfg.SlotsPerEpoch {
		flags = append(flags, cfg.TimelyTargetFlagIndex)
	}

	headRoot, err := helpers.BlockRootAtSlot(beaconState, data.Slot)
	if err != nil {
		return nil, err
	}
	if matchedTarget && bytes.Equal(data.BeaconBlockRoot, headRoot) && delay == cfg.MinAttestationInclusionDelay {
		flags = append(flags, cfg.TimelyHeadFlagIndex)
	}
	return flags, nil
}

// VerifyAttestationSignature converts and attestation into an indexed attestation and verifies
// the signature in that attestation.
func VerifyAttestationSignature(ctx context.Context, beaconState state.ReadOnlyBeaconState, att *gbtypes.Attestation) error {
	if err := helpers.ValidateNilAttestation(att); err != nil {
		return err
	}
	indexedAtt, err := convertToIndexedMemoized(ctx, beaconState, att)
	if err != nil {
		return err
	}
	return VerifyIndexedAttestation(ctx, beaconState, indexedAtt)
}

// VerifyIndexedAttestation determines the validity of an indexed attestation.
//
// Spec pseudocode definition:
//  def is_valid_indexed_attestation(state: BeaconState, indexed_attestation: IndexedAttestation) -> bool:
//    """
//    Check if ``indexed_attestation`` is not empty, has sorted and unique indices and has a valid aggregate signature.
//    """
//    # Verify indices are sorted and unique
//    indices = indexed_attestation.attesting_indices
//    if len(indices) == 0 or not indices == sorted(set(indices)):
//        return False
//    # Verify aggregate signature
//    pubkeys = [state.validators[i].pubkey for i in indices]
//    domain = get_domain(state, DOMAIN_BEACON_ATTESTER, indexed_attestation.data.target.epoch)
//    signing_root = compute_signing_root(indexed_attestation.data, domain)
//    return bls.FastAggregateVerify(pubkeys, signing_root, indexed_attestation.signature)
func VerifyIndexedAttestation(ctx context.Context, beaconState state.ReadOnlyBeaconState, indexedAtt *gbtypes.IndexedAttestation) error {
	ctx, span := trace.StartSpan(ctx, "core.VerifyIndexedAttestation")
	defer span.End()

	if err := helpers.IsValidAttestationIndices(ctx, indexedAtt); err != nil {
		return err
	}
	if features.Get().SkipBLSVerify {
		return nil
	}
	domain, err := signing.Domain(beaconState.Fork(), indexedAtt.Data.Target.Epoch, params.BeaconConfig().DomainBeaconAttester, beaconState.GenesisValidatorsRoot())
	if err != nil {
		return err
	}
	indices := indexedAtt.AttestingIndices
	pubkeys := make([]bls.PublicKey, 0, len(indices))
	for i := 0; i < len(indices); i++ {
		pubkeyAtIdx := beaconState.PubkeyAtIndex(types.ValidatorIndex(indices[i]))
		pk, err := bls.PublicKeyFromBytes(pubkeyAtIdx[:])
		if err != nil {
			return errors.Wrap(err, "could not deserialize validator public key")
		}
		pubkeys = append(pubkeys, pk)
	}

	sig, err := bls.SignatureFromBytes(indexedAtt.Signature)
	if err != nil {
		return errors.Wrap(err, "could not convert bytes to signature")
	}
	root, err := signing.ComputeSigningRoot(indexedAtt.Data, domain)
	if err != nil {
		return errors.Wrap(err, "could not get signing root of object")
	}
	if !sig.FastAggregateVerify(pubkeys, root) {
		return signing.ErrSigFailedToVerify
	}
	return nil
}

// convertToIndexedMemoized resolves the attestation's committee and converts
// to the indexed form, consulting the per-block memo first.
func convertToIndexedMemoized(ctx context.Context, beaconState state.ReadOnlyBeaconState, att *gbtypes.Attestation) (*gbtypes.IndexedAttestation, error) {
	dataRoot, err := att.Data.HashTreeRoot()
	if err != nil {
		return nil, err
	}
	if cached := indexedAttCache.Get(dataRoot); cached != nil {
		return cached, nil
	}
	committee, err := helpers.BeaconCommitteeFromState(ctx, beaconState, att.Data.Slot, att.Data.CommitteeIndex)
	if err != nil {
		return nil, err
	}
	indexedAtt, err := helpers.ConvertToIndexed(ctx, att, committee)
	if err != nil {
		return nil, err
	}
	indexedAttCache.Put(dataRoot, indexedAtt)
	return indexedAtt, nil
}
