// Package transition implements the whole state transition
// function which consists of per slot, per-epoch transitions.
package transition

import (
	"context"

	"github.com/gridbox-network/grysm/beacon-chain/core/altair"
	b "github.com/gridbox-network/grysm/beacon-chain/core/blocks"
	"github.com/gridbox-network/grysm/beacon-chain/core/helpers"
	"github.com/gridbox-network/grysm/beacon-chain/core/incentives"
	coreTime "github.com/gridbox-network/grysm/beacon-chain/core/time"
	v "github.com/gridbox-network/grysm/beacon-chain/core/validators"
	"github.com/gridbox-network/grysm/beacon-chain/state"
	"github.com/gridbox-network/grysm/config/params"
	"github.com/gridbox-network/grysm/consensus-types/gbtypes"
	types "github.com/gridbox-network/grysm/consensus-types/primitives"
	"github.com/gridbox-network/grysm/runtime/version"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.opencensus.io/trace"
)

var log = logrus.WithField("prefix", "transition")

// SlashValidator applies an equivocation penalty outside normal block
// processing, re-exported so external slashing pipelines share one
// implementation with the block operation processors.
var SlashValidator = v.SlashValidator

// ProcessSlot happens every slot and focuses on the slot counter and
// block roots record updates. It happens regardless if there's an incoming
// block or not.
//
// Spec pseudocode definition:
//  def process_slot(state: BeaconState) -> None:
//    # Cache latest block header state root
//    previous_block_root = hash_tree_root(state.latest_block_header)
//    state.block_roots[state.slot % SLOTS_PER_HISTORICAL_ROOT] = previous_block_root
func ProcessSlot(ctx context.Context, st state.BeaconState) (state.BeaconState, error) {
	ctx, span := trace.StartSpan(ctx, "core.state.ProcessSlot")
	defer span.End()
	span.AddAttributes(trace.Int64Attribute("slot", int64(st.Slot()))) // lint:ignore uintcast -- This conversion is OK for tracing.

	header := st.LatestBlockHeader()
	if header == nil {
		return nil, errors.New("nil latest block header in state")
	}
	prevBlockRoot, err := header.HashTreeRoot()
	if err != nil {
		return nil, errors.Wrap(err, "could not determine prev block root")
	}
	if err := st.UpdateBlockRootAtIndex(uint64(st.Slot()%params.BeaconConfig().SlotsPerHistoricalRoot), prevBlockRoot); err != nil {
		return nil, err
	}
	return st, nil
}

// ProcessSlots includes core slot processing as well as a cache
func ProcessSlots(ctx context.Context, st state.BeaconState, slot types.Slot, policy *incentives.RewardPolicy) (state.BeaconState, error) {
	ctx, span := trace.StartSpan(ctx, "core.state.ProcessSlots")
	defer span.End()
	if st == nil {
		return nil, errors.New("nil state")
	}
	span.AddAttributes(trace.Int64Attribute("slots", int64(slot)-int64(st.Slot()))) // lint:ignore uintcast -- This conversion is OK for tracing.

	if st.Slot() > slot {
		err := errors.Errorf("expected state.slot %d < slot %d", st.Slot(), slot)
		return nil, err
	}
	if st.Slot() == slot {
		return st, nil
	}

	var err error
	key, err := SkipSlotCacheKey(ctx, st)
	if err != nil {
		return nil, errors.Wrap(err, "could not create cache key")
	}
	cached, err := SkipSlotCache.Get(ctx, key)
	if err != nil {
		log.WithError(err).Error("Could not get skip slot cache value")
	}
	if cached != nil && cached.Slot() <= slot && cached.Slot() > st.Slot() {
		if cached.Slot() == slot {
			return cached, nil
		}
		st = cached
	}

	if err := SkipSlotCache.MarkInProgress(key); err == nil {
		defer func() {
			SkipSlotCache.Put(ctx, key, st)
			SkipSlotCache.MarkNotInProgress(key)
		}()
	}

	for st.Slot() < slot {
		if err := ctx.Err(); err != nil {
			// Cache last best value.
			SkipSlotCache.Put(ctx, key, st)
			return nil, err
		}
		st, err = ProcessSlot(ctx, st)
		if err != nil {
			return nil, errors.Wrap(err, "could not process slot")
		}
		if coreTime.CanProcessEpoch(st) {
			st, _, err = ProcessEpoch(ctx, st, policy)
			if err != nil {
				return nil, errors.Wrap(err, "could not process epoch")
			}
		}
		if err := st.SetSlot(st.Slot() + 1); err != nil {
			return nil, errors.Wrap(err, "failed to increment state slot")
		}
		if coreTime.CanUpgradeToAltair(st.Slot()) {
			st, err = altair.UpgradeToAltair(ctx, st)
			if err != nil {
				return nil, err
			}
		}
	}

	return st, nil
}

// VerifyOperationLengths verifies the block's operation lists do not exceed
// the per-block maximums before any of them is applied.
func VerifyOperationLengths(body *gbtypes.BeaconBlockBody) error {
	cfg := params.BeaconConfig()
	if uint64(len(body.ProposerSlashings)) > cfg.MaxProposerSlashings {
		return errors.Errorf("number of proposer slashings (%d) in block body exceeds allowed threshold of %d",
			len(body.ProposerSlashings), cfg.MaxProposerSlashings)
	}
	if uint64(len(body.AttesterSlashings)) > cfg.MaxAttesterSlashings {
		return errors.Errorf("number of attester slashings (%d) in block body exceeds allowed threshold of %d",
			len(body.AttesterSlashings), cfg.MaxAttesterSlashings)
	}
	if uint64(len(body.Attestations)) > cfg.MaxAttestations {
		return errors.Errorf("number of attestations (%d) in block body exceeds allowed threshold of %d",
			len(body.Attestations), cfg.MaxAttestations)
	}
	return nil
}

// ProcessBlockOperations validates and applies all operations embedded in a
// block body against a copy of the given state: proposer slashings, attester
// slashings, attestations, the sync aggregate, then the reward policy's
// per-block pass. The input state is never mutated; the mutated copy is
// returned only when every operation succeeds, so a failing block leaves the
// caller's state untouched.
func ProcessBlockOperations(
	ctx context.Context,
	st state.BeaconState,
	signed *gbtypes.SignedBeaconBlock,
	verifySignatures bool,
	policy *incentives.RewardPolicy,
) (state.BeaconState, error) {
	ctx, span := trace.StartSpan(ctx, "core.state.ProcessBlockOperations")
	defer span.End()

	if st == nil {
		return nil, errors.New("nil state")
	}
	if err := helpers.VerifyNilBeaconBlock(signed); err != nil {
		return nil, err
	}
	body := signed.Block.Body
	if err := VerifyOperationLengths(body); err != nil {
		return nil, err
	}

	workingState := st.Copy()

	workingState, err := b.ProcessProposerSlashings(ctx, workingState, body.ProposerSlashings, v.SlashValidator)
	if err != nil {
		return nil, errors.Wrap(err, "could not process block proposer slashings")
	}
	workingState, err = b.ProcessAttesterSlashings(ctx, workingState, body.AttesterSlashings, v.SlashValidator)
	if err != nil {
		return nil, errors.Wrap(err, "could not process block attester slashings")
	}
	if verifySignatures {
		workingState, err = b.ProcessAttestations(ctx, workingState, signed)
	} else {
		workingState, err = b.ProcessAttestationsNoVerifySignature(ctx, workingState, signed)
	}
	if err != nil {
		return nil, errors.Wrap(err, "could not process block attestations")
	}
	if body.SyncAggregate != nil && workingState.Version() > version.Phase0 {
		workingState, err = altair.ProcessSyncAggregate(workingState, body.SyncAggregate)
		if err != nil {
			return nil, errors.Wrap(err, "could not process sync aggregate")
		}
	}
	workingState, err = incentives.ProcessBlockRewards(ctx, workingState, policy)
	if err != nil {
		return nil, errors.Wrap(err, "could not apply per-block rewards")
	}
	return workingState, nil
}
