package incentives

import (
	"context"

	"github.com/gridbox-network/grysm/beacon-chain/core/helpers"
	coreTime "github.com/gridbox-network/grysm/beacon-chain/core/time"
	"github.com/gridbox-network/grysm/beacon-chain/state"
	"github.com/gridbox-network/grysm/config/features"
	"github.com/gridbox-network/grysm/config/params"
	types "github.com/gridbox-network/grysm/consensus-types/primitives"
	"github.com/gridbox-network/grysm/encoding/bytesutil"
	"github.com/gridbox-network/grysm/runtime/version"
	"github.com/gridbox-network/grysm/time/slots"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sirupsen/logrus"
	"go.opencensus.io/trace"
)

var log = logrus.WithField("prefix", "incentives")

var (
	rewardCreditFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reward_credit_failures_total",
		Help: "Count of reward credits skipped because the target validator index could not be resolved.",
	})
	sinkCreditFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reward_sink_credit_failures_total",
		Help: "Count of fee sink credits skipped because the sink index could not be credited.",
	})
	proposerSkippedSlotsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reward_proposer_skipped_slots_total",
		Help: "Count of slots whose proposer reward was skipped because the proposer could not be resolved.",
	})
)

// creditPass accumulates the fee sink shares of one reward pass so each sink
// is credited once at the end, instead of once per rewarded validator.
type creditPass struct {
	policy     *RewardPolicy
	sinkTotals map[types.ValidatorIndex]uint64
}

func newCreditPass(policy *RewardPolicy) *creditPass {
	return &creditPass{
		policy:     policy,
		sinkTotals: make(map[types.ValidatorIndex]uint64, len(policy.Sinks)),
	}
}

// credit pays the validator its share of amount and records the sink shares
// for later settlement. Each sink share rounds down, the remainder stays with
// the validator, so the validator share plus all sink shares equal amount
// exactly.
func (p *creditPass) credit(st state.BeaconState, idx types.ValidatorIndex, amount uint64, kind string) error {
	validatorShare := amount
	for _, s := range p.policy.Sinks {
		share := amount * s.Percent / 100
		p.sinkTotals[s.Index] += share
		validatorShare -= share
	}
	if err := helpers.IncreaseBalance(st, idx, validatorShare); err != nil {
		return err
	}
	if features.Get().WriteRewardLedgerToLogs {
		log.WithFields(logrus.Fields{
			"validatorIndex": idx,
			"amount":         validatorShare,
			"kind":           kind,
		}).Debug("Credited reward")
	}
	return nil
}

// settle applies the accumulated sink totals, one credit per sink. A sink
// that cannot be credited is logged and skipped so the economic layer never
// blocks the rest of the transition.
func (p *creditPass) settle(st state.BeaconState) {
	for _, s := range p.policy.Sinks {
		total := p.sinkTotals[s.Index]
		if total == 0 {
			continue
		}
		if err := helpers.IncreaseBalance(st, s.Index, total); err != nil {
			sinkCreditFailuresTotal.Inc()
			log.WithError(err).WithFields(logrus.Fields{
				"sinkIndex": s.Index,
				"amount":    total,
			}).Warn("Could not credit fee sink, skipping")
			continue
		}
		if features.Get().WriteRewardLedgerToLogs {
			log.WithFields(logrus.Fields{
				"sinkIndex": s.Index,
				"amount":    total,
			}).Debug("Credited fee sink")
		}
	}
}

// ProcessEpochRewards applies the per-epoch portion of the reward policy to
// the state: one proposer reward for every slot of the current epoch and one
// attester reward for every validator that participated in the previous or
// current epoch. Validators with no recorded participation anywhere fall back
// to the full active set so a degenerate state still pays somebody.
func ProcessEpochRewards(ctx context.Context, st state.BeaconState, policy *RewardPolicy) (state.BeaconState, error) {
	ctx, span := trace.StartSpan(ctx, "incentives.ProcessEpochRewards")
	defer span.End()

	if policy == nil {
		return nil, errors.New("nil reward policy")
	}
	epoch := coreTime.CurrentEpoch(st)
	step := policy.At(epoch)

	pass := newCreditPass(policy)
	if step.ProposerReward > 0 {
		if err := creditProposers(ctx, st, pass, epoch, step.ProposerReward); err != nil {
			return nil, err
		}
	}
	if step.AttesterReward > 0 {
		attesters, err := epochAttesters(ctx, st, epoch)
		if err != nil {
			return nil, errors.Wrap(err, "could not collect participating attesters")
		}
		for _, idx := range attesters {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if err := pass.credit(st, idx, step.AttesterReward, "attester"); err != nil {
				return nil, errors.Wrapf(err, "could not credit attester %d", idx)
			}
		}
	}
	pass.settle(st)
	return st, nil
}

// creditProposers resolves each slot's proposer and credits it the proposer
// magnitude. A slot whose proposer cannot be resolved is skipped and logged,
// not fatal.
func creditProposers(ctx context.Context, st state.BeaconState, pass *creditPass, epoch types.Epoch, amount uint64) error {
	start, err := slots.EpochStart(epoch)
	if err != nil {
		return err
	}
	for i := types.Slot(0); i < params.BeaconConfig().SlotsPerEpoch; i++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		slot := start + i
		proposerIdx, err := helpers.BeaconProposerIndexAtSlot(ctx, st, slot)
		if err != nil {
			proposerSkippedSlotsTotal.Inc()
			log.WithError(err).WithField("slot", slot).Warn("Could not resolve proposer for slot, skipping reward")
			continue
		}
		if err := pass.credit(st, proposerIdx, amount, "proposer"); err != nil {
			return errors.Wrapf(err, "could not credit proposer %d", proposerIdx)
		}
	}
	return nil
}

// epochAttesters returns the indices whose previous or current epoch
// participation flags are non-zero. When nothing participated, or the state
// predates participation flags, every active validator of the epoch is
// returned instead.
func epochAttesters(ctx context.Context, st state.BeaconState, epoch types.Epoch) ([]types.ValidatorIndex, error) {
	if st.Version() > version.Phase0 {
		cp, err := st.CurrentEpochParticipation()
		if err != nil {
			return nil, err
		}
		pp, err := st.PreviousEpochParticipation()
		if err != nil {
			return nil, err
		}
		attesters := make([]types.ValidatorIndex, 0, len(cp))
		for i := 0; i < len(cp); i++ {
			flags := cp[i]
			if i < len(pp) {
				flags |= pp[i]
			}
			if flags != 0 {
				attesters = append(attesters, types.ValidatorIndex(i))
			}
		}
		if len(attesters) > 0 {
			return attesters, nil
		}
	}
	return helpers.ActiveValidatorIndices(ctx, st, epoch)
}

// ProcessBlockRewards applies the per-block portion of the reward policy:
// every participant recorded in the latest sync aggregate earns the sync
// committee magnitude. Participants resolve through the committee's public
// keys rather than raw bit positions, so a reordered committee still pays the
// right validators. Phase 0 states carry no sync committees and pass through
// unchanged.
func ProcessBlockRewards(ctx context.Context, st state.BeaconState, policy *RewardPolicy) (state.BeaconState, error) {
	ctx, span := trace.StartSpan(ctx, "incentives.ProcessBlockRewards")
	defer span.End()

	if policy == nil {
		return nil, errors.New("nil reward policy")
	}
	if st.Version() == version.Phase0 {
		return st, nil
	}
	step := policy.At(coreTime.CurrentEpoch(st))
	if step.SyncCommitteeReward == 0 {
		return st, nil
	}

	bits, err := st.CurrentSyncAggregateBits()
	if err != nil {
		return nil, err
	}
	committee, err := st.CurrentSyncCommittee()
	if err != nil {
		return nil, err
	}
	if uint64(len(committee.Pubkeys)) < bits.Len() {
		return nil, errors.Errorf("sync aggregate bits length %d exceeds committee size %d", bits.Len(), len(committee.Pubkeys))
	}

	pass := newCreditPass(policy)
	for i := uint64(0); i < bits.Len(); i++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if !bits.BitAt(i) {
			continue
		}
		idx, ok := st.ValidatorIndexByPubkey(bytesutil.ToBytes48(committee.Pubkeys[i]))
		if !ok {
			rewardCreditFailuresTotal.Inc()
			log.WithField("committeePosition", i).Warn("Sync committee pubkey not found in registry, skipping reward")
			continue
		}
		if err := pass.credit(st, idx, step.SyncCommitteeReward, "sync"); err != nil {
			return nil, errors.Wrapf(err, "could not credit sync committee participant %d", idx)
		}
	}
	pass.settle(st)
	return st, nil
}
