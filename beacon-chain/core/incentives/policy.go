// Package incentives implements the pluggable economic layer applied on top
// of the protocol-mandatory validity checks: an epoch-indexed reward schedule
// for proposers, attesters and sync committee participants, with an optional
// fixed percentage split routing part of every credit to protocol fee sinks.
package incentives

import (
	"github.com/gridbox-network/grysm/config/params"
	types "github.com/gridbox-network/grysm/consensus-types/primitives"
	"github.com/pkg/errors"
)

// RewardStep is one step of a reward schedule. It applies to every epoch less
// than or equal to UpToEpoch that is not covered by an earlier step.
type RewardStep struct {
	// UpToEpoch is the last epoch (inclusive) this step applies to.
	UpToEpoch types.Epoch
	// ProposerReward is credited once per slot to that slot's proposer, in Gwei.
	ProposerReward uint64
	// AttesterReward is credited once per epoch to every participating attester, in Gwei.
	AttesterReward uint64
	// SyncCommitteeReward is credited to every sync aggregate participant, in Gwei.
	SyncCommitteeReward uint64
}

// SinkShare routes a fixed percentage of every credit to a reserved
// validator registry index.
type SinkShare struct {
	Index   types.ValidatorIndex
	Percent uint64
}

// RewardPolicy is an epoch-indexed, non-increasing step function giving the
// reward magnitudes for the current epoch, plus an optional percentage split
// across the earning validator and the protocol fee sinks. The schedule is a
// pure function of the epoch number and is evaluated once per reward pass.
type RewardPolicy struct {
	Steps []RewardStep
	// ValidatorSharePercent is the percentage of every credit kept by the
	// earning validator. Together with the sink percentages it must sum to
	// exactly 100. When Sinks is empty the validator keeps the full amount.
	ValidatorSharePercent uint64
	Sinks                 []SinkShare
}

// Validate checks the policy's structural invariants: a non-empty schedule
// with strictly increasing step boundaries, non-increasing reward magnitudes,
// and a percentage split summing to exactly 100 when sinks are configured.
func (p *RewardPolicy) Validate() error {
	if len(p.Steps) == 0 {
		return errors.New("reward policy has no steps")
	}
	for i := 1; i < len(p.Steps); i++ {
		prev, curr := p.Steps[i-1], p.Steps[i]
		if curr.UpToEpoch <= prev.UpToEpoch {
			return errors.Errorf("step %d boundary %d does not increase past %d", i, curr.UpToEpoch, prev.UpToEpoch)
		}
		if curr.ProposerReward > prev.ProposerReward {
			return errors.Errorf("step %d proposer reward %d exceeds previous step's %d", i, curr.ProposerReward, prev.ProposerReward)
		}
		if curr.AttesterReward > prev.AttesterReward {
			return errors.Errorf("step %d attester reward %d exceeds previous step's %d", i, curr.AttesterReward, prev.AttesterReward)
		}
		if curr.SyncCommitteeReward > prev.SyncCommitteeReward {
			return errors.Errorf("step %d sync committee reward %d exceeds previous step's %d", i, curr.SyncCommitteeReward, prev.SyncCommitteeReward)
		}
	}
	if len(p.Sinks) > 0 {
		sum := p.ValidatorSharePercent
		for _, s := range p.Sinks {
			sum += s.Percent
		}
		if sum != 100 {
			return errors.Errorf("reward share percentages sum to %d, want 100", sum)
		}
	}
	return nil
}

// At evaluates the schedule at the given epoch. Epochs past the last step's
// boundary earn nothing.
func (p *RewardPolicy) At(epoch types.Epoch) RewardStep {
	for _, s := range p.Steps {
		if epoch <= s.UpToEpoch {
			return RewardStep{
				UpToEpoch:           s.UpToEpoch,
				ProposerReward:      s.ProposerReward,
				AttesterReward:      s.AttesterReward,
				SyncCommitteeReward: s.SyncCommitteeReward,
			}
		}
	}
	return RewardStep{UpToEpoch: epoch}
}

// defaultInitialIncentiveEpochs is how long the elevated bootstrap rewards of
// the default policy last before dropping to the steady-state magnitudes.
const defaultInitialIncentiveEpochs = types.Epoch(256)

// DefaultPolicy returns a two-regime policy: elevated magnitudes during the
// initial incentive window, then lower steady-state magnitudes from there on.
// The split routes the treasury and marketing shares from the chain config.
func DefaultPolicy() *RewardPolicy {
	cfg := params.BeaconConfig()
	return &RewardPolicy{
		Steps: []RewardStep{
			{
				UpToEpoch:           defaultInitialIncentiveEpochs - 1,
				ProposerReward:      1_000_000_000,
				AttesterReward:      200_000,
				SyncCommitteeReward: 200_000,
			},
			{
				UpToEpoch:           cfg.FarFutureEpoch,
				ProposerReward:      500_000_000,
				AttesterReward:      100_000,
				SyncCommitteeReward: 100_000,
			},
		},
		ValidatorSharePercent: cfg.ValidatorRewardSharePercent,
		Sinks: []SinkShare{
			{Index: cfg.TreasurySinkIndex, Percent: cfg.TreasuryRewardSharePercent},
			{Index: cfg.MarketingSinkIndex, Percent: cfg.MarketingRewardSharePercent},
		},
	}
}

// GridboxRewardSchedule returns the production proposer emission table: a
// declining step curve over roughly ten years of epochs, with flat attester
// and sync committee magnitudes throughout. Epochs past the final step earn
// nothing, which terminates emission.
func GridboxRewardSchedule() *RewardPolicy {
	cfg := params.BeaconConfig()
	const (
		attesterReward uint64 = 100_000
		syncReward     uint64 = 100_000
	)
	proposerSteps := []struct {
		upTo   types.Epoch
		reward uint64
	}{
		{25200, 2_600_000_000},
		{100800, 2_100_000_000},
		{176400, 1_700_000_000},
		{252000, 1_300_000_000},
		{327600, 1_100_000_000},
		{403200, 1_000_000_000},
		{478800, 900_000_000},
		{554400, 750_000_000},
		{630000, 650_000_000},
		{705600, 650_000_000},
		{781200, 600_000_000},
		{856800, 550_000_000},
		{932400, 500_000_000},
		{1008000, 450_000_000},
		{1083600, 400_000_000},
		{1159200, 350_000_000},
		{1234800, 300_000_000},
		{1310400, 250_000_000},
		{1386000, 200_000_000},
		{1461600, 150_000_000},
		{1537200, 100_000_000},
		{1612800, 50_000_000},
		{1688400, 45_000_000},
		{1764000, 40_000_000},
		{1839600, 35_000_000},
		{1915200, 30_000_000},
		{1990800, 25_000_000},
		{2066400, 20_000_000},
		{2142000, 15_000_000},
		{2217600, 10_000_000},
		{2293200, 5_000_000},
	}
	steps := make([]RewardStep, 0, len(proposerSteps))
	for _, s := range proposerSteps {
		steps = append(steps, RewardStep{
			UpToEpoch:           s.upTo,
			ProposerReward:      s.reward,
			AttesterReward:      attesterReward,
			SyncCommitteeReward: syncReward,
		})
	}
	return &RewardPolicy{
		Steps:                 steps,
		ValidatorSharePercent: cfg.ValidatorRewardSharePercent,
		Sinks: []SinkShare{
			{Index: cfg.TreasurySinkIndex, Percent: cfg.TreasuryRewardSharePercent},
			{Index: cfg.MarketingSinkIndex, Percent: cfg.MarketingRewardSharePercent},
		},
	}
}
