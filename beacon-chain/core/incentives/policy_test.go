package incentives_test

import (
	"testing"

	"github.com/gridbox-network/grysm/beacon-chain/core/incentives"
	"github.com/gridbox-network/grysm/config/params"
	types "github.com/gridbox-network/grysm/consensus-types/primitives"
	"github.com/gridbox-network/grysm/testing/assert"
	"github.com/gridbox-network/grysm/testing/require"
)

func TestDefaultPolicy_Validates(t *testing.T) {
	require.NoError(t, incentives.DefaultPolicy().Validate())
}

func TestDefaultPolicy_TwoRegimes(t *testing.T) {
	p := incentives.DefaultPolicy()

	early := p.At(0)
	late := p.At(params.BeaconConfig().FarFutureEpoch)
	assert.Equal(t, true, early.ProposerReward > late.ProposerReward, "initial incentive proposer reward should exceed steady state")
	assert.Equal(t, true, early.AttesterReward > late.AttesterReward, "initial incentive attester reward should exceed steady state")
	assert.Equal(t, true, late.ProposerReward > 0, "steady state should still pay proposers")
}

func TestDefaultPolicy_Monotone(t *testing.T) {
	p := incentives.DefaultPolicy()
	prev := p.At(0)
	for e := types.Epoch(1); e < 1024; e++ {
		curr := p.At(e)
		if curr.ProposerReward > prev.ProposerReward ||
			curr.AttesterReward > prev.AttesterReward ||
			curr.SyncCommitteeReward > prev.SyncCommitteeReward {
			t.Fatalf("reward magnitudes increased at epoch %d", e)
		}
		prev = curr
	}
}

func TestGridboxRewardSchedule_Validates(t *testing.T) {
	require.NoError(t, incentives.GridboxRewardSchedule().Validate())
}

func TestGridboxRewardSchedule_DeclinesAndTerminates(t *testing.T) {
	p := incentives.GridboxRewardSchedule()

	assert.Equal(t, uint64(2_600_000_000), p.At(0).ProposerReward)
	assert.Equal(t, uint64(2_600_000_000), p.At(25200).ProposerReward, "step boundary is inclusive")
	assert.Equal(t, uint64(2_100_000_000), p.At(25201).ProposerReward)
	assert.Equal(t, uint64(5_000_000), p.At(2293200).ProposerReward)

	// Emission ends once the table runs out.
	final := p.At(2293201)
	assert.Equal(t, uint64(0), final.ProposerReward)
	assert.Equal(t, uint64(0), final.AttesterReward)
	assert.Equal(t, uint64(0), final.SyncCommitteeReward)
}

func TestRewardPolicy_Validate(t *testing.T) {
	tests := []struct {
		name    string
		policy  *incentives.RewardPolicy
		wantErr string
	}{
		{
			name:    "no steps",
			policy:  &incentives.RewardPolicy{},
			wantErr: "reward policy has no steps",
		},
		{
			name: "non increasing boundary",
			policy: &incentives.RewardPolicy{
				Steps: []incentives.RewardStep{
					{UpToEpoch: 100, ProposerReward: 10},
					{UpToEpoch: 100, ProposerReward: 5},
				},
			},
			wantErr: "boundary 100 does not increase past 100",
		},
		{
			name: "increasing proposer magnitude",
			policy: &incentives.RewardPolicy{
				Steps: []incentives.RewardStep{
					{UpToEpoch: 100, ProposerReward: 10},
					{UpToEpoch: 200, ProposerReward: 20},
				},
			},
			wantErr: "proposer reward 20 exceeds previous step's 10",
		},
		{
			name: "increasing attester magnitude",
			policy: &incentives.RewardPolicy{
				Steps: []incentives.RewardStep{
					{UpToEpoch: 100, AttesterReward: 1},
					{UpToEpoch: 200, AttesterReward: 2},
				},
			},
			wantErr: "attester reward 2 exceeds previous step's 1",
		},
		{
			name: "split does not sum to 100",
			policy: &incentives.RewardPolicy{
				Steps:                 []incentives.RewardStep{{UpToEpoch: 100, ProposerReward: 10}},
				ValidatorSharePercent: 70,
				Sinks:                 []incentives.SinkShare{{Index: 0, Percent: 20}},
			},
			wantErr: "sum to 90, want 100",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.ErrorContains(t, tt.wantErr, tt.policy.Validate())
		})
	}
}

func TestRewardPolicy_Validate_OK(t *testing.T) {
	p := &incentives.RewardPolicy{
		Steps: []incentives.RewardStep{
			{UpToEpoch: 10, ProposerReward: 100, AttesterReward: 10, SyncCommitteeReward: 10},
			{UpToEpoch: 20, ProposerReward: 100, AttesterReward: 5, SyncCommitteeReward: 5},
		},
		ValidatorSharePercent: 100,
	}
	require.NoError(t, p.Validate())
}

func TestRewardPolicy_At(t *testing.T) {
	p := &incentives.RewardPolicy{
		Steps: []incentives.RewardStep{
			{UpToEpoch: 10, ProposerReward: 100, AttesterReward: 10, SyncCommitteeReward: 4},
			{UpToEpoch: 20, ProposerReward: 50, AttesterReward: 5, SyncCommitteeReward: 2},
		},
	}

	assert.Equal(t, uint64(100), p.At(0).ProposerReward)
	assert.Equal(t, uint64(100), p.At(10).ProposerReward)
	assert.Equal(t, uint64(50), p.At(11).ProposerReward)
	assert.Equal(t, uint64(5), p.At(20).AttesterReward)
	assert.Equal(t, uint64(0), p.At(21).ProposerReward)
	assert.Equal(t, uint64(0), p.At(21).SyncCommitteeReward)
}
