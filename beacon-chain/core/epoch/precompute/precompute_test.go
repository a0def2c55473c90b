package precompute_test

import (
	"context"
	"testing"

	"github.com/gridbox-network/grysm/beacon-chain/core/altair"
	"github.com/gridbox-network/grysm/beacon-chain/core/epoch/precompute"
	"github.com/gridbox-network/grysm/config/params"
	"github.com/gridbox-network/grysm/testing/assert"
	"github.com/gridbox-network/grysm/testing/require"
	"github.com/gridbox-network/grysm/testing/util"
)

func TestInitializeEpochValidators_AllActive(t *testing.T) {
	st, _ := util.DeterministicGenesisState(t, 64)

	vals, bal, err := precompute.InitializeEpochValidators(context.Background(), st)
	require.NoError(t, err)
	require.Equal(t, 64, len(vals))

	maxBal := params.BeaconConfig().MaxEffectiveBalance
	for i, v := range vals {
		require.Equal(t, true, v.IsActiveCurrentEpoch, "validator %d inactive", i)
		require.Equal(t, true, v.IsActivePrevEpoch)
		require.Equal(t, false, v.IsSlashed)
		require.Equal(t, false, v.IsWithdrawableCurrentEpoch)
		require.Equal(t, maxBal, v.CurrentEpochEffectiveBalance)
	}
	assert.Equal(t, 64*maxBal, bal.ActiveCurrentEpoch)
	assert.Equal(t, 64*maxBal, bal.ActivePrevEpoch)
}

func TestInitializeEpochValidators_SlashedAndExited(t *testing.T) {
	st, _ := util.DeterministicGenesisState(t, 64)
	val, err := st.ValidatorAtIndex(2)
	require.NoError(t, err)
	val.Slashed = true
	val.WithdrawableEpoch = 0
	require.NoError(t, st.UpdateValidatorAtIndex(2, val))

	vals, _, err := precompute.InitializeEpochValidators(context.Background(), st)
	require.NoError(t, err)
	assert.Equal(t, true, vals[2].IsSlashed)
	assert.Equal(t, true, vals[2].IsWithdrawableCurrentEpoch)
}

func TestProcessEpochParticipation_Phase0Passthrough(t *testing.T) {
	st, _ := util.DeterministicGenesisState(t, 64)
	vals, bal, err := precompute.InitializeEpochValidators(context.Background(), st)
	require.NoError(t, err)

	vals, bal, err = precompute.ProcessEpochParticipation(context.Background(), st, bal, vals)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), bal.PrevEpochAttested)
	assert.Equal(t, false, vals[0].IsPrevEpochAttester)
}

func TestProcessEpochParticipation_ReadsFlags(t *testing.T) {
	st, _ := util.DeterministicGenesisStateAltair(t, 64)
	cfg := params.BeaconConfig()

	full := participationByte(t, cfg.TimelySourceFlagIndex, cfg.TimelyTargetFlagIndex, cfg.TimelyHeadFlagIndex)
	sourceOnly := participationByte(t, cfg.TimelySourceFlagIndex)
	prev := make([]byte, 64)
	prev[0] = full
	prev[1] = sourceOnly
	require.NoError(t, st.SetPreviousParticipationBits(prev))
	curr := make([]byte, 64)
	curr[3] = participationByte(t, cfg.TimelyTargetFlagIndex)
	require.NoError(t, st.SetCurrentParticipationBits(curr))

	vals, bal, err := precompute.InitializeEpochValidators(context.Background(), st)
	require.NoError(t, err)
	vals, bal, err = precompute.ProcessEpochParticipation(context.Background(), st, bal, vals)
	require.NoError(t, err)

	assert.Equal(t, true, vals[0].IsPrevEpochAttester)
	assert.Equal(t, true, vals[0].IsPrevEpochTargetAttester)
	assert.Equal(t, true, vals[0].IsPrevEpochHeadAttester)
	assert.Equal(t, true, vals[1].IsPrevEpochAttester)
	assert.Equal(t, false, vals[1].IsPrevEpochTargetAttester)
	assert.Equal(t, true, vals[3].IsCurrentEpochTargetAttester)

	maxBal := params.BeaconConfig().MaxEffectiveBalance
	assert.Equal(t, 2*maxBal, bal.PrevEpochAttested)
	assert.Equal(t, maxBal, bal.PrevEpochTargetAttested)
	assert.Equal(t, maxBal, bal.PrevEpochHeadAttested)
	assert.Equal(t, maxBal, bal.CurrentEpochTargetAttested)
}

func TestUpdateBalance_SkipsSlashed(t *testing.T) {
	vals := []*precompute.Validator{
		{IsPrevEpochAttester: true, CurrentEpochEffectiveBalance: 100},
		{IsPrevEpochAttester: true, IsSlashed: true, CurrentEpochEffectiveBalance: 100},
	}
	bal := precompute.UpdateBalance(vals, &precompute.Balance{})
	assert.Equal(t, uint64(100), bal.PrevEpochAttested)
}

func TestProcessSlashingsPrecompute_AppliesProportionalPenalty(t *testing.T) {
	st, _ := util.DeterministicGenesisState(t, 64)
	cfg := params.BeaconConfig()
	epochToWithdraw := cfg.EpochsPerSlashingsVector.Div(2)

	val, err := st.ValidatorAtIndex(1)
	require.NoError(t, err)
	val.Slashed = true
	val.WithdrawableEpoch = epochToWithdraw
	require.NoError(t, st.UpdateValidatorAtIndex(1, val))
	// Two full-balance slashing buckets.
	require.NoError(t, st.UpdateSlashingsAtIndex(0, cfg.MaxEffectiveBalance))
	require.NoError(t, st.UpdateSlashingsAtIndex(1, cfg.MaxEffectiveBalance))

	_, bal, err := precompute.InitializeEpochValidators(context.Background(), st)
	require.NoError(t, err)
	require.NoError(t, precompute.ProcessSlashingsPrecompute(st, bal))

	// penalty = effBal/increment * min(total*multiplier, activeBal) / activeBal * increment
	total := 2 * cfg.MaxEffectiveBalance * cfg.ProportionalSlashingMultiplier
	expected := cfg.MaxEffectiveBalance / cfg.EffectiveBalanceIncrement * total / bal.ActiveCurrentEpoch * cfg.EffectiveBalanceIncrement
	require.Equal(t, true, expected > 0, "test setup produced a zero penalty")

	balance, err := st.BalanceAtIndex(1)
	require.NoError(t, err)
	assert.Equal(t, cfg.MaxEffectiveBalance-expected, balance)

	// Untouched validator keeps its balance.
	other, err := st.BalanceAtIndex(2)
	require.NoError(t, err)
	assert.Equal(t, cfg.MaxEffectiveBalance, other)
}

func TestProcessSlashingsPrecompute_NoEligibleValidators(t *testing.T) {
	st, _ := util.DeterministicGenesisState(t, 64)
	require.NoError(t, st.UpdateSlashingsAtIndex(0, params.BeaconConfig().MaxEffectiveBalance))

	_, bal, err := precompute.InitializeEpochValidators(context.Background(), st)
	require.NoError(t, err)
	require.NoError(t, precompute.ProcessSlashingsPrecompute(st, bal))

	balance, err := st.BalanceAtIndex(0)
	require.NoError(t, err)
	assert.Equal(t, params.BeaconConfig().MaxEffectiveBalance, balance)
}

func TestProcessSlashingsPrecompute_RequiresBalance(t *testing.T) {
	st, _ := util.DeterministicGenesisState(t, 64)
	err := precompute.ProcessSlashingsPrecompute(st, &precompute.Balance{})
	require.ErrorContains(t, "precomputed active balance can't be nil or zero", err)
}

func participationByte(t *testing.T, flags ...uint8) byte {
	t.Helper()
	var b uint8
	var err error
	for _, f := range flags {
		b, err = altair.AddValidatorFlag(b, f)
		require.NoError(t, err)
	}
	return b
}
