package validators

import (
	"context"
	"testing"

	"github.com/gridbox-network/grysm/config/params"
	types "github.com/gridbox-network/grysm/consensus-types/primitives"
	"github.com/gridbox-network/grysm/testing/assert"
	"github.com/gridbox-network/grysm/testing/require"
	"github.com/gridbox-network/grysm/testing/util"
)

func TestSlashValidator_OK(t *testing.T) {
	st, _ := util.DeterministicGenesisState(t, 64)
	slashedIdx := types.ValidatorIndex(2)

	balanceBefore, err := st.BalanceAtIndex(slashedIdx)
	require.NoError(t, err)

	st, err = SlashValidator(context.Background(), st, slashedIdx, 0)
	require.NoError(t, err)

	val, err := st.ValidatorAtIndex(slashedIdx)
	require.NoError(t, err)
	assert.Equal(t, true, val.Slashed, "Validator not slashed")
	assert.Equal(t, params.BeaconConfig().EpochsPerSlashingsVector+1, val.WithdrawableEpoch)

	// The full effective balance enters the epoch's slashings bucket.
	assert.Equal(t, params.BeaconConfig().MaxEffectiveBalance, st.Slashings()[0])

	// 32e9 / MinSlashingPenaltyQuotient(64) leaves a 5e8 Gwei penalty.
	wantedPenalty := params.BeaconConfig().MaxEffectiveBalance / params.BeaconConfig().MinSlashingPenaltyQuotient
	balanceAfter, err := st.BalanceAtIndex(slashedIdx)
	require.NoError(t, err)
	assert.Equal(t, balanceBefore-wantedPenalty, balanceAfter)
}

func TestSlashValidator_AltairPenalty(t *testing.T) {
	st, _ := util.DeterministicGenesisStateAltair(t, 64)
	slashedIdx := types.ValidatorIndex(1)

	balanceBefore, err := st.BalanceAtIndex(slashedIdx)
	require.NoError(t, err)

	st, err = SlashValidator(context.Background(), st, slashedIdx, 0)
	require.NoError(t, err)

	// 32e9 effective balance over the Altair quotient of 64 is a 5e8 penalty.
	balanceAfter, err := st.BalanceAtIndex(slashedIdx)
	require.NoError(t, err)
	assert.Equal(t, uint64(5*1e8), balanceBefore-balanceAfter)
}

func TestSlashValidator_AlreadySlashed(t *testing.T) {
	st, _ := util.DeterministicGenesisState(t, 64)
	slashedIdx := types.ValidatorIndex(5)

	st, err := SlashValidator(context.Background(), st, slashedIdx, 0)
	require.NoError(t, err)
	valAfterFirst, err := st.ValidatorAtIndex(slashedIdx)
	require.NoError(t, err)
	balanceAfterFirst, err := st.BalanceAtIndex(slashedIdx)
	require.NoError(t, err)

	_, err = SlashValidator(context.Background(), st, slashedIdx, 0)
	assert.ErrorIs(t, err, ErrValidatorAlreadySlashed)

	// The rejected call leaves the validator and its balance untouched.
	valAfterSecond, err := st.ValidatorAtIndex(slashedIdx)
	require.NoError(t, err)
	assert.DeepEqual(t, valAfterFirst, valAfterSecond)
	balanceAfterSecond, err := st.BalanceAtIndex(slashedIdx)
	require.NoError(t, err)
	assert.Equal(t, balanceAfterFirst, balanceAfterSecond)
	assert.Equal(t, params.BeaconConfig().MaxEffectiveBalance, st.Slashings()[0], "slashings bucket double counted")
}

func TestSlashValidator_WithdrawableEpochNotLowered(t *testing.T) {
	st, _ := util.DeterministicGenesisState(t, 64)
	slashedIdx := types.ValidatorIndex(7)

	// A withdrawable epoch already past the slashing horizon stays put.
	val, err := st.ValidatorAtIndex(slashedIdx)
	require.NoError(t, err)
	farOut := params.BeaconConfig().EpochsPerSlashingsVector * 3
	val.WithdrawableEpoch = farOut
	require.NoError(t, st.UpdateValidatorAtIndex(slashedIdx, val))

	st, err = SlashValidator(context.Background(), st, slashedIdx, 0)
	require.NoError(t, err)
	val, err = st.ValidatorAtIndex(slashedIdx)
	require.NoError(t, err)
	assert.Equal(t, farOut, val.WithdrawableEpoch)
}

func TestSlashValidator_UnknownIndex(t *testing.T) {
	st, _ := util.DeterministicGenesisState(t, 4)
	_, err := SlashValidator(context.Background(), st, 100, 0)
	assert.NotNil(t, err)
}

func TestSlashedValidatorIndices_OK(t *testing.T) {
	st, _ := util.DeterministicGenesisState(t, 8)
	st, err := SlashValidator(context.Background(), st, 3, 0)
	require.NoError(t, err)

	indices := SlashedValidatorIndices(0, st.Validators())
	assert.DeepEqual(t, []types.ValidatorIndex{3}, indices)
}
