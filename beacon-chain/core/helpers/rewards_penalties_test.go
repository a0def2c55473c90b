package helpers

import (
	"math"
	"testing"

	"github.com/gridbox-network/grysm/beacon-chain/state"
	statenative "github.com/gridbox-network/grysm/beacon-chain/state/state-native"
	"github.com/gridbox-network/grysm/config/params"
	"github.com/gridbox-network/grysm/consensus-types/gbtypes"
	types "github.com/gridbox-network/grysm/consensus-types/primitives"
	"github.com/gridbox-network/grysm/testing/assert"
	"github.com/gridbox-network/grysm/testing/require"
	"github.com/gridbox-network/grysm/testing/util"
)

func registryState(t *testing.T, effectiveBalances []uint64) state.BeaconState {
	validators := make([]*gbtypes.Validator, len(effectiveBalances))
	for i, bal := range effectiveBalances {
		pub := make([]byte, 48)
		pub[0] = byte(i + 1)
		validators[i] = &gbtypes.Validator{
			PublicKey:             pub,
			WithdrawalCredentials: make([]byte, 32),
			EffectiveBalance:      bal,
			ExitEpoch:             params.BeaconConfig().FarFutureEpoch,
			WithdrawableEpoch:     params.BeaconConfig().FarFutureEpoch,
		}
	}
	st, err := util.NewBeaconState(func(f *statenative.Fields) error {
		f.Validators = validators
		f.Balances = append([]uint64{}, effectiveBalances...)
		return nil
	})
	require.NoError(t, err)
	return st
}

func TestTotalBalance_OK(t *testing.T) {
	st := registryState(t, []uint64{27 * 1e9, 28 * 1e9, 32 * 1e9, 40 * 1e9})

	balance := TotalBalance(st, []types.ValidatorIndex{0, 1, 2, 3})
	wanted := uint64(27*1e9 + 28*1e9 + 32*1e9 + 40*1e9)
	assert.Equal(t, wanted, balance)
}

func TestTotalBalance_ReturnsOneWhenEmpty(t *testing.T) {
	st := registryState(t, nil)

	// A lower bound of 1 Gwei keeps downstream quotients division safe.
	assert.Equal(t, uint64(1), TotalBalance(st, []types.ValidatorIndex{}))
}

func TestTotalActiveBalance_OK(t *testing.T) {
	ClearCache()
	st := registryState(t, []uint64{32 * 1e9, 30 * 1e9, 30 * 1e9, 32 * 1e9})

	total, err := TotalActiveBalance(st)
	require.NoError(t, err)
	assert.Equal(t, uint64(124*1e9), total)

	// Second read is served by the balance cache and must agree.
	again, err := TotalActiveBalance(st)
	require.NoError(t, err)
	assert.Equal(t, total, again)
}

func TestIncreaseBalance_OK(t *testing.T) {
	tests := []struct {
		i  types.ValidatorIndex
		b  []uint64
		nb uint64
		eb uint64
	}{
		{i: 0, b: []uint64{27 * 1e9, 28 * 1e9, 32 * 1e9}, nb: 1, eb: 27*1e9 + 1},
		{i: 1, b: []uint64{27 * 1e9, 28 * 1e9, 32 * 1e9}, nb: 0, eb: 28 * 1e9},
		{i: 2, b: []uint64{27 * 1e9, 28 * 1e9, 32 * 1e9}, nb: 33 * 1e9, eb: 65 * 1e9},
	}
	for _, test := range tests {
		st := registryState(t, test.b)
		require.NoError(t, IncreaseBalance(st, test.i, test.nb))
		bal, err := st.BalanceAtIndex(test.i)
		require.NoError(t, err)
		assert.Equal(t, test.eb, bal, "IncreaseBalance(%d)", test.i)
	}
}

func TestIncreaseBalanceWithVal_SaturatesAtMaxUint64(t *testing.T) {
	assert.Equal(t, uint64(math.MaxUint64), IncreaseBalanceWithVal(math.MaxUint64-1, 2))
}

func TestDecreaseBalance_OK(t *testing.T) {
	tests := []struct {
		i  types.ValidatorIndex
		b  []uint64
		nb uint64
		eb uint64
	}{
		{i: 0, b: []uint64{2, 28 * 1e9, 32 * 1e9}, nb: 1, eb: 1},
		{i: 1, b: []uint64{27 * 1e9, 28 * 1e9, 32 * 1e9}, nb: 0, eb: 28 * 1e9},
		{i: 2, b: []uint64{27 * 1e9, 28 * 1e9, 1}, nb: 2, eb: 0},
	}
	for _, test := range tests {
		st := registryState(t, test.b)
		require.NoError(t, DecreaseBalance(st, test.i, test.nb))
		bal, err := st.BalanceAtIndex(test.i)
		require.NoError(t, err)
		assert.Equal(t, test.eb, bal, "DecreaseBalance(%d)", test.i)
	}
}
