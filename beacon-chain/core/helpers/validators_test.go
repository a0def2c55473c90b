package helpers

import (
	"context"
	"testing"

	statenative "github.com/gridbox-network/grysm/beacon-chain/state/state-native"
	"github.com/gridbox-network/grysm/config/params"
	"github.com/gridbox-network/grysm/consensus-types/gbtypes"
	types "github.com/gridbox-network/grysm/consensus-types/primitives"
	"github.com/gridbox-network/grysm/testing/assert"
	"github.com/gridbox-network/grysm/testing/require"
	"github.com/gridbox-network/grysm/testing/util"
)

func TestIsActiveValidator_OK(t *testing.T) {
	tests := []struct {
		a types.Epoch
		b bool
	}{
		{a: 0, b: false},
		{a: 10, b: true},
		{a: 100, b: false},
		{a: 1000, b: false},
		{a: 64, b: true},
	}
	for _, test := range tests {
		validator := &gbtypes.Validator{ActivationEpoch: 10, ExitEpoch: 100}
		assert.Equal(t, test.b, IsActiveValidator(validator, test.a), "IsActiveValidator(%d)", test.a)
	}
}

func TestIsActiveValidatorUsingTrie_OK(t *testing.T) {
	val, err := statenative.NewValidator(&gbtypes.Validator{ActivationEpoch: 10, ExitEpoch: 100})
	require.NoError(t, err)
	tests := []struct {
		a types.Epoch
		b bool
	}{
		{a: 0, b: false},
		{a: 10, b: true},
		{a: 100, b: false},
		{a: 1000, b: false},
		{a: 64, b: true},
	}
	for _, test := range tests {
		assert.Equal(t, test.b, IsActiveValidatorUsingTrie(val, test.a), "IsActiveValidatorUsingTrie(%d)", test.a)
	}
}

func TestIsSlashableValidator_OK(t *testing.T) {
	tests := []struct {
		name      string
		validator *gbtypes.Validator
		epoch     types.Epoch
		slashable bool
	}{
		{
			name: "Unset withdrawable, slashable",
			validator: &gbtypes.Validator{
				WithdrawableEpoch: params.BeaconConfig().FarFutureEpoch,
			},
			epoch:     0,
			slashable: true,
		},
		{
			name: "before activation, not slashable",
			validator: &gbtypes.Validator{
				ActivationEpoch:   5,
				WithdrawableEpoch: params.BeaconConfig().FarFutureEpoch,
			},
			epoch:     2,
			slashable: false,
		},
		{
			name: "inactive, not slashable",
			validator: &gbtypes.Validator{
				ActivationEpoch:   5,
				WithdrawableEpoch: 20,
			},
			epoch:     20,
			slashable: false,
		},
		{
			name: "already slashed, not slashable",
			validator: &gbtypes.Validator{
				Slashed:           true,
				ActivationEpoch:   3,
				WithdrawableEpoch: params.BeaconConfig().FarFutureEpoch,
			},
			epoch:     6,
			slashable: false,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			slashable := IsSlashableValidator(test.validator.ActivationEpoch, test.validator.WithdrawableEpoch, test.validator.Slashed, test.epoch)
			assert.Equal(t, test.slashable, slashable, "Expected active validator slashable to be %t", test.slashable)
		})
	}
}

func TestValidatorChurnLimit_OK(t *testing.T) {
	tests := []struct {
		validatorCount uint64
		wantedChurn    uint64
	}{
		{validatorCount: 1000, wantedChurn: 4},
		{validatorCount: 100000, wantedChurn: 4},
		{validatorCount: 1000000, wantedChurn: 15 /* validatorCount/churnLimitQuotient */},
		{validatorCount: 2000000, wantedChurn: 30 /* validatorCount/churnLimitQuotient */},
	}
	for _, test := range tests {
		resultChurn, err := ValidatorChurnLimit(test.validatorCount)
		require.NoError(t, err)
		assert.Equal(t, test.wantedChurn, resultChurn, "ValidatorChurnLimit(%d)", test.validatorCount)
	}
}

func TestActiveValidatorIndices_OnlyActive(t *testing.T) {
	ClearCache()
	farFuture := params.BeaconConfig().FarFutureEpoch
	validators := []*gbtypes.Validator{
		{ActivationEpoch: 0, ExitEpoch: farFuture},
		{ActivationEpoch: 0, ExitEpoch: 1},
		{ActivationEpoch: 5, ExitEpoch: farFuture},
		{ActivationEpoch: 0, ExitEpoch: farFuture},
	}
	st, err := util.NewBeaconState(func(f *statenative.Fields) error {
		for i := range validators {
			validators[i].PublicKey = make([]byte, 48)
			validators[i].PublicKey[0] = byte(i + 1)
			validators[i].WithdrawalCredentials = make([]byte, 32)
		}
		f.Validators = validators
		f.Balances = make([]uint64, len(validators))
		return nil
	})
	require.NoError(t, err)

	indices, err := ActiveValidatorIndices(context.Background(), st, 2)
	require.NoError(t, err)
	assert.DeepEqual(t, []types.ValidatorIndex{0, 3}, indices)
}

func TestComputeProposerIndex_Deterministic(t *testing.T) {
	ClearCache()
	st, _ := util.DeterministicGenesisState(t, 128)
	activeIndices, err := ActiveValidatorIndices(context.Background(), st, 0)
	require.NoError(t, err)
	seed := [32]byte{'p', 'r', 'o', 'p', 'o', 's', 'e', 'r'}

	first, err := ComputeProposerIndex(st, activeIndices, seed)
	require.NoError(t, err)
	second, err := ComputeProposerIndex(st, activeIndices, seed)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, true, uint64(first) < 128)
}

func TestComputeProposerIndex_EmptyActiveSet(t *testing.T) {
	st, _ := util.DeterministicGenesisState(t, 1)
	_, err := ComputeProposerIndex(st, []types.ValidatorIndex{}, [32]byte{})
	assert.ErrorContains(t, "empty active indices list", err)
}

func TestBeaconProposerIndex_InActiveSet(t *testing.T) {
	ClearCache()
	st, _ := util.DeterministicGenesisState(t, 128)

	idx, err := BeaconProposerIndex(context.Background(), st)
	require.NoError(t, err)
	assert.Equal(t, true, uint64(idx) < 128)

	// Repeated lookups for the same state agree, cached or not.
	again, err := BeaconProposerIndex(context.Background(), st)
	require.NoError(t, err)
	assert.Equal(t, idx, again)
}

func TestBeaconProposerIndexAtSlot_MatchesCurrentSlot(t *testing.T) {
	ClearCache()
	st, _ := util.DeterministicGenesisState(t, 128)
	require.NoError(t, st.SetSlot(3))

	want, err := BeaconProposerIndex(context.Background(), st)
	require.NoError(t, err)
	got, err := BeaconProposerIndexAtSlot(context.Background(), st, 3)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestBeaconProposerIndexAtSlot_CoversWholeEpoch(t *testing.T) {
	ClearCache()
	st, _ := util.DeterministicGenesisState(t, 128)

	for slot := types.Slot(0); slot < params.BeaconConfig().SlotsPerEpoch; slot++ {
		idx, err := BeaconProposerIndexAtSlot(context.Background(), st, slot)
		require.NoError(t, err)
		assert.Equal(t, true, uint64(idx) < 128, "slot %d", slot)
	}
}
