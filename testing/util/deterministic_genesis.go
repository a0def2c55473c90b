package util

import (
	"testing"

	"github.com/gridbox-network/grysm/beacon-chain/state"
	statenative "github.com/gridbox-network/grysm/beacon-chain/state/state-native"
	fieldparams "github.com/gridbox-network/grysm/config/fieldparams"
	"github.com/gridbox-network/grysm/config/params"
	"github.com/gridbox-network/grysm/consensus-types/gbtypes"
	"github.com/gridbox-network/grysm/crypto/bls"
	"github.com/gridbox-network/grysm/encoding/bytesutil"
)

// DeterministicGenesisState returns a genesis state made using the deterministic validator
// registry and the secret keys the registry was derived from.
func DeterministicGenesisState(t testing.TB, numValidators uint64) (state.BeaconState, []bls.SecretKey) {
	validators, balances, privKeys := deterministicRegistry(t, numValidators)
	st, err := NewBeaconState(func(f *statenative.Fields) error {
		f.Validators = validators
		f.Balances = balances
		return nil
	})
	if err != nil {
		t.Fatalf("could not create genesis state: %v", err)
	}
	return st, privKeys
}

// DeterministicGenesisStateAltair returns an Altair genesis state made using the
// deterministic validator registry.
func DeterministicGenesisStateAltair(t testing.TB, numValidators uint64) (state.BeaconState, []bls.SecretKey) {
	validators, balances, privKeys := deterministicRegistry(t, numValidators)
	st, err := NewBeaconStateAltair(func(f *statenative.Fields) error {
		f.Validators = validators
		f.Balances = balances
		f.CurrentEpochParticipation = make([]byte, numValidators)
		f.PreviousEpochParticipation = make([]byte, numValidators)
		f.InactivityScores = make([]uint64, numValidators)
		return nil
	})
	if err != nil {
		t.Fatalf("could not create genesis state: %v", err)
	}
	return st, privKeys
}

// deterministicRegistry generates a registry of active validators whose keys
// are derived from the validator index, so test runs are reproducible.
func deterministicRegistry(t testing.TB, numValidators uint64) ([]*gbtypes.Validator, []uint64, []bls.SecretKey) {
	validators := make([]*gbtypes.Validator, numValidators)
	balances := make([]uint64, numValidators)
	privKeys := make([]bls.SecretKey, numValidators)
	for i := uint64(0); i < numValidators; i++ {
		seed := make([]byte, fieldparams.BLSSecretKeyLength)
		copy(seed[24:], bytesutil.Bytes8(i+1))
		privKey, err := bls.SecretKeyFromBytes(seed)
		if err != nil {
			t.Fatalf("could not derive secret key for validator %d: %v", i, err)
		}
		privKeys[i] = privKey
		validators[i] = &gbtypes.Validator{
			PublicKey:             privKey.PublicKey().Marshal(),
			WithdrawalCredentials: make([]byte, 32),
			EffectiveBalance:      params.BeaconConfig().MaxEffectiveBalance,
			ExitEpoch:             params.BeaconConfig().FarFutureEpoch,
			WithdrawableEpoch:     params.BeaconConfig().FarFutureEpoch,
		}
		balances[i] = params.BeaconConfig().MaxEffectiveBalance
	}
	return validators, balances, privKeys
}
