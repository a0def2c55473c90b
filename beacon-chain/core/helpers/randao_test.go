package helpers

import (
	"testing"

	statenative "github.com/gridbox-network/grysm/beacon-chain/state/state-native"
	"github.com/gridbox-network/grysm/config/params"
	types "github.com/gridbox-network/grysm/consensus-types/primitives"
	"github.com/gridbox-network/grysm/testing/assert"
	"github.com/gridbox-network/grysm/testing/require"
	"github.com/gridbox-network/grysm/testing/util"
)

func TestRandaoMix_OK(t *testing.T) {
	st, err := util.NewBeaconState(func(f *statenative.Fields) error {
		for i := range f.RandaoMixes {
			intInBytes := make([]byte, 32)
			intInBytes[0] = byte(i)
			f.RandaoMixes[i] = intInBytes
		}
		return nil
	})
	require.NoError(t, err)

	tests := []struct {
		epoch     types.Epoch
		randaoMix byte
	}{
		{epoch: 10, randaoMix: 10},
		{epoch: 133, randaoMix: 133},
	}
	for _, test := range tests {
		mix, err := RandaoMix(st, test.epoch)
		require.NoError(t, err)
		assert.Equal(t, test.randaoMix, mix[0], "unexpected mix for epoch %d", test.epoch)
	}
}

func TestSeed_DomainAndEpochSensitivity(t *testing.T) {
	st, err := util.NewBeaconState(func(f *statenative.Fields) error {
		for i := range f.RandaoMixes {
			intInBytes := make([]byte, 32)
			intInBytes[0] = byte(i)
			f.RandaoMixes[i] = intInBytes
		}
		return nil
	})
	require.NoError(t, err)

	attSeed, err := Seed(st, 1, params.BeaconConfig().DomainBeaconAttester)
	require.NoError(t, err)
	proposerSeed, err := Seed(st, 1, params.BeaconConfig().DomainBeaconProposer)
	require.NoError(t, err)
	assert.NotEqual(t, attSeed, proposerSeed, "seeds for distinct domains must differ")

	laterSeed, err := Seed(st, 2, params.BeaconConfig().DomainBeaconAttester)
	require.NoError(t, err)
	assert.NotEqual(t, attSeed, laterSeed, "seeds for distinct epochs must differ")
}
