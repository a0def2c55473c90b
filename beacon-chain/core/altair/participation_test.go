package altair_test

import (
	"testing"

	"github.com/gridbox-network/grysm/beacon-chain/core/altair"
	"github.com/gridbox-network/grysm/config/params"
	"github.com/gridbox-network/grysm/testing/assert"
	"github.com/gridbox-network/grysm/testing/require"
)

func TestAddValidatorFlag(t *testing.T) {
	cfg := params.BeaconConfig()
	flags := []uint8{cfg.TimelySourceFlagIndex, cfg.TimelyTargetFlagIndex, cfg.TimelyHeadFlagIndex}

	var b uint8
	for i, f := range flags {
		has, err := altair.HasValidatorFlag(b, f)
		require.NoError(t, err)
		assert.Equal(t, false, has)

		b, err = altair.AddValidatorFlag(b, f)
		require.NoError(t, err)
		// Earlier flags stay set as more are added.
		for _, set := range flags[:i+1] {
			has, err = altair.HasValidatorFlag(b, set)
			require.NoError(t, err)
			assert.Equal(t, true, has)
		}
	}
}

func TestAddValidatorFlag_Idempotent(t *testing.T) {
	b, err := altair.AddValidatorFlag(0, 3)
	require.NoError(t, err)
	again, err := altair.AddValidatorFlag(b, 3)
	require.NoError(t, err)
	assert.Equal(t, b, again)
}

func TestValidatorFlag_PositionOutOfRange(t *testing.T) {
	_, err := altair.HasValidatorFlag(0, 8)
	require.ErrorContains(t, "flag position exceeds length", err)
	_, err = altair.AddValidatorFlag(0, 8)
	require.ErrorContains(t, "flag position exceeds length", err)
}
