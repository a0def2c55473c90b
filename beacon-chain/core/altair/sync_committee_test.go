package altair_test

import (
	"context"
	"testing"

	"github.com/gridbox-network/grysm/beacon-chain/core/altair"
	"github.com/gridbox-network/grysm/config/params"
	types "github.com/gridbox-network/grysm/consensus-types/primitives"
	"github.com/gridbox-network/grysm/crypto/bls"
	"github.com/gridbox-network/grysm/testing/assert"
	"github.com/gridbox-network/grysm/testing/require"
	"github.com/gridbox-network/grysm/testing/util"
)

func TestNextSyncCommitteeIndices_FillsCommittee(t *testing.T) {
	st, _ := util.DeterministicGenesisStateAltair(t, 256)

	indices, err := altair.NextSyncCommitteeIndices(context.Background(), st)
	require.NoError(t, err)
	require.Equal(t, params.BeaconConfig().SyncCommitteeSize, uint64(len(indices)))
	for _, idx := range indices {
		require.Equal(t, true, uint64(idx) < 256, "index %d out of registry range", idx)
	}
}

func TestNextSyncCommitteeIndices_Deterministic(t *testing.T) {
	st, _ := util.DeterministicGenesisStateAltair(t, 256)

	first, err := altair.NextSyncCommitteeIndices(context.Background(), st)
	require.NoError(t, err)
	second, err := altair.NextSyncCommitteeIndices(context.Background(), st)
	require.NoError(t, err)
	assert.DeepEqual(t, first, second)
}

func TestNextSyncCommittee_AggregatesSelectedKeys(t *testing.T) {
	st, _ := util.DeterministicGenesisStateAltair(t, 256)

	committee, err := altair.NextSyncCommittee(context.Background(), st)
	require.NoError(t, err)
	require.Equal(t, params.BeaconConfig().SyncCommitteeSize, uint64(len(committee.Pubkeys)))

	indices, err := altair.NextSyncCommitteeIndices(context.Background(), st)
	require.NoError(t, err)
	for i, idx := range indices {
		key := st.PubkeyAtIndex(types.ValidatorIndex(idx))
		assert.DeepEqual(t, key[:], committee.Pubkeys[i])
	}
	aggregated, err := bls.AggregatePublicKeys(committee.Pubkeys)
	require.NoError(t, err)
	assert.DeepEqual(t, aggregated.Marshal(), committee.AggregatePubkey)
}
