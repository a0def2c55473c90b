package cache

import (
	"testing"

	statenative "github.com/gridbox-network/grysm/beacon-chain/state/state-native"
	types "github.com/gridbox-network/grysm/consensus-types/primitives"
	"github.com/gridbox-network/grysm/testing/assert"
	"github.com/gridbox-network/grysm/testing/require"
)

func TestBalanceCache_AddGetBalance(t *testing.T) {
	st, err := statenative.EmptyGenesisState()
	require.NoError(t, err)

	cache, err := NewEffectiveBalanceCache()
	require.NoError(t, err)

	_, err = cache.Get(st)
	require.ErrorIs(t, err, ErrNotFound)

	b := uint64(100)
	require.NoError(t, cache.AddTotalEffectiveBalance(st, b))
	cachedB, err := cache.Get(st)
	require.NoError(t, err)
	assert.Equal(t, b, cachedB)

	// A different randao mix keys a different entry.
	require.NoError(t, st.UpdateRandaoMixesAtIndex(0, []byte{'a'}))
	_, err = cache.Get(st)
	require.ErrorIs(t, err, ErrNotFound)

	b = uint64(200)
	require.NoError(t, cache.AddTotalEffectiveBalance(st, b))
	cachedB, err = cache.Get(st)
	require.NoError(t, err)
	assert.Equal(t, b, cachedB)
}

func TestProposerIndicesCache_RoundTrip(t *testing.T) {
	c, err := NewProposerIndicesCache()
	require.NoError(t, err)

	r := [32]byte{'p'}
	indices, err := c.ProposerIndices(r)
	require.NoError(t, err)
	assert.Equal(t, 0, len(indices))
	assert.Equal(t, false, c.HasProposerIndices(r))

	require.ErrorIs(t, c.AddProposerIndices(nil), ErrNotProposerIndices)
	require.NoError(t, c.AddProposerIndices(&ProposerIndices{BlockRoot: r, ProposerIndices: []types.ValidatorIndex{1, 2, 3}}))

	indices, err = c.ProposerIndices(r)
	require.NoError(t, err)
	assert.DeepEqual(t, []types.ValidatorIndex{1, 2, 3}, indices)
	assert.Equal(t, true, c.HasProposerIndices(r))
}
