package cache_test

import (
	"context"
	"testing"

	"github.com/gridbox-network/grysm/beacon-chain/cache"
	statenative "github.com/gridbox-network/grysm/beacon-chain/state/state-native"
	types "github.com/gridbox-network/grysm/consensus-types/primitives"
	"github.com/gridbox-network/grysm/testing/assert"
	"github.com/gridbox-network/grysm/testing/require"
)

func TestSkipSlotCache_RoundTrip(t *testing.T) {
	ctx := context.Background()
	c := cache.NewSkipSlotCache()

	r := [32]byte{'a'}
	st, err := c.Get(ctx, r)
	require.NoError(t, err)
	assert.Equal(t, nil, st, "Empty cache returned an object")

	require.NoError(t, c.MarkInProgress(r))

	st, err = statenative.EmptyGenesisState()
	require.NoError(t, err)
	require.NoError(t, st.SetSlot(10))

	c.Put(ctx, r, st)
	c.MarkNotInProgress(r)

	res, err := c.Get(ctx, r)
	require.NoError(t, err)
	assert.Equal(t, types.Slot(10), res.Slot(), "Expected equal state to return from cache")

	// The cached state must be detached from the stored one.
	require.NoError(t, res.SetSlot(12))
	res2, err := c.Get(ctx, r)
	require.NoError(t, err)
	assert.Equal(t, types.Slot(10), res2.Slot())
}

func TestSkipSlotCache_DisabledMisses(t *testing.T) {
	ctx := context.Background()
	c := cache.NewSkipSlotCache()
	c.Disable()
	defer c.Enable()

	r := [32]byte{'b'}
	st, err := statenative.EmptyGenesisState()
	require.NoError(t, err)
	c.Put(ctx, r, st)

	res, err := c.Get(ctx, r)
	require.NoError(t, err)
	assert.Equal(t, nil, res)
}

func TestSkipSlotCache_MarkInProgress(t *testing.T) {
	c := cache.NewSkipSlotCache()
	r := [32]byte{'c'}
	require.NoError(t, c.MarkInProgress(r))
	require.ErrorIs(t, c.MarkInProgress(r), cache.ErrAlreadyInProgress)
	c.MarkNotInProgress(r)
	require.NoError(t, c.MarkInProgress(r))
}
