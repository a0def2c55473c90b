package helpers

import (
	"testing"

	"github.com/gridbox-network/grysm/config/params"
	types "github.com/gridbox-network/grysm/consensus-types/primitives"
	"github.com/gridbox-network/grysm/encoding/bytesutil"
	"github.com/gridbox-network/grysm/testing/assert"
	"github.com/gridbox-network/grysm/testing/require"
)

func TestComputeShuffledIndex_IndexOutOfRange(t *testing.T) {
	seed := bytesutil.ToBytes32([]byte("seed"))
	_, err := ComputeShuffledIndex(10, 10, seed, true)
	assert.ErrorContains(t, "input index out of bounds", err)
}

func TestComputeShuffledIndex_Deterministic(t *testing.T) {
	seed := bytesutil.ToBytes32([]byte("seed"))
	listSize := uint64(100)
	for i := uint64(0); i < listSize; i++ {
		first, err := ComputeShuffledIndex(types.ValidatorIndex(i), listSize, seed, true)
		require.NoError(t, err)
		second, err := ComputeShuffledIndex(types.ValidatorIndex(i), listSize, seed, true)
		require.NoError(t, err)
		assert.Equal(t, first, second, "shuffle is not deterministic at index %d", i)
	}
}

func TestComputeShuffledIndex_Permutation(t *testing.T) {
	seed := bytesutil.ToBytes32([]byte("seed"))
	listSize := uint64(256)
	seen := make(map[types.ValidatorIndex]bool, listSize)
	for i := uint64(0); i < listSize; i++ {
		shuffled, err := ComputeShuffledIndex(types.ValidatorIndex(i), listSize, seed, true)
		require.NoError(t, err)
		require.Equal(t, true, uint64(shuffled) < listSize)
		require.Equal(t, false, seen[shuffled], "index %d mapped to an already used position", i)
		seen[shuffled] = true
	}
}

func TestComputeShuffledIndex_InvertsUnshuffle(t *testing.T) {
	seed := bytesutil.ToBytes32([]byte("seed"))
	listSize := uint64(100)
	for i := uint64(0); i < listSize; i++ {
		shuffled, err := ComputeShuffledIndex(types.ValidatorIndex(i), listSize, seed, true)
		require.NoError(t, err)
		back, err := ComputeShuffledIndex(shuffled, listSize, seed, false)
		require.NoError(t, err)
		assert.Equal(t, types.ValidatorIndex(i), back)
	}
}

func TestShuffleList_RoundTrip(t *testing.T) {
	seed := bytesutil.ToBytes32([]byte("round trip seed"))
	input := make([]types.ValidatorIndex, 1000)
	for i := range input {
		input[i] = types.ValidatorIndex(i)
	}

	shuffled := make([]types.ValidatorIndex, len(input))
	copy(shuffled, input)
	shuffled, err := ShuffleList(shuffled, seed)
	require.NoError(t, err)

	unshuffled, err := UnshuffleList(shuffled, seed)
	require.NoError(t, err)
	assert.DeepEqual(t, input, unshuffled)
}

func TestShuffleList_MatchesSingleIndexShuffle(t *testing.T) {
	seed := bytesutil.ToBytes32([]byte("agreement seed"))
	listSize := uint64(97)
	input := make([]types.ValidatorIndex, listSize)
	for i := range input {
		input[i] = types.ValidatorIndex(i)
	}
	shuffled, err := ShuffleList(append([]types.ValidatorIndex{}, input...), seed)
	require.NoError(t, err)

	for i := uint64(0); i < listSize; i++ {
		pos, err := ComputeShuffledIndex(types.ValidatorIndex(i), listSize, seed, true)
		require.NoError(t, err)
		assert.Equal(t, types.ValidatorIndex(i), shuffled[pos])
	}
}

func TestShuffleList_SeedSensitivity(t *testing.T) {
	input := make([]types.ValidatorIndex, 1000)
	for i := range input {
		input[i] = types.ValidatorIndex(i)
	}
	first, err := ShuffleList(append([]types.ValidatorIndex{}, input...), bytesutil.ToBytes32([]byte("seed one")))
	require.NoError(t, err)
	second, err := ShuffleList(append([]types.ValidatorIndex{}, input...), bytesutil.ToBytes32([]byte("seed two")))
	require.NoError(t, err)

	same := true
	for i := range first {
		if first[i] != second[i] {
			same = false
			break
		}
	}
	assert.Equal(t, false, same, "different seeds produced identical permutations")
}

func TestShuffleList_ZeroRoundCount(t *testing.T) {
	params.SetupTestConfigCleanup(t)
	c := params.BeaconConfig().Copy()
	c.ShuffleRoundCount = 0
	params.OverrideBeaconConfig(c)

	input := []types.ValidatorIndex{3, 2, 1}
	out, err := ShuffleList(append([]types.ValidatorIndex{}, input...), [32]byte{})
	require.NoError(t, err)
	assert.DeepEqual(t, input, out)
}
