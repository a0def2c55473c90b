package state_native_test

import (
	"testing"

	"github.com/gridbox-network/grysm/beacon-chain/state"
	statenative "github.com/gridbox-network/grysm/beacon-chain/state/state-native"
	"github.com/gridbox-network/grysm/consensus-types/gbtypes"
	types "github.com/gridbox-network/grysm/consensus-types/primitives"
	"github.com/gridbox-network/grysm/encoding/bytesutil"
	"github.com/gridbox-network/grysm/runtime/version"
	"github.com/gridbox-network/grysm/testing/assert"
	"github.com/gridbox-network/grysm/testing/require"
	"github.com/pkg/errors"
	"github.com/prysmaticlabs/go-bitfield"
)

func testState(t *testing.T, ver int, numVals int) state.BeaconState {
	vals := make([]*gbtypes.Validator, numVals)
	balances := make([]uint64, numVals)
	for i := range vals {
		key := make([]byte, 48)
		key[0] = byte(i + 1)
		vals[i] = &gbtypes.Validator{
			PublicKey:             key,
			WithdrawalCredentials: make([]byte, 32),
			EffectiveBalance:      32 * 1e9,
			ExitEpoch:             1<<64 - 1,
			WithdrawableEpoch:     1<<64 - 1,
		}
		balances[i] = 32 * 1e9
	}
	blockRoots := make([][]byte, 64)
	for i := range blockRoots {
		blockRoots[i] = make([]byte, 32)
	}
	randaoMixes := make([][]byte, 64)
	for i := range randaoMixes {
		randaoMixes[i] = make([]byte, 32)
	}
	f := &statenative.Fields{
		Version:               ver,
		GenesisValidatorsRoot: make([]byte, 32),
		Fork: &gbtypes.Fork{
			PreviousVersion: []byte{0, 0, 0, 0x47},
			CurrentVersion:  []byte{0, 0, 0, 0x47},
		},
		LatestBlockHeader: &gbtypes.BeaconBlockHeader{
			ParentRoot: make([]byte, 32),
			StateRoot:  make([]byte, 32),
			BodyRoot:   make([]byte, 32),
		},
		BlockRoots:                  blockRoots,
		RandaoMixes:                 randaoMixes,
		Validators:                  vals,
		Balances:                    balances,
		Slashings:                   make([]uint64, 64),
		JustificationBits:           bitfield.NewBitvector4(),
		PreviousJustifiedCheckpoint: &gbtypes.Checkpoint{Root: make([]byte, 32)},
		CurrentJustifiedCheckpoint:  &gbtypes.Checkpoint{Root: make([]byte, 32)},
		FinalizedCheckpoint:         &gbtypes.Checkpoint{Root: make([]byte, 32)},
	}
	if ver > version.Phase0 {
		f.PreviousEpochParticipation = make([]byte, numVals)
		f.CurrentEpochParticipation = make([]byte, numVals)
		f.InactivityScores = make([]uint64, numVals)
	}
	st, err := statenative.InitializeFromFields(f)
	require.NoError(t, err)
	return st
}

func TestInitializeFromFields_RejectsMisalignedRegistries(t *testing.T) {
	_, err := statenative.InitializeFromFields(&statenative.Fields{
		Validators: []*gbtypes.Validator{{PublicKey: make([]byte, 48)}},
		Balances:   []uint64{1, 2},
	})
	require.ErrorContains(t, "not index aligned", err)
}

func TestBeaconState_CopyIsDetached(t *testing.T) {
	st := testState(t, version.Altair, 4)
	cp := st.Copy()

	require.NoError(t, cp.UpdateBalancesAtIndex(2, 99))
	require.NoError(t, cp.UpdateSlashingsAtIndex(0, 7))
	val, err := cp.ValidatorAtIndex(0)
	require.NoError(t, err)
	val.Slashed = true
	require.NoError(t, cp.UpdateValidatorAtIndex(0, val))

	origBal, err := st.BalanceAtIndex(2)
	require.NoError(t, err)
	assert.Equal(t, uint64(32*1e9), origBal)
	assert.Equal(t, uint64(0), st.Slashings()[0])
	origVal, err := st.ValidatorAtIndex(0)
	require.NoError(t, err)
	assert.Equal(t, false, origVal.Slashed)

	newBal, err := cp.BalanceAtIndex(2)
	require.NoError(t, err)
	assert.Equal(t, uint64(99), newBal)
}

func TestBeaconState_BalanceAtIndex_OutOfRange(t *testing.T) {
	st := testState(t, version.Altair, 2)
	_, err := st.BalanceAtIndex(2)
	var outOfRange *statenative.ValidatorIndexOutOfRangeError
	require.Equal(t, true, errors.As(err, &outOfRange))
}

func TestBeaconState_UpdateBalancesAtIndex_OutOfRange(t *testing.T) {
	st := testState(t, version.Altair, 2)
	err := st.UpdateBalancesAtIndex(5, 1)
	var outOfRange *statenative.ValidatorIndexOutOfRangeError
	require.Equal(t, true, errors.As(err, &outOfRange))
}

func TestBeaconState_ValidatorIndexByPubkey(t *testing.T) {
	st := testState(t, version.Altair, 3)
	key := st.PubkeyAtIndex(1)
	idx, ok := st.ValidatorIndexByPubkey(key)
	require.Equal(t, true, ok)
	assert.Equal(t, types.ValidatorIndex(1), idx)

	_, ok = st.ValidatorIndexByPubkey([48]byte{0xde, 0xad})
	assert.Equal(t, false, ok)
}

func TestBeaconState_AppendValidator_UpdatesIndexMap(t *testing.T) {
	st := testState(t, version.Altair, 2)
	key := make([]byte, 48)
	key[0] = 0xaa
	require.NoError(t, st.AppendValidator(&gbtypes.Validator{PublicKey: key, WithdrawalCredentials: make([]byte, 32)}))
	require.NoError(t, st.AppendBalance(5))

	idx, ok := st.ValidatorIndexByPubkey(bytesutil.ToBytes48(key))
	require.Equal(t, true, ok)
	assert.Equal(t, types.ValidatorIndex(2), idx)
	assert.Equal(t, 3, st.NumValidators())
	assert.Equal(t, 3, st.BalancesLength())
}

func TestBeaconState_ParticipationGatedPrePhase0(t *testing.T) {
	st := testState(t, version.Phase0, 2)
	_, err := st.CurrentEpochParticipation()
	require.Equal(t, true, state.IsNotSupported(err))
	require.Equal(t, true, state.IsNotSupported(st.SetCurrentParticipationBits([]byte{0})))
	_, err = st.CurrentSyncCommittee()
	require.Equal(t, true, state.IsNotSupported(err))
}

func TestBeaconState_ModifyCurrentParticipationBits(t *testing.T) {
	st := testState(t, version.Altair, 3)
	require.NoError(t, st.ModifyCurrentParticipationBits(func(val []byte) ([]byte, error) {
		val[1] |= 1
		return val, nil
	}))
	participation, err := st.CurrentEpochParticipation()
	require.NoError(t, err)
	assert.Equal(t, byte(1), participation[1])
	assert.Equal(t, byte(0), participation[0])
}

func TestBeaconState_ApplyToEveryValidator(t *testing.T) {
	st := testState(t, version.Altair, 3)
	require.NoError(t, st.ApplyToEveryValidator(func(idx int, val *gbtypes.Validator) (bool, *gbtypes.Validator, error) {
		if idx != 1 {
			return false, val, nil
		}
		val.EffectiveBalance = 31 * 1e9
		return true, val, nil
	}))
	v, err := st.ValidatorAtIndex(1)
	require.NoError(t, err)
	assert.Equal(t, uint64(31*1e9), v.EffectiveBalance)
	v, err = st.ValidatorAtIndex(0)
	require.NoError(t, err)
	assert.Equal(t, uint64(32*1e9), v.EffectiveBalance)
}

func TestBeaconState_SyncAggregateBitsRoundTrip(t *testing.T) {
	st := testState(t, version.Altair, 2)
	bits := bitfield.NewBitvector512()
	bits.SetBitAt(3, true)
	require.NoError(t, st.SetCurrentSyncAggregateBits(bits))
	got, err := st.CurrentSyncAggregateBits()
	require.NoError(t, err)
	assert.Equal(t, true, got.BitAt(3))
	assert.Equal(t, false, got.BitAt(4))
}
