package altair_test

import (
	"testing"

	"github.com/gridbox-network/grysm/beacon-chain/core/altair"
	"github.com/gridbox-network/grysm/beacon-chain/core/helpers"
	"github.com/gridbox-network/grysm/beacon-chain/core/signing"
	"github.com/gridbox-network/grysm/beacon-chain/state"
	"github.com/gridbox-network/grysm/config/params"
	"github.com/gridbox-network/grysm/consensus-types/gbtypes"
	types "github.com/gridbox-network/grysm/consensus-types/primitives"
	"github.com/gridbox-network/grysm/crypto/bls"
	"github.com/gridbox-network/grysm/crypto/bls/common"
	"github.com/gridbox-network/grysm/testing/assert"
	"github.com/gridbox-network/grysm/testing/require"
	"github.com/gridbox-network/grysm/testing/util"
	"github.com/gridbox-network/grysm/time/slots"
	"github.com/prysmaticlabs/go-bitfield"
)

func TestProcessSyncAggregate_Phase0NotSupported(t *testing.T) {
	st, _ := util.DeterministicGenesisState(t, 64)
	_, err := altair.ProcessSyncAggregate(st, util.HydrateSyncAggregate(nil))
	require.ErrorContains(t, "sync aggregate is not supported for phase 0 state", err)
}

func TestProcessSyncAggregate_NilAggregate(t *testing.T) {
	st, _ := util.DeterministicGenesisStateAltair(t, 64)
	_, err := altair.ProcessSyncAggregate(st, nil)
	require.ErrorContains(t, "nil sync aggregate in block body", err)
}

func TestProcessSyncAggregate_EmptyParticipationIsVacuous(t *testing.T) {
	st, _ := util.DeterministicGenesisStateAltair(t, 64)
	require.NoError(t, st.SetSlot(1))

	agg := &gbtypes.SyncAggregate{
		SyncCommitteeBits:      bitfield.NewBitvector512(),
		SyncCommitteeSignature: infiniteSignature(),
	}
	post, err := altair.ProcessSyncAggregate(st, agg)
	require.NoError(t, err)

	bits, err := post.CurrentSyncAggregateBits()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), bits.Count())
}

func TestProcessSyncAggregate_OK(t *testing.T) {
	st, keys := syncCommitteeState(t)
	agg := signedSyncAggregate(t, st, keys)

	post, err := altair.ProcessSyncAggregate(st, agg)
	require.NoError(t, err)

	bits, err := post.CurrentSyncAggregateBits()
	require.NoError(t, err)
	assert.Equal(t, params.BeaconConfig().SyncCommitteeSize, bits.Count())
}

func TestProcessSyncAggregate_BadSignature(t *testing.T) {
	st, keys := syncCommitteeState(t)
	agg := signedSyncAggregate(t, st, keys)
	// Flip one participation bit without re-signing.
	agg.SyncCommitteeBits.SetBitAt(0, false)

	_, err := altair.ProcessSyncAggregate(st, agg)
	require.ErrorContains(t, "could not verify sync committee signature", err)
	require.ErrorIs(t, err, signing.ErrSigFailedToVerify)
}

// syncCommitteeState builds an Altair state whose current sync committee
// cycles through the deterministic validator keys.
func syncCommitteeState(t *testing.T) (state.BeaconState, []bls.SecretKey) {
	st, keys := util.DeterministicGenesisStateAltair(t, 64)
	require.NoError(t, st.SetSlot(1))

	size := params.BeaconConfig().SyncCommitteeSize
	pubkeys := make([][]byte, size)
	for i := uint64(0); i < size; i++ {
		key := st.PubkeyAtIndex(types.ValidatorIndex(i % 64))
		pubkeys[i] = key[:]
	}
	aggregated, err := bls.AggregatePublicKeys(pubkeys)
	require.NoError(t, err)
	require.NoError(t, st.SetCurrentSyncCommittee(&gbtypes.SyncCommittee{
		Pubkeys:         pubkeys,
		AggregatePubkey: aggregated.Marshal(),
	}))
	return st, keys
}

// signedSyncAggregate returns a full-participation aggregate signed over the
// previous slot's block root.
func signedSyncAggregate(t *testing.T, st state.BeaconState, keys []bls.SecretKey) *gbtypes.SyncAggregate {
	ps := slots.PrevSlot(st.Slot())
	domain, err := signing.Domain(st.Fork(), slots.ToEpoch(ps), params.BeaconConfig().DomainSyncCommittee, st.GenesisValidatorsRoot())
	require.NoError(t, err)
	pbr, err := helpers.BlockRootAtSlot(st, ps)
	require.NoError(t, err)
	sszBytes := types.SSZBytes(pbr)
	root, err := signing.ComputeSigningRoot(&sszBytes, domain)
	require.NoError(t, err)

	size := params.BeaconConfig().SyncCommitteeSize
	bits := bitfield.NewBitvector512()
	sigs := make([]bls.Signature, 0, size)
	for i := uint64(0); i < size; i++ {
		bits.SetBitAt(i, true)
		sigs = append(sigs, keys[i%64].Sign(root[:]))
	}
	return &gbtypes.SyncAggregate{
		SyncCommitteeBits:      bits,
		SyncCommitteeSignature: bls.AggregateSignatures(sigs).Marshal(),
	}
}

func infiniteSignature() []byte {
	sig := make([]byte, 96)
	copy(sig, common.InfiniteSignature[:])
	return sig
}
