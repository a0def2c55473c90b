package gbtypes

import (
	"bytes"
	"testing"

	"github.com/gridbox-network/grysm/testing/assert"
	"github.com/gridbox-network/grysm/testing/require"
)

func root32(b byte) []byte {
	r := make([]byte, 32)
	r[0] = b
	return r
}

func TestCheckpoint_Equal(t *testing.T) {
	a := &Checkpoint{Epoch: 1, Root: root32(1)}
	b := &Checkpoint{Epoch: 1, Root: root32(1)}
	c := &Checkpoint{Epoch: 2, Root: root32(1)}
	assert.Equal(t, true, a.Equal(b))
	assert.Equal(t, false, a.Equal(c))
	assert.Equal(t, false, a.Equal(nil))
}

func TestCheckpoint_HashTreeRoot_FieldSensitivity(t *testing.T) {
	a := &Checkpoint{Epoch: 1, Root: root32(1)}
	r1, err := a.HashTreeRoot()
	require.NoError(t, err)
	r2, err := a.HashTreeRoot()
	require.NoError(t, err)
	assert.Equal(t, r1, r2, "hash tree root is not deterministic")

	b := &Checkpoint{Epoch: 2, Root: root32(1)}
	r3, err := b.HashTreeRoot()
	require.NoError(t, err)
	assert.NotEqual(t, r1, r3, "epoch change did not alter the root")
}

func TestCheckpoint_HashTreeRoot_BadRootLength(t *testing.T) {
	a := &Checkpoint{Epoch: 1, Root: []byte{1, 2, 3}}
	_, err := a.HashTreeRoot()
	require.NotNil(t, err)
}

func TestAttestationData_HashTreeRoot_NestedCheckpoints(t *testing.T) {
	data := &AttestationData{
		Slot:            5,
		CommitteeIndex:  2,
		BeaconBlockRoot: root32(3),
		Source:          &Checkpoint{Epoch: 0, Root: root32(4)},
		Target:          &Checkpoint{Epoch: 1, Root: root32(5)},
	}
	r1, err := data.HashTreeRoot()
	require.NoError(t, err)

	data2 := data.Copy()
	data2.Target.Epoch = 2
	r2, err := data2.HashTreeRoot()
	require.NoError(t, err)
	assert.NotEqual(t, r1, r2, "target change did not alter the root")
}

func TestAttestation_Copy_IsDeep(t *testing.T) {
	att := &Attestation{
		AggregationBits: []byte{0b1101, 0b1},
		Data: &AttestationData{
			Slot:            1,
			BeaconBlockRoot: root32(1),
			Source:          &Checkpoint{Root: root32(2)},
			Target:          &Checkpoint{Epoch: 1, Root: root32(3)},
		},
		Signature: make([]byte, 96),
	}
	cp := att.Copy()
	cp.AggregationBits[0] = 0
	cp.Data.Source.Root[0] = 0xff
	cp.Signature[0] = 0xff
	assert.Equal(t, byte(0b1101), att.AggregationBits[0])
	assert.Equal(t, byte(2), att.Data.Source.Root[0])
	assert.Equal(t, byte(0), att.Signature[0])
}

func TestValidator_Copy_IsDeep(t *testing.T) {
	v := &Validator{
		PublicKey:             bytes.Repeat([]byte{1}, 48),
		WithdrawalCredentials: root32(9),
		EffectiveBalance:      32e9,
		ExitEpoch:             100,
	}
	cp := v.Copy()
	cp.PublicKey[0] = 0xff
	cp.EffectiveBalance = 0
	assert.Equal(t, byte(1), v.PublicKey[0])
	assert.Equal(t, uint64(32e9), v.EffectiveBalance)
}

func TestSyncAggregate_Copy_IsDeep(t *testing.T) {
	agg := &SyncAggregate{
		SyncCommitteeBits:      make([]byte, 64),
		SyncCommitteeSignature: make([]byte, 96),
	}
	agg.SyncCommitteeBits.SetBitAt(3, true)
	cp := agg.Copy()
	cp.SyncCommitteeBits.SetBitAt(3, false)
	assert.Equal(t, true, agg.SyncCommitteeBits.BitAt(3))
}

func TestBeaconBlockHeader_HashTreeRoot(t *testing.T) {
	h := &BeaconBlockHeader{
		Slot:          10,
		ProposerIndex: 3,
		ParentRoot:    root32(1),
		StateRoot:     root32(2),
		BodyRoot:      root32(3),
	}
	r1, err := h.HashTreeRoot()
	require.NoError(t, err)
	h2 := h.Copy()
	h2.ProposerIndex = 4
	r2, err := h2.HashTreeRoot()
	require.NoError(t, err)
	assert.NotEqual(t, r1, r2)
}
