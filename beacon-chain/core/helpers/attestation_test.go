package helpers

import (
	"context"
	"testing"

	"github.com/gridbox-network/grysm/consensus-types/gbtypes"
	types "github.com/gridbox-network/grysm/consensus-types/primitives"
	"github.com/gridbox-network/grysm/testing/assert"
	"github.com/gridbox-network/grysm/testing/require"
	"github.com/gridbox-network/grysm/testing/util"
	"github.com/prysmaticlabs/go-bitfield"
)

func TestValidateNilAttestation(t *testing.T) {
	tests := []struct {
		name        string
		attestation *gbtypes.Attestation
		errString   string
	}{
		{
			name:        "nil attestation",
			attestation: nil,
			errString:   "attestation can't be nil",
		},
		{
			name:        "nil attestation data",
			attestation: &gbtypes.Attestation{},
			errString:   "attestation's data can't be nil",
		},
		{
			name: "nil attestation source",
			attestation: &gbtypes.Attestation{
				Data: &gbtypes.AttestationData{
					Target: &gbtypes.Checkpoint{},
				},
			},
			errString: "attestation's source can't be nil",
		},
		{
			name: "nil attestation target",
			attestation: &gbtypes.Attestation{
				Data: &gbtypes.AttestationData{
					Source: &gbtypes.Checkpoint{},
				},
			},
			errString: "attestation's target can't be nil",
		},
		{
			name: "nil attestation bitfield",
			attestation: &gbtypes.Attestation{
				Data: &gbtypes.AttestationData{
					Target: &gbtypes.Checkpoint{},
					Source: &gbtypes.Checkpoint{},
				},
			},
			errString: "attestation's bitfield can't be nil",
		},
		{
			name: "good attestation",
			attestation: &gbtypes.Attestation{
				AggregationBits: []byte{},
				Data: &gbtypes.AttestationData{
					Target: &gbtypes.Checkpoint{},
					Source: &gbtypes.Checkpoint{},
				},
			},
			errString: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.errString != "" {
				require.ErrorContains(t, tt.errString, ValidateNilAttestation(tt.attestation))
			} else {
				require.NoError(t, ValidateNilAttestation(tt.attestation))
			}
		})
	}
}

func TestValidateSlotTargetEpoch(t *testing.T) {
	data := util.HydrateAttestationData(&gbtypes.AttestationData{Slot: 1, Target: &gbtypes.Checkpoint{Epoch: 0}})
	require.NoError(t, ValidateSlotTargetEpoch(data))

	data = util.HydrateAttestationData(&gbtypes.AttestationData{Slot: 1, Target: &gbtypes.Checkpoint{Epoch: 1}})
	require.ErrorContains(t, "slot 1 does not match target epoch 1", ValidateSlotTargetEpoch(data))
}

func TestAttestingIndices_OK(t *testing.T) {
	committee := []types.ValidatorIndex{10, 20, 30, 40}
	bf := bitfield.NewBitlist(uint64(len(committee)))
	bf.SetBitAt(1, true)
	bf.SetBitAt(3, true)

	indices, err := AttestingIndices(bf, committee)
	require.NoError(t, err)
	assert.DeepEqual(t, []uint64{20, 40}, indices)
}

func TestAttestingIndices_BitfieldLengthMismatch(t *testing.T) {
	committee := []types.ValidatorIndex{10, 20, 30, 40}
	bf := bitfield.NewBitlist(8)

	_, err := AttestingIndices(bf, committee)
	assert.ErrorContains(t, "bitfield length 8 is not equal to committee length 4", err)
}

func TestConvertToIndexed_SortsIndices(t *testing.T) {
	committee := []types.ValidatorIndex{40, 10, 30}
	bf := bitfield.NewBitlist(uint64(len(committee)))
	bf.SetBitAt(0, true)
	bf.SetBitAt(1, true)

	att := util.HydrateAttestation(&gbtypes.Attestation{AggregationBits: bf})
	indexed, err := ConvertToIndexed(context.Background(), att, committee)
	require.NoError(t, err)
	assert.DeepEqual(t, []uint64{10, 40}, indexed.AttestingIndices)
}

func TestIsValidAttestationIndices(t *testing.T) {
	tests := []struct {
		name      string
		att       *gbtypes.IndexedAttestation
		wantedErr string
	}{
		{
			name: "empty indices",
			att: util.HydrateIndexedAttestation(&gbtypes.IndexedAttestation{
				AttestingIndices: []uint64{},
			}),
			wantedErr: "expected non-empty",
		},
		{
			name: "not sorted",
			att: util.HydrateIndexedAttestation(&gbtypes.IndexedAttestation{
				AttestingIndices: []uint64{3, 1, 2},
			}),
			wantedErr: "not uniquely sorted",
		},
		{
			name: "duplicate indices",
			att: util.HydrateIndexedAttestation(&gbtypes.IndexedAttestation{
				AttestingIndices: []uint64{1, 2, 2, 3},
			}),
			wantedErr: "not uniquely sorted",
		},
		{
			name: "valid indices",
			att: util.HydrateIndexedAttestation(&gbtypes.IndexedAttestation{
				AttestingIndices: []uint64{1, 2, 3},
			}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := IsValidAttestationIndices(context.Background(), tt.att)
			if tt.wantedErr != "" {
				assert.ErrorContains(t, tt.wantedErr, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
