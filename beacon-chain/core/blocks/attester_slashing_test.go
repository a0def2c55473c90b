package blocks_test

import (
	"context"
	"testing"

	"github.com/gridbox-network/grysm/beacon-chain/core/blocks"
	"github.com/gridbox-network/grysm/beacon-chain/core/signing"
	"github.com/gridbox-network/grysm/beacon-chain/core/validators"
	"github.com/gridbox-network/grysm/config/features"
	"github.com/gridbox-network/grysm/config/params"
	"github.com/gridbox-network/grysm/consensus-types/gbtypes"
	types "github.com/gridbox-network/grysm/consensus-types/primitives"
	"github.com/gridbox-network/grysm/crypto/bls"
	"github.com/gridbox-network/grysm/encoding/bytesutil"
	"github.com/gridbox-network/grysm/testing/assert"
	"github.com/gridbox-network/grysm/testing/require"
	"github.com/gridbox-network/grysm/testing/util"
)

func TestIsSlashableAttestationData(t *testing.T) {
	tests := []struct {
		name      string
		data1     *gbtypes.AttestationData
		data2     *gbtypes.AttestationData
		slashable bool
	}{
		{
			name: "same data is not slashable",
			data1: util.HydrateAttestationData(&gbtypes.AttestationData{
				Target: &gbtypes.Checkpoint{Epoch: 1, Root: make([]byte, 32)},
			}),
			data2: util.HydrateAttestationData(&gbtypes.AttestationData{
				Target: &gbtypes.Checkpoint{Epoch: 1, Root: make([]byte, 32)},
			}),
			slashable: false,
		},
		{
			name: "double vote",
			data1: util.HydrateAttestationData(&gbtypes.AttestationData{
				BeaconBlockRoot: bytesutil.PadTo([]byte("block A"), 32),
				Target:          &gbtypes.Checkpoint{Epoch: 1, Root: make([]byte, 32)},
			}),
			data2: util.HydrateAttestationData(&gbtypes.AttestationData{
				BeaconBlockRoot: bytesutil.PadTo([]byte("block B"), 32),
				Target:          &gbtypes.Checkpoint{Epoch: 1, Root: make([]byte, 32)},
			}),
			slashable: true,
		},
		{
			name: "surround vote",
			data1: util.HydrateAttestationData(&gbtypes.AttestationData{
				Source: &gbtypes.Checkpoint{Epoch: 1, Root: make([]byte, 32)},
				Target: &gbtypes.Checkpoint{Epoch: 5, Root: make([]byte, 32)},
			}),
			data2: util.HydrateAttestationData(&gbtypes.AttestationData{
				Source: &gbtypes.Checkpoint{Epoch: 2, Root: make([]byte, 32)},
				Target: &gbtypes.Checkpoint{Epoch: 4, Root: make([]byte, 32)},
			}),
			slashable: true,
		},
		{
			name: "disjoint epochs are not slashable",
			data1: util.HydrateAttestationData(&gbtypes.AttestationData{
				Source: &gbtypes.Checkpoint{Epoch: 1, Root: make([]byte, 32)},
				Target: &gbtypes.Checkpoint{Epoch: 2, Root: make([]byte, 32)},
			}),
			data2: util.HydrateAttestationData(&gbtypes.AttestationData{
				Source: &gbtypes.Checkpoint{Epoch: 3, Root: make([]byte, 32)},
				Target: &gbtypes.Checkpoint{Epoch: 4, Root: make([]byte, 32)},
			}),
			slashable: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.slashable, blocks.IsSlashableAttestationData(tt.data1, tt.data2))
		})
	}
}

func TestSlashableAttesterIndices(t *testing.T) {
	slashing := &gbtypes.AttesterSlashing{
		Attestation_1: util.HydrateIndexedAttestation(&gbtypes.IndexedAttestation{
			AttestingIndices: []uint64{1, 2, 5, 7},
		}),
		Attestation_2: util.HydrateIndexedAttestation(&gbtypes.IndexedAttestation{
			AttestingIndices: []uint64{2, 3, 7, 9},
		}),
	}
	assert.DeepEqual(t, []uint64{2, 7}, blocks.SlashableAttesterIndices(slashing))
	assert.DeepEqual(t, []uint64(nil), blocks.SlashableAttesterIndices(nil))
}

func TestProcessAttesterSlashing_DoubleVote(t *testing.T) {
	resetFn := features.InitWithReset(&features.Flags{
		SkipBLSVerify: true,
	})
	defer resetFn()

	beaconState, _ := util.DeterministicGenesisState(t, 64)
	slashing := doubleVoteSlashing(t, []uint64{0, 1})

	st, err := blocks.ProcessAttesterSlashing(context.Background(), beaconState, slashing, validators.SlashValidator)
	require.NoError(t, err)

	for _, idx := range []types.ValidatorIndex{0, 1} {
		val, err := st.ValidatorAtIndex(idx)
		require.NoError(t, err)
		assert.Equal(t, true, val.Slashed, "validator %d not slashed", idx)
	}
	balance, err := st.BalanceAtIndex(0)
	require.NoError(t, err)
	penalty := params.BeaconConfig().MaxEffectiveBalance / params.BeaconConfig().MinSlashingPenaltyQuotient
	assert.Equal(t, params.BeaconConfig().MaxEffectiveBalance-penalty, balance)
}

func TestProcessAttesterSlashing_AllTargetsAlreadySlashed(t *testing.T) {
	resetFn := features.InitWithReset(&features.Flags{
		SkipBLSVerify: true,
	})
	defer resetFn()

	beaconState, _ := util.DeterministicGenesisState(t, 64)
	for _, idx := range []types.ValidatorIndex{0, 1} {
		val, err := beaconState.ValidatorAtIndex(idx)
		require.NoError(t, err)
		val.Slashed = true
		require.NoError(t, beaconState.UpdateValidatorAtIndex(idx, val))
	}
	slashing := doubleVoteSlashing(t, []uint64{0, 1})

	_, err := blocks.ProcessAttesterSlashing(context.Background(), beaconState, slashing, validators.SlashValidator)
	require.ErrorContains(t, "unable to slash any validator despite confirmed attester slashing", err)
}

func TestProcessAttesterSlashing_NotSlashableData(t *testing.T) {
	beaconState, _ := util.DeterministicGenesisState(t, 64)
	slashing := &gbtypes.AttesterSlashing{
		Attestation_1: util.HydrateIndexedAttestation(&gbtypes.IndexedAttestation{
			AttestingIndices: []uint64{0, 1},
		}),
		Attestation_2: util.HydrateIndexedAttestation(&gbtypes.IndexedAttestation{
			AttestingIndices: []uint64{0, 1},
		}),
	}
	_, err := blocks.ProcessAttesterSlashing(context.Background(), beaconState, slashing, validators.SlashValidator)
	require.ErrorContains(t, "attestations are not slashable", err)
}

func TestProcessAttesterSlashings_SignedDoubleVote(t *testing.T) {
	beaconState, privKeys := util.DeterministicGenesisState(t, 64)

	indices := []uint64{0, 1}
	att1 := util.HydrateIndexedAttestation(&gbtypes.IndexedAttestation{
		AttestingIndices: indices,
		Data: &gbtypes.AttestationData{
			BeaconBlockRoot: bytesutil.PadTo([]byte("block A"), 32),
		},
	})
	att2 := util.HydrateIndexedAttestation(&gbtypes.IndexedAttestation{
		AttestingIndices: indices,
		Data: &gbtypes.AttestationData{
			BeaconBlockRoot: bytesutil.PadTo([]byte("block B"), 32),
		},
	})
	for _, att := range []*gbtypes.IndexedAttestation{att1, att2} {
		domain, err := signing.Domain(beaconState.Fork(), att.Data.Target.Epoch, params.BeaconConfig().DomainBeaconAttester, beaconState.GenesisValidatorsRoot())
		require.NoError(t, err)
		root, err := signing.ComputeSigningRoot(att.Data, domain)
		require.NoError(t, err)
		sigs := make([]bls.Signature, len(indices))
		for i, idx := range indices {
			sigs[i] = privKeys[idx].Sign(root[:])
		}
		att.Signature = bls.AggregateSignatures(sigs).Marshal()
	}

	b := util.NewBeaconBlock()
	b.Block.Body.AttesterSlashings = []*gbtypes.AttesterSlashing{
		{Attestation_1: att1, Attestation_2: att2},
	}
	st, err := blocks.ProcessAttesterSlashings(context.Background(), beaconState, b.Block.Body.AttesterSlashings, validators.SlashValidator)
	require.NoError(t, err)

	val, err := st.ValidatorAtIndex(0)
	require.NoError(t, err)
	assert.Equal(t, true, val.Slashed)
}

func doubleVoteSlashing(t *testing.T, indices []uint64) *gbtypes.AttesterSlashing {
	t.Helper()
	return &gbtypes.AttesterSlashing{
		Attestation_1: util.HydrateIndexedAttestation(&gbtypes.IndexedAttestation{
			AttestingIndices: indices,
			Data: &gbtypes.AttestationData{
				BeaconBlockRoot: bytesutil.PadTo([]byte("fork A"), 32),
			},
		}),
		Attestation_2: util.HydrateIndexedAttestation(&gbtypes.IndexedAttestation{
			AttestingIndices: indices,
			Data: &gbtypes.AttestationData{
				BeaconBlockRoot: bytesutil.PadTo([]byte("fork B"), 32),
			},
		}),
	}
}
