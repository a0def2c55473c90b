package blocks_test

import (
	"context"
	"testing"

	"github.com/gridbox-network/grysm/beacon-chain/core/blocks"
	"github.com/gridbox-network/grysm/beacon-chain/core/signing"
	"github.com/gridbox-network/grysm/beacon-chain/core/validators"
	"github.com/gridbox-network/grysm/beacon-chain/state"
	"github.com/gridbox-network/grysm/config/params"
	"github.com/gridbox-network/grysm/consensus-types/gbtypes"
	types "github.com/gridbox-network/grysm/consensus-types/primitives"
	"github.com/gridbox-network/grysm/crypto/bls"
	"github.com/gridbox-network/grysm/encoding/bytesutil"
	"github.com/gridbox-network/grysm/testing/assert"
	"github.com/gridbox-network/grysm/testing/require"
	"github.com/gridbox-network/grysm/testing/util"
)

func TestVerifyProposerSlashing_HeaderSlotsMismatch(t *testing.T) {
	beaconState, _ := util.DeterministicGenesisState(t, 64)
	slashing := &gbtypes.ProposerSlashing{
		Header_1: util.HydrateSignedBeaconHeader(&gbtypes.SignedBeaconBlockHeader{
			Header: &gbtypes.BeaconBlockHeader{Slot: 0},
		}),
		Header_2: util.HydrateSignedBeaconHeader(&gbtypes.SignedBeaconBlockHeader{
			Header: &gbtypes.BeaconBlockHeader{Slot: 1},
		}),
	}
	err := blocks.VerifyProposerSlashing(beaconState, slashing)
	require.ErrorContains(t, "mismatched header slots", err)
}

func TestVerifyProposerSlashing_ProposerIndicesMismatch(t *testing.T) {
	beaconState, _ := util.DeterministicGenesisState(t, 64)
	slashing := &gbtypes.ProposerSlashing{
		Header_1: util.HydrateSignedBeaconHeader(&gbtypes.SignedBeaconBlockHeader{
			Header: &gbtypes.BeaconBlockHeader{ProposerIndex: 0},
		}),
		Header_2: util.HydrateSignedBeaconHeader(&gbtypes.SignedBeaconBlockHeader{
			Header: &gbtypes.BeaconBlockHeader{ProposerIndex: 1},
		}),
	}
	err := blocks.VerifyProposerSlashing(beaconState, slashing)
	require.ErrorContains(t, "mismatched indices", err)
}

func TestVerifyProposerSlashing_IdenticalHeaders(t *testing.T) {
	beaconState, _ := util.DeterministicGenesisState(t, 64)
	slashing := &gbtypes.ProposerSlashing{
		Header_1: util.HydrateSignedBeaconHeader(&gbtypes.SignedBeaconBlockHeader{}),
		Header_2: util.HydrateSignedBeaconHeader(&gbtypes.SignedBeaconBlockHeader{}),
	}
	err := blocks.VerifyProposerSlashing(beaconState, slashing)
	require.ErrorContains(t, "expected slashing headers to differ", err)
}

func TestVerifyProposerSlashing_NotSlashable(t *testing.T) {
	beaconState, privKeys := util.DeterministicGenesisState(t, 64)
	proposerIdx := types.ValidatorIndex(1)
	val, err := beaconState.ValidatorAtIndex(proposerIdx)
	require.NoError(t, err)
	val.Slashed = true
	require.NoError(t, beaconState.UpdateValidatorAtIndex(proposerIdx, val))

	slashing := signedProposerSlashing(t, beaconState, proposerIdx, privKeys[proposerIdx])
	err = blocks.VerifyProposerSlashing(beaconState, slashing)
	require.ErrorContains(t, "is not slashable", err)
}

func TestVerifyProposerSlashing_BadSignature(t *testing.T) {
	beaconState, privKeys := util.DeterministicGenesisState(t, 64)
	// Sign both headers with the wrong validator's key.
	slashing := signedProposerSlashing(t, beaconState, 1, privKeys[2])
	err := blocks.VerifyProposerSlashing(beaconState, slashing)
	require.ErrorContains(t, "could not verify beacon block header", err)
}

func TestProcessProposerSlashings_OK(t *testing.T) {
	beaconState, privKeys := util.DeterministicGenesisState(t, 64)
	proposerIdx := types.ValidatorIndex(1)
	slashing := signedProposerSlashing(t, beaconState, proposerIdx, privKeys[proposerIdx])

	st, err := blocks.ProcessProposerSlashings(
		context.Background(),
		beaconState,
		[]*gbtypes.ProposerSlashing{slashing},
		validators.SlashValidator,
	)
	require.NoError(t, err)

	val, err := st.ValidatorAtIndex(proposerIdx)
	require.NoError(t, err)
	assert.Equal(t, true, val.Slashed)
	balance, err := st.BalanceAtIndex(proposerIdx)
	require.NoError(t, err)
	penalty := params.BeaconConfig().MaxEffectiveBalance / params.BeaconConfig().MinSlashingPenaltyQuotient
	assert.Equal(t, params.BeaconConfig().MaxEffectiveBalance-penalty, balance)
}

func TestProcessProposerSlashing_NilSlashing(t *testing.T) {
	beaconState, _ := util.DeterministicGenesisState(t, 64)
	_, err := blocks.ProcessProposerSlashing(context.Background(), beaconState, nil, validators.SlashValidator)
	require.ErrorContains(t, "nil proposer slashings in block body", err)
}

// signedProposerSlashing builds a slashing whose two headers differ only in
// state root, both signed with the given key.
func signedProposerSlashing(t *testing.T, st state.BeaconState, proposerIdx types.ValidatorIndex, key bls.SecretKey) *gbtypes.ProposerSlashing {
	t.Helper()
	header1 := util.HydrateSignedBeaconHeader(&gbtypes.SignedBeaconBlockHeader{
		Header: &gbtypes.BeaconBlockHeader{
			ProposerIndex: proposerIdx,
			StateRoot:     bytesutil.PadTo([]byte("state A"), 32),
		},
	})
	header2 := util.HydrateSignedBeaconHeader(&gbtypes.SignedBeaconBlockHeader{
		Header: &gbtypes.BeaconBlockHeader{
			ProposerIndex: proposerIdx,
			StateRoot:     bytesutil.PadTo([]byte("state B"), 32),
		},
	})
	for _, h := range []*gbtypes.SignedBeaconBlockHeader{header1, header2} {
		sig, err := signing.ComputeDomainAndSign(st, 0, h.Header, params.BeaconConfig().DomainBeaconProposer, key)
		require.NoError(t, err)
		h.Signature = sig
	}
	return &gbtypes.ProposerSlashing{Header_1: header1, Header_2: header2}
}
