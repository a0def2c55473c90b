package signing_test

import (
	"bytes"
	"testing"

	fuzz "github.com/google/gofuzz"
	"github.com/gridbox-network/grysm/beacon-chain/core/signing"
	"github.com/gridbox-network/grysm/config/params"
	"github.com/gridbox-network/grysm/consensus-types/gbtypes"
	"github.com/gridbox-network/grysm/crypto/bls"
	"github.com/gridbox-network/grysm/encoding/bytesutil"
	"github.com/gridbox-network/grysm/testing/assert"
	"github.com/gridbox-network/grysm/testing/require"
	"github.com/gridbox-network/grysm/testing/util"
)

func TestSigningRoot_ComputeSigningRoot(t *testing.T) {
	header := util.HydrateBeaconHeader(&gbtypes.BeaconBlockHeader{})
	_, err := signing.ComputeSigningRoot(header, bytesutil.PadTo([]byte{'T', 'E', 'S', 'T'}, 32))
	assert.NoError(t, err, "Could not compute signing root of block header")
}

func TestSigningRoot_ComputeDomain(t *testing.T) {
	tests := []struct {
		epoch      uint64
		domainType [4]byte
	}{
		{epoch: 1, domainType: [4]byte{4, 0, 0, 0}},
		{epoch: 2, domainType: [4]byte{4, 0, 0, 0}},
		{epoch: 2, domainType: [4]byte{5, 0, 0, 0}},
	}
	for _, tt := range tests {
		got, err := signing.ComputeDomain(tt.domainType, nil, nil)
		require.NoError(t, err)
		require.Equal(t, 32, len(got))
		// The first four bytes carry the domain type verbatim.
		assert.DeepEqual(t, tt.domainType[:], got[:4])
	}
}

func TestSigningRoot_DomainSelectsForkVersion(t *testing.T) {
	genesisRoot := make([]byte, 32)
	fork := &gbtypes.Fork{
		PreviousVersion: []byte{0, 0, 0, 0},
		CurrentVersion:  []byte{1, 0, 0, 0},
		Epoch:           10,
	}

	before, err := signing.Domain(fork, 9, params.BeaconConfig().DomainBeaconProposer, genesisRoot)
	require.NoError(t, err)
	after, err := signing.Domain(fork, 10, params.BeaconConfig().DomainBeaconProposer, genesisRoot)
	require.NoError(t, err)

	wantedBefore, err := signing.ComputeDomain(params.BeaconConfig().DomainBeaconProposer, fork.PreviousVersion, genesisRoot)
	require.NoError(t, err)
	wantedAfter, err := signing.ComputeDomain(params.BeaconConfig().DomainBeaconProposer, fork.CurrentVersion, genesisRoot)
	require.NoError(t, err)

	assert.DeepEqual(t, wantedBefore, before)
	assert.DeepEqual(t, wantedAfter, after)
	assert.Equal(t, false, bytes.Equal(before, after))
}

func TestSigningRoot_Domain_NilFork(t *testing.T) {
	_, err := signing.Domain(nil, 0, params.BeaconConfig().DomainBeaconProposer, make([]byte, 32))
	assert.ErrorContains(t, "nil fork", err)
}

func TestSigningRoot_VerifySigningRoot(t *testing.T) {
	priv, err := bls.RandKey()
	require.NoError(t, err)
	header := util.HydrateBeaconHeader(&gbtypes.BeaconBlockHeader{Slot: 5})
	domain, err := signing.ComputeDomain(params.BeaconConfig().DomainBeaconProposer, nil, nil)
	require.NoError(t, err)

	root, err := signing.ComputeSigningRoot(header, domain)
	require.NoError(t, err)
	sig := priv.Sign(root[:]).Marshal()

	pub := priv.PublicKey().Marshal()
	require.NoError(t, signing.VerifySigningRoot(header, pub, sig, domain))
	require.NoError(t, signing.VerifyBlockHeaderSigningRoot(header, pub, sig, domain))

	// A different object under the same signature must fail.
	other := util.HydrateBeaconHeader(&gbtypes.BeaconBlockHeader{Slot: 6})
	assert.ErrorIs(t, signing.VerifySigningRoot(other, pub, sig, domain), signing.ErrSigFailedToVerify)
}

func TestSigningRoot_ComputeForkDigest(t *testing.T) {
	tests := []struct {
		version []byte
		root    [32]byte
		result  [4]byte
	}{
		{version: []byte{'A', 'B', 'C', 'D'}, root: [32]byte{'i', 'o', 'p'}, result: [4]byte{0x69, 0x5c, 0x26, 0x47}},
		{version: []byte{'i', 'm', 'n', 'a'}, root: [32]byte{'z', 'a', 'b'}, result: [4]byte{0x1c, 0x38, 0x84, 0x58}},
		{version: []byte{'b', 'w', 'r', 't'}, root: [32]byte{'r', 'd', 'c'}, result: [4]byte{0x83, 0x34, 0x38, 0x88}},
	}
	for _, tt := range tests {
		digest, err := signing.ComputeForkDigest(tt.version, tt.root[:])
		require.NoError(t, err)
		assert.Equal(t, tt.result, digest, "Wanted domain version: %#x, got: %#x", digest, tt.result)
	}
	_, err := signing.ComputeForkDigest(nil, make([]byte, 32))
	assert.ErrorContains(t, "nil fork version", err)
}

func TestFuzzVerifySigningRoot_10000(_ *testing.T) {
	fuzzer := fuzz.NewWithSeed(0)
	header := &gbtypes.BeaconBlockHeader{}
	var pub []byte
	var sig []byte
	var domain []byte
	for i := 0; i < 10000; i++ {
		fuzzer.Fuzz(header)
		fuzzer.Fuzz(&pub)
		fuzzer.Fuzz(&sig)
		fuzzer.Fuzz(&domain)
		// The call must never panic regardless of input shape.
		err := signing.VerifySigningRoot(header, pub, sig, domain)
		_ = err
	}
}
