package gbtypes

import (
	ssz "github.com/ferranbt/fastssz"
	types "github.com/gridbox-network/grysm/consensus-types/primitives"
	"github.com/gridbox-network/grysm/encoding/bytesutil"
)

// Fork tracks the version transition history of the chain: the version before
// and after the fork epoch.
type Fork struct {
	PreviousVersion []byte `ssz-size:"4"`
	CurrentVersion  []byte `ssz-size:"4"`
	Epoch           types.Epoch
}

// Copy returns a deep copy of the fork.
func (f *Fork) Copy() *Fork {
	if f == nil {
		return nil
	}
	return &Fork{
		PreviousVersion: bytesutil.SafeCopyBytes(f.PreviousVersion),
		CurrentVersion:  bytesutil.SafeCopyBytes(f.CurrentVersion),
		Epoch:           f.Epoch,
	}
}

// ForkData is the container hashed into a fork digest and signature domains.
type ForkData struct {
	CurrentVersion        []byte `ssz-size:"4"`
	GenesisValidatorsRoot []byte `ssz-size:"32"`
}

// HashTreeRoot ssz hashes the ForkData object
func (f *ForkData) HashTreeRoot() ([32]byte, error) {
	return ssz.HashWithDefaultHasher(f)
}

// HashTreeRootWith ssz hashes the ForkData object with a hasher
func (f *ForkData) HashTreeRootWith(hh *ssz.Hasher) error {
	indx := hh.Index()

	// Field (0) 'CurrentVersion'
	if len(f.CurrentVersion) != 4 {
		return ssz.ErrBytesLength
	}
	hh.PutBytes(f.CurrentVersion)

	// Field (1) 'GenesisValidatorsRoot'
	if len(f.GenesisValidatorsRoot) != 32 {
		return ssz.ErrBytesLength
	}
	hh.PutBytes(f.GenesisValidatorsRoot)

	hh.Merkleize(indx)
	return nil
}
