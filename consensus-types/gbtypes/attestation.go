package gbtypes

import (
	ssz "github.com/ferranbt/fastssz"
	types "github.com/gridbox-network/grysm/consensus-types/primitives"
	"github.com/gridbox-network/grysm/encoding/bytesutil"
	"github.com/prysmaticlabs/go-bitfield"
)

// AttestationData is the unsigned vote content shared by every attester in a
// committee: the slot and committee being attested for, the chain head seen by
// the attester, and the FFG source/target checkpoint pair.
type AttestationData struct {
	Slot            types.Slot
	CommitteeIndex  types.CommitteeIndex
	BeaconBlockRoot []byte `ssz-size:"32"`
	Source          *Checkpoint
	Target          *Checkpoint
}

// Copy returns a deep copy of the attestation data.
func (a *AttestationData) Copy() *AttestationData {
	if a == nil {
		return nil
	}
	return &AttestationData{
		Slot:            a.Slot,
		CommitteeIndex:  a.CommitteeIndex,
		BeaconBlockRoot: bytesutil.SafeCopyBytes(a.BeaconBlockRoot),
		Source:          a.Source.Copy(),
		Target:          a.Target.Copy(),
	}
}

// HashTreeRoot ssz hashes the AttestationData object
func (a *AttestationData) HashTreeRoot() ([32]byte, error) {
	return ssz.HashWithDefaultHasher(a)
}

// HashTreeRootWith ssz hashes the AttestationData object with a hasher
func (a *AttestationData) HashTreeRootWith(hh *ssz.Hasher) error {
	indx := hh.Index()

	// Field (0) 'Slot'
	hh.PutUint64(uint64(a.Slot))

	// Field (1) 'CommitteeIndex'
	hh.PutUint64(uint64(a.CommitteeIndex))

	// Field (2) 'BeaconBlockRoot'
	if len(a.BeaconBlockRoot) != 32 {
		return ssz.ErrBytesLength
	}
	hh.PutBytes(a.BeaconBlockRoot)

	// Field (3) 'Source'
	if a.Source == nil {
		a.Source = new(Checkpoint)
	}
	if err := a.Source.HashTreeRootWith(hh); err != nil {
		return err
	}

	// Field (4) 'Target'
	if a.Target == nil {
		a.Target = new(Checkpoint)
	}
	if err := a.Target.HashTreeRootWith(hh); err != nil {
		return err
	}

	hh.Merkleize(indx)
	return nil
}

// Attestation is an aggregated committee vote: the data, the bitlist marking
// which committee members signed, and their aggregate signature.
type Attestation struct {
	AggregationBits bitfield.Bitlist `ssz-max:"2048"`
	Data            *AttestationData
	Signature       []byte `ssz-size:"96"`
}

// Copy returns a deep copy of the attestation.
func (a *Attestation) Copy() *Attestation {
	if a == nil {
		return nil
	}
	var bits bitfield.Bitlist
	if a.AggregationBits != nil {
		bits = make(bitfield.Bitlist, len(a.AggregationBits))
		copy(bits, a.AggregationBits)
	}
	return &Attestation{
		AggregationBits: bits,
		Data:            a.Data.Copy(),
		Signature:       bytesutil.SafeCopyBytes(a.Signature),
	}
}

// IndexedAttestation carries the same vote as Attestation with the
// aggregation bitlist resolved into sorted attesting validator indices.
type IndexedAttestation struct {
	AttestingIndices []uint64 `ssz-max:"2048"`
	Data             *AttestationData
	Signature        []byte `ssz-size:"96"`
}

// Copy returns a deep copy of the indexed attestation.
func (a *IndexedAttestation) Copy() *IndexedAttestation {
	if a == nil {
		return nil
	}
	indices := make([]uint64, len(a.AttestingIndices))
	copy(indices, a.AttestingIndices)
	return &IndexedAttestation{
		AttestingIndices: indices,
		Data:             a.Data.Copy(),
		Signature:        bytesutil.SafeCopyBytes(a.Signature),
	}
}
