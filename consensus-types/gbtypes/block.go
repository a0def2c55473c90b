package gbtypes

import (
	ssz "github.com/ferranbt/fastssz"
	types "github.com/gridbox-network/grysm/consensus-types/primitives"
	"github.com/gridbox-network/grysm/encoding/bytesutil"
)

// BeaconBlockHeader is a block with its body replaced by the body root.
type BeaconBlockHeader struct {
	Slot          types.Slot
	ProposerIndex types.ValidatorIndex
	ParentRoot    []byte `ssz-size:"32"`
	StateRoot     []byte `ssz-size:"32"`
	BodyRoot      []byte `ssz-size:"32"`
}

// Copy returns a deep copy of the header.
func (h *BeaconBlockHeader) Copy() *BeaconBlockHeader {
	if h == nil {
		return nil
	}
	return &BeaconBlockHeader{
		Slot:          h.Slot,
		ProposerIndex: h.ProposerIndex,
		ParentRoot:    bytesutil.SafeCopyBytes(h.ParentRoot),
		StateRoot:     bytesutil.SafeCopyBytes(h.StateRoot),
		BodyRoot:      bytesutil.SafeCopyBytes(h.BodyRoot),
	}
}

// HashTreeRoot ssz hashes the BeaconBlockHeader object
func (h *BeaconBlockHeader) HashTreeRoot() ([32]byte, error) {
	return ssz.HashWithDefaultHasher(h)
}

// HashTreeRootWith ssz hashes the BeaconBlockHeader object with a hasher
func (h *BeaconBlockHeader) HashTreeRootWith(hh *ssz.Hasher) error {
	indx := hh.Index()

	// Field (0) 'Slot'
	hh.PutUint64(uint64(h.Slot))

	// Field (1) 'ProposerIndex'
	hh.PutUint64(uint64(h.ProposerIndex))

	// Field (2) 'ParentRoot'
	if len(h.ParentRoot) != 32 {
		return ssz.ErrBytesLength
	}
	hh.PutBytes(h.ParentRoot)

	// Field (3) 'StateRoot'
	if len(h.StateRoot) != 32 {
		return ssz.ErrBytesLength
	}
	hh.PutBytes(h.StateRoot)

	// Field (4) 'BodyRoot'
	if len(h.BodyRoot) != 32 {
		return ssz.ErrBytesLength
	}
	hh.PutBytes(h.BodyRoot)

	hh.Merkleize(indx)
	return nil
}

// SignedBeaconBlockHeader is a header with the proposer's signature over it.
type SignedBeaconBlockHeader struct {
	Header    *BeaconBlockHeader
	Signature []byte `ssz-size:"96"`
}

// Copy returns a deep copy of the signed header.
func (h *SignedBeaconBlockHeader) Copy() *SignedBeaconBlockHeader {
	if h == nil {
		return nil
	}
	return &SignedBeaconBlockHeader{
		Header:    h.Header.Copy(),
		Signature: bytesutil.SafeCopyBytes(h.Signature),
	}
}

// ProposerSlashing is the equivocation proof for a proposer: two distinct
// signed headers for the same slot by the same proposer.
type ProposerSlashing struct {
	Header_1 *SignedBeaconBlockHeader
	Header_2 *SignedBeaconBlockHeader
}

// AttesterSlashing is the equivocation proof for attesters: two conflicting
// indexed attestations whose attesting sets overlap.
type AttesterSlashing struct {
	Attestation_1 *IndexedAttestation
	Attestation_2 *IndexedAttestation
}

// BeaconBlockBody carries the operations the state-transition core consumes.
type BeaconBlockBody struct {
	RandaoReveal      []byte `ssz-size:"96"`
	Graffiti          []byte `ssz-size:"32"`
	ProposerSlashings []*ProposerSlashing
	AttesterSlashings []*AttesterSlashing
	Attestations      []*Attestation
	SyncAggregate     *SyncAggregate
}

// BeaconBlock is the unsigned consensus block.
type BeaconBlock struct {
	Slot          types.Slot
	ProposerIndex types.ValidatorIndex
	ParentRoot    []byte `ssz-size:"32"`
	StateRoot     []byte `ssz-size:"32"`
	Body          *BeaconBlockBody
}

// SignedBeaconBlock is a block with the proposer's signature over it.
type SignedBeaconBlock struct {
	Block     *BeaconBlock
	Signature []byte `ssz-size:"96"`
}
