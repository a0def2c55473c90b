package util

import (
	fieldparams "github.com/gridbox-network/grysm/config/fieldparams"
	"github.com/gridbox-network/grysm/consensus-types/gbtypes"
	"github.com/prysmaticlabs/go-bitfield"
)

// NewBeaconBlock creates a signed beacon block with minimal hydration: all
// roots and signatures zero filled so ssz routines do not reject the block.
func NewBeaconBlock() *gbtypes.SignedBeaconBlock {
	return HydrateSignedBeaconBlock(&gbtypes.SignedBeaconBlock{})
}

// HydrateSignedBeaconBlock hydrates a signed beacon block with correct field lengths
// to comply with fastssz marshalling and unmarshalling rules.
func HydrateSignedBeaconBlock(b *gbtypes.SignedBeaconBlock) *gbtypes.SignedBeaconBlock {
	if b.Signature == nil {
		b.Signature = make([]byte, fieldparams.BLSSignatureLength)
	}
	b.Block = HydrateBeaconBlock(b.Block)
	return b
}

// HydrateBeaconBlock hydrates a beacon block with correct field lengths.
func HydrateBeaconBlock(b *gbtypes.BeaconBlock) *gbtypes.BeaconBlock {
	if b == nil {
		b = &gbtypes.BeaconBlock{}
	}
	if b.ParentRoot == nil {
		b.ParentRoot = make([]byte, fieldparams.RootLength)
	}
	if b.StateRoot == nil {
		b.StateRoot = make([]byte, fieldparams.RootLength)
	}
	b.Body = HydrateBeaconBlockBody(b.Body)
	return b
}

// HydrateBeaconBlockBody hydrates a beacon block body with correct field lengths.
func HydrateBeaconBlockBody(b *gbtypes.BeaconBlockBody) *gbtypes.BeaconBlockBody {
	if b == nil {
		b = &gbtypes.BeaconBlockBody{}
	}
	if b.RandaoReveal == nil {
		b.RandaoReveal = make([]byte, fieldparams.BLSSignatureLength)
	}
	if b.Graffiti == nil {
		b.Graffiti = make([]byte, fieldparams.RootLength)
	}
	if b.SyncAggregate == nil {
		b.SyncAggregate = &gbtypes.SyncAggregate{
			SyncCommitteeBits:      bitfield.NewBitvector512(),
			SyncCommitteeSignature: make([]byte, fieldparams.BLSSignatureLength),
		}
	}
	return b
}

// HydrateSignedBeaconHeader hydrates a signed beacon block header with correct field lengths.
func HydrateSignedBeaconHeader(h *gbtypes.SignedBeaconBlockHeader) *gbtypes.SignedBeaconBlockHeader {
	if h == nil {
		h = &gbtypes.SignedBeaconBlockHeader{}
	}
	if h.Signature == nil {
		h.Signature = make([]byte, fieldparams.BLSSignatureLength)
	}
	h.Header = HydrateBeaconHeader(h.Header)
	return h
}

// HydrateBeaconHeader hydrates a beacon block header with correct field lengths.
func HydrateBeaconHeader(h *gbtypes.BeaconBlockHeader) *gbtypes.BeaconBlockHeader {
	if h == nil {
		h = &gbtypes.BeaconBlockHeader{}
	}
	if h.BodyRoot == nil {
		h.BodyRoot = make([]byte, fieldparams.RootLength)
	}
	if h.StateRoot == nil {
		h.StateRoot = make([]byte, fieldparams.RootLength)
	}
	if h.ParentRoot == nil {
		h.ParentRoot = make([]byte, fieldparams.RootLength)
	}
	return h
}
