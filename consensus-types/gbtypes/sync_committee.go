package gbtypes

import (
	"github.com/gridbox-network/grysm/encoding/bytesutil"
	"github.com/prysmaticlabs/go-bitfield"
)

// SyncCommittee is the rotating committee that signs recent block roots. The
// pubkey list may repeat entries when the sampling selects a validator more
// than once.
type SyncCommittee struct {
	Pubkeys         [][]byte `ssz-size:"?,48"`
	AggregatePubkey []byte   `ssz-size:"48"`
}

// Copy returns a deep copy of the sync committee.
func (s *SyncCommittee) Copy() *SyncCommittee {
	if s == nil {
		return nil
	}
	return &SyncCommittee{
		Pubkeys:         bytesutil.SafeCopy2dBytes(s.Pubkeys),
		AggregatePubkey: bytesutil.SafeCopyBytes(s.AggregatePubkey),
	}
}

// SyncAggregate is the block-embedded record of which sync committee members
// signed the previous slot's block root, with their aggregate signature.
type SyncAggregate struct {
	SyncCommitteeBits      bitfield.Bitvector512 `ssz-size:"64"`
	SyncCommitteeSignature []byte                `ssz-size:"96"`
}

// Copy returns a deep copy of the sync aggregate.
func (s *SyncAggregate) Copy() *SyncAggregate {
	if s == nil {
		return nil
	}
	var bits bitfield.Bitvector512
	if s.SyncCommitteeBits != nil {
		bits = make(bitfield.Bitvector512, len(s.SyncCommitteeBits))
		copy(bits, s.SyncCommitteeBits)
	}
	return &SyncAggregate{
		SyncCommitteeBits:      bits,
		SyncCommitteeSignature: bytesutil.SafeCopyBytes(s.SyncCommitteeSignature),
	}
}
