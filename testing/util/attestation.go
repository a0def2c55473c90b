package util

import (
	fieldparams "github.com/gridbox-network/grysm/config/fieldparams"
	"github.com/gridbox-network/grysm/consensus-types/gbtypes"
	"github.com/prysmaticlabs/go-bitfield"
)

// HydrateAttestation hydrates an attestation with correct field lengths
// to comply with fastssz marshalling and unmarshalling rules.
func HydrateAttestation(a *gbtypes.Attestation) *gbtypes.Attestation {
	if a == nil {
		a = &gbtypes.Attestation{}
	}
	if a.Signature == nil {
		a.Signature = make([]byte, fieldparams.BLSSignatureLength)
	}
	if a.AggregationBits == nil {
		a.AggregationBits = bitfield.Bitlist{0b00000001}
	}
	a.Data = HydrateAttestationData(a.Data)
	return a
}

// HydrateAttestationData hydrates attestation data with correct field lengths.
func HydrateAttestationData(d *gbtypes.AttestationData) *gbtypes.AttestationData {
	if d == nil {
		d = &gbtypes.AttestationData{}
	}
	if d.BeaconBlockRoot == nil {
		d.BeaconBlockRoot = make([]byte, fieldparams.RootLength)
	}
	if d.Target == nil {
		d.Target = &gbtypes.Checkpoint{}
	}
	if d.Target.Root == nil {
		d.Target.Root = make([]byte, fieldparams.RootLength)
	}
	if d.Source == nil {
		d.Source = &gbtypes.Checkpoint{}
	}
	if d.Source.Root == nil {
		d.Source.Root = make([]byte, fieldparams.RootLength)
	}
	return d
}

// HydrateIndexedAttestation hydrates an indexed attestation with correct field lengths.
func HydrateIndexedAttestation(a *gbtypes.IndexedAttestation) *gbtypes.IndexedAttestation {
	if a == nil {
		a = &gbtypes.IndexedAttestation{}
	}
	if a.Signature == nil {
		a.Signature = make([]byte, fieldparams.BLSSignatureLength)
	}
	if a.AttestingIndices == nil {
		a.AttestingIndices = []uint64{}
	}
	a.Data = HydrateAttestationData(a.Data)
	return a
}

// HydrateSyncAggregate hydrates a sync aggregate with correct field lengths.
func HydrateSyncAggregate(a *gbtypes.SyncAggregate) *gbtypes.SyncAggregate {
	if a == nil {
		a = &gbtypes.SyncAggregate{}
	}
	if a.SyncCommitteeBits == nil {
		a.SyncCommitteeBits = bitfield.NewBitvector512()
	}
	if a.SyncCommitteeSignature == nil {
		a.SyncCommitteeSignature = make([]byte, fieldparams.BLSSignatureLength)
	}
	return a
}
