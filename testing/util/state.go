// Package util defines utilities to assist the rest of the codebase in unit testing.
package util

import (
	"github.com/gridbox-network/grysm/beacon-chain/state"
	statenative "github.com/gridbox-network/grysm/beacon-chain/state/state-native"
	fieldparams "github.com/gridbox-network/grysm/config/fieldparams"
	"github.com/gridbox-network/grysm/config/params"
	"github.com/gridbox-network/grysm/consensus-types/gbtypes"
	"github.com/gridbox-network/grysm/encoding/bytesutil"
	"github.com/gridbox-network/grysm/runtime/version"
	"github.com/prysmaticlabs/go-bitfield"
)

// FillRootsNaturalOpt is meant to be used as an option when calling NewBeaconState.
// It fills block roots with the little-endian representations of natural numbers
// starting with 0, so root lookups in tests are self describing.
func FillRootsNaturalOpt(f *statenative.Fields) error {
	for i := range f.BlockRoots {
		f.BlockRoots[i] = bytesutil.PadTo(bytesutil.Bytes8(uint64(i)), 32)
	}
	return nil
}

// NewBeaconState creates a phase 0 beacon state with every fixed-size vector
// sized from the active config and zero validators. Options mutate the raw
// fields before the state object is built.
func NewBeaconState(options ...func(f *statenative.Fields) error) (state.BeaconState, error) {
	f := emptyFields(version.Phase0)
	for _, opt := range options {
		if err := opt(f); err != nil {
			return nil, err
		}
	}
	return statenative.InitializeFromFields(f)
}

// NewBeaconStateAltair creates an Altair beacon state, with participation
// registries and sync committees populated alongside the phase 0 fields.
func NewBeaconStateAltair(options ...func(f *statenative.Fields) error) (state.BeaconState, error) {
	cfg := params.BeaconConfig()
	f := emptyFields(version.Altair)
	f.Fork = &gbtypes.Fork{
		PreviousVersion: cfg.GenesisForkVersion,
		CurrentVersion:  cfg.AltairForkVersion,
		Epoch:           cfg.AltairForkEpoch,
	}
	pubkeys := make([][]byte, cfg.SyncCommitteeSize)
	for i := range pubkeys {
		pubkeys[i] = make([]byte, fieldparams.BLSPubkeyLength)
	}
	f.CurrentSyncCommittee = &gbtypes.SyncCommittee{
		Pubkeys:         pubkeys,
		AggregatePubkey: make([]byte, fieldparams.BLSPubkeyLength),
	}
	f.NextSyncCommittee = f.CurrentSyncCommittee.Copy()
	f.CurrentSyncAggregateBits = bitfield.NewBitvector512()
	for _, opt := range options {
		if err := opt(f); err != nil {
			return nil, err
		}
	}
	if f.Version >= version.Altair && len(f.CurrentEpochParticipation) != len(f.Validators) {
		f.CurrentEpochParticipation = make([]byte, len(f.Validators))
		f.PreviousEpochParticipation = make([]byte, len(f.Validators))
	}
	return statenative.InitializeFromFields(f)
}

func emptyFields(v int) *statenative.Fields {
	cfg := params.BeaconConfig()
	blockRoots := make([][]byte, cfg.SlotsPerHistoricalRoot)
	for i := range blockRoots {
		blockRoots[i] = make([]byte, fieldparams.RootLength)
	}
	randaoMixes := make([][]byte, cfg.EpochsPerHistoricalVector)
	for i := range randaoMixes {
		randaoMixes[i] = make([]byte, fieldparams.RootLength)
	}
	return &statenative.Fields{
		Version:               v,
		GenesisValidatorsRoot: make([]byte, fieldparams.RootLength),
		Fork: &gbtypes.Fork{
			PreviousVersion: cfg.GenesisForkVersion,
			CurrentVersion:  cfg.GenesisForkVersion,
			Epoch:           0,
		},
		LatestBlockHeader: &gbtypes.BeaconBlockHeader{
			ParentRoot: make([]byte, fieldparams.RootLength),
			StateRoot:  make([]byte, fieldparams.RootLength),
			BodyRoot:   make([]byte, fieldparams.RootLength),
		},
		BlockRoots:                  blockRoots,
		RandaoMixes:                 randaoMixes,
		Slashings:                   make([]uint64, cfg.EpochsPerSlashingsVector),
		JustificationBits:           bitfield.NewBitvector4(),
		PreviousJustifiedCheckpoint: &gbtypes.Checkpoint{Root: make([]byte, fieldparams.RootLength)},
		CurrentJustifiedCheckpoint:  &gbtypes.Checkpoint{Root: make([]byte, fieldparams.RootLength)},
		FinalizedCheckpoint:         &gbtypes.Checkpoint{Root: make([]byte, fieldparams.RootLength)},
	}
}
