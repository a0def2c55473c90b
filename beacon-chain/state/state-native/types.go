// Package state_native is the struct-backed implementation of the beacon
// state interface. Fields are stored directly on the struct and guarded by
// a single RWMutex; Copy produces a fully detached deep copy.
package state_native

import (
	"sync"

	"github.com/gridbox-network/grysm/beacon-chain/state"
	fieldparams "github.com/gridbox-network/grysm/config/fieldparams"
	"github.com/gridbox-network/grysm/config/params"
	"github.com/gridbox-network/grysm/consensus-types/gbtypes"
	types "github.com/gridbox-network/grysm/consensus-types/primitives"
	"github.com/gridbox-network/grysm/encoding/bytesutil"
	"github.com/gridbox-network/grysm/runtime/version"
	"github.com/pkg/errors"
	"github.com/prysmaticlabs/go-bitfield"
)

// Ensure type BeaconState below implements BeaconState interface.
var _ state.BeaconState = (*BeaconState)(nil)

// BeaconState defines a struct containing utilities for the Gridbox beacon
// chain state, defining getters and setters for its respective values.
type BeaconState struct {
	version                     int
	genesisTime                 uint64
	genesisValidatorsRoot       []byte
	slot                        types.Slot
	fork                        *gbtypes.Fork
	latestBlockHeader           *gbtypes.BeaconBlockHeader
	blockRoots                  [][]byte
	randaoMixes                 [][]byte
	validators                  []*gbtypes.Validator
	balances                    []uint64
	slashings                   []uint64
	previousEpochParticipation  []byte
	currentEpochParticipation   []byte
	justificationBits           bitfield.Bitvector4
	previousJustifiedCheckpoint *gbtypes.Checkpoint
	currentJustifiedCheckpoint  *gbtypes.Checkpoint
	finalizedCheckpoint         *gbtypes.Checkpoint
	inactivityScores            []uint64
	currentSyncCommittee        *gbtypes.SyncCommittee
	nextSyncCommittee           *gbtypes.SyncCommittee
	currentSyncAggregateBits    bitfield.Bitvector512

	lock   sync.RWMutex
	valMap map[[fieldparams.BLSPubkeyLength]byte]types.ValidatorIndex
}

// Fields holds the raw contents a BeaconState is initialized from. Every
// slice is copied on initialization so the caller retains ownership of its
// arguments.
type Fields struct {
	Version                     int
	GenesisTime                 uint64
	GenesisValidatorsRoot       []byte
	Slot                        types.Slot
	Fork                        *gbtypes.Fork
	LatestBlockHeader           *gbtypes.BeaconBlockHeader
	BlockRoots                  [][]byte
	RandaoMixes                 [][]byte
	Validators                  []*gbtypes.Validator
	Balances                    []uint64
	Slashings                   []uint64
	PreviousEpochParticipation  []byte
	CurrentEpochParticipation   []byte
	JustificationBits           bitfield.Bitvector4
	PreviousJustifiedCheckpoint *gbtypes.Checkpoint
	CurrentJustifiedCheckpoint  *gbtypes.Checkpoint
	FinalizedCheckpoint         *gbtypes.Checkpoint
	InactivityScores            []uint64
	CurrentSyncCommittee        *gbtypes.SyncCommittee
	NextSyncCommittee           *gbtypes.SyncCommittee
	CurrentSyncAggregateBits    bitfield.Bitvector512
}

// InitializeFromFields constructs a beacon state from raw field contents.
// Validators and balances are index aligned; a length mismatch is rejected
// here rather than surfacing later as silent misattribution of rewards.
func InitializeFromFields(f *Fields) (state.BeaconState, error) {
	if f == nil {
		return nil, errors.New("nil state fields")
	}
	if len(f.Validators) != len(f.Balances) {
		return nil, errors.Errorf("validator registry and balances are not index aligned: %d != %d",
			len(f.Validators), len(f.Balances))
	}
	if f.Version > version.Phase0 && len(f.CurrentEpochParticipation) != len(f.Validators) {
		return nil, errors.Errorf("participation registry and validators are not index aligned: %d != %d",
			len(f.CurrentEpochParticipation), len(f.Validators))
	}
	vals := make([]*gbtypes.Validator, len(f.Validators))
	valMap := make(map[[fieldparams.BLSPubkeyLength]byte]types.ValidatorIndex, len(f.Validators))
	for i, v := range f.Validators {
		if v == nil {
			return nil, errors.Errorf("nil validator at index %d", i)
		}
		vals[i] = v.Copy()
		valMap[bytesutil.ToBytes48(v.PublicKey)] = types.ValidatorIndex(i)
	}
	b := &BeaconState{
		version:                     f.Version,
		genesisTime:                 f.GenesisTime,
		genesisValidatorsRoot:       bytesutil.SafeCopyBytes(f.GenesisValidatorsRoot),
		slot:                        f.Slot,
		fork:                        f.Fork.Copy(),
		latestBlockHeader:           f.LatestBlockHeader.Copy(),
		blockRoots:                  bytesutil.SafeCopy2dBytes(f.BlockRoots),
		randaoMixes:                 bytesutil.SafeCopy2dBytes(f.RandaoMixes),
		validators:                  vals,
		balances:                    safeCopyUint64(f.Balances),
		slashings:                   safeCopyUint64(f.Slashings),
		previousEpochParticipation:  bytesutil.SafeCopyBytes(f.PreviousEpochParticipation),
		currentEpochParticipation:   bytesutil.SafeCopyBytes(f.CurrentEpochParticipation),
		justificationBits:           bitfield.Bitvector4(bytesutil.SafeCopyBytes(f.JustificationBits)),
		previousJustifiedCheckpoint: f.PreviousJustifiedCheckpoint.Copy(),
		currentJustifiedCheckpoint:  f.CurrentJustifiedCheckpoint.Copy(),
		finalizedCheckpoint:         f.FinalizedCheckpoint.Copy(),
		inactivityScores:            safeCopyUint64(f.InactivityScores),
		currentSyncAggregateBits:    bitfield.Bitvector512(bytesutil.SafeCopyBytes(f.CurrentSyncAggregateBits)),
		valMap:                      valMap,
	}
	if f.CurrentSyncCommittee != nil {
		b.currentSyncCommittee = f.CurrentSyncCommittee.Copy()
	}
	if f.NextSyncCommittee != nil {
		b.nextSyncCommittee = f.NextSyncCommittee.Copy()
	}
	return b, nil
}

// EmptyGenesisState returns a phase 0 state with empty registries and
// zeroed fixed-size vectors, sized from the active config.
func EmptyGenesisState() (state.BeaconState, error) {
	cfg := params.BeaconConfig()
	blockRoots := make([][]byte, cfg.SlotsPerHistoricalRoot)
	for i := range blockRoots {
		blockRoots[i] = make([]byte, 32)
	}
	randaoMixes := make([][]byte, cfg.EpochsPerHistoricalVector)
	for i := range randaoMixes {
		randaoMixes[i] = make([]byte, 32)
	}
	return InitializeFromFields(&Fields{
		Version:               version.Phase0,
		GenesisValidatorsRoot: make([]byte, 32),
		Fork: &gbtypes.Fork{
			PreviousVersion: cfg.GenesisForkVersion,
			CurrentVersion:  cfg.GenesisForkVersion,
			Epoch:           0,
		},
		LatestBlockHeader: &gbtypes.BeaconBlockHeader{
			ParentRoot: make([]byte, 32),
			StateRoot:  make([]byte, 32),
			BodyRoot:   make([]byte, 32),
		},
		BlockRoots:                  blockRoots,
		RandaoMixes:                 randaoMixes,
		Slashings:                   make([]uint64, cfg.EpochsPerSlashingsVector),
		JustificationBits:           bitfield.NewBitvector4(),
		PreviousJustifiedCheckpoint: &gbtypes.Checkpoint{Root: make([]byte, 32)},
		CurrentJustifiedCheckpoint:  &gbtypes.Checkpoint{Root: make([]byte, 32)},
		FinalizedCheckpoint:         &gbtypes.Checkpoint{Root: make([]byte, 32)},
	})
}

// Version returns the protocol fork the state is on.
func (b *BeaconState) Version() int {
	return b.version
}

// Copy returns a fully detached deep copy of the beacon state.
func (b *BeaconState) Copy() state.BeaconState {
	b.lock.RLock()
	defer b.lock.RUnlock()

	vals := make([]*gbtypes.Validator, len(b.validators))
	for i, v := range b.validators {
		vals[i] = v.Copy()
	}
	valMap := make(map[[fieldparams.BLSPubkeyLength]byte]types.ValidatorIndex, len(b.valMap))
	for k, v := range b.valMap {
		valMap[k] = v
	}
	dst := &BeaconState{
		version:                     b.version,
		genesisTime:                 b.genesisTime,
		genesisValidatorsRoot:       bytesutil.SafeCopyBytes(b.genesisValidatorsRoot),
		slot:                        b.slot,
		fork:                        b.fork.Copy(),
		latestBlockHeader:           b.latestBlockHeader.Copy(),
		blockRoots:                  bytesutil.SafeCopy2dBytes(b.blockRoots),
		randaoMixes:                 bytesutil.SafeCopy2dBytes(b.randaoMixes),
		validators:                  vals,
		balances:                    safeCopyUint64(b.balances),
		slashings:                   safeCopyUint64(b.slashings),
		previousEpochParticipation:  bytesutil.SafeCopyBytes(b.previousEpochParticipation),
		currentEpochParticipation:   bytesutil.SafeCopyBytes(b.currentEpochParticipation),
		justificationBits:           bitfield.Bitvector4(bytesutil.SafeCopyBytes(b.justificationBits)),
		previousJustifiedCheckpoint: b.previousJustifiedCheckpoint.Copy(),
		currentJustifiedCheckpoint:  b.currentJustifiedCheckpoint.Copy(),
		finalizedCheckpoint:         b.finalizedCheckpoint.Copy(),
		inactivityScores:            safeCopyUint64(b.inactivityScores),
		currentSyncAggregateBits:    bitfield.Bitvector512(bytesutil.SafeCopyBytes(b.currentSyncAggregateBits)),
		valMap:                      valMap,
	}
	if b.currentSyncCommittee != nil {
		dst.currentSyncCommittee = b.currentSyncCommittee.Copy()
	}
	if b.nextSyncCommittee != nil {
		dst.nextSyncCommittee = b.nextSyncCommittee.Copy()
	}
	return dst
}

func safeCopyUint64(src []uint64) []uint64 {
	if src == nil {
		return nil
	}
	dst := make([]uint64, len(src))
	copy(dst, src)
	return dst
}
