// Package state defines the beacon chain state interface used by the
// transition core, also containing useful, scoped interfaces such as
// a ReadOnlyState.
package state

import (
	fieldparams "github.com/gridbox-network/grysm/config/fieldparams"
	"github.com/gridbox-network/grysm/consensus-types/gbtypes"
	types "github.com/gridbox-network/grysm/consensus-types/primitives"
	"github.com/prysmaticlabs/go-bitfield"
)

// BeaconState has read and write access to beacon state methods.
type BeaconState interface {
	ReadOnlyBeaconState
	WriteOnlyBeaconState
	Copy() BeaconState
}

// ReadOnlyValidator defines a struct which only has read access to validator methods.
type ReadOnlyValidator interface {
	EffectiveBalance() uint64
	ActivationEligibilityEpoch() types.Epoch
	ActivationEpoch() types.Epoch
	WithdrawableEpoch() types.Epoch
	ExitEpoch() types.Epoch
	PublicKey() [fieldparams.BLSPubkeyLength]byte
	WithdrawalCredentials() []byte
	Slashed() bool
	IsNil() bool
}

// ReadOnlyBeaconState defines a struct which only has read access to beacon state methods.
type ReadOnlyBeaconState interface {
	GenesisTime() uint64
	GenesisValidatorsRoot() []byte
	Version() int
	Slot() types.Slot
	Fork() *gbtypes.Fork
	LatestBlockHeader() *gbtypes.BeaconBlockHeader
	BlockRoots() [][]byte
	BlockRootAtIndex(idx uint64) ([]byte, error)
	RandaoMixes() [][]byte
	RandaoMixAtIndex(idx uint64) ([]byte, error)
	RandaoMixesLength() int
	Validators() []*gbtypes.Validator
	ValidatorAtIndex(idx types.ValidatorIndex) (*gbtypes.Validator, error)
	ValidatorAtIndexReadOnly(idx types.ValidatorIndex) (ReadOnlyValidator, error)
	ValidatorIndexByPubkey(key [fieldparams.BLSPubkeyLength]byte) (types.ValidatorIndex, bool)
	PubkeyAtIndex(idx types.ValidatorIndex) [fieldparams.BLSPubkeyLength]byte
	NumValidators() int
	ReadFromEveryValidator(f func(idx int, val ReadOnlyValidator) error) error
	Balances() []uint64
	BalanceAtIndex(idx types.ValidatorIndex) (uint64, error)
	BalancesLength() int
	Slashings() []uint64
	JustificationBits() bitfield.Bitvector4
	PreviousJustifiedCheckpoint() *gbtypes.Checkpoint
	CurrentJustifiedCheckpoint() *gbtypes.Checkpoint
	MatchCurrentJustifiedCheckpoint(c *gbtypes.Checkpoint) bool
	MatchPreviousJustifiedCheckpoint(c *gbtypes.Checkpoint) bool
	FinalizedCheckpoint() *gbtypes.Checkpoint
	FinalizedCheckpointEpoch() types.Epoch
	CurrentEpochParticipation() ([]byte, error)
	PreviousEpochParticipation() ([]byte, error)
	InactivityScores() ([]uint64, error)
	CurrentSyncCommittee() (*gbtypes.SyncCommittee, error)
	NextSyncCommittee() (*gbtypes.SyncCommittee, error)
	CurrentSyncAggregateBits() (bitfield.Bitvector512, error)
}

// WriteOnlyBeaconState defines a struct which only has write access to beacon state methods.
type WriteOnlyBeaconState interface {
	SetSlot(val types.Slot) error
	SetFork(val *gbtypes.Fork) error
	SetLatestBlockHeader(val *gbtypes.BeaconBlockHeader) error
	UpdateBlockRootAtIndex(idx uint64, blockRoot [32]byte) error
	SetRandaoMixes(val [][]byte) error
	UpdateRandaoMixesAtIndex(idx uint64, val []byte) error
	SetValidators(val []*gbtypes.Validator) error
	ApplyToEveryValidator(f func(idx int, val *gbtypes.Validator) (bool, *gbtypes.Validator, error)) error
	UpdateValidatorAtIndex(idx types.ValidatorIndex, val *gbtypes.Validator) error
	SetValidatorIndexByPubkey(pubKey [fieldparams.BLSPubkeyLength]byte, validatorIndex types.ValidatorIndex)
	SetBalances(val []uint64) error
	UpdateBalancesAtIndex(idx types.ValidatorIndex, val uint64) error
	SetSlashings(val []uint64) error
	UpdateSlashingsAtIndex(idx, val uint64) error
	AppendValidator(val *gbtypes.Validator) error
	AppendBalance(bal uint64) error
	SetJustificationBits(val bitfield.Bitvector4) error
	SetPreviousJustifiedCheckpoint(val *gbtypes.Checkpoint) error
	SetCurrentJustifiedCheckpoint(val *gbtypes.Checkpoint) error
	SetFinalizedCheckpoint(val *gbtypes.Checkpoint) error
	SetCurrentParticipationBits(val []byte) error
	SetPreviousParticipationBits(val []byte) error
	AppendCurrentParticipationBits(val byte) error
	AppendPreviousParticipationBits(val byte) error
	ModifyCurrentParticipationBits(mutator func(val []byte) ([]byte, error)) error
	ModifyPreviousParticipationBits(mutator func(val []byte) ([]byte, error)) error
	SetInactivityScores(val []uint64) error
	AppendInactivityScore(s uint64) error
	SetCurrentSyncCommittee(val *gbtypes.SyncCommittee) error
	SetNextSyncCommittee(val *gbtypes.SyncCommittee) error
	SetCurrentSyncAggregateBits(val bitfield.Bitvector512) error
}
