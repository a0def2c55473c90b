// Package precompute provides gathered precomputed instances of validators
// attesting records and total balances attested in an epoch, scanned once at
// the start of epoch processing so later passes avoid re-walking the registry.
package precompute

import (
	types "github.com/gridbox-network/grysm/consensus-types/primitives"
)

// Validator stores the pre computation of individual validator's attesting
// records these records consist of attestation votes, block inclusion record.
// Pre computing and storing such record is essential for process epoch optimizations.
type Validator struct {
	// IsSlashed is true if the validator has been slashed.
	IsSlashed bool
	// IsWithdrawableCurrentEpoch is true if the validator can withdraw current epoch.
	IsWithdrawableCurrentEpoch bool
	// IsActiveCurrentEpoch is true if the validator was active current epoch.
	IsActiveCurrentEpoch bool
	// IsActivePrevEpoch is true if the validator was active prev epoch.
	IsActivePrevEpoch bool
	// IsCurrentEpochTargetAttester is true if the validator attested the current epoch target.
	IsCurrentEpochTargetAttester bool
	// IsPrevEpochAttester is true if the validator attested the previous epoch source.
	IsPrevEpochAttester bool
	// IsPrevEpochTargetAttester is true if the validator attested the previous epoch target.
	IsPrevEpochTargetAttester bool
	// IsPrevEpochHeadAttester is true if the validator attested the previous epoch head.
	IsPrevEpochHeadAttester bool

	// CurrentEpochEffectiveBalance is how much effective balance this validator has current epoch.
	CurrentEpochEffectiveBalance uint64
	// InactivityScore of the validator.
	InactivityScore uint64
}

// Balance stores the pre computation of the total participated balances for a given epoch.
// Pre computing and storing such record is essential for process epoch optimizations.
type Balance struct {
	// ActiveCurrentEpoch is the total effective balance of validators active in the current epoch.
	ActiveCurrentEpoch uint64
	// ActivePrevEpoch is the total effective balance of validators active in the previous epoch.
	ActivePrevEpoch uint64
	// CurrentEpochTargetAttested is the total effective balance that attested the current epoch target.
	CurrentEpochTargetAttested uint64
	// PrevEpochAttested is the total effective balance that attested the previous epoch source.
	PrevEpochAttested uint64
	// PrevEpochTargetAttested is the total effective balance that attested the previous epoch target.
	PrevEpochTargetAttested uint64
	// PrevEpochHeadAttested is the total effective balance that attested the previous epoch head.
	PrevEpochHeadAttested uint64
}

// EpochSummary is the read model produced by epoch processing: the epoch's
// participation balances plus the per-validator inclusion facts, queryable by
// reporting code without re-deriving them from the state.
type EpochSummary struct {
	Epoch          types.Epoch
	Balances       *Balance
	Validators     []*Validator
	SlashedIndices []types.ValidatorIndex
}
