package precompute

import (
	"github.com/gridbox-network/grysm/beacon-chain/core/helpers"
	coreTime "github.com/gridbox-network/grysm/beacon-chain/core/time"
	"github.com/gridbox-network/grysm/beacon-chain/state"
	"github.com/gridbox-network/grysm/config/params"
	"github.com/gridbox-network/grysm/consensus-types/gbtypes"
	types "github.com/gridbox-network/grysm/consensus-types/primitives"
	mathutil "github.com/gridbox-network/grysm/math"
	"github.com/gridbox-network/grysm/runtime/version"
	"github.com/pkg/errors"
)

// ProcessSlashingsPrecompute processes the slashed validators during epoch processing.
// This is an optimized version by passing in precomputed total epoch balances.
//
// Spec pseudocode definition:
//  def process_slashings(state: BeaconState) -> None:
//    epoch = get_current_epoch(state)
//    total_balance = get_total_active_balance(state)
//    adjusted_total_slashing_balance = min(sum(state.slashings) * PROPORTIONAL_SLASHING_MULTIPLIER, total_balance)
//    for index, validator in enumerate(state.validators):
//        if validator.slashed and epoch + EPOCHS_PER_SLASHINGS_VECTOR // 2 == validator.withdrawable_epoch:
//            increment = EFFECTIVE_BALANCE_INCREMENT  # Factored out from penalty numerator to avoid uint64 overflow
//            penalty_numerator = validator.effective_balance // increment * adjusted_total_slashing_balance
//            penalty = penalty_numerator // total_balance * increment
//            decrease_balance(state, ValidatorIndex(index), penalty)
func ProcessSlashingsPrecompute(st state.BeaconState, pBal *Balance) error {
	if pBal == nil || pBal.ActiveCurrentEpoch == 0 {
		return errors.New("precomputed active balance can't be nil or zero")
	}
	currentEpoch := coreTime.CurrentEpoch(st)
	exitLength := params.BeaconConfig().EpochsPerSlashingsVector

	// Compute the sum of state slashings
	totalSlashing := uint64(0)
	for _, slashing := range st.Slashings() {
		totalSlashing += slashing
	}

	var multiplier uint64
	switch st.Version() {
	case version.Phase0:
		multiplier = params.BeaconConfig().ProportionalSlashingMultiplier
	case version.Altair:
		multiplier = params.BeaconConfig().ProportionalSlashingMultiplierAltair
	case version.Bellatrix:
		multiplier = params.BeaconConfig().ProportionalSlashingMultiplierBellatrix
	default:
		return errors.New("unknown state version")
	}

	minSlashing := mathutil.Min(totalSlashing*multiplier, pBal.ActiveCurrentEpoch)
	epochToWithdraw := currentEpoch + exitLength.Div(2)

	var hasSlashing bool
	// Iterate through validator list in state, stop until a validator satisfies slashing condition of current epoch.
	if err := st.ReadFromEveryValidator(func(idx int, val state.ReadOnlyValidator) error {
		if val.Slashed() && epochToWithdraw == val.WithdrawableEpoch() {
			hasSlashing = true
		}
		return nil
	}); err != nil {
		return err
	}
	// Exit early if there's no meaningful slashing to process.
	if !hasSlashing {
		return nil
	}

	increment := params.BeaconConfig().EffectiveBalanceIncrement
	validatorFunc := func(idx int, val *gbtypes.Validator) (bool, *gbtypes.Validator, error) {
		if val.Slashed && epochToWithdraw == val.WithdrawableEpoch {
			penaltyNumerator := val.EffectiveBalance / increment * minSlashing
			penalty := penaltyNumerator / pBal.ActiveCurrentEpoch * increment
			if err := helpers.DecreaseBalance(st, types.ValidatorIndex(idx), penalty); err != nil {
				return false, val, err
			}
		}
		return false, val, nil
	}

	return st.ApplyToEveryValidator(validatorFunc)
}
