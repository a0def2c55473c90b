// Package validators contains libraries to shuffle validators
// and retrieve active validator indices from a given slot
// or an attestation. It also provides helper functions to locate
// validator based on pubic key.
package validators

import (
	"context"

	"github.com/gridbox-network/grysm/beacon-chain/core/helpers"
	"github.com/gridbox-network/grysm/beacon-chain/core/time"
	"github.com/gridbox-network/grysm/beacon-chain/state"
	"github.com/gridbox-network/grysm/config/params"
	"github.com/gridbox-network/grysm/consensus-types/gbtypes"
	types "github.com/gridbox-network/grysm/consensus-types/primitives"
	mathutil "github.com/gridbox-network/grysm/math"
	"github.com/gridbox-network/grysm/runtime/version"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("prefix", "core/validators")

// ErrValidatorAlreadySlashed is returned when a slashing is attempted on a
// validator whose slashed flag is already set.
var ErrValidatorAlreadySlashed = errors.New("validator has already been slashed")

var validatorsSlashedTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "validators_slashed_total",
	Help: "Total number of validators slashed by the state transition.",
})

// SlashValidator slashes the malicious validator's balance and awards
// the whistleblower's balance.
//
// Spec pseudocode definition:
//  def slash_validator(state: BeaconState,
//                    slashed_index: ValidatorIndex,
//                    whistleblower_index: ValidatorIndex=None) -> None:
//    """
//    Slash the validator with index ``slashed_index``.
//    """
//    epoch = get_current_epoch(state)
//    initiate_validator_exit(state, slashed_index)
//    validator = state.validators[slashed_index]
//    validator.slashed = True
//    validator.withdrawable_epoch = max(validator.withdrawable_epoch, Epoch(epoch + EPOCHS_PER_SLASHINGS_VECTOR))
//    state.slashings[epoch % EPOCHS_PER_SLASHINGS_VECTOR] += validator.effective_balance
//    decrease_balance(state, slashed_index, validator.effective_balance // MIN_SLASHING_PENALTY_QUOTIENT)
func SlashValidator(
	ctx context.Context,
	st state.BeaconState,
	slashedIdx types.ValidatorIndex,
	whistleblowerIdx types.ValidatorIndex,
) (state.BeaconState, error) {
	validator, err := st.ValidatorAtIndex(slashedIdx)
	if err != nil {
		return nil, err
	}
	if validator.Slashed {
		return nil, errors.Wrapf(ErrValidatorAlreadySlashed, "validator index %d", slashedIdx)
	}

	currentEpoch := time.CurrentEpoch(st)
	validator.Slashed = true
	maxWithdrawableEpoch := types.Epoch(mathutil.Max(
		uint64(validator.WithdrawableEpoch),
		uint64(currentEpoch+params.BeaconConfig().EpochsPerSlashingsVector+1),
	))
	validator.WithdrawableEpoch = maxWithdrawableEpoch

	if err := st.UpdateValidatorAtIndex(slashedIdx, validator); err != nil {
		return nil, err
	}

	// The effective balance enters the slashings accumulator so the end of
	// epoch sweep can size the correlated penalty.
	slashings := st.Slashings()
	currentSlashing := slashings[currentEpoch%params.BeaconConfig().EpochsPerSlashingsVector]
	if err := st.UpdateSlashingsAtIndex(
		uint64(currentEpoch%params.BeaconConfig().EpochsPerSlashingsVector),
		currentSlashing+validator.EffectiveBalance,
	); err != nil {
		return nil, err
	}

	var minSlashingQuotient uint64
	switch st.Version() {
	case version.Phase0:
		minSlashingQuotient = params.BeaconConfig().MinSlashingPenaltyQuotient
	case version.Altair:
		minSlashingQuotient = params.BeaconConfig().MinSlashingPenaltyQuotientAltair
	case version.Bellatrix:
		minSlashingQuotient = params.BeaconConfig().MinSlashingPenaltyQuotientBellatrix
	default:
		return nil, errors.New("unknown state version")
	}
	if err := helpers.DecreaseBalance(st, slashedIdx, validator.EffectiveBalance/minSlashingQuotient); err != nil {
		return nil, err
	}

	// Whistleblowers receive no direct payout: the split of every reward is
	// handled centrally by the incentive engine.
	log.WithFields(logrus.Fields{
		"validatorIndex":    slashedIdx,
		"whistleblowerIdx":  whistleblowerIdx,
		"withdrawableEpoch": maxWithdrawableEpoch,
	}).Debug("Slashed validator")
	validatorsSlashedTotal.Inc()

	return st, nil
}

// SlashedValidatorIndices returns the indices of the validators slashed within
// the given epoch, read from the withdrawable epoch the slashing stamped.
func SlashedValidatorIndices(epoch types.Epoch, validators []*gbtypes.Validator) []types.ValidatorIndex {
	slashed := make([]types.ValidatorIndex, 0)
	for i, v := range validators {
		if v == nil {
			continue
		}
		withdrawableEpoch := epoch + params.BeaconConfig().EpochsPerSlashingsVector
		if v.Slashed && v.WithdrawableEpoch == withdrawableEpoch+1 {
			slashed = append(slashed, types.ValidatorIndex(i))
		}
	}
	return slashed
}
