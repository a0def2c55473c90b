package precompute

import (
	"context"

	"github.com/gridbox-network/grysm/beacon-chain/core/altair"
	"github.com/gridbox-network/grysm/beacon-chain/core/helpers"
	coreTime "github.com/gridbox-network/grysm/beacon-chain/core/time"
	"github.com/gridbox-network/grysm/beacon-chain/state"
	"github.com/gridbox-network/grysm/config/params"
	"github.com/gridbox-network/grysm/runtime/version"
	"github.com/pkg/errors"
	"go.opencensus.io/trace"
)

// InitializeEpochValidators gets called at the beginning of process epoch cycle to return
// pre computed instances of validators attesting records and total
// balances attested in an epoch.
func InitializeEpochValidators(ctx context.Context, st state.ReadOnlyBeaconState) ([]*Validator, *Balance, error) {
	ctx, span := trace.StartSpan(ctx, "precompute.InitializeEpochValidators")
	defer span.End()
	pValidators := make([]*Validator, st.NumValidators())
	bal := &Balance{}
	prevEpoch := coreTime.PrevEpoch(st)
	currentEpoch := coreTime.CurrentEpoch(st)

	var inactivityScores []uint64
	if st.Version() > version.Phase0 {
		var err error
		inactivityScores, err = st.InactivityScores()
		if err != nil {
			return nil, nil, err
		}
		// This shouldn't happen with a correct beacon state,
		// but rather be safe to defend against index out of bound panics.
		if st.NumValidators() > len(inactivityScores) {
			return nil, nil, errors.New("num of validators can't be greater than length of inactivity scores")
		}
	}

	if err := st.ReadFromEveryValidator(func(idx int, val state.ReadOnlyValidator) error {
		// Was validator withdrawable or slashed
		withdrawable := currentEpoch >= val.WithdrawableEpoch()
		pVal := &Validator{
			IsSlashed:                    val.Slashed(),
			IsWithdrawableCurrentEpoch:   withdrawable,
			CurrentEpochEffectiveBalance: val.EffectiveBalance(),
		}
		if inactivityScores != nil {
			pVal.InactivityScore = inactivityScores[idx]
		}
		// Validator active current epoch
		if helpers.IsActiveValidatorUsingTrie(val, currentEpoch) {
			pVal.IsActiveCurrentEpoch = true
			bal.ActiveCurrentEpoch += val.EffectiveBalance()
		}
		// Validator active previous epoch
		if helpers.IsActiveValidatorUsingTrie(val, prevEpoch) {
			pVal.IsActivePrevEpoch = true
			bal.ActivePrevEpoch += val.EffectiveBalance()
		}

		pValidators[idx] = pVal
		return nil
	}); err != nil {
		return nil, nil, errors.Wrap(err, "could not initialize epoch validator")
	}
	return pValidators, bal, nil
}

// ProcessEpochParticipation processes the epoch participation in state and updates individual validator's pre computes,
// it also tracks and updates epoch attesting balances. Participation registries exist from Altair onward; a phase 0
// state passes through with only the active balances filled.
func ProcessEpochParticipation(
	ctx context.Context,
	st state.ReadOnlyBeaconState,
	bal *Balance,
	vals []*Validator,
) ([]*Validator, *Balance, error) {
	ctx, span := trace.StartSpan(ctx, "precompute.ProcessEpochParticipation")
	defer span.End()

	if st.Version() == version.Phase0 {
		return vals, bal, nil
	}

	cp, err := st.CurrentEpochParticipation()
	if err != nil {
		return nil, nil, err
	}
	cfg := params.BeaconConfig()
	targetIdx := cfg.TimelyTargetFlagIndex
	sourceIdx := cfg.TimelySourceFlagIndex
	headIdx := cfg.TimelyHeadFlagIndex
	for i, b := range cp {
		if i >= len(vals) {
			return nil, nil, errors.New("participation registry longer than validator registry")
		}
		has, err := altair.HasValidatorFlag(b, targetIdx)
		if err != nil {
			return nil, nil, err
		}
		if has {
			vals[i].IsCurrentEpochTargetAttester = true
		}
	}
	pp, err := st.PreviousEpochParticipation()
	if err != nil {
		return nil, nil, err
	}
	for i, b := range pp {
		if i >= len(vals) {
			return nil, nil, errors.New("participation registry longer than validator registry")
		}
		hasSource, err := altair.HasValidatorFlag(b, sourceIdx)
		if err != nil {
			return nil, nil, err
		}
		if hasSource {
			vals[i].IsPrevEpochAttester = true
		}
		hasTarget, err := altair.HasValidatorFlag(b, targetIdx)
		if err != nil {
			return nil, nil, err
		}
		if hasTarget {
			vals[i].IsPrevEpochTargetAttester = true
		}
		hasHead, err := altair.HasValidatorFlag(b, headIdx)
		if err != nil {
			return nil, nil, err
		}
		if hasHead {
			vals[i].IsPrevEpochHeadAttester = true
		}
	}
	bal = UpdateBalance(vals, bal)
	return vals, bal, nil
}

// UpdateBalance updates pre computed balance store.
func UpdateBalance(vals []*Validator, bBal *Balance) *Balance {
	for _, v := range vals {
		if v.IsSlashed {
			continue
		}
		if v.IsCurrentEpochTargetAttester {
			bBal.CurrentEpochTargetAttested += v.CurrentEpochEffectiveBalance
		}
		if v.IsPrevEpochAttester {
			bBal.PrevEpochAttested += v.CurrentEpochEffectiveBalance
		}
		if v.IsPrevEpochTargetAttester {
			bBal.PrevEpochTargetAttested += v.CurrentEpochEffectiveBalance
		}
		if v.IsPrevEpochHeadAttester {
			bBal.PrevEpochHeadAttested += v.CurrentEpochEffectiveBalance
		}
	}
	return bBal
}
