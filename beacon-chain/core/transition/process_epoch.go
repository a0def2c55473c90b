package transition

import (
	"context"

	"github.com/gridbox-network/grysm/beacon-chain/core/epoch/precompute"
	"github.com/gridbox-network/grysm/beacon-chain/core/incentives"
	coreTime "github.com/gridbox-network/grysm/beacon-chain/core/time"
	v "github.com/gridbox-network/grysm/beacon-chain/core/validators"
	"github.com/gridbox-network/grysm/beacon-chain/state"
	"github.com/gridbox-network/grysm/runtime/version"
	"github.com/pkg/errors"
	"go.opencensus.io/trace"
)

// ProcessEpoch runs the epoch boundary bookkeeping: a single precompute pass
// over the registry and participation records, the reward policy's per-epoch
// pass, the proportional slashing sweep, then the participation rotation that
// opens a fresh current epoch. The returned summary carries the activity and
// balance facts of the closed epoch so reporting code can query them without
// re-deriving.
func ProcessEpoch(ctx context.Context, st state.BeaconState, policy *incentives.RewardPolicy) (state.BeaconState, *precompute.EpochSummary, error) {
	ctx, span := trace.StartSpan(ctx, "core.state.ProcessEpoch")
	defer span.End()

	if st == nil {
		return nil, nil, errors.New("nil state")
	}
	epoch := coreTime.CurrentEpoch(st)

	vals, bal, err := precompute.InitializeEpochValidators(ctx, st)
	if err != nil {
		return nil, nil, err
	}
	vals, bal, err = precompute.ProcessEpochParticipation(ctx, st, bal, vals)
	if err != nil {
		return nil, nil, err
	}

	st, err = incentives.ProcessEpochRewards(ctx, st, policy)
	if err != nil {
		return nil, nil, errors.Wrap(err, "could not process epoch rewards")
	}

	if err := precompute.ProcessSlashingsPrecompute(st, bal); err != nil {
		return nil, nil, err
	}

	if err := rotateEpochParticipation(st); err != nil {
		return nil, nil, errors.Wrap(err, "could not rotate epoch participation")
	}

	summary := &precompute.EpochSummary{
		Epoch:          epoch,
		Balances:       bal,
		Validators:     vals,
		SlashedIndices: v.SlashedValidatorIndices(epoch, st.Validators()),
	}
	return st, summary, nil
}

// rotateEpochParticipation moves the closed epoch's participation flags into
// the previous-epoch registry and zeroes the current one. Phase 0 states
// carry no participation registries and pass through unchanged.
func rotateEpochParticipation(st state.BeaconState) error {
	if st.Version() == version.Phase0 {
		return nil
	}
	current, err := st.CurrentEpochParticipation()
	if err != nil {
		return err
	}
	if err := st.SetPreviousParticipationBits(current); err != nil {
		return err
	}
	return st.SetCurrentParticipationBits(make([]byte, st.NumValidators()))
}
