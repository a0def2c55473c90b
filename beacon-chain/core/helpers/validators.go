package helpers

import (
	"context"

	"github.com/gridbox-network/grysm/beacon-chain/cache"
	"github.com/gridbox-network/grysm/beacon-chain/state"
	"github.com/gridbox-network/grysm/config/features"
	"github.com/gridbox-network/grysm/config/params"
	"github.com/gridbox-network/grysm/consensus-types/gbtypes"
	types "github.com/gridbox-network/grysm/consensus-types/primitives"
	"github.com/gridbox-network/grysm/crypto/hash"
	"github.com/gridbox-network/grysm/encoding/bytesutil"
	"github.com/gridbox-network/grysm/time/slots"
	"github.com/pkg/errors"
)

// IsActiveValidator returns the boolean value on whether the validator
// is active or not.
//
// Spec pseudocode definition:
//  def is_active_validator(validator: Validator, epoch: Epoch) -> bool:
//    """
//    Check if ``validator`` is active.
//    """
//    return validator.activation_epoch <= epoch < validator.exit_epoch
func IsActiveValidator(validator *gbtypes.Validator, epoch types.Epoch) bool {
	return checkValidatorActiveStatus(validator.ActivationEpoch, validator.ExitEpoch, epoch)
}

// IsActiveValidatorUsingTrie checks if a read only validator is active.
func IsActiveValidatorUsingTrie(validator state.ReadOnlyValidator, epoch types.Epoch) bool {
	return checkValidatorActiveStatus(validator.ActivationEpoch(), validator.ExitEpoch(), epoch)
}

func checkValidatorActiveStatus(activationEpoch, exitEpoch, epoch types.Epoch) bool {
	return activationEpoch <= epoch && epoch < exitEpoch
}

// IsSlashableValidator returns the boolean value on whether the validator
// is slashable or not.
//
// Spec pseudocode definition:
//  def is_slashable_validator(validator: Validator, epoch: Epoch) -> bool:
//    """
//    Check if ``validator`` is slashable.
//    """
//    return (not validator.slashed) and (validator.activation_epoch <= epoch < validator.withdrawable_epoch)
func IsSlashableValidator(activationEpoch, withdrawableEpoch types.Epoch, slashed bool, epoch types.Epoch) bool {
	return checkValidatorSlashable(activationEpoch, withdrawableEpoch, slashed, epoch)
}

// IsSlashableValidatorUsingTrie checks if a read only validator is slashable.
func IsSlashableValidatorUsingTrie(val state.ReadOnlyValidator, epoch types.Epoch) bool {
	return checkValidatorSlashable(val.ActivationEpoch(), val.WithdrawableEpoch(), val.Slashed(), epoch)
}

func checkValidatorSlashable(activationEpoch, withdrawableEpoch types.Epoch, slashed bool, epoch types.Epoch) bool {
	active := activationEpoch <= epoch
	beforeWithdrawable := epoch < withdrawableEpoch
	return beforeWithdrawable && active && !slashed
}

// IsWithdrawableValidatorUsingTrie checks if a read only validator is withdrawable at the
// given epoch.
func IsWithdrawableValidatorUsingTrie(val state.ReadOnlyValidator, epoch types.Epoch) bool {
	return epoch >= val.WithdrawableEpoch()
}

// ActiveValidatorIndices filters out active validators based on validator status
// and returns their indices in a list.
//
// WARNING: This method allocates a new copy of the validator index set and is
// considered to be very memory expensive. Avoid using this unless you really
// need the active validator indices for some specific reason.
//
// Spec pseudocode definition:
//  def get_active_validator_indices(state: BeaconState, epoch: Epoch) -> Sequence[ValidatorIndex]:
//    """
//    Return the sequence of active validator indices at ``epoch``.
//    """
//    return [ValidatorIndex(i) for i, v in enumerate(state.validators) if is_active_validator(v, epoch)]
func ActiveValidatorIndices(ctx context.Context, s state.ReadOnlyBeaconState, epoch types.Epoch) ([]types.ValidatorIndex, error) {
	seed, err := Seed(s, epoch, params.BeaconConfig().DomainBeaconAttester)
	if err != nil {
		return nil, errors.Wrap(err, "could not get seed")
	}

	if !features.Get().DisableCommitteeCache {
		activeIndices, err := committeeCache.ActiveIndices(ctx, seed)
		if err != nil {
			return nil, errors.Wrap(err, "could not interface with committee cache")
		}
		if activeIndices != nil {
			return activeIndices, nil
		}
	}

	var indices []types.ValidatorIndex
	if err := s.ReadFromEveryValidator(func(idx int, val state.ReadOnlyValidator) error {
		if IsActiveValidatorUsingTrie(val, epoch) {
			indices = append(indices, types.ValidatorIndex(idx))
		}
		return nil
	}); err != nil {
		return nil, err
	}

	if !features.Get().DisableCommitteeCache {
		if err := UpdateCommitteeCache(ctx, s, epoch); err != nil {
			return nil, errors.Wrap(err, "could not update committee cache")
		}
	}

	return indices, nil
}

// ActiveValidatorCount returns the number of active validators in the state
// at the given epoch.
func ActiveValidatorCount(ctx context.Context, s state.ReadOnlyBeaconState, epoch types.Epoch) (uint64, error) {
	if !features.Get().DisableCommitteeCache {
		seed, err := Seed(s, epoch, params.BeaconConfig().DomainBeaconAttester)
		if err != nil {
			return 0, errors.Wrap(err, "could not get seed")
		}
		activeCount, err := committeeCache.ActiveIndicesCount(ctx, seed)
		if err != nil {
			return 0, errors.Wrap(err, "could not interface with committee cache")
		}
		if activeCount != 0 && s.NumValidators() > 0 {
			return uint64(activeCount), nil
		}
	}

	count := uint64(0)
	if err := s.ReadFromEveryValidator(func(idx int, val state.ReadOnlyValidator) error {
		if IsActiveValidatorUsingTrie(val, epoch) {
			count++
		}
		return nil
	}); err != nil {
		return 0, err
	}

	return count, nil
}

// ValidatorChurnLimit returns the number of validators that are allowed to
// enter and exit validator pool for an epoch.
//
// Spec pseudocode definition:
//   def get_validator_churn_limit(state: BeaconState) -> uint64:
//    """
//    Return the validator churn limit for the current epoch.
//    """
//    active_validator_indices = get_active_validator_indices(state, get_current_epoch(state))
//    return max(MIN_PER_EPOCH_CHURN_LIMIT, uint64(len(active_validator_indices)) // CHURN_LIMIT_QUOTIENT)
func ValidatorChurnLimit(activeValidatorCount uint64) (uint64, error) {
	churnLimit := activeValidatorCount / params.BeaconConfig().ChurnLimitQuotient
	if churnLimit < params.BeaconConfig().MinPerEpochChurnLimit {
		churnLimit = params.BeaconConfig().MinPerEpochChurnLimit
	}
	return churnLimit, nil
}

// BeaconProposerIndex returns proposer index of a current slot.
//
// Spec pseudocode definition:
//  def get_beacon_proposer_index(state: BeaconState) -> ValidatorIndex:
//    """
//    Return the beacon proposer index at the current slot.
//    """
//    epoch = get_current_epoch(state)
//    seed = hash(get_seed(state, epoch, DOMAIN_BEACON_PROPOSER) + uint_to_bytes(state.slot))
//    indices = get_active_validator_indices(state, epoch)
//    return compute_proposer_index(state, indices, seed)
func BeaconProposerIndex(ctx context.Context, st state.ReadOnlyBeaconState) (types.ValidatorIndex, error) {
	e := slots.ToEpoch(st.Slot())

	// The cache uses the block root of the last slot of the previous epoch as
	// the key; every state of the same epoch on top of the same chain history
	// shares its proposer assignments.
	r, err := proposerIndicesCacheKey(st)
	if err == nil {
		proposerIndices, err := proposerIndicesCache.ProposerIndices(r)
		if err != nil {
			return 0, errors.Wrap(err, "could not interface with proposer indices cache")
		}
		if proposerIndices != nil {
			if offset := uint64(st.Slot().ModSlot(params.BeaconConfig().SlotsPerEpoch)); offset < uint64(len(proposerIndices)) {
				return proposerIndices[offset], nil
			}
		}
	}

	seed, err := Seed(st, e, params.BeaconConfig().DomainBeaconProposer)
	if err != nil {
		return 0, errors.Wrap(err, "could not generate seed")
	}
	seedWithSlot := append(seed[:], bytesutil.Bytes8(uint64(st.Slot()))...)
	seedWithSlotHash := hash.Hash(seedWithSlot)

	indices, err := ActiveValidatorIndices(ctx, st, e)
	if err != nil {
		return 0, err
	}

	return ComputeProposerIndex(st, indices, seedWithSlotHash)
}

// BeaconProposerIndexAtSlot returns the proposer index assigned to the given
// slot, resolved against the state's registry the same way BeaconProposerIndex
// resolves the current slot. The slot's epoch must be within the state's
// randao mix window.
func BeaconProposerIndexAtSlot(ctx context.Context, st state.ReadOnlyBeaconState, slot types.Slot) (types.ValidatorIndex, error) {
	e := slots.ToEpoch(slot)
	seed, err := Seed(st, e, params.BeaconConfig().DomainBeaconProposer)
	if err != nil {
		return 0, errors.Wrap(err, "could not generate seed")
	}
	seedWithSlot := append(seed[:], bytesutil.Bytes8(uint64(slot))...)
	seedWithSlotHash := hash.Hash(seedWithSlot)

	indices, err := ActiveValidatorIndices(ctx, st, e)
	if err != nil {
		return 0, err
	}
	return ComputeProposerIndex(st, indices, seedWithSlotHash)
}

// UpdateProposerIndicesInCache precomputes and caches the proposer indices of
// the state's current epoch, one per slot.
func UpdateProposerIndicesInCache(ctx context.Context, st state.ReadOnlyBeaconState) error {
	r, err := proposerIndicesCacheKey(st)
	if err != nil {
		return err
	}
	if proposerIndicesCache.HasProposerIndices(r) {
		return nil
	}

	indices, err := ActiveValidatorIndices(ctx, st, slots.ToEpoch(st.Slot()))
	if err != nil {
		return err
	}
	proposerIndices, err := precomputeProposerIndices(st, indices)
	if err != nil {
		return err
	}
	return proposerIndicesCache.AddProposerIndices(&cache.ProposerIndices{
		BlockRoot:       r,
		ProposerIndices: proposerIndices,
	})
}

// ComputeProposerIndex returns the index sampled by effective balance, which is used to calculate proposer.
//
// Spec pseudocode definition:
//  def compute_proposer_index(state: BeaconState, indices: Sequence[ValidatorIndex], seed: Bytes32) -> ValidatorIndex:
//    """
//    Return from ``indices`` a random index sampled by effective balance.
//    """
//    assert len(indices) > 0
//    MAX_RANDOM_BYTE = 2**8 - 1
//    i = uint64(0)
//    total = uint64(len(indices))
//    while True:
//        candidate_index = indices[compute_shuffled_index(i % total, total, seed)]
//        random_byte = hash(seed + uint_to_bytes(uint64(i // 32)))[i % 32]
//        effective_balance = state.validators[candidate_index].effective_balance
//        if effective_balance * MAX_RANDOM_BYTE >= MAX_EFFECTIVE_BALANCE * random_byte:
//            return candidate_index
//        i += 1
func ComputeProposerIndex(bState state.ReadOnlyBeaconState, activeIndices []types.ValidatorIndex, seed [32]byte) (types.ValidatorIndex, error) {
	length := uint64(len(activeIndices))
	if length == 0 {
		return 0, errors.New("empty active indices list")
	}
	maxRandomByte := uint64(1<<8 - 1)
	hashFunc := hash.CustomSHA256Hasher()

	for i := uint64(0); ; i++ {
		candidateIndex, err := ComputeShuffledIndex(types.ValidatorIndex(i%length), length, seed, true /* shuffle */)
		if err != nil {
			return 0, err
		}
		candidateIndex = activeIndices[candidateIndex]
		if uint64(candidateIndex) >= uint64(bState.NumValidators()) {
			return 0, errors.New("active index out of range")
		}
		b := append(seed[:], bytesutil.Bytes8(i/32)...)
		randomByte := hashFunc(b)[i%32]
		v, err := bState.ValidatorAtIndexReadOnly(candidateIndex)
		if err != nil {
			return 0, err
		}
		effectiveBal := v.EffectiveBalance()

		if effectiveBal*maxRandomByte >= params.BeaconConfig().MaxEffectiveBalance*uint64(randomByte) {
			return candidateIndex, nil
		}
	}
}

func precomputeProposerIndices(st state.ReadOnlyBeaconState, activeIndices []types.ValidatorIndex) ([]types.ValidatorIndex, error) {
	hashFunc := hash.CustomSHA256Hasher()
	proposerIndices := make([]types.ValidatorIndex, params.BeaconConfig().SlotsPerEpoch)

	e := slots.ToEpoch(st.Slot())
	seed, err := Seed(st, e, params.BeaconConfig().DomainBeaconProposer)
	if err != nil {
		return nil, errors.Wrap(err, "could not generate seed")
	}
	slot, err := slots.EpochStart(e)
	if err != nil {
		return nil, err
	}
	for i := uint64(0); i < uint64(params.BeaconConfig().SlotsPerEpoch); i++ {
		seedWithSlot := append(seed[:], bytesutil.Bytes8(uint64(slot)+i)...)
		seedWithSlotHash := hashFunc(seedWithSlot)
		index, err := ComputeProposerIndex(st, activeIndices, seedWithSlotHash)
		if err != nil {
			return nil, err
		}
		proposerIndices[i] = index
	}

	return proposerIndices, nil
}

// proposerIndicesCacheKey returns the block root that keys the proposer
// assignments of the state's current epoch. At the genesis epoch, where no
// prior block root exists, the genesis validators root keys the entry.
func proposerIndicesCacheKey(st state.ReadOnlyBeaconState) ([32]byte, error) {
	s, err := slots.EpochStart(slots.ToEpoch(st.Slot()))
	if err != nil {
		return [32]byte{}, err
	}
	if s == 0 {
		return bytesutil.ToBytes32(st.GenesisValidatorsRoot()), nil
	}
	r, err := BlockRootAtSlot(st, s.Sub(1))
	if err != nil {
		return [32]byte{}, err
	}
	return bytesutil.ToBytes32(r), nil
}
