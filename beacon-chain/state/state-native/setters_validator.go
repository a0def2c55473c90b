package state_native

import (
	fieldparams "github.com/gridbox-network/grysm/config/fieldparams"
	"github.com/gridbox-network/grysm/consensus-types/gbtypes"
	types "github.com/gridbox-network/grysm/consensus-types/primitives"
	"github.com/gridbox-network/grysm/encoding/bytesutil"
	"github.com/pkg/errors"
)

// SetValidators for the beacon state. Updates the entire
// to a new value by overwriting the previous one.
func (b *BeaconState) SetValidators(val []*gbtypes.Validator) error {
	b.lock.Lock()
	defer b.lock.Unlock()

	vals := make([]*gbtypes.Validator, len(val))
	valMap := make(map[[fieldparams.BLSPubkeyLength]byte]types.ValidatorIndex, len(val))
	for i, v := range val {
		if v == nil {
			return errors.Errorf("nil validator at index %d", i)
		}
		vals[i] = v.Copy()
		valMap[bytesutil.ToBytes48(v.PublicKey)] = types.ValidatorIndex(i)
	}
	b.validators = vals
	b.valMap = valMap
	return nil
}

// ApplyToEveryValidator applies the provided callback function to each validator in the
// validator registry.
func (b *BeaconState) ApplyToEveryValidator(f func(idx int, val *gbtypes.Validator) (bool, *gbtypes.Validator, error)) error {
	b.lock.Lock()
	defer b.lock.Unlock()

	for i, v := range b.validators {
		changed, newVal, err := f(i, v.Copy())
		if err != nil {
			return err
		}
		if changed {
			if newVal == nil {
				return errors.Errorf("callback returned nil validator at index %d", i)
			}
			b.validators[i] = newVal
			b.valMap[bytesutil.ToBytes48(newVal.PublicKey)] = types.ValidatorIndex(i)
		}
	}
	return nil
}

// UpdateValidatorAtIndex for the beacon state. Updates the validator
// at a specific index to a new value.
func (b *BeaconState) UpdateValidatorAtIndex(idx types.ValidatorIndex, val *gbtypes.Validator) error {
	if val == nil {
		return errors.New("nil validator")
	}

	b.lock.Lock()
	defer b.lock.Unlock()

	if uint64(idx) >= uint64(len(b.validators)) {
		e := NewValidatorIndexOutOfRangeError(idx)
		return &e
	}
	b.validators[idx] = val.Copy()
	b.valMap[bytesutil.ToBytes48(val.PublicKey)] = idx
	return nil
}

// SetValidatorIndexByPubkey updates the validator index mapping maintained internally to
// a given input 48-byte, public key.
func (b *BeaconState) SetValidatorIndexByPubkey(pubKey [fieldparams.BLSPubkeyLength]byte, validatorIndex types.ValidatorIndex) {
	b.lock.Lock()
	defer b.lock.Unlock()

	b.valMap[pubKey] = validatorIndex
}

// SetBalances for the beacon state. Updates the entire
// list to a new value by overwriting the previous one.
func (b *BeaconState) SetBalances(val []uint64) error {
	b.lock.Lock()
	defer b.lock.Unlock()

	b.balances = safeCopyUint64(val)
	return nil
}

// UpdateBalancesAtIndex for the beacon state. This method updates the balance
// at a specific index to a new value.
func (b *BeaconState) UpdateBalancesAtIndex(idx types.ValidatorIndex, val uint64) error {
	b.lock.Lock()
	defer b.lock.Unlock()

	if uint64(idx) >= uint64(len(b.balances)) {
		e := NewValidatorIndexOutOfRangeError(idx)
		return &e
	}
	b.balances[idx] = val
	return nil
}

// SetSlashings for the beacon state. Updates the entire
// list to a new value by overwriting the previous one.
func (b *BeaconState) SetSlashings(val []uint64) error {
	b.lock.Lock()
	defer b.lock.Unlock()

	b.slashings = safeCopyUint64(val)
	return nil
}

// UpdateSlashingsAtIndex for the beacon state. Updates the slashings
// at a specific index to a new value.
func (b *BeaconState) UpdateSlashingsAtIndex(idx, val uint64) error {
	b.lock.Lock()
	defer b.lock.Unlock()

	if idx >= uint64(len(b.slashings)) {
		return errors.Errorf("slashing index %d out of bounds %d", idx, len(b.slashings))
	}
	b.slashings[idx] = val
	return nil
}

// AppendValidator for the beacon state. Appends the new value
// to the end of list.
func (b *BeaconState) AppendValidator(val *gbtypes.Validator) error {
	if val == nil {
		return errors.New("nil validator")
	}

	b.lock.Lock()
	defer b.lock.Unlock()

	b.validators = append(b.validators, val.Copy())
	b.valMap[bytesutil.ToBytes48(val.PublicKey)] = types.ValidatorIndex(len(b.validators) - 1)
	return nil
}

// AppendBalance for the beacon state. Appends the new value
// to the end of list.
func (b *BeaconState) AppendBalance(bal uint64) error {
	b.lock.Lock()
	defer b.lock.Unlock()

	b.balances = append(b.balances, bal)
	return nil
}
