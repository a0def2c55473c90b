package gbtypes

import (
	types "github.com/gridbox-network/grysm/consensus-types/primitives"
	"github.com/gridbox-network/grysm/encoding/bytesutil"
)

// Validator is a registry entry. Its position in the registry slice is the
// validator's index; the balances slice is aligned with it.
type Validator struct {
	PublicKey                  []byte `ssz-size:"48"`
	WithdrawalCredentials      []byte `ssz-size:"32"`
	EffectiveBalance           uint64
	Slashed                    bool
	ActivationEligibilityEpoch types.Epoch
	ActivationEpoch            types.Epoch
	ExitEpoch                  types.Epoch
	WithdrawableEpoch          types.Epoch
}

// Copy returns a deep copy of the validator.
func (v *Validator) Copy() *Validator {
	if v == nil {
		return nil
	}
	return &Validator{
		PublicKey:                  bytesutil.SafeCopyBytes(v.PublicKey),
		WithdrawalCredentials:      bytesutil.SafeCopyBytes(v.WithdrawalCredentials),
		EffectiveBalance:           v.EffectiveBalance,
		Slashed:                    v.Slashed,
		ActivationEligibilityEpoch: v.ActivationEligibilityEpoch,
		ActivationEpoch:            v.ActivationEpoch,
		ExitEpoch:                  v.ExitEpoch,
		WithdrawableEpoch:          v.WithdrawableEpoch,
	}
}
