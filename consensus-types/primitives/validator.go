package types

import (
	"encoding/binary"
	"fmt"

	fssz "github.com/ferranbt/fastssz"
	"github.com/gridbox-network/grysm/math"
)

var _ fssz.HashRoot = (ValidatorIndex)(0)
var _ fssz.Marshaler = (*ValidatorIndex)(nil)
var _ fssz.Unmarshaler = (*ValidatorIndex)(nil)

// ValidatorIndex in the beacon chain.
type ValidatorIndex uint64

// Div divides validator index by x.
// In case of arithmetic issues (division by zero) panic is thrown.
func (v ValidatorIndex) Div(x uint64) ValidatorIndex {
	res, err := math.Div64(uint64(v), x)
	if err != nil {
		panic(err.Error())
	}
	return ValidatorIndex(res)
}

// Add increases validator index by x.
// In case of arithmetic issues (overflow) panic is thrown.
func (v ValidatorIndex) Add(x uint64) ValidatorIndex {
	res, err := math.Add64(uint64(v), x)
	if err != nil {
		panic(err.Error())
	}
	return ValidatorIndex(res)
}

// Sub subtracts x from the validator index.
// In case of arithmetic issues (underflow) panic is thrown.
func (v ValidatorIndex) Sub(x uint64) ValidatorIndex {
	res, err := math.Sub64(uint64(v), x)
	if err != nil {
		panic(err.Error())
	}
	return ValidatorIndex(res)
}

// Mod returns result of `validator index % x`.
// In case of arithmetic issues (division by zero) panic is thrown.
func (v ValidatorIndex) Mod(x uint64) ValidatorIndex {
	res, err := math.Mod64(uint64(v), x)
	if err != nil {
		panic(err.Error())
	}
	return ValidatorIndex(res)
}

// HashTreeRoot returns calculated hash root.
func (v ValidatorIndex) HashTreeRoot() ([32]byte, error) {
	return fssz.HashWithDefaultHasher(v)
}

// HashTreeRootWith hashes a ValidatorIndex object with a Hasher from the default HasherPool.
func (v ValidatorIndex) HashTreeRootWith(hh *fssz.Hasher) error {
	hh.PutUint64(uint64(v))
	return nil
}

// UnmarshalSSZ deserializes the provided bytes buffer into the validator index object.
func (v *ValidatorIndex) UnmarshalSSZ(buf []byte) error {
	if len(buf) != v.SizeSSZ() {
		return fmt.Errorf("expected buffer of length %d received %d", v.SizeSSZ(), len(buf))
	}
	*v = ValidatorIndex(binary.LittleEndian.Uint64(buf))
	return nil
}

// MarshalSSZTo marshals validator index with the provided byte slice.
func (v *ValidatorIndex) MarshalSSZTo(dst []byte) ([]byte, error) {
	marshalled, err := v.MarshalSSZ()
	if err != nil {
		return nil, err
	}
	return append(dst, marshalled...), nil
}

// MarshalSSZ marshals validator index into a serialized object.
func (v *ValidatorIndex) MarshalSSZ() ([]byte, error) {
	marshalled := fssz.MarshalUint64([]byte{}, uint64(*v))
	return marshalled, nil
}

// SizeSSZ returns the size of the serialized object.
func (_ *ValidatorIndex) SizeSSZ() int {
	return 8
}
