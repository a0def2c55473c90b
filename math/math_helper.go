// Package math includes important helpers for Gridbox such as fast integer square roots.
package math

import (
	"math"
	"math/bits"

	"github.com/pkg/errors"
)

var (
	// ErrOverflow occurs when an operation exceeds max or minimum values.
	ErrOverflow = errors.New("integer overflow")
	// ErrDivByZero occurs when an integer is divided by zero.
	ErrDivByZero = errors.New("integer divide by zero")
)

// Common square root values.
var squareRootTable = map[uint64]uint64{
	4:       2,
	16:      4,
	64:      8,
	256:     16,
	1024:    32,
	4096:    64,
	16384:   128,
	65536:   256,
	262144:  512,
	1048576: 1024,
	4194304: 2048,
}

// IntegerSquareRoot defines a function that returns the
// largest possible integer root of a number using a divide and conquer
// binary search approach.
func IntegerSquareRoot(n uint64) uint64 {
	if v, ok := squareRootTable[n]; ok {
		return v
	}

	if n >= 1<<52 {
		return isqrtBinary(n)
	}
	return uint64(math.Sqrt(float64(n)))
}

// isqrtBinary computes the integer square root for values where the float64
// mantissa can no longer represent the operand exactly.
func isqrtBinary(n uint64) uint64 {
	var lo, hi uint64
	hi = uint64(1) << 32
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if mid*mid <= n {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo
}

// CeilDiv8 divides the input number by 8
// and takes the ceiling of that number.
func CeilDiv8(n int) int {
	ret := n / 8
	if n%8 > 0 {
		ret++
	}
	return ret
}

// IsPowerOf2 returns true if n is an
// exact power of two. False otherwise.
func IsPowerOf2(n uint64) bool {
	return n != 0 && (n&(n-1)) == 0
}

// PowerOf2 returns an integer that is the provided
// exponent of 2. Can only return powers of 2 till 63,
// after that it overflows.
func PowerOf2(n uint64) uint64 {
	if n >= 64 {
		panic("integer overflow")
	}
	return 1 << n
}

// Max returns the larger integer of the two
// given ones.This is used over the Max function
// in the standard math library because that max function
// has to check for some special floating point cases
// making it slower by a magnitude of 10.
func Max(a, b uint64) uint64 {
	if a > b {
		return a
	}
	return b
}

// Min returns the smaller integer of the two
// given ones. This is used over the Min function
// in the standard math library because that min function
// has to check for some special floating point cases
// making it slower by a magnitude of 10.
func Min(a, b uint64) uint64 {
	if a < b {
		return a
	}
	return b
}

// Mul64 multiplies 2 64-bit unsigned integers and checks if they
// lead to an overflow. If they do not, it returns the result
// without an error.
func Mul64(a, b uint64) (uint64, error) {
	overflows, val := bits.Mul64(a, b)
	if overflows > 0 {
		return 0, ErrOverflow
	}
	return val, nil
}

// Add64 adds 2 64-bit unsigned integers and checks if they
// lead to an overflow. If they do not, it returns the result
// without an error.
func Add64(a, b uint64) (uint64, error) {
	res, carry := bits.Add64(a, b, 0 /* carry */)
	if carry > 0 {
		return 0, ErrOverflow
	}
	return res, nil
}

// Sub64 subtracts b from a with an underflow check. An error is
// returned when b exceeds a.
func Sub64(a, b uint64) (uint64, error) {
	if b > a {
		return 0, ErrOverflow
	}
	return a - b, nil
}

// Div64 divides a by b and checks for the divisor being zero.
func Div64(a, b uint64) (uint64, error) {
	if b == 0 {
		return 0, ErrDivByZero
	}
	return a / b, nil
}

// Mod64 finds remainder of a divided by b and checks for the
// divisor being zero.
func Mod64(a, b uint64) (uint64, error) {
	if b == 0 {
		return 0, ErrDivByZero
	}
	return a % b, nil
}

// AddSaturating returns a + b, clamping the result at the maximum value a
// uint64 can hold instead of wrapping around.
func AddSaturating(a, b uint64) uint64 {
	res, carry := bits.Add64(a, b, 0 /* carry */)
	if carry > 0 {
		return math.MaxUint64
	}
	return res
}

// SubSaturating returns a - b, clamping the result at zero instead of
// wrapping around when b exceeds a.
func SubSaturating(a, b uint64) uint64 {
	if b > a {
		return 0
	}
	return a - b
}

// Int returns the integer value of the uint64 argument. If there is an
// overflow, an error is returned.
func Int(u uint64) (int, error) {
	if u > math.MaxInt {
		return 0, ErrOverflow
	}
	return int(u), nil
}
