// Package arith is the modular arithmetic kernel: reduction, multiplication,
// exponentiation and inversion on int64 residues. Products are formed in 128
// bits, so any modulus below 2^63 is safe.
package arith

import (
	"fmt"
	"math/bits"

	"github.com/Lafeng/dhlab/exception"
)

var (
	ModulusNotPositive = exception.ArithmeticInconsistency.Derive("Modulus must be positive, got")
	ReduceDiverged     = exception.ArithmeticInconsistency.Derive("Reduction did not converge for")
	NotInvertible      = exception.ArithmeticInconsistency.Derive("No modular inverse for")
	NegativeExponent   = exception.InvalidInput.Derive("Negative exponent")
)

// Subtractions allowed per decimal position before Reduce gives up. The top
// position needs at most 9 and every lower one at most 9 as well, so the
// bound only trips when value or shift was corrupted. Lowered in tests.
var reduceSafetyBound = 10

// Reduce returns the residue of value in [0, modulus).
//
// Negative values are lifted by a multiple of modulus first. The residue is
// then found digit by digit: modulus*10^k is subtracted from the top position
// down, and every position must settle within reduceSafetyBound steps. A
// position that does not settle means the int64 domain was corrupted.
func Reduce(value, modulus int64) (int64, error) {
	if modulus <= 0 {
		return 0, ModulusNotPositive.Apply(modulus)
	}
	if value < 0 {
		value = lift(value, modulus)
	}
	if value < modulus {
		return value, nil
	}

	origin := value
	shift := modulus
	for shift <= value/10 {
		shift *= 10
	}
	for {
		n := 0
		for value >= shift {
			if n == reduceSafetyBound {
				return 0, ReduceDiverged.Apply(fmt.Sprintf("%d mod %d", origin, modulus))
			}
			value -= shift
			n++
		}
		if shift == modulus {
			break
		}
		shift /= 10
	}
	return value, nil
}

// lift adds the smallest multiple of modulus that makes value non-negative.
// The multiple is applied in two steps so that value == MinInt64 does not overflow.
func lift(value, modulus int64) int64 {
	k := (-(value + 1)) / modulus
	value += k * modulus
	return value + modulus
}

// MulMod returns a*b mod modulus.
func MulMod(a, b, modulus int64) (int64, error) {
	a, err := Reduce(a, modulus)
	if err != nil {
		return 0, err
	}
	b, err = Reduce(b, modulus)
	if err != nil {
		return 0, err
	}
	hi, lo := bits.Mul64(uint64(a), uint64(b))
	return int64(bits.Rem64(hi, lo, uint64(modulus))), nil
}

// PowerMod computes base^exponent mod modulus by binary exponentiation.
func PowerMod(base, exponent, modulus int64) (int64, error) {
	if exponent < 0 {
		return 0, NegativeExponent.Apply(exponent)
	}
	base, err := Reduce(base, modulus)
	if err != nil {
		return 0, err
	}
	result, err := Reduce(1, modulus)
	if err != nil {
		return 0, err
	}
	for exponent > 0 {
		if exponent&1 == 0 {
			// square the base and halve the exponent
			exponent >>= 1
			base, err = MulMod(base, base, modulus)
		} else {
			result, err = MulMod(result, base, modulus)
			exponent--
		}
		if err != nil {
			return 0, err
		}
	}
	return result, nil
}

// GCD of a and b (Euclid).
func GCD(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	if a < 0 {
		return -a
	}
	return a
}

// ExtendedGCD returns g = gcd(a, b) and the Bezout coefficients x, y
// such that a*x + b*y == g.
func ExtendedGCD(a, b int64) (g, x, y int64) {
	if b == 0 {
		return a, 1, 0
	}
	g, x1, y1 := ExtendedGCD(b, a%b)
	return g, y1, x1 - (a/b)*y1
}

// ModularInverse returns x in [0, modulus) with value*x ≡ 1 (mod modulus).
func ModularInverse(value, modulus int64) (int64, error) {
	v, err := Reduce(value, modulus)
	if err != nil {
		return 0, err
	}
	g, x, _ := ExtendedGCD(v, modulus)
	if g != 1 {
		return 0, NotInvertible.Apply(fmt.Sprintf("%d mod %d (gcd %d)", value, modulus, g))
	}
	return Reduce(x, modulus)
}
