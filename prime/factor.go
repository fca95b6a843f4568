package prime

import (
	"sort"

	"github.com/Lafeng/dhlab/arith"
	"github.com/Lafeng/dhlab/exception"
)

var NotFactorable = exception.InvalidInput.Derive("Cannot factor")

// PrimeFactors returns the distinct prime factors of n in ascending order.
// Small factors come from trial division, the rest from Pollard's rho.
func PrimeFactors(n int64, oracle *Oracle, rng Source) ([]int64, error) {
	if n < 1 {
		return nil, NotFactorable.Apply(n)
	}
	if rng == nil {
		rng = TimeSource()
	}
	if oracle == nil {
		oracle = NewOracle(40, rng)
	}

	seen := make(map[int64]bool)
	for _, p := range smallPrimes {
		if n%p == 0 {
			seen[p] = true
			for n%p == 0 {
				n /= p
			}
		}
	}

	stack := []int64{n}
	for len(stack) > 0 {
		m := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if m == 1 || seen[m] {
			continue
		}
		ok, err := oracle.IsProbablePrime(m)
		if err != nil {
			return nil, err
		}
		if ok {
			seen[m] = true
			continue
		}
		d, err := rho(m, rng)
		if err != nil {
			return nil, err
		}
		stack = append(stack, d, m/d)
	}

	factors := make([]int64, 0, len(seen))
	for p := range seen {
		factors = append(factors, p)
	}
	sort.Slice(factors, func(i, j int) bool { return factors[i] < factors[j] })
	return factors, nil
}

// rho finds a non-trivial divisor of the odd composite n (Floyd cycle finding).
func rho(n int64, rng Source) (int64, error) {
	for {
		x := 2 + rng.Int63n(n-2)
		c := 1 + rng.Int63n(n-1)
		y, d := x, int64(1)
		step := func(v int64) (int64, error) {
			v, err := arith.MulMod(v, v, n)
			if err != nil {
				return 0, err
			}
			// both below n, so the sum fits in uint64 and one subtraction reduces it
			s := uint64(v) + uint64(c)
			if s >= uint64(n) {
				s -= uint64(n)
			}
			return int64(s), nil
		}
		var err error
		for d == 1 {
			if x, err = step(x); err != nil {
				return 0, err
			}
			if y, err = step(y); err != nil {
				return 0, err
			}
			if y, err = step(y); err != nil {
				return 0, err
			}
			diff := x - y
			if diff < 0 {
				diff = -diff
			}
			d = arith.GCD(diff, n)
		}
		if d != n {
			return d, nil
		}
	}
}
