package prime

import (
	"fmt"

	"github.com/Lafeng/dhlab/arith"
	"github.com/Lafeng/dhlab/exception"
	log "github.com/Lafeng/dhlab/glog"
)

const (
	MinDigits = 2
	// 10^18 < 2^63 keeps every residue inside int64
	MaxDigits = 18

	DefaultSearchLimit = 1000000
)

var (
	DigitsOutOfRange = exception.ConfigError.Derive("Digit count out of range:")
	NoPrimeFound     = exception.SearchExhausted.Derive("No probable prime found after")
	NoRootFound      = exception.SearchExhausted.Derive("No primitive root found after")
	NoRootDomain     = exception.InvalidInput.Derive("No primitive root search for")
)

// DomainParameters are the public values both parties share.
type DomainParameters struct {
	Prime     int64
	Generator int64
}

func (dp DomainParameters) String() string {
	return fmt.Sprintf("p=%d g=%d", dp.Prime, dp.Generator)
}

func ValidateDigits(digitCount int) error {
	if digitCount < MinDigits || digitCount > MaxDigits {
		return DigitsOutOfRange.Apply(fmt.Sprintf("%d not in [%d, %d]", digitCount, MinDigits, MaxDigits))
	}
	return nil
}

// Generator searches for domain parameters. Both searches give up after
// SearchLimit candidates.
type Generator struct {
	Oracle      *Oracle
	SearchLimit int
	// Strict additionally requires the full order check of IsPrimitiveRoot
	// on top of the g^((p-1)/2) == p-1 criterion.
	Strict bool
	rng    Source
}

func NewGenerator(oracle *Oracle, rng Source) *Generator {
	if rng == nil {
		rng = TimeSource()
	}
	if oracle == nil {
		oracle = NewOracle(DefaultIterations, rng)
	}
	return &Generator{
		Oracle:      oracle,
		SearchLimit: DefaultSearchLimit,
		rng:         rng,
	}
}

func (g *Generator) limit() int {
	if g.SearchLimit < 1 {
		return DefaultSearchLimit
	}
	return g.SearchLimit
}

// FindProbablePrime samples [2*10^(d-1), 10^d) until the oracle accepts.
func (g *Generator) FindProbablePrime(digitCount int) (int64, error) {
	if err := ValidateDigits(digitCount); err != nil {
		return 0, err
	}
	lower := int64(1)
	for i := 1; i < digitCount; i++ {
		lower *= 10
	}
	upper := lower * 10
	lower *= 2
	span := upper - lower

	for attempt := 1; attempt <= g.limit(); attempt++ {
		candidate := lower + g.rng.Int63n(span)
		ok, err := g.Oracle.IsProbablePrime(candidate)
		if err != nil {
			return 0, err
		}
		if ok {
			if log.V(log.LV_PRIME_SEARCH) {
				log.Infof("probable prime %d found after %d candidates", candidate, attempt)
			}
			return candidate, nil
		}
	}
	return 0, NoPrimeFound.Apply(fmt.Sprintf("%d candidates of %d digits", g.limit(), digitCount))
}

// FindPrimitiveRoot samples [2, p-1) and accepts a candidate c when
// c^((p-1)/2) mod p == p-1. With Strict set the full order check must pass too.
func (g *Generator) FindPrimitiveRoot(p int64) (int64, error) {
	switch {
	case p == 2:
		return 1, nil
	case p == 3:
		return 2, nil
	case p < 5:
		return 0, NoRootDomain.Apply(p)
	}

	half := (p - 1) / 2
	for attempt := 1; attempt <= g.limit(); attempt++ {
		candidate := 2 + g.rng.Int63n(p-3)
		criteria, err := arith.PowerMod(candidate, half, p)
		if err != nil {
			return 0, err
		}
		if criteria != p-1 {
			continue
		}
		if g.Strict {
			ok, err := g.IsPrimitiveRoot(candidate, p)
			if err != nil {
				return 0, err
			}
			if !ok {
				if log.V(log.LV_ROOT_SEARCH) {
					log.Infof("candidate %d passes the half-order check but not the full order check mod %d", candidate, p)
				}
				continue
			}
		}
		if log.V(log.LV_ROOT_SEARCH) {
			log.Infof("primitive root %d mod %d found after %d candidates", candidate, p, attempt)
		}
		return candidate, nil
	}
	return 0, NoRootFound.Apply(fmt.Sprintf("%d candidates mod %d", g.limit(), p))
}

// IsPrimitiveRoot verifies that root has multiplicative order p-1 modulo the
// prime p: root^((p-1)/q) != 1 for every prime factor q of p-1.
func (g *Generator) IsPrimitiveRoot(root, p int64) (bool, error) {
	if p < 2 {
		return false, nil
	}
	r, err := arith.Reduce(root, p)
	if err != nil {
		return false, err
	}
	if r == 0 {
		return false, nil
	}
	order := p - 1
	factors, err := PrimeFactors(order, g.Oracle, g.rng)
	if err != nil {
		return false, err
	}
	for _, q := range factors {
		x, err := arith.PowerMod(r, order/q, p)
		if err != nil {
			return false, err
		}
		if x == 1 {
			return false, nil
		}
	}
	return true, nil
}

// Generate finds a probable prime of digitCount digits and a primitive root of it.
func (g *Generator) Generate(digitCount int) (DomainParameters, error) {
	p, err := g.FindProbablePrime(digitCount)
	if err != nil {
		return DomainParameters{}, err
	}
	root, err := g.FindPrimitiveRoot(p)
	if err != nil {
		return DomainParameters{}, err
	}
	dp := DomainParameters{Prime: p, Generator: root}
	if log.V(log.LV_PARAMS) {
		log.Infoln("domain parameters", dp)
	}
	return dp, nil
}
