// Package prime holds the primality oracle and the generator of
// Diffie-Hellman domain parameters (a probable prime and a primitive root).
package prime

import (
	"math/rand"
	"strconv"
	"time"

	"github.com/Lafeng/dhlab/arith"
	log "github.com/Lafeng/dhlab/glog"
	"github.com/cloudflare/golibs/lrucache"
)

const (
	DefaultIterations = 1500
	sieveLimit        = 100
	verdictTTL        = 24 * time.Hour
)

// Source is the randomness the oracle and the generator draw from.
// *math/rand.Rand satisfies it.
type Source interface {
	Int63n(n int64) int64
}

func NewSource(seed int64) Source {
	return rand.New(rand.NewSource(seed))
}

func TimeSource() Source {
	return NewSource(time.Now().UnixNano())
}

// primes below sieveLimit
var smallPrimes = eratosthenes(sieveLimit)

func eratosthenes(limit int) []int64 {
	composite := make([]bool, limit)
	var primes []int64
	for i := 2; i < limit; i++ {
		if composite[i] {
			continue
		}
		primes = append(primes, int64(i))
		for j := i * i; j < limit; j += i {
			composite[j] = true
		}
	}
	return primes
}

// SieveTest rejects p when an integer in [2, 100) other than p divides it.
func SieveTest(p int64) bool {
	if p < 2 {
		return false
	}
	for _, d := range smallPrimes {
		if d >= p {
			break
		}
		if p%d == 0 {
			return false
		}
	}
	return true
}

// Oracle is a Miller-Rabin probable-prime test behind the small-prime sieve.
type Oracle struct {
	Iterations int
	rng        Source
	cache      *lrucache.LRUCache
	// one witness round, replaceable in tests
	round func(p, a int64) (bool, error)
}

func NewOracle(iterations int, rng Source) *Oracle {
	if iterations < 1 {
		iterations = DefaultIterations
	}
	if rng == nil {
		rng = TimeSource()
	}
	return &Oracle{
		Iterations: iterations,
		rng:        rng,
		round:      millerRabinRound,
	}
}

// WithCache keeps up to capacity verdicts so repeated queries skip the witness rounds.
func (o *Oracle) WithCache(capacity uint) *Oracle {
	if capacity > 0 {
		o.cache = lrucache.NewLRUCache(capacity)
	}
	return o
}

// IsProbablePrime reports whether p passed the sieve and every one of the
// o.Iterations witness rounds. A single failing round makes p composite.
func (o *Oracle) IsProbablePrime(p int64) (bool, error) {
	if p < 4 {
		return p >= 2, nil
	}
	if !SieveTest(p) {
		return false, nil
	}

	var key string
	if o.cache != nil {
		key = strconv.FormatInt(p, 10)
		if v, ok := o.cache.Get(key); ok {
			if log.V(log.LV_CACHE) {
				log.Infof("verdict cache hit p=%d prime=%v", p, v)
			}
			return v.(bool), nil
		}
	}

	verdict := true
	for i := 0; i < o.Iterations; i++ {
		// base in [1, p-1)
		a := 1 + o.rng.Int63n(p-2)
		ok, err := o.round(p, a)
		if err != nil {
			return false, err
		}
		if !ok {
			if log.V(log.LV_WITNESS) {
				log.Infof("p=%d rejected by witness a=%d in round %d", p, a, i)
			}
			verdict = false
			break
		}
	}

	if o.cache != nil {
		o.cache.Set(key, verdict, time.Now().Add(verdictTTL))
	}
	return verdict, nil
}

// millerRabinRound runs one witness round for odd p > 3 with base a.
func millerRabinRound(p, a int64) (bool, error) {
	pMinusOne := p - 1
	// p-1 = d * 2^r, d odd
	d, r := pMinusOne, 0
	for d&1 == 0 {
		d >>= 1
		r++
	}

	x, err := arith.PowerMod(a, d, p)
	if err != nil {
		return false, err
	}
	if x == 1 || x == pMinusOne {
		return true, nil
	}
	for i := 0; i < r-1; i++ {
		x, err = arith.MulMod(x, x, p)
		if err != nil {
			return false, err
		}
		if x == pMinusOne {
			return true, nil
		}
		if x == 1 {
			return false, nil
		}
	}
	return false, nil
}
