// Package safeprime computes safe primes, i.e. primes of the form 2q+1 where q is also prime.
package safeprime

import (
	"io"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/go-errors/errors"
	"github.com/sirupsen/logrus"

	"github.com/privacybydesign/bbs/big"
	"github.com/privacybydesign/bbs/internal/common"
)

// Logger is assigned by the root package; may be left nil.
var Logger *logrus.Logger

var (
	one   = big.NewInt(1)
	two   = big.NewInt(2)
	three = big.NewInt(3)
)

// Generate returns a safe prime r = 2q+1 with q a Sophie Germain prime
// congruent to 3 mod 4, so that r can serve as a Blum prime factor.
//
// q is drawn uniformly from [0, 2^(bits-2)) with its two low bits forced
// to 1; r therefore has at most bits-1 bits. A candidate is accepted when
//
//  1. the small-prime sieve finds no factor of r,
//  2. 2^(r-1) = 1 (mod r), and
//  3. q passes 64 rounds of Miller-Rabin.
//
// Given (3), check (2) proves r prime by Pocklington's criterion, which
// spares a second Miller-Rabin pass over r itself. (See
// https://www.ijipbangalore.org/abstracts_2(1)/p5.pdf and
// https://groups.google.com/group/sci.crypt/msg/34c4abf63568a8eb)
//
// If rand is nil the process-global entropy source is used.
func Generate(bits uint, rand io.Reader) (*big.Int, error) {
	if bits < 16 {
		return nil, errors.Errorf("safeprime: bit length %d too small", bits)
	}
	if rand == nil {
		rand = common.DefaultSource
	}
	sieve := common.NewSieve(bits, sieveSize(bits))
	return search(bits, rand, sieve, nil, nil)
}

// GeneratePair returns two distinct safe primes suitable as Blum-Blum-Shub
// factors, each produced by Generate's acceptance pipeline. The search for
// the second prime starts only after the first has been found, which makes
// the distinctness constraint a plain comparison. With workers > 1 each
// search fans out over that many goroutines; workers <= 0 uses all cores.
//
// When workers > 1, rand must be safe for concurrent reads (the default
// source is).
func GeneratePair(bits uint, workers int, rand io.Reader) (*big.Int, *big.Int, error) {
	if bits < 16 {
		return nil, nil, errors.Errorf("safeprime: bit length %d too small", bits)
	}
	if rand == nil {
		rand = common.DefaultSource
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	sieve := common.NewSieve(bits, sieveSize(bits))

	p, err := generateParallel(bits, workers, rand, sieve, nil)
	if err != nil {
		return nil, nil, err
	}
	if Logger != nil {
		Logger.Debugf("safeprime: found p (%d bits)", p.BitLen())
	}

	q, err := generateParallel(bits, workers, rand, sieve, p)
	if err != nil {
		return nil, nil, err
	}
	if Logger != nil {
		Logger.Debugf("safeprime: found q (%d bits)", q.BitLen())
	}
	return p, q, nil
}

// ProbablySafePrime reports whether x is probably a safe prime, by calling
// big.Int.ProbablyPrime(n) on x as well as on (x-1)/2.
//
// If x is safe prime, ProbablySafePrime returns true.
// If x is chosen randomly and not safe prime, ProbablySafePrime probably returns false.
func ProbablySafePrime(x *big.Int, n int) bool {
	if x.Cmp(two) <= 0 {
		return false
	}
	if !x.ProbablyPrime(n) {
		return false
	}
	y := new(big.Int).Rsh(x, 1)
	return y.ProbablyPrime(n)
}

// generateParallel races workers independent searches for one safe prime.
// Publication discipline: a shared atomic found flag that every worker
// polls each iteration, and a critical section in which the winner checks
// the flag once more before writing the result, so that exactly one
// worker publishes even when several finish near-simultaneously.
func generateParallel(bits uint, workers int, rand io.Reader, sieve *common.Sieve, exclude *big.Int) (*big.Int, error) {
	if workers == 1 {
		return search(bits, rand, sieve, exclude, nil)
	}

	var (
		found  atomic.Bool
		mu     sync.Mutex
		result *big.Int
		rerr   error
		wg     sync.WaitGroup
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r, err := search(bits, rand, sieve, exclude, &found)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if rerr == nil {
					rerr = err
				}
				found.Store(true)
				return
			}
			if r == nil || found.Load() {
				return
			}
			result = r
			found.Store(true)
		}()
	}
	wg.Wait()

	if rerr != nil {
		return nil, rerr
	}
	if result == nil {
		return nil, errors.New("safeprime: search finished without a result")
	}
	return result, nil
}

// search runs the candidate loop until it finds a safe prime, the entropy
// source fails, or the found flag is raised by another worker (in which
// case it returns nil, nil).
func search(bits uint, rand io.Reader, sieve *common.Sieve, exclude *big.Int, found *atomic.Bool) (*big.Int, error) {
	var (
		max  = new(big.Int).Lsh(one, bits-2)
		cand = new(big.Int)
		r    = new(big.Int)
		f    = new(big.Int)
		e    = new(big.Int)
		red  common.Reducer
	)

	for {
		if found != nil && found.Load() {
			return nil, nil
		}

		c, err := common.RandomInRange(rand, max)
		if err != nil {
			return nil, err
		}
		cand.Or(c, three) // cand = 3 (mod 4), so r = 2*cand+1 = 3 (mod 4)
		if cand.BitLen() < 3 {
			continue // too small for the Miller-Rabin contract below
		}
		r.Lsh(cand, 1)
		r.Add(r, one)

		if exclude != nil && r.Cmp(exclude) == 0 {
			continue
		}
		if !sieve.PossiblyPrime(r) {
			continue
		}

		// Fermat: 2^(r-1) = 1 (mod r), cheap filter now, proof of r's
		// primality once cand checks out below.
		red.Set(r)
		e.Sub(r, one)
		common.ModExp(f, two, e, &red)
		if f.Cmp(one) != 0 {
			continue
		}

		ok, err := common.ProbablyPrime(cand, common.MillerRabinRounds, rand)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}

		return new(big.Int).Set(r), nil
	}
}

// sieveSize scales the number of cached sieve primes with the candidate
// width: trial division pays for itself longer when the probabilistic
// tests get more expensive.
func sieveSize(bits uint) int {
	switch {
	case bits <= 256:
		return 99
	case bits <= 1024:
		return 256
	case bits <= 2048:
		return 1024
	default:
		return common.MaxSievePrimes
	}
}
