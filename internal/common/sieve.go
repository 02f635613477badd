package common

import (
	"github.com/privacybydesign/bbs/big"
)

// Sieve rapidly excludes candidates with small prime factors before the
// much more expensive probabilistic tests run. Divisibility by an odd
// cached prime p is decided without division, using the reciprocal
// identity p | n <=> n * p^-1 mod 2^L <= floor((2^L - 1) / p), which is
// exact for every n < 2^L.
type Sieve struct {
	l      uint // reciprocal width; candidates must stay below 2^l
	mask   big.Int
	primes []uint64
	inv    []big.Int // p^-1 mod 2^l
	thr    []big.Int // floor((2^l - 1) / p)
}

// NewSieve returns a sieve for candidates of at most bits bits, caching
// reciprocals for the first count small primes.
func NewSieve(bits uint, count int) *Sieve {
	primes := SmallPrimes(count)
	s := &Sieve{l: bits, primes: primes}

	var mod big.Int
	mod.Lsh(one, bits)
	s.mask.Sub(&mod, one)

	s.inv = make([]big.Int, len(primes))
	s.thr = make([]big.Int, len(primes))
	var p big.Int
	for i, sp := range primes {
		if sp == 2 {
			continue // evenness is checked directly on the low bit
		}
		p.SetUint64(sp)
		s.inv[i].ModInverse(&p, &mod)
		s.thr[i].Quo(&s.mask, &p)
	}
	return s
}

// PossiblyPrime returns false if n is divisible by a cached small prime
// (and is not that prime itself), true otherwise. A true result never
// claims primality; it only means the sieve found no small factor.
func (s *Sieve) PossiblyPrime(n *big.Int) bool {
	if n.BitLen() == 0 {
		return false
	}
	if n.Bit(0) == 0 {
		return n.Cmp(two) == 0
	}

	var t big.Int
	for i, p := range s.primes {
		if p == 2 {
			continue
		}
		t.Mul(n, &s.inv[i])
		t.And(&t, &s.mask)
		if t.Cmp(&s.thr[i]) <= 0 {
			// n has p as a factor; n == p is still prime
			return n.IsUint64() && n.Uint64() == p
		}
	}
	return true
}
