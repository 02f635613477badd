package common

import (
	"testing"

	"github.com/privacybydesign/bbs/big"
)

func TestSieveExhaustive(t *testing.T) {
	s := NewSieve(64, 99)
	primes := SmallPrimes(99)
	var n big.Int
	for v := uint64(2); v < 30000; v++ {
		hasFactor := false
		for _, p := range primes {
			if v%p == 0 && v != p {
				hasFactor = true
				break
			}
		}
		n.SetUint64(v)
		if got := s.PossiblyPrime(&n); got == hasFactor {
			t.Fatalf("PossiblyPrime(%d) = %v", v, got)
		}
	}
}

func TestSieveWide(t *testing.T) {
	s := NewSieve(256, 99)

	p, _ := new(big.Int).SetString("5c5906be67a75ae0e321cfe8d4a77a7f", 16)
	if !s.PossiblyPrime(p) {
		t.Fatal("sieve rejected a prime")
	}

	var n big.Int
	n.Mul(p, big.NewInt(523)) // 523 is the 99th prime
	if s.PossiblyPrime(&n) {
		t.Fatal("sieve missed a cached small factor")
	}
	n.Mul(p, big.NewInt(541)) // first prime beyond the cache
	if !s.PossiblyPrime(&n) {
		t.Fatal("sieve claimed a factor it cannot know")
	}
}

func TestSieveSmallInputs(t *testing.T) {
	s := NewSieve(16, 25)
	if s.PossiblyPrime(big.NewInt(0)) {
		t.Fatal("0 accepted")
	}
	if s.PossiblyPrime(big.NewInt(4)) {
		t.Fatal("4 accepted")
	}
	if !s.PossiblyPrime(big.NewInt(2)) {
		t.Fatal("2 rejected")
	}
	if !s.PossiblyPrime(big.NewInt(97)) {
		t.Fatal("cached prime 97 rejected")
	}
}

func TestSmallPrimes(t *testing.T) {
	ps := SmallPrimes(99)
	if len(ps) != 99 {
		t.Fatalf("len = %d", len(ps))
	}
	if ps[0] != 2 || ps[1] != 3 || ps[98] != 523 {
		t.Fatalf("unexpected primes: %d %d %d", ps[0], ps[1], ps[98])
	}
	all := SmallPrimes(MaxSievePrimes)
	if len(all) != MaxSievePrimes {
		t.Fatalf("full table: %d", len(all))
	}
	for _, p := range all[:200] {
		for d := uint64(2); d*d <= p; d++ {
			if p%d == 0 {
				t.Fatalf("%d is not prime", p)
			}
		}
	}
}
