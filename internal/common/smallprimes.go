package common

import "sync"

// MaxSievePrimes is the largest number of small primes a Sieve will cache
// reciprocals for. The fast path uses far fewer; see Sieve.
const MaxSievePrimes = 2048

var (
	smallPrimesOnce sync.Once
	smallPrimes     []uint64
)

// SmallPrimes returns the first n primes, generated once with a sieve of
// Eratosthenes and cached. An n outside [1, MaxSievePrimes] returns the
// whole table of MaxSievePrimes primes.
func SmallPrimes(n int) []uint64 {
	smallPrimesOnce.Do(func() {
		smallPrimes = eratosthenes(MaxSievePrimes)
	})
	if n < 1 || n > len(smallPrimes) {
		n = len(smallPrimes)
	}
	return smallPrimes[:n]
}

func eratosthenes(count int) []uint64 {
	limit := 1 << 10
	for {
		limit *= 2
		composite := make([]bool, limit)
		primes := make([]uint64, 0, count)
		for i := 2; i < limit; i++ {
			if composite[i] {
				continue
			}
			primes = append(primes, uint64(i))
			for j := i * i; j < limit; j += i {
				composite[j] = true
			}
		}
		if len(primes) >= count {
			return primes[:count]
		}
	}
}
