package common

import (
	"io"

	"github.com/go-errors/errors"

	"github.com/privacybydesign/bbs/big"
)

// MillerRabinRounds is the number of witness rounds used throughout the
// module, giving an error rate of at most 2^-128.
const MillerRabinRounds = 64

// ProbablyPrime performs rounds rounds of the Miller-Rabin test on odd
// n > 3, drawing witnesses from rand. It returns false if a witness for
// compositeness was found, and true if n is probably prime. The only
// error it can return is a failure of the entropy source.
func ProbablyPrime(n *big.Int, rounds int, rand io.Reader) (bool, error) {
	if n.Bit(0) == 0 || n.Cmp(three) <= 0 {
		return false, errors.Errorf("ProbablyPrime: n must be odd and > 3, got %v", n)
	}

	// Write n-1 = 2^s * d with d odd.
	var nm1, d big.Int
	nm1.Sub(n, one)
	s := nm1.TrailingZeroBits()
	d.Rsh(&nm1, s)

	var red Reducer
	red.Set(n)

	var nm3 big.Int
	nm3.Sub(n, three)

	var a, y big.Int
	for i := 0; i < rounds; i++ {
		// a uniform in [2, n-2]
		r, err := RandomInRange(rand, &nm3)
		if err != nil {
			return false, err
		}
		a.Add(r, two)

		ModExp(&y, &a, &d, &red)
		if y.Cmp(one) == 0 || y.Cmp(&nm1) == 0 {
			continue
		}

		witness := true
		for j := uint(1); j < s; j++ {
			red.MulMod(&y, &y, &y)
			if y.Cmp(&nm1) == 0 {
				witness = false
				break
			}
		}
		if witness {
			return false, nil
		}
	}
	return true, nil
}
