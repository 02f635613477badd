package common

import (
	"github.com/privacybydesign/bbs/big"
)

// BinaryGCD computes the greatest common divisor of a and b with Stein's
// algorithm: strip the common power of two, then repeatedly subtract the
// smaller argument from the larger and strip factors of two from the
// difference. It returns 0 only if both inputs are 0.
func BinaryGCD(a, b *big.Int) *big.Int {
	if a.Sign() == 0 {
		return new(big.Int).Set(b)
	}
	if b.Sign() == 0 {
		return new(big.Int).Set(a)
	}

	x := new(big.Int).Set(a)
	y := new(big.Int).Set(b)

	shift := x.TrailingZeroBits()
	if bz := y.TrailingZeroBits(); bz < shift {
		shift = bz
	}

	x.Rsh(x, x.TrailingZeroBits())
	for {
		y.Rsh(y, y.TrailingZeroBits())
		if x.Cmp(y) > 0 {
			x, y = y, x
		}
		y.Sub(y, x)
		if y.Sign() == 0 {
			return x.Lsh(x, shift)
		}
	}
}
