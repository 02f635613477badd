package common

import (
	"github.com/privacybydesign/bbs/big"
)

// Barrett reduction: division-free x mod m via a precomputed reciprocal
// approximation of the modulus.

// Reducer reduces values below m^2 modulo a fixed m.
type Reducer struct {
	m  big.Int
	mu big.Int // floor(2^(2b) / m) + 1
	b  uint    // bit length of m
}

// Set prepares the reducer for the modulus m. It requires m >= 2.
func (r *Reducer) Set(m *big.Int) {
	r.m.Set(m)
	r.b = uint(m.BitLen())
	var shifted big.Int
	shifted.Lsh(one, 2*r.b)
	r.mu.Quo(&shifted, m)
	r.mu.Add(&r.mu, one)
}

// Modulus returns the modulus the reducer was set to.
func (r *Reducer) Modulus() *big.Int {
	return &r.m
}

// Mod sets ret to x mod m and returns ret. x must be in [0, m^2).
//
// The quotient estimate (mu*x) >> 2b is off by at most one multiple of m,
// so a single conditional correction restores the canonical residue.
func (r *Reducer) Mod(ret, x *big.Int) *big.Int {
	if x.Cmp(&r.m) < 0 {
		if ret != x {
			ret.Set(x)
		}
		return ret
	}

	var q big.Int
	q.Mul(&r.mu, x)
	q.Rsh(&q, 2*r.b)
	q.Mul(&q, &r.m)
	ret.Sub(x, &q)
	if ret.Sign() < 0 {
		ret.Add(ret, &r.m)
	} else if ret.Cmp(&r.m) >= 0 {
		ret.Sub(ret, &r.m)
	}
	return ret
}

// MulMod sets ret to x*y mod m and returns ret. x and y must be in [0, m).
func (r *Reducer) MulMod(ret, x, y *big.Int) *big.Int {
	var t big.Int
	t.Mul(x, y)
	return r.Mod(ret, &t)
}

// ModExp sets ret to base^exp mod m using right-to-left binary
// exponentiation, reducing both the accumulator and the running base
// with the reducer. base must be in [0, m^2); exp must be non-negative.
func ModExp(ret, base, exp *big.Int, m *Reducer) *big.Int {
	var b, acc big.Int
	m.Mod(&b, base)
	acc.SetUint64(1)
	for i, n := 0, exp.BitLen(); i < n; i++ {
		if exp.Bit(i) == 1 {
			m.MulMod(&acc, &acc, &b)
		}
		m.MulMod(&b, &b, &b)
	}
	return ret.Set(&acc)
}
