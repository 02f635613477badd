package bbs

import (
	"io"
	mathbits "math/bits"

	"github.com/bwesterb/go-exptable"
	"github.com/go-errors/errors"

	"github.com/privacybydesign/bbs/big"
	"github.com/privacybydesign/bbs/internal/common"
	"github.com/privacybydesign/bbs/safeprime"
)

var (
	bigONE = big.NewInt(1)
	bigTWO = big.NewInt(2)
)

// Generator is a seekable Blum-Blum-Shub bit stream. Its state x always
// satisfies x = x0^(2^pos) mod M with 1 < x < M. A Generator is not safe
// for concurrent use; callers wanting parallel streams must instantiate
// separate generators.
type Generator struct {
	params *SystemParameters

	m  *big.Int // modulus p*q
	x0 *big.Int // seed, coprime to m
	x  *big.Int // current residue
	c  *big.Int // Carmichael exponent lcm(p-1, q-1)

	pos     uint64
	extract uint // bits emitted per squaring

	mRed common.Reducer
	cRed common.Reducer

	// fixed-base table over x0 mod m, built on demand by EnableFastSeek
	x0Table *exptable.Table
}

// New seeds a generator with a fresh modulus of the given bit length,
// searching for the safe prime factors on all CPU cores and drawing
// entropy from the process-global source.
func New(bits int) (*Generator, error) {
	return NewSeeded(bits, 0, nil)
}

// NewFromReader is New with an injected entropy source, searching for the
// primes on a single goroutine so that rand need not be thread-safe.
func NewFromReader(bits int, rand io.Reader) (*Generator, error) {
	if rand == nil {
		return nil, errors.New("NewFromReader: nil entropy source")
	}
	return NewSeeded(bits, 1, rand)
}

// NewSeeded seeds a generator with the given prime search parallelism
// (0 = all cores) and entropy source (nil = the process-global source).
// With workers > 1 the source must be safe for concurrent reads.
func NewSeeded(bits, workers int, rand io.Reader) (*Generator, error) {
	params, err := ParamsForLength(bits)
	if err != nil {
		return nil, err
	}
	if rand == nil {
		rand = common.DefaultSource
	}

	p, q, err := safeprime.GeneratePair(params.Lprime, workers, rand)
	if err != nil {
		return nil, err
	}
	return newGenerator(p, q, nil, params, rand)
}

// NewFromPrimes constructs a generator over the given prime pair and
// seed, skipping the safe prime search. Both primes must be congruent to
// 3 mod 4 and distinct; x0 must satisfy 1 < x0 < p*q and be divisible by
// neither prime. The caller is responsible for the primality (and, if the
// period matters, safety) of p and q.
func NewFromPrimes(p, q, x0 *big.Int) (*Generator, error) {
	return newGenerator(p, q, x0, nil, nil)
}

func newGenerator(p, q, x0 *big.Int, params *SystemParameters, rand io.Reader) (*Generator, error) {
	if p.Bit(0) != 1 || p.Bit(1) != 1 || q.Bit(0) != 1 || q.Bit(1) != 1 {
		return nil, errors.New("prime factors must be congruent to 3 mod 4")
	}
	if p.Cmp(q) == 0 {
		return nil, errors.New("prime factors must be distinct")
	}

	g := &Generator{
		m:       new(big.Int).Mul(p, q),
		extract: 1,
	}
	if params == nil {
		params = systemParams(uint(g.m.BitLen()))
	}
	g.params = params
	g.extract = params.Lextract
	g.mRed.Set(g.m)

	var t big.Int
	if x0 == nil {
		for {
			x, err := common.RandomInRange(rand, g.m)
			if err != nil {
				return nil, err
			}
			if x.Cmp(bigTWO) < 0 {
				continue
			}
			if t.Mod(x, p).Sign() == 0 || t.Mod(x, q).Sign() == 0 {
				continue
			}
			x0 = x
			break
		}
	} else {
		if x0.Cmp(bigONE) <= 0 || x0.Cmp(g.m) >= 0 {
			return nil, errors.New("seed must satisfy 1 < x0 < p*q")
		}
		if t.Mod(x0, p).Sign() == 0 || t.Mod(x0, q).Sign() == 0 {
			return nil, errors.New("seed must be coprime to the modulus")
		}
		x0 = new(big.Int).Set(x0)
	}
	g.x0 = x0
	g.x = new(big.Int).Set(x0)

	// c = lcm(p-1, q-1) = (p-1)(q-1)/gcd(p-1, q-1)
	pm1 := new(big.Int).Sub(p, bigONE)
	qm1 := new(big.Int).Sub(q, bigONE)
	g.c = new(big.Int).Mul(pm1, qm1)
	g.c.Quo(g.c, common.BinaryGCD(pm1, qm1))
	g.cRed.Set(g.c)

	return g, nil
}

// Pos returns the number of squarings applied since the seed.
func (g *Generator) Pos() uint64 {
	return g.pos
}

// Modulus returns a copy of M = p*q.
func (g *Generator) Modulus() *big.Int {
	return new(big.Int).Set(g.m)
}

// Extract returns the number of bits emitted per squaring.
func (g *Generator) Extract() uint {
	return g.extract
}

// MaxExtract returns floor(log2 log2 M), the largest extraction width for
// which the classical hardness argument holds.
func (g *Generator) MaxExtract() uint {
	l := uint(g.m.BitLen() - 1) // floor(log2 M)
	if l < 2 {
		return 1
	}
	return uint(mathbits.Len(l) - 1)
}

// SetExtract changes the number of bits emitted per squaring. Widths
// above 1 multiply throughput but weaken the security argument; values
// beyond MaxExtract are rejected.
func (g *Generator) SetExtract(bits uint) error {
	if bits < 1 || bits > g.MaxExtract() {
		return errors.Errorf("extraction width must be in [1, %d]", g.MaxExtract())
	}
	g.extract = bits
	return nil
}

// Step advances the stream one position: x <- x^2 mod M.
func (g *Generator) Step() {
	g.mRed.MulMod(g.x, g.x, g.x)
	g.pos++
}

// Seek moves the stream to position i in O(log i) squarings, using
// Euler's theorem: x0^(2^i) = x0^(2^i mod c) (mod M) since x0 is coprime
// to M and c is the Carmichael exponent of M.
func (g *Generator) Seek(i uint64) {
	var e, idx big.Int
	idx.SetUint64(i)
	common.ModExp(&e, bigTWO, &idx, &g.cRed)
	if g.x0Table != nil {
		g.x0Table.Exp(g.x.Go(), e.Go())
	} else {
		common.ModExp(g.x, g.x0, &e, &g.mRed)
	}
	g.pos = i
}

// EnableFastSeek precomputes a fixed-base exponentiation table over x0,
// trading construction time and memory for faster repeated seeks. The
// table path and the plain path produce identical states.
func (g *Generator) EnableFastSeek() {
	if g.x0Table != nil {
		return
	}
	t := new(exptable.Table)
	t.Compute(g.x0.Go(), g.m.Go(), 4)
	g.x0Table = t
}

// NextBit steps once and returns the lowest bit of the new state.
func (g *Generator) NextBit() uint {
	g.Step()
	return g.x.Bit(0)
}

// NextBits returns the next k bits of the stream packed MSB-first: the
// first bit produced occupies the highest position of the result. Whole
// extraction widths are taken per squaring; the remainder is produced
// one bit per squaring.
func (g *Generator) NextBits(k uint) *big.Int {
	r := new(big.Int)
	var w big.Int
	rem := k
	for ; rem >= g.extract; rem -= g.extract {
		g.Step()
		r.Lsh(r, g.extract)
		r.Or(r, w.SetUint64(g.lowBits(g.extract)))
	}
	for ; rem > 0; rem-- {
		g.Step()
		r.Lsh(r, 1)
		r.Or(r, w.SetUint64(uint64(g.x.Bit(0))))
	}
	return r
}

// NextBytes fills buf with output bytes, each accumulated MSB-first.
func (g *Generator) NextBytes(buf []byte) {
	for i := range buf {
		buf[i] = byte(g.nextWord(8))
	}
}

// Next64 returns the next 64 bits of the stream as an unsigned integer.
func (g *Generator) Next64() uint64 {
	return g.nextWord(64)
}

func (g *Generator) nextWord(k uint) uint64 {
	var r uint64
	rem := k
	for ; rem >= g.extract; rem -= g.extract {
		g.Step()
		r = r<<g.extract | g.lowBits(g.extract)
	}
	for ; rem > 0; rem-- {
		g.Step()
		r = r<<1 | uint64(g.x.Bit(0))
	}
	return r
}

// lowBits reads the low take bits of the current state. Extraction widths
// are tiny (at most MaxExtract), so bit-picking beats a masked copy.
func (g *Generator) lowBits(take uint) uint64 {
	var w uint64
	for j := uint(0); j < take; j++ {
		w |= uint64(g.x.Bit(int(j))) << j
	}
	return w
}
