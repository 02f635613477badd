package common

import (
	"math/rand"
	"testing"

	"github.com/privacybydesign/bbs/big"
)

var rnd *rand.Rand = rand.New(rand.NewSource(37))

func testReducer(t *testing.T, m *big.Int) {
	if m.BitLen() < 2 {
		return
	}
	var red Reducer
	red.Set(m)
	var sq, a, r1, r2 big.Int
	sq.Mul(m, m)
	for i := 0; i < 50; i++ {
		a.Rand(rnd, &sq)
		r1.Mod(&a, m)
		red.Mod(&r2, &a)
		if r1.Cmp(&r2) != 0 {
			t.Fatalf("%v mod %v = %v != %v", &a, m, &r1, &r2)
		}
	}
}

func TestReducerRandom(t *testing.T) {
	var l, m big.Int
	for _, bits := range []uint{2, 8, 16, 64, 127, 128, 251, 256, 512} {
		l.Lsh(one, bits)
		for i := 0; i < 10; i++ {
			m.Rand(rnd, &l)
			testReducer(t, &m)
		}
	}
}

func TestReducerEdges(t *testing.T) {
	var m big.Int
	for _, bits := range []uint{8, 64, 256} {
		m.Lsh(one, bits)
		m.Sub(&m, one) // 2^bits - 1
		testReducer(t, &m)
		m.Add(&m, two) // 2^bits + 1
		testReducer(t, &m)
	}
}

func TestReducerAliasing(t *testing.T) {
	m := big.NewInt(1000003)
	var red Reducer
	red.Set(m)
	var a, want big.Int
	a.SetUint64(999999999999)
	want.Mod(&a, m)
	red.Mod(&a, &a)
	if a.Cmp(&want) != 0 {
		t.Fatalf("aliased Mod: got %v, want %v", &a, &want)
	}

	// x already below m must pass through unchanged
	a.SetUint64(42)
	red.Mod(&a, &a)
	if a.Uint64() != 42 {
		t.Fatalf("in-range value was changed: %v", &a)
	}
}

func TestMulMod(t *testing.T) {
	var l, m, x, y, r1, r2 big.Int
	l.Lsh(one, 200)
	for i := 0; i < 25; i++ {
		m.Rand(rnd, &l)
		if m.BitLen() < 2 {
			continue
		}
		var red Reducer
		red.Set(&m)
		x.Rand(rnd, &m)
		y.Rand(rnd, &m)
		r1.Mul(&x, &y)
		r1.Mod(&r1, &m)
		red.MulMod(&r2, &x, &y)
		if r1.Cmp(&r2) != 0 {
			t.Fatalf("%v * %v mod %v = %v != %v", &x, &y, &m, &r1, &r2)
		}
	}
}

func TestModExp(t *testing.T) {
	var l, m, b, e, r1, r2 big.Int
	l.Lsh(one, 256)
	for i := 0; i < 25; i++ {
		m.Rand(rnd, &l)
		if m.BitLen() < 2 {
			continue
		}
		b.Rand(rnd, &m)
		e.Rand(rnd, &l)
		var red Reducer
		red.Set(&m)
		ModExp(&r1, &b, &e, &red)
		r2.Exp(&b, &e, &m)
		if r1.Cmp(&r2) != 0 {
			t.Fatalf("%v ^ %v mod %v = %v != %v", &b, &e, &m, &r2, &r1)
		}
	}
}

func TestModExpEdges(t *testing.T) {
	m := big.NewInt(1000003)
	var red Reducer
	red.Set(m)
	var r big.Int

	ModExp(&r, big.NewInt(12345), big.NewInt(0), &red)
	if r.Uint64() != 1 {
		t.Fatalf("x^0 != 1: %v", &r)
	}
	ModExp(&r, big.NewInt(0), big.NewInt(17), &red)
	if r.Sign() != 0 {
		t.Fatalf("0^x != 0: %v", &r)
	}
	// base above the modulus must be reduced first
	ModExp(&r, big.NewInt(1000003+5), big.NewInt(3), &red)
	if r.Uint64() != 125 {
		t.Fatalf("(m+5)^3 mod m != 125: %v", &r)
	}
}
