package bbs

import (
	"github.com/go-errors/errors"
	"github.com/multiformats/go-multihash"

	"github.com/privacybydesign/bbs/big"
	"github.com/privacybydesign/bbs/cbor"
	"github.com/privacybydesign/bbs/internal/common"
)

// State is a serializable snapshot of a generator. (M, x0, pos) fully
// determine the stream, so a restored State resumes it exactly; x and c
// are carried along to spare the restorer a seek and a factorization it
// could not perform anyway. Integers are encoded little-endian at the
// modulus width. A State contains the seed and must be kept as secret as
// the generator itself.
type State struct {
	Bits    uint   `cbor:"bits" json:"bits"`
	M       []byte `cbor:"m" json:"m"`
	X0      []byte `cbor:"x0" json:"x0"`
	X       []byte `cbor:"x" json:"x"`
	C       []byte `cbor:"c" json:"c"`
	Pos     uint64 `cbor:"pos" json:"pos"`
	Extract uint   `cbor:"extract" json:"extract"`
}

// State captures the generator's current state.
func (g *Generator) State() *State {
	size := g.params.LmodBytes
	s := &State{
		Bits:    g.params.Ln,
		M:       make([]byte, size),
		X0:      make([]byte, size),
		X:       make([]byte, size),
		C:       make([]byte, size),
		Pos:     g.pos,
		Extract: g.extract,
	}
	g.m.FillLittleEndian(s.M)
	g.x0.FillLittleEndian(s.X0)
	g.x.FillLittleEndian(s.X)
	g.c.FillLittleEndian(s.C)
	return s
}

// Serialize encodes the state as canonical CBOR.
func (s *State) Serialize() ([]byte, error) {
	data, err := cbor.Marshal(s)
	if err != nil {
		return nil, errors.New(err)
	}
	return data, nil
}

// ParseState decodes a state produced by Serialize.
func ParseState(data []byte) (*State, error) {
	s := &State{}
	if err := cbor.Unmarshal(data, s); err != nil {
		return nil, errors.New(err)
	}
	return s, nil
}

// NewFromState reconstructs a generator from a snapshot. The factors of
// the modulus are gone, so only range and coprimality invariants can be
// revalidated here; feeding a State whose x was tampered with yields a
// well-formed generator over a different stream.
func NewFromState(s *State) (*Generator, error) {
	m := new(big.Int).SetLittleEndian(s.M)
	x0 := new(big.Int).SetLittleEndian(s.X0)
	x := new(big.Int).SetLittleEndian(s.X)
	c := new(big.Int).SetLittleEndian(s.C)

	if m.BitLen() < 3 {
		return nil, errors.New("state: modulus too small")
	}
	if x0.Cmp(bigONE) <= 0 || x0.Cmp(m) >= 0 {
		return nil, errors.New("state: seed out of range")
	}
	if common.BinaryGCD(x0, m).Cmp(bigONE) != 0 {
		return nil, errors.New("state: seed not coprime to modulus")
	}
	if x.Cmp(bigONE) <= 0 || x.Cmp(m) >= 0 {
		return nil, errors.New("state: residue out of range")
	}
	if c.Sign() <= 0 {
		return nil, errors.New("state: missing Carmichael exponent")
	}

	g := &Generator{
		params:  systemParams(s.Bits),
		m:       m,
		x0:      x0,
		x:       x,
		c:       c,
		pos:     s.Pos,
		extract: 1,
	}
	g.mRed.Set(m)
	g.cRed.Set(c)
	if s.Extract >= 1 {
		if err := g.SetExtract(s.Extract); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// Fingerprint identifies the generator behind a state: the SHA2-256
// multihash, base58-encoded, over the canonical CBOR encoding of the
// modulus and its width. It is stable across steps and seeks and does not
// depend on the seed.
func (s *State) Fingerprint() (string, error) {
	data, err := cbor.Marshal(struct {
		Bits uint   `cbor:"bits"`
		M    []byte `cbor:"m"`
	}{s.Bits, s.M})
	if err != nil {
		return "", errors.New(err)
	}
	mh, err := multihash.Sum(data, multihash.SHA2_256, -1)
	if err != nil {
		return "", errors.New(err)
	}
	return mh.B58String(), nil
}

// Fingerprint returns the fingerprint of the generator's state.
func (g *Generator) Fingerprint() (string, error) {
	return g.State().Fingerprint()
}
