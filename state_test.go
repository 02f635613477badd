package bbs

import (
	"encoding/json"
	"testing"

	"github.com/privacybydesign/bbs/big"

	"github.com/stretchr/testify/require"
)

func TestStateRoundTrip(t *testing.T) {
	g := testGenerator(t)
	g.Seek(123)

	data, err := g.State().Serialize()
	require.NoError(t, err)

	s, err := ParseState(data)
	require.NoError(t, err)
	h, err := NewFromState(s)
	require.NoError(t, err)

	require.Equal(t, g.Pos(), h.Pos())
	require.Zero(t, g.x.Cmp(h.x))

	// both generators must now produce the same stream
	out1 := make([]byte, 32)
	out2 := make([]byte, 32)
	g.NextBytes(out1)
	h.NextBytes(out2)
	require.Equal(t, out1, out2)

	// and seeking must keep working on the restored instance
	g.Seek(7)
	h.Seek(7)
	require.Zero(t, g.x.Cmp(h.x))
}

func TestStateDeterministicEncoding(t *testing.T) {
	g := testGenerator(t)
	d1, err := g.State().Serialize()
	require.NoError(t, err)
	d2, err := g.State().Serialize()
	require.NoError(t, err)
	require.Equal(t, d1, d2)
}

func TestStateExtractRoundTrip(t *testing.T) {
	g := testGenerator(t)
	require.NoError(t, g.SetExtract(3))

	h, err := NewFromState(g.State())
	require.NoError(t, err)
	require.EqualValues(t, 3, h.Extract())
	require.Equal(t, g.Next64(), h.Next64())
}

func TestStateJSON(t *testing.T) {
	g := testGenerator(t)
	s := g.State()

	data, err := json.Marshal(s)
	require.NoError(t, err)
	restored := &State{}
	require.NoError(t, json.Unmarshal(data, restored))
	require.Equal(t, s, restored)
}

func TestStateValidation(t *testing.T) {
	g := testGenerator(t)

	s := g.State()
	for i := range s.X0 {
		s.X0[i] = 0
	}
	_, err := NewFromState(s)
	require.Error(t, err, "zero seed accepted")

	s = g.State()
	copy(s.X, s.M) // x = M is out of range
	_, err = NewFromState(s)
	require.Error(t, err, "residue >= modulus accepted")

	s = g.State()
	testPBytes := make([]byte, len(s.X0))
	testP.FillLittleEndian(testPBytes)
	s.X0 = testPBytes // p divides M
	_, err = NewFromState(s)
	require.Error(t, err, "seed sharing a factor with M accepted")

	s = g.State()
	for i := range s.C {
		s.C[i] = 0
	}
	_, err = NewFromState(s)
	require.Error(t, err, "zero Carmichael exponent accepted")
}

func TestFingerprint(t *testing.T) {
	g := testGenerator(t)
	fp1, err := g.Fingerprint()
	require.NoError(t, err)
	require.NotEmpty(t, fp1)

	// stable across steps and seeks
	g.Step()
	g.Seek(1000)
	fp2, err := g.Fingerprint()
	require.NoError(t, err)
	require.Equal(t, fp1, fp2)

	// and across serialization
	s, err := ParseState(mustSerialize(t, g))
	require.NoError(t, err)
	fp3, err := s.Fingerprint()
	require.NoError(t, err)
	require.Equal(t, fp1, fp3)

	// a different modulus fingerprints differently
	h, err := NewFromPrimes(big.NewInt(23), big.NewInt(47), big.NewInt(2))
	require.NoError(t, err)
	fph, err := h.Fingerprint()
	require.NoError(t, err)
	require.NotEqual(t, fp1, fph)
}

func mustSerialize(t *testing.T, g *Generator) []byte {
	data, err := g.State().Serialize()
	require.NoError(t, err)
	return data
}
