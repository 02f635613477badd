package safeprime

import (
	"crypto/rand"
	"testing"

	"github.com/privacybydesign/bbs/big"

	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	x, err := Generate(128, nil)

	require.NoError(t, err)
	require.NotNil(t, x)
	require.True(t, x.ProbablyPrime(100), "Generated number was not prime")

	y := new(big.Int).Rsh(x, 1)
	require.True(t, y.ProbablyPrime(100), "Generated number was not a safe prime")

	// Blum constraint: x = 3 (mod 4)
	require.EqualValues(t, 1, x.Bit(0))
	require.EqualValues(t, 1, x.Bit(1))
	require.LessOrEqual(t, x.BitLen(), 128)
}

func TestGenerateFromReader(t *testing.T) {
	x, err := Generate(96, rand.Reader)
	require.NoError(t, err)
	require.True(t, ProbablySafePrime(x, 64))
}

func TestGeneratePair(t *testing.T) {
	p, q, err := GeneratePair(128, 2, nil)
	require.NoError(t, err)
	require.NotZero(t, p.Cmp(q), "pair is not distinct")
	require.True(t, ProbablySafePrime(p, 64))
	require.True(t, ProbablySafePrime(q, 64))
}

func TestGenerateTooSmall(t *testing.T) {
	_, err := Generate(8, nil)
	require.Error(t, err)
}

func TestProbablySafePrime(t *testing.T) {
	p, _ := new(big.Int).SetString("5c5906be67a75ae0e321cfe8d4a77a7f", 16)
	require.True(t, ProbablySafePrime(p, 64))
	require.True(t, ProbablySafePrime(big.NewInt(7), 64))  // 7 = 2*3+1
	require.True(t, ProbablySafePrime(big.NewInt(23), 64)) // 23 = 2*11+1
	require.False(t, ProbablySafePrime(big.NewInt(13), 64))
	require.False(t, ProbablySafePrime(big.NewInt(15), 64))
	require.False(t, ProbablySafePrime(big.NewInt(2), 64))
	require.False(t, ProbablySafePrime(big.NewInt(0), 64))
}

// The generator's prime pairs must satisfy the Blum-Blum-Shub constraints:
// p = q = 3 (mod 4), (p-1)/2 prime, p != q.
func TestPairInvariants(t *testing.T) {
	bits, pairs := uint(96), 3
	if !testing.Short() {
		bits, pairs = 256, 10
	}
	for i := 0; i < pairs; i++ {
		p, q, err := GeneratePair(bits, 0, nil)
		require.NoError(t, err)
		for _, x := range []*big.Int{p, q} {
			require.EqualValues(t, 1, x.Bit(0))
			require.EqualValues(t, 1, x.Bit(1))
			require.True(t, ProbablySafePrime(x, 64))
		}
		require.NotZero(t, p.Cmp(q))
	}
}
