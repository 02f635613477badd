package common

import (
	"crypto/rand"
	"io"

	"github.com/go-errors/errors"

	"github.com/privacybydesign/bbs/big"
)

// DefaultSource is the process-global entropy source used whenever the
// caller does not inject one: the operating system's CSPRNG, behind the
// process-wide handle crypto/rand keeps open. It is safe for concurrent
// reads of independent buffers. Seeding and witness sampling are the
// only consumers, so there is no need for a userspace accelerator in
// front of it.
var DefaultSource io.Reader = rand.Reader

// RandomInRange returns a uniform random integer in [0, max). It draws
// whole bytes from rand, shifts out the excess low bits so that the top
// BitLen(max) bits of each draw remain, and rejects values of max and
// above. max must be positive.
func RandomInRange(rand io.Reader, max *big.Int) (*big.Int, error) {
	k := uint(max.BitLen())
	if k == 0 {
		return nil, errors.New("RandomInRange: max must be positive")
	}

	nbytes := (k + 7) / 8
	buf := make([]byte, nbytes)
	v := new(big.Int)
	for {
		if _, err := io.ReadFull(rand, buf); err != nil {
			return nil, errors.New(err)
		}
		v.SetBytes(buf)
		v.Rsh(v, nbytes*8-k)
		if v.Cmp(max) < 0 {
			return v, nil
		}
	}
}
