package common

import "github.com/privacybydesign/bbs/big"

// Often we need to refer to the same small constant big numbers, no point in
// creating them again and again. Never written to.
var (
	one   = big.NewInt(1)
	two   = big.NewInt(2)
	three = big.NewInt(3)
)
