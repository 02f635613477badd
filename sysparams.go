package bbs

import (
	"sort"

	"github.com/go-errors/errors"
)

// BaseParameters holds per modulus length the tunable generator parameters.
type BaseParameters struct {
	Ln       uint // bit length of the modulus M = p*q
	Lextract uint // output bits taken per squaring step
}

// defaultBaseParameters holds per modulus length the base parameters.
// A single extracted bit per squaring keeps the classical security
// argument intact at every supported length; see Generator.SetExtract
// for the knob and its caveat.
var defaultBaseParameters = map[int]BaseParameters{
	256:  {Ln: 256, Lextract: 1},
	512:  {Ln: 512, Lextract: 1},
	1024: {Ln: 1024, Lextract: 1},
	2048: {Ln: 2048, Lextract: 1},
	4096: {Ln: 4096, Lextract: 1},
	8192: {Ln: 8192, Lextract: 1},
}

// DerivedParameters are quantities computed from the base parameters.
type DerivedParameters struct {
	Lprime    uint // search width of each safe prime factor, Ln/2
	Lcand     uint // width of the Sophie Germain candidate samples, Lprime-2
	LmodBytes int  // serialized width of modulus-sized integers
}

// MakeDerivedParameters computes the derived system parameters.
func MakeDerivedParameters(base BaseParameters) DerivedParameters {
	return DerivedParameters{
		Lprime:    base.Ln / 2,
		Lcand:     base.Ln/2 - 2,
		LmodBytes: ParamSize(int(base.Ln)),
	}
}

// SystemParameters holds the base and derived parameters for a modulus length.
type SystemParameters struct {
	BaseParameters
	DerivedParameters
}

// DefaultSystemParameters holds per modulus length the default parameters.
var DefaultSystemParameters = map[int]*SystemParameters{
	256:  {defaultBaseParameters[256], MakeDerivedParameters(defaultBaseParameters[256])},
	512:  {defaultBaseParameters[512], MakeDerivedParameters(defaultBaseParameters[512])},
	1024: {defaultBaseParameters[1024], MakeDerivedParameters(defaultBaseParameters[1024])},
	2048: {defaultBaseParameters[2048], MakeDerivedParameters(defaultBaseParameters[2048])},
	4096: {defaultBaseParameters[4096], MakeDerivedParameters(defaultBaseParameters[4096])},
	8192: {defaultBaseParameters[8192], MakeDerivedParameters(defaultBaseParameters[8192])},
}

// getAvailableKeyLengths returns the modulus lengths for the provided map of
// system parameters.
func getAvailableKeyLengths(sysParamsMap map[int]*SystemParameters) []int {
	lengths := make([]int, 0, len(sysParamsMap))
	for k := range sysParamsMap {
		lengths = append(lengths, k)
	}
	sort.Ints(lengths)
	return lengths
}

// DefaultKeyLengths is a slice of integers holding the modulus lengths for
// which system parameters are available.
var DefaultKeyLengths = getAvailableKeyLengths(DefaultSystemParameters)

// ParamSize computes the size of a parameter in bytes given the size in bits.
func ParamSize(a int) int {
	return (a + 8 - 1) / 8
}

// ParamsForLength returns the system parameters for the given modulus
// length, deriving them on the fly for lengths absent from
// DefaultSystemParameters. Lengths must be even and at least 128 so that
// the two prime factors have a sensible search space.
func ParamsForLength(bits int) (*SystemParameters, error) {
	if p, ok := DefaultSystemParameters[bits]; ok {
		return p, nil
	}
	if bits < 128 || bits%2 != 0 {
		return nil, errors.Errorf("no system parameters for modulus length %d", bits)
	}
	return systemParams(uint(bits)), nil
}

func systemParams(bits uint) *SystemParameters {
	base := BaseParameters{Ln: bits, Lextract: 1}
	return &SystemParameters{base, MakeDerivedParameters(base)}
}
