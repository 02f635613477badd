// Package cbor encodes generator state snapshots as CBOR.
//
// A snapshot must encode to the same bytes on every run, because the
// state fingerprint is a hash over the encoding; the encoder therefore
// pins Core Deterministic Encoding (RFC 8949, section 4.2.1). Snapshots
// are also read back from untrusted files, so the decoder rejects
// duplicate map keys, indefinite lengths, tags, and documents nested
// deeper or holding more array elements or map pairs than a snapshot can
// legitimately have. The length of byte strings is not capped.
package cbor

import (
	"github.com/fxamacker/cbor/v2" // imports as cbor
)

// A snapshot is a single flat map of byte strings and small integers;
// these caps sit far above anything State.Serialize produces while
// keeping decoding of garbage input cheap.
const (
	maxNestedLevels  = 4
	maxContainerSize = 64
)

var encMode, decMode = mustModes()

func mustModes() (cbor.EncMode, cbor.DecMode) {
	em, err := cbor.EncOptions{
		Sort:        cbor.SortCoreDeterministic,
		IndefLength: cbor.IndefLengthForbidden,
		TagsMd:      cbor.TagsForbidden,
	}.EncMode()
	if err != nil {
		panic(err)
	}

	dm, err := cbor.DecOptions{
		DupMapKey:        cbor.DupMapKeyEnforcedAPF,
		IndefLength:      cbor.IndefLengthForbidden,
		TagsMd:           cbor.TagsForbidden,
		MaxNestedLevels:  maxNestedLevels,
		MaxArrayElements: maxContainerSize,
		MaxMapPairs:      maxContainerSize,
	}.DecMode()
	if err != nil {
		panic(err)
	}
	return em, dm
}

// Marshal encodes src into a CBOR-encoded byte slice.
func Marshal(src interface{}) ([]byte, error) {
	return encMode.Marshal(src)
}

// Unmarshal decodes CBOR in data into dst.
func Unmarshal(data []byte, dst interface{}) error {
	return decMode.Unmarshal(data, dst)
}
