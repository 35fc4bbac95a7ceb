package utils

import (
	"encoding/binary"
	"time"
	"unsafe"

	"github.com/ndn-go/forwarder/std/types/optional"
)

// IdPtr returns a pointer to a copy of v, handy for inline construction
// of structs with optional pointer fields.
func IdPtr[T any](v T) *T {
	return &v
}

// ConstPtr returns a pointer to a package-level constant or literal
// without naming a local variable at the call site.
func ConstPtr[T any](v T) *T {
	return &v
}

// MakeTimestamp converts a wall-clock time to milliseconds since the Unix epoch.
func MakeTimestamp(t time.Time) uint64 {
	return uint64(t.UnixMilli())
}

// ConvertNonce interprets a 4-byte big-endian Interest nonce as a uint32,
// returning an absent Option if the slice isn't exactly 4 bytes.
func ConvertNonce(nonce []byte) optional.Option[uint32] {
	if len(nonce) != 4 {
		return optional.None[uint32]()
	}
	return optional.Some(binary.BigEndian.Uint32(nonce))
}

// HeaderEqual reports whether two slices share the same backing array,
// length, and capacity -- i.e. they are the exact same slice header, not
// merely equal in content.
func HeaderEqual[T any](a, b []T) bool {
	if len(a) != len(b) || cap(a) != cap(b) {
		return false
	}
	if len(a) == 0 {
		return true
	}
	return unsafe.SliceData(a) == unsafe.SliceData(b)
}
