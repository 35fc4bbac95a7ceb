package encoding

import "fmt"

// ErrFormat reports a malformed encoding with a human-readable message.
type ErrFormat struct {
	Msg string
}

func (e ErrFormat) Error() string {
	return e.Msg
}

// ErrBufferTooShort signals that a buffer did not contain enough bytes to
// decode a complete field. It is not a format error: a per-face framing
// loop treats it as "need more bytes" and retries once more data arrives.
var ErrBufferTooShort = fmt.Errorf("buffer too short")

// ErrNonMinimalVarint signals a varint that could have been encoded in
// fewer bytes. A conformant decoder always rejects these.
var ErrNonMinimalVarint = fmt.Errorf("non-minimal varint encoding")

// ErrZeroType signals a TLV whose type field decoded to zero, which is
// never valid for a name component or an outer packet TLV.
var ErrZeroType = fmt.Errorf("TLV type is zero")

// ErrCriticalType signals an unrecognized TLV whose type number is
// critical (< 32, or odd): the enclosing decode must fail rather than
// silently skip it.
type ErrCriticalType struct {
	Type uint64
}

func (e ErrCriticalType) Error() string {
	return fmt.Sprintf("unrecognized critical TLV type %d", e.Type)
}

// ErrOutOfOrder signals that a known TLV appeared after a later TLV in
// the canonical ordering required by the packet's field grammar.
type ErrOutOfOrder struct {
	Type uint64
}

func (e ErrOutOfOrder) Error() string {
	return fmt.Sprintf("TLV type %d appeared out of canonical order", e.Type)
}
