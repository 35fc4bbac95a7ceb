package encoding

// TLV is a borrowed view of one decoded Type-Length-Value field: a
// nonzero type tag plus the value bytes, which alias the input buffer.
type TLV struct {
	Type  uint64
	Value []byte
}

// IsCritical reports whether an unrecognized TLV of this type must abort
// the enclosing decode. Per the wire format, a type is critical if it is
// less than 32, or odd.
func (t TLV) IsCritical() bool {
	return t.Type < 32 || t.Type&1 == 1
}

// EncodingLength returns the total encoded size of this TLV (type + length + value).
func (t TLV) EncodingLength() int {
	l := len(t.Value)
	return TLNum(t.Type).EncodingLength() + TLNum(l).EncodingLength() + l
}

// EncodeInto writes the TLV's type, length, and value into buf, which
// must be at least EncodingLength() bytes, returning the bytes written.
func (t TLV) EncodeInto(buf []byte) int {
	n := TLNum(t.Type).EncodeInto(buf)
	n += TLNum(len(t.Value)).EncodeInto(buf[n:])
	n += copy(buf[n:], t.Value)
	return n
}

// DecodedTLV pairs a TLV view with the byte range ([Start, End)) it
// occupied in the buffer it was parsed from -- callers needing the exact
// on-wire bytes (e.g. to hash a signed range, or to forward a packet
// unchanged) use the range directly instead of re-encoding.
type DecodedTLV struct {
	TLV   TLV
	Start int
	End   int
}

// DecodeTLV parses one TLV from the front of buf. On success it returns
// the view and the number of bytes consumed. ErrBufferTooShort is
// returned (never wrapped) whenever buf simply doesn't yet hold a
// complete field -- callers driving a streaming face use this to decide
// whether to wait for more bytes rather than treating it as corruption.
func DecodeTLV(buf []byte) (DecodedTLV, int, error) {
	typ, n, err := ParseTLNum(buf)
	if err != nil {
		return DecodedTLV{}, 0, err
	}
	if typ == 0 {
		return DecodedTLV{}, 0, ErrZeroType
	}

	length, m, err := ParseTLNum(buf[n:])
	if err != nil {
		return DecodedTLV{}, 0, err
	}
	n += m

	end := n + int(length)
	if end > len(buf) {
		return DecodedTLV{}, 0, ErrBufferTooShort
	}

	return DecodedTLV{
		TLV:   TLV{Type: uint64(typ), Value: buf[n:end]},
		Start: 0,
		End:   end,
	}, end, nil
}

// DecodeOuter parses exactly one outer TLV starting at offset 0 of buf.
// Trailing bytes past the TLV are left for the next call rather than
// treated as an error -- framing depends on the caller re-slicing past
// what was consumed. It is the entry point for the per-face framing
// loop (spec.md section 4.6): it must distinguish "need more bytes"
// (ErrBufferTooShort) from a malformed packet.
func DecodeOuter(buf []byte) (TLV, int, error) {
	d, n, err := DecodeTLV(buf)
	if err != nil {
		return TLV{}, 0, err
	}
	return d.TLV, n, nil
}
