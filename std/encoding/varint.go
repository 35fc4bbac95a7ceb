package encoding

import "encoding/binary"

// TLNum is a TLV Type or Length field, encoded on the wire using NDN's
// variable-length integer scheme: one byte for values up to 252, else a
// discriminant byte (253/254/255) followed by a 2/4/8-byte big-endian
// integer. Encodings must be minimal -- a decoder that accepts a wider
// form than necessary is non-conformant.
type TLNum uint64

// EncodingLength returns the number of bytes EncodeInto will write.
func (v TLNum) EncodingLength() int {
	switch x := uint64(v); {
	case x <= 0xfc:
		return 1
	case x <= 0xffff:
		return 3
	case x <= 0xffffffff:
		return 5
	default:
		return 9
	}
}

// EncodeInto writes the minimal varint encoding of v into buf, returning
// the number of bytes written. buf must have at least EncodingLength() bytes.
func (v TLNum) EncodeInto(buf []byte) int {
	switch x := uint64(v); {
	case x <= 0xfc:
		buf[0] = byte(x)
		return 1
	case x <= 0xffff:
		buf[0] = 0xfd
		binary.BigEndian.PutUint16(buf[1:], uint16(x))
		return 3
	case x <= 0xffffffff:
		buf[0] = 0xfe
		binary.BigEndian.PutUint32(buf[1:], uint32(x))
		return 5
	default:
		buf[0] = 0xff
		binary.BigEndian.PutUint64(buf[1:], uint64(x))
		return 9
	}
}

// Bytes returns the minimal varint encoding of v as a freshly allocated slice.
func (v TLNum) Bytes() []byte {
	buf := make([]byte, v.EncodingLength())
	v.EncodeInto(buf)
	return buf
}

// ParseTLNum parses a varint-encoded TLNum from the front of buf.
// It returns the value, the number of bytes consumed, and an error if
// buf is too short or the encoding is non-minimal.
func ParseTLNum(buf []byte) (val TLNum, pos int, err error) {
	if len(buf) < 1 {
		return 0, 0, ErrBufferTooShort
	}
	switch x := buf[0]; {
	case x <= 0xfc:
		return TLNum(x), 1, nil
	case x == 0xfd:
		if len(buf) < 3 {
			return 0, 0, ErrBufferTooShort
		}
		v := binary.BigEndian.Uint16(buf[1:3])
		if v <= 0xfc {
			return 0, 0, ErrNonMinimalVarint
		}
		return TLNum(v), 3, nil
	case x == 0xfe:
		if len(buf) < 5 {
			return 0, 0, ErrBufferTooShort
		}
		v := binary.BigEndian.Uint32(buf[1:5])
		if v <= 0xffff {
			return 0, 0, ErrNonMinimalVarint
		}
		return TLNum(v), 5, nil
	default: // 0xff
		if len(buf) < 9 {
			return 0, 0, ErrBufferTooShort
		}
		v := binary.BigEndian.Uint64(buf[1:9])
		if v <= 0xffffffff {
			return 0, 0, ErrNonMinimalVarint
		}
		return TLNum(v), 9, nil
	}
}

// NaturalNumber is an unsigned integer carried as the *value* of a TLV,
// encoded big-endian in exactly 1, 2, 4, or 8 bytes -- the width is
// dictated by the enclosing TLV's length field, not chosen by the value
// the way TLNum's varint is.
type NaturalNumber uint64

// EncodingLength returns the number of bytes EncodeInto will write: the
// smallest of 1/2/4/8 that can hold v.
func (v NaturalNumber) EncodingLength() int {
	switch x := uint64(v); {
	case x <= 0xff:
		return 1
	case x <= 0xffff:
		return 2
	case x <= 0xffffffff:
		return 4
	default:
		return 8
	}
}

// EncodeInto writes v big-endian into buf using EncodingLength() bytes.
func (v NaturalNumber) EncodeInto(buf []byte) int {
	switch x := uint64(v); {
	case x <= 0xff:
		buf[0] = byte(x)
		return 1
	case x <= 0xffff:
		binary.BigEndian.PutUint16(buf, uint16(x))
		return 2
	case x <= 0xffffffff:
		binary.BigEndian.PutUint32(buf, uint32(x))
		return 4
	default:
		binary.BigEndian.PutUint64(buf, uint64(x))
		return 8
	}
}

// Bytes returns the big-endian encoding of v in the smallest of 1/2/4/8 bytes.
func (v NaturalNumber) Bytes() []byte {
	buf := make([]byte, v.EncodingLength())
	v.EncodeInto(buf)
	return buf
}

// ParseNaturalNumber decodes a TLV-value-typed integer. Its width must be
// exactly 1, 2, 4, or 8 bytes; any other length is a format error.
func ParseNaturalNumber(buf []byte) (NaturalNumber, error) {
	switch len(buf) {
	case 1:
		return NaturalNumber(buf[0]), nil
	case 2:
		return NaturalNumber(binary.BigEndian.Uint16(buf)), nil
	case 4:
		return NaturalNumber(binary.BigEndian.Uint32(buf)), nil
	case 8:
		return NaturalNumber(binary.BigEndian.Uint64(buf)), nil
	default:
		return 0, ErrFormat{"natural number length is not 1, 2, 4 or 8"}
	}
}
