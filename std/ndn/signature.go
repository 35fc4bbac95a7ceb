package ndn

import (
	"github.com/ndn-go/forwarder/std/encoding"
	"github.com/ndn-go/forwarder/std/types/optional"
)

// SignatureInfo describes how a packet was (or claims to be) signed.
// The forwarder never validates signatures -- it only parses and
// re-encodes this field. Re-encoding emits SignatureType, KeyDigest,
// Nonce, Time and SeqNum in that order, followed by any unknown
// non-critical TLVs, so the bytes match the original only when it used
// that order.
type SignatureInfo struct {
	SignatureType SignatureType
	KeyDigest     optional.Option[[]byte]

	// InterestSignature-only fields (SignedInterest, RFC draft naming).
	Nonce  optional.Option[[]byte]
	Time   optional.Option[uint64]
	SeqNum optional.Option[uint64]

	unknown [][]byte
}

// DecodeSignatureInfo parses the inner bytes of a SignatureInfo TLV.
func DecodeSignatureInfo(buf []byte) (SignatureInfo, error) {
	var si SignatureInfo
	off := 0
	haveType := false
	for off < len(buf) {
		d, n, err := encoding.DecodeTLV(buf[off:])
		if err != nil {
			return SignatureInfo{}, err
		}
		switch TLNum(d.TLV.Type) {
		case TypeSignatureType:
			nv, err := encoding.ParseNaturalNumber(d.TLV.Value)
			if err != nil {
				return SignatureInfo{}, err
			}
			si.SignatureType = SignatureType(nv)
			haveType = true
		case TypeKeyDigest:
			si.KeyDigest = optional.Some(append([]byte(nil), d.TLV.Value...))
		case TypeInterestSignatureNonce:
			si.Nonce = optional.Some(append([]byte(nil), d.TLV.Value...))
		case TypeInterestSignatureTime:
			nv, err := encoding.ParseNaturalNumber(d.TLV.Value)
			if err != nil {
				return SignatureInfo{}, err
			}
			si.Time = optional.Some(uint64(nv))
		case TypeInterestSignatureSeqNum:
			nv, err := encoding.ParseNaturalNumber(d.TLV.Value)
			if err != nil {
				return SignatureInfo{}, err
			}
			si.SeqNum = optional.Some(uint64(nv))
		default:
			if d.TLV.IsCritical() {
				return SignatureInfo{}, encoding.ErrCriticalType{Type: d.TLV.Type}
			}
			si.unknown = append(si.unknown, append([]byte(nil), buf[off:off+n]...))
		}
		off += n
	}
	if !haveType {
		return SignatureInfo{}, ErrMissingField{Field: "SignatureType"}
	}
	return si, nil
}

// EncodingLength returns the size of the SignatureInfo TLV's inner bytes.
func (si SignatureInfo) EncodingLength() int {
	n := encoding.TLV{Type: uint64(TypeSignatureType), Value: encoding.NaturalNumber(si.SignatureType).Bytes()}.EncodingLength()
	if kd, ok := si.KeyDigest.Get(); ok {
		n += encoding.TLV{Type: uint64(TypeKeyDigest), Value: kd}.EncodingLength()
	}
	if nonce, ok := si.Nonce.Get(); ok {
		n += encoding.TLV{Type: uint64(TypeInterestSignatureNonce), Value: nonce}.EncodingLength()
	}
	if t, ok := si.Time.Get(); ok {
		n += encoding.TLV{Type: uint64(TypeInterestSignatureTime), Value: encoding.NaturalNumber(t).Bytes()}.EncodingLength()
	}
	if s, ok := si.SeqNum.Get(); ok {
		n += encoding.TLV{Type: uint64(TypeInterestSignatureSeqNum), Value: encoding.NaturalNumber(s).Bytes()}.EncodingLength()
	}
	for _, u := range si.unknown {
		n += len(u)
	}
	return n
}

// EncodeInto writes the SignatureInfo TLV's inner bytes into buf.
func (si SignatureInfo) EncodeInto(buf []byte) int {
	off := encoding.TLV{Type: uint64(TypeSignatureType), Value: encoding.NaturalNumber(si.SignatureType).Bytes()}.EncodeInto(buf)
	if kd, ok := si.KeyDigest.Get(); ok {
		off += encoding.TLV{Type: uint64(TypeKeyDigest), Value: kd}.EncodeInto(buf[off:])
	}
	if nonce, ok := si.Nonce.Get(); ok {
		off += encoding.TLV{Type: uint64(TypeInterestSignatureNonce), Value: nonce}.EncodeInto(buf[off:])
	}
	if t, ok := si.Time.Get(); ok {
		off += encoding.TLV{Type: uint64(TypeInterestSignatureTime), Value: encoding.NaturalNumber(t).Bytes()}.EncodeInto(buf[off:])
	}
	if s, ok := si.SeqNum.Get(); ok {
		off += encoding.TLV{Type: uint64(TypeInterestSignatureSeqNum), Value: encoding.NaturalNumber(s).Bytes()}.EncodeInto(buf[off:])
	}
	for _, u := range si.unknown {
		off += copy(buf[off:], u)
	}
	return off
}
