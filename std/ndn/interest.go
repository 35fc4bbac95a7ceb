package ndn

import (
	"github.com/ndn-go/forwarder/std/encoding"
	"github.com/ndn-go/forwarder/std/types/optional"
)

// interestSlots is the number of unknown-TLV gap spans preserved between
// Interest's known fields: one gap before each of the seven fields that
// follow Name in canonical (ascending type number) order; trailing
// unknowns fold into the last slot, so unknowns that followed
// ApplicationParameters or the signature fields are re-emitted before
// ApplicationParameters.
const interestSlots = 7

// Interest is a decoded view over an Interest packet. Name and the
// optional fields below are materialized; anything this forwarder does
// not understand is kept as opaque byte spans in unknown, so a
// re-encode reproduces the original packet exactly.
//
// Fields are listed here in field-grammar order, but the wire's
// canonical order (ascending TLV type number) is Nonce, Lifetime,
// MustBeFresh, ForwardingHint, CanBePrefix, HopLimit, ApplicationParameters,
// InterestSignatureInfo, InterestSignatureValue.
type Interest struct {
	Name           encoding.Name
	CanBePrefix    bool
	MustBeFresh    bool
	ForwardingHint optional.Option[[]byte]
	Nonce          optional.Option[[]byte]
	Lifetime       optional.Option[uint64]
	HopLimit       optional.Option[byte]
	AppParameters  optional.Option[[]byte]
	SigInfo        optional.Option[SignatureInfo]
	SigValue       optional.Option[[]byte]

	unknown [interestSlots][]byte

	// hopLimitOffset is the byte index of HopLimit's value byte within
	// the re-encoded packet body, or -1 if HopLimit is absent.
	hopLimitOffset int
}

// ParseInterest decodes the inner bytes of an Interest TLV (type 5).
func ParseInterest(buf []byte) (Interest, error) {
	var it Interest
	it.hopLimitOffset = -1

	if len(buf) == 0 {
		return Interest{}, ErrMissingField{Field: "Name"}
	}
	nameTLV, n, err := encoding.DecodeTLV(buf)
	if err != nil {
		return Interest{}, err
	}
	if TLNum(nameTLV.TLV.Type) != encoding.TypeName {
		return Interest{}, ErrWrongType
	}
	name, err := encoding.NameFromBytes(nameTLV.TLV.Value)
	if err != nil {
		return Interest{}, err
	}
	if name.IsEmpty() {
		return Interest{}, ErrInvalidValue{Item: "Name", Value: "empty"}
	}
	it.Name = name

	off := n
	slot := 0
	gap := 0

	for off < len(buf) {
		d, dn, err := encoding.DecodeTLV(buf[off:])
		if err != nil {
			return Interest{}, err
		}
		typ := TLNum(d.TLV.Type)

		pos, known := interestFieldSlot(typ)
		if known {
			if pos < slot {
				return Interest{}, encoding.ErrOutOfOrder{Type: uint64(typ)}
			}
			switch typ {
			case TypeNonce:
				it.Nonce = optional.Some(append([]byte(nil), d.TLV.Value...))
			case TypeInterestLifetime:
				nv, err := encoding.ParseNaturalNumber(d.TLV.Value)
				if err != nil {
					return Interest{}, err
				}
				it.Lifetime = optional.Some(uint64(nv))
			case TypeMustBeFresh:
				it.MustBeFresh = true
			case TypeForwardingHint:
				it.ForwardingHint = optional.Some(append([]byte(nil), d.TLV.Value...))
			case TypeCanBePrefix:
				it.CanBePrefix = true
			case TypeHopLimit:
				if len(d.TLV.Value) != 1 {
					return Interest{}, ErrInvalidValue{Item: "HopLimit", Value: len(d.TLV.Value)}
				}
				it.HopLimit = optional.Some(d.TLV.Value[0])
				it.hopLimitOffset = off + (dn - 1)
			case TypeApplicationParameters:
				it.AppParameters = optional.Some(append([]byte(nil), d.TLV.Value...))
			case TypeInterestSignatureInfo:
				si, err := DecodeSignatureInfo(d.TLV.Value)
				if err != nil {
					return Interest{}, err
				}
				it.SigInfo = optional.Some(si)
			case TypeInterestSignatureValue:
				it.SigValue = optional.Some(append([]byte(nil), d.TLV.Value...))
			}
			slot = pos
			gap = pos + 1
		} else {
			if d.TLV.IsCritical() {
				return Interest{}, encoding.ErrCriticalType{Type: uint64(typ)}
			}
			it.appendUnknown(gap, buf[off:off+dn])
		}

		off += dn
	}
	return it, nil
}

// interestFieldSlot maps a known Interest TLV type to the gap-slot index
// immediately preceding it in canonical (ascending type number) order.
// ApplicationParameters and the two signature fields that follow it share
// the final slot.
func interestFieldSlot(typ TLNum) (int, bool) {
	switch typ {
	case TypeNonce:
		return 0, true
	case TypeInterestLifetime:
		return 1, true
	case TypeMustBeFresh:
		return 2, true
	case TypeForwardingHint:
		return 3, true
	case TypeCanBePrefix:
		return 4, true
	case TypeHopLimit:
		return 5, true
	case TypeApplicationParameters, TypeInterestSignatureInfo, TypeInterestSignatureValue:
		return 6, true
	default:
		return 0, false
	}
}

func (it *Interest) appendUnknown(slot int, span []byte) {
	if slot >= interestSlots {
		slot = interestSlots - 1
	}
	it.unknown[slot] = append(it.unknown[slot], span...)
}

// EncodingLength returns the size of the Interest's re-encoded inner bytes
// (not including the outer Interest type/length header).
func (it Interest) EncodingLength() int {
	n := it.Name.AsOuterTLV().EncodingLength()
	n += it.fieldsLength()
	return n
}

func (it Interest) fieldsLength() int {
	n := len(it.unknown[0])
	if nonce, ok := it.Nonce.Get(); ok {
		n += encoding.TLV{Type: uint64(TypeNonce), Value: nonce}.EncodingLength()
	}
	n += len(it.unknown[1])
	if lt, ok := it.Lifetime.Get(); ok {
		n += encoding.TLV{Type: uint64(TypeInterestLifetime), Value: encoding.NaturalNumber(lt).Bytes()}.EncodingLength()
	}
	n += len(it.unknown[2])
	if it.MustBeFresh {
		n += encoding.TLV{Type: uint64(TypeMustBeFresh)}.EncodingLength()
	}
	n += len(it.unknown[3])
	if fh, ok := it.ForwardingHint.Get(); ok {
		n += encoding.TLV{Type: uint64(TypeForwardingHint), Value: fh}.EncodingLength()
	}
	n += len(it.unknown[4])
	if it.CanBePrefix {
		n += encoding.TLV{Type: uint64(TypeCanBePrefix)}.EncodingLength()
	}
	n += len(it.unknown[5])
	if hl, ok := it.HopLimit.Get(); ok {
		n += encoding.TLV{Type: uint64(TypeHopLimit), Value: []byte{hl}}.EncodingLength()
	}
	n += len(it.unknown[6])
	if ap, ok := it.AppParameters.Get(); ok {
		n += encoding.TLV{Type: uint64(TypeApplicationParameters), Value: ap}.EncodingLength()
	}
	if si, ok := it.SigInfo.Get(); ok {
		siBuf := make([]byte, si.EncodingLength())
		si.EncodeInto(siBuf)
		n += encoding.TLV{Type: uint64(TypeInterestSignatureInfo), Value: siBuf}.EncodingLength()
	}
	if sv, ok := it.SigValue.Get(); ok {
		n += encoding.TLV{Type: uint64(TypeInterestSignatureValue), Value: sv}.EncodingLength()
	}
	return n
}

// EncodeInto re-encodes the Interest's inner bytes (Name through the last
// known or unknown field) into buf, returning the bytes written and the
// byte offset of the HopLimit value byte (-1 if HopLimit is absent).
func (it Interest) EncodeInto(buf []byte) (n int, hopLimitOffset int) {
	off := it.Name.AsOuterTLV().EncodeInto(buf)
	hopLimitOffset = -1

	off += copy(buf[off:], it.unknown[0])
	if nonce, ok := it.Nonce.Get(); ok {
		off += encoding.TLV{Type: uint64(TypeNonce), Value: nonce}.EncodeInto(buf[off:])
	}
	off += copy(buf[off:], it.unknown[1])
	if lt, ok := it.Lifetime.Get(); ok {
		off += encoding.TLV{Type: uint64(TypeInterestLifetime), Value: encoding.NaturalNumber(lt).Bytes()}.EncodeInto(buf[off:])
	}
	off += copy(buf[off:], it.unknown[2])
	if it.MustBeFresh {
		off += encoding.TLV{Type: uint64(TypeMustBeFresh)}.EncodeInto(buf[off:])
	}
	off += copy(buf[off:], it.unknown[3])
	if fh, ok := it.ForwardingHint.Get(); ok {
		off += encoding.TLV{Type: uint64(TypeForwardingHint), Value: fh}.EncodeInto(buf[off:])
	}
	off += copy(buf[off:], it.unknown[4])
	if it.CanBePrefix {
		off += encoding.TLV{Type: uint64(TypeCanBePrefix)}.EncodeInto(buf[off:])
	}
	off += copy(buf[off:], it.unknown[5])
	if hl, ok := it.HopLimit.Get(); ok {
		tl := encoding.TLV{Type: uint64(TypeHopLimit), Value: []byte{hl}}
		hopLimitOffset = off + tl.EncodingLength() - 1
		off += tl.EncodeInto(buf[off:])
	}
	off += copy(buf[off:], it.unknown[6])
	if ap, ok := it.AppParameters.Get(); ok {
		off += encoding.TLV{Type: uint64(TypeApplicationParameters), Value: ap}.EncodeInto(buf[off:])
	}
	if si, ok := it.SigInfo.Get(); ok {
		siBuf := make([]byte, si.EncodingLength())
		si.EncodeInto(siBuf)
		off += encoding.TLV{Type: uint64(TypeInterestSignatureInfo), Value: siBuf}.EncodeInto(buf[off:])
	}
	if sv, ok := it.SigValue.Get(); ok {
		off += encoding.TLV{Type: uint64(TypeInterestSignatureValue), Value: sv}.EncodeInto(buf[off:])
	}
	return off, hopLimitOffset
}

// Bytes re-encodes the Interest into a fresh outer Interest TLV.
func (it Interest) Bytes() []byte {
	bodyLen := it.EncodingLength()
	outer := encoding.TLV{Type: uint64(TypeInterest), Value: make([]byte, bodyLen)}
	it.EncodeInto(outer.Value)
	buf := make([]byte, outer.EncodingLength())
	outer.EncodeInto(buf)
	return buf
}

// HopLimitOffset reports the byte index of the HopLimit value byte within
// this Interest's re-encoded inner bytes, as computed during ParseInterest.
func (it Interest) HopLimitOffset() int {
	return it.hopLimitOffset
}
