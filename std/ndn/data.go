package ndn

import (
	"github.com/ndn-go/forwarder/std/encoding"
	"github.com/ndn-go/forwarder/std/types/optional"
)

// dataSlots is the number of unknown-TLV gap spans preserved between
// Data's known fields (one gap before each of MetaInfo, Content,
// SignatureInfo, and SignatureValue; trailing unknowns fold into the last,
// so unknowns that followed SignatureValue are re-emitted before it).
const dataSlots = 4

// Data is a decoded view over a Data packet. Like Interest, unrecognized
// non-critical fields are preserved as opaque spans so a re-encode
// reproduces the original bytes.
type Data struct {
	Name     encoding.Name
	MetaInfo optional.Option[MetaInfo]
	Content  optional.Option[[]byte]
	SigInfo  SignatureInfo
	SigValue []byte

	unknown [dataSlots][]byte

	// raw is the buffer ParseData decoded from, retained so the signed
	// portion can be hashed without re-encoding. nil if this Data was
	// constructed programmatically rather than parsed.
	raw       []byte
	signedEnd int
}

// ParseData decodes the inner bytes of a Data TLV (type 6).
func ParseData(buf []byte) (Data, error) {
	var d Data
	d.raw = buf

	if len(buf) == 0 {
		return Data{}, ErrMissingField{Field: "Name"}
	}
	nameTLV, n, err := encoding.DecodeTLV(buf)
	if err != nil {
		return Data{}, err
	}
	if TLNum(nameTLV.TLV.Type) != encoding.TypeName {
		return Data{}, ErrWrongType
	}
	name, err := encoding.NameFromBytes(nameTLV.TLV.Value)
	if err != nil {
		return Data{}, err
	}
	if name.IsEmpty() {
		return Data{}, ErrInvalidValue{Item: "Name", Value: "empty"}
	}
	d.Name = name

	off := n
	slot := 0
	gap := 0
	haveSigInfo, haveSigValue := false, false

	for off < len(buf) {
		tlv, dn, err := encoding.DecodeTLV(buf[off:])
		if err != nil {
			return Data{}, err
		}
		typ := TLNum(tlv.TLV.Type)

		pos, known := dataFieldSlot(typ)
		if known {
			if pos < slot {
				return Data{}, encoding.ErrOutOfOrder{Type: uint64(typ)}
			}
			switch typ {
			case TypeMetaInfo:
				mi, err := DecodeMetaInfo(tlv.TLV.Value)
				if err != nil {
					return Data{}, err
				}
				d.MetaInfo = optional.Some(mi)
			case TypeContent:
				d.Content = optional.Some(append([]byte(nil), tlv.TLV.Value...))
			case TypeSignatureInfo:
				si, err := DecodeSignatureInfo(tlv.TLV.Value)
				if err != nil {
					return Data{}, err
				}
				d.SigInfo = si
				haveSigInfo = true
				d.signedEnd = off + dn
			case TypeSignatureValue:
				d.SigValue = append([]byte(nil), tlv.TLV.Value...)
				haveSigValue = true
			}
			slot = pos
			gap = pos + 1
		} else {
			if tlv.TLV.IsCritical() {
				return Data{}, encoding.ErrCriticalType{Type: uint64(typ)}
			}
			d.appendUnknown(gap, buf[off:off+dn])
		}

		off += dn
	}

	if !haveSigInfo {
		return Data{}, ErrMissingField{Field: "SignatureInfo"}
	}
	if !haveSigValue {
		return Data{}, ErrMissingField{Field: "SignatureValue"}
	}
	return d, nil
}

func dataFieldSlot(typ TLNum) (int, bool) {
	switch typ {
	case TypeMetaInfo:
		return 0, true
	case TypeContent:
		return 1, true
	case TypeSignatureInfo:
		return 2, true
	case TypeSignatureValue:
		return 3, true
	default:
		return 0, false
	}
}

func (d *Data) appendUnknown(slot int, span []byte) {
	if slot >= dataSlots {
		slot = dataSlots - 1
	}
	d.unknown[slot] = append(d.unknown[slot], span...)
}

// SignedPortion returns the exact on-wire byte range covered by this
// Data's signature: from the first byte of Name through the last byte
// of SignatureInfo. It is only available when Data was produced by
// ParseData; programmatically constructed Data must call Bytes first.
func (d Data) SignedPortion() ([]byte, bool) {
	if d.raw == nil {
		return nil, false
	}
	return d.raw[:d.signedEnd], true
}

// EncodingLength returns the size of the Data's re-encoded inner bytes.
func (d Data) EncodingLength() int {
	n := d.Name.AsOuterTLV().EncodingLength()
	n += len(d.unknown[0])
	if mi, ok := d.MetaInfo.Get(); ok {
		miLen := mi.EncodingLength()
		n += encoding.TLNum(uint64(TypeMetaInfo)).EncodingLength() + encoding.TLNum(miLen).EncodingLength() + miLen
	}
	n += len(d.unknown[1])
	if c, ok := d.Content.Get(); ok {
		n += encoding.TLV{Type: uint64(TypeContent), Value: c}.EncodingLength()
	}
	n += len(d.unknown[2])
	siLen := d.SigInfo.EncodingLength()
	n += encoding.TLNum(uint64(TypeSignatureInfo)).EncodingLength() + encoding.TLNum(siLen).EncodingLength() + siLen
	n += len(d.unknown[3])
	n += encoding.TLV{Type: uint64(TypeSignatureValue), Value: d.SigValue}.EncodingLength()
	return n
}

// EncodeInto re-encodes the Data's inner bytes into buf and returns the
// number of bytes written along with the offset marking the end of the
// signed portion (Name through SignatureInfo), for re-hashing when raw
// is unavailable.
func (d Data) EncodeInto(buf []byte) (n int, signedEnd int) {
	off := d.Name.AsOuterTLV().EncodeInto(buf)

	off += copy(buf[off:], d.unknown[0])
	if mi, ok := d.MetaInfo.Get(); ok {
		miBuf := make([]byte, mi.EncodingLength())
		mi.EncodeInto(miBuf)
		off += encoding.TLV{Type: uint64(TypeMetaInfo), Value: miBuf}.EncodeInto(buf[off:])
	}
	off += copy(buf[off:], d.unknown[1])
	if c, ok := d.Content.Get(); ok {
		off += encoding.TLV{Type: uint64(TypeContent), Value: c}.EncodeInto(buf[off:])
	}
	off += copy(buf[off:], d.unknown[2])
	siBuf := make([]byte, d.SigInfo.EncodingLength())
	d.SigInfo.EncodeInto(siBuf)
	off += encoding.TLV{Type: uint64(TypeSignatureInfo), Value: siBuf}.EncodeInto(buf[off:])
	signedEnd = off

	off += copy(buf[off:], d.unknown[3])
	off += encoding.TLV{Type: uint64(TypeSignatureValue), Value: d.SigValue}.EncodeInto(buf[off:])
	return off, signedEnd
}

// Bytes re-encodes the Data into a fresh outer Data TLV.
func (d Data) Bytes() []byte {
	bodyLen := d.EncodingLength()
	outer := encoding.TLV{Type: uint64(TypeData), Value: make([]byte, bodyLen)}
	d.EncodeInto(outer.Value)
	buf := make([]byte, outer.EncodingLength())
	outer.EncodeInto(buf)
	return buf
}
