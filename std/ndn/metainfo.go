package ndn

import (
	"github.com/ndn-go/forwarder/std/encoding"
	"github.com/ndn-go/forwarder/std/types/optional"
)

// MetaInfo carries a Data packet's content type, freshness period, and
// final block id. Unknown non-critical TLVs found among these fields
// are preserved verbatim for faithful re-encoding.
type MetaInfo struct {
	ContentType     optional.Option[ContentType]
	FreshnessPeriod optional.Option[uint64]
	FinalBlockId    optional.Option[encoding.Component]

	unknown [4][]byte
}

// DecodeMetaInfo parses the inner bytes of a MetaInfo TLV.
func DecodeMetaInfo(buf []byte) (MetaInfo, error) {
	var mi MetaInfo
	off := 0
	minKnown := 0
	gap := 0
	for off < len(buf) {
		d, n, err := encoding.DecodeTLV(buf[off:])
		if err != nil {
			return MetaInfo{}, err
		}
		typ := TLNum(d.TLV.Type)

		idx := -1
		switch typ {
		case TypeContentType:
			idx = 0
		case TypeFreshnessPeriod:
			idx = 1
		case TypeFinalBlockId:
			idx = 2
		}

		if idx >= 0 {
			if idx < minKnown {
				return MetaInfo{}, encoding.ErrOutOfOrder{Type: uint64(typ)}
			}
			switch idx {
			case 0:
				nv, err := encoding.ParseNaturalNumber(d.TLV.Value)
				if err != nil {
					return MetaInfo{}, err
				}
				mi.ContentType = optional.Some(ContentType(nv))
			case 1:
				nv, err := encoding.ParseNaturalNumber(d.TLV.Value)
				if err != nil {
					return MetaInfo{}, err
				}
				mi.FreshnessPeriod = optional.Some(uint64(nv))
			case 2:
				c, _, err := encoding.ParseComponent(d.TLV.Value)
				if err != nil {
					return MetaInfo{}, err
				}
				mi.FinalBlockId = optional.Some(c)
			}
			minKnown = idx
			gap = idx + 1
		} else {
			if d.TLV.IsCritical() {
				return MetaInfo{}, encoding.ErrCriticalType{Type: uint64(typ)}
			}
			mi.appendUnknown(gap, buf[off:off+n])
		}

		off += n
	}
	return mi, nil
}

func (mi *MetaInfo) appendUnknown(slot int, span []byte) {
	if slot >= len(mi.unknown) {
		slot = len(mi.unknown) - 1
	}
	mi.unknown[slot] = append(mi.unknown[slot], span...)
}

// EncodingLength returns the size of the MetaInfo TLV's inner bytes.
func (mi MetaInfo) EncodingLength() int {
	n := 0
	for i, u := range mi.unknown {
		n += len(u)
		switch i {
		case 0:
			if ct, ok := mi.ContentType.Get(); ok {
				n += encoding.TLV{Type: uint64(TypeContentType), Value: encoding.NaturalNumber(ct).Bytes()}.EncodingLength()
			}
		case 1:
			if fp, ok := mi.FreshnessPeriod.Get(); ok {
				n += encoding.TLV{Type: uint64(TypeFreshnessPeriod), Value: encoding.NaturalNumber(fp).Bytes()}.EncodingLength()
			}
		case 2:
			if fb, ok := mi.FinalBlockId.Get(); ok {
				fbv := make([]byte, fb.EncodingLength())
				fb.EncodeInto(fbv)
				n += encoding.TLV{Type: uint64(TypeFinalBlockId), Value: fbv}.EncodingLength()
			}
		}
	}
	return n
}

// EncodeInto writes the MetaInfo TLV's inner bytes into buf.
func (mi MetaInfo) EncodeInto(buf []byte) int {
	off := 0
	for i, u := range mi.unknown {
		off += copy(buf[off:], u)
		switch i {
		case 0:
			if ct, ok := mi.ContentType.Get(); ok {
				off += encoding.TLV{Type: uint64(TypeContentType), Value: encoding.NaturalNumber(ct).Bytes()}.EncodeInto(buf[off:])
			}
		case 1:
			if fp, ok := mi.FreshnessPeriod.Get(); ok {
				off += encoding.TLV{Type: uint64(TypeFreshnessPeriod), Value: encoding.NaturalNumber(fp).Bytes()}.EncodeInto(buf[off:])
			}
		case 2:
			if fb, ok := mi.FinalBlockId.Get(); ok {
				fbv := make([]byte, fb.EncodingLength())
				fb.EncodeInto(fbv)
				off += encoding.TLV{Type: uint64(TypeFinalBlockId), Value: fbv}.EncodeInto(buf[off:])
			}
		}
	}
	return off
}
