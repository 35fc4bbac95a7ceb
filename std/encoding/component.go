package encoding

import (
	"fmt"
	"strconv"
	"strings"
)

// Name component type tags (spec.md section 6). A component's type is
// never zero; TypeInvalidComponent exists only to give the zero value a
// name for diagnostics.
const (
	TypeInvalidComponent                TLNum = 0x00
	TypeImplicitSha256DigestComponent    TLNum = 0x01
	TypeParametersSha256DigestComponent  TLNum = 0x02
	TypeGenericNameComponent             TLNum = 0x08
	TypeKeywordNameComponent             TLNum = 0x20
	TypeSegmentNameComponent             TLNum = 0x32
	TypeByteOffsetNameComponent          TLNum = 0x34
	TypeVersionNameComponent             TLNum = 0x36
	TypeTimestampNameComponent           TLNum = 0x38
	TypeSequenceNumNameComponent         TLNum = 0x3a
)

// Component is one name component: a nonzero type tag and an opaque
// byte payload. Components compare by (Type, Val) equality only.
type Component struct {
	Typ TLNum
	Val []byte
}

// NewBytesComponent builds a component of the given type from raw bytes.
func NewBytesComponent(typ TLNum, val []byte) Component {
	return Component{Typ: typ, Val: val}
}

// NewStringComponent builds a component of the given type from a string.
func NewStringComponent(typ TLNum, val string) Component {
	return Component{Typ: typ, Val: []byte(val)}
}

// NewGenericComponent builds a generic (type 8) component from a string.
func NewGenericComponent(val string) Component {
	return NewStringComponent(TypeGenericNameComponent, val)
}

// NewImplicitSha256DigestComponent builds the digest component appended
// to a Data's short name to form its full, content-addressed name.
func NewImplicitSha256DigestComponent(digest [32]byte) Component {
	return Component{Typ: TypeImplicitSha256DigestComponent, Val: digest[:]}
}

// Equal reports whether two components have the same type and value.
func (c Component) Equal(o Component) bool {
	return c.Typ == o.Typ && string(c.Val) == string(o.Val)
}

// EncodingLength returns the size of this component encoded as a TLV.
func (c Component) EncodingLength() int {
	return TLV{Type: uint64(c.Typ), Value: c.Val}.EncodingLength()
}

// EncodeInto writes this component as a TLV into buf.
func (c Component) EncodeInto(buf []byte) int {
	return TLV{Type: uint64(c.Typ), Value: c.Val}.EncodeInto(buf)
}

// ParseComponent decodes one name component TLV from the front of buf.
// A component's type tag must never be zero.
func ParseComponent(buf []byte) (Component, int, error) {
	d, n, err := DecodeTLV(buf)
	if err != nil {
		return Component{}, 0, err
	}
	return Component{Typ: TLNum(d.TLV.Type), Val: d.TLV.Value}, n, nil
}

// String renders the component in a debug-only, NDN-URI-like form. It is
// used for logging and is never consulted when making forwarding
// decisions.
func (c Component) String() string {
	var sb strings.Builder
	if c.Typ != TypeGenericNameComponent {
		sb.WriteString(strconv.FormatUint(uint64(c.Typ), 10))
		sb.WriteByte('=')
	}
	if isPrintable(c.Val) {
		sb.Write(c.Val)
	} else {
		for _, b := range c.Val {
			fmt.Fprintf(&sb, "%%%02x", b)
		}
	}
	return sb.String()
}

func isPrintable(b []byte) bool {
	for _, c := range b {
		if c < 0x20 || c > 0x7e {
			return false
		}
	}
	return true
}
