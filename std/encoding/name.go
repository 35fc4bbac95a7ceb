package encoding

import (
	"iter"
	"strconv"
	"strings"
)

// TypeName is the outer TLV type wrapping a Name's component sequence.
const TypeName TLNum = 7

// Name is a logical, possibly borrowed view over an ordered sequence of
// name components. It comes in three shapes (spec.md section 3):
//
//   - the empty name (zero value)
//   - a decoded view over a buffer's components ("base" set, "prev" nil)
//   - a chain link: some existing Name plus an appended batch of
//     components ("prev" set). Appending never copies component bytes --
//     it only allocates a small header linking back to the prior Name.
type Name struct {
	base  []Component
	prev  *Name
	added []Component
}

// EmptyName is the Name with zero components.
var EmptyName = Name{}

// NameFromBytes decodes a Name from the inner bytes of a Name TLV (i.e.
// bytes already stripped of the outer type 7 / length). It rejects a
// buffer holding anything other than a clean run of component TLVs,
// including a zero-typed component or an unparseable trailing suffix.
func NameFromBytes(buf []byte) (Name, error) {
	var comps []Component
	off := 0
	for off < len(buf) {
		c, n, err := ParseComponent(buf[off:])
		if err != nil {
			return Name{}, err
		}
		comps = append(comps, c)
		off += n
	}
	return Name{base: comps}, nil
}

// ComponentCount returns the number of components in the name.
func (n Name) ComponentCount() int {
	if n.prev != nil {
		return n.prev.ComponentCount() + len(n.added)
	}
	return len(n.base)
}

// IsEmpty reports whether the name has zero components.
func (n Name) IsEmpty() bool {
	return n.ComponentCount() == 0
}

// Adding returns a new Name extending n with the given components
// appended in order. It does not copy or re-decode n's existing
// components -- the result simply borrows n.
func (n Name) Adding(components ...Component) Name {
	if len(components) == 0 {
		return n
	}
	prev := n
	return Name{prev: &prev, added: components}
}

// DroppingLast returns a new Name with its final component removed. It
// is a no-op on the empty name.
func (n Name) DroppingLast() Name {
	if n.IsEmpty() {
		return n
	}
	if n.prev != nil {
		if len(n.added) > 1 {
			return Name{prev: n.prev, added: n.added[:len(n.added)-1]}
		}
		return *n.prev
	}
	return Name{base: n.base[:len(n.base)-1]}
}

// Components iterates the name's components in order: first the
// components of the original decoded buffer (or the base of the chain),
// then each appended batch in the order it was added.
func (n Name) Components() iter.Seq[Component] {
	return func(yield func(Component) bool) {
		n.visit(yield)
	}
}

// visit walks the chain from its root outward, yielding components in
// name order. It returns false if the caller's yield stopped iteration.
func (n Name) visit(yield func(Component) bool) bool {
	if n.prev != nil {
		if !n.prev.visit(yield) {
			return false
		}
		for _, c := range n.added {
			if !yield(c) {
				return false
			}
		}
		return true
	}
	for _, c := range n.base {
		if !yield(c) {
			return false
		}
	}
	return true
}

// ComponentSlice materializes the name's components into a single flat
// slice. Callers on a hot forwarding path should prefer Components/At to
// avoid this allocation when only a single pass is needed.
func (n Name) ComponentSlice() []Component {
	out := make([]Component, 0, n.ComponentCount())
	for c := range n.Components() {
		out = append(out, c)
	}
	return out
}

// At returns the i-th component (0-indexed) and whether it exists.
func (n Name) At(i int) (Component, bool) {
	if i < 0 || i >= n.ComponentCount() {
		return Component{}, false
	}
	j := 0
	for c := range n.Components() {
		if j == i {
			return c, true
		}
		j++
	}
	return Component{}, false
}

// EncodingLength returns the total size of the name's component sequence
// (not including the outer Name TLV's own type/length).
func (n Name) EncodingLength() int {
	total := 0
	for c := range n.Components() {
		total += c.EncodingLength()
	}
	return total
}

// EncodeInto writes the name's component sequence (not including the
// outer Name TLV's own type/length) into buf, which must be at least
// EncodingLength() bytes. Re-encoding a name decoded from a buffer
// reproduces that buffer's bytes exactly.
func (n Name) EncodeInto(buf []byte) int {
	off := 0
	for c := range n.Components() {
		off += c.EncodeInto(buf[off:])
	}
	return off
}

// Bytes returns the encoded component sequence as a freshly allocated slice.
func (n Name) Bytes() []byte {
	buf := make([]byte, n.EncodingLength())
	n.EncodeInto(buf)
	return buf
}

// AsOuterTLV wraps the name's component sequence in the outer Name (type
// 7) TLV, for contexts that need a standalone encoded Name rather than
// one embedded in a larger packet.
func (n Name) AsOuterTLV() TLV {
	return TLV{Type: uint64(TypeName), Value: n.Bytes()}
}

// String renders the name in a debug-only slash-separated form, e.g.
// "/a/b/c". Never consulted for forwarding decisions.
func (n Name) String() string {
	if n.IsEmpty() {
		return "/"
	}
	s := ""
	for c := range n.Components() {
		s += "/" + c.String()
	}
	return s
}

// NameFromStr parses a slash-separated URI-like name such as "/a/b" or
// "/32=params/1=%01%02" into a Name. A component written as "type=value"
// sets its type tag explicitly; otherwise it is generic. Percent-escaped
// bytes (e.g. "%01") are unescaped; everything else is taken literally.
// Used for configuration (route prefixes), never on the packet hot path.
func NameFromStr(s string) (Name, error) {
	s = strings.Trim(s, "/")
	if s == "" {
		return EmptyName, nil
	}
	parts := strings.Split(s, "/")
	comps := make([]Component, len(parts))
	for i, p := range parts {
		c, err := componentFromStr(p)
		if err != nil {
			return Name{}, err
		}
		comps[i] = c
	}
	return EmptyName.Adding(comps...), nil
}

func componentFromStr(s string) (Component, error) {
	typ := TypeGenericNameComponent
	val := s
	if idx := strings.IndexByte(s, '='); idx >= 0 {
		n, err := strconv.ParseUint(s[:idx], 10, 16)
		if err != nil {
			return Component{}, ErrFormat{Msg: "invalid component type in " + s}
		}
		typ = TLNum(n)
		val = s[idx+1:]
	}

	buf := make([]byte, 0, len(val))
	for i := 0; i < len(val); i++ {
		if val[i] == '%' && i+2 < len(val) {
			b, err := strconv.ParseUint(val[i+1:i+3], 16, 8)
			if err != nil {
				return Component{}, ErrFormat{Msg: "invalid percent-escape in " + s}
			}
			buf = append(buf, byte(b))
			i += 2
		} else {
			buf = append(buf, val[i])
		}
	}
	return Component{Typ: typ, Val: buf}, nil
}

// Equal reports whether two names have the same components in the same order.
func (n Name) Equal(o Name) bool {
	if n.ComponentCount() != o.ComponentCount() {
		return false
	}
	na, nb := n.Components(), o.Components()
	nextA, stopA := iter.Pull(na)
	nextB, stopB := iter.Pull(nb)
	defer stopA()
	defer stopB()
	for {
		a, okA := nextA()
		b, okB := nextB()
		if okA != okB {
			return false
		}
		if !okA {
			return true
		}
		if !a.Equal(b) {
			return false
		}
	}
}
