// Package table implements the forwarder's name trie: a single tree keyed
// by name-component equality that carries, at each node, a FIB entry set,
// two PIT slots (exact and can-be-prefix), and an optional CS entry.
package table

import (
	"time"

	"github.com/ndn-go/forwarder/std/encoding"
)

// fibEntry is one registered (face, cost) pair. A node's fib slice is
// always kept sorted ascending by Cost.
type fibEntry struct {
	Face uint64
	Cost int
}

// pitInRecord is one pending requester: the face an Interest arrived on
// and the nonce it carried.
type pitInRecord struct {
	Face  uint64
	Nonce uint32
}

// pitSlot holds the admission state for either the exact-name or the
// can-be-prefix PIT at a trie node. An empty slot (no in-records) is
// logically in the Empty state; a nonempty one is Pending.
type pitSlot struct {
	inRecords          []pitInRecord
	removalDeadline    time.Time
	latestTransmission time.Time
	transmissionCount  int
}

func (s *pitSlot) isEmpty() bool { return len(s.inRecords) == 0 }

func (s *pitSlot) removeFace(face uint64) {
	out := s.inRecords[:0]
	for _, r := range s.inRecords {
		if r.Face != face {
			out = append(out, r)
		}
	}
	s.inRecords = out
}

// csEntry is one cached Data, stored on the trie node keyed by its full
// name including the implicit digest component.
type csEntry struct {
	data              []byte
	freshnessDeadline time.Time
	removalDeadline   time.Time
}

// trieNode is one component step in the name trie.
type trieNode struct {
	component encoding.Component
	parent    *trieNode
	children  []*trieNode

	fib []fibEntry

	pitExact  pitSlot
	pitPrefix pitSlot

	cs *csEntry
}

// child returns the existing child matching c, or nil.
func (n *trieNode) child(c encoding.Component) *trieNode {
	for _, ch := range n.children {
		if ch.component.Equal(c) {
			return ch
		}
	}
	return nil
}

// childOrCreate returns the child matching c, creating and linking it
// first if necessary.
func (n *trieNode) childOrCreate(c encoding.Component) *trieNode {
	if ch := n.child(c); ch != nil {
		return ch
	}
	ch := &trieNode{component: c, parent: n}
	n.children = append(n.children, ch)
	return ch
}

// slot returns the PIT slot matching the requested can-be-prefix mode.
func (n *trieNode) slot(canBePrefix bool) *pitSlot {
	if canBePrefix {
		return &n.pitPrefix
	}
	return &n.pitExact
}

// isEmpty reports whether n carries no state at all and no live
// children, making it eligible for pruning.
func (n *trieNode) isEmpty() bool {
	return len(n.fib) == 0 && n.pitExact.isEmpty() && n.pitPrefix.isEmpty() &&
		n.cs == nil && len(n.children) == 0
}

// fullName reconstructs the name this node sits at by walking parent
// links back to the root. Used only off the hot path (pruning, DNL keys
// for expired PIT state) where an O(depth) walk is acceptable.
func (n *trieNode) fullName() encoding.Name {
	var comps []encoding.Component
	for cur := n; cur.parent != nil; cur = cur.parent {
		comps = append(comps, cur.component)
	}
	for i, j := 0, len(comps)-1; i < j; i, j = i+1, j-1 {
		comps[i], comps[j] = comps[j], comps[i]
	}
	return encoding.EmptyName.Adding(comps...)
}

// removeFib drops face from this node's FIB set, reporting whether
// anything was removed.
func (n *trieNode) removeFib(face uint64) bool {
	for i := range n.fib {
		if n.fib[i].Face == face {
			n.fib = append(n.fib[:i], n.fib[i+1:]...)
			return true
		}
	}
	return false
}

// removeFacePit clears face from both of this node's PIT slots.
func (n *trieNode) removeFacePit(face uint64) {
	n.pitExact.removeFace(face)
	n.pitPrefix.removeFace(face)
}
