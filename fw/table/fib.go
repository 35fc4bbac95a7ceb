package table

import (
	"sort"

	"github.com/ndn-go/forwarder/std/encoding"
)

// RegisterRoute adds or updates the forwarding entry for (prefix, face),
// keeping the terminal node's FIB set sorted ascending by cost.
func (t *Tables) RegisterRoute(prefix encoding.Name, face uint64, cost int) {
	node := t.root
	for c := range prefix.Components() {
		node = node.childOrCreate(c)
	}
	node.setFibCost(face, cost)
}

func (n *trieNode) setFibCost(face uint64, cost int) {
	for i := range n.fib {
		if n.fib[i].Face == face {
			n.fib[i].Cost = cost
			sortFib(n.fib)
			return
		}
	}
	n.fib = append(n.fib, fibEntry{Face: face, Cost: cost})
	sortFib(n.fib)
}

func sortFib(fib []fibEntry) {
	sort.Slice(fib, func(i, j int) bool { return fib[i].Cost < fib[j].Cost })
}

// UnregisterRoute removes (prefix, face) from the terminal node's FIB set
// and clears face from that node's PIT slots. Reports whether a FIB
// entry was actually removed.
func (t *Tables) UnregisterRoute(prefix encoding.Name, face uint64) bool {
	node := t.root
	for c := range prefix.Components() {
		child := node.child(c)
		if child == nil {
			return false
		}
		node = child
	}
	removed := node.removeFib(face)
	node.removeFacePit(face)
	return removed
}

// UnregisterFace removes every FIB and PIT record naming face, anywhere
// in the trie. Used when a face is torn down.
func (t *Tables) UnregisterFace(face uint64) {
	var walk func(n *trieNode)
	walk = func(n *trieNode) {
		n.removeFib(face)
		n.removeFacePit(face)
		for _, c := range n.children {
			walk(c)
		}
	}
	walk(t.root)
}

// nodeForName walks from the root to the node for name, creating any
// missing nodes along the way, and accumulates the candidate next-hop
// faces seen at each visited node in descending-cost order. Because
// shallower (shorter-prefix) nodes are visited first, the resulting
// slice ends with the deepest, lowest-cost -- i.e. highest-priority --
// candidate.
func (t *Tables) nodeForName(name encoding.Name) (*trieNode, []uint64) {
	node := t.root
	var candidates []uint64
	for c := range name.Components() {
		node = node.childOrCreate(c)
		for i := len(node.fib) - 1; i >= 0; i-- {
			candidates = append(candidates, node.fib[i].Face)
		}
	}
	return node, candidates
}
