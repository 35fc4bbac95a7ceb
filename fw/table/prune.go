package table

import "time"

// Prune walks the trie bottom-up, dropping expired CS entries, resetting
// PIT slots past their removal-deadline (their resident nonces flow into
// the dead nonce list), and removing children left with no state at all.
// It also evicts expired dead-nonce-list entries. The forwarder calls
// this on every forwarding pass.
func (t *Tables) Prune(now time.Time) {
	t.pruneNode(t.root, now)
	t.dnl.evictExpired(now)
}

func (t *Tables) pruneNode(n *trieNode, now time.Time) {
	kept := n.children[:0]
	for _, c := range n.children {
		t.pruneNode(c, now)
		if !c.isEmpty() {
			kept = append(kept, c)
		}
	}
	n.children = kept

	if n.cs != nil && !now.Before(n.cs.removalDeadline) {
		n.cs = nil
	}
	t.pruneSlot(n, &n.pitExact, now)
	t.pruneSlot(n, &n.pitPrefix, now)
}

func (t *Tables) pruneSlot(n *trieNode, s *pitSlot, now time.Time) {
	if s.isEmpty() || now.Before(s.removalDeadline) {
		return
	}
	name := n.fullName()
	for _, r := range s.inRecords {
		t.dnl.Insert(name, r.Nonce, now)
	}
	s.inRecords = nil
}
