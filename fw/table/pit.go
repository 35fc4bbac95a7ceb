package table

import (
	"time"

	"github.com/ndn-go/forwarder/std/encoding"
)

// DefaultInterestLifetime is used when an Interest carries no explicit
// InterestLifetime field.
const DefaultInterestLifetime = 4000 * time.Millisecond

// retransmitBackoff computes the minimum delay before an admitted
// Interest's retransmission is honored again: 8ms * 2^min(count, 5).
func retransmitBackoff(transmissionCount int) time.Duration {
	shift := transmissionCount
	if shift > 5 {
		shift = 5
	}
	return 8 * time.Millisecond * time.Duration(int64(1)<<uint(shift))
}

// Admit runs the Interest admission and forwarding-strategy procedure
// against (name, can-be-prefix, lifetime, nonce, origin, now) and
// returns the single next-hop face it selects, or ok=false if the
// Interest should not be forwarded anywhere right now.
func (t *Tables) Admit(name encoding.Name, canBePrefix bool, lifetime time.Duration, nonce uint32, origin uint64, now time.Time) (face uint64, ok bool) {
	if name.IsEmpty() || t.dnl.Contains(name, nonce) {
		return 0, false
	}

	node, candidates := t.nodeForName(name)
	slot := node.slot(canBePrefix)

	if slot.isEmpty() {
		slot.inRecords = append(slot.inRecords, pitInRecord{Face: origin, Nonce: nonce})
		slot.removalDeadline = now.Add(lifetime)
		slot.latestTransmission = now
		slot.transmissionCount = 1
		if len(candidates) == 0 {
			return 0, false
		}
		return candidates[len(candidates)-1], true
	}

	if deadline := now.Add(lifetime); deadline.After(slot.removalDeadline) {
		slot.removalDeadline = deadline
	}

	for _, r := range slot.inRecords {
		if r.Nonce == nonce {
			return 0, false
		}
	}

	originSeen := false
	for i := range slot.inRecords {
		if slot.inRecords[i].Face == origin {
			t.dnl.Insert(name, slot.inRecords[i].Nonce, now)
			slot.inRecords[i].Nonce = nonce
			originSeen = true
			break
		}
	}
	if !originSeen {
		slot.inRecords = append(slot.inRecords, pitInRecord{Face: origin, Nonce: nonce})
	}

	if len(candidates) == 0 {
		return 0, false
	}

	minDelay := retransmitBackoff(slot.transmissionCount)
	if now.Before(slot.latestTransmission.Add(minDelay)) {
		return 0, false
	}
	slot.latestTransmission = now
	slot.transmissionCount++
	idx := len(candidates) - 1 - (slot.transmissionCount % len(candidates))
	return candidates[idx], true
}

// Satisfy runs the Data-satisfaction procedure for an arriving Data
// named name: it drains matching PIT slots along the name's ancestor
// chain, at the exact-name node, and -- lazily, only if needed -- at the
// implicit-digest child beneath it. digest is called at most once and
// only when the exact-name node has children to disambiguate among.
// Returns the deduplicated set of faces to forward the Data to.
func (t *Tables) Satisfy(name encoding.Name, now time.Time, digest func() [32]byte) []uint64 {
	faces := make(map[uint64]struct{})

	path := []*trieNode{t.root}
	node := t.root
	for c := range name.Components() {
		child := node.child(c)
		if child == nil {
			break
		}
		node = child
		path = append(path, node)
	}
	reachedExact := len(path) == name.ComponentCount()+1

	ancestorCount := len(path)
	if reachedExact {
		ancestorCount--
	}
	for _, n := range path[:ancestorCount] {
		t.drainSlot(&n.pitPrefix, name, now, faces)
	}

	if reachedExact {
		exact := path[len(path)-1]
		t.drainSlot(&exact.pitExact, name, now, faces)
		t.drainSlot(&exact.pitPrefix, name, now, faces)

		if len(exact.children) > 0 {
			digestComponent := encoding.NewImplicitSha256DigestComponent(digest())
			if dc := exact.child(digestComponent); dc != nil {
				t.drainSlot(&dc.pitExact, name, now, faces)
				t.drainSlot(&dc.pitPrefix, name, now, faces)
			}
		}
	}

	out := make([]uint64, 0, len(faces))
	for f := range faces {
		out = append(out, f)
	}
	return out
}

func (t *Tables) drainSlot(slot *pitSlot, name encoding.Name, now time.Time, faces map[uint64]struct{}) {
	for _, r := range slot.inRecords {
		faces[r.Face] = struct{}{}
		t.dnl.Insert(name, r.Nonce, now)
	}
	slot.inRecords = nil
}
