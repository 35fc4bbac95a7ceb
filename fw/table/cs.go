package table

import (
	"bytes"
	"time"

	"github.com/ndn-go/forwarder/std/encoding"
)

// InsertCS places data under the full-name path ending in the implicit
// SHA256 digest component. If an entry already sits there with
// identical bytes, only its freshness-deadline is extended; otherwise
// the entry is replaced outright.
func (t *Tables) InsertCS(name encoding.Name, digest [32]byte, data []byte, now time.Time, freshness, cacheDuration time.Duration) {
	node := t.root
	for c := range name.Components() {
		node = node.childOrCreate(c)
	}
	node = node.childOrCreate(encoding.NewImplicitSha256DigestComponent(digest))

	freshDeadline := now.Add(freshness)
	if node.cs != nil && bytes.Equal(node.cs.data, data) {
		if freshDeadline.After(node.cs.freshnessDeadline) {
			node.cs.freshnessDeadline = freshDeadline
		}
	} else {
		node.cs = &csEntry{data: data, freshnessDeadline: freshDeadline}
	}
	node.cs.removalDeadline = now.Add(cacheDuration)
}

// GetCS walks to the query name and returns a satisfying Data's bytes,
// refreshing its removal-deadline on a hit. must-be-fresh restricts
// candidates to those still within their freshness-deadline. can-be-prefix
// recurses depth-first into children for the first acceptable entry;
// otherwise only the digest-suffixed children directly beneath the exact
// node are also considered.
func (t *Tables) GetCS(name encoding.Name, canBePrefix, mustBeFresh bool, now time.Time, cacheDuration time.Duration) ([]byte, bool) {
	node := t.root
	for c := range name.Components() {
		child := node.child(c)
		if child == nil {
			return nil, false
		}
		node = child
	}
	return t.getCSAt(node, canBePrefix, mustBeFresh, now, cacheDuration)
}

func (t *Tables) getCSAt(node *trieNode, canBePrefix, mustBeFresh bool, now time.Time, cacheDuration time.Duration) ([]byte, bool) {
	if node.cs != nil && csAcceptable(node.cs, mustBeFresh, now) {
		node.cs.removalDeadline = now.Add(cacheDuration)
		return node.cs.data, true
	}

	if canBePrefix {
		for _, c := range node.children {
			if data, ok := t.getCSAt(c, canBePrefix, mustBeFresh, now, cacheDuration); ok {
				return data, true
			}
		}
		return nil, false
	}

	for _, c := range node.children {
		if c.component.Typ != encoding.TypeImplicitSha256DigestComponent || c.cs == nil {
			continue
		}
		if csAcceptable(c.cs, mustBeFresh, now) {
			c.cs.removalDeadline = now.Add(cacheDuration)
			return c.cs.data, true
		}
	}
	return nil, false
}

func csAcceptable(e *csEntry, mustBeFresh bool, now time.Time) bool {
	if !mustBeFresh {
		return true
	}
	return !now.After(e.freshnessDeadline)
}
