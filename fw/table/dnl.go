package table

import (
	"encoding/binary"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/ndn-go/forwarder/std/encoding"
	"github.com/ndn-go/forwarder/std/types/priority_queue"
)

// dnlLifetime is how long a (name, nonce) pair is remembered after it is
// retired from a PIT slot, long enough to catch a looping retransmission
// that arrives after the slot itself has already been drained or pruned.
const dnlLifetime = 6 * time.Second

type dnlKey = uint64

// deadNonceList remembers recently-satisfied or recently-expired
// (name, nonce) pairs so a looping retransmission is recognized and
// dropped at admission rather than treated as a fresh Interest.
type deadNonceList struct {
	present map[dnlKey]struct{}
	expiry  priority_queue.Queue[dnlKey, int64]
}

func newDeadNonceList() *deadNonceList {
	return &deadNonceList{
		present: make(map[dnlKey]struct{}),
		expiry:  priority_queue.New[dnlKey, int64](),
	}
}

// dnlKeyFor hashes a name's wire encoding together with the nonce.
// Hashing the TLV-encoded component sequence (not just the raw
// component bytes) means a boundary shift between two components can
// never collide with a different split of the same bytes.
func dnlKeyFor(name encoding.Name, nonce uint32) dnlKey {
	h := xxhash.New()
	h.Write(name.Bytes())
	var nb [4]byte
	binary.BigEndian.PutUint32(nb[:], nonce)
	h.Write(nb[:])
	return h.Sum64()
}

func (d *deadNonceList) Contains(name encoding.Name, nonce uint32) bool {
	_, ok := d.present[dnlKeyFor(name, nonce)]
	return ok
}

func (d *deadNonceList) Insert(name encoding.Name, nonce uint32, now time.Time) {
	key := dnlKeyFor(name, nonce)
	if _, ok := d.present[key]; ok {
		return
	}
	d.present[key] = struct{}{}
	d.expiry.Push(key, now.Add(dnlLifetime).UnixNano())
}

func (d *deadNonceList) evictExpired(now time.Time) {
	deadline := now.UnixNano()
	for d.expiry.Len() > 0 && d.expiry.PeekPriority() <= deadline {
		delete(d.present, d.expiry.Pop())
	}
}
