// Package fw implements the forwarder's single-threaded dispatch loop:
// decoding packets off each face's framing buffer, consulting the name
// trie in table.Tables, and writing the result back out to the chosen
// face(s). None of it locks anything -- per spec.md section 5, the core
// forwarding logic runs on one thread and table.Tables is not safe for
// concurrent use.
package fw

import (
	"crypto/sha256"
	"errors"
	"time"

	"github.com/ndn-go/forwarder/fw/core"
	"github.com/ndn-go/forwarder/fw/face"
	"github.com/ndn-go/forwarder/fw/table"
	"github.com/ndn-go/forwarder/std/encoding"
	"github.com/ndn-go/forwarder/std/ndn"
	"github.com/ndn-go/forwarder/std/utils"
)

// ErrUnknownFace is returned by operations that reference a face token
// not currently registered with this Forwarder.
var ErrUnknownFace = errors.New("fw: unknown face token")

// faceEntry wraps a registered face. A slice of these backs
// Forwarder.faces; kept as its own type so the trie's face-removal
// sweep (Forwarder.RemoveFace) has a single place to extend if a face
// ever needs more bookkeeping than the *face.Face itself.
type faceEntry struct {
	face *face.Face
}

// Config bundles the knobs a Forwarder needs that come from the process
// configuration rather than from individual packets.
type Config struct {
	// CSCacheDuration bounds how long a Content Store entry survives
	// after insertion, independent of the Data's freshness period.
	CSCacheDuration time.Duration
}

// Forwarder owns the face set, the shared tables, and the round-robin
// cursor used to give each ready face a fair turn. It is driven entirely
// by TryForwardFromFace, called by the blocking driver once per ready
// face; nothing here blocks or spawns goroutines.
type Forwarder struct {
	cfg    Config
	tables *table.Tables

	// faces is kept sorted ascending by Token, mirroring the face
	// token allocation order (spec.md section 4.6): tokens are
	// monotonically increasing and never reused, so removal simply
	// retains the hole rather than compacting and renumbering.
	faces []faceEntry

	cursor int
	stats  Status
}

// Status is a point-in-time snapshot of the forwarder's size and
// traffic counters, returned by Snapshot for the ambient status
// endpoint. Counters are cumulative since process start.
type Status struct {
	Faces     int
	Interests uint64
	Data      uint64
	Drops     uint64
}

// Snapshot returns the forwarder's current Status. Safe to call only
// from the same thread driving the forwarder, like every other method.
func (fwd *Forwarder) Snapshot() Status {
	s := fwd.stats
	s.Faces = len(fwd.faces)
	return s
}

// NewForwarder builds an empty Forwarder over a fresh set of tables.
func NewForwarder(cfg Config) *Forwarder {
	return &Forwarder{cfg: cfg, tables: table.NewTables()}
}

// AddFace registers f with the forwarder. Faces must be added in
// increasing token order.
func (fwd *Forwarder) AddFace(f *face.Face) {
	fwd.faces = append(fwd.faces, faceEntry{face: f})
}

// Face looks up a registered face by token, for callers (the driver,
// the daemon) that need the *face.Face itself -- e.g. to drop its OS
// poll handle or close its transport -- before calling RemoveFace.
func (fwd *Forwarder) Face(token uint64) (*face.Face, bool) {
	for _, fe := range fwd.faces {
		if fe.face.Token == token {
			return fe.face, true
		}
	}
	return nil, false
}

// RemoveFace drops f's entry and scrubs any FIB/PIT state naming it.
func (fwd *Forwarder) RemoveFace(token uint64) {
	for i, fe := range fwd.faces {
		if fe.face.Token == token {
			fwd.faces = append(fwd.faces[:i], fwd.faces[i+1:]...)
			break
		}
	}
	fwd.tables.UnregisterFace(token)
}

// RegisterRoute adds a static FIB entry for (prefix, face, cost).
func (fwd *Forwarder) RegisterRoute(prefix encoding.Name, face uint64, cost int) {
	fwd.tables.RegisterRoute(prefix, face, cost)
}

// UnregisterRoute removes a previously registered FIB entry.
func (fwd *Forwarder) UnregisterRoute(prefix encoding.Name, face uint64) bool {
	return fwd.tables.UnregisterRoute(prefix, face)
}

// NumFaces reports how many faces are currently registered, for status
// reporting and round-robin bookkeeping.
func (fwd *Forwarder) NumFaces() int {
	return len(fwd.faces)
}

// TryForwardFromAnyFace drives one round-robin turn across all
// registered faces, calling TryForwardFromFace on each in turn starting
// just after the last-serviced face. It is the driver's entry point when
// woken with no specific face in hand (spec.md section 4.7's "poll loop
// with no particular face ready" path). It returns the tokens of any
// faces that reached, or were already in, the Removed state during the pass
// (spec.md section 4.6's FaceDisconnected signal); the caller is
// expected to call RemoveFace for each before the next call, since a
// face stuck at Removed is otherwise polled and skipped forever instead
// of reaped.
func (fwd *Forwarder) TryForwardFromAnyFace(now time.Time) []uint64 {
	n := len(fwd.faces)
	if n == 0 {
		return nil
	}
	fwd.cursor %= n
	var disconnected []uint64
	for i := 0; i < n; i++ {
		idx := (fwd.cursor + i) % n
		if fwd.forwardFaceAt(idx, now) {
			disconnected = append(disconnected, fwd.faces[idx].face.Token)
		}
	}
	fwd.cursor = (fwd.cursor + 1) % n
	return disconnected
}

// TryForwardFromFace drives one framing-loop pass for the face with the
// given token, if it is still registered. disconnected reports whether
// the face reached, or was already in, the Removed state; the
// caller is expected to call RemoveFace when it does.
func (fwd *Forwarder) TryForwardFromFace(token uint64, now time.Time) (disconnected bool, err error) {
	for i, fe := range fwd.faces {
		if fe.face.Token == token {
			return fwd.forwardFaceAt(i, now), nil
		}
	}
	return false, ErrUnknownFace
}

// forwardFaceAt runs the five-step per-face framing loop (spec.md
// section 4.6) for the face at index i: observe ShouldClose, fill the
// buffer only when it doesn't already hold a complete outer TLV, decode
// one packet, dispatch it, and slide the buffer past what was consumed.
// It also prunes the tables once per call, matching the teacher's
// practice of folding routine maintenance into the hot loop rather than
// scheduling it separately. It returns true once the face has reached
// the Removed state -- either just now, or already, since the caller
// may not reap it (via RemoveFace) until after this call returns, and
// a Removed face must keep reporting itself disconnected rather than
// fall through to the dead transport below.
func (fwd *Forwarder) forwardFaceAt(i int, now time.Time) bool {
	fwd.tables.Prune(now)

	f := fwd.faces[i].face
	switch f.State().Load() {
	case face.StateShouldClose:
		f.State().Store(face.StateRemoved)
		return true
	case face.StateRemoved:
		return true
	}

	if !hasCompleteOuterTLV(f.Pending()) {
		_, err := f.FillFromTransport()
		if err != nil {
			fwd.failFace(f, err)
			return false
		}
		if len(f.Pending()) == 0 {
			return false
		}
	}

	tlv, n, err := encoding.DecodeOuter(f.Pending())
	if err != nil {
		if errors.Is(err, encoding.ErrBufferTooShort) {
			return false
		}
		fwd.failFace(f, err)
		return false
	}

	switch encoding.TLNum(tlv.Type) {
	case ndn.TypeInterest:
		fwd.handleInterest(f, f.Pending()[:n], tlv.Value, now)
	case ndn.TypeData:
		fwd.handleData(f, f.Pending()[:n], tlv.Value, now)
	default:
		core.Log.Debug("fw", "dropping packet of unknown outer type", "face", f.Token, "type", tlv.Type)
	}

	f.Consume(n)
	return false
}

// hasCompleteOuterTLV reports whether buf already holds one full outer
// TLV, letting forwardFaceAt skip a FillFromTransport call when there is
// already enough buffered to make progress.
func hasCompleteOuterTLV(buf []byte) bool {
	if len(buf) == 0 {
		return false
	}
	_, _, err := encoding.DecodeOuter(buf)
	return err == nil
}

func (fwd *Forwarder) failFace(f *face.Face, err error) {
	core.Log.Warn("fw", "face error", "face", f.Token, "error", err)
	f.MarkShouldClose()
}

// handleInterest validates and admits pkt (the full on-wire bytes, with
// body the Interest's inner bytes), consulting the Content Store before
// falling through to table-driven admission.
func (fwd *Forwarder) handleInterest(in *face.Face, pkt, body []byte, now time.Time) {
	fwd.stats.Interests++

	it, err := ndn.ParseInterest(body)
	if err != nil {
		core.Log.Debug("fw", "dropping unparsable interest", "face", in.Token, "error", err)
		fwd.stats.Drops++
		return
	}
	if it.Name.IsEmpty() {
		fwd.stats.Drops++
		return
	}
	nonceBytes, ok := it.Nonce.Get()
	if !ok {
		fwd.stats.Drops++
		return
	}
	nonce, ok := utils.ConvertNonce(nonceBytes).Get()
	if !ok {
		fwd.stats.Drops++
		return
	}

	hopLimit, hasHopLimit := it.HopLimit.Get()
	if hasHopLimit {
		if hopLimit == 0 {
			fwd.stats.Drops++
			return
		}
	}
	isLastHop := hasHopLimit && hopLimit == 1

	if data, ok := fwd.tables.GetCS(it.Name, it.CanBePrefix, it.MustBeFresh, now, fwd.cfg.CSCacheDuration); ok {
		fwd.sendTo(in.Token, data)
		return
	}
	if isLastHop {
		fwd.stats.Drops++
		return
	}

	lifetime := table.DefaultInterestLifetime
	if lt, ok := it.Lifetime.Get(); ok {
		lifetime = time.Duration(lt) * time.Millisecond
	}

	outFace, ok := fwd.tables.Admit(it.Name, it.CanBePrefix, lifetime, nonce, in.Token, now)
	if !ok {
		fwd.stats.Drops++
		return
	}

	if hasHopLimit {
		headerLen := len(pkt) - len(body)
		pkt = rewriteHopLimit(pkt, headerLen, it.HopLimitOffset(), hopLimit-1)
	}
	fwd.sendTo(outFace, pkt)
}

// rewriteHopLimit returns a copy of pkt with the single HopLimit value
// byte decremented. headerLen is the size of the outer type/length
// header; bodyOffset is HopLimitOffset()'s value relative to the
// Interest's inner bytes. This is the only byte ever rewritten on egress
// in this forwarder, but it is still done as a copy-and-patch rather
// than a mutation in place, since pkt may alias a face's receive buffer.
func rewriteHopLimit(pkt []byte, headerLen, bodyOffset int, newValue byte) []byte {
	if bodyOffset < 0 {
		return pkt
	}
	out := make([]byte, len(pkt))
	copy(out, pkt)
	out[headerLen+bodyOffset] = newValue
	return out
}

// handleData looks up matching PIT entries for pkt (whose inner bytes
// are body) and forwards the original bytes to every match other than
// the face it arrived on. A Data with no matches at all is unsolicited
// and dropped uncached; otherwise it is inserted into the Content Store.
func (fwd *Forwarder) handleData(in *face.Face, pkt, body []byte, now time.Time) {
	fwd.stats.Data++

	d, err := ndn.ParseData(body)
	if err != nil {
		core.Log.Debug("fw", "dropping unparsable data", "face", in.Token, "error", err)
		fwd.stats.Drops++
		return
	}

	var digestCache *[32]byte
	digestFn := func() [32]byte {
		if digestCache != nil {
			return *digestCache
		}
		var sum [32]byte
		if signed, ok := d.SignedPortion(); ok {
			sum = sha256.Sum256(signed)
		} else {
			buf := make([]byte, d.EncodingLength())
			_, signedEnd := d.EncodeInto(buf)
			sum = sha256.Sum256(buf[:signedEnd])
		}
		digestCache = &sum
		return sum
	}

	faces := fwd.tables.Satisfy(d.Name, now, digestFn)
	if len(faces) == 0 {
		core.Log.Trace("fw", "dropping unsolicited data", "name", d.Name.String(), "face", in.Token)
		fwd.stats.Drops++
		return
	}

	for _, f := range faces {
		if f == in.Token {
			continue
		}
		fwd.sendTo(f, pkt)
	}

	freshness := time.Duration(0)
	if mi, ok := d.MetaInfo.Get(); ok {
		if fp, ok := mi.FreshnessPeriod.Get(); ok {
			freshness = time.Duration(fp) * time.Millisecond
		}
	}
	fwd.tables.InsertCS(d.Name, digestFn(), pkt, now, freshness, fwd.cfg.CSCacheDuration)
}

// sendTo writes pkt to the face with the given token, marking it
// should-close on any write failure. Unknown tokens are silently
// ignored, since a route or PIT record can outlive the face it names by
// one forwarding pass.
func (fwd *Forwarder) sendTo(token uint64, pkt []byte) {
	for _, fe := range fwd.faces {
		if fe.face.Token == token {
			fwd.writeAll(fe.face, pkt)
			return
		}
	}
}

func (fwd *Forwarder) writeAll(f *face.Face, pkt []byte) {
	for len(pkt) > 0 {
		sent, err := f.Sender.TrySend(pkt)
		if err != nil {
			fwd.failFace(f, err)
			return
		}
		pkt = pkt[sent:]
	}
	if err := f.Sender.Flush(); err != nil {
		fwd.failFace(f, err)
	}
}
