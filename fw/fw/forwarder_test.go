package fw_test

import (
	"testing"
	"time"

	"github.com/ndn-go/forwarder/fw/face"
	"github.com/ndn-go/forwarder/fw/fw"
	"github.com/ndn-go/forwarder/std/encoding"
	"github.com/ndn-go/forwarder/std/ndn"
	"github.com/ndn-go/forwarder/std/types/optional"
	"github.com/stretchr/testify/require"
)

// harness wires a Face into the forwarder while keeping the peer-side
// NullEndpoint for the test to inject bytes on and observe what the
// forwarder writes back.
type harness struct {
	peer *face.NullEndpoint
	face *face.Face
}

func newHarness(token uint64) harness {
	peer, side := face.NewNullPair(face.MaxPacketSize)
	return harness{peer: peer, face: face.NewFace(token, side, side)}
}

func (h harness) send(t *testing.T, pkt []byte) {
	t.Helper()
	n, err := h.peer.TrySend(pkt)
	require.NoError(t, err)
	require.Equal(t, len(pkt), n)
}

// forward drives one framing-loop pass for token and fails the test if
// the face was unknown or reported itself disconnected.
func forward(t *testing.T, fwd *fw.Forwarder, token uint64, now time.Time) {
	t.Helper()
	disconnected, err := fwd.TryForwardFromFace(token, now)
	require.NoError(t, err)
	require.False(t, disconnected)
}

func (h harness) recv(t *testing.T) []byte {
	t.Helper()
	buf := make([]byte, face.MaxPacketSize)
	n, err := h.peer.TryRecv(buf)
	require.NoError(t, err)
	return buf[:n]
}

func nonce(b byte) []byte { return []byte{b, b, b, b} }

func buildName(comps ...string) encoding.Name {
	cs := make([]encoding.Component, len(comps))
	for i, c := range comps {
		cs[i] = encoding.NewGenericComponent(c)
	}
	return encoding.EmptyName.Adding(cs...)
}

func TestForwardsInterestToRegisteredRoute(t *testing.T) {
	fwd := fw.NewForwarder(fw.Config{CSCacheDuration: time.Minute})

	consumer := newHarness(1)
	producer := newHarness(2)
	fwd.AddFace(consumer.face)
	fwd.AddFace(producer.face)
	fwd.RegisterRoute(buildName("a"), producer.face.Token, 0)

	it := ndn.Interest{Name: buildName("a"), Nonce: optional.Some(nonce(1))}
	consumer.send(t, it.Bytes())

	now := time.Unix(0, 0)
	forward(t, fwd, consumer.face.Token, now)

	got := producer.recv(t)
	require.NotEmpty(t, got)

	gotTLV, n, err := encoding.DecodeOuter(got)
	require.NoError(t, err)
	require.Equal(t, n, len(got))
	gotInterest, err := ndn.ParseInterest(gotTLV.Value)
	require.NoError(t, err)
	require.True(t, gotInterest.Name.Equal(it.Name))
}

func TestDropsInterestWithNoRoute(t *testing.T) {
	fwd := fw.NewForwarder(fw.Config{CSCacheDuration: time.Minute})

	consumer := newHarness(1)
	producer := newHarness(2)
	fwd.AddFace(consumer.face)
	fwd.AddFace(producer.face)

	it := ndn.Interest{Name: buildName("nowhere"), Nonce: optional.Some(nonce(1))}
	consumer.send(t, it.Bytes())

	forward(t, fwd, consumer.face.Token, time.Unix(0, 0))

	got := producer.recv(t)
	require.Empty(t, got)
}

func TestSatisfiesPendingInterestWithData(t *testing.T) {
	fwd := fw.NewForwarder(fw.Config{CSCacheDuration: time.Minute})

	consumer := newHarness(1)
	producer := newHarness(2)
	fwd.AddFace(consumer.face)
	fwd.AddFace(producer.face)
	fwd.RegisterRoute(buildName("a"), producer.face.Token, 0)

	now := time.Unix(0, 0)
	it := ndn.Interest{Name: buildName("a"), Nonce: optional.Some(nonce(1))}
	consumer.send(t, it.Bytes())
	forward(t, fwd, consumer.face.Token, now)
	producer.recv(t) // drain the forwarded Interest

	d := ndn.Data{
		Name:     buildName("a"),
		Content:  optional.Some([]byte("hello")),
		SigInfo:  ndn.SignatureInfo{SignatureType: ndn.SignatureTypeNone},
		SigValue: nil,
	}
	producer.send(t, d.Bytes())
	forward(t, fwd, producer.face.Token, now)

	got := consumer.recv(t)
	require.NotEmpty(t, got)

	gotTLV, n, err := encoding.DecodeOuter(got)
	require.NoError(t, err)
	require.Equal(t, n, len(got))
	gotData, err := ndn.ParseData(gotTLV.Value)
	require.NoError(t, err)
	require.True(t, gotData.Name.Equal(d.Name))
}

func TestUnsolicitedDataIsNotCached(t *testing.T) {
	fwd := fw.NewForwarder(fw.Config{CSCacheDuration: time.Minute})

	consumer := newHarness(1)
	producer := newHarness(2)
	fwd.AddFace(consumer.face)
	fwd.AddFace(producer.face)
	fwd.RegisterRoute(buildName("nobody-asked"), producer.face.Token, 0)

	d := ndn.Data{
		Name:     buildName("nobody-asked"),
		SigInfo:  ndn.SignatureInfo{SignatureType: ndn.SignatureTypeNone},
		SigValue: nil,
	}
	producer.send(t, d.Bytes())
	forward(t, fwd, producer.face.Token, time.Unix(0, 0))
	require.Empty(t, consumer.recv(t))

	// Had the unsolicited Data been cached, this Interest would be
	// satisfied straight from the consumer's own face instead of being
	// forwarded on toward the registered route.
	it := ndn.Interest{Name: buildName("nobody-asked"), Nonce: optional.Some(nonce(5))}
	consumer.send(t, it.Bytes())
	forward(t, fwd, consumer.face.Token, time.Unix(0, 0))
	require.NotEmpty(t, producer.recv(t))
}

func TestHopLimitOfOneIsDroppedAtLastHop(t *testing.T) {
	fwd := fw.NewForwarder(fw.Config{CSCacheDuration: time.Minute})

	consumer := newHarness(1)
	producer := newHarness(2)
	fwd.AddFace(consumer.face)
	fwd.AddFace(producer.face)
	fwd.RegisterRoute(buildName("a"), producer.face.Token, 0)

	it := ndn.Interest{
		Name:     buildName("a"),
		Nonce:    optional.Some(nonce(1)),
		HopLimit: optional.Some(byte(1)),
	}
	consumer.send(t, it.Bytes())
	forward(t, fwd, consumer.face.Token, time.Unix(0, 0))

	got := producer.recv(t)
	require.Empty(t, got)
}
