package driver_test

import (
	"testing"
	"time"

	"github.com/ndn-go/forwarder/driver"
	"github.com/ndn-go/forwarder/fw/face"
	"github.com/ndn-go/forwarder/fw/fw"
	"github.com/ndn-go/forwarder/std/encoding"
	"github.com/ndn-go/forwarder/std/ndn"
	"github.com/ndn-go/forwarder/std/types/optional"
	"github.com/stretchr/testify/require"
)

// fakePoller never discovers readiness on its own; it only records how
// often the driver parked in it, so tests can tell the wake-queue path
// apart from the round-robin fallback.
type fakePoller struct {
	waits   int
	added   []int
	removed []int
}

func (p *fakePoller) Add(fd int, token uint32) error {
	p.added = append(p.added, fd)
	return nil
}
func (p *fakePoller) Remove(fd int) error {
	p.removed = append(p.removed, fd)
	return nil
}
func (p *fakePoller) Wait(time.Duration) ([]uint32, error) {
	p.waits++
	return nil, nil
}
func (p *fakePoller) Close() error { return nil }

func buildName(comps ...string) encoding.Name {
	cs := make([]encoding.Component, len(comps))
	for i, c := range comps {
		cs[i] = encoding.NewGenericComponent(c)
	}
	return encoding.EmptyName.Adding(cs...)
}

func TestForwardDrainsWakeQueueWithoutRoundRobin(t *testing.T) {
	fwd := fw.NewForwarder(fw.Config{CSCacheDuration: time.Minute})

	consumerPeer, consumerSide := face.NewNullPair(face.MaxPacketSize)
	producerPeer, producerSide := face.NewNullPair(face.MaxPacketSize)
	consumer := face.NewFace(1, consumerSide, consumerSide)
	producer := face.NewFace(2, producerSide, producerSide)
	fwd.AddFace(consumer)
	fwd.AddFace(producer)
	fwd.RegisterRoute(buildName("a"), producer.Token, 0)

	it := ndn.Interest{Name: buildName("a"), Nonce: optional.Some([]byte{1, 1, 1, 1})}
	_, err := consumerPeer.TrySend(it.Bytes())
	require.NoError(t, err)

	poller := &fakePoller{}
	d := driver.New(fwd, poller)
	d.Waker(consumer.Token).Notify()

	d.Forward(time.Millisecond)

	buf := make([]byte, face.MaxPacketSize)
	n, err := producerPeer.TryRecv(buf)
	require.NoError(t, err)
	require.Greater(t, n, 0)

	// The wake queue had work, so the poller should not have been
	// consulted for this cycle.
	require.Equal(t, 0, poller.waits)
}

// fakePollable is a Receiver that also exposes a poll handle, standing in
// for a socket-backed transport so AddFace's wiring can be exercised
// without an OS-backed poller.
type fakePollable struct {
	fd int
}

func (f *fakePollable) TryRecv(dst []byte) (int, error) { return 0, nil }
func (f *fakePollable) PollHandle() face.Handle         { return face.Handle{FD: f.fd, Ok: true} }

func TestAddFaceRegistersPollHandle(t *testing.T) {
	fwd := fw.NewForwarder(fw.Config{CSCacheDuration: time.Minute})
	poller := &fakePoller{}
	d := driver.New(fwd, poller)

	recv := &fakePollable{fd: 7}
	_, sendSide := face.NewNullPair(face.MaxPacketSize)
	f := face.NewFace(3, recv, sendSide)

	require.NoError(t, d.AddFace(f))
	require.Equal(t, []int{7}, poller.added)

	d.RemoveFace(f)
	require.Equal(t, []int{7}, poller.removed)
}

func TestForwardReportsDisconnectedFaceAndStopsRepolling(t *testing.T) {
	fwd := fw.NewForwarder(fw.Config{CSCacheDuration: time.Minute})
	_, side := face.NewNullPair(face.MaxPacketSize)
	f := face.NewFace(1, side, side)
	fwd.AddFace(f)

	poller := &fakePoller{}
	d := driver.New(fwd, poller)

	f.MarkShouldClose()
	disconnected := d.Forward(time.Millisecond)
	require.Equal(t, []uint64{f.Token}, disconnected)

	// Until the caller reaps it, the forwarder keeps reporting the same
	// face disconnected on every pass instead of touching its dead
	// transport again.
	disconnected = d.Forward(time.Millisecond)
	require.Equal(t, []uint64{f.Token}, disconnected)

	fwd.RemoveFace(f.Token)
	d.RemoveFace(f)
	require.Equal(t, 0, fwd.NumFaces())

	disconnected = d.Forward(time.Millisecond)
	require.Empty(t, disconnected)
}

func TestForwardFallsBackToRoundRobinWhenIdle(t *testing.T) {
	fwd := fw.NewForwarder(fw.Config{CSCacheDuration: time.Minute})
	_, side := face.NewNullPair(face.MaxPacketSize)
	fwd.AddFace(face.NewFace(1, side, side))

	poller := &fakePoller{}
	d := driver.New(fwd, poller)

	d.Forward(time.Millisecond)

	require.Equal(t, 1, poller.waits)
}
