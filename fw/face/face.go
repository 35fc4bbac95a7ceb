// Package face adapts concrete transports (TCP, UDP, Unix, WebSocket,
// WebTransport, and in-process) to the forwarder's non-blocking
// Sender/Receiver contract.
package face

import (
	"errors"
	"sync/atomic"
)

// ErrDisconnected is returned by try_recv/try_send/flush once a
// transport has observed a permanent, sticky disconnect.
var ErrDisconnected = errors.New("face: transport disconnected")

// ErrPacketTooLarge is returned by FillFromTransport when a face's fixed
// receive buffer filled up without ever completing a parseable packet.
var ErrPacketTooLarge = errors.New("face: packet exceeds max size")

// MaxPacketSize bounds a face's receive buffer. A packet whose declared
// length would not fit is reported as an error rather than silently
// dropped or used to grow the buffer without limit.
const MaxPacketSize = 8800

// Receiver is the non-blocking read side of a face. TryRecv writes as
// many bytes as are currently available into dst and returns the count;
// it returns (0, nil) rather than blocking when nothing is ready.
// Once it returns ErrDisconnected it must keep returning it.
type Receiver interface {
	TryRecv(dst []byte) (int, error)
}

// Sender is the non-blocking write side of a face. TrySend may accept
// any prefix of src, including zero bytes, without blocking; callers
// drive it in a loop until all bytes are accepted or it errors. Flush
// forces datagram-style senders to emit a single accumulated datagram.
type Sender interface {
	TrySend(src []byte) (int, error)
	Flush() error
}

// Waker is notified by an in-process producer when data becomes
// available on a face that has no pollable OS handle.
type Waker interface {
	Notify()
}

// Handle is an OS-level readiness handle (e.g. an epoll-registerable
// file descriptor) a Receiver may expose for the driver's poller. Ok is
// false for transports with no such handle (e.g. the null transport),
// which rely on a registered Waker and round-robin polling instead.
type Handle struct {
	FD int
	Ok bool
}

// Pollable is implemented by receivers that can hand the driver an OS
// readiness handle instead of (or in addition to) a waker.
type Pollable interface {
	PollHandle() Handle
}

// Wakable is implemented by receivers that accept a waker registration,
// typically in-process transports with no OS handle to poll.
type Wakable interface {
	RegisterWaker(w Waker)
}

// State is a face's position in the lifecycle spec.md section 4.6
// describes: Active while forwarding normally, ShouldClose once a
// disconnect is observed, Removed once the forwarder's next pass over
// the face has seen ShouldClose and reported the face disconnected.
type State int32

const (
	StateActive State = iota
	StateShouldClose
	StateRemoved
)

// Face binds a face token to its transport halves and framing buffer.
// The receive buffer is a fixed MaxPacketSize allocation, sized once in
// NewFace and never grown or shrunk.
type Face struct {
	Token    uint64
	Receiver Receiver
	Sender   Sender

	state State32

	recvBuf []byte
	recvLen int
}

// State32 is an atomic-backed State, safe to read from the poller
// thread while the forwarding thread transitions it.
type State32 struct {
	v atomic.Int32
}

func (s *State32) Load() State    { return State(s.v.Load()) }
func (s *State32) Store(st State) { s.v.Store(int32(st)) }
func (s *State32) CAS(old, next State) bool {
	return s.v.CompareAndSwap(int32(old), int32(next))
}

// NewFace constructs a Face in the Active state with a fixed-size
// MaxPacketSize receive buffer.
func NewFace(token uint64, r Receiver, s Sender) *Face {
	f := &Face{Token: token, Receiver: r, Sender: s}
	f.recvBuf = make([]byte, MaxPacketSize)
	return f
}

// Pending returns the unconsumed bytes at the front of the receive buffer.
func (f *Face) Pending() []byte {
	return f.recvBuf[:f.recvLen]
}

// Consume drops the first n bytes of the pending buffer, sliding any
// remainder to the front.
func (f *Face) Consume(n int) {
	if n <= 0 {
		return
	}
	remaining := copy(f.recvBuf, f.recvBuf[n:f.recvLen])
	f.recvLen = remaining
}

// FillFromTransport calls TryRecv to append newly available bytes onto
// the pending buffer. It returns ErrPacketTooLarge without reading if the
// fixed-size buffer is already full, since that means no parseable
// packet fit within MaxPacketSize.
func (f *Face) FillFromTransport() (int, error) {
	if f.recvLen == len(f.recvBuf) {
		return 0, ErrPacketTooLarge
	}
	n, err := f.Receiver.TryRecv(f.recvBuf[f.recvLen:])
	f.recvLen += n
	return n, err
}

// MarkShouldClose transitions the face from Active to ShouldClose. It is
// a no-op if the face already left the Active state.
func (f *Face) MarkShouldClose() {
	f.state.CAS(StateActive, StateShouldClose)
}

// State exposes the face's lifecycle state for the forwarder's framing
// loop to inspect and transition.
func (f *Face) State() *State32 {
	return &f.state
}
