package face

import "sync"

// ringBuffer is a fixed-capacity mutex-protected byte ring, the backing
// store for an in-process face endpoint. It never blocks: writes past
// capacity are dropped (callers of the null transport are expected to
// size it for their workload) and reads return whatever is available.
type ringBuffer struct {
	mu   sync.Mutex
	buf  []byte
	r, w int
	full bool

	waker Waker
}

func newRingBuffer(capacity int) *ringBuffer {
	return &ringBuffer{buf: make([]byte, capacity)}
}

func (rb *ringBuffer) len() int {
	if rb.full {
		return len(rb.buf)
	}
	if rb.w >= rb.r {
		return rb.w - rb.r
	}
	return len(rb.buf) - rb.r + rb.w
}

// write appends as many bytes of p as fit, returning the count written.
func (rb *ringBuffer) write(p []byte) int {
	rb.mu.Lock()
	n := 0
	for _, b := range p {
		if rb.full {
			break
		}
		rb.buf[rb.w] = b
		rb.w = (rb.w + 1) % len(rb.buf)
		if rb.w == rb.r {
			rb.full = true
		}
		n++
	}
	waker := rb.waker
	rb.mu.Unlock()

	if n > 0 && waker != nil {
		waker.Notify()
	}
	return n
}

// read copies as many available bytes into dst as fit, returning the count.
func (rb *ringBuffer) read(dst []byte) int {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	n := 0
	for n < len(dst) && (rb.full || rb.r != rb.w) {
		dst[n] = rb.buf[rb.r]
		rb.r = (rb.r + 1) % len(rb.buf)
		rb.full = false
		n++
	}
	return n
}

func (rb *ringBuffer) registerWaker(w Waker) {
	rb.mu.Lock()
	rb.waker = w
	rb.mu.Unlock()
}

// NullEndpoint is one half of an in-process face pair: it receives
// whatever the peer endpoint sent, and sends directly into the peer's
// receive ring. Construct a connected pair with NewNullPair.
type NullEndpoint struct {
	recv   *ringBuffer
	send   *ringBuffer
	closed bool
}

// NewNullPair builds two connected in-process endpoints, each with its
// own fixed-capacity receive ring of the given size.
func NewNullPair(bufSize int) (a, b *NullEndpoint) {
	ab := newRingBuffer(bufSize)
	ba := newRingBuffer(bufSize)
	return &NullEndpoint{recv: ab, send: ba}, &NullEndpoint{recv: ba, send: ab}
}

func (e *NullEndpoint) TryRecv(dst []byte) (int, error) {
	if e.closed {
		return 0, ErrDisconnected
	}
	return e.recv.read(dst), nil
}

func (e *NullEndpoint) TrySend(src []byte) (int, error) {
	if e.closed {
		return 0, ErrDisconnected
	}
	return e.send.write(src), nil
}

// Flush is a no-op: the null transport has no internal datagram buffer,
// every TrySend is already visible to the peer immediately.
func (e *NullEndpoint) Flush() error {
	if e.closed {
		return ErrDisconnected
	}
	return nil
}

// RegisterWaker installs w to be notified whenever the peer writes into
// this endpoint's receive ring, satisfying face.Wakable for transports
// with no OS-pollable handle.
func (e *NullEndpoint) RegisterWaker(w Waker) {
	e.recv.registerWaker(w)
}

// Close marks the endpoint permanently disconnected.
func (e *NullEndpoint) Close() {
	e.closed = true
}
