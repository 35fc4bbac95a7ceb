//go:build !tinygo

package face

import (
	"sync/atomic"

	"github.com/quic-go/webtransport-go"
)

// WebTransportFace carries one NDN packet per QUIC datagram, for
// browser-origin producers and consumers connecting over WebTransport.
type WebTransportFace struct {
	session *webtransport.Session

	messages     chan []byte
	leftover     []byte
	disconnected atomic.Bool
}

// NewWebTransportFace wraps an already-established WebTransport session.
func NewWebTransportFace(session *webtransport.Session) *WebTransportFace {
	f := &WebTransportFace{session: session, messages: make(chan []byte, 64)}
	go f.readLoop()
	return f
}

func (f *WebTransportFace) readLoop() {
	ctx := f.session.Context()
	for {
		msg, err := f.session.ReceiveDatagram(ctx)
		if err != nil {
			f.disconnected.Store(true)
			close(f.messages)
			return
		}
		f.messages <- msg
	}
}

func (f *WebTransportFace) TryRecv(dst []byte) (int, error) {
	n := 0
	if len(f.leftover) > 0 {
		n = copy(dst, f.leftover)
		f.leftover = f.leftover[n:]
		if n == len(dst) {
			return n, nil
		}
	}

	select {
	case msg, ok := <-f.messages:
		if !ok {
			if n > 0 {
				return n, nil
			}
			return 0, ErrDisconnected
		}
		m := copy(dst[n:], msg)
		if m < len(msg) {
			f.leftover = msg[m:]
		}
		return n + m, nil
	default:
		if f.disconnected.Load() && n == 0 {
			return 0, ErrDisconnected
		}
		return n, nil
	}
}

// TrySend emits src as a single datagram immediately: WebTransport
// datagrams have no separate flush step, unlike TCP/UDP streams.
func (f *WebTransportFace) TrySend(src []byte) (int, error) {
	if f.disconnected.Load() {
		return 0, ErrDisconnected
	}
	if err := f.session.SendDatagram(src); err != nil {
		f.disconnected.Store(true)
		return 0, ErrDisconnected
	}
	return len(src), nil
}

// Flush is a no-op: SendDatagram already placed the datagram on the wire.
func (f *WebTransportFace) Flush() error {
	if f.disconnected.Load() {
		return ErrDisconnected
	}
	return nil
}

// Close tears down the WebTransport session.
func (f *WebTransportFace) Close() error {
	return f.session.CloseWithError(0, "")
}
