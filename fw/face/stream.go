package face

import (
	"io"
	"net"
	"sync/atomic"
	"time"

	ioutils "github.com/ndn-go/forwarder/std/utils/io"
)

// tryRecvPollInterval bounds how long a stream write's deadline is set
// to, so a stalled peer never blocks the forwarding thread for longer
// than this before the write returns its partial progress.
const tryRecvPollInterval = 2 * time.Millisecond

// streamConn adapts any net.Conn (TCP or Unix domain stream) to the
// Sender/Receiver contract. Reads happen on a dedicated goroutine
// feeding a small channel of chunks, since net.Conn.Read blocks; writes
// are staged through a TimedWriter so a multi-TrySend packet coalesces
// into one underlying conn.Write at Flush, with the write deadline
// applied on the TimedWriter's actual flush to the socket.
type streamConn struct {
	conn net.Conn
	tw   *ioutils.TimedWriter

	chunks   chan []byte
	leftover []byte

	disconnected atomic.Bool
}

// deadlineWriter applies a fresh write deadline to conn before every
// underlying Write, so a TimedWriter flush never blocks the forwarding
// thread on a stalled peer.
type deadlineWriter struct {
	conn    net.Conn
	timeout time.Duration
}

func (d *deadlineWriter) Write(p []byte) (int, error) {
	d.conn.SetWriteDeadline(time.Now().Add(d.timeout))
	return d.conn.Write(p)
}

func newStreamConn(conn net.Conn) *streamConn {
	tw := ioutils.NewTimedWriter(&deadlineWriter{conn: conn, timeout: tryRecvPollInterval}, MaxPacketSize)
	s := &streamConn{conn: conn, tw: tw, chunks: make(chan []byte, 64)}
	go s.readLoop()
	return s
}

func (s *streamConn) readLoop() {
	buf := make([]byte, 64*1024)
	for {
		n, err := s.conn.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			s.chunks <- chunk
		}
		if err != nil {
			s.disconnected.Store(true)
			close(s.chunks)
			return
		}
	}
}

func (s *streamConn) TryRecv(dst []byte) (int, error) {
	n := 0
	if len(s.leftover) > 0 {
		n = copy(dst, s.leftover)
		s.leftover = s.leftover[n:]
		if n == len(dst) {
			return n, nil
		}
	}

	select {
	case chunk, ok := <-s.chunks:
		if !ok {
			if n > 0 {
				return n, nil
			}
			return 0, ErrDisconnected
		}
		m := copy(dst[n:], chunk)
		if m < len(chunk) {
			s.leftover = chunk[m:]
		}
		return n + m, nil
	default:
		if s.disconnected.Load() && n == 0 {
			return 0, ErrDisconnected
		}
		return n, nil
	}
}

func (s *streamConn) TrySend(src []byte) (int, error) {
	if s.disconnected.Load() {
		return 0, ErrDisconnected
	}
	n, err := s.tw.Write(src)
	if err != nil {
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return n, nil
		}
		if err == io.EOF {
			s.disconnected.Store(true)
			return n, ErrDisconnected
		}
		s.disconnected.Store(true)
		return n, ErrDisconnected
	}
	return n, nil
}

// Flush pushes any bytes staged by TrySend out to the socket, framing
// one outgoing packet's writes into a single conn.Write where possible.
func (s *streamConn) Flush() error {
	if s.disconnected.Load() {
		return ErrDisconnected
	}
	if err := s.tw.Flush(); err != nil {
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return nil
		}
		s.disconnected.Store(true)
		return ErrDisconnected
	}
	return nil
}

func (s *streamConn) Close() error {
	return s.conn.Close()
}
