package face

import (
	"net"
	"sync"
	"sync/atomic"
)

// UDPFace is a datagram transport: TrySend only buffers bytes, which
// Flush emits as a single UDP datagram, matching spec.md's "datagram-style
// senders buffer bytes until flush" rule.
type UDPFace struct {
	conn *net.UDPConn
	// remote is nil for a connected socket (Dial*), set for an
	// unconnected multicast receive socket that must WriteTo explicitly.
	remote *net.UDPAddr

	mu       sync.Mutex
	writeBuf []byte

	packets      chan []byte
	disconnected atomic.Bool
}

func newUDPFace(conn *net.UDPConn, remote *net.UDPAddr) *UDPFace {
	f := &UDPFace{conn: conn, remote: remote, packets: make(chan []byte, 64)}
	go f.readLoop()
	return f
}

func (f *UDPFace) readLoop() {
	buf := make([]byte, 64*1024)
	for {
		n, _, err := f.conn.ReadFromUDP(buf)
		if n > 0 {
			pkt := make([]byte, n)
			copy(pkt, buf[:n])
			f.packets <- pkt
		}
		if err != nil {
			f.disconnected.Store(true)
			close(f.packets)
			return
		}
	}
}

// DialUDP opens an outbound unicast UDP face connected to addr.
func DialUDP(addr string) (*UDPFace, error) {
	raddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, err
	}
	conn, err := net.DialUDP("udp", nil, raddr)
	if err != nil {
		return nil, err
	}
	return newUDPFace(conn, nil), nil
}

// ListenUDP opens a unicast UDP face bound to addr, receiving datagrams
// from any peer (the forwarder typically pairs this with per-peer FIB
// routes keyed by the first-seen remote address at a higher layer).
func ListenUDP(addr string) (*UDPFace, error) {
	laddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, err
	}
	conn, err := net.ListenUDP("udp", laddr)
	if err != nil {
		return nil, err
	}
	return newUDPFace(conn, nil), nil
}

// ListenMulticastUDP joins group on the named interface (empty for the
// default multicast-capable interface) and returns a face that sends
// back to the group address.
func ListenMulticastUDP(group, ifaceName string) (*UDPFace, error) {
	gaddr, err := net.ResolveUDPAddr("udp", group)
	if err != nil {
		return nil, err
	}

	var ifi *net.Interface
	if ifaceName != "" {
		ifi, err = net.InterfaceByName(ifaceName)
		if err != nil {
			return nil, err
		}
	}

	conn, err := net.ListenMulticastUDP("udp", ifi, gaddr)
	if err != nil {
		return nil, err
	}
	return newUDPFace(conn, gaddr), nil
}

func (f *UDPFace) TryRecv(dst []byte) (int, error) {
	select {
	case pkt, ok := <-f.packets:
		if !ok {
			return 0, ErrDisconnected
		}
		return copy(dst, pkt), nil
	default:
		if f.disconnected.Load() {
			return 0, ErrDisconnected
		}
		return 0, nil
	}
}

// TrySend buffers src in full; the datagram is not actually written
// until Flush.
func (f *UDPFace) TrySend(src []byte) (int, error) {
	if f.disconnected.Load() {
		return 0, ErrDisconnected
	}
	f.mu.Lock()
	f.writeBuf = append(f.writeBuf, src...)
	f.mu.Unlock()
	return len(src), nil
}

// Flush emits the accumulated bytes as a single datagram and clears the buffer.
func (f *UDPFace) Flush() error {
	f.mu.Lock()
	buf := f.writeBuf
	f.writeBuf = nil
	f.mu.Unlock()

	if len(buf) == 0 {
		return nil
	}

	var err error
	if f.remote != nil {
		_, err = f.conn.WriteToUDP(buf, f.remote)
	} else {
		_, err = f.conn.Write(buf)
	}
	if err != nil {
		f.disconnected.Store(true)
		return ErrDisconnected
	}
	return nil
}

// Close shuts down the underlying socket.
func (f *UDPFace) Close() error {
	return f.conn.Close()
}
