package face

import (
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/gorilla/websocket"
)

// WebSocketFace carries one NDN packet per WebSocket binary message.
// TryRecv drains a small internal queue fed by a read goroutine so the
// blocking gorilla/websocket API stays non-blocking from the
// forwarder's point of view.
type WebSocketFace struct {
	conn *websocket.Conn

	mu       sync.Mutex
	writeBuf []byte

	messages     chan []byte
	leftover     []byte
	disconnected atomic.Bool
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  64 * 1024,
	WriteBufferSize: 64 * 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// UpgradeWebSocket promotes an inbound HTTP request to a WebSocket
// connection and wraps it as a face.
func UpgradeWebSocket(w http.ResponseWriter, r *http.Request) (*WebSocketFace, error) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return nil, err
	}
	return newWebSocketFace(conn), nil
}

// DialWebSocket opens an outbound WebSocket face to url (e.g. "ws://host:port/ndn").
func DialWebSocket(url string) (*WebSocketFace, error) {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, err
	}
	return newWebSocketFace(conn), nil
}

func newWebSocketFace(conn *websocket.Conn) *WebSocketFace {
	f := &WebSocketFace{conn: conn, messages: make(chan []byte, 64)}
	go f.readLoop()
	return f
}

func (f *WebSocketFace) readLoop() {
	for {
		typ, msg, err := f.conn.ReadMessage()
		if err != nil {
			f.disconnected.Store(true)
			close(f.messages)
			return
		}
		if typ == websocket.BinaryMessage {
			f.messages <- msg
		}
	}
}

func (f *WebSocketFace) TryRecv(dst []byte) (int, error) {
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

// TrySend buffers src; Flush emits it as a single binary message.
func (f *WebSocketFace) TrySend(src []byte) (int, error) {
	if f.disconnected.Load() {
		return 0, ErrDisconnected
	}
	f.mu.Lock()
	f.writeBuf = append(f.writeBuf, src...)
	f.mu.Unlock()
	return len(src), nil
}

// Flush writes the accumulated bytes as one WebSocket binary message.
func (f *WebSocketFace) Flush() error {
	f.mu.Lock()
	buf := f.writeBuf
	f.writeBuf = nil
	f.mu.Unlock()

	if len(buf) == 0 {
		return nil
	}
	if err := f.conn.WriteMessage(websocket.BinaryMessage, buf); err != nil {
		f.disconnected.Store(true)
		return ErrDisconnected
	}
	return nil
}

// Close closes the underlying WebSocket connection.
func (f *WebSocketFace) Close() error {
	return f.conn.Close()
}
