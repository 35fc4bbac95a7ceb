//go:build !tinygo

package face

import (
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/quic-go/quic-go"
	"github.com/quic-go/quic-go/http3"
	"github.com/quic-go/webtransport-go"
)

// WebTransportListenerConfig configures an HTTP/3 WebTransport listener.
type WebTransportListenerConfig struct {
	Bind    string
	Port    uint16
	TLSCert string
	TLSKey  string
}

func (cfg WebTransportListenerConfig) addr() string {
	return net.JoinHostPort(cfg.Bind, strconv.FormatUint(uint64(cfg.Port), 10))
}

// URL returns the https:// URL clients dial to reach this listener.
func (cfg WebTransportListenerConfig) URL() *url.URL {
	return &url.URL{Scheme: "https", Host: cfg.addr()}
}

// WebTransportListener accepts inbound HTTP/3 WebTransport sessions and
// hands each accepted session to Accept as a WebTransportFace.
type WebTransportListener struct {
	mux    *http.ServeMux
	server *webtransport.Server
	faces  chan *WebTransportFace
}

// NewWebTransportListener builds a listener bound to cfg, serving the
// NDN WebTransport endpoint at "/ndn".
func NewWebTransportListener(cfg WebTransportListenerConfig) (*WebTransportListener, error) {
	cert, err := tls.LoadX509KeyPair(cfg.TLSCert, cfg.TLSKey)
	if err != nil {
		return nil, fmt.Errorf("tls.LoadX509KeyPair(%s %s): %w", cfg.TLSCert, cfg.TLSKey, err)
	}

	l := &WebTransportListener{
		mux:   http.NewServeMux(),
		faces: make(chan *WebTransportFace, 16),
	}
	l.mux.HandleFunc("/ndn", l.handler)

	l.server = &webtransport.Server{
		H3: http3.Server{
			Addr: cfg.addr(),
			TLSConfig: &tls.Config{
				Certificates: []tls.Certificate{cert},
				MinVersion:   tls.VersionTLS12,
			},
			QUICConfig: &quic.Config{
				MaxIdleTimeout:          60 * time.Second,
				KeepAlivePeriod:         30 * time.Second,
				DisablePathMTUDiscovery: true,
			},
			Handler: l.mux,
		},
		CheckOrigin: func(r *http.Request) bool { return true },
	}

	return l, nil
}

// Run blocks serving the listener until it is closed. Callers typically
// run it on its own goroutine and consume Accept() on another.
func (l *WebTransportListener) Run() error {
	return l.server.ListenAndServe()
}

// Accept blocks until a new WebTransport session has been upgraded.
func (l *WebTransportListener) Accept() *WebTransportFace {
	return <-l.faces
}

func (l *WebTransportListener) handler(rw http.ResponseWriter, r *http.Request) {
	session, err := l.server.Upgrade(rw, r)
	if err != nil {
		return
	}
	l.faces <- NewWebTransportFace(session)
}

// Close stops the listener.
func (l *WebTransportListener) Close() error {
	return l.server.Close()
}
