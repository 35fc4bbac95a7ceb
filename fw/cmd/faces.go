package cmd

import (
	"fmt"
	"net"
	"net/http"
	"strconv"

	"github.com/ndn-go/forwarder/fw/core"
	"github.com/ndn-go/forwarder/fw/face"
)

// openFace brings up the transport described by fc and wraps it as a
// Face carrying a freshly allocated token. Listener-based kinds (tcp,
// unix, websocket) additionally spawn an accept loop that feeds newly
// connected peers into d.newFaces for the run loop to pick up.
func (d *Daemon) openFace(fc FaceConfig) (*face.Face, error) {
	switch fc.Kind {
	case "tcp":
		ln, err := face.ListenTCP(fc.Listen)
		if err != nil {
			return nil, err
		}
		d.closers = append(d.closers, ln.Close)
		go d.acceptTCP(ln)
		return nil, errListenerOnly{kind: fc.Kind}

	case "unix":
		ln, err := face.ListenUnix(fc.Listen)
		if err != nil {
			return nil, err
		}
		d.closers = append(d.closers, ln.Close)
		go d.acceptUnix(ln)
		return nil, errListenerOnly{kind: fc.Kind}

	case "udp":
		uf, err := face.ListenUDP(fc.Listen)
		if err != nil {
			return nil, err
		}
		d.closers = append(d.closers, uf.Close)
		return face.NewFace(d.allocToken(), uf, uf), nil

	case "udp-multicast":
		uf, err := face.ListenMulticastUDP(fc.Group, fc.Listen)
		if err != nil {
			return nil, err
		}
		d.closers = append(d.closers, uf.Close)
		return face.NewFace(d.allocToken(), uf, uf), nil

	case "null":
		a, _ := face.NewNullPair(face.MaxPacketSize)
		return face.NewFace(d.allocToken(), a, a), nil

	case "websocket":
		mux := http.NewServeMux()
		mux.HandleFunc("/ndn", func(w http.ResponseWriter, r *http.Request) {
			wf, err := face.UpgradeWebSocket(w, r)
			if err != nil {
				core.Log.Warn("daemon", "websocket upgrade failed", "err", err)
				return
			}
			d.newFaces <- face.NewFace(d.allocToken(), wf, wf)
		})
		srv := &http.Server{Addr: fc.Listen, Handler: mux}
		d.closers = append(d.closers, srv.Close)
		go srv.ListenAndServe()
		return nil, errListenerOnly{kind: fc.Kind}

	case "webtransport":
		host, portStr, err := net.SplitHostPort(fc.Listen)
		if err != nil {
			return nil, fmt.Errorf("webtransport listen address: %w", err)
		}
		port, err := strconv.ParseUint(portStr, 10, 16)
		if err != nil {
			return nil, fmt.Errorf("webtransport listen port: %w", err)
		}
		ln, err := face.NewWebTransportListener(face.WebTransportListenerConfig{
			Bind:    host,
			Port:    uint16(port),
			TLSCert: fc.TLSCert,
			TLSKey:  fc.TLSKey,
		})
		if err != nil {
			return nil, err
		}
		d.closers = append(d.closers, ln.Close)
		go func() {
			if err := ln.Run(); err != nil {
				core.Log.Debug("daemon", "webtransport listener stopped", "err", err)
			}
		}()
		go d.acceptWebTransport(ln)
		return nil, errListenerOnly{kind: fc.Kind}

	default:
		return nil, fmt.Errorf("unknown face kind %q", fc.Kind)
	}
}

// errListenerOnly signals that openFace started a listener rather than
// returning a single Face directly; the caller should skip AddFace for
// this configuration entry since faces arrive later through d.newFaces.
type errListenerOnly struct{ kind string }

func (e errListenerOnly) Error() string { return "face kind " + e.kind + " is listener-only" }

func (d *Daemon) acceptTCP(ln *face.TCPListener) {
	for {
		tf, err := ln.Accept()
		if err != nil {
			return
		}
		d.newFaces <- face.NewFace(d.allocToken(), tf, tf)
	}
}

func (d *Daemon) acceptUnix(ln *face.UnixListener) {
	for {
		uf, err := ln.Accept()
		if err != nil {
			return
		}
		d.newFaces <- face.NewFace(d.allocToken(), uf, uf)
	}
}

func (d *Daemon) acceptWebTransport(ln *face.WebTransportListener) {
	for {
		select {
		case <-d.stopRun:
			return
		default:
		}
		wf := ln.Accept()
		if wf == nil {
			return
		}
		d.newFaces <- face.NewFace(d.allocToken(), wf, wf)
	}
}
