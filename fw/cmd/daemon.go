package cmd

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/ndn-go/forwarder/driver"
	"github.com/ndn-go/forwarder/fw/core"
	"github.com/ndn-go/forwarder/fw/face"
	"github.com/ndn-go/forwarder/fw/fw"
	"github.com/ndn-go/forwarder/std/encoding"
)

// pollInterval bounds how long the driver parks between forwarding
// passes when nothing has woken it, the channel-based transports'
// analogue of a blocking read timeout.
const pollInterval = 20 * time.Millisecond

// Daemon wires a fw.Forwarder and driver.Driver to the faces and routes
// described by a core.Config, and owns every listener and goroutine the
// running process needs.
type Daemon struct {
	cfg  *core.Config
	fwd  *fw.Forwarder
	drv  *driver.Driver
	prof *Profiler

	nextToken atomic.Uint64
	newFaces  chan *face.Face

	closers  []func() error
	stopRun  chan struct{}
	doneRun  chan struct{}
	statusSv *http.Server
}

// String satisfies the subsystem argument expected by core.Log calls.
func (d *Daemon) String() string { return "daemon" }

// NewDaemon builds a Daemon from cfg without starting anything yet.
func NewDaemon(cfg *core.Config) *Daemon {
	fwd := fw.NewForwarder(fw.Config{
		CSCacheDuration: time.Duration(cfg.Core.CSCacheDurationMS) * time.Millisecond,
	})
	poller, err := newPlatformPoller()
	if err != nil {
		core.Log.Fatal("daemon", "failed to create poller", "err", err)
	}
	return &Daemon{
		cfg:      cfg,
		fwd:      fwd,
		drv:      driver.New(fwd, poller),
		prof:     NewProfiler(cfg),
		newFaces: make(chan *face.Face, 16),
		stopRun:  make(chan struct{}),
		doneRun:  make(chan struct{}),
	}
}

// Start brings up every configured face and route, starts profiling if
// configured, then launches the forwarding loop on its own goroutine. It
// returns once listeners are bound; forwarding runs asynchronously until
// Stop.
func (d *Daemon) Start() error {
	if err := d.prof.Start(); err != nil {
		return fmt.Errorf("profiler: %w", err)
	}

	faces := make([]*face.Face, len(d.cfg.Faces))
	for i, fc := range d.cfg.Faces {
		f, err := d.openFace(fc)
		var listenerOnly errListenerOnly
		if errors.As(err, &listenerOnly) {
			continue
		}
		if err != nil {
			return fmt.Errorf("face %d (%s): %w", i, fc.Kind, err)
		}
		faces[i] = f
		d.addFace(f)
	}

	for _, r := range d.cfg.Routes {
		if r.FaceIdx < 0 || r.FaceIdx >= len(faces) || faces[r.FaceIdx] == nil {
			return fmt.Errorf("route %q: face index %d has no static face (listener-based faces cannot be routed at startup)", r.Name, r.FaceIdx)
		}
		name, err := encoding.NameFromStr(r.Name)
		if err != nil {
			return fmt.Errorf("route %q: %w", r.Name, err)
		}
		d.fwd.RegisterRoute(name, faces[r.FaceIdx].Token, r.Cost)
	}

	if d.cfg.Core.StatusListen != "" {
		if err := d.startStatusServer(); err != nil {
			return err
		}
	}

	go d.run()
	return nil
}

func (d *Daemon) run() {
	defer close(d.doneRun)
	for {
		select {
		case <-d.stopRun:
			return
		case f := <-d.newFaces:
			d.addFace(f)
		default:
		}
		for _, token := range d.drv.Forward(pollInterval) {
			d.removeFace(token)
		}
	}
}

// Stop closes every listener and face, stops profiling, and waits for
// the forwarding goroutine to exit.
func (d *Daemon) Stop() {
	close(d.stopRun)
	<-d.doneRun

	if d.statusSv != nil {
		d.statusSv.Close()
	}
	for _, c := range d.closers {
		c()
	}
	d.prof.Stop()
}

func (d *Daemon) allocToken() uint64 {
	return d.nextToken.Add(1)
}

// addFace registers f with both the forwarder's trie and the driver's
// readiness mechanisms (poller and/or waker, whichever f's transport
// supports).
func (d *Daemon) addFace(f *face.Face) {
	d.fwd.AddFace(f)
	if err := d.drv.AddFace(f); err != nil {
		core.Log.Warn(d, "failed to register face with poller", "face", f.Token, "err", err)
	}
}

// removeFace reaps a face that Forward reported as disconnected
// (spec.md section 4.6's ShouldClose -> Removed transition): it drops
// the face's OS poll handle, closes its transport if closeable, then
// scrubs it from the forwarder's face list and FIB/PIT state.
func (d *Daemon) removeFace(token uint64) {
	f, ok := d.fwd.Face(token)
	if ok {
		d.drv.RemoveFace(f)
		if c, ok := f.Receiver.(io.Closer); ok {
			c.Close()
		}
	}
	d.fwd.RemoveFace(token)
	core.Log.Info(d, "removed disconnected face", "face", token)
}
