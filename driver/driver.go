// Package driver implements the blocking layer above fw.Forwarder
// (spec.md section 4.7): a single forward(timeout) entry point that
// parks the calling goroutine until a face is ready, then drives the
// forwarder's per-face framing loop for it. Suspension happens only
// inside a Poller's Wait call -- everything else in the forwarder
// remains non-blocking, matching spec.md section 5's single-threaded
// cooperative model.
package driver

import (
	"time"

	"github.com/ndn-go/forwarder/fw/face"
	"github.com/ndn-go/forwarder/fw/fw"
	"github.com/ndn-go/forwarder/std/types/lockfree"
)

// Poller is the readiness backend a Driver polls between forwarding
// passes. Add/Remove register or drop a face's OS-pollable file
// descriptor; Wait blocks up to timeout and returns the tokens of faces
// observed ready, or none if nothing became ready in time.
type Poller interface {
	Add(fd int, token uint32) error
	Remove(fd int) error
	Wait(timeout time.Duration) ([]uint32, error)
	Close() error
}

// Driver owns the forwarder, the OS-level poller, and the lock-free
// wake queue that in-process face producers push their token onto.
// Exactly one goroutine should call Forward in a loop.
type Driver struct {
	fwd    *fw.Forwarder
	poller Poller
	wake   *lockfree.Queue[uint64]
}

// New builds a Driver over fwd, polling readiness through poller.
func New(fwd *fw.Forwarder, poller Poller) *Driver {
	return &Driver{fwd: fwd, poller: poller, wake: lockfree.NewQueue[uint64]()}
}

// Waker returns a face.Waker that, when notified, pushes token onto the
// driver's wake queue -- the mechanism by which an in-process producer
// (spec.md section 5) signals new data without an OS-pollable handle.
func (d *Driver) Waker(token uint64) face.Waker {
	return &tokenWaker{queue: d.wake, token: token}
}

type tokenWaker struct {
	queue *lockfree.Queue[uint64]
	token uint64
}

func (w *tokenWaker) Notify() { w.queue.Push(w.token) }

// AddFace wires f into whichever readiness mechanism its Receiver
// supports: a Pollable hands the driver an OS-level handle registered
// with the poller, while a Wakable is given a Waker that feeds f's
// token onto the wake queue from any goroutine. A Receiver supporting
// neither relies purely on the round-robin pass in Forward.
func (d *Driver) AddFace(f *face.Face) error {
	if w, ok := f.Receiver.(face.Wakable); ok {
		w.RegisterWaker(d.Waker(f.Token))
	}
	if p, ok := f.Receiver.(face.Pollable); ok {
		if h := p.PollHandle(); h.Ok {
			if err := d.poller.Add(h.FD, uint32(f.Token)); err != nil {
				return err
			}
		}
	}
	return nil
}

// RemoveFace drops f's OS-pollable handle, if it had one, from the
// poller. It is a no-op for faces that were never added to it.
func (d *Driver) RemoveFace(f *face.Face) {
	if p, ok := f.Receiver.(face.Pollable); ok {
		if h := p.PollHandle(); h.Ok {
			d.poller.Remove(h.FD)
		}
	}
}

// Forward runs one cycle of the driver contract: drain whatever tokens
// are already queued (per-face order preserved, since Queue is FIFO) and
// return. Only when the queue was empty does it fall back to a single
// round-robin pass across all faces and then park in the poller for up
// to timeout, servicing whatever faces it reports ready. Cancellation is timeout-only: there
// is no separate cancel path, matching spec.md section 5.
//
// It returns the tokens of any faces that surfaced FaceDisconnected
// (spec.md section 4.7) during this cycle -- the caller is expected to
// reap each one with Forwarder.RemoveFace and Driver.RemoveFace before
// the next call, or the forwarder keeps reporting it disconnected
// forever without ever being asked to let it go.
func (d *Driver) Forward(timeout time.Duration) []uint64 {
	var disconnected []uint64

	now := time.Now()
	drained := false
	for {
		token, ok := d.wake.Pop()
		if !ok {
			break
		}
		drained = true
		if dead, err := d.fwd.TryForwardFromFace(token, now); err == nil && dead {
			disconnected = append(disconnected, token)
		}
	}
	if drained {
		return disconnected
	}
	disconnected = append(disconnected, d.fwd.TryForwardFromAnyFace(now)...)

	ready, err := d.poller.Wait(timeout)
	if err != nil {
		return disconnected
	}
	now = time.Now()
	for _, token := range ready {
		if dead, err := d.fwd.TryForwardFromFace(uint64(token), now); err == nil && dead {
			disconnected = append(disconnected, uint64(token))
		}
	}
	return disconnected
}
