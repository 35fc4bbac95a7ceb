//go:build !linux

package driver

import "time"

// PollPoller is the waker-only fallback, built on non-Linux platforms
// only. It never discovers
// readiness itself -- Wait just sleeps out the timeout -- so faces
// depend entirely on their registered Waker pushing onto the driver's
// wake queue, matching spec.md section 4.7's "platforms without a
// poller degrade to pure waker-based wakeups."
type PollPoller struct{}

// NewPollPoller builds the no-op fallback poller.
func NewPollPoller() (*PollPoller, error) { return &PollPoller{}, nil }

func (p *PollPoller) Add(fd int, token uint32) error { return nil }
func (p *PollPoller) Remove(fd int) error            { return nil }

func (p *PollPoller) Wait(timeout time.Duration) ([]uint32, error) {
	time.Sleep(timeout)
	return nil, nil
}

func (p *PollPoller) Close() error { return nil }
