//go:build linux

package driver

import (
	"time"

	"golang.org/x/sys/unix"
)

// EpollPoller polls OS file descriptors via Linux epoll. It backs every
// face whose Receiver implements face.Pollable and returns a handle; none
// of the transports in fw/face do, so in practice no fd is added here and
// faces rely on a registered Waker or the driver's round-robin pass.
type EpollPoller struct {
	epfd int
}

// NewEpollPoller creates a fresh epoll instance.
func NewEpollPoller() (*EpollPoller, error) {
	fd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, err
	}
	return &EpollPoller{epfd: fd}, nil
}

// Add registers fd for readability notifications, tagged with token so
// Wait can report which face became ready without a separate fd->token
// lookup.
func (p *EpollPoller) Add(fd int, token uint32) error {
	ev := unix.EpollEvent{Events: unix.EPOLLIN, Fd: int32(token)}
	return unix.EpollCtl(p.epfd, unix.EPOLL_CTL_ADD, fd, &ev)
}

// Remove stops watching fd.
func (p *EpollPoller) Remove(fd int) error {
	return unix.EpollCtl(p.epfd, unix.EPOLL_CTL_DEL, fd, &unix.EpollEvent{})
}

// Wait blocks for up to timeout and returns the tokens of every fd
// epoll reported readable.
func (p *EpollPoller) Wait(timeout time.Duration) ([]uint32, error) {
	events := make([]unix.EpollEvent, 64)
	ms := int(timeout / time.Millisecond)
	n, err := unix.EpollWait(p.epfd, events, ms)
	if err != nil {
		if err == unix.EINTR {
			return nil, nil
		}
		return nil, err
	}
	tokens := make([]uint32, n)
	for i := 0; i < n; i++ {
		tokens[i] = uint32(events[i].Fd)
	}
	return tokens, nil
}

// Close releases the epoll instance's file descriptor.
func (p *EpollPoller) Close() error {
	return unix.Close(p.epfd)
}
