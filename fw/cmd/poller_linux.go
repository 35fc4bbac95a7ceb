//go:build linux

package cmd

import "github.com/ndn-go/forwarder/driver"

// newPlatformPoller builds the real epoll-backed poller on Linux.
func newPlatformPoller() (driver.Poller, error) {
	return driver.NewEpollPoller()
}
