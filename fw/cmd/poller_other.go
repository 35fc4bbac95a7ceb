//go:build !linux

package cmd

import "github.com/ndn-go/forwarder/driver"

// newPlatformPoller falls back to the waker-only poller off Linux.
func newPlatformPoller() (driver.Poller, error) {
	return driver.NewPollPoller()
}
