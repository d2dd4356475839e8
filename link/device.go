package link

import "time"

// NetDevice is the I/O handle the driver paths talk to. The production
// deployment backs it with real NIC hardware; this emulation backs it with a
// TAP device.
type NetDevice interface {
	Close() error
	Read([]byte) (int, error)
	Write([]byte) (int, error)
	WaitReadable(timeout time.Duration) (bool, error)
	Name() string
}
