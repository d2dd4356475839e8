package link

import (
	"bytes"
	"fmt"
	"os"
	"syscall"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"
)

const clonePath = "/dev/net/tun"

// DefaultName is the interface name requested when the caller passes none.
const DefaultName = "tap1"

// ifreq mirrors struct ifreq; the kernel copies the full 40 bytes on
// TUNSETIFF, so the struct must be padded out to that size.
type ifreq struct {
	ifrName  [16]byte
	ifrFlags int16
	pad      [22]byte
}

// Tap is a TAP interface standing in for the hardware NIC.
type Tap struct {
	file *os.File
	name string
}

// NewTap acquires a TAP interface bound to name, in no-extra-framing mode.
// The descriptor is opened with O_NONBLOCK requested; the kernel is free to
// hand back a blocking descriptor, which is why the receive path bounds
// reads with WaitReadable rather than relying on non-blocking reads.
func NewTap(name string) (*Tap, error) {
	if name == "" {
		name = DefaultName
	}

	file, err := os.OpenFile(clonePath, os.O_RDWR|syscall.O_NONBLOCK, 0)
	if err != nil {
		return nil, fmt.Errorf("open error: %s", err.Error())
	}

	ifr := ifreq{}
	copy(ifr.ifrName[:len(ifr.ifrName)-1], name)
	ifr.ifrFlags = int16(unix.IFF_TAP | unix.IFF_NO_PI)

	_, _, sysErr := syscall.Syscall(syscall.SYS_IOCTL, file.Fd(), uintptr(unix.TUNSETIFF), uintptr(unsafe.Pointer(&ifr)))
	if sysErr != 0 {
		file.Close()
		return nil, fmt.Errorf("ioctl error: %s", sysErr.Error())
	}

	return &Tap{
		file: file,
		name: ifrName(&ifr),
	}, nil
}

// ifrName reads back the interface name the kernel actually assigned.
func ifrName(ifr *ifreq) string {
	if i := bytes.IndexByte(ifr.ifrName[:], 0); i >= 0 {
		return string(ifr.ifrName[:i])
	}
	return string(ifr.ifrName[:])
}

// Name returns the interface name assigned by the kernel.
func (t *Tap) Name() string {
	return t.name
}

// Close closes the TAP device.
func (t *Tap) Close() error {
	return t.file.Close()
}

// Read reads one frame from the TAP device. A zero-length transfer never
// reaches the device.
func (t *Tap) Read(buf []byte) (int, error) {
	if len(buf) == 0 {
		return 0, nil
	}

	n, _, sysErr := syscall.Syscall(syscall.SYS_READ, t.file.Fd(), uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	if sysErr != 0 {
		return 0, fmt.Errorf("read error: %s", sysErr.Error())
	}

	return int(n), nil
}

// Write writes one frame to the TAP device. A zero-length transmit is valid
// and never reaches the device.
func (t *Tap) Write(buf []byte) (int, error) {
	if len(buf) == 0 {
		return 0, nil
	}

	n, _, sysErr := syscall.Syscall(syscall.SYS_WRITE, t.file.Fd(), uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	if sysErr != 0 {
		return 0, fmt.Errorf("write error: %s", sysErr.Error())
	}

	return int(n), nil
}

// WaitReadable blocks until the device has inbound data or the timeout
// elapses. The fd set is rebuilt on every call because select mutates it.
func (t *Tap) WaitReadable(timeout time.Duration) (bool, error) {
	fd := int(t.file.Fd())

	var set unix.FdSet
	set.Zero()
	set.Set(fd)
	tv := unix.NsecToTimeval(timeout.Nanoseconds())

	n, err := unix.Select(fd+1, &set, nil, nil, &tv)
	if err != nil {
		return false, fmt.Errorf("select error: %s", err.Error())
	}

	return n > 0, nil
}
