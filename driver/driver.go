package driver

import (
	"fmt"
	"sync"
	"time"

	"github.com/podhrmic/rustwall/link"
	"github.com/podhrmic/rustwall/shm"
)

const (
	DefaultName       = "tap1"
	DefaultBufferSize = 65535
	DefaultRxTimeout  = 10 * time.Second
)

// Config carries the deployment-specific knobs of the emulated driver.
type Config struct {
	// Name is the TAP interface name to request.
	Name string
	// BufferSize is the capacity of each shared region.
	BufferSize int
	// RxTimeout bounds the wait for inbound data in Rx.
	RxTimeout time.Duration
}

// Driver is the emulated Ethernet driver boundary: one device handle, one
// shared buffer pair, and the transmit/receive paths moving bytes between
// them. It is created at process start and torn down at process exit.
type Driver struct {
	cfg  Config
	bufs *shm.Pair

	initMu      sync.Mutex
	initialized bool
	dev         link.NetDevice

	// openDevice acquires the underlying device; swapped out in tests.
	openDevice func() (link.NetDevice, error)
}

// New allocates the shared buffers and prepares the driver. The device is
// acquired lazily on the first Tx, Rx or Init call.
func New(cfg Config) *Driver {
	if cfg.Name == "" {
		cfg.Name = DefaultName
	}
	if cfg.BufferSize == 0 {
		cfg.BufferSize = DefaultBufferSize
	}
	if cfg.RxTimeout == 0 {
		cfg.RxTimeout = DefaultRxTimeout
	}

	d := &Driver{
		cfg:  cfg,
		bufs: shm.NewPair(cfg.BufferSize),
	}
	d.openDevice = func() (link.NetDevice, error) {
		return link.NewTap(cfg.Name)
	}

	return d
}

// NewWithDevice wires the driver to an already-acquired device, for callers
// that manage acquisition themselves. Lazy-init semantics are unchanged: the
// device becomes live on the first Tx, Rx or Init call.
func NewWithDevice(dev link.NetDevice, cfg Config) *Driver {
	d := New(cfg)
	d.openDevice = func() (link.NetDevice, error) {
		return dev, nil
	}

	return d
}

// Buffers returns the shared buffer pair of this driver boundary.
func (d *Driver) Buffers() *shm.Pair {
	return d.bufs
}

// Init acquires and configures the device. Repeat calls succeed immediately;
// concurrent first calls result in exactly one underlying acquisition. An
// acquisition failure is fatal: there is no fallback medium.
func (d *Driver) Init() error {
	d.initMu.Lock()
	defer d.initMu.Unlock()

	if d.initialized {
		return nil
	}

	dev, err := d.openDevice()
	if err != nil {
		return &FatalError{Op: "init", Err: err}
	}

	d.dev = dev
	d.initialized = true
	return nil
}

// Tx copies the first n bytes out of the driver-inbound buffer and writes
// them to the device. A failed or short write is fatal; there is no partial
// success. Out-of-range n is a programming error.
func (d *Driver) Tx(n int) error {
	if n < 0 || n > d.bufs.Driver().Size() {
		panic(fmt.Sprintf("driver: tx length %d out of range [0, %d]", n, d.bufs.Driver().Size()))
	}

	if err := d.Init(); err != nil {
		return err
	}

	// Copy out under the guard, write with the guard released.
	staging := d.bufs.Driver().Fetch(n)

	written, err := d.dev.Write(staging)
	if err != nil {
		return &FatalError{Op: "tx", Err: err}
	}
	if written != n {
		return &FatalError{Op: "tx", Err: fmt.Errorf("short write: %d of %d bytes", written, n)}
	}

	return nil
}

// Rx waits up to RxTimeout for inbound data, reads it, and copies it into
// the driver-inbound buffer, returning the byte count. A quiet interface
// yields ErrNoData; wait and read failures are non-fatal and the caller may
// retry. No buffer guard is held while waiting on the device.
func (d *Driver) Rx() (int, error) {
	if err := d.Init(); err != nil {
		return 0, err
	}

	ready, err := d.dev.WaitReadable(d.cfg.RxTimeout)
	if err != nil {
		return 0, fmt.Errorf("wait error: %w", err)
	}
	if !ready {
		return 0, ErrNoData
	}

	staging := make([]byte, d.bufs.Driver().Size())
	n, err := d.dev.Read(staging)
	if err != nil {
		return 0, fmt.Errorf("read error: %w", err)
	}

	d.bufs.Driver().Insert(staging[:n])
	return n, nil
}

// Close releases the device if it was acquired. The driver must not be used
// afterwards; initialization is idempotent, not reentrant-safe for teardown.
func (d *Driver) Close() error {
	d.initMu.Lock()
	defer d.initMu.Unlock()

	if !d.initialized {
		return nil
	}

	return d.dev.Close()
}
