package client

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/podhrmic/rustwall/driver"
	"github.com/podhrmic/rustwall/notify"
	"github.com/podhrmic/rustwall/shm"
)

// fakeDevice is a minimal in-memory NetDevice for exercising the client.
type fakeDevice struct {
	mu      sync.Mutex
	inbound chan []byte
	pending []byte
	written [][]byte
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{inbound: make(chan []byte, 16)}
}

func (f *fakeDevice) Name() string { return "fake0" }
func (f *fakeDevice) Close() error { return nil }

func (f *fakeDevice) Write(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.written = append(f.written, append([]byte(nil), p...))
	return len(p), nil
}

func (f *fakeDevice) WaitReadable(timeout time.Duration) (bool, error) {
	f.mu.Lock()
	ready := f.pending != nil
	f.mu.Unlock()
	if ready {
		return true, nil
	}

	select {
	case p := <-f.inbound:
		f.mu.Lock()
		f.pending = p
		f.mu.Unlock()
		return true, nil
	case <-time.After(timeout):
		return false, nil
	}
}

func (f *fakeDevice) Read(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pending == nil {
		return 0, errors.New("no frame ready")
	}
	n := copy(p, f.pending)
	f.pending = nil
	return n, nil
}

func newTestClient(dev *fakeDevice, dispatch *notify.Dispatcher) *Client {
	drv := driver.NewWithDevice(dev, driver.Config{
		BufferSize: 4096,
		RxTimeout:  50 * time.Millisecond,
	})
	return New(drv, dispatch)
}

func TestSendStagesAndTransmits(t *testing.T) {
	dev := newFakeDevice()
	c := newTestClient(dev, nil)

	pattern := []byte("0123456789abcdef0123456789abcdef")
	require.NoError(t, c.Send(pattern))

	dev.mu.Lock()
	defer dev.mu.Unlock()
	require.Len(t, dev.written, 1)
	assert.Equal(t, pattern, dev.written[0])
}

func TestReceiveDrivesRxPath(t *testing.T) {
	dev := newFakeDevice()
	c := newTestClient(dev, nil)

	payload := []byte("inbound frame")
	dev.inbound <- payload

	got, err := c.Receive()
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestReceiveQuiet(t *testing.T) {
	c := newTestClient(newFakeDevice(), nil)

	_, err := c.Receive()
	assert.ErrorIs(t, err, driver.ErrNoData)
}

func TestHasDataQueuesAndSignals(t *testing.T) {
	dev := newFakeDevice()
	dispatch := notify.NewDispatcher()

	emitted := 0
	dispatch.Register(HasDataBadge, func() { emitted++ })

	c := newTestClient(dev, dispatch)

	payload := []byte("notified frame")
	dev.inbound <- payload
	c.HasData(1)

	assert.Equal(t, 1, emitted)

	// The queued frame is returned without touching the device again.
	got, err := c.Receive()
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestHasDataQuietNoSignal(t *testing.T) {
	dispatch := notify.NewDispatcher()

	emitted := 0
	dispatch.Register(HasDataBadge, func() { emitted++ })

	c := newTestClient(newFakeDevice(), dispatch)
	c.HasData(1)

	assert.Zero(t, emitted)
}

func TestMACCached(t *testing.T) {
	c := newTestClient(newFakeDevice(), nil)

	mac := c.MAC()
	assert.Equal(t, driver.MacAddress{0x02, 0x00, 0x00, 0x00, 0x00, 0x01}, mac)
	assert.Equal(t, mac, c.MAC())
}

func TestOutboundSlots(t *testing.T) {
	c := newTestClient(newFakeDevice(), nil)

	p := []byte("client payload")
	n, err := c.StoreOutbound(shm.ClientID, p)
	require.NoError(t, err)
	assert.Equal(t, len(p), n)

	got, err := c.FetchOutbound(shm.ClientID, len(p))
	require.NoError(t, err)
	assert.Equal(t, p, got)

	for _, id := range []int{0, 2, -1, 42} {
		_, err := c.StoreOutbound(id, p)
		assert.Error(t, err, "id %d", id)
		_, err = c.FetchOutbound(id, 1)
		assert.Error(t, err, "id %d", id)
	}
}
