package client

import (
	"fmt"
	"sync"

	"github.com/podhrmic/rustwall/driver"
	"github.com/podhrmic/rustwall/notify"
)

// HasDataBadge is the badge emitted toward the client slot when inbound
// frames have been queued.
const HasDataBadge = 1

// Client is the collaborator on the far side of the driver boundary. It
// stages outgoing data into the shared buffers, drains incoming data out of
// them, and translates the driver's has-data notification into a client
// signal.
type Client struct {
	drv      *driver.Driver
	dispatch *notify.Dispatcher

	// mu serializes send/receive round-trips so that a frame staged into a
	// shared region is consumed before the next caller overwrites it.
	mu  sync.Mutex
	rxq [][]byte

	macOnce sync.Once
	mac     driver.MacAddress
}

// New wires a client to a driver. dispatch may be nil when nobody listens
// for has-data signals.
func New(drv *driver.Driver, dispatch *notify.Dispatcher) *Client {
	return &Client{drv: drv, dispatch: dispatch}
}

// Send stages p into the driver-inbound buffer and transmits it. Transmit
// failures are fatal, per the driver contract.
func (c *Client) Send(p []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := c.drv.Buffers().Driver().Insert(p)
	return c.drv.Tx(n)
}

// Receive returns the next inbound frame, driving the receive path when the
// queue is empty. A quiet interface surfaces as driver.ErrNoData.
func (c *Client) Receive() ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.rxq) > 0 {
		p := c.rxq[0]
		c.rxq = c.rxq[1:]
		return p, nil
	}

	n, err := c.drv.Rx()
	if err != nil {
		return nil, err
	}

	return c.drv.Buffers().Driver().Fetch(n), nil
}

// HasData handles the driver's has-data notification: attempt one bounded
// receive, queue whatever arrived, and signal the client slot. The incoming
// badge only identifies the notifier; the outbound signal is fixed.
func (c *Client) HasData(badge uint32) {
	c.mu.Lock()
	n, err := c.drv.Rx()
	if err != nil {
		c.mu.Unlock()
		return
	}
	c.rxq = append(c.rxq, c.drv.Buffers().Driver().Fetch(n))
	c.mu.Unlock()

	if c.dispatch != nil {
		c.dispatch.Emit(HasDataBadge)
	}
}

// MAC reports the driver's hardware address. The value cannot change at
// runtime, so it is queried once and cached.
func (c *Client) MAC() driver.MacAddress {
	c.macOnce.Do(func() {
		c.mac = c.drv.MAC()
	})

	return c.mac
}

// StoreOutbound copies p into the outbound region of client slot id and
// returns the number of bytes stored.
func (c *Client) StoreOutbound(id int, p []byte) (int, error) {
	buf := c.drv.Buffers().ClientBuf(id)
	if buf == nil {
		return 0, fmt.Errorf("no buffer for client %d", id)
	}

	return buf.Insert(p), nil
}

// FetchOutbound copies the first n bytes out of the outbound region of
// client slot id.
func (c *Client) FetchOutbound(id, n int) ([]byte, error) {
	buf := c.drv.Buffers().ClientBuf(id)
	if buf == nil {
		return nil, fmt.Errorf("no buffer for client %d", id)
	}

	return buf.Fetch(n), nil
}
