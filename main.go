package main

import (
	"encoding/hex"
	"errors"
	"log"

	flag "github.com/ogier/pflag"

	"github.com/podhrmic/rustwall/client"
	"github.com/podhrmic/rustwall/driver"
	"github.com/podhrmic/rustwall/notify"
)

var (
	ifaceName = flag.StringP("interface", "i", driver.DefaultName, "TAP interface name to request")
	bufSize   = flag.Int("buffer-size", driver.DefaultBufferSize, "capacity of each shared buffer in bytes")
	rxTimeout = flag.Duration("rx-timeout", driver.DefaultRxTimeout, "bound on the receive wait")
)

// One-shot exercise of the driver boundary: report the MAC, transmit a known
// pattern, attempt one receive, and poke the notification table.
func main() {
	flag.Parse()

	drv := driver.New(driver.Config{
		Name:       *ifaceName,
		BufferSize: *bufSize,
		RxTimeout:  *rxTimeout,
	})
	defer drv.Close()

	dispatch := notify.NewDispatcher()
	dispatch.Register(client.HasDataBadge, func() {
		log.Printf("client emit %d", client.HasDataBadge)
	})

	c := client.New(drv, dispatch)

	log.Printf("driver mac: %s", c.MAC())

	pattern := make([]byte, 32)
	for i := range pattern {
		pattern[i] = byte(i)
	}
	if err := c.Send(pattern); err != nil {
		fatal(drv, err)
	}
	log.Printf("sent %d bytes", len(pattern))

	data, err := c.Receive()
	switch {
	case errors.Is(err, driver.ErrNoData):
		log.Printf("no inbound data")
	case err != nil:
		fatal(drv, err)
	default:
		log.Printf("received %d bytes\n%s", len(data), hex.Dump(data))
	}

	// An unregistered badge must stay a no-op.
	dispatch.Emit(66)
}

// fatal is the process boundary for unrecoverable driver faults: close the
// device and exit non-zero. The core never terminates the process itself.
func fatal(drv *driver.Driver, err error) {
	drv.Close()
	log.Fatalf("%s", err)
}
