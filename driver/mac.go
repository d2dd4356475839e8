package driver

import "fmt"

// MacAddress is a 48-bit hardware address.
type MacAddress [6]byte

func (m MacAddress) String() string {
	return fmt.Sprintf("%02x:%02x:%02x:%02x:%02x:%02x", m[0], m[1], m[2], m[3], m[4], m[5])
}

// stubMac is the fixed hardware identity of the emulated driver. Locally
// administered, constant for the process lifetime.
var stubMac = MacAddress{0x02, 0x00, 0x00, 0x00, 0x00, 0x01}

// MAC reports the hardware address of the emulated device.
func (d *Driver) MAC() MacAddress {
	return stubMac
}
