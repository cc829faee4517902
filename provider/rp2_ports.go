package provider

// rp2Port names the RP2 peripheral that backs a plan id on the bench rig.
// The table is shared by the RP2 provider and host tests so every embedded
// plan can be checked against it without hardware.
type rp2Port uint8

const (
	rp2Unmapped rp2Port = iota
	rp2I2C0
	rp2I2C1
	rp2UART0
	rp2UART1
	rp2USB    // USB CDC console
	rp2Memory // no peripheral on the bench; in-memory loopback
)

var rp2I2CPorts = map[string]rp2Port{
	"i2c1": rp2I2C0, // GP8/GP9
	"i2c2": rp2I2C1, // GP10/GP11
}

var rp2ComPorts = map[string]rp2Port{
	"usart1":  rp2UART0,
	"usart6":  rp2UART1,
	"usb_cdc": rp2USB,
	"usb_hid": rp2Memory,
	"flash":   rp2Memory,
}
