//go:build !rp2040 && !rp2350

package provider

import (
	"io"

	"go.bug.st/serial"
)

const defaultBaud = 57_600

// openSerial opens port as 8N1 at baud (defaultBaud when zero).
func openSerial(port string, baud uint32) (io.ReadWriteCloser, error) {
	if baud == 0 {
		baud = defaultBaud
	}
	return serial.Open(port, &serial.Mode{
		BaudRate: int(baud),
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
}

// Ports lists serial devices visible to the host.
func Ports() ([]string, error) { return serial.GetPortsList() }
