//go:build rp2040 || rp2350

package provider

import (
	"context"
	"io"
	"machine"
	"sync"

	"flightcode-go/board"
	"flightcode-go/errcode"
	"flightcode-go/services/boardinit"

	uartx "github.com/jangala-dev/tinygo-uartx/uartx"
	"tinygo.org/x/drivers"
)

// Ensure the provider satisfies the contract at compile time.
var _ Platform = (*RP2)(nil)

// RP2 builds handles on an RP2040 bench rig. Plan ids are the board's own
// ("i2c1", "usart6", "usb_cdc"); rp2I2CPorts and rp2ComPorts say which
// controller stands in for each.
type RP2 struct {
	mu    sync.Mutex
	buses map[rp2Port]*lockedI2C
	coms  map[string]io.ReadWriter
	uarts map[rp2Port]*rp2Com
	led   bool // configured
}

func NewRP2() *RP2 {
	return &RP2{
		buses: make(map[rp2Port]*lockedI2C),
		coms:  make(map[string]io.ReadWriter),
		uarts: make(map[rp2Port]*rp2Com),
	}
}

// lockedI2C serialises transactions from several role holders on one bus.
type lockedI2C struct {
	mu sync.Mutex
	hw *machine.I2C
}

var _ drivers.I2C = (*lockedI2C)(nil)

func (b *lockedI2C) Tx(addr uint16, w, r []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.hw.Tx(addr, w, r)
}

func (p *RP2) I2C(plan boardinit.I2CPlan) (drivers.I2C, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	port := rp2I2CPorts[plan.ID]
	if b, ok := p.buses[port]; ok {
		return b, nil
	}
	var hw *machine.I2C
	switch port {
	case rp2I2C0:
		hw = machine.I2C0
	case rp2I2C1:
		hw = machine.I2C1
	default:
		return nil, errcode.Wrap(errcode.Unsupported, "i2c", plan.ID)
	}
	sda := machine.Pin(plan.SDA)
	scl := machine.Pin(plan.SCL)
	sda.Configure(machine.PinConfig{Mode: machine.PinI2C})
	scl.Configure(machine.PinConfig{Mode: machine.PinI2C})
	if err := hw.Configure(machine.I2CConfig{SCL: scl, SDA: sda, Frequency: plan.Hz}); err != nil {
		return nil, err
	}
	b := &lockedI2C{hw: hw}
	p.buses[port] = b
	return b, nil
}

// rp2Com adapts uartx to io.ReadWriter. ReadContext lets a relay stop a
// blocked receive when its context ends.
type rp2Com struct{ u *uartx.UART }

func (c *rp2Com) Write(b []byte) (int, error) { return c.u.Write(b) }
func (c *rp2Com) Read(b []byte) (int, error) {
	return c.ReadContext(context.Background(), b)
}
func (c *rp2Com) ReadContext(ctx context.Context, b []byte) (int, error) {
	return c.u.RecvSomeContext(ctx, b)
}

// usbCom is the USB CDC console. Reads never block: 0, nil when idle.
type usbCom struct{}

func (usbCom) Write(b []byte) (int, error) { return machine.Serial.Write(b) }
func (usbCom) Read(b []byte) (int, error) {
	n := 0
	for n < len(b) && machine.Serial.Buffered() > 0 {
		c, err := machine.Serial.ReadByte()
		if err != nil {
			return n, err
		}
		b[n] = c
		n++
	}
	return n, nil
}

func (p *RP2) Com(plan boardinit.ComPlan) (io.ReadWriter, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if c, ok := p.coms[plan.ID]; ok {
		return c, nil
	}
	var c io.ReadWriter
	switch port := rp2ComPorts[plan.ID]; port {
	case rp2UART0, rp2UART1:
		u, err := p.uart(port, plan)
		if err != nil {
			return nil, err
		}
		c = u
	case rp2USB:
		c = usbCom{}
	case rp2Memory:
		c = newLoopback(plan.ID)
	default:
		return nil, errcode.Wrap(errcode.Unsupported, "com", plan.ID)
	}
	p.coms[plan.ID] = c
	return c, nil
}

func (p *RP2) uart(port rp2Port, plan boardinit.ComPlan) (*rp2Com, error) {
	if c, ok := p.uarts[port]; ok {
		return c, nil
	}
	hw := uartx.UART0
	if port == rp2UART1 {
		hw = uartx.UART1
	}
	// Defaults inside uartx apply if zero.
	if err := hw.Configure(uartx.UARTConfig{
		BaudRate: plan.Baud,
		TX:       machine.Pin(plan.TX),
		RX:       machine.Pin(plan.RX),
	}); err != nil {
		return nil, err
	}
	c := &rp2Com{u: hw}
	p.uarts[port] = c
	return c, nil
}

// LED drives the on-board LED for the heartbeat index.
func (p *RP2) LED(index uint8, on bool) {
	if index != board.LEDHeartbeat {
		return
	}
	p.mu.Lock()
	if !p.led {
		machine.LED.Configure(machine.PinConfig{Mode: machine.PinOutput})
		p.led = true
	}
	p.mu.Unlock()
	machine.LED.Set(on)
}

func (p *RP2) Close() error { return nil }
