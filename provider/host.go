//go:build !rp2040 && !rp2350

package provider

import (
	"io"
	"sync"

	"flightcode-go/errcode"
	"flightcode-go/services/boardinit"

	"tinygo.org/x/drivers"
)

// Ensure the host provider satisfies the contract at compile time.
var _ Platform = (*Host)(nil)

// ----------------------------- I²C (host) ------------------------------------

// HostI2C implements tinygo drivers.I2C for host-side bring-up and tests.
type HostI2C struct {
	ID string

	mu     sync.Mutex
	LastTx struct {
		Addr uint16
		W    []byte
		Rn   int
	}
	Count int
}

var _ drivers.I2C = (*HostI2C)(nil)

func (h *HostI2C) Tx(addr uint16, w, r []byte) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.LastTx.Addr = addr
	h.LastTx.W = append([]byte(nil), w...)
	h.LastTx.Rn = len(r)
	h.Count++
	// No device emulation; reads return zeros.
	for i := range r {
		r[i] = 0
	}
	return nil
}

// ----------------------------- Factories -------------------------------------

// Host builds handles for a desktop run: fake I²C buses, loopback com
// channels, and real serial ports for com plans that name one.
type Host struct {
	// OpenSerial opens a named port; defaults to go.bug.st/serial.
	OpenSerial func(port string, baud uint32) (io.ReadWriteCloser, error)

	mu      sync.Mutex
	buses   map[string]*HostI2C
	loops   map[string]*Loopback
	leds    map[uint8]bool
	closers []io.Closer
}

func NewHost() *Host {
	return &Host{
		OpenSerial: openSerial,
		buses:      make(map[string]*HostI2C),
		loops:      make(map[string]*Loopback),
		leds:       make(map[uint8]bool),
	}
}

func (h *Host) I2C(p boardinit.I2CPlan) (drivers.I2C, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if b, ok := h.buses[p.ID]; ok {
		return b, nil
	}
	b := &HostI2C{ID: p.ID}
	h.buses[p.ID] = b
	return b, nil
}

func (h *Host) Com(p boardinit.ComPlan) (io.ReadWriter, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if p.Port == "" {
		l := newLoopback(p.ID)
		h.loops[p.ID] = l
		return l, nil
	}
	if h.OpenSerial == nil {
		return nil, errcode.Wrap(errcode.Unsupported, "com", p.ID)
	}
	port, err := h.OpenSerial(p.Port, p.Baud)
	if err != nil {
		return nil, err
	}
	h.closers = append(h.closers, port)
	return port, nil
}

// Bus returns the fake bus created for id, for inspection.
func (h *Host) Bus(id string) (*HostI2C, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	b, ok := h.buses[id]
	return b, ok
}

// Loop returns the loopback created for id, for inspection.
func (h *Host) Loop(id string) (*Loopback, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	l, ok := h.loops[id]
	return l, ok
}

// LED records the requested state; a desktop run has no LEDs.
func (h *Host) LED(index uint8, on bool) {
	h.mu.Lock()
	h.leds[index] = on
	h.mu.Unlock()
}

// LEDState reports the last state set for index.
func (h *Host) LEDState(index uint8) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.leds[index]
}

// Close releases opened serial ports.
func (h *Host) Close() error {
	h.mu.Lock()
	cs := h.closers
	h.closers = nil
	h.mu.Unlock()
	var first error
	for _, c := range cs {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
