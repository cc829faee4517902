//go:build !rp2040 && !rp2350

package provider

import (
	"errors"
	"io"
	"testing"

	"flightcode-go/board"
	"flightcode-go/services/boardinit"
	"flightcode-go/types"
)

type fakePort struct {
	closed bool
}

func (f *fakePort) Read(p []byte) (int, error)  { return 0, io.EOF }
func (f *fakePort) Write(p []byte) (int, error) { return len(p), nil }
func (f *fakePort) Close() error                { f.closed = true; return nil }

func TestHostI2CRecordsTransactions(t *testing.T) {
	h := NewHost()
	bus, err := h.I2C(boardinit.I2CPlan{ID: "i2c1", Hz: 400_000})
	if err != nil {
		t.Fatal(err)
	}
	again, _ := h.I2C(boardinit.I2CPlan{ID: "i2c1"})
	if bus != again {
		t.Fatal("same id should yield the same bus")
	}
	r := []byte{0xff, 0xff}
	if err := bus.Tx(0x77, []byte{0xd0}, r); err != nil {
		t.Fatal(err)
	}
	hb, ok := h.Bus("i2c1")
	if !ok || hb.LastTx.Addr != 0x77 || hb.LastTx.Rn != 2 || hb.Count != 1 {
		t.Fatalf("last tx = %+v", hb.LastTx)
	}
	if r[0] != 0 || r[1] != 0 {
		t.Fatal("reads should be zero-filled")
	}
}

func TestHostComLoopback(t *testing.T) {
	h := NewHost()
	rw, err := h.Com(boardinit.ComPlan{ID: "usart1", Role: types.RoleGPS})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := rw.Write([]byte("$GPGGA")); err != nil {
		t.Fatal(err)
	}
	buf := make([]byte, 16)
	n, _ := rw.Read(buf)
	if string(buf[:n]) != "$GPGGA" {
		t.Fatalf("read %q", buf[:n])
	}
	if _, err := rw.Read(buf); err != io.EOF {
		t.Fatalf("empty loopback err = %v", err)
	}
	if _, ok := h.Loop("usart1"); !ok {
		t.Fatal("loopback not tracked")
	}
}

func TestHostComSerialPort(t *testing.T) {
	h := NewHost()
	fp := &fakePort{}
	var gotPort string
	var gotBaud uint32
	h.OpenSerial = func(port string, baud uint32) (io.ReadWriteCloser, error) {
		gotPort, gotBaud = port, baud
		return fp, nil
	}
	if _, err := h.Com(boardinit.ComPlan{ID: "usart3", Port: "/dev/ttyUSB0", Baud: 115_200}); err != nil {
		t.Fatal(err)
	}
	if gotPort != "/dev/ttyUSB0" || gotBaud != 115_200 {
		t.Fatalf("opened %q at %d", gotPort, gotBaud)
	}
	if err := h.Close(); err != nil || !fp.closed {
		t.Fatalf("close: %v closed=%v", err, fp.closed)
	}

	boom := errors.New("no such port")
	h.OpenSerial = func(string, uint32) (io.ReadWriteCloser, error) { return nil, boom }
	if _, err := h.Com(boardinit.ComPlan{ID: "usart6", Port: "/dev/null0"}); !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
}

func TestHostLoopbackShortWriteWhenFull(t *testing.T) {
	h := NewHost()
	rw, _ := h.Com(boardinit.ComPlan{ID: "usb_cdc", Role: types.RoleVCP})
	n, err := rw.Write(make([]byte, loopbackSize+10))
	if n != loopbackSize || !errors.Is(err, io.ErrShortWrite) {
		t.Fatalf("n=%d err=%v", n, err)
	}
}

func TestHostLEDRecordsState(t *testing.T) {
	var p Platform = NewHost()
	p.LED(board.LEDHeartbeat, true)
	h := p.(*Host)
	if !h.LEDState(board.LEDHeartbeat) {
		t.Fatal("heartbeat LED should be on")
	}
	p.LED(board.LEDHeartbeat, false)
	if h.LEDState(board.LEDHeartbeat) || h.LEDState(board.LEDAlarm) {
		t.Fatal("LEDs should be off")
	}
}
