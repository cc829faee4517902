package boardinit

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"flightcode-go/board"
	"flightcode-go/errcode"
	"flightcode-go/types"
	"flightcode-go/x/ctxlog"

	"tinygo.org/x/drivers"
)

// ---- Test fakes ----

type nopI2C struct{ id string }

func (nopI2C) Tx(uint16, []byte, []byte) error { return nil }

type fakeFactories struct {
	comErr error
	coms   map[string]*bytes.Buffer
}

func (f *fakeFactories) I2C(p I2CPlan) (drivers.I2C, error) { return nopI2C{id: p.ID}, nil }

func (f *fakeFactories) Com(p ComPlan) (io.ReadWriter, error) {
	if f.comErr != nil {
		return nil, f.comErr
	}
	if f.coms == nil {
		f.coms = map[string]*bytes.Buffer{}
	}
	b := &bytes.Buffer{}
	f.coms[p.ID] = b
	return b, nil
}

func testCtx() context.Context {
	return ctxlog.WithLogger(context.Background(), ctxlog.Discard())
}

func TestRunGPSAndUSBOnly(t *testing.T) {
	plan := Plan{
		Variant: types.Sparky2V2_0,
		Com: []ComPlan{
			{ID: "usart1", Baud: 57_600, Role: types.RoleGPS},
			{ID: "usb_hid", Role: types.RoleTelemUSB},
		},
	}
	reg := board.New(types.Sparky2V2_0)
	if err := Run(testCtx(), reg, plan, &fakeFactories{}); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !reg.Sealed() {
		t.Fatal("registry should be sealed after a clean boot")
	}
	if id, ok := reg.Resolve(types.RoleGPS); !ok || id == types.NoID {
		t.Fatal("gps should resolve")
	}
	if _, ok := reg.Resolve(types.RoleMAVLink); ok {
		t.Fatal("mavlink should be absent")
	}
	if reg.Capacity(types.ClassI2C) != 3 {
		t.Fatal("i2c capacity must be 3")
	}
}

func TestRunFourthI2CAdapterHalts(t *testing.T) {
	plan := Plan{
		Variant: types.Sparky2V2_0,
		I2C: []I2CPlan{
			{ID: "i2c1", Roles: []types.Role{types.RoleI2CMain}},
			{ID: "i2c2", Roles: []types.Role{types.RoleI2CFlexi}},
			{ID: "i2c3"},
			{ID: "i2c4"},
		},
		Com: []ComPlan{{ID: "usart1", Role: types.RoleGPS}},
	}
	reg := board.New(types.Sparky2V2_0)
	err := Run(testCtx(), reg, plan, &fakeFactories{})
	if errcode.Of(err) != errcode.CapacityExceeded {
		t.Fatalf("err = %v, want capacity_exceeded", err)
	}
	if reg.Sealed() {
		t.Fatal("failed boot must not publish readiness")
	}
	if _, ok := reg.Resolve(types.RoleI2CMain); ok {
		t.Fatal("no role may resolve after a halted boot")
	}
	if _, err := reg.Require(types.RoleI2CMain); errcode.Of(err) != errcode.NotReady {
		t.Fatalf("require err = %v", err)
	}
}

func TestRunDoubleBindHalts(t *testing.T) {
	plan := Plan{
		Variant: types.Sparky2V2_0,
		Com: []ComPlan{
			{ID: "usart1", Role: types.RoleGPS},
			{ID: "usart3", Role: types.RoleGPS},
		},
	}
	reg := board.New(types.Sparky2V2_0)
	err := Run(testCtx(), reg, plan, &fakeFactories{})
	if !errors.Is(err, errcode.DoubleBind) || !errcode.IsFatal(err) {
		t.Fatalf("err = %v", err)
	}
}

func TestRunRadioOnReducedVariantHalts(t *testing.T) {
	plan := Plan{
		Variant: types.BrushedSparkyV0_1,
		SPI:     []SPIPlan{{ID: "spi2", Roles: []types.Role{types.RoleRFM22SPI}}},
	}
	reg := board.New(types.BrushedSparkyV0_1)
	if err := Run(testCtx(), reg, plan, &fakeFactories{}); errcode.Of(err) != errcode.Unsupported {
		t.Fatalf("err = %v, want unsupported", err)
	}
}

func TestRunRadioAndPacketHandler(t *testing.T) {
	plan := Plan{
		Variant: types.Sparky2V2_0,
		SPI:     []SPIPlan{{ID: "spi2", Roles: []types.Role{types.RoleRFM22SPI}}},
		Radio:   &RadioPlan{SPI: "spi2", PacketHandler: true},
		Timers:  []string{"tim1", "tim3", "tim4", "tim5", "tim8", "tim12"},
		ADC:     []string{"internal"},
		HSUM:    []string{"usart3", "usart6"},
	}
	reg := board.New(types.Sparky2V2_0)
	if err := Run(testCtx(), reg, plan, &fakeFactories{}); err != nil {
		t.Fatal(err)
	}
	for _, r := range []types.Role{types.RoleRFM22B, types.RoleRFM22SPI, types.RolePacketHandler} {
		if _, ok := reg.Resolve(r); !ok {
			t.Fatalf("%v should resolve", r)
		}
	}
	if reg.Count(types.ClassTimer) != 6 || reg.Count(types.ClassHSUM) != 2 {
		t.Fatalf("pools: timers=%d hsum=%d", reg.Count(types.ClassTimer), reg.Count(types.ClassHSUM))
	}
}

func TestRunPoolOverflowHalts(t *testing.T) {
	plan := Plan{Variant: types.Sparky2V2_0, HSUM: []string{"a", "b", "c"}}
	reg := board.New(types.Sparky2V2_0)
	if err := Run(testCtx(), reg, plan, &fakeFactories{}); errcode.Of(err) != errcode.CapacityExceeded {
		t.Fatalf("err = %v", err)
	}
}

func TestRunFactoryErrorPropagates(t *testing.T) {
	boom := errors.New("port busy")
	plan := Plan{Variant: types.Sparky2V2_0, Com: []ComPlan{{ID: "usart1", Role: types.RoleGPS}}}
	reg := board.New(types.Sparky2V2_0)
	if err := Run(testCtx(), reg, plan, &fakeFactories{comErr: boom}); !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
	if reg.Sealed() {
		t.Fatal("must not seal")
	}
}

func TestRunVariantMismatch(t *testing.T) {
	reg := board.New(types.BrushedSparkyV0_2)
	err := Run(testCtx(), reg, Plan{Variant: types.Sparky2V2_0}, &fakeFactories{})
	if errcode.Of(err) != errcode.InvalidParams {
		t.Fatalf("err = %v", err)
	}
}

func TestRunCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(testCtx())
	cancel()
	reg := board.New(types.Sparky2V2_0)
	if err := Run(ctx, reg, Plan{Variant: types.Sparky2V2_0}, &fakeFactories{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v", err)
	}
}
