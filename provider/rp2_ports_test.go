package provider

import (
	"context"
	"io"
	"testing"

	"flightcode-go/board"
	"flightcode-go/errcode"
	"flightcode-go/services/boardinit"
	"flightcode-go/services/config"
	"flightcode-go/types"
	"flightcode-go/x/ctxlog"

	"tinygo.org/x/drivers"
)

// benchFactories accepts exactly the ids the RP2 provider maps and checks
// that planned pins carry the matching RP2 pin function.
type benchFactories struct {
	t *testing.T
}

type nopBus struct{}

func (nopBus) Tx(uint16, []byte, []byte) error { return nil }

func (f benchFactories) I2C(p boardinit.I2CPlan) (drivers.I2C, error) {
	port, ok := rp2I2CPorts[p.ID]
	if !ok {
		return nil, errcode.Wrap(errcode.Unsupported, "i2c", p.ID)
	}
	unit := 0
	if port == rp2I2C1 {
		unit = 1
	}
	// GPn carries I2C((n/2)%2); SDA on even pins, SCL on odd.
	if (p.SDA/2)%2 != unit || p.SDA%2 != 0 || (p.SCL/2)%2 != unit || p.SCL%2 != 1 {
		f.t.Errorf("%s: sda=%d scl=%d not on I2C%d", p.ID, p.SDA, p.SCL, unit)
	}
	return nopBus{}, nil
}

func (f benchFactories) Com(p boardinit.ComPlan) (io.ReadWriter, error) {
	port, ok := rp2ComPorts[p.ID]
	if !ok {
		return nil, errcode.Wrap(errcode.Unsupported, "com", p.ID)
	}
	if port == rp2UART0 || port == rp2UART1 {
		unit := 0
		if port == rp2UART1 {
			unit = 1
		}
		// GPn carries UART(((n+4)/8)%2); TX on n%4==0, RX on n%4==1.
		if ((p.TX+4)/8)%2 != unit || p.TX%4 != 0 || ((p.RX+4)/8)%2 != unit || p.RX%4 != 1 {
			f.t.Errorf("%s: tx=%d rx=%d not on UART%d", p.ID, p.TX, p.RX, unit)
		}
	}
	return newLoopback(p.ID), nil
}

func TestEmbeddedPlansBootOnRP2Ports(t *testing.T) {
	for _, v := range []types.Variant{types.Sparky2V2_0, types.BrushedSparkyV0_1, types.BrushedSparkyV0_2} {
		t.Run(v.String(), func(t *testing.T) {
			doc, err := config.Load(v)
			if err != nil {
				t.Fatal(err)
			}
			reg := board.New(v)
			ctx := ctxlog.WithLogger(context.Background(), ctxlog.Discard())
			if err := boardinit.Run(ctx, reg, doc.Board, benchFactories{t: t}); err != nil {
				t.Fatalf("boot: %v", err)
			}
			for _, c := range doc.Board.Com {
				if _, ok := reg.Resolve(c.Role); !ok {
					t.Fatalf("%s (%s) did not resolve", c.Role, c.ID)
				}
			}
		})
	}
}

func TestRP2PortTableIsInjective(t *testing.T) {
	seen := map[rp2Port]string{}
	for id, port := range rp2I2CPorts {
		if prev, dup := seen[port]; dup {
			t.Fatalf("%s and %s share one i2c controller", id, prev)
		}
		seen[port] = id
	}
	for id, port := range rp2ComPorts {
		if port == rp2Memory {
			continue
		}
		if prev, dup := seen[port]; dup {
			t.Fatalf("%s and %s share one com peripheral", id, prev)
		}
		seen[port] = id
	}
}
