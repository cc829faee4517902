package boardinit

import (
	"context"
	"fmt"
	"io"

	"flightcode-go/board"
	"flightcode-go/errcode"
	"flightcode-go/types"
	"flightcode-go/x/ctxlog"

	"tinygo.org/x/drivers"
)

// Factories construct handle objects for planned peripherals.
// Providers implement it per platform.
type Factories interface {
	I2C(p I2CPlan) (drivers.I2C, error)
	Com(p ComPlan) (io.ReadWriter, error)
}

// Run is the board bring-up sequence. It must complete before any task reads
// the registry: every pooled instance is allocated and every planned role is
// bound, then the registry is sealed. The first error aborts bring-up and
// leaves the registry unsealed so no consumer observes a partial mapping.
func Run(ctx context.Context, reg *board.Registry, plan Plan, fac Factories) error {
	log := ctxlog.FromContext(ctx).With("variant", reg.Variant().String())

	if plan.Variant != reg.Variant() {
		return errcode.Wrap(errcode.InvalidParams, "boardinit",
			"plan for "+plan.Variant.String()+" on "+reg.Variant().String())
	}

	steps := []struct {
		name string
		fn   func(context.Context, *board.Registry, Plan, Factories) error
	}{
		{"i2c", initI2C},
		{"spi", initSPI},
		{"radio", initRadio},
		{"com", initCom},
		{"pools", initPools},
	}
	for _, s := range steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.fn(ctx, reg, plan, fac); err != nil {
			log.Error("board bring-up halted", "step", s.name, "code", string(errcode.Of(err)), "err", err)
			return fmt.Errorf("boardinit %s: %w", s.name, err)
		}
	}

	reg.Seal()
	log.Info("board ready",
		"bound", len(reg.Bindings()),
		"i2c", reg.Count(types.ClassI2C),
		"com", reg.Count(types.ClassCom),
		"timers", reg.Count(types.ClassTimer))
	return nil
}

func bindAll(reg *board.Registry, id types.ID, roles []types.Role) error {
	for _, r := range roles {
		if err := reg.Bind(r, id); err != nil {
			return err
		}
	}
	return nil
}

func initI2C(ctx context.Context, reg *board.Registry, plan Plan, fac Factories) error {
	log := ctxlog.FromContext(ctx)
	for _, p := range plan.I2C {
		bus, err := fac.I2C(p)
		if err != nil {
			return fmt.Errorf("%s: %w", p.ID, err)
		}
		id, err := reg.Allocate(types.ClassI2C, bus)
		if err != nil {
			return fmt.Errorf("%s: %w", p.ID, err)
		}
		if err := bindAll(reg, id, p.Roles); err != nil {
			return fmt.Errorf("%s: %w", p.ID, err)
		}
		log.Debug("i2c adapter", "id", p.ID, "hz", p.Hz, "handle", id.String())
	}
	return nil
}

func initSPI(ctx context.Context, reg *board.Registry, plan Plan, _ Factories) error {
	for _, p := range plan.SPI {
		id, err := reg.Allocate(types.ClassSPI, p)
		if err != nil {
			return fmt.Errorf("%s: %w", p.ID, err)
		}
		if err := bindAll(reg, id, p.Roles); err != nil {
			return fmt.Errorf("%s: %w", p.ID, err)
		}
	}
	return nil
}

func initRadio(ctx context.Context, reg *board.Registry, plan Plan, _ Factories) error {
	if plan.Radio == nil {
		return nil
	}
	id, err := reg.Allocate(types.ClassRadio, *plan.Radio)
	if err != nil {
		return err
	}
	if err := reg.Bind(types.RoleRFM22B, id); err != nil {
		return err
	}
	if !plan.Radio.PacketHandler {
		return nil
	}
	ph, err := reg.Allocate(types.ClassPacketHandler, id)
	if err != nil {
		return err
	}
	return reg.Bind(types.RolePacketHandler, ph)
}

func initCom(ctx context.Context, reg *board.Registry, plan Plan, fac Factories) error {
	log := ctxlog.FromContext(ctx)
	for _, p := range plan.Com {
		rw, err := fac.Com(p)
		if err != nil {
			return fmt.Errorf("%s: %w", p.ID, err)
		}
		id, err := reg.Allocate(types.ClassCom, rw)
		if err != nil {
			return fmt.Errorf("%s: %w", p.ID, err)
		}
		if err := reg.Bind(p.Role, id); err != nil {
			return fmt.Errorf("%s: %w", p.ID, err)
		}
		log.Debug("com channel", "id", p.ID, "role", p.Role.String(), "baud", p.Baud)
	}
	return nil
}

func initPools(_ context.Context, reg *board.Registry, plan Plan, _ Factories) error {
	pools := []struct {
		class types.Class
		names []string
	}{
		{types.ClassTimer, plan.Timers},
		{types.ClassADCSubDriver, plan.ADC},
		{types.ClassHSUM, plan.HSUM},
	}
	for _, p := range pools {
		for _, n := range p.names {
			if _, err := reg.Allocate(p.class, n); err != nil {
				return fmt.Errorf("%s %s: %w", p.class, n, err)
			}
		}
	}
	return nil
}
