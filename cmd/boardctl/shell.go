//go:build !rp2040 && !rp2350

package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"flightcode-go/board"
	"flightcode-go/errcode"
	"flightcode-go/types"

	"github.com/google/shlex"
)

type shell struct {
	reg   *board.Registry
	out   io.Writer
	fails int
}

func (s *shell) status() int {
	if s.fails > 0 {
		return 1
	}
	return 0
}

func (s *shell) errorf(format string, a ...any) {
	s.fails++
	fmt.Fprintf(s.out, "error: "+format+"\n", a...)
}

// exec runs one command line. Blank lines and '#' comments are ignored.
func (s *shell) exec(line string) {
	args, err := shlex.Split(line)
	if err != nil {
		s.errorf("%v", err)
		return
	}
	if len(args) == 0 {
		return
	}
	cmd, args := args[0], args[1:]
	switch cmd {
	case "resolve":
		s.forRoles(args, s.resolve)
	case "require":
		s.forRoles(args, s.require)
	case "capacity":
		s.capacity(args)
	case "variant":
		s.variant()
	case "bindings":
		s.bindings()
	case "limits":
		s.limits()
	case "help":
		fmt.Fprintln(s.out, "commands: resolve ROLE..., require ROLE..., capacity [CLASS...], variant, bindings, limits")
	default:
		s.errorf("unknown command %q", cmd)
	}
}

func (s *shell) forRoles(names []string, fn func(types.Role)) {
	if len(names) == 0 {
		s.errorf("missing role")
		return
	}
	for _, n := range names {
		r, ok := types.ParseRole(n)
		if !ok {
			s.errorf("%s: %s", errcode.UnknownRole, n)
			continue
		}
		fn(r)
	}
}

func (s *shell) resolve(r types.Role) {
	if id, ok := s.reg.Resolve(r); ok {
		fmt.Fprintf(s.out, "%s present %s\n", r, id)
		return
	}
	fmt.Fprintf(s.out, "%s absent\n", r)
}

func (s *shell) require(r types.Role) {
	id, err := s.reg.Require(r)
	if err != nil {
		s.errorf("%v", err)
		return
	}
	fmt.Fprintf(s.out, "%s %s\n", r, id)
}

func (s *shell) capacity(names []string) {
	var classes []types.Class
	if len(names) == 0 {
		for c := types.ClassNone + 1; c < types.NumClasses; c++ {
			classes = append(classes, c)
		}
	}
	for _, n := range names {
		c, ok := types.ParseClass(n)
		if !ok {
			s.errorf("%s: %s", errcode.UnknownClass, n)
			continue
		}
		classes = append(classes, c)
	}
	tw := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CLASS\tUSED\tCAPACITY")
	for _, c := range classes {
		fmt.Fprintf(tw, "%s\t%d\t%d\n", c, s.reg.Count(c), s.reg.Capacity(c))
	}
	tw.Flush()
}

func (s *shell) variant() {
	d := s.reg.Descriptor()
	fmt.Fprintf(s.out, "%s 0x%02x\n", d.Name, uint8(d.Variant))
	for _, r := range d.Roles() {
		fmt.Fprintf(s.out, "  %s\n", r)
	}
}

func (s *shell) bindings() {
	tw := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ROLE\tCLASS\tID")
	for _, b := range s.reg.Bindings() {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", b.Role, b.Role.Class(), b.ID)
	}
	tw.Flush()
}

func (s *shell) limits() {
	tw := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
	rows := []struct {
		name string
		val  any
	}{
		{"watchdog_timeout", board.WatchdogTimeout},
		{"irq_prio", fmt.Sprintf("highest=%d high=%d mid=%d low=%d",
			board.IRQPrioHighest, board.IRQPrioHigh, board.IRQPrioMid, board.IRQPrioLow)},
		{"sysclk_hz", board.SysClockHz},
		{"rcvr_max_channels", board.RcvrMaxChannels},
		{"gcs_rcvr_timeout", board.GCSRcvrTimeout},
		{"servo_update_hz", board.ServoUpdateHz},
		{"telem_queue", board.TelemQueueSize},
		{"ph_max_packet", board.PHMaxPacket},
		{"debug_level", board.DebugLevel},
	}
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%v\n", r.name, r.val)
	}
	tw.Flush()
}
