package debuglog

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"flightcode-go/board"
	"flightcode-go/errcode"
	"flightcode-go/types"
)

func sealedWith(t *testing.T, console *bytes.Buffer) *board.Registry {
	t.Helper()
	reg := board.New(types.Sparky2V2_0)
	if console != nil {
		id, err := reg.Allocate(types.ClassCom, console)
		if err != nil {
			t.Fatal(err)
		}
		if err := reg.Bind(types.RoleDebug, id); err != nil {
			t.Fatal(err)
		}
	}
	reg.Seal()
	return reg
}

func TestConsoleReceivesRecordsAtDebugLevel(t *testing.T) {
	var console bytes.Buffer
	h, ok, err := New(sealedWith(t, &console), 0)
	if err != nil || !ok {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
	log := slog.New(h)
	log.Debug("too chatty")
	log.Info("armed", "mode", "stabilized")

	out := console.String()
	if strings.Contains(out, "too chatty") {
		t.Fatalf("debug record leaked at level 0: %q", out)
	}
	if !strings.Contains(out, "msg=armed") || !strings.Contains(out, "mode=stabilized") {
		t.Fatalf("console = %q", out)
	}
}

func TestHigherDebugLevelIsMoreVerbose(t *testing.T) {
	var console bytes.Buffer
	h, _, _ := New(sealedWith(t, &console), 1)
	slog.New(h).Debug("sensor poll")
	if !strings.Contains(console.String(), "sensor poll") {
		t.Fatalf("console = %q", console.String())
	}
}

func TestAbsentConsoleDiscards(t *testing.T) {
	h, ok, err := New(sealedWith(t, nil), 0)
	if err != nil || ok {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
	if h.Enabled(context.Background(), slog.LevelError) {
		t.Fatal("discard handler must not be enabled")
	}
}

func TestUnsealedRegistryIsAnError(t *testing.T) {
	_, _, err := New(board.New(types.Sparky2V2_0), 0)
	if errcode.Of(err) != errcode.NotReady {
		t.Fatalf("err = %v", err)
	}
}

func TestTeeFansOut(t *testing.T) {
	var a, b bytes.Buffer
	h := Tee(
		slog.NewTextHandler(&a, &slog.HandlerOptions{Level: slog.LevelDebug}),
		slog.NewTextHandler(&b, &slog.HandlerOptions{Level: slog.LevelWarn}),
	)
	log := slog.New(h).With("svc", "hal")
	log.Info("boot")
	log.Warn("low battery")

	if !strings.Contains(a.String(), "boot") || !strings.Contains(a.String(), "low battery") {
		t.Fatalf("a = %q", a.String())
	}
	if strings.Contains(b.String(), "boot") || !strings.Contains(b.String(), "svc=hal") {
		t.Fatalf("b = %q", b.String())
	}
}

func TestConsoleAttachesAfterLoggersAreHandedOut(t *testing.T) {
	console := NewConsole()
	var stdout bytes.Buffer
	root := slog.New(Tee(slog.NewTextHandler(&stdout, nil), console))
	svc := root.With("service", "bridge").WithGroup("link")

	svc.Info("before seal")
	if console.Attached() {
		t.Fatal("console attached too early")
	}

	var port bytes.Buffer
	h, ok, err := New(sealedWith(t, &port), 0)
	if err != nil || !ok {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
	if !console.Attach(h) {
		t.Fatal("first attach should take effect")
	}
	if console.Attach(slog.NewTextHandler(&stdout, nil)) {
		t.Fatal("second attach should be ignored")
	}
	svc.Info("after seal", "from", "vcp")

	out := port.String()
	if strings.Contains(out, "before seal") {
		t.Fatalf("pre-attach record reached console: %q", out)
	}
	if !strings.Contains(out, "after seal") || !strings.Contains(out, "service=bridge") || !strings.Contains(out, "link.from=vcp") {
		t.Fatalf("console = %q", out)
	}
	if !strings.Contains(stdout.String(), "before seal") {
		t.Fatalf("stdout = %q", stdout.String())
	}
}
