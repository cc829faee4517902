package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"flightcode-go/board"
	"flightcode-go/bus"
	"flightcode-go/errcode"
	"flightcode-go/provider"
	"flightcode-go/services/bridge"
	"flightcode-go/services/config"
	"flightcode-go/services/debuglog"
	"flightcode-go/services/hal"
	"flightcode-go/services/heartbeat"
	"flightcode-go/x/ctxlog"
)

// Allow USB CDC to enumerate before we print.
const bootDelay = 2 * time.Second

func main() {
	time.Sleep(bootDelay)
	ctx := context.Background()

	v := board.SelectedVariant
	doc, err := config.Load(v)
	if err != nil {
		println("config:", err.Error())
		halt()
	}
	// The debug console joins the fan-out once the registry seals.
	console := debuglog.NewConsole()
	log := slog.New(debuglog.Tee(ctxlog.New(doc.Log.Level, doc.Log.Format, os.Stdout).Handler(), console))
	ctx = ctxlog.WithLogger(ctx, log)
	slog.SetDefault(log)
	log.Info("boot", "variant", v.String())

	b := bus.NewBus(8)
	config.NewConfigService(doc).Start(ctx, b.NewConnection("config"))

	reg := board.New(v)
	plat := provider.Default()
	defer plat.Close()

	halSvc := hal.New(b.NewConnection("hal"), reg, plat)
	go halSvc.Serve(ctx)

	// Blocks on registry readiness; starting it first is harmless.
	hb := &heartbeat.Service{Reg: reg, LED: plat.LED}
	_ = hb.Start(ctx, b.NewConnection("heartbeat"))
	go bridge.Start(ctx, b.NewConnection("bridge"), reg)

	if err := halSvc.Boot(ctx, doc.Board); err != nil {
		log.Error("board bring-up failed", "code", string(errcode.Of(err)), "fatal", errcode.IsFatal(err), "err", err)
		halt()
	}

	h, ok, err := debuglog.New(reg, board.DebugLevel)
	switch {
	case err != nil:
		log.Warn("debug console unavailable", "err", err)
	case ok:
		console.Attach(h)
		log.Info("debug console attached")
	}

	select {}
}

// halt stops the system after a fatal configuration error. Nothing runs on a
// half-initialised board.
func halt() {
	os.Exit(1)
}
