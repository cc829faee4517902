package heartbeat

import (
	"context"
	"time"

	"flightcode-go/board"
	"flightcode-go/bus"
	"flightcode-go/services/config"
	"flightcode-go/x/ctxlog"
	"flightcode-go/x/mathx"
)

var topicConfigHeartbeat = bus.T("config", config.KeyHeartbeat)

// Service blinks the heartbeat LED once the board is up.
type Service struct {
	Reg *board.Registry
	// LED drives an indicator; nil leaves the LEDs alone.
	LED func(index uint8, on bool)
	// Interval overrides the default tick; config/heartbeat overrides both.
	Interval time.Duration
}

// DefaultInterval keeps the beat well inside the watchdog window.
const DefaultInterval = board.WatchdogTimeout / 2

func (s *Service) serviceLoop(ctx context.Context, conn *bus.Connection) {
	log := ctxlog.FromContext(ctx).With("service", "heartbeat")

	if err := s.Reg.WaitReady(ctx); err != nil {
		log.Info("heartbeat service stopping before board ready")
		return
	}

	cfgSub := conn.Subscribe(topicConfigHeartbeat)
	defer conn.Unsubscribe(cfgSub)

	interval := s.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	tick := time.NewTicker(interval)
	defer tick.Stop()

	var on bool
	var beats uint64
	for {
		select {
		case <-ctx.Done():
			log.Info("heartbeat service stopping", "beats", beats)
			return
		case <-tick.C:
			on = !on
			beats++
			if s.LED != nil {
				s.LED(board.LEDHeartbeat, on)
			}
			log.Debug("heartbeat", "beats", beats)
		case msg, ok := <-cfgSub.Channel():
			if !ok {
				return
			}
			hb, ok := msg.Payload.(config.Heartbeat)
			if !ok || hb.IntervalMs == 0 {
				continue
			}
			d := time.Duration(hb.IntervalMs) * time.Millisecond
			if !mathx.Between(d, time.Millisecond, board.WatchdogTimeout) {
				log.Warn("heartbeat interval outside watchdog window", "ms", hb.IntervalMs)
				continue
			}
			tick.Reset(d)
			log.Info("heartbeat interval set", "ms", hb.IntervalMs)
		}
	}
}

// Start the heartbeat service.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) error {
	go s.serviceLoop(ctx, conn)
	return nil
}
