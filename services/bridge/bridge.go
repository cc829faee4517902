// bridge/bridge.go
package bridge

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"flightcode-go/board"
	"flightcode-go/bus"
	"flightcode-go/errcode"
	"flightcode-go/services/config"
	"flightcode-go/types"
	"flightcode-go/x/ctxlog"
	"flightcode-go/x/timex"

	"gopkg.in/yaml.v3"
)

// -----------------------------------------------------------------------------
// Public entry point
// -----------------------------------------------------------------------------

// Start starts the bridge service. It blocks until ctx is cancelled.
// Once the board is ready it listens on {"config","bridge"} and relays bytes
// between the two configured com roles.
func Start(ctx context.Context, conn *bus.Connection, reg *board.Registry) {
	s := &Service{
		conn:       conn,
		reg:        reg,
		stateTopic: bus.T("bridge", "state"),
	}
	s.run(ctx)
}

// Default endpoints: the USB virtual serial port and the bridge UART.
const (
	DefaultFrom = types.RoleVCP
	DefaultTo   = types.RoleBridge
)

// idlePoll paces the relay while both ends are quiet.
const idlePoll = 5 * time.Millisecond

// -----------------------------------------------------------------------------
// Service
// -----------------------------------------------------------------------------

type Service struct {
	conn       *bus.Connection
	reg        *board.Registry
	stateTopic bus.Topic

	mu      sync.Mutex
	curRun  context.CancelFunc
	curDone chan struct{} // closed when the running link has stopped
}

func (s *Service) run(ctx context.Context) {
	if err := s.reg.WaitReady(ctx); err != nil {
		return
	}
	cfgSub := s.conn.Subscribe(bus.T("config", config.KeyBridge))
	defer s.conn.Unsubscribe(cfgSub)

	s.publishState("idle", "awaiting_config", nil)

	for {
		select {
		case <-ctx.Done():
			s.stopCurrent()
			return
		case msg, ok := <-cfgSub.Channel():
			if !ok {
				s.publishState("error", "config_subscription_closed", nil)
				return
			}
			cfg, err := decodeConfig(msg.Payload)
			if err != nil {
				s.publishState("error", "config_decode_failed", err)
				continue
			}
			s.reconfigure(ctx, cfg)
		}
	}
}

// stopCurrent cancels the running link and waits for its pumps to exit.
func (s *Service) stopCurrent() {
	s.mu.Lock()
	cancel, done := s.curRun, s.curDone
	s.curRun, s.curDone = nil, nil
	s.mu.Unlock()
	if cancel != nil {
		cancel()
		<-done
	}
}

func (s *Service) reconfigure(parent context.Context, cfg config.Bridge) {
	s.stopCurrent()
	if !cfg.Enabled {
		s.publishState("idle", "disabled", nil)
		return
	}
	ctx, cancel := context.WithCancel(parent)
	done := make(chan struct{})
	s.mu.Lock()
	s.curRun, s.curDone = cancel, done
	s.mu.Unlock()

	go func() {
		defer close(done)
		s.runLink(ctx, cfg)
	}()
}

// -----------------------------------------------------------------------------
// Link supervision and I/O
// -----------------------------------------------------------------------------

func (s *Service) runLink(ctx context.Context, cfg config.Bridge) {
	log := ctxlog.FromContext(ctx).With("service", "bridge")
	from, to := endpoints(cfg)

	a, err := board.Com(s.reg, from)
	var b io.ReadWriter
	if err == nil {
		b, err = board.Com(s.reg, to)
	}
	if err != nil {
		// The mapping is frozen after seal; an absent end never appears.
		s.publishState("error", string(errcode.Of(err)), err)
		log.Warn("bridge endpoint unavailable", "from", from.String(), "to", to.String(), "err", err)
		return
	}

	backoff := backoffSeq(250*time.Millisecond, 5*time.Second)
	for {
		s.publishState("up", "link_established", nil)
		log.Info("bridge up", "from", from.String(), "to", to.String())

		err := relay(ctx, a, b)
		if err == nil {
			return
		}
		delay := backoff()
		s.publishState("degraded", "link_lost_retrying", fmt.Errorf("%v (retry in %s)", err, delay))
		if !sleep(ctx, delay) {
			return
		}
	}
}

func endpoints(cfg config.Bridge) (from, to types.Role) {
	from, to = cfg.From, cfg.To
	if from == types.RoleNone {
		from = DefaultFrom
	}
	if to == types.RoleNone {
		to = DefaultTo
	}
	return from, to
}

// relay pumps both directions until ctx ends (nil) or an end fails. It
// returns only after both pumps have stopped, so a relaunch never races a
// reader left over from the previous link.
func relay(parent context.Context, a, b io.ReadWriter) error {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	errCh := make(chan error, 2)
	go func() { errCh <- pump(ctx, b, a) }()
	go func() { errCh <- pump(ctx, a, b) }()

	err := <-errCh
	cancel()
	<-errCh
	if parent.Err() != nil {
		return nil
	}
	return err
}

// contextReader is a source whose blocking read can be abandoned.
type contextReader interface {
	ReadContext(ctx context.Context, p []byte) (int, error)
}

// pump copies src to dst. A quiet source (0 bytes or io.EOF) is polled.
func pump(ctx context.Context, dst io.Writer, src io.Reader) error {
	read := src.Read
	if cr, ok := src.(contextReader); ok {
		read = func(p []byte) (int, error) { return cr.ReadContext(ctx, p) }
	}
	buf := make([]byte, 64)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		n, err := read(buf)
		if n > 0 {
			if _, werr := dst.Write(buf[:n]); werr != nil {
				return werr
			}
		}
		switch {
		case err == nil && n > 0:
			continue
		case err == nil, errors.Is(err, io.EOF):
			if !sleep(ctx, idlePoll) {
				return ctx.Err()
			}
		case ctx.Err() != nil:
			return ctx.Err()
		default:
			return err
		}
	}
}

// -----------------------------------------------------------------------------
// Utilities
// -----------------------------------------------------------------------------

func decodeConfig(p any) (config.Bridge, error) {
	var cfg config.Bridge
	switch v := p.(type) {
	case config.Bridge:
		cfg = v
	case []byte:
		if err := yaml.Unmarshal(v, &cfg); err != nil {
			return cfg, err
		}
	case string:
		if err := yaml.Unmarshal([]byte(v), &cfg); err != nil {
			return cfg, err
		}
	default:
		return cfg, fmt.Errorf("unsupported config payload type: %T", p)
	}
	from, to := endpoints(cfg)
	if from.Class() != types.ClassCom || to.Class() != types.ClassCom || from == to {
		return cfg, errcode.Wrap(errcode.InvalidParams, "bridge", from.String()+" -> "+to.String())
	}
	return cfg, nil
}

func (s *Service) publishState(level, status string, err error) {
	payload := map[string]any{
		"level":  level,  // "up", "degraded", "error", "idle"
		"status": status, // short machine string
		"ts_ms":  timex.NowMs(),
	}
	if err != nil {
		payload["error"] = err.Error()
	}
	msg := s.conn.NewMessage(s.stateTopic, payload, true)
	s.conn.Publish(msg)
}

func backoffSeq(min, max time.Duration) func() time.Duration {
	if min <= 0 {
		min = 100 * time.Millisecond
	}
	if max < min {
		max = min
	}
	var cur = min
	return func() time.Duration {
		d := cur
		cur *= 2
		if cur > max {
			cur = max
		}
		return d
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
