// Package debuglog routes log records to the board's debug console, the com
// channel bound to the Debug role.
package debuglog

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"flightcode-go/board"
	"flightcode-go/errcode"
	"flightcode-go/types"
)

// MinLevel maps a console debug level to the lowest slog level it prints.
// Level 0 prints info and above; each step adds one slog verbosity band.
func MinLevel(debugLevel int) slog.Level {
	if debugLevel < 0 {
		debugLevel = 0
	}
	return slog.LevelInfo - slog.Level(4*debugLevel)
}

// lockedWriter serialises writes; the console is shared by every logger.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

// New returns a text handler on the Debug console of reg. When the role is
// absent the returned handler discards every record and ok is false. Any
// other resolution error is returned.
func New(reg *board.Registry, debugLevel int) (h slog.Handler, ok bool, err error) {
	rw, err := board.Com(reg, types.RoleDebug)
	switch {
	case err == nil:
	case errors.Is(err, errcode.Absent):
		return discard{}, false, nil
	default:
		return discard{}, false, err
	}
	opts := &slog.HandlerOptions{Level: MinLevel(debugLevel)}
	return slog.NewTextHandler(&lockedWriter{w: rw}, opts), true, nil
}

type discard struct{}

func (discard) Enabled(context.Context, slog.Level) bool  { return false }
func (discard) Handle(context.Context, slog.Record) error { return nil }
func (d discard) WithAttrs([]slog.Attr) slog.Handler      { return d }
func (d discard) WithGroup(string) slog.Handler           { return d }

// Tee fans records out to every handler that accepts them.
func Tee(hs ...slog.Handler) slog.Handler { return tee(hs) }

type tee []slog.Handler

func (t tee) Enabled(ctx context.Context, l slog.Level) bool {
	for _, h := range t {
		if h.Enabled(ctx, l) {
			return true
		}
	}
	return false
}

func (t tee) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range t {
		if h.Enabled(ctx, r.Level) {
			if err := h.Handle(ctx, r.Clone()); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

func (t tee) WithAttrs(as []slog.Attr) slog.Handler {
	out := make(tee, len(t))
	for i, h := range t {
		out[i] = h.WithAttrs(as)
	}
	return out
}

func (t tee) WithGroup(name string) slog.Handler {
	out := make(tee, len(t))
	for i, h := range t {
		out[i] = h.WithGroup(name)
	}
	return out
}
