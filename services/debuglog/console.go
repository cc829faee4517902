package debuglog

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// Console is a handler whose sink arrives after loggers are handed out. The
// debug console only exists once the registry seals, but services take their
// logger before that. Records before Attach are dropped; loggers derived with
// With or WithGroup before Attach reach the console once it is attached.
type Console struct {
	sink  *consoleSink
	ops   []func(slog.Handler) slog.Handler
	cache atomic.Pointer[slog.Handler]
}

type consoleSink struct {
	base atomic.Pointer[slog.Handler]
}

func NewConsole() *Console { return &Console{sink: &consoleSink{}} }

// Attach sets the sink. Only the first call takes effect; it reports whether
// this call did.
func (c *Console) Attach(h slog.Handler) bool {
	return c.sink.base.CompareAndSwap(nil, &h)
}

func (c *Console) Attached() bool { return c.sink.base.Load() != nil }

func (c *Console) handler() slog.Handler {
	if h := c.cache.Load(); h != nil {
		return *h
	}
	b := c.sink.base.Load()
	if b == nil {
		return nil
	}
	h := *b
	for _, op := range c.ops {
		h = op(h)
	}
	c.cache.Store(&h)
	return h
}

func (c *Console) Enabled(ctx context.Context, l slog.Level) bool {
	h := c.handler()
	return h != nil && h.Enabled(ctx, l)
}

func (c *Console) Handle(ctx context.Context, r slog.Record) error {
	if h := c.handler(); h != nil {
		return h.Handle(ctx, r)
	}
	return nil
}

func (c *Console) WithAttrs(as []slog.Attr) slog.Handler {
	return c.derive(func(h slog.Handler) slog.Handler { return h.WithAttrs(as) })
}

func (c *Console) WithGroup(name string) slog.Handler {
	return c.derive(func(h slog.Handler) slog.Handler { return h.WithGroup(name) })
}

func (c *Console) derive(op func(slog.Handler) slog.Handler) *Console {
	ops := make([]func(slog.Handler) slog.Handler, len(c.ops), len(c.ops)+1)
	copy(ops, c.ops)
	return &Console{sink: c.sink, ops: append(ops, op)}
}
