package provider

import (
	"io"
	"sync"

	"flightcode-go/x/shmring"
)

// loopbackSize bounds unread loopback bytes; writers past it see a short write.
const loopbackSize = 512

// Loopback is an in-memory com channel: bytes written are read back. It
// stands in for ports with no peripheral behind them on the current target.
type Loopback struct {
	ID string

	wmu, rmu sync.Mutex
	ring     *shmring.Ring
}

func newLoopback(id string) *Loopback {
	return &Loopback{ID: id, ring: shmring.New(loopbackSize)}
}

func (l *Loopback) Write(p []byte) (int, error) {
	l.wmu.Lock()
	defer l.wmu.Unlock()
	n := l.ring.TryWriteFrom(p)
	if n < len(p) {
		return n, io.ErrShortWrite
	}
	return n, nil
}

// Read drains pending bytes; io.EOF when nothing is pending.
func (l *Loopback) Read(p []byte) (int, error) {
	l.rmu.Lock()
	defer l.rmu.Unlock()
	if len(p) == 0 {
		return 0, nil
	}
	n := l.ring.TryReadInto(p)
	if n == 0 {
		return 0, io.EOF
	}
	return n, nil
}
