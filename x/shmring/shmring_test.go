package shmring

import (
	"bytes"
	"testing"
)

func TestNewRejectsBadSizes(t *testing.T) {
	for _, size := range []int{0, 1, 3, 100, 513} {
		func() {
			defer func() {
				if recover() == nil {
					t.Fatalf("New(%d) should panic", size)
				}
			}()
			New(size)
		}()
	}
}

// A link-sized ring accepts exactly its size, then reports a short write at
// the boundary until the reader frees space.
func TestFullRingShortWrite(t *testing.T) {
	const size = 512
	r := New(size)

	msg := bytes.Repeat([]byte{0x7e}, size+10)
	if n := r.TryWriteFrom(msg); n != size {
		t.Fatalf("first write took %d, want %d", n, size)
	}
	if r.Space() != 0 || r.Available() != size {
		t.Fatalf("space=%d avail=%d", r.Space(), r.Available())
	}
	if n := r.TryWriteFrom([]byte{1}); n != 0 {
		t.Fatalf("write into full ring took %d", n)
	}

	got := make([]byte, 64)
	if n := r.TryReadInto(got); n != 64 {
		t.Fatalf("read %d", n)
	}
	if n := r.TryWriteFrom(msg); n != 64 {
		t.Fatalf("refill took %d, want the 64 freed bytes", n)
	}
}

// Frames written in uneven chunks come back in order across many wraps.
func TestFramesSurviveWrap(t *testing.T) {
	r := New(64)
	var src []byte
	for i := 0; i < 300; i++ {
		// MAVLink-ish frame: magic, len, seq, payload.
		src = append(src, 0xfe, byte(i%9), byte(i))
		src = append(src, bytes.Repeat([]byte{byte(i)}, i%9)...)
	}

	var out []byte
	in := src
	tmp := make([]byte, 23)
	for len(out) < len(src) {
		if len(in) > 0 {
			chunk := min(len(in), 13)
			in = in[r.TryWriteFrom(in[:chunk]):]
		}
		n := r.TryReadInto(tmp)
		out = append(out, tmp[:n]...)
	}
	if !bytes.Equal(out, src) {
		t.Fatal("stream reordered or corrupted across wrap")
	}
	rd, wr := r.Watermarks()
	if rd != wr || int(wr) != len(src) {
		t.Fatalf("watermarks rd=%d wr=%d, want both %d", rd, wr, len(src))
	}
}

func TestEmptyAndZeroLengthOps(t *testing.T) {
	r := New(8)
	if n := r.TryReadInto(make([]byte, 4)); n != 0 {
		t.Fatalf("read from empty ring: %d", n)
	}
	if n := r.TryWriteFrom(nil); n != 0 {
		t.Fatalf("nil write: %d", n)
	}
	r.TryWriteFrom([]byte{1, 2})
	if n := r.TryReadInto(nil); n != 0 || r.Available() != 2 {
		t.Fatalf("nil read consumed bytes: n=%d avail=%d", n, r.Available())
	}
}

func TestReadableSignalsOnlyOnEmptyToData(t *testing.T) {
	r := New(8)
	expectSignal(t, r.Readable(), false, "empty ring")

	r.TryWriteFrom([]byte{1, 2, 3})
	expectSignal(t, r.Readable(), true, "first bytes")
	r.TryWriteFrom([]byte{4})
	expectSignal(t, r.Readable(), false, "bytes already pending")

	r.TryReadInto(make([]byte, 8))
	r.TryWriteFrom([]byte{5})
	expectSignal(t, r.Readable(), true, "refill after drain")
}

func TestWritableSignalsOnlyOnFullToSpace(t *testing.T) {
	r := New(8)
	r.TryWriteFrom(make([]byte, 4))
	r.TryReadInto(make([]byte, 2))
	expectSignal(t, r.Writable(), false, "ring was never full")

	r.TryWriteFrom(make([]byte, 8))
	if r.Space() != 0 {
		t.Fatalf("space = %d", r.Space())
	}
	r.TryReadInto(make([]byte, 1))
	expectSignal(t, r.Writable(), true, "first byte freed")
	r.TryReadInto(make([]byte, 1))
	expectSignal(t, r.Writable(), false, "ring no longer full")
}

func expectSignal(t *testing.T, ch <-chan struct{}, want bool, when string) {
	t.Helper()
	select {
	case <-ch:
		if !want {
			t.Fatalf("unexpected signal: %s", when)
		}
	default:
		if want {
			t.Fatalf("missing signal: %s", when)
		}
	}
}
