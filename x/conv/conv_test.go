package conv

import "testing"

func TestItoa(t *testing.T) {
	var buf [20]byte
	for _, c := range []struct {
		n    int64
		want string
	}{{0, "0"}, {42, "42"}, {-7, "-7"}, {1 << 40, "1099511627776"}} {
		if got := string(Itoa(buf[:], c.n)); got != c.want {
			t.Fatalf("Itoa(%d) = %q, want %q", c.n, got, c.want)
		}
	}
}

func TestU32Hex(t *testing.T) {
	var buf [8]byte
	if got := string(U32Hex(buf[:], 0x0100000a)); got != "0100000A" {
		t.Fatalf("got %q", got)
	}
	if got := U32Hex(buf[:4], 1); len(got) != 0 {
		t.Fatalf("short buffer should yield empty, got %q", got)
	}
}
