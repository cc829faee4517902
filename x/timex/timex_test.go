package timex

import (
	"testing"
	"time"
)

func TestPeriodFromHz(t *testing.T) {
	cases := []struct {
		hz   uint32
		want time.Duration
	}{
		{50, 20 * time.Millisecond},
		{400, 2500 * time.Microsecond},
		{0, time.Second},
	}
	for _, c := range cases {
		if got := PeriodFromHz(c.hz); got != c.want {
			t.Fatalf("PeriodFromHz(%d) = %v, want %v", c.hz, got, c.want)
		}
	}
}
