//go:build !rp2040 && !rp2350

package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"flightcode-go/board"
	"flightcode-go/provider"
	"flightcode-go/services/boardinit"
	"flightcode-go/services/config"
	"flightcode-go/types"
	"flightcode-go/x/ctxlog"
)

func bootShell(t *testing.T, v types.Variant) (*shell, *bytes.Buffer) {
	t.Helper()
	doc, err := config.Load(v)
	if err != nil {
		t.Fatal(err)
	}
	reg := board.New(v)
	ctx := ctxlog.WithLogger(context.Background(), ctxlog.Discard())
	if err := boardinit.Run(ctx, reg, doc.Board, provider.NewHost()); err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	return &shell{reg: reg, out: &out}, &out
}

func TestShellCommands(t *testing.T) {
	cases := []struct {
		variant types.Variant
		line    string
		want    []string
		fails   int
	}{
		{types.Sparky2V2_0, "resolve gps mavlink", []string{"gps present 0x01", "mavlink absent"}, 0},
		{types.Sparky2V2_0, "resolve rfm22b", []string{"rfm22b present"}, 0},
		{types.BrushedSparkyV0_2, "resolve rfm22b", []string{"rfm22b absent"}, 0},
		{types.Sparky2V2_0, "require openlog", []string{"absent_resource"}, 1},
		{types.Sparky2V2_0, "require sonar", []string{"unknown_role"}, 1},
		{types.Sparky2V2_0, "capacity i2c", []string{"i2c", "2", "3"}, 0},
		{types.Sparky2V2_0, "capacity warp", []string{"unknown_class"}, 1},
		{types.BrushedSparkyV0_1, "variant", []string{"brushedsparky_v0_1 0x21", "gps"}, 0},
		{types.Sparky2V2_0, "bindings", []string{"ROLE", "i2c_etasv3", "telem_usb"}, 0},
		{types.Sparky2V2_0, "limits", []string{"watchdog_timeout", "250ms"}, 0},
		{types.Sparky2V2_0, "  # comment only", nil, 0},
		{types.Sparky2V2_0, "resolve 'unterminated", nil, 1},
		{types.Sparky2V2_0, "fly", []string{"unknown command"}, 1},
	}
	for _, tc := range cases {
		t.Run(tc.line, func(t *testing.T) {
			sh, out := bootShell(t, tc.variant)
			sh.exec(tc.line)
			for _, w := range tc.want {
				if !strings.Contains(out.String(), w) {
					t.Fatalf("output missing %q:\n%s", w, out.String())
				}
			}
			if sh.fails != tc.fails {
				t.Fatalf("fails = %d, want %d\n%s", sh.fails, tc.fails, out.String())
			}
		})
	}
}
