//go:build !rp2040 && !rp2350

// cmd/boardctl/main.go
//
// boardctl brings up a board registry on the host from the embedded
// configuration (or a YAML document) and answers registry queries.
//
//	boardctl -variant brushedsparky_v0_2 -c 'resolve gps; capacity i2c'
//	echo bindings | boardctl -plan ./bench.yaml
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"flightcode-go/board"
	"flightcode-go/provider"
	"flightcode-go/services/boardinit"
	"flightcode-go/services/config"
	"flightcode-go/x/ctxlog"
)

func main() {
	opts, exit, err := parseArgs(os.Args[1:], os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, "boardctl:", err)
		var ee *ExitError
		if errors.As(err, &ee) {
			os.Exit(ee.Code)
		}
		os.Exit(1)
	}
	if exit {
		return
	}

	if opts.ListPorts {
		ports, err := provider.Ports()
		if err != nil {
			fmt.Fprintln(os.Stderr, "boardctl:", err)
			os.Exit(1)
		}
		for _, p := range ports {
			fmt.Println(p)
		}
		return
	}

	ctx := ctxlog.WithLogger(context.Background(), ctxlog.New(opts.LogLevel, "text", os.Stderr))

	doc, err := loadDoc(opts)
	if err != nil {
		fmt.Fprintln(os.Stderr, "boardctl:", err)
		os.Exit(2)
	}

	plat := provider.Default()
	defer plat.Close()

	reg := board.New(doc.Board.Variant)
	if err := boardinit.Run(ctx, reg, doc.Board, plat); err != nil {
		fmt.Fprintln(os.Stderr, "boardctl: bring-up halted:", err)
		os.Exit(1)
	}

	sh := &shell{reg: reg, out: os.Stdout}
	if opts.Script != "" {
		for _, line := range strings.Split(opts.Script, ";") {
			sh.exec(line)
		}
		os.Exit(sh.status())
	}

	sc := bufio.NewScanner(os.Stdin)
	for sc.Scan() {
		sh.exec(sc.Text())
	}
	os.Exit(sh.status())
}

func loadDoc(opts *options) (config.Document, error) {
	if opts.PlanPath != "" {
		return config.LoadFile(opts.PlanPath)
	}
	return config.Load(opts.Variant)
}
