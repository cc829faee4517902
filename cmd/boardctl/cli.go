//go:build !rp2040 && !rp2350

package main

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"flightcode-go/board"
	"flightcode-go/types"
)

// ExitError carries the process exit code for a CLI failure.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string { return e.Message }

type options struct {
	Variant   types.Variant
	PlanPath  string
	Script    string
	LogLevel  string
	ListPorts bool
}

// parseArgs returns the options, whether to exit cleanly (help), or an
// ExitError.
func parseArgs(args []string, output io.Writer) (*options, bool, error) {
	fs := flag.NewFlagSet("boardctl", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.Usage = func() {
		fmt.Fprint(output, `
boardctl - bring up a board registry on the host and query it.

Usage:
  boardctl [options]

Options:
`)
		fs.PrintDefaults()
	}

	variantFlag := fs.String("variant", board.SelectedVariant.String(), "board variant")
	planFlag := fs.String("plan", "", "config document (YAML); empty uses the embedded one")
	scriptFlag := fs.String("c", "", "commands separated by ';'")
	logFlag := fs.String("log-level", "warn", "log level: debug, info, warn, error")
	portsFlag := fs.Bool("ports", false, "list host serial ports and exit")

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	if fs.NArg() > 0 {
		return nil, false, &ExitError{Code: 2, Message: "unexpected argument " + fs.Arg(0)}
	}

	v, ok := types.ParseVariant(*variantFlag)
	if !ok {
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("unknown variant %q", *variantFlag)}
	}

	level := strings.ToLower(*logFlag)
	switch level {
	case "debug", "info", "warn", "error":
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	return &options{
		Variant:   v,
		PlanPath:  *planFlag,
		Script:    *scriptFlag,
		LogLevel:  level,
		ListPorts: *portsFlag,
	}, false, nil
}
