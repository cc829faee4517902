// Package provider constructs peripheral handles for board init on each
// build target.
package provider

import (
	"io"

	"flightcode-go/services/boardinit"
)

// Platform is the factory set for the current build target.
type Platform interface {
	boardinit.Factories
	io.Closer

	// LED drives status LED index. Indexes the target has no LED for are
	// ignored.
	LED(index uint8, on bool)
}
