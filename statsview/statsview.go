//go:build statsview

// Package statsview offers a local HTTP server with runtime statistics
// when built with the statsview constraint. Without the constraint the
// package compiles to a stub and Launch does nothing.
//
// After launch, graphical statistics are viewable at
// localhost:18650/debug/statsview and Go pprof statistics at
// localhost:18650/debug/pprof/.
package statsview

import (
	"fmt"
	"io"

	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
)

// Address is the listen address of the stats server.
const Address = "localhost:18650"

const url = "/debug/statsview"

// Launch starts the stats server on a new goroutine.
func Launch(output io.Writer) {
	go func() {
		viewer.SetConfiguration(viewer.WithAddr(Address))
		mgr := statsview.New()
		mgr.Start()
	}()

	fmt.Fprintf(output, "stats server available at %s%s\n", Address, url)
}

// Available returns true when the stats server is compiled in.
func Available() bool {
	return true
}
