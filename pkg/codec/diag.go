// diag.go - non-aborting diagnostic accumulator

package codec

import (
	"fmt"
	"io"
	"runtime"

	"golang.org/x/term"
)

// Entry is one non-aborting diagnostic: a residual-bit report or an
// unknown-table-entry trap, tagged with the (file, line) of the call site
// and the tile coordinate it concerns.
type Entry struct {
	File    string
	Line    int
	Y, X    int
	Message string
}

// Diagnostics accumulates non-aborting codec diagnostics across one
// WriteModel/ExtractModel call. It implements the small Logger interface
// each subcodec package declares locally (pkg/iobcodec.Logger,
// pkg/logiccodec.Logger, pkg/switchcodec.Logger) purely structurally:
// pkg/codec imports those packages to drive them, so they cannot import
// codec back for a shared interface type without a cycle.
type Diagnostics struct {
	Entries []Entry
}

// Log records one diagnostic, capturing the immediate caller's file/line.
func (d *Diagnostics) Log(y, x int, format string, args ...any) {
	_, file, line, ok := runtime.Caller(1)
	if !ok {
		file, line = "?", 0
	}
	d.Entries = append(d.Entries, Entry{
		File: file, Line: line, Y: y, X: x,
		Message: fmt.Sprintf(format, args...),
	})
}

// Empty reports whether no diagnostics were recorded.
func (d *Diagnostics) Empty() bool { return len(d.Entries) == 0 }

// WriteTo prints accumulated diagnostics to w, one per line, with ANSI
// severity coloring when w is an attached terminal (golang.org/x/term.
// IsTerminal).
func (d *Diagnostics) WriteTo(w io.Writer) {
	colored := false
	if f, ok := w.(interface{ Fd() uintptr }); ok {
		colored = term.IsTerminal(int(f.Fd()))
	}
	for _, e := range d.Entries {
		if colored {
			fmt.Fprintf(w, "\x1b[33m%s:%d\x1b[0m (%d,%d): %s\n", e.File, e.Line, e.Y, e.X, e.Message)
		} else {
			fmt.Fprintf(w, "%s:%d (%d,%d): %s\n", e.File, e.Line, e.Y, e.X, e.Message)
		}
	}
}
