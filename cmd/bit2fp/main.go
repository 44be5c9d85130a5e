// main.go - recover a floorplan from a configuration bit image

/*
(c) 2025 - 2026 Zayn Otley
https://github.com/zotley/fpgabit
License: GPLv3 or later
*/

// bit2fp reads a configuration bit image and emits the floorplan
// recovered from it: "bit2fp <bits> <floorplan>".
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zotley/fpgabit/pkg/bitplane"
	"github.com/zotley/fpgabit/pkg/codec"
	"github.com/zotley/fpgabit/pkg/fabric"
	"github.com/zotley/fpgabit/pkg/floorplan"
)

func main() {
	root := &cobra.Command{
		Use:   "bit2fp <bits> <floorplan>",
		Short: "Recover a floorplan from a configuration bit image",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(args[0], args[1])
		},
	}

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "bit2fp: %v\n", err)
		os.Exit(1)
	}
}

func run(inPath, outPath string) error {
	// Read (not mmap) the image: ExtractModel mutates the BitPlane in
	// place as it clears consumed bits, and that mutation must stay in
	// this process's copy, not propagate back to the source .bit file
	// the way a MAP_SHARED bitplane.Load would.
	raw, err := os.ReadFile(inPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", inPath, err)
	}
	bp, err := bitplane.Wrap(raw)
	if err != nil {
		return fmt.Errorf("reading %s: %w", inPath, err)
	}

	f := fabric.New()
	m := floorplan.New()
	log := &codec.Diagnostics{}

	if err := codec.ExtractModel(bp, f, m, log); err != nil {
		log.WriteTo(os.Stderr)
		return fmt.Errorf("extract: %w", err)
	}
	if !log.Empty() {
		log.WriteTo(os.Stderr)
	}

	var w *os.File
	if outPath == "-" {
		w = os.Stdout
	} else {
		w, err = os.Create(outPath)
		if err != nil {
			return fmt.Errorf("writing %s: %w", outPath, err)
		}
		defer w.Close()
	}
	return floorplan.WriteText(w, m)
}
