// main.go - render a bit image's frame occupancy as a PNG

/*
(c) 2025 - 2026 Zayn Otley
https://github.com/zotley/fpgabit
License: GPLv3 or later
*/

// bitviz dumps a configuration bit image's frame-occupancy heatmap as a
// PNG: "bitviz <bits> <png>". Read-only diagnostic tool, no floorplan is
// built or mutated.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zotley/fpgabit/pkg/bitplane"
	"github.com/zotley/fpgabit/pkg/bitviz"
)

func main() {
	var scale int

	root := &cobra.Command{
		Use:   "bitviz <bits> <png>",
		Short: "Render a configuration bit image's frame occupancy as a PNG heatmap",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(args[0], args[1], scale)
		},
	}
	root.Flags().IntVar(&scale, "scale", 8, "nearest-neighbor upscale factor, one source pixel per frame")

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "bitviz: %v\n", err)
		os.Exit(1)
	}
}

func run(inPath, outPath string, scale int) error {
	raw, err := os.ReadFile(inPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", inPath, err)
	}
	bp, err := bitplane.Wrap(raw)
	if err != nil {
		return fmt.Errorf("reading %s: %w", inPath, err)
	}

	w, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("writing %s: %w", outPath, err)
	}
	defer w.Close()

	return bitviz.WritePNG(w, bp, scale)
}
