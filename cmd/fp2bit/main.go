// main.go - pack a floorplan into a configuration bit image

/*
(c) 2025 - 2026 Zayn Otley
https://github.com/zotley/fpgabit
License: GPLv3 or later
*/

// fp2bit reads a floorplan (text, or a Lua generation script) and writes
// the configuration bit image encoding it: "fp2bit <floorplan|-> <bits>".
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/zotley/fpgabit/pkg/bitplane"
	"github.com/zotley/fpgabit/pkg/codec"
	"github.com/zotley/fpgabit/pkg/fabric"
	"github.com/zotley/fpgabit/pkg/floorplan"
	"github.com/zotley/fpgabit/pkg/genscript"
)

func main() {
	var scriptMode bool

	root := &cobra.Command{
		Use:   "fp2bit <floorplan|-> <bits>",
		Short: "Pack a floorplan into a configuration bit image",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(args[0], args[1], scriptMode)
		},
	}
	root.Flags().BoolVar(&scriptMode, "script", false, "treat the input file as a Lua floorplan-generation script, not floorplan text")

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "fp2bit: %v\n", err)
		os.Exit(1)
	}
}

func run(inPath, outPath string, scriptMode bool) error {
	m, err := loadModel(inPath, scriptMode)
	if err != nil {
		return err
	}

	f := fabric.New()
	bp := bitplane.New()
	log := &codec.Diagnostics{}

	if err := codec.WriteModel(bp, f, m, log); err != nil {
		log.WriteTo(os.Stderr)
		return fmt.Errorf("encode: %w", err)
	}
	if !log.Empty() {
		log.WriteTo(os.Stderr)
	}

	if err := bitplane.Save(outPath, bp); err != nil {
		return fmt.Errorf("writing %s: %w", outPath, err)
	}
	return nil
}

func loadModel(inPath string, scriptMode bool) (*floorplan.Model, error) {
	var r io.Reader
	if inPath == "-" {
		r = os.Stdin
	} else {
		f, err := os.Open(inPath)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", inPath, err)
		}
		defer f.Close()
		r = f
	}

	if scriptMode {
		src, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", inPath, err)
		}
		return genscript.Run(string(src))
	}
	return floorplan.ReadText(r)
}
