// driver.go - top-level encode/decode driver

/*
(c) 2025 - 2026 Zayn Otley
https://github.com/zotley/fpgabit
License: GPLv3 or later
*/

// Package codec drives the bitstream codec: it orchestrates the IOB,
// logic and switch sub-codecs for both directions, owns the small
// always-set default-bit table, and turns the switch-extraction scratch
// list into floorplan nets.
package codec

import (
	"fmt"

	"github.com/zotley/fpgabit/pkg/bitplane"
	"github.com/zotley/fpgabit/pkg/fabric"
	"github.com/zotley/fpgabit/pkg/floorplan"
	"github.com/zotley/fpgabit/pkg/iobcodec"
	"github.com/zotley/fpgabit/pkg/logiccodec"
	"github.com/zotley/fpgabit/pkg/switchcodec"
)

// DefaultBits lists the five coordinates that must be set in every valid
// encoded image for this device family, regardless of floorplan content.
var DefaultBits = []bitplane.BitPos{
	{Row: 0, Major: 0, Minor: 3, BitI: 66},
	{Row: 0, Major: 1, Minor: 23, BitI: 1034},
	{Row: 0, Major: 1, Minor: 23, BitI: 1035},
	{Row: 0, Major: 1, Minor: 23, BitI: 1039},
	{Row: 2, Major: 0, Minor: 3, BitI: 66},
}

// WriteModel encodes m into bp: OR in the defaults, then dispatch the three
// sub-codecs in the order the ownership model requires (switches, then
// IOBs, then logic). With non-overlapping bit domains the order among
// these three has no observable effect on the final image.
func WriteModel(bp *bitplane.BitPlane, f *fabric.Fabric, m *floorplan.Model, log *Diagnostics) error {
	for _, p := range DefaultBits {
		if err := bp.SetBitP(p); err != nil {
			return err
		}
	}
	if err := switchcodec.Write(bp, f, m, log); err != nil {
		return fmt.Errorf("codec: write switches: %w", err)
	}
	if err := iobcodec.WriteIOBs(bp, f, m, log); err != nil {
		return fmt.Errorf("codec: write iobs: %w", err)
	}
	if err := logiccodec.WriteLogic(bp, f, m, log); err != nil {
		return fmt.Errorf("codec: write logic: %w", err)
	}
	return nil
}

// ExtractModel decodes bp into m: verify and clear the defaults, run the
// three extraction passes in the order that matters (switches before
// logic, so switch bits are gone before the logic residual check runs),
// then synthesize one net per accumulated switch. m's net list must be
// empty on entry.
func ExtractModel(bp *bitplane.BitPlane, f *fabric.Fabric, m *floorplan.Model, log *Diagnostics) error {
	for _, p := range DefaultBits {
		set, err := bp.GetBitP(p)
		if err != nil {
			return err
		}
		if !set {
			return fmt.Errorf("codec: %w: default bit %+v not set", ErrInvalid, p)
		}
	}
	for _, p := range DefaultBits {
		if err := bp.ClearBitP(p); err != nil {
			return err
		}
	}

	scratch, err := switchcodec.Extract(bp, f, m, log)
	if err != nil {
		return fmt.Errorf("codec: extract switches: %w", err)
	}
	if err := iobcodec.ExtractIOBs(bp, f, m, log); err != nil {
		return fmt.Errorf("codec: extract iobs: %w", err)
	}
	if err := logiccodec.ExtractLogic(bp, f, m, log); err != nil {
		return fmt.Errorf("codec: extract logic: %w", err)
	}

	if len(m.Nets) != 0 {
		log.Log(0, 0, "HERE: model net list was not empty on entry")
	}
	for _, s := range scratch {
		netIdx := m.FnetNew()
		m.FnetAddSw(netIdx, s.Y, s.X, s.Idx)
	}
	return nil
}
