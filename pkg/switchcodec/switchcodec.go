// switchcodec.go - interconnect switch encoder/decoder

/*
(c) 2025 - 2026 Zayn Otley
https://github.com/zotley/fpgabit
License: GPLv3 or later
*/

// Package switchcodec encodes and decodes activated interconnect switches
// through three sub-codecs: routing-tile switches, the logic tile's
// carry-chain switch, and IOLogic-tile switch groups. All three share one
// scratch switch list and the same (y, x, idx) record shape the fabric's
// switch list already uses, walking their bit-position tables tile by
// tile before handing results to the driver for net synthesis.
package switchcodec

import (
	"errors"

	"github.com/zotley/fpgabit/pkg/bitplane"
	"github.com/zotley/fpgabit/pkg/fabric"
	"github.com/zotley/fpgabit/pkg/floorplan"
)

// Logger is the minimal diagnostic sink this package needs; *codec.
// Diagnostics satisfies it structurally (see pkg/codec/diag.go).
type Logger interface {
	Log(y, x int, format string, args ...any)
}

// ErrNotSupported is returned when the scratch switch list would exceed
// bitplane.MaxYXSwitches.
var ErrNotSupported = errors.New("switchcodec: not supported")

// carryInUsedBit is this codec's own bit, the top bit of the per-tile word
// in the column-type-selected minor (26 for an M column, 25 for an L
// column), free in both because logiccodec's generic encode path never
// writes minor 26 for an M tile and never sets the top bit of the ML half
// of minor 25 for an L tile.
const carryInUsedBit = 63

// startInFrame is the routing tile's within-frame bit-address base: the
// HCLK band adds 16 bits to every position past it.
func startInFrame(pos int) int {
	if pos > bitplane.HCLKPos {
		return (pos-1)*64 + 16
	}
	return pos * 64
}

// --- (a) routing switches ----------------------------------------------------

func routingBitAddrs(e fabric.RoutingEntry, start int) (minorA, bitA, minorB, bitB, enMinor, enBit int) {
	bp := e.BitPos
	if bp.Minor == 20 {
		return 20, start + bp.TwoBitsO, 20, start + bp.TwoBitsO + 1, 20, start + bp.OneBitO
	}
	bitPos := start + bp.TwoBitsO/2
	return bp.Minor, bitPos, bp.Minor + 1, bitPos, bp.Minor + (bp.OneBitO & 1), start + bp.OneBitO/2
}

func extractRoutingSwitches(bp *bitplane.BitPlane, f *fabric.Fabric, m *floorplan.Model, scratch *[]floorplan.SwitchRef, log Logger) error {
	for x := 0; x < fabric.NumCols(); x++ {
		if f.ColumnKindAt(x) != fabric.ColRouting {
			continue
		}
		for y := 0; y < fabric.NumTileRows(); y++ {
			row, pos, ok := fabric.IsInRow(y)
			if !ok {
				continue
			}
			start := startInFrame(pos)
			for _, e := range f.RoutingSwitches(y, x) {
				minorA, bitA, minorB, bitB, enMinor, enBit := routingBitAddrs(e, start)
				dA, err := bp.GetBit(row, x, minorA, bitA)
				if err != nil {
					return err
				}
				dB, err := bp.GetBit(row, x, minorB, bitB)
				if err != nil {
					return err
				}
				en, err := bp.GetBit(row, x, enMinor, enBit)
				if err != nil {
					return err
				}
				wantA := e.BitPos.TwoBitsVal&1 != 0
				wantB := e.BitPos.TwoBitsVal&2 != 0
				if dA != wantA || dB != wantB || !en {
					continue
				}
				idx, bidir, ok := f.SwitchLookup(y, x, e.Switch.From, e.Switch.To)
				if !ok {
					continue
				}
				if m.SwitchIsUsed(y, x, idx) {
					log.Log(y, x, "routing switch %s->%s already used, skipping", e.Switch.From, e.Switch.To)
					continue
				}
				if bidir {
					log.Log(y, x, "routing switch %s->%s is bidirectional, skipping", e.Switch.From, e.Switch.To)
					continue
				}
				if len(*scratch) >= bitplane.MaxYXSwitches {
					return ErrNotSupported
				}
				*scratch = append(*scratch, floorplan.SwitchRef{Y: y, X: x, Idx: idx})
				m.SetSwitchUsed(y, x, idx)
				if err := bp.ClearBit(row, x, minorA, bitA); err != nil {
					return err
				}
				if err := bp.ClearBit(row, x, minorB, bitB); err != nil {
					return err
				}
				if err := bp.ClearBit(row, x, enMinor, enBit); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func writeRoutingSwitches(bp *bitplane.BitPlane, f *fabric.Fabric, m *floorplan.Model) error {
	for x := 0; x < fabric.NumCols(); x++ {
		if f.ColumnKindAt(x) != fabric.ColRouting {
			continue
		}
		for y := 0; y < fabric.NumTileRows(); y++ {
			row, pos, ok := fabric.IsInRow(y)
			if !ok {
				continue
			}
			start := startInFrame(pos)
			for _, idx := range m.UsedSwitches(y, x) {
				sw, ok := f.SwitchAt(y, x, idx)
				if !ok {
					continue
				}
				var match *fabric.RoutingEntry
				for _, e := range f.RoutingSwitches(y, x) {
					if e.Switch.From == sw.From && e.Switch.To == sw.To {
						e := e
						match = &e
						break
					}
				}
				if match == nil {
					continue
				}
				minorA, bitA, minorB, bitB, enMinor, enBit := routingBitAddrs(*match, start)
				setOrClear := func(minor, bitI int, want bool) error {
					if want {
						return bp.SetBit(row, x, minor, bitI)
					}
					return bp.ClearBit(row, x, minor, bitI)
				}
				if err := setOrClear(minorA, bitA, match.BitPos.TwoBitsVal&1 != 0); err != nil {
					return err
				}
				if err := setOrClear(minorB, bitB, match.BitPos.TwoBitsVal&2 != 0); err != nil {
					return err
				}
				if err := bp.SetBit(row, x, enMinor, enBit); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// --- (b) logic-tile carry switch (extract only) -----------------------------

func extractLogicSwitches(bp *bitplane.BitPlane, f *fabric.Fabric, m *floorplan.Model, scratch *[]floorplan.SwitchRef, log Logger) error {
	for x := 0; x < fabric.NumCols(); x++ {
		if f.ColumnKindAt(x) != fabric.ColLogic {
			continue
		}
		isM := f.IsMLColumnM(x)
		minor := mi25ForCol(isM)
		for y := 0; y < fabric.NumTileRows(); y++ {
			row, pos, ok := fabric.IsInRow(y)
			if !ok {
				continue
			}
			off := tileByteOffset(pos)
			bitI := off*8 + carryInUsedBit
			set, err := bp.GetBit(row, x, minor, bitI)
			if err != nil {
				return err
			}
			if !set {
				continue
			}
			upY, upX, ok := f.CarryChainUp(y, x)
			if !ok {
				log.Log(y, x, "HERE: carry-in-used bit set with no upstream tile")
				if err := bp.ClearBit(row, x, minor, bitI); err != nil {
					return err
				}
				continue
			}
			dest := f.ConnDest("LI_CIN")
			idx, ok := f.SwitchFirst(upY, upX, dest, fabric.SwTo)
			if !ok {
				idx, ok = f.SwitchFirst(upY, upX, dest, fabric.SwFrom)
			}
			if ok {
				if len(*scratch) >= bitplane.MaxYXSwitches {
					return ErrNotSupported
				}
				*scratch = append(*scratch, floorplan.SwitchRef{Y: upY, X: upX, Idx: idx})
				m.SetSwitchUsed(upY, upX, idx)
			}
			if err := bp.ClearBit(row, x, minor, bitI); err != nil {
				return err
			}
		}
	}
	return nil
}

func mi25ForCol(isM bool) int {
	if isM {
		return 26
	}
	return 25
}

func tileByteOffset(pos int) int {
	if pos > bitplane.HCLKPos {
		return (pos-1)*8 + bitplane.HCLKBytes
	}
	return pos * 8
}

// --- (c) IOLogic-tile switches ------------------------------------------------

func extractIOLogicSwitches(bp *bitplane.BitPlane, f *fabric.Fabric, m *floorplan.Model, scratch *[]floorplan.SwitchRef, log Logger) error {
	for x := 0; x < fabric.NumCols(); x++ {
		for y := 0; y < fabric.NumTileRows(); y++ {
			side, ok := f.IOLogicSideAt(y, x)
			if !ok {
				continue
			}
			row := fabric.WhichRow(y)
			for _, rec := range f.IOLogicTable(side) {
				all := true
				for _, loc := range rec.Bits {
					set, err := bp.GetBit(row, x, loc.Minor, loc.Bit)
					if err != nil {
						return err
					}
					if !set {
						all = false
						break
					}
				}
				if !all {
					continue
				}
				for _, wp := range rec.Pairs {
					idx, bidir, ok := f.SwitchLookup(y, x, wp.From, wp.To)
					if !ok {
						continue
					}
					if bidir {
						log.Log(y, x, "iologic switch %s->%s is bidirectional, taking it anyway", wp.From, wp.To)
					}
					if len(*scratch) >= bitplane.MaxYXSwitches {
						return ErrNotSupported
					}
					*scratch = append(*scratch, floorplan.SwitchRef{Y: y, X: x, Idx: idx})
					m.SetSwitchUsed(y, x, idx)
				}
				for _, loc := range rec.Bits {
					if err := bp.ClearBit(row, x, loc.Minor, loc.Bit); err != nil {
						return err
					}
				}
			}
		}
	}
	return nil
}

func writeIOLogicSwitches(bp *bitplane.BitPlane, f *fabric.Fabric, m *floorplan.Model) error {
	for x := 0; x < fabric.NumCols(); x++ {
		for y := 0; y < fabric.NumTileRows(); y++ {
			side, ok := f.IOLogicSideAt(y, x)
			if !ok {
				continue
			}
			row := fabric.WhichRow(y)
			used := m.UsedSwitches(y, x)
			for _, rec := range f.IOLogicTable(side) {
				satisfied := len(rec.Pairs) > 0
				for _, wp := range rec.Pairs {
					idx, _, ok := f.SwitchLookup(y, x, wp.From, wp.To)
					found := false
					if ok {
						for _, u := range used {
							if u == idx {
								found = true
								break
							}
						}
					}
					if !found {
						satisfied = false
						break
					}
				}
				if !satisfied {
					continue
				}
				for _, loc := range rec.Bits {
					if err := bp.SetBit(row, x, loc.Minor, loc.Bit); err != nil {
						return err
					}
				}
			}
		}
	}
	return nil
}

// --- driver entry points -----------------------------------------------------

// Extract runs all three extraction passes in the order the ordering
// guarantee requires (routing, then logic carry, then iologic; each
// clears the bits it claims before the next pass runs) and returns the
// accumulated scratch switch list.
func Extract(bp *bitplane.BitPlane, f *fabric.Fabric, m *floorplan.Model, log Logger) ([]floorplan.SwitchRef, error) {
	var scratch []floorplan.SwitchRef
	if err := extractRoutingSwitches(bp, f, m, &scratch, log); err != nil {
		return nil, err
	}
	if err := extractLogicSwitches(bp, f, m, &scratch, log); err != nil {
		return nil, err
	}
	if err := extractIOLogicSwitches(bp, f, m, &scratch, log); err != nil {
		return nil, err
	}
	return scratch, nil
}

// Write dispatches USED switches per tile class: routing tiles and
// IOLogic-bearing tiles get their bits set; any USED switch in a tile
// class not yet handled (e.g. a logic tile's carry switch, which has no
// write counterpart) is logged, not silently dropped.
func Write(bp *bitplane.BitPlane, f *fabric.Fabric, m *floorplan.Model, log Logger) error {
	if err := writeRoutingSwitches(bp, f, m); err != nil {
		return err
	}
	if err := writeIOLogicSwitches(bp, f, m); err != nil {
		return err
	}
	for key, idxs := range m.Switches {
		if f.ColumnKindAt(key.X) == fabric.ColRouting {
			continue
		}
		if _, ok := f.IOLogicSideAt(key.Y, key.X); ok {
			continue
		}
		for idx, used := range idxs {
			if used {
				log.Log(key.Y, key.X, "HERE: used switch %d in a tile class the write path does not yet handle", idx)
			}
		}
	}
	return nil
}
