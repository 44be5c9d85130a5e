// switches.go - switch connectivity graph and routing bit positions

package fabric

import (
	"fmt"
)

// SwitchDir selects which endpoint SwitchFirst searches by.
type SwitchDir int

const (
	SwTo SwitchDir = iota
	SwFrom
)

// Wire is a wire name. Full fabric databases intern these into small
// integers; a plain string is enough at this codec's scale and keeps the
// boundary typed without an interning table nobody queries.
type Wire string

// Switch is one programmable interconnect crosspoint between two wires,
// addressed by its index within a tile's switch list.
type Switch struct {
	From, To Wire
	Bidir    bool
}

// RoutingBitPos is the bit-layout location of one programmable routing
// switch: its minor frame, the two data bits' offset and expected value,
// and the enable bit's offset.
type RoutingBitPos struct {
	Minor      int
	TwoBitsO   int
	TwoBitsVal uint8
	OneBitO    int
	Bidir      bool
}

// RoutingEntry pairs a switch with its bit-layout location, one row of a
// tile's routing bit-position table.
type RoutingEntry struct {
	Idx    int
	Switch Switch
	BitPos RoutingBitPos
}

func (f *Fabric) buildSwitches() {
	for x := range columns {
		switch columns[x].kind {
		case ColRouting:
			f.buildRoutingTile(x)
		case ColLogic:
			f.buildCarryChainTile(x)
		}
	}
}

// buildRoutingTile seeds every non-HCLK row of a routing column with a
// small, representative mix of minor-20-layout and other-minor-layout
// switches, enough to exercise both bit arithmetics and one bidirectional
// pair per tile.
func (f *Fabric) buildRoutingTile(x int) {
	for y := 0; y < NumTileRows(); y++ {
		_, pos, ok := IsInRow(y)
		if !ok {
			continue
		}
		key := tileKey{y, x}
		entries := []struct {
			sw Switch
			bp RoutingBitPos
		}{
			{
				Switch{From: Wire(fmt.Sprintf("W%d_A", pos)), To: Wire(fmt.Sprintf("W%d_B", pos))},
				RoutingBitPos{Minor: 20, TwoBitsO: 2, TwoBitsVal: 0b11, OneBitO: 8},
			},
			{
				Switch{From: Wire(fmt.Sprintf("W%d_C", pos)), To: Wire(fmt.Sprintf("W%d_D", pos))},
				RoutingBitPos{Minor: 5, TwoBitsO: 4, TwoBitsVal: 0b01, OneBitO: 12},
			},
			{
				Switch{From: Wire(fmt.Sprintf("W%d_E", pos)), To: Wire(fmt.Sprintf("W%d_F", pos)), Bidir: true},
				RoutingBitPos{Minor: 6, TwoBitsO: 6, TwoBitsVal: 0b11, OneBitO: 16, Bidir: true},
			},
		}
		for _, e := range entries {
			f.switches[key] = append(f.switches[key], e.sw)
			f.bitposByTile[key] = append(f.bitposByTile[key], e.bp)
		}
	}
}

// buildCarryChainTile seeds each logic tile with one fixed carry-chain
// switch at index 0, the single upstream switch a carry-in-used bit walks
// to; the bottom two tile rows additionally get one switch per wire pair
// named in their IOLogicTable, so SwitchLookup actually resolves what the
// iologic sub-codec looks up instead of every iologic group being a
// bit-clear with nothing to append to the scratch list.
func (f *Fabric) buildCarryChainTile(x int) {
	for y := 0; y < NumTileRows(); y++ {
		_, _, ok := IsInRow(y)
		if !ok {
			continue
		}
		key := tileKey{y, x}
		f.switches[key] = append(f.switches[key], Switch{From: "COUT", To: "CIN"})

		if side, ok := f.IOLogicSideAt(y, x); ok {
			for _, rec := range f.iologic[side] {
				for _, wp := range rec.Pairs {
					f.switches[key] = append(f.switches[key], Switch{From: wp.From, To: wp.To})
				}
			}
		}
	}
}

// RoutingSwitches returns the candidate routing switches and their bit
// positions at tile (y,x).
func (f *Fabric) RoutingSwitches(y, x int) []RoutingEntry {
	key := tileKey{y, x}
	sws := f.switches[key]
	bps := f.bitposByTile[key]
	out := make([]RoutingEntry, 0, len(bps))
	for i, bp := range bps {
		out = append(out, RoutingEntry{Idx: i, Switch: sws[i], BitPos: bp})
	}
	return out
}

// SwitchAt returns the switch at a given tile/index, as stored in the
// fabric's per-tile switch list.
func (f *Fabric) SwitchAt(y, x, idx int) (Switch, bool) {
	sws := f.switches[tileKey{y, x}]
	if idx < 0 || idx >= len(sws) {
		return Switch{}, false
	}
	return sws[idx], true
}

// SwitchLookup finds the switch index at (y,x) connecting from->to,
// falling back to to->from when the switch is bidirectional.
func (f *Fabric) SwitchLookup(y, x int, from, to Wire) (idx int, bidir bool, ok bool) {
	sws := f.switches[tileKey{y, x}]
	for i, s := range sws {
		if s.From == from && s.To == to {
			return i, s.Bidir, true
		}
	}
	for i, s := range sws {
		if s.Bidir && s.From == to && s.To == from {
			return i, true, true
		}
	}
	return 0, false, false
}

// SwitchFirst finds the first switch at (y,x) whose From (dir=SwFrom) or
// To (dir=SwTo) endpoint matches wire.
func (f *Fabric) SwitchFirst(y, x int, wire Wire, dir SwitchDir) (idx int, ok bool) {
	for i, s := range f.switches[tileKey{y, x}] {
		if (dir == SwTo && s.To == wire) || (dir == SwFrom && s.From == wire) {
			return i, true
		}
	}
	return 0, false
}

// SwitchStr renders a switch as "from->to" for diagnostics.
func (f *Fabric) SwitchStr(y, x, idx int) string {
	s, ok := f.SwitchAt(y, x, idx)
	if !ok {
		return ""
	}
	return fmt.Sprintf("%s->%s", s.From, s.To)
}

// SwitchIsBidir reports whether a switch is bidirectional.
func (f *Fabric) SwitchIsBidir(y, x, idx int) bool {
	s, ok := f.SwitchAt(y, x, idx)
	return ok && s.Bidir
}

// Str2Wire and Wire2Str round-trip a wire name through the (here trivial)
// interning boundary, kept typed so callers never pass a raw string where
// a Wire is expected.
func Str2Wire(s string) Wire { return Wire(s) }
func Wire2Str(w Wire) string { return string(w) }

// Wire2StrI is the indexed variant of Wire2Str, returning the wire's
// interned index alongside its name; since this codec's Wire is not
// actually interned the index is always 0.
func Wire2StrI(w Wire) (string, int) { return string(w), 0 }

// CarryChainUp returns the tile one step up the carry chain from (y,x),
// if any: same column, previous real tile row.
func (f *Fabric) CarryChainUp(y, x int) (upY, upX int, ok bool) {
	for uy := y - 1; uy >= 0; uy-- {
		if _, _, in := IsInRow(uy); in {
			return uy, x, true
		}
	}
	return 0, 0, false
}

// ConnDest resolves a named connection point to the destination wire one
// hop away. For the carry chain the destination of LI_CIN is always the
// upstream tile's COUT.
func (f *Fabric) ConnDest(wire Wire) Wire {
	if wire == "LI_CIN" {
		return "COUT"
	}
	return wire
}
