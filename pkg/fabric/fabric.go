// fabric.go - static tile-grid database for the target part

/*
(c) 2025 - 2026 Zayn Otley
https://github.com/zotley/fpgabit
License: GPLv3 or later
*/

// Package fabric is the read-only static tile-grid and switch-graph
// database the codec queries but never mutates: tile classification,
// device presence, row/position arithmetic, the switch connectivity graph,
// IOB site enumeration and major/minor metadata.
package fabric

import "github.com/zotley/fpgabit/pkg/bitplane"

// ColumnKind classifies a physical device column (= a BitPlane major).
type ColumnKind int

const (
	ColIOB ColumnKind = iota
	ColRouting
	ColLogic
)

// Side names one of the per-edge IOLogic table slots of the device.
type Side int

const (
	SideLeft Side = iota
	SideRight
	SideTopOuter
	SideTopInner
	SideBottomOuter
	SideBottomInner
)

// Flag is a bitmask of tile position classes, tested by IsAtX/IsAtY/IsAtYX.
type Flag uint32

const (
	FlagRoutingCol Flag = 1 << iota
	FlagLogicCol
	FlagIOBCol
	FlagIOBRow
)

// columns is the fixed 7-column layout this codec targets: one major per
// column, matching bitplane.MinorsPerMajor index-for-index.
var columns = []struct {
	kind ColumnKind
	isML bool // true if this logic column's ML device is an M-slice
}{
	{ColIOB, false},
	{ColRouting, false},
	{ColLogic, false}, // L column
	{ColRouting, false},
	{ColLogic, true}, // M column
	{ColRouting, false},
	{ColIOB, false},
}

// NumCols is the number of physical device columns (== number of majors).
func NumCols() int { return len(columns) }

// Fabric is the static tile/switch database for one XC6SLX9-class device.
type Fabric struct {
	switches     map[tileKey][]Switch
	bitposByTile map[tileKey][]RoutingBitPos
	iologic      [6][]IOLogicRecord
	iobs         []IOBSite
}

type tileKey struct{ y, x int }

// New builds the fixed database for the one concrete target part. The
// switch/IOB tables are representative (a handful of each, enough to
// exercise every codec path) rather than the full undocumented vendor
// database.
func New() *Fabric {
	f := &Fabric{
		switches:     make(map[tileKey][]Switch),
		bitposByTile: make(map[tileKey][]RoutingBitPos),
	}
	f.buildIOBs()
	f.buildIOLogicTables()
	f.buildSwitches()
	return f
}

// --- column / row classification -------------------------------------------

// XMajor returns the major index a column hosts its frames under. In this
// layout major == x, one-to-one.
func (f *Fabric) XMajor(x int) (int, error) {
	if x < 0 || x >= NumCols() {
		return 0, errOutOfRange("x", x)
	}
	return x, nil
}

// GetMajorMinors returns the minor-frame count for a major.
func (f *Fabric) GetMajorMinors(major int) int {
	return bitplane.MinorsPerMajor[major]
}

// GetRightsideMajor returns the major index of the rightmost IOB column.
func (f *Fabric) GetRightsideMajor() int { return NumCols() - 1 }

// ColumnKindAt returns the tile-type of column x.
func (f *Fabric) ColumnKindAt(x int) ColumnKind {
	return columns[x].kind
}

// IsMLColumnM reports whether logic column x's ML device is the M variant
// (vs. the L variant).
func (f *Fabric) IsMLColumnM(x int) bool {
	return columns[x].isML
}

// WhichRow returns the row band a device tile row y belongs to.
func WhichRow(y int) int { return y / bitplane.RowPositions }

// PosInRow returns the within-band position of device tile row y; position
// HCLKPos is the HCLK band itself, not a real tile row.
func PosInRow(y int) int { return y % bitplane.RowPositions }

// IsInRow reports whether y is a real (non-HCLK) tile row and returns its
// band and position.
func IsInRow(y int) (row, pos int, ok bool) {
	row, pos = WhichRow(y), PosInRow(y)
	return row, pos, pos != bitplane.HCLKPos
}

// NumTileRows is the total device tile row count, excluding HCLK rows.
func NumTileRows() int { return bitplane.Rows * bitplane.RowPositions }

// IsAtX tests whether column x matches any class in mask.
func (f *Fabric) IsAtX(mask Flag, x int) bool {
	switch columns[x].kind {
	case ColRouting:
		return mask&FlagRoutingCol != 0
	case ColLogic:
		return mask&FlagLogicCol != 0
	case ColIOB:
		return mask&FlagIOBCol != 0
	}
	return false
}

// IsAtY tests whether row y matches any class in mask. Only the IOB-row
// class (positions 0 and 15 of row band 0) is modeled.
func (f *Fabric) IsAtY(mask Flag, y int) bool {
	if mask&FlagIOBRow == 0 {
		return false
	}
	row, pos, ok := IsInRow(y)
	return ok && row == 0 && (pos == 0 || pos == bitplane.RowPositions-1)
}

// IsAtYX tests both coordinates against mask.
func (f *Fabric) IsAtYX(mask Flag, y, x int) bool {
	return f.IsAtY(mask, y) && f.IsAtX(mask, x)
}

// HasDevice reports whether (y,x) hosts a device of the given kind.
func (f *Fabric) HasDevice(y, x int, kind ColumnKind) bool {
	_, _, ok := IsInRow(y)
	return ok && f.ColumnKindAt(x) == kind
}
