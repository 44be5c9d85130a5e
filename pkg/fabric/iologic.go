// iologic.go - per-side IOLogic switch tables

package fabric

// WirePair is one (from, to) connection a IOLogicRecord activates.
type WirePair struct{ From, To Wire }

// BitLoc is one (minor, bit-in-frame) location that must be set for an
// IOLogicRecord's group to be considered active.
type BitLoc struct {
	Minor int
	Bit   int
}

// IOLogicRecord groups 1-4 wire pairs behind a shared set of up to 4 bit
// locations that must all be set together to activate the group.
type IOLogicRecord struct {
	Pairs []WirePair
	Bits  []BitLoc
}

// buildIOLogicTables populates the six per-side static tables. Only
// bottom-inner and bottom-outer carry real entries; left, right,
// top-outer and top-inner are intentionally empty placeholders.
func (f *Fabric) buildIOLogicTables() {
	f.iologic[SideBottomOuter] = []IOLogicRecord{
		{
			Pairs: []WirePair{{From: "IOL_CLK", To: "IOL_CLK_OUT"}},
			Bits:  []BitLoc{{Minor: 15, Bit: 40}, {Minor: 16, Bit: 40}},
		},
		{
			Pairs: []WirePair{{From: "IOL_OCE", To: "IOL_OCE_OUT"}, {From: "IOL_SR", To: "IOL_SR_OUT"}},
			Bits:  []BitLoc{{Minor: 15, Bit: 48}},
		},
	}
	f.iologic[SideBottomInner] = []IOLogicRecord{
		{
			Pairs: []WirePair{{From: "IOL_ICE", To: "IOL_ICE_OUT"}},
			Bits:  []BitLoc{{Minor: 16, Bit: 56}, {Minor: 17, Bit: 56}},
		},
	}
	// SideLeft, SideRight, SideTopOuter, SideTopInner left empty.
}

// IOLogicTable returns the static table for one device side.
func (f *Fabric) IOLogicTable(side Side) []IOLogicRecord {
	return f.iologic[side]
}

// IOLogicSideAt reports which per-side table, if any, applies to tile
// (y,x). Only the bottom two rows of each logic column carry iologic
// tables; everything else reports ok=false.
func (f *Fabric) IOLogicSideAt(y, x int) (Side, bool) {
	if f.ColumnKindAt(x) != ColLogic {
		return 0, false
	}
	switch y {
	case NumTileRows() - 1:
		return SideBottomOuter, true
	case NumTileRows() - 2:
		return SideBottomInner, true
	}
	return 0, false
}
