package switchcodec

import (
	"errors"
	"testing"

	"github.com/zotley/fpgabit/pkg/bitplane"
	"github.com/zotley/fpgabit/pkg/fabric"
	"github.com/zotley/fpgabit/pkg/floorplan"
)

type testLog struct{ msgs []string }

func (l *testLog) Log(y, x int, format string, args ...any) { l.msgs = append(l.msgs, format) }

func TestRoutingSwitchMinor20RoundTrip(t *testing.T) {
	f := fabric.New()
	bp := bitplane.New()
	m := floorplan.New()

	y, x := 0, 1 // pos 0 in a routing column
	entries := f.RoutingSwitches(y, x)
	if len(entries) == 0 {
		t.Fatal("fixture fabric has no routing switches at (0,1)")
	}
	var minor20 *fabric.RoutingEntry
	for _, e := range entries {
		if e.BitPos.Minor == 20 {
			e := e
			minor20 = &e
			break
		}
	}
	if minor20 == nil {
		t.Fatal("fixture fabric has no minor-20-layout switch at (0,1)")
	}

	m.SetSwitchUsed(y, x, minor20.Idx)
	if err := Write(bp, f, m, &testLog{}); err != nil {
		t.Fatalf("Write: %v", err)
	}

	// Exactly three bits should now be set in minor 20 at this tile.
	setCount := 0
	for bitI := 0; bitI < bitplane.FrameSize*8; bitI++ {
		got, err := bp.GetBit(y, x, 20, bitI)
		if err != nil {
			t.Fatal(err)
		}
		if got {
			setCount++
		}
	}
	if setCount != 3 {
		t.Fatalf("expected exactly 3 bits set in minor 20, got %d", setCount)
	}

	scratch, err := Extract(bp, f, floorplan.New(), &testLog{})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(scratch) != 1 || scratch[0] != (floorplan.SwitchRef{Y: y, X: x, Idx: minor20.Idx}) {
		t.Fatalf("Extract scratch = %+v, want one entry for idx %d", scratch, minor20.Idx)
	}

	// The image must be all-zero again after extraction.
	for _, bByte := range bp.Bytes() {
		if bByte != 0 {
			t.Fatalf("image not all-zero after extraction: found byte %#x", bByte)
		}
	}
}

func TestRoutingSwitchOtherMinorRoundTrip(t *testing.T) {
	f := fabric.New()
	bp := bitplane.New()
	m := floorplan.New()

	y, x := 0, 1
	entries := f.RoutingSwitches(y, x)
	var other *fabric.RoutingEntry
	for _, e := range entries {
		if e.BitPos.Minor != 20 && !e.BitPos.Bidir {
			e := e
			other = &e
			break
		}
	}
	if other == nil {
		t.Fatal("fixture fabric has no other-minor-layout non-bidir switch at (0,1)")
	}

	m.SetSwitchUsed(y, x, other.Idx)
	if err := Write(bp, f, m, &testLog{}); err != nil {
		t.Fatalf("Write: %v", err)
	}

	scratch, err := Extract(bp, f, floorplan.New(), &testLog{})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(scratch) != 1 || scratch[0].Idx != other.Idx {
		t.Fatalf("Extract scratch = %+v, want idx %d", scratch, other.Idx)
	}
}

func TestBidirSwitchLookupReversal(t *testing.T) {
	f := fabric.New()
	y, x := 0, 1
	var bidirSw fabric.Switch
	found := false
	for _, e := range f.RoutingSwitches(y, x) {
		if e.BitPos.Bidir {
			bidirSw = e.Switch
			found = true
			break
		}
	}
	if !found {
		t.Fatal("fixture fabric has no bidirectional switch at (0,1)")
	}
	// The reversed (to, from) pair must also resolve, since the switch is
	// bidirectional.
	_, bidir, ok := f.SwitchLookup(y, x, bidirSw.To, bidirSw.From)
	if !ok || !bidir {
		t.Errorf("SwitchLookup reversal failed for bidir switch %+v", bidirSw)
	}
}

func TestLogicCarrySwitchExtraction(t *testing.T) {
	f := fabric.New()
	bp := bitplane.New()
	m := floorplan.New()

	y, x := 1, 2 // L column, row-position 1; has an upstream tile at pos 0
	off := tileByteOffset(1)
	minor := mi25ForCol(f.IsMLColumnM(x))
	if err := bp.SetBit(fabric.WhichRow(y), x, minor, off*8+carryInUsedBit); err != nil {
		t.Fatal(err)
	}

	scratch, err := Extract(bp, f, m, &testLog{})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(scratch) != 1 {
		t.Fatalf("expected 1 scratch entry, got %+v", scratch)
	}
	if scratch[0].Y != 0 || scratch[0].X != x {
		t.Errorf("expected upstream tile (0,%d), got (%d,%d)", x, scratch[0].Y, scratch[0].X)
	}

	set, err := bp.GetBit(fabric.WhichRow(y), x, minor, off*8+carryInUsedBit)
	if err != nil {
		t.Fatal(err)
	}
	if set {
		t.Error("carry-in-used bit should be cleared after extraction")
	}
}

func TestIOLogicSwitchGroupRoundTrip(t *testing.T) {
	f := fabric.New()
	bp := bitplane.New()
	m := floorplan.New()

	y, x := fabric.NumTileRows()-1, 2 // bottom-outer row of the L column
	side, ok := f.IOLogicSideAt(y, x)
	if !ok {
		t.Fatalf("(%d,%d) has no IOLogic side", y, x)
	}
	recs := f.IOLogicTable(side)
	if len(recs) == 0 {
		t.Fatalf("side %v has no IOLogic records", side)
	}
	rec := recs[0]

	// Find the switch index for each wire pair and mark it used, then
	// write the group's bits.
	for _, wp := range rec.Pairs {
		idx, _, ok := f.SwitchLookup(y, x, wp.From, wp.To)
		if !ok {
			t.Fatalf("fixture fabric missing switch for iologic pair %+v", wp)
		}
		m.SetSwitchUsed(y, x, idx)
	}
	if err := Write(bp, f, m, &testLog{}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	for _, loc := range rec.Bits {
		set, err := bp.GetBit(fabric.WhichRow(y), x, loc.Minor, loc.Bit)
		if err != nil {
			t.Fatal(err)
		}
		if !set {
			t.Errorf("expected bit (minor=%d,bit=%d) set after Write", loc.Minor, loc.Bit)
		}
	}

	scratch, err := Extract(bp, f, floorplan.New(), &testLog{})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(scratch) != len(rec.Pairs) {
		t.Fatalf("expected %d scratch entries, got %d: %+v", len(rec.Pairs), len(scratch), scratch)
	}
	for _, loc := range rec.Bits {
		set, err := bp.GetBit(fabric.WhichRow(y), x, loc.Minor, loc.Bit)
		if err != nil {
			t.Fatal(err)
		}
		if set {
			t.Errorf("bit (minor=%d,bit=%d) should be cleared after extraction", loc.Minor, loc.Bit)
		}
	}
}

func TestScratchOverflow(t *testing.T) {
	f := fabric.New()
	bp := bitplane.New()
	m := floorplan.New()

	y, x := 0, 1
	var minor20 *fabric.RoutingEntry
	for _, e := range f.RoutingSwitches(y, x) {
		if e.BitPos.Minor == 20 {
			e := e
			minor20 = &e
			break
		}
	}
	if minor20 == nil {
		t.Fatal("fixture fabric has no minor-20-layout switch at (0,1)")
	}
	row, pos, _ := fabric.IsInRow(y)
	minorA, bitA, minorB, bitB, enMinor, enBit := routingBitAddrs(*minor20, startInFrame(pos))
	if minor20.BitPos.TwoBitsVal&1 != 0 {
		if err := bp.SetBit(row, x, minorA, bitA); err != nil {
			t.Fatal(err)
		}
	}
	if minor20.BitPos.TwoBitsVal&2 != 0 {
		if err := bp.SetBit(row, x, minorB, bitB); err != nil {
			t.Fatal(err)
		}
	}
	if err := bp.SetBit(row, x, enMinor, enBit); err != nil {
		t.Fatal(err)
	}

	// Pre-saturate the scratch list so the one switch this image encodes
	// overflows it.
	scratch := make([]floorplan.SwitchRef, bitplane.MaxYXSwitches)
	err := extractRoutingSwitches(bp, f, m, &scratch, &testLog{})
	if !errors.Is(err, ErrNotSupported) {
		t.Fatalf("extractRoutingSwitches with a saturated scratch = %v, want ErrNotSupported", err)
	}
}
