package fabric

import "testing"

func TestRowPositionArithmetic(t *testing.T) {
	cases := []struct {
		y        int
		wantRow  int
		wantPos  int
		wantOK   bool
	}{
		{0, 0, 0, true},
		{8, 0, 8, false}, // HCLK position, not a real tile row
		{9, 0, 9, true},
		{16, 1, 0, true},
		{63, 3, 15, true},
	}
	for _, c := range cases {
		row, pos, ok := IsInRow(c.y)
		if row != c.wantRow || pos != c.wantPos || ok != c.wantOK {
			t.Errorf("IsInRow(%d) = (%d,%d,%v), want (%d,%d,%v)", c.y, row, pos, ok, c.wantRow, c.wantPos, c.wantOK)
		}
		if WhichRow(c.y) != c.wantRow {
			t.Errorf("WhichRow(%d) = %d, want %d", c.y, WhichRow(c.y), c.wantRow)
		}
		if PosInRow(c.y) != c.wantPos {
			t.Errorf("PosInRow(%d) = %d, want %d", c.y, PosInRow(c.y), c.wantPos)
		}
	}
}

func TestColumnKindAt(t *testing.T) {
	f := New()
	want := []ColumnKind{ColIOB, ColRouting, ColLogic, ColRouting, ColLogic, ColRouting, ColIOB}
	for x, k := range want {
		if got := f.ColumnKindAt(x); got != k {
			t.Errorf("ColumnKindAt(%d) = %v, want %v", x, got, k)
		}
	}
	if !f.IsMLColumnM(4) {
		t.Error("column 4 should be the M-slice logic column")
	}
	if f.IsMLColumnM(2) {
		t.Error("column 2 should be the L-slice logic column")
	}
}

func TestIOLogicSideAtBoundsToLogicColumnsAndBottomRows(t *testing.T) {
	f := New()
	if _, ok := f.IOLogicSideAt(0, 2); ok {
		t.Error("row 0 of a logic column should have no iologic side")
	}
	if _, ok := f.IOLogicSideAt(NumTileRows()-1, 1); ok {
		t.Error("bottom row of a routing column should have no iologic side")
	}
	side, ok := f.IOLogicSideAt(NumTileRows()-1, 2)
	if !ok || side != SideBottomOuter {
		t.Errorf("IOLogicSideAt(bottom,2) = (%v,%v), want (SideBottomOuter,true)", side, ok)
	}
	side, ok = f.IOLogicSideAt(NumTileRows()-2, 4)
	if !ok || side != SideBottomInner {
		t.Errorf("IOLogicSideAt(bottom-1,4) = (%v,%v), want (SideBottomInner,true)", side, ok)
	}
}

func TestCarryChainUpSkipsHCLKRow(t *testing.T) {
	f := New()
	// y=9 is the first real tile row below the HCLK band (y=8); its
	// immediate upstream neighbor is y=7, the last real row above HCLK.
	upY, upX, ok := f.CarryChainUp(9, 2)
	if !ok || upY != 7 || upX != 2 {
		t.Errorf("CarryChainUp(9,2) = (%d,%d,%v), want (7,2,true)", upY, upX, ok)
	}
	if _, _, ok := f.CarryChainUp(0, 2); ok {
		t.Error("CarryChainUp(0,2) should have no upstream tile")
	}
}

func TestSwitchLookupMissResultsInNotOK(t *testing.T) {
	f := New()
	if _, _, ok := f.SwitchLookup(0, 1, "NO_SUCH_WIRE", "ALSO_MISSING"); ok {
		t.Error("SwitchLookup should report not-ok for an unknown pair")
	}
}

func TestConnDestResolvesCarryChainCIN(t *testing.T) {
	f := New()
	if got := f.ConnDest("LI_CIN"); got != "COUT" {
		t.Errorf("ConnDest(LI_CIN) = %q, want COUT", got)
	}
	if got := f.ConnDest("SOMETHING_ELSE"); got != "SOMETHING_ELSE" {
		t.Errorf("ConnDest passthrough changed an unrelated wire: got %q", got)
	}
}
