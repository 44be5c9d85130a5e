package logiccodec

import (
	"testing"

	"github.com/zotley/fpgabit/pkg/bitplane"
	"github.com/zotley/fpgabit/pkg/boolexpr"
	"github.com/zotley/fpgabit/pkg/fabric"
	"github.com/zotley/fpgabit/pkg/floorplan"
)

type testLog struct {
	msgs []string
}

func (l *testLog) Log(y, x int, format string, args ...any) {
	l.msgs = append(l.msgs, format)
}

// equivalentOverSixInputs checks that two boolean expressions agree on
// every one of the 64 combinations of 6 named inputs, the property that
// actually survives the LUT round-trip, since String() renders a
// canonical sum-of-minterms rather than a minimal one.
func equivalentOverSixInputs(t *testing.T, a, b string) bool {
	t.Helper()
	ta, err := boolexpr.Parse(a, 6)
	if err != nil {
		t.Fatalf("parse %q: %v", a, err)
	}
	tb, err := boolexpr.Parse(b, 6)
	if err != nil {
		t.Fatalf("parse %q: %v", b, err)
	}
	return ta == tb
}

func TestXDeviceLUTDRoundTrip(t *testing.T) {
	f := fabric.New()
	bp := bitplane.New()
	m := floorplan.New()

	y, x := 2, 2 // an L-column logic tile at row-position 2
	tile := m.LogicAt(y, x)
	tile.X = &floorplan.LogicDevice{Sync: floorplan.ASYNC, AllLatch: floorplan.FFMode}
	tile.X.Pos[3] = floorplan.LUTPos{LUT6: "A1*A2", OutMux: floorplan.OutMuxO6, Used: true}

	if err := WriteLogic(bp, f, m, &testLog{}); err != nil {
		t.Fatalf("WriteLogic: %v", err)
	}

	got := floorplan.New()
	if err := ExtractLogic(bp, f, got, &testLog{}); err != nil {
		t.Fatalf("ExtractLogic: %v", err)
	}
	gotTile, ok := got.Logic[floorplan.TileKey{Y: y, X: x}]
	if !ok || gotTile.X == nil {
		t.Fatalf("logic tile at (%d,%d) missing after round-trip", y, x)
	}
	if !equivalentOverSixInputs(t, gotTile.X.Pos[3].LUT6, "A1*A2") {
		t.Errorf("LUT_D round-trip mismatch: got %q", gotTile.X.Pos[3].LUT6)
	}
}

func TestXDeviceLUTDAtLastPosition(t *testing.T) {
	// pos=15 is the tile-row position with the largest byte offset in a
	// minor frame; this guards against the offset arithmetic overrunning
	// FrameSize when writing a device's LUT pair minors.
	f := fabric.New()
	bp := bitplane.New()
	m := floorplan.New()

	y, x := 15, 4 // an M-column logic tile at the last row position
	tile := m.LogicAt(y, x)
	tile.X = &floorplan.LogicDevice{Sync: floorplan.ASYNC, AllLatch: floorplan.FFMode}
	tile.X.Pos[3] = floorplan.LUTPos{LUT6: "A1+A2", OutMux: floorplan.OutMuxO6, Used: true}

	if err := WriteLogic(bp, f, m, &testLog{}); err != nil {
		t.Fatalf("WriteLogic: %v", err)
	}
	got := floorplan.New()
	if err := ExtractLogic(bp, f, got, &testLog{}); err != nil {
		t.Fatalf("ExtractLogic: %v", err)
	}
	gotTile, ok := got.Logic[floorplan.TileKey{Y: y, X: x}]
	if !ok || gotTile.X == nil {
		t.Fatalf("logic tile at (%d,%d) missing after round-trip", y, x)
	}
	if !equivalentOverSixInputs(t, gotTile.X.Pos[3].LUT6, "A1+A2") {
		t.Errorf("LUT_D round-trip mismatch: got %q", gotTile.X.Pos[3].LUT6)
	}
}

func TestMLDeviceAttributeRoundTrip(t *testing.T) {
	f := fabric.New()
	bp := bitplane.New()
	m := floorplan.New()

	y, x := 2, 4 // an M-column logic tile
	tile := m.LogicAt(y, x)
	ml := &floorplan.LogicDevice{
		ClockInv: true,
		Sync:     floorplan.SYNC,
		CEUsed:   true,
	}
	ml.Pos[0] = floorplan.LUTPos{FFMux: floorplan.FFMuxX, SRInit: floorplan.SRInit1, CY0: floorplan.CY0X}
	ml.Pos[1] = floorplan.LUTPos{LUT6: "A1+A3", OutMux: floorplan.OutMuxO6, Used: true}
	tile.ML = ml

	if err := WriteLogic(bp, f, m, &testLog{}); err != nil {
		t.Fatalf("WriteLogic: %v", err)
	}

	got := floorplan.New()
	log := &testLog{}
	if err := ExtractLogic(bp, f, got, log); err != nil {
		t.Fatalf("ExtractLogic: %v", err)
	}
	if len(log.msgs) != 0 {
		t.Fatalf("ExtractLogic logged unexpectedly: %v", log.msgs)
	}
	gotTile, ok := got.Logic[floorplan.TileKey{Y: y, X: x}]
	if !ok || gotTile.ML == nil {
		t.Fatalf("ML device at (%d,%d) missing after round-trip", y, x)
	}
	if gotTile.X != nil {
		t.Errorf("X device instantiated at (%d,%d) though only ML was encoded", y, x)
	}
	d := gotTile.ML
	if !d.ClockInv || d.Sync != floorplan.SYNC || !d.CEUsed || d.SRUsed {
		t.Errorf("device flags mismatch: %+v", d)
	}
	if d.Pos[0].FFMux != floorplan.FFMuxX || d.Pos[0].SRInit != floorplan.SRInit1 || d.Pos[0].CY0 != floorplan.CY0X {
		t.Errorf("pos A mismatch: %+v", d.Pos[0])
	}
	if d.Pos[1].OutMux != floorplan.OutMuxO6 {
		t.Errorf("pos B out-mux mismatch: %+v", d.Pos[1])
	}
	if !equivalentOverSixInputs(t, d.Pos[1].LUT6, "A1+A3") {
		t.Errorf("pos B LUT6 round-trip mismatch: got %q", d.Pos[1].LUT6)
	}
}

func TestSplitLUTRoundTrip(t *testing.T) {
	f := fabric.New()
	bp := bitplane.New()
	m := floorplan.New()

	y, x := 3, 2 // an L-column logic tile
	tile := m.LogicAt(y, x)
	ml := &floorplan.LogicDevice{}
	// OutMux=O5 makes this position a split LUT6/LUT5 pair.
	ml.Pos[2] = floorplan.LUTPos{
		LUT6:   "(A6+~A6)*(A1*A2)",
		LUT5:   "A3",
		OutMux: floorplan.OutMuxO5,
		Used:   true,
	}
	tile.ML = ml

	if err := WriteLogic(bp, f, m, &testLog{}); err != nil {
		t.Fatalf("WriteLogic: %v", err)
	}

	got := floorplan.New()
	if err := ExtractLogic(bp, f, got, &testLog{}); err != nil {
		t.Fatalf("ExtractLogic: %v", err)
	}
	gotTile, ok := got.Logic[floorplan.TileKey{Y: y, X: x}]
	if !ok || gotTile.ML == nil {
		t.Fatalf("ML device at (%d,%d) missing after round-trip", y, x)
	}
	p := gotTile.ML.Pos[2]
	if p.OutMux != floorplan.OutMuxO5 {
		t.Fatalf("pos C out-mux mismatch: %+v", p)
	}
	// Both halves must survive independently: the 6-LUT's upper half and
	// the companion 5-LUT carry separate truth tables.
	wantHi, err := boolexpr.Parse("A1*A2", 5)
	if err != nil {
		t.Fatal(err)
	}
	gotHi, err := boolexpr.Parse(extractInner(p.LUT6), 5)
	if err != nil {
		t.Fatalf("parse recovered LUT6 %q: %v", p.LUT6, err)
	}
	if gotHi != wantHi {
		t.Errorf("LUT6 upper half mismatch: got %q", p.LUT6)
	}
	wantLo, err := boolexpr.Parse("A3", 5)
	if err != nil {
		t.Fatal(err)
	}
	gotLo, err := boolexpr.Parse(p.LUT5, 5)
	if err != nil {
		t.Fatalf("parse recovered LUT5 %q: %v", p.LUT5, err)
	}
	if gotLo != wantLo {
		t.Errorf("LUT5 mismatch: got %q", p.LUT5)
	}
}

func TestEmptyTileStaysVacant(t *testing.T) {
	f := fabric.New()
	bp := bitplane.New()
	m := floorplan.New()
	log := &testLog{}
	if err := ExtractLogic(bp, f, m, log); err != nil {
		t.Fatalf("ExtractLogic on empty image: %v", err)
	}
	if len(m.Logic) != 0 {
		t.Errorf("expected no logic tiles from an all-zero image, got %d", len(m.Logic))
	}
}

func TestLUTScrambleIsBijection(t *testing.T) {
	for _, width := range []int{32, 64} {
		for pos := 0; pos < 16; pos++ {
			for x := 0; x < 5; x++ {
				perm := lutScramble(width, pos, x)
				seen := make([]bool, width)
				for _, p := range perm {
					if p < 0 || p >= width || seen[p] {
						t.Fatalf("lutScramble(%d,%d,%d) is not a bijection: %v", width, pos, x, perm)
					}
					seen[p] = true
				}
			}
		}
	}
}

func TestLUTScrambleInverse(t *testing.T) {
	perm := lutScramble(64, 3, 2)
	inv := invertPermutation(perm)
	raw := uint64(0xDEADBEEFCAFEBABE)
	logical := applyPermutation(raw, perm)
	back := applyPermutation(logical, inv)
	if back != raw {
		t.Errorf("applyPermutation round-trip mismatch: got %#x, want %#x", back, raw)
	}
}
