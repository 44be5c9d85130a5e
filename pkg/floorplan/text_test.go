package floorplan

import (
	"strings"
	"testing"
)

func TestTextRoundTrip(t *testing.T) {
	m := New()
	m.IOBs["P58"] = &IOBConfig{
		Instantiated:  true,
		Mode:          ModeOutput,
		OStandard:     OStdLVCMOS33,
		DriveStrength: 12,
		Slew:          SlewSlow,
		Suspend:       Susp3State,
	}
	m.IOBs["P10"] = &IOBConfig{
		Instantiated: true,
		Mode:         ModeInput,
		IStandard:    IStdLVCMOS33_25_LVTTL,
		IMux:         IMuxI,
	}
	m.SetSwitchUsed(3, 1, 0)
	m.SetSwitchUsed(3, 1, 2)

	tile := m.LogicAt(2, 2)
	tile.X = &LogicDevice{Sync: ASYNC, AllLatch: FFMode}
	tile.X.Pos[3] = LUTPos{LUT6: "A1*A2", OutMux: OutMuxO6, Used: true}

	var buf strings.Builder
	if err := WriteText(&buf, m); err != nil {
		t.Fatalf("WriteText: %v", err)
	}

	got, err := ReadText(strings.NewReader(buf.String()))
	if err != nil {
		t.Fatalf("ReadText: %v\n--- text ---\n%s", err, buf.String())
	}

	out, ok := got.IOBs["P58"]
	if !ok || out.Mode != ModeOutput || out.OStandard != OStdLVCMOS33 || out.DriveStrength != 12 ||
		out.Slew != SlewSlow || out.Suspend != Susp3State {
		t.Errorf("P58 round-trip mismatch: %+v", out)
	}
	in, ok := got.IOBs["P10"]
	if !ok || in.Mode != ModeInput || in.IStandard != IStdLVCMOS33_25_LVTTL || in.IMux != IMuxI {
		t.Errorf("P10 round-trip mismatch: %+v", in)
	}
	if !got.SwitchIsUsed(3, 1, 0) || !got.SwitchIsUsed(3, 1, 2) {
		t.Errorf("switches missing after round-trip: %+v", got.Switches)
	}
	gotTile, ok := got.Logic[TileKey{2, 2}]
	if !ok || gotTile.X == nil || gotTile.X.Pos[3].LUT6 != "A1*A2" {
		t.Errorf("logic tile round-trip mismatch: %+v", gotTile)
	}
}

func TestReadTextRejectsUnknownDirective(t *testing.T) {
	if _, err := ReadText(strings.NewReader("bogus foo=bar\n")); err == nil {
		t.Fatal("expected error for unknown directive")
	}
}

func TestReadTextSkipsCommentsAndBlankLines(t *testing.T) {
	src := "# a comment\n\n  \niob site=P1 mode=input istd=lvds25 imux=i\n"
	m, err := ReadText(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ReadText: %v", err)
	}
	if _, ok := m.IOBs["P1"]; !ok {
		t.Fatal("expected P1 to be parsed")
	}
}
