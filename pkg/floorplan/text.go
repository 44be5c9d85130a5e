// text.go - floorplan text reader/writer

// Floorplan text I/O: the line-oriented directive/key=value format the
// fp2bit and bit2fp front ends read and write.
package floorplan

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// ReadText parses a floorplan source file into a Model. Syntax, one
// directive per line, blank lines and '#'-prefixed comments ignored:
//
//	iob site=<name> mode=input|output key=value...
//	switch y=<n> x=<n> idx=<n>
//	logic y=<n> x=<n> dev=x|ml pos=<0-3> key=value...
//	logic y=<n> x=<n> dev=x|ml key=value...   (device-level attributes)
func ReadText(r io.Reader) (*Model, error) {
	m := New()
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		fields := strings.Fields(trimmed)
		directive := strings.ToLower(fields[0])
		kv, err := parseKV(fields[1:])
		if err != nil {
			return nil, fmt.Errorf("floorplan: line %d: %w", lineNo, err)
		}
		switch directive {
		case "iob":
			if err := readIOBLine(m, kv); err != nil {
				return nil, fmt.Errorf("floorplan: line %d: %w", lineNo, err)
			}
		case "switch":
			if err := readSwitchLine(m, kv); err != nil {
				return nil, fmt.Errorf("floorplan: line %d: %w", lineNo, err)
			}
		case "logic":
			if err := readLogicLine(m, kv); err != nil {
				return nil, fmt.Errorf("floorplan: line %d: %w", lineNo, err)
			}
		default:
			return nil, fmt.Errorf("floorplan: line %d: unknown directive %q", lineNo, fields[0])
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("floorplan: %w", err)
	}
	return m, nil
}

// parseKV splits "key=value" fields at the first '=', stripping all
// leading and trailing double quotes from the value (WriteText quotes
// lut6="A1*A2"-style boolean expressions).
func parseKV(fields []string) (map[string]string, error) {
	kv := make(map[string]string, len(fields))
	for _, f := range fields {
		eq := strings.IndexByte(f, '=')
		if eq < 0 {
			return nil, fmt.Errorf("expected key=value, got %q", f)
		}
		key, val := f[:eq], f[eq+1:]
		val = strings.Trim(val, `"`)
		kv[strings.ToLower(key)] = val
	}
	return kv, nil
}

func readIOBLine(m *Model, kv map[string]string) error {
	site, ok := kv["site"]
	if !ok {
		return fmt.Errorf("iob: missing site=")
	}
	cfg := &IOBConfig{Instantiated: true}
	switch strings.ToLower(kv["mode"]) {
	case "input":
		cfg.Mode = ModeInput
		if std, ok := istandardNames[kv["istd"]]; ok {
			cfg.IStandard = std
		}
		cfg.IMux = IMuxI
		if strings.ToLower(kv["imux"]) == "i_b" {
			cfg.IMux = IMuxIB
		}
	case "output":
		cfg.Mode = ModeOutput
		if std, ok := ostandardNames[kv["ostd"]]; ok {
			cfg.OStandard = std
		}
		if d, ok := kv["drive"]; ok {
			n, err := strconv.Atoi(d)
			if err != nil {
				return fmt.Errorf("iob %s: bad drive=%q: %w", site, d, err)
			}
			cfg.DriveStrength = n
		}
		if s, ok := slewNames[kv["slew"]]; ok {
			cfg.Slew = s
		}
		if s, ok := suspendNames[kv["susp"]]; ok {
			cfg.Suspend = s
		}
	default:
		return fmt.Errorf("iob %s: mode must be input or output, got %q", site, kv["mode"])
	}
	m.IOBs[site] = cfg
	return nil
}

func readSwitchLine(m *Model, kv map[string]string) error {
	y, err := atoiField(kv, "y")
	if err != nil {
		return err
	}
	x, err := atoiField(kv, "x")
	if err != nil {
		return err
	}
	idx, err := atoiField(kv, "idx")
	if err != nil {
		return err
	}
	m.SetSwitchUsed(y, x, idx)
	return nil
}

func readLogicLine(m *Model, kv map[string]string) error {
	y, err := atoiField(kv, "y")
	if err != nil {
		return err
	}
	x, err := atoiField(kv, "x")
	if err != nil {
		return err
	}
	isML := strings.ToLower(kv["dev"]) == "ml"
	tile := m.LogicAt(y, x)
	var dev **LogicDevice
	if isML {
		dev = &tile.ML
	} else {
		dev = &tile.X
	}
	if *dev == nil {
		*dev = &LogicDevice{Sync: ASYNC, AllLatch: FFMode}
	}
	d := *dev

	if posStr, ok := kv["pos"]; ok {
		pos, err := strconv.Atoi(posStr)
		if err != nil || pos < 0 || pos > 3 {
			return fmt.Errorf("logic %d,%d: bad pos=%q", y, x, posStr)
		}
		p := &d.Pos[pos]
		if v, ok := kv["lut6"]; ok {
			p.LUT6 = v
			p.Used = true
		}
		if v, ok := kv["lut5"]; ok {
			p.LUT5 = v
		}
		if v, ok := outMuxNames[kv["outmux"]]; ok {
			p.OutMux = v
		}
		if v, ok := ffMuxNames[kv["ffmux"]]; ok {
			p.FFMux = v
		}
		if v, ok := cy0Names[kv["cy0"]]; ok {
			p.CY0 = v
		}
		if strings.ToLower(kv["srinit"]) == "1" {
			p.SRInit = SRInit1
		}
		return nil
	}

	// Device-level attributes.
	if strings.ToLower(kv["clockinv"]) == "true" {
		d.ClockInv = true
	}
	if strings.ToLower(kv["sync"]) == "sync" {
		d.Sync = SYNC
	}
	if strings.ToLower(kv["ceused"]) == "true" {
		d.CEUsed = true
	}
	if strings.ToLower(kv["srused"]) == "true" {
		d.SRUsed = true
	}
	if strings.ToLower(kv["alllatch"]) == "true" {
		d.AllLatch = LatchMode
	}
	if v, ok := preCYInitNames[kv["precyinit"]]; ok {
		d.PreCYInit = v
	}
	if strings.ToLower(kv["carryoutused"]) == "true" {
		d.CarryOutUsed = true
	}
	return nil
}

func atoiField(kv map[string]string, key string) (int, error) {
	s, ok := kv[key]
	if !ok {
		return 0, fmt.Errorf("missing %s=", key)
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("bad %s=%q: %w", key, s, err)
	}
	return n, nil
}

// WriteText renders m back into the directive format ReadText parses,
// sorted by coordinate so the output is stable across runs and usable
// for round-trip diffing.
func WriteText(w io.Writer, m *Model) error {
	if err := writeIOBs(w, m); err != nil {
		return err
	}
	if err := writeSwitches(w, m); err != nil {
		return err
	}
	return writeLogic(w, m)
}

func writeIOBs(w io.Writer, m *Model) error {
	names := make([]string, 0, len(m.IOBs))
	for name := range m.IOBs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		cfg := m.IOBs[name]
		var b strings.Builder
		fmt.Fprintf(&b, "iob site=%s", name)
		switch cfg.Mode {
		case ModeInput:
			fmt.Fprintf(&b, " mode=input istd=%s imux=%s", istandardName[cfg.IStandard], imuxName[cfg.IMux])
		case ModeOutput:
			fmt.Fprintf(&b, " mode=output ostd=%s drive=%d slew=%s susp=%s",
				ostandardName[cfg.OStandard], cfg.DriveStrength, slewName[cfg.Slew], suspendName[cfg.Suspend])
		}
		if _, err := fmt.Fprintln(w, b.String()); err != nil {
			return err
		}
	}
	return nil
}

func writeSwitches(w io.Writer, m *Model) error {
	keys := make([]TileKey, 0, len(m.Switches))
	for k := range m.Switches {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Y != keys[j].Y {
			return keys[i].Y < keys[j].Y
		}
		return keys[i].X < keys[j].X
	})
	for _, k := range keys {
		idxs := m.UsedSwitches(k.Y, k.X)
		sort.Ints(idxs)
		for _, idx := range idxs {
			if _, err := fmt.Fprintf(w, "switch y=%d x=%d idx=%d\n", k.Y, k.X, idx); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeLogic(w io.Writer, m *Model) error {
	keys := make([]TileKey, 0, len(m.Logic))
	for k := range m.Logic {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Y != keys[j].Y {
			return keys[i].Y < keys[j].Y
		}
		return keys[i].X < keys[j].X
	})
	for _, k := range keys {
		tile := m.Logic[k]
		if tile.X != nil {
			if err := writeDeviceText(w, k, "x", tile.X); err != nil {
				return err
			}
		}
		if tile.ML != nil {
			if err := writeDeviceText(w, k, "ml", tile.ML); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeDeviceText(w io.Writer, k TileKey, dev string, d *LogicDevice) error {
	var b strings.Builder
	fmt.Fprintf(&b, "logic y=%d x=%d dev=%s", k.Y, k.X, dev)
	if d.ClockInv {
		b.WriteString(" clockinv=true")
	}
	if d.Sync == SYNC {
		b.WriteString(" sync=sync")
	}
	if d.CEUsed {
		b.WriteString(" ceused=true")
	}
	if d.SRUsed {
		b.WriteString(" srused=true")
	}
	if d.AllLatch == LatchMode {
		b.WriteString(" alllatch=true")
	}
	if d.PreCYInit != PreCYInitNone {
		fmt.Fprintf(&b, " precyinit=%s", preCYInitName[d.PreCYInit])
	}
	if d.CarryOutUsed {
		b.WriteString(" carryoutused=true")
	}
	if _, err := fmt.Fprintln(w, b.String()); err != nil {
		return err
	}
	for i, p := range d.Pos {
		if p.LUT6 == "" && p.OutMux == OutMuxNone && p.FFMux == FFMuxNone && p.CY0 == CY0None && p.SRInit != SRInit1 {
			continue
		}
		var pb strings.Builder
		fmt.Fprintf(&pb, "logic y=%d x=%d dev=%s pos=%d", k.Y, k.X, dev, i)
		if p.LUT6 != "" {
			fmt.Fprintf(&pb, " lut6=%q", p.LUT6)
		}
		if p.LUT5 != "" {
			fmt.Fprintf(&pb, " lut5=%q", p.LUT5)
		}
		if p.OutMux != OutMuxNone {
			fmt.Fprintf(&pb, " outmux=%s", outMuxName[p.OutMux])
		}
		if p.FFMux != FFMuxNone {
			fmt.Fprintf(&pb, " ffmux=%s", ffMuxName[p.FFMux])
		}
		if p.CY0 != CY0None {
			fmt.Fprintf(&pb, " cy0=%s", cy0Name[p.CY0])
		}
		if p.SRInit == SRInit1 {
			pb.WriteString(" srinit=1")
		}
		if _, err := fmt.Fprintln(w, pb.String()); err != nil {
			return err
		}
	}
	return nil
}

// --- enum <-> text name tables ------------------------------------------

var istandardNames = map[string]IStandard{
	"lvcmos33_25_lvttl":    IStdLVCMOS33_25_LVTTL,
	"lvcmos18_15_12":       IStdLVCMOS18_15_12,
	"lvcmos18_15_12_jedec": IStdLVCMOS18_15_12_JEDEC,
	"sstl2_i":              IStdSSTL2_I,
	"lvds25":               IStdLVDS25,
}
var istandardName = reverseStrMap(istandardNames)

var ostandardNames = map[string]OStandard{
	"lvttl":    OStdLVTTL,
	"lvcmos33": OStdLVCMOS33,
	"lvcmos25": OStdLVCMOS25,
	"lvcmos18": OStdLVCMOS18,
	"lvcmos15": OStdLVCMOS15,
	"lvcmos12": OStdLVCMOS12,
}
var ostandardName = reverseStrMap(ostandardNames)

var slewNames = map[string]Slew{
	"slow":    SlewSlow,
	"fast":    SlewFast,
	"quietio": SlewQuietIO,
}
var slewName = reverseStrMap(slewNames)

var suspendNames = map[string]Suspend{
	"lastval":         SuspLastVal,
	"3state":          Susp3State,
	"3state_pullup":   Susp3StatePullup,
	"3state_pulldown": Susp3StatePulldown,
	"3state_keeper":   Susp3StateKeeper,
	"3state_octon":    Susp3StateOctOn,
}
var suspendName = reverseStrMap(suspendNames)

var imuxName = map[IMux]string{IMuxI: "I", IMuxIB: "I_B", IMuxNone: "I"}

var outMuxNames = map[string]OutMux{
	"o6": OutMuxO6, "o5": OutMuxO5, "xor": OutMuxXOR, "cy": OutMuxCY,
	"f7": OutMuxF7, "f8": OutMuxF8, "5q": OutMux5Q,
}
var outMuxName = reverseStrMap(outMuxNames)

var ffMuxNames = map[string]FFMux{
	"x": FFMuxX, "o5": FFMuxO5, "f7": FFMuxF7, "f8": FFMuxF8, "xor": FFMuxXOR, "cy": FFMuxCY,
}
var ffMuxName = reverseStrMap(ffMuxNames)

var cy0Names = map[string]CY0{"o5": CY0O5, "x": CY0X, "1": CY0_1}
var cy0Name = reverseStrMap(cy0Names)

var preCYInitNames = map[string]PreCYInit{"0": PreCYInit0, "1": PreCYInit1, "ax": PreCYInitAX}
var preCYInitName = reverseStrMap(preCYInitNames)

func reverseStrMap[V comparable](m map[string]V) map[V]string {
	out := make(map[V]string, len(m))
	for k, v := range m {
		out[v] = k
	}
	return out
}
