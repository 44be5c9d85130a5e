// model.go - in-memory floorplan model

/*
(c) 2025 - 2026 Zayn Otley
https://github.com/zotley/fpgabit
License: GPLv3 or later
*/

// Package floorplan is the in-memory description the codec reads (encode)
// or populates (decode): instantiated pad devices, configured logic-slice
// attributes, and activated routing switches. Text I/O lives here too,
// since the CLI front ends need it, along with the net helpers (FnetNew,
// FnetAddSw) pkg/codec calls to turn extracted switches into nets.
package floorplan

// TileKey addresses one device tile by its fabric row/column coordinate.
type TileKey struct{ Y, X int }

// IOMode is the mutually-exclusive input/output mode of a pad.
type IOMode int

const (
	ModeNone IOMode = iota
	ModeInput
	ModeOutput
)

// IStandard enumerates the recognized input electrical standards.
type IStandard int

const (
	IStdNone IStandard = iota
	IStdLVCMOS33_25_LVTTL
	IStdLVCMOS18_15_12
	IStdLVCMOS18_15_12_JEDEC
	IStdSSTL2_I
	IStdLVDS25
)

// IMux selects which input-mux tap feeds the pad's input path.
type IMux int

const (
	IMuxNone IMux = iota
	IMuxI
	IMuxIB
)

// OStandard enumerates the recognized output electrical standards.
type OStandard int

const (
	OStdNone OStandard = iota
	OStdLVTTL
	OStdLVCMOS33
	OStdLVCMOS25
	OStdLVCMOS18
	OStdLVCMOS15
	OStdLVCMOS12
)

// Slew is the output slew-rate setting.
type Slew int

const (
	SlewNone Slew = iota
	SlewSlow
	SlewFast
	SlewQuietIO
)

// Suspend is the pad's suspend-mode behavior, one of six.
type Suspend int

const (
	SuspNone Suspend = iota
	SuspLastVal
	Susp3State
	Susp3StatePullup
	Susp3StatePulldown
	Susp3StateKeeper
	Susp3StateOctOn
)

// IOBConfig is one pad device's floorplan configuration, keyed in the
// model by package-pin site name.
type IOBConfig struct {
	Instantiated  bool
	Mode          IOMode
	IStandard     IStandard
	IMux          IMux
	OStandard     OStandard
	DriveStrength int
	Slew          Slew
	Suspend       Suspend
}

// OutMux selects which signal drives a logic slice position's output.
type OutMux int

const (
	OutMuxNone OutMux = iota
	OutMuxO6
	OutMuxO5
	OutMuxXOR
	OutMuxCY
	OutMuxF7
	OutMuxF8
	OutMux5Q
)

// FFMux selects which signal feeds a logic slice position's flip-flop/latch.
type FFMux int

const (
	FFMuxNone FFMux = iota
	FFMuxX
	FFMuxO5
	FFMuxF7
	FFMuxF8
	FFMuxXOR
	FFMuxCY
)

// CY0 selects the carry-in-0 source of a logic slice position.
type CY0 int

const (
	CY0None CY0 = iota
	CY0O5
	CY0X
	CY0_1
)

// SRInit is the FF/latch's set/reset initial value.
type SRInit int

const (
	SRInit0 SRInit = iota
	SRInit1
)

// ClockEdge selects clock polarity.
type ClockEdge int

const (
	CLK ClockEdge = iota
	CLKB
)

// SyncAttr selects synchronous vs. asynchronous set/reset.
type SyncAttr int

const (
	ASYNC SyncAttr = iota
	SYNC
)

// FFOrLatch distinguishes an all-FF device from an all-latch device.
type FFOrLatch int

const (
	FFMode FFOrLatch = iota
	LatchMode
)

// PreCYInit selects the pre-carry-chain initial value source.
type PreCYInit int

const (
	PreCYInitNone PreCYInit = iota
	PreCYInit0
	PreCYInit1
	PreCYInitAX
)

// LUTPos is one A/B/C/D sub-position of a logic device: a 6-input LUT
// truth table plus its optional companion 5-input LUT, expressed as
// canonical boolean expressions (pkg/boolexpr), and the muxes/init value
// that route its output.
type LUTPos struct {
	LUT6   string // boolean expression, e.g. "A1*A2"; empty if unused
	LUT5   string // companion 5-LUT expression; empty if not split
	OutMux OutMux
	FFMux  FFMux
	CY0    CY0
	SRInit SRInit
	Used   bool
}

// LogicDevice is one of the two logical slice devices (ML or X) present in
// a logic tile.
type LogicDevice struct {
	Pos          [4]LUTPos // A, B, C, D
	ClockInv     bool
	Sync         SyncAttr
	CEUsed       bool
	SRUsed       bool
	AllLatch     FFOrLatch
	PreCYInit    PreCYInit
	CarryOutUsed bool
}

// LogicTile holds both logical devices of one tile column/row position.
type LogicTile struct {
	ML *LogicDevice
	X  *LogicDevice
}

// SwitchUse marks one fabric switch index at a tile as activated.
type SwitchUse struct {
	Idx int
}

// Net groups the switches that form one routed connection, as synthesized
// by the decode path from the codec's extraction scratch list.
type Net struct {
	Switches []SwitchRef
}

// SwitchRef names one switch by tile and index, the unit the extraction
// scratch list accumulates.
type SwitchRef struct {
	Y, X, Idx int
}

// Model is the floorplan the codec reads (encode) or populates (decode).
type Model struct {
	IOBs     map[string]*IOBConfig
	Logic    map[TileKey]*LogicTile
	Switches map[TileKey]map[int]bool
	Nets     []Net
}

// New returns an empty floorplan model.
func New() *Model {
	return &Model{
		IOBs:     make(map[string]*IOBConfig),
		Logic:    make(map[TileKey]*LogicTile),
		Switches: make(map[TileKey]map[int]bool),
	}
}

// SetSwitchUsed marks a fabric switch index as activated at (y,x).
func (m *Model) SetSwitchUsed(y, x, idx int) {
	k := TileKey{y, x}
	if m.Switches[k] == nil {
		m.Switches[k] = make(map[int]bool)
	}
	m.Switches[k][idx] = true
}

// SwitchIsUsed reports whether a fabric switch index is activated at (y,x).
func (m *Model) SwitchIsUsed(y, x, idx int) bool {
	return m.Switches[TileKey{y, x}][idx]
}

// UsedSwitches returns the used switch indices at (y,x) in no particular
// order (map iteration order).
func (m *Model) UsedSwitches(y, x int) []int {
	var out []int
	for idx, used := range m.Switches[TileKey{y, x}] {
		if used {
			out = append(out, idx)
		}
	}
	return out
}

// LogicAt returns (creating if necessary) the logic tile at (y,x).
func (m *Model) LogicAt(y, x int) *LogicTile {
	k := TileKey{y, x}
	t, ok := m.Logic[k]
	if !ok {
		t = &LogicTile{}
		m.Logic[k] = t
	}
	return t
}

// FnetNew appends a new empty net and returns its index.
func (m *Model) FnetNew() int {
	m.Nets = append(m.Nets, Net{})
	return len(m.Nets) - 1
}

// FnetAddSw attaches one switch to a net.
func (m *Model) FnetAddSw(netIdx, y, x, idx int) {
	m.Nets[netIdx].Switches = append(m.Nets[netIdx].Switches, SwitchRef{y, x, idx})
}
