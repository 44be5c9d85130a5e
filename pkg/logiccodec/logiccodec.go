// logiccodec.go - logic-slice configuration encoder/decoder

/*
(c) 2025 - 2026 Zayn Otley
https://github.com/zotley/fpgabit
License: GPLv3 or later
*/

// Package logiccodec encodes and decodes the per-tile logic-slice
// configuration (LUT truth tables plus the mux/FF/latch/carry attribute
// bits) across several minor frames, for the two logical devices (ML, X)
// every logic tile hosts. Multi-bit fields decode by mask-and-shift into
// enum tables, single-bit flags by test-and-clear, and anything left over
// after the sweep flags the tile as residual.
package logiccodec

import (
	"fmt"

	"github.com/zotley/fpgabit/pkg/bitplane"
	"github.com/zotley/fpgabit/pkg/boolexpr"
	"github.com/zotley/fpgabit/pkg/fabric"
	"github.com/zotley/fpgabit/pkg/floorplan"
)

// Logger is the minimal diagnostic sink this package needs; *codec.
// Diagnostics satisfies it structurally (see pkg/codec/diag.go).
type Logger interface {
	Log(y, x int, format string, args ...any)
}

// xDeviceConstant is the fixed word stamped into minor 26 for an X device
// carrying only LUT_D and no other attribute: the device's all-defaults
// encoding (ClockInv=false, Sync=ASYNC, CEUsed=false, SRUsed=false,
// AllLatch=FFMode, CarryOutUsed=false, every other position unused). A
// fixed device-family fact, kept literal rather than re-derived.
const xDeviceConstant = 0x000000B000600086

// minorsForColumn returns the inclusive minor range a logic tile's config
// spans: 20..29 for an L column, 20..30 for an M column.
func minorsForColumn(isM bool) (lo, hi int) {
	if isM {
		return 20, 30
	}
	return 20, 29
}

// tileByteOffset is the within-minor byte offset of one tile's 8-byte
// config slice: positions 0-7 sit at pos*8; the HCLK band at position 8
// adds HCLKBytes to every position past it, mirroring switchcodec's
// bit-domain start-in-frame formula in the byte domain.
func tileByteOffset(pos int) int {
	if pos > bitplane.HCLKPos {
		return (pos-1)*8 + bitplane.HCLKBytes
	}
	return pos * 8
}

// --- attribute word layout --------------------------------------------------
//
// Each device's (ML or X) mux/flag attributes pack into one 32-bit word:
// six bits per position (A,B,C,D) for (out-mux:3, ff-mux:3), then six
// single/multi-bit global flags. minor 20 holds the X device's word in its
// low 32 bits and the ML device's word in its high 32 bits, at the tile's
// byte offset.

const (
	posFieldBits = 6 // 3 (out-mux) + 3 (ff-mux)
	outMuxBits   = 3
	ffMuxBits    = 3

	flagClockInv     = 1 << (4*posFieldBits + 0)
	flagSync         = 1 << (4*posFieldBits + 1)
	flagCEUsed       = 1 << (4*posFieldBits + 2)
	flagSRUsed       = 1 << (4*posFieldBits + 3)
	flagAllLatch     = 1 << (4*posFieldBits + 4)
	flagCarryOutUsed = 1 << (4*posFieldBits + 5)
)

var outMuxCode = map[floorplan.OutMux]uint32{
	floorplan.OutMuxO6:  1,
	floorplan.OutMuxO5:  2,
	floorplan.OutMuxXOR: 3,
	floorplan.OutMuxCY:  4,
	floorplan.OutMuxF7:  5,
	floorplan.OutMuxF8:  6,
	floorplan.OutMux5Q:  7,
}
var codeOutMux = reverseU32Map(outMuxCode)

var ffMuxCode = map[floorplan.FFMux]uint32{
	floorplan.FFMuxX:   1,
	floorplan.FFMuxO5:  2,
	floorplan.FFMuxF7:  3,
	floorplan.FFMuxF8:  4,
	floorplan.FFMuxXOR: 5,
	floorplan.FFMuxCY:  6,
}
var codeFFMux = reverseU32Map(ffMuxCode)

func reverseU32Map[K comparable](m map[K]uint32) map[uint32]K {
	out := make(map[uint32]K, len(m))
	for k, v := range m {
		out[v] = k
	}
	return out
}

func packAttrWord(dev *floorplan.LogicDevice) uint32 {
	var w uint32
	for i, p := range dev.Pos {
		shift := uint(i * posFieldBits)
		if p.OutMux != floorplan.OutMuxNone {
			w |= outMuxCode[p.OutMux] << shift
		}
		if p.FFMux != floorplan.FFMuxNone {
			w |= ffMuxCode[p.FFMux] << (shift + outMuxBits)
		}
	}
	if dev.ClockInv {
		w |= flagClockInv
	}
	if dev.Sync == floorplan.SYNC {
		w |= flagSync
	}
	if dev.CEUsed {
		w |= flagCEUsed
	}
	if dev.SRUsed {
		w |= flagSRUsed
	}
	if dev.AllLatch == floorplan.LatchMode {
		w |= flagAllLatch
	}
	if dev.CarryOutUsed {
		w |= flagCarryOutUsed
	}
	return w
}

// unpackAttrWord is the decode bit-sweep: every named bit is tested and
// cleared, assigning the matching cfg field. Returns the residual (any
// bits this sweep did not recognize).
func unpackAttrWord(w uint32, dev *floorplan.LogicDevice, y, x int, log Logger) (residual uint32) {
	for i := range dev.Pos {
		shift := uint(i * posFieldBits)
		omCode := (w >> shift) & (1<<outMuxBits - 1)
		if omCode != 0 {
			om, ok := codeOutMux[omCode]
			if !ok {
				log.Log(y, x, "HERE: undefined out-mux code %#x at position %d", omCode, i)
			} else {
				dev.Pos[i].OutMux = om
			}
			w &^= (1<<outMuxBits - 1) << shift
		}
		ffCode := (w >> (shift + outMuxBits)) & (1<<ffMuxBits - 1)
		if ffCode != 0 {
			fm, ok := codeFFMux[ffCode]
			if !ok {
				log.Log(y, x, "HERE: undefined ff-mux code %#x at position %d", ffCode, i)
			} else {
				dev.Pos[i].FFMux = fm
			}
			w &^= (1<<ffMuxBits - 1) << (shift + outMuxBits)
		}
	}
	if w&flagClockInv != 0 {
		dev.ClockInv = true
		w &^= flagClockInv
	}
	if w&flagSync != 0 {
		dev.Sync = floorplan.SYNC
		w &^= flagSync
	} else {
		dev.Sync = floorplan.ASYNC
	}
	if w&flagCEUsed != 0 {
		dev.CEUsed = true
		w &^= flagCEUsed
	}
	if w&flagSRUsed != 0 {
		dev.SRUsed = true
		w &^= flagSRUsed
	}
	if w&flagAllLatch != 0 {
		dev.AllLatch = floorplan.LatchMode
		w &^= flagAllLatch
	} else {
		dev.AllLatch = floorplan.FFMode
	}
	if w&flagCarryOutUsed != 0 {
		dev.CarryOutUsed = true
		w &^= flagCarryOutUsed
	}
	return w
}

// --- mi2526: CY0, SRInit, PreCYInit, L/M-only illegal bits ------------------

const (
	cy0Bits    = 2
	srInitBits = 1

	preCYInitShift  = 4*(cy0Bits+srInitBits) + 0
	preCYInitBits   = 2
	lOnlyIllegalBit = 1 << (preCYInitShift + preCYInitBits)
	mOnlyIllegalBit = 1 << (preCYInitShift + preCYInitBits + 1)
)

var cy0Code = map[floorplan.CY0]uint32{
	floorplan.CY0O5: 1,
	floorplan.CY0X:  2,
	floorplan.CY0_1: 3,
}
var codeCY0 = reverseU32Map(cy0Code)

var preCYInitCode = map[floorplan.PreCYInit]uint32{
	floorplan.PreCYInit0:  1,
	floorplan.PreCYInit1:  2,
	floorplan.PreCYInitAX: 3,
}
var codePreCYInit = reverseU32Map(preCYInitCode)

func packMi2526Word(dev *floorplan.LogicDevice) uint32 {
	var w uint32
	for i, p := range dev.Pos {
		shift := uint(i * (cy0Bits + srInitBits))
		if p.CY0 != floorplan.CY0None {
			w |= cy0Code[p.CY0] << shift
		}
		if p.SRInit == floorplan.SRInit1 {
			w |= 1 << (shift + cy0Bits)
		}
	}
	if dev.PreCYInit != floorplan.PreCYInitNone {
		w |= preCYInitCode[dev.PreCYInit] << preCYInitShift
	}
	return w
}

func unpackMi2526Word(w uint32, dev *floorplan.LogicDevice, isM bool, y, x int, log Logger) (residual uint32) {
	for i := range dev.Pos {
		shift := uint(i * (cy0Bits + srInitBits))
		cyCode := (w >> shift) & (1<<cy0Bits - 1)
		if cyCode != 0 {
			cy, ok := codeCY0[cyCode]
			if !ok {
				log.Log(y, x, "HERE: undefined cy0 code %#x at position %d", cyCode, i)
			} else {
				dev.Pos[i].CY0 = cy
			}
			w &^= (1<<cy0Bits - 1) << shift
		}
		dev.Pos[i].SRInit = floorplan.SRInit0
		if w&(1<<(shift+cy0Bits)) != 0 {
			dev.Pos[i].SRInit = floorplan.SRInit1
			w &^= 1 << (shift + cy0Bits)
		}
	}
	pc := (w >> preCYInitShift) & (1<<preCYInitBits - 1)
	if pc != 0 {
		if v, ok := codePreCYInit[pc]; ok {
			dev.PreCYInit = v
		}
		w &^= (1<<preCYInitBits - 1) << preCYInitShift
	}
	if w&lOnlyIllegalBit != 0 {
		if !isM {
			w &^= lOnlyIllegalBit
		}
		// else: left for the residual check below to flag the tile.
	}
	if w&mOnlyIllegalBit != 0 {
		if isM {
			w &^= mOnlyIllegalBit
		}
	}
	return w
}

// --- LUT descrambling --------------------------------------------------------

// lutScramble returns the tile-position-specific bit permutation for a
// truth table of the given width (32 for a split LUT5, 64 for a full
// LUT6), mapping logical bit index -> physical bit index. A fixed,
// reversible shuffle keyed by the tile's row position and column; the
// encode path reuses the inverse permutation.
func lutScramble(width, pos, x int) []int {
	perm := make([]int, width)
	stride := 1 + ((pos + x) % (width - 1))
	for i := range perm {
		perm[i] = (i * stride) % width
	}
	// Not every stride is coprime with width; fall back to identity when
	// the generated map is not a bijection.
	seen := make([]bool, width)
	for _, p := range perm {
		if seen[p] {
			for i := range perm {
				perm[i] = i
			}
			break
		}
		seen[p] = true
	}
	return perm
}

func invertPermutation(perm []int) []int {
	inv := make([]int, len(perm))
	for i, p := range perm {
		inv[p] = i
	}
	return inv
}

// applyPermutation maps a raw truth table through perm: physical bit
// perm[i] becomes logical bit i.
func applyPermutation(raw uint64, perm []int) uint64 {
	var out uint64
	for i, p := range perm {
		if raw&(1<<uint(p)) != 0 {
			out |= 1 << uint(i)
		}
	}
	return out
}

// --- tile iteration ----------------------------------------------------------

type tilePos struct {
	y, x, pos int
	isM       bool
}

func logicTiles(f *fabric.Fabric) []tilePos {
	var out []tilePos
	for x := 0; x < fabric.NumCols(); x++ {
		if f.ColumnKindAt(x) != fabric.ColLogic {
			continue
		}
		for y := 0; y < fabric.NumTileRows(); y++ {
			_, pos, ok := fabric.IsInRow(y)
			if !ok {
				continue
			}
			out = append(out, tilePos{y, x, pos, f.IsMLColumnM(x)})
		}
	}
	return out
}

// Each device's four LUT truth tables live in a pair of minor frames: one
// minor holds positions A and C (at the tile's byte offset and that offset
// plus 8), the other holds B and D.
const (
	xLUTMinorAC  = 27
	xLUTMinorBD  = 29
	mlLUTMinorAC = 24
	mlLUTMinorBD = 28
	mi23Minor    = 23
	mi25Minor    = 25
	mi26Minor    = 26
)

// lutSlot returns the minor frame and within-minor byte addend (0 or 8)
// holding position i (A=0..D=3) of a device's LUT pair: A/C share the
// AC minor, B/D share the BD minor, with C/D at the +8 half.
func lutSlot(i int, isML bool) (minor, byteAdd int) {
	if i >= 2 {
		byteAdd = 8
	}
	odd := i%2 == 1
	switch {
	case isML && !odd:
		minor = mlLUTMinorAC
	case isML:
		minor = mlLUTMinorBD
	case !odd:
		minor = xLUTMinorAC
	default:
		minor = xLUTMinorBD
	}
	return minor, byteAdd
}

// lut5Split reports whether position p uses the split LUT6/LUT5 encoding:
// for ML, when an O5 consumer exists (ff-mux O5, out-mux 5Q/O5, or cy0 O5);
// for X, whenever the out-mux is in use. Both the decode sweep and the
// encode inverse key off this one predicate so the two paths cannot
// drift apart.
func lut5Split(p *floorplan.LUTPos, isML bool) bool {
	if isML {
		return p.FFMux == floorplan.FFMuxO5 || p.OutMux == floorplan.OutMux5Q ||
			p.OutMux == floorplan.OutMuxO5 || p.CY0 == floorplan.CY0O5
	}
	return p.OutMux != floorplan.OutMuxNone
}

// ExtractLogic decodes the logic-slice configuration of every logic tile
// in the fabric.
func ExtractLogic(bp *bitplane.BitPlane, f *fabric.Fabric, m *floorplan.Model, log Logger) error {
	for _, t := range logicTiles(f) {
		if err := extractOneTile(bp, f, m, t, log); err != nil {
			return err
		}
	}
	return nil
}

func extractOneTile(bp *bitplane.BitPlane, f *fabric.Fabric, m *floorplan.Model, t tilePos, log Logger) error {
	off := tileByteOffset(t.pos)

	// Step 1: read raw frames.
	mi20, err := bp.GetU64(fabric.WhichRow(t.y), t.x, 20, off)
	if err != nil {
		return err
	}
	var mi23M uint64
	if t.isM {
		mi23M, err = bp.GetU64(fabric.WhichRow(t.y), t.x, mi23Minor, off)
		if err != nil {
			return err
		}
	}
	mi25, err := bp.GetU64(fabric.WhichRow(t.y), t.x, mi25Minor, off)
	if err != nil {
		return err
	}
	mi26, err := bp.GetU64(fabric.WhichRow(t.y), t.x, mi26Minor, off)
	if err != nil {
		return err
	}
	// mi2526: the generic (non-literal-constant) attribute scratch. Minor
	// 25 carries both devices' CY0/SRInit/PreCYInit word (X in the low
	// 32 bits, ML in the high 32); minor 26 is reserved for the literal
	// X-device default constant and must be zero outside that fast path.
	mi2526 := mi25

	var mlLUT, xLUT [4]uint64
	for i := 0; i < bitplane.NumLUTs; i++ {
		minor, add := lutSlot(i, true)
		mlLUT[i], err = bp.GetU64(fabric.WhichRow(t.y), t.x, minor, off+add)
		if err != nil {
			return err
		}
		minor, add = lutSlot(i, false)
		xLUT[i], err = bp.GetU64(fabric.WhichRow(t.y), t.x, minor, off+add)
		if err != nil {
			return err
		}
	}

	// Step 2: vacancy check.
	empty := mi20 == 0 && mi23M == 0 && mi2526 == 0 && mi26 == 0
	for i := 0; i < bitplane.NumLUTs; i++ {
		empty = empty && mlLUT[i] == 0 && xLUT[i] == 0
	}
	if empty {
		return nil
	}

	// X-device literal-constant fast path: when mi20/mi23M are zero and
	// minor 26 holds exactly the stamped constant, only LUT_D of the X
	// device is in use; skip the generic attribute sweep entirely.
	if mi20 == 0 && mi23M == 0 && mi26 == xDeviceConstant && mi25 == 0 {
		xDev := &floorplan.LogicDevice{Sync: floorplan.ASYNC, AllLatch: floorplan.FFMode}
		if xLUT[3] != 0 {
			perm := lutScramble(64, t.pos, t.x)
			logical := applyPermutation(xLUT[3], perm)
			xDev.Pos[3] = floorplan.LUTPos{LUT6: boolexpr.String(logical, 6), Used: true, OutMux: floorplan.OutMuxO6}
		}
		tile := m.LogicAt(t.y, t.x)
		tile.X = xDev
		return clearTile(bp, f, t)
	}

	// Step 3: bit sweep.
	xWord := uint32(mi20)
	mlWord := uint32(mi20 >> 32)
	xDev := &floorplan.LogicDevice{}
	mlDev := &floorplan.LogicDevice{}
	residMi20 := unpackAttrWord(xWord, xDev, t.y, t.x, log)
	residMi20 |= unpackAttrWord(mlWord, mlDev, t.y, t.x, log) // distinct bit ranges, OR is safe for the residual flag
	residX := unpackMi2526Word(uint32(mi2526), xDev, t.isM, t.y, t.x, log)
	residML := unpackMi2526Word(uint32(mi2526>>32), mlDev, t.isM, t.y, t.x, log)

	// Step 4: residual check.
	if residMi20 != 0 || residX != 0 || residML != 0 || mi23M != 0 || mi26 != 0 {
		log.Log(t.y, t.x, "residual: logic tile left %#x/%#x/%#x/%#x/%#x after sweep", residMi20, residX, residML, mi23M, mi26)
		return nil
	}

	// Step 5: pre-LUT sanity, the carry-out probe.
	coutUsed := probeCarryOut(f, m, t.y, t.x)

	// Step 6: LUT parse + split-LUT inference, per position.
	if err := decodeLUTs(xDev, xLUT, t, false, log); err != nil {
		return err
	}
	if err := decodeLUTs(mlDev, mlLUT, t, true, log); err != nil {
		return err
	}

	// Step 7: post-LUT sanity.
	postLUTSanity(xDev, f, m, t.y, t.x, log)
	postLUTSanity(mlDev, f, m, t.y, t.x, log)

	// Step 8: clear bits.
	if err := clearTile(bp, f, t); err != nil {
		return err
	}

	// Step 9: instantiate. Only devices with any configuration are
	// committed; an all-defaults device on the other half of the tile
	// stays uninstantiated so the recovered floorplan matches what was
	// encoded. The carry-out probe result applies to committed devices
	// only, so it never phantom-instantiates an empty one.
	tile := m.LogicAt(t.y, t.x)
	if deviceInUse(xDev) {
		xDev.CarryOutUsed = xDev.CarryOutUsed || coutUsed
		tile.X = xDev
	}
	if deviceInUse(mlDev) {
		mlDev.CarryOutUsed = mlDev.CarryOutUsed || coutUsed
		tile.ML = mlDev
	}
	return nil
}

// probeCarryOut reports whether an enabled switch leaves this tile's
// carry-out pin. The switch-extraction passes run before ExtractLogic and
// mark their findings used in the model, so "enabled" is a model lookup,
// not mere presence in the static switch graph.
func probeCarryOut(f *fabric.Fabric, m *floorplan.Model, y, x int) bool {
	idx, ok := f.SwitchFirst(y, x, "COUT", fabric.SwFrom)
	return ok && m.SwitchIsUsed(y, x, idx)
}

func deviceInUse(d *floorplan.LogicDevice) bool {
	if d.ClockInv || d.Sync == floorplan.SYNC || d.CEUsed || d.SRUsed ||
		d.AllLatch == floorplan.LatchMode || d.PreCYInit != floorplan.PreCYInitNone || d.CarryOutUsed {
		return true
	}
	for _, p := range d.Pos {
		if p.LUT6 != "" || p.OutMux != floorplan.OutMuxNone || p.FFMux != floorplan.FFMuxNone ||
			p.CY0 != floorplan.CY0None || p.SRInit == floorplan.SRInit1 {
			return true
		}
	}
	return false
}

func decodeLUTs(dev *floorplan.LogicDevice, raw [4]uint64, t tilePos, isML bool, log Logger) error {
	for i := 0; i < bitplane.NumLUTs; i++ {
		p := &dev.Pos[i]
		anyAttr := p.OutMux != floorplan.OutMuxNone || p.FFMux != floorplan.FFMuxNone ||
			p.CY0 != floorplan.CY0None || p.SRInit == floorplan.SRInit1
		if raw[i] == 0 && !anyAttr {
			continue
		}
		// Mark the LUT-6 output as used when neither mux consumes it
		// directly.
		p.Used = p.OutMux != floorplan.OutMuxO6 && p.OutMux != floorplan.OutMuxXOR &&
			p.OutMux != floorplan.OutMuxCY && p.OutMux != floorplan.OutMuxF7 &&
			p.FFMux != floorplan.FFMuxX

		if lut5Split(p, isML) {
			// The 32-entry map descrambles each half of the raw word
			// independently: the high 32 bits carry the 6-LUT's upper
			// half, the low 32 the companion 5-LUT.
			perm := lutScramble(32, t.pos, t.x)
			hi := applyPermutation(raw[i]>>32, perm)
			lo := applyPermutation(raw[i]&(1<<32-1), perm)
			p.LUT6 = fmt.Sprintf("(A6+~A6)*(%s)", boolexpr.String(hi, 5))
			p.LUT5 = boolexpr.String(lo, 5)
		} else {
			perm := lutScramble(64, t.pos, t.x)
			p.LUT6 = boolexpr.String(applyPermutation(raw[i], perm), 6)
		}
	}
	return nil
}

func postLUTSanity(dev *floorplan.LogicDevice, f *fabric.Fabric, m *floorplan.Model, y, x int, log Logger) {
	anyFFMux := false
	for i := range dev.Pos {
		p := &dev.Pos[i]
		if p.FFMux == floorplan.FFMuxNone {
			continue
		}
		anyFFMux = true
		if p.SRInit != floorplan.SRInit1 {
			p.SRInit = floorplan.SRInit0
		}
	}
	if dev.AllLatch == floorplan.LatchMode && !anyFFMux {
		log.Log(y, x, "HERE: all_latch set without any ff-mux in use")
	}
	// TODO: decide whether all-latch combined with a 5Q out-mux is legal.
	// dev.Sync defaults to ASYNC (its zero value) already.
	if dev.PreCYInit == floorplan.PreCYInitNone {
		carryInUse := false
		for _, p := range dev.Pos {
			if p.OutMux == floorplan.OutMuxXOR || p.CY0 != floorplan.CY0None || p.FFMux == floorplan.FFMuxXOR {
				carryInUse = true
			}
		}
		if carryInUse {
			if upY, upX, ok := f.CarryChainUp(y, x); ok {
				if idx, ok := f.SwitchFirst(upY, upX, "COUT", fabric.SwFrom); ok && m.SwitchIsUsed(upY, upX, idx) {
					dev.PreCYInit = floorplan.PreCYInit0
				}
			}
		}
		// TODO: precyinit=0 with no upstream carry-out switch driven is
		// left PreCYInitNone rather than guessed.
	}
	// TODO: latch and2l/or2l inference from VCC connectivity, and 5Q-FF
	// usage in X devices, are not modeled.
}

func clearTile(bp *bitplane.BitPlane, f *fabric.Fabric, t tilePos) error {
	lo, hi := minorsForColumn(t.isM)
	row := fabric.WhichRow(t.y)
	off := tileByteOffset(t.pos)
	for minor := lo; minor <= hi; minor++ {
		if err := bp.SetU64(row, t.x, minor, off, 0); err != nil {
			return err
		}
		if off+8+8 <= bitplane.FrameSize {
			if err := bp.SetU64(row, t.x, minor, off+8, 0); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteLogic encodes every configured logic tile in m. A tile whose only
// content is an X device's LUT_D takes the literal-constant fast path;
// every other position/device goes through the generic attribute-word
// pack and LUT-scramble inverse.
func WriteLogic(bp *bitplane.BitPlane, f *fabric.Fabric, m *floorplan.Model, log Logger) error {
	for _, t := range logicTiles(f) {
		tile, ok := m.Logic[floorplan.TileKey{Y: t.y, X: t.x}]
		if !ok {
			continue
		}
		if err := writeOneTile(bp, f, tile, t); err != nil {
			return err
		}
	}
	return nil
}

func writeOneTile(bp *bitplane.BitPlane, f *fabric.Fabric, tile *floorplan.LogicTile, t tilePos) error {
	row := fabric.WhichRow(t.y)
	off := tileByteOffset(t.pos)

	if tile.ML == nil && tile.X != nil && isLUTDOnly(tile.X) {
		if err := bp.SetU64(row, t.x, mi26Minor, off, xDeviceConstant); err != nil {
			return err
		}
		if tile.X.Pos[3].LUT6 != "" {
			tt, err := boolexpr.Parse(tile.X.Pos[3].LUT6, 6)
			if err != nil {
				return fmt.Errorf("logiccodec: %d,%d LUT_D: %w", t.y, t.x, err)
			}
			perm := lutScramble(64, t.pos, t.x)
			phys := applyPermutation(tt, invertPermutation(perm))
			minor, add := lutSlot(3, false)
			if err := bp.SetU64(row, t.x, minor, off+add, phys); err != nil {
				return err
			}
		}
		return nil
	}

	if tile.X != nil {
		if err := writeDevice(bp, t, row, off, tile.X, false); err != nil {
			return err
		}
	}
	if tile.ML != nil {
		if err := writeDevice(bp, t, row, off, tile.ML, true); err != nil {
			return err
		}
	}
	return nil
}

func isLUTDOnly(dev *floorplan.LogicDevice) bool {
	if dev.ClockInv || dev.Sync == floorplan.SYNC || dev.CEUsed || dev.SRUsed ||
		dev.AllLatch == floorplan.LatchMode || dev.PreCYInit != floorplan.PreCYInitNone || dev.CarryOutUsed {
		return false
	}
	for i := 0; i < 3; i++ {
		p := dev.Pos[i]
		if p.Used || p.LUT6 != "" || p.OutMux != floorplan.OutMuxNone ||
			p.FFMux != floorplan.FFMuxNone || p.CY0 != floorplan.CY0None || p.SRInit == floorplan.SRInit1 {
			return false
		}
	}
	d := dev.Pos[3]
	if d.FFMux != floorplan.FFMuxNone || d.CY0 != floorplan.CY0None || d.SRInit == floorplan.SRInit1 || d.LUT5 != "" {
		return false
	}
	return d.OutMux == floorplan.OutMuxO6 || d.OutMux == floorplan.OutMuxNone
}

func writeDevice(bp *bitplane.BitPlane, t tilePos, row, off int, dev *floorplan.LogicDevice, isML bool) error {
	attrWord := uint64(packAttrWord(dev))
	mi2526Word := uint64(packMi2526Word(dev))

	var existing uint64
	var err error
	if isML {
		existing, err = bp.GetU64(row, t.x, 20, off)
		if err != nil {
			return err
		}
		existing = (existing &^ (uint64(0xFFFFFFFF) << 32)) | (attrWord << 32)
	} else {
		existing, err = bp.GetU64(row, t.x, 20, off)
		if err != nil {
			return err
		}
		existing = (existing &^ 0xFFFFFFFF) | attrWord
	}
	if err := bp.SetU64(row, t.x, 20, off, existing); err != nil {
		return err
	}

	mi25, err := bp.GetU64(row, t.x, mi25Minor, off)
	if err != nil {
		return err
	}
	if isML {
		mi25 = (mi25 &^ (uint64(0xFFFFFFFF) << 32)) | (mi2526Word << 32)
	} else {
		mi25 = (mi25 &^ 0xFFFFFFFF) | mi2526Word
	}
	if err := bp.SetU64(row, t.x, mi25Minor, off, mi25); err != nil {
		return err
	}

	for i := 0; i < bitplane.NumLUTs; i++ {
		p := dev.Pos[i]
		if p.LUT6 == "" && p.LUT5 == "" {
			continue
		}
		var phys uint64
		if lut5Split(&p, isML) {
			hi, err := boolexpr.Parse(extractInner(p.LUT6), 5)
			if err != nil {
				return fmt.Errorf("logiccodec: lut6 parse: %w", err)
			}
			lo, err := boolexpr.Parse(p.LUT5, 5)
			if err != nil {
				return fmt.Errorf("logiccodec: lut5 parse: %w", err)
			}
			inv := invertPermutation(lutScramble(32, t.pos, t.x))
			phys = applyPermutation(hi, inv)<<32 | applyPermutation(lo, inv)
		} else {
			logical, err := boolexpr.Parse(p.LUT6, 6)
			if err != nil {
				return fmt.Errorf("logiccodec: lut6 parse: %w", err)
			}
			phys = applyPermutation(logical, invertPermutation(lutScramble(64, t.pos, t.x)))
		}
		minor, add := lutSlot(i, isML)
		if err := bp.SetU64(row, t.x, minor, off+add, phys); err != nil {
			return err
		}
	}
	return nil
}

// extractInner pulls the inner expression back out of the
// "(A6+~A6)*(<expr>)" wrapper decodeLUTs produces for a split LUT6/LUT5
// pair.
func extractInner(wrapped string) string {
	const prefix = "(A6+~A6)*("
	if len(wrapped) > len(prefix)+1 && wrapped[:len(prefix)] == prefix {
		return wrapped[len(prefix) : len(wrapped)-1]
	}
	return wrapped
}
