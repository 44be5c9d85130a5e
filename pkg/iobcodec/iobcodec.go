// iobcodec.go - I/O buffer entry encoder/decoder

/*
(c) 2025 - 2026 Zayn Otley
https://github.com/zotley/fpgabit
License: GPLv3 or later
*/

// Package iobcodec encodes and decodes per-pad I/O buffer configuration
// into the fixed 8-byte IOB entries of the configuration image.
package iobcodec

import (
	"errors"
	"fmt"

	"github.com/zotley/fpgabit/pkg/bitplane"
	"github.com/zotley/fpgabit/pkg/fabric"
	"github.com/zotley/fpgabit/pkg/floorplan"
)

// Logger is the minimal diagnostic sink this package needs; *codec.
// Diagnostics satisfies it structurally (see pkg/codec/diag.go).
type Logger interface {
	Log(y, x int, format string, args ...any)
}

// Bit masks for the 64-bit IOB entry word. Bit 0 is the instantiated
// flag; bits 1-2 are the I/O-mode field the decoder switches on; the
// remaining fields are non-overlapping multi-bit codes, so an occupied
// entry's word is always the exact bitwise OR of its attribute codes.
const (
	bitInstantiated = 1 << 0
	bitInput        = 1 << 1 // MASK_IO
	bitOPinw        = 1 << 2 // MASK_IO
	bitImuxIB       = 1 << 3

	maskIO = bitInput | bitOPinw

	istdShift = 4
	istdMask  = 0x7 << istdShift // 3 bits: up to 5 input-standard codes

	outCodeShift = 8
	outCodeMask  = 0x3F << outCodeShift // 6 bits: (ostandard, drive) code

	slewShift = 16
	slewMask  = 0x3 << slewShift

	suspShift = 20
	suspMask  = 0x7 << suspShift
)

var istandardCode = map[floorplan.IStandard]uint64{
	floorplan.IStdLVCMOS33_25_LVTTL:    1,
	floorplan.IStdLVCMOS18_15_12:       2,
	floorplan.IStdLVCMOS18_15_12_JEDEC: 3,
	floorplan.IStdSSTL2_I:              4,
	floorplan.IStdLVDS25:               5,
}

var codeToIStandard = reverseU64Map(istandardCode)

type ostdDrive struct {
	std   floorplan.OStandard
	drive int
}

// outputCode is the fixed (ostandard, drive_strength) -> code table,
// enumerating every recognized pair; anything else is rejected as
// invalid at encode time.
var outputCode = buildOutputCodeTable()

func buildOutputCodeTable() map[ostdDrive]uint64 {
	table := map[ostdDrive]uint64{}
	add := func(std floorplan.OStandard, drives ...int) {
		for _, d := range drives {
			table[ostdDrive{std, d}] = uint64(len(table) + 1)
		}
	}
	add(floorplan.OStdLVTTL, 2, 4, 6, 8, 12, 16, 24)
	add(floorplan.OStdLVCMOS33, 2, 4, 6, 8, 12, 16, 24)
	add(floorplan.OStdLVCMOS25, 2, 4, 6, 8, 12, 16, 24)
	add(floorplan.OStdLVCMOS18, 2, 4, 6, 8, 12, 16, 24)
	add(floorplan.OStdLVCMOS15, 2, 4, 6, 8, 12, 16)
	add(floorplan.OStdLVCMOS12, 2, 4, 6, 8, 12)
	return table
}

var codeToOutput = func() map[uint64]ostdDrive {
	m := make(map[uint64]ostdDrive, len(outputCode))
	for k, v := range outputCode {
		m[v] = k
	}
	return m
}()

var slewCode = map[floorplan.Slew]uint64{
	floorplan.SlewSlow:    1,
	floorplan.SlewFast:    2,
	floorplan.SlewQuietIO: 3,
}
var codeToSlew = reverseU64Map(slewCode)

var suspendCode = map[floorplan.Suspend]uint64{
	floorplan.SuspLastVal:        1,
	floorplan.Susp3State:         2,
	floorplan.Susp3StatePullup:   3,
	floorplan.Susp3StatePulldown: 4,
	floorplan.Susp3StateKeeper:   5,
	floorplan.Susp3StateOctOn:    6,
}
var codeToSuspend = reverseU64Map(suspendCode)

func reverseU64Map[K comparable](m map[K]uint64) map[uint64]K {
	out := make(map[uint64]K, len(m))
	for k, v := range m {
		out[v] = k
	}
	return out
}

// RingEnableBit is the one-off global bit toggled on the first
// encoded/decoded pad: row 0, the right-side major, minor 22, bit
// 64*15+HCLKBits+4.
// TODO: whether the other three sides carry their own ring-enable bit is
// unresolved; only the right side is handled.
func RingEnableBit(f *fabric.Fabric) bitplane.BitPos {
	return bitplane.BitPos{
		Row:   0,
		Major: f.GetRightsideMajor(),
		Minor: 22,
		BitI:  64*15 + bitplane.HCLKBits + 4,
	}
}

// WriteIOBs encodes every instantiated pad device in m into its 8-byte
// entry.
func WriteIOBs(bp *bitplane.BitPlane, f *fabric.Fabric, m *floorplan.Model, log Logger) error {
	firstIOB := false
	n := f.GetNumIOBs()
	for i := 0; i < n; i++ {
		site, ok := f.EnumIOB(i)
		if !ok || site.IsClock {
			continue
		}
		cfg, ok := m.IOBs[site.Name]
		if !ok || !cfg.Instantiated {
			continue
		}

		if !firstIOB {
			firstIOB = true
			if err := bp.SetBitP(RingEnableBit(f)); err != nil {
				return err
			}
		}

		u64 := uint64(bitInstantiated)
		switch {
		case cfg.Mode == floorplan.ModeInput:
			if cfg.OStandard != floorplan.OStdNone {
				log.Log(site.Y, site.X, "HERE: iob %s has both istandard and ostandard", site.Name)
			}
			u64 |= bitInput
			if cfg.IMux == floorplan.IMuxIB {
				u64 |= bitImuxIB
			}
			code, ok := istandardCode[cfg.IStandard]
			if !ok {
				return fmt.Errorf("iobcodec: %s: %w: unrecognized input standard", site.Name, ErrInvalid)
			}
			u64 |= code << istdShift

		case cfg.Mode == floorplan.ModeOutput:
			if cfg.IStandard != floorplan.IStdNone {
				log.Log(site.Y, site.X, "HERE: iob %s has both istandard and ostandard", site.Name)
			}
			u64 |= bitOPinw
			code, ok := outputCode[ostdDrive{cfg.OStandard, cfg.DriveStrength}]
			if !ok {
				return fmt.Errorf("iobcodec: %s: %w: unsupported (ostandard,drive) pair", site.Name, ErrInvalid)
			}
			u64 |= code << outCodeShift

			sc, ok := slewCode[cfg.Slew]
			if !ok {
				return fmt.Errorf("iobcodec: %s: %w: unrecognized slew", site.Name, ErrInvalid)
			}
			u64 |= sc << slewShift

			susp, ok := suspendCode[cfg.Suspend]
			if !ok {
				return fmt.Errorf("iobcodec: %s: %w: unrecognized suspend mode", site.Name, ErrInvalid)
			}
			u64 |= susp << suspShift

		default:
			log.Log(site.Y, site.X, "HERE: iob %s instantiated with neither istandard nor ostandard", site.Name)
			continue
		}

		if err := setIOBWord(bp, f, site.Idx, u64); err != nil {
			return err
		}
	}
	return nil
}

// ExtractIOBs decodes every non-zero IOB entry back into m, clearing each
// entry word it decodes.
func ExtractIOBs(bp *bitplane.BitPlane, f *fabric.Fabric, m *floorplan.Model, log Logger) error {
	firstIOB := false
	n := f.GetNumIOBs()
	for i := 0; i < n; i++ {
		u64, err := getIOBWord(bp, f, i)
		if err != nil {
			return err
		}
		if u64 == 0 {
			continue
		}
		site, ok := f.EnumIOB(i)
		if !ok || site.IsClock {
			// Clock-dedicated slots; silently skipped.
			continue
		}

		if !firstIOB {
			firstIOB = true
			bit := RingEnableBit(f)
			set, err := bp.GetBitP(bit)
			if err != nil {
				return err
			}
			if !set {
				log.Log(site.Y, site.X, "HERE: ring-enable bit not set on first non-zero IOB entry")
			}
			if err := bp.ClearBitP(bit); err != nil {
				return err
			}
		}

		if u64&bitInstantiated == 0 {
			log.Log(site.Y, site.X, "HERE: iob entry missing INSTANTIATED bit")
		}
		u64 &^= bitInstantiated

		cfg := &floorplan.IOBConfig{Instantiated: true}

		switch u64 & maskIO {
		case bitInput:
			u64 &^= bitInput
			cfg.Mode = floorplan.ModeInput
			cfg.IMux = floorplan.IMuxI
			if u64&bitImuxIB != 0 {
				cfg.IMux = floorplan.IMuxIB
				u64 &^= bitImuxIB
			}
			code := (u64 & istdMask) >> istdShift
			std, ok := codeToIStandard[code]
			if !ok {
				log.Log(site.Y, site.X, "residual: unrecognized input-standard code %#x", code)
				continue
			}
			cfg.IStandard = std
			u64 &^= istdMask

		case bitOPinw:
			u64 &^= bitOPinw
			cfg.Mode = floorplan.ModeOutput
			code := (u64 & outCodeMask) >> outCodeShift
			od, ok := codeToOutput[code]
			if !ok {
				log.Log(site.Y, site.X, "residual: unrecognized output-drive code %#x", code)
				continue
			}
			cfg.OStandard, cfg.DriveStrength = od.std, od.drive
			u64 &^= outCodeMask

			sc := (u64 & slewMask) >> slewShift
			slew, ok := codeToSlew[sc]
			if !ok {
				log.Log(site.Y, site.X, "residual: unrecognized slew code %#x", sc)
				continue
			}
			cfg.Slew = slew
			u64 &^= slewMask

			susp := (u64 & suspMask) >> suspShift
			sm, ok := codeToSuspend[susp]
			if !ok {
				log.Log(site.Y, site.X, "residual: unrecognized suspend code %#x", susp)
				continue
			}
			cfg.Suspend = sm
			u64 &^= suspMask

		default:
			log.Log(site.Y, site.X, "residual: iob entry has neither INPUT nor O_PINW set")
			continue
		}

		if u64 != 0 {
			log.Log(site.Y, site.X, "residual: iob entry %s has leftover bits %#x after decode", site.Name, u64)
			continue
		}
		m.IOBs[site.Name] = cfg
		if err := setIOBWord(bp, f, i, 0); err != nil {
			return err
		}
	}
	return nil
}

// --- 8-byte entry addressing ------------------------------------------------

func setIOBWord(bp *bitplane.BitPlane, f *fabric.Fabric, partIdx int, v uint64) error {
	major, minor, byteOff := iobAddr(f, partIdx)
	return bp.SetU64(0, major, minor, byteOff, v)
}

func getIOBWord(bp *bitplane.BitPlane, f *fabric.Fabric, partIdx int) (uint64, error) {
	major, minor, byteOff := iobAddr(f, partIdx)
	return bp.GetU64(0, major, minor, byteOff)
}

// iobAddr maps a fabric part index to its (major, minor, byte offset)
// within the IOB entry table: the fabric enumerates left-side pads (major
// 0) before right-side pads (the rightside major), so the part-index space
// splits evenly in two at GetNumIOBs()/2. Within a side, entries are laid
// out IOBEntryLen bytes apart starting at IOBDataStart, spilling into
// successive minors once a frame's worth of entries is used. IOBDataStart
// sits past the minors the default-bit table claims, so an entry word
// never aliases a default bit.
func iobAddr(f *fabric.Fabric, partIdx int) (major, minor, byteOff int) {
	sideSize := f.GetNumIOBs() / 2
	major = 0
	local := partIdx
	if partIdx >= sideSize {
		major = f.GetRightsideMajor()
		local = partIdx - sideSize
	}
	total := bitplane.IOBDataStart + local*bitplane.IOBEntryLen
	minor = total / bitplane.FrameSize
	byteOff = total % bitplane.FrameSize
	return major, minor, byteOff
}

var ErrInvalid = errors.New("iobcodec: invalid")
