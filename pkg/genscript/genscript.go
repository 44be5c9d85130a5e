// genscript.go - Lua floorplan-generation scripting

/*
(c) 2025 - 2026 Zayn Otley
https://github.com/zotley/fpgabit
License: GPLv3 or later
*/

// Package genscript runs a Lua floorplan-generation script through
// gopher-lua: the script calls back into a small registered API (iob,
// switchuse, logic) that builds a floorplan.Model without the caller
// hand-writing floorplan text, the EDA-tooling analogue of a
// constraints script. fp2bit still accepts plain floorplan text with no
// script involved.
package genscript

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/zotley/fpgabit/pkg/floorplan"
)

// Run executes the Lua source in src against a fresh floorplan.Model and
// returns it once the script completes. Script errors (Lua syntax errors,
// bad argument counts/types to the registered API, runtime panics turned
// into lua.LError) are returned wrapped.
func Run(src string) (*floorplan.Model, error) {
	m := floorplan.New()
	L := lua.NewState()
	defer L.Close()

	registerAPI(L, m)

	if err := L.DoString(src); err != nil {
		return nil, fmt.Errorf("genscript: %w", err)
	}
	return m, nil
}

// registerAPI installs the iob/switchuse/logic callback functions as Lua
// globals, each closing over m so the script mutates it directly.
func registerAPI(L *lua.LState, m *floorplan.Model) {
	L.SetGlobal("iob", L.NewFunction(func(L *lua.LState) int {
		return luaIOB(L, m)
	}))
	L.SetGlobal("switchuse", L.NewFunction(func(L *lua.LState) int {
		return luaSwitch(L, m)
	}))
	L.SetGlobal("logic", L.NewFunction(func(L *lua.LState) int {
		return luaLogic(L, m)
	}))
}

// luaIOB implements the Lua-visible
//
//	iob(site, "input", istd[, imux])
//	iob(site, "output", ostd, drive, slew, susp)
//
// calling convention, building one floorplan.IOBConfig per call.
func luaIOB(L *lua.LState, m *floorplan.Model) int {
	site := L.CheckString(1)
	mode := L.CheckString(2)
	cfg := &floorplan.IOBConfig{Instantiated: true}
	switch mode {
	case "input":
		cfg.Mode = floorplan.ModeInput
		cfg.IStandard = parseIStandard(L, L.CheckString(3))
		cfg.IMux = floorplan.IMuxI
		if L.GetTop() >= 4 && L.CheckString(4) == "i_b" {
			cfg.IMux = floorplan.IMuxIB
		}
	case "output":
		cfg.Mode = floorplan.ModeOutput
		cfg.OStandard = parseOStandard(L, L.CheckString(3))
		cfg.DriveStrength = L.CheckInt(4)
		cfg.Slew = parseSlew(L, L.CheckString(5))
		cfg.Suspend = parseSuspend(L, L.CheckString(6))
	default:
		L.RaiseError("iob: mode must be \"input\" or \"output\", got %q", mode)
		return 0
	}
	m.IOBs[site] = cfg
	return 0
}

// luaSwitch implements switchuse(y, x, idx).
func luaSwitch(L *lua.LState, m *floorplan.Model) int {
	y, x, idx := L.CheckInt(1), L.CheckInt(2), L.CheckInt(3)
	m.SetSwitchUsed(y, x, idx)
	return 0
}

// luaLogic implements logic(y, x, "x"|"ml", pos, lut6[, outmux]).
func luaLogic(L *lua.LState, m *floorplan.Model) int {
	y, x := L.CheckInt(1), L.CheckInt(2)
	devName := L.CheckString(3)
	pos := L.CheckInt(4)
	if pos < 0 || pos > 3 {
		L.RaiseError("logic: pos must be 0-3, got %d", pos)
		return 0
	}
	lut6 := L.CheckString(5)

	tile := m.LogicAt(y, x)
	var dev **floorplan.LogicDevice
	switch devName {
	case "x":
		dev = &tile.X
	case "ml":
		dev = &tile.ML
	default:
		L.RaiseError("logic: dev must be \"x\" or \"ml\", got %q", devName)
		return 0
	}
	if *dev == nil {
		*dev = &floorplan.LogicDevice{Sync: floorplan.ASYNC, AllLatch: floorplan.FFMode}
	}
	p := &(*dev).Pos[pos]
	p.LUT6 = lut6
	p.Used = true
	p.OutMux = floorplan.OutMuxO6
	if L.GetTop() >= 6 {
		p.OutMux = parseOutMux(L, L.CheckString(6))
	}
	return 0
}

func parseIStandard(L *lua.LState, s string) floorplan.IStandard {
	v, ok := map[string]floorplan.IStandard{
		"lvcmos33_25_lvttl":    floorplan.IStdLVCMOS33_25_LVTTL,
		"lvcmos18_15_12":       floorplan.IStdLVCMOS18_15_12,
		"lvcmos18_15_12_jedec": floorplan.IStdLVCMOS18_15_12_JEDEC,
		"sstl2_i":              floorplan.IStdSSTL2_I,
		"lvds25":               floorplan.IStdLVDS25,
	}[s]
	if !ok {
		L.RaiseError("iob: unrecognized input standard %q", s)
	}
	return v
}

func parseOStandard(L *lua.LState, s string) floorplan.OStandard {
	v, ok := map[string]floorplan.OStandard{
		"lvttl":    floorplan.OStdLVTTL,
		"lvcmos33": floorplan.OStdLVCMOS33,
		"lvcmos25": floorplan.OStdLVCMOS25,
		"lvcmos18": floorplan.OStdLVCMOS18,
		"lvcmos15": floorplan.OStdLVCMOS15,
		"lvcmos12": floorplan.OStdLVCMOS12,
	}[s]
	if !ok {
		L.RaiseError("iob: unrecognized output standard %q", s)
	}
	return v
}

func parseSlew(L *lua.LState, s string) floorplan.Slew {
	v, ok := map[string]floorplan.Slew{
		"slow": floorplan.SlewSlow, "fast": floorplan.SlewFast, "quietio": floorplan.SlewQuietIO,
	}[s]
	if !ok {
		L.RaiseError("iob: unrecognized slew %q", s)
	}
	return v
}

func parseSuspend(L *lua.LState, s string) floorplan.Suspend {
	v, ok := map[string]floorplan.Suspend{
		"lastval": floorplan.SuspLastVal, "3state": floorplan.Susp3State,
		"3state_pullup": floorplan.Susp3StatePullup, "3state_pulldown": floorplan.Susp3StatePulldown,
		"3state_keeper": floorplan.Susp3StateKeeper, "3state_octon": floorplan.Susp3StateOctOn,
	}[s]
	if !ok {
		L.RaiseError("iob: unrecognized suspend mode %q", s)
	}
	return v
}

func parseOutMux(L *lua.LState, s string) floorplan.OutMux {
	v, ok := map[string]floorplan.OutMux{
		"o6": floorplan.OutMuxO6, "o5": floorplan.OutMuxO5, "xor": floorplan.OutMuxXOR,
		"cy": floorplan.OutMuxCY, "f7": floorplan.OutMuxF7, "f8": floorplan.OutMuxF8, "5q": floorplan.OutMux5Q,
	}[s]
	if !ok {
		L.RaiseError("logic: unrecognized outmux %q", s)
	}
	return v
}
