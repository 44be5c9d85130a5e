package codec

import "errors"

// Sentinel errors shared by both codec directions. Plain errors.New
// values wrapped with %w at call sites and checked with errors.Is; no
// custom error struct hierarchy.
var (
	// ErrInvalid covers malformed floorplan attributes, structurally
	// impossible device states, and missing default/invariant bits.
	ErrInvalid = errors.New("codec: invalid")

	// ErrNotSupported covers capacity overflow (the extraction scratch
	// switch list exceeding MaxYXSwitches).
	ErrNotSupported = errors.New("codec: not supported")
)
