//go:build amd64 || arm64 || 386 || arm || riscv64 || loong64 || mipsle || mips64le || ppc64le || wasm

// This package assumes a little-endian architecture: GetU64/SetU64 and the
// mmap-backed Load path both operate on raw byte slices in the device's
// native little-endian word order. This file compiles on known LE targets;
// the sibling file be_unsupported.go is a deliberate compile error for any
// architecture not listed here.

package bitplane
