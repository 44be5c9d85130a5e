//go:build !(amd64 || arm64 || 386 || arm || riscv64 || loong64 || mipsle || mips64le || ppc64le || wasm)

package bitplane

// The bit image is defined in terms of little-endian 64-bit words. This
// package builds only for the little-endian targets listed in le_check.go;
// on any other architecture this line fails the build.
var _ = "bitplane requires a little-endian architecture" + 1
