//go:build linux || darwin

package bitplane

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Load maps a bit image file into memory read-write and wraps it in a
// BitPlane without copying. The file must already be ImageSize() bytes.
func Load(path string) (*BitPlane, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("bitplane: open %s: %w", path, err)
	}
	defer f.Close()

	data, err := unix.Mmap(int(f.Fd()), 0, ImageSize(), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("bitplane: mmap %s: %w", path, err)
	}
	return Wrap(data)
}

// Save flushes a BitPlane's image to path. If the BitPlane was produced by
// Load on the same path, msync would suffice, but Save always writes the
// full image so it also works for a freshly-built in-memory BitPlane.
func Save(path string, b *BitPlane) error {
	return os.WriteFile(path, b.Bytes(), 0o644)
}

// Unmap releases a BitPlane's mmap'd backing memory. Only call this on a
// BitPlane returned by Load.
func Unmap(b *BitPlane) error {
	return unix.Munmap(b.Bytes())
}
