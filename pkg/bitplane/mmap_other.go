//go:build !(linux || darwin)

package bitplane

import (
	"fmt"
	"os"
)

// Load reads a bit image file into memory and wraps it in a BitPlane. On
// platforms without the mmap fast path (see mmap_unix.go) this is a plain
// read.
func Load(path string) (*BitPlane, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("bitplane: read %s: %w", path, err)
	}
	return Wrap(data)
}

// Save writes a BitPlane's image to path.
func Save(path string, b *BitPlane) error {
	return os.WriteFile(path, b.Bytes(), 0o644)
}

// Unmap is a no-op on this platform; Load never maps memory here.
func Unmap(b *BitPlane) error {
	return nil
}
