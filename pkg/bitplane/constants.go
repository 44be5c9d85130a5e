// constants.go - device-family layout constants

// Package bitplane addresses the flat configuration byte image of the
// target device family: (row, major, minor, bit-in-frame) -> one bit.
//
// Everything above this package treats these as the only primitives that
// touch the raw image; BitPlane itself knows nothing about IOBs, logic
// tiles or switches. "major" is one frame column, one per physical device
// column: the column kinds (routing/logic/IOB) and which major index
// belongs to which column are a fabric concern (pkg/fabric), not a
// BitPlane one. BitPlane only needs the fixed per-major minor counts
// below, which are as much a device-family fact as FrameSize itself.
package bitplane

// Device-family constants for the XC6SLX9-class target part.
const (
	// FrameSize is the byte length of one configuration frame. Large enough
	// to hold the highest bit position any table in this package addresses
	// (the default-bit table reaches bit 1039, the IOB ring-enable bit
	// reaches 64*15+HCLK_BITS+4), with headroom for 16+ IOB entries and a
	// logic tile's per-position LUT/attribute words.
	FrameSize = 144

	// Rows is the number of horizontal configuration row bands. Each band
	// covers RowPositions device tile rows (pos 0-15), with the HCLK band
	// itself sitting at position HCLKPos and not corresponding to a real
	// tile row.
	Rows = 4

	// RowPositions is the number of within-row positions per band.
	RowPositions = 16

	// HCLKPos is the within-row position of the HCLK band; it splits a row
	// into an upper half (positions 0-7) and a lower half (positions 8-15).
	HCLKPos = 8

	// HCLKBytes is the byte gap the HCLK band adds to offsets that cross it.
	HCLKBytes = 2

	// HCLKBits is the number of status/control bits the HCLK band itself
	// occupies before the IOB ring-enable bit in minor 22.
	HCLKBits = 8

	// IOBEntryLen is the byte length of one IOB configuration entry.
	IOBEntryLen = 8

	// IOBDataStart is the byte offset, within an IOB column's frame span,
	// of the first 8-byte IOB entry. The minors below it are claimed by
	// the default-bit table (minor 3, pkg/codec), so the entry table
	// starts at minor 4.
	IOBDataStart = 4 * FrameSize

	// MaxYXSwitches bounds the extraction scratch switch list.
	MaxYXSwitches = 1024

	// NumLUTs is the number of LUTs per logic device (A/B/C/D).
	NumLUTs = 4

	// MaxLUTLen is the bit width of the widest LUT truth table (LUT6).
	MaxLUTLen = 64
)

// MinorsPerMajor gives the minor-frame count for each major (= column)
// index, for the fixed 7-column XC6SLX9-class layout this codec targets:
// IOB(left) routing logic(L) routing logic(M) routing IOB(right). A
// routing column gets 24 minors, matching the IOB majors, so that both
// minor 20's compact routing-switch bit layout and the default-bit table's
// (row 0, major 1, minor 23, ...) entries (pkg/codec) are addressable.
// Column kind assignment lives in pkg/fabric; BitPlane only needs these
// counts to compute byte offsets.
var MinorsPerMajor = []int{24, 24, 31, 24, 31, 24, 24}

// FramesPerRow is the total minor-frame count across all majors in a row.
func FramesPerRow() int {
	n := 0
	for _, m := range MinorsPerMajor {
		n += m
	}
	return n
}

// ImageSize is the total byte length of a flat bit image for this device.
func ImageSize() int {
	return Rows * FramesPerRow() * FrameSize
}
