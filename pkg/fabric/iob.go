// iob.go - I/O pad site enumeration

package fabric

// IOBSite is one I/O pad site: its tile coordinate, its index within that
// tile's IOB entries, and its package pin name.
type IOBSite struct {
	Y, X    int
	Idx     int // part index, counted across both IOB columns (left side first)
	Name    string
	IsClock bool // per-side clock-dedicated slots, never name-resolvable
}

// buildIOBs enumerates pad sites on both IOB columns: one ordinary pad per
// non-HCLK tile row, plus a handful of clock-dedicated slots that never
// resolve from a site name and are silently skipped by the IOB codec.
func (f *Fabric) buildIOBs() {
	part := 0
	for _, x := range []int{0, NumCols() - 1} {
		side := "L"
		if x == NumCols()-1 {
			side = "R"
		}
		for y := 0; y < NumTileRows(); y++ {
			_, pos, ok := IsInRow(y)
			if !ok {
				continue
			}
			if pos < 2 {
				// Reserve the first two positions of each row band for clock
				// pads (eight slots per side): present in the part-index
				// table but not name-resolvable.
				f.iobs = append(f.iobs, IOBSite{Y: y, X: x, Idx: part, IsClock: true})
				part++
				continue
			}
			f.iobs = append(f.iobs, IOBSite{
				Y: y, X: x, Idx: part,
				Name: fmtPadName(side, y),
			})
			part++
		}
	}
}

func fmtPadName(side string, y int) string {
	return side + "PAD" + itoa(y)
}

func itoa(v int) string {
	if v == 0 {
		return "0"
	}
	neg := v < 0
	if neg {
		v = -v
	}
	var buf [20]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// GetNumIOBs returns the total number of enumerated IOB entries.
func (f *Fabric) GetNumIOBs() int { return len(f.iobs) }

// EnumIOB returns the i'th enumerated pad in fabric order.
func (f *Fabric) EnumIOB(i int) (IOBSite, bool) {
	if i < 0 || i >= len(f.iobs) {
		return IOBSite{}, false
	}
	return f.iobs[i], true
}

// FindIOBSitename resolves a package pin name to its fabric coordinate and
// part index. Clock-dedicated slots have no name and never match.
func (f *Fabric) FindIOBSitename(name string) (IOBSite, bool) {
	for _, s := range f.iobs {
		if !s.IsClock && s.Name == name {
			return s, true
		}
	}
	return IOBSite{}, false
}

// GetIOBSitename is the inverse of FindIOBSitename.
func (f *Fabric) GetIOBSitename(i int) (string, bool) {
	s, ok := f.EnumIOB(i)
	if !ok || s.IsClock {
		return "", false
	}
	return s.Name, true
}

// FindIOB is an alias for FindIOBSitename.
func (f *Fabric) FindIOB(name string) (IOBSite, bool) { return f.FindIOBSitename(name) }
