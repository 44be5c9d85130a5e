// bitviz.go - frame-occupancy heatmap renderer

/*
(c) 2025 - 2026 Zayn Otley
https://github.com/zotley/fpgabit
License: GPLv3 or later
*/

// Package bitviz renders a BitPlane's frame occupancy as a PNG heatmap:
// one pixel per (row, major, minor) frame, colored by how full that frame
// is. Useful for spotting residual-bit regions, or eyeballing that an
// encoder pass only ever touches the bit domains it owns. Read-only:
// never mutates the BitPlane it walks.
package bitviz

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math/bits"

	"golang.org/x/image/draw"

	"github.com/zotley/fpgabit/pkg/bitplane"
)

// ramp is the 8-level popcount-bucket color ramp, dark (empty frame) to
// bright (fully set frame).
var ramp = [8]color.RGBA{
	{0x10, 0x10, 0x18, 0xff},
	{0x1c, 0x1f, 0x3a, 0xff},
	{0x24, 0x3b, 0x55, 0xff},
	{0x2d, 0x5f, 0x6e, 0xff},
	{0x3f, 0x8f, 0x7a, 0xff},
	{0x7f, 0xc0, 0x6a, 0xff},
	{0xe0, 0xd0, 0x5a, 0xff},
	{0xff, 0x60, 0x50, 0xff},
}

// frameBucket maps a frame's set-bit count to one of the 8 ramp levels,
// scaled by the frame's bit width so the ramp spans empty to full whatever
// FrameSize is: any non-empty frame lands in bucket 1 or above, and only a
// completely full frame reaches the brightest bucket.
func frameBucket(popcount, maxBits int) int {
	if popcount == 0 {
		return 0
	}
	level := popcount * (len(ramp) - 1) / maxBits
	if level >= len(ramp) {
		level = len(ramp) - 1
	}
	if level < 1 {
		level = 1
	}
	return level
}

// Render walks bp frame by frame and produces a ROWS x FRAMES_PER_ROW
// image, one pixel per frame, upscaled by scale (nearest-neighbor via
// x/image/draw) so individual frames stay visible at normal zoom levels.
func Render(bp *bitplane.BitPlane, scale int) (image.Image, error) {
	if scale < 1 {
		scale = 1
	}
	w, h := bitplane.FramesPerRow(), bitplane.Rows
	base := image.NewRGBA(image.Rect(0, 0, w, h))

	maxBits := bitplane.FrameSize * 8
	for row := 0; row < bitplane.Rows; row++ {
		col := 0
		for major, nMinors := range bitplane.MinorsPerMajor {
			for minor := 0; minor < nMinors; minor++ {
				pop, err := framePopcount(bp, row, major, minor)
				if err != nil {
					return nil, err
				}
				c := ramp[frameBucket(pop, maxBits)]
				base.SetRGBA(col, row, c)
				col++
			}
		}
	}

	if scale == 1 {
		return base, nil
	}
	dst := image.NewRGBA(image.Rect(0, 0, w*scale, h*scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), base, base.Bounds(), draw.Over, nil)
	return dst, nil
}

// framePopcount sums the set bits of one (row,major,minor) frame by
// reading it back 8 bytes at a time through BitPlane.GetU64; BitPlane
// exposes no raw-frame accessor, so this is the finest-grained read
// available from outside pkg/bitplane.
func framePopcount(bp *bitplane.BitPlane, row, major, minor int) (int, error) {
	pop := 0
	for off := 0; off+8 <= bitplane.FrameSize; off += 8 {
		v, err := bp.GetU64(row, major, minor, off)
		if err != nil {
			return 0, err
		}
		pop += bits.OnesCount64(v)
	}
	return pop, nil
}

// WritePNG renders bp and encodes it as a PNG to w.
func WritePNG(w io.Writer, bp *bitplane.BitPlane, scale int) error {
	img, err := Render(bp, scale)
	if err != nil {
		return fmt.Errorf("bitviz: %w", err)
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("bitviz: encode png: %w", err)
	}
	return nil
}
