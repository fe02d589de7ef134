// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package selection

import "image"

// Border returns the pixels of m that lie on the image edge or have at
// least one unset 8-neighbour. It is recomputed in full on every call.
func Border(m *Bitmap) *Bitmap {
	w, h := m.width, m.height
	b := NewBitmap(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !m.data[y*w+x] {
				continue
			}
			if x == 0 || y == 0 || x == w-1 || y == h-1 || hasUnsetNeighbour(m, x, y) {
				b.data[y*w+x] = true
			}
		}
	}
	return b
}

func hasUnsetNeighbour(m *Bitmap, x, y int) bool {
	for dy := -1; dy <= 1; dy++ {
		row := (y + dy) * m.width
		for dx := -1; dx <= 1; dx++ {
			if !m.data[row+x+dx] {
				return true
			}
		}
	}
	return false
}

// MarchingAnts writes the dashed outline of border into dst. A border
// pixel at (col, row) is opaque black when (row+col+phase) mod tick is less
// than tick/2 and transparent otherwise; every other pixel is transparent.
// Only the intersection of dst and border bounds is written.
func MarchingAnts(dst *image.RGBA, border *Bitmap, tick, phase int) {
	if dst == nil || border == nil {
		return
	}
	tick = max(tick, 1)
	half := float64(tick) / 2
	r := dst.Bounds().Intersect(border.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			var a uint8
			if border.data[y*border.width+x] {
				m := ((y+x+phase)%tick + tick) % tick
				if float64(m) < half {
					a = 255
				}
			}
			i := dst.PixOffset(x, y)
			dst.Pix[i], dst.Pix[i+1], dst.Pix[i+2], dst.Pix[i+3] = 0, 0, 0, a
		}
	}
}
