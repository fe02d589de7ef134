// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package selection

import "image"

// Bitmap is a boolean per-pixel mask.
type Bitmap struct {
	width  int
	height int
	data   []bool
}

// NewBitmap creates an empty bitmap with the given dimensions.
// Negative dimensions are treated as zero.
func NewBitmap(width, height int) *Bitmap {
	width, height = max(width, 0), max(height, 0)
	return &Bitmap{
		width:  width,
		height: height,
		data:   make([]bool, width*height),
	}
}

// Bounds returns the bitmap dimensions as an image.Rectangle.
func (b *Bitmap) Bounds() image.Rectangle {
	return image.Rect(0, 0, b.width, b.height)
}

// Width returns the bitmap width.
func (b *Bitmap) Width() int { return b.width }

// Height returns the bitmap height.
func (b *Bitmap) Height() int { return b.height }

// At reports whether (x, y) is set.
// Returns false for coordinates outside the bitmap.
func (b *Bitmap) At(x, y int) bool {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return false
	}
	return b.data[y*b.width+x]
}

// Set sets the value at (x, y).
// Coordinates outside the bitmap are ignored.
func (b *Bitmap) Set(x, y int, v bool) {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return
	}
	b.data[y*b.width+x] = v
}

// Clear unsets every pixel.
func (b *Bitmap) Clear() {
	clear(b.data)
}

// Count returns the number of set pixels.
func (b *Bitmap) Count() int {
	n := 0
	for _, v := range b.data {
		if v {
			n++
		}
	}
	return n
}

// Empty reports whether no pixel is set.
func (b *Bitmap) Empty() bool {
	for _, v := range b.data {
		if v {
			return false
		}
	}
	return true
}

// Or sets every pixel that is set in other. Both bitmaps must have the same
// dimensions; otherwise Or does nothing.
func (b *Bitmap) Or(other *Bitmap) {
	if other == nil || other.width != b.width || other.height != b.height {
		return
	}
	for i, v := range other.data {
		if v {
			b.data[i] = true
		}
	}
}

// AndNot unsets every pixel that is set in other.
func (b *Bitmap) AndNot(other *Bitmap) {
	if other == nil || other.width != b.width || other.height != b.height {
		return
	}
	for i, v := range other.data {
		if v {
			b.data[i] = false
		}
	}
}

// Equal reports whether both bitmaps have the same dimensions and pixels.
func (b *Bitmap) Equal(other *Bitmap) bool {
	if other == nil || other.width != b.width || other.height != b.height {
		return false
	}
	for i, v := range b.data {
		if other.data[i] != v {
			return false
		}
	}
	return true
}

// Clone creates a copy of the bitmap.
func (b *Bitmap) Clone() *Bitmap {
	c := &Bitmap{width: b.width, height: b.height, data: make([]bool, len(b.data))}
	copy(c.data, b.data)
	return c
}

// Alpha converts the bitmap to an alpha image: 255 where set, 0 elsewhere.
func (b *Bitmap) Alpha() *image.Alpha {
	img := image.NewAlpha(b.Bounds())
	for i, v := range b.data {
		if v {
			img.Pix[i] = 255
		}
	}
	return img
}
