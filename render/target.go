// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"errors"
	"image"
	"image/color"

	"github.com/gogpu/gputypes"
	xdraw "golang.org/x/image/draw"
)

var (
	// ErrAlreadyBound is returned when binding a target twice.
	ErrAlreadyBound = errors.New("render: target already bound")

	// ErrNotBound is returned when unbinding a target that is not bound.
	ErrNotBound = errors.New("render: target not bound")
)

// RenderTarget defines where rendering output goes.
type RenderTarget interface {
	// Width returns the target width in pixels.
	Width() int

	// Height returns the target height in pixels.
	Height() int

	// Format returns the pixel format of the target.
	Format() gputypes.TextureFormat

	// TextureView returns the GPU texture view for this target.
	// Returns nil for CPU-only targets.
	TextureView() TextureView

	// Pixels returns direct access to pixel data.
	// Returns nil for GPU-only targets.
	Pixels() []byte

	// Stride returns the number of bytes per row.
	Stride() int
}

// PixmapTarget is a CPU-backed render target using *image.RGBA.
//
// It keeps a bind flag so that callers can check bind/unbind symmetry.
type PixmapTarget struct {
	img   *image.RGBA
	label string
	bound bool
}

// NewPixmapTarget creates a new CPU-backed render target.
func NewPixmapTarget(width, height int) *PixmapTarget {
	t := &PixmapTarget{}
	t.Resize(width, height)
	return t
}

// NewLabeledPixmapTarget creates a target with a debug label.
func NewLabeledPixmapTarget(label string, width, height int) *PixmapTarget {
	t := NewPixmapTarget(width, height)
	t.label = label
	return t
}

// Label returns the debug label.
func (t *PixmapTarget) Label() string {
	return t.label
}

// Width returns the target width in pixels.
func (t *PixmapTarget) Width() int {
	if t.img == nil {
		return 0
	}
	return t.img.Bounds().Dx()
}

// Height returns the target height in pixels.
func (t *PixmapTarget) Height() int {
	if t.img == nil {
		return 0
	}
	return t.img.Bounds().Dy()
}

// Format returns the pixel format (RGBA8).
func (t *PixmapTarget) Format() gputypes.TextureFormat {
	return gputypes.TextureFormatRGBA8Unorm
}

// TextureView returns nil as this is a CPU-only target.
func (t *PixmapTarget) TextureView() TextureView {
	return nil
}

// Pixels returns direct access to the pixel data.
func (t *PixmapTarget) Pixels() []byte {
	if t.img == nil {
		return nil
	}
	return t.img.Pix
}

// Stride returns the number of bytes per row.
func (t *PixmapTarget) Stride() int {
	if t.img == nil {
		return 0
	}
	return t.img.Stride
}

// Image returns the underlying *image.RGBA.
// The returned image shares memory with the target.
func (t *PixmapTarget) Image() *image.RGBA {
	return t.img
}

// Bind marks the target as the current draw destination.
func (t *PixmapTarget) Bind() error {
	if t.bound {
		return ErrAlreadyBound
	}
	t.bound = true
	return nil
}

// Unbind releases the binding made by Bind.
func (t *PixmapTarget) Unbind() error {
	if !t.bound {
		return ErrNotBound
	}
	t.bound = false
	return nil
}

// Bound reports whether the target is bound.
func (t *PixmapTarget) Bound() bool {
	return t.bound
}

// Clear fills the target with c.
func (t *PixmapTarget) Clear(c color.Color) {
	if t.img == nil {
		return
	}
	r, g, b, a := c.RGBA()
	//nolint:gosec // G115: shift ensures no overflow
	px := [4]uint8{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8), uint8(a >> 8)}
	if px == [4]uint8{} {
		clear(t.img.Pix)
	} else {
		for i := 0; i < len(t.img.Pix); i += 4 {
			copy(t.img.Pix[i:i+4], px[:])
		}
	}
}

// Composite blends the premultiplied src over the target. src must have
// the same size as the target.
func (t *PixmapTarget) Composite(src *image.RGBA) {
	if t.img == nil || src == nil || src.Bounds().Size() != t.img.Bounds().Size() {
		return
	}
	xdraw.Draw(t.img, t.img.Bounds(), src, src.Bounds().Min, xdraw.Over)
}

// CopyFrom replaces the target contents with src, which must have the same size.
func (t *PixmapTarget) CopyFrom(src *image.RGBA) {
	if t.img == nil || src == nil || src.Bounds().Size() != t.img.Bounds().Size() {
		return
	}
	h := t.Height()
	rowLen := t.Width() * 4
	for y := 0; y < h; y++ {
		so := src.PixOffset(src.Rect.Min.X, src.Rect.Min.Y+y)
		copy(t.img.Pix[y*t.img.Stride:y*t.img.Stride+rowLen], src.Pix[so:so+rowLen])
	}
}

// GetPixel returns the RGBA bytes at (x, y), or zeros out of bounds.
func (t *PixmapTarget) GetPixel(x, y int) [4]byte {
	if t.img == nil || !(image.Point{X: x, Y: y}.In(t.img.Rect)) {
		return [4]byte{}
	}
	i := t.img.PixOffset(x, y)
	return [4]byte(t.img.Pix[i : i+4])
}

// Resize reallocates the target. The contents are not preserved.
func (t *PixmapTarget) Resize(width, height int) {
	t.img = image.NewRGBA(image.Rect(0, 0, width, height))
}

// Destroy releases the pixel buffer.
func (t *PixmapTarget) Destroy() {
	t.img = nil
	t.bound = false
}

// Destroyed reports whether Destroy has been called.
func (t *PixmapTarget) Destroyed() bool {
	return t.img == nil
}

var _ RenderTarget = (*PixmapTarget)(nil)
