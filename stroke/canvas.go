// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package stroke

import (
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/clone"
	"github.com/gogpu/gg"
	xdraw "golang.org/x/image/draw"
)

// Canvas is the scratch surface a Rasterizer draws one call into.
type Canvas interface {
	// Clear makes the canvas fully transparent.
	Clear()

	// SetColor sets the stroke and stamp color.
	SetColor(c color.NRGBA)

	// SetLineWidth sets the stroke width.
	SetLineWidth(w float64)

	// MoveTo starts a new subpath.
	MoveTo(x, y float64)

	// LineTo adds a line to the current subpath.
	LineTo(x, y float64)

	// Stroke strokes and clears the current path.
	Stroke() error

	// Stamp draws the current color through mask with its top-left corner
	// at (x, y).
	Stamp(mask *image.Alpha, x, y float64)

	// Image returns the canvas pixels as premultiplied RGBA.
	Image() *image.RGBA
}

// CanvasFactory creates a canvas of the given size.
type CanvasFactory func(width, height int) Canvas

// ggCanvas implements Canvas on a gg.Context with round caps and joins.
type ggCanvas struct {
	ctx   *gg.Context
	color color.NRGBA
}

// NewCanvas creates a Canvas backed by gg software rendering.
func NewCanvas(width, height int) Canvas {
	ctx := gg.NewContext(max(width, 1), max(height, 1))
	ctx.SetLineCap(gg.LineCapRound)
	ctx.SetLineJoin(gg.LineJoinRound)
	return &ggCanvas{ctx: ctx}
}

func (c *ggCanvas) Clear() { c.ctx.Clear() }

func (c *ggCanvas) SetColor(col color.NRGBA) {
	c.color = col
	c.ctx.SetRGBA(float64(col.R)/255, float64(col.G)/255, float64(col.B)/255, float64(col.A)/255)
}

func (c *ggCanvas) SetLineWidth(w float64) { c.ctx.SetLineWidth(w) }

func (c *ggCanvas) MoveTo(x, y float64) { c.ctx.MoveTo(x, y) }

func (c *ggCanvas) LineTo(x, y float64) { c.ctx.LineTo(x, y) }

func (c *ggCanvas) Stroke() error { return c.ctx.Stroke() }

func (c *ggCanvas) Stamp(mask *image.Alpha, x, y float64) {
	b := mask.Bounds()
	stamp := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.DrawMask(stamp, stamp.Bounds(), image.NewUniform(c.color), image.Point{}, mask, b.Min, xdraw.Src)
	c.ctx.DrawImage(gg.ImageBufFromImage(stamp), x, y)
}

func (c *ggCanvas) Image() *image.RGBA {
	img := c.ctx.Image()
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	return clone.AsRGBA(img)
}
