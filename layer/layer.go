// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package layer

import (
	"errors"
	"image"
	"image/color"
	"math"

	"github.com/anthonynsimon/bild/clone"
	"github.com/gogpu/gg"
	"github.com/google/uuid"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/gogpu/easel"
)

// ErrDestroyed is returned by operations on a destroyed layer.
var ErrDestroyed = errors.New("layer: destroyed")

// Layer is one entry of the scene. The zero value is not usable; create
// layers with NewImageLayer or NewMaskLayer.
type Layer struct {
	id   uuid.UUID
	kind Kind

	pos      easel.Point
	rotation float64
	scaleX   float64
	scaleY   float64
	flipX    bool
	flipY    bool

	// img holds the pixels drawn for the layer. For mask layers it is
	// rebuilt from mask and tint.
	img  *image.RGBA
	mask *image.Alpha
	tint color.RGBA

	destroyed bool
}

// NewImageLayer creates an image layer holding a copy of img. The layer is
// positioned so that its top-left corner is at the canvas origin.
func NewImageLayer(img image.Image) *Layer {
	l := &Layer{
		id:     uuid.New(),
		kind:   KindImage,
		scaleX: 1,
		scaleY: 1,
		img:    asRGBA(img),
	}
	l.pos = l.naturalCenter()
	return l
}

// NewMaskLayer creates a mask layer drawing mask in the tint color.
// A pixel is drawn where the mask alpha is non-zero.
func NewMaskLayer(mask *image.Alpha, tint color.RGBA) *Layer {
	l := &Layer{
		id:     uuid.New(),
		kind:   KindMask,
		scaleX: 1,
		scaleY: 1,
		tint:   tint,
	}
	l.setMask(mask)
	l.pos = l.naturalCenter()
	return l
}

// ID returns the stable identifier of the layer.
func (l *Layer) ID() uuid.UUID { return l.id }

// Kind returns the variant tag.
func (l *Layer) Kind() Kind { return l.kind }

// Bucket returns the draw bucket.
func (l *Layer) Bucket() int { return l.kind.Bucket() }

// Position returns the center of the layer in canvas pixels.
func (l *Layer) Position() easel.Point { return l.pos }

// SetPosition moves the center of the layer.
func (l *Layer) SetPosition(p easel.Point) { l.pos = p }

// Rotation returns the rotation in radians.
func (l *Layer) Rotation() float64 { return l.rotation }

// SetRotation sets the rotation in radians.
func (l *Layer) SetRotation(r float64) { l.rotation = r }

// Scale returns the per-axis scale factors.
func (l *Layer) Scale() (sx, sy float64) { return l.scaleX, l.scaleY }

// SetScale sets the per-axis scale factors.
func (l *Layer) SetScale(sx, sy float64) {
	l.scaleX, l.scaleY = sx, sy
}

// Flip returns the flip flags.
func (l *Layer) Flip() (x, y bool) { return l.flipX, l.flipY }

// SetFlip sets the flip flags.
func (l *Layer) SetFlip(x, y bool) {
	l.flipX, l.flipY = x, y
}

// Size returns the untransformed size of the layer in pixels.
func (l *Layer) Size() (w, h int) {
	if l.img == nil {
		return 0, 0
	}
	b := l.img.Bounds()
	return b.Dx(), b.Dy()
}

// TransformedSize returns the size of the layer after scaling, ignoring
// rotation.
func (l *Layer) TransformedSize() (w, h float64) {
	iw, ih := l.Size()
	return float64(iw) * math.Abs(l.scaleX), float64(ih) * math.Abs(l.scaleY)
}

// Transform returns the matrix mapping layer pixel coordinates to canvas
// pixel coordinates: scale and flip about the layer center, rotate, then
// move the center to Position.
func (l *Layer) Transform() gg.Matrix {
	w, h := l.Size()
	sx, sy := l.scaleX, l.scaleY
	if l.flipX {
		sx = -sx
	}
	if l.flipY {
		sy = -sy
	}
	return gg.Translate(l.pos.X, l.pos.Y).
		Multiply(gg.Rotate(l.rotation)).
		Multiply(gg.Scale(sx, sy)).
		Multiply(gg.Translate(-float64(w)/2, -float64(h)/2))
}

// Corners returns the four corners of the layer in canvas coordinates, in
// the order top-left, top-right, bottom-right, bottom-left of the
// untransformed image.
func (l *Layer) Corners() [4]easel.Point {
	w, h := l.Size()
	m := l.Transform()
	return [4]easel.Point{
		easel.Pt(0, 0).Transform(m),
		easel.Pt(float64(w), 0).Transform(m),
		easel.Pt(float64(w), float64(h)).Transform(m),
		easel.Pt(0, float64(h)).Transform(m),
	}
}

// Image returns the pixels drawn for the layer. The image is shared with
// the layer and must not be modified.
func (l *Layer) Image() *image.RGBA { return l.img }

// Mask returns the coverage of a mask layer, or nil for image layers.
func (l *Layer) Mask() *image.Alpha { return l.mask }

// Tint returns the color of a mask layer.
func (l *Layer) Tint() color.RGBA { return l.tint }

// SetImage replaces the pixels of an image layer with a copy of img.
// It is a no-op on mask layers.
func (l *Layer) SetImage(img image.Image) error {
	if l.destroyed {
		return ErrDestroyed
	}
	if l.kind != KindImage {
		return nil
	}
	l.img = asRGBA(img)
	return nil
}

// SetMask replaces the coverage of a mask layer. It is a no-op on image
// layers.
func (l *Layer) SetMask(mask *image.Alpha) error {
	if l.destroyed {
		return ErrDestroyed
	}
	if l.kind != KindMask {
		return nil
	}
	l.setMask(mask)
	return nil
}

func (l *Layer) setMask(mask *image.Alpha) {
	if mask == nil {
		mask = image.NewAlpha(image.Rectangle{})
	}
	l.mask = mask
	b := mask.Bounds()
	l.img = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.DrawMask(l.img, l.img.Bounds(), image.NewUniform(l.tint), image.Point{}, mask, b.Min, xdraw.Src)
}

// SetDefaults resets the render parameters for a canvas of the given size:
// centered, unrotated, unscaled and unflipped.
func (l *Layer) SetDefaults(canvasWidth, canvasHeight int) {
	l.pos = easel.Pt(float64(canvasWidth)/2, float64(canvasHeight)/2)
	l.rotation = 0
	l.scaleX, l.scaleY = 1, 1
	l.flipX, l.flipY = false, false
}

// Draw composites the transformed layer over dst using interp.
func (l *Layer) Draw(dst xdraw.Image, interp xdraw.Transformer) {
	if l.destroyed || l.img == nil || l.img.Bounds().Empty() {
		return
	}
	m := l.Transform()
	s2d := f64.Aff3{m.A, m.B, m.C, m.D, m.E, m.F}
	interp.Transform(dst, s2d, l.img, l.img.Bounds(), xdraw.Over, nil)
}

// Destroy releases the pixel buffers. Further mutations return ErrDestroyed.
func (l *Layer) Destroy() {
	l.img = nil
	l.mask = nil
	l.destroyed = true
}

// Destroyed reports whether Destroy has been called.
func (l *Layer) Destroyed() bool { return l.destroyed }

func (l *Layer) naturalCenter() easel.Point {
	w, h := l.Size()
	return easel.Pt(float64(w)/2, float64(h)/2)
}

// asRGBA copies img into an RGBA image whose bounds start at the origin.
func asRGBA(img image.Image) *image.RGBA {
	c := clone.AsRGBA(img)
	c.Rect = c.Rect.Sub(c.Rect.Min)
	return c
}
