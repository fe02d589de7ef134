// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package stroke

import (
	"image"
	"math/rand/v2"

	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/easel"
)

// Option configures a Rasterizer.
type Option func(*options)

type options struct {
	rng       *rand.Rand
	newCanvas CanvasFactory
	style     Style
}

// WithRand sets the random source used by the brushes.
func WithRand(r *rand.Rand) Option {
	return func(o *options) {
		o.rng = r
	}
}

// WithCanvasFactory sets how scratch canvases are created.
func WithCanvasFactory(f CanvasFactory) Option {
	return func(o *options) {
		o.newCanvas = f
	}
}

// WithStyle sets the initial style.
func WithStyle(s Style) Option {
	return func(o *options) {
		o.style = s
	}
}

// Rasterizer draws pointer paths onto a persistent surface.
//
// Rasterizer is not safe for concurrent use.
type Rasterizer struct {
	width, height int

	surface *image.RGBA
	saved   *image.RGBA
	scratch Canvas

	newCanvas CanvasFactory
	rng       *rand.Rand
	style     Style

	path *easel.Path

	// dashed is the distance walked by the dash pattern so far.
	dashed float64

	// stamped records the single origin stamp of a short path.
	stamped bool
}

// New creates a rasterizer with a transparent surface of the given size.
func New(width, height int, opts ...Option) *Rasterizer {
	o := options{
		newCanvas: NewCanvas,
		style:     DefaultStyle(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.rng == nil {
		o.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	r := &Rasterizer{
		newCanvas: o.newCanvas,
		rng:       o.rng,
		style:     o.style,
	}
	r.Resize(width, height)
	return r
}

// Style returns the current style.
func (r *Rasterizer) Style() Style { return r.style }

// SetStyle replaces the style used by subsequent draws.
func (r *Rasterizer) SetStyle(s Style) { r.style = s }

// Active reports whether a path is open.
func (r *Rasterizer) Active() bool { return r.path != nil }

// Path returns the open path, or nil.
func (r *Rasterizer) Path() *easel.Path { return r.path }

// PointerDown opens a path at p and saves the surface for previews. A
// second PointerDown while a path is open adds a vertex in line mode and is
// ignored otherwise.
func (r *Rasterizer) PointerDown(p easel.Point) {
	if r.path == nil {
		r.dashed = 0
		r.stamped = false
		r.save()
		r.path = easel.NewPath(p)
		if r.style.mode == ModeRectangle {
			r.path.Append(p)
		}
	}
	if r.style.mode == ModeLine {
		r.path.Append(p)
	}
}

// PointerMove extends the open path to p and draws the increment. Line and
// rectangle modes move the last point instead.
func (r *Rasterizer) PointerMove(p easel.Point) error {
	if r.path == nil {
		return nil
	}
	r.extend(p)
	return r.Draw(r.path)
}

// PointerUp finishes the open path at p.
func (r *Rasterizer) PointerUp(p easel.Point) error {
	if r.path == nil {
		return nil
	}
	r.extend(p)
	err := r.Draw(r.path)
	r.path = nil
	return err
}

func (r *Rasterizer) extend(p easel.Point) {
	switch r.style.mode {
	case ModeLine, ModeRectangle:
		r.path.SetLast(p)
	default:
		r.path.Append(p)
	}
}

// Draw rasterizes the part of path after its cursor with the current style
// and composites it over the surface.
func (r *Rasterizer) Draw(path *easel.Path) error {
	if path == nil || path.Len() == 0 {
		return nil
	}
	c := r.scratch
	c.Clear()
	s := r.style
	col := s.color
	col.A = scaleAlpha(col.A, s.opacity)
	c.SetColor(col)
	c.SetLineWidth(s.width)

	var err error
	switch s.mode {
	case ModeNormal:
		err = r.drawNormal(path)
	case ModeDashed:
		err = r.drawDashed(path)
	case ModeLine:
		r.restore()
		err = r.drawLine(path)
	case ModeRectangle:
		r.restore()
		err = r.drawRectangle(path)
	case ModeBrush:
		err = r.drawBrush(path)
	}
	xdraw.Draw(r.surface, r.surface.Bounds(), c.Image(), image.Point{}, xdraw.Over)
	return err
}

// Clear erases the surface, the saved surface and the scratch canvas. An
// open path restarts from its first point.
func (r *Rasterizer) Clear() {
	clear(r.surface.Pix)
	clear(r.saved.Pix)
	r.scratch.Clear()
	if r.path != nil {
		r.path.Rewind()
	}
}

// Resize reallocates the surfaces; their contents are lost.
func (r *Rasterizer) Resize(width, height int) {
	width, height = max(width, 0), max(height, 0)
	r.width, r.height = width, height
	r.surface = image.NewRGBA(image.Rect(0, 0, width, height))
	r.saved = image.NewRGBA(image.Rect(0, 0, width, height))
	r.scratch = r.newCanvas(width, height)
}

// Size returns the surface size.
func (r *Rasterizer) Size() (w, h int) { return r.width, r.height }

// Surface returns the live surface. It must not be modified.
func (r *Rasterizer) Surface() *image.RGBA { return r.surface }

// Snapshot returns a copy of the surface, ready to be committed into a
// layer.
func (r *Rasterizer) Snapshot() *image.RGBA {
	img := image.NewRGBA(r.surface.Rect)
	copy(img.Pix, r.surface.Pix)
	return img
}

func (r *Rasterizer) save() {
	copy(r.saved.Pix, r.surface.Pix)
}

// restore resets the surface to the saved copy. The open path must be
// redrawn from its start afterwards.
func (r *Rasterizer) restore() {
	copy(r.surface.Pix, r.saved.Pix)
	if r.path != nil {
		r.path.Rewind()
	}
}

func scaleAlpha(a uint8, f float64) uint8 {
	v := float64(a) * min(max(f, 0), 1)
	return uint8(v + 0.5)
}
