// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package overlay draws interaction affordances on top of the composited
// scene: transform handles for the layer being edited and the animated
// border of the active selection.
//
// Redraws are requested by the host. While a selection is attached, a
// Clock advances the marching ants phase and the engine reports
// NeedsAnimating so the host keeps scheduling frames.
package overlay

import (
	"errors"
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/gogpu/gg"

	"github.com/gogpu/easel"
	"github.com/gogpu/easel/frame"
	"github.com/gogpu/easel/layer"
)

// ErrNoSelection is returned by AttachSelection for a missing source or layer.
var ErrNoSelection = errors.New("overlay: selection source or layer missing")

// EditMode selects which transform handles are drawn.
type EditMode int

const (
	// Translate draws the bounding box and a center handle.
	Translate EditMode = iota

	// Rotate draws the rotated outline of the layer.
	Rotate

	// Scale draws the bounding box and a 3x3 grid of handles.
	Scale
)

// String returns the mode name.
func (m EditMode) String() string {
	switch m {
	case Translate:
		return "translate"
	case Rotate:
		return "rotate"
	case Scale:
		return "scale"
	default:
		return fmt.Sprintf("EditMode(%d)", int(m))
	}
}

// Defaults for the marching ants animation.
const (
	DefaultAntsPeriod = 500 * time.Millisecond
	DefaultTickSize   = 5
)

// handleSize is the edge length of a handle square in pixels.
const handleSize = 4

// AntsSource renders the outline of a selection. *selection.Selector
// implements it.
type AntsSource interface {
	Size() (w, h int)
	MarchingAnts(dst *image.RGBA, tick, phase int)
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the clock driving the ants animation.
func WithClock(c frame.Clock) Option {
	return func(e *Engine) {
		e.clock = c
	}
}

// WithAntsPeriod sets the animation period.
func WithAntsPeriod(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.period = d
		}
	}
}

// WithTickSize sets the dash length of the marching ants.
func WithTickSize(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.tick = n
		}
	}
}

// WithInvalidate sets a callback run after every animation step, typically
// a frame.Loop's RequestUpdate.
func WithInvalidate(fn func()) Option {
	return func(e *Engine) {
		e.invalidate = fn
	}
}

// Engine draws the overlay into its own gg context.
type Engine struct {
	ctx *gg.Context

	clock      frame.Clock
	period     time.Duration
	tick       int
	invalidate func()

	editLayer *layer.Layer
	mode      EditMode

	// The ants state is shared with the clock callback.
	mu        sync.Mutex
	antsSrc   AntsSource
	antsLayer *layer.Layer
	ants      *image.RGBA
	phase     int
	gen       int
	cancel    func()
}

// New creates an overlay of the given size.
func New(width, height int, opts ...Option) *Engine {
	e := &Engine{
		clock:  frame.SystemClock{},
		period: DefaultAntsPeriod,
		tick:   DefaultTickSize,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.Resize(width, height)
	return e
}

// Resize reallocates the overlay surface and clears it.
func (e *Engine) Resize(width, height int) {
	e.ctx = gg.NewContext(max(width, 1), max(height, 1))
}

// SetEditLayer selects the layer whose handles are drawn.
func (e *Engine) SetEditLayer(l *layer.Layer, mode EditMode) {
	e.editLayer = l
	e.mode = mode
}

// RemoveEditLayer stops drawing handles.
func (e *Engine) RemoveEditLayer() {
	e.editLayer = nil
}

// EditMode returns the current edit mode.
func (e *Engine) EditMode() EditMode {
	return e.mode
}

// AttachSelection starts animating the border of src, drawn with the
// transform of l. An attached selection is detached first.
func (e *Engine) AttachSelection(src AntsSource, l *layer.Layer) error {
	if src == nil || l == nil {
		easel.Logger().Warn("overlay: selection layer undefined")
		return ErrNoSelection
	}
	e.DetachSelection()

	w, h := src.Size()
	e.mu.Lock()
	e.antsSrc = src
	e.antsLayer = l
	e.ants = image.NewRGBA(image.Rect(0, 0, w, h))
	e.phase = 0
	e.gen++
	gen := e.gen
	src.MarchingAnts(e.ants, e.tick, e.phase)
	e.mu.Unlock()

	cancel := e.clock.Every(e.period, func() { e.step(gen) })

	e.mu.Lock()
	e.cancel = cancel
	e.mu.Unlock()
	easel.Logger().Debug("overlay: selection attached", "width", w, "height", h)
	return nil
}

// step advances the ants by one phase.
func (e *Engine) step(gen int) {
	e.mu.Lock()
	if gen != e.gen || e.antsSrc == nil {
		e.mu.Unlock()
		return
	}
	e.phase++
	e.antsSrc.MarchingAnts(e.ants, e.tick, e.phase)
	e.mu.Unlock()
	if e.invalidate != nil {
		e.invalidate()
	}
}

// DetachSelection stops the animation and forgets the selection. Detach
// before discarding the selection source.
func (e *Engine) DetachSelection() {
	e.mu.Lock()
	cancel := e.cancel
	e.cancel = nil
	e.antsSrc = nil
	e.antsLayer = nil
	e.ants = nil
	e.gen++
	e.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Phase returns the current marching ants phase.
func (e *Engine) Phase() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.phase
}

// NeedsAnimating reports whether a selection is attached, in which case
// the host should keep requesting frames.
func (e *Engine) NeedsAnimating() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.antsLayer != nil
}

// Render redraws the overlay.
func (e *Engine) Render() error {
	e.ctx.Clear()
	var err error
	if l := e.editLayer; l != nil && !l.Destroyed() {
		switch e.mode {
		case Translate:
			err = e.drawTranslate(l)
		case Rotate:
			err = e.drawRotate(l)
		case Scale:
			err = e.drawScale(l)
		}
	}
	e.drawAnts()
	return err
}

// Image returns the overlay pixels.
func (e *Engine) Image() image.Image {
	return e.ctx.Image()
}

func (e *Engine) setColors() {
	e.ctx.SetLineWidth(1)
	e.ctx.SetRGBA(1, 0, 0, 1)
}

func (e *Engine) square(x, y float64) error {
	e.ctx.DrawRectangle(x-handleSize/2, y-handleSize/2, handleSize, handleSize)
	return e.ctx.Fill()
}

func (e *Engine) drawTranslate(l *layer.Layer) error {
	p := l.Position()
	w, h := l.TransformedSize()

	e.ctx.Push()
	defer e.ctx.Pop()
	e.setColors()
	e.ctx.Translate(p.X, p.Y)
	e.ctx.DrawRectangle(-w/2, -h/2, w, h)
	if err := e.ctx.Stroke(); err != nil {
		return err
	}
	return e.square(0, 0)
}

func (e *Engine) drawRotate(l *layer.Layer) error {
	c := l.Corners()

	e.ctx.Push()
	defer e.ctx.Pop()
	e.setColors()
	e.ctx.MoveTo(c[0].X, c[0].Y)
	for _, p := range c[1:] {
		e.ctx.LineTo(p.X, p.Y)
	}
	e.ctx.ClosePath()
	return e.ctx.Stroke()
}

func (e *Engine) drawScale(l *layer.Layer) error {
	p := l.Position()
	w, h := l.TransformedSize()

	e.ctx.Push()
	defer e.ctx.Pop()
	e.setColors()
	e.ctx.Translate(p.X, p.Y)
	e.ctx.DrawRectangle(-w/2, -h/2, w, h)
	if err := e.ctx.Stroke(); err != nil {
		return err
	}
	for i := -1; i <= 1; i++ {
		for j := -1; j <= 1; j++ {
			if err := e.square(w/2*float64(i), h/2*float64(j)); err != nil {
				return err
			}
		}
	}
	return nil
}

func (e *Engine) drawAnts() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.antsLayer == nil || e.ants == nil {
		return
	}
	buf := gg.ImageBufFromImage(e.ants)
	e.ctx.Push()
	defer e.ctx.Pop()
	e.ctx.Transform(e.antsLayer.Transform())
	e.ctx.DrawImage(buf, 0, 0)
}
