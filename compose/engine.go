// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package compose

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"slices"

	"github.com/google/uuid"
	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/easel"
	"github.com/gogpu/easel/filter"
	"github.com/gogpu/easel/layer"
	"github.com/gogpu/easel/render"
)

var (
	// ErrNoContext is returned by New when no device handle is given.
	// The engine cannot be created without one.
	ErrNoContext = errors.New("compose: no rendering context")

	// ErrInvalidSize is returned for canvas sizes the targets cannot hold.
	ErrInvalidSize = errors.New("compose: invalid size")

	// ErrDestroyed is returned by operations on a destroyed engine.
	ErrDestroyed = errors.New("compose: engine destroyed")

	// ErrIndexOutOfRange is returned for a display index with no layer.
	ErrIndexOutOfRange = errors.New("compose: layer index out of range")

	// ErrNotImage is returned when filtering a layer that is not an image.
	ErrNotImage = errors.New("compose: not an image layer")

	// ErrDuplicateLayer is returned when adding a layer twice.
	ErrDuplicateLayer = errors.New("compose: layer already added")
)

// Stats counts work done by the engine since creation.
type Stats struct {
	// Frames is the number of completed Render calls.
	Frames int

	// PipelineSwitches is the number of per-bucket pipeline setups.
	PipelineSwitches int

	// FilterPasses is the number of layers run through a filter.
	FilterPasses int
}

// Engine composites an ordered stack of layers.
type Engine struct {
	handle render.DeviceHandle
	caps   render.DeviceCapabilities
	opts   options

	width, height int

	// arena holds every layer; nil slots are listed in free.
	arena   []*layer.Layer
	free    []int
	draw    []int
	display []int

	screen  *render.PixmapTarget
	targetA *render.PixmapTarget
	targetB *render.PixmapTarget

	// buffers holds the drawn pixels of each arena slot for the resolve
	// pass; nil entries are allocated on first use.
	buffers []*image.RGBA

	shaders *render.ShaderCache
	gpu     *render.ComputePipelines
	stats   Stats

	destroyed bool
}

// New creates an engine for a canvas of the given size.
//
// A nil handle is fatal and returns ErrNoContext. Use
// render.NullDeviceHandle for CPU-only rendering.
func New(handle render.DeviceHandle, width, height int, opts ...Option) (*Engine, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	e := &Engine{handle: handle, opts: o}

	if handle == nil {
		e.logger().Error("compose: no rendering context")
		return nil, ErrNoContext
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}

	e.caps = render.Capabilities(handle)
	if !e.caps.SupportsStencil {
		e.logger().Warn("compose: device has no stencil buffer, selection masking may be slow")
	}
	if e.caps.SupportsShaders {
		e.shaders = render.NewShaderCache()
		if device, queue, ok := render.HAL(handle); ok {
			e.gpu = render.NewComputePipelines(device, queue)
		}
		e.compileShader(filter.NewIdentity())
		e.compileShader(filter.NewNoise(0))
	}

	e.width, e.height = width, height
	e.screen = render.NewLabeledPixmapTarget("screen", width, height)
	e.targetA = render.NewLabeledPixmapTarget("target A", width, height)
	e.targetB = render.NewLabeledPixmapTarget("target B", width, height)

	e.logger().Info("compose: engine created",
		"width", width, "height", height,
		"stencil", e.caps.SupportsStencil, "shaders", e.caps.SupportsShaders)
	return e, nil
}

func (e *Engine) logger() *slog.Logger {
	if e.opts.logger != nil {
		return e.opts.logger
	}
	return easel.Logger()
}

// shaderKey names the program of f. Filters of one type share a program
// and differ only in their uniforms.
func shaderKey(f filter.Filter) string {
	return fmt.Sprintf("%T", f)
}

// compileShader builds the program of f if it has one and, on a HAL device,
// its compute pipeline. Failures are logged and the CPU path is used.
func (e *Engine) compileShader(f filter.Filter) {
	if e.shaders == nil {
		return
	}
	src, ok := f.(filter.ShaderSource)
	if !ok {
		return
	}
	key := shaderKey(f)
	words, err := e.shaders.Module(key, src.Shader())
	if err != nil {
		e.logger().Warn("compose: shader compilation failed", "shader", key, "err", err)
		return
	}
	if e.gpu != nil {
		if err := e.gpu.Add(key, words); err != nil {
			e.logger().Warn("compose: compute pipeline failed", "shader", key, "err", err)
			return
		}
	}
	e.logger().Debug("compose: shader ready", "shader", key, "cached", e.shaders.Len())
}

// applyFilter runs f on the GPU when its pipeline is ready and on the CPU
// otherwise.
func (e *Engine) applyFilter(f filter.Filter, dst, src *image.RGBA) {
	if s, ok := f.(filter.ShaderSource); ok && e.gpu != nil && e.gpu.Has(shaderKey(f)) {
		err := e.gpu.Run(shaderKey(f), s.Params(src.Bounds().Dx(), src.Bounds().Dy()), dst, src)
		if err == nil {
			return
		}
		e.logger().Warn("compose: GPU filter failed, using CPU", "filter", f.Name(), "err", err)
	}
	f.Apply(dst, src)
}

// Size returns the canvas size.
func (e *Engine) Size() (width, height int) {
	return e.width, e.height
}

// Capabilities returns the capabilities of the device.
func (e *Engine) Capabilities() render.DeviceCapabilities {
	return e.caps
}

// Stats returns the work counters.
func (e *Engine) Stats() Stats {
	return e.stats
}

// Count returns the number of layers.
func (e *Engine) Count() int {
	return len(e.display)
}

// AddLayer puts l on top of the display order. In draw order l goes before
// the first layer of a higher bucket, after any layers of its own bucket.
func (e *Engine) AddLayer(l *layer.Layer) error {
	if e.destroyed {
		return ErrDestroyed
	}
	if l == nil || l.Destroyed() {
		e.logger().Warn("compose: rejected unusable layer")
		return layer.ErrDestroyed
	}
	if _, ok := e.Find(l.ID()); ok {
		return fmt.Errorf("%w: %s", ErrDuplicateLayer, l.ID())
	}

	var slot int
	if n := len(e.free); n > 0 {
		slot = e.free[n-1]
		e.free = e.free[:n-1]
		e.arena[slot] = l
	} else {
		slot = len(e.arena)
		e.arena = append(e.arena, l)
	}

	e.display = append(e.display, slot)

	pos := len(e.draw)
	for i, s := range e.draw {
		if e.arena[s].Bucket() > l.Bucket() {
			pos = i
			break
		}
	}
	e.draw = slices.Insert(e.draw, pos, slot)
	return nil
}

// RemoveLayer takes the layer at display index i out of the scene and
// returns it. Destroying it is up to the caller.
func (e *Engine) RemoveLayer(i int) (*layer.Layer, error) {
	if e.destroyed {
		return nil, ErrDestroyed
	}
	if i < 0 || i >= len(e.display) {
		e.logger().Warn("compose: remove out of range", "index", i, "count", len(e.display))
		return nil, fmt.Errorf("%w: %d", ErrIndexOutOfRange, i)
	}
	slot := e.display[i]
	e.display = slices.Delete(e.display, i, i+1)
	if j := slices.Index(e.draw, slot); j >= 0 {
		e.draw = slices.Delete(e.draw, j, j+1)
	}

	l := e.arena[slot]
	e.arena[slot] = nil
	if slot < len(e.buffers) {
		e.buffers[slot] = nil
	}
	e.free = append(e.free, slot)
	return l, nil
}

// Reorder swaps the layers at display indices i and j. Draw order is not
// affected.
func (e *Engine) Reorder(i, j int) error {
	if e.destroyed {
		return ErrDestroyed
	}
	n := len(e.display)
	if i < 0 || i >= n || j < 0 || j >= n {
		e.logger().Warn("compose: reorder out of range", "i", i, "j", j, "count", n)
		return fmt.Errorf("%w: %d, %d", ErrIndexOutOfRange, i, j)
	}
	e.display[i], e.display[j] = e.display[j], e.display[i]
	return nil
}

// Get returns the layer at display index i.
func (e *Engine) Get(i int) (*layer.Layer, error) {
	if i < 0 || i >= len(e.display) {
		return nil, fmt.Errorf("%w: %d", ErrIndexOutOfRange, i)
	}
	return e.arena[e.display[i]], nil
}

// Layers returns the layers in display order, bottom first.
func (e *Engine) Layers() []*layer.Layer {
	out := make([]*layer.Layer, len(e.display))
	for i, s := range e.display {
		out[i] = e.arena[s]
	}
	return out
}

// DisplayOrder returns the layer ids in display order.
func (e *Engine) DisplayOrder() []uuid.UUID {
	return e.ids(e.display)
}

// DrawOrder returns the layer ids in draw order.
func (e *Engine) DrawOrder() []uuid.UUID {
	return e.ids(e.draw)
}

func (e *Engine) ids(order []int) []uuid.UUID {
	out := make([]uuid.UUID, len(order))
	for i, s := range order {
		out[i] = e.arena[s].ID()
	}
	return out
}

// Find returns the display index of the layer with the given id.
func (e *Engine) Find(id uuid.UUID) (int, bool) {
	for i, s := range e.display {
		if e.arena[s].ID() == id {
			return i, true
		}
	}
	return -1, false
}

// Render composites the scene into the screen target.
func (e *Engine) Render() error {
	if e.destroyed {
		return ErrDestroyed
	}
	if err := e.renderTo(e.screen, e.draw, e.opts.clearColor); err != nil {
		return err
	}
	e.stats.Frames++
	return nil
}

// renderTo clears t to bg and composites the layers in the given slots,
// which must be in draw order.
//
// Layers are drawn bucket by bucket into their own buffers, then blended
// over t bottom first in display order, so a translucent layer always
// shows what lies below it.
func (e *Engine) renderTo(t *render.PixmapTarget, slots []int, bg color.Color) error {
	if err := t.Bind(); err != nil {
		return fmt.Errorf("compose: bind %s: %w", t.Label(), err)
	}
	defer e.unbind(t)

	t.Clear(bg)

	drawn := make([]bool, len(e.arena))
	bucket := -1
	var interp xdraw.Interpolator
	for _, s := range slots {
		l := e.arena[s]
		if interp == nil || l.Bucket() != bucket {
			bucket = l.Bucket()
			interp = e.setupBucket(l.Kind())
		}
		l.Draw(e.buffer(s), interp)
		drawn[s] = true
	}

	for _, s := range e.display {
		if drawn[s] {
			t.Composite(e.buffers[s])
		}
	}
	return nil
}

// buffer returns the cleared layer buffer of slot.
func (e *Engine) buffer(slot int) *image.RGBA {
	if slot >= len(e.buffers) {
		e.buffers = append(e.buffers, make([]*image.RGBA, slot+1-len(e.buffers))...)
	}
	b := e.buffers[slot]
	if b == nil {
		b = image.NewRGBA(image.Rect(0, 0, e.width, e.height))
		e.buffers[slot] = b
		return b
	}
	clear(b.Pix)
	return b
}

// setupBucket prepares the pipeline for layers of kind k.
func (e *Engine) setupBucket(k layer.Kind) xdraw.Interpolator {
	e.stats.PipelineSwitches++
	e.logger().Debug("compose: pipeline switch", "kind", k)
	return k.Interpolator()
}

func (e *Engine) unbind(t *render.PixmapTarget) {
	if err := t.Unbind(); err != nil {
		e.logger().Warn("compose: unbalanced unbind", "target", t.Label(), "err", err)
	}
}

// FilterLayers runs f over each image layer at the given display indices.
// The layer is rendered alone over a transparent target A, filtered into
// target B and
// the result replaces its pixels. The layer then fills the canvas, so its
// transform is reset to the defaults.
//
// Mask layers and bad indices are skipped. The returned error joins the
// reasons for every skipped index; the other layers are still filtered.
func (e *Engine) FilterLayers(indices []int, f filter.Filter) error {
	if e.destroyed {
		return ErrDestroyed
	}
	e.compileShader(f)

	var errs []error
	for _, i := range indices {
		if i < 0 || i >= len(e.display) {
			e.logger().Warn("compose: filter index out of range", "index", i, "filter", f.Name())
			errs = append(errs, fmt.Errorf("%w: %d", ErrIndexOutOfRange, i))
			continue
		}
		slot := e.display[i]
		l := e.arena[slot]
		if l.Kind() != layer.KindImage {
			e.logger().Warn("compose: filter skipped non-image layer", "index", i, "kind", l.Kind())
			errs = append(errs, fmt.Errorf("%w: index %d is a %s layer", ErrNotImage, i, l.Kind()))
			continue
		}
		if err := e.filterLayer(l, slot, f); err != nil {
			errs = append(errs, err)
			continue
		}
		e.stats.FilterPasses++
	}
	return errors.Join(errs...)
}

func (e *Engine) filterLayer(l *layer.Layer, slot int, f filter.Filter) error {
	if err := e.renderTo(e.targetA, []int{slot}, color.Transparent); err != nil {
		return err
	}

	if err := e.targetB.Bind(); err != nil {
		return fmt.Errorf("compose: bind %s: %w", e.targetB.Label(), err)
	}
	e.targetB.Clear(color.Transparent)
	e.applyFilter(f, e.targetB.Image(), e.targetA.Image())
	e.unbind(e.targetB)

	if err := l.SetImage(e.targetB.Image()); err != nil {
		return err
	}
	l.SetDefaults(e.width, e.height)
	e.logger().Debug("compose: layer filtered", "layer", l.ID(), "filter", f.Name())
	return nil
}

// RenderToImage renders the scene offscreen and encodes it.
func (e *Engine) RenderToImage(format render.Format) ([]byte, error) {
	if e.destroyed {
		return nil, ErrDestroyed
	}
	if err := e.renderTo(e.targetA, e.draw, e.opts.clearColor); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := render.Encode(&buf, e.targetA.Image(), format); err != nil {
		return nil, fmt.Errorf("compose: encode %s: %w", format, err)
	}
	return buf.Bytes(), nil
}

// RenderToDataURL renders the scene offscreen and returns it as a base64
// data URL.
func (e *Engine) RenderToDataURL(format render.Format) (string, error) {
	if e.destroyed {
		return "", ErrDestroyed
	}
	if err := e.renderTo(e.targetA, e.draw, e.opts.clearColor); err != nil {
		return "", err
	}
	return render.DataURL(e.targetA.Image(), format)
}

// Resize changes the canvas size. Both dimensions must be positive and
// their product a multiple of 4; otherwise nothing changes.
func (e *Engine) Resize(width, height int) error {
	if e.destroyed {
		return ErrDestroyed
	}
	if width <= 0 || height <= 0 || (width*height)%4 != 0 {
		e.logger().Warn("compose: invalid resize", "width", width, "height", height)
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	e.width, e.height = width, height
	e.screen.Resize(width, height)
	e.targetA.Resize(width, height)
	e.targetB.Resize(width, height)
	e.buffers = nil
	return nil
}

// PixelColor returns the RGBA bytes of the last rendered frame at (x, y).
// Out of bounds pixels are zero.
func (e *Engine) PixelColor(x, y int) [4]byte {
	if e.destroyed {
		return [4]byte{}
	}
	return e.screen.GetPixel(x, y)
}

// Screen returns the presented frame. It is overwritten by the next Render.
func (e *Engine) Screen() *image.RGBA {
	if e.destroyed {
		return nil
	}
	return e.screen.Image()
}

// Destroy destroys every layer, then the targets. It may be called once.
func (e *Engine) Destroy() error {
	if e.destroyed {
		return ErrDestroyed
	}
	for _, l := range e.arena {
		if l != nil {
			l.Destroy()
		}
	}
	e.arena, e.free, e.draw, e.display = nil, nil, nil, nil

	e.screen.Destroy()
	e.targetA.Destroy()
	e.targetB.Destroy()
	e.buffers = nil
	if e.gpu != nil {
		e.gpu.Destroy()
	}
	e.destroyed = true
	e.logger().Info("compose: engine destroyed")
	return nil
}
