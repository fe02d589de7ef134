// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package stroke

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // register JPEG brushes
	_ "image/png"  // register PNG brushes
	"io"
	"sync"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	xdraw "golang.org/x/image/draw"
)

// ErrUnsupportedBrush is returned for brushes that cannot be drawn.
var ErrUnsupportedBrush = errors.New("stroke: unsupported brush")

//go:embed assets/thin.svg
var thinSVG []byte

// svgRasterSize is the edge length SVG brushes without a view box are
// rasterized at.
const svgRasterSize = 64

// BrushImage is an immutable coverage mask stamped along a path in the
// stroke color.
type BrushImage struct {
	mask *image.Alpha

	mu     sync.Mutex
	scaled map[int]*image.Alpha
}

// LoadBrushImage reads an SVG or raster brush. SVG brushes are rasterized
// at their view box size; raster brushes use their alpha channel.
func LoadBrushImage(r io.Reader) (*BrushImage, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("stroke: read brush: %w", err)
	}
	if bytes.Contains(data, []byte("<svg")) {
		return loadSVGBrush(data)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("stroke: decode brush: %w", err)
	}
	return NewBrushImage(img), nil
}

// NewBrushImage creates a brush from the alpha channel of img.
func NewBrushImage(img image.Image) *BrushImage {
	b := img.Bounds()
	mask := image.NewAlpha(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Draw(mask, mask.Bounds(), img, b.Min, xdraw.Src)
	return &BrushImage{mask: mask}
}

func loadSVGBrush(data []byte) (*BrushImage, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data), oksvg.WarnErrorMode)
	if err != nil {
		return nil, fmt.Errorf("stroke: parse svg brush: %w", err)
	}
	w, h := int(icon.ViewBox.W), int(icon.ViewBox.H)
	if w <= 0 || h <= 0 {
		w, h = svgRasterSize, svgRasterSize
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	icon.SetTarget(0, 0, float64(w), float64(h))
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1.0)
	return NewBrushImage(img), nil
}

var thinBrush = sync.OnceValues(func() (*BrushImage, error) {
	return LoadBrushImage(bytes.NewReader(thinSVG))
})

// ThinBrush returns the built-in thin brush.
func ThinBrush() (*BrushImage, error) {
	return thinBrush()
}

// Size returns the native brush size.
func (b *BrushImage) Size() (w, h int) {
	r := b.mask.Bounds()
	return r.Dx(), r.Dy()
}

// Mask returns the native coverage mask. It must not be modified.
func (b *BrushImage) Mask() *image.Alpha {
	return b.mask
}

// Scaled returns the mask resized to size x size. Results are cached.
func (b *BrushImage) Scaled(size int) *image.Alpha {
	size = max(size, 1)
	b.mu.Lock()
	defer b.mu.Unlock()
	if m, ok := b.scaled[size]; ok {
		return m
	}
	m := image.NewAlpha(image.Rect(0, 0, size, size))
	xdraw.BiLinear.Scale(m, m.Bounds(), b.mask, b.mask.Bounds(), xdraw.Src, nil)
	if b.scaled == nil {
		b.scaled = make(map[int]*image.Alpha)
	}
	b.scaled[size] = m
	return m
}
