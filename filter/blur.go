// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package filter

import (
	"image"

	"github.com/anthonynsimon/bild/blur"
	"golang.org/x/image/draw"
)

// Blur is a Gaussian blur.
type Blur struct {
	// Radius is the blur radius in pixels. Values <= 0 copy the image.
	Radius float64
}

// NewBlur creates a Gaussian blur filter.
func NewBlur(radius float64) *Blur {
	return &Blur{Radius: radius}
}

// Name returns "blur".
func (b *Blur) Name() string { return "blur" }

// Apply blurs src into dst.
func (b *Blur) Apply(dst, src *image.RGBA) {
	if src == nil || dst == nil {
		return
	}
	r := src.Bounds().Intersect(dst.Bounds())
	if b.Radius <= 0 {
		draw.Copy(dst, r.Min, src, r, draw.Src, nil)
		return
	}
	out := blur.Gaussian(src, b.Radius)
	draw.Copy(dst, r.Min, out, r.Sub(src.Bounds().Min).Add(out.Bounds().Min), draw.Src, nil)
}
