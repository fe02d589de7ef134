// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package filter

import (
	"image"

	"github.com/anthonynsimon/bild/noise"
)

// Noise adds monochrome noise to the color channels. Alpha is preserved.
type Noise struct {
	// Amount scales the noise; 0 leaves the image unchanged, 1 adds up to
	// half the channel range in either direction.
	Amount float64

	// Source generates noise samples. Nil uses noise.Uniform.
	Source noise.Fn

	// Seed offsets the hash of the GPU program, which ignores Source.
	Seed float32
}

// NewNoise creates a noise filter with uniform samples.
func NewNoise(amount float64) *Noise {
	return &Noise{Amount: amount}
}

// Name returns "noise".
func (n *Noise) Name() string { return "noise" }

// Shader returns the noise WGSL program.
func (n *Noise) Shader() string { return noiseShader }

// Params packs the amount and the seed.
func (n *Noise) Params(width, height int) []byte {
	return appendFloats(uniformHeader(width, height, 32), float32(n.Amount), n.Seed, 0, 0)
}

// Apply writes src plus noise into dst.
func (n *Noise) Apply(dst, src *image.RGBA) {
	if src == nil || dst == nil {
		return
	}
	r := src.Bounds().Intersect(dst.Bounds())
	if r.Empty() {
		return
	}
	fn := n.Source
	if fn == nil {
		fn = noise.Uniform
	}
	field := noise.Generate(r.Dx(), r.Dy(), &noise.Options{NoiseFn: fn, Monochrome: true})

	for y := r.Min.Y; y < r.Max.Y; y++ {
		si := src.PixOffset(r.Min.X, y)
		di := dst.PixOffset(r.Min.X, y)
		ni := field.PixOffset(0, y-r.Min.Y)
		for x := r.Min.X; x < r.Max.X; x, si, di, ni = x+1, si+4, di+4, ni+4 {
			a := src.Pix[si+3]
			// Premultiplied channels stay within [0, alpha].
			d := (float64(field.Pix[ni]) - 128) * n.Amount * float64(a) / 255
			for k := 0; k < 3; k++ {
				v := float64(src.Pix[si+k]) + d
				dst.Pix[di+k] = uint8(min(max(v, 0), float64(a)) + 0.5)
			}
			dst.Pix[di+3] = a
		}
	}
}
