// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package filter

import (
	"image"
	"image/color"
)

// ColorMatrix applies a 4x5 color transformation matrix to an image.
// The transformation is:
//
//	[R']   [a00 a01 a02 a03 a04]   [R]
//	[G'] = [a10 a11 a12 a13 a14] * [G]
//	[B']   [a20 a21 a22 a23 a24]   [B]
//	[A']   [a30 a31 a32 a33 a34]   [A]
//	                               [1]
//
// Color values are straight-alpha in [0, 255] during the transformation and
// clamped back afterwards.
type ColorMatrix struct {
	// Label is returned by Name.
	Label string

	// Matrix is the 4x5 transformation matrix in row-major order.
	Matrix [20]float32
}

// Contrast limits accepted by NewContrast.
const (
	MinContrast = 0.75
	MaxContrast = 3
)

// NewIdentity returns a matrix that passes colors through unchanged.
func NewIdentity() *ColorMatrix {
	return &ColorMatrix{
		Label: "identity",
		Matrix: [20]float32{
			1, 0, 0, 0, 0,
			0, 1, 0, 0, 0,
			0, 0, 1, 0, 0,
			0, 0, 0, 1, 0,
		},
	}
}

// NewBrightness scales color channels by factor.
// factor: 0.0 = black, 1.0 = unchanged, 2.0 = twice as bright
func NewBrightness(factor float32) *ColorMatrix {
	return &ColorMatrix{
		Label: "brightness",
		Matrix: [20]float32{
			factor, 0, 0, 0, 0,
			0, factor, 0, 0, 0,
			0, 0, factor, 0, 0,
			0, 0, 0, 1, 0,
		},
	}
}

// NewContrast stretches colors away from mid-gray. factor is clamped to
// [MinContrast, MaxContrast].
func NewContrast(factor float32) *ColorMatrix {
	factor = min(max(factor, MinContrast), MaxContrast)
	// (color - 128) * factor + 128
	offset := 128 * (1 - factor)
	return &ColorMatrix{
		Label: "contrast",
		Matrix: [20]float32{
			factor, 0, 0, 0, offset,
			0, factor, 0, 0, offset,
			0, 0, factor, 0, offset,
			0, 0, 0, 1, 0,
		},
	}
}

// NewSaturation blends between grayscale (0) and the original colors (1).
func NewSaturation(factor float32) *ColorMatrix {
	// Rec. 709
	const (
		lumR = 0.2126
		lumG = 0.7152
		lumB = 0.0722
	)
	inv := 1 - factor
	return &ColorMatrix{
		Label: "saturation",
		Matrix: [20]float32{
			lumR*inv + factor, lumG * inv, lumB * inv, 0, 0,
			lumR * inv, lumG*inv + factor, lumB * inv, 0, 0,
			lumR * inv, lumG * inv, lumB*inv + factor, 0, 0,
			0, 0, 0, 1, 0,
		},
	}
}

// NewSepia applies a sepia tone.
func NewSepia() *ColorMatrix {
	return &ColorMatrix{
		Label: "sepia",
		Matrix: [20]float32{
			0.393, 0.769, 0.189, 0, 0,
			0.349, 0.686, 0.168, 0, 0,
			0.272, 0.534, 0.131, 0, 0,
			0, 0, 0, 1, 0,
		},
	}
}

// NewInvert inverts the color channels and keeps alpha.
func NewInvert() *ColorMatrix {
	return &ColorMatrix{
		Label: "invert",
		Matrix: [20]float32{
			-1, 0, 0, 0, 255,
			0, -1, 0, 0, 255,
			0, 0, -1, 0, 255,
			0, 0, 0, 1, 0,
		},
	}
}

// NewTint blends colors toward c by amount in [0, 1].
func NewTint(c color.RGBA, amount float32) *ColorMatrix {
	f := min(max(amount, 0), 1)
	inv := 1 - f
	return &ColorMatrix{
		Label: "tint",
		Matrix: [20]float32{
			inv, 0, 0, 0, float32(c.R) * f,
			0, inv, 0, 0, float32(c.G) * f,
			0, 0, inv, 0, float32(c.B) * f,
			0, 0, 0, 1, 0,
		},
	}
}

// Name returns the label of the matrix.
func (f *ColorMatrix) Name() string {
	if f.Label == "" {
		return "colormatrix"
	}
	return f.Label
}

// Shader returns the color matrix WGSL program.
func (f *ColorMatrix) Shader() string {
	return colorMatrixShader
}

// Params packs the 4x4 rows followed by the offset column scaled to [0, 1].
func (f *ColorMatrix) Params(width, height int) []byte {
	m := &f.Matrix
	b := uniformHeader(width, height, 96)
	for row := 0; row < 4; row++ {
		b = appendFloats(b, m[row*5:row*5+4]...)
	}
	return appendFloats(b, m[4]/255, m[9]/255, m[14]/255, m[19]/255)
}

// Apply applies the color matrix to every pixel of src and writes dst.
func (f *ColorMatrix) Apply(dst, src *image.RGBA) {
	if src == nil || dst == nil {
		return
	}
	r := src.Bounds().Intersect(dst.Bounds())
	m := &f.Matrix

	for y := r.Min.Y; y < r.Max.Y; y++ {
		si := src.PixOffset(r.Min.X, y)
		di := dst.PixOffset(r.Min.X, y)
		for x := r.Min.X; x < r.Max.X; x, si, di = x+1, si+4, di+4 {
			a := float32(src.Pix[si+3])

			// The matrix works on straight alpha.
			var cr, cg, cb float32
			if a > 0 {
				cr = float32(src.Pix[si+0]) * 255 / a
				cg = float32(src.Pix[si+1]) * 255 / a
				cb = float32(src.Pix[si+2]) * 255 / a
			}

			nr := m[0]*cr + m[1]*cg + m[2]*cb + m[3]*a + m[4]
			ng := m[5]*cr + m[6]*cg + m[7]*cb + m[8]*a + m[9]
			nb := m[10]*cr + m[11]*cg + m[12]*cb + m[13]*a + m[14]
			na := clampUint8(m[15]*cr + m[16]*cg + m[17]*cb + m[18]*a + m[19])

			// Clamp before premultiplying so out-of-range channels cannot
			// exceed alpha.
			k := float32(na) / 255
			dst.Pix[di+0] = clampUint8(float32(clampUint8(nr)) * k)
			dst.Pix[di+1] = clampUint8(float32(clampUint8(ng)) * k)
			dst.Pix[di+2] = clampUint8(float32(clampUint8(nb)) * k)
			dst.Pix[di+3] = na
		}
	}
}

// Then returns a matrix applying f first and other second.
func (f *ColorMatrix) Then(other *ColorMatrix) *ColorMatrix {
	a := &other.Matrix
	b := &f.Matrix

	result := &ColorMatrix{Label: f.Name() + "+" + other.Name()}
	r := &result.Matrix
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += a[row*5+k] * b[k*5+col]
			}
			r[row*5+col] = sum
		}
		r[row*5+4] = a[row*5+0]*b[4] + a[row*5+1]*b[9] +
			a[row*5+2]*b[14] + a[row*5+3]*b[19] + a[row*5+4]
	}
	return result
}

func clampUint8(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}
