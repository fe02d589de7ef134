// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package filter

import (
	"encoding/binary"
	"image"
	"image/color"
	"math"
	"strings"
	"testing"
)

func fill(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func apply(f Filter, src *image.RGBA) *image.RGBA {
	dst := image.NewRGBA(src.Bounds())
	f.Apply(dst, src)
	return dst
}

func TestColorMatrixFilters(t *testing.T) {
	tests := []struct {
		name   string
		filter *ColorMatrix
		in     color.RGBA
		want   color.RGBA
	}{
		{"identity", NewIdentity(), color.RGBA{10, 20, 30, 255}, color.RGBA{10, 20, 30, 255}},
		{"brightness", NewBrightness(2), color.RGBA{10, 20, 200, 255}, color.RGBA{20, 40, 255, 255}},
		{"brightness zero", NewBrightness(0), color.RGBA{10, 20, 30, 255}, color.RGBA{0, 0, 0, 255}},
		{"invert", NewInvert(), color.RGBA{0, 255, 55, 255}, color.RGBA{255, 0, 200, 255}},
		{"invert keeps transparent", NewInvert(), color.RGBA{}, color.RGBA{}},
		{"grayscale", NewSaturation(0), color.RGBA{100, 100, 100, 255}, color.RGBA{100, 100, 100, 255}},
		{"tint full", NewTint(color.RGBA{0, 0, 255, 255}, 1), color.RGBA{255, 0, 0, 255}, color.RGBA{0, 0, 255, 255}},
		{"half alpha invert", NewInvert(), color.RGBA{0, 0, 0, 128}, color.RGBA{128, 128, 128, 128}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := apply(tt.filter, fill(2, 2, tt.in)).RGBAAt(1, 1)
			if got != tt.want {
				t.Errorf("Apply() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestContrastClamp(t *testing.T) {
	tests := []struct {
		in, want float32
	}{
		{0, MinContrast},
		{1, 1},
		{10, MaxContrast},
	}
	for _, tt := range tests {
		if got := NewContrast(tt.in).Matrix[0]; got != tt.want {
			t.Errorf("NewContrast(%v) factor = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestColorMatrixThen(t *testing.T) {
	f := NewInvert().Then(NewInvert())
	src := fill(1, 1, color.RGBA{12, 34, 56, 255})
	if got := apply(f, src).RGBAAt(0, 0); got != src.RGBAAt(0, 0) {
		t.Errorf("invert twice = %v, want %v", got, src.RGBAAt(0, 0))
	}
	if !strings.Contains(f.Name(), "invert") {
		t.Errorf("Name() = %q", f.Name())
	}
}

func TestBlur(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 9, 9))
	src.SetRGBA(4, 4, color.RGBA{255, 255, 255, 255})

	got := apply(NewBlur(2), src)
	center := got.RGBAAt(4, 4)
	side := got.RGBAAt(5, 4)
	if center.A == 0 || center.A == 255 {
		t.Errorf("center alpha = %d, want spread", center.A)
	}
	if side.A == 0 {
		t.Error("neighbor should receive blurred coverage")
	}

	copied := apply(NewBlur(0), src)
	if copied.RGBAAt(4, 4) != src.RGBAAt(4, 4) {
		t.Error("zero radius should copy")
	}
}

func TestNoise(t *testing.T) {
	src := fill(4, 4, color.RGBA{100, 100, 100, 255})

	t.Run("constant sample", func(t *testing.T) {
		n := &Noise{Amount: 1, Source: func() uint8 { return 148 }}
		got := apply(n, src).RGBAAt(2, 2)
		if got != (color.RGBA{120, 120, 120, 255}) {
			t.Errorf("Apply() = %v, want {120 120 120 255}", got)
		}
	})

	t.Run("zero amount", func(t *testing.T) {
		got := apply(NewNoise(0), src).RGBAAt(0, 0)
		if got != src.RGBAAt(0, 0) {
			t.Errorf("Apply() = %v, want unchanged", got)
		}
	})

	t.Run("transparent stays transparent", func(t *testing.T) {
		n := &Noise{Amount: 1, Source: func() uint8 { return 255 }}
		got := apply(n, fill(2, 2, color.RGBA{})).RGBAAt(0, 0)
		if got != (color.RGBA{}) {
			t.Errorf("Apply() = %v, want transparent", got)
		}
	})
}

func TestShaderSources(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{"colormatrix", NewSepia().Shader()},
		{"noise", NewNoise(1).Shader()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, req := range []string{"@compute", "cs_main", "@workgroup_size(8, 8, 1)", "var<uniform> params", "var<storage, read_write> pixels"} {
				if !strings.Contains(tt.source, req) {
					t.Errorf("%s shader missing required element: %q", tt.name, req)
				}
			}
		})
	}
	var _ ShaderSource = (*ColorMatrix)(nil)
	var _ ShaderSource = (*Noise)(nil)
}

func TestShaderParams(t *testing.T) {
	u32 := func(b []byte, i int) uint32 { return binary.LittleEndian.Uint32(b[i*4:]) }
	f32 := func(b []byte, i int) float32 { return math.Float32frombits(u32(b, i)) }

	t.Run("colormatrix", func(t *testing.T) {
		m := &ColorMatrix{}
		for i := range m.Matrix {
			m.Matrix[i] = float32(i)
		}
		m.Matrix[4], m.Matrix[19] = 255, 51
		b := m.Params(640, 480)
		if len(b) != 96 {
			t.Fatalf("len(Params()) = %d, want 96", len(b))
		}
		if u32(b, 0) != 640 || u32(b, 1) != 480 {
			t.Errorf("size = %dx%d, want 640x480", u32(b, 0), u32(b, 1))
		}
		// Row 1 is Matrix[5:9]; the fifth column moves to the offset vector.
		if got := [4]float32{f32(b, 8), f32(b, 9), f32(b, 10), f32(b, 11)}; got != [4]float32{5, 6, 7, 8} {
			t.Errorf("row 1 = %v, want [5 6 7 8]", got)
		}
		if f32(b, 20) != 1 || f32(b, 23) != 0.2 {
			t.Errorf("offset = %v, %v, want 1, 0.2", f32(b, 20), f32(b, 23))
		}
	})

	t.Run("noise", func(t *testing.T) {
		n := NewNoise(0.5)
		n.Seed = 3
		b := n.Params(8, 4)
		if len(b) != 32 {
			t.Fatalf("len(Params()) = %d, want 32", len(b))
		}
		if u32(b, 0) != 8 || u32(b, 1) != 4 || f32(b, 4) != 0.5 || f32(b, 5) != 3 {
			t.Errorf("Params() = %v", b)
		}
	})
}
