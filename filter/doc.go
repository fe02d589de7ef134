// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package filter provides the post-process filters applied to single layers.
//
// A Filter reads one canvas-sized source image and writes a destination of
// the same size. Filters never see the composited scene.
//
// Available filters:
//   - Color matrix family: brightness, contrast, saturation, sepia, invert, tint
//   - Gaussian blur (bild)
//   - Additive noise (bild)
//
// Filters that implement ShaderSource also carry a WGSL compute program,
// which the scene engine compiles once per device and runs instead of Apply
// when a GPU is present.
package filter

import "image"

// Filter transforms a source image into a destination image of the same
// size. Both images hold premultiplied RGBA.
type Filter interface {
	// Name identifies the filter in diagnostics.
	Name() string

	// Apply writes the filtered src into dst. Pixels outside the
	// intersection of both bounds are left untouched.
	Apply(dst, src *image.RGBA)
}

// ShaderSource is implemented by filters that have a WGSL program.
//
// The program has a cs_main entry point with 8x8 workgroups. It binds its
// uniform block at 0 and the pixels at 1, one premultiplied RGBA8 texel
// per u32 with red in the low byte, filtered in place.
type ShaderSource interface {
	// Shader returns the WGSL source of the compute program.
	Shader() string

	// Params returns the uniform block for an image of the given size.
	// Its length is a multiple of 16.
	Params(width, height int) []byte
}
