// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package filter

import (
	_ "embed"
	"encoding/binary"
	"math"
)

//go:embed shaders/colormatrix.wgsl
var colorMatrixShader string

//go:embed shaders/noise.wgsl
var noiseShader string

// uniformHeader starts every uniform block: the image size, padded to 16
// bytes.
func uniformHeader(width, height, capacity int) []byte {
	b := make([]byte, 0, capacity)
	b = binary.LittleEndian.AppendUint32(b, uint32(width))  //nolint:gosec // G115: image size fits uint32
	b = binary.LittleEndian.AppendUint32(b, uint32(height)) //nolint:gosec // G115: image size fits uint32
	return append(b, make([]byte, 8)...)
}

func appendFloats(b []byte, v ...float32) []byte {
	for _, f := range v {
		b = binary.LittleEndian.AppendUint32(b, math.Float32bits(f))
	}
	return b
}
