// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package layer defines the transformable visual unit composited by the
// scene engine.
//
// A Layer is a closed variant: an image layer carries RGBA pixels, a mask
// layer carries coverage plus a tint color. The Kind tag doubles as the draw
// bucket, so grouping layers for rendering is a pure data operation.
//
// Every layer has a stable UUID, a center position in canvas pixels, a
// rotation in radians, per-axis scale and flip flags. Transform combines
// them into a gg.Matrix mapping layer pixels to canvas pixels.
package layer
