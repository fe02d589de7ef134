// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package easel is the rendering and selection core of a raster image editor.
//
// # Overview
//
// easel composites an ordered stack of layers through offscreen render targets,
// rasterizes freehand strokes incrementally, grows pixel-accurate selections and
// animates their borders. Drawing is done with gg; this package holds the shared
// geometry primitives and the logger used by all sub-packages.
//
// # Architecture
//
//	pointer input ─▶ stroke.Rasterizer ─▶ layer.Layer ─▶ compose.Engine ─▶ overlay.Engine
//	                                            ▲
//	          image snapshot ─▶ selection.Selector (mask) ──┘
//
// Sub-packages:
//   - compose: Scene Composition Engine (draw/display orders, filter pipeline)
//   - stroke: Stroke Rasterizer (point chains, dashes, brushes, marquee)
//   - selection: Region Selection Engine (flood fill, mask algebra, borders)
//   - overlay: transform handles and marching ants
//   - layer, render, filter, frame: supporting infrastructure
//
// # Coordinate System
//
// Canvas pixel space: origin at top-left, X grows right, Y grows down.
// Angles are in radians.
//
// # Thread Safety
//
// Engines are meant to be driven from a single interaction goroutine.
// Only the marching-ants ticker runs elsewhere; the overlay engine guards the
// state it shares with it.
package easel
