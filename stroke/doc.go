// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package stroke turns pointer paths into pixels.
//
// A Rasterizer owns a persistent surface. Every draw call clears a scratch
// Canvas, rasterizes the part of the path not drawn yet and composites the
// scratch over the surface. The path cursor records the last rasterized
// point, so a growing path is never repainted.
//
// Draw modes:
//   - ModeNormal: one polyline from the cursor
//   - ModeDashed: black and white ticks with the dash phase carried across calls
//   - ModeLine: straight line preview, restored from the saved surface each time
//   - ModeRectangle: dashed marquee box from the first and last point
//   - ModeBrush: one of the brush kinds (pen, neighbor, fur, multi-stroke, stamp)
//
// Style is an immutable value; every With method returns a new Style. Brush
// images are loaded first and committed to a style afterwards, so loading
// never mutates the style in use.
package stroke
