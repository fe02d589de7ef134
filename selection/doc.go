// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package selection implements pixel-accurate region selection.
//
// A Selector owns a stack of bitmaps for one selection session. Index 0 is
// the union, every further entry is a part added by one Grow or AddRect
// call. The union is always the logical OR of the remaining parts, so
// removing one part keeps pixels that another part still covers.
//
// Grow is a scanline flood fill driven by an explicit stack of runs, so its
// memory is bounded by the frontier and not by the image area. Border and
// MarchingAnts derive the animated outline from the union.
package selection
