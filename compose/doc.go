// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package compose implements the scene composition engine.
//
// An Engine owns a set of layers in two orderings over one arena:
//
//   - display order is the stacking the user sees; a higher index is
//     drawn on top
//   - draw order groups layers by bucket so that pipeline state changes
//     once per bucket rather than once per layer
//
// Rendering walks the draw order, drawing every layer into its own buffer,
// then blends the buffers bottom first in display order, so the visible
// stacking does not depend on the order in which layers were drawn.
//
// Besides the presented screen target the engine keeps two offscreen
// targets, A and B. Filters render a single layer into a transparent A,
// process it into B and write the result back into the layer. When the
// device handle exposes its HAL device, filters with a WGSL program run as
// compute pipelines and fall back to the CPU on failure. RenderToImage uses A as
// well. Every operation binds the target it draws into and unbinds it
// before returning.
//
// # Basic Usage
//
//	e, err := compose.New(render.NullDeviceHandle{}, 800, 600)
//	if err != nil {
//	    return err
//	}
//	defer e.Destroy()
//
//	e.AddLayer(layer.NewImageLayer(photo))
//	e.FilterLayers([]int{0}, filter.NewSepia())
//	png, err := e.RenderToImage(render.FormatPNG)
//
// An Engine is not safe for concurrent use.
package compose
