// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package render provides the render targets and device integration used by
// the composition engine.
//
// # Key Principle
//
// easel RECEIVES a GPU device from the host application, it does NOT create
// its own. A nil handle means there is no usable rendering context; use
// NullDeviceHandle for CPU-only rendering.
//
// # Core Types
//
//   - DeviceHandle: GPU device access from the host application
//   - RenderTarget: where rendering output goes
//   - PixmapTarget: CPU-backed RGBA target with bind state
//   - ShaderCache: lazily compiled WGSL shader modules
//   - ComputePipelines: HAL compute pipelines running compiled modules
//
// # Still Images
//
// Encode and DataURL turn a rendered frame into PNG, JPEG, BMP or TIFF.
// Decode accepts the same formats plus WebP.
//
// # Thread Safety
//
// Targets are NOT thread-safe. Use them from a single goroutine.
package render
