// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// DeviceHandle provides GPU device access from the host application.
//
// DeviceHandle is an alias for gpucontext.DeviceProvider so any gogpu host
// can be passed in directly.
type DeviceHandle = gpucontext.DeviceProvider

// TextureView represents a view into a GPU texture.
type TextureView interface {
	// Destroy releases resources associated with this view.
	Destroy()
}

// DeviceCapabilities describes the optional features of a device.
type DeviceCapabilities struct {
	// SupportsStencil reports a stencil buffer. Without it selection
	// masking still works but may underperform.
	SupportsStencil bool

	// SupportsShaders reports that filter shaders can be compiled for the device.
	SupportsShaders bool

	// MaxTextureSize is the maximum texture dimension (0 = unlimited).
	MaxTextureSize int
}

// CapabilityReporter is an optional interface for handles that can report
// their capabilities.
type CapabilityReporter interface {
	Capabilities() DeviceCapabilities
}

// Capabilities returns the capabilities of h. Handles that do not implement
// CapabilityReporter are assumed to have a stencil buffer, and to support
// shaders when they expose a device.
func Capabilities(h DeviceHandle) DeviceCapabilities {
	if r, ok := h.(CapabilityReporter); ok {
		return r.Capabilities()
	}
	return DeviceCapabilities{
		SupportsStencil: true,
		SupportsShaders: h.Device() != nil,
	}
}

// NullDeviceHandle is a DeviceHandle without a GPU.
// Used for CPU-only rendering.
type NullDeviceHandle struct{}

// Device returns nil for the null device.
func (NullDeviceHandle) Device() gpucontext.Device { return nil }

// Queue returns nil for the null device.
func (NullDeviceHandle) Queue() gpucontext.Queue { return nil }

// Adapter returns nil for the null device.
func (NullDeviceHandle) Adapter() gpucontext.Adapter { return nil }

// SurfaceFormat returns undefined format for the null device.
func (NullDeviceHandle) SurfaceFormat() gputypes.TextureFormat {
	return gputypes.TextureFormatUndefined
}

// Capabilities reports the CPU pipeline: stencil emulated, no shaders.
func (NullDeviceHandle) Capabilities() DeviceCapabilities {
	return DeviceCapabilities{SupportsStencil: true}
}

var (
	_ DeviceHandle       = NullDeviceHandle{}
	_ CapabilityReporter = NullDeviceHandle{}
)
