// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

var (
	// ErrNoPipeline is returned by Run for a program that was never added.
	ErrNoPipeline = errors.New("render: no compute pipeline")

	// ErrSizeMismatch is returned by Run when src and dst differ in size.
	ErrSizeMismatch = errors.New("render: image size mismatch")
)

// dispatchTimeout bounds the fence wait of a single Run.
const dispatchTimeout = 5 * time.Second

// HALProvider is implemented by device handles that expose the HAL device
// and queue behind them.
type HALProvider interface {
	HalDevice() any
	HalQueue() any
}

// HAL returns the HAL device and queue of h, if h exposes them.
func HAL(h DeviceHandle) (hal.Device, hal.Queue, bool) {
	hp, ok := h.(HALProvider)
	if !ok {
		return nil, nil, false
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, nil, false
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, nil, false
	}
	return device, queue, true
}

// ComputePipelines runs compiled compute programs over RGBA images.
//
// A program binds a uniform block at 0 and the pixels at 1, one RGBA8 texel
// per u32, and filters them in place from its cs_main entry point with 8x8
// workgroups. The device and queue are borrowed and never destroyed.
type ComputePipelines struct {
	device   hal.Device
	queue    hal.Queue
	programs map[string]*computeProgram
}

type computeProgram struct {
	module     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipeline   hal.ComputePipeline
}

// NewComputePipelines creates an empty pipeline set on device.
func NewComputePipelines(device hal.Device, queue hal.Queue) *ComputePipelines {
	return &ComputePipelines{
		device:   device,
		queue:    queue,
		programs: make(map[string]*computeProgram),
	}
}

// Add creates the pipeline of a program from its SPIR-V words. Adding a
// name twice keeps the first pipeline.
func (c *ComputePipelines) Add(name string, spirv []uint32) error {
	if _, ok := c.programs[name]; ok {
		return nil
	}
	p := &computeProgram{}
	if err := c.create(p, name, spirv); err != nil {
		c.destroy(p)
		return fmt.Errorf("render: pipeline %q: %w", name, err)
	}
	c.programs[name] = p
	return nil
}

func (c *ComputePipelines) create(p *computeProgram, name string, spirv []uint32) error {
	var err error
	p.module, err = c.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  name,
		Source: hal.ShaderSource{SPIRV: spirv},
	})
	if err != nil {
		return fmt.Errorf("create shader module: %w", err)
	}

	p.bindLayout, err = c.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: name + "_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{Binding: 0, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform}},
			{Binding: 1, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeStorage}},
		},
	})
	if err != nil {
		return fmt.Errorf("create bind group layout: %w", err)
	}

	p.pipeLayout, err = c.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            name + "_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{p.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("create pipeline layout: %w", err)
	}

	p.pipeline, err = c.device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
		Label:   name + "_pipeline",
		Layout:  p.pipeLayout,
		Compute: hal.ComputeState{Module: p.module, EntryPoint: "cs_main"},
	})
	if err != nil {
		return fmt.Errorf("create compute pipeline: %w", err)
	}
	return nil
}

// Has reports whether the named program has a pipeline.
func (c *ComputePipelines) Has(name string) bool {
	_, ok := c.programs[name]
	return ok
}

// Len returns the number of pipelines.
func (c *ComputePipelines) Len() int {
	return len(c.programs)
}

// Run filters src into dst with the named program. params is the uniform
// block and must be a multiple of 16 bytes long.
func (c *ComputePipelines) Run(name string, params []byte, dst, src *image.RGBA) error {
	p, ok := c.programs[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrNoPipeline, name)
	}
	if src == nil || dst == nil || src.Bounds().Size() != dst.Bounds().Size() {
		return ErrSizeMismatch
	}
	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	if w == 0 || h == 0 {
		return nil
	}

	pixels := packRows(src)
	size := uint64(len(pixels))
	paramSize := uint64(len(params))

	uniformBuf, err := c.device.CreateBuffer(&hal.BufferDescriptor{
		Label: name + "_params", Size: paramSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("render: create uniform buffer: %w", err)
	}
	defer c.device.DestroyBuffer(uniformBuf)

	storageBuf, err := c.device.CreateBuffer(&hal.BufferDescriptor{
		Label: name + "_pixels", Size: size,
		Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopySrc | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("render: create storage buffer: %w", err)
	}
	defer c.device.DestroyBuffer(storageBuf)

	stagingBuf, err := c.device.CreateBuffer(&hal.BufferDescriptor{
		Label: name + "_staging", Size: size,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("render: create staging buffer: %w", err)
	}
	defer c.device.DestroyBuffer(stagingBuf)

	c.queue.WriteBuffer(uniformBuf, 0, params)
	c.queue.WriteBuffer(storageBuf, 0, pixels)

	bg, err := c.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label: name + "_bind", Layout: p.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{Buffer: uniformBuf.NativeHandle(), Offset: 0, Size: paramSize}},
			{Binding: 1, Resource: gputypes.BufferBinding{Buffer: storageBuf.NativeHandle(), Offset: 0, Size: size}},
		},
	})
	if err != nil {
		return fmt.Errorf("render: create bind group: %w", err)
	}
	defer c.device.DestroyBindGroup(bg)

	encoder, err := c.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: name + "_encoder"})
	if err != nil {
		return fmt.Errorf("render: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding(name); err != nil {
		return fmt.Errorf("render: begin encoding: %w", err)
	}
	pass := encoder.BeginComputePass(&hal.ComputePassDescriptor{Label: name + "_pass"})
	pass.SetPipeline(p.pipeline)
	pass.SetBindGroup(0, bg, nil)
	pass.Dispatch(uint32(w+7)/8, uint32(h+7)/8, 1) //nolint:gosec // G115: image size fits uint32
	pass.End()
	encoder.CopyBufferToBuffer(storageBuf, stagingBuf, []hal.BufferCopy{
		{SrcOffset: 0, DstOffset: 0, Size: size},
	})
	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("render: end encoding: %w", err)
	}
	defer c.device.FreeCommandBuffer(cmdBuf)

	fence, err := c.device.CreateFence()
	if err != nil {
		return fmt.Errorf("render: create fence: %w", err)
	}
	defer c.device.DestroyFence(fence)
	if err := c.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("render: submit: %w", err)
	}
	done, err := c.device.Wait(fence, 1, dispatchTimeout)
	if err != nil || !done {
		return fmt.Errorf("render: wait for GPU: ok=%v err=%w", done, err)
	}

	readback := make([]byte, size)
	if err := c.queue.ReadBuffer(stagingBuf, 0, readback); err != nil {
		return fmt.Errorf("render: readback: %w", err)
	}
	unpackRows(dst, readback)
	return nil
}

// Destroy releases every pipeline.
func (c *ComputePipelines) Destroy() {
	for name, p := range c.programs {
		c.destroy(p)
		delete(c.programs, name)
	}
}

func (c *ComputePipelines) destroy(p *computeProgram) {
	if p.pipeline != nil {
		c.device.DestroyComputePipeline(p.pipeline)
	}
	if p.pipeLayout != nil {
		c.device.DestroyPipelineLayout(p.pipeLayout)
	}
	if p.bindLayout != nil {
		c.device.DestroyBindGroupLayout(p.bindLayout)
	}
	if p.module != nil {
		c.device.DestroyShaderModule(p.module)
	}
}

// packRows returns the pixels of img as tightly packed rows. On a
// little-endian u32 view each texel has red in the low byte.
func packRows(img *image.RGBA) []byte {
	b := img.Bounds()
	rowLen := b.Dx() * 4
	out := make([]byte, rowLen*b.Dy())
	for y := 0; y < b.Dy(); y++ {
		so := img.PixOffset(b.Min.X, b.Min.Y+y)
		copy(out[y*rowLen:(y+1)*rowLen], img.Pix[so:so+rowLen])
	}
	return out
}

func unpackRows(img *image.RGBA, data []byte) {
	b := img.Bounds()
	rowLen := b.Dx() * 4
	for y := 0; y < b.Dy(); y++ {
		do := img.PixOffset(b.Min.X, b.Min.Y+y)
		copy(img.Pix[do:do+rowLen], data[y*rowLen:(y+1)*rowLen])
	}
}
