//go:build !nogpu

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"errors"
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"

	"github.com/gogpu/darkroom/internal/color"
	"github.com/gogpu/darkroom/render"
)

// fenceTimeout bounds the wait for one filter dispatch.
const fenceTimeout = 5 * time.Second

var (
	// ErrNoAdapter is returned by Open when no GPU adapter is found.
	ErrNoAdapter = errors.New("gpu: no GPU adapters found")

	// ErrSharedClone is returned when cloning a device borrowed from a
	// provider; the provider owns the only handle.
	ErrSharedClone = errors.New("gpu: shared device cannot be cloned")

	// ErrTimeout is returned when a dispatch does not finish within the
	// fence timeout.
	ErrTimeout = errors.New("gpu: timed out waiting for the device")

	errClosed      = errors.New("gpu: device closed")
	errNoTexture   = errors.New("gpu: no texture uploaded")
	errNotCompiled = errors.New("gpu: shaders not compiled")
)

// Device runs the filter shaders on a wgpu/hal device.
// It implements render.Device.
type Device struct {
	mu sync.Mutex

	instance hal.Instance
	device   hal.Device
	queue    hal.Queue
	name     string
	external bool // borrowed from a provider; not destroyed on Close

	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipelines  map[render.Shader]pipeline

	// Uploaded texture. packed is kept on the host because every dispatch
	// rewrites the storage buffer in place.
	width, height uint32
	packed        []byte
	storage       hal.Buffer
	staging       hal.Buffer
}

var _ render.Device = (*Device)(nil)

// Open creates a Vulkan instance and opens the first discrete or
// integrated adapter, falling back to the first adapter found.
func Open() (*Device, error) {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return nil, errors.New("gpu: vulkan backend not available")
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("gpu: create instance: %w", err)
	}

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, ErrNoAdapter
	}
	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}

	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("gpu: open device: %w", err)
	}

	slogger().Info("gpu device opened", "adapter", selected.Info.Name)
	return &Device{
		instance: instance,
		device:   openDev.Device,
		queue:    openDev.Queue,
		name:     selected.Info.Name,
	}, nil
}

// OpenDevice opens a device as a render.DeviceFactory.
func OpenDevice() (render.Device, error) {
	d, err := Open()
	if err != nil {
		return nil, err
	}
	return d, nil
}

// Shared wraps a device and queue owned by someone else. Close releases
// only the resources created by the returned Device.
func Shared(device hal.Device, queue hal.Queue, name string) *Device {
	return &Device{device: device, queue: queue, name: name, external: true}
}

// Name returns the adapter name.
func (d *Device) Name() string { return d.name }

// CompileShaders compiles every filter program and builds its pipeline.
// Previously compiled pipelines are replaced.
func (d *Device) CompileShaders() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.device == nil {
		return errClosed
	}

	d.destroyPipelines()
	if err := d.createLayouts(); err != nil {
		d.destroyPipelines()
		return err
	}

	d.pipelines = make(map[render.Shader]pipeline, len(shaders))
	for _, s := range shaders {
		p, err := d.createPipeline(s)
		if err != nil {
			d.destroyPipelines()
			return err
		}
		d.pipelines[s] = p
	}
	slogger().Debug("gpu shaders compiled", "count", len(d.pipelines))
	return nil
}

func (d *Device) createLayouts() error {
	bindLayout, err := d.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "filter_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{Binding: 0, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform}},
			{Binding: 1, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeStorage}},
		},
	})
	if err != nil {
		return fmt.Errorf("create bind group layout: %w", err)
	}
	d.bindLayout = bindLayout

	pipeLayout, err := d.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label: "filter_pipe_layout", BindGroupLayouts: []hal.BindGroupLayout{d.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("create pipeline layout: %w", err)
	}
	d.pipeLayout = pipeLayout
	return nil
}

func (d *Device) createPipeline(s render.Shader) (pipeline, error) {
	code, err := compileSPIRV(s)
	if err != nil {
		return pipeline{}, err
	}
	module, err := d.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  s.String(),
		Source: hal.ShaderSource{SPIRV: code},
	})
	if err != nil {
		return pipeline{}, fmt.Errorf("create %v shader module: %w", s, err)
	}
	compute, err := d.device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
		Label: s.String() + "_pipeline", Layout: d.pipeLayout,
		Compute: hal.ComputeState{Module: module, EntryPoint: "main"},
	})
	if err != nil {
		d.device.DestroyShaderModule(module)
		return pipeline{}, fmt.Errorf("create %v compute pipeline: %w", s, err)
	}
	return pipeline{module: module, compute: compute}, nil
}

func (d *Device) destroyPipelines() {
	if d.device == nil {
		return
	}
	for _, p := range d.pipelines {
		d.device.DestroyComputePipeline(p.compute)
		d.device.DestroyShaderModule(p.module)
	}
	d.pipelines = nil
	if d.pipeLayout != nil {
		d.device.DestroyPipelineLayout(d.pipeLayout)
		d.pipeLayout = nil
	}
	if d.bindLayout != nil {
		d.device.DestroyBindGroupLayout(d.bindLayout)
		d.bindLayout = nil
	}
}

// CreateTexture uploads img as the input of the next Render. Buffers are
// reused while the size does not change.
func (d *Device) CreateTexture(img *image.NRGBA) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.device == nil {
		return errClosed
	}

	w, h := uint32(img.Rect.Dx()), uint32(img.Rect.Dy()) //nolint:gosec // dimensions always fit uint32
	if w == 0 || h == 0 {
		return fmt.Errorf("gpu: empty texture %dx%d", w, h)
	}
	if w != d.width || h != d.height || d.storage == nil {
		d.destroyTexture()
		size := uint64(w) * uint64(h) * 4

		storage, err := d.device.CreateBuffer(&hal.BufferDescriptor{
			Label: "filter_pixels", Size: size,
			Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopySrc | gputypes.BufferUsageCopyDst,
		})
		if err != nil {
			return fmt.Errorf("create storage buffer: %w", err)
		}
		staging, err := d.device.CreateBuffer(&hal.BufferDescriptor{
			Label: "filter_staging", Size: size,
			Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
		})
		if err != nil {
			d.device.DestroyBuffer(storage)
			return fmt.Errorf("create staging buffer: %w", err)
		}
		d.storage, d.staging = storage, staging
		d.width, d.height = w, h
	}
	d.packed = packPixels(img)
	return nil
}

func (d *Device) destroyTexture() {
	if d.device == nil {
		return
	}
	if d.storage != nil {
		d.device.DestroyBuffer(d.storage)
		d.storage = nil
	}
	if d.staging != nil {
		d.device.DestroyBuffer(d.staging)
		d.staging = nil
	}
	d.width, d.height = 0, 0
	d.packed = nil
}

// shaderValues maps renderer parameters to the Params.values uniform.
func shaderValues(s render.Shader, params []float64) ([4]float32, error) {
	var v [4]float32
	switch s {
	case render.ShaderExposition, render.ShaderSaturation:
		if len(params) != 1 {
			return v, fmt.Errorf("gpu: %v takes 1 parameter, got %d", s, len(params))
		}
		v[0] = float32(params[0])
	case render.ShaderWhiteBalance:
		if len(params) != 4 {
			return v, fmt.Errorf("gpu: %v takes 4 parameters, got %d", s, len(params))
		}
		r, g, b := color.WhiteBalanceGains(params[0], params[1], params[2], params[3])
		v[0], v[1], v[2] = float32(r), float32(g), float32(b)
	default:
		return v, fmt.Errorf("gpu: no shader for %v", s)
	}
	return v, nil
}

// Render runs shader over the uploaded texture and reads the result back.
func (d *Device) Render(shader render.Shader, params []float64) (*image.NRGBA, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.device == nil {
		return nil, errClosed
	}
	if d.storage == nil {
		return nil, errNoTexture
	}
	p, ok := d.pipelines[shader]
	if !ok {
		return nil, errNotCompiled
	}
	values, err := shaderValues(shader, params)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	readback, err := d.dispatch(p, values)
	if err != nil {
		return nil, err
	}
	slogger().Debug("gpu dispatch", "shader", shader, "width", d.width, "height", d.height, "elapsed", time.Since(start))
	return unpackPixels(readback, int(d.width), int(d.height)), nil
}

func (d *Device) dispatch(p pipeline, values [4]float32) ([]byte, error) {
	pixelBufSize := uint64(len(d.packed))
	d.queue.WriteBuffer(d.storage, 0, d.packed)

	uniform, err := d.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "filter_params", Size: paramsSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create uniform buffer: %w", err)
	}
	defer d.device.DestroyBuffer(uniform)
	d.queue.WriteBuffer(uniform, 0, encodeParams(d.width, d.height, values))

	bg, err := d.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label: "filter_bind", Layout: d.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{Buffer: uniform.NativeHandle(), Offset: 0, Size: paramsSize}},
			{Binding: 1, Resource: gputypes.BufferBinding{Buffer: d.storage.NativeHandle(), Offset: 0, Size: pixelBufSize}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create bind group: %w", err)
	}
	defer d.device.DestroyBindGroup(bg)

	encoder, err := d.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "filter_encoder"})
	if err != nil {
		return nil, fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("filter"); err != nil {
		return nil, fmt.Errorf("begin encoding: %w", err)
	}
	pass := encoder.BeginComputePass(&hal.ComputePassDescriptor{Label: "filter_pass"})
	pass.SetPipeline(p.compute)
	pass.SetBindGroup(0, bg, nil)
	pass.Dispatch((d.width+7)/8, (d.height+7)/8, 1)
	pass.End()
	encoder.CopyBufferToBuffer(d.storage, d.staging, []hal.BufferCopy{
		{SrcOffset: 0, DstOffset: 0, Size: pixelBufSize},
	})
	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return nil, fmt.Errorf("end encoding: %w", err)
	}
	defer d.device.FreeCommandBuffer(cmdBuf)

	fence, err := d.device.CreateFence()
	if err != nil {
		return nil, fmt.Errorf("create fence: %w", err)
	}
	defer d.device.DestroyFence(fence)
	if err := d.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return nil, fmt.Errorf("submit: %w", err)
	}
	if err := waitError(d.device.Wait(fence, 1, fenceTimeout)); err != nil {
		return nil, err
	}

	readback := make([]byte, pixelBufSize)
	if err := d.queue.ReadBuffer(d.staging, 0, readback); err != nil {
		return nil, fmt.Errorf("readback: %w", err)
	}
	return readback, nil
}

// waitError converts the result of a fence wait into an error.
func waitError(signaled bool, err error) error {
	switch {
	case err != nil:
		return fmt.Errorf("wait for GPU: %w", err)
	case !signaled:
		return fmt.Errorf("%w after %v", ErrTimeout, fenceTimeout)
	}
	return nil
}

// Clone opens an independent device on a new instance. Shaders must be
// compiled on the clone.
func (d *Device) Clone() (render.Device, error) {
	d.mu.Lock()
	external := d.external
	d.mu.Unlock()
	if external {
		return nil, ErrSharedClone
	}
	return OpenDevice()
}

// Close releases pipelines, buffers and, unless shared, the device itself.
func (d *Device) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.destroyTexture()
	d.destroyPipelines()
	if !d.external {
		if d.device != nil {
			d.device.Destroy()
		}
		if d.instance != nil {
			d.instance.Destroy()
		}
	}
	d.device = nil
	d.instance = nil
	d.queue = nil
}
