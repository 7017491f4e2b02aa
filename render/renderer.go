// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/gogpu/darkroom/filter"
	"github.com/gogpu/darkroom/internal/kernel"
	"github.com/gogpu/darkroom/internal/parallel"
)

// Backend selects where accelerated filters run.
type Backend int

const (
	CPU Backend = iota
	GPU
)

// String returns "cpu" or "gpu".
func (b Backend) String() string {
	switch b {
	case CPU:
		return "cpu"
	case GPU:
		return "gpu"
	default:
		return fmt.Sprintf("Backend(%d)", int(b))
	}
}

// ParseBackend returns the backend named s, ignoring case.
func ParseBackend(s string) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cpu":
		return CPU, nil
	case "gpu":
		return GPU, nil
	default:
		return 0, fmt.Errorf("render: unknown backend %q", s)
	}
}

// Renderer applies filter arrays to images.
//
// Thread safety: a Renderer is NOT safe for concurrent use. Give each
// goroutine its own Renderer via Clone.
type Renderer struct {
	backend Backend
	device  Device

	pool     *parallel.WorkerPool
	ownsPool bool

	logger *slog.Logger
	opts   options
}

// New creates a renderer for backend.
//
// For GPU, a device is opened from the configured factory and every shader
// is compiled before New returns. Failure is returned as ErrNoDevice or a
// *GPUError; use NewWithFallback to fall back to the CPU instead.
func New(backend Backend, opts ...Option) (*Renderer, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	r := &Renderer{
		backend: backend,
		logger:  o.logger,
		opts:    o,
	}

	switch backend {
	case CPU:
	case GPU:
		dev, err := openDevice(o.factory)
		if err != nil {
			return nil, err
		}
		r.device = dev
		r.logger.Info("render: GPU device ready", "device", dev.Name())
	default:
		return nil, fmt.Errorf("%w: unknown backend %v", ErrRendering, backend)
	}

	if o.workers > 0 {
		r.pool = parallel.NewWorkerPool(o.workers)
		r.ownsPool = true
	} else {
		r.pool = parallel.Default()
	}
	return r, nil
}

// NewWithFallback is like New but returns a CPU renderer, after logging a
// warning, if the requested backend cannot be initialized.
func NewWithFallback(backend Backend, opts ...Option) *Renderer {
	r, err := New(backend, opts...)
	if err == nil {
		return r
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	o.logger.Warn("render: GPU not available, using CPU", "backend", backend, "error", err)

	// New(CPU) does not fail.
	r, _ = New(CPU, opts...)
	return r
}

func openDevice(f DeviceFactory) (Device, error) {
	if f == nil {
		f = RegisteredDeviceFactory()
	}
	if f == nil {
		return nil, ErrNoDevice
	}

	dev, err := f()
	if err != nil {
		if errors.Is(err, ErrNoDevice) {
			return nil, err
		}
		return nil, &GPUError{Op: "open device", Err: err}
	}
	if dev == nil {
		return nil, ErrNoDevice
	}

	if err := dev.CompileShaders(); err != nil {
		dev.Close()
		return nil, &GPUError{Op: "compile shaders", Err: err}
	}
	return dev, nil
}

// Backend returns the backend the renderer was created with.
func (r *Renderer) Backend() Backend { return r.backend }

// DeviceName returns the GPU device name, or "cpu".
func (r *Renderer) DeviceName() string {
	if r.device == nil {
		return "cpu"
	}
	return r.device.Name()
}

// Render returns img with every enabled filter of filters applied in
// canonical order. img is not modified.
func (r *Renderer) Render(img *image.NRGBA, filters filter.Array) (*image.NRGBA, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: nil image", ErrRendering)
	}
	if r.backend == GPU && r.device == nil {
		return nil, fmt.Errorf("%w: renderer is closed", ErrRendering)
	}

	out := img
	for _, f := range filters.Enabled() {
		start := time.Now()

		next, err := r.apply(out, f, filters)
		if err != nil {
			return nil, err
		}
		out = next

		r.logger.Debug("render: filter applied",
			"filter", f.Tag,
			"params", f.Params,
			"elapsed", time.Since(start))
	}

	if out == img {
		out = clone(img)
	}
	return out, nil
}

func (r *Renderer) apply(img *image.NRGBA, f filter.Filter, filters filter.Array) (*image.NRGBA, error) {
	params := f.Params
	if f.Tag == filter.WhiteBalance {
		baseTemp, baseTint := filters.WhiteBalanceBase()
		params = []float64{baseTemp, baseTint, f.Params[0], f.Params[1]}
	}

	if shader, ok := ShaderFor(f.Tag); ok && r.backend == GPU && !img.Rect.Empty() {
		return r.applyGPU(img, shader, params)
	}
	return r.applyCPU(img, f.Tag, params)
}

func (r *Renderer) applyGPU(img *image.NRGBA, shader Shader, params []float64) (*image.NRGBA, error) {
	if err := r.device.CreateTexture(img); err != nil {
		return nil, &GPUError{Op: "create texture", Err: err}
	}
	out, err := r.device.Render(shader, params)
	if err != nil {
		return nil, &GPUError{Op: "render " + shader.String(), Err: err}
	}
	if out == nil || out.Rect.Size() != img.Rect.Size() {
		return nil, &GPUError{Op: "render " + shader.String(), Err: errors.New("device returned an image of the wrong size")}
	}
	out.Rect = img.Rect
	return out, nil
}

func (r *Renderer) applyCPU(img *image.NRGBA, tag filter.Tag, p []float64) (*image.NRGBA, error) {
	switch tag {
	case filter.Exposition:
		return kernel.Exposure(r.pool, img, p[0]), nil
	case filter.Saturation:
		return kernel.Saturation(r.pool, img, p[0]), nil
	case filter.Contrast:
		return kernel.Contrast(r.pool, img, p[0]), nil
	case filter.WhiteBalance:
		return kernel.WhiteBalance(r.pool, img, p[0], p[1], p[2], p[3]), nil
	case filter.Sharpening:
		return kernel.Sharpen(img, p[0], toUint(p[1])), nil
	case filter.GaussianBlur:
		return kernel.GaussianBlur(r.pool, img, p[0], uint8(min(toUint(p[1]), 255))), nil
	case filter.BoxBlur:
		return kernel.BoxBlur(r.pool, img, toUint(p[0])), nil
	default:
		return nil, fmt.Errorf("%w: no kernel for %v", ErrRendering, tag)
	}
}

// toUint truncates a size parameter; negative and NaN values become 0 and
// values past MaxUint32 saturate.
func toUint(v float64) uint {
	if !(v > 0) {
		return 0
	}
	return uint(min(v, math.MaxUint32))
}

// Clone returns an independent renderer with the same backend and options.
// A GPU renderer opens a new device through Device.Clone and compiles the
// shaders on it.
func (r *Renderer) Clone() (*Renderer, error) {
	c := &Renderer{
		backend: r.backend,
		pool:    r.pool,
		logger:  r.logger,
		opts:    r.opts,
	}
	if r.backend != GPU {
		return c, nil
	}
	if r.device == nil {
		return nil, fmt.Errorf("%w: renderer is closed", ErrRendering)
	}

	dev, err := r.device.Clone()
	if err != nil {
		return nil, &GPUError{Op: "clone device", Err: err}
	}
	if err := dev.CompileShaders(); err != nil {
		dev.Close()
		return nil, &GPUError{Op: "compile shaders", Err: err}
	}
	c.device = dev
	return c, nil
}

// Close releases the device and any worker pool the renderer owns.
// Close is safe to call multiple times.
func (r *Renderer) Close() {
	if r.device != nil {
		r.device.Close()
		r.device = nil
	}
	if r.ownsPool {
		r.pool.Close()
		r.ownsPool = false
	}
}

func clone(src *image.NRGBA) *image.NRGBA {
	dst := image.NewNRGBA(src.Rect)
	w := src.Rect.Dx() * 4
	for y := range src.Rect.Dy() {
		copy(dst.Pix[y*dst.Stride:y*dst.Stride+w], src.Pix[y*src.Stride:y*src.Stride+w])
	}
	return dst
}
