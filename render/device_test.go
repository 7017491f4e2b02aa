// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"
	"image"
	"slices"
	"testing"

	"github.com/gogpu/darkroom/filter"
	"github.com/gogpu/darkroom/internal/kernel"
)

// fakeDevice runs the shaders with the CPU kernels and records calls.
type fakeDevice struct {
	name string

	texture  *image.NRGBA
	compiled int
	closed   bool
	rendered []Shader
	params   [][]float64

	compileErr error
	textureErr error
	renderErr  error
	cloneErr   error

	clones []*fakeDevice
}

func (d *fakeDevice) Name() string { return d.name }

func (d *fakeDevice) CompileShaders() error {
	if d.compileErr != nil {
		return d.compileErr
	}
	d.compiled++
	return nil
}

func (d *fakeDevice) CreateTexture(img *image.NRGBA) error {
	if d.textureErr != nil {
		return d.textureErr
	}
	d.texture = img
	return nil
}

func (d *fakeDevice) Render(s Shader, params []float64) (*image.NRGBA, error) {
	if d.renderErr != nil {
		return nil, d.renderErr
	}
	if d.compiled == 0 {
		return nil, errors.New("shaders not compiled")
	}
	d.rendered = append(d.rendered, s)
	d.params = append(d.params, slices.Clone(params))

	switch s {
	case ShaderSaturation:
		return kernel.Saturation(nil, d.texture, params[0]), nil
	case ShaderExposition:
		return kernel.Exposure(nil, d.texture, params[0]), nil
	case ShaderWhiteBalance:
		return kernel.WhiteBalance(nil, d.texture, params[0], params[1], params[2], params[3]), nil
	}
	return nil, errors.New("unknown shader")
}

func (d *fakeDevice) Clone() (Device, error) {
	if d.cloneErr != nil {
		return nil, d.cloneErr
	}
	c := &fakeDevice{name: d.name}
	d.clones = append(d.clones, c)
	return c, nil
}

func (d *fakeDevice) Close() { d.closed = true }

func factoryFor(d *fakeDevice) DeviceFactory {
	return func() (Device, error) { return d, nil }
}

func TestShaderFor(t *testing.T) {
	tests := []struct {
		tag  filter.Tag
		want Shader
		ok   bool
	}{
		{filter.Saturation, ShaderSaturation, true},
		{filter.Exposition, ShaderExposition, true},
		{filter.WhiteBalance, ShaderWhiteBalance, true},
		{filter.Contrast, 0, false},
		{filter.GaussianBlur, 0, false},
	}
	for _, tt := range tests {
		got, ok := ShaderFor(tt.tag)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ShaderFor(%v) = (%v, %v), want (%v, %v)", tt.tag, got, ok, tt.want, tt.ok)
		}
	}
}

func TestRegisterDeviceFactory(t *testing.T) {
	t.Cleanup(func() {
		factoryMu.Lock()
		factory = nil
		factoryMu.Unlock()
	})

	if err := RegisterDeviceFactory(nil); err == nil {
		t.Error("RegisterDeviceFactory(nil) error = nil, want error")
	}
	if RegisteredDeviceFactory() != nil {
		t.Fatal("RegisteredDeviceFactory() should be nil before registration")
	}

	dev := &fakeDevice{name: "registered"}
	if err := RegisterDeviceFactory(factoryFor(dev)); err != nil {
		t.Fatal(err)
	}

	r, err := New(GPU)
	if err != nil {
		t.Fatalf("New(GPU) error = %v", err)
	}
	defer r.Close()
	if r.DeviceName() != "registered" {
		t.Errorf("DeviceName() = %q, want registered", r.DeviceName())
	}
}

func TestGPUErrorUnwrap(t *testing.T) {
	cause := errors.New("device lost")
	var err error = &GPUError{Op: "render exposition", Err: cause}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(GPUError, cause) = false")
	}
	if got, want := err.Error(), "render: gpu render exposition: device lost"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
