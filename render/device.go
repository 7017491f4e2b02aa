// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/gogpu/darkroom/filter"
)

// Shader identifies a compiled GPU program.
type Shader int

const (
	ShaderSaturation Shader = iota
	ShaderExposition
	ShaderWhiteBalance
)

// String returns the shader name.
func (s Shader) String() string {
	switch s {
	case ShaderSaturation:
		return "saturation"
	case ShaderExposition:
		return "exposition"
	case ShaderWhiteBalance:
		return "whitebalance"
	default:
		return fmt.Sprintf("Shader(%d)", int(s))
	}
}

// ShaderFor returns the shader implementing tag, if the GPU accelerates it.
func ShaderFor(tag filter.Tag) (Shader, bool) {
	switch tag {
	case filter.Saturation:
		return ShaderSaturation, true
	case filter.Exposition:
		return ShaderExposition, true
	case filter.WhiteBalance:
		return ShaderWhiteBalance, true
	default:
		return 0, false
	}
}

// Device is a GPU context able to run the filter shaders.
//
// Parameters passed to Render by shader:
//
//	ShaderSaturation    [amount]
//	ShaderExposition    [ev]
//	ShaderWhiteBalance  [fromTemp, fromTint, toTemp, toTint]
//
// A Device is not safe for concurrent use.
type Device interface {
	// Name returns the adapter name.
	Name() string

	// CompileShaders builds every Shader. It must succeed before Render.
	CompileShaders() error

	// CreateTexture uploads img as the input of the next Render.
	CreateTexture(img *image.NRGBA) error

	// Render runs shader over the uploaded texture and reads the result back.
	Render(shader Shader, params []float64) (*image.NRGBA, error)

	// Clone opens an independent device on the same adapter. Shaders are not
	// copied; the caller compiles them on the clone.
	Clone() (Device, error)

	// Close releases the device. It is safe to call more than once.
	Close()
}

// DeviceFactory opens a new Device.
type DeviceFactory func() (Device, error)

var (
	factoryMu sync.RWMutex
	factory   DeviceFactory
)

// RegisterDeviceFactory sets the factory GPU renderers use when no
// WithDeviceFactory option is given.
//
// Only one factory can be registered. Subsequent calls replace the previous
// one. Typical usage via blank import in GPU backend packages:
//
//	func init() {
//	    render.RegisterDeviceFactory(Open)
//	}
func RegisterDeviceFactory(f DeviceFactory) error {
	if f == nil {
		return errors.New("render: device factory must not be nil")
	}
	factoryMu.Lock()
	factory = f
	factoryMu.Unlock()
	return nil
}

// RegisteredDeviceFactory returns the registered factory, or nil if none.
func RegisteredDeviceFactory() DeviceFactory {
	factoryMu.RLock()
	defer factoryMu.RUnlock()
	return factory
}
