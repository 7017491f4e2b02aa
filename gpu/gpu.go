//go:build !nogpu

// Package gpu registers the wgpu device factory used by GPU renderers.
//
// Import this package to enable hardware-accelerated exposure, saturation
// and white balance:
//
//	import _ "github.com/gogpu/darkroom/gpu"
//
//	r := render.NewWithFallback(render.GPU)
//
// The device is opened when a GPU renderer is created. If no Vulkan adapter
// is available, render.New(render.GPU) fails and render.NewWithFallback
// returns a CPU renderer.
package gpu

import (
	"errors"
	"log/slog"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/wgpu/hal"

	gpuimpl "github.com/gogpu/darkroom/internal/gpu"
	"github.com/gogpu/darkroom/render"
)

func init() {
	// Cannot fail: the factory is not nil.
	_ = render.RegisterDeviceFactory(gpuimpl.OpenDevice)
}

// ErrNoHal is returned when a device provider does not expose HAL handles.
var ErrNoHal = errors.New("gpu: provider does not expose HAL types")

// ProviderFactory returns a device factory that borrows the GPU device of
// an external provider (e.g., gogpu) instead of opening its own. The
// provider must also implement HalDevice() any and HalQueue() any returning
// hal.Device and hal.Queue.
//
// Devices from this factory cannot be cloned, so Renderer.Clone fails on
// them.
//
//	r, err := render.New(render.GPU, render.WithDeviceFactory(gpu.ProviderFactory(app.GPUContextProvider())))
func ProviderFactory(provider gpucontext.DeviceProvider) render.DeviceFactory {
	return func() (render.Device, error) {
		type halProvider interface {
			HalDevice() any
			HalQueue() any
		}
		hp, ok := provider.(halProvider)
		if !ok {
			return nil, ErrNoHal
		}
		device, ok := hp.HalDevice().(hal.Device)
		if !ok || device == nil {
			return nil, errors.New("gpu: provider HalDevice is not hal.Device")
		}
		queue, ok := hp.HalQueue().(hal.Queue)
		if !ok || queue == nil {
			return nil, errors.New("gpu: provider HalQueue is not hal.Queue")
		}
		return gpuimpl.Shared(device, queue, "shared"), nil
	}
}

// SetLogger sets the logger for device diagnostics. Nil disables logging.
func SetLogger(l *slog.Logger) {
	gpuimpl.SetLogger(l)
}
