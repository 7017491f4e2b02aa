// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package render applies a filter.Array to an image on the CPU or a GPU.
//
// # Backends
//
// A Renderer is created for one Backend and keeps it for its lifetime:
//
//   - CPU: every filter runs as a CPU kernel.
//   - GPU: saturation, exposition and white balance run as compute shaders
//     on a Device; the other filters still run on the CPU.
//
// A GPU Renderer owns its Device exclusively. Devices are not shared
// between Renderers; Clone creates a second device and compiles the shaders
// again.
//
// # Devices
//
// Devices come from a DeviceFactory. GPU backend packages register one via
// blank import:
//
//	import _ "github.com/gogpu/darkroom/gpu" // enables the wgpu device
//
// Without a registered factory, New(GPU) fails with ErrNoDevice and
// NewWithFallback returns a CPU renderer instead.
//
// # Rendering
//
// Render walks filters in canonical tag order and skips disabled ones. The
// output of each filter is the input of the next. Any device failure aborts
// the call with a *GPUError; there is no silent fallback to the CPU once a
// GPU render has started. The input image is never modified.
//
// # Usage
//
//	r := render.NewWithFallback(render.GPU)
//	defer r.Close()
//
//	filters := filter.Baseline()
//	_ = filters.Update(filter.Exposition, []float64{0.5})
//
//	out, err := r.Render(img, filters)
package render
