//go:build !nogpu

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package gpu implements render.Device on wgpu/hal compute shaders.
//
// Each accelerated filter is a WGSL compute shader compiled to SPIR-V with
// naga. Pixels travel as one packed u32 per pixel (R in the low byte) in a
// storage buffer that the shader rewrites in place; the result is copied to
// a staging buffer and read back after a fence wait.
//
//	CreateTexture -> storage buffer
//	Render        -> uniform params + dispatch (8x8 workgroups) -> readback
//
// The Vulkan backend is used. When no adapter is present Open fails and the
// render package falls back to the CPU kernels.
package gpu
