//go:build !nogpu

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"fmt"

	"github.com/gogpu/darkroom/render"
)

// shaderPrelude declares the bindings shared by every filter shader and
// the u32 pixel codec. Channels are handled in [0,255].
const shaderPrelude = `
struct Params {
    width: u32,
    height: u32,
    _pad0: u32,
    _pad1: u32,
    values: vec4<f32>,
}

@group(0) @binding(0) var<uniform> params: Params;
@group(0) @binding(1) var<storage, read_write> pixels: array<u32>;

fn unpack(v: u32) -> vec4<f32> {
    return vec4<f32>(
        f32(v & 0xffu),
        f32((v >> 8u) & 0xffu),
        f32((v >> 16u) & 0xffu),
        f32((v >> 24u) & 0xffu),
    );
}

fn pack(c: vec4<f32>) -> u32 {
    let q = vec4<u32>(clamp(floor(c + vec4<f32>(0.5)), vec4<f32>(0.0), vec4<f32>(255.0)));
    return q.x | (q.y << 8u) | (q.z << 16u) | (q.w << 24u);
}
`

// shaderMain runs apply on every pixel inside the image. Alpha is kept.
const shaderMain = `
@compute @workgroup_size(8, 8)
fn main(@builtin(global_invocation_id) id: vec3<u32>) {
    if (id.x >= params.width || id.y >= params.height) {
        return;
    }
    let i = id.y * params.width + id.x;
    let c = unpack(pixels[i]);
    pixels[i] = pack(vec4<f32>(apply(c.rgb), c.a));
}
`

// exposureShader: values.x = ev, clamped to [-2,2].
const exposureShader = `
fn apply(rgb: vec3<f32>) -> vec3<f32> {
    return rgb * exp2(clamp(params.values.x, -2.0, 2.0));
}
`

// saturationShader: values.x = amount, clamped to [-0.5,0.5], added to the
// HSL saturation. Grays are returned unchanged.
const saturationShader = `
fn hue_to_rgb(p: f32, q: f32, t0: f32) -> f32 {
    var t = t0;
    if (t < 0.0) {
        t = t + 1.0;
    }
    if (t > 1.0) {
        t = t - 1.0;
    }
    if (t < 1.0 / 6.0) {
        return p + (q - p) * 6.0 * t;
    }
    if (t < 0.5) {
        return q;
    }
    if (t < 2.0 / 3.0) {
        return p + (q - p) * (2.0 / 3.0 - t) * 6.0;
    }
    return p;
}

fn apply(rgb: vec3<f32>) -> vec3<f32> {
    let c = rgb / 255.0;
    let mx = max(c.r, max(c.g, c.b));
    let mn = min(c.r, min(c.g, c.b));
    if (mx == mn) {
        return rgb;
    }
    let l = (mx + mn) / 2.0;
    let d = mx - mn;
    var h: f32;
    if (mx == c.r) {
        h = (c.g - c.b) / d + select(0.0, 6.0, c.g < c.b);
    } else if (mx == c.g) {
        h = (c.b - c.r) / d + 2.0;
    } else {
        h = (c.r - c.g) / d + 4.0;
    }
    h = h / 6.0;
    let s0 = d / (1.0 - abs(2.0 * l - 1.0));
    let s = clamp(s0 + clamp(params.values.x, -0.5, 0.5), 0.0, 1.0);
    let q = select(l + s - l * s, l * (1.0 + s), l < 0.5);
    let p = 2.0 * l - q;
    return vec3<f32>(
        hue_to_rgb(p, q, h + 1.0 / 3.0),
        hue_to_rgb(p, q, h),
        hue_to_rgb(p, q, h - 1.0 / 3.0),
    ) * 255.0;
}
`

// whiteBalanceShader: values.xyz = per channel gains computed on the host.
const whiteBalanceShader = `
fn apply(rgb: vec3<f32>) -> vec3<f32> {
    return rgb * params.values.xyz;
}
`

// shaderSource returns the complete WGSL program for s.
func shaderSource(s render.Shader) (string, error) {
	var body string
	switch s {
	case render.ShaderExposition:
		body = exposureShader
	case render.ShaderSaturation:
		body = saturationShader
	case render.ShaderWhiteBalance:
		body = whiteBalanceShader
	default:
		return "", fmt.Errorf("gpu: no shader for %v", s)
	}
	return shaderPrelude + body + shaderMain, nil
}

// shaders lists every program CompileShaders builds.
var shaders = []render.Shader{
	render.ShaderSaturation,
	render.ShaderExposition,
	render.ShaderWhiteBalance,
}
