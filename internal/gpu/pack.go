//go:build !nogpu

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"encoding/binary"
	"image"
	"math"
)

// paramsSize is the byte size of the WGSL Params struct.
const paramsSize = 32

// packPixels encodes img as one little-endian u32 per pixel.
func packPixels(img *image.NRGBA) []byte {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	out := make([]byte, w*h*4)
	for y := range h {
		// NRGBA rows are already R,G,B,A bytes, which is the little-endian
		// layout of r | g<<8 | b<<16 | a<<24.
		copy(out[y*w*4:(y+1)*w*4], img.Pix[y*img.Stride:y*img.Stride+w*4])
	}
	return out
}

// unpackPixels decodes a readback buffer into a new w×h image.
func unpackPixels(packed []byte, w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := range w * h {
		v := binary.LittleEndian.Uint32(packed[i*4:])
		img.Pix[i*4+0] = uint8(v & 0xFF)         //nolint:gosec // masked to 8 bits
		img.Pix[i*4+1] = uint8((v >> 8) & 0xFF)  //nolint:gosec // masked to 8 bits
		img.Pix[i*4+2] = uint8((v >> 16) & 0xFF) //nolint:gosec // masked to 8 bits
		img.Pix[i*4+3] = uint8((v >> 24) & 0xFF) //nolint:gosec // masked to 8 bits
	}
	return img
}

// encodeParams lays out the Params uniform: width, height, two pad words
// and four float values.
func encodeParams(w, h uint32, values [4]float32) []byte {
	out := make([]byte, paramsSize)
	binary.LittleEndian.PutUint32(out[0:], w)
	binary.LittleEndian.PutUint32(out[4:], h)
	for i, v := range values {
		binary.LittleEndian.PutUint32(out[16+i*4:], math.Float32bits(v))
	}
	return out
}
