// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"
	"fmt"
)

var (
	// ErrRendering is the generic render failure. It is wrapped with a
	// description of what went wrong.
	ErrRendering = errors.New("render: rendering failed")

	// ErrNoDevice indicates that no GPU device could be acquired.
	ErrNoDevice = errors.New("render: no GPU device available")
)

// GPUError reports a device-level failure.
type GPUError struct {
	// Op is the device operation that failed, e.g. "compile shaders".
	Op string

	// Err is the device error.
	Err error
}

func (e *GPUError) Error() string {
	return fmt.Sprintf("render: gpu %s: %v", e.Op, e.Err)
}

func (e *GPUError) Unwrap() error {
	return e.Err
}
