// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import "log/slog"

// Option configures a Renderer.
type Option func(*options)

type options struct {
	factory DeviceFactory
	logger  *slog.Logger
	workers int
}

func defaultOptions() options {
	return options{
		logger: slog.New(slog.DiscardHandler),
	}
}

// WithDeviceFactory sets the factory a GPU renderer opens its device with,
// overriding the registered one.
func WithDeviceFactory(f DeviceFactory) Option {
	return func(o *options) {
		o.factory = f
	}
}

// WithLogger sets the logger. By default the renderer logs nothing.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithWorkers gives the renderer its own pool of n CPU workers. By default
// CPU kernels share a process-wide pool sized to GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}
