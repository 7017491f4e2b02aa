package darkroom

import (
	"image"
	"log/slog"

	"github.com/gogpu/darkroom/curve"
	"github.com/gogpu/darkroom/filter"
)

// sessionOptions holds configuration for a new Session.
type sessionOptions struct {
	image     image.Image
	filters   []filter.Filter
	curveKind curve.Kind
	logger    *slog.Logger
	tracked   [3]bool
}

// defaultSessionOptions returns the default options: no image, baseline
// filters, a monotone curve and the package logger. The buffer cache keeps
// RGB and HSL up to date.
func defaultSessionOptions() sessionOptions {
	return sessionOptions{
		curveKind: curve.Monotone,
		tracked:   [3]bool{true, true, false},
	}
}

// SessionOption configures a Session.
type SessionOption func(*sessionOptions)

// WithImage sets the initial image. The image is copied.
func WithImage(img image.Image) SessionOption {
	return func(o *sessionOptions) {
		o.image = img
	}
}

// WithFilters sets initial filter parameters on top of the baseline. They
// are pending until the first UpdateImage.
func WithFilters(filters ...filter.Filter) SessionOption {
	return func(o *sessionOptions) {
		o.filters = append(o.filters, filters...)
	}
}

// WithCurveKind selects the interpolation of the session's tone curve.
func WithCurveKind(kind curve.Kind) SessionOption {
	return func(o *sessionOptions) {
		o.curveKind = kind
	}
}

// WithLogger sets the session logger. Defaults to Logger().
func WithLogger(l *slog.Logger) SessionOption {
	return func(o *sessionOptions) {
		o.logger = l
	}
}

// WithTrackedColorSpaces selects which representations UpdateColorSpaces
// keeps current.
func WithTrackedColorSpaces(rgb, hsl, oklab bool) SessionOption {
	return func(o *sessionOptions) {
		o.tracked = [3]bool{rgb, hsl, oklab}
	}
}
