package darkroom

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/gogpu/darkroom/curve"
	"github.com/gogpu/darkroom/filter"
	"github.com/gogpu/darkroom/imagebuf"
	"github.com/gogpu/darkroom/render"
)

// ErrNoImage is returned when an operation needs an image and none is loaded.
var ErrNoImage = errors.New("darkroom: no image loaded")

// Session is a non-destructive edit of one image.
//
// The session keeps the pristine original, a full resolution preview that
// already contains the applied filters, the target filters and the filters
// already applied. Filters minus AppliedFilters is always the pending delta.
//
// A Session must not be used from more than one goroutine at a time.
type Session struct {
	id       uuid.UUID
	renderer *render.Renderer
	logger   *slog.Logger

	original *image.NRGBA
	preview  *image.NRGBA

	filters filter.Array
	applied filter.Array

	buffers  *imagebuf.Buffers
	curve    *curve.Curve
	viewport Viewport
}

// NewSession creates a session rendering with r.
func NewSession(r *render.Renderer, opts ...SessionOption) (*Session, error) {
	if r == nil {
		return nil, errors.New("darkroom: nil renderer")
	}

	o := defaultSessionOptions()
	for _, opt := range opts {
		opt(&o)
	}

	filters, err := filter.New(o.filters...)
	if err != nil {
		return nil, fmt.Errorf("darkroom: initial filters: %w", err)
	}

	logger := o.logger
	if logger == nil {
		logger = Logger()
	}

	s := &Session{
		id:       uuid.New(),
		renderer: r,
		filters:  filters,
		applied:  filter.Baseline(),
		buffers:  imagebuf.New(),
		curve:    curve.New(o.curveKind),
		viewport: FullView(),
	}
	s.logger = logger.With("session", s.id.String())
	s.buffers.SetTracked(o.tracked[0], o.tracked[1], o.tracked[2])

	if o.image != nil {
		s.LoadImage(o.image)
	}
	return s, nil
}

// ID returns the session identifier used in log records.
func (s *Session) ID() uuid.UUID { return s.id }

// LoadImage replaces the original image. The preview is reset to the new
// image and the applied filters go back to the baseline, so every target
// filter becomes pending. The zoom is reset.
func (s *Session) LoadImage(img image.Image) {
	s.original = ToNRGBA(img)
	s.preview = Clone(s.original)
	s.applied = filter.Baseline()
	s.viewport = FullView()
	s.buffers.UpdateRGB(s.preview)

	w, h := s.Dimensions()
	s.logger.Info("image loaded", "width", w, "height", h)
}

// UpdateFilter sets the target parameters of one filter. Nothing is rendered.
func (s *Session) UpdateFilter(tag filter.Tag, params []float64) error {
	return s.filters.Update(tag, params)
}

// SetFilterEnabled overrides whether a filter takes part in rendering.
// Disabling a filter that is already in the preview renders its inverse on
// the next UpdateImage.
func (s *Session) SetFilterEnabled(tag filter.Tag, enabled bool) error {
	return s.filters.SetEnabled(tag, enabled)
}

// Pending returns the delta UpdateImage would render: the target filters
// minus the applied ones, with the applied white balance as its base.
func (s *Session) Pending() filter.Array {
	wb := s.applied.Get(filter.WhiteBalance)
	return s.filters.Sub(s.applied).WithWhiteBalanceBase(wb[0], wb[1])
}

// UpdateImage renders the pending delta onto the preview and returns the
// new preview. On error the preview and the applied filters are unchanged.
//
// The returned image is owned by the session and must not be modified.
func (s *Session) UpdateImage() (*image.NRGBA, error) {
	if s.original == nil {
		return nil, ErrNoImage
	}

	delta := s.Pending()
	s.logger.Debug("rendering delta", "delta", delta)

	start := time.Now()
	out, err := s.renderer.Render(s.preview, delta)
	if err != nil {
		return nil, fmt.Errorf("darkroom: update image: %w", err)
	}

	s.preview = out
	s.applied = s.applied.Add(delta)
	s.buffers.UpdateRGB(out)

	s.logger.Debug("preview updated", "elapsed", time.Since(start))
	return out, nil
}

// Reset discards all edits. The preview is restored from the original, both
// filter sets go back to the baseline and the color space cache is cleared.
func (s *Session) Reset() {
	s.filters = filter.Baseline()
	s.applied = filter.Baseline()
	s.buffers.Reset()
	if s.original != nil {
		s.preview = Clone(s.original)
	}
}

// Export renders the complete target filter set from the original image.
// The white balance is rendered relative to the reference white point.
// Session state is not modified.
func (s *Session) Export() (*image.NRGBA, error) {
	if s.original == nil {
		return nil, ErrNoImage
	}

	filters := s.filters.WithWhiteBalanceBase(filter.ReferenceTemperature, filter.ReferenceTint)

	start := time.Now()
	out, err := s.renderer.Render(s.original, filters)
	if err != nil {
		return nil, fmt.Errorf("darkroom: export: %w", err)
	}

	s.logger.Info("export finished", "filters", filters, "elapsed", time.Since(start))
	return out, nil
}

// UpdateColorSpaces refreshes the tracked color space representations of
// the preview.
func (s *Session) UpdateColorSpaces() error {
	if s.original == nil {
		return ErrNoImage
	}
	if s.buffers.Authority() == imagebuf.None {
		s.buffers.UpdateRGB(s.preview)
	}
	return s.buffers.Update()
}

// Filters returns a copy of the target filters.
func (s *Session) Filters() filter.Array { return s.filters.Clone() }

// AppliedFilters returns a copy of the filters already rendered into the preview.
func (s *Session) AppliedFilters() filter.Array { return s.applied.Clone() }

// Preview returns the working preview, or nil when no image is loaded.
// The image is owned by the session and must not be modified.
func (s *Session) Preview() *image.NRGBA { return s.preview }

// Original returns the pristine image, or nil when no image is loaded.
// The image is owned by the session and must not be modified.
func (s *Session) Original() *image.NRGBA { return s.original }

// Dimensions returns the size of the loaded image.
func (s *Session) Dimensions() (width, height int) {
	if s.original == nil {
		return 0, 0
	}
	return s.original.Rect.Dx(), s.original.Rect.Dy()
}

// Buffers returns the color space cache of the preview.
func (s *Session) Buffers() *imagebuf.Buffers { return s.buffers }

// Curve returns the session's tone curve.
func (s *Session) Curve() *curve.Curve { return s.curve }

// Viewport returns the current zoom.
func (s *Session) Viewport() Viewport { return s.viewport }

// ZoomAt zooms in around a click on a view of viewW×viewH pixels and
// returns the visible part of the preview.
func (s *Session) ZoomAt(viewW, viewH, clickX, clickY float64) (*image.NRGBA, error) {
	if s.original == nil {
		return nil, ErrNoImage
	}
	size := s.original.Rect.Size()
	s.viewport = s.viewport.ZoomAt(size, viewW, viewH, clickX, clickY)
	return Crop(s.preview, s.viewport.Rect(size)), nil
}

// ResetZoom shows the whole image again.
func (s *Session) ResetZoom() {
	s.viewport = FullView()
}

// Visible returns the part of the preview inside the viewport.
func (s *Session) Visible() (*image.NRGBA, error) {
	if s.original == nil {
		return nil, ErrNoImage
	}
	return Crop(s.preview, s.viewport.Rect(s.original.Rect.Size())), nil
}
