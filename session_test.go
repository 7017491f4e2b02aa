package darkroom

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/darkroom/curve"
	"github.com/gogpu/darkroom/filter"
	"github.com/gogpu/darkroom/imagebuf"
	"github.com/gogpu/darkroom/render"
)

func grayImage(w, h int, v uint8) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = v, v, v, 255
	}
	return img
}

func patternImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetNRGBA(x, y, color.NRGBA{uint8(30 + 20*x), uint8(60 + 15*y), uint8(90 + 5*(x+y)), 255})
		}
	}
	return img
}

func cpuRenderer(t *testing.T) *render.Renderer {
	t.Helper()
	r, err := render.New(render.CPU)
	require.NoError(t, err)
	t.Cleanup(r.Close)
	return r
}

// brokenDevice compiles but fails every render.
type brokenDevice struct{}

var errBroken = errors.New("device lost")

func (brokenDevice) Name() string                     { return "broken" }
func (brokenDevice) CompileShaders() error            { return nil }
func (brokenDevice) CreateTexture(*image.NRGBA) error { return nil }
func (brokenDevice) Clone() (render.Device, error)    { return brokenDevice{}, nil }
func (brokenDevice) Close()                           {}
func (brokenDevice) Render(render.Shader, []float64) (*image.NRGBA, error) {
	return nil, errBroken
}

func TestNewSessionRequiresRenderer(t *testing.T) {
	_, err := NewSession(nil)
	require.Error(t, err)
}

func TestNewSessionRejectsBadFilters(t *testing.T) {
	_, err := NewSession(cpuRenderer(t), WithFilters(filter.Filter{Tag: filter.Exposition, Params: []float64{1, 2}}))
	require.ErrorIs(t, err, filter.ErrArity)
}

func TestNewSessionDefaults(t *testing.T) {
	s, err := NewSession(cpuRenderer(t))
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, s.ID())
	assert.Nil(t, s.Preview())
	assert.Nil(t, s.Original())
	w, h := s.Dimensions()
	assert.Zero(t, w)
	assert.Zero(t, h)
	assert.True(t, s.Filters().Equal(filter.Baseline()))
	assert.Equal(t, curve.Monotone, s.Curve().Kind())
	assert.Equal(t, FullView(), s.Viewport())

	_, err = s.UpdateImage()
	assert.ErrorIs(t, err, ErrNoImage)
	_, err = s.Export()
	assert.ErrorIs(t, err, ErrNoImage)
	assert.ErrorIs(t, s.UpdateColorSpaces(), ErrNoImage)
}

func TestNewSessionOptions(t *testing.T) {
	s, err := NewSession(cpuRenderer(t),
		WithImage(grayImage(3, 2, 100)),
		WithFilters(filter.Filter{Tag: filter.Exposition, Params: []float64{0.5}}),
		WithCurveKind(curve.Smooth),
	)
	require.NoError(t, err)

	w, h := s.Dimensions()
	assert.Equal(t, 3, w)
	assert.Equal(t, 2, h)
	assert.Equal(t, curve.Smooth, s.Curve().Kind())
	assert.Equal(t, []float64{0.5}, s.Filters().Get(filter.Exposition))
	assert.True(t, s.AppliedFilters().IsNeutral(), "initial filters are pending")
	assert.Equal(t, []float64{0.5}, s.Pending().Get(filter.Exposition))
}

func TestSessionGrayExposure(t *testing.T) {
	s, err := NewSession(cpuRenderer(t), WithImage(grayImage(4, 4, 128)))
	require.NoError(t, err)

	require.NoError(t, s.UpdateFilter(filter.Exposition, []float64{1}))
	out, err := s.UpdateImage()
	require.NoError(t, err)
	assert.True(t, Equal(out, grayImage(4, 4, 255)), "exposure +1 on 128 should saturate to white")
	assert.True(t, s.AppliedFilters().Equal(s.Filters()))
	assert.True(t, s.Pending().IsNeutral())

	again, err := s.UpdateImage()
	require.NoError(t, err)
	assert.True(t, Equal(again, out), "rendering an empty delta changed the preview")

	assert.True(t, Equal(s.Original(), grayImage(4, 4, 128)), "original was modified")
}

func TestSessionRendersOnlyDelta(t *testing.T) {
	r := cpuRenderer(t)
	s, err := NewSession(r, WithImage(grayImage(2, 2, 32)))
	require.NoError(t, err)

	require.NoError(t, s.UpdateFilter(filter.Exposition, []float64{1}))
	_, err = s.UpdateImage()
	require.NoError(t, err)

	require.NoError(t, s.UpdateFilter(filter.Exposition, []float64{2}))
	assert.Equal(t, []float64{1}, s.Pending().Get(filter.Exposition))

	out, err := s.UpdateImage()
	require.NoError(t, err)
	assert.True(t, Equal(out, grayImage(2, 2, 128)))
}

func TestSessionExportWhiteBalance(t *testing.T) {
	r := cpuRenderer(t)
	src := patternImage(6, 5)

	s, err := NewSession(r, WithImage(src))
	require.NoError(t, err)
	require.NoError(t, s.UpdateFilter(filter.WhiteBalance, []float64{7000, 10}))

	// Bake a different white balance into the preview first.
	require.NoError(t, s.UpdateFilter(filter.WhiteBalance, []float64{5000, -20}))
	_, err = s.UpdateImage()
	require.NoError(t, err)
	require.NoError(t, s.UpdateFilter(filter.WhiteBalance, []float64{7000, 10}))

	preview := Clone(s.Preview())
	applied := s.AppliedFilters()

	got, err := s.Export()
	require.NoError(t, err)

	fresh := filter.Baseline()
	require.NoError(t, fresh.Update(filter.WhiteBalance, []float64{7000, 10}))
	want, err := r.Render(src, fresh)
	require.NoError(t, err)

	assert.True(t, Equal(got, want), "export differs from a fresh render of the original")
	assert.True(t, Equal(s.Preview(), preview), "export modified the preview")
	assert.True(t, s.AppliedFilters().Equal(applied), "export modified the applied filters")
}

func TestSessionWhiteBalanceDelta(t *testing.T) {
	s, err := NewSession(cpuRenderer(t), WithImage(patternImage(4, 4)))
	require.NoError(t, err)

	require.NoError(t, s.UpdateFilter(filter.WhiteBalance, []float64{5000, 0}))
	_, err = s.UpdateImage()
	require.NoError(t, err)

	require.NoError(t, s.UpdateFilter(filter.WhiteBalance, []float64{7000, 10}))
	delta := s.Pending()
	temp, tint := delta.WhiteBalanceBase()
	assert.Equal(t, 5000.0, temp)
	assert.Equal(t, 0.0, tint)
	assert.Equal(t, []float64{7000, 10}, delta.Get(filter.WhiteBalance))
	assert.True(t, delta.Filter(filter.WhiteBalance).Enabled)

	_, err = s.UpdateImage()
	require.NoError(t, err)
	assert.Equal(t, []float64{7000, 10}, s.AppliedFilters().Get(filter.WhiteBalance))
}

func TestSessionDisabledFilterMatchesExport(t *testing.T) {
	s, err := NewSession(cpuRenderer(t), WithImage(grayImage(3, 3, 64)))
	require.NoError(t, err)

	require.NoError(t, s.UpdateFilter(filter.Exposition, []float64{1}))
	require.NoError(t, s.SetFilterEnabled(filter.Exposition, false))
	assert.True(t, s.Pending().IsNeutral())

	preview, err := s.UpdateImage()
	require.NoError(t, err)
	exported, err := s.Export()
	require.NoError(t, err)
	assert.True(t, Equal(preview, grayImage(3, 3, 64)), "disabled exposure reached the preview")
	assert.True(t, Equal(exported, preview))

	require.NoError(t, s.SetFilterEnabled(filter.Exposition, true))
	preview, err = s.UpdateImage()
	require.NoError(t, err)
	assert.True(t, Equal(preview, grayImage(3, 3, 128)))

	// Disabling an applied filter renders it back out.
	require.NoError(t, s.SetFilterEnabled(filter.Exposition, false))
	assert.Equal(t, []float64{-1}, s.Pending().Get(filter.Exposition))
	preview, err = s.UpdateImage()
	require.NoError(t, err)
	exported, err = s.Export()
	require.NoError(t, err)
	assert.True(t, Equal(preview, grayImage(3, 3, 64)))
	assert.True(t, Equal(exported, preview))
}

func TestSessionDisabledWhiteBalance(t *testing.T) {
	r := cpuRenderer(t)
	src := patternImage(4, 3)
	s, err := NewSession(r, WithImage(src))
	require.NoError(t, err)

	require.NoError(t, s.UpdateFilter(filter.WhiteBalance, []float64{7000, 10}))
	require.NoError(t, s.SetFilterEnabled(filter.WhiteBalance, false))

	exported, err := s.Export()
	require.NoError(t, err)
	assert.True(t, Equal(exported, src), "disabled white balance was exported")

	preview, err := s.UpdateImage()
	require.NoError(t, err)
	assert.True(t, Equal(preview, src), "disabled white balance reached the preview")
}

func TestSessionAppliedEqualsTarget(t *testing.T) {
	s, err := NewSession(cpuRenderer(t), WithImage(patternImage(6, 5)))
	require.NoError(t, err)

	require.NoError(t, s.UpdateFilter(filter.Sharpening, []float64{1, 3}))
	require.NoError(t, s.UpdateFilter(filter.GaussianBlur, []float64{1.5, 7}))
	_, err = s.UpdateImage()
	require.NoError(t, err)

	applied := s.AppliedFilters()
	assert.Equal(t, []float64{1, 3}, applied.Get(filter.Sharpening))
	assert.Equal(t, []float64{1.5, 7}, applied.Get(filter.GaussianBlur))
	assert.True(t, applied.Equal(s.Filters()))
	assert.True(t, s.Pending().IsNeutral())
}

func TestSessionHugeBlurRadius(t *testing.T) {
	s, err := NewSession(cpuRenderer(t), WithImage(grayImage(5, 4, 90)))
	require.NoError(t, err)

	require.NoError(t, s.UpdateFilter(filter.BoxBlur, []float64{1 << 45}))
	require.NoError(t, s.UpdateFilter(filter.GaussianBlur, []float64{1e12, 0}))
	require.NoError(t, s.UpdateFilter(filter.Sharpening, []float64{0.5, 1e9}))

	var out *image.NRGBA
	require.NotPanics(t, func() { out, err = s.UpdateImage() })
	require.NoError(t, err)
	assert.True(t, Equal(out, grayImage(5, 4, 90)))
}

func TestSessionUpdateImageErrorKeepsState(t *testing.T) {
	r, err := render.New(render.GPU, render.WithDeviceFactory(func() (render.Device, error) {
		return brokenDevice{}, nil
	}))
	require.NoError(t, err)
	t.Cleanup(r.Close)

	s, err := NewSession(r, WithImage(grayImage(2, 2, 50)))
	require.NoError(t, err)
	require.NoError(t, s.UpdateFilter(filter.Exposition, []float64{1}))

	before := s.Preview()
	_, err = s.UpdateImage()
	require.ErrorIs(t, err, errBroken)

	var gerr *render.GPUError
	assert.ErrorAs(t, err, &gerr)
	assert.Same(t, before, s.Preview())
	assert.True(t, Equal(s.Preview(), grayImage(2, 2, 50)))
	assert.True(t, s.AppliedFilters().IsNeutral())
	assert.Equal(t, []float64{1}, s.Filters().Get(filter.Exposition))
}

func TestSessionReset(t *testing.T) {
	s, err := NewSession(cpuRenderer(t), WithImage(grayImage(3, 3, 60)))
	require.NoError(t, err)
	require.NoError(t, s.UpdateFilter(filter.Saturation, []float64{0.2}))
	require.NoError(t, s.UpdateFilter(filter.Exposition, []float64{1}))
	_, err = s.UpdateImage()
	require.NoError(t, err)

	s.Reset()
	assert.True(t, Equal(s.Preview(), grayImage(3, 3, 60)))
	assert.True(t, s.Filters().IsNeutral())
	assert.True(t, s.AppliedFilters().IsNeutral())
	assert.Equal(t, imagebuf.None, s.Buffers().Authority())
}

func TestSessionLoadImage(t *testing.T) {
	s, err := NewSession(cpuRenderer(t), WithImage(grayImage(2, 2, 10)))
	require.NoError(t, err)
	require.NoError(t, s.UpdateFilter(filter.Exposition, []float64{1}))
	_, err = s.UpdateImage()
	require.NoError(t, err)
	_, err = s.ZoomAt(100, 100, 10, 10)
	require.NoError(t, err)

	// Bounds away from the origin are normalized.
	src := grayImage(6, 4, 40).SubImage(image.Rect(1, 1, 5, 4))
	s.LoadImage(src)

	w, h := s.Dimensions()
	assert.Equal(t, 4, w)
	assert.Equal(t, 3, h)
	assert.Equal(t, image.Point{}, s.Original().Rect.Min)
	assert.True(t, s.AppliedFilters().IsNeutral())
	assert.Equal(t, []float64{1}, s.Pending().Get(filter.Exposition), "target filters survive a load")
	assert.Equal(t, FullView(), s.Viewport())
	assert.Equal(t, imagebuf.RGB, s.Buffers().Authority())
}

func TestSessionUpdateColorSpaces(t *testing.T) {
	s, err := NewSession(cpuRenderer(t), WithImage(patternImage(4, 3)))
	require.NoError(t, err)

	require.NoError(t, s.UpdateColorSpaces())
	b := s.Buffers()
	assert.False(t, b.Dirty(imagebuf.HSL))
	assert.True(t, b.Dirty(imagebuf.OkLab), "OkLab is not tracked by default")
	require.NotNil(t, b.HSL())

	s.Reset()
	require.NoError(t, s.UpdateColorSpaces(), "reset cache is rebuilt from the preview")
	assert.Equal(t, imagebuf.RGB, b.Authority())
}

func TestSessionTrackedColorSpaces(t *testing.T) {
	s, err := NewSession(cpuRenderer(t), WithImage(patternImage(2, 2)), WithTrackedColorSpaces(true, false, true))
	require.NoError(t, err)
	require.NoError(t, s.UpdateColorSpaces())
	assert.True(t, s.Buffers().Dirty(imagebuf.HSL))
	assert.False(t, s.Buffers().Dirty(imagebuf.OkLab))
}

func TestSessionZoom(t *testing.T) {
	s, err := NewSession(cpuRenderer(t), WithImage(patternImage(40, 20)))
	require.NoError(t, err)

	crop, err := s.ZoomAt(400, 200, 200, 100)
	require.NoError(t, err)
	assert.Equal(t, 38, crop.Rect.Dx())
	assert.Equal(t, 19, crop.Rect.Dy())
	assert.Less(t, s.Viewport().Scale, 1.0)

	visible, err := s.Visible()
	require.NoError(t, err)
	assert.True(t, Equal(crop, visible))

	s.ResetZoom()
	visible, err = s.Visible()
	require.NoError(t, err)
	assert.True(t, Equal(visible, s.Preview()))
}
