// Package darkroom is a non-destructive raster edit engine.
//
// # Overview
//
// A Session holds a pristine original image, the filters the user wants
// applied to it, and a full-resolution working preview. Editing never
// overwrites the original: the preview is re-rendered from filter deltas and
// Export renders the complete filter set from the original.
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/darkroom"
//	    "github.com/gogpu/darkroom/filter"
//	    "github.com/gogpu/darkroom/render"
//	)
//
//	r := render.NewWithFallback(render.GPU)
//	defer r.Close()
//
//	s, err := darkroom.NewSession(r, darkroom.WithImage(img))
//	if err != nil {
//	    return err
//	}
//
//	_ = s.UpdateFilter(filter.Exposition, []float64{0.5})
//	preview, err := s.UpdateImage() // renders only what changed
//
//	final, err := s.Export() // full render from the original
//
// # Incremental Rendering
//
// The session tracks two filter arrays: the target (Filters) and what the
// preview already contains (AppliedFilters). UpdateImage renders only
// their difference onto the preview. Additive amounts such as exposure are
// subtracted; white balance is an absolute target, so the delta moves the
// preview from the applied white point to the requested one in a single
// step.
//
// Repeated 8-bit deltas can drift from a full render by a few levels. Export
// is always a full render and is not affected.
//
// # Packages
//
//   - filter: filter tags, parameter arrays and their algebra
//   - render: CPU and GPU renderers
//   - curve: tone curve interpolation
//   - imagebuf: RGB, HSL and OkLab representations of an image
//   - gpu: blank import to enable the wgpu device
//   - cmd/darkroom: command-line front end
//
// # Concurrency
//
// A Session is driven by one caller at a time. To process images in
// parallel, give every goroutine its own Session and a Renderer obtained
// from render.Renderer.Clone.
package darkroom
