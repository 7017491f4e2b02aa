// Package kernel implements the CPU image adjustments used by the renderer.
//
// Every kernel reads a source *image.NRGBA and returns a new image with the
// same bounds; the source is never modified. Point adjustments (exposure,
// saturation, white balance) and the two passes of the separable blurs are
// scheduled row by row on a parallel.WorkerPool. A nil pool runs on the
// calling goroutine.
//
// Alpha is carried through unchanged by the point adjustments and blurred
// like any other channel by the convolution kernels.
package kernel
