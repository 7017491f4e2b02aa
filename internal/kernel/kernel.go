package kernel

import (
	"math"

	"github.com/gogpu/darkroom/internal/cache"
)

// GaussianKernel generates a normalized 1D Gaussian kernel for sigma.
//
// The kernel size is 2*ceil(3*sigma)+1, which covers 99.7% of the
// distribution. For sigma <= 0 it returns the identity kernel [1].
func GaussianKernel(sigma float64) []float32 {
	return GaussianKernelSized(sigma, OptimalKernelSize(sigma))
}

// GaussianKernelSized generates a normalized Gaussian kernel for sigma with
// an explicit number of taps. Even sizes are rounded up to the next odd size
// so the kernel stays centered; size <= 0 selects OptimalKernelSize.
func GaussianKernelSized(sigma float64, size int) []float32 {
	if !(sigma > 0) {
		return []float32{1.0}
	}
	if size <= 0 {
		size = OptimalKernelSize(sigma)
	}
	if size%2 == 0 {
		size++
	}
	half := size / 2

	kernel := make([]float32, size)
	twoSigmaSq := 2 * sigma * sigma
	sum := 0.0
	for i := range size {
		x := float64(i - half)
		v := math.Exp(-(x * x) / twoSigmaSq)
		kernel[i] = float32(v)
		sum += v
	}

	inv := float32(1.0 / sum)
	for i := range kernel {
		kernel[i] *= inv
	}
	return kernel
}

// BoxKernel generates a uniform kernel of 2*radius+1 taps.
func BoxKernel(radius int) []float32 {
	if radius <= 0 {
		return []float32{1.0}
	}

	size := radius*2 + 1
	kernel := make([]float32, size)
	val := float32(1.0) / float32(size)
	for i := range kernel {
		kernel[i] = val
	}
	return kernel
}

// MaxKernelRadius bounds the radius of derived Gaussian kernels.
const MaxKernelRadius = 1 << 15

// OptimalKernelSize returns the tap count GaussianKernel uses for sigma,
// at most 2*MaxKernelRadius+1.
func OptimalKernelSize(sigma float64) int {
	if !(sigma > 0) {
		return 1
	}
	return int(min(math.Ceil(sigma*3), MaxKernelRadius))*2 + 1
}

type kernelKey struct {
	sigma uint64 // math.Float64bits
	size  int
}

// kernels caches Gaussian kernels; interactive edits re-render with the
// same blur settings many times.
var kernels = cache.New[kernelKey, []float32](64)

// CachedGaussianKernel returns a shared Gaussian kernel for sigma and size.
// Callers must not modify the returned slice.
func CachedGaussianKernel(sigma float64, size int) []float32 {
	key := kernelKey{sigma: math.Float64bits(sigma), size: size}
	return kernels.GetOrCreate(key, func() []float32 {
		return GaussianKernelSized(sigma, size)
	})
}
