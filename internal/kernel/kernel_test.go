package kernel

import (
	"math"
	"testing"
)

func TestGaussianKernelZeroSigma(t *testing.T) {
	for _, sigma := range []float64{0, -5} {
		kernel := GaussianKernel(sigma)
		if len(kernel) != 1 || kernel[0] != 1.0 {
			t.Errorf("GaussianKernel(%v) = %v, want [1]", sigma, kernel)
		}
	}
}

func TestGaussianKernelNormalized(t *testing.T) {
	for _, sigma := range []float64{0.5, 1, 2, 3, 5, 10} {
		kernel := GaussianKernel(sigma)

		var sum float32
		for _, v := range kernel {
			sum += v
		}
		if math.Abs(float64(sum)-1.0) > 0.001 {
			t.Errorf("GaussianKernel(%v) sum = %v, want ~1.0", sigma, sum)
		}
	}
}

func TestGaussianKernelSymmetric(t *testing.T) {
	kernel := GaussianKernel(5)
	n := len(kernel)

	for i := 0; i < n/2; i++ {
		j := n - 1 - i
		if math.Abs(float64(kernel[i]-kernel[j])) > 0.0001 {
			t.Errorf("kernel[%d] = %v != kernel[%d] = %v (asymmetric)", i, kernel[i], j, kernel[j])
		}
	}
}

func TestGaussianKernelSize(t *testing.T) {
	tests := []struct {
		sigma    float64
		wantSize int
	}{
		{0.5, 5},
		{1.0, 7},
		{2.0, 13},
		{5.0, 31},
	}

	for _, tt := range tests {
		if got := len(GaussianKernel(tt.sigma)); got != tt.wantSize {
			t.Errorf("len(GaussianKernel(%v)) = %d, want %d", tt.sigma, got, tt.wantSize)
		}
	}
}

func TestGaussianKernelSized(t *testing.T) {
	tests := []struct {
		sigma    float64
		size     int
		wantSize int
	}{
		{1, 3, 3},
		{1, 4, 5},
		{1, 0, 7},
		{2, 9, 9},
		{0, 9, 1},
	}

	for _, tt := range tests {
		kernel := GaussianKernelSized(tt.sigma, tt.size)
		if len(kernel) != tt.wantSize {
			t.Errorf("len(GaussianKernelSized(%v, %d)) = %d, want %d", tt.sigma, tt.size, len(kernel), tt.wantSize)
		}
		var sum float32
		for _, v := range kernel {
			sum += v
		}
		if math.Abs(float64(sum)-1.0) > 0.001 {
			t.Errorf("GaussianKernelSized(%v, %d) sum = %v, want ~1.0", tt.sigma, tt.size, sum)
		}
	}
}

func TestBoxKernelUniform(t *testing.T) {
	kernel := BoxKernel(3)
	expectedVal := float32(1.0 / 7.0)

	if len(kernel) != 7 {
		t.Errorf("BoxKernel(3) len = %d, want 7", len(kernel))
	}
	for i, v := range kernel {
		if math.Abs(float64(v-expectedVal)) > 0.0001 {
			t.Errorf("BoxKernel(3)[%d] = %v, want %v", i, v, expectedVal)
		}
	}

	if k := BoxKernel(0); len(k) != 1 || k[0] != 1.0 {
		t.Errorf("BoxKernel(0) = %v, want [1]", k)
	}
}

func TestCachedGaussianKernel(t *testing.T) {
	k1 := CachedGaussianKernel(5.0, 0)
	k2 := CachedGaussianKernel(5.0, 0)

	if len(k1) != len(k2) {
		t.Fatalf("cached kernel len mismatch: %d != %d", len(k1), len(k2))
	}
	for i := range k1 {
		if k1[i] != k2[i] {
			t.Errorf("cached kernel[%d] mismatch: %v != %v", i, k1[i], k2[i])
		}
	}

	if k3 := CachedGaussianKernel(5.0, 11); len(k3) != 11 {
		t.Errorf("CachedGaussianKernel(5, 11) len = %d, want 11", len(k3))
	}
}

func TestKernelCacheEviction(t *testing.T) {
	for i := range 100 {
		CachedGaussianKernel(float64(i+1)/10, 0)
	}
	if n := kernels.Len(); n > 64 {
		t.Errorf("cache holds %d kernels, want <= 64", n)
	}
}

func TestOptimalKernelSize(t *testing.T) {
	tests := []struct {
		sigma float64
		want  int
	}{
		{0, 1},
		{-1, 1},
		{1.0, 7},
		{5.0, 31},
		{math.NaN(), 1},
		{1e300, 2*MaxKernelRadius + 1},
		{math.Inf(1), 2*MaxKernelRadius + 1},
	}

	for _, tt := range tests {
		if got := OptimalKernelSize(tt.sigma); got != tt.want {
			t.Errorf("OptimalKernelSize(%v) = %d, want %d", tt.sigma, got, tt.want)
		}
	}
}

func BenchmarkGaussianKernel(b *testing.B) {
	for b.Loop() {
		_ = GaussianKernel(10)
	}
}

func TestCachedGaussianKernelDistinctSigmas(t *testing.T) {
	// Both sigmas derive nine taps and truncate to the same hundredth.
	CachedGaussianKernel(1.001, 0)
	got := CachedGaussianKernel(1.009, 0)
	want := GaussianKernelSized(1.009, 0)

	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("kernel[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}
