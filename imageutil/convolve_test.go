package imageutil

import (
	"math"
	"testing"
)

func TestConvolveIdentity(t *testing.T) {
	img := [][]float64{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}}
	identity := NewKernel([][]float64{{0, 0, 0}, {0, 1, 0}, {0, 0, 0}})

	got := ConvolveGrayFloat(img, identity)
	for y := range img {
		for x := range img[y] {
			if got[y][x] != img[y][x] {
				t.Errorf("(%d,%d): expected %v, got %v", x, y, img[y][x], got[y][x])
			}
		}
	}
}

func TestConvolveReplicatesEdges(t *testing.T) {
	img := [][]float64{{1, 2, 3}}
	// Picks the left neighbor, so column 0 reads its own replicated value.
	left := NewKernel([][]float64{{1, 0, 0}})

	got := ConvolveGrayFloat(img, left)
	want := []float64{1, 1, 2}
	for x, w := range want {
		if got[0][x] != w {
			t.Errorf("x=%d: expected %v, got %v", x, w, got[0][x])
		}
	}
}

func TestConvolveEmpty(t *testing.T) {
	if got := ConvolveGrayFloat(nil, NewKernel([][]float64{{1}})); got != nil {
		t.Errorf("Expected nil, got %v", got)
	}
}

func TestGaussianWeights(t *testing.T) {
	tests := []struct {
		sigma float64
		size  int
	}{
		{0.5, 5},
		{1, 7},
		{1.4, 11},
		{2, 13},
	}
	for _, tt := range tests {
		w := GaussianWeights(tt.sigma)
		if len(w) != tt.size {
			t.Errorf("sigma=%v: expected %d weights, got %d", tt.sigma, tt.size, len(w))
		}
		var sum float64
		for i := range w {
			sum += w[i]
			if w[i] != w[len(w)-1-i] {
				t.Errorf("sigma=%v: weights not symmetric at %d", tt.sigma, i)
			}
		}
		if math.Abs(sum-1) > 1e-12 {
			t.Errorf("sigma=%v: weights sum to %v", tt.sigma, sum)
		}
		mid := len(w) / 2
		if w[mid] < w[mid-1] {
			t.Errorf("sigma=%v: center weight is not the peak", tt.sigma)
		}
	}
}

func TestGaussianKernelsShape(t *testing.T) {
	h, v := GaussianKernels(1)
	if h.Width != 7 || h.Height != 1 {
		t.Errorf("Expected 7x1 horizontal kernel, got %dx%d", h.Width, h.Height)
	}
	if v.Width != 1 || v.Height != 7 {
		t.Errorf("Expected 1x7 vertical kernel, got %dx%d", v.Width, v.Height)
	}
}

func TestGaussianBlurPreservesUniform(t *testing.T) {
	img := make([][]float64, 6)
	for y := range img {
		img[y] = []float64{0.4, 0.4, 0.4, 0.4, 0.4, 0.4}
	}
	blurred := GaussianBlurFloat(img, 1.5)
	for y := range blurred {
		for x := range blurred[y] {
			if math.Abs(blurred[y][x]-0.4) > 1e-12 {
				t.Fatalf("(%d,%d): expected 0.4, got %v", x, y, blurred[y][x])
			}
		}
	}
}

func TestGaussianBlurSmoothsStep(t *testing.T) {
	img := make([][]float64, 3)
	for y := range img {
		img[y] = []float64{0, 0, 0, 0, 1, 1, 1, 1}
	}
	blurred := GaussianBlurFloat(img, 1)
	row := blurred[1]
	for x := 1; x < len(row); x++ {
		if row[x] < row[x-1] {
			t.Errorf("Blurred step should be non-decreasing, got %v", row)
			break
		}
	}
	if row[3] <= 0 || row[4] >= 1 {
		t.Errorf("Expected the step to be softened, got %v", row)
	}
}

func TestClampHelpers(t *testing.T) {
	if clampInt(-3, 0, 5) != 0 || clampInt(9, 0, 5) != 5 || clampInt(2, 0, 5) != 2 {
		t.Error("clampInt returned a value outside the range")
	}
	if clampUint8(-1) != 0 || clampUint8(300) != 255 || clampUint8(127.6) != 128 {
		t.Error("clampUint8 returned an unexpected value")
	}
}
