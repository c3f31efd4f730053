package imageutil

import "math"

// Kernel represents a convolution kernel.
type Kernel struct {
	Values [][]float64
	Width  int
	Height int
}

// NewKernel creates a new kernel from a 2D slice.
func NewKernel(values [][]float64) *Kernel {
	height := len(values)
	width := 0
	if height > 0 {
		width = len(values[0])
	}
	return &Kernel{
		Values: values,
		Width:  width,
		Height: height,
	}
}

// GaussianWeights returns normalized 1D Gaussian weights for the given
// standard deviation. The kernel radius is ceil(3*sigma), so the slice has
// 2*radius+1 entries summing to 1.
func GaussianWeights(sigma float64) []float64 {
	radius := int(math.Ceil(3 * sigma))
	weights := make([]float64, 2*radius+1)
	var sum float64
	for i := -radius; i <= radius; i++ {
		w := math.Exp(-float64(i*i) / (2 * sigma * sigma))
		weights[i+radius] = w
		sum += w
	}
	for i := range weights {
		weights[i] /= sum
	}
	return weights
}

// GaussianKernels returns the horizontal (1 x n) and vertical (n x 1)
// kernels of a separable Gaussian blur.
func GaussianKernels(sigma float64) (horizontal, vertical *Kernel) {
	weights := GaussianWeights(sigma)
	column := make([][]float64, len(weights))
	for i, w := range weights {
		column[i] = []float64{w}
	}
	return NewKernel([][]float64{weights}), NewKernel(column)
}

// GaussianBlurFloat smooths a float grid with a Gaussian of the given sigma.
// The blur is applied as two 1D passes; borders replicate edge values.
func GaussianBlurFloat(img [][]float64, sigma float64) [][]float64 {
	horizontal, vertical := GaussianKernels(sigma)
	return ConvolveGrayFloat(ConvolveGrayFloat(img, horizontal), vertical)
}

// ConvolveGrayFloat applies a convolution kernel to a float grid.
// Border pixels are handled by replicating edge values. Returns float
// values without clamping.
func ConvolveGrayFloat(img [][]float64, kernel *Kernel) [][]float64 {
	height := len(img)
	if height == 0 {
		return nil
	}
	width := len(img[0])

	dst := make([][]float64, height)
	for y := 0; y < height; y++ {
		dst[y] = make([]float64, width)
	}

	halfKW := kernel.Width / 2
	halfKH := kernel.Height / 2

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var sum float64

			for ky := 0; ky < kernel.Height; ky++ {
				sy := clampInt(y+ky-halfKH, 0, height-1)
				for kx := 0; kx < kernel.Width; kx++ {
					sx := clampInt(x+kx-halfKW, 0, width-1)
					sum += img[sy][sx] * kernel.Values[ky][kx]
				}
			}

			dst[y][x] = sum
		}
	}

	return dst
}

// clampInt clamps an integer to the given range.
func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// clampUint8 clamps a float64 to [0, 255] and converts to uint8.
func clampUint8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(math.Round(v))
}
