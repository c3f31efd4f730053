package imageutil

import "math"

// Sobel kernels shared by the gradient helpers.
var (
	sobelX = NewKernel([][]float64{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	})
	sobelY = NewKernel([][]float64{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	})
)

// Canny performs Canny edge detection on a luminance grid and returns a
// mask where true marks an edge pixel.
//
// sigma is the standard deviation of the Gaussian pre-blur. low and high
// are hysteresis thresholds expressed as fractions of the strongest
// gradient magnitude left after non-maximum suppression, so they are
// independent of the image's contrast. Callers guarantee sigma > 0 and
// 0 <= low <= high <= 1.
func Canny(lum [][]float64, sigma, low, high float64) [][]bool {
	height := len(lum)
	if height == 0 {
		return nil
	}
	width := len(lum[0])

	// Step 1: Gaussian blur to reduce noise
	blurred := GaussianBlurFloat(lum, sigma)

	// Step 2: Sobel gradients
	gx, gy := sobelGradients(blurred)

	// Step 3: Magnitude and direction
	magnitude := make([][]float64, height)
	direction := make([][]float64, height)
	for y := 0; y < height; y++ {
		magnitude[y] = make([]float64, width)
		direction[y] = make([]float64, width)
		for x := 0; x < width; x++ {
			magnitude[y][x] = math.Hypot(gx[y][x], gy[y][x])
			direction[y][x] = math.Atan2(gy[y][x], gx[y][x])
		}
	}

	// Step 4: Non-maximum suppression
	suppressed := nonMaxSuppression(magnitude, direction, width, height)

	// Step 5: Double threshold relative to the strongest response
	var peak float64
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			peak = math.Max(peak, suppressed[y][x])
		}
	}
	if peak == 0 {
		return NewMask(width, height)
	}
	strong, weak := doubleThreshold(suppressed, low*peak, high*peak, width, height)

	// Step 6: Edge tracking by hysteresis
	return hysteresis(strong, weak, width, height)
}

// sobelGradients computes horizontal and vertical Sobel gradients.
func sobelGradients(img [][]float64) (gx, gy [][]float64) {
	return ConvolveGrayFloat(img, sobelX), ConvolveGrayFloat(img, sobelY)
}

// SobelMagnitude returns the per-pixel gradient magnitude of a grid. Canny
// does not call it; it exposes the gradient stage for parity checks against
// OpenCV.
func SobelMagnitude(img [][]float64) [][]float64 {
	gx, gy := sobelGradients(img)
	mag := make([][]float64, len(img))
	for y := range gx {
		mag[y] = make([]float64, len(gx[y]))
		for x := range gx[y] {
			mag[y][x] = math.Hypot(gx[y][x], gy[y][x])
		}
	}
	return mag
}

// directionBin quantizes a gradient angle in radians to one of the four
// compass bins and returns the (dx, dy) step towards the forward neighbor.
func directionBin(angle float64) (dx, dy int) {
	// Normalize angle to [0, 180)
	deg := angle * 180.0 / math.Pi
	if deg < 0 {
		deg += 180
	}
	switch {
	case deg < 22.5 || deg >= 157.5:
		return 1, 0 // horizontal gradient
	case deg < 67.5:
		return 1, 1 // diagonal
	case deg < 112.5:
		return 0, 1 // vertical gradient
	default:
		return -1, 1 // other diagonal
	}
}

// nonMaxSuppression thins edges to single-pixel ridges. A pixel is kept
// when it is strictly stronger than its forward neighbor along the gradient
// and at least as strong as the backward one; the asymmetry keeps exactly
// one pixel of a two-pixel plateau, where a strict test on both sides would
// drop the edge entirely. Neighbors outside the grid count as 0.
func nonMaxSuppression(magnitude, direction [][]float64, width, height int) [][]float64 {
	at := func(x, y int) float64 {
		if x < 0 || y < 0 || x >= width || y >= height {
			return 0
		}
		return magnitude[y][x]
	}

	suppressed := make([][]float64, height)
	for y := 0; y < height; y++ {
		suppressed[y] = make([]float64, width)
		for x := 0; x < width; x++ {
			mag := magnitude[y][x]
			if mag == 0 {
				continue
			}
			dx, dy := directionBin(direction[y][x])
			forward := at(x+dx, y+dy)
			backward := at(x-dx, y-dy)
			if mag > forward && mag >= backward {
				suppressed[y][x] = mag
			}
		}
	}

	return suppressed
}

// doubleThreshold classifies edges as strong or weak based on absolute
// thresholds. Zero responses are never classified.
func doubleThreshold(suppressed [][]float64, low, high float64, width, height int) (strong, weak [][]bool) {
	strong = NewMask(width, height)
	weak = NewMask(width, height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			val := suppressed[y][x]
			if val <= 0 {
				continue
			}
			if val >= high {
				strong[y][x] = true
			} else if val >= low {
				weak[y][x] = true
			}
		}
	}

	return strong, weak
}

// hysteresis performs edge tracking by hysteresis. Weak edges are kept only
// if they are 8-connected, possibly through other weak edges, to a strong
// edge.
func hysteresis(strong, weak [][]bool, width, height int) [][]bool {
	edges := NewMask(width, height)

	type point struct{ x, y int }
	var stack []point

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if strong[y][x] {
				edges[y][x] = true
				stack = append(stack, point{x, y})
			}
		}
	}

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				nx, ny := p.x+dx, p.y+dy
				if nx < 0 || ny < 0 || nx >= width || ny >= height {
					continue
				}
				if weak[ny][nx] && !edges[ny][nx] {
					edges[ny][nx] = true
					stack = append(stack, point{nx, ny})
				}
			}
		}
	}

	return edges
}
