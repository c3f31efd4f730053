package img2braille

import (
	"math"

	"github.com/wbrown/img2braille/imageutil"
	"rescribe.xyz/preproc"
)

// Luminance computes the brightness of every pixel of f as a value in
// [0, 1], using the given gray method. When levels is at least 2 the values
// are snapped to that many evenly spaced levels.
func Luminance(f *Frame, method imageutil.GrayMethod, levels int) [][]float64 {
	lum := make([][]float64, f.height)
	for y := 0; y < f.height; y++ {
		lum[y] = make([]float64, f.width)
		for x := 0; x < f.width; x++ {
			r, g, b := f.RGB(x, y)
			v := imageutil.GrayValue(method, r, g, b) / 255
			lum[y][x] = quantize(math.Min(math.Max(v, 0), 1), levels)
		}
	}
	return lum
}

// thresholdEpsilon absorbs rounding in the gray weights, well below one
// 8-bit step.
const thresholdEpsilon = 1e-6

// quantize snaps v in [0, 1] to the nearest of levels evenly spaced values.
func quantize(v float64, levels int) float64 {
	if levels < 2 {
		return v
	}
	steps := float64(levels - 1)
	return math.Round(v*steps) / steps
}

// ThresholdMask binarizes a luminance grid. A pixel gets a dot when its
// darkness, 1 - luminance, is at least threshold/255. With invert the
// luminance is complemented first, so bright pixels get the dots.
//
// The comparison is made on the 8-bit scale with a small tolerance so a
// darkness exactly equal to the threshold always counts.
func ThresholdMask(lum [][]float64, threshold int, invert bool) [][]bool {
	t := float64(threshold) - thresholdEpsilon
	mask := make([][]bool, len(lum))
	for y, row := range lum {
		mask[y] = make([]bool, len(row))
		for x, v := range row {
			if invert {
				v = 1 - v
			}
			mask[y][x] = 255*(1-v) >= t
		}
	}
	return mask
}

// AdaptiveMask binarizes a luminance grid with Sauvola's local threshold:
// pixels darker than their neighborhood get a dot.
func AdaptiveMask(lum [][]float64, opts AdaptiveOptions, invert bool) [][]bool {
	gray := imageutil.GrayFromFloat(lum)
	bin := preproc.IntegralSauvola(gray.Gray, opts.K, opts.Window)

	mask := make([][]bool, len(lum))
	for y, row := range lum {
		mask[y] = make([]bool, len(row))
		for x := range row {
			mask[y][x] = (bin.GrayAt(x, y).Y == 0) != invert
		}
	}
	return mask
}

// EdgeMask runs Canny edge detection on a luminance grid. Edge pixels get
// a dot; invert swaps edges and background.
func EdgeMask(lum [][]float64, opts CannyOptions, invert bool) [][]bool {
	edges := imageutil.Canny(lum, opts.Sigma, opts.Low, opts.High)
	if invert {
		for _, row := range edges {
			for x := range row {
				row[x] = !row[x]
			}
		}
	}
	return edges
}
