// Package gocv_compare contains tests that compare the pure Go image
// processing against gocv (OpenCV). These tests require OpenCV to be
// installed.
//
// Run with: cd imageutil/gocv_compare && go test -v
package gocv_compare

import (
	"image"
	"math"
	"testing"

	"github.com/wbrown/img2braille/imageutil"
	"gocv.io/x/gocv"
)

// gocvToRGBA converts a gocv.Mat (BGR) to RGBAImage (RGB).
func gocvToRGBA(mat gocv.Mat) *imageutil.RGBAImage {
	height, width := mat.Rows(), mat.Cols()
	img := imageutil.NewRGBAImage(width, height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			// gocv uses BGR format
			vec := mat.GetVecbAt(y, x)
			img.SetRGB(x, y, imageutil.RGB{R: vec[2], G: vec[1], B: vec[0]})
		}
	}
	return img
}

// gocvGrayToFloat converts a single-channel 8-bit gocv.Mat to a [0,1] grid.
func gocvGrayToFloat(mat gocv.Mat) [][]float64 {
	height, width := mat.Rows(), mat.Cols()
	grid := make([][]float64, height)
	for y := 0; y < height; y++ {
		grid[y] = make([]float64, width)
		for x := 0; x < width; x++ {
			grid[y][x] = float64(mat.GetUCharAt(y, x)) / 255
		}
	}
	return grid
}

// gocvMask converts an 8-bit edge map to a mask.
func gocvMask(mat gocv.Mat) [][]bool {
	height, width := mat.Rows(), mat.Cols()
	mask := imageutil.NewMask(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			mask[y][x] = mat.GetUCharAt(y, x) > 128
		}
	}
	return mask
}

// rgbaToGocv converts an RGBAImage to gocv.Mat (BGR).
func rgbaToGocv(img *imageutil.RGBAImage) gocv.Mat {
	mat := gocv.NewMatWithSize(img.Height(), img.Width(), gocv.MatTypeCV8UC3)

	for y := 0; y < img.Height(); y++ {
		for x := 0; x < img.Width(); x++ {
			c := img.GetRGB(x, y)
			// gocv uses BGR format
			mat.SetUCharAt(y, x*3, c.B)
			mat.SetUCharAt(y, x*3+1, c.G)
			mat.SetUCharAt(y, x*3+2, c.R)
		}
	}
	return mat
}

// grayToGocv converts a GrayImage to gocv.Mat (grayscale).
func grayToGocv(img *imageutil.GrayImage) gocv.Mat {
	mat := gocv.NewMatWithSize(img.Height(), img.Width(), gocv.MatTypeCV8U)

	for y := 0; y < img.Height(); y++ {
		for x := 0; x < img.Width(); x++ {
			mat.SetUCharAt(y, x, img.GrayAt(x, y).Y)
		}
	}
	return mat
}

// mseGrid returns the mean squared error of two grids on the 0-255 scale.
func mseGrid(a, b [][]float64) float64 {
	var sum float64
	n := 0
	for y := range a {
		for x := range a[y] {
			d := (a[y][x] - b[y][x]) * 255
			sum += d * d
			n++
		}
	}
	return sum / float64(n)
}

// mseRGB returns the mean squared error over all channels of two images.
func mseRGB(a, b *imageutil.RGBAImage) float64 {
	var sum float64
	for y := 0; y < a.Height(); y++ {
		for x := 0; x < a.Width(); x++ {
			ca, cb := a.GetRGB(x, y), b.GetRGB(x, y)
			for _, d := range []float64{
				float64(ca.R) - float64(cb.R),
				float64(ca.G) - float64(cb.G),
				float64(ca.B) - float64(cb.B),
			} {
				sum += d * d
			}
		}
	}
	return sum / float64(a.Width()*a.Height()*3)
}

func TestCompareGrayscaleConversion(t *testing.T) {
	img := imageutil.CreateEdgeImage(256, 256)
	for x := 0; x < 256; x++ {
		img.SetRGB(x, 10, imageutil.RGB{R: uint8(x), G: uint8(255 - x), B: 90})
	}
	mat := rgbaToGocv(img)
	defer mat.Close()

	// OpenCV's BGR2GRAY uses the same BT.601 weights as GrayLuminosity.
	grayMat := gocv.NewMat()
	defer grayMat.Close()
	gocv.CvtColor(mat, &grayMat, gocv.ColorBGRToGray)

	pureGo := imageutil.GrayToFloat(imageutil.ToGrayscale(img, imageutil.GrayLuminosity))

	mse := mseGrid(gocvGrayToFloat(grayMat), pureGo)
	t.Logf("Grayscale conversion MSE: %f", mse)

	// Allow small differences due to rounding
	if mse > 1.0 {
		t.Errorf("Grayscale MSE too high: %f (threshold: 1.0)", mse)
	}
}

func TestCompareGaussianBlur(t *testing.T) {
	for _, sigma := range []float64{0.8, 1.4, 2.5} {
		img := imageutil.CreateCheckerboardImage(128, 128, 16)
		gray := imageutil.ToGrayscale(img, imageutil.GrayLuminosity)
		grayMat := grayToGocv(gray)

		size := 2*int(math.Ceil(3*sigma)) + 1
		blurredMat := gocv.NewMat()
		gocv.GaussianBlur(grayMat, &blurredMat, image.Point{X: size, Y: size}, sigma, sigma, gocv.BorderReplicate)

		pureGo := imageutil.GaussianBlurFloat(imageutil.GrayToFloat(gray), sigma)
		mse := mseGrid(gocvGrayToFloat(blurredMat), pureGo)
		t.Logf("sigma=%v blur MSE: %f", sigma, mse)

		if mse > 1.0 {
			t.Errorf("sigma=%v: blur MSE too high: %f (threshold: 1.0)", sigma, mse)
		}
		grayMat.Close()
		blurredMat.Close()
	}
}

func TestCompareResize(t *testing.T) {
	testCases := []struct {
		name      string
		srcWidth  int
		srcHeight int
		dstWidth  int
		dstHeight int
		threshold float64
	}{
		{"Downscale 2x", 256, 256, 128, 128, 10.0},
		{"Downscale 4x", 256, 256, 64, 64, 15.0},
		{"Braille grid", 320, 240, 160, 120, 15.0},
		{"Arbitrary", 256, 256, 100, 76, 15.0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			img := imageutil.CreateGradientImage(tc.srcWidth, tc.srcHeight)
			mat := rgbaToGocv(img)
			defer mat.Close()

			resizedMat := gocv.NewMat()
			defer resizedMat.Close()
			gocv.Resize(mat, &resizedMat, image.Point{X: tc.dstWidth, Y: tc.dstHeight},
				0, 0, gocv.InterpolationArea)
			gocvResized := gocvToRGBA(resizedMat)

			pureGoResized := imageutil.Resize(img, tc.dstWidth, tc.dstHeight, imageutil.InterpolationArea)

			mse := mseRGB(gocvResized, pureGoResized)
			t.Logf("%s resize MSE: %f", tc.name, mse)

			if mse > tc.threshold {
				t.Errorf("Resize MSE too high: %f (threshold: %f)", mse, tc.threshold)
			}
		})
	}
}

func TestCompareCanny(t *testing.T) {
	testCases := []struct {
		name        string
		createImage func(int, int) *imageutil.RGBAImage
		minJaccard  float64
	}{
		// OpenCV takes absolute thresholds and blurs separately, so only
		// rough agreement is expected.
		{"Edges", imageutil.CreateEdgeImage, 0.4},
		{"Checkerboard", func(w, h int) *imageutil.RGBAImage {
			return imageutil.CreateCheckerboardImage(w, h, 32)
		}, 0.3},
	}

	const sigma, low, high = 1.4, 0.1, 0.3

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			img := tc.createImage(256, 256)
			gray := imageutil.ToGrayscale(img, imageutil.GrayLuminosity)
			lum := imageutil.GrayToFloat(gray)

			// Blur first, then scale the relative thresholds by the
			// strongest Sobel response so both sides agree on magnitudes.
			grayMat := grayToGocv(gray)
			defer grayMat.Close()
			size := 2*int(math.Ceil(3*sigma)) + 1
			blurredMat := gocv.NewMat()
			defer blurredMat.Close()
			gocv.GaussianBlur(grayMat, &blurredMat, image.Point{X: size, Y: size}, sigma, sigma, gocv.BorderReplicate)

			var peak float64
			for _, row := range imageutil.SobelMagnitude(imageutil.GaussianBlurFloat(lum, sigma)) {
				for _, v := range row {
					peak = math.Max(peak, v)
				}
			}
			peak *= 255

			edgesMat := gocv.NewMat()
			defer edgesMat.Close()
			gocv.Canny(blurredMat, &edgesMat, float32(low*peak), float32(high*peak))
			gocvEdges := gocvMask(edgesMat)

			pureGoEdges := imageutil.Canny(lum, sigma, low, high)

			jaccard := imageutil.CalculateJaccardIndex(gocvEdges, pureGoEdges)
			t.Logf("%s Canny Jaccard index: %f", tc.name, jaccard)
			t.Logf("Edge counts - gocv: %d, pureGo: %d",
				imageutil.CountMask(gocvEdges), imageutil.CountMask(pureGoEdges))

			if jaccard < tc.minJaccard {
				t.Errorf("Canny Jaccard too low: %f (min: %f)", jaccard, tc.minJaccard)
			}
		})
	}
}
