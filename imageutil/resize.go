package imageutil

import (
	"image"
	"math"

	"golang.org/x/image/draw"
)

// Interpolation specifies the interpolation method for resizing.
type Interpolation int

const (
	// InterpolationArea uses Catmull-Rom for high-quality downscaling.
	// This is the closest equivalent to OpenCV's INTER_AREA.
	InterpolationArea Interpolation = iota

	// InterpolationLinear uses bilinear interpolation.
	// Equivalent to OpenCV's INTER_LINEAR.
	InterpolationLinear

	// InterpolationNearest uses nearest-neighbor interpolation.
	// Fastest but lowest quality.
	InterpolationNearest
)

func (interp Interpolation) scaler() draw.Scaler {
	switch interp {
	case InterpolationLinear:
		return draw.BiLinear
	case InterpolationNearest:
		return draw.NearestNeighbor
	default:
		// CatmullRom provides high quality for both up and down scaling
		return draw.CatmullRom
	}
}

// Resize resizes an RGBA image to the specified dimensions using the
// given interpolation method.
func Resize(img *RGBAImage, width, height int, interp Interpolation) *RGBAImage {
	dst := NewRGBAImage(width, height)
	interp.scaler().Scale(dst.RGBA, dst.Bounds(), img.RGBA, img.Bounds(), draw.Src, nil)
	return dst
}

// BrailleSize returns the pixel dimensions for rendering an image of
// srcW x srcH pixels as the given number of braille columns. The width is
// two pixels per column; the height keeps the aspect ratio and is rounded
// down to a whole number of four-pixel cell rows, never below one row.
func BrailleSize(srcW, srcH, columns int) (width, height int) {
	width = columns * 2
	if srcW <= 0 || srcH <= 0 {
		return width, 4
	}
	height = int(math.Round(float64(srcH) / float64(srcW) * float64(width)))
	height -= height % 4
	if height < 4 {
		height = 4
	}
	return width, height
}

// FlattenOnWhite composites img over an opaque white background so that
// transparent regions read as paper rather than ink.
func FlattenOnWhite(img image.Image) *RGBAImage {
	b := img.Bounds()
	dst := NewRGBAImage(b.Dx(), b.Dy())
	draw.Draw(dst.RGBA, dst.Bounds(), image.White, image.Point{}, draw.Src)
	draw.Draw(dst.RGBA, dst.Bounds(), img, b.Min, draw.Over)
	return dst
}
