package imageutil

import "image"

// PrepareForBraille prepares an arbitrary image for braille conversion.
//
// The function:
//  1. Composites the image over white, so transparency becomes background
//  2. Resizes to columns*2 pixels wide, keeping the aspect ratio, with the
//     height rounded down to a multiple of 4 (see BrailleSize)
//
// The result always satisfies the frame contract of the converter: even
// width and a height divisible by four.
func PrepareForBraille(img image.Image, columns int, interp Interpolation) *RGBAImage {
	flat := FlattenOnWhite(img)
	width, height := BrailleSize(flat.Width(), flat.Height(), columns)
	if width == flat.Width() && height == flat.Height() {
		return flat
	}
	return Resize(flat, width, height, interp)
}
