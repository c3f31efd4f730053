package img2braille

import (
	"image"

	"github.com/wbrown/img2braille/imageutil"
)

// Frame is a validated, immutable pixel buffer of interleaved RGB or RGBA
// bytes in row-major order. Its width is even and its height a multiple
// of four, so it partitions exactly into braille cells.
type Frame struct {
	width    int
	height   int
	channels int
	pix      []byte
}

// NewFrame validates pix against width and channels and returns a frame
// holding a private copy of the bytes. The height is derived from the
// buffer length. A channels value of 0 infers the layout, preferring RGBA
// over RGB when both fit.
func NewFrame(pix []byte, width, channels int) (*Frame, error) {
	if width <= 0 {
		return nil, dimensionError("width", "%d must be positive", width)
	}
	if width%2 != 0 {
		return nil, dimensionError("width", "%d is not even", width)
	}

	switch channels {
	case 3, 4:
	case 0:
		channels = inferChannels(len(pix), width)
		if channels == 0 {
			return nil, mismatchError("%d bytes fit neither RGBA nor RGB rows of width %d", len(pix), width)
		}
	default:
		return nil, paramError("channels", "%d must be 3 or 4", channels)
	}

	rowBytes := width * channels
	if len(pix)%rowBytes != 0 {
		return nil, mismatchError("%d bytes is not a whole number of %d-byte rows (width %d, %d channels)",
			len(pix), rowBytes, width, channels)
	}
	height := len(pix) / rowBytes
	if height == 0 {
		return nil, dimensionError("height", "image is empty")
	}
	if height%4 != 0 {
		return nil, dimensionError("height", "%d is not a multiple of 4", height)
	}

	own := make([]byte, len(pix))
	copy(own, pix)
	return &Frame{width: width, height: height, channels: channels, pix: own}, nil
}

// inferChannels picks 4 or 3 channels for a buffer, or 0 if neither gives
// whole rows. RGBA wins when the derived heights of both are valid.
func inferChannels(n, width int) int {
	if n == 0 {
		return 4
	}
	fallback := 0
	for _, ch := range []int{4, 3} {
		rowBytes := width * ch
		if n%rowBytes != 0 {
			continue
		}
		if (n/rowBytes)%4 == 0 {
			return ch
		}
		if fallback == 0 {
			fallback = ch
		}
	}
	return fallback
}

// FrameFromImage builds an RGBA frame from any image. The image must
// already have braille-compatible dimensions; see
// imageutil.PrepareForBraille.
func FrameFromImage(img image.Image) (*Frame, error) {
	rgba := imageutil.RGBAImageFromImage(img)
	width, height := rgba.Width(), rgba.Height()
	pix := make([]byte, 0, width*height*4)
	for y := 0; y < height; y++ {
		off := y * rgba.Stride
		pix = append(pix, rgba.Pix[off:off+width*4]...)
	}
	return NewFrame(pix, width, 4)
}

// Width returns the frame width in pixels.
func (f *Frame) Width() int { return f.width }

// Height returns the frame height in pixels.
func (f *Frame) Height() int { return f.height }

// Channels returns the number of bytes per pixel.
func (f *Frame) Channels() int { return f.channels }

// RGB returns the color channels of the pixel at (x, y), ignoring alpha.
func (f *Frame) RGB(x, y int) (r, g, b uint8) {
	i := (y*f.width + x) * f.channels
	return f.pix[i], f.pix[i+1], f.pix[i+2]
}
