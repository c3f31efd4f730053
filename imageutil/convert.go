package imageutil

import (
	"fmt"
	"strings"
)

// GrayMethod selects how a color pixel is reduced to a single gray value.
type GrayMethod int

const (
	// GrayLuminosity is the ITU-R BT.601 weighting:
	// Y = 0.299*R + 0.587*G + 0.114*B
	// This matches OpenCV's COLOR_BGR2GRAY.
	GrayLuminosity GrayMethod = iota
	// GrayAverage is the plain mean of the three channels.
	GrayAverage
	// GrayLightness is the midpoint of the largest and smallest channel.
	GrayLightness
	// GrayMax takes the brightest channel.
	GrayMax
	// GrayMin takes the darkest channel.
	GrayMin
)

var grayMethodNames = [...]string{
	GrayLuminosity: "luminosity",
	GrayAverage:    "average",
	GrayLightness:  "lightness",
	GrayMax:        "max",
	GrayMin:        "min",
}

// String returns the lowercase name of the method.
func (m GrayMethod) String() string {
	if m < 0 || int(m) >= len(grayMethodNames) {
		return fmt.Sprintf("GrayMethod(%d)", int(m))
	}
	return grayMethodNames[m]
}

// Valid reports whether m is one of the known methods.
func (m GrayMethod) Valid() bool {
	return m >= 0 && int(m) < len(grayMethodNames)
}

// ParseGrayMethod parses a method name, case-insensitively.
func ParseGrayMethod(name string) (GrayMethod, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range grayMethodNames {
		if n == name {
			return GrayMethod(i), nil
		}
	}
	return 0, fmt.Errorf("unknown gray method %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (m GrayMethod) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("unknown gray method %d", int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler so the method can be
// given by name in JSON and YAML.
func (m *GrayMethod) UnmarshalText(text []byte) error {
	parsed, err := ParseGrayMethod(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// GrayValue reduces one pixel to a gray value in [0, 255]. Alpha is not
// considered; callers flatten transparency beforehand.
func GrayValue(method GrayMethod, r, g, b uint8) float64 {
	switch method {
	case GrayAverage:
		return (float64(r) + float64(g) + float64(b)) / 3
	case GrayLightness:
		hi := max(r, g, b)
		lo := min(r, g, b)
		return (float64(hi) + float64(lo)) / 2
	case GrayMax:
		return float64(max(r, g, b))
	case GrayMin:
		return float64(min(r, g, b))
	default:
		return 0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)
	}
}

// ToGrayscale converts an RGBA image to grayscale using the given method.
// The conversion path works on float grids instead; this 8-bit form is for
// comparing against OpenCV.
func ToGrayscale(img *RGBAImage, method GrayMethod) *GrayImage {
	width, height := img.Width(), img.Height()
	gray := NewGrayImage(width, height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := img.RGBAAt(x, y)
			gray.Pix[y*gray.Stride+x] = clampUint8(GrayValue(method, c.R, c.G, c.B))
		}
	}

	return gray
}

// GrayToFloat converts a gray image to a grid of values in [0, 1]. It is
// the inverse of GrayFromFloat, used by the OpenCV parity tests.
func GrayToFloat(gray *GrayImage) [][]float64 {
	width, height := gray.Width(), gray.Height()
	grid := make([][]float64, height)
	for y := 0; y < height; y++ {
		grid[y] = make([]float64, width)
		for x := 0; x < width; x++ {
			grid[y][x] = float64(gray.Pix[y*gray.Stride+x]) / 255
		}
	}
	return grid
}
