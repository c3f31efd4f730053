package img2braille

import (
	"math"

	"github.com/wbrown/img2braille/imageutil"
)

// OptionsVersion is the current version of the Options layout.
const OptionsVersion = 1

// DefaultThreshold splits the 8-bit gray range in half.
const DefaultThreshold = 128

// Options controls a single conversion. The zero value is usable but has
// a threshold of 0, which marks every pixel; start from DefaultOptions.
type Options struct {
	// Version of this layout. 0 is read as OptionsVersion.
	Version int `json:"version,omitempty" yaml:"version,omitempty"`

	// Invert swaps dots and blanks.
	Invert bool `json:"invert" yaml:"invert"`

	// MonospaceCorrection emits U+2804 (a single dot) instead of the blank
	// pattern U+2800, for renderers that do not give the blank pattern a
	// full cell width.
	MonospaceCorrection bool `json:"monospace" yaml:"monospace"`

	// GrayMethod reduces RGB to a gray value.
	GrayMethod imageutil.GrayMethod `json:"gray" yaml:"gray"`

	// GrayLevels quantizes luminance into this many evenly spaced levels
	// before binarization. 0 and 1 disable quantization.
	GrayLevels int `json:"grayLevels,omitempty" yaml:"gray_levels,omitempty"`

	// Threshold in [0, 255]: a dot is drawn where a pixel is at least this
	// dark. Raising it draws fewer dots.
	Threshold int `json:"threshold" yaml:"threshold"`

	// Canny, when set, replaces thresholding with edge detection.
	Canny *CannyOptions `json:"canny,omitempty" yaml:"canny,omitempty"`

	// Adaptive, when set, replaces the global threshold with Sauvola's
	// local threshold.
	Adaptive *AdaptiveOptions `json:"adaptive,omitempty" yaml:"adaptive,omitempty"`
}

// CannyOptions parameterizes edge detection.
type CannyOptions struct {
	// Sigma is the Gaussian blur standard deviation, > 0.
	Sigma float64 `json:"sigma" yaml:"sigma"`
	// Low and High are hysteresis thresholds as fractions of the
	// strongest gradient, 0 <= Low <= High <= 1.
	Low  float64 `json:"low" yaml:"low"`
	High float64 `json:"high" yaml:"high"`
}

// AdaptiveOptions parameterizes Sauvola binarization.
type AdaptiveOptions struct {
	// Window is the odd side length of the local window, >= 3.
	Window int `json:"window" yaml:"window"`
	// K weights the local standard deviation, in (0, 1].
	K float64 `json:"k" yaml:"k"`
}

// DefaultOptions returns threshold-based options with the luminosity gray
// method and a mid-range threshold.
func DefaultOptions() Options {
	return Options{
		Version:    OptionsVersion,
		GrayMethod: imageutil.GrayLuminosity,
		Threshold:  DefaultThreshold,
	}
}

// Clone returns a copy of o that shares no pointers with it, so decoding
// into the copy leaves o untouched.
func (o Options) Clone() Options {
	if o.Canny != nil {
		c := *o.Canny
		o.Canny = &c
	}
	if o.Adaptive != nil {
		a := *o.Adaptive
		o.Adaptive = &a
	}
	return o
}

// CannyFromSliders converts 0-100 slider positions into CannyOptions:
// sigma is divided by 10, the thresholds by 100.
func CannyFromSliders(sigma, low, high int) *CannyOptions {
	return &CannyOptions{
		Sigma: float64(sigma) / 10,
		Low:   float64(low) / 100,
		High:  float64(high) / 100,
	}
}

// Validate checks every option against its range.
func (o Options) Validate() error {
	if o.Version != 0 && o.Version != OptionsVersion {
		return paramError("version", "unsupported options version %d", o.Version)
	}
	if !o.GrayMethod.Valid() {
		return paramError("gray", "unknown gray method %d", int(o.GrayMethod))
	}
	if o.GrayLevels < 0 || o.GrayLevels > 256 {
		return paramError("grayLevels", "%d outside [0, 256]", o.GrayLevels)
	}
	if o.Threshold < 0 || o.Threshold > 255 {
		return paramError("threshold", "%d outside [0, 255]", o.Threshold)
	}
	if o.Canny != nil && o.Adaptive != nil {
		return paramError("adaptive", "cannot be combined with canny")
	}
	if o.Canny != nil {
		if err := o.Canny.Validate(); err != nil {
			return err
		}
	}
	if o.Adaptive != nil {
		if err := o.Adaptive.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks the Canny parameters.
func (c CannyOptions) Validate() error {
	if !(c.Sigma > 0) || math.IsInf(c.Sigma, 0) {
		return paramError("canny.sigma", "%v must be positive", c.Sigma)
	}
	if !(c.Low >= 0 && c.Low <= 1) {
		return paramError("canny.low", "%v outside [0, 1]", c.Low)
	}
	if !(c.High >= 0 && c.High <= 1) {
		return paramError("canny.high", "%v outside [0, 1]", c.High)
	}
	if c.Low > c.High {
		return paramError("canny.low", "%v exceeds high threshold %v", c.Low, c.High)
	}
	return nil
}

// Validate checks the Sauvola parameters.
func (a AdaptiveOptions) Validate() error {
	if a.Window < 3 || a.Window%2 == 0 {
		return paramError("adaptive.window", "%d must be odd and at least 3", a.Window)
	}
	if !(a.K > 0 && a.K <= 1) {
		return paramError("adaptive.k", "%v outside (0, 1]", a.K)
	}
	return nil
}
