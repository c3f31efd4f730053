// Package img2braille converts raster images into Unicode braille text art.
//
// Each braille glyph covers a block of 2x4 pixels. The pipeline reduces the
// image to luminance, binarizes it with a global threshold, Sauvola's local
// threshold or Canny edge detection, and packs every block into one of the
// 256 patterns from U+2800 to U+28FF.
//
// Conversions are pure: a call depends only on its Request and keeps no
// state afterwards, so a Converter can be shared between goroutines.
package img2braille

import (
	"image"
	"time"

	"github.com/rs/zerolog"
	"github.com/wbrown/img2braille/imageutil"
)

// Request is one conversion job: an interleaved RGB or RGBA pixel buffer,
// its width, and the options to apply. Channels may be 0 to infer the
// layout from the buffer length.
type Request struct {
	Pixels   []byte
	Width    int
	Channels int
	Options  Options
}

// Result is the text produced by a conversion.
type Result struct {
	Text    string
	Length  int // characters in Text, line breaks included
	Rows    int // lines of glyphs, height/4
	Columns int // glyphs per line, width/2
	Dots    int // raised dots across the whole text
}

// Converter runs conversions. It holds no per-call state.
type Converter struct {
	logger zerolog.Logger
}

// ConverterOption is a functional option for configuring a Converter.
type ConverterOption func(*Converter)

// WithLogger sets the logger used for per-conversion debug output.
func WithLogger(logger zerolog.Logger) ConverterOption {
	return func(c *Converter) {
		c.logger = logger
	}
}

// NewConverter creates a Converter. Without options it logs nothing.
func NewConverter(opts ...ConverterOption) *Converter {
	c := &Converter{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var defaultConverter = NewConverter()

// Convert runs req through the default converter.
func Convert(req Request) (Result, error) {
	return defaultConverter.Convert(req)
}

// ConvertImage runs img through the default converter.
func ConvertImage(img image.Image, opts Options) (Result, error) {
	return defaultConverter.ConvertImage(img, opts)
}

// Convert validates the request and converts it. Options are checked before
// any pixel is read; on error no partial text is returned.
func (c *Converter) Convert(req Request) (Result, error) {
	if err := req.Options.Validate(); err != nil {
		return Result{}, err
	}
	frame, err := NewFrame(req.Pixels, req.Width, req.Channels)
	if err != nil {
		return Result{}, err
	}
	return c.convertFrame(frame, req.Options), nil
}

// ConvertImage converts an image whose dimensions already fit the braille
// grid; use imageutil.PrepareForBraille to resample arbitrary images.
func (c *Converter) ConvertImage(img image.Image, opts Options) (Result, error) {
	if err := opts.Validate(); err != nil {
		return Result{}, err
	}
	frame, err := FrameFromImage(img)
	if err != nil {
		return Result{}, err
	}
	return c.convertFrame(frame, opts), nil
}

// ConvertFrame converts an already validated frame.
func (c *Converter) ConvertFrame(frame *Frame, opts Options) (Result, error) {
	if err := opts.Validate(); err != nil {
		return Result{}, err
	}
	return c.convertFrame(frame, opts), nil
}

// Mask returns the binary mask a conversion of frame would encode, where
// true is a raised dot.
func (c *Converter) Mask(frame *Frame, opts Options) ([][]bool, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return binarize(frame, opts), nil
}

func (c *Converter) convertFrame(frame *Frame, opts Options) Result {
	start := time.Now()

	mask := binarize(frame, opts)
	cells := Encode(mask, opts.MonospaceCorrection)
	text, length := Format(cells)

	res := Result{
		Text:    text,
		Length:  length,
		Rows:    frame.Height() / CellHeight,
		Columns: frame.Width() / CellWidth,
		Dots:    imageutil.CountMask(mask),
	}

	c.logger.Debug().
		Int("width", frame.Width()).
		Int("height", frame.Height()).
		Str("mode", mode(opts)).
		Int("dots", res.Dots).
		Int("length", res.Length).
		Dur("elapsed", time.Since(start)).
		Msg("converted frame")

	return res
}

func binarize(frame *Frame, opts Options) [][]bool {
	lum := Luminance(frame, opts.GrayMethod, opts.GrayLevels)
	switch {
	case opts.Canny != nil:
		return EdgeMask(lum, *opts.Canny, opts.Invert)
	case opts.Adaptive != nil:
		return AdaptiveMask(lum, *opts.Adaptive, opts.Invert)
	default:
		return ThresholdMask(lum, opts.Threshold, opts.Invert)
	}
}

func mode(opts Options) string {
	switch {
	case opts.Canny != nil:
		return "canny"
	case opts.Adaptive != nil:
		return "adaptive"
	default:
		return "threshold"
	}
}
