package img2braille

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"os"
	"strings"

	"github.com/golang/freetype"
	"github.com/golang/freetype/raster"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// PreviewOptions controls RenderPreview.
type PreviewOptions struct {
	// CellWidth and CellHeight are the pixel size of one glyph.
	// Zero values default to 8 x 16.
	CellWidth  int
	CellHeight int

	Foreground color.Color // default black
	Background color.Color // default white

	// Font, when set, draws the text with a TrueType font instead of
	// rasterizing the dots geometrically. The font must cover the
	// braille block.
	Font *truetype.Font
}

func (o PreviewOptions) withDefaults() PreviewOptions {
	if o.CellWidth <= 0 {
		o.CellWidth = 8
	}
	if o.CellHeight <= 0 {
		o.CellHeight = 16
	}
	if o.Foreground == nil {
		o.Foreground = color.Black
	}
	if o.Background == nil {
		o.Background = color.White
	}
	return o
}

// LoadFont loads a TrueType font from file.
func LoadFont(path string) (*truetype.Font, error) {
	fontBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read font: %w", err)
	}
	f, err := freetype.ParseFont(fontBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	return f, nil
}

// RenderPreview draws braille text into an image, one cell per glyph.
// Lines may differ in length; the image is as wide as the longest.
func RenderPreview(text string, opts PreviewOptions) (*image.RGBA, error) {
	opts = opts.withDefaults()

	lines := strings.Split(text, "\n")
	cols := 0
	for _, line := range lines {
		cols = max(cols, len([]rune(line)))
	}
	img := image.NewRGBA(image.Rect(0, 0, max(cols, 1)*opts.CellWidth, len(lines)*opts.CellHeight))
	draw.Draw(img, img.Bounds(), image.NewUniform(opts.Background), image.Point{}, draw.Src)

	if opts.Font != nil {
		return img, drawWithFont(img, lines, opts)
	}
	drawDots(img, lines, opts)
	return img, nil
}

// drawDots rasterizes every raised dot as a filled circle.
func drawDots(img *image.RGBA, lines []string, opts PreviewOptions) {
	b := img.Bounds()
	r := raster.NewRasterizer(b.Dx(), b.Dy())
	r.UseNonZeroWinding = true

	pitchX := float64(opts.CellWidth) / CellWidth
	pitchY := float64(opts.CellHeight) / CellHeight
	radius := 0.35 * math.Min(pitchX, pitchY)

	for row, line := range lines {
		for col, ch := range []rune(line) {
			for dy := 0; dy < CellHeight; dy++ {
				for dx := 0; dx < CellWidth; dx++ {
					if !DotAt(ch, dy, dx) {
						continue
					}
					cx := float64(col*opts.CellWidth) + (float64(dx)+0.5)*pitchX
					cy := float64(row*opts.CellHeight) + (float64(dy)+0.5)*pitchY
					addCircle(r, cx, cy, radius)
				}
			}
		}
	}

	painter := raster.NewRGBAPainter(img)
	painter.SetColor(opts.Foreground)
	r.Rasterize(painter)
}

// addCircle appends a closed circle approximated by eight quadratic
// Bézier arcs.
func addCircle(r *raster.Rasterizer, cx, cy, radius float64) {
	const segments = 8
	step := 2 * math.Pi / segments
	ctrl := radius / math.Cos(step/2)
	pt := func(angle, dist float64) fixed.Point26_6 {
		return fixed.Point26_6{
			X: fixed.Int26_6(math.Round((cx + dist*math.Cos(angle)) * 64)),
			Y: fixed.Int26_6(math.Round((cy + dist*math.Sin(angle)) * 64)),
		}
	}

	r.Start(pt(0, radius))
	for i := 0; i < segments; i++ {
		a := float64(i) * step
		r.Add2(pt(a+step/2, ctrl), pt(a+step, radius))
	}
}

// drawWithFont draws each line with a TrueType font sized to the cell.
func drawWithFont(img *image.RGBA, lines []string, opts PreviewOptions) error {
	size := float64(opts.CellHeight) * 0.8

	ctx := freetype.NewContext()
	ctx.SetDPI(72)
	ctx.SetFont(opts.Font)
	ctx.SetFontSize(size)
	ctx.SetClip(img.Bounds())
	ctx.SetDst(img)
	ctx.SetSrc(image.NewUniform(opts.Foreground))
	ctx.SetHinting(font.HintingFull)

	// Baseline sits a fifth of the cell above its bottom edge.
	baseline := opts.CellHeight - opts.CellHeight/5
	for row, line := range lines {
		pt := freetype.Pt(0, row*opts.CellHeight+baseline)
		if _, err := ctx.DrawString(line, pt); err != nil {
			return fmt.Errorf("failed to draw line %d: %w", row, err)
		}
	}
	return nil
}
