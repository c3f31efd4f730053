package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/wbrown/img2braille"
	"github.com/wbrown/img2braille/imageutil"
)

type convertFlags struct {
	width     int
	invert    bool
	gray      string
	monoFix   bool
	threshold int
	levels    int

	sigma float64
	low   float64
	high  float64

	adaptiveWindow int
	adaptiveK      float64

	pngPath   string
	edgesPath string
	fontPath  string
}

var convFlags convertFlags

var convertCmd = &cobra.Command{
	Use:   "convert <image> [dest]",
	Short: "Convert an image to braille text",
	Long: `Convert an image to braille text. The text is written to dest, or to
standard output when dest is omitted.

Edge detection is enabled when --sigma, --low and --high are all given.
Sauvola thresholding is enabled by --adaptive-window.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runConvert,
}

func init() {
	f := convertCmd.Flags()
	f.IntVarP(&convFlags.width, "width", "w", 0, "output width in braille columns (default from config)")
	f.BoolVarP(&convFlags.invert, "invert", "i", false, "swap dots and blanks")
	f.StringVarP(&convFlags.gray, "gray", "g", "", "gray method: luminosity, average, lightness, max, min")
	f.BoolVar(&convFlags.monoFix, "monospace-correction", false, "emit a single dot instead of the blank pattern, for fonts that narrow U+2800")
	f.IntVarP(&convFlags.threshold, "threshold", "t", img2braille.DefaultThreshold, "darkness threshold in [0, 255]")
	f.IntVar(&convFlags.levels, "levels", 0, "quantize luminance to this many levels (0 disables)")
	f.Float64VarP(&convFlags.sigma, "sigma", "s", 0, "Canny Gaussian sigma")
	f.Float64VarP(&convFlags.low, "low", "l", 0, "Canny low threshold, fraction of the strongest gradient")
	f.Float64VarP(&convFlags.high, "high", "H", 0, "Canny high threshold, fraction of the strongest gradient")
	f.IntVar(&convFlags.adaptiveWindow, "adaptive-window", 0, "Sauvola window size (odd, >= 3)")
	f.Float64Var(&convFlags.adaptiveK, "adaptive-k", 0.3, "Sauvola k parameter")
	f.StringVar(&convFlags.pngPath, "png", "", "also write a PNG preview of the text")
	f.StringVar(&convFlags.edgesPath, "edges", "", "also write the binary dot mask as PNG")
	f.StringVar(&convFlags.fontPath, "font", "", "TrueType font for the PNG preview")
}

// buildOptions overlays the flags that were set on the configured defaults.
func buildOptions(cmd *cobra.Command, base img2braille.Options, fl convertFlags) (img2braille.Options, error) {
	opts := base
	changed := cmd.Flags().Changed

	if changed("invert") {
		opts.Invert = fl.invert
	}
	if changed("monospace-correction") {
		opts.MonospaceCorrection = fl.monoFix
	}
	if changed("threshold") {
		opts.Threshold = fl.threshold
	}
	if changed("levels") {
		opts.GrayLevels = fl.levels
	}
	if fl.gray != "" {
		m, err := imageutil.ParseGrayMethod(fl.gray)
		if err != nil {
			return opts, err
		}
		opts.GrayMethod = m
	}
	if changed("sigma") && changed("low") && changed("high") {
		opts.Canny = &img2braille.CannyOptions{Sigma: fl.sigma, Low: fl.low, High: fl.high}
		opts.Adaptive = nil
	}
	if changed("adaptive-window") {
		opts.Adaptive = &img2braille.AdaptiveOptions{Window: fl.adaptiveWindow, K: fl.adaptiveK}
		opts.Canny = nil
	}
	return opts, opts.Validate()
}

func runConvert(cmd *cobra.Command, args []string) error {
	opts, err := buildOptions(cmd, cfg.Conversion.Options, convFlags)
	if err != nil {
		return err
	}
	columns := cfg.Conversion.Columns
	if convFlags.width > 0 {
		columns = convFlags.width
	}

	start := time.Now()
	img, err := imageutil.LoadImage(args[0])
	if err != nil {
		return err
	}
	prepared := imageutil.PrepareForBraille(img, columns, imageutil.InterpolationArea)
	logger.Debug().
		Str("input", args[0]).
		Int("columns", columns).
		Int("width", prepared.Width()).
		Int("height", prepared.Height()).
		Msg("prepared image")

	converter := img2braille.NewConverter(img2braille.WithLogger(logger))
	frame, err := img2braille.FrameFromImage(prepared)
	if err != nil {
		return err
	}
	res, err := converter.ConvertFrame(frame, opts)
	if err != nil {
		return err
	}

	if convFlags.edgesPath != "" {
		mask, err := converter.Mask(frame, opts)
		if err != nil {
			return err
		}
		if err := imageutil.SaveMask(mask, convFlags.edgesPath); err != nil {
			return err
		}
		status("wrote mask %s", convFlags.edgesPath)
	}

	if convFlags.pngPath != "" {
		if err := writePreview(res.Text, convFlags.pngPath); err != nil {
			return err
		}
		status("wrote preview %s", convFlags.pngPath)
	}

	if err := writeResult(cmd, args, res); err != nil {
		return err
	}
	logger.Info().
		Int("rows", res.Rows).
		Int("columns", res.Columns).
		Int("dots", res.Dots).
		Dur("elapsed", time.Since(start)).
		Msg("conversion complete")
	return nil
}

func writePreview(text, path string) error {
	fontPath := convFlags.fontPath
	if fontPath == "" {
		fontPath = cfg.Preview.FontPath
	}
	popts := img2braille.PreviewOptions{
		CellWidth:  cfg.Preview.CellWidth,
		CellHeight: cfg.Preview.CellHeight,
	}
	if fontPath != "" {
		f, err := img2braille.LoadFont(fontPath)
		if err != nil {
			return err
		}
		popts.Font = f
	}
	preview, err := img2braille.RenderPreview(text, popts)
	if err != nil {
		return err
	}
	return imageutil.SavePNG(preview, path)
}

type jsonResult struct {
	Text    string `json:"text"`
	Length  int    `json:"length"`
	Rows    int    `json:"rows"`
	Columns int    `json:"columns"`
	Dots    int    `json:"dots"`
}

func writeResult(cmd *cobra.Command, args []string, res img2braille.Result) error {
	out := cmd.OutOrStdout()
	if len(args) == 2 {
		file, err := os.Create(args[1])
		if err != nil {
			return fmt.Errorf("failed to create output: %w", err)
		}
		defer file.Close()
		out = file
	}

	if jsonOut {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(jsonResult(res))
	}
	if _, err := fmt.Fprintln(out, res.Text); err != nil {
		return err
	}
	if len(args) == 2 {
		status("wrote %d characters to %s", res.Length, args[1])
	}
	return nil
}

func status(format string, args ...any) {
	color.New(color.FgGreen).Fprintf(os.Stderr, "✓ ")
	fmt.Fprintf(os.Stderr, format+"\n", args...)
}
