package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/wbrown/img2braille/internal/config"
	"github.com/wbrown/img2braille/internal/observability"
)

var (
	cfgFile  string
	jsonOut  bool
	logLevel string
	noColor  bool

	cfg    *config.Config
	logger zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "img2braille",
	Short: "Convert images into Unicode braille text art",
	Long: `img2braille turns raster images into text made of braille patterns
(U+2800 to U+28FF). Every glyph covers a block of 2x4 pixels, binarized by a
global threshold, Sauvola's local threshold or Canny edge detection.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if noColor {
			color.NoColor = true
		}

		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return err
		}
		if logLevel != "" {
			cfg.Log.Level = logLevel
		}

		logger = observability.NewLogger(observability.LogConfig{
			Level:       cfg.Log.Level,
			Format:      cfg.Log.Format,
			Output:      os.Stderr,
			ServiceName: "img2braille",
		})
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "print results as JSON")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(serveCmd)
}
