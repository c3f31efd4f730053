package main

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wbrown/img2braille"
	"github.com/wbrown/img2braille/imageutil"
)

// newFlagCmd returns a command with the convert flags bound to a fresh
// struct, parsed from args.
func newFlagCmd(t *testing.T, args ...string) (*cobra.Command, convertFlags) {
	t.Helper()
	var fl convertFlags
	cmd := &cobra.Command{Use: "test"}
	f := cmd.Flags()
	f.BoolVarP(&fl.invert, "invert", "i", false, "")
	f.StringVarP(&fl.gray, "gray", "g", "", "")
	f.BoolVar(&fl.monoFix, "monospace-correction", false, "")
	f.IntVarP(&fl.threshold, "threshold", "t", img2braille.DefaultThreshold, "")
	f.IntVar(&fl.levels, "levels", 0, "")
	f.Float64VarP(&fl.sigma, "sigma", "s", 0, "")
	f.Float64VarP(&fl.low, "low", "l", 0, "")
	f.Float64VarP(&fl.high, "high", "H", 0, "")
	f.IntVar(&fl.adaptiveWindow, "adaptive-window", 0, "")
	f.Float64Var(&fl.adaptiveK, "adaptive-k", 0.3, "")
	require.NoError(t, f.Parse(args))
	return cmd, fl
}

func TestBuildOptionsDefaults(t *testing.T) {
	cmd, fl := newFlagCmd(t)
	opts, err := buildOptions(cmd, img2braille.DefaultOptions(), fl)
	require.NoError(t, err)
	assert.Equal(t, img2braille.DefaultOptions(), opts)
}

func TestBuildOptionsOverrides(t *testing.T) {
	cmd, fl := newFlagCmd(t, "-i", "--monospace-correction", "-t", "90", "-g", "average", "--levels", "4")
	opts, err := buildOptions(cmd, img2braille.DefaultOptions(), fl)
	require.NoError(t, err)
	assert.True(t, opts.Invert)
	assert.True(t, opts.MonospaceCorrection)
	assert.Equal(t, 90, opts.Threshold)
	assert.Equal(t, imageutil.GrayAverage, opts.GrayMethod)
	assert.Equal(t, 4, opts.GrayLevels)
	assert.Nil(t, opts.Canny)
}

func TestBuildOptionsCannyNeedsAllThree(t *testing.T) {
	cmd, fl := newFlagCmd(t, "-s", "1.4", "-l", "0.1")
	opts, err := buildOptions(cmd, img2braille.DefaultOptions(), fl)
	require.NoError(t, err)
	assert.Nil(t, opts.Canny)

	cmd, fl = newFlagCmd(t, "-s", "1.4", "-l", "0.1", "-H", "0.3")
	opts, err = buildOptions(cmd, img2braille.DefaultOptions(), fl)
	require.NoError(t, err)
	require.NotNil(t, opts.Canny)
	assert.Equal(t, img2braille.CannyOptions{Sigma: 1.4, Low: 0.1, High: 0.3}, *opts.Canny)
}

func TestBuildOptionsRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"threshold", []string{"-t", "256"}},
		{"gray", []string{"-g", "sepia"}},
		{"window", []string{"--adaptive-window", "4"}},
		{"canny and adaptive", []string{"-s", "1", "-l", "0.1", "-H", "0.2", "--adaptive-window", "15"}},
		{"low above high", []string{"-s", "1", "-l", "0.5", "-H", "0.2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, fl := newFlagCmd(t, tt.args...)
			_, err := buildOptions(cmd, img2braille.DefaultOptions(), fl)
			assert.Error(t, err)
		})
	}
}

func TestBuildOptionsAdaptiveReplacesConfiguredCanny(t *testing.T) {
	base := img2braille.DefaultOptions()
	base.Canny = &img2braille.CannyOptions{Sigma: 1, Low: 0.1, High: 0.3}

	cmd, fl := newFlagCmd(t, "--adaptive-window", "15")
	opts, err := buildOptions(cmd, base, fl)
	require.NoError(t, err)
	assert.Nil(t, opts.Canny)
	require.NotNil(t, opts.Adaptive)
	assert.Equal(t, 15, opts.Adaptive.Window)
	assert.NotNil(t, base.Canny)
}
