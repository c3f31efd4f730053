// Package config provides configuration loading for the img2braille CLI and
// server. Values come from defaults, then an optional YAML file, then
// environment variables (a .env file in the working directory is honored).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/wbrown/img2braille"
	"github.com/wbrown/img2braille/imageutil"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "IMG2BRAILLE_"

// Config holds all configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Log        LogConfig        `yaml:"log"`
	Conversion ConversionConfig `yaml:"conversion"`
	Preview    PreviewConfig    `yaml:"preview"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host             string        `yaml:"host"`
	Port             int           `yaml:"port"`
	ReadTimeout      time.Duration `yaml:"read_timeout"`
	WriteTimeout     time.Duration `yaml:"write_timeout"`
	RequestTimeout   time.Duration `yaml:"request_timeout"`
	GracefulShutdown time.Duration `yaml:"graceful_shutdown"`
	MaxUploadBytes   int64         `yaml:"max_upload_bytes"`
	// MaxColumns bounds the resampled grid so a request cannot ask for an
	// arbitrarily large conversion.
	MaxColumns int `yaml:"max_columns"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json or console
}

// ConversionConfig holds defaults for conversions.
type ConversionConfig struct {
	Columns int                 `yaml:"columns"`
	Options img2braille.Options `yaml:"options"`
}

// PreviewConfig holds PNG preview settings.
type PreviewConfig struct {
	CellWidth  int    `yaml:"cell_width"`
	CellHeight int    `yaml:"cell_height"`
	FontPath   string `yaml:"font_path"`
}

// Load reads configuration from a YAML file, if path is set, and applies
// environment overrides.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, fmt.Errorf("apply environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:             "127.0.0.1",
			Port:             8088,
			ReadTimeout:      15 * time.Second,
			WriteTimeout:     30 * time.Second,
			RequestTimeout:   20 * time.Second,
			GracefulShutdown: 10 * time.Second,
			MaxUploadBytes:   16 << 20,
			MaxColumns:       500,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Conversion: ConversionConfig{
			Columns: 80,
			Options: img2braille.DefaultOptions(),
		},
		Preview: PreviewConfig{
			CellWidth:  8,
			CellHeight: 16,
		},
	}
}

// Addr returns the host:port the server listens on.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Server.MaxUploadBytes <= 0 {
		return fmt.Errorf("server.max_upload_bytes must be positive")
	}
	if c.Server.MaxColumns <= 0 {
		return fmt.Errorf("server.max_columns must be positive")
	}
	if c.Conversion.Columns <= 0 || c.Conversion.Columns > c.Server.MaxColumns {
		return fmt.Errorf("conversion.columns %d outside [1, %d]", c.Conversion.Columns, c.Server.MaxColumns)
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("log.format %q must be json or console", c.Log.Format)
	}
	if c.Preview.CellWidth <= 0 || c.Preview.CellHeight <= 0 {
		return fmt.Errorf("preview cell size must be positive")
	}
	if err := c.Conversion.Options.Validate(); err != nil {
		return fmt.Errorf("conversion.options: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) error {
	if v, ok := lookup("HOST"); ok {
		cfg.Server.Host = v
	}
	if err := envInt("PORT", &cfg.Server.Port); err != nil {
		return err
	}
	if err := envInt("MAX_COLUMNS", &cfg.Server.MaxColumns); err != nil {
		return err
	}
	if v, ok := lookup("LOG_LEVEL"); ok {
		cfg.Log.Level = v
	}
	if v, ok := lookup("LOG_FORMAT"); ok {
		cfg.Log.Format = v
	}
	if err := envInt("COLUMNS", &cfg.Conversion.Columns); err != nil {
		return err
	}
	if err := envInt("THRESHOLD", &cfg.Conversion.Options.Threshold); err != nil {
		return err
	}
	if v, ok := lookup("GRAY"); ok {
		method, err := imageutil.ParseGrayMethod(v)
		if err != nil {
			return fmt.Errorf("%sGRAY: %w", EnvPrefix, err)
		}
		cfg.Conversion.Options.GrayMethod = method
	}
	if v, ok := lookup("FONT"); ok {
		cfg.Preview.FontPath = v
	}
	return nil
}

func lookup(name string) (string, bool) {
	v, ok := os.LookupEnv(EnvPrefix + name)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func envInt(name string, dst *int) error {
	v, ok := lookup(name)
	if !ok {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s%s: %w", EnvPrefix, name, err)
	}
	*dst = n
	return nil
}
