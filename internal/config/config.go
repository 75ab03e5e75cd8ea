// Package config loads the scanner configuration from a JSON file with
// environment overrides, and watches the file for live retuning.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gaochangyu/qrcode-positioning/internal/decode"
	"github.com/gaochangyu/qrcode-positioning/internal/scanner"

	"github.com/joho/godotenv"
)

const (
	appDir     = "qrcode-positioning"
	configFile = "config.json"

	// EnvPrefix starts every environment override.
	EnvPrefix = "QRPOS_"
)

// Camera selects and sizes the capture device.
type Camera struct {
	Device int `json:"device"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Log configures logging.New.
type Log struct {
	Level string `json:"level"`
	File  string `json:"file"`
}

// Config is the complete runtime configuration.
type Config struct {
	Scanner scanner.Params `json:"scanner"`
	Decoder string         `json:"decoder"`
	Camera  Camera         `json:"camera"`
	Log     Log            `json:"log"`
	Debug   bool           `json:"debug"` // show debug windows

	path string
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Scanner: scanner.DefaultParams(),
		Decoder: decode.DefaultBackend,
		Camera:  Camera{Device: 0, Width: 640, Height: 480},
		Log:     Log{Level: "info"},
	}
}

// DefaultPath returns ~/.config/qrcode-positioning/config.json.
func DefaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(configDir, appDir, configFile)
}

// Load reads the configuration at path over the defaults, then applies
// QRPOS_* environment overrides. A missing file yields the defaults.
// An empty path means DefaultPath.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}
	c, err := readFile(path)
	if err != nil {
		return nil, err
	}
	if err := c.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return c, nil
}

func readFile(path string) (*Config, error) {
	c := Default()
	c.path = path

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := json.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return c, nil
}

// LoadDotEnv loads variables from .env files into the process environment
// without overriding variables already set. Missing files are skipped.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

// ApplyEnv overrides fields from QRPOS_* variables found by lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	get := func(name string) (string, bool) {
		v, ok := lookup(EnvPrefix + name)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	var errs []error
	setInt := func(name string, dst *int) {
		if v, ok := get(name); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, name, err))
				return
			}
			*dst = n
		}
	}
	setFloat := func(name string, dst *float64) {
		if v, ok := get(name); ok {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, name, err))
				return
			}
			*dst = f
		}
	}
	setBool := func(name string, dst *bool) {
		if v, ok := get(name); ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, name, err))
				return
			}
			*dst = b
		}
	}
	setString := func(name string, dst *string) {
		if v, ok := get(name); ok {
			*dst = v
		}
	}

	setString("DECODER", &c.Decoder)
	setInt("CAMERA", &c.Camera.Device)
	setInt("CAMERA_WIDTH", &c.Camera.Width)
	setInt("CAMERA_HEIGHT", &c.Camera.Height)
	setString("LOG_LEVEL", &c.Log.Level)
	setString("LOG_FILE", &c.Log.File)
	setBool("DEBUG", &c.Debug)

	setFloat("CANNY_LOW", &c.Scanner.CannyLow)
	setFloat("CANNY_HIGH", &c.Scanner.CannyHigh)
	setInt("BLUR_KERNEL", &c.Scanner.BlurKernel)
	setFloat("BLUR_SIGMA", &c.Scanner.BlurSigma)
	setFloat("BINARIZE_THRESHOLD", &c.Scanner.BinarizeThreshold)
	setBool("ADAPTIVE", &c.Scanner.Adaptive)
	setFloat("TIMING_THRESHOLD", &c.Scanner.TimingThreshold)
	setInt("MIN_DEPTH", &c.Scanner.MinDepth)
	setInt("MARGIN", &c.Scanner.Margin)
	setBool("CLOSE_EDGES", &c.Scanner.CloseEdges)

	return errors.Join(errs...)
}

// Validate checks the decoder name, camera size and scanner parameters.
func (c *Config) Validate() error {
	var errs []error
	if _, err := decode.New(c.Decoder); err != nil {
		errs = append(errs, err)
	}
	if c.Camera.Width <= 0 || c.Camera.Height <= 0 {
		errs = append(errs, fmt.Errorf("camera size must be positive, got %dx%d", c.Camera.Width, c.Camera.Height))
	}
	if err := c.Scanner.Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Path returns the file the configuration was loaded from.
func (c *Config) Path() string {
	return c.path
}

// SetPath changes where Save writes.
func (c *Config) SetPath(path string) {
	c.path = path
}

// Save writes the configuration back to its file.
func (c *Config) Save() error {
	if c.path == "" {
		c.path = DefaultPath()
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}
	if err := os.WriteFile(c.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
