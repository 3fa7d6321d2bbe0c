package plate

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Supported rasterizer backends.
const (
	BackendInkscape = "inkscape"
	BackendNative   = "native"
)

var (
	// ErrInvalidConfig is wrapped by every validation error.
	ErrInvalidConfig = errors.New("invalid configuration")
	// ErrUnknownBackend is returned for a backend name other than the supported ones.
	ErrUnknownBackend = errors.New("unknown rasterizer backend")
)

// Config holds the exporter options. The zero value is not usable, start from
// DefaultConfig or LoadConfig.
type Config struct {
	// Source is the SVG document holding the icon plates.
	Source string `yaml:"source"`
	// Output is the root directory of the generated PNG tree.
	Output string `yaml:"output"`
	// Marker is the substring a layer label must contain.
	Marker string `yaml:"marker"`
	// Backend selects the rasterizer, "inkscape" or "native".
	Backend string `yaml:"backend"`
	// Inkscape is the binary invoked by the inkscape backend.
	Inkscape string `yaml:"inkscape"`
	// Legacy switches to the Inkscape 0.x command line (-i/-e).
	Legacy bool `yaml:"legacy"`
	// DPI of the exported bitmaps. Zero keeps the rasterizer default.
	DPI float64 `yaml:"dpi"`
	// Background is an optional #rgb, #rrggbb or #rrggbbaa fill color.
	Background string `yaml:"background"`
	// Timeout bounds a single export. Zero means no limit.
	Timeout time.Duration `yaml:"timeout"`
	Verbose bool          `yaml:"verbose"`
}

// DefaultConfig returns the layout used by the icon tree of the project:
// svg/gpm-batteries.svg rendered into png/.
func DefaultConfig() *Config {
	return &Config{
		Source:   "svg/gpm-batteries.svg",
		Output:   "png",
		Marker:   "plate",
		Backend:  BackendInkscape,
		Inkscape: "inkscape",
	}
}

// LoadConfig reads a YAML configuration file. Keys missing from the file keep
// their default value.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for missing or malformed values.
func (c *Config) Validate() error {
	switch {
	case c.Source == "":
		return fmt.Errorf("%w: source document is required", ErrInvalidConfig)
	case c.Output == "":
		return fmt.Errorf("%w: output directory is required", ErrInvalidConfig)
	case c.Marker == "":
		return fmt.Errorf("%w: layer marker cannot be empty", ErrInvalidConfig)
	case c.DPI < 0:
		return fmt.Errorf("%w: dpi must be positive, got %v", ErrInvalidConfig, c.DPI)
	case c.Timeout < 0:
		return fmt.Errorf("%w: timeout must be positive, got %v", ErrInvalidConfig, c.Timeout)
	}

	switch c.Backend {
	case BackendInkscape:
		if c.Inkscape == "" {
			return fmt.Errorf("%w: inkscape binary is required", ErrInvalidConfig)
		}
	case BackendNative:
	default:
		return fmt.Errorf("%w: %w %q", ErrInvalidConfig, ErrUnknownBackend, c.Backend)
	}

	if c.Background != "" {
		if _, err := ParseColor(c.Background); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
	}
	return nil
}

// ParseColor parses a hexadecimal color in one of the #rgb, #rrggbb or
// #rrggbbaa forms.
func ParseColor(s string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return color.NRGBA{}, fmt.Errorf("malformed color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("malformed color %q", s)
	}
	return color.NRGBA{
		R: uint8(v >> 24),
		G: uint8(v >> 16),
		B: uint8(v >> 8),
		A: uint8(v),
	}, nil
}
