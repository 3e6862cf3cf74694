// Package config holds the server-side defaults applied to tool calls that
// omit optional arguments.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ironsheep/edge-tools-mcp/internal/imaging"
)

// EnvConfigPath names the environment variable holding the defaults file.
const EnvConfigPath = "EDGE_MCP_CONFIG"

// Defaults are the values used when a request leaves an argument out.
type Defaults struct {
	ThresholdLow  int     `json:"threshold_low"`
	ThresholdHigh int     `json:"threshold_high"`
	Overlay       bool    `json:"overlay"`
	PrimaryWeight float64 `json:"primary_weight"`
	TintWeight    float64 `json:"tint_weight"`
	Tint          string  `json:"tint"`
	Seed          uint64  `json:"seed"`

	// OutputDir, when set, makes every image result also be written to
	// disk in this directory.
	OutputDir string `json:"output_dir,omitempty"`
}

// DefaultDefaults returns the built-in defaults: thresholds 100/200, overlay
// on, blend weights 1.0/0.8, red tint, seed 1.
func DefaultDefaults() *Defaults {
	return &Defaults{
		ThresholdLow:  100,
		ThresholdHigh: 200,
		Overlay:       true,
		PrimaryWeight: imaging.DefaultPrimaryWeight,
		TintWeight:    imaging.DefaultTintWeight,
		Tint:          "#FF0000",
		Seed:          1,
	}
}

// Load reads a JSON defaults file. Fields omitted from the file keep their
// built-in values, so partial files are safe.
//
// The file must have a .json extension and be at most 1MB.
func Load(path string) (*Defaults, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultDefaults()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", cleanPath, err)
	}
	return cfg, nil
}

// LoadFromEnv loads the file named by EDGE_MCP_CONFIG, or returns the
// built-in defaults when the variable is unset.
func LoadFromEnv() (*Defaults, error) {
	path := os.Getenv(EnvConfigPath)
	if path == "" {
		return DefaultDefaults(), nil
	}
	return Load(path)
}

// Validate checks value ranges. Thresholds must lie in [0, 255]; their order
// is not checked because the detector reorders them.
func (d *Defaults) Validate() error {
	if d.ThresholdLow < 0 || d.ThresholdLow > 255 {
		return fmt.Errorf("threshold_low must be in [0, 255], got %d", d.ThresholdLow)
	}
	if d.ThresholdHigh < 0 || d.ThresholdHigh > 255 {
		return fmt.Errorf("threshold_high must be in [0, 255], got %d", d.ThresholdHigh)
	}
	if d.PrimaryWeight < 0 {
		return fmt.Errorf("primary_weight must be non-negative, got %g", d.PrimaryWeight)
	}
	if d.TintWeight < 0 {
		return fmt.Errorf("tint_weight must be non-negative, got %g", d.TintWeight)
	}
	if _, err := imaging.ParseHexColor(d.Tint); err != nil {
		return fmt.Errorf("tint: %w", err)
	}
	return nil
}

// TintColor returns the parsed tint, falling back to red.
func (d *Defaults) TintColor() imaging.RGBColor {
	c, err := imaging.ParseHexColor(d.Tint)
	if err != nil {
		return imaging.Red
	}
	return c
}
