package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Config holds the settings of a single render. Zero numeric fields in a
// config file mean "use the scene's own value".
type Config struct {
	Scene           string  `json:"scene"`
	Width           int     `json:"width,omitempty"`
	AspectRatio     float64 `json:"aspect_ratio,omitempty"`
	SamplesPerPixel int     `json:"samples_per_pixel,omitempty"`
	MaxDepth        int     `json:"max_depth,omitempty"`
	Seed            int64   `json:"seed"`
	Workers         int     `json:"workers,omitempty"` // 0 sizes the pool from the host
	TileSize        int     `json:"tile_size"`
	Output          string  `json:"output,omitempty"` // empty writes under output/<scene>/
	Format          string  `json:"format,omitempty"` // ppm or png; empty infers from Output
	ImagePath       string  `json:"image_path,omitempty"`
	MeshPath        string  `json:"mesh_path,omitempty"`
}

// Default returns the configuration used when no file is given
func Default() Config {
	return Config{
		Scene:    "glass",
		Seed:     42,
		TileSize: 32,
	}
}

// Load reads a JSON config file on top of the defaults
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// OutputFormat returns the explicit format, or the one implied by the
// Output extension. PPM is used when neither is given.
func (c Config) OutputFormat() string {
	if c.Format != "" {
		return strings.ToLower(c.Format)
	}
	if ext := filepath.Ext(c.Output); ext != "" {
		return strings.ToLower(strings.TrimPrefix(ext, "."))
	}
	return "ppm"
}

// Validate checks that the configuration can be rendered
func (c Config) Validate() error {
	switch {
	case c.Scene == "":
		return fmt.Errorf("%w: no scene selected", ErrInvalidConfig)
	case c.Width < 0:
		return fmt.Errorf("%w: width %d", ErrInvalidConfig, c.Width)
	case c.AspectRatio < 0:
		return fmt.Errorf("%w: aspect ratio %v", ErrInvalidConfig, c.AspectRatio)
	case c.SamplesPerPixel < 0:
		return fmt.Errorf("%w: samples per pixel %d", ErrInvalidConfig, c.SamplesPerPixel)
	case c.MaxDepth < 0:
		return fmt.Errorf("%w: max depth %d", ErrInvalidConfig, c.MaxDepth)
	case c.Workers < 0:
		return fmt.Errorf("%w: workers %d", ErrInvalidConfig, c.Workers)
	case c.TileSize <= 0:
		return fmt.Errorf("%w: tile size %d", ErrInvalidConfig, c.TileSize)
	}

	if format := c.OutputFormat(); format != "ppm" && format != "png" {
		return fmt.Errorf("%w: unsupported output format %q", ErrInvalidConfig, format)
	}
	return nil
}
