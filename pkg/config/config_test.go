package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected default config to be valid, got %v", err)
	}
	if cfg.OutputFormat() != "ppm" {
		t.Errorf("Expected ppm output, got %q", cfg.OutputFormat())
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	t.Run("Overrides defaults", func(t *testing.T) {
		path := filepath.Join(dir, "render.json")
		content := `{"scene": "lights", "width": 320, "samples_per_pixel": 16, "output": "lights.png"}`
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write config: %v", err)
		}

		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load error: %v", err)
		}
		if cfg.Scene != "lights" || cfg.Width != 320 || cfg.SamplesPerPixel != 16 {
			t.Errorf("Expected file values, got %+v", cfg)
		}
		if cfg.Seed != 42 || cfg.TileSize != 32 {
			t.Errorf("Expected defaults for missing fields, got seed %d tile size %d", cfg.Seed, cfg.TileSize)
		}
		if cfg.OutputFormat() != "png" {
			t.Errorf("Expected png inferred from output, got %q", cfg.OutputFormat())
		}
	})

	t.Run("Missing file", func(t *testing.T) {
		if _, err := Load(filepath.Join(dir, "missing.json")); !errors.Is(err, os.ErrNotExist) {
			t.Errorf("Expected os.ErrNotExist, got %v", err)
		}
	})

	t.Run("Malformed JSON", func(t *testing.T) {
		path := filepath.Join(dir, "bad.json")
		if err := os.WriteFile(path, []byte(`{"width": "wide"}`), 0644); err != nil {
			t.Fatalf("Failed to write config: %v", err)
		}
		if _, err := Load(path); err == nil {
			t.Error("Expected a parse error")
		}
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		valid  bool
	}{
		{"Defaults", func(c *Config) {}, true},
		{"Explicit png format", func(c *Config) { c.Output = "image.out"; c.Format = "PNG" }, true},
		{"Empty scene", func(c *Config) { c.Scene = "" }, false},
		{"Negative width", func(c *Config) { c.Width = -1 }, false},
		{"Negative samples", func(c *Config) { c.SamplesPerPixel = -4 }, false},
		{"Negative depth", func(c *Config) { c.MaxDepth = -1 }, false},
		{"Negative workers", func(c *Config) { c.Workers = -2 }, false},
		{"Zero tile size", func(c *Config) { c.TileSize = 0 }, false},
		{"No extension", func(c *Config) { c.Output = "render" }, true},
		{"Unknown format", func(c *Config) { c.Output = "image.exr" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(&cfg)
			err := cfg.Validate()
			if tt.valid && err != nil {
				t.Errorf("Expected valid config, got %v", err)
			}
			if !tt.valid && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}
