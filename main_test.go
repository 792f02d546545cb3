package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// runApp runs the CLI with args and returns what it wrote to stdout
func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	err := app.Run(append([]string{"go-pathtracer"}, args...))
	return out.String(), err
}

func TestScenesCommand(t *testing.T) {
	out, err := runApp(t, "scenes")
	if err != nil {
		t.Fatalf("scenes command failed: %v", err)
	}
	for _, id := range []string{"glass", "random", "lights", "cylinder", "textures", "mesh"} {
		if !strings.Contains(out, id) {
			t.Errorf("Expected scene %q in listing, got:\n%s", id, out)
		}
	}
}

func TestInspectCommand(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantErr  bool
		contains []string
	}{
		{"Mesh scene", []string{"inspect", "mesh"}, false, []string{"Scene mesh", "Primitives", "40", "BVH nodes", "View direction"}},
		{"Missing argument", []string{"inspect"}, true, nil},
		{"Unknown scene", []string{"inspect", "cornell"}, true, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runApp(t, tt.args...)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Expected error=%v, got %v", tt.wantErr, err)
			}
			for _, want := range tt.contains {
				if !strings.Contains(out, want) {
					t.Errorf("Expected output to contain %q, got:\n%s", want, out)
				}
			}
		})
	}
}

func TestRenderCommand(t *testing.T) {
	dir := t.TempDir()

	t.Run("Writes PPM", func(t *testing.T) {
		path := filepath.Join(dir, "glass.ppm")
		_, err := runApp(t, "render", "--scene", "glass", "--width", "16", "--spp", "2", "--depth", "4", "--workers", "2", "-o", path)
		if err != nil {
			t.Fatalf("render command failed: %v", err)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("Failed to read output: %v", err)
		}
		if !strings.HasPrefix(string(data), "P3\n16 ") {
			t.Errorf("Expected a 16 pixel wide P3 image, got header %q", data[:min(len(data), 12)])
		}
	})

	t.Run("Config file with flag override", func(t *testing.T) {
		configPath := filepath.Join(dir, "render.json")
		out := filepath.Join(dir, "from-config.png")
		content := `{"scene": "glass", "width": 12, "samples_per_pixel": 1, "max_depth": 2, "output": "` + filepath.ToSlash(out) + `"}`
		if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write config: %v", err)
		}

		if _, err := runApp(t, "render", "-c", configPath, "--width", "8"); err != nil {
			t.Fatalf("render command failed: %v", err)
		}
		data, err := os.ReadFile(out)
		if err != nil {
			t.Fatalf("Failed to read output: %v", err)
		}
		if !bytes.HasPrefix(data, []byte("\x89PNG")) {
			t.Error("Expected a PNG file")
		}
	})

	t.Run("Invalid settings", func(t *testing.T) {
		tests := [][]string{
			{"render", "--scene", "glass", "-o", filepath.Join(dir, "x.exr")},
			{"render", "--scene", "glass", "--tile-size", "0"},
			{"render", "--scene", "cornell", "-o", filepath.Join(dir, "x.ppm")},
		}
		for _, args := range tests {
			if _, err := runApp(t, args...); err == nil {
				t.Errorf("Expected an error for %v", args)
			}
		}
	})
}

func TestCreateOutputPath(t *testing.T) {
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd error: %v", err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("Chdir error: %v", err)
	}
	t.Cleanup(func() { os.Chdir(wd) })

	now := time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC)
	path, err := createOutputPath("lights", "png", now)
	if err != nil {
		t.Fatalf("createOutputPath error: %v", err)
	}

	expected := filepath.Join("output", "lights", "render_20240305_140709.png")
	if path != expected {
		t.Errorf("Expected %q, got %q", expected, path)
	}
	if info, err := os.Stat(filepath.Dir(path)); err != nil || !info.IsDir() {
		t.Errorf("Expected output directory to exist, got %v", err)
	}
}
