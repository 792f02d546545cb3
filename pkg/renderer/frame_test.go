package renderer

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
)

func TestNewFrame_Invalid(t *testing.T) {
	tests := []struct {
		name               string
		width, height, spp int
	}{
		{"Zero width", 0, 10, 1},
		{"Negative height", 10, -1, 1},
		{"Zero samples", 10, 10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewFrame(tt.width, tt.height, tt.spp); !errors.Is(err, ErrInvalidFrame) {
				t.Errorf("Expected ErrInvalidFrame, got %v", err)
			}
		})
	}
}

func TestQuantize(t *testing.T) {
	tests := []struct {
		name     string
		color    core.Color
		expected [3]int
	}{
		{"Black", core.NewVec3(0, 0, 0), [3]int{0, 0, 0}},
		{"White clamps", core.NewVec3(1, 4, 100), [3]int{255, 255, 255}},
		{"Gamma 2", core.NewVec3(0.25, 0.0625, 0.01), [3]int{127, 63, 25}},
		{"Just below a step", core.NewVec3(0.0001, 0.0016, 0.36), [3]int{2, 10, 153}},
		{"Negative and NaN", core.NewVec3(-1, math.NaN(), 0), [3]int{0, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, g, b := Quantize(tt.color)
			if got := [3]int{r, g, b}; got != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestFrame_AverageAndImage(t *testing.T) {
	frame, _ := NewFrame(2, 2, 2)
	frame.Add(1, 0, core.NewVec3(0.5, 0, 0))
	frame.Add(1, 0, core.NewVec3(0, 0, 0.5))

	if c := frame.Color(1, 0); c != core.NewVec3(0.25, 0, 0.25) {
		t.Errorf("Expected average (0.25, 0, 0.25), got %v", c)
	}

	img := frame.Image()
	if got := img.RGBAAt(1, 0); got.R != 127 || got.G != 0 || got.B != 127 || got.A != 255 {
		t.Errorf("Expected (127, 0, 127, 255), got %v", got)
	}
	if got := img.RGBAAt(0, 1); got.R != 0 || got.A != 255 {
		t.Errorf("Expected opaque black, got %v", got)
	}
}

func TestFrame_WritePPM(t *testing.T) {
	frame, _ := NewFrame(2, 2, 1)
	frame.Add(0, 0, core.NewVec3(1, 1, 1))    // top left
	frame.Add(1, 1, core.NewVec3(0.25, 0, 0)) // bottom right

	var buf bytes.Buffer
	if err := frame.WritePPM(&buf); err != nil {
		t.Fatalf("WritePPM error: %v", err)
	}

	expected := "P3\n2 2\n255\n255 255 255\n0 0 0\n0 0 0\n127 0 0\n"
	if buf.String() != expected {
		t.Errorf("Expected %q, got %q", expected, buf.String())
	}
}

func TestFrame_Save(t *testing.T) {
	frame, _ := NewFrame(3, 2, 1)
	dir := t.TempDir()

	tests := []struct {
		name    string
		file    string
		format  string
		prefix  string
		wantErr error
	}{
		{"PPM from extension", "out.ppm", "", "P3\n3 2\n", nil},
		{"PNG from extension", "out.png", "", "\x89PNG", nil},
		{"Explicit format", "image.out", "PPM", "P3\n", nil},
		{"Unknown extension", "out.exr", "", "", ErrUnsupportedFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.file)
			err := frame.Save(path, tt.format)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Save error: %v", err)
			}

			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("Failed to read output: %v", err)
			}
			if !strings.HasPrefix(string(data), tt.prefix) {
				t.Errorf("Expected output to start with %q, got %q", tt.prefix, data[:min(len(data), 8)])
			}
		})
	}
}
