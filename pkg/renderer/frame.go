package renderer

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/df07/go-pathtracer/pkg/core"
)

// Frame accumulates radiance sums per pixel. Row 0 is the top of the image.
// Tiles write disjoint pixel ranges, so concurrent tile rendering needs no locking.
type Frame struct {
	Width           int
	Height          int
	SamplesPerPixel int
	sums            []core.Color
}

// NewFrame allocates a black frame
func NewFrame(width, height, samplesPerPixel int) (*Frame, error) {
	if width <= 0 || height <= 0 || samplesPerPixel <= 0 {
		return nil, fmt.Errorf("%w: %dx%d with %d samples per pixel", ErrInvalidFrame, width, height, samplesPerPixel)
	}
	return &Frame{
		Width:           width,
		Height:          height,
		SamplesPerPixel: samplesPerPixel,
		sums:            make([]core.Color, width*height),
	}, nil
}

// Add accumulates a radiance sample at pixel (x, y)
func (f *Frame) Add(x, y int, c core.Color) {
	i := y*f.Width + x
	f.sums[i] = f.sums[i].Add(c)
}

// Color returns the average radiance at pixel (x, y)
func (f *Frame) Color(x, y int) core.Color {
	return f.sums[y*f.Width+x].Divide(float64(f.SamplesPerPixel))
}

// Quantize converts an average linear radiance to 8-bit display values:
// gamma 2 followed by int(255.999 * clamp(c, 0, 0.999))
func Quantize(c core.Color) (r, g, b int) {
	channel := func(v float64) int {
		if !(v > 0) {
			return 0
		}
		return int(255.999 * math.Min(math.Sqrt(v), 0.999))
	}
	return channel(c.X), channel(c.Y), channel(c.Z)
}

// RGB returns the quantized color of pixel (x, y)
func (f *Frame) RGB(x, y int) (r, g, b int) {
	return Quantize(f.Color(x, y))
}

// Image converts the frame to an RGBA image
func (f *Frame) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			r, g, b := f.RGB(x, y)
			img.SetRGBA(x, y, color.RGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: 255})
		}
	}
	return img
}

// WritePPM writes the frame as a plain-text P3 image, top row first
func (f *Frame) WritePPM(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "P3\n%d %d\n255\n", f.Width, f.Height)
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			r, g, b := f.RGB(x, y)
			fmt.Fprintf(bw, "%d %d %d\n", r, g, b)
		}
	}
	return bw.Flush()
}

// WritePNG writes the frame as a PNG image
func (f *Frame) WritePNG(w io.Writer) error {
	return png.Encode(w, f.Image())
}

// Save writes the frame to path. An empty format is inferred from the
// file extension.
func (f *Frame) Save(path, format string) error {
	if format == "" {
		format = strings.TrimPrefix(filepath.Ext(path), ".")
	}

	var write func(io.Writer) error
	switch strings.ToLower(format) {
	case "ppm":
		write = f.WritePPM
	case "png":
		write = f.WritePNG
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := write(file); err != nil {
		file.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return file.Close()
}
