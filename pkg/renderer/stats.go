package renderer

import (
	"bytes"
	"fmt"
	"image"
	"time"

	"github.com/olekukonko/tablewriter"
	"gonum.org/v1/gonum/stat"

	"github.com/df07/go-pathtracer/pkg/core"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	Width, Height   int
	SamplesPerPixel int
	TotalPixels     int             // Total number of pixels rendered
	TotalSamples    int             // Total number of samples taken
	Workers         int             // Number of workers used
	Duration        time.Duration   // Wall time of the render
	TileTimes       []time.Duration // Render time per tile, indexed by tile ID

	LuminanceMean   float64 // Mean linear luminance over all pixels
	LuminanceStdDev float64
	ImageLuminance  float64 // Mean luminance of the quantized image, in [0, 1]
}

// SamplesPerSecond returns the sampling throughput
func (s RenderStats) SamplesPerSecond() float64 {
	if s.Duration <= 0 {
		return 0
	}
	return float64(s.TotalSamples) / s.Duration.Seconds()
}

// TileTimeStats returns the mean and standard deviation of the tile times
func (s RenderStats) TileTimeStats() (mean, stdDev time.Duration) {
	if len(s.TileTimes) == 0 {
		return 0, 0
	}
	seconds := make([]float64, len(s.TileTimes))
	for i, d := range s.TileTimes {
		seconds[i] = d.Seconds()
	}
	m, sd := stat.MeanStdDev(seconds, nil)
	if len(seconds) < 2 {
		sd = 0
	}
	return time.Duration(m * float64(time.Second)), time.Duration(sd * float64(time.Second))
}

// Table formats the statistics as a text table
func (s RenderStats) Table() string {
	tileMean, tileStdDev := s.TileTimeStats()

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Metric", "Value"})
	table.Append([]string{"Resolution", fmt.Sprintf("%dx%d", s.Width, s.Height)})
	table.Append([]string{"Samples per pixel", fmt.Sprintf("%d", s.SamplesPerPixel)})
	table.Append([]string{"Total samples", fmt.Sprintf("%d", s.TotalSamples)})
	table.Append([]string{"Workers", fmt.Sprintf("%d", s.Workers)})
	table.Append([]string{"Tiles", fmt.Sprintf("%d", len(s.TileTimes))})
	table.Append([]string{"Tile time", fmt.Sprintf("%s ± %s", tileMean, tileStdDev)})
	table.Append([]string{"Luminance", fmt.Sprintf("%.4f ± %.4f", s.LuminanceMean, s.LuminanceStdDev)})
	table.Append([]string{"Display luminance", fmt.Sprintf("%.4f", s.ImageLuminance)})
	table.Append([]string{"Samples/sec", fmt.Sprintf("%.0f", s.SamplesPerSecond())})
	table.SetFooter([]string{"TOTAL", s.Duration.String()})

	table.Render()
	return buf.String()
}

// frameLuminance returns the mean and standard deviation of the average
// linear luminance of every pixel
func frameLuminance(frame *Frame) (mean, stdDev float64) {
	values := make([]float64, 0, frame.Width*frame.Height)
	for y := 0; y < frame.Height; y++ {
		for x := 0; x < frame.Width; x++ {
			values = append(values, frame.Color(x, y).Luminance())
		}
	}
	if len(values) < 2 {
		return values[0], 0
	}
	return stat.MeanStdDev(values, nil)
}

// CalculateAverageLuminance returns the mean display luminance of an image,
// with channels normalized to [0, 1]
func CalculateAverageLuminance(img image.Image) float64 {
	bounds := img.Bounds()
	pixels := bounds.Dx() * bounds.Dy()
	if pixels == 0 {
		return 0
	}

	total := 0.0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			c := core.NewVec3(float64(r)/65535.0, float64(g)/65535.0, float64(b)/65535.0)
			total += c.Luminance()
		}
	}
	return total / float64(pixels)
}
