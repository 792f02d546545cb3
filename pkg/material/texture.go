package material

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// Texture maps a surface coordinate (u, v) and hit point p to a color
type Texture interface {
	Value(u, v float64, p core.Vec3) core.Color
}

// SolidColor is a constant texture
type SolidColor struct {
	Color core.Color
}

// NewSolidColor creates a constant texture
func NewSolidColor(color core.Color) *SolidColor {
	return &SolidColor{Color: color}
}

// Value returns the constant color
func (s *SolidColor) Value(u, v float64, p core.Vec3) core.Color {
	return s.Color
}

// TestTexture is a 3D checker that alternates between two colors
// based on the sign of sin(10x)·sin(10y)·sin(10z)
type TestTexture struct {
	Color1, Color2 core.Color
}

// NewTestTexture creates a checker of color and color/2
func NewTestTexture(color core.Color) *TestTexture {
	return &TestTexture{Color1: color, Color2: color.Multiply(0.5)}
}

// Value returns Color1 where the product of sines is negative, Color2 otherwise
func (t *TestTexture) Value(u, v float64, p core.Vec3) core.Color {
	sines := math.Sin(10*p.X) * math.Sin(10*p.Y) * math.Sin(10*p.Z)
	if sines < 0 {
		return t.Color1
	}
	return t.Color2
}

// NoiseTexture is a marble-like pattern driven by Perlin turbulence
type NoiseTexture struct {
	Noise *Perlin
	Scale float64
}

// turbulenceDepth is the number of octaves summed for the marble pattern
const turbulenceDepth = 7

// NewNoiseTexture creates a marble texture over the given noise tables
func NewNoiseTexture(noise *Perlin, scale float64) *NoiseTexture {
	return &NoiseTexture{Noise: noise, Scale: scale}
}

// Value returns a gray level of 0.5·(1 + sin(scale·z + 10·turb(p)))
func (n *NoiseTexture) Value(u, v float64, p core.Vec3) core.Color {
	level := 0.5 * (1 + math.Sin(n.Scale*p.Z+10*n.Noise.Turbulence(p, turbulenceDepth)))
	return core.NewVec3(level, level, level)
}

// ImageTexture samples an RGB image using (u, v) with v pointing up
type ImageTexture struct {
	Width  int
	Height int
	Pixels []core.Color // Row-major, top row first, components in [0, 1]
}

// NewImageTexture wraps decoded pixel data
func NewImageTexture(width, height int, pixels []core.Color) *ImageTexture {
	return &ImageTexture{Width: width, Height: height, Pixels: pixels}
}

// Value clamps (u, v) to [0,1], flips v to image rows and returns the nearest texel.
// An empty image returns solid cyan so missing data is easy to spot.
func (t *ImageTexture) Value(u, v float64, p core.Vec3) core.Color {
	if t.Width <= 0 || t.Height <= 0 || len(t.Pixels) < t.Width*t.Height {
		return core.NewVec3(0, 1, 1)
	}

	u = max(0, min(u, 1))
	v = 1 - max(0, min(v, 1))

	i := min(int(u*float64(t.Width)), t.Width-1)
	j := min(int(v*float64(t.Height)), t.Height-1)

	return t.Pixels[j*t.Width+i]
}
