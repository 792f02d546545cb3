package material

import (
	"github.com/df07/go-pathtracer/pkg/core"
)

// NewCheckerboardTexture creates an image texture of alternating square checks.
// Scenes use it as a stand-in when no texture file is configured.
func NewCheckerboardTexture(width, height, checkSize int, color1, color2 core.Color) *ImageTexture {
	pixels := make([]core.Color, width*height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if (x/checkSize+y/checkSize)%2 == 0 {
				pixels[y*width+x] = color1
			} else {
				pixels[y*width+x] = color2
			}
		}
	}

	return NewImageTexture(width, height, pixels)
}

// NewGradientTexture creates a vertical gradient from color1 (top row) to color2 (bottom row)
func NewGradientTexture(width, height int, color1, color2 core.Color) *ImageTexture {
	pixels := make([]core.Color, width*height)

	for y := 0; y < height; y++ {
		t := 0.0
		if height > 1 {
			t = float64(y) / float64(height-1)
		}
		color := color1.Multiply(1.0 - t).Add(color2.Multiply(t))
		for x := 0; x < width; x++ {
			pixels[y*width+x] = color
		}
	}

	return NewImageTexture(width, height, pixels)
}
