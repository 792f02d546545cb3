package scene

import (
	"math/rand"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
)

// NewGlassScene creates a single glass sphere resting on a large diffuse
// ground sphere under a sky gradient
func NewGlassScene(opts Options, rng *rand.Rand) (*Scene, error) {
	defaultCameraConfig := geometry.CameraConfig{
		Center:        core.NewVec3(13, 2, 3),
		LookAt:        core.NewVec3(0, 0, 0),
		Up:            core.NewVec3(0, 1, 0),
		Width:         400,
		AspectRatio:   16.0 / 9.0,
		VFov:          20.0,
		Aperture:      0.1,
		FocusDistance: 10.0,
	}

	s := New(
		geometry.MergeCameraConfig(defaultCameraConfig, opts.Camera),
		SamplingConfig{SamplesPerPixel: 100, MaxDepth: 50},
		SkyBackground(),
	)

	ground := material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))
	glass := material.NewDielectric(1.5)

	s.Add(
		geometry.NewSphere(core.NewVec3(0, -1000, 0), 1000, ground),
		geometry.NewSphere(core.NewVec3(0, 1, 0), 1.0, glass),
	)

	return s, nil
}
