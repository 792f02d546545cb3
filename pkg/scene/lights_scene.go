package scene

import (
	"math/rand"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
)

// NewLightsScene creates two colored sphere lights beside a small fuzzy
// metal sphere. The background is black, so all illumination comes from
// the light list.
func NewLightsScene(opts Options, rng *rand.Rand) (*Scene, error) {
	defaultCameraConfig := geometry.CameraConfig{
		Center:      core.NewVec3(12, 1.5, 0),
		LookAt:      core.NewVec3(0, 0.5, 0),
		Up:          core.NewVec3(0, 1, 0),
		Width:       800,
		AspectRatio: 16.0 / 9.0,
		VFov:        20.0,
		Aperture:    0.1,
		Time0:       0.0,
		Time1:       1.0,
	}

	s := New(
		geometry.MergeCameraConfig(defaultCameraConfig, opts.Camera),
		SamplingConfig{SamplesPerPixel: 100, MaxDepth: 10},
		Background{},
	)

	s.AddSphereLight(core.NewVec3(0, -1, 0), 1.0, core.NewVec3(0.7, 0.2, 0.1))
	s.AddSphereLight(core.NewVec3(1, 1, 0), 0.3, core.NewVec3(0.3, 0.4, 0.5))

	s.Add(geometry.NewSphere(core.NewVec3(0, 0.3, 0.4), 0.3,
		material.NewMetal(core.NewVec3(0.6, 0.7, 0.8), 0.1)))

	return s, nil
}
