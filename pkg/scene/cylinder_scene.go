package scene

import (
	"math/rand"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
)

// NewCylinderScene creates a Perlin-noise cylinder and a brushed metal
// cylinder on a gray ground, lit by a sphere light
func NewCylinderScene(opts Options, rng *rand.Rand) (*Scene, error) {
	defaultCameraConfig := geometry.CameraConfig{
		Center:      core.NewVec3(0, 1.5, 6),
		LookAt:      core.NewVec3(0, 0.75, 0),
		Up:          core.NewVec3(0, 1, 0),
		Width:       400,
		AspectRatio: 16.0 / 9.0,
		VFov:        40.0,
		Aperture:    0.0, // No depth of field
	}

	s := New(
		geometry.MergeCameraConfig(defaultCameraConfig, opts.Camera),
		SamplingConfig{SamplesPerPixel: 200, MaxDepth: 50},
		Background{
			Top:    core.NewVec3(0.25, 0.35, 0.5), // Dim sky so the light dominates
			Bottom: core.NewVec3(0.5, 0.5, 0.5),
		},
	)

	noise := material.NewNoiseTexture(material.NewPerlin(rng), 4.0)
	lambertianGray := material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))
	marble := material.NewTexturedLambertian(noise)
	metalCopper := material.NewMetal(core.NewVec3(0.8, 0.6, 0.4), 0.1)
	materialGlass := material.NewDielectric(1.5)

	s.Add(
		geometry.NewSphere(core.NewVec3(0, -1000, 0), 1000, lambertianGray),
		geometry.NewCylinder(0.9, 1.5, marble),
		geometry.NewCylinderAt(core.NewVec3(-2, 0, 1.5), 0.4, 1.0, metalCopper),
		geometry.NewCylinderAt(core.NewVec3(1.8, 0, 1.2), 0.3, 0.6, materialGlass),
	)

	s.AddSphereLight(
		core.NewVec3(3, 5, 3),          // position
		1.5,                            // radius
		core.NewVec3(10.0, 10.0, 10.0), // emission
	)

	return s, nil
}
