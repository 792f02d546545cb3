package scene

import (
	"math/rand"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
)

// NewRandomScene creates the classic field of small random spheres around
// three large ones. Diffuse spheres bounce upward during the shutter
// interval, which shows up as motion blur.
func NewRandomScene(opts Options, rng *rand.Rand) (*Scene, error) {
	defaultCameraConfig := geometry.CameraConfig{
		Center:        core.NewVec3(13, 2, 3),
		LookAt:        core.NewVec3(0, 0, 0),
		Up:            core.NewVec3(0, 1, 0),
		Width:         400,
		AspectRatio:   16.0 / 9.0,
		VFov:          20.0,
		Aperture:      0.1,
		FocusDistance: 10.0,
		Time0:         0.0,
		Time1:         1.0,
	}
	cameraConfig := geometry.MergeCameraConfig(defaultCameraConfig, opts.Camera)

	s := New(cameraConfig, SamplingConfig{SamplesPerPixel: 100, MaxDepth: 50}, SkyBackground())

	s.Add(geometry.NewSphere(core.NewVec3(0, -1000, 0), 1000,
		material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))))

	randomColor := func(lo, hi float64) core.Color {
		return core.NewVec3(
			lo+(hi-lo)*rng.Float64(),
			lo+(hi-lo)*rng.Float64(),
			lo+(hi-lo)*rng.Float64(),
		)
	}

	// Keep the small spheres clear of the big metal one
	keepClear := core.NewVec3(4, 0.2, 0)

	for a := -11; a < 11; a++ {
		for b := -11; b < 11; b++ {
			chooseMaterial := rng.Float64()
			center := core.NewVec3(float64(a)+0.9*rng.Float64(), 0.2, float64(b)+0.9*rng.Float64())
			if center.Subtract(keepClear).Length() <= 0.9 {
				continue
			}

			switch {
			case chooseMaterial < 0.8:
				albedo := randomColor(0, 1).MultiplyVec(randomColor(0, 1))
				center1 := center.Add(core.NewVec3(0, 0.5*rng.Float64(), 0))
				s.Add(geometry.NewMovingSphere(center, center1, cameraConfig.Time0, cameraConfig.Time1, 0.2,
					material.NewLambertian(albedo)))
			case chooseMaterial < 0.95:
				albedo := randomColor(0.5, 1)
				fuzz := 0.5 * rng.Float64()
				s.Add(geometry.NewSphere(center, 0.2, material.NewMetal(albedo, fuzz)))
			default:
				s.Add(geometry.NewSphere(center, 0.2, material.NewDielectric(1.5)))
			}
		}
	}

	s.Add(
		geometry.NewSphere(core.NewVec3(0, 1, 0), 1.0, material.NewDielectric(1.5)),
		geometry.NewSphere(core.NewVec3(-4, 1, 0), 1.0, material.NewLambertian(core.NewVec3(0.4, 0.2, 0.1))),
		geometry.NewSphere(core.NewVec3(4, 1, 0), 1.0, material.NewMetal(core.NewVec3(0.7, 0.6, 0.5), 0.0)),
	)

	return s, nil
}
