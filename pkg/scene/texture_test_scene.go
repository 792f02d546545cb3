package scene

import (
	"fmt"
	"math/rand"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/loaders"
	"github.com/df07/go-pathtracer/pkg/material"
)

// NewTextureScene creates a row of spheres demonstrating each texture type.
// The image sphere uses opts.ImagePath, or a procedural checkerboard when
// no path is given.
func NewTextureScene(opts Options, rng *rand.Rand) (*Scene, error) {
	defaultCameraConfig := geometry.CameraConfig{
		Center:      core.NewVec3(0, 2, 9),
		LookAt:      core.NewVec3(0, 1, 0),
		Up:          core.NewVec3(0, 1, 0),
		Width:       800,
		AspectRatio: 16.0 / 9.0,
		VFov:        35.0,
		Aperture:    0.0, // No DOF for texture clarity
	}

	s := New(
		geometry.MergeCameraConfig(defaultCameraConfig, opts.Camera),
		SamplingConfig{SamplesPerPixel: 100, MaxDepth: 10},
		SkyBackground(),
	)

	imageTexture, err := loadImageTexture(opts.ImagePath)
	if err != nil {
		return nil, err
	}

	perlin := material.NewPerlin(rng)
	groundNoise := material.NewNoiseTexture(perlin, 4.0)
	sphereNoise := material.NewNoiseTexture(perlin, 8.0)
	testTexture := material.NewTestTexture(core.NewVec3(0.9, 0.3, 0.2))
	gradient := material.NewGradientTexture(256, 256,
		core.NewVec3(1.0, 0.2, 0.2), // Red (top)
		core.NewVec3(0.2, 1.0, 0.2), // Green (bottom)
	)

	s.Add(
		geometry.NewSphere(core.NewVec3(0, -1000, 0), 1000, material.NewTexturedLambertian(groundNoise)),
		geometry.NewSphere(core.NewVec3(-2.2, 1, 0), 1.0, material.NewTexturedLambertian(testTexture)),
		geometry.NewSphere(core.NewVec3(0, 1, 0), 1.0, material.NewTexturedLambertian(sphereNoise)),
		geometry.NewSphere(core.NewVec3(2.2, 1, 0), 1.0, material.NewTexturedLambertian(imageTexture)),
		geometry.NewSphere(core.NewVec3(0, 0.35, 2), 0.35, material.NewTexturedMetal(gradient, 0.2)),
	)

	return s, nil
}

func loadImageTexture(path string) (material.Texture, error) {
	if path == "" {
		return material.NewCheckerboardTexture(256, 256, 32,
			core.NewVec3(0.9, 0.9, 0.9), // White
			core.NewVec3(0.2, 0.2, 0.8), // Blue
		), nil
	}

	texture, err := loaders.LoadImageTexture(path)
	if err != nil {
		return nil, fmt.Errorf("loading image texture: %w", err)
	}
	return texture, nil
}
