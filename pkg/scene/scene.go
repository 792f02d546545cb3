package scene

import (
	"fmt"
	"math/rand"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
)

// Scene contains all the elements needed for rendering
type Scene struct {
	Camera         *geometry.Camera
	CameraConfig   geometry.CameraConfig
	Shapes         []geometry.Shape // Objects in the scene
	Lights         []geometry.Shape // Shapes importance-sampled by diffuse bounces
	Background     Background
	SamplingConfig SamplingConfig

	// Set by Build
	World     geometry.Shape // Acceleration structure over Shapes
	LightList *geometry.List // nil when the scene has no lights
}

// SamplingConfig contains the scene's recommended rendering settings
type SamplingConfig struct {
	SamplesPerPixel int // Number of rays per pixel
	MaxDepth        int // Maximum ray bounce depth
}

// Background is the radiance returned for rays that escape the scene: a
// vertical gradient from Bottom to Top. The zero value is black.
type Background struct {
	Top    core.Color
	Bottom core.Color
}

// SkyBackground is the blue-to-white gradient used by the simple scenes
func SkyBackground() Background {
	return Background{
		Top:    core.NewVec3(0.5, 0.7, 1.0),
		Bottom: core.NewVec3(1.0, 1.0, 1.0),
	}
}

// Radiance returns the background color seen along ray
func (b Background) Radiance(ray core.Ray) core.Color {
	unitDirection := ray.Direction.Normalize()
	// map y from [-1,1] to [0,1]
	t := 0.5 * (unitDirection.Y + 1.0)
	return b.Bottom.Multiply(1.0 - t).Add(b.Top.Multiply(t))
}

// New creates an empty scene viewed through the given camera
func New(cameraConfig geometry.CameraConfig, sampling SamplingConfig, background Background) *Scene {
	return &Scene{
		Camera:         geometry.NewCamera(cameraConfig),
		CameraConfig:   cameraConfig,
		Shapes:         make([]geometry.Shape, 0),
		Background:     background,
		SamplingConfig: sampling,
	}
}

// Add appends shapes to the scene
func (s *Scene) Add(shapes ...geometry.Shape) {
	s.Shapes = append(s.Shapes, shapes...)
}

// AddLight appends a shape that is both rendered and importance-sampled
func (s *Scene) AddLight(shape geometry.Shape) {
	s.Shapes = append(s.Shapes, shape)
	s.Lights = append(s.Lights, shape)
}

// AddSphereLight adds a spherical light to the scene
func (s *Scene) AddSphereLight(center core.Vec3, radius float64, emission core.Color) *geometry.Sphere {
	sphere := geometry.NewSphere(center, radius, material.NewDiffuseLight(emission))
	s.AddLight(sphere)
	return sphere
}

// Build creates the BVH over the scene's shapes for the camera's shutter
// interval and the light list. The scene must not change afterwards.
func (s *Scene) Build(rng *rand.Rand) error {
	if len(s.Shapes) == 0 {
		s.World = geometry.NewList()
	} else {
		bvh, err := geometry.NewBVH(s.Shapes, s.CameraConfig.Time0, s.CameraConfig.Time1, rng)
		if err != nil {
			return fmt.Errorf("building scene BVH: %w", err)
		}
		s.World = bvh
	}

	s.LightList = nil
	if len(s.Lights) > 0 {
		s.LightList = geometry.NewList(s.Lights...)
	}
	return nil
}

// GetPrimitiveCount returns the total number of primitive objects in the scene
func (s *Scene) GetPrimitiveCount() int {
	count := 0
	for _, shape := range s.Shapes {
		switch obj := shape.(type) {
		case *geometry.TriangleMesh:
			count += obj.TriangleCount()
		default:
			count++
		}
	}
	return count
}
