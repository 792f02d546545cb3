package integrator

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// Integrator defines the interface for light transport algorithms
type Integrator interface {
	// RayColor estimates the radiance arriving along ray. The scene must
	// have been built.
	RayColor(ray core.Ray, sc *scene.Scene, sampler core.Sampler) core.Color
}
