package integrator

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/pdf"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// Ray parameter range for scene intersection. The lower bound keeps
// scattered rays from re-hitting the surface they left.
const (
	tMin = 0.001
	tMax = math.MaxFloat64
)

// PathTracingIntegrator implements unidirectional path tracing with
// light importance sampling
type PathTracingIntegrator struct {
	config scene.SamplingConfig
}

// NewPathTracingIntegrator creates a new path tracing integrator
func NewPathTracingIntegrator(config scene.SamplingConfig) *PathTracingIntegrator {
	return &PathTracingIntegrator{
		config: config,
	}
}

// RayColor computes the color for a single ray, following at most
// MaxDepth bounces
func (pt *PathTracingIntegrator) RayColor(ray core.Ray, sc *scene.Scene, sampler core.Sampler) core.Color {
	return pt.rayColor(ray, sc, sampler, pt.config.MaxDepth)
}

func (pt *PathTracingIntegrator) rayColor(ray core.Ray, sc *scene.Scene, sampler core.Sampler, depth int) core.Color {
	// If we've exceeded the ray bounce limit, no more light is gathered
	if depth <= 0 {
		return core.Color{}
	}

	hit, isHit := sc.World.Hit(ray, tMin, tMax)
	if !isHit {
		return sc.Background.Radiance(ray)
	}

	emitted := hit.Material.Emitted(ray, *hit, hit.U, hit.V, hit.Point)

	scatter, didScatter := hit.Material.Scatter(ray, *hit, sampler)
	if !didScatter {
		return emitted
	}

	if scatter.IsSpecular() {
		return emitted.Add(scatter.Attenuation.MultiplyVec(
			pt.rayColor(scatter.SpecularRay, sc, sampler, depth-1)))
	}

	return emitted.Add(pt.diffuseColor(ray, hit, scatter, sc, sampler, depth))
}

// diffuseColor samples the scattered direction from an equal mixture of
// the light list and the material distribution. Scenes without lights use
// the material distribution alone.
func (pt *PathTracingIntegrator) diffuseColor(ray core.Ray, hit *material.HitRecord, scatter material.ScatterRecord, sc *scene.Scene, sampler core.Sampler, depth int) core.Color {
	var sampling pdf.PDF = scatter.PDF
	if sc.LightList != nil && sc.LightList.Len() > 0 {
		lightPDF := pdf.NewHitablePDF(sc.LightList, hit.Point, ray.Time)
		sampling = pdf.NewMixturePDF(lightPDF, scatter.PDF)
	}

	scattered := core.NewRayAt(hit.Point, sampling.Generate(sampler), ray.Time)
	pdfValue := sampling.Value(scattered.Direction)
	if !(pdfValue > 0) || math.IsInf(pdfValue, 0) {
		return core.Color{}
	}

	scatteringPDF := hit.Material.ScatteringPDF(ray, *hit, scattered)
	if scatteringPDF <= 0 {
		return core.Color{}
	}

	incoming := pt.rayColor(scattered, sc, sampler, depth-1)
	return scatter.Attenuation.MultiplyVec(incoming).Multiply(scatteringPDF / pdfValue)
}
