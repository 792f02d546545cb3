// Package pdf holds the direction sampling distributions used by the
// integrator for importance sampling.
package pdf

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// PDF is a probability density over directions, in solid angle measure
type PDF interface {
	// Value returns the density of generating direction
	Value(direction core.Vec3) float64
	// Generate draws a direction from the distribution
	Generate(sampler core.Sampler) core.Vec3
}

// Target is anything that can be sampled as a light from an outside point.
// Every geometry shape satisfies it.
type Target interface {
	PDFValue(origin, direction core.Vec3, time float64) float64
	Random(origin core.Vec3, sampler core.Sampler) core.Vec3
}

// CosinePDF is the cosine-weighted hemisphere about a normal
type CosinePDF struct {
	uvw core.ONB
}

// NewCosinePDF creates a cosine distribution about w
func NewCosinePDF(w core.Vec3) CosinePDF {
	return CosinePDF{uvw: core.NewONBFromW(w)}
}

// Value returns cos(theta)/pi, or 0 below the hemisphere
func (p CosinePDF) Value(direction core.Vec3) float64 {
	cosine := direction.Normalize().Dot(p.uvw.W)
	if cosine <= 0 {
		return 0
	}
	return cosine / math.Pi
}

// Generate rotates a local cosine sample into the basis
func (p CosinePDF) Generate(sampler core.Sampler) core.Vec3 {
	return p.uvw.LocalVec(core.RandomCosineDirection(sampler.Get2D()))
}

// HitablePDF samples directions from Origin toward a target shape
type HitablePDF struct {
	Target Target
	Origin core.Vec3
	Time   float64
}

// NewHitablePDF creates a light-directed distribution for the given shading point
func NewHitablePDF(target Target, origin core.Vec3, time float64) HitablePDF {
	return HitablePDF{Target: target, Origin: origin, Time: time}
}

// Value delegates to the target's solid-angle density
func (p HitablePDF) Value(direction core.Vec3) float64 {
	return p.Target.PDFValue(p.Origin, direction, p.Time)
}

// Generate delegates to the target's direction sampler
func (p HitablePDF) Generate(sampler core.Sampler) core.Vec3 {
	return p.Target.Random(p.Origin, sampler)
}

// MixturePDF picks either component with equal probability
type MixturePDF struct {
	P0, P1 PDF
}

// NewMixturePDF creates an even mixture of two distributions
func NewMixturePDF(p0, p1 PDF) MixturePDF {
	return MixturePDF{P0: p0, P1: p1}
}

// Value returns the average of both densities
func (p MixturePDF) Value(direction core.Vec3) float64 {
	return 0.5*p.P0.Value(direction) + 0.5*p.P1.Value(direction)
}

// Generate flips a fair coin and samples the chosen component
func (p MixturePDF) Generate(sampler core.Sampler) core.Vec3 {
	if sampler.Get1D() < 0.5 {
		return p.P0.Generate(sampler)
	}
	return p.P1.Generate(sampler)
}

// ZeroPDF marks delta (specular) scattering, which has no density
type ZeroPDF struct{}

// Value always returns 0
func (ZeroPDF) Value(core.Vec3) float64 {
	return 0
}

// Generate returns a fixed direction
func (ZeroPDF) Generate(core.Sampler) core.Vec3 {
	return core.NewVec3(1, 0, 0)
}
