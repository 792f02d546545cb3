package material

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/pdf"
)

// Material decides how light leaves a surface
type Material interface {
	// Scatter generates the outgoing interaction for an incoming ray.
	// It returns false when the ray is absorbed.
	Scatter(rayIn core.Ray, hit HitRecord, sampler core.Sampler) (ScatterRecord, bool)

	// ScatteringPDF is the density of the material scattering rayIn into scattered
	ScatteringPDF(rayIn core.Ray, hit HitRecord, scattered core.Ray) float64

	// Emitted returns the radiance the surface emits toward rayIn
	Emitted(rayIn core.Ray, hit HitRecord, u, v float64, p core.Vec3) core.Color
}

// ScatterType distinguishes delta scattering from sampled scattering
type ScatterType int

const (
	Diffuse ScatterType = iota
	Specular
)

func (t ScatterType) String() string {
	if t == Specular {
		return "specular"
	}
	return "diffuse"
}

// ScatterRecord contains the result of material scattering
type ScatterRecord struct {
	Type        ScatterType
	SpecularRay core.Ray   // Valid when Type is Specular
	Attenuation core.Color // Color attenuation
	PDF         pdf.PDF    // Sampling distribution; ZeroPDF for specular
}

// IsSpecular returns true if the scatter follows a single deterministic ray
func (s ScatterRecord) IsSpecular() bool {
	return s.Type == Specular
}

// HitRecord contains information about a ray-object intersection
type HitRecord struct {
	Point     core.Vec3 // Point of intersection
	Normal    core.Vec3 // Unit normal facing against the incoming ray
	T         float64   // Parameter t along the ray
	U, V      float64   // Surface coordinates for texturing
	FrontFace bool      // Whether ray hit the outward side
	Material  Material  // Material of the hit object
}

// SetFaceNormal orients the normal against the ray and records which side was hit
func (h *HitRecord) SetFaceNormal(ray core.Ray, outwardNormal core.Vec3) {
	h.FrontFace = ray.Direction.Dot(outwardNormal) < 0
	if h.FrontFace {
		h.Normal = outwardNormal
	} else {
		h.Normal = outwardNormal.Negate()
	}
}

// absorbing is embedded by materials that never emit
type absorbing struct{}

func (absorbing) Emitted(core.Ray, HitRecord, float64, float64, core.Vec3) core.Color {
	return core.Color{}
}
