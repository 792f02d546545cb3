package material

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/pdf"
)

// Metal represents a metallic material with optional fuzziness
type Metal struct {
	absorbing
	Albedo Texture
	Fuzz   float64 // 0 is a perfect mirror, clamped to [0, 1]
}

// NewMetal creates a metal whose albedo alternates between albedo and
// albedo/2 in a 3D checker, which makes reflections easier to read
func NewMetal(albedo core.Color, fuzz float64) *Metal {
	return NewTexturedMetal(NewTestTexture(albedo), fuzz)
}

// NewTexturedMetal creates a metal with an arbitrary albedo texture
func NewTexturedMetal(albedo Texture, fuzz float64) *Metal {
	return &Metal{Albedo: albedo, Fuzz: max(0, min(fuzz, 1))}
}

// Scatter reflects about the normal, perturbed by fuzz. Reflections that
// end up below the surface, or that the fuzz cancels out, are absorbed.
func (m *Metal) Scatter(rayIn core.Ray, hit HitRecord, sampler core.Sampler) (ScatterRecord, bool) {
	reflected := core.Reflect(rayIn.Direction.Normalize(), hit.Normal)
	direction := reflected.Add(core.SamplePointInUnitSphere(sampler.Get3D()).Multiply(m.Fuzz))
	if direction.NearZero() {
		return ScatterRecord{}, false
	}

	srec := ScatterRecord{
		Type:        Specular,
		SpecularRay: core.NewRayAt(hit.Point, direction, rayIn.Time),
		Attenuation: m.Albedo.Value(hit.U, hit.V, hit.Point),
		PDF:         pdf.ZeroPDF{},
	}
	return srec, direction.Dot(hit.Normal) > 0
}

// ScatteringPDF is zero for delta reflection
func (m *Metal) ScatteringPDF(rayIn core.Ray, hit HitRecord, scattered core.Ray) float64 {
	return 0
}
