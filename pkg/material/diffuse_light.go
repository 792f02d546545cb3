package material

import (
	"github.com/df07/go-pathtracer/pkg/core"
)

// DiffuseLight is an emitter that never scatters
type DiffuseLight struct {
	Emit Texture
}

// NewDiffuseLight creates an emitter with a constant color
func NewDiffuseLight(emission core.Color) *DiffuseLight {
	return NewTexturedDiffuseLight(NewSolidColor(emission))
}

// NewTexturedDiffuseLight creates an emitter driven by a texture
func NewTexturedDiffuseLight(emit Texture) *DiffuseLight {
	return &DiffuseLight{Emit: emit}
}

// Scatter always absorbs
func (l *DiffuseLight) Scatter(rayIn core.Ray, hit HitRecord, sampler core.Sampler) (ScatterRecord, bool) {
	return ScatterRecord{}, false
}

// ScatteringPDF is zero since nothing scatters
func (l *DiffuseLight) ScatteringPDF(rayIn core.Ray, hit HitRecord, scattered core.Ray) float64 {
	return 0
}

// Emitted returns the texture color on the front face and black behind it
func (l *DiffuseLight) Emitted(rayIn core.Ray, hit HitRecord, u, v float64, p core.Vec3) core.Color {
	if !hit.FrontFace {
		return core.Color{}
	}
	return l.Emit.Value(u, v, p)
}
