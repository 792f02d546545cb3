package material

import (
	"math"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/pdf"
)

// constSampler returns the same value for every dimension
type constSampler struct{ value float64 }

func (c constSampler) Get1D() float64   { return c.value }
func (c constSampler) Get2D() core.Vec2 { return core.NewVec2(c.value, c.value) }
func (c constSampler) Get3D() core.Vec3 { return core.NewVec3(c.value, c.value, c.value) }

// vecSampler returns a fixed 3D sample
type vecSampler struct{ sample core.Vec3 }

func (s vecSampler) Get1D() float64   { return s.sample.X }
func (s vecSampler) Get2D() core.Vec2 { return core.NewVec2(s.sample.X, s.sample.Y) }
func (s vecSampler) Get3D() core.Vec3 { return s.sample }

func upHit(frontFace bool) HitRecord {
	return HitRecord{
		Point:     core.NewVec3(0, 0, 0),
		Normal:    core.NewVec3(0, 1, 0),
		T:         1,
		FrontFace: frontFace,
	}
}

func TestLambertian_Scatter(t *testing.T) {
	albedo := core.NewVec3(0.5, 0.6, 0.7)
	lambertian := NewLambertian(albedo)
	rayIn := core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0))

	srec, ok := lambertian.Scatter(rayIn, upHit(true), core.NewSeededSampler(1))
	if !ok {
		t.Fatal("Expected Lambertian to always scatter")
	}
	if srec.Type != Diffuse {
		t.Errorf("Expected diffuse scatter, got %v", srec.Type)
	}
	if srec.Attenuation != albedo {
		t.Errorf("Expected attenuation %v, got %v", albedo, srec.Attenuation)
	}
	if _, isCosine := srec.PDF.(pdf.CosinePDF); !isCosine {
		t.Errorf("Expected cosine PDF, got %T", srec.PDF)
	}
}

func TestLambertian_ScatteringPDF(t *testing.T) {
	lambertian := NewLambertian(core.NewVec3(1, 1, 1))
	hit := upHit(true)
	rayIn := core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0))

	tests := []struct {
		name      string
		direction core.Vec3
		expected  float64
	}{
		{"along normal", core.NewVec3(0, 2, 0), 1 / math.Pi},
		{"grazing", core.NewVec3(1, 0, 0), 0},
		{"below surface", core.NewVec3(0, -1, 0), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := lambertian.ScatteringPDF(rayIn, hit, core.NewRay(hit.Point, tt.direction))
			if math.Abs(got-tt.expected) > 1e-12 {
				t.Errorf("Expected %f, got %f", tt.expected, got)
			}
		})
	}
}

func TestNewMetal_FuzzClamp(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected float64
	}{
		{"zero", 0.0, 0.0},
		{"half", 0.5, 0.5},
		{"one", 1.0, 1.0},
		{"above one", 1.5, 1.0},
		{"negative", -0.5, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			metal := NewMetal(core.NewVec3(0.8, 0.8, 0.8), tt.input)
			if metal.Fuzz != tt.expected {
				t.Errorf("Expected fuzz %f, got %f", tt.expected, metal.Fuzz)
			}
		})
	}
}

func TestMetal_PerfectReflection(t *testing.T) {
	metal := NewMetal(core.NewVec3(0.9, 0.9, 0.9), 0.0)
	rayIn := core.NewRayAt(core.NewVec3(-1, 1, 0), core.NewVec3(1, -1, 0), 0.3)

	srec, ok := metal.Scatter(rayIn, upHit(true), core.NewSeededSampler(42))
	if !ok {
		t.Fatal("Expected metal to scatter")
	}
	if !srec.IsSpecular() {
		t.Error("Expected specular scatter")
	}

	expected := core.NewVec3(1, 1, 0).Normalize()
	if srec.SpecularRay.Direction.Subtract(expected).Length() > 1e-10 {
		t.Errorf("Expected reflected direction %v, got %v", expected, srec.SpecularRay.Direction)
	}
	if srec.SpecularRay.Time != 0.3 {
		t.Errorf("Expected scattered ray to keep time 0.3, got %f", srec.SpecularRay.Time)
	}
	if srec.PDF.Value(expected) != 0 {
		t.Error("Expected zero PDF for specular scatter")
	}
}

func TestMetal_AbsorbsBelowSurface(t *testing.T) {
	// A grazing ray with maximum fuzz pushed downwards must be absorbed
	metal := NewMetal(core.NewVec3(0.9, 0.9, 0.9), 1.0)
	rayIn := core.NewRay(core.NewVec3(-1, 0.001, 0), core.NewVec3(1, -0.001, 0))

	// Radius 1, phi = 3π/2, cosTheta = 0 lands on (0, -1, 0)
	sampler := vecSampler{core.NewVec3(1, 0.75, 0.5)}
	srec, ok := metal.Scatter(rayIn, upHit(true), sampler)
	if ok {
		t.Errorf("Expected absorption, got scattered direction %v", srec.SpecularRay.Direction)
	}
}

func TestMetal_AbsorbsDegenerateDirection(t *testing.T) {
	// Fuzz just below 1 pushed straight against the reflection leaves a
	// direction of length 1e-9 that still points above the surface
	metal := NewMetal(core.NewVec3(0.9, 0.9, 0.9), 1-1e-9)
	rayIn := core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0))

	sampler := vecSampler{core.NewVec3(1, 0.75, 0.5)}
	srec, ok := metal.Scatter(rayIn, upHit(true), sampler)
	if ok {
		t.Errorf("Expected absorption, got scattered direction %v", srec.SpecularRay.Direction)
	}
}

func TestMetal_CheckerAlbedo(t *testing.T) {
	albedo := core.NewVec3(0.8, 0.6, 0.4)
	metal := NewMetal(albedo, 0)
	rayIn := core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0))

	seen := map[core.Color]bool{}
	for _, p := range []core.Vec3{core.NewVec3(0.1, 0.1, 0.1), core.NewVec3(-0.1, 0.1, 0.1)} {
		hit := upHit(true)
		hit.Point = p
		srec, _ := metal.Scatter(rayIn, hit, constSampler{0.5})
		seen[srec.Attenuation] = true
	}
	if !seen[albedo] || !seen[albedo.Multiply(0.5)] {
		t.Errorf("Expected both checker colors, got %v", seen)
	}
}

func TestDielectric_AlwaysScattersWhite(t *testing.T) {
	glass := NewDielectric(1.5)
	rayIn := core.NewRay(core.NewVec3(-1, 1, 0), core.NewVec3(1, -1, 0))

	srec, ok := glass.Scatter(rayIn, upHit(true), core.NewSeededSampler(42))
	if !ok {
		t.Fatal("Expected dielectric to always scatter")
	}
	if srec.Attenuation != core.NewVec3(1, 1, 1) {
		t.Errorf("Expected white attenuation, got %v", srec.Attenuation)
	}
	if !srec.IsSpecular() {
		t.Error("Expected specular scatter")
	}
}

func TestDielectric_TotalInternalReflection(t *testing.T) {
	// Leaving glass at 60 degrees: 1.5·sin(60°) > 1, so every draw must reflect
	glass := NewDielectric(1.5)
	incoming := core.NewVec3(math.Sin(math.Pi/3), math.Cos(math.Pi/3), 0)
	rayIn := core.NewRay(incoming.Negate(), incoming)

	// Back face: normal is flipped to face the ray
	hit := HitRecord{Point: core.Vec3{}, Normal: core.NewVec3(0, -1, 0), FrontFace: false}
	expected := core.Reflect(incoming.Normalize(), hit.Normal)

	for _, draw := range []float64{0, 0.5, 0.999999} {
		srec, ok := glass.Scatter(rayIn, hit, constSampler{draw})
		if !ok {
			t.Fatal("Expected dielectric to scatter")
		}
		if srec.SpecularRay.Direction.Subtract(expected).Length() > 1e-9 {
			t.Errorf("draw %f: expected reflection %v, got %v", draw, expected, srec.SpecularRay.Direction)
		}
	}
}

func TestDielectric_RefractsWhenDrawAboveSchlick(t *testing.T) {
	glass := NewDielectric(1.5)
	rayIn := core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0))

	// Normal incidence reflectance is 0.04; a draw of 0.5 refracts straight through
	srec, _ := glass.Scatter(rayIn, upHit(true), constSampler{0.5})
	if srec.SpecularRay.Direction.Subtract(core.NewVec3(0, -1, 0)).Length() > 1e-9 {
		t.Errorf("Expected straight refraction, got %v", srec.SpecularRay.Direction)
	}

	// A draw below 0.04 reflects
	srec, _ = glass.Scatter(rayIn, upHit(true), constSampler{0.01})
	if srec.SpecularRay.Direction.Subtract(core.NewVec3(0, 1, 0)).Length() > 1e-9 {
		t.Errorf("Expected reflection, got %v", srec.SpecularRay.Direction)
	}
}

func TestDiffuseLight(t *testing.T) {
	emission := core.NewVec3(4, 4, 4)
	light := NewDiffuseLight(emission)
	rayIn := core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0))

	if _, ok := light.Scatter(rayIn, upHit(true), constSampler{0.5}); ok {
		t.Error("Expected diffuse light never to scatter")
	}

	tests := []struct {
		name      string
		frontFace bool
		expected  core.Color
	}{
		{"front face emits", true, emission},
		{"back face is dark", false, core.Color{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit := upHit(tt.frontFace)
			got := light.Emitted(rayIn, hit, hit.U, hit.V, hit.Point)
			if got != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestNonEmittersAreDark(t *testing.T) {
	rayIn := core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0))
	hit := upHit(true)
	materials := []Material{
		NewLambertian(core.NewVec3(1, 1, 1)),
		NewMetal(core.NewVec3(1, 1, 1), 0),
		NewDielectric(1.5),
	}
	for _, m := range materials {
		if got := m.Emitted(rayIn, hit, 0, 0, hit.Point); got != (core.Color{}) {
			t.Errorf("%T: expected no emission, got %v", m, got)
		}
	}
}
