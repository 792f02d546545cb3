package geometry

import (
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

func approxEqual(a, b, tolerance float64) bool {
	return math.Abs(a-b) <= tolerance
}

func vecApprox(a, b core.Vec3, tolerance float64) bool {
	return approxEqual(a.X, b.X, tolerance) && approxEqual(a.Y, b.Y, tolerance) && approxEqual(a.Z, b.Z, tolerance)
}

func testMaterial() material.Material {
	return material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))
}

func TestSphere_Hit(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1, testMaterial())

	tests := []struct {
		name          string
		ray           core.Ray
		tMax          float64
		shouldHit     bool
		expectedT     float64
		expectedPoint core.Vec3
		expectedNorm  core.Vec3
		frontFace     bool
	}{
		{
			name:          "Hit from outside",
			ray:           core.NewRay(core.NewVec3(0, 0, -5), core.NewVec3(0, 0, 1)),
			tMax:          math.Inf(1),
			shouldHit:     true,
			expectedT:     4,
			expectedPoint: core.NewVec3(0, 0, -1),
			expectedNorm:  core.NewVec3(0, 0, -1),
			frontFace:     true,
		},
		{
			name:          "Hit from inside",
			ray:           core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1)),
			tMax:          math.Inf(1),
			shouldHit:     true,
			expectedT:     1,
			expectedPoint: core.NewVec3(0, 0, 1),
			expectedNorm:  core.NewVec3(0, 0, -1),
			frontFace:     false,
		},
		{
			name:      "Miss above",
			ray:       core.NewRay(core.NewVec3(0, 2, -5), core.NewVec3(0, 0, 1)),
			tMax:      math.Inf(1),
			shouldHit: false,
		},
		{
			name:      "Both roots outside interval",
			ray:       core.NewRay(core.NewVec3(0, 0, -5), core.NewVec3(0, 0, 1)),
			tMax:      4,
			shouldHit: false,
		},
		{
			name:      "Sphere behind ray",
			ray:       core.NewRay(core.NewVec3(0, 0, 5), core.NewVec3(0, 0, 1)),
			tMax:      math.Inf(1),
			shouldHit: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit, ok := sphere.Hit(tt.ray, 0.001, tt.tMax)
			if ok != tt.shouldHit {
				t.Fatalf("Expected hit=%v, got %v", tt.shouldHit, ok)
			}
			if !ok {
				return
			}
			if !approxEqual(hit.T, tt.expectedT, 1e-9) {
				t.Errorf("Expected t=%v, got %v", tt.expectedT, hit.T)
			}
			if !vecApprox(hit.Point, tt.expectedPoint, 1e-9) {
				t.Errorf("Expected point %v, got %v", tt.expectedPoint, hit.Point)
			}
			if !vecApprox(hit.Normal, tt.expectedNorm, 1e-9) {
				t.Errorf("Expected normal %v, got %v", tt.expectedNorm, hit.Normal)
			}
			if hit.FrontFace != tt.frontFace {
				t.Errorf("Expected front face %v, got %v", tt.frontFace, hit.FrontFace)
			}
			if hit.Material == nil {
				t.Error("Expected hit to carry the sphere's material")
			}
		})
	}
}

func TestSphere_NormalFacesRay(t *testing.T) {
	sphere := NewSphere(core.NewVec3(1, -2, 3), 2, testMaterial())
	random := rand.New(rand.NewSource(7))

	hits := 0
	for i := 0; i < 1000; i++ {
		origin := core.NewVec3(random.Float64()*20-10, random.Float64()*20-10, random.Float64()*20-10)
		target := sphere.Center.Add(core.NewVec3(random.Float64()*4-2, random.Float64()*4-2, random.Float64()*4-2))
		ray := core.NewRay(origin, target.Subtract(origin))

		hit, ok := sphere.Hit(ray, 0.001, math.Inf(1))
		if !ok {
			continue
		}
		hits++
		if !approxEqual(hit.Normal.Length(), 1, 1e-9) {
			t.Fatalf("Expected unit normal, got length %v", hit.Normal.Length())
		}
		if hit.Normal.Dot(ray.Direction) > 1e-12 {
			t.Fatalf("Expected normal against the ray, got dot %v", hit.Normal.Dot(ray.Direction))
		}
		if !approxEqual(hit.Point.Subtract(sphere.Center).Length(), sphere.Radius, 1e-9) {
			t.Fatalf("Expected hit point on surface, got distance %v", hit.Point.Subtract(sphere.Center).Length())
		}
	}
	if hits == 0 {
		t.Fatal("Expected some rays to hit the sphere")
	}
}

func TestSphere_UV(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1, testMaterial())

	hit, ok := sphere.Hit(core.NewRay(core.NewVec3(5, 0, 0), core.NewVec3(-1, 0, 0)), 0.001, math.Inf(1))
	if !ok {
		t.Fatal("Expected hit")
	}
	if !approxEqual(hit.U, 0.5, 1e-9) || !approxEqual(hit.V, 0.5, 1e-9) {
		t.Errorf("Expected uv (0.5, 0.5), got (%v, %v)", hit.U, hit.V)
	}

	hit, ok = sphere.Hit(core.NewRay(core.NewVec3(0, 5, 0), core.NewVec3(0, -1, 0)), 0.001, math.Inf(1))
	if !ok {
		t.Fatal("Expected hit")
	}
	if !approxEqual(hit.V, 1, 1e-9) {
		t.Errorf("Expected v=1 at the north pole, got %v", hit.V)
	}
}

func TestSphere_BoundingBox(t *testing.T) {
	sphere := NewSphere(core.NewVec3(1, 2, 3), 0.5, testMaterial())
	box, ok := sphere.BoundingBox(0, 1)
	if !ok {
		t.Fatal("Expected sphere to have a bounding box")
	}
	if !vecApprox(box.Min, core.NewVec3(0.5, 1.5, 2.5), 1e-9) || !vecApprox(box.Max, core.NewVec3(1.5, 2.5, 3.5), 1e-9) {
		t.Errorf("Expected box [0.5,1.5,2.5]-[1.5,2.5,3.5], got %v-%v", box.Min, box.Max)
	}
}

func TestSphere_PDFValue(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, -10), 1, testMaterial())
	origin := core.NewVec3(0, 0, 0)

	cosThetaMax := math.Sqrt(1 - 1.0/100)
	expected := 1 / (2 * math.Pi * (1 - cosThetaMax))

	if got := sphere.PDFValue(origin, core.NewVec3(0, 0, -1), 0); !approxEqual(got, expected, 1e-6*expected) {
		t.Errorf("Expected pdf %v toward center, got %v", expected, got)
	}
	if got := sphere.PDFValue(origin, core.NewVec3(0, 1, 0), 0); got != 0 {
		t.Errorf("Expected pdf 0 for a direction missing the sphere, got %v", got)
	}

	inside := sphere.PDFValue(core.NewVec3(0, 0, -10), core.NewVec3(1, 0, 0), 0)
	if !approxEqual(inside, 1/(4*math.Pi), 1e-12) {
		t.Errorf("Expected uniform pdf 1/4π from inside, got %v", inside)
	}
}

func TestSphere_RandomHitsSphere(t *testing.T) {
	sphere := NewSphere(core.NewVec3(3, 1, -6), 1.5, testMaterial())
	origin := core.NewVec3(0, 0, 0)
	sampler := core.NewSeededSampler(11)

	for i := 0; i < 1000; i++ {
		direction := sphere.Random(origin, sampler)
		if _, ok := sphere.Hit(core.NewRay(origin, direction), 0.001, math.Inf(1)); !ok {
			t.Fatalf("Sample %d: direction %v misses the sphere", i, direction)
		}
		if sphere.PDFValue(origin, direction, 0) <= 0 {
			t.Fatalf("Sample %d: expected positive pdf for a generated direction", i)
		}
	}
}

func TestMovingSphere(t *testing.T) {
	sphere := NewMovingSphere(core.NewVec3(0, 0, 0), core.NewVec3(2, 0, 0), 0, 1, 0.5, testMaterial())

	if center := sphere.Center(0.5); !vecApprox(center, core.NewVec3(1, 0, 0), 1e-12) {
		t.Errorf("Expected center (1,0,0) at t=0.5, got %v", center)
	}

	late := core.NewRayAt(core.NewVec3(2, 0, -5), core.NewVec3(0, 0, 1), 1)
	hit, ok := sphere.Hit(late, 0.001, math.Inf(1))
	if !ok {
		t.Fatal("Expected hit at time 1")
	}
	if !approxEqual(hit.T, 4.5, 1e-9) {
		t.Errorf("Expected t=4.5, got %v", hit.T)
	}

	early := core.NewRayAt(core.NewVec3(2, 0, -5), core.NewVec3(0, 0, 1), 0)
	if _, ok := sphere.Hit(early, 0.001, math.Inf(1)); ok {
		t.Error("Expected miss at time 0")
	}

	box, ok := sphere.BoundingBox(0, 1)
	if !ok {
		t.Fatal("Expected moving sphere to have a bounding box")
	}
	if !vecApprox(box.Min, core.NewVec3(-0.5, -0.5, -0.5), 1e-9) || !vecApprox(box.Max, core.NewVec3(2.5, 0.5, 0.5), 1e-9) {
		t.Errorf("Expected swept box [-0.5..2.5], got %v-%v", box.Min, box.Max)
	}
}

func TestMovingSphere_EqualTimes(t *testing.T) {
	sphere := NewMovingSphere(core.NewVec3(1, 1, 1), core.NewVec3(5, 5, 5), 2, 2, 1, testMaterial())
	if center := sphere.Center(10); !vecApprox(center, core.NewVec3(1, 1, 1), 0) {
		t.Errorf("Expected Center0 when the interval is empty, got %v", center)
	}
}

func TestMovingSphere_RandomConsistentWithPDF(t *testing.T) {
	sphere := NewMovingSphere(core.NewVec3(0, 0, -8), core.NewVec3(1, 0, -8), 0, 1, 1, testMaterial())
	origin := core.NewVec3(0, 0, 0)
	sampler := core.NewSeededSampler(3)

	for i := 0; i < 500; i++ {
		direction := sphere.Random(origin, sampler)
		if sphere.PDFValue(origin, direction, 0.5) <= 0 {
			t.Fatalf("Sample %d: expected positive pdf for generated direction %v", i, direction)
		}
	}
}
