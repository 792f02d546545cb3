package material

import (
	"math"
	"math/rand"

	"github.com/df07/go-pathtracer/pkg/core"
)

const perlinPointCount = 256

// Perlin holds the lattice values and permutation tables for value noise.
// Tables are generated once from an explicit generator so scenes are reproducible.
type Perlin struct {
	ranFloat [perlinPointCount]float64
	permX    [perlinPointCount]int
	permY    [perlinPointCount]int
	permZ    [perlinPointCount]int
}

// NewPerlin generates noise tables from random
func NewPerlin(random *rand.Rand) *Perlin {
	p := &Perlin{}
	for i := range p.ranFloat {
		p.ranFloat[i] = random.Float64()
	}
	generatePerm(&p.permX, random)
	generatePerm(&p.permY, random)
	generatePerm(&p.permZ, random)
	return p
}

// generatePerm fills perm with a shuffled identity permutation
func generatePerm(perm *[perlinPointCount]int, random *rand.Rand) {
	for i := range perm {
		perm[i] = i
	}
	for i := perlinPointCount - 1; i > 0; i-- {
		target := int(random.Float64() * float64(i))
		perm[i], perm[target] = perm[target], perm[i]
	}
}

// Noise returns the lattice value for the cell containing p, in [0, 1)
func (p *Perlin) Noise(point core.Vec3) float64 {
	i := int(math.Floor(4*point.X)) & (perlinPointCount - 1)
	j := int(math.Floor(4*point.Y)) & (perlinPointCount - 1)
	k := int(math.Floor(4*point.Z)) & (perlinPointCount - 1)

	return p.ranFloat[p.permX[i]^p.permY[j]^p.permZ[k]]
}

// Turbulence sums depth octaves of noise with halving weights and doubling frequency
func (p *Perlin) Turbulence(point core.Vec3, depth int) float64 {
	accum := 0.0
	weight := 1.0
	for i := 0; i < depth; i++ {
		accum += weight * p.Noise(point)
		weight *= 0.5
		point = point.Multiply(2)
	}
	return math.Abs(accum)
}
