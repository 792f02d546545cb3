package renderer

import (
	"fmt"
	"time"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/integrator"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// TileStats records the work done for one tile
type TileStats struct {
	TileID   int
	Pixels   int
	Samples  int
	Duration time.Duration
}

// TileRenderer renders individual tiles of a built scene using an integrator
type TileRenderer struct {
	scene           *scene.Scene
	integrator      integrator.Integrator
	width, height   int
	samplesPerPixel int
}

// NewTileRenderer creates a new tile renderer with the given scene and integrator
func NewTileRenderer(sc *scene.Scene, integratorInst integrator.Integrator) *TileRenderer {
	return &TileRenderer{
		scene:           sc,
		integrator:      integratorInst,
		width:           sc.CameraConfig.Width,
		height:          sc.CameraConfig.Height(),
		samplesPerPixel: sc.SamplingConfig.SamplesPerPixel,
	}
}

// RenderTile samples every pixel in the tile and accumulates the results
// into frame. It stops at the first non-finite sample.
func (tr *TileRenderer) RenderTile(tile *Tile, frame *Frame) (TileStats, error) {
	startTime := time.Now()
	sampler := core.NewRandomSampler(tile.Random)
	camera := tr.scene.Camera

	// Viewport coordinates span [0, 1] from the first to the last pixel
	uScale := 1.0 / float64(max(1, tr.width-1))
	vScale := 1.0 / float64(max(1, tr.height-1))

	stats := TileStats{TileID: tile.ID}
	for y := tile.Bounds.Min.Y; y < tile.Bounds.Max.Y; y++ {
		// v = 0 is the bottom row
		row := tr.height - 1 - y
		for x := tile.Bounds.Min.X; x < tile.Bounds.Max.X; x++ {
			for s := 0; s < tr.samplesPerPixel; s++ {
				u := (float64(x) + sampler.Get1D()) * uScale
				v := (float64(row) + sampler.Get1D()) * vScale
				ray := camera.GetRay(u, v, sampler)

				color := tr.integrator.RayColor(ray, tr.scene, sampler)
				if !color.IsFinite() {
					return stats, fmt.Errorf("pixel (%d, %d) sample %d: %w", x, y, s, ErrNonFiniteRadiance)
				}
				frame.Add(x, y, color)
			}
			stats.Pixels++
			stats.Samples += tr.samplesPerPixel
		}
	}

	stats.Duration = time.Since(startTime)
	return stats, nil
}
