package renderer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/df07/go-pathtracer/pkg/integrator"
	"github.com/df07/go-pathtracer/pkg/log"
	"github.com/df07/go-pathtracer/pkg/scene"
)

var logger = log.New("renderer")

// Options control how a frame is distributed over workers
type Options struct {
	Workers  int   // 0 uses DefaultWorkers
	TileSize int   // Tile edge in pixels
	Seed     int64 // Seeds every tile generator
}

// DefaultOptions returns sensible default values
func DefaultOptions() Options {
	return Options{
		Workers:  0,
		TileSize: 32,
		Seed:     42,
	}
}

// Raytracer renders full frames of a built scene in parallel tiles
type Raytracer struct {
	scene      *scene.Scene
	integrator integrator.Integrator
	options    Options
	width      int
	height     int
}

// NewRaytracer creates a new raytracer. The scene must already be built.
func NewRaytracer(sc *scene.Scene, integratorInst integrator.Integrator, options Options) (*Raytracer, error) {
	if sc.World == nil {
		return nil, errors.New("renderer: scene has not been built")
	}
	if options.TileSize <= 0 {
		options.TileSize = DefaultOptions().TileSize
	}
	if options.Workers <= 0 {
		options.Workers = DefaultWorkers()
	}

	return &Raytracer{
		scene:      sc,
		integrator: integratorInst,
		options:    options,
		width:      sc.CameraConfig.Width,
		height:     sc.CameraConfig.Height(),
	}, nil
}

// Render renders one frame. The result depends only on the scene and
// Options.Seed, not on the number of workers or their scheduling.
func (rt *Raytracer) Render(ctx context.Context) (*Frame, RenderStats, error) {
	startTime := time.Now()
	spp := rt.scene.SamplingConfig.SamplesPerPixel

	frame, err := NewFrame(rt.width, rt.height, spp)
	if err != nil {
		return nil, RenderStats{}, err
	}

	tiles := NewTileGrid(rt.width, rt.height, rt.options.TileSize, rt.options.Seed)
	pool := NewWorkerPool(NewTileRenderer(rt.scene, rt.integrator), frame, rt.options.Workers, len(tiles))

	logger.Infof("Rendering %dx%d at %d spp: %d tiles on %d workers",
		rt.width, rt.height, spp, len(tiles), pool.GetNumWorkers())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	pool.Start(ctx)
	for i, tile := range tiles {
		pool.SubmitTask(TileTask{Tile: tile, TaskID: i})
	}

	stats := RenderStats{
		Width:           rt.width,
		Height:          rt.height,
		SamplesPerPixel: spp,
		Workers:         pool.GetNumWorkers(),
		TileTimes:       make([]time.Duration, len(tiles)),
	}

	var renderErr error
	nextReport := 0.1
	for i := 0; i < len(tiles); i++ {
		result, ok := pool.GetResult()
		if !ok {
			renderErr = fmt.Errorf("worker pool closed unexpectedly")
			break
		}
		if result.Error != nil {
			if renderErr == nil {
				renderErr = result.Error
				// Remaining tiles are skipped by the workers
				cancel()
			}
			continue
		}

		stats.TileTimes[result.TaskID] = result.Stats.Duration
		stats.TotalPixels += result.Stats.Pixels
		stats.TotalSamples += result.Stats.Samples
		logger.Debugf("Tile %d done in %v", result.Stats.TileID, result.Stats.Duration)

		if progress := float64(i+1) / float64(len(tiles)); progress >= nextReport {
			logger.Infof("Progress: %.0f%%", progress*100)
			for nextReport <= progress {
				nextReport += 0.1
			}
		}
	}
	pool.Stop()

	if renderErr != nil {
		return nil, RenderStats{}, fmt.Errorf("render failed: %w", renderErr)
	}

	stats.Duration = time.Since(startTime)
	stats.LuminanceMean, stats.LuminanceStdDev = frameLuminance(frame)
	stats.ImageLuminance = CalculateAverageLuminance(frame.Image())

	logger.Infof("Rendered %d samples in %v", stats.TotalSamples, stats.Duration)
	return frame, stats, nil
}
