package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"

	"github.com/df07/go-pathtracer/pkg/config"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/integrator"
	"github.com/df07/go-pathtracer/pkg/log"
	"github.com/df07/go-pathtracer/pkg/renderer"
	"github.com/df07/go-pathtracer/pkg/scene"
)

var logger = log.New("pathtracer")

func setupLogging(ctx *cli.Context) {
	if ctx.GlobalBool("v") {
		log.SetLevel(log.Info)
	}

	if ctx.GlobalBool("vv") {
		log.SetLevel(log.Debug)
	}
}

// loadConfig reads the optional config file and applies any flags that
// were set explicitly on the command line
func loadConfig(ctx *cli.Context) (config.Config, error) {
	cfg := config.Default()
	if path := ctx.String("config"); path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return cfg, err
		}
	}

	if ctx.IsSet("scene") {
		cfg.Scene = ctx.String("scene")
	}
	if ctx.IsSet("width") {
		cfg.Width = ctx.Int("width")
	}
	if ctx.IsSet("spp") {
		cfg.SamplesPerPixel = ctx.Int("spp")
	}
	if ctx.IsSet("depth") {
		cfg.MaxDepth = ctx.Int("depth")
	}
	if ctx.IsSet("seed") {
		cfg.Seed = ctx.Int64("seed")
	}
	if ctx.IsSet("workers") {
		cfg.Workers = ctx.Int("workers")
	}
	if ctx.IsSet("tile-size") {
		cfg.TileSize = ctx.Int("tile-size")
	}
	if ctx.IsSet("out") {
		cfg.Output = ctx.String("out")
	}
	if ctx.IsSet("format") {
		cfg.Format = ctx.String("format")
	}
	if ctx.IsSet("image") {
		cfg.ImagePath = ctx.String("image")
	}
	if ctx.IsSet("mesh") {
		cfg.MeshPath = ctx.String("mesh")
	}

	return cfg, cfg.Validate()
}

// createOutputPath returns output/<scene>/render_<timestamp>.<format>,
// creating the directory
func createOutputPath(sceneID, format string, now time.Time) (string, error) {
	dir := filepath.Join("output", sceneID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	return filepath.Join(dir, fmt.Sprintf("render_%s.%s", now.Format("20060102_150405"), format)), nil
}

// Render a still frame.
func renderScene(ctx *cli.Context) error {
	setupLogging(ctx)

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	sc, err := scene.Load(cfg.Scene, scene.Options{
		Camera:    geometry.CameraConfig{Width: cfg.Width, AspectRatio: cfg.AspectRatio},
		Seed:      cfg.Seed,
		ImagePath: cfg.ImagePath,
		MeshPath:  cfg.MeshPath,
	})
	if err != nil {
		return err
	}
	if cfg.SamplesPerPixel > 0 {
		sc.SamplingConfig.SamplesPerPixel = cfg.SamplesPerPixel
	}
	if cfg.MaxDepth > 0 {
		sc.SamplingConfig.MaxDepth = cfg.MaxDepth
	}

	output := cfg.Output
	if output == "" {
		if output, err = createOutputPath(cfg.Scene, cfg.OutputFormat(), time.Now()); err != nil {
			return err
		}
	}

	if host, err := renderer.GetHostInfo(); err != nil {
		logger.Warningf("could not query host: %v", err)
	} else {
		logger.Infof("Host: %s", host)
	}

	rt, err := renderer.NewRaytracer(sc, integrator.NewPathTracingIntegrator(sc.SamplingConfig), renderer.Options{
		Workers:  cfg.Workers,
		TileSize: cfg.TileSize,
		Seed:     cfg.Seed,
	})
	if err != nil {
		return err
	}

	renderCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	frame, stats, err := rt.Render(renderCtx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Notice("render interrupted")
		}
		return err
	}
	logger.Noticef("frame statistics\n%s", stats.Table())

	if err := frame.Save(output, cfg.OutputFormat()); err != nil {
		return err
	}
	logger.Noticef("wrote %s", output)
	return nil
}

// List the built-in scenes.
func listScenes(ctx *cli.Context) error {
	setupLogging(ctx)

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Scene", "Name", "Description"})
	for _, info := range scene.List() {
		table.Append([]string{info.ID, info.DisplayName, info.Description})
	}
	table.Render()

	_, err := fmt.Fprint(ctx.App.Writer, buf.String())
	return err
}

// Print scene and BVH statistics.
func inspectScene(ctx *cli.Context) error {
	setupLogging(ctx)

	if ctx.NArg() != 1 {
		return errors.New("missing scene argument")
	}
	sceneID := ctx.Args().First()

	sc, err := scene.Load(sceneID, scene.Options{
		Seed:      ctx.Int64("seed"),
		ImagePath: ctx.String("image"),
		MeshPath:  ctx.String("mesh"),
	})
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Property", "Value"})
	table.Append([]string{"Resolution", fmt.Sprintf("%dx%d", sc.CameraConfig.Width, sc.CameraConfig.Height())})
	table.Append([]string{"Samples per pixel", fmt.Sprintf("%d", sc.SamplingConfig.SamplesPerPixel)})
	table.Append([]string{"Max depth", fmt.Sprintf("%d", sc.SamplingConfig.MaxDepth)})
	table.Append([]string{"Shapes", fmt.Sprintf("%d", len(sc.Shapes))})
	table.Append([]string{"Primitives", fmt.Sprintf("%d", sc.GetPrimitiveCount())})
	table.Append([]string{"Lights", fmt.Sprintf("%d", len(sc.Lights))})
	forward := sc.Camera.GetCameraForward()
	table.Append([]string{"View direction", fmt.Sprintf("(%.3f, %.3f, %.3f)", forward.X, forward.Y, forward.Z)})

	if box, ok := sc.World.BoundingBox(sc.CameraConfig.Time0, sc.CameraConfig.Time1); ok {
		table.Append([]string{"World bounds", fmt.Sprintf("%v - %v", box.Min, box.Max)})
	}
	if bvh, ok := sc.World.(*geometry.BVHNode); ok {
		stats := bvh.Stats()
		table.Append([]string{"BVH nodes", fmt.Sprintf("%d", stats.TotalNodes)})
		table.Append([]string{"BVH leaves", fmt.Sprintf("%d", stats.LeafNodes)})
		table.Append([]string{"BVH max depth", fmt.Sprintf("%d", stats.MaxDepth)})
		table.Append([]string{"BVH avg leaf depth", fmt.Sprintf("%.2f", stats.AvgDepth)})
	}
	table.Render()

	_, err = fmt.Fprintf(ctx.App.Writer, "Scene %s\n%s", sceneID, buf.String())
	return err
}
