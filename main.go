package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli"
)

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "go-pathtracer"
	app.Usage = "render built-in scenes with a Monte Carlo path tracer"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "render",
			Usage: "render a scene to an image file",
			Description: `
Load a built-in scene, render it with the path tracing integrator and write
the result as a plain PPM (P3) or PNG image.

Settings are read from an optional JSON config file; flags override them.
Without --out the image is written to output/<scene>/render_<timestamp>.<format>.`,
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "config, c",
					Usage: "JSON render config file",
				},
				cli.StringFlag{
					Name:  "scene, s",
					Usage: "built-in scene to render (see the scenes command)",
				},
				cli.IntFlag{
					Name:  "width",
					Usage: "image width, 0 keeps the scene default",
				},
				cli.IntFlag{
					Name:  "spp",
					Usage: "samples per pixel, 0 keeps the scene default",
				},
				cli.IntFlag{
					Name:  "depth",
					Usage: "maximum bounce depth, 0 keeps the scene default",
				},
				cli.Int64Flag{
					Name:  "seed",
					Usage: "seed for scene generation and sampling",
				},
				cli.IntFlag{
					Name:  "workers",
					Usage: "number of render workers, 0 uses every logical core",
				},
				cli.IntFlag{
					Name:  "tile-size",
					Usage: "tile edge in pixels",
				},
				cli.StringFlag{
					Name:  "out, o",
					Usage: "image filename for the rendered frame",
				},
				cli.StringFlag{
					Name:  "format",
					Usage: "output format: ppm or png",
				},
				cli.StringFlag{
					Name:  "image",
					Usage: "image file for the textures scene",
				},
				cli.StringFlag{
					Name:  "mesh",
					Usage: "PLY file for the mesh scene",
				},
			},
			Action: renderScene,
		},
		{
			Name:   "scenes",
			Usage:  "list built-in scenes",
			Action: listScenes,
		},
		{
			Name:      "inspect",
			Usage:     "print scene and BVH statistics",
			ArgsUsage: "scene",
			Flags: []cli.Flag{
				cli.Int64Flag{
					Name:  "seed",
					Value: 42,
					Usage: "seed for scene generation",
				},
				cli.StringFlag{
					Name:  "image",
					Usage: "image file for the textures scene",
				},
				cli.StringFlag{
					Name:  "mesh",
					Usage: "PLY file for the mesh scene",
				},
			},
			Action: inspectScene,
		},
	}
	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
