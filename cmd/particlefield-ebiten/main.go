// Command particlefield-ebiten shows the particle field in an ebiten window.
// It is a separate binary because ebiten and the glfw client both link glfw.
package main

import (
	"flag"
	"log"
	"os"

	"github.com/gekko3d/particlefield"
	"github.com/gekko3d/particlefield/ebitenhost"
)

func main() {
	width := flag.Int("width", 1280, "window width")
	height := flag.Int("height", 720, "window height")
	title := flag.String("title", "Particle Field", "window title")
	particles := flag.Int("particles", 0, "particle count (0 keeps the configured count)")
	seed := flag.Int64("seed", 0, "random seed (0 seeds from the clock)")
	config := flag.String("config", "", "JSON file overriding the field defaults")
	normalize := flag.Bool("normalize", false, "scale rotation by frame time instead of per frame")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	cfg := particlefield.DefaultFieldConfig()
	if *config != "" {
		loaded, err := particlefield.LoadFieldConfig(*config)
		if err != nil {
			log.Fatalf("particlefield-ebiten: %v", err)
		}
		cfg = loaded
	}
	if *particles > 0 {
		cfg.ParticleCount = *particles
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}
	cfg.NormalizeToRefresh = cfg.NormalizeToRefresh || *normalize
	if err := cfg.Validate(); err != nil {
		log.Fatalf("particlefield-ebiten: %v", err)
	}

	app := particlefield.NewAppBuilder().
		UseModule(
			particlefield.LoggingModule{Prefix: "particlefield", Debug: *debug},
			particlefield.FieldModule{
				Config:   cfg,
				Viewport: particlefield.Viewport{Width: *width, Height: *height, PixelRatio: 1},
			},
		).
		UseRenderer(particlefield.RendererEbiten, ebitenhost.Module{}).
		Build()

	if err := ebitenhost.Run(app, *title); err != nil {
		app.Logger().Errorf("%v", err)
		os.Exit(1)
	}
}
