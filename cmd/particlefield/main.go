package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/gekko3d/particlefield"
	"github.com/gekko3d/particlefield/client"
	"github.com/gekko3d/particlefield/term"
)

func init() {
	// glfw must be driven from the main thread.
	runtime.LockOSThread()
}

type options struct {
	backend   string
	width     int
	height    int
	title     string
	particles int
	seed      int64
	config    string
	frames    int
	snapshot  string
	normalize bool
	debug     bool
}

func main() {
	var opts options
	flag.StringVar(&opts.backend, "backend", "wgpu", "renderer backend: wgpu, term or headless")
	flag.IntVar(&opts.width, "width", 1280, "viewport width")
	flag.IntVar(&opts.height, "height", 720, "viewport height")
	flag.StringVar(&opts.title, "title", "Particle Field", "window title")
	flag.IntVar(&opts.particles, "particles", 0, "particle count (0 keeps the configured count)")
	flag.Int64Var(&opts.seed, "seed", 0, "random seed (0 seeds from the clock)")
	flag.StringVar(&opts.config, "config", "", "JSON file overriding the field defaults")
	flag.IntVar(&opts.frames, "frames", 0, "headless: stop after this many frames")
	flag.StringVar(&opts.snapshot, "snapshot", "", "headless: write the last frame to this PNG")
	flag.BoolVar(&opts.normalize, "normalize", false, "scale rotation by frame time instead of per frame")
	flag.BoolVar(&opts.debug, "debug", false, "enable debug logging")
	flag.Parse()

	if err := run(opts); err != nil {
		log.Printf("particlefield: %v", err)
		os.Exit(1)
	}
}

func run(opts options) error {
	cfg, err := fieldConfig(opts)
	if err != nil {
		return err
	}

	renderer, name, shutdown, err := backend(opts)
	if err != nil {
		return err
	}

	app, err := build(opts, cfg, name, renderer)
	if err != nil {
		return err
	}
	defer shutdown(app)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = app.Run(ctx)
	if stats, ok := particlefield.Resource[particlefield.FrameStats](app); ok {
		app.Logger().Infof("rendered %d frames, dropped %d", stats.Rendered, stats.Dropped)
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func fieldConfig(opts options) (particlefield.FieldConfig, error) {
	cfg := particlefield.DefaultFieldConfig()
	if opts.config != "" {
		loaded, err := particlefield.LoadFieldConfig(opts.config)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}
	if opts.particles > 0 {
		cfg.ParticleCount = opts.particles
	}
	if opts.seed != 0 {
		cfg.Seed = opts.seed
	}
	if opts.normalize {
		cfg.NormalizeToRefresh = true
	}
	return cfg, cfg.Validate()
}

func backend(opts options) (particlefield.Module, particlefield.RendererName, func(*particlefield.App), error) {
	switch opts.backend {
	case "wgpu", "":
		return client.ClientModule{WindowTitle: opts.title}, particlefield.RendererWGPU, client.Shutdown, nil
	case "term", "terminal":
		return term.TerminalModule{}, particlefield.RendererTerminal, term.Shutdown, nil
	case "headless":
		mod := particlefield.HeadlessModule{Frames: opts.frames, SnapshotPath: opts.snapshot}
		if opts.frames <= 0 {
			// Runs until interrupted, so keep to a display-like rate.
			mod.FPS = 60
		}
		return mod, particlefield.RendererHeadless, func(*particlefield.App) {}, nil
	}
	return nil, "", nil, fmt.Errorf("unknown backend %q", opts.backend)
}

func build(opts options, cfg particlefield.FieldConfig, name particlefield.RendererName, renderer particlefield.Module) (*particlefield.App, error) {
	return particlefield.NewAppBuilder().
		UseModule(
			particlefield.LoggingModule{Prefix: "particlefield", Debug: opts.debug},
			particlefield.FieldModule{
				Config:   cfg,
				Viewport: particlefield.Viewport{Width: opts.width, Height: opts.height, PixelRatio: 1},
			},
		).
		UseRenderer(name, renderer).
		TryBuild()
}
