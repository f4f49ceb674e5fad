package particlefield

import (
	"fmt"
	"os"
	"time"

	"github.com/gekko3d/particlefield/fieldrt/raster"
)

// HeadlessModule renders with the CPU rasterizer and no window. With Frames
// set it stops the app after that many frames; with SnapshotPath set it writes
// the last frame as PNG when stopping. FPS paces frames with a ticker; zero
// renders as fast as possible.
type HeadlessModule struct {
	Frames       int
	SnapshotPath string
	FPS          int
}

type headlessState struct {
	raster       *raster.Rasterizer
	frames       int
	snapshotPath string
	ticker       *time.Ticker
	done         bool
}

func (mod HeadlessModule) Install(app *App, cmd *Commands) {
	field, ok := Resource[FieldState](app)
	if !ok {
		panic("HeadlessModule requires FieldModule")
	}

	r := raster.New(field.Viewport.Width, field.Viewport.Height, field.Viewport.PixelRatio)
	field.AttachRenderer(r)

	state := &headlessState{
		raster:       r,
		frames:       mod.Frames,
		snapshotPath: mod.SnapshotPath,
	}
	if mod.FPS > 0 {
		state.ticker = time.NewTicker(time.Second / time.Duration(mod.FPS))
	}
	cmd.AddResources(r, state)
	cmd.UseSystem(System(headlessFinishSystem).InStage(Finale))
	cmd.UseSystem(System(headlessPaceSystem).InStage(Finale))
}

func headlessPaceSystem(state *headlessState) {
	if state.ticker == nil || state.done {
		return
	}
	<-state.ticker.C
}

func headlessFinishSystem(state *headlessState, stats *FrameStats, cmd *Commands) {
	if state.done || state.frames <= 0 || int(stats.Rendered+stats.Dropped) < state.frames {
		return
	}
	state.done = true
	if state.ticker != nil {
		state.ticker.Stop()
	}
	if state.snapshotPath != "" {
		if err := writeSnapshot(state.raster, state.snapshotPath); err != nil {
			cmd.Logger().Errorf("%v", err)
		} else {
			cmd.Logger().Infof("snapshot written to %s", state.snapshotPath)
		}
	}
	cmd.Stop()
}

func writeSnapshot(r *raster.Rasterizer, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create snapshot: %w", err)
	}
	defer f.Close()

	if err := r.WritePNG(f); err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return nil
}
