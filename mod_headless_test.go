package particlefield

import (
	"context"
	"image/png"
	"math/rand"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gekko3d/particlefield/fieldrt/raster"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeadlessModule_RunsAndSnapshots(t *testing.T) {
	out := filepath.Join(t.TempDir(), "frame.png")

	app := NewAppBuilder().
		UseModule(FieldModule{
			Viewport: Viewport{Width: 160, Height: 90, PixelRatio: 2},
			Rand:     rand.New(rand.NewSource(5)),
		}).
		UseRenderer(RendererHeadless, HeadlessModule{Frames: 10, SnapshotPath: out}).
		Build()

	require.NoError(t, app.Run(context.Background()))
	assert.Equal(t, uint64(10), app.FrameCount())

	r, ok := Resource[raster.Rasterizer](app)
	require.True(t, ok)
	bw, bh := r.DrawingBufferSize()
	assert.Equal(t, 320, bw)
	assert.Equal(t, 180, bh)

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 160, img.Bounds().Dx())
	assert.Equal(t, 90, img.Bounds().Dy())
}

func TestHeadlessModule_ResizeReachesRasterizer(t *testing.T) {
	app := NewAppBuilder().
		UseModule(FieldModule{Viewport: Viewport{Width: 100, Height: 100, PixelRatio: 1}}).
		UseRenderer(RendererHeadless, HeadlessModule{}).
		Build()

	field, _ := Resource[FieldState](app)
	require.NoError(t, field.OnResize(64, 32))
	app.Frame()

	r, _ := Resource[raster.Rasterizer](app)
	w, h := r.Size()
	assert.Equal(t, 64, w)
	assert.Equal(t, 32, h)
	assert.Equal(t, 64, r.Image().Bounds().Dx())
}

func TestHeadlessModule_FPSPacesFrames(t *testing.T) {
	app := NewAppBuilder().
		UseModule(FieldModule{Viewport: Viewport{Width: 32, Height: 32, PixelRatio: 1}}).
		UseRenderer(RendererHeadless, HeadlessModule{Frames: 5, FPS: 50}).
		Build()

	start := time.Now()
	require.NoError(t, app.Run(context.Background()))
	assert.Equal(t, uint64(5), app.FrameCount())
	// Four ticks of 20ms are awaited before the fifth frame stops the app.
	assert.GreaterOrEqual(t, time.Since(start), 60*time.Millisecond)

	state, ok := Resource[headlessState](app)
	require.True(t, ok)
	assert.True(t, state.done)
}

func TestHeadlessModule_NoFPSIsUnpaced(t *testing.T) {
	app := NewAppBuilder().
		UseModule(FieldModule{Viewport: Viewport{Width: 8, Height: 8, PixelRatio: 1}}).
		UseRenderer(RendererHeadless, HeadlessModule{Frames: 3}).
		Build()

	state, _ := Resource[headlessState](app)
	assert.Nil(t, state.ticker)
	require.NoError(t, app.Run(context.Background()))
	assert.Equal(t, uint64(3), app.FrameCount())
}
