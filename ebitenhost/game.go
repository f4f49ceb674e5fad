// Package ebitenhost runs the particle field inside an ebiten window. It must
// not be linked together with the glfw client, since both bundle glfw.
package ebitenhost

import (
	"errors"

	"github.com/gekko3d/particlefield"
	"github.com/gekko3d/particlefield/fieldrt/raster"
	"github.com/hajimehoshi/ebiten/v2"
)

// Module attaches a CPU rasterizer whose drawing buffer Game copies to the
// ebiten screen. Install with App.UseRenderer(RendererEbiten, Module{}).
type Module struct{}

type hostState struct {
	raster *raster.Rasterizer
}

func (Module) Install(app *particlefield.App, cmd *particlefield.Commands) {
	field, ok := particlefield.Resource[particlefield.FieldState](app)
	if !ok {
		panic("ebitenhost.Module requires FieldModule")
	}
	r := raster.New(field.Viewport.Width, field.Viewport.Height, field.Viewport.PixelRatio)
	field.AttachRenderer(r)
	cmd.AddResources(&hostState{raster: r})
}

// Game adapts the app to ebiten's Update/Draw/Layout loop: Update runs one
// app frame, Layout reports resizes and Draw presents the last frame.
type Game struct {
	app   *particlefield.App
	field *particlefield.FieldState
	host  *hostState

	screenImg     *ebiten.Image
	lastX, lastY  int
	width, height int
	pointerPrimed bool
}

func NewGame(app *particlefield.App) (*Game, error) {
	field, ok := particlefield.Resource[particlefield.FieldState](app)
	if !ok {
		return nil, errors.New("ebitenhost: FieldModule not installed")
	}
	host, ok := particlefield.Resource[hostState](app)
	if !ok {
		return nil, errors.New("ebitenhost: Module not installed")
	}
	return &Game{
		app:    app,
		field:  field,
		host:   host,
		width:  field.Viewport.Width,
		height: field.Viewport.Height,
	}, nil
}

func (g *Game) Update() error {
	if g.app.Stopped() {
		return ebiten.Termination
	}

	x, y := ebiten.CursorPosition()
	if !g.pointerPrimed || x != g.lastX || y != g.lastY {
		g.pointerPrimed = true
		g.lastX, g.lastY = x, y
		g.movePointer(x, y)
	}
	if ebiten.IsKeyPressed(ebiten.KeyEscape) {
		g.app.Stop()
	}

	g.app.Frame()
	return nil
}

// movePointer converts a cursor position on the game screen, which is in
// drawing-buffer pixels, back to window units before recording it.
func (g *Game) movePointer(x, y int) {
	ratio := g.field.Viewport.PixelRatio
	if ratio <= 0 {
		ratio = 1
	}
	g.field.OnPointerMove(float64(x)/ratio, float64(y)/ratio)
}

func (g *Game) Draw(screen *ebiten.Image) {
	img := g.host.raster.Image()
	if img == nil || img.Bounds().Empty() {
		return
	}
	b := img.Bounds()
	if g.screenImg == nil || g.screenImg.Bounds().Dx() != b.Dx() || g.screenImg.Bounds().Dy() != b.Dy() {
		if g.screenImg != nil {
			g.screenImg.Deallocate()
		}
		g.screenImg = ebiten.NewImage(b.Dx(), b.Dy())
	}
	g.screenImg.WritePixels(img.Pix)
	screen.DrawImage(g.screenImg, nil)
}

// Layout receives the window size in device-independent pixels and answers
// with the drawing-buffer size, so one screen pixel maps to one device pixel.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.width || outsideHeight != g.height {
		g.width, g.height = outsideWidth, outsideHeight
		_ = g.field.OnResize(outsideWidth, outsideHeight)
	}
	bw, bh := g.host.raster.DrawingBufferSize()
	if bw < 1 {
		bw = 1
	}
	if bh < 1 {
		bh = 1
	}
	return bw, bh
}

// Run opens the window and blocks until it closes or the app stops.
func Run(app *particlefield.App, title string) error {
	g, err := NewGame(app)
	if err != nil {
		return err
	}
	scale := ebiten.Monitor().DeviceScaleFactor()
	if scale != g.field.Viewport.PixelRatio {
		g.field.SetPixelRatio(scale)
	}

	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(g.width, g.height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetVsyncEnabled(true)
	ebiten.SetScreenClearedEveryFrame(true)

	err = ebiten.RunGameWithOptions(g, &ebiten.RunGameOptions{ScreenTransparent: true})
	if err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}
