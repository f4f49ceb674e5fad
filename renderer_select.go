package particlefield

import (
	"github.com/gekko3d/particlefield/fieldrt/core"
)

// RendererName identifies the backend recorded in RendererTag.
type RendererName string

const (
	RendererWGPU     RendererName = "wgpu"
	RendererTerminal RendererName = "terminal"
	RendererEbiten   RendererName = "ebiten"
	RendererHeadless RendererName = "headless"
)

// Renderer draws the scene onto a backend surface. Size is the logical output
// size; the drawing buffer is that size multiplied by the pixel ratio.
type Renderer interface {
	SetPixelRatio(ratio float64)
	SetSize(width, height int)
	Size() (int, int)
	DrawingBufferSize() (int, int)
	Render(scene *core.Scene, camera *core.PerspectiveCamera) error
}

// UseRenderer installs exactly one renderer module, enforcing exclusivity via
// ensureSingleRenderer. The module must be installed after FieldModule.
// Usage:
//
//	app.UseRenderer(RendererHeadless, HeadlessModule{})
func (app *App) UseRenderer(name RendererName, mod Module) *App {
	ensureSingleRenderer(app, name)
	app.Logger().Infof("Renderer selected: %s", name)
	app.UseModules(mod)
	return app
}
