// Package client hosts the particle field in a native glfw window drawn with
// WebGPU.
package client

import (
	"github.com/gekko3d/particlefield"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// ClientModule opens the window at the field's viewport size and attaches a
// WgpuRenderer to the field. Install with App.UseRenderer(RendererWGPU, ...).
type ClientModule struct {
	WindowTitle string
}

type clientState struct {
	window   *WindowState
	gpu      *GpuState
	renderer *WgpuRenderer
}

func (mod ClientModule) Install(app *particlefield.App, cmd *particlefield.Commands) {
	field, ok := particlefield.Resource[particlefield.FieldState](app)
	if !ok {
		panic("ClientModule requires FieldModule")
	}
	title := mod.WindowTitle
	if title == "" {
		title = "Particle Field"
	}

	win, err := createWindowState(field.Viewport.Width, field.Viewport.Height, title)
	if err != nil {
		cmd.Logger().Errorf("%v", err)
		panic(err)
	}

	// Framebuffer size already includes the content scale.
	fbw, fbh := win.windowGlfw.GetFramebufferSize()
	g, err := createGpuState(win, fbw, fbh)
	if err != nil {
		win.destroy()
		cmd.Logger().Errorf("%v", err)
		panic(err)
	}

	renderer := newWgpuRenderer(g)
	field.Viewport.PixelRatio = win.ContentScale()
	field.AttachRenderer(renderer)
	win.bindField(field, cmd.Logger())

	cmd.Logger().Infof("window %dx%d, framebuffer %dx%d, format %v",
		field.Viewport.Width, field.Viewport.Height, fbw, fbh, g.surfaceConfig.Format)

	cmd.AddResources(&clientState{window: win, gpu: g, renderer: renderer})
	cmd.UseSystem(particlefield.System(windowEventsSystem).InStage(particlefield.PreUpdate))
}

func windowEventsSystem(state *clientState, cmd *particlefield.Commands) {
	glfw.PollEvents()
	if state.window.windowGlfw.ShouldClose() {
		cmd.Stop()
	}
}

// Shutdown releases GPU objects and closes the window. Call it on the thread
// that ran the app, after Run returns.
func Shutdown(app *particlefield.App) {
	state, ok := particlefield.Resource[clientState](app)
	if !ok {
		return
	}
	state.renderer.release()
	state.gpu.release()
	state.window.destroy()
}
