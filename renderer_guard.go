package particlefield

import (
	"fmt"
)

// RendererTag records which backend owns the field's drawing surface.
type RendererTag struct {
	Name RendererName
}

// ensureSingleRenderer panics when a second, different backend is installed.
// Installing the same backend twice is a no-op for the tag.
func ensureSingleRenderer(app *App, name RendererName) {
	if app == nil {
		panic("ensureSingleRenderer: app is nil")
	}
	if tag, ok := Resource[RendererTag](app); ok {
		if tag.Name != name {
			msg := fmt.Sprintf("renderer %s already installed, refusing %s", tag.Name, name)
			app.Logger().Errorf("%s", msg)
			panic(msg)
		}
		return
	}
	app.addResources(&RendererTag{Name: name})
}
