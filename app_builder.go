package particlefield

import "fmt"

type AppBuilder struct {
	app     *App
	modules []Module
}

func NewAppBuilder() *AppBuilder {
	return &AppBuilder{app: NewApp()}
}

func (b *AppBuilder) UseModule(modules ...Module) *AppBuilder {
	b.modules = append(b.modules, modules...)

	return b
}

// Build installs modules in the order they were added.
func (b *AppBuilder) Build() *App {
	return b.app.UseModules(b.modules...)
}

type rendererModule struct {
	name RendererName
	mod  Module
}

func (m rendererModule) Install(app *App, cmd *Commands) {
	app.UseRenderer(m.name, m.mod)
}

// UseRenderer queues a renderer module; see App.UseRenderer.
func (b *AppBuilder) UseRenderer(name RendererName, mod Module) *AppBuilder {
	return b.UseModule(rendererModule{name: name, mod: mod})
}

// TryBuild is Build for callers that want install failures as errors. A module
// that panics with an error, such as one wrapping ErrRenderTargetUnavailable,
// has it returned unchanged; any other panic value is formatted into an error.
func (b *AppBuilder) TryBuild() (app *App, err error) {
	defer func() {
		if r := recover(); r != nil {
			app = nil
			if e, ok := r.(error); ok {
				err = e
				return
			}
			err = fmt.Errorf("%v", r)
		}
	}()
	return b.Build(), nil
}
