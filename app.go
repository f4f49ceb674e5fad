package particlefield

import (
	"context"
	"fmt"
	"reflect"
	"runtime"
	"sync/atomic"
)

type systemFn any

type Module interface {
	Install(app *App, cmd *Commands)
}

// App runs every installed system once per frame, stage by stage.
// Systems declare their dependencies as pointer parameters and are resolved
// against the resource map (or *Commands) on each call.
type App struct {
	stages    []Stage
	systems   map[string][]systemFn
	resources map[reflect.Type]any

	frame   uint64
	stopped atomic.Bool
}

func NewApp() *App {
	app := &App{
		systems:   make(map[string][]systemFn),
		resources: make(map[reflect.Type]any),
	}
	for _, stage := range defaultStages {
		app.stages = append(app.stages, stage)
		app.initStage(stage)
	}
	return app
}

func (app *App) Commands() *Commands {
	return &Commands{
		app: app,
	}
}

func (app *App) UseModules(modules ...Module) *App {
	cmd := app.Commands()
	for _, module := range modules {
		module.Install(app, cmd)
	}
	return app
}

// Run executes frames until ctx is done or Stop is called. Hosts that own their
// own refresh loop call Frame directly instead.
func (app *App) Run(ctx context.Context) error {
	app.Logger().Infof("Running %d stages", len(app.stages))

	for !app.Stopped() {
		select {
		case <-ctx.Done():
			app.Stop()
			return ctx.Err()
		default:
		}
		app.Frame()
	}
	return nil
}

// RunFrames executes at most n frames, returning early if the app is stopped.
func (app *App) RunFrames(n int) {
	for i := 0; i < n && !app.Stopped(); i++ {
		app.Frame()
	}
}

func (app *App) Frame() {
	for _, stage := range app.stages {
		for _, system := range app.systems[stage.Name] {
			app.callSystem(system)
		}
	}
	app.frame++
}

// FrameCount is the number of completed frames.
func (app *App) FrameCount() uint64 {
	return app.frame
}

// Stop ends Run after the current frame. Safe to call from any goroutine.
func (app *App) Stop() {
	app.stopped.Store(true)
}

func (app *App) Stopped() bool {
	return app.stopped.Load()
}

func (app *App) addResources(resources ...any) *App {
	for _, resource := range resources {
		resourceType := reflect.TypeOf(resource)
		if resourceType.Kind() != reflect.Pointer {
			panic(fmt.Sprintf("resource %s must be a pointer", resourceType))
		}
		if _, ok := app.resources[resourceType.Elem()]; ok {
			panic(fmt.Sprintf("%s is already in resources", resourceType))
		}

		app.resources[resourceType.Elem()] = resource
	}
	return app
}

// Resource looks up a resource by its element type.
func Resource[T any](app *App) (*T, bool) {
	r, ok := app.resources[reflect.TypeOf((*T)(nil)).Elem()]
	if !ok {
		return nil, false
	}
	return r.(*T), true
}

func (app *App) callSystem(system systemFn) {
	systemType := reflect.TypeOf(system)
	systemValue := reflect.ValueOf(system)

	args := make([]reflect.Value, systemType.NumIn())

	for i := 0; i < systemType.NumIn(); i++ {
		argType := systemType.In(i)
		if argType.Kind() != reflect.Pointer {
			app.unresolved(systemValue, systemType, argType)
		}
		underlyingType := argType.Elem()

		if underlyingType == typeOfCommands {
			args[i] = reflect.ValueOf(&Commands{app: app})
		} else if resource, ok := app.resources[underlyingType]; ok {
			args[i] = reflect.ValueOf(resource)
		} else {
			app.unresolved(systemValue, systemType, argType)
		}
	}
	systemValue.Call(args)
}

var typeOfCommands = reflect.TypeOf(Commands{})

func (app *App) unresolved(systemValue reflect.Value, systemType, argType reflect.Type) {
	msg := fmt.Sprintf("Unable to resolve System dependency.\nSystem: %s\nSystem type: %s\nDependency: %s",
		runtime.FuncForPC(systemValue.Pointer()).Name(),
		fmt.Sprint(systemType),
		fmt.Sprint(argType),
	)
	app.Logger().Errorf("%s", msg)
	panic(msg)
}
