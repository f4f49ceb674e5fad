package particlefield

import (
	"context"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockResource1 struct {
	name  string
	calls int
}
type MockResource2 struct {
	name string
}

func NewMockResource1(name string) *MockResource1 {
	return &MockResource1{name: name}
}
func NewMockResource2(name string) *MockResource2 {
	return &MockResource2{name: name}
}

func TestApp_addResources(t *testing.T) {
	app := &App{
		resources: make(map[reflect.Type]any),
	}

	resource1 := NewMockResource1("Resource1")
	app.addResources(resource1)

	assert.Contains(t, app.resources, reflect.TypeOf(resource1).Elem(), "Resource1 should be in resources map.")

	// Expect panic when trying to add the same type of resource again
	require.PanicsWithValue(t, fmt.Sprintf("%s is already in resources", reflect.TypeOf(resource1)), func() {
		app.addResources(resource1)
	})

	resource2 := NewMockResource2("Resource2")
	app.addResources(resource2)

	assert.Contains(t, app.resources, reflect.TypeOf(resource2).Elem(), "Resource2 should be in resources map.")

	got, ok := Resource[MockResource2](app)
	require.True(t, ok)
	assert.Same(t, resource2, got)
}

func TestApp_SystemsRunInStageOrder(t *testing.T) {
	app := NewApp()
	var order []string
	app.UseSystem(System(func() { order = append(order, "render") }).InStage(Render))
	app.UseSystem(System(func() { order = append(order, "update") }))
	app.UseSystem(System(func() { order = append(order, "prelude") }).InStage(Prelude))

	app.Frame()

	assert.Equal(t, []string{"prelude", "update", "render"}, order)
	assert.Equal(t, uint64(1), app.FrameCount())
}

func TestApp_InjectsResourcesAndCommands(t *testing.T) {
	app := NewApp()
	res := NewMockResource1("r")
	app.Commands().AddResources(res)

	var gotCmd *Commands
	app.UseSystem(System(func(r *MockResource1, cmd *Commands) {
		r.calls++
		gotCmd = cmd
	}))
	app.RunFrames(3)

	assert.Equal(t, 3, res.calls)
	require.NotNil(t, gotCmd)
	assert.Same(t, app, gotCmd.app)
}

func TestApp_UnresolvedDependencyPanics(t *testing.T) {
	app := NewApp()
	app.UseSystem(System(func(r *MockResource2) {}))
	assert.Panics(t, func() { app.Frame() })
}

func TestApp_StopEndsRun(t *testing.T) {
	app := NewApp()
	app.UseSystem(System(func(cmd *Commands) {
		if cmd.app.FrameCount() == 4 {
			cmd.Stop()
		}
	}))

	require.NoError(t, app.Run(context.Background()))
	assert.Equal(t, uint64(5), app.FrameCount())
	assert.True(t, app.Stopped())

	// Stopped apps ignore further RunFrames.
	app.RunFrames(10)
	assert.Equal(t, uint64(5), app.FrameCount())
}

func TestApp_RunHonoursContext(t *testing.T) {
	app := NewApp()
	app.UseSystem(System(func() { time.Sleep(time.Millisecond) }))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := app.Run(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.True(t, app.Stopped())
}

func TestApp_UseStage(t *testing.T) {
	app := NewApp()
	custom := Stage{Name: "Custom"}
	app.UseStage(custom, AfterStage(Update))

	var order []string
	app.UseSystem(System(func() { order = append(order, "post") }).InStage(PostUpdate))
	app.UseSystem(System(func() { order = append(order, "custom") }).InStage(custom))
	app.UseSystem(System(func() { order = append(order, "update") }))
	app.Frame()

	assert.Equal(t, []string{"update", "custom", "post"}, order)
	assert.Panics(t, func() { app.UseStage(Stage{Name: "X"}, BeforeStage(Stage{Name: "missing"})) })
	assert.Panics(t, func() { app.UseSystem(System(func() {}).InStage(Stage{Name: "missing"})) })
}

func TestApp_LoggerFallsBackToNop(t *testing.T) {
	var app *App
	assert.NotNil(t, app.Logger())
	assert.NotNil(t, NewApp().Logger())
	assert.False(t, NewApp().Logger().DebugEnabled())
}
