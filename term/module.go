// Package term hosts the particle field in a terminal through tcell.
package term

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/gekko3d/particlefield"
)

// TerminalModule draws the field with half-block characters. Terminals have no
// vsync, so frames are paced by a ticker at FPS (60 when zero).
type TerminalModule struct {
	FPS int
}

type terminalState struct {
	screen   tcell.Screen
	renderer *Renderer
	events   chan tcell.Event
	quit     chan struct{}
	ticker   *time.Ticker
}

func (mod TerminalModule) Install(app *particlefield.App, cmd *particlefield.Commands) {
	field, ok := particlefield.Resource[particlefield.FieldState](app)
	if !ok {
		panic("TerminalModule requires FieldModule")
	}

	screen, err := tcell.NewScreen()
	if err == nil {
		err = screen.Init()
	}
	if err != nil {
		err = fmt.Errorf("%w: terminal: %w", particlefield.ErrRenderTargetUnavailable, err)
		cmd.Logger().Errorf("%v", err)
		panic(err)
	}
	screen.EnableMouse(tcell.MouseMotionEvents)
	screen.HideCursor()
	screen.Clear()

	fps := mod.FPS
	if fps <= 0 {
		fps = 60
	}

	state := &terminalState{
		screen:   screen,
		renderer: NewRenderer(screen),
		events:   make(chan tcell.Event, 64),
		quit:     make(chan struct{}),
		ticker:   time.NewTicker(time.Second / time.Duration(fps)),
	}
	go screen.ChannelEvents(state.events, state.quit)

	cols, rows := screen.Size()
	field.Viewport.PixelRatio = 1
	_ = field.OnResize(cols, rows*2)
	field.AttachRenderer(state.renderer)

	cmd.AddResources(state)
	cmd.UseSystem(particlefield.System(terminalEventsSystem).InStage(particlefield.PreUpdate))
	cmd.UseSystem(particlefield.System(terminalPaceSystem).InStage(particlefield.Finale))
}

func terminalEventsSystem(state *terminalState, field *particlefield.FieldState, cmd *particlefield.Commands) {
	for {
		select {
		case ev, ok := <-state.events:
			if !ok {
				cmd.Stop()
				return
			}
			handleEvent(ev, state, field, cmd)
		default:
			return
		}
	}
}

func handleEvent(ev tcell.Event, state *terminalState, field *particlefield.FieldState, cmd *particlefield.Commands) {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		cols, rows := ev.Size()
		_ = field.OnResize(cols, rows*2)
		state.screen.Sync()
	case *tcell.EventMouse:
		x, y := ev.Position()
		field.OnPointerMove(cellToPixel(x, y))
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC || ev.Rune() == 'q' {
			cmd.Stop()
		}
	}
}

// cellToPixel maps a cell to the centre of its two-pixel column.
func cellToPixel(x, y int) (float64, float64) {
	return float64(x) + 0.5, float64(y*2) + 1
}

func terminalPaceSystem(state *terminalState) {
	<-state.ticker.C
}

// Shutdown restores the terminal. Call it after Run returns.
func Shutdown(app *particlefield.App) {
	state, ok := particlefield.Resource[terminalState](app)
	if !ok {
		return
	}
	state.ticker.Stop()
	close(state.quit)
	state.screen.Fini()
}
