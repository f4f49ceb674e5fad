package client

import (
	"fmt"
	"runtime"

	"github.com/gekko3d/particlefield"
	"github.com/go-gl/glfw/v3.3/glfw"
)

type WindowState struct {
	windowGlfw   *glfw.Window
	WindowWidth  int
	WindowHeight int
	windowTitle  string
}

func createWindowState(windowWidth int, windowHeight int, windowTitle string) (*WindowState, error) {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("%w: glfw init: %w", particlefield.ErrRenderTargetUnavailable, err)
	}

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI) // Important: tell GLFW we don't want OpenGL
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.TransparentFramebuffer, glfw.True)

	win, err := glfw.CreateWindow(windowWidth, windowHeight, windowTitle, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("%w: create window: %w", particlefield.ErrRenderTargetUnavailable, err)
	}

	return &WindowState{
		windowGlfw:   win,
		WindowWidth:  windowWidth,
		WindowHeight: windowHeight,
		windowTitle:  windowTitle,
	}, nil
}

// ContentScale is the device pixel ratio: framebuffer pixels per window unit.
// On platforms where window units are already pixels this is 1 even on a
// scaled monitor.
func (s *WindowState) ContentScale() float64 {
	ww, _ := s.windowGlfw.GetSize()
	fbw, _ := s.windowGlfw.GetFramebufferSize()
	if ww <= 0 || fbw <= 0 {
		return 1
	}
	return float64(fbw) / float64(ww)
}

// bindField routes glfw callbacks into the field. Callbacks fire inside
// glfw.PollEvents, on the frame thread.
func (s *WindowState) bindField(field *particlefield.FieldState, log particlefield.Logger) {
	s.windowGlfw.SetCursorPosCallback(func(w *glfw.Window, xpos, ypos float64) {
		field.OnPointerMove(xpos, ypos)
	})
	s.windowGlfw.SetSizeCallback(func(w *glfw.Window, width, height int) {
		s.WindowWidth, s.WindowHeight = width, height
		// Minimising reports 0x0; the field clamps and logs it.
		_ = field.OnResize(width, height)
	})
	s.windowGlfw.SetContentScaleCallback(func(w *glfw.Window, x, y float32) {
		ratio := s.ContentScale()
		log.Infof("content scale changed to %.2f, pixel ratio %.2f", x, ratio)
		field.SetPixelRatio(ratio)
	})
	s.windowGlfw.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if key == glfw.KeyEscape && action == glfw.Press {
			w.SetShouldClose(true)
		}
	})
}

func (s *WindowState) destroy() {
	s.windowGlfw.Destroy()
	glfw.Terminate()
}
