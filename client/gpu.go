package client

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/gekko3d/particlefield"
)

type GpuState struct {
	instance      *wgpu.Instance
	surface       *wgpu.Surface
	adapter       *wgpu.Adapter
	device        *wgpu.Device
	queue         *wgpu.Queue
	surfaceConfig *wgpu.SurfaceConfiguration
}

func createGpuState(s *WindowState, width, height int) (_ *GpuState, err error) {
	g := &GpuState{instance: wgpu.CreateInstance(nil)}
	defer func() {
		if err != nil {
			g.release()
		}
	}()

	// wraps GLFW window into a wgpu surface.
	g.surface = g.instance.CreateSurface(wgpuglfw.GetSurfaceDescriptor(s.windowGlfw))
	if g.surface == nil {
		return nil, fmt.Errorf("%w: no surface for window", particlefield.ErrRenderTargetUnavailable)
	}
	// finds a suitable GPU (discrete GPU preferred)
	g.adapter, err = g.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: g.surface,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: request adapter: %w", particlefield.ErrRenderTargetUnavailable, err)
	}
	// allocates the device and command queue
	g.device, err = g.adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Main Device",
	})
	if err != nil {
		return nil, fmt.Errorf("%w: request device: %w", particlefield.ErrRenderTargetUnavailable, err)
	}
	g.queue = g.device.GetQueue()

	caps := g.surface.GetCapabilities(g.adapter)
	if len(caps.Formats) == 0 {
		return nil, fmt.Errorf("%w: surface reports no formats", particlefield.ErrRenderTargetUnavailable)
	}
	// defines how the swapchain behaves (size, format, vsync)
	g.surfaceConfig = &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      caps.Formats[0],
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: wgpu.PresentModeFifo, // vsync
		AlphaMode:   pickAlphaMode(caps.AlphaModes),
	}
	g.surface.Configure(g.adapter, g.device, g.surfaceConfig)

	return g, nil
}

// pickAlphaMode prefers a premultiplied swapchain so the cleared background
// stays see-through where the compositor allows it.
func pickAlphaMode(modes []wgpu.CompositeAlphaMode) wgpu.CompositeAlphaMode {
	for _, m := range modes {
		if m == wgpu.CompositeAlphaModePreMultiplied {
			return m
		}
	}
	if len(modes) > 0 {
		return modes[0]
	}
	return wgpu.CompositeAlphaModeAuto
}

func (g *GpuState) reconfigure(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	g.surfaceConfig.Width = uint32(width)
	g.surfaceConfig.Height = uint32(height)
	g.surface.Configure(g.adapter, g.device, g.surfaceConfig)
}

// release frees whatever has been created so far, newest first.
func (g *GpuState) release() {
	if g.queue != nil {
		g.queue.Release()
		g.queue = nil
	}
	if g.device != nil {
		g.device.Release()
		g.device = nil
	}
	if g.adapter != nil {
		g.adapter.Release()
		g.adapter = nil
	}
	if g.surface != nil {
		g.surface.Release()
		g.surface = nil
	}
	if g.instance != nil {
		g.instance.Release()
		g.instance = nil
	}
}
