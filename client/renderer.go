package client

import (
	"fmt"
	"math"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/particlefield/fieldrt/core"
	"github.com/gekko3d/particlefield/fieldrt/gpu"
)

const msaaSamples = 4

// WgpuRenderer presents the particle field on the window surface. Present
// blocks on vsync, which paces the frame loop to the display refresh.
type WgpuRenderer struct {
	gpu        *GpuState
	passes     map[*core.Points]*gpu.PointsRenderPass
	pixelRatio float64
	width      int
	height     int

	msaaTexture *wgpu.Texture
	msaaView    *wgpu.TextureView
}

func newWgpuRenderer(g *GpuState) *WgpuRenderer {
	return &WgpuRenderer{
		gpu:        g,
		passes:     make(map[*core.Points]*gpu.PointsRenderPass),
		pixelRatio: 1,
	}
}

func (r *WgpuRenderer) SetPixelRatio(ratio float64) {
	if ratio <= 0 {
		ratio = 1
	}
	r.pixelRatio = ratio
}

func (r *WgpuRenderer) SetSize(width, height int) {
	r.width, r.height = width, height
	bw, bh := r.DrawingBufferSize()
	if bw == int(r.gpu.surfaceConfig.Width) && bh == int(r.gpu.surfaceConfig.Height) && r.msaaView != nil {
		return
	}
	r.gpu.reconfigure(bw, bh)
	r.releaseMSAA()
}

func (r *WgpuRenderer) Size() (int, int) {
	return r.width, r.height
}

func (r *WgpuRenderer) DrawingBufferSize() (int, int) {
	return int(math.Floor(float64(r.width) * r.pixelRatio)), int(math.Floor(float64(r.height) * r.pixelRatio))
}

func (r *WgpuRenderer) ensureMSAA() error {
	if r.msaaView != nil {
		return nil
	}
	tex, err := r.gpu.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: "PointsMSAA",
		Size: wgpu.Extent3D{
			Width:              r.gpu.surfaceConfig.Width,
			Height:             r.gpu.surfaceConfig.Height,
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   msaaSamples,
		Dimension:     wgpu.TextureDimension2D,
		Format:        r.gpu.surfaceConfig.Format,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		return err
	}
	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return err
	}
	r.msaaTexture, r.msaaView = tex, view
	return nil
}

func (r *WgpuRenderer) releaseMSAA() {
	if r.msaaView != nil {
		r.msaaView.Release()
		r.msaaView = nil
	}
	if r.msaaTexture != nil {
		r.msaaTexture.Release()
		r.msaaTexture = nil
	}
}

func (r *WgpuRenderer) pass(pts *core.Points) (*gpu.PointsRenderPass, error) {
	if p, ok := r.passes[pts]; ok {
		return p, nil
	}
	p, err := gpu.NewPointsRenderPass(r.gpu.device, r.gpu.surfaceConfig.Format, msaaSamples)
	if err != nil {
		return nil, err
	}
	if err := p.Upload(r.gpu.queue, pts.Geometry); err != nil {
		p.Release()
		return nil, err
	}
	r.passes[pts] = p
	return p, nil
}

func (r *WgpuRenderer) Render(scene *core.Scene, camera *core.PerspectiveCamera) error {
	if r.gpu.surfaceConfig.Width == 0 || r.gpu.surfaceConfig.Height == 0 {
		return fmt.Errorf("wgpu: surface not configured")
	}
	if err := r.ensureMSAA(); err != nil {
		return fmt.Errorf("wgpu: msaa target: %w", err)
	}

	for _, pts := range scene.Points {
		p, err := r.pass(pts)
		if err != nil {
			return fmt.Errorf("wgpu: points pass: %w", err)
		}
		if err := p.Update(r.gpu.queue, pts, camera); err != nil {
			return fmt.Errorf("wgpu: uniforms: %w", err)
		}
	}

	nextTexture, err := r.gpu.surface.GetCurrentTexture()
	if err != nil {
		return fmt.Errorf("wgpu: GetCurrentTexture failed: %w", err)
	}
	defer nextTexture.Release()

	view, err := nextTexture.CreateView(nil)
	if err != nil {
		return fmt.Errorf("wgpu: CreateView failed: %w", err)
	}
	defer view.Release()

	encoder, err := r.gpu.device.CreateCommandEncoder(nil)
	if err != nil {
		return fmt.Errorf("wgpu: CreateCommandEncoder failed: %w", err)
	}
	defer encoder.Release()

	rPass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:          r.msaaView,
			ResolveTarget: view,
			LoadOp:        wgpu.LoadOpClear,
			StoreOp:       wgpu.StoreOpStore,
			ClearValue:    wgpu.Color{R: 0, G: 0, B: 0, A: 0},
		}},
	})
	for _, pts := range scene.Points {
		r.passes[pts].Draw(rPass)
	}
	if err := rPass.End(); err != nil {
		return fmt.Errorf("wgpu: render pass End failed: %w", err)
	}

	cmd, err := encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("wgpu: encoder Finish failed: %w", err)
	}
	defer cmd.Release()

	r.gpu.queue.Submit(cmd)
	r.gpu.surface.Present()
	return nil
}

func (r *WgpuRenderer) release() {
	for _, p := range r.passes {
		p.Release()
	}
	r.releaseMSAA()
}
