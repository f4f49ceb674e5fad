package particlefield

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/gekko3d/particlefield/fieldrt/core"
)

type Viewport struct {
	Width, Height int
	PixelRatio    float64
}

// Aspect is Width/Height of a clamped viewport.
func (v Viewport) Aspect() float32 {
	return float32(v.Width) / float32(v.Height)
}

// PointerState is the last pointer position as an offset from the viewport
// centre, positive to the right and down.
type PointerState struct {
	MouseX, MouseY float64
}

// FieldState owns everything the frame, pointer and resize handlers touch.
// All three run on the host's frame thread, so it carries no locks.
type FieldState struct {
	Config   FieldConfig
	Scene    *core.Scene
	Camera   *core.PerspectiveCamera
	Mesh     *core.Points
	Pointer  PointerState
	Viewport Viewport

	renderer Renderer
	log      Logger
}

// NewFieldState builds the scene, camera and particle mesh for viewport.
// A nil rng is seeded from cfg.Seed, or from the clock when that is zero.
func NewFieldState(cfg FieldConfig, viewport Viewport, rng *rand.Rand) (*FieldState, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	rgb, err := cfg.RGB()
	if err != nil {
		return nil, err
	}
	if rng == nil {
		seed := cfg.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		rng = rand.New(rand.NewSource(seed))
	}
	viewport, _ = clampViewport(viewport)

	camera := core.NewPerspectiveCamera(cfg.Fov, viewport.Aspect(), cfg.Near, cfg.Far)
	camera.SetZ(cfg.CameraDistance)

	geometry := core.NewParticleBuffer(cfg.ParticleCount, cfg.Spread, rng)
	mesh := core.NewPoints(geometry, core.NewPointsMaterial(cfg.PointSize, rgb, cfg.Opacity))

	scene := core.NewScene()
	scene.Add(mesh)

	return &FieldState{
		Config:   cfg,
		Scene:    scene,
		Camera:   camera,
		Mesh:     mesh,
		Viewport: viewport,
		log:      NewNopLogger(),
	}, nil
}

func clampViewport(v Viewport) (Viewport, bool) {
	clamped := false
	if v.Width < 1 {
		v.Width = 1
		clamped = true
	}
	if v.Height < 1 {
		v.Height = 1
		clamped = true
	}
	if v.PixelRatio <= 0 {
		v.PixelRatio = 1
	}
	return v, clamped
}

// AttachRenderer binds r to the field and sizes it to the current viewport.
func (f *FieldState) AttachRenderer(r Renderer) {
	f.renderer = r
	r.SetPixelRatio(f.Viewport.PixelRatio)
	r.SetSize(f.Viewport.Width, f.Viewport.Height)
}

func (f *FieldState) Renderer() Renderer {
	return f.renderer
}

// OnPointerMove records the pointer as an offset from the viewport centre.
func (f *FieldState) OnPointerMove(clientX, clientY float64) {
	f.Pointer.MouseX = clientX - float64(f.Viewport.Width)/2
	f.Pointer.MouseY = clientY - float64(f.Viewport.Height)/2
}

// OnResize keeps camera and renderer in step with the viewport. Non-positive
// dimensions are clamped to 1 and reported with ErrResizeOutOfRange after the
// clamped size has been applied.
func (f *FieldState) OnResize(width, height int) error {
	vp, clamped := clampViewport(Viewport{Width: width, Height: height, PixelRatio: f.Viewport.PixelRatio})
	f.Viewport = vp

	f.Camera.Aspect = vp.Aspect()
	f.Camera.UpdateProjectionMatrix()
	if f.renderer != nil {
		f.renderer.SetSize(vp.Width, vp.Height)
	}

	if clamped {
		err := fmt.Errorf("%w: %dx%d clamped to %dx%d", ErrResizeOutOfRange, width, height, vp.Width, vp.Height)
		f.log.Warnf("%v", err)
		return err
	}
	f.log.Debugf("resized to %dx%d", vp.Width, vp.Height)
	return nil
}

// SetPixelRatio applies a new device pixel ratio, e.g. after the window moved
// to another monitor.
func (f *FieldState) SetPixelRatio(ratio float64) {
	if ratio <= 0 {
		ratio = 1
	}
	f.Viewport.PixelRatio = ratio
	if f.renderer != nil {
		f.renderer.SetPixelRatio(ratio)
		f.renderer.SetSize(f.Viewport.Width, f.Viewport.Height)
	}
}

// Step advances the mesh rotation by one frame, scaled by scale.
func (f *FieldState) Step(scale float64) {
	params := core.RotationParams{
		Drift:       f.Config.Drift,
		PointerGain: f.Config.PointerGain,
	}
	f.Mesh.Rotation = core.StepRotation(f.Mesh.Rotation, f.Pointer.MouseX, f.Pointer.MouseY, params, scale)
}

type FrameStats struct {
	Rendered uint64
	Dropped  uint64
	LastErr  error
}

// FieldModule installs the FieldState resource, the rotation system and the
// render system. A renderer module must be installed after it.
type FieldModule struct {
	// Config is used as given and must validate; only the zero FieldConfig
	// selects DefaultFieldConfig.
	Config   FieldConfig
	Viewport Viewport
	Rand     *rand.Rand
}

func (mod FieldModule) Install(app *App, cmd *Commands) {
	if _, ok := Resource[Time](app); !ok {
		TimeModule{}.Install(app, cmd)
	}

	cfg := mod.Config
	if cfg == (FieldConfig{}) {
		cfg = DefaultFieldConfig()
	}
	vp := mod.Viewport
	if vp.Width == 0 && vp.Height == 0 {
		vp = Viewport{Width: 1280, Height: 720, PixelRatio: 1}
	}

	field, err := NewFieldState(cfg, vp, mod.Rand)
	if err != nil {
		panic(fmt.Sprintf("field: %v", err))
	}
	field.log = app.Logger()
	field.log.Infof("particle field: %d particles, viewport %dx%d@%.2f",
		field.Mesh.Geometry.Count(), field.Viewport.Width, field.Viewport.Height, field.Viewport.PixelRatio)

	cmd.AddResources(field, &FrameStats{})
	cmd.UseSystem(System(fieldRotationSystem).InStage(Update))
	cmd.UseSystem(System(fieldRenderSystem).InStage(Render))
}

func fieldRotationSystem(field *FieldState, t *Time) {
	scale := 1.0
	if field.Config.NormalizeToRefresh && t.Dt > 0 {
		scale = t.RefreshScale(60)
	}
	field.Step(scale)
}

func fieldRenderSystem(field *FieldState, stats *FrameStats) {
	if field.renderer == nil {
		return
	}
	if err := field.renderer.Render(field.Scene, field.Camera); err != nil {
		if !errors.Is(err, ErrRenderFailure) {
			err = fmt.Errorf("%w: %w", ErrRenderFailure, err)
		}
		stats.Dropped++
		stats.LastErr = err
		field.log.Warnf("frame skipped: %v", err)
		return
	}
	stats.Rendered++
}
