// Package raster is a CPU point rasterizer. It draws a core.Scene into an
// image.RGBA drawing buffer with additive blending and is used by the headless,
// terminal and ebiten hosts.
package raster

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"math"

	"github.com/gekko3d/particlefield/fieldrt/core"
	"github.com/go-gl/mathgl/mgl32"
	xdraw "golang.org/x/image/draw"
)

type Rasterizer struct {
	width, height int
	pixelRatio    float64

	// ClearColor is premultiplied RGBA; the zero value is a transparent background.
	ClearColor [4]float32

	img   *image.RGBA
	accum []float32 // premultiplied rgba per drawing-buffer pixel
}

func New(width, height int, pixelRatio float64) *Rasterizer {
	r := &Rasterizer{pixelRatio: 1, width: width, height: height}
	r.SetPixelRatio(pixelRatio)
	return r
}

// SetPixelRatio reallocates the drawing buffer for the current logical size.
func (r *Rasterizer) SetPixelRatio(ratio float64) {
	if ratio <= 0 || math.IsNaN(ratio) {
		ratio = 1
	}
	r.pixelRatio = ratio
	r.SetSize(r.width, r.height)
}

func (r *Rasterizer) PixelRatio() float64 {
	return r.pixelRatio
}

// SetSize sets the logical output size and reallocates the drawing buffer at
// size × pixel ratio.
func (r *Rasterizer) SetSize(width, height int) {
	r.width, r.height = width, height
	bw, bh := r.DrawingBufferSize()
	if r.img != nil && r.img.Bounds().Dx() == bw && r.img.Bounds().Dy() == bh {
		return
	}
	r.img = image.NewRGBA(image.Rect(0, 0, bw, bh))
	r.accum = make([]float32, bw*bh*4)
}

func (r *Rasterizer) Size() (int, int) {
	return r.width, r.height
}

func (r *Rasterizer) DrawingBufferSize() (int, int) {
	bw := int(math.Floor(float64(r.width) * r.pixelRatio))
	bh := int(math.Floor(float64(r.height) * r.pixelRatio))
	if bw < 0 {
		bw = 0
	}
	if bh < 0 {
		bh = 0
	}
	return bw, bh
}

// Image returns the drawing buffer. It is overwritten by the next Render.
func (r *Rasterizer) Image() *image.RGBA {
	return r.img
}

func (r *Rasterizer) Render(scene *core.Scene, camera *core.PerspectiveCamera) error {
	bw, bh := r.DrawingBufferSize()
	if bw == 0 || bh == 0 || r.img == nil {
		return fmt.Errorf("raster: empty drawing buffer %dx%d", bw, bh)
	}
	if scene == nil || camera == nil {
		return fmt.Errorf("raster: nil scene or camera")
	}

	for i := 0; i < len(r.accum); i += 4 {
		copy(r.accum[i:i+4], r.ClearColor[:])
	}

	vp := camera.ViewProjection()
	for _, pts := range scene.Points {
		r.drawPoints(pts, vp, bw, bh)
	}

	r.resolve()
	return nil
}

func (r *Rasterizer) drawPoints(pts *core.Points, vp mgl32.Mat4, bw, bh int) {
	if pts == nil || pts.Geometry == nil {
		return
	}
	mvp := vp.Mul4(pts.ObjectToWorld())
	col := pts.Material.RGBA()
	additive := pts.Material.Blending == core.AdditiveBlending
	scale := float32(bh) * 0.5

	for i, n := 0, pts.Geometry.Count(); i < n; i++ {
		p := pts.Geometry.At(i)
		clip := mvp.Mul4x1(mgl32.Vec4{p[0], p[1], p[2], 1})
		w := clip.W()
		if w <= 0 {
			continue
		}
		ndc := clip.Vec3().Mul(1 / w)
		if ndc.Z() < -1 || ndc.Z() > 1 {
			continue
		}

		size := pts.Material.Size
		if pts.Material.SizeAttenuation {
			size = size * scale / w
		}
		side := int(math.Ceil(float64(size)))
		if side < 1 {
			side = 1
		}

		cx := (ndc.X() + 1) * 0.5 * float32(bw)
		cy := (1 - ndc.Y()) * 0.5 * float32(bh)
		x0 := int(math.Floor(float64(cx))) - (side-1)/2
		y0 := int(math.Floor(float64(cy))) - (side-1)/2

		for y := y0; y < y0+side; y++ {
			if y < 0 || y >= bh {
				continue
			}
			for x := x0; x < x0+side; x++ {
				if x < 0 || x >= bw {
					continue
				}
				r.blend((y*bw+x)*4, col, additive)
			}
		}
	}
}

func (r *Rasterizer) blend(off int, c [4]float32, additive bool) {
	a := c[3]
	dst := r.accum[off : off+4]
	if additive {
		dst[0] += c[0] * a
		dst[1] += c[1] * a
		dst[2] += c[2] * a
		dst[3] += a
		return
	}
	inv := 1 - a
	dst[0] = c[0]*a + dst[0]*inv
	dst[1] = c[1]*a + dst[1]*inv
	dst[2] = c[2]*a + dst[2]*inv
	dst[3] = a + dst[3]*inv
}

func (r *Rasterizer) resolve() {
	pix := r.img.Pix
	for i, v := range r.accum {
		if v > 1 {
			v = 1
		} else if v < 0 {
			v = 0
		}
		pix[i] = uint8(v*255 + 0.5)
	}
}

// Resample scales the drawing buffer to width×height.
func (r *Rasterizer) Resample(width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	if r.img == nil || width <= 0 || height <= 0 {
		return dst
	}
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), r.img, r.img.Bounds(), xdraw.Src, nil)
	return dst
}

// Snapshot returns the last frame at the logical output size.
func (r *Rasterizer) Snapshot() image.Image {
	bw, bh := r.DrawingBufferSize()
	if bw == r.width && bh == r.height {
		return r.img
	}
	return r.Resample(r.width, r.height)
}

func (r *Rasterizer) WritePNG(w io.Writer) error {
	return png.Encode(w, r.Snapshot())
}
