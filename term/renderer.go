package term

import (
	"image/color"

	"github.com/gdamore/tcell/v2"
	"github.com/gekko3d/particlefield/fieldrt/core"
	"github.com/gekko3d/particlefield/fieldrt/raster"
	"github.com/lucasb-eyer/go-colorful"
)

// halfBlock paints the top half of a cell with the foreground colour, giving two
// vertical pixels per cell.
const halfBlock = '▀'

// Renderer rasterizes on the CPU at one pixel per half cell and paints the
// result onto a tcell screen. The viewport is cols × rows*2 pixels.
type Renderer struct {
	*raster.Rasterizer
	screen tcell.Screen
}

func NewRenderer(screen tcell.Screen) *Renderer {
	cols, rows := screen.Size()
	return &Renderer{
		Rasterizer: raster.New(cols, rows*2, 1),
		screen:     screen,
	}
}

func (r *Renderer) Render(scene *core.Scene, camera *core.PerspectiveCamera) error {
	if err := r.Rasterizer.Render(scene, camera); err != nil {
		return err
	}

	img := r.Image()
	b := img.Bounds()
	for y := 0; y < b.Dy(); y += 2 {
		for x := 0; x < b.Dx(); x++ {
			top := cellColor(img.RGBAAt(x, y))
			bottom := tcell.ColorBlack
			if y+1 < b.Dy() {
				bottom = cellColor(img.RGBAAt(x, y+1))
			}
			style := tcell.StyleDefault.Foreground(top).Background(bottom)
			r.screen.SetContent(x, y/2, halfBlock, nil, style)
		}
	}
	r.screen.Show()
	return nil
}

// cellColor composites a premultiplied pixel over black.
func cellColor(px color.RGBA) tcell.Color {
	if px.A == 0 {
		return tcell.ColorBlack
	}
	c := colorful.Color{R: float64(px.R) / 255, G: float64(px.G) / 255, B: float64(px.B) / 255}
	r, g, b := c.Clamped().RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}
