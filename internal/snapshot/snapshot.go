// Package snapshot renders the current canvas to a PNG, offline from the
// live GPU surface, so exports work regardless of frame timing.
package snapshot

import (
	"fmt"
	"math"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"
)

// Node is the drawable slice of an editor node.
type Node struct {
	X, Y, W, H float64 // world coordinates
	Title      string
	Focused    bool
}

// View captures the camera transform and screen size at export time.
type View struct {
	OffsetX, OffsetY float64
	Scale            float64
	Width, Height    int
	GridStep         float64
	MajorEvery       int
}

func (v View) screen(x, y float64) (float64, float64) {
	return x*v.Scale + v.OffsetX, y*v.Scale + v.OffsetY
}

// WritePNG renders the grid and nodes through the view transform into path.
func WritePNG(path string, v View, nodes []Node) error {
	if v.Width <= 0 || v.Height <= 0 {
		return fmt.Errorf("snapshot: bad view size %dx%d", v.Width, v.Height)
	}
	if v.Scale <= 0 {
		return fmt.Errorf("snapshot: bad scale %f", v.Scale)
	}

	dc := gg.NewContext(v.Width, v.Height)
	dc.SetFontFace(basicfont.Face7x13)

	dc.SetRGB255(20, 20, 30)
	dc.Clear()

	drawGrid(dc, v)

	for _, n := range nodes {
		x, y := v.screen(n.X, n.Y)
		w := n.W * v.Scale
		h := n.H * v.Scale

		dc.SetRGB255(30, 32, 40)
		dc.DrawRectangle(x, y, w, h)
		dc.Fill()

		if n.Focused {
			dc.SetRGB255(110, 160, 255)
		} else {
			dc.SetRGB255(90, 94, 110)
		}
		dc.SetLineWidth(1)
		dc.DrawRectangle(x, y, w, h)
		dc.Stroke()

		dc.SetRGB255(200, 200, 210)
		dc.DrawString(n.Title, x+4, y+12)
	}

	return dc.SavePNG(path)
}

func drawGrid(dc *gg.Context, v View) {
	minX := -v.OffsetX / v.Scale
	maxX := (float64(v.Width) - v.OffsetX) / v.Scale
	minY := -v.OffsetY / v.Scale
	maxY := (float64(v.Height) - v.OffsetY) / v.Scale

	startI := int(math.Floor(minX / v.GridStep))
	endI := int(math.Ceil(maxX / v.GridStep))
	startJ := int(math.Floor(minY / v.GridStep))
	endJ := int(math.Ceil(maxY / v.GridStep))

	for i := startI; i <= endI; i++ {
		if i%v.MajorEvery == 0 {
			dc.SetRGB255(70, 70, 88)
		} else {
			dc.SetRGB255(45, 45, 58)
		}
		sx, _ := v.screen(float64(i)*v.GridStep, 0)
		dc.DrawLine(sx, 0, sx, float64(v.Height))
		dc.Stroke()
	}
	for j := startJ; j <= endJ; j++ {
		if j%v.MajorEvery == 0 {
			dc.SetRGB255(70, 70, 88)
		} else {
			dc.SetRGB255(45, 45, 58)
		}
		_, sy := v.screen(0, float64(j)*v.GridStep)
		dc.DrawLine(0, sy, float64(v.Width), sy)
		dc.Stroke()
	}
}
