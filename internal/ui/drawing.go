package ui

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

/* ------------------------------------------------------------------
   cache 1×1 images per colour
   ------------------------------------------------------------------ */

var pixelCache = map[string]*ebiten.Image{}

func cacheKey(c color.Color) string {
	r, g, b, a := c.RGBA()
	return fmt.Sprintf("%d_%d_%d_%d", r, g, b, a)
}

func pixel(c color.Color) *ebiten.Image {
	k := cacheKey(c)
	if img, ok := pixelCache[k]; ok {
		return img
	}
	img := ebiten.NewImage(1, 1)
	img.Fill(c)
	pixelCache[k] = img
	return img
}

/* ------------------------------------------------------------------
   DrawLineCam – world-coords → line with camera transform
   ------------------------------------------------------------------ */

var lineOpt ebiten.DrawImageOptions

func DrawLineCam(dst *ebiten.Image,
	x1, y1, x2, y2 float64,
	cam *ebiten.GeoM,
	col color.Color, thick float64) {

	if thick <= 0 {
		thick = 1
	}
	dx, dy := x2-x1, y2-y1
	length := math.Hypot(dx, dy)
	angle := math.Atan2(dy, dx)

	// reset GeoM in place (no new allocation)
	lineOpt.GeoM.Reset()
	lineOpt.GeoM.Scale(length, thick)
	lineOpt.GeoM.Rotate(angle)
	lineOpt.GeoM.Translate(x1, y1)
	lineOpt.GeoM.Concat(*cam)

	dst.DrawImage(pixel(col), &lineOpt)
}

// clearRect erases the rectangle from dst's alpha channel. Used to punch
// mask holes out of the grid layer.
func clearRect(dst *ebiten.Image, r image.Rectangle) {
	if r.Empty() {
		return
	}
	var op ebiten.DrawImageOptions
	op.GeoM.Scale(float64(r.Dx()), float64(r.Dy()))
	op.GeoM.Translate(float64(r.Min.X), float64(r.Min.Y))
	op.Blend = ebiten.BlendClear
	dst.DrawImage(pixel(color.White), &op)
}

// drawRect draws a screen-space rectangle. It is defined as a variable so
// tests can override it to capture draw calls.
var drawRect = func(dst *ebiten.Image, r image.Rectangle, c color.Color, filled bool) {
	if filled {
		vector.DrawFilledRect(dst, float32(r.Min.X), float32(r.Min.Y), float32(r.Dx()), float32(r.Dy()), c, false)
	} else {
		vector.StrokeRect(dst, float32(r.Min.X), float32(r.Min.Y), float32(r.Dx()), float32(r.Dy()), 1, c, false)
	}
}

// fillWorldRect draws a filled world-space rectangle through the camera
// transform with the given alpha scale.
func fillWorldRect(dst *ebiten.Image, r Rect, cam *ebiten.GeoM, col color.Color, alpha float32) {
	var op ebiten.DrawImageOptions
	op.GeoM.Scale(r.W, r.H)
	op.GeoM.Translate(r.X, r.Y)
	op.GeoM.Concat(*cam)
	op.ColorScale.ScaleAlpha(alpha)
	dst.DrawImage(pixel(col), &op)
}
