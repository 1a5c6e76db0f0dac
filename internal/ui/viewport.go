package ui

// Viewport maps screen space to world space for the current camera transform
// and screen size. It is a computed view with no state of its own: it reads
// the transform, never mutates it.
type Viewport struct {
	cam     *Camera
	screenW int
	screenH int
}

func NewViewport(cam *Camera) *Viewport {
	return &Viewport{cam: cam}
}

// SetScreenSize records the current screen dimensions in pixels.
func (v *Viewport) SetScreenSize(w, h int) {
	v.screenW, v.screenH = w, h
}

func (v *Viewport) ScreenSize() (int, int) { return v.screenW, v.screenH }

// Bounds returns the visible world rectangle: screen (0,0) and
// (screenW,screenH) mapped through the inverse transform.
func (v *Viewport) Bounds() Rect {
	x0, y0 := v.cam.WorldPos(0, 0)
	x1, y1 := v.cam.WorldPos(float64(v.screenW), float64(v.screenH))
	return Rect{x0, y0, x1 - x0, y1 - y0}
}

// Center returns the world-space point at the middle of the screen.
func (v *Viewport) Center() (x, y float64) {
	return v.cam.WorldPos(float64(v.screenW)/2, float64(v.screenH)/2)
}

// Zoom returns the scalar zoom factor (the transform's x-scale).
func (v *Viewport) Zoom() float64 { return v.cam.Scale() }

// Pan returns the raw pan offset.
func (v *Viewport) Pan() (x, y float64) { return v.cam.OffsetX, v.cam.OffsetY }

// IsVisible reports whether the world rectangle (x,y,w,h), padded on all
// sides by pad, overlaps the visible bounds.
func (v *Viewport) IsVisible(x, y, w, h, pad float64) bool {
	return v.Bounds().Intersects(Rect{x, y, w, h}.Inflate(pad))
}
