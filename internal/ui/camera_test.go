package ui

import (
	"math"
	"testing"
)

func TestZoomLevelClampExact(t *testing.T) {
	cam := NewCamera(1.1, -30, 10)
	// drive the level far past its clamped maximum with oversized wheel steps
	for i := 0; i < 10; i++ {
		cam.ZoomAt(5, 400, 300)
	}
	if cam.Level() != 10 {
		t.Fatalf("level=%f want 10", cam.Level())
	}
	want := math.Pow(1.1, 10)
	if cam.Scale() != want {
		t.Fatalf("scale=%v want exactly %v", cam.Scale(), want)
	}

	for i := 0; i < 20; i++ {
		cam.ZoomAt(-7, 400, 300)
	}
	if got, want := cam.Scale(), math.Pow(1.1, -30); got != want {
		t.Fatalf("scale=%v want exactly %v", got, want)
	}
}

func TestZoomAnchorsCursor(t *testing.T) {
	cam := NewCamera(1.1, -30, 10)
	cam.OffsetX, cam.OffsetY = 10, 20
	cam.SetLevel(3)

	const sx, sy = 100, 50
	wx, wy := cam.WorldPos(sx, sy)
	cam.ZoomAt(1, sx, sy)
	gx, gy := cam.ScreenPos(wx, wy)
	if math.Abs(gx-sx) > 1e-9 || math.Abs(gy-sy) > 1e-9 {
		t.Fatalf("cursor moved after zoom: got (%f,%f) want (%d,%d)", gx, gy, sx, sy)
	}
}

func TestViewportBoundsRoundTrip(t *testing.T) {
	cam := NewCamera(1.1, -30, 10)
	cam.OffsetX, cam.OffsetY = 123.4, -56.7
	cam.SetLevel(4)

	vp := NewViewport(cam)
	vp.SetScreenSize(800, 600)

	b := vp.Bounds()
	x0, y0 := cam.ScreenPos(b.X, b.Y)
	x1, y1 := cam.ScreenPos(b.Right(), b.Bottom())
	if math.Abs(x0) > 1e-9 || math.Abs(y0) > 1e-9 {
		t.Fatalf("top-left corner maps to (%f,%f) want (0,0)", x0, y0)
	}
	if math.Abs(x1-800) > 1e-9 || math.Abs(y1-600) > 1e-9 {
		t.Fatalf("bottom-right corner maps to (%f,%f) want (800,600)", x1, y1)
	}
}

func TestViewportRoundTripUnderPanZoomSequence(t *testing.T) {
	cam := NewCamera(1.1, -30, 10)
	vp := NewViewport(cam)
	vp.SetScreenSize(1280, 720)

	steps := []func(){
		func() { cam.Pan(37, -12) },
		func() { cam.ZoomAt(2, 640, 360) },
		func() { cam.Pan(-400, 250) },
		func() { cam.ZoomAt(-5, 100, 700) },
		func() { cam.ZoomAt(9, 0, 0) },
	}
	for i, step := range steps {
		step()
		b := vp.Bounds()
		x0, y0 := cam.ScreenPos(b.X, b.Y)
		x1, y1 := cam.ScreenPos(b.Right(), b.Bottom())
		if math.Abs(x0) > 1e-6 || math.Abs(y0) > 1e-6 ||
			math.Abs(x1-1280) > 1e-6 || math.Abs(y1-720) > 1e-6 {
			t.Fatalf("step %d: corners map to (%f,%f)-(%f,%f)", i, x0, y0, x1, y1)
		}
	}
}

func TestViewportIsVisible(t *testing.T) {
	cam := NewCamera(1.1, -30, 10)
	vp := NewViewport(cam)
	vp.SetScreenSize(400, 300)

	if !vp.IsVisible(10, 10, 50, 50, 0) {
		t.Fatalf("rect inside bounds should be visible")
	}
	if vp.IsVisible(1000, 1000, 50, 50, 0) {
		t.Fatalf("rect far outside bounds should not be visible")
	}
	if !vp.IsVisible(420, 10, 50, 50, 30) {
		t.Fatalf("rect within padding should count as visible")
	}
}
