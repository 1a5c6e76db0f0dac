package ui

import "testing"

func TestGridFirstUpdateRegenerates(t *testing.T) {
	g := NewGrid(25, 10)
	if !g.Update(Rect{0, 0, 1000, 800}, 1.0) {
		t.Fatalf("first Update must regenerate")
	}
	if g.Regenerations() != 1 {
		t.Fatalf("Regenerations=%d want 1", g.Regenerations())
	}
}

func TestGridSuppressesRedrawWithinSlack(t *testing.T) {
	g := NewGrid(25, 10)
	g.Update(Rect{0, 0, 1000, 800}, 1.0)

	// small pan: viewport shrunk by the margin still fits the drawn bounds
	if g.Update(Rect{50, 30, 1000, 800}, 1.0) {
		t.Fatalf("small pan within slack must not regenerate")
	}
	// scale drift under 1% of the last scale
	if g.Update(Rect{50, 30, 1000, 800}, 1.009) {
		t.Fatalf("sub-threshold scale drift must not regenerate")
	}
	if g.Regenerations() != 1 {
		t.Fatalf("Regenerations=%d want 1", g.Regenerations())
	}
}

func TestGridRedrawsWhenViewportLeavesDrawnBounds(t *testing.T) {
	g := NewGrid(25, 10)
	g.Update(Rect{0, 0, 1000, 800}, 1.0)
	drawn := g.DrawnBounds()

	// pan far past the padded bounds
	if !g.Update(Rect{drawn.Right() + 100, 0, 1000, 800}, 1.0) {
		t.Fatalf("viewport beyond drawn bounds must regenerate")
	}
	if g.Regenerations() != 2 {
		t.Fatalf("Regenerations=%d want 2", g.Regenerations())
	}
}

func TestGridRedrawsOnScaleJump(t *testing.T) {
	g := NewGrid(25, 10)
	g.Update(Rect{0, 0, 1000, 800}, 1.0)
	if !g.Update(Rect{0, 0, 1000, 800}, 1.02) {
		t.Fatalf("scale change above tolerance must regenerate")
	}
}

func TestGridBoundsSnapToMajorLines(t *testing.T) {
	g := NewGrid(25, 10)
	g.Update(Rect{13, -7, 500, 400}, 1.0)

	b := g.DrawnBounds()
	major := g.Step * float64(g.MajorEvery)
	for name, v := range map[string]float64{
		"left": b.X, "top": b.Y, "right": b.Right(), "bottom": b.Bottom(),
	} {
		q := v / major
		if q != float64(int(q)) {
			t.Fatalf("%s edge %f is not on a major line (step %f)", name, v, major)
		}
	}
	// padded bounds must contain the requested viewport
	if !b.ContainsRect(Rect{13, -7, 500, 400}) {
		t.Fatalf("drawn bounds %+v do not cover the viewport", b)
	}
}

func TestGridMajorLineCadence(t *testing.T) {
	g := NewGrid(25, 4)
	g.Update(Rect{0, 0, 200, 200}, 1.0)

	for _, ln := range g.lines {
		onMajor := int(ln.pos/g.Step)%g.MajorEvery == 0
		if ln.major != onMajor {
			t.Fatalf("line at %f: major=%v want %v", ln.pos, ln.major, onMajor)
		}
	}
}
