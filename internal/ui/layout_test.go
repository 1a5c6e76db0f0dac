package ui

import (
	"strings"
	"testing"

	"github.com/codefield-dev/codefield/internal/editor"
)

func testLayoutConfig() LayoutConfig {
	return LayoutConfig{
		MinWidth:  220,
		MaxWidth:  1200,
		BaseWidth: 500,
		MinHeight: 120,
		MaxHeight: 900,
		Spacing:   40,
	}
}

func layoutNode(path string, x, y, w, h float64) *EditorNode {
	n := NewEditorNode(path, editor.NewTextSurface("go", ""), NewCamera(1.1, -30, 10), testNodeOptions())
	n.X, n.Y, n.W, n.H = x, y, w, h
	return n
}

func TestSizeForContentHugeFileClampsHeight(t *testing.T) {
	m := NewNodeLayoutManager(testLayoutConfig())

	line := strings.Repeat("x", 40)
	content := strings.Repeat(line+"\n", 799) + line // 800 lines, max length 40

	w, h := m.SizeForContent(content)
	if h != 900 {
		t.Fatalf("h=%f want clamped max 900", h)
	}
	if w != 500 {
		t.Fatalf("w=%f want base width 500 for short lines", w)
	}
}

func TestSizeForContentGrowsWithLines(t *testing.T) {
	m := NewNodeLayoutManager(testLayoutConfig())

	_, h10 := m.SizeForContent(strings.Repeat("x\n", 9) + "x")
	_, h50 := m.SizeForContent(strings.Repeat("x\n", 49) + "x")
	_, h200 := m.SizeForContent(strings.Repeat("x\n", 199) + "x")
	if !(h10 < h50 && h50 < h200) {
		t.Fatalf("height not monotonic: %f %f %f", h10, h50, h200)
	}

	// 10 lines: 40 header + 18*10
	if h10 != 220 {
		t.Fatalf("h10=%f want 220", h10)
	}
	// past 20 lines the slope halves: 40 + 18*20 + 9*30
	if h50 != 670 {
		t.Fatalf("h50=%f want 670", h50)
	}
}

func TestSizeForContentWideLinesGrowWidthLogarithmically(t *testing.T) {
	m := NewNodeLayoutManager(testLayoutConfig())

	w80, _ := m.SizeForContent(strings.Repeat("x", 80))
	w160, _ := m.SizeForContent(strings.Repeat("x", 160))
	w640, _ := m.SizeForContent(strings.Repeat("x", 640))

	if w80 != 500 {
		t.Fatalf("w80=%f want base width at the threshold", w80)
	}
	if w160 != 660 { // 500 + 160*log2(2)
		t.Fatalf("w160=%f want 660", w160)
	}
	if !(w160 < w640 && w640 <= 1200) {
		t.Fatalf("width growth out of range: w160=%f w640=%f", w160, w640)
	}
}

func TestPositionForNewNodeRightOfFocused(t *testing.T) {
	m := NewNodeLayoutManager(testLayoutConfig())
	a := layoutNode("/a.go", 0, 0, 500, 400)
	m.Register(a)

	x, y := m.PositionForNewNode(500, 400, 0, 0)
	if x != 540 { // a.Right() + spacing
		t.Fatalf("x=%f want 540", x)
	}
	if y != 0 { // same height: vertical centers align
		t.Fatalf("y=%f want 0", y)
	}

	// a shorter node centers against the focused node's vertical middle
	_, y2 := m.PositionForNewNode(500, 200, 0, 0)
	if y2 != 100 {
		t.Fatalf("y=%f want 100", y2)
	}
}

func TestPositionForNewNodeShiftsPastColliders(t *testing.T) {
	m := NewNodeLayoutManager(testLayoutConfig())
	a := layoutNode("/a.go", 0, 0, 500, 400)
	c := layoutNode("/c.go", 540, 0, 500, 400) // occupies the preferred slot
	m.Register(c)
	m.Register(a) // registered last, so a holds focus

	x, y := m.PositionForNewNode(500, 400, 0, 0)
	if x != 1080 { // c.Right() + spacing
		t.Fatalf("x=%f want 1080", x)
	}
	if y != 0 {
		t.Fatalf("y=%f want 0", y)
	}
}

func TestPositionForNewNodeCentersOnViewportWithoutFocus(t *testing.T) {
	m := NewNodeLayoutManager(testLayoutConfig())
	x, y := m.PositionForNewNode(400, 300, 1000, 500)
	if x != 800 || y != 350 {
		t.Fatalf("pos (%f,%f) want (800,350)", x, y)
	}
}

func TestRegisterFocusesAndRaises(t *testing.T) {
	m := NewNodeLayoutManager(testLayoutConfig())
	a := layoutNode("/a.go", 0, 0, 500, 400)
	b := layoutNode("/b.go", 600, 0, 500, 400)
	m.Register(a)
	m.Register(b)

	if m.FocusedPath() != "/b.go" {
		t.Fatalf("focused=%q want /b.go", m.FocusedPath())
	}
	if a.Focused || !b.Focused {
		t.Fatalf("focus flags wrong: a=%v b=%v", a.Focused, b.Focused)
	}
	if b.Z <= a.Z {
		t.Fatalf("newest node must be on top: a.Z=%d b.Z=%d", a.Z, b.Z)
	}

	m.Focus("/a.go")
	if !a.Focused || b.Focused {
		t.Fatalf("focus did not transfer: a=%v b=%v", a.Focused, b.Focused)
	}
	if a.Z <= b.Z {
		t.Fatalf("focus must raise: a.Z=%d b.Z=%d", a.Z, b.Z)
	}
}

func TestBringToFrontStrictlyIncreases(t *testing.T) {
	m := NewNodeLayoutManager(testLayoutConfig())
	a := layoutNode("/a.go", 0, 0, 500, 400)
	m.Register(a)

	prev := a.Z
	for i := 0; i < 5; i++ {
		m.BringToFront(a)
		if a.Z <= prev {
			t.Fatalf("Z did not increase: %d then %d", prev, a.Z)
		}
		prev = a.Z
	}
}

func TestUnregisterTransfersFocusToTopmost(t *testing.T) {
	m := NewNodeLayoutManager(testLayoutConfig())
	a := layoutNode("/a.go", 0, 0, 500, 400)
	b := layoutNode("/b.go", 600, 0, 500, 400)
	c := layoutNode("/c.go", 1200, 0, 500, 400)
	m.Register(a)
	m.Register(b)
	m.Register(c)
	m.Focus("/b.go") // b now topmost, c below, a lowest

	m.Unregister("/b.go")
	if m.FocusedPath() != "/c.go" {
		t.Fatalf("focused=%q want /c.go (topmost remaining)", m.FocusedPath())
	}
	if m.Count() != 2 {
		t.Fatalf("Count=%d want 2", m.Count())
	}

	m.Unregister("/c.go")
	m.Unregister("/a.go")
	if m.FocusedPath() != "" || m.FocusedNode() != nil {
		t.Fatalf("focus must clear when the last node closes")
	}

	// absent unregister is a no-op
	m.Unregister("/a.go")
}

func TestOrderedSortsBackToFront(t *testing.T) {
	m := NewNodeLayoutManager(testLayoutConfig())
	a := layoutNode("/a.go", 0, 0, 500, 400)
	b := layoutNode("/b.go", 600, 0, 500, 400)
	c := layoutNode("/c.go", 1200, 0, 500, 400)
	m.Register(a)
	m.Register(b)
	m.Register(c)
	m.Focus("/a.go")

	got := m.Ordered()
	want := []string{"/b.go", "/c.go", "/a.go"}
	for i, n := range got {
		if n.Path != want[i] {
			t.Fatalf("Ordered[%d]=%s want %s", i, n.Path, want[i])
		}
	}
}

func TestUnregisterRemovesNodeLookup(t *testing.T) {
	m := NewNodeLayoutManager(testLayoutConfig())
	a := layoutNode("/a.go", 0, 0, 500, 400)
	m.Register(a)
	if m.Node("/a.go") != a {
		t.Fatalf("Node lookup failed after Register")
	}
	m.Unregister("/a.go")
	if m.Node("/a.go") != nil {
		t.Fatalf("Node lookup must return nil after Unregister")
	}
}
