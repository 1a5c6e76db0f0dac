package ui

import (
	"image"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/codefield-dev/codefield/internal/editor"
)

// resize directions, combinable into the 8 compass bands
type resizeDir int

const (
	dirNone resizeDir = 0
	dirN    resizeDir = 1 << iota
	dirS
	dirE
	dirW
)

// NodeOptions carries the interaction constants a node needs.
type NodeOptions struct {
	MinWidth     float64
	MinHeight    float64
	TitleHeight  float64 // title band height in world units
	ResizeBorder float64 // band thickness inside the edge, world units
	ResizeMargin float64 // band thickness outside the edge, screen px
}

// EditorNode is one open file on the canvas: a world-space rectangle with a
// title band, an owned editing surface, and the drag/resize controller. At
// most one node exists per file path; the canvas enforces that.
//
// The node is a mask provider: its own screen rectangle plus the rectangle of
// any popup widget its surface currently has open.
type EditorNode struct {
	Path    string
	X, Y    float64 // world coordinates of the top-left corner
	W, H    float64
	Z       int
	Dirty   bool
	Focused bool

	Surface editor.Surface

	cam  *Camera
	opts NodeOptions

	dragging       bool
	resizing       bool
	dir            resizeDir
	grabDX, grabDY float64
	startX, startY float64 // geometry snapshot at resize start
	startW, startH float64
	startWX        float64 // pointer world position at resize start
	startWY        float64

	onGeometry func()            // owning canvas refreshes masks
	onRaise    func(*EditorNode) // bring to front
}

func NewEditorNode(path string, surface editor.Surface, cam *Camera, opts NodeOptions) *EditorNode {
	return &EditorNode{Path: path, Surface: surface, cam: cam, opts: opts}
}

// Title returns the label drawn in the node's title band.
func (n *EditorNode) Title() string { return filepath.Base(n.Path) }

// Bounds returns the node's world rectangle.
func (n *EditorNode) Bounds() Rect { return Rect{n.X, n.Y, n.W, n.H} }

// SetCallbacks wires the owning canvas in. Geometry changes must be followed
// by a mask update in the same tick; raising reassigns the z counter.
func (n *EditorNode) SetCallbacks(onGeometry func(), onRaise func(*EditorNode)) {
	n.onGeometry = onGeometry
	n.onRaise = onRaise
}

// Interacting reports whether a drag or resize gesture is in progress.
func (n *EditorNode) Interacting() bool { return n.dragging || n.resizing }

// MaskBounds implements MaskProvider: the node's on-screen rectangle plus any
// popup widget (completion list, hover) its surface has open.
func (n *EditorNode) MaskBounds() []image.Rectangle {
	rects := []image.Rectangle{n.screenRect(Rect{n.X, n.Y, n.W, n.H})}
	for _, w := range n.Surface.WidgetRects() {
		local := Rect{
			n.X + float64(w.Min.X), n.Y + float64(w.Min.Y),
			float64(w.Dx()), float64(w.Dy()),
		}
		rects = append(rects, n.screenRect(local))
	}
	return rects
}

func (n *EditorNode) screenRect(r Rect) image.Rectangle {
	x0, y0 := n.cam.ScreenPos(r.X, r.Y)
	x1, y1 := n.cam.ScreenPos(r.Right(), r.Bottom())
	return image.Rect(int(x0), int(y0), int(x1), int(y1))
}

func (n *EditorNode) geometryChanged() {
	if n.onGeometry != nil {
		n.onGeometry()
	}
}

// HandlePress routes a primary-press edge to this node. Edge detection is
// the caller's job; the node only decides what the press means: a border
// band starts a resize, the title band starts a drag, the body raises and
// focuses. Returns true when the press belongs to this node.
func (n *EditorNode) HandlePress(mx, my int) bool {
	if n.dragging || n.resizing {
		return true
	}
	wx, wy := n.cam.WorldPos(float64(mx), float64(my))

	if dir := n.resizeDirAt(wx, wy); dir != dirNone {
		n.resizing = true
		n.dir = dir
		n.startX, n.startY = n.X, n.Y
		n.startW, n.startH = n.W, n.H
		n.startWX, n.startWY = wx, wy
		n.raise()
		return true
	}

	title := Rect{n.X, n.Y, n.W, n.opts.TitleHeight}
	if title.Contains(wx, wy) {
		n.dragging = true
		n.grabDX = wx - n.X
		n.grabDY = wy - n.Y
		n.raise()
		return true
	}

	if n.Bounds().Contains(wx, wy) {
		n.raise()
		n.Surface.Focus()
		return true
	}
	return false
}

// HandlePointer advances an active gesture with the current pointer sample.
// Dragging and resizing are mutually exclusive: whichever gesture is active
// swallows the pointer until release. Returns true while a gesture owns the
// pointer; a node with no active gesture ignores the sample.
func (n *EditorNode) HandlePointer(mx, my int, pressed bool) bool {
	wx, wy := n.cam.WorldPos(float64(mx), float64(my))

	if n.resizing {
		if !pressed {
			n.resizing = false
			n.dir = dirNone
			return true
		}
		n.applyResize(wx, wy)
		return true
	}

	if n.dragging {
		if !pressed {
			n.dragging = false
			return true
		}
		n.X = wx - n.grabDX
		n.Y = wy - n.grabDY
		n.geometryChanged()
		return true
	}
	return false
}

func (n *EditorNode) raise() {
	if n.onRaise != nil {
		n.onRaise(n)
	}
}

// resizeDirAt maps a world point to one of the 8 compass bands around the
// node's border. The band reaches ResizeBorder world units inside the edge
// and ResizeMargin screen pixels outside it (converted by the current scale).
func (n *EditorNode) resizeDirAt(wx, wy float64) resizeDir {
	inner := n.opts.ResizeBorder
	outer := n.opts.ResizeMargin / n.cam.Scale()

	if !n.Bounds().Inflate(outer).Contains(wx, wy) {
		return dirNone
	}

	var dir resizeDir
	if wy <= n.Y+inner {
		dir |= dirN
	} else if wy >= n.Bottom()-inner {
		dir |= dirS
	}
	if wx <= n.X+inner {
		dir |= dirW
	} else if wx >= n.Right()-inner {
		dir |= dirE
	}
	return dir
}

func (n *EditorNode) Right() float64  { return n.X + n.W }
func (n *EditorNode) Bottom() float64 { return n.Y + n.H }

// applyResize recomputes geometry from the pointer delta against the
// resize-start snapshot. Width and height clamp to the configured minimums
// and the opposite edge stays anchored at its pre-resize world coordinate.
func (n *EditorNode) applyResize(wx, wy float64) {
	dx := wx - n.startWX
	dy := wy - n.startWY

	if n.dir&dirE != 0 {
		n.W = clampMin(n.startW+dx, n.opts.MinWidth)
	}
	if n.dir&dirW != 0 {
		w := clampMin(n.startW-dx, n.opts.MinWidth)
		n.X = n.startX + n.startW - w // east edge fixed
		n.W = w
	}
	if n.dir&dirS != 0 {
		n.H = clampMin(n.startH+dy, n.opts.MinHeight)
	}
	if n.dir&dirN != 0 {
		h := clampMin(n.startH-dy, n.opts.MinHeight)
		n.Y = n.startY + n.startH - h // south edge fixed
		n.H = h
	}
	n.geometryChanged()
}

func clampMin(v, min float64) float64 {
	if v < min {
		return min
	}
	return v
}

// Draw renders the node frame and its surface content. Content text is drawn
// with the debug face in screen space like the rest of the UI chrome.
func (n *EditorNode) Draw(dst *ebiten.Image) {
	geo := n.cam.GeoM()

	alpha := float32(1)
	if n.dragging {
		alpha = 0.72 // drag affordance
	}

	fillWorldRect(dst, Rect{n.X, n.Y, n.W, n.H}, &geo, colNodeBody, alpha)
	fillWorldRect(dst, Rect{n.X, n.Y, n.W, n.opts.TitleHeight}, &geo, colNodeTitle, alpha)

	border := colNodeBorder
	if n.Focused {
		border = colNodeFocused
	}
	if n.Dirty {
		border = colNodeDirty
	}
	DrawLineCam(dst, n.X, n.Y, n.Right(), n.Y, &geo, border, 1)
	DrawLineCam(dst, n.Right(), n.Y, n.Right(), n.Bottom(), &geo, border, 1)
	DrawLineCam(dst, n.Right(), n.Bottom(), n.X, n.Bottom(), &geo, border, 1)
	DrawLineCam(dst, n.X, n.Bottom(), n.X, n.Y, &geo, border, 1)

	sx, sy := n.cam.ScreenPos(n.X, n.Y)
	title := n.Title()
	if n.Dirty {
		title += " *"
	}
	ebitenutil.DebugPrintAt(dst, title, int(sx)+4, int(sy)+2)

	n.drawContent(dst)
}

func (n *EditorNode) drawContent(dst *ebiten.Image) {
	clip := n.screenRect(Rect{n.X, n.Y + n.opts.TitleHeight, n.W, n.H - n.opts.TitleHeight})
	clip = clip.Intersect(dst.Bounds())
	if clip.Empty() {
		return
	}
	sub := dst.SubImage(clip).(*ebiten.Image)

	lines := n.Surface.Lines()
	maxLines := clip.Dy()/debugCharH + 1
	if len(lines) > maxLines {
		lines = lines[:maxLines]
	}
	for i, line := range lines {
		y := clip.Min.Y + i*debugCharH
		ebitenutil.DebugPrintAt(sub, line, clip.Min.X+6, y)
	}

	for _, d := range visibleMarks(n.Surface.DiagnosticMarks(), maxLines) {
		y := clip.Min.Y + d.Line*debugCharH
		col := colDiagWarn
		if d.Severity <= 1 {
			col = colDiagError
		}
		drawRect(dst, image.Rect(clip.Min.X, y, clip.Min.X+3, y+debugCharH), col, true)
	}
}

// visibleMarks drops gutter marks outside a content window rows lines tall.
// Marks go negative when the surface has scrolled past their line.
func visibleMarks(marks []editor.Mark, rows int) []editor.Mark {
	out := marks[:0:0]
	for _, m := range marks {
		if m.Line < 0 || m.Line >= rows {
			continue
		}
		out = append(out, m)
	}
	return out
}
