package ui

import (
	"image"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// Redraw hysteresis constants. Tunable; the exact values trade redraw
// frequency against overdraw, they are not load-bearing.
const (
	gridScaleTolerance = 0.01 // relative scale change that forces a redraw
	gridBoundsMargin   = 0.10 // fraction of the viewport kept as slack
	gridPadMajorCells  = 2    // draw-rect padding, in major cells
)

type gridLine struct {
	pos      float64 // world coordinate of the line
	major    bool
	vertical bool
}

// Grid renders an infinite-appearing background lattice of minor lines every
// Step world units and major lines every MajorEvery minors. Line geometry is
// regenerated only when the viewport leaves the last-drawn rectangle or the
// scale moves past a threshold, and mask providers punch holes in the
// rendered layer so opaque nodes never show gridlines underneath.
type Grid struct {
	Step       float64
	MajorEvery int

	// draw cache; geometry stays valid for any viewport inside lastBounds
	// shrunk by gridBoundsMargin at lastScale (±gridScaleTolerance)
	lastBounds Rect
	lastScale  float64
	drawn      bool
	lines      []gridLine
	regens     int

	masks []image.Rectangle
	layer *ebiten.Image
}

func NewGrid(step float64, majorEvery int) *Grid {
	if majorEvery <= 0 {
		majorEvery = 10
	}
	return &Grid{Step: step, MajorEvery: majorEvery}
}

// ApplyMasks implements MaskConsumer. Rectangles arrive in global screen
// space and replace all prior mask state.
func (g *Grid) ApplyMasks(rects []image.Rectangle) { g.masks = rects }

// Regenerations returns how many times line geometry was rebuilt. Probe for
// the redraw-suppression tests.
func (g *Grid) Regenerations() int { return g.regens }

// DrawnBounds returns the world rectangle the cached geometry covers.
func (g *Grid) DrawnBounds() Rect { return g.lastBounds }

// Update recomputes line geometry if the viewport or scale moved past the
// hysteresis thresholds. Returns true when geometry was regenerated.
func (g *Grid) Update(bounds Rect, scale float64) bool {
	if !g.needsRedraw(bounds, scale) {
		return false
	}
	g.regenerate(bounds, scale)
	return true
}

func (g *Grid) needsRedraw(bounds Rect, scale float64) bool {
	if !g.drawn {
		return true
	}
	if math.Abs(scale-g.lastScale) > gridScaleTolerance*g.lastScale {
		return true
	}
	shrunk := Rect{
		X: bounds.X + bounds.W*gridBoundsMargin,
		Y: bounds.Y + bounds.H*gridBoundsMargin,
		W: bounds.W * (1 - 2*gridBoundsMargin),
		H: bounds.H * (1 - 2*gridBoundsMargin),
	}
	return !g.lastBounds.ContainsRect(shrunk)
}

// regenerate rebuilds the lattice for the viewport padded by two major cells
// and snapped outward to major lines, so consecutive draws share line
// positions and panning within the pad shows no seams.
func (g *Grid) regenerate(bounds Rect, scale float64) {
	major := g.Step * float64(g.MajorEvery)
	pad := major * gridPadMajorCells

	minX := math.Floor((bounds.X-pad)/major) * major
	maxX := math.Ceil((bounds.Right()+pad)/major) * major
	minY := math.Floor((bounds.Y-pad)/major) * major
	maxY := math.Ceil((bounds.Bottom()+pad)/major) * major

	g.lines = g.lines[:0]
	startI := int(math.Round(minX / g.Step))
	endI := int(math.Round(maxX / g.Step))
	for i := startI; i <= endI; i++ {
		g.lines = append(g.lines, gridLine{
			pos:      float64(i) * g.Step,
			major:    i%g.MajorEvery == 0,
			vertical: true,
		})
	}
	startJ := int(math.Round(minY / g.Step))
	endJ := int(math.Round(maxY / g.Step))
	for j := startJ; j <= endJ; j++ {
		g.lines = append(g.lines, gridLine{
			pos:   float64(j) * g.Step,
			major: j%g.MajorEvery == 0,
		})
	}

	g.lastBounds = Rect{minX, minY, maxX - minX, maxY - minY}
	g.lastScale = scale
	g.drawn = true
	g.regens++
}

// Draw composites the cached lattice onto dst through the camera transform,
// then clears every mask rectangle out of the layer before blitting. Masks
// are merged additively and applied as an inverse cut, so overlapping
// provider rectangles cannot flicker the way even-odd fills do.
func (g *Grid) Draw(dst *ebiten.Image, cam *Camera, screenW, screenH int) {
	if screenW <= 0 || screenH <= 0 || !g.drawn {
		return
	}
	if g.layer == nil || g.layer.Bounds().Dx() != screenW || g.layer.Bounds().Dy() != screenH {
		g.layer = ebiten.NewImage(screenW, screenH)
	}
	g.layer.Clear()

	geo := cam.GeoM()
	b := g.lastBounds
	for _, ln := range g.lines {
		col := colGridMinor
		thick := 1.0
		if ln.major {
			col = colGridMajor
			thick = 1.5
		}
		if ln.vertical {
			DrawLineCam(g.layer, ln.pos, b.Y, ln.pos, b.Bottom(), &geo, col, thick)
		} else {
			DrawLineCam(g.layer, b.X, ln.pos, b.Right(), ln.pos, &geo, col, thick)
		}
	}

	for _, r := range g.masks {
		clearRect(g.layer, r)
	}

	var op ebiten.DrawImageOptions
	dst.DrawImage(g.layer, &op)
}
