package ui

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// Camera owns the world transform: a pan offset plus a uniform scale. Zoom is
// stored as an exponent so the scale range stays a clean geometric series and
// repeated wheel steps land on exact powers of the base.
type Camera struct {
	OffsetX float64
	OffsetY float64

	base     float64 // scale = base^level
	level    float64
	minLevel float64
	maxLevel float64
}

// NewCamera creates a camera at zoom level 0 (scale 1).
func NewCamera(base, minLevel, maxLevel float64) *Camera {
	return &Camera{base: base, minLevel: minLevel, maxLevel: maxLevel}
}

// Scale returns the current uniform world→screen scale factor.
func (c *Camera) Scale() float64 { return math.Pow(c.base, c.level) }

// Level returns the zoom exponent.
func (c *Camera) Level() float64 { return c.level }

// SetLevel clamps lv into the configured range and applies it.
func (c *Camera) SetLevel(lv float64) {
	if lv < c.minLevel {
		lv = c.minLevel
	} else if lv > c.maxLevel {
		lv = c.maxLevel
	}
	c.level = lv
}

// ScreenPos converts world coordinates to screen-space using the current
// camera transform.
func (c *Camera) ScreenPos(x, y float64) (sx, sy float64) {
	s := c.Scale()
	return x*s + c.OffsetX, y*s + c.OffsetY
}

// WorldPos converts screen coordinates to world-space. The inverse of
// ScreenPos; valid for any scale > 0, which the level clamp guarantees.
func (c *Camera) WorldPos(sx, sy float64) (x, y float64) {
	s := c.Scale()
	return (sx - c.OffsetX) / s, (sy - c.OffsetY) / s
}

// WorldRect converts a screen rectangle to world coordinates.
func (c *Camera) WorldRect(sx, sy, sw, sh float64) Rect {
	x, y := c.WorldPos(sx, sy)
	s := c.Scale()
	return Rect{x, y, sw / s, sh / s}
}

// GeoM returns the affine transform applied to all world-space drawings.
func (c *Camera) GeoM() ebiten.GeoM {
	var m ebiten.GeoM
	s := c.Scale()
	m.Scale(s, s)
	m.Translate(c.OffsetX, c.OffsetY)
	return m
}

// ZoomAt shifts the zoom level by delta, keeping the world point under the
// screen position (sx,sy) fixed.
func (c *Camera) ZoomAt(delta, sx, sy float64) {
	wx, wy := c.WorldPos(sx, sy)
	c.SetLevel(c.level + delta)
	s := c.Scale()
	c.OffsetX = sx - wx*s
	c.OffsetY = sy - wy*s
}

// Pan moves the camera by a screen-space delta.
func (c *Camera) Pan(dx, dy float64) {
	c.OffsetX += dx
	c.OffsetY += dy
	c.clampOffsets()
}

// clampOffsets limits offset magnitude so panning across huge distances
// doesn't accumulate floating-point error.
func (c *Camera) clampOffsets() {
	const limit = 1e9
	if c.OffsetX > limit {
		c.OffsetX = limit
	} else if c.OffsetX < -limit {
		c.OffsetX = -limit
	}
	if c.OffsetY > limit {
		c.OffsetY = limit
	} else if c.OffsetY < -limit {
		c.OffsetY = -limit
	}
}
