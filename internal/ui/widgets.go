package ui

import (
	"image"
	"image/color"
	"unicode/utf8"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

const (
	// Ebiten's debug font uses a 6x13 glyph.
	debugCharW = 6
	debugCharH = 13
)

// insetRect returns r shrunk by pad pixels on all sides.
func insetRect(r image.Rectangle, pad int) image.Rectangle {
	return image.Rect(r.Min.X+pad, r.Min.Y+pad, r.Max.X-pad, r.Max.Y-pad)
}

// ButtonStyle draws a filled button with a border and press/hover feedback.
type ButtonStyle struct {
	Fill   color.RGBA
	Border color.RGBA
}

func (s ButtonStyle) Draw(dst *ebiten.Image, r image.Rectangle, pressed, hovered bool) {
	fill := s.Fill
	if pressed {
		fill = color.RGBA{s.Fill.R / 2, s.Fill.G / 2, s.Fill.B / 2, s.Fill.A}
	} else if hovered {
		fill = color.RGBA{s.Fill.R + (255-s.Fill.R)/8, s.Fill.G + (255-s.Fill.G)/8, s.Fill.B + (255-s.Fill.B)/8, s.Fill.A}
	}
	drawRect(dst, r, fill, true)
	drawRect(dst, r, s.Border, false)
}

// Button is a basic clickable component with a rectangular bounds and label.
type Button struct {
	r       image.Rectangle
	Text    string
	Style   ButtonStyle
	OnClick func()
	pressed bool
	hovered bool
}

func NewButton(text string, style ButtonStyle, onClick func()) *Button {
	return &Button{Text: text, Style: style, OnClick: onClick}
}

func (b *Button) Rect() image.Rectangle     { return b.r }
func (b *Button) SetRect(r image.Rectangle) { b.r = r }

// Handle processes a pointer sample. OnClick fires on the press edge inside
// the bounds.
func (b *Button) Handle(mx, my int, pressed bool) bool {
	inside := pt(mx, my, b.r)
	b.hovered = inside
	if pressed && inside {
		if !b.pressed && b.OnClick != nil {
			b.OnClick()
		}
		b.pressed = true
		return true
	}
	b.pressed = false
	return false
}

// Draw renders the button and its centered label.
func (b *Button) Draw(dst *ebiten.Image) {
	b.Style.Draw(dst, b.r, b.pressed, b.hovered)
	tr := b.textRect()
	ebitenutil.DebugPrintAt(dst, b.Text, tr.Min.X, tr.Min.Y)
}

func (b *Button) textRect() image.Rectangle {
	w := debugCharW * utf8.RuneCountInString(b.Text)
	h := debugCharH
	x := b.r.Min.X + (b.r.Dx()-w)/2
	y := b.r.Min.Y + (b.r.Dy()-h)/2
	return image.Rect(x, y, x+w, y+h)
}
