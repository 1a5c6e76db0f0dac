package ui

import (
	"fmt"
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

const (
	toolbarMargin = 8
	toolbarHeight = 34
	toolbarPad    = 6
	buttonW       = 58
	inputW        = 260
)

// Toolbar is the floating control bar at the top of the canvas. It lives in
// screen space, above the panned content, and registers as a mask provider so
// the grid and the background hit area treat it as opaque.
type Toolbar struct {
	rect image.Rectangle

	pathInput *TextInput
	saveBtn   *Button
	exportBtn *Button
	copyBtn   *Button
	closeBtn  *Button
}

// NewToolbar wires the toolbar actions to the owning canvas.
func NewToolbar(onOpen func(string), onSave, onExport, onCopy, onClose func()) *Toolbar {
	t := &Toolbar{
		pathInput: NewTextInput(image.Rectangle{}),
		saveBtn:   NewButton("save", ButtonStyle{Fill: colButton, Border: colButtonBorder}, onSave),
		exportBtn: NewButton("export", ButtonStyle{Fill: colButton, Border: colButtonBorder}, onExport),
		copyBtn:   NewButton("copy", ButtonStyle{Fill: colButton, Border: colButtonBorder}, onCopy),
		closeBtn:  NewButton("close", ButtonStyle{Fill: colButton, Border: colButtonBorder}, onClose),
	}
	t.pathInput.OnSubmit = onOpen
	return t
}

// SetScreenSize lays the toolbar out for the current window width.
func (t *Toolbar) SetScreenSize(w, h int) {
	t.rect = image.Rect(toolbarMargin, toolbarMargin,
		toolbarMargin+inputW+4*(buttonW+toolbarPad)+3*toolbarPad+120, toolbarMargin+toolbarHeight)
	if t.rect.Max.X > w-toolbarMargin {
		t.rect.Max.X = w - toolbarMargin
	}

	inner := insetRect(t.rect, toolbarPad)
	x := inner.Min.X
	t.pathInput.Rect = image.Rect(x, inner.Min.Y, x+inputW, inner.Max.Y)
	x = t.pathInput.Rect.Max.X + toolbarPad
	for _, b := range []*Button{t.saveBtn, t.exportBtn, t.copyBtn, t.closeBtn} {
		b.SetRect(image.Rect(x, inner.Min.Y, x+buttonW, inner.Max.Y))
		x += buttonW + toolbarPad
	}
}

// MaskBounds implements MaskProvider.
func (t *Toolbar) MaskBounds() []image.Rectangle {
	return []image.Rectangle{t.rect}
}

// Update processes the pointer sample and keyboard input for the path box.
// Returns true when the event was consumed by the toolbar.
func (t *Toolbar) Update(mx, my int, pressed bool) bool {
	consumed := false
	for _, b := range []*Button{t.saveBtn, t.exportBtn, t.copyBtn, t.closeBtn} {
		if b.Handle(mx, my, pressed) {
			consumed = true
		}
	}
	if t.pathInput.Update(mx, my, pressed) {
		consumed = true
	}
	if pressed && pt(mx, my, t.rect) {
		consumed = true
	}
	return consumed
}

// Typing reports whether the path box owns the keyboard.
func (t *Toolbar) Typing() bool { return t.pathInput.Focused() }

// Draw renders the bar, its controls and the zoom indicator.
func (t *Toolbar) Draw(dst *ebiten.Image, zoom float64) {
	drawRect(dst, t.rect, colToolbar, true)
	drawRect(dst, t.rect, colNodeBorder, false)
	t.pathInput.Draw(dst)
	for _, b := range []*Button{t.saveBtn, t.exportBtn, t.copyBtn, t.closeBtn} {
		b.Draw(dst)
	}
	label := fmt.Sprintf("%.0f%%", zoom*100)
	ebitenutil.DebugPrintAt(dst, label, t.closeBtn.Rect().Max.X+toolbarPad, t.rect.Min.Y+(toolbarHeight-debugCharH)/2)
}
