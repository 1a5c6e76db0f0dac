package ui

import "image"

// MaskedHitArea decides whether a screen point belongs to the pannable
// background: inside the base rectangle and outside every registered mask.
// It inverts the usual "hit something visible" test into "hit the absence of
// anything opaque", which lets nodes receive their own pointer events while
// everything in between pans the canvas.
type MaskedHitArea struct {
	base  image.Rectangle
	masks []image.Rectangle
}

func NewMaskedHitArea(base image.Rectangle) *MaskedHitArea {
	return &MaskedHitArea{base: base}
}

// SetBase replaces the base rectangle (on window resize) without discarding
// mask state.
func (h *MaskedHitArea) SetBase(base image.Rectangle) { h.base = base }

// ApplyMasks implements MaskConsumer.
func (h *MaskedHitArea) ApplyMasks(rects []image.Rectangle) { h.masks = rects }

// Hit reports whether (x,y) is background-interactive.
func (h *MaskedHitArea) Hit(x, y int) bool {
	if !pt(x, y, h.base) {
		return false
	}
	for _, r := range h.masks {
		if pt(x, y, r) {
			return false
		}
	}
	return true
}
