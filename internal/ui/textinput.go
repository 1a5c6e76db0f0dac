package ui

import (
	"image"
	"image/color"
	"unicode/utf8"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// TextInput is a reusable editable text box with cursor support.
type TextInput struct {
	Rect     image.Rectangle
	Text     string
	OnSubmit func(string)

	cursor  int
	focused bool
	blink   int
	repeat  map[ebiten.Key]int
}

func NewTextInput(r image.Rectangle) *TextInput {
	return &TextInput{Rect: r, repeat: make(map[ebiten.Key]int)}
}

// Focused reports whether the input currently has focus.
func (t *TextInput) Focused() bool { return t.focused }

// SetText sets the current text and moves the cursor to the end.
func (t *TextInput) SetText(s string) {
	t.Text = s
	t.cursor = utf8.RuneCountInString(s)
}

// Value returns the current text value.
func (t *TextInput) Value() string { return t.Text }

// Update processes mouse/keyboard input. Returns true when the pointer event
// was consumed by the box.
func (t *TextInput) Update(mx, my int, pressed bool) bool {
	consumed := false
	if pressed {
		if pt(mx, my, t.Rect) {
			t.focused = true
			consumed = true
		} else {
			t.focused = false
		}
	}
	if !t.focused {
		t.blink = 0
		return consumed
	}

	t.blink++
	if t.blink > 60 {
		t.blink = 0
	}

	for _, r := range appendInputChars(nil) {
		if r == '\n' || r == '\r' {
			continue
		}
		before := t.Text[:byteIndex(t.Text, t.cursor)]
		after := t.Text[byteIndex(t.Text, t.cursor):]
		t.Text = before + string(r) + after
		t.cursor++
	}

	if t.keyRepeat(ebiten.KeyBackspace) && t.cursor > 0 {
		bi := byteIndex(t.Text, t.cursor)
		prev := byteIndex(t.Text, t.cursor-1)
		t.Text = t.Text[:prev] + t.Text[bi:]
		t.cursor--
	}
	if t.keyRepeat(ebiten.KeyLeft) && t.cursor > 0 {
		t.cursor--
	}
	if t.keyRepeat(ebiten.KeyRight) && t.cursor < utf8.RuneCountInString(t.Text) {
		t.cursor++
	}
	if t.keyRepeat(ebiten.KeyEnter) {
		if t.OnSubmit != nil {
			t.OnSubmit(t.Text)
		}
		t.SetText("")
		t.focused = false
	}
	return consumed
}

func (t *TextInput) keyRepeat(k ebiten.Key) bool {
	if isKeyPressed(k) {
		t.repeat[k]++
		d := t.repeat[k]
		if d == 1 || d > 15 && (d-15)%3 == 0 {
			return true
		}
	} else {
		t.repeat[k] = 0
	}
	return false
}

// byteIndex returns the byte index of rune i in s.
func byteIndex(s string, i int) int {
	if i <= 0 {
		return 0
	}
	bi := 0
	for n := 0; n < i && bi < len(s); n++ {
		_, sz := utf8.DecodeRuneInString(s[bi:])
		bi += sz
	}
	return bi
}

// visibleText returns the suffix that fits in the box and the index of the
// first rune shown.
func (t *TextInput) visibleText() (string, int) {
	pad := 4
	maxRunes := (t.Rect.Dx() - pad*2) / debugCharW
	total := utf8.RuneCountInString(t.Text)
	start := 0
	if total > maxRunes {
		start = total - maxRunes
	}
	return t.Text[byteIndex(t.Text, start):], start
}

// Draw renders the input box, text and blinking cursor.
func (t *TextInput) Draw(dst *ebiten.Image) {
	drawRect(dst, t.Rect, colInputBox, true)
	border := color.Color(colNodeBorder)
	if t.focused {
		border = colNodeFocused
	}
	drawRect(dst, t.Rect, border, false)

	txt, start := t.visibleText()
	ebitenutil.DebugPrintAt(dst, txt, t.Rect.Min.X+4, t.Rect.Min.Y+4)
	if t.focused && t.blink < 30 {
		cx := t.Rect.Min.X + 4 + debugCharW*(t.cursor-start)
		cy := t.Rect.Min.Y + 4
		drawRect(dst, image.Rect(cx, cy, cx+1, cy+debugCharH-2), color.White, true)
	}
}
