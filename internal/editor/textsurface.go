package editor

import (
	"image"
	"strings"
)

const (
	popupWidth      = 220 // node-local px
	popupLineHeight = 14
	popupMaxItems   = 8
)

// TextSurface is a minimal Surface: a line buffer with diagnostic and
// breakpoint marks and an optional completion popup. Editing beyond content
// replacement is out of scope here; the surface exists so the canvas has a
// real collaborator to own, render, and mask around.
type TextSurface struct {
	Language string

	lines       []string
	diags       []Diagnostic
	breakpoints []int
	focused     bool
	topLine     int

	completionsAt image.Point // node-local anchor of the open popup
	completions   []string
	disposed      bool
}

// NewTextSurface creates a surface with the given language and content.
func NewTextSurface(language, content string) *TextSurface {
	s := &TextSurface{Language: language}
	s.SetContent(content)
	return s
}

func (s *TextSurface) SetContent(content string) {
	s.lines = strings.Split(content, "\n")
}

func (s *TextSurface) Content() string { return strings.Join(s.lines, "\n") }

// Lines returns the visible line window starting at the last revealed line.
func (s *TextSurface) Lines() []string {
	if s.topLine <= 0 || s.topLine >= len(s.lines) {
		return s.lines
	}
	return s.lines[s.topLine:]
}

func (s *TextSurface) SetDiagnostics(ds []Diagnostic) { s.diags = ds }

func (s *TextSurface) DiagnosticMarks() []Mark {
	marks := make([]Mark, 0, len(s.diags)+len(s.breakpoints))
	for _, d := range s.diags {
		marks = append(marks, Mark{Line: d.Line - s.topLine, Severity: d.Severity})
	}
	for _, bp := range s.breakpoints {
		marks = append(marks, Mark{Line: bp - s.topLine, Severity: 0})
	}
	return marks
}

func (s *TextSurface) SetBreakpoints(lines []int) { s.breakpoints = lines }

func (s *TextSurface) Focus() { s.focused = true }

// Blur drops focus and closes any popup.
func (s *TextSurface) Blur() {
	s.focused = false
	s.completions = nil
}

func (s *TextSurface) Focused() bool { return s.focused }

// Reveal scrolls the window so startLine is the first visible line.
func (s *TextSurface) Reveal(startLine, endLine int) {
	if startLine < 0 {
		startLine = 0
	}
	if startLine >= len(s.lines) {
		startLine = len(s.lines) - 1
	}
	s.topLine = startLine
}

// ShowCompletions opens the completion popup at a node-local anchor point.
func (s *TextSurface) ShowCompletions(at image.Point, items []string) {
	s.completionsAt = at
	s.completions = items
}

// HideCompletions closes the popup.
func (s *TextSurface) HideCompletions() { s.completions = nil }

// WidgetRects reports the popup rectangle while one is open. The rect is
// node-local; the owning node translates it into screen space for masking.
func (s *TextSurface) WidgetRects() []image.Rectangle {
	if len(s.completions) == 0 {
		return nil
	}
	items := len(s.completions)
	if items > popupMaxItems {
		items = popupMaxItems
	}
	r := image.Rect(
		s.completionsAt.X, s.completionsAt.Y,
		s.completionsAt.X+popupWidth, s.completionsAt.Y+items*popupLineHeight,
	)
	return []image.Rectangle{r}
}

// Completions returns the open popup items, if any.
func (s *TextSurface) Completions() []string { return s.completions }

func (s *TextSurface) Dispose() {
	s.disposed = true
	s.lines = nil
	s.diags = nil
	s.completions = nil
}

// Disposed reports whether Dispose has been called.
func (s *TextSurface) Disposed() bool { return s.disposed }
