// Package editor defines the embedded rich-text-editing surface a canvas
// node owns. The canvas drives the surface through the Surface interface
// only; the concrete editing feature set lives behind it.
package editor

import "image"

// Diagnostic is a host-reported problem attached to a line range.
type Diagnostic struct {
	Line     int // 0-based start line
	EndLine  int
	Severity int // 1=error, 2=warning, 3=info, 4=hint
	Message  string
}

// Mark is a gutter marker derived from diagnostics or breakpoints.
type Mark struct {
	Line     int
	Severity int
}

// Surface is the per-node editing component. The node creates it with the
// file's language and initial content, and disposes it when the node closes.
type Surface interface {
	SetContent(content string)
	Content() string
	Lines() []string

	SetDiagnostics([]Diagnostic)
	DiagnosticMarks() []Mark
	SetBreakpoints(lines []int)

	Focus()
	Reveal(startLine, endLine int)

	// WidgetRects reports the node-local rectangles of transient popup
	// widgets (completion list, hover) currently open, so the owning node
	// can contribute them as mask regions.
	WidgetRects() []image.Rectangle

	Dispose()
}

// CompletionSurface is the optional popup capability: surfaces that can show
// a completion list implement it, and the canvas feature-detects it instead
// of assuming every surface has a popup.
type CompletionSurface interface {
	Surface
	ShowCompletions(at image.Point, items []string)
	HideCompletions()
}
