package ui

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"os"
	"time"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/codefield-dev/codefield/internal/config"
	"github.com/codefield-dev/codefield/internal/editor"
	"github.com/codefield-dev/codefield/internal/host"
	"github.com/codefield-dev/codefield/internal/lang"
	game_log "github.com/codefield-dev/codefield/internal/log"
	"github.com/codefield-dev/codefield/internal/snapshot"
)

const nodeTitleHeight = 24 // world units

// FileBackend is the slice of the host the canvas needs for file I/O. The
// websocket-backed host.FileService implements it; a local-disk fallback
// keeps the canvas usable detached from any host.
type FileBackend interface {
	Open(ctx context.Context, path string) (host.FileInfo, error)
	Save(ctx context.Context, path, content string) error
	NotifyChanged(path, content string)
	NotifyClosed(path string)
}

// Canvas is the content root: it owns the world transform, the grid, the
// mask registries, the open nodes and the toolbar, and implements
// ebiten.Game. All state mutation happens on the game tick; host round trips
// run on goroutines and post their results back through the inbox.
//
// Per-tick ordering guarantee: input mutates geometry, then the mask
// registries update, then paint — masks are never a frame stale relative to
// node geometry changed in the same tick.
type Canvas struct {
	logger *game_log.Logger
	cfg    *config.Config

	cam     *Camera
	vp      *Viewport
	grid    *Grid
	masks   *MaskManager
	hit     *MaskedHitArea
	layout  *NodeLayoutManager
	toolbar *Toolbar

	files  FileBackend
	events <-chan host.Event
	bridge *lang.Bridge
	inbox  chan func()

	winW, winH int
	frame      int64

	maskDirty bool
	panning   bool
	lastMX    int
	lastMY    int
	prevLeft  bool

	status      string
	statusUntil int64

	prevKeys map[ebiten.Key]bool
}

// NewCanvas builds the canvas and wires the subsystems together. events may
// be nil when running detached from a host.
func NewCanvas(cfg *config.Config, files FileBackend, events <-chan host.Event, bridge *lang.Bridge, logger *game_log.Logger) *Canvas {
	cam := NewCamera(cfg.Canvas.ZoomBase, cfg.Canvas.MinZoomLevel, cfg.Canvas.MaxZoomLevel)
	c := &Canvas{
		logger: logger,
		cfg:    cfg,
		cam:    cam,
		vp:     NewViewport(cam),
		grid:   NewGrid(cfg.Canvas.GridStep, cfg.Canvas.MajorEvery),
		masks:  NewMaskManager(),
		hit:    NewMaskedHitArea(image.Rectangle{}),
		layout: NewNodeLayoutManager(LayoutConfig{
			MinWidth:  cfg.Node.MinWidth,
			MaxWidth:  cfg.Node.MaxWidth,
			BaseWidth: cfg.Node.BaseWidth,
			MinHeight: cfg.Node.MinHeight,
			MaxHeight: cfg.Node.MaxHeight,
			Spacing:   cfg.Node.Spacing,
		}),
		files:    files,
		events:   events,
		bridge:   bridge,
		inbox:    make(chan func(), 64),
		prevKeys: make(map[ebiten.Key]bool),
	}

	c.toolbar = NewToolbar(
		c.OpenFile,
		c.SaveFocused,
		c.ExportPNG,
		c.CopyFocused,
		c.CloseFocused,
	)

	c.masks.RegisterConsumer(c.grid)
	c.masks.RegisterConsumer(c.hit)
	c.masks.RegisterProvider(c.toolbar)
	return c
}

/* ─────────────────────── ebiten.Game ─────────────────────── */

func (c *Canvas) Layout(w, h int) (int, int) {
	if w != c.winW || h != c.winH {
		c.winW, c.winH = w, h
		c.vp.SetScreenSize(w, h)
		c.hit.SetBase(image.Rect(0, 0, w, h))
		c.toolbar.SetScreenSize(w, h)
		c.maskDirty = true
	}
	return w, h
}

func (c *Canvas) Update() error {
	c.drainInbox()
	c.drainHostEvents()

	mx, my := cursorPosition()
	left := isMouseButtonPressed(ebiten.MouseButtonLeft)

	consumed := c.toolbar.Update(mx, my, left)
	if !consumed {
		consumed = c.updateNodes(mx, my, left)
	}
	if !consumed {
		c.updateCameraInput(mx, my, left)
	}
	if !c.toolbar.Typing() {
		c.handleKeys()
	}

	// geometry mutation → mask update → paint, within one tick
	if c.maskDirty {
		c.masks.Update()
		c.maskDirty = false
	}
	c.grid.Update(c.vp.Bounds(), c.cam.Scale())

	c.prevLeft = left
	c.frame++
	return nil
}

// updateNodes routes the pointer to nodes top-most first. An in-progress
// drag/resize owns the pointer outright.
func (c *Canvas) updateNodes(mx, my int, left bool) bool {
	ordered := c.layout.Ordered()
	for i := len(ordered) - 1; i >= 0; i-- {
		if ordered[i].Interacting() {
			ordered[i].HandlePointer(mx, my, left)
			return true
		}
	}
	// a press edge on a mask region that isn't background belongs to the
	// top-most node covering it
	if left && !c.prevLeft {
		for i := len(ordered) - 1; i >= 0; i-- {
			n := ordered[i]
			if n.HandlePress(mx, my) {
				c.layout.Focus(n.Path)
				return true
			}
		}
	}
	return false
}

// updateCameraInput pans and zooms when the pointer is over bare background,
// as decided by the masked hit area.
func (c *Canvas) updateCameraInput(mx, my int, left bool) {
	if _, wy := wheel(); wy != 0 && c.hit.Hit(mx, my) {
		c.cam.ZoomAt(wy, float64(mx), float64(my))
		c.maskDirty = true // provider screen bounds move with the camera
	}

	if left {
		if !c.prevLeft {
			c.panning = c.hit.Hit(mx, my)
		} else if c.panning && (mx != c.lastMX || my != c.lastMY) {
			c.cam.Pan(float64(mx-c.lastMX), float64(my-c.lastMY))
			c.maskDirty = true
		}
	} else {
		c.panning = false
	}
	c.lastMX, c.lastMY = mx, my
}

// keyEdge reports a fresh press of k this tick.
func (c *Canvas) keyEdge(k ebiten.Key) bool {
	down := isKeyPressed(k)
	edge := down && !c.prevKeys[k]
	c.prevKeys[k] = down
	return edge
}

func (c *Canvas) handleKeys() {
	ctrl := isKeyPressed(ebiten.KeyControlLeft) || isKeyPressed(ebiten.KeyControlRight)
	sEdge := c.keyEdge(ebiten.KeyS)
	wEdge := c.keyEdge(ebiten.KeyW)
	spaceEdge := c.keyEdge(ebiten.KeySpace)
	hEdge := c.keyEdge(ebiten.KeyH)
	bEdge := c.keyEdge(ebiten.KeyB)
	if !ctrl {
		return
	}
	switch {
	case sEdge:
		c.SaveFocused()
	case wEdge:
		c.CloseFocused()
	case spaceEdge:
		c.RequestCompletions()
	case hEdge:
		c.RequestHover()
	case bEdge:
		c.GoToDefinition()
	}
}

/* ─────────────────── language intelligence ─────────────────── */

// pointerTextPos maps the pointer to a text position inside the focused
// node, good enough for line-granular queries.
func (c *Canvas) pointerTextPos(n *EditorNode) lang.Position {
	mx, my := cursorPosition()
	wx, wy := c.cam.WorldPos(float64(mx), float64(my))
	line := int((wy - n.Y - nodeTitleHeight) / layoutLineHeight)
	if line < 0 {
		line = 0
	}
	ch := int((wx - n.X) / 8)
	if ch < 0 {
		ch = 0
	}
	return lang.Position{Line: line, Character: ch}
}

// RequestCompletions asks the host for completions under the pointer and
// opens the surface popup with the labels. Best-effort: failures only log.
func (c *Canvas) RequestCompletions() {
	n := c.layout.FocusedNode()
	if n == nil || c.bridge == nil {
		return
	}
	path := n.Path
	pos := c.pointerTextPos(n)
	go func() {
		items, err := c.bridge.Completion(context.Background(), path, pos)
		c.post(func() {
			if err != nil {
				c.logger.Debugf("[CANVAS] completion %s: %v", path, err)
				return
			}
			node := c.layout.Node(path)
			if node == nil || len(items) == 0 {
				return
			}
			labels := make([]string, len(items))
			for i, it := range items {
				labels[i] = it.Label
			}
			if cs, ok := node.Surface.(editor.CompletionSurface); ok {
				at := image.Pt(8, nodeTitleHeight+(pos.Line+1)*int(layoutLineHeight))
				cs.ShowCompletions(at, labels)
				c.maskDirty = true // popup is a new mask rect
			}
		})
	}()
}

// RequestHover shows hover text for the symbol under the pointer in the
// status line. Best-effort: failures only log.
func (c *Canvas) RequestHover() {
	n := c.layout.FocusedNode()
	if n == nil || c.bridge == nil {
		return
	}
	path := n.Path
	pos := c.pointerTextPos(n)
	go func() {
		h, err := c.bridge.Hover(context.Background(), path, pos)
		c.post(func() {
			if err != nil {
				c.logger.Debugf("[CANVAS] hover %s: %v", path, err)
				return
			}
			if h != nil && h.Contents != "" {
				c.alert(h.Contents)
			}
		})
	}()
}

// GoToDefinition jumps to the definition of the symbol under the pointer,
// opening its file as a node when needed and revealing the target range.
func (c *Canvas) GoToDefinition() {
	n := c.layout.FocusedNode()
	if n == nil || c.bridge == nil {
		return
	}
	path := n.Path
	pos := c.pointerTextPos(n)
	go func() {
		locs, err := c.bridge.Definition(context.Background(), path, pos)
		c.post(func() {
			if err != nil {
				c.logger.Debugf("[CANVAS] definition %s: %v", path, err)
				return
			}
			if len(locs) == 0 {
				return
			}
			loc := locs[0]
			if target := c.layout.Node(loc.File); target != nil {
				c.layout.Focus(loc.File)
				target.Surface.Reveal(loc.Range.Start.Line, loc.Range.End.Line)
				c.maskDirty = true
				return
			}
			c.OpenFile(loc.File)
		})
	}()
}

func (c *Canvas) Draw(screen *ebiten.Image) {
	screen.Fill(colBG)
	c.grid.Draw(screen, c.cam, c.winW, c.winH)

	pad := c.cfg.Node.Spacing
	for _, n := range c.layout.Ordered() {
		if !c.vp.IsVisible(n.X, n.Y, n.W, n.H, pad) {
			continue
		}
		n.Draw(screen)
	}

	c.toolbar.Draw(screen, c.cam.Scale())

	if c.status != "" && c.frame < c.statusUntil {
		ebitenutil.DebugPrintAt(screen, c.status, toolbarMargin, c.winH-debugCharH-4)
	}
}

/* ─────────────────────── host plumbing ─────────────────────── */

// drainInbox runs results posted by background host round trips on the UI
// thread.
func (c *Canvas) drainInbox() {
	for {
		select {
		case fn := <-c.inbox:
			fn()
		default:
			return
		}
	}
}

func (c *Canvas) post(fn func()) {
	select {
	case c.inbox <- fn:
	default:
		c.logger.Warnf("[CANVAS] inbox full, dropping host result")
	}
}

func (c *Canvas) drainHostEvents() {
	if c.events == nil {
		return
	}
	for {
		select {
		case ev, ok := <-c.events:
			if !ok {
				c.events = nil
				return
			}
			c.handleHostEvent(ev)
		default:
			return
		}
	}
}

func (c *Canvas) handleHostEvent(ev host.Event) {
	switch ev.Command {
	case "diagnostics":
		var p host.DiagnosticsEvent
		if err := json.Unmarshal(ev.Payload, &p); err != nil {
			c.logger.Warnf("[CANVAS] bad diagnostics event: %v", err)
			return
		}
		if n := c.layout.Node(p.File); n != nil {
			n.Surface.SetDiagnostics(toEditorDiagnostics(p.Diagnostics))
		}
	case "breakpoints":
		var p host.BreakpointsEvent
		if err := json.Unmarshal(ev.Payload, &p); err != nil {
			c.logger.Warnf("[CANVAS] bad breakpoints event: %v", err)
			return
		}
		if n := c.layout.Node(p.File); n != nil {
			n.Surface.SetBreakpoints(p.Lines)
		}
	case "openFile":
		var p host.OpenRequestEvent
		if err := json.Unmarshal(ev.Payload, &p); err != nil {
			c.logger.Warnf("[CANVAS] bad openFile event: %v", err)
			return
		}
		c.OpenFile(p.Path)
	default:
		c.logger.Debugf("[CANVAS] ignoring host event %q", ev.Command)
	}
}

func toEditorDiagnostics(ds []host.Diagnostic) []editor.Diagnostic {
	out := make([]editor.Diagnostic, len(ds))
	for i, d := range ds {
		out[i] = editor.Diagnostic{Line: d.Line, EndLine: d.EndLine, Severity: d.Severity, Message: d.Message}
	}
	return out
}

/* ─────────────────────── node operations ─────────────────────── */

// OpenFile opens path as a canvas node. If a node for the path already
// exists it is refreshed and refocused instead; at most one node exists per
// file path.
func (c *Canvas) OpenFile(path string) {
	if path == "" {
		return
	}
	if n := c.layout.Node(path); n != nil {
		c.layout.Focus(path)
		c.maskDirty = true
		go func() {
			info, err := c.files.Open(context.Background(), path)
			c.post(func() {
				if err != nil {
					c.logger.Errorf("[CANVAS] refresh %s: %v", path, err)
					return
				}
				n.Surface.SetContent(info.Content)
				n.Surface.SetDiagnostics(toEditorDiagnostics(info.Diagnostics))
				n.Dirty = false
			})
		}()
		return
	}

	go func() {
		info, err := c.files.Open(context.Background(), path)
		c.post(func() {
			if err != nil {
				c.alert(fmt.Sprintf("open failed: %v", err))
				c.logger.Errorf("[CANVAS] open %s: %v", path, err)
				return
			}
			c.addNode(info)
		})
	}()
}

// addNode creates, places and registers a node. Runs on the UI thread.
func (c *Canvas) addNode(info host.FileInfo) {
	surface := editor.NewTextSurface(lang.Detect(info.Path), info.Content)
	surface.SetDiagnostics(toEditorDiagnostics(info.Diagnostics))

	n := NewEditorNode(info.Path, surface, c.cam, NodeOptions{
		MinWidth:     c.cfg.Node.MinWidth,
		MinHeight:    c.cfg.Node.MinHeight,
		TitleHeight:  nodeTitleHeight,
		ResizeBorder: c.cfg.Node.ResizeBorder,
		ResizeMargin: c.cfg.Node.ResizeMargin,
	})
	n.W, n.H = c.layout.SizeForContent(info.Content)
	cx, cy := c.vp.Center()
	n.X, n.Y = c.layout.PositionForNewNode(n.W, n.H, cx, cy)

	n.SetCallbacks(
		func() { c.maskDirty = true },
		func(raised *EditorNode) { c.layout.Focus(raised.Path) },
	)

	c.layout.Register(n)
	c.masks.RegisterProvider(n)
	c.masks.Update()
	c.logger.Infof("[CANVAS] opened %s at (%.0f,%.0f) %gx%g", info.Path, n.X, n.Y, n.W, n.H)
}

// CloseNode destroys the node for path: it unregisters from the mask
// registry, releases its surface and tells the host.
func (c *Canvas) CloseNode(path string) {
	n := c.layout.Node(path)
	if n == nil {
		return
	}
	c.masks.UnregisterProvider(n)
	c.layout.Unregister(path)
	n.Surface.Dispose()
	c.files.NotifyClosed(path)
	c.masks.Update()
	c.logger.Infof("[CANVAS] closed %s", path)
}

// NoteContentChanged marks the node dirty and forwards the new content to
// the host, debounced so a burst of edits becomes one notification.
func (c *Canvas) NoteContentChanged(path string) {
	n := c.layout.Node(path)
	if n == nil {
		return
	}
	n.Dirty = true
	c.files.NotifyChanged(path, n.Surface.Content())
}

// CloseFocused closes the focused node.
func (c *Canvas) CloseFocused() {
	if p := c.layout.FocusedPath(); p != "" {
		c.CloseNode(p)
	}
}

// SaveFocused writes the focused node's content through the host. Failure is
// user-visible; success clears the dirty flag.
func (c *Canvas) SaveFocused() {
	n := c.layout.FocusedNode()
	if n == nil {
		return
	}
	path, content := n.Path, n.Surface.Content()
	go func() {
		err := c.files.Save(context.Background(), path, content)
		c.post(func() {
			if err != nil {
				c.alert(fmt.Sprintf("save failed: %v", err))
				c.logger.Errorf("[CANVAS] save %s: %v", path, err)
				return
			}
			if node := c.layout.Node(path); node != nil {
				node.Dirty = false
			}
			c.alert("saved " + path)
		})
	}()
}

// CopyFocused puts the focused node's content on the system clipboard.
func (c *Canvas) CopyFocused() {
	n := c.layout.FocusedNode()
	if n == nil {
		return
	}
	if err := clipboard.WriteAll(n.Surface.Content()); err != nil {
		c.logger.Warnf("[CANVAS] clipboard: %v", err)
		return
	}
	c.alert("copied " + n.Title())
}

// ExportPNG renders the current view to a timestamped PNG in the working
// directory.
func (c *Canvas) ExportPNG() {
	nodes := make([]snapshot.Node, 0, c.layout.Count())
	for _, n := range c.layout.Ordered() {
		nodes = append(nodes, snapshot.Node{
			X: n.X, Y: n.Y, W: n.W, H: n.H,
			Title:   n.Title(),
			Focused: n.Focused,
		})
	}
	v := snapshot.View{
		OffsetX: c.cam.OffsetX, OffsetY: c.cam.OffsetY, Scale: c.cam.Scale(),
		Width: c.winW, Height: c.winH,
		GridStep: c.cfg.Canvas.GridStep, MajorEvery: c.cfg.Canvas.MajorEvery,
	}
	name := fmt.Sprintf("codefield-%s.png", time.Now().Format("20060102-150405"))
	if err := snapshot.WritePNG(name, v, nodes); err != nil {
		c.alert(fmt.Sprintf("export failed: %v", err))
		c.logger.Errorf("[CANVAS] export: %v", err)
		return
	}
	c.alert("exported " + name)
}

func (c *Canvas) alert(msg string) {
	c.status = msg
	c.statusUntil = c.frame + 240 // ~4s at 60 TPS
}

/* ─────────────────────── detached backend ─────────────────────── */

// LocalFiles is the no-host fallback: files come straight from disk and
// change/close notifications go nowhere.
type LocalFiles struct{}

func (LocalFiles) Open(_ context.Context, path string) (host.FileInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return host.FileInfo{}, err
	}
	return host.FileInfo{Path: path, Content: string(data), Identity: path}, nil
}

func (LocalFiles) Save(_ context.Context, path, content string) error {
	return os.WriteFile(path, []byte(content), 0o644)
}

func (LocalFiles) NotifyChanged(string, string) {}
func (LocalFiles) NotifyClosed(string)          {}
