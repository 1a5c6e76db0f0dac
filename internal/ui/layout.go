package ui

import (
	"math"
	"strings"
)

// size-curve constants; tuned so huge files stop growing long before they
// dwarf the canvas
const (
	layoutLineHeight  = 18.0
	layoutHeaderPad   = 40.0
	longLineThreshold = 80 // chars; width grows logarithmically past this

	maxPlacementAttempts = 8
)

// LayoutConfig bounds auto-sized nodes and spaces auto-placed ones.
type LayoutConfig struct {
	MinWidth  float64
	MaxWidth  float64
	BaseWidth float64
	MinHeight float64
	MaxHeight float64
	Spacing   float64
}

// NodeLayoutManager is the shared layout service: one registry of open nodes
// keyed by file path, one focus pointer, and one monotonically increasing
// depth counter, regardless of node creation order. It is an owned object
// passed by reference to whoever needs it, so tests can build a fresh one;
// its state resets only on full canvas teardown.
type NodeLayoutManager struct {
	cfg     LayoutConfig
	nodes   map[string]*EditorNode
	order   []string // insertion order, for deterministic iteration
	focused string
	zTop    int
}

func NewNodeLayoutManager(cfg LayoutConfig) *NodeLayoutManager {
	return &NodeLayoutManager{cfg: cfg, nodes: make(map[string]*EditorNode)}
}

// Register tracks a newly opened node and focuses it.
func (m *NodeLayoutManager) Register(n *EditorNode) {
	if _, ok := m.nodes[n.Path]; !ok {
		m.order = append(m.order, n.Path)
	}
	m.nodes[n.Path] = n
	m.Focus(n.Path)
}

// Unregister forgets a node. If it held focus, focus transfers to the
// top-most remaining node, or clears when none are left.
func (m *NodeLayoutManager) Unregister(path string) {
	if _, ok := m.nodes[path]; !ok {
		return
	}
	delete(m.nodes, path)
	for i, p := range m.order {
		if p == path {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	if m.focused != path {
		return
	}
	m.focused = ""
	var top *EditorNode
	for _, p := range m.order {
		n := m.nodes[p]
		if top == nil || n.Z > top.Z {
			top = n
		}
	}
	if top != nil {
		m.Focus(top.Path)
	}
}

// Node returns the open node for path, or nil.
func (m *NodeLayoutManager) Node(path string) *EditorNode { return m.nodes[path] }

// Count returns the number of tracked nodes.
func (m *NodeLayoutManager) Count() int { return len(m.nodes) }

// FocusedPath returns the currently focused path, or "".
func (m *NodeLayoutManager) FocusedPath() string { return m.focused }

// FocusedNode returns the focused node, or nil.
func (m *NodeLayoutManager) FocusedNode() *EditorNode {
	if m.focused == "" {
		return nil
	}
	return m.nodes[m.focused]
}

// Focus moves the focus pointer and brings the node to the front.
func (m *NodeLayoutManager) Focus(path string) {
	n, ok := m.nodes[path]
	if !ok {
		return
	}
	if prev := m.FocusedNode(); prev != nil && prev != n {
		prev.Focused = false
	}
	m.focused = path
	n.Focused = true
	m.BringToFront(n)
}

// BringToFront reassigns a strictly increasing depth value, so the most
// recently raised node always renders above older ones.
func (m *NodeLayoutManager) BringToFront(n *EditorNode) {
	m.zTop++
	n.Z = m.zTop
}

// Ordered returns the tracked nodes sorted back-to-front by depth.
func (m *NodeLayoutManager) Ordered() []*EditorNode {
	out := make([]*EditorNode, 0, len(m.order))
	for _, p := range m.order {
		out = append(out, m.nodes[p])
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1].Z > out[j].Z; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}

// SizeForContent derives a node size from the file content. Height grows
// linearly for the first 20 lines, at half rate to 100, at a quarter rate to
// 500 and logarithmically beyond, so huge files stay bounded while small
// ones still differ. Width stays at the base width until the longest line
// passes the threshold, then grows logarithmically. Both axes clamp to the
// configured bounds.
func (m *NodeLayoutManager) SizeForContent(content string) (w, h float64) {
	lines := strings.Split(content, "\n")
	count := float64(len(lines))
	longest := 0
	for _, ln := range lines {
		if len(ln) > longest {
			longest = len(ln)
		}
	}

	h = layoutHeaderPad + layoutLineHeight*math.Min(count, 20)
	if count > 20 {
		h += 0.5 * layoutLineHeight * math.Min(count-20, 80)
	}
	if count > 100 {
		h += 0.25 * layoutLineHeight * math.Min(count-100, 400)
	}
	if count > 500 {
		h += 60 * math.Log2(1+(count-500)/500)
	}
	h = clamp(h, m.cfg.MinHeight, m.cfg.MaxHeight)

	w = m.cfg.BaseWidth
	if longest > longLineThreshold {
		w += 160 * math.Log2(1+float64(longest-longLineThreshold)/float64(longLineThreshold))
	}
	w = clamp(w, m.cfg.MinWidth, m.cfg.MaxWidth)
	return w, h
}

// PositionForNewNode places a node of the given size. With a focused node it
// goes immediately to its right, vertically centered; overlaps with existing
// nodes shift the candidate rightward past the collider, a bounded number of
// times. Dense layouts can still overlap once attempts run out; the last
// candidate wins. Without a focused node the node centers on the viewport.
func (m *NodeLayoutManager) PositionForNewNode(w, h, viewCX, viewCY float64) (x, y float64) {
	f := m.FocusedNode()
	if f == nil {
		return viewCX - w/2, viewCY - h/2
	}

	spacing := m.cfg.Spacing
	cand := Rect{f.Right() + spacing, f.Y + f.H/2 - h/2, w, h}
	for attempt := 0; attempt < maxPlacementAttempts; attempt++ {
		hit := m.collision(cand)
		if hit == nil {
			break
		}
		cand.X = hit.Right() + spacing
	}
	return cand.X, cand.Y
}

// collision returns the first tracked node whose bounds, inflated by half the
// spacing margin, overlap r.
func (m *NodeLayoutManager) collision(r Rect) *EditorNode {
	for _, p := range m.order {
		n := m.nodes[p]
		if n.Bounds().Inflate(m.cfg.Spacing / 2).Intersects(r) {
			return n
		}
	}
	return nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
