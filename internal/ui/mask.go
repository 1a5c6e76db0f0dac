package ui

import "image"

// MaskProvider is any visual entity that occupies opaque screen regions other
// systems must avoid drawing into or treating as pannable background. A
// provider may report more than one disjoint rectangle (an editor node plus a
// popup widget it currently has open).
type MaskProvider interface {
	MaskBounds() []image.Rectangle
}

// MaskConsumer is told the complete set of occluded screen regions whenever
// it may have changed. The delivered slice replaces all prior mask state.
type MaskConsumer interface {
	ApplyMasks([]image.Rectangle)
}

// MaskManager decouples providers of opaque regions from the consumers that
// must avoid them. Registries hold non-owning references in insertion order;
// providers register on creation and must unregister on destruction. There is
// no implicit scheduling: callers invoke Update after any event that can
// change provider geometry or consumer viewport, which bounds registry scans
// to one per meaningful change instead of one per frame per consumer.
type MaskManager struct {
	providers []MaskProvider
	consumers []MaskConsumer
}

func NewMaskManager() *MaskManager {
	return &MaskManager{}
}

// RegisterProvider adds p to the registry. Registering an already-registered
// provider is a no-op.
func (m *MaskManager) RegisterProvider(p MaskProvider) {
	for _, q := range m.providers {
		if q == p {
			return
		}
	}
	m.providers = append(m.providers, p)
}

// UnregisterProvider removes p. Unregistering an absent provider is a no-op.
func (m *MaskManager) UnregisterProvider(p MaskProvider) {
	for i, q := range m.providers {
		if q == p {
			m.providers = append(m.providers[:i], m.providers[i+1:]...)
			return
		}
	}
}

// RegisterConsumer adds c to the registry, idempotently.
func (m *MaskManager) RegisterConsumer(c MaskConsumer) {
	for _, q := range m.consumers {
		if q == c {
			return
		}
	}
	m.consumers = append(m.consumers, c)
}

// UnregisterConsumer removes c, tolerating absence.
func (m *MaskManager) UnregisterConsumer(c MaskConsumer) {
	for i, q := range m.consumers {
		if q == c {
			m.consumers = append(m.consumers[:i], m.consumers[i+1:]...)
			return
		}
	}
}

// ProviderCount returns the number of registered providers.
func (m *MaskManager) ProviderCount() int { return len(m.providers) }

// Update collects every provider's current global bounds, in registration
// order, and delivers the flattened list synchronously to every consumer.
func (m *MaskManager) Update() {
	var rects []image.Rectangle
	for _, p := range m.providers {
		rects = append(rects, p.MaskBounds()...)
	}
	for _, c := range m.consumers {
		c.ApplyMasks(rects)
	}
}
