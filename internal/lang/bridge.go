// Package lang shuttles language-intelligence queries to the editor host.
// The protocol itself is an opaque external collaborator: requests go out as
// {command, file, position|range} envelopes and structured results come back,
// or null when the host has nothing to say.
package lang

import (
	"context"
	"encoding/json"
)

// Requester is the transport slice the bridge needs (implemented by
// host.Client).
type Requester interface {
	Request(ctx context.Context, command string, payload any) (json.RawMessage, error)
}

// Bridge issues definition/hover/completion queries for canvas nodes.
type Bridge struct {
	req Requester
}

func NewBridge(req Requester) *Bridge {
	return &Bridge{req: req}
}

type positionQuery struct {
	File     string   `json:"file"`
	Position Position `json:"position"`
}

// Definition resolves the symbol at pos to zero or more locations.
func (b *Bridge) Definition(ctx context.Context, file string, pos Position) ([]Location, error) {
	body, err := b.req.Request(ctx, "definition", positionQuery{File: file, Position: pos})
	if err != nil {
		return nil, err
	}
	if isNull(body) {
		return nil, nil
	}
	var locs []Location
	if err := json.Unmarshal(body, &locs); err == nil {
		return locs, nil
	}
	var single Location
	if err := json.Unmarshal(body, &single); err != nil {
		return nil, err
	}
	return []Location{single}, nil
}

// Hover fetches hover text for pos; nil when the host has none.
func (b *Bridge) Hover(ctx context.Context, file string, pos Position) (*Hover, error) {
	body, err := b.req.Request(ctx, "hover", positionQuery{File: file, Position: pos})
	if err != nil {
		return nil, err
	}
	if isNull(body) {
		return nil, nil
	}
	var h Hover
	if err := json.Unmarshal(body, &h); err != nil {
		return nil, err
	}
	return &h, nil
}

// Completion lists suggestions at pos.
func (b *Bridge) Completion(ctx context.Context, file string, pos Position) ([]CompletionItem, error) {
	body, err := b.req.Request(ctx, "completion", positionQuery{File: file, Position: pos})
	if err != nil {
		return nil, err
	}
	if isNull(body) {
		return nil, nil
	}
	var items []CompletionItem
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}
