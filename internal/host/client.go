// Package host mediates between the canvas and the external editor host:
// file I/O, diagnostics, breakpoints and language-intelligence queries all
// travel through one JSON envelope transport.
package host

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"

	game_log "github.com/codefield-dev/codefield/internal/log"
)

// Envelope commands reserved by the transport itself.
const (
	cmdResponse = "response"
	cmdError    = "error"
)

// Event is a host-initiated message (diagnostics push, breakpoint change,
// open-file request). Payload stays raw; typed decoding happens at the
// consumer.
type Event struct {
	Command string
	Payload json.RawMessage
}

type pendingResult struct {
	body json.RawMessage
	err  error
}

// envelope is the wire shape: {command, requestId?, ...payload}. Responses
// carry {command:"response", requestId, body}; errors carry
// {command:"error", requestId, message}. Fire-and-send messages omit
// requestId.
type envelope struct {
	Command   string          `json:"command"`
	RequestID int64           `json:"requestId,omitempty"`
	Body      json.RawMessage `json:"body,omitempty"`
	Message   string          `json:"message,omitempty"`
}

// Client is the request/response shuttle over a Wire. Requests are keyed by
// a monotonically increasing id; a response or error for an unknown or
// already-resolved id is silently dropped (expected during rapid node
// close/reopen, not a fault). There is no timeout or retry: a request that
// never gets a response pends until its context is cancelled.
type Client struct {
	wire   Wire
	logger *game_log.Logger

	// the websocket allows one concurrent writer; requests come from
	// independent goroutines
	writeMu sync.Mutex

	mu      sync.Mutex
	nextID  atomic.Int64
	pending map[int64]chan pendingResult
	events  chan Event
	closed  atomic.Bool
}

// NewClient wraps an established wire and starts the read loop.
func NewClient(wire Wire, logger *game_log.Logger) *Client {
	c := &Client{
		wire:    wire,
		logger:  logger,
		pending: make(map[int64]chan pendingResult),
		events:  make(chan Event, 64),
	}
	go c.readLoop()
	return c
}

// Events exposes host-initiated messages. The canvas drains this on the UI
// tick so all state mutation stays on one thread.
func (c *Client) Events() <-chan Event { return c.events }

// Send emits a fire-and-forget message: no requestId, no reply expected.
func (c *Client) Send(command string, payload any) error {
	return c.write(command, 0, payload)
}

// Request sends command with a fresh requestId and blocks until the matching
// response, an error envelope, or ctx cancellation.
func (c *Client) Request(ctx context.Context, command string, payload any) (json.RawMessage, error) {
	id := c.nextID.Add(1)
	ch := make(chan pendingResult, 1)

	c.mu.Lock()
	c.pending[id] = ch
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
	}()

	if err := c.write(command, id, payload); err != nil {
		return nil, err
	}

	select {
	case res, ok := <-ch:
		if !ok {
			return nil, fmt.Errorf("host connection closed")
		}
		return res.body, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// write flattens payload fields into the envelope object, per the
// {command, requestId?, ...payload} wire contract.
func (c *Client) write(command string, id int64, payload any) error {
	if c.closed.Load() {
		return fmt.Errorf("host client is closed")
	}
	fields := map[string]any{}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		if err := json.Unmarshal(raw, &fields); err != nil {
			return fmt.Errorf("payload must encode to an object: %w", err)
		}
	}
	fields["command"] = command
	if id != 0 {
		fields["requestId"] = id
	}
	data, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.wire.WriteMessage(data)
}

func (c *Client) readLoop() {
	defer c.cleanup()
	for {
		data, err := c.wire.ReadMessage()
		if err != nil {
			return
		}
		var env envelope
		if err := json.Unmarshal(data, &env); err != nil {
			c.logger.Warnf("[HOST] dropping undecodable message: %v", err)
			continue
		}
		switch env.Command {
		case cmdResponse:
			c.resolve(env.RequestID, pendingResult{body: env.Body})
		case cmdError:
			c.resolve(env.RequestID, pendingResult{err: fmt.Errorf("host error: %s", env.Message)})
		default:
			select {
			case c.events <- Event{Command: env.Command, Payload: data}:
			default:
				c.logger.Warnf("[HOST] event queue full, dropping %q", env.Command)
			}
		}
	}
}

func (c *Client) resolve(id int64, res pendingResult) {
	c.mu.Lock()
	ch, ok := c.pending[id]
	if ok {
		delete(c.pending, id)
	}
	c.mu.Unlock()
	if !ok {
		// stale response after its owner was torn down
		c.logger.Debugf("[HOST] dropping response for unknown request %d", id)
		return
	}
	ch <- res
	close(ch)
}

func (c *Client) cleanup() {
	c.mu.Lock()
	for id, ch := range c.pending {
		close(ch)
		delete(c.pending, id)
	}
	c.mu.Unlock()
	close(c.events)
}

// Close tears the wire down; pending requests fail with "connection closed".
func (c *Client) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	return c.wire.Close()
}
