package host

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	game_log "github.com/codefield-dev/codefield/internal/log"
)

// fakeWire is an in-memory Wire: tests inject host messages with push and
// inspect what the client wrote with sent.
type fakeWire struct {
	in   chan []byte
	out  chan []byte
	once sync.Once
	done chan struct{}
}

func newFakeWire() *fakeWire {
	return &fakeWire{
		in:   make(chan []byte, 16),
		out:  make(chan []byte, 16),
		done: make(chan struct{}),
	}
}

func (w *fakeWire) ReadMessage() ([]byte, error) {
	select {
	case data := <-w.in:
		return data, nil
	case <-w.done:
		return nil, io.EOF
	}
}

func (w *fakeWire) WriteMessage(data []byte) error {
	select {
	case <-w.done:
		return io.EOF
	default:
	}
	select {
	case w.out <- data:
		return nil
	case <-w.done:
		return io.EOF
	}
}

func (w *fakeWire) Close() error {
	w.once.Do(func() { close(w.done) })
	return nil
}

func (w *fakeWire) push(t *testing.T, v map[string]any) {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	select {
	case w.in <- data:
	case <-time.After(time.Second):
		t.Fatalf("wire input stalled")
	}
}

func (w *fakeWire) sent(t *testing.T) map[string]any {
	t.Helper()
	select {
	case data := <-w.out:
		var m map[string]any
		if err := json.Unmarshal(data, &m); err != nil {
			t.Fatalf("unmarshal sent message: %v", err)
		}
		return m
	case <-time.After(time.Second):
		t.Fatalf("client wrote nothing")
		return nil
	}
}

func testLogger() *game_log.Logger {
	return game_log.New(io.Discard, game_log.LevelNone)
}

func TestClientRequestResponse(t *testing.T) {
	wire := newFakeWire()
	c := NewClient(wire, testLogger())
	defer c.Close()

	// respond from a fake host as soon as the request shows up on the wire
	go func() {
		msg := wire.sent(t)
		id := int64(msg["requestId"].(float64))
		body, _ := json.Marshal(map[string]string{"content": "hello"})
		wire.push(t, map[string]any{
			"command":   "response",
			"requestId": id,
			"body":      json.RawMessage(body),
		})
	}()

	body, err := c.Request(context.Background(), "openFile", map[string]string{"path": "/a.go"})
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	var got map[string]string
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	if got["content"] != "hello" {
		t.Fatalf("content=%q want hello", got["content"])
	}
}

func TestClientRequestFlattensPayload(t *testing.T) {
	wire := newFakeWire()
	c := NewClient(wire, testLogger())
	defer c.Close()

	go func() {
		_, _ = c.Request(context.Background(), "saveFile", map[string]string{
			"path":    "/a.go",
			"content": "x",
		})
	}()

	msg := wire.sent(t)
	if msg["command"] != "saveFile" {
		t.Fatalf("command=%v want saveFile", msg["command"])
	}
	// payload fields sit at the top level next to command and requestId
	if msg["path"] != "/a.go" || msg["content"] != "x" {
		t.Fatalf("payload not flattened: %v", msg)
	}
	if _, ok := msg["requestId"]; !ok {
		t.Fatalf("request must carry a requestId")
	}
}

func TestClientErrorEnvelope(t *testing.T) {
	wire := newFakeWire()
	c := NewClient(wire, testLogger())
	defer c.Close()

	go func() {
		msg := wire.sent(t)
		id := int64(msg["requestId"].(float64))
		wire.push(t, map[string]any{
			"command":   "error",
			"requestId": id,
			"message":   "file not found",
		})
	}()

	_, err := c.Request(context.Background(), "openFile", map[string]string{"path": "/nope"})
	if err == nil {
		t.Fatalf("error envelope must fail the request")
	}
	if want := "host error: file not found"; err.Error() != want {
		t.Fatalf("err=%q want %q", err, want)
	}
}

func TestClientUnknownRequestIDDropped(t *testing.T) {
	wire := newFakeWire()
	c := NewClient(wire, testLogger())
	defer c.Close()

	// a stale response must not wedge the read loop
	wire.push(t, map[string]any{"command": "response", "requestId": 9999, "body": json.RawMessage(`{}`)})

	go func() {
		msg := wire.sent(t)
		id := int64(msg["requestId"].(float64))
		wire.push(t, map[string]any{"command": "response", "requestId": id, "body": json.RawMessage(`{"ok":true}`)})
	}()

	if _, err := c.Request(context.Background(), "ping", nil); err != nil {
		t.Fatalf("request after a stale response: %v", err)
	}
}

func TestClientSendOmitsRequestID(t *testing.T) {
	wire := newFakeWire()
	c := NewClient(wire, testLogger())
	defer c.Close()

	if err := c.Send("closeFile", map[string]string{"path": "/a.go"}); err != nil {
		t.Fatalf("Send: %v", err)
	}
	msg := wire.sent(t)
	if _, ok := msg["requestId"]; ok {
		t.Fatalf("fire-and-forget message must omit requestId: %v", msg)
	}
	if msg["command"] != "closeFile" || msg["path"] != "/a.go" {
		t.Fatalf("unexpected message: %v", msg)
	}
}

func TestClientEventsDelivered(t *testing.T) {
	wire := newFakeWire()
	c := NewClient(wire, testLogger())
	defer c.Close()

	wire.push(t, map[string]any{"command": "diagnostics", "file": "/a.go"})

	select {
	case ev := <-c.Events():
		if ev.Command != "diagnostics" {
			t.Fatalf("Command=%q want diagnostics", ev.Command)
		}
		var p DiagnosticsEvent
		if err := json.Unmarshal(ev.Payload, &p); err != nil {
			t.Fatalf("unmarshal event payload: %v", err)
		}
		if p.File != "/a.go" {
			t.Fatalf("File=%q want /a.go", p.File)
		}
	case <-time.After(time.Second):
		t.Fatalf("event not delivered")
	}
}

// serialWire answers every request immediately and records whether two
// writers ever entered WriteMessage at the same time.
type serialWire struct {
	*fakeWire
	inWrite atomic.Int32
	overlap atomic.Bool
}

func newSerialWire() *serialWire {
	return &serialWire{fakeWire: newFakeWire()}
}

func (w *serialWire) WriteMessage(data []byte) error {
	if w.inWrite.Add(1) > 1 {
		w.overlap.Store(true)
	}
	time.Sleep(200 * time.Microsecond) // widen the window
	w.inWrite.Add(-1)

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}
	reply, _ := json.Marshal(map[string]any{
		"command":   "response",
		"requestId": env.RequestID,
		"body":      json.RawMessage(`{}`),
	})
	w.in <- reply
	return nil
}

func TestClientSerializesWireWrites(t *testing.T) {
	wire := newSerialWire()
	c := NewClient(wire, testLogger())
	defer c.Close()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := c.Request(context.Background(), "openFile",
				map[string]string{"path": fmt.Sprintf("/f%d.go", i)}); err != nil {
				t.Errorf("Request %d: %v", i, err)
			}
		}(i)
	}
	wg.Wait()

	if wire.overlap.Load() {
		t.Fatalf("two goroutines wrote to the wire at once")
	}
}

func TestClientRequestContextCancel(t *testing.T) {
	wire := newFakeWire()
	c := NewClient(wire, testLogger())
	defer c.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		wire.sent(t) // swallow the request, never answer
		cancel()
	}()

	_, err := c.Request(ctx, "openFile", map[string]string{"path": "/a.go"})
	if err != context.Canceled {
		t.Fatalf("err=%v want context.Canceled", err)
	}
}

func TestClientWireCloseFailsPending(t *testing.T) {
	wire := newFakeWire()
	c := NewClient(wire, testLogger())

	errc := make(chan error, 1)
	go func() {
		_, err := c.Request(context.Background(), "openFile", map[string]string{"path": "/a.go"})
		errc <- err
	}()
	wire.sent(t) // request is pending now
	wire.Close() // read loop sees EOF and tears down

	select {
	case err := <-errc:
		if err == nil {
			t.Fatalf("pending request must fail when the wire dies")
		}
	case <-time.After(time.Second):
		t.Fatalf("pending request did not fail")
	}

	// events channel closes with the read loop
	select {
	case _, ok := <-c.Events():
		if ok {
			t.Fatalf("events channel must close, not deliver")
		}
	case <-time.After(time.Second):
		t.Fatalf("events channel did not close")
	}

	if err := c.Send("closeFile", nil); err == nil {
		t.Fatalf("Send on a dead wire must fail")
	}
}
