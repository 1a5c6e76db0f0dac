package host

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// Diagnostic is the host's wire shape for a reported problem.
type Diagnostic struct {
	Line     int    `json:"line"`
	EndLine  int    `json:"endLine"`
	Severity int    `json:"severity"`
	Message  string `json:"message"`
}

// FileInfo is what opening a file yields.
type FileInfo struct {
	Path        string       `json:"path"`
	Content     string       `json:"content"`
	Identity    string       `json:"identity"` // opaque host-side document id
	Diagnostics []Diagnostic `json:"diagnostics"`
}

// DiagnosticsEvent is the payload of a host "diagnostics" push.
type DiagnosticsEvent struct {
	File        string       `json:"file"`
	Diagnostics []Diagnostic `json:"diagnostics"`
}

// BreakpointsEvent is the payload of a host "breakpoints" push.
type BreakpointsEvent struct {
	File  string `json:"file"`
	Lines []int  `json:"lines"`
}

// OpenRequestEvent is the payload of a host-initiated "openFile" push.
type OpenRequestEvent struct {
	Path string `json:"path"`
}

// FileService exposes the host's file operations over the envelope client.
type FileService struct {
	client   *Client
	debounce *Debouncer
}

func NewFileService(client *Client, debounce time.Duration) *FileService {
	return &FileService{client: client, debounce: NewDebouncer(debounce)}
}

// Open asks the host for the file's content, identity and current
// diagnostics.
func (s *FileService) Open(ctx context.Context, path string) (FileInfo, error) {
	body, err := s.client.Request(ctx, "openFile", map[string]string{"path": path})
	if err != nil {
		return FileInfo{}, err
	}
	var info FileInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return FileInfo{}, err
	}
	return info, nil
}

// Save writes content back through the host. The error matters: failed saves
// are user-initiated and surface as visible alerts.
func (s *FileService) Save(ctx context.Context, path, content string) error {
	_, err := s.client.Request(ctx, "saveFile", map[string]string{
		"path":    path,
		"content": content,
	})
	return err
}

// NotifyChanged reports edited content, debounced per path so a typing burst
// becomes one message.
func (s *FileService) NotifyChanged(path, content string) {
	s.debounce.Trigger(path, func() {
		// best-effort: a lost change notification degrades nothing the
		// next save won't fix
		_ = s.client.Send("contentChanged", map[string]string{
			"path":    path,
			"content": content,
		})
	})
}

// NotifyClosed tells the host the node for path is gone.
func (s *FileService) NotifyClosed(path string) {
	s.debounce.Cancel(path)
	_ = s.client.Send("closeFile", map[string]string{"path": path})
}

// Debouncer coalesces rapid triggers per key into one callback after the
// quiet period.
type Debouncer struct {
	d      time.Duration
	mu     sync.Mutex
	timers map[string]*time.Timer
}

func NewDebouncer(d time.Duration) *Debouncer {
	return &Debouncer{d: d, timers: make(map[string]*time.Timer)}
}

// Trigger schedules fn after the quiet period, resetting any pending timer
// for the same key.
func (b *Debouncer) Trigger(key string, fn func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if t, ok := b.timers[key]; ok {
		t.Stop()
	}
	b.timers[key] = time.AfterFunc(b.d, func() {
		b.mu.Lock()
		delete(b.timers, key)
		b.mu.Unlock()
		fn()
	})
}

// Cancel drops any pending trigger for key.
func (b *Debouncer) Cancel(key string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if t, ok := b.timers[key]; ok {
		t.Stop()
		delete(b.timers, key)
	}
}
