package testsupport

import (
	"context"
	"path/filepath"
	"sync"

	"mediascribe/internal/transcribe"
)

// Call records one Transcribe invocation on a StubModel.
type Call struct {
	Path     string
	Language string
}

// StubModel is a deterministic transcribe.Model that records invocations.
// Results and failures are keyed by file base name.
type StubModel struct {
	mu       sync.Mutex
	calls    []Call
	closed   int
	Segments map[string][]transcribe.Segment
	Errors   map[string]error
	// Default is returned for files without an entry in Segments.
	Default []transcribe.Segment
}

// NewStubModel returns a stub that answers every file with segments.
func NewStubModel(segments ...transcribe.Segment) *StubModel {
	return &StubModel{
		Segments: make(map[string][]transcribe.Segment),
		Errors:   make(map[string]error),
		Default:  segments,
	}
}

func (m *StubModel) Transcribe(ctx context.Context, path, language string) ([]transcribe.Segment, error) {
	m.mu.Lock()
	m.calls = append(m.calls, Call{Path: path, Language: language})
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	base := filepath.Base(path)
	if err, ok := m.Errors[base]; ok {
		return nil, err
	}
	if segs, ok := m.Segments[base]; ok {
		return segs, nil
	}
	return m.Default, nil
}

func (m *StubModel) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed++
	return nil
}

// Calls returns a copy of the recorded invocations.
func (m *StubModel) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Call, len(m.calls))
	copy(out, m.calls)
	return out
}

// Closed reports how many times Close was called.
func (m *StubModel) Closed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}
