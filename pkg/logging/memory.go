package logging

import (
	"context"
	"log/slog"
	"sync"
)

// Entry is a record captured by MemoryHandler.
type Entry struct {
	Level   Level
	Message string
	Attrs   map[string]any
}

// MemoryHandler keeps every record in memory.
type MemoryHandler struct {
	level Level
	attrs []slog.Attr
	sink  *memorySink
}

type memorySink struct {
	mu      sync.Mutex
	entries []Entry
}

// NewMemoryHandler creates a handler recording records at or above level.
func NewMemoryHandler(level Level) *MemoryHandler {
	return &MemoryHandler{level: level, sink: &memorySink{}}
}

// NewMemory returns a logger backed by a new MemoryHandler at debug level.
func NewMemory() (*slog.Logger, *MemoryHandler) {
	h := NewMemoryHandler(LevelDebug)
	return slog.New(h), h
}

func (h *MemoryHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *MemoryHandler) Handle(_ context.Context, r slog.Record) error {
	e := Entry{Level: r.Level, Message: r.Message, Attrs: make(map[string]any)}
	for _, a := range h.attrs {
		e.Attrs[a.Key] = a.Value.Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		e.Attrs[a.Key] = a.Value.Any()
		return true
	})

	h.sink.mu.Lock()
	h.sink.entries = append(h.sink.entries, e)
	h.sink.mu.Unlock()
	return nil
}

func (h *MemoryHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &MemoryHandler{level: h.level, attrs: merged, sink: h.sink}
}

// WithGroup is not supported; groups are flattened.
func (h *MemoryHandler) WithGroup(string) slog.Handler {
	return h
}

// Entries returns a copy of the captured records.
func (h *MemoryHandler) Entries() []Entry {
	h.sink.mu.Lock()
	defer h.sink.mu.Unlock()
	out := make([]Entry, len(h.sink.entries))
	copy(out, h.sink.entries)
	return out
}

// Messages returns the message of every captured record.
func (h *MemoryHandler) Messages() []string {
	entries := h.Entries()
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Message
	}
	return out
}

// Reset discards captured records.
func (h *MemoryHandler) Reset() {
	h.sink.mu.Lock()
	h.sink.entries = nil
	h.sink.mu.Unlock()
}
