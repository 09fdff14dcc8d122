package testutils

import (
	"context"
	"log/slog"
	"strings"
	"sync"
)

// LogEntry is one captured record with its attributes flattened by key.
// Attributes inside groups are keyed as "group.key".
type LogEntry struct {
	Level   slog.Level
	Message string
	Attrs   map[string]any
}

// String returns the attribute value for key formatted as a string,
// or "" when absent.
func (e LogEntry) String(key string) string {
	v, ok := e.Attrs[key]
	if !ok {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return slog.AnyValue(v).String()
}

// LogRecorder is a memory-backed slog.Handler.
type LogRecorder struct {
	mu      *sync.Mutex
	entries *[]LogEntry
	attrs   []slog.Attr
	group   string
}

// NewLogRecorder creates an empty recorder.
func NewLogRecorder() *LogRecorder {
	return &LogRecorder{
		mu:      &sync.Mutex{},
		entries: &[]LogEntry{},
	}
}

// Logger returns a logger writing to r.
func (r *LogRecorder) Logger() *slog.Logger {
	return slog.New(r)
}

// Enabled reports true for every level.
func (r *LogRecorder) Enabled(context.Context, slog.Level) bool {
	return true
}

// Handle records rec together with any attributes added through WithAttrs.
func (r *LogRecorder) Handle(_ context.Context, rec slog.Record) error {
	entry := LogEntry{
		Level:   rec.Level,
		Message: rec.Message,
		Attrs:   make(map[string]any, len(r.attrs)+rec.NumAttrs()),
	}
	for _, a := range r.attrs {
		addAttr(entry.Attrs, "", a)
	}
	rec.Attrs(func(a slog.Attr) bool {
		addAttr(entry.Attrs, r.group, a)
		return true
	})

	r.mu.Lock()
	defer r.mu.Unlock()
	*r.entries = append(*r.entries, entry)
	return nil
}

// WithAttrs returns a handler sharing r's storage with attrs attached.
func (r *LogRecorder) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *r
	next.attrs = make([]slog.Attr, 0, len(r.attrs)+len(attrs))
	next.attrs = append(next.attrs, r.attrs...)
	for _, a := range attrs {
		if r.group != "" {
			a.Key = r.group + "." + a.Key
		}
		next.attrs = append(next.attrs, a)
	}
	return &next
}

// WithGroup returns a handler sharing r's storage that prefixes later keys with name.
func (r *LogRecorder) WithGroup(name string) slog.Handler {
	if name == "" {
		return r
	}
	next := *r
	if r.group != "" {
		name = r.group + "." + name
	}
	next.group = name
	return &next
}

// Entries returns a copy of every captured record.
func (r *LogRecorder) Entries() []LogEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]LogEntry(nil), *r.entries...)
}

// Find returns the first record whose message equals msg.
func (r *LogRecorder) Find(msg string) (LogEntry, bool) {
	for _, e := range r.Entries() {
		if e.Message == msg {
			return e, true
		}
	}
	return LogEntry{}, false
}

// Contains reports whether any message or attribute value contains s.
func (r *LogRecorder) Contains(s string) bool {
	for _, e := range r.Entries() {
		if strings.Contains(e.Message, s) {
			return true
		}
		for key := range e.Attrs {
			if strings.Contains(e.String(key), s) {
				return true
			}
		}
	}
	return false
}

func addAttr(dst map[string]any, prefix string, a slog.Attr) {
	key := a.Key
	if prefix != "" {
		key = prefix + "." + key
	}
	v := a.Value.Resolve()
	if v.Kind() == slog.KindGroup {
		for _, ga := range v.Group() {
			addAttr(dst, key, ga)
		}
		return
	}
	dst[key] = v.Any()
}
