package logger

import (
	"context"
	"log/slog"
	"strings"
	"sync"
)

// appender receives every record that passes the handler's level.
type appender interface {
	append(r record) error
}

// handler is a slog.Handler that fans records out to console, file and
// log panel appenders.
type handler struct {
	level     slog.Leveler
	appenders []appender
	tid       func() int

	// preformatted attributes from WithAttrs, and the open group prefix
	attrs  string
	prefix string

	mu *sync.Mutex
}

func newHandler(level slog.Leveler, appenders ...appender) *handler {
	return &handler{
		level:     level,
		appenders: appenders,
		tid:       threadID,
		mu:        &sync.Mutex{},
	}
}

func (h *handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *handler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder
	b.WriteString(h.attrs)
	r.Attrs(func(a slog.Attr) bool {
		appendAttr(&b, h.prefix, a)
		return true
	})
	rec := newRecord(r, b.String(), h.tid())

	h.mu.Lock()
	defer h.mu.Unlock()

	var first error
	for _, a := range h.appenders {
		if err := a.append(rec); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (h *handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	var b strings.Builder
	b.WriteString(h.attrs)
	for _, a := range attrs {
		appendAttr(&b, h.prefix, a)
	}
	h2 := *h
	h2.attrs = b.String()
	return &h2
}

func (h *handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	h2 := *h
	h2.prefix = h.prefix + name + "."
	return &h2
}

// nopHandler discards all log records.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }
