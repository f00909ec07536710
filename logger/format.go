package logger

import (
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"time"
)

// record is a slog.Record flattened into the fields the formats need.
type record struct {
	time     time.Time
	level    slog.Level
	message  string
	attrs    string
	function string
	line     int
	tid      int
}

func newRecord(r slog.Record, attrs string, tid int) record {
	rec := record{
		time:    r.Time,
		level:   r.Level,
		message: r.Message,
		attrs:   attrs,
		tid:     tid,
	}
	if r.PC != 0 {
		frame, _ := runtime.CallersFrames([]uintptr{r.PC}).Next()
		rec.function = frame.Function
		rec.line = frame.Line
	}
	return rec
}

func (r record) text() string {
	if r.attrs == "" {
		return r.message
	}
	return r.message + " " + r.attrs
}

// formatFull renders
//
//	[2006-01-02][15:04:05.000][LEVEL][tid][Line:N] message
//
// as used by the console and the log file.
func formatFull(r record) string {
	return fmt.Sprintf("[%s][%s][%-5s][%d][Line:%d] %s\n",
		r.time.Format("2006-01-02"),
		r.time.Format("15:04:05.000"),
		LevelName(r.level),
		r.tid,
		r.line,
		r.text())
}

// formatSimple renders the shorter log panel line
//
//	[15:04:05.000][LEVEL][function@line] message
func formatSimple(r record) string {
	return fmt.Sprintf("[%s][%-5s][%s] %s",
		r.time.Format("15:04:05.000"),
		LevelName(r.level),
		sourceName(r.function, r.line),
		r.text())
}

// sourceName shortens a runtime function name to its last path element.
// Closures and records without a caller are reported as Anonymous.
func sourceName(function string, line int) string {
	if function == "" || isClosure(function) {
		return fmt.Sprintf("Anonymous@%d", line)
	}
	if i := strings.LastIndex(function, "/"); i >= 0 {
		function = function[i+1:]
	}
	return fmt.Sprintf("%s@%d", function, line)
}

func isClosure(function string) bool {
	i := strings.LastIndex(function, ".func")
	if i < 0 {
		return false
	}
	rest := function[i+len(".func"):]
	if rest == "" {
		return false
	}
	for _, c := range rest {
		if (c < '0' || c > '9') && c != '.' {
			return false
		}
	}
	return true
}

func appendAttr(b *strings.Builder, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	if a.Value.Kind() == slog.KindGroup {
		p := prefix
		if a.Key != "" {
			p = prefix + a.Key + "."
		}
		for _, ga := range a.Value.Group() {
			appendAttr(b, p, ga)
		}
		return
	}
	if b.Len() > 0 {
		b.WriteByte(' ')
	}
	b.WriteString(prefix)
	b.WriteString(a.Key)
	b.WriteByte('=')
	s := a.Value.String()
	if a.Value.Kind() == slog.KindString && (s == "" || strings.ContainsAny(s, " \t\n\"=")) {
		s = fmt.Sprintf("%q", s)
	}
	b.WriteString(s)
}
