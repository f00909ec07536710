package logger

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"
)

func TestSinkFlushesCacheBeforeNewEntries(t *testing.T) {
	s := NewSink()
	s.Write(Entry{Text: "a"})
	s.Write(Entry{Text: "b"})
	if s.Cached() != 2 {
		t.Fatalf("Cached() = %d, want 2", s.Cached())
	}

	v := NewVisualizer(0)
	s.Attach(v)
	s.Write(Entry{Text: "c"})

	got, updated := v.Drain()
	if !updated {
		t.Fatal("Drain() reported no update")
	}
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("drained %d entries, want %d", len(got), len(want))
	}
	for i, e := range got {
		if e.Text != want[i] {
			t.Errorf("entry %d = %q, want %q", i, e.Text, want[i])
		}
	}
	if s.Cached() != 0 {
		t.Errorf("Cached() after attach = %d, want 0", s.Cached())
	}
}

func TestSinkDetachBuffersAgain(t *testing.T) {
	s := NewSink()
	v := NewVisualizer(0)
	s.Attach(v)
	s.Write(Entry{Text: "first"})
	s.Detach()
	if s.Attached() {
		t.Fatal("Attached() after Detach")
	}
	s.Write(Entry{Text: "second"})
	if s.Cached() != 1 {
		t.Fatalf("Cached() = %d, want 1", s.Cached())
	}

	s.Attach(v)
	got, _ := v.Drain()
	if len(got) != 2 || got[0].Text != "first" || got[1].Text != "second" {
		t.Errorf("Drain() = %v", got)
	}
}

func TestSinkCacheIsBounded(t *testing.T) {
	s := NewSink()
	for i := 0; i < DefaultCapacity+10; i++ {
		s.Write(Entry{Text: strconv.Itoa(i)})
	}
	if s.Cached() != DefaultCapacity {
		t.Fatalf("Cached() = %d, want %d", s.Cached(), DefaultCapacity)
	}

	v := NewVisualizer(DefaultCapacity)
	s.Attach(v)
	got, _ := v.Drain()
	if len(got) != DefaultCapacity {
		t.Fatalf("Drain() = %d entries, want %d", len(got), DefaultCapacity)
	}
	if got[0].Text != "10" || got[len(got)-1].Text != strconv.Itoa(DefaultCapacity+9) {
		t.Errorf("Drain() kept %q to %q", got[0].Text, got[len(got)-1].Text)
	}
}

func TestVisualizerHistoryIsBounded(t *testing.T) {
	v := NewVisualizer(3)
	for _, s := range []string{"1", "2", "3", "4", "5"} {
		v.Push(Entry{Text: s})
	}
	drained, ok := v.Drain()
	if !ok {
		t.Fatal("Drain() reported no update")
	}
	// the pending queue is bounded too
	if len(drained) != 3 || drained[0].Text != "3" {
		t.Errorf("Drain() = %v", drained)
	}
	h := v.History()
	if len(h) != 3 || h[0].Text != "3" || h[2].Text != "5" {
		t.Errorf("History() = %v", h)
	}
	if !v.Updated() {
		t.Error("Updated() = false after drain")
	}
	if v.Updated() {
		t.Error("Updated() did not reset")
	}
	if _, ok := v.Drain(); ok {
		t.Error("second Drain() reported an update")
	}

	v.Clear()
	if len(v.History()) != 0 {
		t.Error("Clear() left history")
	}
}

func TestSeverityColor(t *testing.T) {
	tests := []struct {
		level slog.Level
		want  Color
	}{
		{LevelFatal, ColorFatal},
		{slog.LevelError, ColorError},
		{slog.LevelWarn, ColorWarning},
		{slog.LevelInfo, ColorInfo},
		{slog.LevelDebug, ColorDefault},
	}
	for _, tt := range tests {
		if got := SeverityColor(tt.level); got != tt.want {
			t.Errorf("SeverityColor(%v) = %v, want %v", tt.level, got, tt.want)
		}
	}
}

var testTime = time.Date(2024, 3, 5, 14, 7, 9, 123_000_000, time.Local)

func TestFormatFull(t *testing.T) {
	r := record{
		time:     testTime,
		level:    slog.LevelInfo,
		message:  "hello",
		attrs:    "k=1",
		function: "openglrem/shader.New",
		line:     42,
		tid:      7,
	}
	want := "[2024-03-05][14:07:09.123][INFO ][7][Line:42] hello k=1\n"
	if got := formatFull(r); got != want {
		t.Errorf("formatFull() = %q, want %q", got, want)
	}
}

func TestFormatSimple(t *testing.T) {
	r := record{
		time:     testTime,
		level:    slog.LevelWarn,
		message:  "skipped",
		function: "openglrem/mesh.(*Mesh).bindAttributes",
		line:     12,
	}
	want := "[14:07:09.123][WARN ][mesh.(*Mesh).bindAttributes@12] skipped"
	if got := formatSimple(r); got != want {
		t.Errorf("formatSimple() = %q, want %q", got, want)
	}
}

func TestSourceName(t *testing.T) {
	tests := []struct {
		function string
		line     int
		want     string
	}{
		{"", 3, "Anonymous@3"},
		{"main.main.func1", 9, "Anonymous@9"},
		{"main.main.func1.2", 9, "Anonymous@9"},
		{"openglrem/texture.(*Generator).Gen", 5, "texture.(*Generator).Gen@5"},
		{"main.funcName", 1, "main.funcName@1"},
	}
	for _, tt := range tests {
		if got := sourceName(tt.function, tt.line); got != tt.want {
			t.Errorf("sourceName(%q) = %q, want %q", tt.function, got, tt.want)
		}
	}
}

func TestInitializeWritesLogFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	var console bytes.Buffer
	ctx, err := Initialize(Config{
		Level:   slog.LevelDebug,
		Dir:     dir,
		Console: true,
		Output:  &console,
		Now:     func() time.Time { return testTime },
	})
	if err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}

	ctx.Logger().Info("window created", "width", 1370)
	ctx.Logger().With("component", "shader").Debug("compiled")
	if err := ctx.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	if want := filepath.Join(dir, "24030514"); ctx.Path() != want {
		t.Errorf("Path() = %q, want %q", ctx.Path(), want)
	}
	data, err := os.ReadFile(ctx.Path())
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("log file has %d lines, want 2:\n%s", len(lines), data)
	}
	if !strings.Contains(lines[0], "[INFO ]") || !strings.HasSuffix(lines[0], "window created width=1370") {
		t.Errorf("line 0 = %q", lines[0])
	}
	if !strings.Contains(lines[1], "[DEBUG]") || !strings.HasSuffix(lines[1], "compiled component=shader") {
		t.Errorf("line 1 = %q", lines[1])
	}

	if console.String() != string(data) {
		t.Errorf("console output differs from file:\n%s\n%s", console.String(), data)
	}
}

func TestRecordsReachPanelAfterAttach(t *testing.T) {
	ctx, err := Initialize(Config{Level: slog.LevelInfo})
	if err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	defer ctx.Close()

	ctx.Logger().Info("early")
	ctx.Logger().Debug("filtered")

	v := NewVisualizer(16)
	ctx.Attach(v)
	ctx.Logger().Error("late")

	got, _ := v.Drain()
	if len(got) != 2 {
		t.Fatalf("drained %d entries, want 2", len(got))
	}
	if !strings.HasSuffix(got[0].Text, " early") || got[0].Color != ColorInfo {
		t.Errorf("entry 0 = %+v", got[0])
	}
	if !strings.Contains(got[1].Text, "[ERROR]") || got[1].Color != ColorError {
		t.Errorf("entry 1 = %+v", got[1])
	}
}

func TestFatalRecordsCaller(t *testing.T) {
	ctx, err := Initialize(Config{Level: slog.LevelInfo})
	if err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	defer ctx.Close()
	v := NewVisualizer(4)
	ctx.Attach(v)

	Fatal(ctx.Logger(), "cannot create shader", "code", -2)

	got, _ := v.Drain()
	if len(got) != 1 {
		t.Fatalf("drained %d entries, want 1", len(got))
	}
	if !strings.Contains(got[0].Text, "[FATAL][logger.TestFatalRecordsCaller@") {
		t.Errorf("entry = %q", got[0].Text)
	}
	if !strings.HasSuffix(got[0].Text, "cannot create shader code=-2") {
		t.Errorf("entry = %q", got[0].Text)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"fatal", LevelFatal},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Error("ParseLevel(loud) returned no error")
	}
}

func TestNopDiscards(t *testing.T) {
	l := Nop()
	l.Error("nothing")
	if OrNop(nil) == nil {
		t.Error("OrNop(nil) = nil")
	}
}
