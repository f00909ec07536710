package logger

import (
	"log/slog"
	"sync"
)

// Color is an RGBA colour in the [0,1] range used to tint a log line.
type Color [4]float32

var (
	ColorFatal   = Color{0.9, 0.0, 0.1, 1.0}
	ColorError   = Color{0.7, 0.2, 0.3, 1.0}
	ColorWarning = Color{0.9, 0.5, 0.1, 1.0}
	ColorInfo    = Color{0.1, 0.7, 0.3, 1.0}
	ColorDefault = Color{0.9, 0.9, 0.9, 1.0}
)

// SeverityColor maps a record level to the colour of its log panel line.
func SeverityColor(level slog.Level) Color {
	switch {
	case level >= LevelFatal:
		return ColorFatal
	case level >= slog.LevelError:
		return ColorError
	case level >= slog.LevelWarn:
		return ColorWarning
	case level >= slog.LevelInfo:
		return ColorInfo
	default:
		return ColorDefault
	}
}

// Entry is one formatted line shown in the log panel.
type Entry struct {
	Color Color
	Text  string
}

const DefaultCapacity = 512

// Visualizer is the consumer side of the log panel. Producers Push entries;
// the render loop calls Drain once per frame, which moves pending entries
// into the bounded history in arrival order. Both the pending queue and the
// history hold at most capacity entries and drop the oldest first.
type Visualizer struct {
	mu       sync.Mutex
	pending  []Entry
	history  []Entry
	capacity int
	updated  bool
}

func NewVisualizer(capacity int) *Visualizer {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Visualizer{capacity: capacity}
}

func (v *Visualizer) Push(e Entry) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.pending = appendBounded(v.pending, e, v.capacity)
}

// appendBounded appends e to q, dropping the oldest entries beyond limit.
func appendBounded(q []Entry, e Entry, limit int) []Entry {
	if len(q) >= limit {
		n := copy(q, q[len(q)-limit+1:])
		q = q[:n]
	}
	return append(q, e)
}

// Drain moves every pending entry to the history and returns them. It
// reports whether anything arrived since the previous call.
func (v *Visualizer) Drain() ([]Entry, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if len(v.pending) == 0 {
		return nil, false
	}
	drained := v.pending
	v.pending = nil

	v.history = append(v.history, drained...)
	if len(v.history) > v.capacity {
		v.history = append([]Entry(nil), v.history[len(v.history)-v.capacity:]...)
	}
	v.updated = true
	return drained, true
}

// History returns a copy of the retained entries, oldest first.
func (v *Visualizer) History() []Entry {
	v.mu.Lock()
	defer v.mu.Unlock()
	h := make([]Entry, len(v.history))
	copy(h, v.history)
	return h
}

// Updated reports and resets whether history grew since the last call.
func (v *Visualizer) Updated() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	u := v.updated
	v.updated = false
	return u
}

func (v *Visualizer) Clear() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.history = v.history[:0]
}

func (v *Visualizer) Capacity() int {
	return v.capacity
}
