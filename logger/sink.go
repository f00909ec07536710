package logger

import "sync"

// Sink forwards entries to a Visualizer. Until one is attached the newest
// DefaultCapacity entries are cached; Attach flushes the cache in order
// before anything newer.
type Sink struct {
	mu     sync.Mutex
	target *Visualizer
	cache  []Entry
}

func NewSink() *Sink {
	return &Sink{}
}

func (s *Sink) Write(e Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.target == nil {
		s.cache = appendBounded(s.cache, e, DefaultCapacity)
		return
	}
	s.target.Push(e)
}

// Attach switches the sink to v. Cached entries are pushed first.
func (s *Sink) Attach(v *Visualizer) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.target = v
	if v == nil {
		return
	}
	for _, e := range s.cache {
		v.Push(e)
	}
	s.cache = nil
}

// Detach returns the sink to buffering. Entries written afterwards are cached
// until the next Attach.
func (s *Sink) Detach() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.target = nil
}

func (s *Sink) Attached() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.target != nil
}

// Cached returns the number of entries waiting for a visualizer.
func (s *Sink) Cached() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.cache)
}
