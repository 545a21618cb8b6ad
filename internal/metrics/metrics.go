// Package metrics collects per-run counters and stage timings. A Registry
// lives for one analysis invocation and is reported in the result's
// diagnostics block; there is no process-wide registry.
package metrics

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// Registry holds the metrics for one analysis run.
type Registry struct {
	mu       sync.Mutex
	counters map[string]*Counter
	timers   map[string]*Timer
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		counters: make(map[string]*Counter),
		timers:   make(map[string]*Timer),
	}
}

// Counter is a monotonically increasing count.
type Counter struct {
	name string
	v    atomic.Int64
}

// Add increments the counter by delta.
func (c *Counter) Add(delta int64) { c.v.Add(delta) }

// Value returns the current count.
func (c *Counter) Value() int64 { return c.v.Load() }

// Timer accumulates wall-time observations for one pipeline stage.
type Timer struct {
	name  string
	mu    sync.Mutex
	count int64
	total time.Duration
	max   time.Duration
}

// Observe records one duration.
func (t *Timer) Observe(d time.Duration) {
	t.mu.Lock()
	t.count++
	t.total += d
	if d > t.max {
		t.max = d
	}
	t.mu.Unlock()
}

// Counter returns or creates a named counter.
func (r *Registry) Counter(name string) *Counter {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.counters[name]; ok {
		return c
	}
	c := &Counter{name: name}
	r.counters[name] = c
	return c
}

// Timer returns or creates a named timer.
func (r *Registry) Timer(name string) *Timer {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.timers[name]; ok {
		return t
	}
	t := &Timer{name: name}
	r.timers[name] = t
	return t
}

// Time starts timing a stage; the returned stop function records the
// elapsed duration.
func (r *Registry) Time(stage string) func() {
	t := r.Timer(stage)
	start := time.Now()
	return func() { t.Observe(time.Since(start)) }
}

// StageTiming is one timer's summary for the diagnostics block.
type StageTiming struct {
	Stage   string  `json:"stage"`
	Count   int64   `json:"count"`
	TotalMs float64 `json:"total_ms"`
	MaxMs   float64 `json:"max_ms"`
}

// Timings returns all stage timings sorted by stage name.
func (r *Registry) Timings() []StageTiming {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]StageTiming, 0, len(r.timers))
	for _, t := range r.timers {
		t.mu.Lock()
		out = append(out, StageTiming{
			Stage:   t.name,
			Count:   t.count,
			TotalMs: float64(t.total) / float64(time.Millisecond),
			MaxMs:   float64(t.max) / float64(time.Millisecond),
		})
		t.mu.Unlock()
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Stage < out[j].Stage })
	return out
}

// Counts returns all counter values keyed by name.
func (r *Registry) Counts() map[string]int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]int64, len(r.counters))
	for name, c := range r.counters {
		out[name] = c.Value()
	}
	return out
}
