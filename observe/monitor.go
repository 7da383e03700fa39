package observe

import (
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/smallnest/taskgraph/graph"
)

// PerformanceMonitor subscribes to on_execute, on_finished and
// on_failed and records how long each task's most recent executions
// took. Unlike a single shared start-timestamp field (which breaks the
// moment two tasks execute interleaved, e.g. a dynamic graph pulling
// one task from within another's inputs), it keeps a start time per
// in-flight task name, so overlapping executions within one update
// never clobber each other's timing.
type PerformanceMonitor[N comparable] struct {
	mu      sync.Mutex
	starts  map[N]time.Time
	series  map[N][]time.Duration
	histVec *prometheus.HistogramVec

	tokens []unsubscribe
}

// NewPerformanceMonitor creates a monitor that also records every
// execution's duration into a Prometheus histogram vector labelled by
// task name, registered against reg (pass prometheus.DefaultRegisterer
// to use the global registry, or nil to skip Prometheus export
// entirely and only keep the in-memory series).
func NewPerformanceMonitor[N comparable](reg prometheus.Registerer, namespace string) *PerformanceMonitor[N] {
	m := &PerformanceMonitor[N]{
		starts: make(map[N]time.Time),
		series: make(map[N][]time.Duration),
	}
	if reg != nil {
		m.histVec = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "graph",
			Name:      "task_duration_seconds",
			Help:      "Wall-clock duration of a task's execution.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"task"})
		reg.MustRegister(m.histVec)
	}
	return m
}

// Attach subscribes to g's signal bus. Call Close to unsubscribe.
func (m *PerformanceMonitor[N]) Attach(g graph.Graph[N]) {
	m.tokens = append(m.tokens, subscribe(g.OnExecute(), func(a graph.ExecuteArgs[N]) {
		m.mu.Lock()
		m.starts[a.Name] = time.Now()
		m.mu.Unlock()
	}))
	m.tokens = append(m.tokens, subscribe(g.OnFinished(), func(a graph.FinishedArgs[N]) {
		m.record(a.Name)
	}))
	m.tokens = append(m.tokens, subscribe(g.OnFailed(), func(a graph.FailedArgs[N]) {
		m.record(a.Name)
	}))
}

func (m *PerformanceMonitor[N]) record(name N) {
	m.mu.Lock()
	defer m.mu.Unlock()
	start, ok := m.starts[name]
	if !ok {
		return
	}
	delete(m.starts, name)
	d := time.Since(start)
	m.series[name] = append(m.series[name], d)
	if m.histVec != nil {
		m.histVec.WithLabelValues(fmt.Sprint(name)).Observe(d.Seconds())
	}
}

// Series returns the recorded durations for name, oldest first. The
// returned slice is a copy.
func (m *PerformanceMonitor[N]) Series(name N) []time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]time.Duration, len(m.series[name]))
	copy(out, m.series[name])
	return out
}

// Reset clears every recorded series and in-flight start time.
func (m *PerformanceMonitor[N]) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.starts = make(map[N]time.Time)
	m.series = make(map[N][]time.Duration)
}

// Close unsubscribes the monitor from every signal it attached to.
func (m *PerformanceMonitor[N]) Close() {
	for _, u := range m.tokens {
		u()
	}
	m.tokens = nil
}
