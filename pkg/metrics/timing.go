// Package metrics records timing for the editor's hot paths: layout passes,
// tree mutations, drop resolution, export rendering and UI frames.
//
// Measurements are kept in memory with atomic counters, so collaborators that
// run on other goroutines (export fan-out, the watcher) can record safely.
// Collection is on by default; MINDMAP_METRICS=0 turns it off.
//
//	func (e *Engine) Compute() {
//	    defer metrics.Timer(metrics.LayoutCompute)()
//	}
package metrics

import (
	"fmt"
	"io"
	"os"
	"sync/atomic"
	"text/tabwriter"
	"time"
)

var enabled atomic.Bool

func init() {
	enabled.Store(os.Getenv("MINDMAP_METRICS") != "0")
}

// Enabled returns whether metrics collection is enabled.
func Enabled() bool {
	return enabled.Load()
}

// SetEnabled allows programmatic control of metrics collection.
func SetEnabled(e bool) {
	enabled.Store(e)
}

// TimingMetric accumulates durations for one named operation.
type TimingMetric struct {
	name  string
	count atomic.Int64
	total atomic.Int64
	max   atomic.Int64
	min   atomic.Int64 // 0 until the first sample
}

func newTimingMetric(name string) *TimingMetric {
	return &TimingMetric{name: name}
}

// Record adds one sample.
func (m *TimingMetric) Record(d time.Duration) {
	if !enabled.Load() {
		return
	}
	ns := d.Nanoseconds()
	m.count.Add(1)
	m.total.Add(ns)

	for {
		old := m.max.Load()
		if ns <= old || m.max.CompareAndSwap(old, ns) {
			break
		}
	}
	for {
		old := m.min.Load()
		if old != 0 && ns >= old {
			break
		}
		if m.min.CompareAndSwap(old, ns) {
			break
		}
	}
}

// Name returns the metric name.
func (m *TimingMetric) Name() string { return m.name }

// Count returns the number of recorded samples.
func (m *TimingMetric) Count() int64 { return m.count.Load() }

// Stats returns a consistent-enough snapshot of the metric.
func (m *TimingMetric) Stats() TimingStats {
	count := m.count.Load()
	total := m.total.Load()
	var avg int64
	if count > 0 {
		avg = total / count
	}
	return TimingStats{
		Name:    m.name,
		Count:   count,
		TotalMs: nsToMs(total),
		AvgMs:   nsToMs(avg),
		MaxMs:   nsToMs(m.max.Load()),
		MinMs:   nsToMs(m.min.Load()),
	}
}

// Reset clears all recorded samples.
func (m *TimingMetric) Reset() {
	m.count.Store(0)
	m.total.Store(0)
	m.max.Store(0)
	m.min.Store(0)
}

func nsToMs(ns int64) float64 { return float64(ns) / 1e6 }

// TimingStats holds a snapshot of timing statistics.
type TimingStats struct {
	Name    string  `json:"name"`
	Count   int64   `json:"count"`
	TotalMs float64 `json:"total_ms"`
	AvgMs   float64 `json:"avg_ms"`
	MaxMs   float64 `json:"max_ms"`
	MinMs   float64 `json:"min_ms,omitempty"`
}

// Timer returns a function that records elapsed time when called.
//
//	defer metrics.Timer(metrics.TreeMutation)()
func Timer(m *TimingMetric) func() {
	if !enabled.Load() || m == nil {
		return func() {}
	}
	start := time.Now()
	return func() {
		m.Record(time.Since(start))
	}
}

// TimerWithCallback is Timer that also hands the duration to cb, for callers
// that want to log slow passes.
func TimerWithCallback(m *TimingMetric, cb func(time.Duration)) func() {
	if !enabled.Load() || m == nil {
		return func() {}
	}
	start := time.Now()
	return func() {
		d := time.Since(start)
		m.Record(d)
		if cb != nil {
			cb(d)
		}
	}
}

// Registered timing metrics.
var (
	LayoutCompute = newTimingMetric("layout_compute")
	TreeMutation  = newTimingMetric("tree_mutation")
	DragResolve   = newTimingMetric("drag_resolve")
	TextMeasure   = newTimingMetric("text_measure")
	ExportRender  = newTimingMetric("export_render")
	ScriptReplay  = newTimingMetric("script_replay")
	UIRender      = newTimingMetric("ui_render")
)

// AllTimingMetrics returns every registered timing metric.
func AllTimingMetrics() []*TimingMetric {
	return []*TimingMetric{
		LayoutCompute,
		TreeMutation,
		DragResolve,
		TextMeasure,
		ExportRender,
		ScriptReplay,
		UIRender,
	}
}

// ResetAll clears every registered metric.
func ResetAll() {
	for _, m := range AllTimingMetrics() {
		m.Reset()
	}
}

// AllTimingStats returns stats for the metrics that have recorded anything.
func AllTimingStats() []TimingStats {
	all := AllTimingMetrics()
	stats := make([]TimingStats, 0, len(all))
	for _, m := range all {
		if m.Count() > 0 {
			stats = append(stats, m.Stats())
		}
	}
	return stats
}

// WriteReport prints AllTimingStats as an aligned table.
func WriteReport(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "METRIC\tCOUNT\tTOTAL ms\tAVG ms\tMAX ms")
	for _, s := range AllTimingStats() {
		fmt.Fprintf(tw, "%s\t%d\t%.3f\t%.3f\t%.3f\n", s.Name, s.Count, s.TotalMs, s.AvgMs, s.MaxMs)
	}
	return tw.Flush()
}
