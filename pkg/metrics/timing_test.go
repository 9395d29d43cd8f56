package metrics

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestRecordTracksMinMaxAvg(t *testing.T) {
	SetEnabled(true)
	m := newTimingMetric("test")
	m.Record(2 * time.Millisecond)
	m.Record(4 * time.Millisecond)
	m.Record(6 * time.Millisecond)

	s := m.Stats()
	if s.Count != 3 {
		t.Fatalf("Count = %d, want 3", s.Count)
	}
	if s.MinMs != 2 || s.MaxMs != 6 || s.AvgMs != 4 {
		t.Errorf("stats = %+v", s)
	}

	m.Reset()
	if m.Count() != 0 || m.Stats().MaxMs != 0 {
		t.Errorf("Reset left data behind: %+v", m.Stats())
	}
}

func TestRecordDisabled(t *testing.T) {
	SetEnabled(false)
	defer SetEnabled(true)

	m := newTimingMetric("off")
	m.Record(time.Millisecond)
	Timer(m)()
	if m.Count() != 0 {
		t.Errorf("disabled metric recorded %d samples", m.Count())
	}
}

func TestConcurrentRecord(t *testing.T) {
	SetEnabled(true)
	m := newTimingMetric("concurrent")
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				m.Record(time.Microsecond)
			}
		}()
	}
	wg.Wait()
	if m.Count() != 800 {
		t.Errorf("Count = %d, want 800", m.Count())
	}
}

func TestTimerWithCallback(t *testing.T) {
	SetEnabled(true)
	m := newTimingMetric("cb")
	var got time.Duration
	TimerWithCallback(m, func(d time.Duration) { got = d })()
	if m.Count() != 1 || got < 0 {
		t.Errorf("count=%d d=%v", m.Count(), got)
	}
}

func TestWriteReport(t *testing.T) {
	SetEnabled(true)
	ResetAll()
	defer ResetAll()

	LayoutCompute.Record(3 * time.Millisecond)
	var buf bytes.Buffer
	if err := WriteReport(&buf); err != nil {
		t.Fatalf("WriteReport error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "layout_compute") {
		t.Errorf("report missing layout_compute:\n%s", out)
	}
	if strings.Contains(out, "tree_mutation") {
		t.Errorf("report should skip empty metrics:\n%s", out)
	}
}
