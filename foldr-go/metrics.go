package foldr_go

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/ahrtr/gocontainer/queue/priorityqueue"
)

// / The primary interface to metrics. Use
// /   defer METRIC_RECORD("foobar").Stop()
// / at the top of a function to get timing stats recorded for each call.
// / Does nothing unless GMetrics is set (-d stats).
func METRIC_RECORD(name string) *ScopedMetric {
	if GMetrics == nil {
		return nil
	}
	return NewScopedMetric(GMetrics.NewMetric(name))
}

var GMetrics *Metrics = nil

type Metric struct {
	Name string
	/// Number of times we've hit the code path.
	Count int
	/// Total time we've spent on the code path.
	Sum time.Duration
}

type ScopedMetric struct {
	metric_ *Metric
	start_  time.Time
}

func NewScopedMetric(metric *Metric) *ScopedMetric {
	ret := ScopedMetric{}
	ret.metric_ = metric
	ret.start_ = time.Now()
	return &ret
}

func (this *ScopedMetric) Stop() {
	if this == nil || this.metric_ == nil {
		return
	}
	GMetrics.record(this.metric_, time.Since(this.start_))
}

type Metrics struct {
	mu_      sync.Mutex
	metrics_ map[string]*Metric
}

func NewMetrics() *Metrics {
	ret := Metrics{}
	ret.metrics_ = map[string]*Metric{}
	return &ret
}

// / Return the metric named name, creating it on first use.
func (this *Metrics) NewMetric(name string) *Metric {
	this.mu_.Lock()
	defer this.mu_.Unlock()
	if m, ok := this.metrics_[name]; ok {
		return m
	}
	m := &Metric{Name: name}
	this.metrics_[name] = m
	return m
}

func (this *Metrics) record(m *Metric, d time.Duration) {
	this.mu_.Lock()
	m.Count++
	m.Sum += d
	this.mu_.Unlock()
}

// Orders metrics by total time, longest first, then by name.
type metricCmp struct{}

func (metricCmp) Compare(v1, v2 interface{}) (int, error) {
	a, b := v1.(*Metric), v2.(*Metric)
	switch {
	case a.Sum > b.Sum:
		return -1, nil
	case a.Sum < b.Sum:
		return 1, nil
	case a.Name < b.Name:
		return -1, nil
	case a.Name > b.Name:
		return 1, nil
	}
	return 0, nil
}

// / Print a summary report, most expensive metric first.
func (this *Metrics) Report(w io.Writer) {
	this.mu_.Lock()
	defer this.mu_.Unlock()

	queue := priorityqueue.New().WithComparator(metricCmp{})
	width := len("metric")
	for _, m := range this.metrics_ {
		queue.Add(m)
		width = max(width, len(m.Name))
	}

	fmt.Fprintf(w, "%-*s\t%-6s\t%-9s\t%s\n", width, "metric", "count", "avg (us)", "total (ms)")
	for !queue.IsEmpty() {
		m := queue.Poll().(*Metric)
		micros := m.Sum.Microseconds()
		total := float64(micros) / 1000
		avg := 0.0
		if m.Count > 0 {
			avg = float64(micros) / float64(m.Count)
		}
		fmt.Fprintf(w, "%-*s\t%-6d\t%-8.1f\t%.1f\n", width, m.Name, m.Count, avg, total)
	}
}
