package foldr_go

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestMetricRecordWithoutStats(t *testing.T) {
	saved := GMetrics
	GMetrics = nil
	defer func() { GMetrics = saved }()

	m := METRIC_RECORD("nothing")
	if m != nil {
		t.Fatal("expected a nil metric")
	}
	m.Stop()
}

func TestMetricsReportOrder(t *testing.T) {
	saved := GMetrics
	GMetrics = NewMetrics()
	defer func() { GMetrics = saved }()

	GMetrics.record(GMetrics.NewMetric("fast"), time.Millisecond)
	GMetrics.record(GMetrics.NewMetric("slow"), 5*time.Millisecond)
	GMetrics.record(GMetrics.NewMetric("slow"), 5*time.Millisecond)
	GMetrics.NewMetric("unused")

	var b strings.Builder
	GMetrics.Report(&b)
	lines := strings.Split(strings.TrimSpace(b.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %q", b.String())
	}
	if !strings.HasPrefix(lines[0], "metric") {
		t.Errorf("header = %q", lines[0])
	}
	for i, name := range []string{"slow", "fast", "unused"} {
		if !strings.HasPrefix(lines[i+1], name) {
			t.Errorf("line %d = %q, want %s first", i+1, lines[i+1], name)
		}
	}
	if !strings.Contains(lines[1], "\t2") || !strings.Contains(lines[1], "10.0") {
		t.Errorf("slow line = %q", lines[1])
	}
}

func TestMetricsCountInterpreterPhases(t *testing.T) {
	saved := GMetrics
	GMetrics = NewMetrics()
	defer func() { GMetrics = saved }()

	if _, err := RunString(context.Background(), "func f() { } f(); f();", "", EvalOptions{}); err != nil {
		t.Fatal(err)
	}
	for name, count := range map[string]int{"lex": 1, "parse": 1, "eval": 1, "call f": 2} {
		if m := GMetrics.NewMetric(name); m.Count != count {
			t.Errorf("%s count = %d, want %d", name, m.Count, count)
		}
	}
}
