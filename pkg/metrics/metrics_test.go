package metrics

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	cverrors "github.com/cv-dev/cv/internal/errors"
	"github.com/cv-dev/cv/pkg/dom"
	"github.com/cv-dev/cv/pkg/module"
	"github.com/cv-dev/cv/pkg/vdom"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("counter Write() error: %v", err)
	}
	if m.Counter == nil {
		t.Fatal("expected counter metric to have Counter field")
	}
	return m.GetCounter().GetValue()
}

func histogramCount(t *testing.T, h prometheus.Histogram) uint64 {
	t.Helper()
	var m dto.Metric
	if err := h.Write(&m); err != nil {
		t.Fatalf("histogram Write() error: %v", err)
	}
	if m.Histogram == nil {
		t.Fatal("expected histogram metric to have Histogram field")
	}
	return m.GetHistogram().GetSampleCount()
}

func TestObserverRecordsRendering(t *testing.T) {
	reg := prometheus.NewRegistry()
	obs := New(WithRegistry(reg), WithNamespace("test"))

	doc := dom.NewDocument()
	e := vdom.New(doc,
		vdom.WithObserver(obs),
		vdom.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)

	count := vdom.State(0)
	vn := e.Reactive(count)
	doc.Body().Append(vn.DOMNode())
	count.Set(1)
	vn.DOMNode().Remove()
	count.Set(2)

	if got := counterValue(t, obs.nodesRendered.WithLabelValues("text")); got != 2 {
		t.Errorf("nodes_rendered_total{text} = %v, want 2", got)
	}
	if got := counterValue(t, obs.nodesReplaced.WithLabelValues("none")); got != 1 {
		t.Errorf("nodes_replaced_total{none} = %v, want 1", got)
	}
	if got := counterValue(t, obs.effectsStopped.WithLabelValues(vdom.SubscriptionNode)); got != 1 {
		t.Errorf("effects_stopped_total{node} = %v, want 1", got)
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	for _, want := range []string{"test_nodes_rendered_total", "test_nodes_replaced_total", "test_effects_stopped_total"} {
		if !names[want] {
			t.Errorf("metric %s not registered", want)
		}
	}
}

func TestObserverRecordsModuleLoads(t *testing.T) {
	obs := New(WithRegistry(prometheus.NewRegistry()))

	obs.ModuleLoaded("a", 5*time.Millisecond, nil)
	obs.ModuleLoaded("b", time.Millisecond, fmt.Errorf("%w: b", module.ErrNotFound))
	obs.ModuleLoaded("c", time.Millisecond, cverrors.New("CV203"))

	for status, want := range map[string]float64{"success": 1, "not_found": 1, "CV203": 1} {
		if got := counterValue(t, obs.moduleLoads.WithLabelValues(status)); got != want {
			t.Errorf("module_loads_total{%s} = %v, want %v", status, got, want)
		}
	}
	if got := histogramCount(t, obs.moduleDuration); got != 3 {
		t.Errorf("module_load_duration_seconds count = %d, want 3", got)
	}
}

func TestLoadStatus(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "success"},
		{module.ErrNotFound, "not_found"},
		{context.DeadlineExceeded, "timeout"},
		{fmt.Errorf("load: %w", context.Canceled), "canceled"},
		{cverrors.New("CV200").Wrap(errors.New("x")), "CV200"},
		{errors.New("boom"), "error"},
	}

	for _, tt := range tests {
		if got := loadStatus(tt.err); got != tt.want {
			t.Errorf("loadStatus(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
