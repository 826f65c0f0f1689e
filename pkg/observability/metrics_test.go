package observability

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/matzehuels/polaris/pkg/errors"
)

func newTestMetrics(t *testing.T) (*Metrics, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}
	return m, reg
}

func TestMetricsLayouts(t *testing.T) {
	m, _ := newTestMetrics(t)
	ctx := context.Background()

	m.OnLayoutComplete(ctx, 42, 3*time.Millisecond, nil)
	m.OnLayoutComplete(ctx, 0, time.Millisecond, errors.Validation("bad"))
	m.OnLayoutComplete(ctx, 0, time.Millisecond, errors.New(errors.ErrCodeEmptyInput, "empty"))

	tests := []struct {
		result string
		want   float64
	}{
		{"ok", 1},
		{"VALIDATION_FAILED", 1},
		{"EMPTY_INPUT", 1},
	}
	for _, tt := range tests {
		if got := testutil.ToFloat64(m.Layouts.WithLabelValues(tt.result)); got != tt.want {
			t.Errorf("polaris_layouts_total{result=%q} = %v, want %v", tt.result, got, tt.want)
		}
	}
	if got := testutil.ToFloat64(m.LayoutEntities); got != 42 {
		t.Errorf("polaris_layout_entities = %v, want 42", got)
	}
	if got := testutil.CollectAndCount(m.LayoutDurations); got != 1 {
		t.Errorf("layout duration series = %d, want 1", got)
	}
}

func TestMetricsRendersAndCache(t *testing.T) {
	m, _ := newTestMetrics(t)
	ctx := context.Background()

	m.OnRenderComplete(ctx, []string{"svg", "json"}, time.Millisecond, nil)
	m.OnCacheHit(ctx, "svg")
	m.OnCacheMiss(ctx, "svg")
	m.OnCacheMiss(ctx, "svg")
	m.OnCacheSet(ctx, "svg", 512)

	if got := testutil.ToFloat64(m.Renders.WithLabelValues("json", "ok")); got != 1 {
		t.Errorf("renders{json,ok} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.CacheLookups.WithLabelValues("svg", "miss")); got != 2 {
		t.Errorf("cache misses = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.CacheBytes.WithLabelValues("svg")); got != 512 {
		t.Errorf("cache bytes = %v, want 512", got)
	}
}

func TestMetricsHTTPAndHandler(t *testing.T) {
	m, _ := newTestMetrics(t)
	m.OnResponse(context.Background(), "GET", "/radars/{id}", 404, time.Millisecond)

	if got := testutil.ToFloat64(m.HTTPRequests.WithLabelValues("GET", "/radars/{id}", "404")); got != 1 {
		t.Errorf("http requests = %v, want 1", got)
	}

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if !strings.Contains(rec.Body.String(), "polaris_http_requests_total") {
		t.Error("metrics handler does not expose polaris_http_requests_total")
	}
}

func TestNewMetricsTwiceReusesCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	a, err := NewMetrics(reg)
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewMetrics(reg)
	if err != nil {
		t.Fatalf("second NewMetrics: %v", err)
	}
	a.OnLoad(context.Background(), "x", 1, 0, nil)
	if got := testutil.ToFloat64(b.Loads.WithLabelValues("ok")); got != 1 {
		t.Errorf("shared loads = %v, want 1", got)
	}
}

func TestMetricsInstall(t *testing.T) {
	t.Cleanup(Reset)
	m, _ := newTestMetrics(t)
	m.Install()

	Pipeline().OnLayoutComplete(context.Background(), 5, 0, nil)
	Cache().OnCacheHit(context.Background(), "json")
	if got := testutil.ToFloat64(m.Layouts.WithLabelValues("ok")); got != 1 {
		t.Errorf("installed layouts = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.CacheLookups.WithLabelValues("json", "hit")); got != 1 {
		t.Errorf("installed cache hits = %v, want 1", got)
	}
}
