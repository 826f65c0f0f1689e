package observability

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/polaris/pkg/errors"
)

// Metrics records pipeline, cache and HTTP events as Prometheus metrics.
type Metrics struct {
	gatherer prometheus.Gatherer

	Loads           *prometheus.CounterVec
	Layouts         *prometheus.CounterVec
	LayoutDurations prometheus.Histogram
	LayoutEntities  prometheus.Gauge
	Renders         *prometheus.CounterVec
	RenderDurations *prometheus.HistogramVec
	CacheLookups    *prometheus.CounterVec
	CacheBytes      *prometheus.CounterVec
	HTTPRequests    *prometheus.CounterVec
	HTTPDurations   *prometheus.HistogramVec
}

var durationBuckets = []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5}

// NewMetrics registers the polaris collectors with reg, or the default
// registry when reg is nil. Registering twice against the same registry
// reuses the existing collectors.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	m := &Metrics{gatherer: gatherer}
	var err error

	if m.Loads, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "polaris_documents_loaded_total",
		Help: "Radar documents read, labeled by result code.",
	}, []string{"result"}), "polaris_documents_loaded_total"); err != nil {
		return nil, err
	}
	if m.Layouts, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "polaris_layouts_total",
		Help: "Radar layouts computed, labeled by result code.",
	}, []string{"result"}), "polaris_layouts_total"); err != nil {
		return nil, err
	}
	if m.LayoutDurations, err = register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "polaris_layout_duration_seconds",
		Help:    "Time spent computing a radar layout.",
		Buckets: durationBuckets,
	}), "polaris_layout_duration_seconds"); err != nil {
		return nil, err
	}
	if m.LayoutEntities, err = register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "polaris_layout_entities",
		Help: "Entity count of the most recent layout.",
	}), "polaris_layout_entities"); err != nil {
		return nil, err
	}
	if m.Renders, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "polaris_renders_total",
		Help: "Render passes, labeled by output format and result code.",
	}, []string{"format", "result"}), "polaris_renders_total"); err != nil {
		return nil, err
	}
	if m.RenderDurations, err = register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "polaris_render_duration_seconds",
		Help:    "Time spent rendering, labeled by the formats of the pass.",
		Buckets: durationBuckets,
	}, []string{"formats"}), "polaris_render_duration_seconds"); err != nil {
		return nil, err
	}
	if m.CacheLookups, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "polaris_cache_lookups_total",
		Help: "Artifact cache lookups, labeled by key type and hit or miss.",
	}, []string{"type", "result"}), "polaris_cache_lookups_total"); err != nil {
		return nil, err
	}
	if m.CacheBytes, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "polaris_cache_written_bytes_total",
		Help: "Bytes written to the artifact cache, labeled by key type.",
	}, []string{"type"}), "polaris_cache_written_bytes_total"); err != nil {
		return nil, err
	}
	if m.HTTPRequests, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "polaris_http_requests_total",
		Help: "API requests, labeled by method, route and status code.",
	}, []string{"method", "route", "code"}), "polaris_http_requests_total"); err != nil {
		return nil, err
	}
	if m.HTTPDurations, err = register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "polaris_http_request_duration_seconds",
		Help:    "API latency in seconds.",
		Buckets: durationBuckets,
	}, []string{"method", "route"}), "polaris_http_request_duration_seconds"); err != nil {
		return nil, err
	}
	return m, nil
}

// Install registers m as the global pipeline, cache and HTTP hooks.
func (m *Metrics) Install() {
	SetPipelineHooks(m)
	SetCacheHooks(m)
	SetHTTPHooks(m)
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

func (m *Metrics) OnLoad(_ context.Context, _ string, _ int, _ time.Duration, err error) {
	m.Loads.WithLabelValues(result(err)).Inc()
}

func (m *Metrics) OnLayoutStart(context.Context, int, int) {}

func (m *Metrics) OnLayoutComplete(_ context.Context, entities int, d time.Duration, err error) {
	m.Layouts.WithLabelValues(result(err)).Inc()
	m.LayoutDurations.Observe(d.Seconds())
	if err == nil {
		m.LayoutEntities.Set(float64(entities))
	}
}

func (m *Metrics) OnRenderStart(context.Context, []string) {}

func (m *Metrics) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	res := result(err)
	for _, f := range formats {
		m.Renders.WithLabelValues(f, res).Inc()
	}
	m.RenderDurations.WithLabelValues(strings.Join(formats, ",")).Observe(d.Seconds())
}

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.CacheLookups.WithLabelValues(keyType, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.CacheLookups.WithLabelValues(keyType, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, size int) {
	m.CacheBytes.WithLabelValues(keyType).Add(float64(size))
}

func (m *Metrics) OnRequest(context.Context, string, string) {}

func (m *Metrics) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPDurations.WithLabelValues(method, route).Observe(d.Seconds())
}

func (m *Metrics) OnError(context.Context, string, string, error) {}

// result maps an error to a bounded label value.
func result(err error) string {
	if err == nil {
		return "ok"
	}
	if code := errors.GetCode(err); code != "" {
		return string(code)
	}
	return "error"
}

func register[T prometheus.Collector](reg prometheus.Registerer, c T, name string) (T, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
			var zero T
			return zero, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		var zero T
		return zero, err
	}
	return c, nil
}

var (
	_ PipelineHooks = (*Metrics)(nil)
	_ CacheHooks    = (*Metrics)(nil)
	_ HTTPHooks     = (*Metrics)(nil)
)
