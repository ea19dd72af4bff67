package prometheus

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/turtacn/ChemNomen/internal/infrastructure/monitoring/logging"
)

// MetricsCollector owns a private prometheus registry and hands out typed
// metric vectors.  Registration failures degrade to no-op vectors so a
// metric name clash can never take down the naming service.
type MetricsCollector interface {
	RegisterCounter(name, help string, labels ...string) CounterVec
	RegisterGauge(name, help string, labels ...string) GaugeVec
	RegisterHistogram(name, help string, buckets []float64, labels ...string) HistogramVec

	// Handler serves the registry in the Prometheus exposition format.
	Handler() http.Handler

	// MustRegister and Unregister pass raw collectors through to the
	// registry, for process collectors and test fixtures.
	MustRegister(collectors ...prometheus.Collector)
	Unregister(collector prometheus.Collector) bool
}

// ─────────────────────────────────────────────────────────────────────────────
// Vector and instrument interfaces
// ─────────────────────────────────────────────────────────────────────────────

// CounterVec is a labeled family of monotonically increasing counters.
type CounterVec interface {
	WithLabelValues(lvs ...string) Counter
	With(labels map[string]string) Counter
}

type Counter interface {
	Inc()
	Add(delta float64)
}

// GaugeVec is a labeled family of set-and-move values.
type GaugeVec interface {
	WithLabelValues(lvs ...string) Gauge
	With(labels map[string]string) Gauge
}

type Gauge interface {
	Set(value float64)
	Inc()
	Dec()
	Add(delta float64)
	Sub(delta float64)
}

// HistogramVec is a labeled family of bucketed observations.
type HistogramVec interface {
	WithLabelValues(lvs ...string) Histogram
	With(labels map[string]string) Histogram
}

type Histogram interface {
	Observe(value float64)
}

// ─────────────────────────────────────────────────────────────────────────────
// Collector
// ─────────────────────────────────────────────────────────────────────────────

// CollectorConfig parameterizes the collector.  Namespace is mandatory and
// prefixes every metric; Subsystem distinguishes the apiserver from the
// worker inside one namespace.
type CollectorConfig struct {
	Namespace               string
	Subsystem               string
	EnableProcessMetrics    bool
	EnableGoMetrics         bool
	DefaultHistogramBuckets []float64
	ConstLabels             map[string]string
}

type metricsCollector struct {
	registry *prometheus.Registry
	config   CollectorConfig
	logger   logging.Logger

	mu    sync.Mutex
	byFQN map[string]prometheus.Collector
}

// NewMetricsCollector builds a collector around a fresh registry, optionally
// seeded with the standard process and Go runtime collectors.
func NewMetricsCollector(cfg CollectorConfig, logger logging.Logger) (MetricsCollector, error) {
	if cfg.Namespace == "" {
		return nil, fmt.Errorf("prometheus: namespace is required")
	}
	if cfg.DefaultHistogramBuckets == nil {
		cfg.DefaultHistogramBuckets = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
	}

	registry := prometheus.NewRegistry()
	if cfg.EnableProcessMetrics {
		registry.MustRegister(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{
			Namespace: cfg.Namespace,
		}))
	}
	if cfg.EnableGoMetrics {
		registry.MustRegister(prometheus.NewGoCollector())
	}

	return &metricsCollector{
		registry: registry,
		config:   cfg,
		logger:   logger,
		byFQN:    make(map[string]prometheus.Collector),
	}, nil
}

func (c *metricsCollector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

func (c *metricsCollector) MustRegister(collectors ...prometheus.Collector) {
	c.registry.MustRegister(collectors...)
}

func (c *metricsCollector) Unregister(collector prometheus.Collector) bool {
	return c.registry.Unregister(collector)
}

// getOrRegister registers candidate under name, or returns the collector
// already registered under the same fully qualified name.  Duplicate
// registrations of the same metric are routine: every component registers
// the families it touches instead of coordinating ownership.
func (c *metricsCollector) getOrRegister(name string, candidate prometheus.Collector) (prometheus.Collector, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	fqn := prometheus.BuildFQName(c.config.Namespace, c.config.Subsystem, name)
	if existing, ok := c.byFQN[fqn]; ok {
		return existing, nil
	}
	if err := c.registry.Register(candidate); err != nil {
		return nil, err
	}
	c.byFQN[fqn] = candidate
	return candidate, nil
}

func (c *metricsCollector) opts(name, help string) prometheus.Opts {
	return prometheus.Opts{
		Namespace:   c.config.Namespace,
		Subsystem:   c.config.Subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: c.config.ConstLabels,
	}
}

func (c *metricsCollector) registrationFailed(kind, name string, err error) {
	c.logger.Error("metric registration failed",
		logging.String("kind", kind),
		logging.String("name", name),
		logging.Err(err))
}

func (c *metricsCollector) RegisterCounter(name, help string, labels ...string) CounterVec {
	vec := prometheus.NewCounterVec(prometheus.CounterOpts(c.opts(name, help)), labels)
	registered, err := c.getOrRegister(name, vec)
	if err != nil {
		c.registrationFailed("counter", name, err)
		return noopCounterVec{}
	}
	existing, ok := registered.(*prometheus.CounterVec)
	if !ok {
		c.registrationFailed("counter", name, fmt.Errorf("name already used by another metric type"))
		return noopCounterVec{}
	}
	return promCounterVec{vec: existing}
}

func (c *metricsCollector) RegisterGauge(name, help string, labels ...string) GaugeVec {
	vec := prometheus.NewGaugeVec(prometheus.GaugeOpts(c.opts(name, help)), labels)
	registered, err := c.getOrRegister(name, vec)
	if err != nil {
		c.registrationFailed("gauge", name, err)
		return noopGaugeVec{}
	}
	existing, ok := registered.(*prometheus.GaugeVec)
	if !ok {
		c.registrationFailed("gauge", name, fmt.Errorf("name already used by another metric type"))
		return noopGaugeVec{}
	}
	return promGaugeVec{vec: existing}
}

func (c *metricsCollector) RegisterHistogram(name, help string, buckets []float64, labels ...string) HistogramVec {
	if buckets == nil {
		buckets = c.config.DefaultHistogramBuckets
	}
	o := c.opts(name, help)
	vec := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   o.Namespace,
		Subsystem:   o.Subsystem,
		Name:        o.Name,
		Help:        o.Help,
		ConstLabels: o.ConstLabels,
		Buckets:     buckets,
	}, labels)
	registered, err := c.getOrRegister(name, vec)
	if err != nil {
		c.registrationFailed("histogram", name, err)
		return noopHistogramVec{}
	}
	existing, ok := registered.(*prometheus.HistogramVec)
	if !ok {
		c.registrationFailed("histogram", name, fmt.Errorf("name already used by another metric type"))
		return noopHistogramVec{}
	}
	return promHistogramVec{vec: existing}
}

// ─────────────────────────────────────────────────────────────────────────────
// Backing implementations
// ─────────────────────────────────────────────────────────────────────────────

type promCounterVec struct{ vec *prometheus.CounterVec }

func (v promCounterVec) WithLabelValues(lvs ...string) Counter {
	return promCounter{c: v.vec.WithLabelValues(lvs...)}
}
func (v promCounterVec) With(labels map[string]string) Counter {
	return promCounter{c: v.vec.With(labels)}
}

type promCounter struct{ c prometheus.Counter }

func (c promCounter) Inc()              { c.c.Inc() }
func (c promCounter) Add(delta float64) { c.c.Add(delta) }

type promGaugeVec struct{ vec *prometheus.GaugeVec }

func (v promGaugeVec) WithLabelValues(lvs ...string) Gauge {
	return promGauge{g: v.vec.WithLabelValues(lvs...)}
}
func (v promGaugeVec) With(labels map[string]string) Gauge {
	return promGauge{g: v.vec.With(labels)}
}

type promGauge struct{ g prometheus.Gauge }

func (g promGauge) Set(value float64) { g.g.Set(value) }
func (g promGauge) Inc()              { g.g.Inc() }
func (g promGauge) Dec()              { g.g.Dec() }
func (g promGauge) Add(delta float64) { g.g.Add(delta) }
func (g promGauge) Sub(delta float64) { g.g.Sub(delta) }

type promHistogramVec struct{ vec *prometheus.HistogramVec }

func (v promHistogramVec) WithLabelValues(lvs ...string) Histogram {
	return promHistogram{h: v.vec.WithLabelValues(lvs...)}
}
func (v promHistogramVec) With(labels map[string]string) Histogram {
	return promHistogram{h: v.vec.With(labels)}
}

type promHistogram struct{ h prometheus.Observer }

func (h promHistogram) Observe(value float64) { h.h.Observe(value) }

// No-op fallbacks returned when registration fails.

type noopCounterVec struct{}

func (noopCounterVec) WithLabelValues(...string) Counter { return noopCounter{} }
func (noopCounterVec) With(map[string]string) Counter    { return noopCounter{} }

type noopCounter struct{}

func (noopCounter) Inc()        {}
func (noopCounter) Add(float64) {}

type noopGaugeVec struct{}

func (noopGaugeVec) WithLabelValues(...string) Gauge { return noopGauge{} }
func (noopGaugeVec) With(map[string]string) Gauge    { return noopGauge{} }

type noopGauge struct{}

func (noopGauge) Set(float64) {}
func (noopGauge) Inc()        {}
func (noopGauge) Dec()        {}
func (noopGauge) Add(float64) {}
func (noopGauge) Sub(float64) {}

type noopHistogramVec struct{}

func (noopHistogramVec) WithLabelValues(...string) Histogram { return noopHistogram{} }
func (noopHistogramVec) With(map[string]string) Histogram    { return noopHistogram{} }

type noopHistogram struct{}

func (noopHistogram) Observe(float64) {}

// ─────────────────────────────────────────────────────────────────────────────
// Timer
// ─────────────────────────────────────────────────────────────────────────────

// Timer measures one duration into a histogram.
type Timer struct {
	histogram Histogram
	start     time.Time
}

func NewTimer(histogram Histogram) *Timer {
	return &Timer{histogram: histogram, start: time.Now()}
}

func (t *Timer) ObserveDuration() {
	if t.histogram == nil {
		return
	}
	t.histogram.Observe(time.Since(t.start).Seconds())
}
