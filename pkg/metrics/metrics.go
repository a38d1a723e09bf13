package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "apina"

// DefaultBuckets are the latency buckets for request durations, in seconds.
var DefaultBuckets = []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5}

// Collector holds the apina metrics.
type Collector struct {
	RequestsTotal    *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	RequestsInFlight prometheus.Gauge
	Objects          prometheus.Gauge

	startTime time.Time
}

// New creates a Collector and registers its metrics with reg.
func New(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)
	c := &Collector{startTime: time.Now()}

	c.RequestsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Total number of answered requests",
		},
		[]string{"verb", "type", "code"},
	)
	c.RequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help:      "Time spent dispatching a request in seconds",
			Buckets:   DefaultBuckets,
		},
		[]string{"verb", "type"},
	)
	c.RequestsInFlight = factory.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "requests_in_flight",
			Help:      "Number of HTTP requests currently being served",
		},
	)
	c.Objects = factory.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "objects",
			Help:      "Number of stored objects, schemas included",
		},
	)
	factory.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "uptime_seconds",
			Help:      "Seconds since the server started",
		},
		func() float64 { return time.Since(c.startTime).Seconds() },
	)
	return c
}

// NewRegistry creates a registry with the Go runtime and process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// OnDispatch records one answered request.
func (c *Collector) OnDispatch(verb, resourceType string, code int, duration time.Duration) {
	c.RequestsTotal.WithLabelValues(verb, resourceType, strconv.Itoa(code)).Inc()
	c.RequestDuration.WithLabelValues(verb, resourceType).Observe(duration.Seconds())
}

// ObserveObjects sets the stored object count.
func (c *Collector) ObserveObjects(n int) {
	c.Objects.Set(float64(n))
}

// InFlight wraps next so the in-flight gauge tracks it.
func (c *Collector) InFlight(next http.Handler) http.Handler {
	return promhttp.InstrumentHandlerInFlight(c.RequestsInFlight, next)
}

// Handler serves the metrics gathered by g in the Prometheus exposition format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
