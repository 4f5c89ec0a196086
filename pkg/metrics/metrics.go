package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"face-animation/pkg/queue"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors of one service on its own registry.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	RendersTotal   *prometheus.CounterVec
	RenderDuration *prometheus.HistogramVec
}

func New(namespace string) *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "http_requests_in_flight",
				Help:      "Current number of HTTP requests being processed",
			},
		),
		RendersTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "renders_total",
				Help:      "Total animation renders by task type and result",
			},
			[]string{"type", "status"},
		),
		RenderDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "render_duration_seconds",
				Help:      "Animation render duration in seconds",
				Buckets:   []float64{0.05, 0.1, 0.5, 1, 5, 10, 30, 60, 120},
			},
			[]string{"type"},
		),
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// GinMiddleware records every request under its route pattern, so ids in
// paths do not create new series.
func (m *Metrics) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		m.HTTPRequestsInFlight.Inc()
		defer m.HTTPRequestsInFlight.Dec()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.HTTPRequestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		m.HTTPRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// QueueDepth exports the number of tasks waiting in the queue, read on scrape.
func (m *Metrics) QueueDepth(namespace string, length func() (int, error)) {
	m.registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "queue_pending_tasks",
			Help:      "Animation tasks waiting in the queue",
		},
		func() float64 {
			n, err := length()
			if err != nil {
				return -1
			}
			return float64(n)
		},
	))
}

// Renderer is the render step being measured.
type Renderer interface {
	Render(ctx context.Context, task queue.AnimationTask) error
}

type instrumentedRenderer struct {
	next    Renderer
	metrics *Metrics
}

// InstrumentRenderer counts and times every render of next.
func (m *Metrics) InstrumentRenderer(next Renderer) Renderer {
	return &instrumentedRenderer{next: next, metrics: m}
}

func (r *instrumentedRenderer) Render(ctx context.Context, task queue.AnimationTask) error {
	start := time.Now()
	err := r.next.Render(ctx, task)

	status := "completed"
	if err != nil {
		status = "failed"
	}
	r.metrics.RendersTotal.WithLabelValues(task.Type, status).Inc()
	r.metrics.RenderDuration.WithLabelValues(task.Type).Observe(time.Since(start).Seconds())
	return err
}
