package metrics

import (
	"strconv"
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "mdrender"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once           sync.Once
	renderDuration *prom.HistogramVec
	renderOutcome  *prom.CounterVec
	constructs     *prom.CounterVec
	documentSize   prom.Histogram
	httpRequests   *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.renderDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "render_duration_seconds",
			Help:      "Duration of document renders",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
		}, []string{"renderer"})
		pr.renderOutcome = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "render_outcomes_total",
			Help:      "Render outcomes by renderer and final status",
		}, []string{"renderer", "outcome"})
		pr.constructs = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "constructs_total",
			Help:      "Constructs dispatched to renderers by kind",
		}, []string{"kind"})
		pr.documentSize = prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "document_size_bytes",
			Help:      "Size of rendered source documents",
			Buckets:   prom.ExponentialBuckets(256, 4, 8),
		})
		pr.httpRequests = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code",
		}, []string{"route", "status"})
		reg.MustRegister(pr.renderDuration, pr.renderOutcome, pr.constructs, pr.documentSize, pr.httpRequests)
	})
	return pr
}

func (p *PrometheusRecorder) ObserveRenderDuration(renderer string, d time.Duration) {
	if p == nil || p.renderDuration == nil {
		return
	}
	p.renderDuration.WithLabelValues(renderer).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncRenderOutcome(renderer string, outcome OutcomeLabel) {
	if p == nil || p.renderOutcome == nil {
		return
	}
	p.renderOutcome.WithLabelValues(renderer, string(outcome)).Inc()
}

func (p *PrometheusRecorder) AddConstructs(counts map[string]int) {
	if p == nil || p.constructs == nil {
		return
	}
	for kind, n := range counts {
		if n > 0 {
			p.constructs.WithLabelValues(kind).Add(float64(n))
		}
	}
}

func (p *PrometheusRecorder) ObserveDocumentSize(bytes int) {
	if p == nil || p.documentSize == nil {
		return
	}
	p.documentSize.Observe(float64(bytes))
}

func (p *PrometheusRecorder) IncHTTPRequest(route string, status int) {
	if p == nil || p.httpRequests == nil {
		return
	}
	p.httpRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
}
