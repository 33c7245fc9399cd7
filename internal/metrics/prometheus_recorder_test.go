package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.ObserveRenderDuration("html", 150*time.Microsecond)
	pr.IncRenderOutcome("html", OutcomeRendered)
	pr.IncRenderOutcome("html", OutcomeRendered)
	pr.IncRenderOutcome("toc", OutcomeShortCircuited)
	pr.AddConstructs(map[string]int{"emphasis": 3, "paragraph": 1, "table": 0})
	pr.ObserveDocumentSize(1024)
	pr.IncHTTPRequest("/render", 200)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, mfs)

	assert.InDelta(t, 2, testutil.ToFloat64(pr.renderOutcome.WithLabelValues("html", string(OutcomeRendered))), 0)
	assert.InDelta(t, 3, testutil.ToFloat64(pr.constructs.WithLabelValues("emphasis")), 0)
	assert.Equal(t, 2, testutil.CollectAndCount(pr.constructs))
	assert.InDelta(t, 1, testutil.ToFloat64(pr.httpRequests.WithLabelValues("/render", "200")), 0)
}

func TestNilPrometheusRecorderIsSafe(t *testing.T) {
	var pr *PrometheusRecorder
	assert.NotPanics(t, func() {
		pr.ObserveRenderDuration("html", time.Millisecond)
		pr.IncRenderOutcome("html", OutcomeFailed)
		pr.AddConstructs(map[string]int{"link": 1})
		pr.ObserveDocumentSize(1)
		pr.IncHTTPRequest("/health", 200)
	})
}

func TestHTTPHandler(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.IncRenderOutcome("html", OutcomeRendered)

	rec := httptest.NewRecorder()
	HTTPHandler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "mdrender_render_outcomes_total"))
}

func TestNewRegistryCarriesRuntimeCollectors(t *testing.T) {
	reg := NewRegistry()
	NewPrometheusRecorder(reg).ObserveDocumentSize(10)

	rec := httptest.NewRecorder()
	HTTPHandler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
	assert.Contains(t, rec.Body.String(), "mdrender_document_size_bytes")
}
