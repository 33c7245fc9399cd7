package httpserver

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/mdrender/internal/config"
	"git.home.luguber.info/inful/mdrender/internal/document"
	"git.home.luguber.info/inful/mdrender/internal/metrics"
)

func newServer(t *testing.T) (*Server, *metrics.PrometheusRecorder) {
	t.Helper()
	reg := prometheus.NewRegistry()
	rec := metrics.NewPrometheusRecorder(reg)

	svc, err := document.NewService(document.Config{}, document.WithRecorder(rec))
	require.NoError(t, err)

	cfg := config.Default().Server
	cfg.Addr = "127.0.0.1:0"
	return New(cfg, svc, Options{
		Recorder:       rec,
		MetricsHandler: metrics.HTTPHandler(reg),
		Logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
	}), rec
}

func TestHandlerRoutes(t *testing.T) {
	s, _ := newServer(t)
	h := s.Handler()

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/render", strings.NewReader("# x\n")))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "<h1>x</h1>\n", w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "mdrender_render_outcomes_total")
	assert.Contains(t, w.Body.String(), "mdrender_http_requests_total")
}

func TestRunAndShutdown(t *testing.T) {
	s, _ := newServer(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	require.Eventually(t, func() bool { return s.Addr() != "" }, 2*time.Second, 10*time.Millisecond)

	resp, err := http.Post("http://"+s.Addr()+"/render?renderer=toc", "text/markdown", bytes.NewBufferString("# A\n"))
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `<a href="#a">A</a>`)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestStartBindError(t *testing.T) {
	s, _ := newServer(t)
	require.NoError(t, s.Start(context.Background()))
	t.Cleanup(func() { _ = s.Stop(context.Background()) })

	other, _ := newServer(t)
	other.cfg.Addr = s.Addr()
	require.Error(t, other.Start(context.Background()))
}
