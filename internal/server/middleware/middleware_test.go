package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	derrors "git.home.luguber.info/inful/mdrender/internal/foundation/errors"
	"git.home.luguber.info/inful/mdrender/internal/metrics"
)

type requestCounter struct {
	metrics.NoopRecorder
	seen map[string]int
}

func (c *requestCounter) IncHTTPRequest(route string, status int) {
	c.seen[route+" "+http.StatusText(status)]++
}

func chain(t *testing.T, h http.Handler) (http.Handler, *bytes.Buffer, *requestCounter) {
	t.Helper()
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	rec := &requestCounter{seen: map[string]int{}}
	return Chain(logger, derrors.NewHTTPErrorAdapter(logger), rec)(h), &logs, rec
}

func TestRequestID(t *testing.T) {
	var seen string
	h, logs, _ := chain(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestID(r.Context())
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	_, err := uuid.Parse(seen)
	require.NoError(t, err)
	assert.Equal(t, seen, w.Header().Get(RequestIDHeader))
	assert.Contains(t, logs.String(), "request_id="+seen)

	given := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, given)
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, given, seen)

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "not a uuid\nwith newline")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.NotEqual(t, "not a uuid\nwith newline", seen)
}

func TestAccessLogAndMetrics(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/render", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	h, logs, rec := chain(t, mux)

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/render", nil))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/random/path", nil))
	assert.Contains(t, logs.String(), "status=418")
	assert.Contains(t, logs.String(), "method=POST")
	assert.Equal(t, 1, rec.seen["/render I'm a teapot"])
	assert.Equal(t, 1, rec.seen["unmatched Not Found"])
}

func TestPanicRecovery(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/render", func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})
	h, logs, rec := chain(t, mux)

	w := httptest.NewRecorder()
	require.NotPanics(t, func() {
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/render", nil))
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `"internal error"`)
	assert.Contains(t, logs.String(), "HTTP handler panic")
	assert.Equal(t, 1, rec.seen["/render Internal Server Error"])
}

var _ metrics.Recorder = (*requestCounter)(nil)
