package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/mdrender/internal/document"
	"git.home.luguber.info/inful/mdrender/internal/foundation/errors"
	"git.home.luguber.info/inful/mdrender/internal/options"
	"git.home.luguber.info/inful/mdrender/internal/server/responses"
)

func newRenderHandlers(t *testing.T, maxBody int64) *RenderHandlers {
	t.Helper()
	svc, err := document.NewService(document.Config{Extensions: options.Of(options.Autolink)})
	require.NoError(t, err)
	return NewRenderHandlers(svc, maxBody, errors.NewHTTPErrorAdapter(slog.Default()))
}

func post(h http.HandlerFunc, target, body string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	h(w, req)
	return w
}

func TestHandleRender_HTML(t *testing.T) {
	h := newRenderHandlers(t, 1024)

	w := post(h.HandleRender, "/render", "Hello *world*\n", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, "html", w.Header().Get("X-Renderer"))
	assert.Equal(t, "<p>Hello <em>world</em></p>\n", w.Body.String())

	etag := w.Header().Get("ETag")
	require.NotEmpty(t, etag)

	again := post(h.HandleRender, "/render", "Hello *world*\n", map[string]string{"If-None-Match": etag})
	assert.Equal(t, http.StatusNotModified, again.Code)
	assert.Empty(t, again.Body.String())

	weak := post(h.HandleRender, "/render", "Hello *world*\n", map[string]string{"If-None-Match": `"other", W/` + etag})
	assert.Equal(t, http.StatusNotModified, weak.Code)

	changed := post(h.HandleRender, "/render", "Hello *there*\n", map[string]string{"If-None-Match": etag})
	assert.Equal(t, http.StatusOK, changed.Code)
	assert.NotEqual(t, etag, changed.Header().Get("ETag"))
}

func TestHandleRender_JSON(t *testing.T) {
	h := newRenderHandlers(t, 1024)

	w := post(h.HandleRender, "/render?renderer=links&name=a.md", "see http://x.org and [y](/y)\n",
		map[string]string{"Accept": "application/json"})
	require.Equal(t, http.StatusOK, w.Code)

	var body responses.RenderResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "a.md", body.Name)
	assert.Equal(t, "links", body.Renderer)
	assert.True(t, body.Rendered)
	assert.Equal(t, []responses.Link{
		{Kind: "auto", Destination: "http://x.org"},
		{Kind: "link", Destination: "/y"},
	}, body.Links)
	assert.Equal(t, 1, body.Constructs["autolink"])
}

func TestHandleRender_Errors(t *testing.T) {
	h := newRenderHandlers(t, 16)

	w := post(h.HandleRender, "/render", strings.Repeat("x", 17), nil)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Contains(t, w.Body.String(), "request body too large")

	w = post(h.HandleRender, "/render?renderer=pdf", "x", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "unknown renderer")

	w = post(h.HandleRender, "/render", "---\nx: 1\n", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/render", nil)
	rec := httptest.NewRecorder()
	h.HandleRender(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid HTTP method")
}

type declining struct{}

func (declining) RenderAs(_ context.Context, renderer, name string, _ []byte) (*document.Result, error) {
	return &document.Result{Name: name, Renderer: "html", Fingerprint: "fp"}, nil
}

func TestHandleRender_NotRendered(t *testing.T) {
	h := NewRenderHandlers(declining{}, 1024, errors.NewHTTPErrorAdapter(slog.Default()))
	w := post(h.HandleRender, "/render", "x", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, `"fp"`, w.Header().Get("ETag"))
}

func TestHandleHealthCheck(t *testing.T) {
	h := NewHealthHandlers(time.Now().Add(-time.Minute), errors.NewHTTPErrorAdapter(slog.Default()))

	w := httptest.NewRecorder()
	h.HandleHealthCheck(w, httptest.NewRequest(http.MethodGet, "/health?pretty=1", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "\n  \"status\": \"healthy\"")

	var body responses.HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.GreaterOrEqual(t, body.Uptime, 60.0)
	assert.Contains(t, body.Renderers, "toc")

	w = httptest.NewRecorder()
	h.HandleHealthCheck(w, httptest.NewRequest(http.MethodPost, "/health", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleRender_ETagPerFormat(t *testing.T) {
	h := newRenderHandlers(t, 1024)
	doc := "Hello *world*\n"

	page := post(h.HandleRender, "/render", doc, nil)
	require.Equal(t, http.StatusOK, page.Code)
	assert.Equal(t, "Accept", page.Header().Get("Vary"))

	data := post(h.HandleRender, "/render?format=json", doc, nil)
	require.Equal(t, http.StatusOK, data.Code)
	assert.NotEqual(t, page.Header().Get("ETag"), data.Header().Get("ETag"))

	cross := post(h.HandleRender, "/render?format=json", doc, map[string]string{"If-None-Match": page.Header().Get("ETag")})
	assert.Equal(t, http.StatusOK, cross.Code)
	assert.Contains(t, cross.Body.String(), `"rendered"`)

	same := post(h.HandleRender, "/render", doc,
		map[string]string{"Accept": "application/json", "If-None-Match": data.Header().Get("ETag")})
	assert.Equal(t, http.StatusNotModified, same.Code)
}

func TestEtagMatches(t *testing.T) {
	assert.True(t, etagMatches("*", `"a"`))
	assert.True(t, etagMatches(`"b", "a"`, `"a"`))
	assert.False(t, etagMatches("", `"a"`))
	assert.False(t, etagMatches(`"b"`, `"a"`))
}
