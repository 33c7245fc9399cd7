package handlers

import (
	"context"
	stdErrors "errors"
	"io"
	"net/http"
	"strings"

	"git.home.luguber.info/inful/mdrender/internal/document"
	"git.home.luguber.info/inful/mdrender/internal/foundation/errors"
	"git.home.luguber.info/inful/mdrender/internal/server/responses"
)

// DefaultDocumentName is used when a request carries no ?name=.
const DefaultDocumentName = "request.md"

// RenderService is the part of document.Service the handlers need.
type RenderService interface {
	RenderAs(ctx context.Context, renderer, name string, src []byte) (*document.Result, error)
}

// RenderHandlers serves POST /render.
type RenderHandlers struct {
	svc          RenderService
	maxBodyBytes int64
	errorAdapter *errors.HTTPErrorAdapter
}

// NewRenderHandlers builds the render endpoint. Bodies above maxBodyBytes are
// rejected with 413.
func NewRenderHandlers(svc RenderService, maxBodyBytes int64, adapter *errors.HTTPErrorAdapter) *RenderHandlers {
	return &RenderHandlers{svc: svc, maxBodyBytes: maxBodyBytes, errorAdapter: adapter}
}

func (h *RenderHandlers) HandleRender(w http.ResponseWriter, r *http.Request) {
	if err := requireMethod(http.MethodPost, r); err != nil {
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}

	src, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stdErrors.As(err, &tooLarge) {
			body := h.errorAdapter.FormatErrorResponse(errors.ValidationError("request body too large").
				WithContext("limit_bytes", tooLarge.Limit).
				Build())
			_ = writeJSON(w, r, http.StatusRequestEntityTooLarge, body)
			return
		}
		h.errorAdapter.WriteErrorResponse(w, r,
			errors.WrapError(err, errors.CategoryValidation, "failed to read request body").Build())
		return
	}

	q := r.URL.Query()
	name := q.Get("name")
	if name == "" {
		name = DefaultDocumentName
	}

	res, err := h.svc.RenderAs(r.Context(), q.Get("renderer"), name, src)
	if err != nil {
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}

	asJSON := wantsJSON(r)
	etag := responseETag(res.Fingerprint, asJSON)
	w.Header().Set("ETag", etag)
	w.Header().Set("Vary", "Accept")
	w.Header().Set("X-Renderer", string(res.Renderer))
	if etagMatches(r.Header.Get("If-None-Match"), etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	if !res.Rendered {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if asJSON {
		if err := writeJSON(w, r, http.StatusOK, renderResponse(res)); err != nil {
			h.errorAdapter.WriteErrorResponse(w, r,
				errors.WrapError(err, errors.CategoryInternal, "failed to write render response").Build())
		}
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, res.HTML)
}

func renderResponse(res *document.Result) *responses.RenderResponse {
	out := &responses.RenderResponse{
		Name:        res.Name,
		Renderer:    string(res.Renderer),
		Title:       res.Title,
		Rendered:    res.Rendered,
		HTML:        res.HTML,
		Fingerprint: res.Fingerprint,
		Constructs:  res.Stats.Map(),
		DurationMS:  float64(res.Duration.Microseconds()) / 1000,
	}
	for _, l := range res.Links {
		out.Links = append(out.Links, responses.Link{Kind: string(l.Kind), Destination: l.Destination, Title: l.Title})
	}
	return out
}

func wantsJSON(r *http.Request) bool {
	if r.URL.Query().Get("format") == "json" {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

// responseETag keys the entity tag on the response format as well as the
// document fingerprint.
func responseETag(fingerprint string, asJSON bool) string {
	if asJSON {
		return `"` + fingerprint + `-json"`
	}
	return `"` + fingerprint + `"`
}

func etagMatches(header, etag string) bool {
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" || strings.TrimPrefix(candidate, "W/") == etag {
			return true
		}
	}
	return false
}
