package handlers

import (
	"net/http"
	"time"

	"git.home.luguber.info/inful/mdrender/internal/foundation/errors"
	"git.home.luguber.info/inful/mdrender/internal/render"
	"git.home.luguber.info/inful/mdrender/internal/server/responses"
	"git.home.luguber.info/inful/mdrender/internal/version"
)

// HealthHandlers serves GET /health.
type HealthHandlers struct {
	start        time.Time
	errorAdapter *errors.HTTPErrorAdapter
}

// NewHealthHandlers records start as the server start time.
func NewHealthHandlers(start time.Time, adapter *errors.HTTPErrorAdapter) *HealthHandlers {
	return &HealthHandlers{start: start, errorAdapter: adapter}
}

func (h *HealthHandlers) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	if err := requireMethod(http.MethodGet, r); err != nil {
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}

	health := &responses.HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Version:   version.Version,
		Uptime:    time.Since(h.start).Seconds(),
		Renderers: render.Names(),
	}
	if err := writeJSON(w, r, http.StatusOK, health); err != nil {
		h.errorAdapter.WriteErrorResponse(w, r,
			errors.WrapError(err, errors.CategoryInternal, "failed to write health response").Build())
	}
}

func methodError(got, want string) error {
	return errors.ValidationError("invalid HTTP method").
		WithContext("method", got).
		WithContext("allowed_method", want).
		Build()
}
