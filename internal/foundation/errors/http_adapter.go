package errors

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// HTTPErrorAdapter writes errors as JSON bodies with a status derived from
// their category.
type HTTPErrorAdapter struct {
	logger *slog.Logger
}

// NewHTTPErrorAdapter logs through logger, or slog.Default when nil.
func NewHTTPErrorAdapter(logger *slog.Logger) *HTTPErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPErrorAdapter{logger: logger}
}

// HTTPErrorResponse is the JSON body of every error response.
type HTTPErrorResponse struct {
	Error   string       `json:"error"`
	Code    string       `json:"code,omitempty"`
	Details ErrorContext `json:"details,omitempty"`
}

// StatusCodeFor maps err to a response status. Unclassified errors are 500s.
func (a *HTTPErrorAdapter) StatusCodeFor(err error) int {
	if err == nil {
		return http.StatusOK
	}
	return GetCategory(err).HTTPStatus()
}

// FormatErrorResponse builds the body for err. Internal errors hide their
// message.
func (a *HTTPErrorAdapter) FormatErrorResponse(err error) HTTPErrorResponse {
	ce, ok := AsClassified(err)
	switch {
	case err == nil:
		return HTTPErrorResponse{}
	case !ok:
		return HTTPErrorResponse{Error: err.Error(), Code: string(CategoryInternal)}
	case ce.category == CategoryInternal:
		return HTTPErrorResponse{Error: "internal error", Code: string(ce.category)}
	}
	return HTTPErrorResponse{Error: ce.message, Code: string(ce.category), Details: ce.context}
}

// WriteErrorResponse writes err and logs it at a level matching its
// severity. Client errors are logged at warn.
func (a *HTTPErrorAdapter) WriteErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		w.WriteHeader(http.StatusOK)
		return
	}
	status := a.StatusCodeFor(err)
	body, jerr := json.Marshal(a.FormatErrorResponse(err))
	if jerr != nil {
		body = []byte(`{"error":"internal error"}`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))

	level := slog.LevelError
	if ce, ok := AsClassified(err); ok {
		level = ce.severity.level()
	}
	if status < http.StatusInternalServerError {
		level = slog.LevelWarn
	}
	a.logger.LogAttrs(r.Context(), level, "Request failed",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Int("status", status),
		slog.String("error", err.Error()))
}
