package handlers

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"

	"git.home.luguber.info/inful/mdrender/internal/logfields"
)

// writeJSON buffers the encoding so a failed encode leaves the response
// untouched. ?pretty=1 or ?pretty=true indents the body.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	if r != nil && wantsPretty(r) {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		slog.Error("Encoding JSON response failed", logfields.Error(err))
		return err
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, err := w.Write(buf.Bytes())
	return err
}

func wantsPretty(r *http.Request) bool {
	switch r.URL.Query().Get("pretty") {
	case "1", "true":
		return true
	}
	return false
}

func requireMethod(method string, r *http.Request) error {
	if r.Method == method {
		return nil
	}
	return methodError(r.Method, method)
}
