// Package responses defines the JSON bodies written by the mdrender server.
package responses

import "time"

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Uptime    float64   `json:"uptime"`
	Renderers []string  `json:"renderers"`
}

// RenderResponse is the body of POST /render when JSON is requested.
type RenderResponse struct {
	Name        string         `json:"name"`
	Renderer    string         `json:"renderer"`
	Title       string         `json:"title,omitempty"`
	Rendered    bool           `json:"rendered"`
	HTML        string         `json:"html"`
	Fingerprint string         `json:"fingerprint"`
	Constructs  map[string]int `json:"constructs"`
	Links       []Link         `json:"links,omitempty"`
	DurationMS  float64        `json:"duration_ms"`
}

// Link is one collected destination of the links renderer.
type Link struct {
	Kind        string `json:"kind"`
	Destination string `json:"destination"`
	Title       string `json:"title,omitempty"`
}
