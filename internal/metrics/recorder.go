package metrics

import "time"

// OutcomeLabel enumerates the final states of a render.
type OutcomeLabel string

const (
	OutcomeRendered       OutcomeLabel = "rendered"
	OutcomeShortCircuited OutcomeLabel = "short_circuited"
	OutcomeFailed         OutcomeLabel = "failed"
)

// Recorder defines observability hooks for document rendering. Implementations
// may forward to Prometheus or any other backend; NoopRecorder is the default.
type Recorder interface {
	ObserveRenderDuration(renderer string, d time.Duration)
	IncRenderOutcome(renderer string, outcome OutcomeLabel)
	AddConstructs(counts map[string]int)
	ObserveDocumentSize(bytes int)
	IncHTTPRequest(route string, status int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveRenderDuration(string, time.Duration) {}
func (NoopRecorder) IncRenderOutcome(string, OutcomeLabel)       {}
func (NoopRecorder) AddConstructs(map[string]int)                {}
func (NoopRecorder) ObserveDocumentSize(int)                     {}
func (NoopRecorder) IncHTTPRequest(string, int)                  {}
