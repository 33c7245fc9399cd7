package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type testRecorder struct {
	durations  map[string]int
	outcomes   map[OutcomeLabel]int
	constructs map[string]int
	sizes      int
	requests   map[string]int
}

func newTestRecorder() *testRecorder {
	return &testRecorder{
		durations:  map[string]int{},
		outcomes:   map[OutcomeLabel]int{},
		constructs: map[string]int{},
		requests:   map[string]int{},
	}
}

func (t *testRecorder) ObserveRenderDuration(renderer string, _ time.Duration) {
	t.durations[renderer]++
}
func (t *testRecorder) IncRenderOutcome(_ string, outcome OutcomeLabel) { t.outcomes[outcome]++ }
func (t *testRecorder) AddConstructs(counts map[string]int) {
	for k, v := range counts {
		t.constructs[k] += v
	}
}
func (t *testRecorder) ObserveDocumentSize(int)            { t.sizes++ }
func (t *testRecorder) IncHTTPRequest(route string, _ int) { t.requests[route]++ }

var (
	_ Recorder = (*testRecorder)(nil)
	_ Recorder = NoopRecorder{}
	_ Recorder = (*PrometheusRecorder)(nil)
)

func TestRecorderInjection(t *testing.T) {
	rec := newTestRecorder()
	var r Recorder = rec
	r.ObserveRenderDuration("html", time.Millisecond)
	r.IncRenderOutcome("html", OutcomeRendered)
	r.AddConstructs(map[string]int{"link": 2})
	r.AddConstructs(map[string]int{"link": 1})

	assert.Equal(t, 1, rec.durations["html"])
	assert.Equal(t, 1, rec.outcomes[OutcomeRendered])
	assert.Equal(t, 3, rec.constructs["link"])
}
