// Package metrics provides render metrics behind a small Recorder interface.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so no nil checks are needed at call sites:
//
//	svc := document.NewService(cfg, document.WithRecorder(metrics.NoopRecorder{}))
//
// When metrics are enabled the server swaps in a PrometheusRecorder bound to
// its own registry and exposes it with HTTPHandler.
package metrics
