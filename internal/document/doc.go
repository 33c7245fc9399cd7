// Package document renders whole markdown documents: it splits front matter,
// applies per-document extension overrides, picks a bundled renderer by name,
// fingerprints the input and records metrics. It is the layer shared by the
// CLI, the HTTP server and the watcher.
package document
