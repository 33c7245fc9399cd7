// Package handlers implements the HTTP endpoints of `mdrender serve`.
//
// Endpoints:
//
//	POST /render   body is markdown; ?renderer= and ?name= are optional.
//	               Answers text/html, or a JSON RenderResponse when the
//	               client accepts application/json or passes ?format=json.
//	GET  /health   liveness and version.
package handlers
