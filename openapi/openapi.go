// Package openapi embeds the OpenAPI description of the trip store API.
// The server exposes it at /openapi.yaml.
package openapi

import (
	_ "embed"
	"net/http"
)

// Document contains the raw bytes of openapi.yaml, embedded at compile time.
//
//go:embed openapi.yaml
var Document []byte

// Handler serves Document.
func Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(Document)
	})
}
