// Package swagger serves the OpenAPI description of the local API.
package swagger

import (
	"net/http"
)

// Register attaches the API description routes to mux.
// Routes:
//
//	GET /openapi.yaml -> embedded OpenAPI document
//	GET /api-docs     -> plain HTML index of the documented paths
func Register(mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}

	mux.HandleFunc("GET /openapi.yaml", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/yaml; charset=utf-8")
		_, _ = w.Write(OpenAPI)
	})

	mux.HandleFunc("GET /api-docs", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(indexHTML))
	})
}

// indexHTML links the raw document; the app runs offline so no viewer script is loaded.
const indexHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8">
    <title>Architect API</title>
  </head>
  <body>
    <h1>Architect local API</h1>
    <p>The OpenAPI document is served at <a href="/openapi.yaml">/openapi.yaml</a>.</p>
  </body>
</html>`
