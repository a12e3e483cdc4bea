package cli

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/aretw0/vine"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const maxPipelineBytes = 1 << 20

// NewHandler exposes health, version, metrics and pipeline explanation over HTTP.
// Pipelines are never executed by the server.
func NewHandler(eng *vine.Engine, gatherer prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = io.WriteString(w, "ok\n")
	})
	r.Get("/version", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"version": vine.Version})
	})
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Post("/explain", func(w http.ResponseWriter, req *http.Request) {
		body, err := io.ReadAll(http.MaxBytesReader(w, req.Body, maxPipelineBytes))
		if err != nil {
			http.Error(w, err.Error(), http.StatusRequestEntityTooLarge)
			return
		}
		ext := ".yaml"
		if strings.HasPrefix(req.Header.Get("Content-Type"), "application/json") {
			ext = ".json"
		}
		t, err := eng.Parse(body, ext)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		format := req.URL.Query().Get("format")
		out, err := Describe(t, ExplainOptions{
			Format:    format,
			Highlight: req.URL.Query()["highlight"],
			Focus:     req.URL.Query().Get("focus"),
		}, false)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if strings.EqualFold(format, "mermaid") {
			w.Header().Set("Content-Type", "text/plain")
		} else {
			w.Header().Set("Content-Type", "text/markdown")
		}
		_, _ = io.WriteString(w, out)
	})

	return r
}
