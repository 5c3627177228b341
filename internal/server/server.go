// Package server implements the terrviz web UI: a small chi application
// that accepts an uploaded auth.json, runs the visualization pipeline, and
// returns the rendered hierarchy as a download.
package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/terrviz/terrviz/pkg/cache"
	"github.com/terrviz/terrviz/pkg/pipeline"
	"github.com/terrviz/terrviz/pkg/salesforce"
)

// maxUploadBytes bounds the auth.json upload; real auth files are tiny.
const maxUploadBytes = 1 << 20

// contentTypes maps artifact formats to response content types.
var contentTypes = map[string]string{
	"svg":  "image/svg+xml",
	"png":  "image/png",
	"pdf":  "application/pdf",
	"dot":  "text/vnd.graphviz",
	"json": "application/json",
}

// Config holds the server's pipeline settings.
type Config struct {
	Addr       string   // listen address, e.g. ":8080"
	APIVersion string   // Salesforce API version
	Query      string   // SOQL override, empty for default
	Palette    []string // edge palette override
	QueryTTL   time.Duration
}

// Server routes visualization requests to the pipeline.
type Server struct {
	runner *pipeline.Runner
	cache  cache.Cache
	cfg    Config
	logger *log.Logger
	router chi.Router
}

// New creates a Server with its routes registered.
func New(runner *pipeline.Runner, c cache.Cache, cfg Config, logger *log.Logger) *Server {
	s := &Server{
		runner: runner,
		cache:  c,
		cfg:    cfg,
		logger: logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(s.requestID)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Post("/visualize", s.handleVisualize)
	r.Get("/healthz", s.handleHealth)

	s.router = r
	return s
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe starts the HTTP server on the configured address.
func (s *Server) ListenAndServe() error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("listening", "addr", s.cfg.Addr)
	return srv.ListenAndServe()
}

// requestID tags every request with a UUID and logs its outcome.
func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set("X-Request-ID", id)

		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.logger.Info("request",
			"id", id,
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"elapsed", time.Since(start).Round(time.Millisecond))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintln(w, "ok")
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, indexHTML)
}

// handleVisualize accepts a multipart form with the auth.json upload plus
// format and size fields, runs the pipeline, and returns the artifact as
// an attachment.
func (s *Server) handleVisualize(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "invalid upload: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("auth")
	if err != nil {
		http.Error(w, "missing auth.json upload", http.StatusBadRequest)
		return
	}
	defer file.Close()

	auth, err := salesforce.LoadAuth(file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	format := r.FormValue("format")
	if format == "" {
		format = pipeline.DefaultFormat
	}
	opts := pipeline.Options{
		Query:   s.cfg.Query,
		Formats: []string{format},
		Size:    r.FormValue("size"),
		Palette: s.cfg.Palette,
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	fetcher := &pipeline.CachedFetcher{
		Fetcher: salesforce.NewClient(auth, s.cfg.APIVersion),
		Cache:   s.cache,
		Key: func(soql string) string {
			return cache.QueryKey(auth.InstanceURL, soql)
		},
		TTL: s.cfg.QueryTTL,
	}

	result, err := s.runner.Execute(r.Context(), fetcher, opts)
	if err != nil {
		s.logger.Error("visualize failed", "err", err)
		http.Error(w, "visualization failed: "+err.Error(), http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "territories."+format))
	_, _ = w.Write(result.Artifacts[format])
}

const indexHTML = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>Territory Visualizer</title>
  <style>
    body { font-family: Helvetica, Arial, sans-serif; max-width: 40rem; margin: 3rem auto; }
    label { display: block; margin-top: 1rem; }
    button { margin-top: 1.5rem; padding: 0.5rem 1.5rem; }
  </style>
</head>
<body>
  <h1>Territory Visualizer</h1>
  <p>Upload your org's auth.json, pick a format, and download the
  territory hierarchy as a graph.</p>
  <form action="/visualize" method="post" enctype="multipart/form-data">
    <label>auth.json
      <input type="file" name="auth" accept=".json" required>
    </label>
    <label>Format
      <select name="format">
        <option value="svg">SVG</option>
        <option value="png">PNG</option>
        <option value="pdf">PDF</option>
        <option value="dot">DOT</option>
      </select>
    </label>
    <label>Size (width,height)
      <input type="text" name="size" value="800,800">
    </label>
    <button type="submit">Visualize</button>
  </form>
</body>
</html>
`
