package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/modgraph/modgraph/pkg/graph"
	"github.com/modgraph/modgraph/pkg/pipeline"
)

// contentTypes maps output formats to their HTTP content types.
var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatPDF:  "application/pdf",
	pipeline.FormatDOT:  "text/vnd.graphviz",
	pipeline.FormatJSON: "application/json",
}

// serveCommand creates the serve command for the HTTP endpoint.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string
	var noCache bool

	cmd := &cobra.Command{
		Use:   "serve [modules.json]",
		Short: "Serve rendered graphs over HTTP",
		Long: `Serve rendered graphs over HTTP.

The server re-reads the catalog on every request, so edits to the file show
up on the next reload. Rendered artifacts are cached by content, making
repeated requests for an unchanged catalog cheap.

Endpoints:
  GET /healthz                  liveness probe
  GET /graph?programme=CS       validated graph as JSON
  GET /render?format=svg        rendered graph (svg, png, pdf, dot)`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), args[0], addr, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// runServe starts the HTTP server and blocks until the context is cancelled.
func (c *CLI) runServe(ctx context.Context, input, addr string, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	s := &server{cli: c, runner: runner, input: input}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	r.Get("/graph", s.handleGraph)
	r.Get("/render", s.handleRender)

	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		c.Logger.Info("serving module graphs", "addr", addr, "input", input)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// server holds the handler state for the serve command.
type server struct {
	cli    *CLI
	runner *pipeline.Runner
	input  string
}

// logRequests logs each request with the runner's logger and attaches it to
// the request context.
func (s *server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r.WithContext(withLogger(r.Context(), s.cli.Logger)))
		s.cli.Logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"query", r.URL.RawQuery,
			"duration", time.Since(start).Round(time.Millisecond))
	})
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "ok")
}

// handleGraph serves the validated graph as JSON.
func (s *server) handleGraph(w http.ResponseWriter, r *http.Request) {
	opts := s.requestOptions(r)
	opts.Formats = []string{pipeline.FormatJSON}

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", contentTypes[pipeline.FormatJSON])
	w.Header().Set("ETag", `"`+result.GraphHash+`"`)
	_, _ = w.Write(result.Artifacts[pipeline.FormatJSON])
}

// handleRender serves a rendered artifact in the requested format.
func (s *server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	loggerFromContext(r.Context()).Debug("render request", "format", format)

	opts := s.requestOptions(r)
	opts.Formats = []string{format}

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("ETag", `"`+result.GraphHash+`"`)
	_, _ = w.Write(result.Artifacts[format])
}

// requestOptions maps query parameters onto pipeline options, starting from
// the configured defaults.
func (s *server) requestOptions(r *http.Request) pipeline.Options {
	q := r.URL.Query()

	opts := s.cli.pipelineOptions(s.input)
	opts.Programme = q.Get("programme")
	if rankdir := q.Get("rankdir"); rankdir != "" {
		opts.RankDir = rankdir
	}
	if q.Has("reduce") {
		opts.Reduce = q.Get("reduce") != "false"
	}
	if hide, ok := q["hide"]; ok {
		opts.HideKinds = hide
	}
	if only, ok := q["only"]; ok {
		opts.Modules = only
	}
	opts.HideRequired = q.Get("hide-required") == "true"
	opts.HideOrphans = q.Get("hide-orphans") == "true"
	opts.Refresh = q.Get("refresh") == "true"
	return opts
}

// writeError maps validation errors to 422 and everything else to 500.
// Catalog problems are the client's to fix; render failures are ours.
func writeError(w http.ResponseWriter, err error) {
	var (
		unknown   *graph.UnknownProgrammeError
		duplicate *graph.DuplicateModuleError
		dangling  *graph.DanglingReferenceError
		crossYear *graph.CrossYearCorequisiteError
		cycle     *graph.CycleError
	)
	status := http.StatusInternalServerError
	switch {
	case errors.As(err, &unknown):
		status = http.StatusNotFound
	case errors.As(err, &duplicate),
		errors.As(err, &dangling),
		errors.As(err, &crossYear),
		errors.As(err, &cycle):
		status = http.StatusUnprocessableEntity
	}
	http.Error(w, err.Error(), status)
}
