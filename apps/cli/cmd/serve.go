package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/speclab/packages/export/metrics"
	"github.com/abdul-hamid-achik/speclab/packages/output"
)

var serveAddrFlag string

var serveCmd = &cobra.Command{
	Use:   "serve <result.json>",
	Short: "Serve a JSON report over HTTP",
	Long: `Serve a report written by the json reporter. The file is read on every
request, so a report rewritten by another run shows up on reload.

Routes:
  GET /report       HTML report
  GET /api/report   JSON document
  GET /metrics      Prometheus metrics
  GET /healthz      liveness probe

Examples:
  speclab serve results/run.json
  speclab serve results/run.json --addr 127.0.0.1:9090`,
	Args: cobra.ExactArgs(1),
	RunE: serveCommand,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddrFlag, "addr", getEnvString("SPECLAB_ADDR", ":8080"), "Listen address (env: SPECLAB_ADDR)")
}

func serveCommand(cmd *cobra.Command, args []string) error {
	if _, err := loadReport(args[0]); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              serveAddrFlag,
		Handler:           newServer(args[0]),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("serving report", "path", args[0], "addr", serveAddrFlag)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// newServer builds the router for a report file.
func newServer(path string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, "/report", http.StatusFound)
	})

	r.Get("/report", func(w http.ResponseWriter, req *http.Request) {
		serveFormat(w, req, path, "html", "text/html; charset=utf-8")
	})

	r.Get("/api/report", func(w http.ResponseWriter, req *http.Request) {
		serveFormat(w, req, path, "json", "application/json")
	})

	r.Get("/metrics", func(w http.ResponseWriter, req *http.Request) {
		rep, err := output.LoadReport(path)
		if err != nil {
			loadFailed(w, req, path, err)
			return
		}
		exp := metrics.NewPrometheusExporter()
		if err := metrics.NewCollector(exp).Report(rep); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		exp.Handler().ServeHTTP(w, req)
	})

	return r
}

func serveFormat(w http.ResponseWriter, req *http.Request, path, format, contentType string) {
	rep, err := output.LoadReport(path)
	if err != nil {
		loadFailed(w, req, path, err)
		return
	}
	reporter, err := output.New(format, output.WithWriter(w), output.WithNoColor(true), output.WithVersion(version))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", contentType)
	if err := reporter.Report(rep); err != nil {
		logger.Error("failed to render report", "request_id", middleware.GetReqID(req.Context()), "err", err)
	}
}

func loadFailed(w http.ResponseWriter, req *http.Request, path string, err error) {
	logger.Error("failed to load report", "path", path, "request_id", middleware.GetReqID(req.Context()), "err", err)
	http.Error(w, "report unavailable", http.StatusServiceUnavailable)
}
