package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/KaramelBytes/aqdash-cli/internal/analysis"
)

const requestIDHeader = "X-Request-ID"

// Server exposes the engine views over HTTP. Every request filters the shared
// read-only table on its own, so handlers need no locking.
type Server struct {
	engine   *analysis.Engine
	log      *slog.Logger
	defaults Defaults
}

// New builds a Server over engine; a nil log falls back to slog.Default.
func New(engine *analysis.Engine, log *slog.Logger, defaults Defaults) *Server {
	if log == nil {
		log = slog.Default()
	}
	if defaults.Granularity == "" {
		defaults.Granularity = analysis.Daily
	}
	return &Server{engine: engine, log: log, defaults: defaults}
}

// Router registers all routes on a gorilla/mux router.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.requestID, corsMiddleware)

	r.HandleFunc("/healthz", s.handleHealthz).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/stations", s.handleStations).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/bounds", s.handleBounds).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/dashboard", s.handleDashboard).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/describe", s.view(describeView)).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/trend", s.view(trendView)).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/monthly", s.view(monthlyView)).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/boxplot", s.view(boxplotView)).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/corr", s.view(corrView)).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/scatter", s.view(scatterView)).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/hist", s.view(histView)).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/search", s.view(searchView)).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/insight", s.view(insightView)).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/export.csv", s.handleExport(csvExport)).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/export.xlsx", s.handleExport(xlsxExport)).Methods(http.MethodGet, http.MethodOptions)
	return r
}

// requestID tags each request with an id, reusing the caller's when present.
func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		started := time.Now()
		next.ServeHTTP(w, r)
		s.log.Debug("http request", "request_id", id, "method", r.Method, "path", r.URL.Path, "elapsed", time.Since(started))
	})
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+requestIDHeader)
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// NewHTTPServer wraps h in an http.Server with request timeouts set.
func NewHTTPServer(addr string, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

// Run serves until ctx is cancelled, then shuts down with a 10s grace period.
func Run(ctx context.Context, srv *http.Server, log *slog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info("http listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	log.Info("http shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
