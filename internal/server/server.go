package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"filedeck/internal/config"
	"filedeck/internal/filesystem"
	"filedeck/internal/handlers"
	"filedeck/internal/metrics"
	"filedeck/internal/ratelimit"
	"filedeck/internal/storage"
)

const (
	requestIDHeader = "X-Request-ID"
	limiterTTL      = 10 * time.Minute
	limiterMaxSize  = 10000
)

type Server struct {
	config      *config.Config
	logger      *zap.Logger
	fs          *filesystem.DiskFS
	prefs       *storage.PreferencesStore
	limiter     *ratelimit.Registry
	fileManager *handlers.FileManagerHandler
	handler     http.Handler
	httpServer  *http.Server
}

func New(cfg *config.Config, logger *zap.Logger) (*Server, error) {
	prefs, err := storage.New(cfg.PreferencesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create preferences store: %w", err)
	}

	fs, err := filesystem.New(filesystem.Options{
		Root:             cfg.UploadRoot,
		StagingDir:       cfg.StagingDir,
		DefaultExtension: cfg.DefaultExtension,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open upload root: %w", err)
	}

	server := &Server{
		config:      cfg,
		logger:      logger,
		fs:          fs,
		prefs:       prefs,
		fileManager: handlers.NewFileManagerHandler(fs, prefs, logger, cfg.MaxUploadBytes),
	}
	if cfg.RateLimitRPS > 0 {
		server.limiter = ratelimit.New(cfg.RateLimitRPS, cfg.RateLimitBurst, limiterTTL, limiterMaxSize)
	}

	mux := http.NewServeMux()
	server.setupRoutes(mux)

	var handler http.Handler = mux
	if server.limiter != nil {
		handler = server.limiter.Middleware(handler)
	}
	server.handler = server.requestIDMiddleware(server.loggingMiddleware(handler))

	server.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           server.handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       5 * time.Minute,
		WriteTimeout:      5 * time.Minute,
		IdleTimeout:       60 * time.Second,
	}

	return server, nil
}

// Handler returns the fully wrapped request handler
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) setupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", s.handleHealth)

	if s.config.MetricsEnabled {
		mux.Handle("GET /metrics", metrics.Handler())
	}

	if s.config.StaticDir != "" {
		mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir(s.config.StaticDir))))
	}

	s.fileManager.Register(mux)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status":      "healthy",
		"upload_root": s.fs.Resolver().Root(),
	})
}

// requestIDMiddleware tags every request with an id, keeping one supplied
// by a proxy in front of us.
func (s *Server) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
			r.Header.Set(requestIDHeader, id)
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs HTTP requests and records their metrics
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Wrap response writer to capture status code
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		duration := time.Since(start)

		// the mux records the matched pattern on the request; raw paths
		// would give the metrics unbounded cardinality
		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		metrics.RecordHTTPRequest(r.Method, route, wrapped.statusCode, duration)

		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", wrapped.statusCode),
			zap.Duration("duration", duration),
			zap.String("request_id", r.Header.Get(requestIDHeader)),
			zap.String("remote_addr", r.RemoteAddr),
			zap.String("user_agent", r.UserAgent()))
	})
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

func (s *Server) Start() error {
	s.logger.Info("starting FileDeck server",
		zap.Int("port", s.config.Port),
		zap.String("upload_root", s.fs.Resolver().Root()),
		zap.String("preferences", s.prefs.Path()),
		zap.Bool("metrics", s.config.MetricsEnabled),
		zap.Float64("rate_limit_rps", s.config.RateLimitRPS))

	serveErr := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	s.logger.Info("server started", zap.String("url", fmt.Sprintf("http://localhost:%d", s.config.Port)))

	return s.waitForShutdown(serveErr)
}

// waitForShutdown waits for shutdown signals and gracefully shuts down the server
func (s *Server) waitForShutdown(serveErr <-chan error) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err, ok := <-serveErr:
		if ok {
			s.logger.Error("server failed", zap.Error(err))
			s.closeLimiter()
			return err
		}
	case sig := <-quit:
		s.logger.Info("shutting down server", zap.String("signal", sig.String()))
	}

	if err := s.Stop(); err != nil {
		s.logger.Error("server forced to shutdown", zap.Error(err))
		return err
	}

	s.logger.Info("server shutdown complete")
	return nil
}

func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	defer s.closeLimiter()
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) closeLimiter() {
	if s.limiter != nil {
		s.limiter.Close()
	}
}
