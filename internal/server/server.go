package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/sozercan/predict-api/internal/config"
	"github.com/sozercan/predict-api/internal/prediction"
)

type Server struct {
	cfg     config.ServerConfig
	router  *chi.Mux
	server  *http.Server
	service *prediction.Service
	openapi []byte
}

func New(cfg config.Config, service *prediction.Service) (*Server, error) {
	openapi, err := buildOpenAPI(service.Variant())
	if err != nil {
		return nil, fmt.Errorf("building OpenAPI document: %w", err)
	}

	s := &Server{
		cfg:     cfg.Server,
		router:  chi.NewRouter(),
		service: service,
		openapi: openapi,
	}
	s.setupRoutes(cfg.CORS)

	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      s.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	return s, nil
}

func (s *Server) setupRoutes(corsCfg config.CORSConfig) {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(corsOptions(corsCfg)))

	s.router.Get("/", s.handleRoot)
	s.router.Get("/docs", s.handleDocs)
	s.router.Get("/openapi.json", s.handleOpenAPI)
	s.router.Get("/health", s.handleHealth)

	s.router.Post("/predict", s.handlePredict)
	s.router.Post("/predict/", s.handlePredict)
}

// corsOptions allows every origin when "*" is configured. With credentials
// enabled the request origin is echoed instead of a wildcard.
func corsOptions(cfg config.CORSConfig) cors.Options {
	opts := cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch,
			http.MethodDelete, http.MethodHead, http.MethodOptions,
		},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           600,
	}
	if cfg.AllowCredentials && slices.Contains(cfg.AllowedOrigins, "*") {
		opts.AllowedOrigins = nil
		opts.AllowOriginFunc = func(*http.Request, string) bool { return true }
	}
	return opts
}

// ServeHTTP lets the server be mounted or driven directly in tests.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Run serves until SIGINT or SIGTERM, then drains in-flight requests.
func (s *Server) Run() error {
	serverErrors := make(chan error, 1)

	go func() {
		slog.Info("Starting server", "address", s.server.Addr)
		serverErrors <- s.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		slog.Info("Starting shutdown", "signal", sig)

		ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()

		if err := s.server.Shutdown(ctx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}
	}

	return nil
}
