package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/deskpulse/deskpulse/infrastructure/http/middleware"
	"github.com/deskpulse/deskpulse/infrastructure/http/response"
	"github.com/deskpulse/deskpulse/infrastructure/http/validator"
	"github.com/deskpulse/deskpulse/infrastructure/service/logger"
	"github.com/deskpulse/deskpulse/internal/ports"
	"github.com/deskpulse/deskpulse/internal/usecase"
)

// Server represents the HTTP server
type Server struct {
	addr   string
	server *http.Server
	logger logger.Logger
}

// ServerConfig represents server configuration
type ServerConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// RouterConfig carries the use cases and cross-cutting services the router
// is built from. RateLimiter, Store and Gatherer may be nil.
type RouterConfig struct {
	Tickets     *usecase.TicketUseCase
	BIs         *usecase.BIUseCase
	Automations *usecase.AutomationUseCase
	Tasks       *usecase.TaskUseCase
	Canvas      *usecase.CanvasUseCase

	Store       ports.DocumentStore
	Logger      logger.Logger
	RateLimiter *middleware.RateLimitMiddleware

	CORSOrigins          []string
	CORSAllowCredentials bool

	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter wires every route and middleware into one handler
func NewRouter(cfg RouterConfig) http.Handler {
	v := validator.New()
	router := mux.NewRouter()
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "Not found")
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		response.MethodNotAllowed(w)
	})

	router.Use(newHTTPMetrics(cfg.Registerer).Middleware)

	router.Handle("/health", NewHealthHandler(cfg.Tickets.UpstreamVars, cfg.Store, cfg.Logger)).Methods(http.MethodGet)
	if cfg.Gatherer != nil {
		router.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}

	api := router.PathPrefix("/api").Subrouter()
	NewTicketHandler(cfg.Tickets, v).RegisterRoutes(api)
	NewBIHandler(cfg.BIs, v).RegisterRoutes(api)
	NewAutomationHandler(cfg.Automations, v).RegisterRoutes(api)
	NewTaskHandler(cfg.Tasks, v).RegisterRoutes(api)
	NewCanvasHandler(cfg.Canvas, v).RegisterRoutes(api)

	// Outer middleware runs for every request, including preflights and
	// unmatched routes.
	var handler http.Handler = router
	if cfg.RateLimiter != nil {
		handler = cfg.RateLimiter.RateLimit(handler)
	}
	handler = middleware.CORSMiddleware(cfg.CORSOrigins, cfg.CORSAllowCredentials)(handler)
	handler = middleware.AccessLogMiddleware(cfg.Logger)(handler)
	handler = middleware.RecoveryMiddleware(cfg.Logger)(handler)
	handler = middleware.CorrelationIDMiddleware(handler)
	return handler
}

// NewServer creates a new HTTP server
func NewServer(config ServerConfig, handler http.Handler, log logger.Logger) *Server {
	return &Server{
		addr:   config.Addr,
		logger: log,
		server: &http.Server{
			Addr:         config.Addr,
			Handler:      handler,
			ReadTimeout:  config.ReadTimeout,
			WriteTimeout: config.WriteTimeout,
			IdleTimeout:  config.IdleTimeout,
		},
	}
}

// Start starts the HTTP server and blocks until it stops. A clean shutdown
// returns nil.
func (s *Server) Start() error {
	s.logger.Info(context.Background(), "Starting HTTP server", map[string]interface{}{"addr": s.addr})
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info(ctx, "Shutting down HTTP server", nil)
	return s.server.Shutdown(ctx)
}
