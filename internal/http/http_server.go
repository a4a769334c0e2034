package http

// this is entry point of the http request handlers

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"gitlab.com/hashsearch.net/internal/core/ports/primary"
	"gitlab.com/hashsearch.net/internal/core/services/search"
	"gitlab.com/hashsearch.net/internal/core/services/worker"
	"gitlab.com/hashsearch.net/internal/handlers"
	searchapi "gitlab.com/hashsearch.net/internal/handlers/search"
	"gitlab.com/hashsearch.net/internal/handlers/workers"
)

type ServiceProvider struct {
	workerService worker.IWorkerRegistryService
	searchService search.ISearchService

	// jwtService guards /api when set
	jwtService primary.JWTService
}

func NewServiceProvider(
	workerService worker.IWorkerRegistryService,
	searchService search.ISearchService,
	jwtService primary.JWTService,
) *ServiceProvider {
	return &ServiceProvider{
		workerService: workerService,
		searchService: searchService,
		jwtService:    jwtService,
	}
}

type Server struct {
	router          *mux.Router
	srv             *http.Server
	Port            int
	ServiceName     string
	ServiceProvider ServiceProvider
	logger          primary.Logger
}

func NewServer(port int, serviceName string, serviceProvider ServiceProvider, logger primary.Logger) *Server {
	return &Server{
		Port:            port,
		ServiceName:     serviceName,
		ServiceProvider: serviceProvider,
		logger:          logger,
	}
}

func (s *Server) Init() error {
	r := mux.NewRouter()
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	if s.ServiceProvider.jwtService != nil {
		api.Use(handlers.New(s.ServiceProvider.jwtService).JWTMiddleware)
	}
	workers.NewHandler(s.ServiceProvider.workerService).Register(api)
	searchapi.NewSearchHandler(s.ServiceProvider.searchService, s.logger).RegisterRoutes(api)

	s.router = r
	return nil
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start(ctx context.Context) {
	// Set up server
	s.srv = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
		BaseContext:  func(_ net.Listener) context.Context { return ctx },
	}

	// Start the server in a goroutine
	go func() {
		s.logger.Info("Server listening", "addr", s.srv.Addr, "service", s.ServiceName)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Server error", "error", err)
		}
	}()
}

func (s *Server) Stop(ctx context.Context) {
	s.logger.Info("Shutting down http server...")
	if s.srv == nil {
		return
	}
	if err := s.srv.Shutdown(ctx); err != nil {
		s.logger.Error("Server forced to shutdown", "error", err)
	}
}
