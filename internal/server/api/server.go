package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"listfilter/internal/nodes"
	"listfilter/internal/storage"
)

const routePrefix = "/list_filter"

type Config struct {
	Addr           string
	ReadTimeout    time.Duration
	MetricsEnabled bool
	MetricsPath    string
}

type Server struct {
	name     string
	config   Config
	catalog  *nodes.Registry
	runs     storage.RunStore
	logger   *slog.Logger
	router   *gin.Engine
	server   *http.Server
	listener net.Listener
}

func New(name string, config Config, catalog *nodes.Registry, runs storage.RunStore, logger *slog.Logger) *Server {
	if config.Addr == "" {
		config.Addr = ":8189"
	}
	if config.ReadTimeout == 0 {
		config.ReadTimeout = 10 * time.Second
	}
	if config.MetricsPath == "" {
		config.MetricsPath = "/metrics"
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		name:    name,
		config:  config,
		catalog: catalog,
		runs:    runs,
		logger:  logger.With("server", name),
	}
	s.router = s.newRouter()
	return s
}

func (s *Server) newRouter() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(s.observe(), gin.CustomRecovery(s.recover))

	api := router.Group(routePrefix)
	api.POST("/apply", s.handleApply)
	api.GET("/health", s.handleHealth)
	api.GET("/nodes", s.handleListNodes)
	api.POST("/nodes/:name/execute", s.handleExecuteNode)
	api.GET("/runs", s.handleListRuns)

	if s.config.MetricsEnabled {
		router.GET(s.config.MetricsPath, gin.WrapH(promhttp.Handler()))
	}

	return router
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Start binds the listen address and serves in the background. Bind
// errors are returned; later serve errors are logged.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.config.Addr, err)
	}

	s.listener = listener
	s.server = &http.Server{
		Handler:     s.router,
		ReadTimeout: s.config.ReadTimeout,
	}

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server stopped with error", "error", err)
		}
	}()

	s.logger.Info("API server listening", "addr", listener.Addr().String())
	return nil
}

// Addr is the bound address once Start has returned.
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.config.Addr
	}
	return s.listener.Addr().String()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down api server: %w", err)
	}
	return nil
}
