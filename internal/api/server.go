package api

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/jtai-dev/record-matcher/internal/linking"
	"github.com/jtai-dev/record-matcher/internal/logging"
	"github.com/jtai-dev/record-matcher/internal/matchengine"
	"github.com/jtai-dev/record-matcher/internal/ratelimit"
	"github.com/jtai-dev/record-matcher/internal/store"
	"github.com/jtai-dev/record-matcher/pkg/config"
	"github.com/jtai-dev/record-matcher/pkg/recordmatcher"
)

// Server represents the REST API server.
type Server struct {
	router         *gin.Engine
	store          *store.Store
	config         *config.Config
	engine         *matchengine.Engine
	linkingService *linking.Service
	registry       *recordmatcher.Registry
	httpServer     *http.Server
	log            *logging.Logger
}

// NewServer creates a new REST API server.
func NewServer(db *store.Store, cfg *config.Config) *Server {
	log := logging.GetLogger("api")
	log.Info("initializing REST API server")

	if cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	if cfg.RestAPI.CORS {
		log.Debug("enabling CORS")
		corsConfig := cors.Config{
			AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
			AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", "X-API-Key"},
			ExposeHeaders: []string{"Content-Length", "Retry-After"},
			MaxAge:        12 * time.Hour,
		}

		if len(cfg.RestAPI.AllowOrigins) > 0 {
			corsConfig.AllowOrigins = cfg.RestAPI.AllowOrigins
		} else if cfg.RestAPI.APIKey != "" {
			corsConfig.AllowOrigins = []string{
				"http://localhost:*",
				"http://127.0.0.1:*",
				"https://localhost:*",
				"https://127.0.0.1:*",
			}
			corsConfig.AllowWildcard = true
		} else {
			corsConfig.AllowAllOrigins = true
		}

		router.Use(cors.New(corsConfig))
	}

	if cfg.RestAPI.APIKey != "" {
		log.Info("API key authentication enabled")
		router.Use(APIKeyAuthMiddleware(cfg.RestAPI.APIKey))
	}

	if cfg.RateLimit.Enabled {
		log.Info("rate limiting enabled")
		limiter := ratelimit.NewLimiter(&cfg.RateLimit)
		router.Use(RateLimitMiddleware(limiter))
	}

	router.Use(MaxBodySizeMiddleware(DefaultBodyLimit))

	engine := matchengine.NewEngine(db)
	linkingService := linking.NewService(db)
	registry := NewScorerRegistry()

	server := &Server{
		router:         router,
		store:          db,
		config:         cfg,
		engine:         engine,
		linkingService: linkingService,
		registry:       registry,
		log:            log,
	}

	server.setupRoutes()

	return server
}

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	v1 := s.router.Group("/v1")
	{
		v1.GET("/health", s.healthHandler)

		v1.POST("/match", MaxBodySizeMiddleware(IngestBodyLimit), s.createMatch)
		v1.GET("/runs", s.listRuns)
		v1.GET("/runs/:id", s.getRun)
		v1.GET("/runs/:id/graph", s.getRunGraph)
		v1.GET("/runs/:id/clusters", s.getRunClusters)
	}
}

func (s *Server) healthHandler(c *gin.Context) {
	stats, err := s.store.GetStats()
	if err != nil {
		InternalError(c, "failed to read store stats: "+err.Error())
		return
	}
	SuccessResponse(c, "ok", stats)
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	port := s.config.RestAPI.Port
	if s.config.RestAPI.AutoPort {
		availablePort, err := findAvailablePort(port)
		if err != nil {
			s.log.Error("failed to find available port", "error", err, "start_port", port)
			return fmt.Errorf("failed to find available port: %w", err)
		}
		port = availablePort
		s.log.Debug("found available port", "port", port)
	}

	addr := fmt.Sprintf("%s:%d", s.config.RestAPI.Host, port)
	s.httpServer = &http.Server{Addr: addr, Handler: s.router}

	s.log.Info("starting REST API server", "address", addr)
	return s.httpServer.ListenAndServe()
}

// StartWithContext starts the HTTP server with graceful shutdown
// support. It blocks until ctx is cancelled or the server errors.
func (s *Server) StartWithContext(ctx context.Context, shutdownTimeout time.Duration) error {
	port := s.config.RestAPI.Port
	if s.config.RestAPI.AutoPort {
		availablePort, err := findAvailablePort(port)
		if err != nil {
			s.log.Error("failed to find available port", "error", err, "start_port", port)
			return fmt.Errorf("failed to find available port: %w", err)
		}
		port = availablePort
		s.log.Debug("found available port", "port", port)
	}

	addr := fmt.Sprintf("%s:%d", s.config.RestAPI.Host, port)
	s.httpServer = &http.Server{Addr: addr, Handler: s.router}

	errChan := make(chan error, 1)
	go func() {
		s.log.Info("starting REST API server", "address", addr)
		if err := s.httpServer.ListenAndServe(); err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.log.Info("shutdown signal received")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()
		return s.Stop(shutdownCtx)
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	}
}

// Stop gracefully stops the server.
func (s *Server) Stop(ctx context.Context) error {
	s.log.Info("stopping REST API server")
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.log.Error("server shutdown error", "error", err)
			return err
		}
		s.log.Info("REST API server stopped")
	}
	return nil
}

// Router returns the underlying Gin router for testing.
func (s *Server) Router() *gin.Engine {
	return s.router
}

func findAvailablePort(startPort int) (int, error) {
	for port := startPort; port < startPort+100; port++ {
		ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
		if err == nil {
			ln.Close()
			return port, nil
		}
	}
	return 0, fmt.Errorf("no available port found in range %d-%d", startPort, startPort+100)
}
