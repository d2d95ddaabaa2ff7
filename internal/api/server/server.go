package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "a2t/docs" // swagger spec
	"a2t/internal/api/middleware"
	v1routes "a2t/internal/api/v1/routes"
	"a2t/internal/api/v1/services"
	"a2t/web"
	"a2t/web/handlers"
)

const (
	DefaultReadHeaderTimeout = 10 * time.Second
	DefaultIdleTimeout       = 120 * time.Second

	// multipartOverhead is allowed on top of MaxUploadBytes for form boundaries and headers.
	multipartOverhead = 1 << 20
)

// Config represents HTTP server configuration
type Config struct {
	Host              string
	Port              string
	ReadHeaderTimeout time.Duration
	IdleTimeout       time.Duration
	Environment       string
	MaxUploadBytes    int64
	SessionTTL        time.Duration
}

// Server represents the HTTP server
type Server struct {
	config     Config
	router     *gin.Engine
	httpServer *http.Server
	logger     *zap.Logger
	listener   net.Listener
	errs       chan error
}

// NewServer builds the router: ops endpoints, the JSON API and the upload page.
// Uploads are transcribed inside the request, so there is no write timeout.
func NewServer(
	config Config,
	transcriptionService services.TranscriptionService,
	gatherer prometheus.Gatherer,
	logger *zap.Logger,
) (*Server, error) {
	// Set Gin mode based on environment
	switch config.Environment {
	case "production":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	tmpl, err := web.Templates()
	if err != nil {
		return nil, err
	}

	// Create router
	router := gin.New()
	router.SetHTMLTemplate(tmpl)

	// Apply global middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.StructuredLogging(logger))
	router.Use(middleware.ErrorHandler(logger))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now().Unix(),
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	// API documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	var bodyLimit int64
	if config.MaxUploadBytes > 0 {
		bodyLimit = config.MaxUploadBytes + multipartOverhead
	}
	sessions := router.Group("/",
		middleware.Session(int(config.SessionTTL.Seconds()), config.Environment == "production"),
		middleware.LimitBody(bodyLimit),
	)

	// Register API routes
	v1routes.RegisterRoutes(sessions.Group("/api/v1"), &v1routes.ServiceContainer{
		TranscriptionService: transcriptionService,
	})

	// Upload page
	web.RegisterRoutes(sessions,
		handlers.NewPageHandler(transcriptionService, int(config.MaxUploadBytes>>20), logger),
		handlers.NewStaticHandler(web.StaticFS()),
	)

	httpServer := &http.Server{
		Addr:              net.JoinHostPort(config.Host, config.Port),
		Handler:           router,
		ReadHeaderTimeout: config.ReadHeaderTimeout,
		IdleTimeout:       config.IdleTimeout,
	}

	return &Server{
		config:     config,
		router:     router,
		httpServer: httpServer,
		logger:     logger,
		errs:       make(chan error, 1),
	}, nil
}

// Start binds the listen address and serves in the background. Bind errors
// are returned; later serve errors arrive on Errors.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	s.listener = ln

	s.logger.Info("Starting HTTP server",
		zap.String("address", ln.Addr().String()),
		zap.String("environment", s.config.Environment),
	)

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("HTTP server stopped", zap.Error(err))
			s.errs <- err
		}
		close(s.errs)
	}()
	return nil
}

// Errors reports a failure of the background serve loop. It is closed when
// the loop exits.
func (s *Server) Errors() <-chan error {
	return s.errs
}

// Addr returns the bound address once Start has succeeded.
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.httpServer.Addr
	}
	return s.listener.Addr().String()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("Server forced to shutdown", zap.Error(err))
		return err
	}

	s.logger.Info("HTTP server shutdown complete")
	return nil
}

// Router returns the Gin router (useful for testing)
func (s *Server) Router() *gin.Engine {
	return s.router
}
