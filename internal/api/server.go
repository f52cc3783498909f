package api

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/recshelf/recshelf/internal/auth"
	"github.com/recshelf/recshelf/internal/catalog"
	"github.com/recshelf/recshelf/internal/config"
	"github.com/recshelf/recshelf/internal/oracle"
	"github.com/recshelf/recshelf/internal/preferences"
	"github.com/recshelf/recshelf/internal/recommend"
)

// Server handles HTTP requests for the recommendation API.
type Server struct {
	echo   *echo.Echo
	logger zerolog.Logger
	cfg    *config.Config

	authService *auth.Service
	prefService *preferences.Service
	engine      *recommend.Engine
	catalogs    *catalog.Registry
	trending    *catalog.TrendingCache
	oracle      *oracle.Client
}

// NewServer creates a new API server instance.
func NewServer(
	cfg *config.Config,
	authService *auth.Service,
	prefService *preferences.Service,
	engine *recommend.Engine,
	catalogs *catalog.Registry,
	trending *catalog.TrendingCache,
	oracleClient *oracle.Client,
	logger zerolog.Logger,
) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:        e,
		logger:      logger,
		cfg:         cfg,
		authService: authService,
		prefService: prefService,
		engine:      engine,
		catalogs:    catalogs,
		trending:    trending,
		oracle:      oracleClient,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// setupMiddleware configures Echo middleware.
func (s *Server) setupMiddleware() {
	// Recovery middleware
	s.echo.Use(middleware.Recover())

	// Request ID
	s.echo.Use(middleware.RequestID())

	// CORS
	s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	// Request logging
	s.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogMethod:   true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error != nil {
				s.logger.Error().
					Str("method", v.Method).
					Str("uri", v.URI).
					Int("status", v.Status).
					Dur("latency", v.Latency).
					Err(v.Error).
					Msg("request error")
			} else {
				s.logger.Info().
					Str("method", v.Method).
					Str("uri", v.URI).
					Int("status", v.Status).
					Dur("latency", v.Latency).
					Msg("request")
			}
			return nil
		},
	}))
}

// setupRoutes configures API routes.
func (s *Server) setupRoutes() {
	api := s.echo.Group("/api")

	api.GET("/health", s.healthCheck)
	api.GET("/trending", s.getTrending)

	authGroup := api.Group("/auth")
	authGroup.POST("/register", s.register)
	authGroup.POST("/login", s.login)

	protected := api.Group("", s.requireAuth)
	protected.GET("/recommendations", s.getRecommendations)
	protected.GET("/recommendations/all", s.getAllRecommendations)
	protected.POST("/likes", s.addLike)
	protected.DELETE("/likes", s.removeLike)
	protected.POST("/dislikes", s.addDislike)
	protected.DELETE("/dislikes", s.removeDislike)
}

// Start begins listening for HTTP requests.
func (s *Server) Start(address string) error {
	s.logger.Info().Str("address", address).Msg("starting HTTP server")
	return s.echo.Start(address)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("shutting down HTTP server")
	return s.echo.Shutdown(ctx)
}

// Echo returns the underlying Echo instance.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}
