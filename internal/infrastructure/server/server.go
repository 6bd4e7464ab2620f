package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	_ "github.com/jsau/apiserver/docs"
	httpHandlers "github.com/jsau/apiserver/internal/adapters/http"
	"github.com/jsau/apiserver/internal/application/services"
	"github.com/jsau/apiserver/internal/domain/entities"
	"github.com/jsau/apiserver/internal/infrastructure/config"
	"github.com/jsau/apiserver/internal/infrastructure/logger"
	"github.com/jsau/apiserver/internal/infrastructure/metrics"
	"github.com/jsau/apiserver/internal/infrastructure/storage"
	"github.com/jsau/apiserver/internal/ports"
)

// Server represents the HTTP server
type Server struct {
	echo    *echo.Echo
	config  *config.Config
	logger  *logger.Logger
	stores  *storage.Stores
	metrics *metrics.Metrics
}

// New creates a new server instance
func New(cfg *config.Config, stores *storage.Stores, appLogger *logger.Logger) (*Server, error) {
	e := echo.New()

	e.Validator = httpHandlers.NewValidator()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = customErrorHandler(appLogger)

	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout
	e.Server.IdleTimeout = cfg.Server.IdleTimeout

	server := &Server{
		echo:   e,
		config: cfg,
		logger: appLogger,
		stores: stores,
	}

	var observer ports.StoreObserver
	if cfg.Metrics.Enabled {
		server.metrics = metrics.New()
		observer = server.metrics
	}

	// Initialize services
	recipeService := services.NewRecipeService(stores.Recipes, stores.Documents, observer, appLogger)
	favoriteService := services.NewFavoriteService(stores.Favorites, stores.Documents, observer, appLogger)

	// Initialize handlers
	recipeHandler := httpHandlers.NewRecipeHandler(recipeService, cfg.App.VersionString(), appLogger)
	favoriteHandler := httpHandlers.NewFavoriteHandler(favoriteService, appLogger)

	server.setupMiddleware()
	server.setupRoutes(recipeHandler, favoriteHandler)

	return server, nil
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware() {
	s.echo.Use(middleware.Recover())

	s.echo.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))

	s.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogError:     true,
		LogRemoteIP:  true,
		LogUserAgent: true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, values middleware.RequestLoggerValues) error {
			l := s.logger.WithRequestID(values.RequestID)
			if values.Error != nil {
				l.WithError(values.Error).Warnw("HTTP request failed", "method", values.Method, "uri", values.URI, "status", values.Status)
				return nil
			}
			l.LogHTTPRequest(values.Method, values.URI, values.UserAgent, values.RemoteIP, values.Status,
				float64(values.Latency.Nanoseconds())/1000000)
			return nil
		},
	}))

	if s.metrics != nil {
		s.echo.Use(s.metrics.Middleware())
	}

	s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     s.config.Security.AllowedOrigins(),
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowCredentials: true,
	}))

	// Responses reflect the files on disk at request time
	s.echo.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Response().Header().Set("Cache-Control", "no-store")
			return next(c)
		}
	})

	s.echo.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "DENY",
	}))

	if n := s.config.Security.RateLimitRequests; n > 0 {
		window := s.config.Security.RateLimitWindow
		if window <= 0 {
			window = time.Minute
		}
		s.echo.Use(middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
			Store: middleware.NewRateLimiterMemoryStoreWithConfig(
				middleware.RateLimiterMemoryStoreConfig{
					Rate:      rate.Limit(float64(n) / window.Seconds()),
					Burst:     n,
					ExpiresIn: window,
				},
			),
			IdentifierExtractor: func(ctx echo.Context) (string, error) {
				return ctx.RealIP(), nil
			},
			ErrorHandler: func(context echo.Context, err error) error {
				return context.JSON(http.StatusForbidden, httpHandlers.ErrorResponse{Error: "rate limit exceeded"})
			},
			DenyHandler: func(context echo.Context, identifier string, err error) error {
				return context.JSON(http.StatusTooManyRequests, httpHandlers.ErrorResponse{Error: "rate limit exceeded"})
			},
		}))
	}

	if t := s.config.Server.RequestTimeout; t > 0 {
		s.echo.Use(middleware.ContextTimeout(t))
	}
}

// setupRoutes configures all routes
func (s *Server) setupRoutes(recipeHandler *httpHandlers.RecipeHandler, favoriteHandler *httpHandlers.FavoriteHandler) {
	// Health check routes
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/ready", s.readinessCheck)

	if s.metrics != nil {
		s.echo.GET("/metrics", echo.WrapHandler(s.metrics.Handler()))
	}

	s.echo.GET("/swagger/*", echoSwagger.WrapHandler)

	// Catalog routes
	s.echo.GET("/info", recipeHandler.Info)
	s.echo.GET("/search", recipeHandler.Search)
	s.echo.GET("/recette/:id", recipeHandler.GetRecipe)

	// Favorites routes
	s.echo.POST("/favorites", favoriteHandler.AddFavorite)
	s.echo.GET("/favorites", favoriteHandler.ListFavorites)
	s.echo.DELETE("/favorites", favoriteHandler.RemoveFavorite)
}

// Health check handlers
func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) readinessCheck(c echo.Context) error {
	status := "ready"
	checks := make(map[string]interface{})

	for name, err := range s.stores.Check(c.Request().Context()) {
		if err != nil {
			status = "not_ready"
			checks[name] = map[string]string{"status": "error", "error": err.Error()}
			continue
		}
		checks[name] = map[string]string{"status": "ok"}
	}

	response := map[string]interface{}{
		"status":  status,
		"time":    time.Now().UTC().Format(time.RFC3339),
		"checks":  checks,
		"storage": s.stores.Info(),
		"version": s.config.App.VersionString(),
	}

	if status == "ready" {
		return c.JSON(http.StatusOK, response)
	}
	return c.JSON(http.StatusServiceUnavailable, response)
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start starts the HTTP server. It returns nil once Shutdown has completed.
func (s *Server) Start(address string) error {
	s.logger.Infow("Starting server", "address", address)
	if err := s.echo.Start(address); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server")
	return s.echo.Shutdown(ctx)
}

// customErrorHandler handles HTTP errors
func customErrorHandler(logger *logger.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		// already handled further down the chain
		if c.Response().Committed {
			return
		}

		var (
			code = http.StatusInternalServerError
			msg  interface{}
		)

		var he *echo.HTTPError
		var ve *entities.ValidationError
		switch {
		case errors.As(err, &he):
			code = he.Code
			msg = he.Message
			if s, ok := he.Message.(string); ok {
				msg = httpHandlers.ErrorResponse{Error: s}
			}
			if he.Internal != nil {
				err = fmt.Errorf("%v, %v", err, he.Internal)
			}
		case errors.As(err, &ve):
			code = http.StatusBadRequest
			msg = httpHandlers.ErrorResponse{Error: ve.Error()}
		default:
			msg = httpHandlers.ErrorResponse{Error: http.StatusText(code)}
		}

		if code == http.StatusInternalServerError {
			logger.Errorw("Internal server error", "error", err, "path", c.Request().URL.Path)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(code)
		} else {
			err = c.JSON(code, msg)
		}
		if err != nil {
			logger.Errorw("Error sending response", "error", err)
		}
	}
}
