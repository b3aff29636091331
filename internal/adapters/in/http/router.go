package http

import (
	"net/http"
	"time"

	"orderflow/internal/generated/servers"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// BaseURL prefixes every API route.
const BaseURL = "/api/v1"

// RouterConfig tunes the middleware chain.
type RouterConfig struct {
	// RatePerSecond limits requests per client IP. Zero disables the limiter.
	RatePerSecond float64
	Burst         int
}

// NewRouter wires the server into an echo instance: /health and the API documents are
// public, everything under BaseURL requires a bearer token.
func NewRouter(server *Server, cfg RouterConfig, logger *zap.Logger) (*echo.Echo, error) {
	doc, err := openAPIDocument()
	if err != nil {
		return nil, err
	}
	if err = registerSwaggerDoc(); err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = NewRequestValidator()
	e.HTTPErrorHandler = errorHandler(logger)

	e.Use(middleware.RequestID())
	e.Use(middleware.Recover())
	e.Use(requestLogger(logger))
	if cfg.RatePerSecond > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = int(cfg.RatePerSecond) + 1
		}
		e.Use(middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
			Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
				Rate:      rate.Limit(cfg.RatePerSecond),
				Burst:     burst,
				ExpiresIn: 3 * time.Minute,
			}),
		}))
	}

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET(BaseURL+"/openapi.json", openAPIHandler(doc))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group(BaseURL, server.auth.Middleware())
	servers.RegisterHandlers(api, server)

	return e, nil
}

func requestLogger(logger *zap.Logger) echo.MiddlewareFunc {
	logger = logger.With(zap.String("component", "http"))
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("requestID", v.RequestID),
			}
			if v.Error != nil {
				fields = append(fields, zap.Error(v.Error))
			}
			logger.Info("request", fields...)
			return nil
		},
	})
}
