package api

import (
	"net/http"
	"strings"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/logintest/accounts-api/docs"
	"github.com/logintest/accounts-api/internal/api/handler"
	"github.com/logintest/accounts-api/internal/api/middleware"
	"github.com/logintest/accounts-api/internal/core/ports"
)

// Deps are the collaborators the HTTP surface is built from.
type Deps struct {
	Log      zerolog.Logger
	Auth     ports.AuthService
	Recovery ports.RecoveryService
	Users    ports.UserService
	Tokens   ports.TokenVerifier
	// Credentials enables token revocation when non-nil.
	Credentials  ports.CredentialVersionChecker
	HealthChecks map[string]handler.CheckFunc

	// Registerer and Gatherer default to the global Prometheus registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer

	SwaggerEnabled bool
}

// NewRouter builds and returns the Echo instance with all routes registered.
// Every API route is reachable both at the root and under /api.
func NewRouter(d Deps) *echo.Echo {
	if d.Registerer == nil {
		d.Registerer = prometheus.DefaultRegisterer
	}
	if d.Gatherer == nil {
		d.Gatherer = prometheus.DefaultGatherer
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "accounts",
		Subsystem:  "http",
		Registerer: d.Registerer,
		Skipper:    skipProbes,
	}))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(d.Auth)
	recoveryHandler := handler.NewRecoveryHandler(d.Recovery)
	userHandler := handler.NewUserHandler(d.Users, d.Log)
	healthHandler := handler.NewHealthHandler(d.HealthChecks)
	authMiddleware := middleware.Auth(d.Tokens, d.Credentials)

	for _, g := range []*echo.Group{e.Group(""), e.Group("/api")} {
		g.POST("/auth/register", authHandler.Register)
		g.POST("/auth/login", authHandler.Login)

		g.GET("/auth/recover/:email", recoveryHandler.Recover)
		g.GET("/auth/verify-code/:email/:code", recoveryHandler.VerifyCode)
		g.PUT("/auth/update-password-recovery", recoveryHandler.UpdatePasswordRecovery)

		g.GET("/users", userHandler.List, authMiddleware)
		g.GET("/users/:id", userHandler.Get, authMiddleware)
		g.PUT("/users/:id", userHandler.Update, authMiddleware)
		g.DELETE("/users/:id", userHandler.Delete, authMiddleware)
	}

	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "accounts-api is running")
	})

	// --- Health probes and metrics (no auth required) ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: d.Gatherer}))

	if d.SwaggerEnabled {
		e.GET("/swagger/*", echoSwagger.WrapHandler)
	}

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURIPath:   true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			switch {
			case v.Status >= http.StatusInternalServerError:
				ev = log.Error().Err(v.Error)
			case v.Status >= http.StatusBadRequest:
				ev = log.Warn()
			}
			ev.Str("method", v.Method).
				Str("path", v.URIPath).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}

func skipProbes(c echo.Context) bool {
	p := c.Request().URL.Path
	return p == "/metrics" || strings.HasPrefix(p, "/health") || strings.HasPrefix(p, "/swagger")
}
