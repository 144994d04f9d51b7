package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/oklog/ulid/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/programmableapple/attorney-portfolio/docs"
	"github.com/programmableapple/attorney-portfolio/internal/api/handler"
	"github.com/programmableapple/attorney-portfolio/internal/api/middleware"
	"github.com/programmableapple/attorney-portfolio/internal/core/domain"
	"github.com/programmableapple/attorney-portfolio/internal/core/ports"
	"github.com/programmableapple/attorney-portfolio/pkg/logger"
)

const bodyLimit = "1M"

// Deps holds everything the HTTP layer needs. Services are built by the
// caller so tests can substitute in-memory implementations.
type Deps struct {
	Auth      ports.AuthService
	Admin     ports.AdminService
	Expertise ports.ExpertiseService
	Lawyers   ports.LawyerService
	Bookings  ports.BookingService

	Tokens ports.TokenService
	Users  middleware.UserFinder

	// HealthChecks are run by /health/ready, keyed by dependency name.
	HealthChecks map[string]handler.DependencyCheck

	Log         zerolog.Logger
	CORSOrigins []string

	// Registerer and Gatherer default to the global Prometheus registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	if d.Registerer == nil {
		d.Registerer = prometheus.DefaultRegisterer
	}
	if d.Gatherer == nil {
		d.Gatherer = prometheus.DefaultGatherer
	}
	if len(d.CORSOrigins) == 0 {
		d.CORSOrigins = []string{"*"}
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: func() string { return ulid.Make().String() },
	}))
	e.Use(logger.EchoMiddleware(d.Log))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: d.CORSOrigins,
		AllowHeaders: []string{
			echo.HeaderOrigin,
			echo.HeaderContentType,
			echo.HeaderAccept,
			echo.HeaderAuthorization,
			handler.HeaderIdempotencyKey,
		},
	}))
	e.Use(echomiddleware.BodyLimit(bodyLimit))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "http",
		Registerer: d.Registerer,
	}))

	authn := middleware.Auth(d.Tokens, d.Users)
	adminOnly := middleware.RequireRole(domain.RoleAdmin)

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(d.Auth)
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.GET("/auth/me", authHandler.Me, authn)

	// --- Admin routes ---
	adminHandler := handler.NewAdminHandler(d.Admin)
	admin := e.Group("/admin", authn, adminOnly)
	admin.GET("/users", adminHandler.ListUsers)
	admin.PUT("/users/:id/role", adminHandler.ChangeRole)

	// --- Expertise routes (reads are public) ---
	expertiseHandler := handler.NewExpertiseHandler(d.Expertise)
	expertise := e.Group("/expertise")
	expertise.GET("", expertiseHandler.List)
	expertise.POST("", expertiseHandler.Create, authn, adminOnly)
	expertise.PUT("/:id", expertiseHandler.Update, authn, adminOnly)
	expertise.DELETE("/:id", expertiseHandler.Delete, authn, adminOnly)

	// --- Lawyer routes (reads are public) ---
	lawyerHandler := handler.NewLawyerHandler(d.Lawyers)
	lawyers := e.Group("/lawyers")
	lawyers.GET("", lawyerHandler.List)
	lawyers.GET("/:id", lawyerHandler.Get)
	lawyers.PUT("/:id/profession", lawyerHandler.UpdateProfession,
		authn, middleware.RequireRole(domain.RoleAttorney, domain.RoleAdmin))

	// --- Booking routes ---
	bookingHandler := handler.NewBookingHandler(d.Bookings)
	bookings := e.Group("/bookings", authn)
	bookings.GET("", bookingHandler.List)
	bookings.POST("", bookingHandler.Create)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(d.HealthChecks)

	e.GET("/health", healthHandler.Liveness)            // liveness: is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness: are dependencies up?

	// --- Operational endpoints ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: d.Gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
