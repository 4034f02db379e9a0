package api

import (
	"path"
	"strings"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/acpt/jobboard-api/docs"
	"github.com/acpt/jobboard-api/internal/api/handler"
	"github.com/acpt/jobboard-api/internal/api/middleware"
	"github.com/acpt/jobboard-api/internal/core/domain"
	"github.com/acpt/jobboard-api/internal/core/ports"
	"github.com/acpt/jobboard-api/internal/infrastructure/storage"
)

// Dependencies are the collaborators the HTTP layer is wired to.
type Dependencies struct {
	Log         zerolog.Logger
	Credentials ports.CredentialService
	Profiles    ports.ProfileService
	Tokens      ports.TokenVerifier
	// Readiness lists the dependencies pinged by /health/ready.
	Readiness map[string]handler.Pinger

	UploadDir    string
	AllowOrigins []string
	// Registerer receives the HTTP request metrics. Defaults to the global registry.
	Registerer prometheus.Registerer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	registerer := deps.Registerer
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	origins := deps.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Log))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: origins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(echomiddleware.BodyLimit("10M"))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "jobboard",
		Registerer: registerer,
	}))

	// --- Handlers ---
	userHandler := handler.NewUserHandler(deps.Credentials, deps.Profiles)
	profileHandler := handler.NewProfileHandler(deps.Profiles)
	auth := middleware.Auth(deps.Tokens)

	apiGroup := e.Group("/api")

	// --- User routes ---
	user := apiGroup.Group("/user")
	user.POST("/register", userHandler.Register)
	user.POST("/login", userHandler.Login)
	user.GET("/userauth", userHandler.UserAuth, auth)

	// --- Role profile routes (token required) ---
	for segment, role := range handler.RoleSegments {
		g := apiGroup.Group("/"+segment, auth)
		g.PUT("/:id", profileHandler.Update(role))
		g.POST("/:id/profile-picture", profileHandler.UploadProfilePicture(role))
		switch role {
		case domain.RoleJobSeeker:
			g.POST("/:id/upload-cv", profileHandler.UploadResume)
		case domain.RoleEmployer:
			g.POST("/:id/company-logo", profileHandler.UploadCompanyLogo)
		}
	}

	// --- Uploaded files, served read-only ---
	if deps.UploadDir != "" {
		files := e.Group(storage.PublicPrefix, uploadHeaders)
		files.Static("/", deps.UploadDir)
	}

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.Readiness)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?

	// --- Observability and docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// inlineUploads are the stored extensions a browser may render in place.
var inlineUploads = map[string]bool{
	".png":  true,
	".jpg":  true,
	".gif":  true,
	".webp": true,
}

// uploadHeaders keeps browsers from treating stored files as active content.
func uploadHeaders(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		h := c.Response().Header()
		h.Set(echo.HeaderXContentTypeOptions, "nosniff")
		h.Set(echo.HeaderContentSecurityPolicy, "default-src 'none'; sandbox")
		if !inlineUploads[strings.ToLower(path.Ext(c.Request().URL.Path))] {
			h.Set(echo.HeaderContentDisposition, "attachment")
		}
		return next(c)
	}
}

// requestLogger writes one zerolog line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}
