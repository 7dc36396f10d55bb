package http

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/metric"

	"github.com/allisson/resumes/internal/metrics"
	resumeHTTP "github.com/allisson/resumes/internal/resume/http"
	"github.com/allisson/resumes/internal/storage"
)

// healthcheckTimeout bounds the database and storage probes on /ready.
const healthcheckTimeout = 2 * time.Second

// Config carries the router dependencies and knobs.
type Config struct {
	Host string
	Port int

	DB    *sql.DB
	Store storage.BlobStore

	ResumeHandler  *resumeHTTP.ResumeHandler
	PrinterHandler *resumeHTTP.PrinterHandler
	PublicHandler  *resumeHTTP.PublicHandler
	StorageHandler *resumeHTTP.StorageHandler

	// MeterProvider enables HTTP metrics when non-nil.
	MeterProvider metric.MeterProvider

	CORSEnabled      bool
	CORSAllowOrigins string

	PasswordRateLimitRPS   float64
	PasswordRateLimitBurst int
}

// Server is the main HTTP server.
type Server struct {
	config Config
	router *gin.Engine
	server *http.Server
	logger *slog.Logger
}

// NewServer creates the HTTP server and assembles the router.
func NewServer(config Config, logger *slog.Logger) *Server {
	s := &Server{
		config: config,
		logger: logger,
	}
	s.router = s.setupRouter()
	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", config.Host, config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler returns the assembled router for testing purposes.
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupRouter wires middleware and routes.
func (s *Server) setupRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if s.config.MeterProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(s.config.MeterProvider, "resumes"))
	}

	if corsMiddleware := createCORSMiddleware(s.config.CORSEnabled, s.config.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	v1 := router.Group("/v1")

	if s.config.ResumeHandler != nil {
		resumes := v1.Group("/resumes", resumeHTTP.UserIDMiddleware(s.logger))
		resumes.GET("/:id/export/pdf", s.config.ResumeHandler.ExportPDFHandler)
		resumes.GET("/:id/export/screenshot", s.config.ResumeHandler.ExportScreenshotHandler)
		resumes.PUT("/:id/password", s.config.ResumeHandler.SetPasswordHandler)
		resumes.DELETE("/:id/password", s.config.ResumeHandler.DeletePasswordHandler)
	}

	if s.config.PrinterHandler != nil {
		v1.GET("/printer/:id/preview", s.config.PrinterHandler.PreviewHandler)
	}

	if s.config.StorageHandler != nil {
		v1.POST("/storage", resumeHTTP.UserIDMiddleware(s.logger), s.config.StorageHandler.UploadHandler)
		v1.GET("/storage/*filepath", resumeHTTP.SecurityHeadersMiddleware(), s.config.StorageHandler.GetHandler)
		v1.DELETE("/storage/*filepath", resumeHTTP.UserIDMiddleware(s.logger), s.config.StorageHandler.DeleteHandler)
	}

	if s.config.PublicHandler != nil {
		public := v1.Group("/public", resumeHTTP.SecurityHeadersMiddleware())
		public.GET("/:user/:slug", s.config.PublicHandler.GetHandler)

		// A non-positive rate disables the limiter.
		passwordHandlers := []gin.HandlerFunc{s.config.PublicHandler.VerifyPasswordHandler}
		if s.config.PasswordRateLimitRPS > 0 {
			passwordHandlers = append([]gin.HandlerFunc{
				resumeHTTP.PasswordRateLimitMiddleware(
					s.config.PasswordRateLimitRPS,
					s.config.PasswordRateLimitBurst,
					s.logger,
				),
			}, passwordHandlers...)
		}
		public.POST("/:user/:slug/password", passwordHandlers...)
	}

	return router
}

// healthHandler reports process liveness.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports whether the server can actually serve traffic:
// the database must answer a ping and the blob store must be reachable.
func (s *Server) readinessHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthcheckTimeout)
	defer cancel()

	components := gin.H{}
	ready := true

	if s.config.DB != nil && s.config.DB.PingContext(ctx) == nil {
		components["database"] = "ok"
	} else {
		components["database"] = "error"
		ready = false
	}

	if s.config.Store != nil && s.config.Store.Healthcheck(ctx) == nil {
		components["storage"] = "ok"
	} else {
		components["storage"] = "error"
		ready = false
	}

	if !ready {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": components,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "ready",
		"components": components,
	})
}

// Start starts the HTTP server.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}
