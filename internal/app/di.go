// Package app provides the dependency injection container for assembling application components.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"gocloud.dev/blob"

	"github.com/allisson/resumes/internal/access"
	"github.com/allisson/resumes/internal/artifact"
	"github.com/allisson/resumes/internal/config"
	"github.com/allisson/resumes/internal/database"
	"github.com/allisson/resumes/internal/http"
	"github.com/allisson/resumes/internal/metrics"
	"github.com/allisson/resumes/internal/render"
	resumeHTTP "github.com/allisson/resumes/internal/resume/http"
	resumeRepository "github.com/allisson/resumes/internal/resume/repository"
	resumeUsecase "github.com/allisson/resumes/internal/resume/usecase"
	"github.com/allisson/resumes/internal/storage"
	"github.com/allisson/resumes/internal/token"
)

// ResumeUseCase is the full set of operations the HTTP layer consumes.
type ResumeUseCase interface {
	resumeUsecase.ExportUseCase
	resumeUsecase.PublicUseCase
}

// Container holds all application dependencies and provides methods to access them.
// It follows the lazy initialization pattern - components are created on first access.
type Container struct {
	// Configuration
	config *config.Config

	// Infrastructure
	logger *slog.Logger
	db     *sql.DB

	// Storage
	blobStore  storage.BlobStore
	blobBucket *blob.Bucket

	// Services
	tokenService  token.Service
	accessGate    access.Gate
	renderClient  render.Client
	artifactCache *artifact.Cache

	// Repositories
	resumeRepo resumeUsecase.ResumeRepository

	// Use Cases
	resumeUseCase ResumeUseCase

	// Metrics
	metricsProvider *metrics.Provider
	businessMetrics metrics.BusinessMetrics

	// Servers
	httpServer    *http.Server
	metricsServer *http.MetricsServer

	// Initialization flags and mutex for thread-safety
	mu                  sync.Mutex
	loggerInit          sync.Once
	dbInit              sync.Once
	blobStoreInit       sync.Once
	tokenServiceInit    sync.Once
	accessGateInit      sync.Once
	renderClientInit    sync.Once
	artifactCacheInit   sync.Once
	resumeRepoInit      sync.Once
	resumeUseCaseInit   sync.Once
	metricsProviderInit sync.Once
	businessMetricsInit sync.Once
	httpServerInit      sync.Once
	metricsServerInit   sync.Once
	initErrors          map[string]error
}

// NewContainer creates a new dependency injection container with the provided configuration.
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config:     cfg,
		initErrors: make(map[string]error),
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the configured logger instance.
// It creates a new logger on first access based on the log level in configuration.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// DB returns the database connection.
// It creates and configures the database connection on first access.
func (c *Container) DB() (*sql.DB, error) {
	c.dbInit.Do(func() {
		db, err := c.initDB()
		if err != nil {
			c.initErrors["db"] = err
			return
		}
		c.db = db
	})
	if storedErr, exists := c.initErrors["db"]; exists {
		return nil, storedErr
	}
	return c.db, nil
}

// BlobStore returns the blob storage backend.
func (c *Container) BlobStore() (storage.BlobStore, error) {
	c.blobStoreInit.Do(func() {
		store, bucket, err := storage.Open(context.Background(), c.config)
		if err != nil {
			c.initErrors["blobStore"] = fmt.Errorf("failed to open blob storage: %w", err)
			return
		}
		c.blobStore = store
		c.blobBucket = bucket
	})
	if storedErr, exists := c.initErrors["blobStore"]; exists {
		return nil, storedErr
	}
	return c.blobStore, nil
}

// TokenService returns the capability token service.
func (c *Container) TokenService() (token.Service, error) {
	c.tokenServiceInit.Do(func() {
		service, err := token.NewService(c.config.SecretKey, c.config.PrinterTokenExpiration)
		if err != nil {
			c.initErrors["tokenService"] = fmt.Errorf("failed to create token service: %w", err)
			return
		}
		c.tokenService = service
	})
	if storedErr, exists := c.initErrors["tokenService"]; exists {
		return nil, storedErr
	}
	return c.tokenService, nil
}

// AccessGate returns the password access gate.
func (c *Container) AccessGate() (access.Gate, error) {
	c.accessGateInit.Do(func() {
		gate, err := access.NewGate(c.config.SecretKey)
		if err != nil {
			c.initErrors["accessGate"] = fmt.Errorf("failed to create access gate: %w", err)
			return
		}
		c.accessGate = gate
	})
	if storedErr, exists := c.initErrors["accessGate"]; exists {
		return nil, storedErr
	}
	return c.accessGate, nil
}

// RenderClient returns the external render backend client.
func (c *Container) RenderClient() render.Client {
	c.renderClientInit.Do(func() {
		c.renderClient = render.NewClient(render.Config{
			BaseURL:  c.config.ChromeURL,
			Username: c.config.ChromeUsername,
			Password: c.config.ChromePassword,
			Timeout:  c.config.RenderTimeout,
		})
	})
	return c.renderClient
}

// ArtifactCache returns the screenshot artifact cache.
func (c *Container) ArtifactCache() (*artifact.Cache, error) {
	c.artifactCacheInit.Do(func() {
		store, err := c.BlobStore()
		if err != nil {
			c.initErrors["artifactCache"] = fmt.Errorf("failed to get blob store for artifact cache: %w", err)
			return
		}
		c.artifactCache = artifact.NewCache(store, c.config.ScreenshotTTL, c.Logger())
	})
	if storedErr, exists := c.initErrors["artifactCache"]; exists {
		return nil, storedErr
	}
	return c.artifactCache, nil
}

// ResumeRepository returns the resume repository instance.
func (c *Container) ResumeRepository() (resumeUsecase.ResumeRepository, error) {
	c.resumeRepoInit.Do(func() {
		repo, err := c.initResumeRepository()
		if err != nil {
			c.initErrors["resumeRepo"] = err
			return
		}
		c.resumeRepo = repo
	})
	if storedErr, exists := c.initErrors["resumeRepo"]; exists {
		return nil, storedErr
	}
	return c.resumeRepo, nil
}

// ResumeUseCase returns the resume use case, decorated with metrics when enabled.
func (c *Container) ResumeUseCase() (ResumeUseCase, error) {
	c.resumeUseCaseInit.Do(func() {
		useCase, err := c.initResumeUseCase()
		if err != nil {
			c.initErrors["resumeUseCase"] = err
			return
		}
		c.resumeUseCase = useCase
	})
	if storedErr, exists := c.initErrors["resumeUseCase"]; exists {
		return nil, storedErr
	}
	return c.resumeUseCase, nil
}

// MetricsProvider returns the metrics provider instance.
// Returns nil if metrics are disabled in configuration.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	c.metricsProviderInit.Do(func() {
		if !c.config.MetricsEnabled {
			return
		}
		provider, err := metrics.NewProvider(c.config.MetricsNamespace)
		if err != nil {
			c.initErrors["metricsProvider"] = fmt.Errorf("failed to create metrics provider: %w", err)
			return
		}
		c.metricsProvider = provider
	})
	if storedErr, exists := c.initErrors["metricsProvider"]; exists {
		return nil, storedErr
	}
	return c.metricsProvider, nil
}

// BusinessMetrics returns the business metrics recorder.
// Returns a no-op implementation when metrics are disabled.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	c.businessMetricsInit.Do(func() {
		provider, err := c.MetricsProvider()
		if err != nil {
			c.initErrors["businessMetrics"] = err
			return
		}
		if provider == nil {
			c.businessMetrics = metrics.NewNoOpBusinessMetrics()
			return
		}
		bm, err := metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
		if err != nil {
			c.initErrors["businessMetrics"] = fmt.Errorf("failed to create business metrics: %w", err)
			return
		}
		c.businessMetrics = bm
	})
	if storedErr, exists := c.initErrors["businessMetrics"]; exists {
		return nil, storedErr
	}
	return c.businessMetrics, nil
}

// HTTPServer returns the HTTP server instance.
func (c *Container) HTTPServer() (*http.Server, error) {
	c.httpServerInit.Do(func() {
		server, err := c.initHTTPServer()
		if err != nil {
			c.initErrors["httpServer"] = err
			return
		}
		c.httpServer = server
	})
	if storedErr, exists := c.initErrors["httpServer"]; exists {
		return nil, storedErr
	}
	return c.httpServer, nil
}

// MetricsServer returns the metrics server instance.
// Returns nil if metrics are disabled in configuration.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	c.metricsServerInit.Do(func() {
		provider, err := c.MetricsProvider()
		if err != nil {
			c.initErrors["metricsServer"] = err
			return
		}
		if provider == nil {
			return
		}
		c.metricsServer = http.NewMetricsServer(
			c.config.ServerHost,
			c.config.MetricsPort,
			c.Logger(),
			provider,
		)
	})
	if storedErr, exists := c.initErrors["metricsServer"]; exists {
		return nil, storedErr
	}
	return c.metricsServer, nil
}

// Shutdown performs cleanup of all initialized resources.
// It should be called when the application is shutting down.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var shutdownErrors []error

	if c.httpServer != nil {
		if err := c.httpServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("http server shutdown: %w", err))
		}
	}

	if c.metricsServer != nil {
		if err := c.metricsServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}

	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	if c.blobBucket != nil {
		if err := c.blobBucket.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("blob bucket close: %w", err))
		}
	}

	if c.db != nil {
		if err := c.db.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("database close: %w", err))
		}
	}

	if len(shutdownErrors) > 0 {
		return fmt.Errorf("shutdown errors: %v", shutdownErrors)
	}

	return nil
}

// initLogger creates and configures a structured logger based on the log level.
func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})

	return slog.New(handler)
}

// initDB creates and configures the database connection.
func (c *Container) initDB() (*sql.DB, error) {
	db, err := database.Connect(database.Config{
		Driver:             c.config.DBDriver,
		ConnectionString:   c.config.DBConnectionString,
		MaxOpenConnections: c.config.DBMaxOpenConnections,
		MaxIdleConnections: c.config.DBMaxIdleConnections,
		ConnMaxLifetime:    c.config.DBConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// initResumeRepository creates the resume repository instance.
func (c *Container) initResumeRepository() (resumeUsecase.ResumeRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for resume repository: %w", err)
	}

	// Select the appropriate repository based on the database driver
	switch c.config.DBDriver {
	case "mysql":
		return resumeRepository.NewMySQLResumeRepository(db), nil
	case "postgres":
		return resumeRepository.NewPostgreSQLResumeRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initResumeUseCase assembles the resume use case with all pipeline dependencies.
func (c *Container) initResumeUseCase() (ResumeUseCase, error) {
	repo, err := c.ResumeRepository()
	if err != nil {
		return nil, err
	}

	tokenService, err := c.TokenService()
	if err != nil {
		return nil, err
	}

	gate, err := c.AccessGate()
	if err != nil {
		return nil, err
	}

	cache, err := c.ArtifactCache()
	if err != nil {
		return nil, err
	}

	store, err := c.BlobStore()
	if err != nil {
		return nil, err
	}

	useCase := resumeUsecase.NewResumeUseCase(
		repo,
		tokenService,
		gate,
		c.RenderClient(),
		cache,
		store,
		c.config.AppURL,
		c.Logger(),
	)

	bm, err := c.BusinessMetrics()
	if err != nil {
		return nil, err
	}

	return resumeUsecase.NewResumeUseCaseWithMetrics(useCase, bm), nil
}

// initHTTPServer assembles the HTTP server with handlers and router configuration.
func (c *Container) initHTTPServer() (*http.Server, error) {
	db, err := c.DB()
	if err != nil {
		return nil, err
	}

	store, err := c.BlobStore()
	if err != nil {
		return nil, err
	}

	useCase, err := c.ResumeUseCase()
	if err != nil {
		return nil, err
	}

	logger := c.Logger()

	serverConfig := http.Config{
		Host:             c.config.ServerHost,
		Port:             c.config.ServerPort,
		DB:               db,
		Store:            store,
		ResumeHandler:    resumeHTTP.NewResumeHandler(useCase, useCase, logger),
		PrinterHandler:   resumeHTTP.NewPrinterHandler(useCase, logger),
		PublicHandler:    resumeHTTP.NewPublicHandler(useCase, c.config.AccessCookieTTL, c.config.IsSecure(), logger),
		StorageHandler:   resumeHTTP.NewStorageHandler(store, c.config.AppURL, logger),
		CORSEnabled:      c.config.CORSEnabled,
		CORSAllowOrigins: c.config.AppURL,
	}

	if c.config.RateLimitPasswordEnabled {
		serverConfig.PasswordRateLimitRPS = c.config.RateLimitPasswordRequestsPerSec
		serverConfig.PasswordRateLimitBurst = c.config.RateLimitPasswordBurst
	}

	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, err
	}
	if provider != nil {
		serverConfig.MeterProvider = provider.MeterProvider()
	}

	return http.NewServer(serverConfig, logger), nil
}
