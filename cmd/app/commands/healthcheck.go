package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/allisson/resumes/internal/app"
	"github.com/allisson/resumes/internal/config"
)

const healthcheckTimeout = 5 * time.Second

// RunHealthcheck verifies the service dependencies (database and blob
// storage) and returns a non-nil error when any of them is unreachable.
// Intended for container health probes and deploy-time smoke checks.
func RunHealthcheck(ctx context.Context) error {
	cfg := config.Load()
	container := app.NewContainer(cfg)
	logger := container.Logger()

	defer closeContainer(container, logger)

	ctx, cancel := context.WithTimeout(ctx, healthcheckTimeout)
	defer cancel()

	var checkErrors []error

	db, err := container.DB()
	if err != nil {
		checkErrors = append(checkErrors, fmt.Errorf("database: %w", err))
	} else if err := db.PingContext(ctx); err != nil {
		checkErrors = append(checkErrors, fmt.Errorf("database: %w", err))
	}

	store, err := container.BlobStore()
	if err != nil {
		checkErrors = append(checkErrors, fmt.Errorf("storage: %w", err))
	} else if err := store.Healthcheck(ctx); err != nil {
		checkErrors = append(checkErrors, fmt.Errorf("storage: %w", err))
	}

	if len(checkErrors) > 0 {
		err := errors.Join(checkErrors...)
		logger.Error("healthcheck failed", slog.Any("error", err))
		return err
	}

	logger.Info("healthcheck passed")
	return nil
}
