package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/resumes/internal/metrics"
	"github.com/allisson/resumes/internal/resume/domain"
)

// resumeUseCaseWithMetrics decorates the export and public use cases
// with metrics instrumentation.
type resumeUseCaseWithMetrics struct {
	next interface {
		ExportUseCase
		PublicUseCase
	}
	metrics metrics.BusinessMetrics
}

// NewResumeUseCaseWithMetrics wraps the resume use case with metrics recording.
func NewResumeUseCaseWithMetrics(
	useCase interface {
		ExportUseCase
		PublicUseCase
	},
	m metrics.BusinessMetrics,
) interface {
	ExportUseCase
	PublicUseCase
} {
	return &resumeUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (r *resumeUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	r.metrics.RecordOperation(ctx, "resumes", operation, status)
	r.metrics.RecordDuration(ctx, "resumes", operation, time.Since(start), status)
}

// ExportPDF records metrics for PDF export operations.
func (r *resumeUseCaseWithMetrics) ExportPDF(ctx context.Context, userID string, resumeID uuid.UUID) ([]byte, error) {
	start := time.Now()
	data, err := r.next.ExportPDF(ctx, userID, resumeID)
	r.record(ctx, "export_pdf", start, err)
	return data, err
}

// ExportScreenshot records metrics for screenshot export operations.
func (r *resumeUseCaseWithMetrics) ExportScreenshot(ctx context.Context, userID string, resumeID uuid.UUID) ([]byte, error) {
	start := time.Now()
	data, err := r.next.ExportScreenshot(ctx, userID, resumeID)
	r.record(ctx, "export_screenshot", start, err)
	return data, err
}

// Preview records metrics for token-guarded preview operations.
func (r *resumeUseCaseWithMetrics) Preview(ctx context.Context, resumeID uuid.UUID, token string) (*domain.Resume, error) {
	start := time.Now()
	resume, err := r.next.Preview(ctx, resumeID, token)
	r.record(ctx, "preview", start, err)
	return resume, err
}

// GetPublic records metrics for public resume retrieval operations.
func (r *resumeUseCaseWithMetrics) GetPublic(ctx context.Context, userID string, slug string, cookie string) (*domain.Resume, error) {
	start := time.Now()
	resume, err := r.next.GetPublic(ctx, userID, slug, cookie)
	r.record(ctx, "get_public", start, err)
	return resume, err
}

// VerifyPassword records metrics for password verification operations.
func (r *resumeUseCaseWithMetrics) VerifyPassword(ctx context.Context, userID string, slug string, password string) (string, error) {
	start := time.Now()
	grant, err := r.next.VerifyPassword(ctx, userID, slug, password)
	r.record(ctx, "verify_password", start, err)
	return grant, err
}

// SetPassword records metrics for password set operations.
func (r *resumeUseCaseWithMetrics) SetPassword(ctx context.Context, userID string, resumeID uuid.UUID, password string) error {
	start := time.Now()
	err := r.next.SetPassword(ctx, userID, resumeID, password)
	r.record(ctx, "set_password", start, err)
	return err
}

// ClearPassword records metrics for password clear operations.
func (r *resumeUseCaseWithMetrics) ClearPassword(ctx context.Context, userID string, resumeID uuid.UUID) error {
	start := time.Now()
	err := r.next.ClearPassword(ctx, userID, resumeID)
	r.record(ctx, "clear_password", start, err)
	return err
}
