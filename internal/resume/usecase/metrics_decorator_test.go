package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	apperrors "github.com/allisson/resumes/internal/errors"
	"github.com/allisson/resumes/internal/metrics"
	"github.com/allisson/resumes/internal/resume/domain"
)

// mockBusinessMetrics is a mock implementation of metrics.BusinessMetrics for testing.
type mockBusinessMetrics struct {
	mock.Mock
}

func (m *mockBusinessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
	m.Called(ctx, domain, operation, status)
}

func (m *mockBusinessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
	m.Called(ctx, domain, operation, duration, status)
}

var _ metrics.BusinessMetrics = (*mockBusinessMetrics)(nil)

// mockResumeUseCase is a mock implementation of the combined resume use case.
type mockResumeUseCase struct {
	mock.Mock
}

func (m *mockResumeUseCase) ExportPDF(ctx context.Context, userID string, resumeID uuid.UUID) ([]byte, error) {
	args := m.Called(ctx, userID, resumeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *mockResumeUseCase) ExportScreenshot(ctx context.Context, userID string, resumeID uuid.UUID) ([]byte, error) {
	args := m.Called(ctx, userID, resumeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *mockResumeUseCase) Preview(ctx context.Context, resumeID uuid.UUID, token string) (*domain.Resume, error) {
	args := m.Called(ctx, resumeID, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Resume), args.Error(1)
}

func (m *mockResumeUseCase) GetPublic(ctx context.Context, userID string, slug string, cookie string) (*domain.Resume, error) {
	args := m.Called(ctx, userID, slug, cookie)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Resume), args.Error(1)
}

func (m *mockResumeUseCase) VerifyPassword(ctx context.Context, userID string, slug string, password string) (string, error) {
	args := m.Called(ctx, userID, slug, password)
	return args.String(0), args.Error(1)
}

func (m *mockResumeUseCase) SetPassword(ctx context.Context, userID string, resumeID uuid.UUID, password string) error {
	args := m.Called(ctx, userID, resumeID, password)
	return args.Error(0)
}

func (m *mockResumeUseCase) ClearPassword(ctx context.Context, userID string, resumeID uuid.UUID) error {
	args := m.Called(ctx, userID, resumeID)
	return args.Error(0)
}

// TestMetricsDecorator_ExportPDF tests metrics recording for PDF exports.
func TestMetricsDecorator_ExportPDF(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_RecordsSuccessMetrics", func(t *testing.T) {
		mockUseCase := &mockResumeUseCase{}
		mockMetrics := &mockBusinessMetrics{}
		resumeID := uuid.Must(uuid.NewV7())
		pdf := []byte("%PDF-1.7 fake")

		mockUseCase.On("ExportPDF", ctx, "user-1", resumeID).Return(pdf, nil).Once()
		mockMetrics.On("RecordOperation", ctx, "resumes", "export_pdf", "success").Return().Once()
		mockMetrics.On("RecordDuration", ctx, "resumes", "export_pdf", mock.AnythingOfType("time.Duration"), "success").
			Return().
			Once()

		decorator := NewResumeUseCaseWithMetrics(mockUseCase, mockMetrics)

		data, err := decorator.ExportPDF(ctx, "user-1", resumeID)
		assert.NoError(t, err)
		assert.Equal(t, pdf, data)
		mockUseCase.AssertExpectations(t)
		mockMetrics.AssertExpectations(t)
	})

	t.Run("Error_RecordsErrorMetrics", func(t *testing.T) {
		mockUseCase := &mockResumeUseCase{}
		mockMetrics := &mockBusinessMetrics{}
		resumeID := uuid.Must(uuid.NewV7())

		mockUseCase.On("ExportPDF", ctx, "user-1", resumeID).Return(nil, apperrors.ErrNotFound).Once()
		mockMetrics.On("RecordOperation", ctx, "resumes", "export_pdf", "error").Return().Once()
		mockMetrics.On("RecordDuration", ctx, "resumes", "export_pdf", mock.AnythingOfType("time.Duration"), "error").
			Return().
			Once()

		decorator := NewResumeUseCaseWithMetrics(mockUseCase, mockMetrics)

		data, err := decorator.ExportPDF(ctx, "user-1", resumeID)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
		assert.Nil(t, data)
		mockMetrics.AssertExpectations(t)
	})
}

// TestMetricsDecorator_GetPublic tests metrics recording for public access.
func TestMetricsDecorator_GetPublic(t *testing.T) {
	ctx := context.Background()

	t.Run("Error_PasswordRequiredCountsAsError", func(t *testing.T) {
		mockUseCase := &mockResumeUseCase{}
		mockMetrics := &mockBusinessMetrics{}

		mockUseCase.On("GetPublic", ctx, "user-1", "backend-engineer", "").
			Return(nil, apperrors.ErrPasswordRequired).
			Once()
		mockMetrics.On("RecordOperation", ctx, "resumes", "get_public", "error").Return().Once()
		mockMetrics.On("RecordDuration", ctx, "resumes", "get_public", mock.AnythingOfType("time.Duration"), "error").
			Return().
			Once()

		decorator := NewResumeUseCaseWithMetrics(mockUseCase, mockMetrics)

		resume, err := decorator.GetPublic(ctx, "user-1", "backend-engineer", "")
		assert.ErrorIs(t, err, apperrors.ErrPasswordRequired)
		assert.Nil(t, resume)
		mockMetrics.AssertExpectations(t)
	})
}
