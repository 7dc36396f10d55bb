// Package mocks provides mock implementations for testing HTTP handlers.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/allisson/resumes/internal/resume/domain"
)

// MockExportUseCase is a mock implementation of ExportUseCase for testing.
type MockExportUseCase struct {
	mock.Mock
}

// ExportPDF mocks the ExportPDF method of ExportUseCase.
func (m *MockExportUseCase) ExportPDF(ctx context.Context, userID string, resumeID uuid.UUID) ([]byte, error) {
	args := m.Called(ctx, userID, resumeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// ExportScreenshot mocks the ExportScreenshot method of ExportUseCase.
func (m *MockExportUseCase) ExportScreenshot(ctx context.Context, userID string, resumeID uuid.UUID) ([]byte, error) {
	args := m.Called(ctx, userID, resumeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// Preview mocks the Preview method of ExportUseCase.
func (m *MockExportUseCase) Preview(ctx context.Context, resumeID uuid.UUID, token string) (*domain.Resume, error) {
	args := m.Called(ctx, resumeID, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Resume), args.Error(1)
}

// MockPublicUseCase is a mock implementation of PublicUseCase for testing.
type MockPublicUseCase struct {
	mock.Mock
}

// GetPublic mocks the GetPublic method of PublicUseCase.
func (m *MockPublicUseCase) GetPublic(ctx context.Context, userID string, slug string, cookie string) (*domain.Resume, error) {
	args := m.Called(ctx, userID, slug, cookie)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Resume), args.Error(1)
}

// VerifyPassword mocks the VerifyPassword method of PublicUseCase.
func (m *MockPublicUseCase) VerifyPassword(ctx context.Context, userID string, slug string, password string) (string, error) {
	args := m.Called(ctx, userID, slug, password)
	return args.String(0), args.Error(1)
}

// SetPassword mocks the SetPassword method of PublicUseCase.
func (m *MockPublicUseCase) SetPassword(ctx context.Context, userID string, resumeID uuid.UUID, password string) error {
	args := m.Called(ctx, userID, resumeID, password)
	return args.Error(0)
}

// ClearPassword mocks the ClearPassword method of PublicUseCase.
func (m *MockPublicUseCase) ClearPassword(ctx context.Context, userID string, resumeID uuid.UUID) error {
	args := m.Called(ctx, userID, resumeID)
	return args.Error(0)
}
