// Package mocks provides mock implementations for testing use cases.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/allisson/resumes/internal/resume/domain"
)

// MockResumeRepository is a mock implementation of ResumeRepository for testing.
type MockResumeRepository struct {
	mock.Mock
}

// GetByID mocks the GetByID method of ResumeRepository.
func (m *MockResumeRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Resume, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Resume), args.Error(1)
}

// GetByUserAndSlug mocks the GetByUserAndSlug method of ResumeRepository.
func (m *MockResumeRepository) GetByUserAndSlug(ctx context.Context, userID string, slug string) (*domain.Resume, error) {
	args := m.Called(ctx, userID, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Resume), args.Error(1)
}

// UpdatePassword mocks the UpdatePassword method of ResumeRepository.
func (m *MockResumeRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}
