// Package mocks provides mock implementations for testing render callers.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/allisson/resumes/internal/render"
)

// MockClient is a mock implementation of Client for testing.
type MockClient struct {
	mock.Mock
}

// RenderPDF mocks the RenderPDF method of Client.
func (m *MockClient) RenderPDF(ctx context.Context, url string, pageFormat string) ([]byte, error) {
	args := m.Called(ctx, url, pageFormat)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// RenderScreenshot mocks the RenderScreenshot method of Client.
func (m *MockClient) RenderScreenshot(ctx context.Context, url string, viewport render.Viewport) ([]byte, error) {
	args := m.Called(ctx, url, viewport)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}
