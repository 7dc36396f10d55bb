// Package usecase implements the resume export and public access flows.
package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/allisson/resumes/internal/resume/domain"
)

// ResumeRepository abstracts resume persistence.
type ResumeRepository interface {
	// GetByID retrieves a resume by ID.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Resume, error)

	// GetByUserAndSlug retrieves a resume by its owner and slug.
	GetByUserAndSlug(ctx context.Context, userID string, slug string) (*domain.Resume, error)

	// UpdatePassword stores a new password hash; an empty hash clears it.
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
}

// ExportUseCase turns private resumes into shareable artifacts.
type ExportUseCase interface {
	// ExportPDF renders the resume as a paginated PDF, persists the
	// artifact and returns its bytes.
	ExportPDF(ctx context.Context, userID string, resumeID uuid.UUID) ([]byte, error)

	// ExportScreenshot returns a webp preview image, served from the
	// artifact cache when fresh.
	ExportScreenshot(ctx context.Context, userID string, resumeID uuid.UUID) ([]byte, error)

	// Preview returns the resume payload for the headless browser. The
	// capability token is the only credential.
	Preview(ctx context.Context, resumeID uuid.UUID, token string) (*domain.Resume, error)
}

// PublicUseCase serves publicly shared resumes behind the access gate.
type PublicUseCase interface {
	// GetPublic returns a public resume when it is open or the cookie
	// carries a valid grant; ErrPasswordRequired when locked.
	GetPublic(ctx context.Context, userID string, slug string, cookie string) (*domain.Resume, error)

	// VerifyPassword checks a password attempt and returns the cookie
	// value to grant on success.
	VerifyPassword(ctx context.Context, userID string, slug string, password string) (string, error)

	// SetPassword protects the resume with a new password.
	SetPassword(ctx context.Context, userID string, resumeID uuid.UUID, password string) error

	// ClearPassword removes the password, invalidating every previously
	// issued cookie.
	ClearPassword(ctx context.Context, userID string, resumeID uuid.UUID) error
}
