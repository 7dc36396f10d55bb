package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/resumes/internal/access"
	"github.com/allisson/resumes/internal/artifact"
	apperrors "github.com/allisson/resumes/internal/errors"
	"github.com/allisson/resumes/internal/render"
	"github.com/allisson/resumes/internal/resume/domain"
	"github.com/allisson/resumes/internal/storage"
	"github.com/allisson/resumes/internal/token"
)

// defaultPageFormat is the page size requested from the render backend.
const defaultPageFormat = "A4"

// resumeUseCase implements ExportUseCase and PublicUseCase.
type resumeUseCase struct {
	repo         ResumeRepository
	tokenService token.Service
	gate         access.Gate
	renderClient render.Client
	cache        *artifact.Cache
	store        storage.BlobStore
	appURL       string
	logger       *slog.Logger
}

// NewResumeUseCase creates the resume use case with all pipeline
// dependencies injected.
func NewResumeUseCase(
	repo ResumeRepository,
	tokenService token.Service,
	gate access.Gate,
	renderClient render.Client,
	cache *artifact.Cache,
	store storage.BlobStore,
	appURL string,
	logger *slog.Logger,
) interface {
	ExportUseCase
	PublicUseCase
} {
	return &resumeUseCase{
		repo:         repo,
		tokenService: tokenService,
		gate:         gate,
		renderClient: renderClient,
		cache:        cache,
		store:        store,
		appURL:       appURL,
		logger:       logger,
	}
}

// ExportPDF renders the resume through the external backend and persists
// the artifact under a timestamped key before returning its bytes.
func (u *resumeUseCase) ExportPDF(ctx context.Context, userID string, resumeID uuid.UUID) ([]byte, error) {
	resume, err := u.getOwned(ctx, userID, resumeID)
	if err != nil {
		return nil, err
	}

	previewURL, err := u.previewURL(resume.ID)
	if err != nil {
		return nil, err
	}

	data, err := u.renderClient.RenderPDF(ctx, previewURL, defaultPageFormat)
	if err != nil {
		return nil, err
	}

	key := storage.UploadKey(userID, storage.PurposePDF, fmt.Sprintf("%d.pdf", time.Now().UnixMilli()))
	if err := u.store.Write(ctx, key, data, "application/pdf"); err != nil {
		return nil, apperrors.Wrap(err, "failed to persist pdf artifact")
	}

	u.logger.Info("exported resume pdf",
		slog.String("resume_id", resume.ID.String()),
		slog.String("key", key),
		slog.Int("size", len(data)),
	)

	return data, nil
}

// ExportScreenshot serves the resume preview image through the artifact
// cache; on a cache miss the render callback mints a fresh capability
// token and calls the backend once.
func (u *resumeUseCase) ExportScreenshot(ctx context.Context, userID string, resumeID uuid.UUID) ([]byte, error) {
	resume, err := u.getOwned(ctx, userID, resumeID)
	if err != nil {
		return nil, err
	}

	return u.cache.GetOrCreate(ctx, resume.ID.String(), func(ctx context.Context) ([]byte, error) {
		previewURL, err := u.previewURL(resume.ID)
		if err != nil {
			return nil, err
		}
		return u.renderClient.RenderScreenshot(ctx, previewURL, render.DefaultViewport)
	})
}

// Preview verifies the capability token and returns the resume payload.
// The token is a one-time, resource-scoped credential: it must verify
// and it must have been issued for exactly this resume.
func (u *resumeUseCase) Preview(ctx context.Context, resumeID uuid.UUID, tokenStr string) (*domain.Resume, error) {
	resourceID, err := u.tokenService.Verify(tokenStr)
	if err != nil {
		return nil, err
	}

	if resourceID != resumeID.String() {
		return nil, apperrors.Wrap(apperrors.ErrUnauthorized, "token is scoped to a different resume")
	}

	return u.repo.GetByID(ctx, resumeID)
}

// GetPublic returns a publicly shared resume, enforcing the access gate.
func (u *resumeUseCase) GetPublic(ctx context.Context, userID string, slug string, cookie string) (*domain.Resume, error) {
	resume, err := u.repo.GetByUserAndSlug(ctx, userID, slug)
	if err != nil {
		return nil, err
	}

	// Private resumes are indistinguishable from missing ones.
	if !resume.IsPublic() {
		return nil, domain.ErrResumeNotFound
	}

	if !resume.HasPassword() {
		return resume, nil
	}

	if u.gate.HasAccess(resume.ID.String(), resume.Password, cookie) {
		return resume, nil
	}

	return nil, apperrors.ErrPasswordRequired
}

// VerifyPassword checks a password attempt against the stored hash and
// returns the grant to set as a cookie. Failures are surfaced verbatim
// and never retried.
func (u *resumeUseCase) VerifyPassword(ctx context.Context, userID string, slug string, password string) (string, error) {
	resume, err := u.repo.GetByUserAndSlug(ctx, userID, slug)
	if err != nil {
		return "", err
	}

	if !resume.IsPublic() {
		return "", domain.ErrResumeNotFound
	}

	if !resume.HasPassword() {
		return "", apperrors.Wrap(apperrors.ErrInvalidInput, "resume is not password protected")
	}

	if !u.gate.VerifyPassword(password, resume.Password) {
		return "", apperrors.ErrInvalidPassword
	}

	return u.gate.Grant(resume.ID.String(), resume.Password), nil
}

// SetPassword hashes and persists a new password for the resume.
func (u *resumeUseCase) SetPassword(ctx context.Context, userID string, resumeID uuid.UUID, password string) error {
	resume, err := u.getOwned(ctx, userID, resumeID)
	if err != nil {
		return err
	}

	passwordHash, err := u.gate.HashPassword(password)
	if err != nil {
		return err
	}

	return u.repo.UpdatePassword(ctx, resume.ID, passwordHash)
}

// ClearPassword removes the password. Verification always runs against
// the current stored hash, so every earlier cookie stops validating.
func (u *resumeUseCase) ClearPassword(ctx context.Context, userID string, resumeID uuid.UUID) error {
	resume, err := u.getOwned(ctx, userID, resumeID)
	if err != nil {
		return err
	}

	return u.repo.UpdatePassword(ctx, resume.ID, "")
}

// getOwned loads a resume and enforces ownership. A resume owned by
// someone else reads as not found.
func (u *resumeUseCase) getOwned(ctx context.Context, userID string, resumeID uuid.UUID) (*domain.Resume, error) {
	resume, err := u.repo.GetByID(ctx, resumeID)
	if err != nil {
		return nil, err
	}

	if resume.UserID != userID {
		return nil, domain.ErrResumeNotFound
	}

	return resume, nil
}

// previewURL builds the token-carrying URL the render backend visits.
func (u *resumeUseCase) previewURL(resumeID uuid.UUID) (string, error) {
	tok, err := u.tokenService.Issue(resumeID.String())
	if err != nil {
		return "", apperrors.Wrap(err, "failed to issue capability token")
	}

	return fmt.Sprintf("%s/v1/printer/%s/preview?token=%s", u.appURL, resumeID, tok), nil
}
