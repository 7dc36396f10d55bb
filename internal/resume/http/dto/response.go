// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	"encoding/json"
	"time"

	"github.com/allisson/resumes/internal/resume/domain"
)

// ResumeResponse represents a resume in API responses.
// The password hash is never serialized; only the protection flag is exposed.
type ResumeResponse struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	Slug        string          `json:"slug"`
	Title       string          `json:"title"`
	Visibility  string          `json:"visibility"`
	HasPassword bool            `json:"has_password"`
	Data        json.RawMessage `json:"data"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// MapResumeToResponse converts a domain resume to an API response.
func MapResumeToResponse(resume *domain.Resume) ResumeResponse {
	return ResumeResponse{
		ID:          resume.ID.String(),
		UserID:      resume.UserID,
		Slug:        resume.Slug,
		Title:       resume.Title,
		Visibility:  string(resume.Visibility),
		HasPassword: resume.HasPassword(),
		Data:        resume.Data,
		CreatedAt:   resume.CreatedAt,
		UpdatedAt:   resume.UpdatedAt,
	}
}

// UploadResponse describes a stored file after a successful upload.
type UploadResponse struct {
	Filename    string `json:"filename"`
	URL         string `json:"url"`
	Path        string `json:"path"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

// LockedResponse identifies a password-protected resume without exposing it.
type LockedResponse struct {
	Error  string `json:"error"`
	UserID string `json:"user_id"`
	Slug   string `json:"slug"`
}
