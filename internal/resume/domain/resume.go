// Package domain defines the core resume domain entities and types.
package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/resumes/internal/errors"
)

// Visibility controls who can fetch a resume through the public route.
type Visibility string

// Supported visibility values.
const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

// Resume is the document the export pipeline operates on. The editing
// surface around it lives in the web client; this service only needs
// ownership, visibility, the optional password hash and the payload the
// headless browser renders.
type Resume struct {
	ID     uuid.UUID
	UserID string
	Slug   string
	Title  string
	// Visibility gates the public route; private resumes are reachable
	// only by their owner and by capability-token holders.
	Visibility Visibility
	// Password is the encoded Argon2id hash for protected sharing.
	// Empty means the resume is open once public.
	Password  string
	Data      json.RawMessage
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsPublic reports whether the resume is reachable through the public route.
func (r *Resume) IsPublic() bool {
	return r.Visibility == VisibilityPublic
}

// HasPassword reports whether public access requires a password grant.
func (r *Resume) HasPassword() bool {
	return r.Password != ""
}

// Domain-specific errors for resume operations.
var (
	// ErrResumeNotFound indicates the requested resume does not exist.
	ErrResumeNotFound = errors.Wrap(errors.ErrNotFound, "resume not found")
)
