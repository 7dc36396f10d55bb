// Package storage provides a backend-agnostic blob store for export
// artifacts and user uploads, with filesystem and S3-compatible drivers.
package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	apperrors "github.com/allisson/resumes/internal/errors"
)

// Purpose partitions upload keys by what the object is for.
type Purpose string

// Known upload purposes.
const (
	PurposePicture    Purpose = "pictures"
	PurposeScreenshot Purpose = "screenshots"
	PurposePDF        Purpose = "pdfs"
)

// Object is a stored blob together with its metadata.
type Object struct {
	Key          string
	Data         []byte
	ContentType  string
	Size         int64
	ETag         string
	LastModified time.Time
}

// BlobStore is the contract every storage backend implements.
type BlobStore interface {
	// Write stores data under key, creating any missing intermediate
	// namespaces. Overwrites are idempotent.
	Write(ctx context.Context, key string, data []byte, contentType string) error

	// Read returns the object stored under key, or ErrNotFound.
	Read(ctx context.Context, key string) (*Object, error)

	// List returns the keys under prefix in lexical order. A prefix with
	// no objects yields an empty slice, not an error.
	List(ctx context.Context, prefix string) ([]string, error)

	// Delete removes the object stored under keyOrPrefix, or everything
	// under it when it names a prefix. Returns true when something was
	// removed; deleting an already-deleted key is not an error.
	Delete(ctx context.Context, keyOrPrefix string) (bool, error)

	// Healthcheck probes the backend. Failure is reported as
	// ErrStorageUnavailable wrapped with the driver diagnostic.
	Healthcheck(ctx context.Context) error
}

// UploadKey builds the canonical key for a user upload:
// uploads/{ownerID}/{purpose}/{identifier}.
func UploadKey(ownerID string, purpose Purpose, identifier string) string {
	return fmt.Sprintf("uploads/%s/%s/%s", ownerID, purpose, identifier)
}

// ValidateKey rejects keys that could resolve outside the configured
// root. Every path segment must be non-empty and must not be ".", "..",
// or contain a backslash. This is a hard security invariant: malformed
// keys fail closed before they reach any driver.
func ValidateKey(key string) error {
	if key == "" {
		return apperrors.Wrap(apperrors.ErrInvalidInput, "storage key cannot be empty")
	}

	for _, segment := range strings.Split(key, "/") {
		if segment == "" {
			return apperrors.Wrap(apperrors.ErrInvalidInput, "storage key contains an empty segment")
		}
		if segment == "." || segment == ".." {
			return apperrors.Wrap(apperrors.ErrInvalidInput, "storage key contains a traversal segment")
		}
		if strings.Contains(segment, `\`) {
			return apperrors.Wrap(apperrors.ErrInvalidInput, "storage key contains a backslash")
		}
	}

	return nil
}

// ValidatePrefix applies the same segment rules as ValidateKey but
// tolerates a single trailing slash.
func ValidatePrefix(prefix string) error {
	return ValidateKey(strings.TrimSuffix(prefix, "/"))
}
