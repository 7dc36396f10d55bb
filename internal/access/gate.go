// Package access gates public resumes behind an optional password.
// Passwords are hashed with Argon2id; successful verification hands the
// visitor a signed cookie that is recomputed and compared in constant
// time on every request, always against the currently stored hash.
package access

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"

	"github.com/allisson/go-pwdhash"
	"golang.org/x/crypto/hkdf"

	apperrors "github.com/allisson/resumes/internal/errors"
)

// CookieName is the HTTP cookie carrying the access grant.
const CookieName = "resume_access"

// Gate issues and verifies password-protection grants.
type Gate interface {
	// HashPassword hashes a plain text password using Argon2id.
	HashPassword(plaintext string) (string, error)

	// VerifyPassword performs a constant-time comparison between a plain
	// password and its encoded Argon2id hash.
	VerifyPassword(plaintext string, encodedHash string) bool

	// Grant derives the cookie value for a resource and its current
	// password hash. Changing the hash invalidates every earlier grant.
	Grant(resourceID string, passwordHash string) string

	// HasAccess reports whether the presented cookie value matches the
	// grant for the resource's current password hash. The comparison runs
	// in time independent of how many leading bytes match.
	HasAccess(resourceID string, passwordHash string, presented string) bool
}

// gate implements Gate using go-pwdhash for password hashing and
// HMAC-SHA256 for cookie signing.
type gate struct {
	hasher    *pwdhash.PasswordHasher
	cookieKey []byte
}

// NewGate creates a Gate. The cookie signing key is derived from the
// server secret with HKDF-SHA256, separated from the capability token key.
func NewGate(secretKey string) (Gate, error) {
	hasher, err := pwdhash.New(
		pwdhash.WithPolicy(pwdhash.PolicyModerate),
	)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to create password hasher")
	}

	cookieKey, err := deriveCookieKey([]byte(secretKey))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to derive cookie signing key")
	}

	return &gate{
		hasher:    hasher,
		cookieKey: cookieKey,
	}, nil
}

// deriveCookieKey uses HKDF-SHA256 to derive a 32-byte signing key from
// the server secret. Info parameter is versioned for future algorithm
// changes.
func deriveCookieKey(secret []byte) ([]byte, error) {
	info := []byte("access-cookie-v1")
	hkdf := hkdf.New(sha256.New, secret, nil, info)

	cookieKey := make([]byte, 32)
	if _, err := io.ReadFull(hkdf, cookieKey); err != nil {
		return nil, err
	}

	return cookieKey, nil
}

// HashPassword hashes a plain text password using Argon2id.
func (g *gate) HashPassword(plaintext string) (string, error) {
	encodedHash, err := g.hasher.Hash([]byte(plaintext))
	if err != nil {
		return "", apperrors.Wrap(err, "failed to hash password")
	}
	return encodedHash, nil
}

// VerifyPassword checks a plaintext password against its encoded hash.
// Argument order follows pwdhash.Verify(password, encodedHash).
func (g *gate) VerifyPassword(plaintext string, encodedHash string) bool {
	ok, err := g.hasher.Verify([]byte(plaintext), encodedHash)
	if err != nil {
		return false
	}
	return ok
}

// Grant computes hex(HMAC-SHA256(cookieKey, resourceID || passwordHash)).
// The grant is derived, never persisted.
func (g *gate) Grant(resourceID string, passwordHash string) string {
	mac := hmac.New(sha256.New, g.cookieKey)
	mac.Write([]byte(resourceID))
	mac.Write([]byte(passwordHash))
	return hex.EncodeToString(mac.Sum(nil))
}

// HasAccess recomputes the expected grant and compares it with the
// presented cookie value. Equal-length check first, then byte-wise
// constant-time compare.
func (g *gate) HasAccess(resourceID string, passwordHash string, presented string) bool {
	if passwordHash == "" || presented == "" {
		return false
	}

	expected := g.Grant(resourceID, passwordHash)
	if len(presented) != len(expected) {
		return false
	}
	return hmac.Equal([]byte(presented), []byte(expected))
}
