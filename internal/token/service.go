// Package token provides short-lived, resource-scoped capability tokens.
// A capability token lets the headless render backend reach the normally
// authenticated preview route for exactly one resume, without a session.
package token

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/hkdf"

	apperrors "github.com/allisson/resumes/internal/errors"
)

// Service issues and verifies capability tokens.
type Service interface {
	// Issue creates a signed token scoped to a single resource id.
	Issue(resourceID string) (string, error)

	// Verify checks a token's signature and expiry and returns the
	// resource id it was issued for. Returns ErrInvalidToken on malformed
	// input or signature mismatch, ErrExpiredToken when the expiry has
	// passed.
	Verify(token string) (string, error)
}

// service implements Service using HMAC-SHA256 over the canonical
// "resourceID:expiresAt" string.
type service struct {
	signingKey []byte
	expiration time.Duration
	now        func() time.Time
}

// NewService creates a token Service. The signing key is derived from the
// server secret with HKDF-SHA256 so that token signing and access cookie
// signing never share key material.
func NewService(secretKey string, expiration time.Duration) (Service, error) {
	signingKey, err := deriveSigningKey([]byte(secretKey))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to derive token signing key")
	}

	return &service{
		signingKey: signingKey,
		expiration: expiration,
		now:        time.Now,
	}, nil
}

// deriveSigningKey uses HKDF-SHA256 to derive a 32-byte signing key from
// the server secret. Info parameter is versioned for future algorithm
// changes.
func deriveSigningKey(secret []byte) ([]byte, error) {
	info := []byte("printer-token-v1")
	hkdf := hkdf.New(sha256.New, secret, nil, info)

	signingKey := make([]byte, 32)
	if _, err := io.ReadFull(hkdf, signingKey); err != nil {
		return nil, err
	}

	return signingKey, nil
}

// Issue creates a token of the form base64url(resourceID:expiresUnix:sig)
// where sig is hex-encoded HMAC-SHA256 over "resourceID:expiresUnix".
func (s *service) Issue(resourceID string) (string, error) {
	if resourceID == "" || strings.Contains(resourceID, ":") {
		return "", apperrors.Wrap(apperrors.ErrInvalidInput, "invalid resource id")
	}

	expiresAt := s.now().Add(s.expiration).Unix()
	payload := canonicalPayload(resourceID, expiresAt)
	sig := s.sign(payload)

	raw := fmt.Sprintf("%s:%s", payload, hex.EncodeToString(sig))
	return base64.RawURLEncoding.EncodeToString([]byte(raw)), nil
}

// Verify recomputes the signature over the claimed payload and compares in
// constant time before looking at the expiry, so a tampered token never
// reveals whether its timestamp would have been acceptable.
func (s *service) Verify(token string) (string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrInvalidToken, "malformed token encoding")
	}

	parts := strings.Split(string(raw), ":")
	if len(parts) != 3 {
		return "", apperrors.Wrap(apperrors.ErrInvalidToken, "malformed token payload")
	}
	resourceID, expiresStr, sigHex := parts[0], parts[1], parts[2]

	expiresAt, err := strconv.ParseInt(expiresStr, 10, 64)
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrInvalidToken, "malformed token expiry")
	}

	presentedSig, err := hex.DecodeString(sigHex)
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrInvalidToken, "malformed token signature")
	}

	expectedSig := s.sign(canonicalPayload(resourceID, expiresAt))
	if !hmac.Equal(presentedSig, expectedSig) {
		return "", apperrors.ErrInvalidToken
	}

	if s.now().Unix() > expiresAt {
		return "", apperrors.ErrExpiredToken
	}

	return resourceID, nil
}

// sign computes HMAC-SHA256 over the payload with the derived signing key.
func (s *service) sign(payload string) []byte {
	mac := hmac.New(sha256.New, s.signingKey)
	mac.Write([]byte(payload))
	return mac.Sum(nil)
}

// canonicalPayload builds the signed "resourceID:expiresAt" string.
func canonicalPayload(resourceID string, expiresAt int64) string {
	return fmt.Sprintf("%s:%d", resourceID, expiresAt)
}
