package http

import (
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "github.com/allisson/resumes/internal/errors"
	"github.com/allisson/resumes/internal/httputil"
)

// userIDHeader carries the opaque identity of the caller. Authentication
// itself happens upstream; this service only scopes data by the value.
const userIDHeader = "X-User-Id"

// UserIDMiddleware extracts the caller identity from the X-User-Id header
// and stores it in the request context.
//
// Owner-scoped routes require it; a missing or blank header is rejected
// with 401 Unauthorized before any handler runs.
func UserIDMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := strings.TrimSpace(c.GetHeader(userIDHeader))
		if userID == "" {
			logger.Debug("identity missing: blank user header")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		ctx := WithUserID(c.Request.Context(), userID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// SecurityHeadersMiddleware sets defensive headers on responses that serve
// user-controlled content (stored files and public resumes).
func SecurityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Content-Security-Policy", "default-src 'none'; img-src 'self'; style-src 'unsafe-inline'")
		c.Next()
	}
}
