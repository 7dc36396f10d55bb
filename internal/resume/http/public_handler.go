package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/allisson/resumes/internal/access"
	apperrors "github.com/allisson/resumes/internal/errors"
	"github.com/allisson/resumes/internal/httputil"
	"github.com/allisson/resumes/internal/resume/http/dto"
	resumeUseCase "github.com/allisson/resumes/internal/resume/usecase"
	customValidation "github.com/allisson/resumes/internal/validation"
)

// PublicHandler serves shared resumes to unauthenticated visitors and
// manages the access grant cookie for password-protected ones.
type PublicHandler struct {
	publicUseCase resumeUseCase.PublicUseCase
	cookieTTL     time.Duration
	secureCookie  bool
	logger        *slog.Logger
}

// NewPublicHandler creates a new public handler with required dependencies.
// secureCookie must be true when the app is served over https.
func NewPublicHandler(
	publicUseCase resumeUseCase.PublicUseCase,
	cookieTTL time.Duration,
	secureCookie bool,
	logger *slog.Logger,
) *PublicHandler {
	return &PublicHandler{
		publicUseCase: publicUseCase,
		cookieTTL:     cookieTTL,
		secureCookie:  secureCookie,
		logger:        logger,
	}
}

// GetHandler returns a publicly shared resume.
// GET /v1/public/:user/:slug
// Returns 423 Locked when the resume is password protected and the
// request carries no valid grant cookie.
func (h *PublicHandler) GetHandler(c *gin.Context) {
	userID := c.Param("user")
	slug := c.Param("slug")

	// Absent cookie reads as an empty grant.
	cookie, _ := c.Cookie(access.CookieName)

	resume, err := h.publicUseCase.GetPublic(c.Request.Context(), userID, slug, cookie)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrPasswordRequired) {
			c.JSON(http.StatusLocked, dto.LockedResponse{
				Error:  "password_required",
				UserID: userID,
				Slug:   slug,
			})
			return
		}
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapResumeToResponse(resume))
}

// VerifyPasswordHandler checks a password attempt and sets the grant cookie.
// POST /v1/public/:user/:slug/password
// Returns 204 No Content on success with a Set-Cookie header.
func (h *PublicHandler) VerifyPasswordHandler(c *gin.Context) {
	userID := c.Param("user")
	slug := c.Param("slug")

	var req dto.VerifyPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	grant, err := h.publicUseCase.VerifyPassword(c.Request.Context(), userID, slug, req.Password)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(access.CookieName, grant, int(h.cookieTTL.Seconds()), "/", "", h.secureCookie, true)
	c.Status(http.StatusNoContent)
}
