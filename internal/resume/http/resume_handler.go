package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apperrors "github.com/allisson/resumes/internal/errors"
	"github.com/allisson/resumes/internal/httputil"
	"github.com/allisson/resumes/internal/resume/http/dto"
	resumeUseCase "github.com/allisson/resumes/internal/resume/usecase"
	customValidation "github.com/allisson/resumes/internal/validation"
)

// ResumeHandler handles owner-scoped resume operations: artifact exports
// and password management. All routes require the identity middleware.
type ResumeHandler struct {
	exportUseCase resumeUseCase.ExportUseCase
	publicUseCase resumeUseCase.PublicUseCase
	logger        *slog.Logger
}

// NewResumeHandler creates a new resume handler with required dependencies.
func NewResumeHandler(
	exportUseCase resumeUseCase.ExportUseCase,
	publicUseCase resumeUseCase.PublicUseCase,
	logger *slog.Logger,
) *ResumeHandler {
	return &ResumeHandler{
		exportUseCase: exportUseCase,
		publicUseCase: publicUseCase,
		logger:        logger,
	}
}

// ExportPDFHandler renders the resume as a PDF and streams it back.
// GET /v1/resumes/:id/export/pdf
// Returns 200 OK with application/pdf and an attachment disposition.
func (h *ResumeHandler) ExportPDFHandler(c *gin.Context) {
	userID, resumeID, ok := h.ownerScope(c)
	if !ok {
		return
	}

	data, err := h.exportUseCase.ExportPDF(c.Request.Context(), userID, resumeID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", resumeID.String()+".pdf"))
	c.Data(http.StatusOK, "application/pdf", data)
}

// ExportScreenshotHandler returns a webp preview of the resume.
// GET /v1/resumes/:id/export/screenshot
func (h *ResumeHandler) ExportScreenshotHandler(c *gin.Context) {
	userID, resumeID, ok := h.ownerScope(c)
	if !ok {
		return
	}

	data, err := h.exportUseCase.ExportScreenshot(c.Request.Context(), userID, resumeID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusOK, "image/webp", data)
}

// SetPasswordHandler protects a resume with a password.
// PUT /v1/resumes/:id/password
// Returns 204 No Content.
func (h *ResumeHandler) SetPasswordHandler(c *gin.Context) {
	userID, resumeID, ok := h.ownerScope(c)
	if !ok {
		return
	}

	var req dto.SetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	if err := h.publicUseCase.SetPassword(c.Request.Context(), userID, resumeID, req.Password); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}

// DeletePasswordHandler removes the password from a resume.
// DELETE /v1/resumes/:id/password
// Returns 204 No Content.
func (h *ResumeHandler) DeletePasswordHandler(c *gin.Context) {
	userID, resumeID, ok := h.ownerScope(c)
	if !ok {
		return
	}

	if err := h.publicUseCase.ClearPassword(c.Request.Context(), userID, resumeID); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}

// ownerScope extracts the caller identity and the resume ID parameter.
// Writes the error response and returns ok=false when either is invalid.
func (h *ResumeHandler) ownerScope(c *gin.Context) (string, uuid.UUID, bool) {
	userID, ok := GetUserID(c.Request.Context())
	if !ok || userID == "" {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return "", uuid.Nil, false
	}

	resumeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(
			c,
			apperrors.Wrap(apperrors.ErrInvalidInput, "id must be a valid UUID"),
			h.logger,
		)
		return "", uuid.Nil, false
	}

	return userID, resumeID, true
}
