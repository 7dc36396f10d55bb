package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apperrors "github.com/allisson/resumes/internal/errors"
	"github.com/allisson/resumes/internal/httputil"
	"github.com/allisson/resumes/internal/resume/http/dto"
	resumeUseCase "github.com/allisson/resumes/internal/resume/usecase"
)

// PrinterHandler serves the resume payload to the headless browser. The
// query token is the only credential the route accepts.
type PrinterHandler struct {
	exportUseCase resumeUseCase.ExportUseCase
	logger        *slog.Logger
}

// NewPrinterHandler creates a new printer handler with required dependencies.
func NewPrinterHandler(exportUseCase resumeUseCase.ExportUseCase, logger *slog.Logger) *PrinterHandler {
	return &PrinterHandler{
		exportUseCase: exportUseCase,
		logger:        logger,
	}
}

// PreviewHandler returns the resume JSON for a valid capability token.
// GET /v1/printer/:id/preview?token=...
// Returns 401 for missing, malformed, expired or mismatched tokens.
func (h *PrinterHandler) PreviewHandler(c *gin.Context) {
	resumeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(
			c,
			apperrors.Wrap(apperrors.ErrInvalidInput, "id must be a valid UUID"),
			h.logger,
		)
		return
	}

	token := c.Query("token")
	if token == "" {
		httputil.HandleErrorGin(c, apperrors.ErrInvalidToken, h.logger)
		return
	}

	resume, err := h.exportUseCase.Preview(c.Request.Context(), resumeID, token)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapResumeToResponse(resume))
}
