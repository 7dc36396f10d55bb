package http

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/allisson/resumes/internal/errors"
	"github.com/allisson/resumes/internal/httputil"
	"github.com/allisson/resumes/internal/resume/http/dto"
	"github.com/allisson/resumes/internal/storage"
)

// uploadFieldName is the multipart form field carrying the file.
const uploadFieldName = "file"

// cacheControlValue is sent with served files; ETag revalidation keeps
// stale copies from outliving a re-upload.
const cacheControlValue = "public, max-age=3600"

// StorageHandler handles file uploads and serving of stored objects.
type StorageHandler struct {
	store  storage.BlobStore
	appURL string
	logger *slog.Logger
}

// NewStorageHandler creates a new storage handler with required dependencies.
func NewStorageHandler(store storage.BlobStore, appURL string, logger *slog.Logger) *StorageHandler {
	return &StorageHandler{
		store:  store,
		appURL: appURL,
		logger: logger,
	}
}

// UploadHandler stores a multipart file upload for the caller.
// POST /v1/storage - Requires identity.
// Raster images are downscaled and re-encoded as JPEG; other payloads
// are stored verbatim. Returns 201 Created with the stored location.
func (h *StorageHandler) UploadHandler(c *gin.Context) {
	userID, ok := GetUserID(c.Request.Context())
	if !ok || userID == "" {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	fileHeader, err := c.FormFile(uploadFieldName)
	if err != nil {
		httputil.HandleBadRequestGin(c, fmt.Errorf("missing %q form field: %w", uploadFieldName, err), h.logger)
		return
	}

	if fileHeader.Size > storage.MaxUploadSize {
		httputil.HandleErrorGin(c, apperrors.Wrap(
			apperrors.ErrInvalidInput,
			fmt.Sprintf("payload of %d bytes exceeds the %d byte limit", fileHeader.Size, storage.MaxUploadSize),
		), h.logger)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		httputil.HandleErrorGin(c, apperrors.Wrap(err, "failed to open uploaded file"), h.logger)
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(io.LimitReader(file, storage.MaxUploadSize+1))
	if err != nil {
		httputil.HandleErrorGin(c, apperrors.Wrap(err, "failed to read uploaded file"), h.logger)
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	processed, err := storage.ProcessUpload(data, contentType)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	identifier := h.buildIdentifier(fileHeader.Filename, processed.Extension)
	key := storage.UploadKey(userID, storage.PurposePicture, identifier)

	if err := h.store.Write(c.Request.Context(), key, processed.Data, processed.ContentType); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.UploadResponse{
		Filename:    fileHeader.Filename,
		URL:         fmt.Sprintf("%s/v1/storage/%s", h.appURL, key),
		Path:        key,
		ContentType: processed.ContentType,
		Size:        int64(len(processed.Data)),
	})
}

// GetHandler serves a stored object with conditional GET support.
// GET /v1/storage/*filepath
// Returns 304 Not Modified when If-None-Match matches the current ETag,
// 403 for traversal-invalid keys and 404 for missing objects.
func (h *StorageHandler) GetHandler(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("filepath"), "/")
	if err := storage.ValidateKey(key); err != nil {
		httputil.HandleErrorGin(c, apperrors.Wrap(apperrors.ErrForbidden, err.Error()), h.logger)
		return
	}

	object, err := h.store.Read(c.Request.Context(), key)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Header("ETag", object.ETag)
	c.Header("Cache-Control", cacheControlValue)

	if match := c.GetHeader("If-None-Match"); match != "" && match == object.ETag {
		c.Status(http.StatusNotModified)
		return
	}

	if object.ContentType == "application/pdf" {
		filename := path.Base(key)
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	}

	if !object.LastModified.IsZero() {
		c.Header("Last-Modified", object.LastModified.UTC().Format(time.RFC1123))
	}

	c.Data(http.StatusOK, object.ContentType, object.Data)
}

// DeleteHandler removes a stored object owned by the caller.
// DELETE /v1/storage/*filepath - Requires identity.
// Returns 204 No Content, 403 outside the caller's prefix, 404 when missing.
func (h *StorageHandler) DeleteHandler(c *gin.Context) {
	userID, ok := GetUserID(c.Request.Context())
	if !ok || userID == "" {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	key := strings.TrimPrefix(c.Param("filepath"), "/")
	if err := storage.ValidateKey(key); err != nil {
		httputil.HandleErrorGin(c, apperrors.Wrap(apperrors.ErrForbidden, err.Error()), h.logger)
		return
	}

	// Callers can only delete objects under their own prefix.
	ownerPrefix := fmt.Sprintf("uploads/%s/", userID)
	if !strings.HasPrefix(key, ownerPrefix) {
		httputil.HandleErrorGin(c, apperrors.Wrap(apperrors.ErrForbidden, "key is outside the caller's namespace"), h.logger)
		return
	}

	deleted, err := h.store.Delete(c.Request.Context(), key)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	if !deleted {
		httputil.HandleErrorGin(c, apperrors.ErrNotFound, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}

// buildIdentifier derives the stored file name. Normalized images get a
// timestamped name with the canonical extension; everything else keeps
// its original extension when present.
func (h *StorageHandler) buildIdentifier(filename string, normalizedExt string) string {
	millis := time.Now().UnixMilli()
	if normalizedExt != "" {
		return fmt.Sprintf("%d%s", millis, normalizedExt)
	}

	ext := strings.ToLower(path.Ext(filename))
	return fmt.Sprintf("%d%s", millis, ext)
}
