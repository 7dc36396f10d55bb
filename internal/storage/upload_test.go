package storage

import (
	"bytes"
	"image"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/resumes/internal/errors"
)

// encodeTestImage produces an encoded image of the given dimensions.
func encodeTestImage(t *testing.T, width, height int, encode func(*bytes.Buffer, image.Image) error) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	var buf bytes.Buffer
	require.NoError(t, encode(&buf, img))

	return buf.Bytes()
}

func encodeJPEG(buf *bytes.Buffer, img image.Image) error {
	return jpeg.Encode(buf, img, &jpeg.Options{Quality: 90})
}

func encodePNG(buf *bytes.Buffer, img image.Image) error {
	return png.Encode(buf, img)
}

func TestProcessUpload(t *testing.T) {
	t.Run("Success_LargeJPEGIsResizedWithinBounds", func(t *testing.T) {
		data := encodeTestImage(t, 1600, 1200, encodeJPEG)

		processed, err := ProcessUpload(data, "image/jpeg")
		require.NoError(t, err)
		assert.Equal(t, "image/jpeg", processed.ContentType)
		assert.Equal(t, ".jpg", processed.Extension)

		decoded, _, err := image.Decode(bytes.NewReader(processed.Data))
		require.NoError(t, err)
		assert.LessOrEqual(t, decoded.Bounds().Dx(), 800)
		assert.LessOrEqual(t, decoded.Bounds().Dy(), 800)
		// Aspect ratio 4:3 preserved
		assert.Equal(t, 800, decoded.Bounds().Dx())
		assert.Equal(t, 600, decoded.Bounds().Dy())
	})

	t.Run("Success_SmallImageIsNotUpscaled", func(t *testing.T) {
		data := encodeTestImage(t, 200, 100, encodeJPEG)

		processed, err := ProcessUpload(data, "image/jpeg")
		require.NoError(t, err)

		decoded, _, err := image.Decode(bytes.NewReader(processed.Data))
		require.NoError(t, err)
		assert.Equal(t, 200, decoded.Bounds().Dx())
		assert.Equal(t, 100, decoded.Bounds().Dy())
	})

	t.Run("Success_PNGIsTranscodedToJPEG", func(t *testing.T) {
		data := encodeTestImage(t, 1000, 1000, encodePNG)

		processed, err := ProcessUpload(data, "image/png")
		require.NoError(t, err)
		assert.Equal(t, "image/jpeg", processed.ContentType)
		assert.Equal(t, ".jpg", processed.Extension)

		decoded, format, err := image.Decode(bytes.NewReader(processed.Data))
		require.NoError(t, err)
		assert.Equal(t, "jpeg", format)
		assert.Equal(t, 800, decoded.Bounds().Dx())
		assert.Equal(t, 800, decoded.Bounds().Dy())
	})

	t.Run("Success_TallImagePreservesAspect", func(t *testing.T) {
		data := encodeTestImage(t, 400, 1600, encodeJPEG)

		processed, err := ProcessUpload(data, "image/jpeg")
		require.NoError(t, err)

		decoded, _, err := image.Decode(bytes.NewReader(processed.Data))
		require.NoError(t, err)
		assert.Equal(t, 200, decoded.Bounds().Dx())
		assert.Equal(t, 800, decoded.Bounds().Dy())
	})

	t.Run("Success_NonImageStoredVerbatim", func(t *testing.T) {
		data := []byte("%PDF-1.4 not an image")

		processed, err := ProcessUpload(data, "application/pdf")
		require.NoError(t, err)
		assert.Equal(t, data, processed.Data)
		assert.Equal(t, "application/pdf", processed.ContentType)
		assert.Empty(t, processed.Extension)
	})

	t.Run("Failure_PayloadOverCeiling", func(t *testing.T) {
		data := make([]byte, MaxUploadSize+1)

		_, err := ProcessUpload(data, "application/octet-stream")
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})

	t.Run("Failure_CorruptImagePayload", func(t *testing.T) {
		_, err := ProcessUpload([]byte("not-actually-a-jpeg"), "image/jpeg")
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})
}
