package storage

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"

	// Raster decoders for the upload pipeline.
	_ "image/gif"
	_ "image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	apperrors "github.com/allisson/resumes/internal/errors"
)

const (
	// MaxUploadSize is the hard ceiling for user-submitted payloads.
	MaxUploadSize = 10 << 20 // 10 MB

	// maxImageDimension bounds both sides of a stored image.
	maxImageDimension = 800

	// jpegQuality is the encoder quality for normalized images.
	jpegQuality = 80
)

// rasterImageTypes are the declared content types that go through the
// decode-resize-reencode pipeline. Everything else is stored verbatim.
var rasterImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// ProcessedUpload is the result of running a payload through the upload
// pipeline.
type ProcessedUpload struct {
	Data        []byte
	ContentType string
	// Extension is the canonical file extension for normalized images
	// (".jpg"), empty for payloads stored verbatim.
	Extension string
}

// ProcessUpload enforces the size ceiling and normalizes raster images:
// decode, resize to fit within an 800x800 bounding box without
// upscaling, re-encode as JPEG. Normalization bounds storage cost and
// guarantees a predictable content type for every stored image
// regardless of what was uploaded.
func ProcessUpload(data []byte, contentType string) (*ProcessedUpload, error) {
	if len(data) > MaxUploadSize {
		return nil, apperrors.Wrap(
			apperrors.ErrInvalidInput,
			fmt.Sprintf("payload of %d bytes exceeds the %d byte limit", len(data), MaxUploadSize),
		)
	}

	if !rasterImageTypes[contentType] {
		return &ProcessedUpload{
			Data:        data,
			ContentType: contentType,
		}, nil
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "failed to decode image payload")
	}

	resized := resizeToFit(src, maxImageDimension)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, apperrors.Wrap(err, "failed to encode image payload")
	}

	return &ProcessedUpload{
		Data:        buf.Bytes(),
		ContentType: "image/jpeg",
		Extension:   ".jpg",
	}, nil
}

// resizeToFit scales src to fit within a max x max bounding box while
// preserving aspect ratio. Images already within the box are returned
// unchanged (no upscaling).
func resizeToFit(src image.Image, max int) image.Image {
	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	if width <= max && height <= max {
		return src
	}

	newWidth, newHeight := width, height
	if width >= height {
		newWidth = max
		newHeight = height * max / width
	} else {
		newHeight = max
		newWidth = width * max / height
	}
	if newWidth < 1 {
		newWidth = 1
	}
	if newHeight < 1 {
		newHeight = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
	return dst
}
