package services

import (
	"fmt"
	"mime"
	"strings"

	"github.com/geopix/server/internal/models"
)

// allowedContentTypes lists the accepted JPEG variants, matched case-insensitively
var allowedContentTypes = map[string]bool{
	"image/jpeg":  true,
	"image/jpg":   true,
	"image/pjpeg": true,
}

// UploadValidator admits a photo only when its declared content type is a
// JPEG variant, its declared size is within the ceiling, and its EXIF data
// carries usable GPS coordinates. Checks run in that order, cheapest first:
// EXIF parsing requires decoding the byte stream, so it comes last.
type UploadValidator struct {
	exifService *EXIFService
	maxBytes    int64
}

// NewUploadValidator creates a new UploadValidator with the size ceiling in MB
func NewUploadValidator(exifService *EXIFService, maxFileSizeMB int64) *UploadValidator {
	return &UploadValidator{
		exifService: exifService,
		maxBytes:    maxFileSizeMB * 1024 * 1024,
	}
}

// Validate checks an upload and returns its normalized GPS coordinates
func (v *UploadValidator) Validate(content []byte, contentType string, size int64) (lat, lng float64, err error) {
	mediaType := contentType
	if parsed, _, perr := mime.ParseMediaType(contentType); perr == nil {
		mediaType = parsed
	}

	if !allowedContentTypes[strings.ToLower(strings.TrimSpace(mediaType))] {
		return 0, 0, fmt.Errorf("%w: received %q", models.ErrInvalidMediaType, contentType)
	}

	if size > v.maxBytes {
		return 0, 0, fmt.Errorf("%w: %d bytes (limit %d)", models.ErrPayloadTooLarge, size, v.maxBytes)
	}

	gps := v.exifService.ExtractGPS(content)
	if gps.Latitude == nil || gps.Longitude == nil {
		return 0, 0, models.ErrMissingLocation
	}

	return *gps.Latitude, *gps.Longitude, nil
}
