package storage

import (
	"fmt"
	"strings"

	"jobboard_backend/platform/apperr"
)

// AllowedContentTypes are the posting formats the extractor can read.
var AllowedContentTypes = map[string]bool{
	"application/pdf": true,
	"image/png":       true,
	"image/jpeg":      true,
	"image/webp":      true,
	"text/plain":      true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
}

// NormalizeContentType drops parameters such as charset and lowercases.
func NormalizeContentType(contentType string) string {
	return strings.TrimSpace(strings.ToLower(strings.Split(contentType, ";")[0]))
}

// ValidateContentType checks if the content type is allowed.
func ValidateContentType(contentType string) error {
	if !AllowedContentTypes[NormalizeContentType(contentType)] {
		return apperr.BadRequest(fmt.Sprintf("content type %q is not allowed", contentType))
	}
	return nil
}

// ValidateFileSize checks if the file size is within limits.
func ValidateFileSize(sizeBytes, maxBytes int64) error {
	if sizeBytes <= 0 {
		return apperr.BadRequest("file size must be greater than 0")
	}
	if maxBytes > 0 && sizeBytes > maxBytes {
		return apperr.BadRequest(fmt.Sprintf("file size %d bytes exceeds maximum allowed size of %d bytes", sizeBytes, maxBytes))
	}
	return nil
}
