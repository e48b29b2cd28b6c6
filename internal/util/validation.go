package util

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/socialfusion/backend/internal/models"
)

// IsValidImageFile checks if a filename has a valid image extension
func IsValidImageFile(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	validExts := []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}

	for _, validExt := range validExts {
		if ext == validExt {
			return true
		}
	}
	return false
}

// IsValidVideoFile checks if a filename has a valid video extension
func IsValidVideoFile(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	validExts := []string{".mp4", ".mov", ".webm", ".m4v"}

	for _, validExt := range validExts {
		if ext == validExt {
			return true
		}
	}
	return false
}

// MediaTypeFromContentType infers the media kind from a MIME type prefix.
// Unrecognized types fall back to image.
func MediaTypeFromContentType(contentType string) models.MediaType {
	switch {
	case strings.HasPrefix(contentType, "video/"):
		return models.MediaTypeVideo
	case strings.HasPrefix(contentType, "audio/"):
		return models.MediaTypeAudio
	default:
		return models.MediaTypeImage
	}
}

// ValidateFilename checks if a display filename is valid
// Filename is required and cannot contain directory separators
// Must be <= 255 chars
func ValidateFilename(filename string) error {
	if filename == "" {
		return errors.New("filename is required")
	}
	if strings.Contains(filename, "/") || strings.Contains(filename, "\\") {
		return errors.New("filename cannot contain directory paths")
	}
	if len(filename) > 255 {
		return errors.New("filename too long (max 255 characters)")
	}
	return nil
}
