package utils

import (
	"path/filepath"
	"strings"
)

// IsImageContentType reports whether a MIME type describes an image,
// regardless of parameters like charset or boundary
func IsImageContentType(contentType string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(contentType)), "image/")
}

// FileExtension returns the original filename's extension including the
// leading dot, or an empty string when the name carries none. Stored
// attachment files are always named by the attachment id plus this suffix.
func FileExtension(filename string) string {
	ext := filepath.Ext(strings.TrimSpace(filename))
	if ext == "." {
		return ""
	}
	return strings.ToLower(ext)
}
