package domain

import (
	"fmt"
	"path/filepath"
	"strings"
)

// mimeTypes maps supported file extensions to their MIME types.
// Only these types are accepted; everything else is rejected at
// resolution time, before any provider call.
var mimeTypes = map[string]string{
	".pdf":  "application/pdf",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
}

// SupportedExtensions returns the accepted file extensions without dots.
func SupportedExtensions() []string {
	return []string{"pdf", "jpg", "jpeg", "png"}
}

// IsSupportedFile reports whether the path has a supported extension.
func IsSupportedFile(path string) bool {
	_, ok := mimeTypes[strings.ToLower(filepath.Ext(path))]
	return ok
}

// MIMETypeFor resolves the MIME type for a supported file path.
// Returns ErrUnsupportedFileType for anything outside the supported set.
func MIMETypeFor(path string) (string, error) {
	mime, ok := mimeTypes[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFileType, path)
	}
	return mime, nil
}
