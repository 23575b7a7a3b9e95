package middleware

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Input validation and sanitization utilities

// DefaultMaxFileSize batas ukuran upload kalau config tidak mengisi
const DefaultMaxFileSize int64 = 20 << 20 // 20 MB

// ValidateFilename checks the uploaded filename against the allowed extensions
func ValidateFilename(filename string, allowedExts []string) error {
	if strings.TrimSpace(filename) == "" {
		return fmt.Errorf("filename cannot be empty")
	}

	// Block path traversal attempts
	if strings.Contains(filename, "..") || strings.ContainsAny(filename, "/\\") {
		return fmt.Errorf("invalid filename")
	}

	ext := strings.ToLower(filepath.Ext(filename))
	for _, a := range allowedExts {
		if ext == a {
			return nil
		}
	}
	return fmt.Errorf("unsupported file type: %s (allowed: %s)", ext, strings.Join(allowedExts, ", "))
}

// ValidateFileSize checks the declared upload size against the limit
func ValidateFileSize(size, max int64) error {
	if max <= 0 {
		max = DefaultMaxFileSize
	}
	if size > max {
		return fmt.Errorf("file too large: %d bytes (max %d)", size, max)
	}
	return nil
}

// SanitizeString removes dangerous characters from strings
func SanitizeString(input string) string {
	// Remove null bytes
	input = strings.ReplaceAll(input, "\x00", "")

	// Remove control characters
	var result strings.Builder
	for _, r := range input {
		if r >= 32 || r == '\t' || r == '\n' {
			result.WriteRune(r)
		}
	}

	return strings.TrimSpace(result.String())
}

// ValidateLimit validates pagination limit
func ValidateLimit(limit int) int {
	if limit <= 0 {
		return 20 // default
	}
	if limit > 100 {
		return 100 // max limit
	}
	return limit
}

// ValidatePage validates pagination page number
func ValidatePage(page int) int {
	if page <= 0 {
		return 1
	}
	return page
}
