package middleware

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// Input validation and sanitization utilities

const maxQuestionLength = 1000

// ValidateQuestion checks that a question is present and within bounds.
func ValidateQuestion(question string) error {
	q := strings.TrimSpace(question)
	if q == "" {
		return fmt.Errorf("question cannot be empty")
	}
	if len(q) > maxQuestionLength {
		return fmt.Errorf("question too long (max %d chars)", maxQuestionLength)
	}
	return nil
}

// ValidateDatasetID validates dataset ID format (UUID)
func ValidateDatasetID(datasetID string) error {
	if datasetID == "" {
		return fmt.Errorf("dataset ID cannot be empty")
	}

	pattern := `^[a-f0-9]{8}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{12}$`
	matched, _ := regexp.MatchString(pattern, strings.ToLower(datasetID))
	if !matched {
		return fmt.Errorf("invalid dataset ID format")
	}

	return nil
}

// ValidateFilename validates an uploaded file name
func ValidateFilename(name string) error {
	if name == "" {
		return fmt.Errorf("filename cannot be empty")
	}

	// Clean the path
	cleaned := filepath.Clean(name)

	// Block path traversal attempts
	if strings.Contains(cleaned, "..") || strings.ContainsAny(cleaned, "/\\") {
		return fmt.Errorf("path traversal detected")
	}

	ext := strings.ToLower(filepath.Ext(cleaned))
	if ext != ".csv" {
		return fmt.Errorf("invalid file type: %s (allowed: .csv)", ext)
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

// ValidateTenantID validates tenant ID format
func ValidateTenantID(tenant string) error {
	if tenant == "" {
		return fmt.Errorf("tenant ID cannot be empty")
	}

	// Allow alphanumeric, dash, underscore (max 64 chars)
	pattern := `^[a-zA-Z0-9_-]{1,64}$`
	matched, _ := regexp.MatchString(pattern, tenant)
	if !matched {
		return fmt.Errorf("invalid tenant ID format (alphanumeric, dash, underscore only, max 64 chars)")
	}

	return nil
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

// ValidateDays validates days parameter
func ValidateDays(days int) int {
	if days <= 0 {
		return 7 // default
	}
	if days > 365 {
		return 365 // max 1 year
	}
	return days
}
