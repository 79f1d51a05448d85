package application

import (
	"fmt"
	"strings"

	"bite/internal/domain"
)

// ValidateRequired checks if a string field is non-empty (after trimming whitespace).
// Returns a ValidationError if the field is empty.
func ValidateRequired(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		displayName := formatFieldName(fieldName)
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s is required", displayName),
		}
	}
	return nil
}

// formatFieldName converts camelCase field names to space-separated words
// for more readable error messages (e.g., "tagPath" -> "tag path")
func formatFieldName(fieldName string) string {
	replacements := map[string]string{
		"hash":            "image hash",
		"tagPath":         "tag path",
		"before":          "before tag",
		"after":           "after tag",
		"interactionPath": "interaction tag",
		"affectedPath":    "affected tag",
		"location":        "location",
		"dir":             "directory",
	}

	if formatted, ok := replacements[fieldName]; ok {
		return formatted
	}

	return fieldName
}

// ValidateTagPath checks that a field holds a usable tag path.
// Returns a ValidationError describing the first problem found.
func ValidateTagPath(fieldName, path string) error {
	if err := ValidateRequired(fieldName, path); err != nil {
		return err
	}
	if err := domain.ValidateTagPath(path); err != nil {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("invalid %s %q: must not contain spaces or empty segments", formatFieldName(fieldName), path),
		}
	}
	return nil
}

// ValidateHash checks that a field holds a usable image hash.
func ValidateHash(fieldName, hash string) error {
	if err := ValidateRequired(fieldName, hash); err != nil {
		return err
	}
	if err := domain.ValidateImageHash(hash); err != nil {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("invalid %s %q", formatFieldName(fieldName), hash),
		}
	}
	return nil
}
