package application

import (
	"fmt"
	"strings"
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

// ValidateMarkdownName checks that a configured document name is a bare .md filename
func ValidateMarkdownName(fieldName, value string) error {
	if err := ValidateRequired(fieldName, value); err != nil {
		return err
	}
	if !strings.HasSuffix(value, ".md") || strings.ContainsAny(value, `/\`) {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s must be a bare .md filename, got: %s", formatFieldName(fieldName), value),
		}
	}
	return nil
}

// formatFieldName converts camelCase field names to space-separated words
// for more readable error messages (e.g., "sourcePath" -> "source path")
func formatFieldName(fieldName string) string {
	replacements := map[string]string{
		"sourcePath": "source path",
		"toctree":    "toctree file",
		"rootDoc":    "root document",
		"filename":   "filename",
	}

	if formatted, ok := replacements[fieldName]; ok {
		return formatted
	}

	return fieldName
}
