package util

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	documentNumberRegex = regexp.MustCompile(`^[0-9]{8}$`)
	emailRegex          = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	fileBaseNameClean   = regexp.MustCompile(`[^a-zA-Z0-9]`)
)

// MaxEmailLength caps accepted email addresses.
const MaxEmailLength = 254

// ValidateDocumentNumber checks the 8-digit national worker document number.
func ValidateDocumentNumber(value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return fmt.Errorf("document number cannot be empty")
	}
	if !documentNumberRegex.MatchString(value) {
		return fmt.Errorf("document number must be exactly 8 digits")
	}
	return nil
}

// ValidateEmail checks basic email shape and length.
func ValidateEmail(value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return fmt.Errorf("email cannot be empty")
	}
	if len(value) > MaxEmailLength {
		return fmt.Errorf("email must be no more than %d characters", MaxEmailLength)
	}
	if !emailRegex.MatchString(value) {
		return fmt.Errorf("invalid email format")
	}
	return nil
}

// SanitizeFileName lowercases the base name, replaces anything outside
// [a-zA-Z0-9] with underscores and keeps the original extension. Path
// separators never survive, so the result is safe as an object key segment.
func SanitizeFileName(fileName string) string {
	base := filepath.Base(fileName)
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(base, ext)
	name = strings.ToLower(fileBaseNameClean.ReplaceAllString(name, "_"))
	if name == "" {
		name = "file"
	}
	return name + strings.ToLower(ext)
}
