package utils

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

var htmlTagPattern = regexp.MustCompile(`<[^>]*>`)

// SanitizeString trims input and drops markup and control characters
func SanitizeString(input string) string {
	return removeControlChars(stripHTML(strings.TrimSpace(input)))
}

// SanitizeEmail lower-cases and trims an email address
func SanitizeEmail(email string) string {
	email = strings.ToLower(strings.TrimSpace(email))
	email = stripHTML(email)
	return removeControlChars(email)
}

// SanitizePhone keeps digits and the usual phone punctuation
func SanitizePhone(phone string) string {
	phone = stripHTML(strings.TrimSpace(phone))

	var result strings.Builder
	for _, r := range phone {
		if unicode.IsDigit(r) || r == '+' {
			result.WriteRune(r)
		}
	}

	return result.String()
}

// SanitizeText sanitizes multi-line text input
func SanitizeText(input string) string {
	trimmed := stripHTML(strings.TrimSpace(input))

	var result strings.Builder
	for _, r := range trimmed {
		if unicode.IsPrint(r) || r == '\n' || r == '\t' || r == '\r' {
			result.WriteRune(r)
		}
	}

	return result.String()
}

// SanitizeOptional applies fn to a non-nil value and maps blanks to nil.
func SanitizeOptional(value *string, fn func(string) string) *string {
	if value == nil {
		return nil
	}
	sanitized := fn(*value)
	if sanitized == "" {
		return nil
	}
	return &sanitized
}

func stripHTML(input string) string {
	return htmlTagPattern.ReplaceAllString(input, "")
}

func removeControlChars(input string) string {
	var result strings.Builder
	for _, r := range input {
		if unicode.IsPrint(r) || unicode.IsSpace(r) {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// ValidateAndSanitizeEmail validates and sanitizes email
func ValidateAndSanitizeEmail(email string) (string, error) {
	sanitized := SanitizeEmail(email)
	if !IsValidEmail(sanitized) {
		return "", fmt.Errorf("invalid email format")
	}
	return sanitized, nil
}
