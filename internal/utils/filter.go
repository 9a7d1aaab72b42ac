package utils

import (
	"unicode"
)

// IsSeparator checks if a rune is a separator character
func IsSeparator(r rune) bool {
	return r == ' ' || r == '_' || r == '-' || r == '.' || r == '/'
}

// IsOnlyNumbers checks if a string consists entirely of numeric digits
func IsOnlyNumbers(s string) bool {
	if len(s) == 0 {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// ContainsSpecialChars checks if a string contains characters other than
// letters, digits and separators.
func ContainsSpecialChars(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && !IsSeparator(r) {
			return true
		}
	}
	return false
}

// IsValidInput checks if input should be processed for completions.
// Rejects empty, all-digit, special character and repetitive input.
func IsValidInput(s string) bool {
	if len(s) == 0 || IsOnlyNumbers(s) || ContainsSpecialChars(s) {
		return false
	}
	return !IsRepetitive(s)
}

// IsValidPattern applies the IsValidInput character rules to a wildcard
// pattern, treating the wildcard itself as a letter.
func IsValidPattern(pattern string, wildcard rune) bool {
	if len(pattern) == 0 {
		return false
	}
	for _, r := range pattern {
		if r == wildcard {
			continue
		}
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && !IsSeparator(r) {
			return false
		}
	}
	return true
}

// IsRepetitive reports whether s is one rune repeated three or more times,
// like "aaa".
func IsRepetitive(s string) bool {
	runes := []rune(s)
	if len(runes) <= 2 {
		return false
	}
	for _, r := range runes[1:] {
		if r != runes[0] {
			return false
		}
	}
	return true
}
