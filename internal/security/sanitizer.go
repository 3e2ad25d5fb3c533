package security

import (
	"net/mail"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

var (
	htmlPolicy = bluemonday.StrictPolicy()
	nifRegex   = regexp.MustCompile(`^[0-9]{9}$`)
)

// SanitizeString trims, drops null bytes and caps the length at 1000 runes.
func SanitizeString(input string) string {
	input = strings.TrimSpace(input)
	input = strings.ReplaceAll(input, "\x00", "")

	if utf8.RuneCountInString(input) > 1000 {
		input = string([]rune(input)[:1000])
	}

	return input
}

// SanitizeHTML removes all HTML tags
func SanitizeHTML(input string) string {
	return htmlPolicy.Sanitize(input)
}

// SanitizeText is applied to all free text users submit.
func SanitizeText(input string) string {
	return SanitizeString(SanitizeHTML(input))
}

// ValidateEmail checks for a plain addr-spec.
func ValidateEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

// ValidateNIF checks a Portuguese tax number shape.
func ValidateNIF(nif string) bool {
	return nifRegex.MatchString(nif)
}

// ValidateFileType checks if file extension is allowed
func ValidateFileType(filename string, allowedTypes []string) bool {
	filename = strings.ToLower(filename)
	for _, ext := range allowedTypes {
		if strings.HasSuffix(filename, strings.ToLower(ext)) {
			return true
		}
	}
	return false
}

// ValidateLength checks a rune count against inclusive bounds.
func ValidateLength(s string, min, max int) bool {
	n := utf8.RuneCountInString(s)
	return n >= min && n <= max
}
