package utils

import (
	"regexp"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// slugs are URL-safe: lowercase letters, digits and dashes, 3 to 40 chars
var slugRegex = regexp.MustCompile(`^[a-z0-9-]{3,40}$`)

func ValidateEmail(email string) bool {
	return emailRegex.MatchString(email)
}

func ValidateSlug(slug string) bool {
	return slugRegex.MatchString(slug)
}
