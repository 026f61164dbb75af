package handlers

import (
	"strings"
	"unicode/utf8"
)

// Validation limits for gallery fields.
const (
	maxTitleLen       = 200
	maxCaptionLen     = 500
	maxDescriptionLen = 2_000
)

// validateTitle checks a category title and returns the first error found.
func validateTitle(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return "Title is required."
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return "Title is too long (max 200 characters)."
	}
	return ""
}

// validatePhotoText checks the optional caption/description fields of a
// photo edit. Nil means the field is untouched.
func validatePhotoText(caption, description *string) string {
	if caption != nil && utf8.RuneCountInString(*caption) > maxCaptionLen {
		return "Caption is too long (max 500 characters)."
	}
	if description != nil && utf8.RuneCountInString(*description) > maxDescriptionLen {
		return "Description is too long (max 2,000 characters)."
	}
	return ""
}
