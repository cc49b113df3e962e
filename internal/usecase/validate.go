package usecase

import (
	"regexp"
	"strings"

	"cabin-booking/pkg/apperr"
	"cabin-booking/pkg/utils"
)

// Letters including Latin-1 diacritics, space, hyphen, apostrophe. A plain
// space (not \s) keeps newlines out.
var firstNamePattern = regexp.MustCompile(`^[A-Za-zÀ-ÿ '\-]+$`)

// Hyperlink-like substrings are rejected in all free text, case-insensitive.
var linkMarkers = []string{"http://", "https://", "www.", "mailto:"}

// validateFirstName trims and checks the requester display name against the
// allow-list. Returns the trimmed value.
func validateFirstName(name string, maxLen int) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || len([]rune(name)) > maxLen || !firstNamePattern.MatchString(name) {
		return "", apperr.Validation(msgInvalidName)
	}
	return name, nil
}

// validateFreeText applies the length cap and link rejection shared by
// description and cancel/denial comments.
func validateFreeText(text string, maxLen int) error {
	if len([]rune(text)) > maxLen {
		return apperr.Validation(msgTextTooLong(maxLen))
	}
	if containsLink(text) {
		return apperr.Validation(msgNoLinks)
	}
	return nil
}

func containsLink(text string) bool {
	lower := strings.ToLower(text)
	for _, marker := range linkMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// validateRequestShape runs the struct-tag validation shared by all
// handlers and services.
func validateRequestShape(req any) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return apperr.Validation(utils.FormatValidationErrors(errs))
	}
	return nil
}
