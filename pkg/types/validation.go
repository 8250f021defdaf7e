package types

import "regexp"

var userIDRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// IsValidUserID checks that a user id is 1-50 characters of [a-zA-Z0-9_-].
func IsValidUserID(userID string) bool {
	if len(userID) < 1 || len(userID) > 50 {
		return false
	}
	return userIDRegex.MatchString(userID)
}

// IsValidTitle checks that a session title is 1-200 characters.
func IsValidTitle(title string) bool {
	return len(title) >= 1 && len(title) <= 200
}

// ClampAudioLevel forces an audio level into the 0-100 range.
func ClampAudioLevel(level int) int {
	if level < 0 {
		return 0
	}
	if level > 100 {
		return 100
	}
	return level
}

// Validate checks the required creation fields. Optional fields are not
// re-validated here; the manager owns the semantic checks.
func (in *CreateSessionInput) Validate() error {
	if !IsValidTitle(in.Title) {
		return ErrInvalidTitle
	}
	if !in.Type.Valid() {
		return ErrInvalidSessionType
	}
	if in.MaxParticipants < 0 {
		return ErrInvalidMaxParticipants
	}
	return nil
}

// Validate checks the required template fields.
func (in *TemplateInput) Validate() error {
	if len(in.Name) < 1 || len(in.Name) > 200 {
		return ErrInvalidTemplateName
	}
	if !in.Type.Valid() {
		return ErrInvalidSessionType
	}
	return nil
}
