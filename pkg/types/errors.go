package types

import "errors"

// Validation errors shared by the manager and the catalog.
var (
	ErrInvalidTitle           = errors.New("title must be 1-200 characters")
	ErrInvalidSessionType     = errors.New("unknown session type")
	ErrInvalidMaxParticipants = errors.New("max participants cannot be negative")
	ErrInvalidTemplateName    = errors.New("template name must be 1-200 characters")
	ErrInvalidUserID          = errors.New("invalid user ID format")
	ErrInvalidPermission      = errors.New("invalid permission level")
)
