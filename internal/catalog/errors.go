package catalog

import "errors"

var (
	ErrTemplateNotFound = errors.New("template not found")
	ErrInvalidDuration  = errors.New("invalid estimated duration")
)
