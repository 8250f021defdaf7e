package session

import "errors"

// Session manager error taxonomy. All of these are expected outcomes the
// calling layer maps to client-facing status codes; none of them is a fault.
var (
	ErrSessionNotFound     = errors.New("session not found")
	ErrParticipantNotFound = errors.New("participant not found in session")
	ErrSessionEnded        = errors.New("session has ended")
	ErrSessionFull         = errors.New("session is full")
	ErrInvalidInviteCode   = errors.New("invalid invite code")
	ErrUnauthorized        = errors.New("insufficient permission for this action")
	ErrInvalidTransition   = errors.New("invalid session state transition")
	ErrSessionLimitReached = errors.New("session limit reached for user")
)
