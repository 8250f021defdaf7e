package types

// ActionResult is the outcome of a session mutation. Expected failures
// (not-found, capacity, authorization, invalid transition) are returned as
// results with Success=false, never as panics, so the calling layer can map
// them to client-facing status codes without stack unwinding.
type ActionResult struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Session *Session `json:"session,omitempty"`

	// Err carries the sentinel behind a failure for errors.Is classification.
	// It is not serialized; Message is the client-facing text.
	Err error `json:"-"`
}

// OK builds a successful result.
func OK(message string, session *Session) ActionResult {
	return ActionResult{Success: true, Message: message, Session: session}
}

// Fail builds a failed result carrying the classifying sentinel.
func Fail(err error, message string) ActionResult {
	return ActionResult{Success: false, Message: message, Err: err}
}
