// Package interfaces defines the contracts the HTTP surface consumes, so the
// API layer depends on behavior rather than on concrete registry types.
package interfaces

import "codelab/pkg/types"

// SessionManager is the full contract of the collaborative session registry.
type SessionManager interface {
	// CreateSession constructs a new session owned by the caller.
	CreateSession(identity types.Identity, input types.CreateSessionInput) (*types.Session, error)

	// CreateSessionFromTemplate pre-populates a new session from a catalog
	// template; explicit input fields win over template defaults.
	CreateSessionFromTemplate(identity types.Identity, templateID string, input types.CreateSessionInput) (*types.Session, error)

	// GetSession is a pure lookup; visibility is enforced by the caller.
	GetSession(sessionID string) (*types.Session, error)

	// GetUserSessions returns the user's sessions, newest activity first.
	GetUserSessions(userID string) []*types.Session

	// ListUserSessions pages and filters the user's sessions.
	ListUserSessions(userID string, filter types.ListFilter) []*types.Session

	// JoinSession adds or reconnects a participant.
	JoinSession(sessionID string, req types.JoinRequest, inviteCode string) types.ActionResult

	// LeaveSession marks a participant as disconnected.
	LeaveSession(sessionID, userID string) types.ActionResult

	// Lifecycle transitions, all guarded by the owner-or-admin rule.
	StartSession(sessionID, callerID string) types.ActionResult
	PauseSession(sessionID, callerID string) types.ActionResult
	ResumeSession(sessionID, callerID string) types.ActionResult
	EndSession(sessionID, callerID string) types.ActionResult

	// UpdateSession applies a partial update atomically.
	UpdateSession(sessionID, callerID string, patch types.UpdatePatch) (*types.Session, error)

	// UpdatePresence mutates a participant's own presence flags.
	UpdatePresence(sessionID, userID string, update types.PresenceUpdate) types.ActionResult

	// Template catalog access.
	Templates() []*types.Template
	TemplatesByType(sessionType types.SessionType) []*types.Template

	// Stats returns registry counters for health reporting.
	Stats() map[string]int
}

// TemplateCatalog is the administrative surface of the template store.
type TemplateCatalog interface {
	Create(input types.TemplateInput) (*types.Template, error)
	Get(templateID string) (*types.Template, error)
	List(filter types.TemplateFilter) []*types.Template
}
