// Package session implements the collaborative session registry: creation,
// lifecycle transitions, join/leave, presence tracking and invite-code
// validation for live multi-participant coding sessions.
package session

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"codelab/internal/catalog"
	"codelab/pkg/logger"
	"codelab/pkg/types"
)

// Config bounds the registry. Zero values disable the corresponding limit.
type Config struct {
	// MaxSessionsPerUser caps how many non-ended sessions a user may own.
	MaxSessionsPerUser int
	// MaxParticipantsLimit is the upper bound a session's participant cap
	// may be set to at creation or update.
	MaxParticipantsLimit int
}

// Manager is the process-wide session registry. It is a constructible store,
// not a package-level singleton, so tests can run isolated instances.
//
// Locking: the registry mutex guards the session map, the lock table and the
// per-user index. Each session has its own RWMutex in the lock table; all
// field mutations happen under that session's lock, and readers copy the
// session under the same lock, so a reader can observe a slightly stale
// snapshot but never a half-applied mutation. Session ids are never reused
// and locks are never dropped from the table.
type Manager struct {
	catalog *catalog.Catalog
	config  Config
	logger  logger.Logger

	mu          sync.RWMutex
	sessions    map[string]*types.Session
	locks       map[string]*sync.RWMutex
	byUser      map[string]map[string]struct{} // userID -> set of session ids
	ownedActive map[string]int                 // userID -> non-ended sessions owned
}

// NewManager creates an empty registry backed by the given template catalog.
func NewManager(cat *catalog.Catalog, cfg Config, log logger.Logger) *Manager {
	if log == nil {
		log = logger.Noop()
	}
	return &Manager{
		catalog:     cat,
		config:      cfg,
		logger:      log,
		sessions:    make(map[string]*types.Session),
		locks:       make(map[string]*sync.RWMutex),
		byUser:      make(map[string]map[string]struct{}),
		ownedActive: make(map[string]int),
	}
}

// CreateSession constructs a new session owned by the caller. The owner is
// added as the first participant with OWNER permission and a connected
// status. The session starts in the CREATED state.
func (m *Manager) CreateSession(identity types.Identity, input types.CreateSessionInput) (*types.Session, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	if !types.IsValidUserID(identity.ID) {
		return nil, types.ErrInvalidUserID
	}
	if m.config.MaxParticipantsLimit > 0 && input.MaxParticipants > m.config.MaxParticipantsLimit {
		return nil, fmt.Errorf("%w: cap of %d exceeds limit %d",
			types.ErrInvalidMaxParticipants, input.MaxParticipants, m.config.MaxParticipantsLimit)
	}

	now := time.Now()
	owner := types.NewParticipant(identity, types.PermissionOwner, now)

	session := &types.Session{
		ID:              uuid.New().String(),
		OwnerID:         identity.ID,
		Title:           input.Title,
		Description:     input.Description,
		Type:            input.Type,
		Status:          types.StatusCreated,
		Settings:        copySettings(input.Settings),
		Participants:    []*types.Participant{owner},
		MaxParticipants: input.MaxParticipants,
		InviteCode:      input.InviteCode,
		IsPublic:        input.IsPublic,
		Language:        input.Language,
		Difficulty:      input.Difficulty,
		Tags:            append([]string(nil), input.Tags...),
		CreatedAt:       now,
		LastActivity:    now,
	}

	// Snapshot before the session becomes reachable through the registry;
	// afterwards it may only be read or cloned under its lock.
	snapshot := session.Clone()

	m.mu.Lock()
	if m.config.MaxSessionsPerUser > 0 && m.ownedActive[identity.ID] >= m.config.MaxSessionsPerUser {
		m.mu.Unlock()
		return nil, ErrSessionLimitReached
	}
	m.sessions[session.ID] = session
	m.locks[session.ID] = &sync.RWMutex{}
	m.indexUserLocked(identity.ID, session.ID)
	m.ownedActive[identity.ID]++
	m.mu.Unlock()

	m.logger.Info("session created",
		"session_id", snapshot.ID, "owner", identity.ID, "type", snapshot.Type, "title", snapshot.Title)
	return snapshot, nil
}

// CreateSessionFromTemplate creates a session pre-populated from a catalog
// template. Explicit input fields win over template defaults; template
// settings sit underneath any caller-supplied settings. Bumps the template's
// usage counter on success.
func (m *Manager) CreateSessionFromTemplate(identity types.Identity, templateID string, input types.CreateSessionInput) (*types.Session, error) {
	template, err := m.catalog.Get(templateID)
	if err != nil {
		return nil, err
	}

	if input.Type == "" {
		input.Type = template.Type
	}
	if input.Language == "" {
		input.Language = template.DefaultLanguage
	}
	if input.Difficulty == "" {
		input.Difficulty = template.Difficulty
	}
	if len(input.Tags) == 0 {
		input.Tags = append([]string(nil), template.Tags...)
	}
	if len(template.DefaultSettings) > 0 {
		merged := copySettings(template.DefaultSettings)
		for k, v := range input.Settings {
			merged[k] = v
		}
		input.Settings = merged
	}

	session, err := m.CreateSession(identity, input)
	if err != nil {
		return nil, err
	}

	if err := m.catalog.IncrementUsage(templateID); err != nil {
		m.logger.Warn("failed to record template usage", "template_id", templateID, "error", err)
	}
	return session, nil
}

// GetSession is a pure lookup returning a snapshot of the session. Access and
// visibility checks belong to the calling layer, which knows the caller's
// identity and the session's IsPublic flag.
func (m *Manager) GetSession(sessionID string) (*types.Session, error) {
	session, lock, ok := m.lookup(sessionID)
	if !ok {
		return nil, ErrSessionNotFound
	}

	lock.RLock()
	defer lock.RUnlock()
	return session.Clone(), nil
}

// GetUserSessions returns a snapshot of every session the user has a
// participant record in, most recent activity first.
func (m *Manager) GetUserSessions(userID string) []*types.Session {
	return m.ListUserSessions(userID, types.ListFilter{})
}

// ListUserSessions is the paged, filterable variant of GetUserSessions.
func (m *Manager) ListUserSessions(userID string, filter types.ListFilter) []*types.Session {
	m.mu.RLock()
	ids := make([]string, 0, len(m.byUser[userID]))
	for id := range m.byUser[userID] {
		ids = append(ids, id)
	}
	m.mu.RUnlock()

	snapshots := make([]*types.Session, 0, len(ids))
	for _, id := range ids {
		session, lock, ok := m.lookup(id)
		if !ok {
			continue
		}
		lock.RLock()
		if (filter.Type == "" || session.Type == filter.Type) &&
			(filter.Status == "" || session.Status == filter.Status) {
			snapshots = append(snapshots, session.Clone())
		}
		lock.RUnlock()
	}

	sort.Slice(snapshots, func(i, j int) bool {
		return snapshots[i].LastActivity.After(snapshots[j].LastActivity)
	})

	start := filter.Offset
	if start > len(snapshots) {
		start = len(snapshots)
	}
	end := len(snapshots)
	if filter.Limit > 0 && start+filter.Limit < end {
		end = start + filter.Limit
	}
	return snapshots[start:end]
}

// JoinSession adds the identity to the session, or reconnects an existing
// participant record in place. Preconditions are checked in order, first
// failure wins: session exists, session not ended, capacity (skipped for
// rejoin), invite code (skipped for rejoin). Capacity counts connected
// participants only, so a departed member frees a slot.
func (m *Manager) JoinSession(sessionID string, req types.JoinRequest, inviteCode string) types.ActionResult {
	session, lock, ok := m.lookup(sessionID)
	if !ok {
		return types.Fail(ErrSessionNotFound, "session not found")
	}

	lock.Lock()
	defer lock.Unlock()

	if session.Status == types.StatusEnded {
		return types.Fail(ErrSessionEnded, "session has ended")
	}

	now := time.Now()
	existing := session.Participant(req.Identity.ID)

	if existing == nil {
		// New joiner: capacity and invite gate apply.
		if session.MaxParticipants > 0 && session.ConnectedCount() >= session.MaxParticipants {
			return types.Fail(ErrSessionFull,
				fmt.Sprintf("session is full (%d participants)", session.MaxParticipants))
		}
		if session.InviteCode != "" && inviteCode != session.InviteCode {
			return types.Fail(ErrInvalidInviteCode, "invalid invite code")
		}

		permission := req.Permission
		if permission == "" {
			permission = types.PermissionEdit
		}
		if !permission.Valid() {
			return types.Fail(types.ErrInvalidPermission, "invalid permission level")
		}

		session.Participants = append(session.Participants, types.NewParticipant(req.Identity, permission, now))

		m.mu.Lock()
		m.indexUserLocked(req.Identity.ID, session.ID)
		m.mu.Unlock()

		m.logger.Info("participant joined",
			"session_id", session.ID, "user", req.Identity.ID, "permission", permission)
	} else {
		// Rejoin: always allowed, regardless of capacity or invite code.
		// The record is updated in place so the identity never duplicates.
		existing.ConnectionStatus = types.ConnectionConnected
		existing.LastActiveAt = now
		existing.Name = req.Identity.Name
		existing.Email = req.Identity.Email
		existing.Avatar = req.Identity.Avatar
		existing.Role = req.Identity.Role
		existing.ResetPresence()

		m.logger.Info("participant rejoined", "session_id", session.ID, "user", req.Identity.ID)
	}

	session.LastActivity = now
	return types.OK("joined session", session.Clone())
}

// LeaveSession marks the participant as disconnected. The record itself is
// retained: rejoin semantics and the session's historical roster depend on
// it, and ownership never transfers when the owner departs. Capacity counts
// connected participants, so leaving frees a slot.
func (m *Manager) LeaveSession(sessionID, userID string) types.ActionResult {
	session, lock, ok := m.lookup(sessionID)
	if !ok {
		return types.Fail(ErrSessionNotFound, "session not found")
	}

	lock.Lock()
	defer lock.Unlock()

	participant := session.Participant(userID)
	if participant == nil {
		return types.Fail(ErrParticipantNotFound, "participant not found in session")
	}

	now := time.Now()
	participant.ConnectionStatus = types.ConnectionDisconnected
	participant.LastActiveAt = now
	participant.ResetPresence()
	session.LastActivity = now

	m.logger.Info("participant left", "session_id", session.ID, "user", userID)
	return types.OK("left session", nil)
}

// StartSession transitions CREATED -> ACTIVE. Only the owner or a
// participant holding ADMIN/OWNER permission may start a session.
func (m *Manager) StartSession(sessionID, callerID string) types.ActionResult {
	return m.transition(sessionID, callerID, types.StatusActive, "started",
		types.StatusCreated)
}

// PauseSession transitions ACTIVE -> PAUSED.
func (m *Manager) PauseSession(sessionID, callerID string) types.ActionResult {
	return m.transition(sessionID, callerID, types.StatusPaused, "paused",
		types.StatusActive)
}

// ResumeSession transitions PAUSED -> ACTIVE.
func (m *Manager) ResumeSession(sessionID, callerID string) types.ActionResult {
	return m.transition(sessionID, callerID, types.StatusActive, "resumed",
		types.StatusPaused)
}

// EndSession transitions any non-ended state to ENDED. ENDED is absorbing:
// a second end reports failure rather than silently succeeding. Participants
// are not evicted; ending only changes status.
func (m *Manager) EndSession(sessionID, callerID string) types.ActionResult {
	return m.transition(sessionID, callerID, types.StatusEnded, "ended",
		types.StatusCreated, types.StatusActive, types.StatusPaused)
}

// transition applies a lifecycle change guarded by the owner-or-admin rule.
// Unauthorized or out-of-order transitions are expected outcomes returned as
// failed results, never faults.
func (m *Manager) transition(sessionID, callerID string, target types.SessionStatus, verb string, validFrom ...types.SessionStatus) types.ActionResult {
	session, lock, ok := m.lookup(sessionID)
	if !ok {
		return types.Fail(ErrSessionNotFound, "session not found")
	}

	lock.Lock()
	defer lock.Unlock()

	if !session.CanAdminister(callerID) {
		return types.Fail(ErrUnauthorized, "insufficient permission for this action")
	}

	allowed := false
	for _, from := range validFrom {
		if session.Status == from {
			allowed = true
			break
		}
	}
	if !allowed {
		return types.Fail(ErrInvalidTransition,
			fmt.Sprintf("cannot transition session from %s to %s", session.Status, target))
	}

	now := time.Now()
	session.Status = target
	session.LastActivity = now
	if target == types.StatusEnded {
		session.EndedAt = &now
		// Lock order is session then registry, same as JoinSession's index
		// update, so this cannot deadlock.
		m.mu.Lock()
		if m.ownedActive[session.OwnerID] > 0 {
			m.ownedActive[session.OwnerID]--
		}
		m.mu.Unlock()
	}
	if p := session.Participant(callerID); p != nil {
		p.LastActiveAt = now
	}

	m.logger.Info("session "+verb, "session_id", session.ID, "caller", callerID)
	return types.OK("session "+verb, session.Clone())
}

// UpdateSession applies a partial update under the owner-or-admin rule. Nil
// patch fields are no-ops; a pointer to an empty value clears the field.
// Settings are shallow-merged. Validation runs before any field is touched,
// so a rejected patch leaves the session unmodified.
func (m *Manager) UpdateSession(sessionID, callerID string, patch types.UpdatePatch) (*types.Session, error) {
	session, lock, ok := m.lookup(sessionID)
	if !ok {
		return nil, ErrSessionNotFound
	}

	lock.Lock()
	defer lock.Unlock()

	if !session.CanAdminister(callerID) {
		return nil, ErrUnauthorized
	}

	if patch.MaxParticipants != nil {
		if *patch.MaxParticipants < 0 {
			return nil, types.ErrInvalidMaxParticipants
		}
		if m.config.MaxParticipantsLimit > 0 && *patch.MaxParticipants > m.config.MaxParticipantsLimit {
			return nil, fmt.Errorf("%w: cap of %d exceeds limit %d",
				types.ErrInvalidMaxParticipants, *patch.MaxParticipants, m.config.MaxParticipantsLimit)
		}
	}

	if patch.Title != nil {
		session.Title = *patch.Title
	}
	if patch.Description != nil {
		session.Description = *patch.Description
	}
	if patch.Settings != nil {
		if session.Settings == nil {
			session.Settings = make(map[string]any, len(patch.Settings))
		}
		for k, v := range patch.Settings {
			session.Settings[k] = v
		}
	}
	if patch.MaxParticipants != nil {
		session.MaxParticipants = *patch.MaxParticipants
	}
	if patch.InviteCode != nil {
		session.InviteCode = *patch.InviteCode
	}
	if patch.IsPublic != nil {
		session.IsPublic = *patch.IsPublic
	}
	if patch.Language != nil {
		session.Language = *patch.Language
	}
	if patch.Difficulty != nil {
		session.Difficulty = *patch.Difficulty
	}
	if patch.Tags != nil {
		session.Tags = append([]string(nil), (*patch.Tags)...)
	}

	now := time.Now()
	session.LastActivity = now
	if p := session.Participant(callerID); p != nil {
		p.LastActiveAt = now
	}

	m.logger.Info("session updated", "session_id", session.ID, "caller", callerID)
	return session.Clone(), nil
}

// UpdatePresence mutates a participant's live presence flags. Any participant
// may update their own presence; no administrative permission is required.
func (m *Manager) UpdatePresence(sessionID, userID string, update types.PresenceUpdate) types.ActionResult {
	session, lock, ok := m.lookup(sessionID)
	if !ok {
		return types.Fail(ErrSessionNotFound, "session not found")
	}

	lock.Lock()
	defer lock.Unlock()

	if session.Status == types.StatusEnded {
		return types.Fail(ErrSessionEnded, "session has ended")
	}

	participant := session.Participant(userID)
	if participant == nil {
		return types.Fail(ErrParticipantNotFound, "participant not found in session")
	}

	if update.ConnectionStatus != nil {
		participant.ConnectionStatus = *update.ConnectionStatus
	}
	if update.IsTyping != nil {
		participant.IsTyping = *update.IsTyping
	}
	if update.IsSharingScreen != nil {
		participant.IsSharingScreen = *update.IsSharingScreen
	}
	if update.IsMuted != nil {
		participant.IsMuted = *update.IsMuted
	}
	if update.IsVideoEnabled != nil {
		participant.IsVideoEnabled = *update.IsVideoEnabled
	}
	if update.AudioLevel != nil {
		participant.AudioLevel = types.ClampAudioLevel(*update.AudioLevel)
	}
	if update.NetworkQuality != nil {
		participant.NetworkQuality = *update.NetworkQuality
	}

	now := time.Now()
	participant.LastActiveAt = now
	session.LastActivity = now

	return types.OK("presence updated", session.Clone())
}

// Templates returns the full template catalog.
func (m *Manager) Templates() []*types.Template {
	return m.catalog.List(types.TemplateFilter{})
}

// TemplatesByType returns the catalog entries for one collaboration mode.
func (m *Manager) TemplatesByType(sessionType types.SessionType) []*types.Template {
	return m.catalog.ByType(sessionType)
}

// Stats returns registry counters for the health endpoint.
func (m *Manager) Stats() map[string]int {
	m.mu.RLock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	users := len(m.byUser)
	m.mu.RUnlock()

	stats := map[string]int{
		"sessions_total": len(ids),
		"users_indexed":  users,
	}
	for _, id := range ids {
		session, lock, ok := m.lookup(id)
		if !ok {
			continue
		}
		lock.RLock()
		stats["sessions_"+string(session.Status)]++
		lock.RUnlock()
	}
	return stats
}

// lookup fetches a session and its lock without acquiring the session lock.
// Sessions are never removed from the registry, so the returned pointer stays
// valid after the registry lock is released.
func (m *Manager) lookup(sessionID string) (*types.Session, *sync.RWMutex, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	session, exists := m.sessions[sessionID]
	if !exists {
		return nil, nil, false
	}
	return session, m.locks[sessionID], true
}

// indexUserLocked records membership in the per-user index. Caller must hold
// the registry write lock.
func (m *Manager) indexUserLocked(userID, sessionID string) {
	if m.byUser[userID] == nil {
		m.byUser[userID] = make(map[string]struct{})
	}
	m.byUser[userID][sessionID] = struct{}{}
}

func copySettings(settings map[string]any) map[string]any {
	if settings == nil {
		return nil
	}
	cp := make(map[string]any, len(settings))
	for k, v := range settings {
		cp[k] = v
	}
	return cp
}
