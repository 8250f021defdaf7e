package types

import "time"

// SessionType is the collaboration mode of a session. The type is fixed at
// creation; changing the mode mid-session is not supported.
type SessionType string

const (
	TypePairProgramming SessionType = "pair_programming"
	TypeInterview       SessionType = "interview"
	TypeCodeReview      SessionType = "code_review"
	TypeWhiteboard      SessionType = "whiteboard"
	TypeGroupPractice   SessionType = "group_practice"
)

// Valid reports whether t is one of the defined collaboration modes.
func (t SessionType) Valid() bool {
	switch t {
	case TypePairProgramming, TypeInterview, TypeCodeReview, TypeWhiteboard, TypeGroupPractice:
		return true
	default:
		return false
	}
}

// SessionStatus is the lifecycle state of a session.
// CREATED is the sole initial state, ENDED the sole terminal one:
// created -> active <-> paused, with end legal from any non-ended state.
type SessionStatus string

const (
	StatusCreated SessionStatus = "created"
	StatusActive  SessionStatus = "active"
	StatusPaused  SessionStatus = "paused"
	StatusEnded   SessionStatus = "ended"
)

// Valid reports whether s is one of the defined lifecycle states.
func (s SessionStatus) Valid() bool {
	switch s {
	case StatusCreated, StatusActive, StatusPaused, StatusEnded:
		return true
	default:
		return false
	}
}

// Session is a live collaboration instance: metadata, settings, lifecycle
// status, and the participant records it contains.
//
// OwnerID is tracked independently of the owner's participant record so that
// authorization survives the owner's permission field being reassigned.
type Session struct {
	ID          string        `json:"id"`
	OwnerID     string        `json:"owner_id"`
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	Type        SessionType   `json:"type"`
	Status      SessionStatus `json:"status"`

	Settings        map[string]any `json:"settings,omitempty"`
	Participants    []*Participant `json:"participants"`
	MaxParticipants int            `json:"max_participants,omitempty"` // 0 = uncapped
	InviteCode      string         `json:"invite_code,omitempty"`
	IsPublic        bool           `json:"is_public"`

	Language   string   `json:"language,omitempty"`
	Difficulty string   `json:"difficulty,omitempty"`
	Tags       []string `json:"tags,omitempty"`

	CreatedAt    time.Time  `json:"created_at"`
	LastActivity time.Time  `json:"last_activity"`
	EndedAt      *time.Time `json:"ended_at,omitempty"`
}

// Participant returns the participant record for the given identity id,
// or nil if the identity has never joined this session.
func (s *Session) Participant(userID string) *Participant {
	for _, p := range s.Participants {
		if p.ID == userID {
			return p
		}
	}
	return nil
}

// ConnectedCount returns the number of currently connected participants.
// Capacity checks count connected participants only, so a departed member
// frees a slot without their record being deleted.
func (s *Session) ConnectedCount() int {
	n := 0
	for _, p := range s.Participants {
		if p.ConnectionStatus == ConnectionConnected {
			n++
		}
	}
	return n
}

// CanAdminister reports whether the given user may perform administrative
// actions (start, pause, resume, end, update) on the session. The check is
// deliberately dual: the structural owner always qualifies regardless of
// their current permission record, as does any participant holding ADMIN or
// OWNER permission.
func (s *Session) CanAdminister(userID string) bool {
	if s.OwnerID == userID {
		return true
	}
	p := s.Participant(userID)
	return p != nil && p.Permission.AtLeast(PermissionAdmin)
}

// Clone returns a deep copy of the session. Readers receive clones so that a
// concurrent mutation can never be observed mid-update.
func (s *Session) Clone() *Session {
	cp := *s
	cp.Participants = make([]*Participant, len(s.Participants))
	for i, p := range s.Participants {
		cp.Participants[i] = p.Clone()
	}
	if s.Settings != nil {
		cp.Settings = make(map[string]any, len(s.Settings))
		for k, v := range s.Settings {
			cp.Settings[k] = v
		}
	}
	if s.Tags != nil {
		cp.Tags = append([]string(nil), s.Tags...)
	}
	if s.EndedAt != nil {
		t := *s.EndedAt
		cp.EndedAt = &t
	}
	return &cp
}
