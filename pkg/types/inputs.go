package types

// CreateSessionInput carries the caller-supplied fields for a new session.
// Title and Type are required; everything else is optional.
type CreateSessionInput struct {
	Title           string         `json:"title"`
	Description     string         `json:"description,omitempty"`
	Type            SessionType    `json:"type"`
	Settings        map[string]any `json:"settings,omitempty"`
	MaxParticipants int            `json:"max_participants,omitempty"`
	InviteCode      string         `json:"invite_code,omitempty"`
	IsPublic        bool           `json:"is_public,omitempty"`
	Language        string         `json:"language,omitempty"`
	Difficulty      string         `json:"difficulty,omitempty"`
	Tags            []string       `json:"tags,omitempty"`
}

// JoinRequest carries the joining identity and the permission the caller
// layer assigned. An empty Permission defaults to EDIT; the manager never
// re-derives permission from the platform role.
type JoinRequest struct {
	Identity   Identity   `json:"identity"`
	Permission Permission `json:"permission,omitempty"`
}

// UpdatePatch is a partial session update. Nil pointer fields are left
// untouched; a pointer to an empty value explicitly clears the field.
// Settings are shallow-merged into the existing map, never replaced wholesale.
type UpdatePatch struct {
	Title           *string        `json:"title,omitempty"`
	Description     *string        `json:"description,omitempty"`
	Settings        map[string]any `json:"settings,omitempty"`
	MaxParticipants *int           `json:"max_participants,omitempty"`
	InviteCode      *string        `json:"invite_code,omitempty"`
	IsPublic        *bool          `json:"is_public,omitempty"`
	Language        *string        `json:"language,omitempty"`
	Difficulty      *string        `json:"difficulty,omitempty"`
	Tags            *[]string      `json:"tags,omitempty"`
}

// PresenceUpdate mutates a participant's live presence flags. Nil fields are
// no-ops. AudioLevel is clamped to the 0-100 range.
type PresenceUpdate struct {
	ConnectionStatus *ConnectionStatus `json:"connection_status,omitempty"`
	IsTyping         *bool             `json:"is_typing,omitempty"`
	IsSharingScreen  *bool             `json:"is_sharing_screen,omitempty"`
	IsMuted          *bool             `json:"is_muted,omitempty"`
	IsVideoEnabled   *bool             `json:"is_video_enabled,omitempty"`
	AudioLevel       *int              `json:"audio_level,omitempty"`
	NetworkQuality   *NetworkQuality   `json:"network_quality,omitempty"`
}

// ListFilter narrows and pages a session listing. Zero values mean "no
// filter"; Limit of 0 means no page cap.
type ListFilter struct {
	Type   SessionType   `json:"type,omitempty"`
	Status SessionStatus `json:"status,omitempty"`
	Limit  int           `json:"limit,omitempty"`
	Offset int           `json:"offset,omitempty"`
}

// TemplateInput carries the fields for a new catalog template.
type TemplateInput struct {
	Name              string         `json:"name"`
	Description       string         `json:"description,omitempty"`
	Type              SessionType    `json:"type"`
	DefaultSettings   map[string]any `json:"default_settings,omitempty"`
	DefaultLanguage   string         `json:"default_language,omitempty"`
	Difficulty        string         `json:"difficulty,omitempty"`
	EstimatedDuration string         `json:"estimated_duration,omitempty"` // e.g. "45m"
	Tags              []string       `json:"tags,omitempty"`
	CreatedBy         string         `json:"created_by,omitempty"`
}

// TemplateFilter narrows and pages a template listing.
type TemplateFilter struct {
	Type   SessionType `json:"type,omitempty"`
	Limit  int         `json:"limit,omitempty"`
	Offset int         `json:"offset,omitempty"`
}
