package types

import "time"

// ConnectionStatus tracks a participant's live connection state.
type ConnectionStatus string

const (
	ConnectionConnected    ConnectionStatus = "connected"
	ConnectionDisconnected ConnectionStatus = "disconnected"
	ConnectionReconnecting ConnectionStatus = "reconnecting"
)

// NetworkQuality is the coarse-grained quality of a participant's connection.
type NetworkQuality string

const (
	NetworkPoor      NetworkQuality = "poor"
	NetworkFair      NetworkQuality = "fair"
	NetworkGood      NetworkQuality = "good"
	NetworkExcellent NetworkQuality = "excellent"
)

// Identity is the authenticated caller information supplied by the platform's
// auth layer. The session manager trusts it as-is.
type Identity struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email,omitempty"`
	Avatar string `json:"avatar,omitempty"`
	Role   string `json:"role,omitempty"`
}

// Participant is a user's membership record within a session. A given identity
// id appears at most once per session; rejoining updates the existing record.
type Participant struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Email      string     `json:"email,omitempty"`
	Avatar     string     `json:"avatar,omitempty"`
	Role       string     `json:"role,omitempty"` // platform role, copied at join time
	Permission Permission `json:"permission"`

	ConnectionStatus ConnectionStatus `json:"connection_status"`
	IsTyping         bool             `json:"is_typing"`
	IsSharingScreen  bool             `json:"is_sharing_screen"`
	IsMuted          bool             `json:"is_muted"`
	IsVideoEnabled   bool             `json:"is_video_enabled"`
	AudioLevel       int              `json:"audio_level"` // 0-100
	NetworkQuality   NetworkQuality   `json:"network_quality"`

	JoinedAt     time.Time `json:"joined_at"`
	LastActiveAt time.Time `json:"last_active_at"`
}

// NewParticipant builds a connected participant record from an identity.
func NewParticipant(identity Identity, permission Permission, now time.Time) *Participant {
	return &Participant{
		ID:               identity.ID,
		Name:             identity.Name,
		Email:            identity.Email,
		Avatar:           identity.Avatar,
		Role:             identity.Role,
		Permission:       permission,
		ConnectionStatus: ConnectionConnected,
		NetworkQuality:   NetworkGood,
		JoinedAt:         now,
		LastActiveAt:     now,
	}
}

// ResetPresence clears the live presence flags back to their defaults.
// Used when a participant joins, rejoins, or leaves.
func (p *Participant) ResetPresence() {
	p.IsTyping = false
	p.IsSharingScreen = false
	p.IsMuted = false
	p.IsVideoEnabled = false
	p.AudioLevel = 0
	p.NetworkQuality = NetworkGood
}

// Clone returns an independent copy of the participant record.
func (p *Participant) Clone() *Participant {
	cp := *p
	return &cp
}
