package types

import "time"

// Template is a reusable session configuration preset. Templates are created
// once (administrative operation) and then only read; there is no update or
// delete in the catalog contract.
type Template struct {
	ID                string         `json:"id"`
	Name              string         `json:"name"`
	Description       string         `json:"description,omitempty"`
	Type              SessionType    `json:"type"`
	DefaultSettings   map[string]any `json:"default_settings,omitempty"`
	DefaultLanguage   string         `json:"default_language,omitempty"`
	Difficulty        string         `json:"difficulty,omitempty"`
	EstimatedDuration time.Duration  `json:"estimated_duration,omitempty"`
	Tags              []string       `json:"tags,omitempty"`
	CreatedBy         string         `json:"created_by,omitempty"`
	UsageCount        int            `json:"usage_count"`
	Rating            float64        `json:"rating,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
}

// Clone returns an independent copy of the template.
func (t *Template) Clone() *Template {
	cp := *t
	if t.DefaultSettings != nil {
		cp.DefaultSettings = make(map[string]any, len(t.DefaultSettings))
		for k, v := range t.DefaultSettings {
			cp.DefaultSettings[k] = v
		}
	}
	if t.Tags != nil {
		cp.Tags = append([]string(nil), t.Tags...)
	}
	return &cp
}
