// Package catalog holds the read-mostly collection of session templates used
// to pre-populate new collaboration sessions.
package catalog

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"codelab/pkg/types"
)

// Catalog is an append-only template store. Templates are created once via an
// administrative operation and then only read; there is no update or delete.
type Catalog struct {
	mu        sync.RWMutex
	templates map[string]*types.Template
	order     []string // insertion order for stable listings
}

// New creates a catalog pre-seeded with the built-in templates.
func New() *Catalog {
	c := &Catalog{
		templates: make(map[string]*types.Template),
	}
	for _, t := range builtinTemplates() {
		c.insert(t)
	}
	return c
}

// NewEmpty creates a catalog without the built-in seed templates.
func NewEmpty() *Catalog {
	return &Catalog{
		templates: make(map[string]*types.Template),
	}
}

// Create adds a new template to the catalog. Only the required fields are
// validated; there is no uniqueness constraint beyond the generated id.
func (c *Catalog) Create(input types.TemplateInput) (*types.Template, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	var duration time.Duration
	if input.EstimatedDuration != "" {
		d, err := time.ParseDuration(input.EstimatedDuration)
		if err != nil {
			return nil, ErrInvalidDuration
		}
		duration = d
	}

	template := &types.Template{
		ID:                uuid.New().String(),
		Name:              input.Name,
		Description:       input.Description,
		Type:              input.Type,
		DefaultSettings:   copySettings(input.DefaultSettings),
		DefaultLanguage:   input.DefaultLanguage,
		Difficulty:        input.Difficulty,
		EstimatedDuration: duration,
		Tags:              append([]string(nil), input.Tags...),
		CreatedBy:         input.CreatedBy,
		CreatedAt:         time.Now(),
	}

	c.mu.Lock()
	c.insert(template)
	c.mu.Unlock()

	return template.Clone(), nil
}

// Get returns the template with the given id.
func (c *Catalog) Get(templateID string) (*types.Template, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	template, exists := c.templates[templateID]
	if !exists {
		return nil, ErrTemplateNotFound
	}
	return template.Clone(), nil
}

// List returns templates in insertion order, optionally filtered by type and
// paged. A zero Limit means no page cap.
func (c *Catalog) List(filter types.TemplateFilter) []*types.Template {
	c.mu.RLock()
	defer c.mu.RUnlock()

	matched := make([]*types.Template, 0, len(c.order))
	for _, id := range c.order {
		t := c.templates[id]
		if filter.Type != "" && t.Type != filter.Type {
			continue
		}
		matched = append(matched, t)
	}

	start := filter.Offset
	if start > len(matched) {
		start = len(matched)
	}
	end := len(matched)
	if filter.Limit > 0 && start+filter.Limit < end {
		end = start + filter.Limit
	}

	page := make([]*types.Template, 0, end-start)
	for _, t := range matched[start:end] {
		page = append(page, t.Clone())
	}
	return page
}

// ByType returns all templates of the given type in insertion order.
func (c *Catalog) ByType(sessionType types.SessionType) []*types.Template {
	return c.List(types.TemplateFilter{Type: sessionType})
}

// IncrementUsage bumps a template's usage counter. Called by the session
// manager when a session is created from the template.
func (c *Catalog) IncrementUsage(templateID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	template, exists := c.templates[templateID]
	if !exists {
		return ErrTemplateNotFound
	}
	template.UsageCount++
	return nil
}

// Len returns the number of templates in the catalog.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.templates)
}

// insert assumes the caller holds the write lock (or exclusive access during
// construction).
func (c *Catalog) insert(t *types.Template) {
	c.templates[t.ID] = t
	c.order = append(c.order, t.ID)
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
