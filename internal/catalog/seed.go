package catalog

import (
	"time"

	"github.com/google/uuid"

	"codelab/pkg/types"
)

// builtinTemplates returns the default presets shipped with the platform.
// They cover the common classroom scenarios so a fresh deployment has a
// usable catalog before any administrator creates custom templates.
func builtinTemplates() []*types.Template {
	now := time.Now()
	return []*types.Template{
		{
			ID:              uuid.New().String(),
			Name:            "Pair Programming: Algorithms",
			Description:     "Two-seat driver/navigator setup for algorithm practice.",
			Type:            types.TypePairProgramming,
			DefaultLanguage: "python",
			Difficulty:      "intermediate",
			DefaultSettings: map[string]any{
				"editor_sync":     true,
				"driver_rotation": "15m",
			},
			EstimatedDuration: 45 * time.Minute,
			Tags:              []string{"algorithms", "practice"},
			CreatedAt:         now,
		},
		{
			ID:              uuid.New().String(),
			Name:            "Technical Interview",
			Description:     "One interviewer, one candidate, private by default.",
			Type:            types.TypeInterview,
			DefaultLanguage: "javascript",
			Difficulty:      "advanced",
			DefaultSettings: map[string]any{
				"editor_sync":     true,
				"candidate_notes": false,
			},
			EstimatedDuration: time.Hour,
			Tags:              []string{"interview", "assessment"},
			CreatedAt:         now,
		},
		{
			ID:              uuid.New().String(),
			Name:            "Code Review Clinic",
			Description:     "Group walkthrough of submitted work with inline comments.",
			Type:            types.TypeCodeReview,
			DefaultLanguage: "go",
			Difficulty:      "intermediate",
			DefaultSettings: map[string]any{
				"annotations": true,
			},
			EstimatedDuration: 30 * time.Minute,
			Tags:              []string{"review", "feedback"},
			CreatedAt:         now,
		},
		{
			ID:          uuid.New().String(),
			Name:        "Architecture Whiteboard",
			Description: "Open whiteboard for system design discussions.",
			Type:        types.TypeWhiteboard,
			Difficulty:  "beginner",
			DefaultSettings: map[string]any{
				"grid": true,
			},
			EstimatedDuration: 45 * time.Minute,
			Tags:              []string{"design", "discussion"},
			CreatedAt:         now,
		},
	}
}
