package sim

import (
	"fmt"
	"time"
)

// Mode is one difficulty preset.
type Mode struct {
	ID          string
	Name        string
	Description string

	ObstacleFrequency float64
	SpeedMultiplier   float64
	ScoreMultiplier   float64

	// TimeLimit of zero means an open-ended run.
	TimeLimit time.Duration
}

// DefaultModeID is used when no mode is configured.
const DefaultModeID = "normal"

var modes = []Mode{
	{
		ID:                "practice",
		Name:              "Practice Mode",
		Description:       "Learn to control the car without obstacles",
		ObstacleFrequency: 0.0,
		SpeedMultiplier:   1.0,
		ScoreMultiplier:   0.5,
	},
	{
		ID:                "easy",
		Name:              "Easy Mode",
		Description:       "Few obstacles at a slow pace",
		ObstacleFrequency: 0.01,
		SpeedMultiplier:   0.8,
		ScoreMultiplier:   1.0,
	},
	{
		ID:                "normal",
		Name:              "Normal Mode",
		Description:       "Standard gameplay",
		ObstacleFrequency: 0.02,
		SpeedMultiplier:   1.0,
		ScoreMultiplier:   1.5,
	},
	{
		ID:                "hard",
		Name:              "Hard Mode",
		Description:       "Many fast obstacles",
		ObstacleFrequency: 0.03,
		SpeedMultiplier:   1.3,
		ScoreMultiplier:   2.0,
	},
	{
		ID:                "time_trial",
		Name:              "Time Trial",
		Description:       "Race against the clock",
		ObstacleFrequency: 0.015,
		SpeedMultiplier:   1.1,
		ScoreMultiplier:   2.5,
		TimeLimit:         2 * time.Minute,
	},
}

// Modes returns all difficulty presets in menu order.
func Modes() []Mode {
	out := make([]Mode, len(modes))
	copy(out, modes)
	return out
}

// ModeByID looks up a preset by its identifier.
func ModeByID(id string) (Mode, error) {
	for _, m := range modes {
		if m.ID == id {
			return m, nil
		}
	}
	return Mode{}, fmt.Errorf("unknown game mode %q", id)
}

// FieldConfig derives the object-field tuning for this mode.
func (m Mode) FieldConfig() FieldConfig {
	return FieldConfig{
		ObstacleFrequency: m.ObstacleFrequency,
		SpeedMultiplier:   m.SpeedMultiplier,
	}
}
