package dashboard

import (
	"time"

	"github.com/yanqian/moodmate/internal/domain/mood"
	"github.com/yanqian/moodmate/internal/domain/recommendation"
	"github.com/yanqian/moodmate/internal/domain/weather"
)

// MoodSource tells whether the view mood came from the weather or the user.
type MoodSource string

const (
	MoodDerived  MoodSource = "derived"
	MoodSelected MoodSource = "selected"
)

// View is the per-user dashboard state returned to clients.
type View struct {
	Weather         *weather.Snapshot      `json:"weather,omitempty"`
	Strategy        weather.StrategyName   `json:"strategy,omitempty"`
	Advisory        string                 `json:"advisory,omitempty"`
	Mood            mood.Mood              `json:"mood,omitempty"`
	MoodSource      MoodSource             `json:"moodSource,omitempty"`
	Recommendations *recommendation.Bundle `json:"recommendations,omitempty"`
	Generation      uint64                 `json:"generation"`
	UpdatedAt       time.Time              `json:"updatedAt"`
	Superseded      bool                   `json:"superseded"`
}

type session struct {
	view     View
	selected mood.Mood
	latest   uint64
}
