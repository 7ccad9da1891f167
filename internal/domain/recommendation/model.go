package recommendation

import (
	"encoding/json"
	"time"

	"github.com/yanqian/moodmate/internal/domain/mood"
	"github.com/yanqian/moodmate/internal/domain/weather"
)

// Tags is the set of moods an item suits. It decodes from a JSON array or a single string.
type Tags []mood.Mood

// Has reports whether m is among the tags.
func (t Tags) Has(m mood.Mood) bool {
	for _, tag := range t {
		if tag == m {
			return true
		}
	}
	return false
}

func (t *Tags) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		if single != "" {
			*t = Tags{mood.Mood(single)}
		}
		return nil
	}
	var many []mood.Mood
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*t = many
	return nil
}

// Food is a dish suggestion.
type Food struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Image       string `json:"image,omitempty"`
	Mood        Tags   `json:"mood,omitempty"`
	Why         string `json:"why,omitempty"`
}

// Music is a song suggestion.
type Music struct {
	ID         string `json:"id,omitempty"`
	Title      string `json:"title"`
	Artist     string `json:"artist"`
	Genre      string `json:"genre"`
	Image      string `json:"image,omitempty"`
	Mood       Tags   `json:"mood,omitempty"`
	SpotifyURL string `json:"spotify_url,omitempty"`
	Why        string `json:"why,omitempty"`
}

// Stay is an accommodation suggestion.
type Stay struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Image       string `json:"image,omitempty"`
	Mood        Tags   `json:"mood,omitempty"`
	Why         string `json:"why,omitempty"`
}

// Source tells where a bundle came from.
type Source string

const (
	SourceStatic Source = "static"
	SourceAI     Source = "ai"
)

// Bundle groups the suggestions served for one mood.
type Bundle struct {
	Mood     mood.Mood `json:"mood"`
	Foods    []Food    `json:"foods"`
	Music    []Music   `json:"music"`
	Stays    []Stay    `json:"stays"`
	Insights string    `json:"insights,omitempty"`
	Source   Source    `json:"source"`
}

// Request is the input of a Provider.
type Request struct {
	Weather weather.Snapshot
	Mood    mood.Mood
	UserID  string
}

// ItemType discriminates history entries.
type ItemType string

const (
	ItemFood  ItemType = "food"
	ItemMusic ItemType = "music"
	ItemStay  ItemType = "stay"
)

// HistoryEntry records one AI suggestion shown to a user.
type HistoryEntry struct {
	ID               string          `json:"id"`
	UserID           string          `json:"userId"`
	Location         string          `json:"location"`
	WeatherCondition string          `json:"weatherCondition"`
	Mood             mood.Mood       `json:"mood"`
	Type             ItemType        `json:"type"`
	Data             json.RawMessage `json:"data"`
	UserFeedback     *int            `json:"userFeedback,omitempty"`
	WasHelpful       *bool           `json:"wasHelpful,omitempty"`
	CreatedAt        time.Time       `json:"createdAt"`
}

// WeatherLogEntry records the weather and mood a user received suggestions for.
type WeatherLogEntry struct {
	ID               string    `json:"id"`
	UserID           string    `json:"userId"`
	Location         string    `json:"location"`
	WeatherCondition string    `json:"weatherCondition"`
	Temperature      float64   `json:"temperature"`
	MoodSelected     mood.Mood `json:"moodSelected"`
	RecordedAt       time.Time `json:"recordedAt"`
}

// AIConfig tunes the LLM backed provider.
type AIConfig struct {
	Model              string
	Temperature        float32
	MaxTokens          int
	HistoryLimit       int
	HistoryTokenBudget int
}

// BreakerConfig tunes the circuit breaker in front of the primary provider.
type BreakerConfig struct {
	MaxFailures uint32
	OpenTimeout time.Duration
}
