package improvement

import (
	"context"
	"time"
)

// Type classifies an improvement suggestion.
type Type string

const (
	TypeFood    Type = "food"
	TypeMusic   Type = "music"
	TypeStay    Type = "stay"
	TypeGeneral Type = "general"
)

// StatusPending marks suggestions nobody has acted on yet.
const StatusPending = "pending"

// Analysis is the model's justification for a suggestion.
type Analysis struct {
	Reasoning     string `json:"reasoning"`
	TargetMood    string `json:"targetMood,omitempty"`
	TargetWeather string `json:"targetWeather,omitempty"`
	Priority      string `json:"priority,omitempty"`
}

// Improvement is one stored suggestion for the recommendation catalog.
type Improvement struct {
	ID              string    `json:"id"`
	ImprovementType Type      `json:"improvementType"`
	Suggestion      string    `json:"suggestion"`
	DataAnalysis    Analysis  `json:"dataAnalysis"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"createdAt"`
}

// Repository persists improvement suggestions.
type Repository interface {
	Add(ctx context.Context, items []Improvement) error
	// Latest returns the newest records first.
	Latest(ctx context.Context, limit int) ([]Improvement, error)
}

// Config drives the analysis call.
type Config struct {
	Model         string
	Temperature   float32
	MaxTokens     int
	HistorySample int
	WeatherSample int
	PromptItems   int
	TokenBudget   int
}
