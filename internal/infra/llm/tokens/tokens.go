package tokens

import (
	"log/slog"
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

// Counter measures how many model tokens a piece of text occupies.
type Counter interface {
	Count(text string) int
}

// Tiktoken counts with the BPE encoding of a specific model.
type Tiktoken struct {
	enc *tiktoken.Tiktoken
}

// NewCounter resolves the encoding for model. When the encoding cannot be
// loaded (unknown model, no network to fetch the BPE ranks) it returns a
// WordEstimate so prompt building keeps working.
func NewCounter(model string, logger *slog.Logger) Counter {
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		enc, err = tiktoken.GetEncoding(tiktoken.MODEL_CL100K_BASE)
	}
	if err != nil {
		if logger != nil {
			logger.Warn("tiktoken encoding unavailable, estimating tokens from words", "model", model, "error", err)
		}
		return WordEstimate{}
	}
	return &Tiktoken{enc: enc}
}

func (t *Tiktoken) Count(text string) int {
	return len(t.enc.Encode(text, nil, nil))
}

// WordEstimate approximates four tokens per three words.
type WordEstimate struct{}

func (WordEstimate) Count(text string) int {
	words := len(strings.Fields(text))
	return (words*4 + 2) / 3
}

// FitBudget keeps lines in order until adding the next one would exceed budget.
// A non-positive budget keeps everything.
func FitBudget(counter Counter, lines []string, budget int) []string {
	if budget <= 0 || counter == nil {
		return lines
	}
	out := make([]string, 0, len(lines))
	used := 0
	for _, line := range lines {
		n := counter.Count(line)
		if used+n > budget {
			break
		}
		used += n
		out = append(out, line)
	}
	return out
}
