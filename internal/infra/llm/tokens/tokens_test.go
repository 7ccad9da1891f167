package tokens

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type fixedCounter int

func (f fixedCounter) Count(string) int { return int(f) }

func TestWordEstimate(t *testing.T) {
	require.Equal(t, 0, WordEstimate{}.Count("   "))
	require.Equal(t, 4, WordEstimate{}.Count("masala chai please"))
}

func TestFitBudgetStopsAtLimit(t *testing.T) {
	lines := []string{"a", "b", "c", "d"}
	require.Equal(t, []string{"a", "b"}, FitBudget(fixedCounter(5), lines, 12))
	require.Empty(t, FitBudget(fixedCounter(5), lines, 4))
}

func TestFitBudgetWithoutLimit(t *testing.T) {
	lines := []string{"a", "b"}
	require.Equal(t, lines, FitBudget(fixedCounter(100), lines, 0))
	require.Equal(t, lines, FitBudget(nil, lines, 10))
}
