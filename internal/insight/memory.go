package insight

import (
	"strings"

	"github.com/SUMMERxKx/nwHacks/internal"
)

const (
	memoryListLimit = 5
	peakThreshold   = 7
	minPeakCheckIns = 2

	NoneNotedYet    = "None noted yet"
	PeakUnknown     = "Unknown"
	PeakHigherFocus = "On days with higher focus and energy in your check-ins"
)

// Reduce folds check-ins into a MemorySnapshot. Answers are deduplicated in
// first-seen order of the input, so callers control recency by ordering.
// Every list field holds at least one entry.
func Reduce(checkIns []internal.CheckIn) MemorySnapshot {
	return MemorySnapshot{
		CommonStressors:  orNone(distinctAnswers(checkIns, internal.PromptStressed)),
		RestoresEnergy:   orNone(distinctAnswers(checkIns, internal.PromptGrateful)),
		PeakProductivity: peakProductivity(checkIns),
		RecentWins:       orNone(distinctAnswers(checkIns, internal.PromptProud)),
	}
}

func distinctAnswers(checkIns []internal.CheckIn, promptID string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0, memoryListLimit)
	for _, c := range checkIns {
		answer := strings.TrimSpace(c.Answer(promptID))
		if answer == "" {
			continue
		}
		if _, ok := seen[answer]; ok {
			continue
		}
		seen[answer] = struct{}{}
		out = append(out, answer)
		if len(out) == memoryListLimit {
			break
		}
	}
	return out
}

func orNone(values []string) []string {
	if len(values) == 0 {
		return []string{NoneNotedYet}
	}
	return values
}

// Only the maximum on each axis matters, so no sort is needed.
func peakProductivity(checkIns []internal.CheckIn) string {
	if len(checkIns) < minPeakCheckIns {
		return PeakUnknown
	}
	maxFocus, maxEnergy := 0, 0
	for _, c := range checkIns {
		maxFocus = max(maxFocus, c.Ratings.Focus)
		maxEnergy = max(maxEnergy, c.Ratings.Energy)
	}
	if maxFocus >= peakThreshold || maxEnergy >= peakThreshold {
		return PeakHigherFocus
	}
	return PeakUnknown
}
