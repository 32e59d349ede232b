package insight

import (
	"fmt"
	"sort"
	"strings"

	"github.com/SUMMERxKx/nwHacks/internal"
)

const (
	NoCheckIns     = "No check-ins in this period."
	blockSeparator = "\n\n---\n\n"
	missingAnswer  = "-"
)

// Serialize renders check-ins oldest first as plain text for a model prompt.
// The input slice is not reordered.
func Serialize(checkIns []internal.CheckIn) string {
	if len(checkIns) == 0 {
		return NoCheckIns
	}
	sorted := make([]internal.CheckIn, len(checkIns))
	copy(sorted, checkIns)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date < sorted[j].Date })

	blocks := make([]string, 0, len(sorted))
	for _, c := range sorted {
		blocks = append(blocks, serializeOne(c))
	}
	return strings.Join(blocks, blockSeparator)
}

func serializeOne(c internal.CheckIn) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s]\n", c.Date)
	fmt.Fprintf(&b, "ratings: stress=%d energy=%d mood=%d focus=%d",
		c.Ratings.Stress, c.Ratings.Energy, c.Ratings.Mood, c.Ratings.Focus)

	for _, id := range internal.StandardPromptIDs {
		fmt.Fprintf(&b, "\n%s: %s", id, answerOrDash(c.Answer(id)))
	}
	for _, p := range c.Prompts {
		if internal.IsStandardPrompt(p.ID) {
			continue
		}
		label := strings.TrimSpace(p.Question)
		if label == "" {
			label = internal.DefaultQuestion(p.ID)
		}
		fmt.Fprintf(&b, "\n%s: %s", label, answerOrDash(p.Answer))
	}
	return b.String()
}

func answerOrDash(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return missingAnswer
	}
	return s
}
