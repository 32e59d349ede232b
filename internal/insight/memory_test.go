package insight

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/SUMMERxKx/nwHacks/internal"
)

func checkIn(date string, r internal.Ratings, answers map[string]string) internal.CheckIn {
	prompts := internal.Prompts{}
	for _, id := range internal.StandardPromptIDs {
		prompts = append(prompts, internal.PromptResponse{ID: id, Question: internal.DefaultQuestion(id), Answer: answers[id]})
	}
	return internal.CheckIn{UserID: "u1", Date: date, Ratings: r, Prompts: prompts}
}

func TestReduce_EmptyInputUsesPlaceholders(t *testing.T) {
	m := Reduce(nil)
	assert.Equal(t, []string{NoneNotedYet}, m.CommonStressors)
	assert.Equal(t, []string{NoneNotedYet}, m.RestoresEnergy)
	assert.Equal(t, []string{NoneNotedYet}, m.RecentWins)
	assert.Equal(t, PeakUnknown, m.PeakProductivity)
}

func TestReduce_DedupFirstSeenAndLimit(t *testing.T) {
	var cs []internal.CheckIn
	for i, s := range []string{"work", " work ", "", "sleep", "money", "family", "traffic", "noise"} {
		cs = append(cs, checkIn("2024-01-0"+string(rune('1'+i)), internal.Ratings{}, map[string]string{
			internal.PromptStressed: s,
			internal.PromptGrateful: "coffee",
		}))
	}
	m := Reduce(cs)
	assert.Equal(t, []string{"work", "sleep", "money", "family", "traffic"}, m.CommonStressors)
	assert.Equal(t, []string{"coffee"}, m.RestoresEnergy)
	assert.Equal(t, []string{NoneNotedYet}, m.RecentWins)
}

func TestReduce_PeakProductivity(t *testing.T) {
	t.Run("single check-in is unknown", func(t *testing.T) {
		m := Reduce([]internal.CheckIn{checkIn("2024-01-01", internal.Ratings{Focus: 9}, nil)})
		assert.Equal(t, PeakUnknown, m.PeakProductivity)
	})
	t.Run("focus alone meets threshold", func(t *testing.T) {
		m := Reduce([]internal.CheckIn{
			checkIn("2024-01-01", internal.Ratings{Focus: 8, Energy: 4}, nil),
			checkIn("2024-01-02", internal.Ratings{Focus: 3, Energy: 6}, nil),
		})
		assert.Equal(t, PeakHigherFocus, m.PeakProductivity)
	})
	t.Run("energy alone meets threshold", func(t *testing.T) {
		m := Reduce([]internal.CheckIn{
			checkIn("2024-01-01", internal.Ratings{Focus: 2, Energy: 7}, nil),
			checkIn("2024-01-02", internal.Ratings{Focus: 3, Energy: 1}, nil),
		})
		assert.Equal(t, PeakHigherFocus, m.PeakProductivity)
	})
	t.Run("below threshold", func(t *testing.T) {
		m := Reduce([]internal.CheckIn{
			checkIn("2024-01-01", internal.Ratings{Focus: 6, Energy: 6}, nil),
			checkIn("2024-01-02", internal.Ratings{}, nil),
		})
		assert.Equal(t, PeakUnknown, m.PeakProductivity)
	})
}

func TestReduce_NeverEmptyAndPure(t *testing.T) {
	inputs := [][]internal.CheckIn{
		nil,
		{checkIn("2024-01-01", internal.Ratings{}, nil)},
		{
			checkIn("2024-01-01", internal.Ratings{Focus: 9}, map[string]string{internal.PromptProud: "shipped"}),
			{UserID: "u1", Date: "2024-01-02"},
		},
	}
	for _, in := range inputs {
		first, second := Reduce(in), Reduce(in)
		assert.Equal(t, first, second)
		assert.NotEmpty(t, first.CommonStressors)
		assert.NotEmpty(t, first.RestoresEnergy)
		assert.NotEmpty(t, first.RecentWins)
		assert.NotEmpty(t, first.PeakProductivity)
		for _, list := range [][]string{first.CommonStressors, first.RestoresEnergy, first.RecentWins} {
			for _, v := range list {
				assert.NotEmpty(t, v)
			}
		}
	}
}
