package service

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SUMMERxKx/nwHacks/internal"
	"github.com/SUMMERxKx/nwHacks/internal/insight"
	"github.com/SUMMERxKx/nwHacks/internal/storage"
	"github.com/SUMMERxKx/nwHacks/internal/window"
)

func setupTestRepo(t *testing.T) storage.CheckInRepository {
	t.Helper()
	repo, err := storage.NewFileStorage(filepath.Join(t.TempDir(), "checkins.json"), internal.NopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func decodeRequest(t *testing.T, body string) *CheckInRequest {
	t.Helper()
	var req CheckInRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))
	return &req
}

func TestValidateCheckInRequest(t *testing.T) {
	valid := decodeRequest(t, `{"date":"2024-01-10","ratings":{"stress":3,"energy":7,"mood":8,"focus":6},
		"prompts":{"proud":"ran 5k"}}`)
	assert.NoError(t, ValidateCheckInRequest(valid))

	longQuestion := `{"date":"2024-01-10","ratings":{"stress":3,"energy":7,"mood":8,"focus":6},
		"prompts":[{"id":"c1","question":"` + longString(141) + `","answer":"x"}]}`
	for name, body := range map[string]string{
		"missing date":      `{"ratings":{"stress":3,"energy":7,"mood":8,"focus":6}}`,
		"bad date":          `{"date":"10/01/2024","ratings":{"stress":3,"energy":7,"mood":8,"focus":6}}`,
		"rating too high":   `{"date":"2024-01-10","ratings":{"stress":11,"energy":7,"mood":8,"focus":6}}`,
		"rating missing":    `{"date":"2024-01-10","ratings":{"stress":3,"energy":7,"mood":8}}`,
		"question too long": longQuestion,
	} {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, ValidateCheckInRequest(decodeRequest(t, body)))
		})
	}
}

func longString(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = 'a'
	}
	return string(b)
}

func TestSaveCheckIn(t *testing.T) {
	repo := setupTestRepo(t)
	user := &internal.User{ID: "u1"}
	ctx := context.Background()

	req := decodeRequest(t, `{"date":"2024-01-10","ratings":{"stress":3,"energy":7,"mood":8,"focus":6}}`)
	saved, err := SaveCheckIn(ctx, repo, user, req)
	require.NoError(t, err)
	assert.Equal(t, "u1", saved.UserID)
	assert.Len(t, saved.Prompts, len(internal.StandardPromptIDs))

	req = decodeRequest(t, `{"date":"2024-01-10","ratings":{"stress":5,"energy":5,"mood":5,"focus":5},
		"prompts":[{"id":"grateful","answer":"tea"}]}`)
	_, err = SaveCheckIn(ctx, repo, user, req)
	require.NoError(t, err)

	got, err := repo.GetCheckIn(ctx, "u1", "2024-01-10")
	require.NoError(t, err)
	assert.Equal(t, 5, got.Ratings.Stress)
	assert.Equal(t, "tea", got.Answer(internal.PromptGrateful))
	assert.Equal(t, saved.CreatedAt.Unix(), got.CreatedAt.Unix())
}

func TestCalculateCheckInStats(t *testing.T) {
	w := window.Window{Start: "2024-01-04", End: "2024-01-10"}
	checkIns := []internal.CheckIn{
		{Date: "2024-01-10", Ratings: internal.Ratings{Stress: 2, Energy: 8, Mood: 7, Focus: 9}},
		{Date: "2024-01-09", Ratings: internal.Ratings{Stress: 4, Energy: 6, Mood: 6, Focus: 6}},
		{Date: "2024-01-08", Ratings: internal.Ratings{Stress: 3, Energy: 5, Mood: 5, Focus: 4}},
		{Date: "2024-01-06", Ratings: internal.Ratings{Stress: 9, Energy: 1, Mood: 2, Focus: 2}},
		{Date: "2023-12-01", Ratings: internal.Ratings{Stress: 10, Energy: 10, Mood: 10, Focus: 10}},
	}

	stats := CalculateCheckInStats(checkIns, w, "2024-01-10")
	assert.Equal(t, 4, stats.Count)
	assert.Equal(t, 3, stats.Streak)
	assert.Equal(t, Averages{Stress: 4.5, Energy: 5, Mood: 5, Focus: 5.3}, stats.Averages)
	require.Len(t, stats.Trend, 4)
	assert.Equal(t, "2024-01-06", stats.Trend[0].Date)
	assert.Equal(t, "2024-01-10", stats.Trend[3].Date)

	// no check-in today breaks the streak
	assert.Equal(t, 0, CalculateCheckInStats(checkIns, w, "2024-01-11").Streak)

	empty := CalculateCheckInStats(nil, w, "2024-01-10")
	assert.Equal(t, 0, empty.Count)
	assert.NotNil(t, empty.Trend)
	assert.Equal(t, Averages{}, empty.Averages)
}

func TestGetCheckInStats(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()
	user := &internal.User{ID: "u1"}
	now := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
	for _, date := range []string{"2023-12-20", "2024-01-09", "2024-01-10"} {
		_, err := SaveCheckIn(ctx, repo, user, decodeRequest(t,
			`{"date":"`+date+`","ratings":{"stress":2,"energy":4,"mood":6,"focus":8}}`))
		require.NoError(t, err)
	}

	stats, err := GetCheckInStats(ctx, repo, user, window.Week, now)
	require.NoError(t, err)
	assert.Equal(t, window.Window{Start: "2024-01-08", End: "2024-01-14"}, stats.Window)
	assert.Equal(t, 2, stats.Count)
	assert.Equal(t, 2, stats.Streak)
	assert.Equal(t, 8.0, stats.Averages.Focus)
}

type stubModel struct {
	reply string
	calls int
}

func (m *stubModel) Complete(context.Context, string, string) (string, error) {
	m.calls++
	return m.reply, nil
}

func TestInsights(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()
	user := &internal.User{ID: "u1"}
	today := window.Today(time.Now())
	_, err := SaveCheckIn(ctx, repo, user, decodeRequest(t,
		`{"date":"`+today+`","ratings":{"stress":2,"energy":4,"mood":6,"focus":8}}`))
	require.NoError(t, err)

	model := &stubModel{reply: `{"wins":[{"title":"Checked in","evidence":"today"}],"growthNotes":[]}`}
	svc := NewInsights(insight.NewPipeline(repo, model, internal.NopLogger(), time.Second))

	_, err = svc.Chat(ctx, "u1", ChatRequest{Message: " "})
	assert.ErrorIs(t, err, internal.ErrInvalidArgument)

	wins, err := svc.Wins(ctx, "u1", PeriodRequest{Period: "week"})
	require.NoError(t, err)
	require.Len(t, wins.Wins, 1)
	assert.Equal(t, "Checked in", wins.Wins[0].Title)

	// one check-in is not enough for patterns
	patterns, err := svc.Patterns(ctx, "u1", PeriodRequest{Period: float64(7)})
	require.NoError(t, err)
	assert.Empty(t, patterns)
	assert.Equal(t, 1, model.calls)

	// the wins reply carries no blind spots
	spots, err := svc.BlindSpots(ctx, "u1", PeriodRequest{})
	require.NoError(t, err)
	assert.Empty(t, spots.BlindSpots)
	assert.Empty(t, spots.AwarenessNotes)
}
