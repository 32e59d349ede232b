package insight

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SUMMERxKx/nwHacks/internal"
	"github.com/SUMMERxKx/nwHacks/internal/llm"
	"github.com/SUMMERxKx/nwHacks/internal/window"
)

type fakeSource struct {
	checkIns   []internal.CheckIn
	err        error
	start, end string
}

func (f *fakeSource) ListCheckIns(_ context.Context, _ string, start, end string) ([]internal.CheckIn, error) {
	f.start, f.end = start, end
	if f.err != nil {
		return nil, f.err
	}
	out := make([]internal.CheckIn, len(f.checkIns))
	copy(out, f.checkIns)
	return out, nil
}

type fakeModel struct {
	reply        string
	err          error
	calls        int
	system, user string
	block        bool
}

func (f *fakeModel) Complete(ctx context.Context, system, user string) (string, error) {
	f.calls++
	f.system, f.user = system, user
	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return f.reply, f.err
}

// 2024-01-10 is a Wednesday.
var fixedNow = time.Date(2024, 1, 10, 15, 0, 0, 0, time.UTC)

func newTestPipeline(src CheckInSource, model *fakeModel) *Pipeline {
	var completer llm.Completer
	if model != nil {
		completer = model
	}
	return NewPipeline(src, completer, internal.NopLogger(), time.Second).WithClock(func() time.Time { return fixedNow })
}

func threeCheckIns() []internal.CheckIn {
	return []internal.CheckIn{
		checkIn("2024-01-08", internal.Ratings{Focus: 8}, map[string]string{internal.PromptStressed: "deadline"}),
		checkIn("2024-01-09", internal.Ratings{Focus: 5}, map[string]string{internal.PromptStressed: "commute"}),
		checkIn("2024-01-10", internal.Ratings{Focus: 6}, map[string]string{internal.PromptProud: "ran 5k"}),
	}
}

func TestRun_ChatRejectsEmptyMessage(t *testing.T) {
	model := &fakeModel{reply: "hello"}
	src := &fakeSource{}
	_, err := Run(context.Background(), newTestPipeline(src, model), &Chat, Request{UserID: "u1", Message: "   "})
	assert.ErrorIs(t, err, internal.ErrInvalidArgument)
	assert.Equal(t, 0, model.calls)
	assert.Empty(t, src.start, "store must not be read")
}

func TestRun_ChatPrompt(t *testing.T) {
	model := &fakeModel{reply: " You seem to rest well on weekends. "}
	src := &fakeSource{checkIns: threeCheckIns()}
	out, err := Run(context.Background(), newTestPipeline(src, model), &Chat, Request{
		UserID: "u1", Period: window.Rolling7, Message: " how was my week? ", Tone: ToneGentle,
	})
	require.NoError(t, err)
	assert.Equal(t, "You seem to rest well on weekends.", out.Content)

	assert.Equal(t, "2024-01-04", src.start)
	assert.Equal(t, "2024-01-10", src.end)
	assert.Contains(t, model.system, `"Buddy"`)
	assert.Contains(t, model.system, toneStyle[ToneGentle])
	assert.Contains(t, model.user, "## Check-ins (last 7 days)")
	assert.Contains(t, model.user, "commonStressors: commute; deadline")
	assert.True(t, strings.HasSuffix(model.user, "## User message\nhow was my week?"))
}

func TestRun_FallbackOnModelFailure(t *testing.T) {
	boom := errors.New("connection reset")
	ctx := context.Background()
	req := Request{UserID: "u1", Period: window.Week, Message: "hi"}

	p := newTestPipeline(&fakeSource{checkIns: threeCheckIns()}, &fakeModel{err: boom})

	chat, err := Run(ctx, p, &Chat, req)
	require.NoError(t, err)
	assert.Equal(t, ChatFallback, chat.Content)

	patterns, err := Run(ctx, p, &Patterns, req)
	require.NoError(t, err)
	assert.NotNil(t, patterns)
	assert.Empty(t, patterns)

	wins, err := Run(ctx, p, &Wins, req)
	require.NoError(t, err)
	assert.Equal(t, WinsResult{Wins: []Win{}, GrowthNotes: []GrowthNote{}}, wins)

	spots, err := Run(ctx, p, &BlindSpots, req)
	require.NoError(t, err)
	assert.Equal(t, BlindSpotsResult{BlindSpots: []BlindSpot{}, AwarenessNotes: []AwarenessNote{}}, spots)
}

func TestRun_FallbackOnStoreFailure(t *testing.T) {
	model := &fakeModel{reply: `{"wins":[]}`}
	p := newTestPipeline(&fakeSource{err: errors.New("db down")}, model)
	wins, err := Run(context.Background(), p, &Wins, Request{UserID: "u1", Period: window.Week})
	require.NoError(t, err)
	assert.Empty(t, wins.Wins)
	assert.Equal(t, 0, model.calls)
}

func TestRun_FallbackOnMalformedOutput(t *testing.T) {
	p := newTestPipeline(&fakeSource{checkIns: threeCheckIns()}, &fakeModel{reply: "Sorry, I can't help with that."})
	spots, err := Run(context.Background(), p, &BlindSpots, Request{UserID: "u1", Period: window.Week})
	require.NoError(t, err)
	assert.Empty(t, spots.BlindSpots)
	assert.NotNil(t, spots.AwarenessNotes)
}

func TestRun_FallbackWithoutModel(t *testing.T) {
	p := newTestPipeline(&fakeSource{checkIns: threeCheckIns()}, nil)
	out, err := Run(context.Background(), p, &Chat, Request{UserID: "u1", Message: "hi"})
	require.NoError(t, err)
	assert.Equal(t, ChatFallback, out.Content)
}

func TestRun_PatternsShortCircuit(t *testing.T) {
	model := &fakeModel{reply: "[]"}
	p := newTestPipeline(&fakeSource{checkIns: threeCheckIns()[:2]}, model)
	out, err := Run(context.Background(), p, &Patterns, Request{UserID: "u1", Period: window.Rolling30})
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.NotNil(t, out)
	assert.Equal(t, 0, model.calls)
}

func TestRun_PatternsSuccess(t *testing.T) {
	model := &fakeModel{reply: "[" + patternJSON(`"p1"`, "High") + "]"}
	src := &fakeSource{checkIns: threeCheckIns()}
	out, err := Run(context.Background(), newTestPipeline(src, model), &Patterns, Request{UserID: "u1", Period: window.Rolling30})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "p1", out[0].ID)

	assert.Equal(t, "2023-12-12", src.start)
	assert.Contains(t, model.user, "## Memory\n{\"commonStressors\"")
	assert.Contains(t, model.user, "[2024-01-08]")
	assert.Equal(t, patternsSystem, model.system)
}

func TestRun_WinsDefaultDateIsWindowStart(t *testing.T) {
	model := &fakeModel{reply: `{"wins":[{"title":"Consistent","evidence":"3 check-ins"}],"growthNotes":[]}`}
	src := &fakeSource{checkIns: threeCheckIns()}
	out, err := Run(context.Background(), newTestPipeline(src, model), &Wins, Request{UserID: "u1", Period: window.Week})
	require.NoError(t, err)
	require.Len(t, out.Wins, 1)
	assert.Equal(t, "2024-01-08", out.Wins[0].Date)
	assert.Equal(t, "2024-01-14", src.end)
}

func TestRun_TimeoutFallsBack(t *testing.T) {
	model := &fakeModel{block: true}
	p := NewPipeline(&fakeSource{checkIns: threeCheckIns()}, model, internal.NopLogger(), 20*time.Millisecond)
	out, err := Run(context.Background(), p, &Chat, Request{UserID: "u1", Message: "hi"})
	require.NoError(t, err)
	assert.Equal(t, ChatFallback, out.Content)
}

type panicModel struct{}

func (panicModel) Complete(context.Context, string, string) (string, error) { panic("boom") }

func TestRun_PanicFallsBack(t *testing.T) {
	p := NewPipeline(&fakeSource{checkIns: threeCheckIns()}, panicModel{}, internal.NopLogger(), 0)
	out, err := Run(context.Background(), p, &Wins, Request{UserID: "u1"})
	require.NoError(t, err)
	assert.Empty(t, out.Wins)
}

func TestRun_PromptContentPerInsightType(t *testing.T) {
	tests := []struct {
		name       string
		reply      string
		run        func(p *Pipeline) error
		system     []string
		user       []string
		structured bool
	}{
		{
			name:  "chat",
			reply: "ok",
			run: func(p *Pipeline) error {
				_, err := Run(context.Background(), p, &Chat, Request{UserID: "u1", Period: window.Rolling7, Message: "hi"})
				return err
			},
			system: []string{"No diagnosis", "Do NOT invent facts or dates", toneStyle[ToneBalanced]},
			user:   []string{"## Memory (about this user)", "commonStressors: commute; deadline", "## User message\nhi"},
		},
		{
			name:  "patterns",
			reply: "[]",
			run: func(p *Pipeline) error {
				_, err := Run(context.Background(), p, &Patterns, Request{UserID: "u1", Period: window.Rolling7})
				return err
			},
			system:     []string{"Evidence MUST reference the provided check-ins", "No clinical or diagnostic language"},
			user:       []string{"1 to 3 pattern objects", `"Low" or "Medium" or "High"`},
			structured: true,
		},
		{
			name:  "wins",
			reply: "{}",
			run: func(p *Pipeline) error {
				_, err := Run(context.Background(), p, &Wins, Request{UserID: "u1", Period: window.Week})
				return err
			},
			system:     []string{"wins (effort, consistency, emotional regulation)", "Do NOT invent facts or dates"},
			user:       []string{"1 to 5 wins, 1 to 4 growth notes", `"growthNotes"`},
			structured: true,
		},
		{
			name:  "blind spots",
			reply: "{}",
			run: func(p *Pipeline) error {
				_, err := Run(context.Background(), p, &BlindSpots, Request{UserID: "u1", Period: window.Week})
				return err
			},
			system: []string{
				"NEVER include language about suicide, self-harm, hopelessness, or despair",
				"NEVER use harsh judgments, blame, or negative character statements",
				"return empty arrays rather than forcing observations",
			},
			user:       []string{"1 to 4 blind spots, 1 to 3 awareness notes", `"awarenessNotes"`},
			structured: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model := &fakeModel{reply: tt.reply}
			require.NoError(t, tt.run(newTestPipeline(&fakeSource{checkIns: threeCheckIns()}, model)))
			require.Equal(t, 1, model.calls)

			for _, want := range tt.system {
				assert.Contains(t, model.system, want)
			}
			for _, want := range tt.user {
				assert.Contains(t, model.user, want)
			}
			assert.Contains(t, model.user, "[2024-01-10]")
			assert.Contains(t, model.user, "stressed: commute")
			if tt.structured {
				assert.Contains(t, model.user, "## Memory\n{")
				assert.Contains(t, model.user, `"commonStressors":["commute","deadline"]`)
				assert.Contains(t, model.user, `"recentWins":["ran 5k"]`)
			}
		})
	}
}
