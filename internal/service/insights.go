package service

import (
	"context"

	"github.com/SUMMERxKx/nwHacks/internal/insight"
	"github.com/SUMMERxKx/nwHacks/internal/window"
)

type ChatRequest struct {
	Message     string `json:"message"`
	ContextDays any    `json:"contextDays"`
	Tone        string `json:"tone,omitempty"`
}

// PeriodRequest is the body of the structured insight endpoints. Period is
// left untyped because clients send both 7 and "7".
type PeriodRequest struct {
	Period any `json:"period"`
}

// Insights maps request bodies onto insight pipeline runs.
type Insights struct {
	pipeline *insight.Pipeline
}

func NewInsights(pipeline *insight.Pipeline) *Insights {
	return &Insights{pipeline: pipeline}
}

// Chat fails only with internal.ErrInvalidArgument for an empty message.
func (s *Insights) Chat(ctx context.Context, userID string, req ChatRequest) (insight.ChatReply, error) {
	return insight.Run(ctx, s.pipeline, &insight.Chat, insight.Request{
		UserID:  userID,
		Period:  window.ParseRolling(req.ContextDays),
		Message: req.Message,
		Tone:    insight.ParseTone(req.Tone),
	})
}

func (s *Insights) Patterns(ctx context.Context, userID string, req PeriodRequest) ([]insight.PatternInsight, error) {
	return insight.Run(ctx, s.pipeline, &insight.Patterns, insight.Request{
		UserID: userID,
		Period: window.ParseRolling(req.Period),
	})
}

func (s *Insights) Wins(ctx context.Context, userID string, req PeriodRequest) (insight.WinsResult, error) {
	return insight.Run(ctx, s.pipeline, &insight.Wins, insight.Request{
		UserID: userID,
		Period: window.ParseWeekly(req.Period),
	})
}

func (s *Insights) BlindSpots(ctx context.Context, userID string, req PeriodRequest) (insight.BlindSpotsResult, error) {
	return insight.Run(ctx, s.pipeline, &insight.BlindSpots, insight.Request{
		UserID: userID,
		Period: window.ParseWeekly(req.Period),
	})
}
