package insight

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/SUMMERxKx/nwHacks/internal"
	"github.com/SUMMERxKx/nwHacks/internal/window"
)

// ParseChat trims the model reply. An empty reply is malformed.
func ParseChat(raw string) (ChatReply, error) {
	content := strings.TrimSpace(raw)
	if content == "" {
		return ChatReply{}, fmt.Errorf("%w: empty reply", internal.ErrMalformedResponse)
	}
	return ChatReply{Content: content}, nil
}

// ParsePatterns expects a JSON array. Invalid items are dropped one by one
// and the survivors are clipped to MaxPatterns.
func ParsePatterns(raw string) ([]PatternInsight, error) {
	var items []any
	if err := decodeSlice(raw, '[', &items); err != nil {
		return nil, err
	}

	out := make([]PatternInsight, 0, MaxPatterns)
	for _, item := range items {
		if len(out) == MaxPatterns {
			break
		}
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		title, meaning := str(obj["title"]), str(obj["meaning"])
		evidence := strList(obj["evidence"])
		if title == "" || meaning == "" || len(evidence) == 0 {
			continue
		}
		confidence := Confidence(str(obj["confidence"]))
		if !confidence.Valid() {
			confidence = ConfidenceMedium
		}
		out = append(out, PatternInsight{
			ID:         itemID(obj["id"], len(out)+1),
			Title:      title,
			Meaning:    meaning,
			Evidence:   evidence,
			Experiment: str(obj["experiment"]),
			Confidence: confidence,
		})
	}
	return out, nil
}

// ParseWins expects {"wins": [...], "growthNotes": [...]}. Wins without a
// usable date get defaultDate.
func ParseWins(raw, defaultDate string) (WinsResult, error) {
	var payload struct {
		Wins        any `json:"wins"`
		GrowthNotes any `json:"growthNotes"`
	}
	if err := decodeSlice(raw, '{', &payload); err != nil {
		return WinsResult{}, err
	}
	wins, err := required(payload.Wins, "wins")
	if err != nil {
		return WinsResult{}, err
	}

	res := WinsResult{Wins: []Win{}, GrowthNotes: notes(optional(payload.GrowthNotes), MaxGrowthNotes, func(id, content string) GrowthNote {
		return GrowthNote{ID: id, Content: content}
	})}
	for _, item := range wins {
		if len(res.Wins) == MaxWins {
			break
		}
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		title, evidence := str(obj["title"]), str(obj["evidence"])
		if title == "" || evidence == "" {
			continue
		}
		res.Wins = append(res.Wins, Win{
			ID:       itemID(obj["id"], len(res.Wins)+1),
			Title:    title,
			Evidence: evidence,
			Date:     dateOr(obj["date"], defaultDate),
		})
	}
	return res, nil
}

// ParseBlindSpots expects {"blindSpots": [...], "awarenessNotes": [...]}.
func ParseBlindSpots(raw, defaultDate string) (BlindSpotsResult, error) {
	var payload struct {
		BlindSpots     any `json:"blindSpots"`
		AwarenessNotes any `json:"awarenessNotes"`
	}
	if err := decodeSlice(raw, '{', &payload); err != nil {
		return BlindSpotsResult{}, err
	}
	spots, err := required(payload.BlindSpots, "blindSpots")
	if err != nil {
		return BlindSpotsResult{}, err
	}

	res := BlindSpotsResult{BlindSpots: []BlindSpot{}, AwarenessNotes: notes(optional(payload.AwarenessNotes), MaxAwarenessNotes, func(id, content string) AwarenessNote {
		return AwarenessNote{ID: id, Content: content}
	})}
	for _, item := range spots {
		if len(res.BlindSpots) == MaxBlindSpots {
			break
		}
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		title, observation, suggestion := str(obj["title"]), str(obj["observation"]), str(obj["suggestion"])
		if title == "" || observation == "" || suggestion == "" {
			continue
		}
		res.BlindSpots = append(res.BlindSpots, BlindSpot{
			ID:          itemID(obj["id"], len(res.BlindSpots)+1),
			Title:       title,
			Observation: observation,
			Suggestion:  suggestion,
			Date:        dateOr(obj["date"], defaultDate),
		})
	}
	return res, nil
}

func decodeSlice(raw string, open byte, v any) error {
	payload, err := SliceJSON(raw, open)
	if err != nil {
		return fmt.Errorf("%w: %w", internal.ErrMalformedResponse, err)
	}
	if err := json.Unmarshal([]byte(payload), v); err != nil {
		return fmt.Errorf("%w: %w", internal.ErrMalformedResponse, err)
	}
	return nil
}

// required returns the main collection of a reply. A missing key counts as
// empty; any other non-array value makes the reply malformed.
func required(v any, field string) ([]any, error) {
	if v == nil {
		return nil, nil
	}
	items, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not an array", internal.ErrMalformedResponse, field)
	}
	return items, nil
}

// optional treats a non-array value as an empty list.
func optional(v any) []any {
	items, _ := v.([]any)
	return items
}

// notes validates {id, content} items shared by growth and awareness notes.
func notes[T any](items []any, limit int, build func(id, content string) T) []T {
	out := make([]T, 0, limit)
	for _, item := range items {
		if len(out) == limit {
			break
		}
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		content := str(obj["content"])
		if content == "" {
			continue
		}
		out = append(out, build(itemID(obj["id"], len(out)+1), content))
	}
	return out
}

func str(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

func strList(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		var s string
		switch x := item.(type) {
		case string:
			s = strings.TrimSpace(x)
		case float64:
			s = strconv.FormatFloat(x, 'f', -1, 64)
		}
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// itemID keeps a string id, formats a numeric one, and otherwise falls back
// to the item's 1-based position in the result.
func itemID(v any, position int) string {
	switch x := v.(type) {
	case string:
		if s := strings.TrimSpace(x); s != "" {
			return s
		}
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	}
	return strconv.Itoa(position)
}

func dateOr(v any, fallback string) string {
	s := str(v)
	if _, err := time.Parse(window.DateLayout, s); err != nil {
		return fallback
	}
	return s
}
