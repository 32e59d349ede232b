package internal

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/google/uuid"
)

const (
	PromptProud     = "proud"
	PromptStressed  = "stressed"
	PromptChallenge = "challenge"
	PromptGrateful  = "grateful"
	PromptIntention = "intention"

	defaultCustomQuestion = "Journal"
)

// StandardPromptIDs is the canonical order of the built-in prompts.
var StandardPromptIDs = []string{PromptProud, PromptStressed, PromptChallenge, PromptGrateful, PromptIntention}

var defaultQuestions = map[string]string{
	PromptProud:     "What are you proud of today?",
	PromptStressed:  "Did you feel stressed? Why?",
	PromptChallenge: "What was the biggest challenge?",
	PromptGrateful:  "One thing you're grateful for",
	PromptIntention: "One intention for tomorrow",
}

type PromptResponse struct {
	ID       string `json:"id"`
	Question string `json:"question" validate:"max=140"`
	Answer   string `json:"answer" validate:"max=4000"`
}

func IsStandardPrompt(id string) bool {
	_, ok := defaultQuestions[id]
	return ok
}

func DefaultQuestion(id string) string {
	if q, ok := defaultQuestions[id]; ok {
		return q
	}
	return defaultCustomQuestion
}

// Prompts is always held in canonical form. On the wire and on disk it may
// arrive either as a list of {id, question, answer} or as the legacy object
// keyed by prompt id; both decode through NormalizePrompts.
type Prompts []PromptResponse

func (p *Prompts) UnmarshalJSON(data []byte) error {
	normalized, err := NormalizePrompts(data)
	if err != nil {
		return err
	}
	*p = normalized
	return nil
}

type rawPrompt struct {
	ID       any `json:"id"`
	Question any `json:"question"`
	Answer   any `json:"answer"`
}

// NormalizePrompts converts either prompt shape into the canonical list: the
// standard prompts in StandardPromptIDs order, then custom prompts in their
// original order. Unknown or null input yields the empty standard set.
func NormalizePrompts(data []byte) (Prompts, error) {
	trimmed := bytes.TrimSpace(data)
	switch {
	case len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")):
		return fromAnswers(nil, nil), nil
	case trimmed[0] == '[':
		var items []rawPrompt
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, err
		}
		return fromList(items), nil
	case trimmed[0] == '{':
		var legacy map[string]any
		if err := json.Unmarshal(trimmed, &legacy); err != nil {
			return nil, err
		}
		answers := make(map[string]string, len(legacy))
		for id, v := range legacy {
			if s, ok := v.(string); ok {
				answers[id] = s
			}
		}
		return fromAnswers(answers, nil), nil
	default:
		return fromAnswers(nil, nil), nil
	}
}

func fromList(items []rawPrompt) Prompts {
	answers := make(map[string]string)
	questions := make(map[string]string)
	var custom Prompts
	seen := make(map[string]bool)

	for _, item := range items {
		id := strings.TrimSpace(asString(item.ID))
		if id == "" {
			id = "custom-" + uuid.NewString()[:8]
		}
		if seen[id] {
			continue
		}
		seen[id] = true

		question := strings.TrimSpace(asString(item.Question))
		answer := asString(item.Answer)
		if IsStandardPrompt(id) {
			answers[id] = answer
			if question != "" {
				questions[id] = question
			}
			continue
		}
		if question == "" {
			question = defaultCustomQuestion
		}
		custom = append(custom, PromptResponse{ID: id, Question: question, Answer: answer})
	}
	return append(fromAnswers(answers, questions), custom...)
}

func fromAnswers(answers, questions map[string]string) Prompts {
	out := make(Prompts, 0, len(StandardPromptIDs))
	for _, id := range StandardPromptIDs {
		q := questions[id]
		if q == "" {
			q = defaultQuestions[id]
		}
		out = append(out, PromptResponse{ID: id, Question: q, Answer: answers[id]})
	}
	return out
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}
