package insight

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/SUMMERxKx/nwHacks/internal"
	"github.com/SUMMERxKx/nwHacks/internal/window"
)

// ChatFallback is returned whenever the chat pipeline fails after validation.
const ChatFallback = "I'm having a moment. Try again in a bit; your check-ins are saved and I'll be here."

type Tone string

const (
	ToneDirect   Tone = "direct"
	ToneBalanced Tone = "balanced"
	ToneGentle   Tone = "gentle"
)

// ParseTone maps unknown or empty values to ToneBalanced.
func ParseTone(s string) Tone {
	switch t := Tone(strings.ToLower(strings.TrimSpace(s))); t {
	case ToneDirect, ToneGentle:
		return t
	}
	return ToneBalanced
}

var toneStyle = map[Tone]string{
	ToneDirect:   "Style: direct. Get straight to the point in a few short sentences.",
	ToneBalanced: "Style: balanced. Be friendly and clear.",
	ToneGentle:   "Style: gentle. Be warm and supportive, and go slowly.",
}

const (
	chatSystem = `You are "Buddy", a reflective wellness companion. Use ONLY the provided check-ins and memory. ` +
		`Be calm, concise, and supportive. Ask reflective questions. Suggest at most ONE small experiment. ` +
		`No diagnosis. No medical or therapy advice. Do NOT invent facts or dates.`

	patternsSystem = `You analyze wellness check-ins and produce pattern insights. Evidence MUST reference the provided check-ins. ` +
		`No exaggeration. No clinical or diagnostic language. Do NOT invent facts or dates, and never return more items than asked for.`

	winsSystem = `You extract wins (effort, consistency, emotional regulation) and growth notes (positive trends) from check-ins. ` +
		`Be specific and evidence-based. No clinical or diagnostic language. Do NOT invent facts or dates, and never return more items than asked for.`

	blindSpotsSystem = `You are a thoughtful reflection analyst helping users build self-awareness. You identify potential blind spots ` +
		`(patterns, habits, or perspectives they might not notice themselves) that could be limiting their progress or causing unintended friction.

CRITICAL SAFETY RULES:
1. Use CONSTRUCTIVE, NEUTRAL, and SUPPORTIVE language only
2. NEVER include language about suicide, self-harm, hopelessness, or despair
3. NEVER use harsh judgments, blame, or negative character statements
4. Frame insights as OBSERVATIONS and POSSIBILITIES, not diagnoses or conclusions
5. Focus on ACTIONABLE, GROWTH-ORIENTED suggestions rather than problems
6. Do NOT invent facts or dates that are not in the check-ins
7. If no clear blind spots emerge, return empty arrays rather than forcing observations

Your goal is gentle awareness-building that empowers growth.`
)

var (
	patternsInstruction = fmt.Sprintf(`Return a JSON array of 1 to %d pattern objects. Each: { "id": "1", "title": "...", "meaning": "...", `+
		`"evidence": ["quote or fact from check-ins"], "experiment": "one small testable action", "confidence": "Low" or "Medium" or "High" }. `+
		`Only those confidence values. No other text.`, MaxPatterns)

	winsInstruction = fmt.Sprintf(`Return JSON: { "wins": [ { "id":"1","title":"...","evidence":"...","date":"YYYY-MM-DD" } ], `+
		`"growthNotes": [ { "id":"1","content":"..." } ] }. 1 to %d wins, 1 to %d growth notes. Dates from check-ins. No other text.`,
		MaxWins, MaxGrowthNotes)

	blindSpotsInstruction = strings.Join([]string{
		"Analyze these check-ins for potential blind spots or overlooked patterns that may be limiting progress. Look for:",
		"- Patterns in stress responses that might benefit from awareness",
		"- Energy drains that could be addressed with small adjustments",
		"- Opportunities for perspective shifts that could reduce friction",
		"- Habits or routines that might be creating unintended obstacles",
		"",
		fmt.Sprintf(`Return JSON: { "blindSpots": [ { "id":"1","title":"...","observation":"...","suggestion":"...","date":"YYYY-MM-DD" } ], `+
			`"awarenessNotes": [ { "id":"1","content":"..." } ] }. 1 to %d blind spots, 1 to %d awareness notes. Dates from check-ins. `+
			`Be gentle, constructive, and supportive. No other text.`, MaxBlindSpots, MaxAwarenessNotes),
	}, "\n")
)

func chatUser(req Request, memory MemorySnapshot, serialized string) string {
	return strings.Join([]string{
		"## Memory (about this user)",
		"commonStressors: " + strings.Join(memory.CommonStressors, "; "),
		"restoresEnergy: " + strings.Join(memory.RestoresEnergy, "; "),
		"peakProductivity: " + memory.PeakProductivity,
		"recentWins: " + strings.Join(memory.RecentWins, "; "),
		"",
		fmt.Sprintf("## Check-ins (last %d days)", contextDays(req.Period)),
		serialized,
		"",
		"## User message",
		strings.TrimSpace(req.Message),
	}, "\n")
}

// structuredUser is shared by the JSON-producing insight types.
func structuredUser(instruction string) func(Request, MemorySnapshot, string) string {
	return func(_ Request, memory MemorySnapshot, serialized string) string {
		encoded, _ := json.Marshal(memory)
		return strings.Join([]string{
			"## Memory",
			string(encoded),
			"",
			"## Check-ins",
			serialized,
			"",
			instruction,
		}, "\n")
	}
}

func contextDays(p window.Period) int {
	if p == window.Rolling7 {
		return 7
	}
	return 30
}

// Chat answers a free-text message grounded in recent check-ins.
var Chat = Descriptor[ChatReply]{
	Kind: KindChat,
	Validate: func(req Request) error {
		if strings.TrimSpace(req.Message) == "" {
			return fmt.Errorf("%w: message is required", internal.ErrInvalidArgument)
		}
		return nil
	},
	System: func(req Request) string {
		return chatSystem + "\n" + toneStyle[ParseTone(string(req.Tone))]
	},
	User: chatUser,
	Parse: func(raw string, _ window.Window) (ChatReply, error) {
		return ParseChat(raw)
	},
	Fallback: func() ChatReply { return ChatReply{Content: ChatFallback} },
}

var Patterns = Descriptor[[]PatternInsight]{
	Kind:        KindPatterns,
	MinCheckIns: MinPatternCheckIns,
	System:      func(Request) string { return patternsSystem },
	User:        structuredUser(patternsInstruction),
	Parse: func(raw string, _ window.Window) ([]PatternInsight, error) {
		return ParsePatterns(raw)
	},
	Fallback: func() []PatternInsight { return []PatternInsight{} },
}

var Wins = Descriptor[WinsResult]{
	Kind:   KindWins,
	System: func(Request) string { return winsSystem },
	User:   structuredUser(winsInstruction),
	Parse: func(raw string, w window.Window) (WinsResult, error) {
		return ParseWins(raw, w.Start)
	},
	Fallback: func() WinsResult { return WinsResult{Wins: []Win{}, GrowthNotes: []GrowthNote{}} },
}

var BlindSpots = Descriptor[BlindSpotsResult]{
	Kind:   KindBlindSpots,
	System: func(Request) string { return blindSpotsSystem },
	User:   structuredUser(blindSpotsInstruction),
	Parse: func(raw string, w window.Window) (BlindSpotsResult, error) {
		return ParseBlindSpots(raw, w.Start)
	},
	Fallback: func() BlindSpotsResult {
		return BlindSpotsResult{BlindSpots: []BlindSpot{}, AwarenessNotes: []AwarenessNote{}}
	},
}
