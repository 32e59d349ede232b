package insight

// Kind names an insight type in logs and descriptors.
type Kind string

const (
	KindChat       Kind = "chat"
	KindPatterns   Kind = "patterns"
	KindWins       Kind = "wins"
	KindBlindSpots Kind = "blind-spots"
)

// MemorySnapshot is a compact summary of recent check-ins. It is rebuilt on
// every request and never stored.
type MemorySnapshot struct {
	CommonStressors  []string `json:"commonStressors"`
	RestoresEnergy   []string `json:"restoresEnergy"`
	PeakProductivity string   `json:"peakProductivity"`
	RecentWins       []string `json:"recentWins"`
}

type ChatReply struct {
	Content string `json:"content"`
}

type Confidence string

const (
	ConfidenceLow    Confidence = "Low"
	ConfidenceMedium Confidence = "Medium"
	ConfidenceHigh   Confidence = "High"
)

func (c Confidence) Valid() bool {
	switch c {
	case ConfidenceLow, ConfidenceMedium, ConfidenceHigh:
		return true
	}
	return false
}

type PatternInsight struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Meaning    string     `json:"meaning"`
	Evidence   []string   `json:"evidence"`
	Experiment string     `json:"experiment"`
	Confidence Confidence `json:"confidence"`
}

type Win struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Evidence string `json:"evidence"`
	Date     string `json:"date"`
}

type GrowthNote struct {
	ID      string `json:"id"`
	Content string `json:"content"`
}

type WinsResult struct {
	Wins        []Win        `json:"wins"`
	GrowthNotes []GrowthNote `json:"growthNotes"`
}

type BlindSpot struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Observation string `json:"observation"`
	Suggestion  string `json:"suggestion"`
	Date        string `json:"date"`
}

type AwarenessNote struct {
	ID      string `json:"id"`
	Content string `json:"content"`
}

type BlindSpotsResult struct {
	BlindSpots     []BlindSpot     `json:"blindSpots"`
	AwarenessNotes []AwarenessNote `json:"awarenessNotes"`
}

// Item-count bounds applied after validation.
const (
	MaxPatterns       = 3
	MaxWins           = 5
	MaxGrowthNotes    = 4
	MaxBlindSpots     = 4
	MaxAwarenessNotes = 3

	// MinPatternCheckIns is the fewest check-ins worth sending for pattern analysis.
	MinPatternCheckIns = 3
)
