package service

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/SUMMERxKx/nwHacks/internal"
	"github.com/SUMMERxKx/nwHacks/internal/storage"
	"github.com/SUMMERxKx/nwHacks/internal/window"
)

// streakLookback bounds how far back a streak is counted.
const streakLookback = 365

type Averages struct {
	Stress float64 `json:"stress"`
	Energy float64 `json:"energy"`
	Mood   float64 `json:"mood"`
	Focus  float64 `json:"focus"`
}

type DayRatings struct {
	Date    string           `json:"date"`
	Ratings internal.Ratings `json:"ratings"`
}

type CheckInStats struct {
	Window   window.Window `json:"window"`
	Count    int           `json:"count"`
	Averages Averages      `json:"averages"`
	Trend    []DayRatings  `json:"trend"`
	Streak   int           `json:"streak"`
}

func GetCheckInStats(ctx context.Context, repo storage.CheckInRepository, user *internal.User, period window.Period, now time.Time) (CheckInStats, error) {
	lookback := window.LastDays(streakLookback, now)
	w := window.Resolve(period, now)
	start := min(lookback.Start, w.Start)
	end := max(lookback.End, w.End)

	checkIns, err := repo.ListCheckIns(ctx, user.ID, start, end)
	if err != nil {
		return CheckInStats{}, err
	}
	return CalculateCheckInStats(checkIns, w, window.Today(now)), nil
}

// CalculateCheckInStats averages ratings over check-ins inside w and counts
// consecutive days with a check-in ending on today. A missing check-in today
// means a streak of zero.
func CalculateCheckInStats(checkIns []internal.CheckIn, w window.Window, today string) CheckInStats {
	stats := CheckInStats{Window: w, Trend: []DayRatings{}}
	var sum internal.Ratings
	days := make(map[string]struct{}, len(checkIns))

	for _, c := range checkIns {
		days[c.Date] = struct{}{}
		if !w.Contains(c.Date) {
			continue
		}
		stats.Count++
		sum.Stress += c.Ratings.Stress
		sum.Energy += c.Ratings.Energy
		sum.Mood += c.Ratings.Mood
		sum.Focus += c.Ratings.Focus
		stats.Trend = append(stats.Trend, DayRatings{Date: c.Date, Ratings: c.Ratings})
	}

	if stats.Count > 0 {
		n := float64(stats.Count)
		stats.Averages = Averages{
			Stress: round1(float64(sum.Stress) / n),
			Energy: round1(float64(sum.Energy) / n),
			Mood:   round1(float64(sum.Mood) / n),
			Focus:  round1(float64(sum.Focus) / n),
		}
	}
	sort.Slice(stats.Trend, func(i, j int) bool { return stats.Trend[i].Date < stats.Trend[j].Date })

	day, err := time.Parse(window.DateLayout, today)
	if err != nil {
		return stats
	}
	for i := 0; i < streakLookback; i++ {
		if _, ok := days[day.AddDate(0, 0, -i).Format(window.DateLayout)]; !ok {
			break
		}
		stats.Streak++
	}
	return stats
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
