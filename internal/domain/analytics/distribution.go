package analytics

import (
	"sort"
	"time"

	"github.com/riskibarqy/league-insights/internal/domain/match"
)

type OutcomeCount struct {
	Outcome match.Winner `json:"outcome"`
	Count   int          `json:"count"`
}

type MatchdayGoals struct {
	Matchday  int `json:"matchday"`
	HomeGoals int `json:"home_goals"`
	AwayGoals int `json:"away_goals"`
}

type TeamGoals struct {
	Team  string `json:"team"`
	Goals int    `json:"goals"`
}

type MatchdayWinRate struct {
	Matchday    int     `json:"matchday"`
	Matches     int     `json:"matches"`
	HomeWinRate float64 `json:"home_win_rate"`
	AwayWinRate float64 `json:"away_win_rate"`
}

type TimeOfDay string

const (
	Morning   TimeOfDay = "Morning"
	Afternoon TimeOfDay = "Afternoon"
	Evening   TimeOfDay = "Evening"
)

var timeOfDayBuckets = []TimeOfDay{Morning, Afternoon, Evening}

type TimeOfDayCount struct {
	Bucket TimeOfDay `json:"bucket"`
	Count  int       `json:"count"`
}

// OutcomeDistribution counts matches per winner category. Matches without
// a winner are not counted.
func OutcomeDistribution(matches []match.Match) []OutcomeCount {
	counts := make(map[match.Winner]int, len(match.Outcomes))
	for _, m := range matches {
		counts[m.Winner]++
	}

	out := make([]OutcomeCount, 0, len(match.Outcomes))
	for _, outcome := range match.Outcomes {
		out = append(out, OutcomeCount{Outcome: outcome, Count: counts[outcome]})
	}
	return out
}

func GoalsPerMatchday(matches []match.Match) []MatchdayGoals {
	byMatchday := make(map[int]*MatchdayGoals)
	for _, m := range matches {
		row, ok := byMatchday[m.Matchday]
		if !ok {
			row = &MatchdayGoals{Matchday: m.Matchday}
			byMatchday[m.Matchday] = row
		}
		row.HomeGoals += m.HomeScore()
		row.AwayGoals += m.AwayScore()
	}

	out := make([]MatchdayGoals, 0, len(byMatchday))
	for _, row := range byMatchday {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Matchday < out[j].Matchday })
	return out
}

// GoalsPerTeam sums goals scored by each team home and away, ascending by total.
func GoalsPerTeam(matches []match.Match) []TeamGoals {
	totals := make(map[string]int)
	for _, m := range matches {
		totals[m.HomeTeam] += m.HomeScore()
		totals[m.AwayTeam] += m.AwayScore()
	}

	out := make([]TeamGoals, 0, len(totals))
	for team, goals := range totals {
		out = append(out, TeamGoals{Team: team, Goals: goals})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Goals != out[j].Goals {
			return out[i].Goals < out[j].Goals
		}
		return out[i].Team < out[j].Team
	})
	return out
}

// WinRateByMatchday reports home and away win percentages over every
// fixture of a matchday, played or not.
func WinRateByMatchday(matches []match.Match) []MatchdayWinRate {
	type tally struct{ total, home, away int }
	byMatchday := make(map[int]*tally)
	for _, m := range matches {
		t, ok := byMatchday[m.Matchday]
		if !ok {
			t = &tally{}
			byMatchday[m.Matchday] = t
		}
		t.total++
		switch m.Winner {
		case match.WinnerHome:
			t.home++
		case match.WinnerAway:
			t.away++
		}
	}

	out := make([]MatchdayWinRate, 0, len(byMatchday))
	for matchday, t := range byMatchday {
		out = append(out, MatchdayWinRate{
			Matchday:    matchday,
			Matches:     t.total,
			HomeWinRate: percentage(t.home, t.total),
			AwayWinRate: percentage(t.away, t.total),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Matchday < out[j].Matchday })
	return out
}

func TimeOfDayDistribution(matches []match.Match) []TimeOfDayCount {
	counts := make(map[TimeOfDay]int, len(timeOfDayBuckets))
	for _, m := range matches {
		counts[BucketFor(m.KickoffAt)]++
	}

	out := make([]TimeOfDayCount, 0, len(timeOfDayBuckets))
	for _, bucket := range timeOfDayBuckets {
		out = append(out, TimeOfDayCount{Bucket: bucket, Count: counts[bucket]})
	}
	return out
}

// BucketFor maps a kickoff to Morning [0,12), Afternoon [12,18) or Evening [18,24) by UTC hour.
func BucketFor(kickoff time.Time) TimeOfDay {
	hour := kickoff.UTC().Hour()
	switch {
	case hour < 12:
		return Morning
	case hour < 18:
		return Afternoon
	default:
		return Evening
	}
}

func percentage(part, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}
