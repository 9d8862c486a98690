package analytics

import "github.com/riskibarqy/league-insights/internal/domain/match"

// Report bundles every derived view of one match collection.
type Report struct {
	Outcomes          []OutcomeCount    `json:"outcomes"`
	GoalsPerMatchday  []MatchdayGoals   `json:"goals_per_matchday"`
	GoalsPerTeam      []TeamGoals       `json:"goals_per_team"`
	WinRateByMatchday []MatchdayWinRate `json:"win_rate_by_matchday"`
	TimeOfDay         []TimeOfDayCount  `json:"time_of_day"`
	Heatmap           Heatmap           `json:"heatmap"`
	Standings         []StandingRow     `json:"standings"`
}

func Compute(matches []match.Match) Report {
	return Report{
		Outcomes:          OutcomeDistribution(matches),
		GoalsPerMatchday:  GoalsPerMatchday(matches),
		GoalsPerTeam:      GoalsPerTeam(matches),
		WinRateByMatchday: WinRateByMatchday(matches),
		TimeOfDay:         TimeOfDayDistribution(matches),
		Heatmap:           DayHourHeatmap(matches),
		Standings:         Standings(matches),
	}
}
