package analytics

import (
	"sort"

	"github.com/riskibarqy/league-insights/internal/domain/match"
)

// StandingRow is one team's line in the league table.
type StandingRow struct {
	Team           string `json:"team"`
	Points         int    `json:"total_points"`
	GoalsScored    int    `json:"total_goals_scored"`
	GoalsConceded  int    `json:"total_goals_conceded"`
	GoalDifference int    `json:"goal_difference"`
	Played         int    `json:"played"`
	Won            int    `json:"won"`
	Drawn          int    `json:"drawn"`
	Lost           int    `json:"lost"`
}

type standingAccumulator struct {
	row StandingRow
}

func (a *standingAccumulator) add(points, scored, conceded, diff int, played bool) {
	a.row.Points += points
	a.row.GoalsScored += scored
	a.row.GoalsConceded += conceded
	a.row.GoalDifference += diff
	if !played {
		return
	}
	a.row.Played++
	switch points {
	case 3:
		a.row.Won++
	case 1:
		a.row.Drawn++
	default:
		a.row.Lost++
	}
}

// Standings folds the collection into one row per team that appears home or
// away, ordered by points then goal difference (both descending). Remaining
// ties are ordered by team name so the table is stable between requests.
func Standings(matches []match.Match) []StandingRow {
	byTeam := make(map[string]*standingAccumulator)
	accumulator := func(team string) *standingAccumulator {
		acc, ok := byTeam[team]
		if !ok {
			acc = &standingAccumulator{row: StandingRow{Team: team}}
			byTeam[team] = acc
		}
		return acc
	}

	for _, m := range matches {
		played := m.Played()
		accumulator(m.HomeTeam).add(m.HomePoints(), m.HomeScore(), m.AwayScore(), m.HomeGoalDifference(), played)
		accumulator(m.AwayTeam).add(m.AwayPoints(), m.AwayScore(), m.HomeScore(), m.AwayGoalDifference(), played)
	}

	out := make([]StandingRow, 0, len(byTeam))
	for _, acc := range byTeam {
		out = append(out, acc.row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Points != out[j].Points {
			return out[i].Points > out[j].Points
		}
		if out[i].GoalDifference != out[j].GoalDifference {
			return out[i].GoalDifference > out[j].GoalDifference
		}
		return out[i].Team < out[j].Team
	})

	return out
}
