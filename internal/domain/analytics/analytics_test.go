package analytics

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/riskibarqy/league-insights/internal/domain/match"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func played(home, away string, hg, ag, matchday int, kickoff time.Time) match.Match {
	winner := match.WinnerDraw
	switch {
	case hg > ag:
		winner = match.WinnerHome
	case ag > hg:
		winner = match.WinnerAway
	}
	return match.Match{
		HomeTeam:  home,
		AwayTeam:  away,
		HomeGoals: intPtr(hg),
		AwayGoals: intPtr(ag),
		Winner:    winner,
		Matchday:  matchday,
		KickoffAt: kickoff,
	}
}

func scheduled(home, away string, matchday int, kickoff time.Time) match.Match {
	return match.Match{HomeTeam: home, AwayTeam: away, Matchday: matchday, KickoffAt: kickoff}
}

var saturday = time.Date(2024, 8, 17, 14, 0, 0, 0, time.UTC)

func TestStandings_TwoMatchExample(t *testing.T) {
	t.Parallel()

	matches := []match.Match{
		played("A", "B", 2, 1, 1, saturday),
		played("B", "A", 0, 0, 2, saturday.Add(7*24*time.Hour)),
	}

	got := Standings(matches)
	require.Len(t, got, 2)

	assert.Equal(t, StandingRow{
		Team: "A", Points: 4, GoalsScored: 2, GoalsConceded: 1, GoalDifference: 1,
		Played: 2, Won: 1, Drawn: 1,
	}, got[0])
	assert.Equal(t, StandingRow{
		Team: "B", Points: 1, GoalsScored: 1, GoalsConceded: 2, GoalDifference: -1,
		Played: 2, Drawn: 1, Lost: 1,
	}, got[1])
}

func TestStandings_TieBrokenByGoalDifference(t *testing.T) {
	t.Parallel()

	matches := []match.Match{
		played("A", "B", 1, 0, 1, saturday),
		played("C", "D", 4, 0, 1, saturday),
		played("B", "C", 0, 0, 2, saturday),
		played("D", "A", 0, 0, 2, saturday),
	}

	got := Standings(matches)
	require.Len(t, got, 4)
	assert.Equal(t, "C", got[0].Team)
	assert.Equal(t, "A", got[1].Team)
	assert.Equal(t, 4, got[0].Points)
	assert.Equal(t, 4, got[1].Points)
	assert.Greater(t, got[0].GoalDifference, got[1].GoalDifference)
}

func TestStandings_UnplayedMatchesAreNeutral(t *testing.T) {
	t.Parallel()

	matches := []match.Match{
		played("A", "B", 3, 1, 1, saturday),
		scheduled("C", "A", 2, saturday),
	}

	got := Standings(matches)
	require.Len(t, got, 3)

	byTeam := make(map[string]StandingRow, len(got))
	for _, row := range got {
		byTeam[row.Team] = row
	}
	assert.Equal(t, 3, byTeam["A"].Points)
	assert.Equal(t, 1, byTeam["A"].Played)
	assert.Equal(t, StandingRow{Team: "C"}, byTeam["C"])
}

func TestStandings_Properties(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(42))
	teams := []string{"Arsenal", "Chelsea", "Everton", "Fulham", "Leeds", "Spurs"}
	matches := randomCollection(rng, teams, 120)

	homeWins, awayWins, draws := 0, 0, 0
	homePoints, awayPoints := 0, 0
	for _, m := range matches {
		switch m.Winner {
		case match.WinnerHome:
			homeWins++
		case match.WinnerAway:
			awayWins++
		case match.WinnerDraw:
			draws++
		}
		homePoints += m.HomePoints()
		awayPoints += m.AwayPoints()
	}
	if homePoints != 3*homeWins+draws {
		t.Fatalf("home points=%d, want %d", homePoints, 3*homeWins+draws)
	}
	if awayPoints != 3*awayWins+draws {
		t.Fatalf("away points=%d, want %d", awayPoints, 3*awayWins+draws)
	}

	rows := Standings(matches)
	totalPoints := 0
	for i, row := range rows {
		totalPoints += row.Points
		if row.GoalDifference != row.GoalsScored-row.GoalsConceded {
			t.Fatalf("team %s: goal difference %d != %d-%d", row.Team, row.GoalDifference, row.GoalsScored, row.GoalsConceded)
		}
		if i == 0 {
			continue
		}
		prev := rows[i-1]
		if prev.Points < row.Points || (prev.Points == row.Points && prev.GoalDifference < row.GoalDifference) {
			t.Fatalf("rows %d and %d out of order: %+v then %+v", i-1, i, prev, row)
		}
	}
	if totalPoints != homePoints+awayPoints {
		t.Fatalf("table points=%d, want %d", totalPoints, homePoints+awayPoints)
	}
}

func TestOutcomeDistribution_FixedOrderAndNullExcluded(t *testing.T) {
	t.Parallel()

	matches := []match.Match{
		played("A", "B", 1, 0, 1, saturday),
		played("C", "D", 1, 1, 1, saturday),
		played("E", "F", 0, 2, 1, saturday),
		played("B", "A", 2, 0, 2, saturday),
		scheduled("D", "C", 2, saturday),
	}

	got := OutcomeDistribution(matches)
	assert.Equal(t, []OutcomeCount{
		{Outcome: match.WinnerHome, Count: 2},
		{Outcome: match.WinnerAway, Count: 1},
		{Outcome: match.WinnerDraw, Count: 1},
	}, got)
}

func TestGoalsPerMatchday_AscendingSums(t *testing.T) {
	t.Parallel()

	matches := []match.Match{
		played("A", "B", 2, 1, 3, saturday),
		played("C", "D", 0, 4, 1, saturday),
		played("E", "F", 1, 1, 3, saturday),
		scheduled("A", "C", 5, saturday),
	}

	assert.Equal(t, []MatchdayGoals{
		{Matchday: 1, HomeGoals: 0, AwayGoals: 4},
		{Matchday: 3, HomeGoals: 3, AwayGoals: 2},
		{Matchday: 5},
	}, GoalsPerMatchday(matches))
}

func TestGoalsPerTeam_CombinesHomeAndAway(t *testing.T) {
	t.Parallel()

	matches := []match.Match{
		played("A", "B", 2, 1, 1, saturday),
		played("B", "A", 3, 1, 2, saturday),
		played("C", "A", 0, 0, 3, saturday),
	}

	assert.Equal(t, []TeamGoals{
		{Team: "C", Goals: 0},
		{Team: "A", Goals: 3},
		{Team: "B", Goals: 4},
	}, GoalsPerTeam(matches))
}

func TestWinRateByMatchday_PercentagesOverAllFixtures(t *testing.T) {
	t.Parallel()

	matches := []match.Match{
		played("A", "B", 2, 1, 1, saturday),
		played("C", "D", 0, 1, 1, saturday),
		played("E", "F", 1, 1, 1, saturday),
		played("G", "H", 3, 0, 1, saturday),
		scheduled("A", "C", 2, saturday),
	}

	got := WinRateByMatchday(matches)
	require.Len(t, got, 2)
	assert.Equal(t, MatchdayWinRate{Matchday: 1, Matches: 4, HomeWinRate: 50, AwayWinRate: 25}, got[0])
	assert.Equal(t, MatchdayWinRate{Matchday: 2, Matches: 1}, got[1])

	rng := rand.New(rand.NewSource(7))
	for _, row := range WinRateByMatchday(randomCollection(rng, []string{"A", "B", "C", "D"}, 60)) {
		for _, rate := range []float64{row.HomeWinRate, row.AwayWinRate} {
			if math.IsNaN(rate) || rate < 0 || rate > 100 {
				t.Fatalf("matchday %d: rate %v outside [0,100]", row.Matchday, rate)
			}
		}
	}
}

func TestTimeOfDayDistribution_BucketEdges(t *testing.T) {
	t.Parallel()

	day := time.Date(2024, 8, 17, 0, 0, 0, 0, time.UTC)
	matches := []match.Match{
		scheduled("A", "B", 1, day),
		scheduled("A", "B", 1, day.Add(11*time.Hour+59*time.Minute)),
		scheduled("A", "B", 1, day.Add(12*time.Hour)),
		scheduled("A", "B", 1, day.Add(17*time.Hour+30*time.Minute)),
		scheduled("A", "B", 1, day.Add(18*time.Hour)),
		scheduled("A", "B", 1, day.Add(23*time.Hour)),
		scheduled("A", "B", 1, time.Date(2024, 8, 17, 20, 0, 0, 0, time.FixedZone("CEST", 2*3600))),
	}

	assert.Equal(t, []TimeOfDayCount{
		{Bucket: Morning, Count: 2},
		{Bucket: Afternoon, Count: 2},
		{Bucket: Evening, Count: 3},
	}, TimeOfDayDistribution(matches))
}

func TestDayHourHeatmap_ZeroFilledAndSumsToCollectionSize(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(11))
	matches := randomCollection(rng, []string{"A", "B", "C", "D", "E", "F"}, 97)

	got := DayHourHeatmap(matches)
	require.Len(t, got.Days, 7)
	require.Len(t, got.Counts, 7)
	assert.Equal(t, "Monday", got.Days[0])
	assert.Equal(t, "Sunday", got.Days[6])
	for _, row := range got.Counts {
		require.Len(t, row, 24)
	}
	assert.Equal(t, len(matches), got.Total())

	empty := DayHourHeatmap(nil)
	assert.Equal(t, 0, empty.Total())
	assert.Equal(t, 0, empty.Max())
}

func TestDayHourHeatmap_PlacesKickoffInCell(t *testing.T) {
	t.Parallel()

	got := DayHourHeatmap([]match.Match{scheduled("A", "B", 1, saturday)})
	assert.Equal(t, 1, got.Counts[5][14])
	assert.Equal(t, 1, got.Max())
}

func TestCompute_EmptyCollection(t *testing.T) {
	t.Parallel()

	report := Compute(nil)
	assert.Len(t, report.Outcomes, 3)
	assert.Len(t, report.TimeOfDay, 3)
	assert.Empty(t, report.Standings)
	assert.Empty(t, report.GoalsPerMatchday)
	assert.Empty(t, report.WinRateByMatchday)
	assert.Equal(t, 0, report.Heatmap.Total())
}

func randomCollection(rng *rand.Rand, teams []string, n int) []match.Match {
	out := make([]match.Match, 0, n)
	base := time.Date(2024, 8, 16, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		home := teams[rng.Intn(len(teams))]
		away := teams[rng.Intn(len(teams))]
		for away == home {
			away = teams[rng.Intn(len(teams))]
		}
		kickoff := base.Add(time.Duration(rng.Intn(300*24)) * time.Hour)
		matchday := 1 + i/(len(teams)/2)
		if rng.Intn(5) == 0 {
			out = append(out, scheduled(home, away, matchday, kickoff))
			continue
		}
		out = append(out, played(home, away, rng.Intn(5), rng.Intn(4), matchday, kickoff))
	}
	return out
}
