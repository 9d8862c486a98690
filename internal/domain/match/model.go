package match

import "time"

// Winner is the upstream full-time result indicator.
type Winner string

const (
	WinnerHome Winner = "HOME_TEAM"
	WinnerAway Winner = "AWAY_TEAM"
	WinnerDraw Winner = "DRAW"
)

// Outcomes lists the winner categories in display order.
var Outcomes = []Winner{WinnerHome, WinnerAway, WinnerDraw}

func (w Winner) Valid() bool {
	switch w {
	case WinnerHome, WinnerAway, WinnerDraw:
		return true
	default:
		return false
	}
}

// Match represents one fixture of a league snapshot.
type Match struct {
	ID        int64
	Matchday  int
	Status    string
	HomeTeam  string
	AwayTeam  string
	KickoffAt time.Time
	HomeGoals *int
	AwayGoals *int
	Winner    Winner
}

// Competition identifies the league a snapshot belongs to.
type Competition struct {
	Code string
	Name string
}

// Snapshot is one decoded capture of a league's matches.
type Snapshot struct {
	Competition Competition
	Matches     []Match
}

// Played reports whether both full-time scores are known.
func (m Match) Played() bool {
	return m.HomeGoals != nil && m.AwayGoals != nil
}

func (m Match) HomeScore() int {
	if m.HomeGoals == nil {
		return 0
	}
	return *m.HomeGoals
}

func (m Match) AwayScore() int {
	if m.AwayGoals == nil {
		return 0
	}
	return *m.AwayGoals
}

func (m Match) HomePoints() int {
	return pointsFor(m.Winner, WinnerHome)
}

func (m Match) AwayPoints() int {
	return pointsFor(m.Winner, WinnerAway)
}

// HomeGoalDifference is home minus away goals; zero when the match is unplayed.
func (m Match) HomeGoalDifference() int {
	if !m.Played() {
		return 0
	}
	return *m.HomeGoals - *m.AwayGoals
}

// AwayGoalDifference is away minus home goals; zero when the match is unplayed.
func (m Match) AwayGoalDifference() int {
	return -m.HomeGoalDifference()
}

func pointsFor(winner, side Winner) int {
	switch winner {
	case side:
		return 3
	case WinnerDraw:
		return 1
	default:
		return 0
	}
}
