package match

import (
	"errors"
	"fmt"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
)

var (
	ErrMissingMatches = errors.New("snapshot has no matches field")
	ErrInvalidRecord  = errors.New("invalid match record")
)

var recordValidator = validator.New()

type rawSnapshot struct {
	Competition *rawCompetition `json:"competition"`
	Matches     *[]rawMatch     `json:"matches"`
}

type rawCompetition struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type rawMatch struct {
	ID       int64    `json:"id"`
	UTCDate  string   `json:"utcDate" validate:"required"`
	Status   string   `json:"status"`
	Matchday *int     `json:"matchday" validate:"required,gt=0"`
	HomeTeam rawTeam  `json:"homeTeam"`
	AwayTeam rawTeam  `json:"awayTeam"`
	Score    rawScore `json:"score"`
}

type rawTeam struct {
	Name      string `json:"name"`
	ShortName string `json:"shortName"`
	TLA       string `json:"tla"`
}

type rawScore struct {
	Winner   *string  `json:"winner" validate:"omitempty,oneof=HOME_TEAM AWAY_TEAM DRAW"`
	FullTime rawGoals `json:"fullTime"`
}

type rawGoals struct {
	Home *int `json:"home" validate:"omitempty,gte=0"`
	Away *int `json:"away" validate:"omitempty,gte=0"`
}

// ParseSnapshot decodes an upstream match document into typed records.
// A document without a matches field yields ErrMissingMatches; any record
// that fails validation aborts the parse with ErrInvalidRecord.
func ParseSnapshot(raw []byte) (Snapshot, error) {
	var doc rawSnapshot
	if err := sonic.Unmarshal(raw, &doc); err != nil {
		return Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	if doc.Matches == nil {
		return Snapshot{}, ErrMissingMatches
	}

	out := Snapshot{Matches: make([]Match, 0, len(*doc.Matches))}
	if doc.Competition != nil {
		out.Competition = Competition{
			Code: strings.TrimSpace(doc.Competition.Code),
			Name: strings.TrimSpace(doc.Competition.Name),
		}
	}

	for idx, item := range *doc.Matches {
		m, err := item.toMatch()
		if err != nil {
			return Snapshot{}, fmt.Errorf("match index=%d id=%d: %w", idx, item.ID, err)
		}
		out.Matches = append(out.Matches, m)
	}

	return out, nil
}

func (r rawMatch) toMatch() (Match, error) {
	if err := recordValidator.Struct(r); err != nil {
		return Match{}, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}

	kickoff, err := time.Parse(time.RFC3339, strings.TrimSpace(r.UTCDate))
	if err != nil {
		return Match{}, fmt.Errorf("%w: utcDate %q: %v", ErrInvalidRecord, r.UTCDate, err)
	}

	home := r.HomeTeam.displayName()
	away := r.AwayTeam.displayName()
	if home == "" || away == "" {
		return Match{}, fmt.Errorf("%w: home and away team names are required", ErrInvalidRecord)
	}

	out := Match{
		ID:        r.ID,
		Matchday:  *r.Matchday,
		Status:    strings.ToUpper(strings.TrimSpace(r.Status)),
		HomeTeam:  home,
		AwayTeam:  away,
		KickoffAt: kickoff.UTC(),
		HomeGoals: r.Score.FullTime.Home,
		AwayGoals: r.Score.FullTime.Away,
	}
	if r.Score.Winner != nil {
		out.Winner = Winner(*r.Score.Winner)
	}

	return out, nil
}

func (t rawTeam) displayName() string {
	for _, candidate := range []string{t.ShortName, t.Name, t.TLA} {
		if name := strings.TrimSpace(candidate); name != "" {
			return name
		}
	}
	return ""
}
