package ingestion

import "time"

const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// Run records one league fetch attempt of the ingestion job.
type Run struct {
	ID           string
	LeagueCode   string
	BlobKey      string
	Status       string
	ErrorMessage string
	PayloadBytes int
	MatchCount   int
	StartedAt    time.Time
	FinishedAt   time.Time
}

func (r Run) Duration() time.Duration {
	if r.FinishedAt.Before(r.StartedAt) {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Summary aggregates one trigger of the job across leagues.
type Summary struct {
	StartedAt    time.Time
	FinishedAt   time.Time
	SuccessCount int
	FailedCount  int
	Runs         []Run
}
