package ingestion

import "context"

type Repository interface {
	Insert(ctx context.Context, run Run) error
	ListRecent(ctx context.Context, leagueCode string, limit int) ([]Run, error)
}
