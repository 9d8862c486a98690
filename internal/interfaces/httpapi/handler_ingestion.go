package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/league-insights/internal/domain/ingestion"
	"github.com/riskibarqy/league-insights/internal/usecase"
)

type ingestionRunDTO struct {
	ID           string    `json:"id"`
	LeagueCode   string    `json:"league"`
	BlobKey      string    `json:"key"`
	Status       string    `json:"status"`
	ErrorMessage string    `json:"error,omitempty"`
	PayloadBytes int       `json:"payload_bytes"`
	MatchCount   int       `json:"match_count"`
	StartedAt    time.Time `json:"started_at"`
	FinishedAt   time.Time `json:"finished_at"`
	DurationMs   int64     `json:"duration_ms"`
}

type ingestionSummaryDTO struct {
	StartedAt    time.Time         `json:"started_at"`
	FinishedAt   time.Time         `json:"finished_at"`
	SuccessCount int               `json:"success_count"`
	FailedCount  int               `json:"failed_count"`
	Runs         []ingestionRunDTO `json:"runs"`
}

func (h *Handler) ListIngestionRuns(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListIngestionRuns")
	defer span.End()

	if h.ingestionService == nil {
		writeError(ctx, w, fmt.Errorf("%w: ingestion is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	league := strings.TrimSpace(r.URL.Query().Get("league"))
	limit := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(ctx, w, fmt.Errorf("%w: limit must be an integer", usecase.ErrInvalidInput))
			return
		}
		limit = parsed
	}

	runs, err := h.ingestionService.ListRuns(ctx, league, limit)
	if err != nil {
		h.logger.ErrorContext(ctx, "list ingestion runs failed", "league", league, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, map[string]any{"runs": toIngestionRunDTOs(runs)})
}

// RunIngestionJob runs the ingestion job synchronously. The run is detached
// from the request so a dropped client does not abort half the leagues.
func (h *Handler) RunIngestionJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunIngestionJob")
	defer span.End()

	if h.ingestionService == nil {
		writeError(ctx, w, fmt.Errorf("%w: ingestion is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	summary, err := h.ingestionService.Run(context.WithoutCancel(ctx))
	if err != nil {
		h.logger.ErrorContext(ctx, "run ingestion job failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, ingestionSummaryDTO{
		StartedAt:    summary.StartedAt,
		FinishedAt:   summary.FinishedAt,
		SuccessCount: summary.SuccessCount,
		FailedCount:  summary.FailedCount,
		Runs:         toIngestionRunDTOs(summary.Runs),
	})
}

func toIngestionRunDTOs(runs []ingestion.Run) []ingestionRunDTO {
	out := make([]ingestionRunDTO, 0, len(runs))
	for _, run := range runs {
		out = append(out, ingestionRunDTO{
			ID:           run.ID,
			LeagueCode:   run.LeagueCode,
			BlobKey:      run.BlobKey,
			Status:       run.Status,
			ErrorMessage: run.ErrorMessage,
			PayloadBytes: run.PayloadBytes,
			MatchCount:   run.MatchCount,
			StartedAt:    run.StartedAt,
			FinishedAt:   run.FinishedAt,
			DurationMs:   run.Duration().Milliseconds(),
		})
	}
	return out
}
