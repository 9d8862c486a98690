package httpapi

import (
	"net/http"
)

func (h *Handler) GetLeagueVisualizations(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLeagueVisualizations")
	defer span.End()

	code := r.PathValue("code")
	result, err := h.insightService.Visualizations(ctx, code)
	if err != nil {
		h.logger.ErrorContext(ctx, "get league visualizations failed", "league", code, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, result)
}

func (h *Handler) GetLeagueAggregates(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLeagueAggregates")
	defer span.End()

	code := r.PathValue("code")
	result, err := h.insightService.Aggregates(ctx, code)
	if err != nil {
		h.logger.ErrorContext(ctx, "get league aggregates failed", "league", code, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, result)
}
