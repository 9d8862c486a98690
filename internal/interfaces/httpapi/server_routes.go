package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /{$}", handler.Liveness)
	mux.HandleFunc("GET /healthz", handler.Liveness)
	mux.HandleFunc("GET /static/images/{filename...}", handler.ServeImage)
}

func registerLeagueRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /api/league/{code}/visualizations", handler.GetLeagueVisualizations)
	mux.HandleFunc("GET /api/league/{code}/aggregates", handler.GetLeagueAggregates)
}

func registerIngestionRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /api/ingestion/runs", handler.ListIngestionRuns)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /api/internal/ingestion/run", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunIngestionJob)))
}
