package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/league-insights/internal/infrastructure/blobstore/memstore"
	"github.com/riskibarqy/league-insights/internal/infrastructure/render"
	"github.com/riskibarqy/league-insights/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/league-insights/internal/platform/logging"
	"github.com/riskibarqy/league-insights/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const plSnapshot = `{
  "competition": {"code": "PL", "name": "Premier League"},
  "matches": [
    {"id": 1, "utcDate": "2024-08-17T14:00:00Z", "matchday": 1,
     "homeTeam": {"shortName": "A"}, "awayTeam": {"shortName": "B"},
     "score": {"winner": "HOME_TEAM", "fullTime": {"home": 2, "away": 1}}},
    {"id": 2, "utcDate": "2024-08-24T19:30:00Z", "matchday": 2,
     "homeTeam": {"shortName": "B"}, "awayTeam": {"shortName": "A"},
     "score": {"winner": "DRAW", "fullTime": {"home": 0, "away": 0}}}
  ]
}`

const testJobToken = "job-secret"

type staticFetcher map[string]string

func (f staticFetcher) FetchCompetitionMatches(_ context.Context, leagueCode string) ([]byte, error) {
	return []byte(f[leagueCode]), nil
}

type testServer struct {
	router http.Handler
	blobs  *memstore.Store
}

func newTestServer(t *testing.T) testServer {
	t.Helper()

	logger := logging.NewNop()
	blobs := memstore.NewStore()
	renderer, err := render.New(render.Config{Dir: filepath.Join(t.TempDir(), "images"), Logger: logger})
	require.NoError(t, err)

	insights := usecase.NewInsightService(blobs, renderer, usecase.InsightServiceConfig{}, logger)
	ingest := usecase.NewIngestionService(
		staticFetcher{"FL1": plSnapshot},
		blobs,
		memory.NewIngestionRunRepository(0),
		insights,
		nil,
		usecase.IngestionServiceConfig{Leagues: []string{"FL1"}},
		logger,
	)

	handler := NewHandler(insights, ingest, renderer.Dir(), logger)
	return testServer{
		router: NewRouter(handler, logger, []string{"*"}, testJobToken),
		blobs:  blobs,
	}
}

func (s testServer) do(t *testing.T, method, target string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	for key, values := range header {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func TestRouter_Liveness(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{"/", "/healthz"} {
		rec := srv.do(t, http.MethodGet, path, nil)
		require.Equal(t, http.StatusOK, rec.Code, path)
		assert.Equal(t, "Backend is running.", decodeBody(t, rec)["status"])
	}
	assert.Equal(t, http.StatusNotFound, srv.do(t, http.MethodGet, "/unknown", nil).Code)
}

func TestRouter_Visualizations_UsesOlderSnapshot(t *testing.T) {
	srv := newTestServer(t)
	srv.blobs.PutAt("PL_matches_20240901.json", []byte(plSnapshot), time.Date(2024, 9, 1, 2, 39, 0, 0, time.UTC))

	rec := srv.do(t, http.MethodGet, "/api/league/pl/visualizations", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		Images    []string `json:"images"`
		Standings []struct {
			Team           string `json:"team"`
			Points         int    `json:"total_points"`
			GoalsScored    int    `json:"total_goals_scored"`
			GoalsConceded  int    `json:"total_goals_conceded"`
			GoalDifference int    `json:"goal_difference"`
		} `json:"standings"`
	}
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &body))

	assert.Equal(t, []string{
		"/static/images/piechart.png",
		"/static/images/goal_matchday.png",
		"/static/images/goal_perteam.png",
		"/static/images/HomevsAway.png",
		"/static/images/MorningvsEvening.png",
		"/static/images/heatmap.png",
	}, body.Images)
	require.Len(t, body.Standings, 2)
	assert.Equal(t, "A", body.Standings[0].Team)
	assert.Equal(t, 4, body.Standings[0].Points)
	assert.Equal(t, 1, body.Standings[0].GoalDifference)
	assert.Equal(t, "B", body.Standings[1].Team)
	assert.Equal(t, -1, body.Standings[1].GoalDifference)

	image := srv.do(t, http.MethodGet, body.Images[0], nil)
	require.Equal(t, http.StatusOK, image.Code)
	assert.Equal(t, "image/png", image.Header().Get("Content-Type"))
}

func TestRouter_Visualizations_NoSnapshotIs404(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/api/league/SA/visualizations", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, decodeBody(t, rec)["error"], "no files found for league SA")
}

func TestRouter_Visualizations_MalformedIs500(t *testing.T) {
	srv := newTestServer(t)
	srv.blobs.PutAt("BL1_matches_20240901.json", []byte(`{"message":"quota exceeded"}`), time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC))

	rec := srv.do(t, http.MethodGet, "/api/league/BL1/visualizations", nil)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, internalErrorMessage, decodeBody(t, rec)["error"])
	assert.NotContains(t, rec.Body.String(), "BL1_matches_20240901.json")
}

func TestRouter_Visualizations_InvalidCodeIs400(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/api/league/P%20L/visualizations", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_Aggregates(t *testing.T) {
	srv := newTestServer(t)
	srv.blobs.PutAt("PL_matches_20240901.json", []byte(plSnapshot), time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC))

	rec := srv.do(t, http.MethodGet, "/api/league/PL/aggregates", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decodeBody(t, rec)
	assert.Equal(t, "PL", body["league"])
	assert.Equal(t, "PL_matches_20240901.json", body["snapshot_key"])
	assert.Equal(t, "2024-09-01", body["fetched_on"])
	assert.Equal(t, true, body["fallback"])
	aggregates, ok := body["aggregates"].(map[string]any)
	require.True(t, ok)
	assert.Len(t, aggregates["outcomes"], 3)
}

func TestRouter_ServeImage_Missing(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{"/static/images/piechart.png", "/static/images/nested/heatmap.png"} {
		rec := srv.do(t, http.MethodGet, path, nil)
		require.Equal(t, http.StatusNotFound, rec.Code, path)
		assert.Equal(t, "Image not found.", decodeBody(t, rec)["error"])
	}
}

func TestRouter_InternalIngestion(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPost, "/api/internal/ingestion/run", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = srv.do(t, http.MethodPost, "/api/internal/ingestion/run", http.Header{internalJobTokenHeader: {testJobToken}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	summary := decodeBody(t, rec)
	assert.EqualValues(t, 1, summary["success_count"])
	assert.EqualValues(t, 0, summary["failed_count"])

	rec = srv.do(t, http.MethodGet, "/api/ingestion/runs?league=fl1&limit=5", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	runs, ok := decodeBody(t, rec)["runs"].([]any)
	require.True(t, ok)
	require.Len(t, runs, 1)
	run := runs[0].(map[string]any)
	assert.Equal(t, "FL1", run["league"])
	assert.Equal(t, "success", run["status"])
	assert.EqualValues(t, 2, run["match_count"])

	rec = srv.do(t, http.MethodGet, "/api/league/FL1/visualizations", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = srv.do(t, http.MethodGet, "/api/ingestion/runs?limit=abc", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRequireInternalJobToken_NotConfigured(t *testing.T) {
	handler := RequireInternalJobToken("", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/internal/ingestion/run", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRecoverPanic_WritesJSONError(t *testing.T) {
	handler := recoverPanic(logging.NewNop(), http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("chart exploded")
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/league/PL/visualizations", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, internalErrorMessage, decodeBody(t, rec)["error"])
}
