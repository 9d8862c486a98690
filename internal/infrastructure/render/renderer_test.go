package render

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/riskibarqy/league-insights/internal/domain/analytics"
	"github.com/riskibarqy/league-insights/internal/domain/match"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func goals(v int) *int { return &v }

func sampleReport() analytics.Report {
	kickoff := time.Date(2024, 8, 17, 14, 0, 0, 0, time.UTC)
	matches := []match.Match{
		{HomeTeam: "Arsenal FC", AwayTeam: "Chelsea FC", HomeGoals: goals(2), AwayGoals: goals(1), Winner: match.WinnerHome, Matchday: 1, KickoffAt: kickoff},
		{HomeTeam: "Everton FC", AwayTeam: "Fulham FC", HomeGoals: goals(0), AwayGoals: goals(0), Winner: match.WinnerDraw, Matchday: 1, KickoffAt: kickoff.Add(5 * time.Hour)},
		{HomeTeam: "Chelsea FC", AwayTeam: "Everton FC", HomeGoals: goals(0), AwayGoals: goals(3), Winner: match.WinnerAway, Matchday: 2, KickoffAt: kickoff.Add(7*24*time.Hour - 3*time.Hour)},
		{HomeTeam: "Fulham FC", AwayTeam: "Arsenal FC", Matchday: 3, KickoffAt: kickoff.Add(14 * 24 * time.Hour)},
	}
	return analytics.Compute(matches)
}

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := New(Config{Dir: filepath.Join(t.TempDir(), "images")})
	require.NoError(t, err)
	return r
}

func TestRender_WritesAllChartsInOrder(t *testing.T) {
	r := newTestRenderer(t)

	paths, err := r.Render(context.Background(), Input{LeagueCode: "PL", CompetitionName: "Premier League", Report: sampleReport()})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"/static/images/piechart.png",
		"/static/images/goal_matchday.png",
		"/static/images/goal_perteam.png",
		"/static/images/HomevsAway.png",
		"/static/images/MorningvsEvening.png",
		"/static/images/heatmap.png",
	}, paths)

	for _, name := range []string{FilePieChart, FileGoalMatchday, FileGoalPerTeam, FileHomeVsAway, FileTimeOfDay, FileHeatmap} {
		data, err := os.ReadFile(filepath.Join(r.Dir(), name))
		require.NoError(t, err, name)
		assert.True(t, bytes.HasPrefix(data, pngMagic), "%s is not a PNG", name)
	}

	entries, err := os.ReadDir(r.Dir())
	require.NoError(t, err)
	assert.Len(t, entries, 6, "temporary files must not be left behind")
}

func TestRender_EmptyReport(t *testing.T) {
	r := newTestRenderer(t)

	paths, err := r.Render(context.Background(), Input{LeagueCode: "BL1", Report: analytics.Compute(nil)})
	require.NoError(t, err)
	assert.Len(t, paths, 6)

	data, err := os.ReadFile(filepath.Join(r.Dir(), FilePieChart))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, pngMagic))
}

func TestRender_ReplacesPreviousFiles(t *testing.T) {
	r := newTestRenderer(t)
	target := filepath.Join(r.Dir(), FileGoalPerTeam)
	require.NoError(t, os.WriteFile(target, []byte("stale"), 0o644))

	_, err := r.Render(context.Background(), Input{LeagueCode: "PL", Report: sampleReport()})
	require.NoError(t, err)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, pngMagic))
}

func TestRender_CancelledContext(t *testing.T) {
	r := newTestRenderer(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Render(ctx, Input{LeagueCode: "PL", Report: sampleReport()})
	require.ErrorIs(t, err, context.Canceled)
}

func TestNew_CustomPrefixAndValidation(t *testing.T) {
	_, err := New(Config{Dir: "  "})
	require.Error(t, err)

	r, err := New(Config{Dir: t.TempDir(), URLPrefix: "/assets/"})
	require.NoError(t, err)
	paths, err := r.Render(context.Background(), Input{Report: analytics.Compute(nil)})
	require.NoError(t, err)
	assert.Equal(t, "/assets/piechart.png", paths[0])
}

func TestChartTitle(t *testing.T) {
	assert.Equal(t, "Goals (Premier League)", chartTitle("Goals", Input{LeagueCode: "PL", CompetitionName: "Premier League"}))
	assert.Equal(t, "Goals (PL)", chartTitle("Goals", Input{LeagueCode: "PL"}))
	assert.Equal(t, "Goals", chartTitle("Goals", Input{}))
}
