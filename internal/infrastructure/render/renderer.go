package render

import (
	"context"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/league-insights/internal/domain/analytics"
	"github.com/riskibarqy/league-insights/internal/platform/logging"
	"github.com/sourcegraph/conc/panics"
	"github.com/valyala/bytebufferpool"
)

// File names served under the static image route. They are shared by every
// league; each render replaces the previous set.
const (
	FilePieChart     = "piechart.png"
	FileGoalMatchday = "goal_matchday.png"
	FileGoalPerTeam  = "goal_perteam.png"
	FileHomeVsAway   = "HomevsAway.png"
	FileTimeOfDay    = "MorningvsEvening.png"
	FileHeatmap      = "heatmap.png"
)

const defaultURLPrefix = "/static/images"

type Config struct {
	Dir       string
	URLPrefix string
	Logger    *logging.Logger
}

// Input is everything one render pass needs.
type Input struct {
	LeagueCode      string
	CompetitionName string
	Report          analytics.Report
}

type chartFunc func(w io.Writer, in Input) error

type chartSpec struct {
	file string
	draw chartFunc
}

// Renderer writes the six league charts as PNG files into one directory.
type Renderer struct {
	dir       string
	urlPrefix string
	logger    *logging.Logger
	charts    []chartSpec

	mu sync.Mutex
}

func New(cfg Config) (*Renderer, error) {
	dir := strings.TrimSpace(cfg.Dir)
	if dir == "" {
		return nil, errors.New("image directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "create image directory %s", dir)
	}

	prefix := strings.TrimRight(strings.TrimSpace(cfg.URLPrefix), "/")
	if prefix == "" {
		prefix = defaultURLPrefix
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	return &Renderer{
		dir:       dir,
		urlPrefix: prefix,
		logger:    logger,
		charts: []chartSpec{
			{file: FilePieChart, draw: drawOutcomePie},
			{file: FileGoalMatchday, draw: drawGoalsPerMatchday},
			{file: FileGoalPerTeam, draw: drawGoalsPerTeam},
			{file: FileHomeVsAway, draw: drawWinRateLines},
			{file: FileTimeOfDay, draw: drawTimeOfDayBars},
			{file: FileHeatmap, draw: drawDayHourHeatmap},
		},
	}, nil
}

func (r *Renderer) Dir() string { return r.dir }

// Render draws every chart and returns their URL paths in a fixed order.
// The first failing chart aborts the pass.
func (r *Renderer) Render(ctx context.Context, in Input) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]string, 0, len(r.charts))
	for _, chart := range r.charts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := r.renderOne(chart, in); err != nil {
			return nil, errors.Wrapf(err, "render %s league=%s", chart.file, in.LeagueCode)
		}
		r.logger.DebugContext(ctx, "chart saved", "league", in.LeagueCode, "file", chart.file)
		out = append(out, path.Join(r.urlPrefix, chart.file))
	}
	return out, nil
}

// RenderCharts is Render for callers that hold the parts of an Input.
func (r *Renderer) RenderCharts(ctx context.Context, leagueCode, competition string, report analytics.Report) ([]string, error) {
	return r.Render(ctx, Input{LeagueCode: leagueCode, CompetitionName: competition, Report: report})
}

func (r *Renderer) renderOne(chart chartSpec, in Input) error {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	var drawErr error
	if recovered := panics.Try(func() { drawErr = chart.draw(buf, in) }); recovered != nil {
		return recovered.AsError()
	}
	if drawErr != nil {
		return drawErr
	}

	return writeFileAtomic(filepath.Join(r.dir, chart.file), buf.B)
}

func writeFileAtomic(target string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(target), "."+filepath.Base(target)+".*.tmp")
	if err != nil {
		return errors.Wrap(err, "create temp image")
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return errors.Wrap(err, "write temp image")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "close temp image")
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return errors.Wrap(err, "chmod temp image")
	}
	if err := os.Rename(tmpName, target); err != nil {
		return errors.Wrap(err, "replace image")
	}
	return nil
}

func chartTitle(base string, in Input) string {
	switch {
	case in.CompetitionName != "":
		return base + " (" + in.CompetitionName + ")"
	case in.LeagueCode != "":
		return base + " (" + in.LeagueCode + ")"
	default:
		return base
	}
}
