package render

import (
	"fmt"
	"image/color"
	"io"
	"strconv"

	"github.com/riskibarqy/league-insights/internal/domain/match"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

var (
	colorHome    = color.RGBA{R: 0x4C, G: 0xAF, B: 0x50, A: 0xFF}
	colorAway    = color.RGBA{R: 0xFF, G: 0x63, B: 0x47, A: 0xFF}
	colorNeutral = color.RGBA{R: 0x87, G: 0xCE, B: 0xEB, A: 0xFF}
	gridColor    = color.Gray{Y: 0xC8}
)

var outcomeLabels = map[match.Winner]string{
	match.WinnerHome: "Home Win",
	match.WinnerAway: "Away Win",
	match.WinnerDraw: "Draw",
}

var outcomeFills = map[match.Winner]drawing.Color{
	match.WinnerHome: drawing.ColorFromHex("4CAF50"),
	match.WinnerAway: drawing.ColorFromHex("FF6347"),
	match.WinnerDraw: drawing.ColorFromHex("87CEEB"),
}

func drawOutcomePie(w io.Writer, in Input) error {
	total := 0
	for _, item := range in.Report.Outcomes {
		total += item.Count
	}

	values := make([]chart.Value, 0, len(in.Report.Outcomes))
	for _, item := range in.Report.Outcomes {
		if item.Count == 0 {
			continue
		}
		share := float64(item.Count) * 100 / float64(total)
		values = append(values, chart.Value{
			Value: float64(item.Count),
			Label: fmt.Sprintf("%s %.1f%%", outcomeLabels[item.Outcome], share),
			Style: chart.Style{FillColor: outcomeFills[item.Outcome]},
		})
	}
	if len(values) == 0 {
		// go-chart refuses a pie without a positive slice.
		values = append(values, chart.Value{
			Value: 1,
			Label: "No results yet",
			Style: chart.Style{FillColor: drawing.ColorFromHex("D3D3D3")},
		})
	}

	pie := chart.PieChart{
		Title:      chartTitle("Match Outcomes Distribution", in),
		TitleStyle: chart.Style{FontSize: 16},
		Width:      800,
		Height:     800,
		Values:     values,
	}
	return pie.Render(chart.PNG, w)
}

func drawGoalsPerMatchday(w io.Writer, in Input) error {
	p := newPlot(chartTitle("Goals Scored per Matchday", in), "Matchday", "Goals")
	p.Y.Min = 0

	rows := in.Report.GoalsPerMatchday
	if len(rows) > 0 {
		home := make(plotter.Values, len(rows))
		away := make(plotter.Values, len(rows))
		labels := make([]string, len(rows))
		for i, row := range rows {
			home[i] = float64(row.HomeGoals)
			away[i] = float64(row.AwayGoals)
			labels[i] = strconv.Itoa(row.Matchday)
		}

		homeBars, err := plotter.NewBarChart(home, vg.Points(10))
		if err != nil {
			return err
		}
		homeBars.Color = colorHome
		homeBars.LineStyle.Width = 0

		awayBars, err := plotter.NewBarChart(away, vg.Points(10))
		if err != nil {
			return err
		}
		awayBars.Color = colorAway
		awayBars.LineStyle.Width = 0
		awayBars.StackOn(homeBars)

		p.Add(homeBars, awayBars)
		p.Legend.Add("Home Goals", homeBars)
		p.Legend.Add("Away Goals", awayBars)
		p.NominalX(labels...)
	}

	return writePNG(w, p, 12*vg.Inch, 6*vg.Inch)
}

func drawGoalsPerTeam(w io.Writer, in Input) error {
	p := newPlot(chartTitle("Total Goals Scored by Each Team", in), "Total Goals", "Team")
	p.X.Min = 0
	p.Add(newGrid())

	rows := in.Report.GoalsPerTeam
	height := 6 * vg.Inch
	if len(rows) > 0 {
		goals := make(plotter.Values, len(rows))
		labels := make([]string, len(rows))
		for i, row := range rows {
			goals[i] = float64(row.Goals)
			labels[i] = row.Team
		}

		bars, err := plotter.NewBarChart(goals, vg.Points(14))
		if err != nil {
			return err
		}
		bars.Horizontal = true
		bars.Color = colorNeutral
		bars.LineStyle.Width = 0

		p.Add(bars)
		p.NominalY(labels...)
		if h := vg.Length(len(rows)) * vg.Points(26); h > height {
			height = h
		}
	}

	return writePNG(w, p, 10*vg.Inch, height)
}

func drawWinRateLines(w io.Writer, in Input) error {
	p := newPlot(chartTitle("Home vs Away Winning Percentage by Matchday", in), "Matchday", "Winning Percentage (%)")
	p.Y.Min = 0
	p.Y.Max = 100
	p.Add(newGrid())

	rows := in.Report.WinRateByMatchday
	if len(rows) > 0 {
		home := make(plotter.XYs, len(rows))
		away := make(plotter.XYs, len(rows))
		for i, row := range rows {
			home[i] = plotter.XY{X: float64(row.Matchday), Y: row.HomeWinRate}
			away[i] = plotter.XY{X: float64(row.Matchday), Y: row.AwayWinRate}
		}

		for _, series := range []struct {
			name   string
			points plotter.XYs
			color  color.Color
		}{
			{"Home Win Rate", home, colorHome},
			{"Away Win Rate", away, colorAway},
		} {
			line, scatter, err := plotter.NewLinePoints(series.points)
			if err != nil {
				return err
			}
			line.Color = series.color
			line.Width = vg.Points(2)
			scatter.Color = series.color
			scatter.Shape = draw.CircleGlyph{}
			p.Add(line, scatter)
			p.Legend.Add(series.name, line, scatter)
		}
	}

	return writePNG(w, p, 12*vg.Inch, 6*vg.Inch)
}

func drawTimeOfDayBars(w io.Writer, in Input) error {
	p := newPlot(chartTitle("Distribution of Matches by Time of Day", in), "Time of Day", "Number of Matches")
	p.Y.Min = 0
	p.Add(newGrid())

	rows := in.Report.TimeOfDay
	if len(rows) > 0 {
		counts := make(plotter.Values, len(rows))
		labels := make([]string, len(rows))
		for i, row := range rows {
			counts[i] = float64(row.Count)
			labels[i] = string(row.Bucket)
		}

		bars, err := plotter.NewBarChart(counts, vg.Points(60))
		if err != nil {
			return err
		}
		bars.Color = colorNeutral
		bars.LineStyle.Color = color.Black

		p.Add(bars)
		p.NominalX(labels...)
	}

	return writePNG(w, p, 8*vg.Inch, 6*vg.Inch)
}

func newPlot(title, xLabel, yLabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(16)
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	p.Legend.Top = true
	return p
}

func newGrid() *plotter.Grid {
	grid := plotter.NewGrid()
	grid.Vertical.Color = gridColor
	grid.Horizontal.Color = gridColor
	return grid
}

func writePNG(w io.Writer, p *plot.Plot, width, height vg.Length) error {
	wt, err := p.WriterTo(width, height, "png")
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}
