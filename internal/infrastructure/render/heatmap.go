package render

import (
	"io"
	"strconv"

	"github.com/riskibarqy/league-insights/internal/domain/analytics"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// heatmapGrid adapts analytics.Heatmap to plotter.GridXYZ. Rows are flipped
// so the first weekday is drawn at the top.
type heatmapGrid struct {
	h analytics.Heatmap
}

func (g heatmapGrid) Dims() (c, r int) { return len(g.h.Hours), len(g.h.Days) }

func (g heatmapGrid) Z(c, r int) float64 {
	return float64(g.h.Counts[len(g.h.Days)-1-r][c])
}

func (g heatmapGrid) X(c int) float64 { return float64(c) }
func (g heatmapGrid) Y(r int) float64 { return float64(r) }

func drawDayHourHeatmap(w io.Writer, in Input) error {
	p := newPlot(chartTitle("Heatmap of Matches by Day and Time", in), "Hour of Day", "Day of Week")
	p.Legend.Top = false

	grid := heatmapGrid{h: in.Report.Heatmap}
	cols, rows := grid.Dims()
	if cols == 0 || rows == 0 {
		return writePNG(w, p, 14*vg.Inch, 6*vg.Inch)
	}

	heat := plotter.NewHeatMap(grid, palette.Heat(12, 1))
	heat.Min = 0
	heat.Max = float64(grid.h.Max())
	if heat.Max <= heat.Min {
		heat.Max = heat.Min + 1
	}
	p.Add(heat)

	var cells plotter.XYLabels
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			count := grid.Z(c, r)
			if count == 0 {
				continue
			}
			cells.XYs = append(cells.XYs, plotter.XY{X: grid.X(c), Y: grid.Y(r)})
			cells.Labels = append(cells.Labels, strconv.Itoa(int(count)))
		}
	}
	if len(cells.Labels) > 0 {
		labels, err := plotter.NewLabels(cells)
		if err != nil {
			return err
		}
		for i := range labels.TextStyle {
			labels.TextStyle[i].XAlign = draw.XCenter
			labels.TextStyle[i].YAlign = draw.YCenter
		}
		p.Add(labels)
	}

	hours := make([]string, cols)
	for c, hour := range grid.h.Hours {
		hours[c] = strconv.Itoa(hour)
	}
	days := make([]string, rows)
	for r := range days {
		days[r] = grid.h.Days[rows-1-r]
	}
	p.NominalX(hours...)
	p.NominalY(days...)

	return writePNG(w, p, 14*vg.Inch, 6*vg.Inch)
}
