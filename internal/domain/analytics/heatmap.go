package analytics

import (
	"time"

	"github.com/riskibarqy/league-insights/internal/domain/match"
)

const hoursPerDay = 24

// Weekdays is the row order of the heatmap.
var Weekdays = []time.Weekday{
	time.Monday,
	time.Tuesday,
	time.Wednesday,
	time.Thursday,
	time.Friday,
	time.Saturday,
	time.Sunday,
}

// Heatmap counts kickoffs per weekday (rows, Monday first) and UTC hour (columns).
// Every cell is present; combinations without matches hold zero.
type Heatmap struct {
	Days   []string `json:"days"`
	Hours  []int    `json:"hours"`
	Counts [][]int  `json:"counts"`
}

func DayHourHeatmap(matches []match.Match) Heatmap {
	out := Heatmap{
		Days:   make([]string, len(Weekdays)),
		Hours:  make([]int, hoursPerDay),
		Counts: make([][]int, len(Weekdays)),
	}
	rowByDay := make(map[time.Weekday]int, len(Weekdays))
	for row, day := range Weekdays {
		out.Days[row] = day.String()
		out.Counts[row] = make([]int, hoursPerDay)
		rowByDay[day] = row
	}
	for hour := range out.Hours {
		out.Hours[hour] = hour
	}

	for _, m := range matches {
		kickoff := m.KickoffAt.UTC()
		out.Counts[rowByDay[kickoff.Weekday()]][kickoff.Hour()]++
	}

	return out
}

func (h Heatmap) Total() int {
	total := 0
	for _, row := range h.Counts {
		for _, count := range row {
			total += count
		}
	}
	return total
}

func (h Heatmap) Max() int {
	best := 0
	for _, row := range h.Counts {
		for _, count := range row {
			if count > best {
				best = count
			}
		}
	}
	return best
}
