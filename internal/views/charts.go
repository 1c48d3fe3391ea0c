package views

import (
	"math"
	"time"

	"github.com/GregMSThompson/widget-dashboard/internal/models"
)

const chartHeight = 200

// ProgressView drives the progress bar card.
type ProgressView struct {
	Percent int  `json:"percent"`
	HasData bool `json:"hasData"`
}

// Progress computes completed/total as a whole percentage in [0, 100]. A
// missing or zero total yields 0.
func Progress(cd *models.ChartData) ProgressView {
	view := ProgressView{HasData: cd.HasCounts()}
	if cd == nil || cd.TasksTotal == nil || *cd.TasksTotal == 0 {
		return view
	}
	completed := 0.0
	if cd.TasksCompleted != nil {
		completed = *cd.TasksCompleted
	}
	pct := math.Round(completed / *cd.TasksTotal * 100)
	if math.IsNaN(pct) {
		return view
	}
	view.Percent = int(math.Min(100, math.Max(0, pct)))
	return view
}

type PieOptions struct {
	Chart       ChartSettings `json:"chart"`
	Labels      []string      `json:"labels"`
	Series      []float64     `json:"series"`
	Colors      []string      `json:"colors"`
	Placeholder bool          `json:"placeholder"`
}

type ChartSettings struct {
	Type   string `json:"type"`
	Height int    `json:"height"`
}

// Pie splits tasks into completed and remaining. Without chart data it yields
// a neutral [1, 0] placeholder so the renderer still draws a full circle.
func Pie(cd *models.ChartData) PieOptions {
	opts := PieOptions{Chart: ChartSettings{Type: "pie", Height: chartHeight}}
	if cd == nil {
		opts.Labels = []string{"No data", ""}
		opts.Series = []float64{1, 0}
		opts.Colors = []string{"#e5e7eb", "#f9fafb"}
		opts.Placeholder = true
		return opts
	}

	completed := 0.0
	if cd.TasksCompleted != nil {
		completed = *cd.TasksCompleted
	}
	total := 1.0
	if cd.TasksTotal != nil && *cd.TasksTotal != 0 {
		total = *cd.TasksTotal
	}
	opts.Labels = []string{"Completed", "Remaining"}
	opts.Series = []float64{completed, math.Max(total-completed, 0)}
	opts.Colors = []string{"#3b82f6", "#e5e7eb"}
	return opts
}

type TimelineOptions struct {
	Chart       ChartSettings `json:"chart"`
	Series      []RangeSeries `json:"series"`
	Colors      []string      `json:"colors"`
	Placeholder bool          `json:"placeholder"`
}

type RangeSeries struct {
	Name string       `json:"name"`
	Data []RangePoint `json:"data"`
}

// RangePoint is one horizontal bar; Y holds [start, end] in Unix milliseconds.
type RangePoint struct {
	X string   `json:"x"`
	Y [2]int64 `json:"y"`
}

// Timeline renders the start..end range of the project. Missing, unparsable
// or inverted dates fall back to a single-point placeholder at now.
func Timeline(cd *models.ChartData, now time.Time) TimelineOptions {
	opts := TimelineOptions{Chart: ChartSettings{Type: "rangeBar", Height: chartHeight}}

	var start, end int64
	ok := cd != nil
	if ok {
		var okStart, okEnd bool
		start, okStart = DayTimestamp(cd.StartDate)
		end, okEnd = DayTimestamp(cd.EndDate)
		ok = okStart && okEnd && start <= end
	}
	if !ok {
		ms := now.UnixMilli()
		opts.Series = []RangeSeries{{Name: "Project period", Data: []RangePoint{{X: "No data", Y: [2]int64{ms, ms}}}}}
		opts.Colors = []string{"#e5e7eb"}
		opts.Placeholder = true
		return opts
	}
	opts.Series = []RangeSeries{{Name: "Project period", Data: []RangePoint{{X: "Project", Y: [2]int64{start, end}}}}}
	opts.Colors = []string{"#3b82f6"}
	return opts
}

// DayTimestamp converts a YYYY-MM-DD string or a time value to the Unix
// milliseconds of its UTC midnight. A time keeps its own calendar day.
func DayTimestamp(v any) (int64, bool) {
	switch d := v.(type) {
	case string:
		t, ok := models.ParseDay(d)
		if !ok {
			return 0, false
		}
		return t.UnixMilli(), true
	case *string:
		if d == nil {
			return 0, false
		}
		return DayTimestamp(*d)
	case time.Time:
		if d.IsZero() {
			return 0, false
		}
		return models.UTCMidnight(d).UnixMilli(), true
	case *time.Time:
		if d == nil {
			return 0, false
		}
		return DayTimestamp(*d)
	}
	return 0, false
}
