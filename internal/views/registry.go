package views

import (
	"time"

	"github.com/GregMSThompson/widget-dashboard/internal/errs"
	"github.com/GregMSThompson/widget-dashboard/internal/models"
)

// ChartView is the render input for one card; exactly one of the option
// fields is set, matching Type.
type ChartView struct {
	Type     models.WidgetType `json:"type"`
	Progress *ProgressView     `json:"progress,omitempty"`
	Pie      *PieOptions       `json:"pie,omitempty"`
	Timeline *TimelineOptions  `json:"timeline,omitempty"`
}

type renderer func(cd *models.ChartData, now time.Time) ChartView

var renderers = map[models.WidgetType]renderer{
	models.WidgetTypeProgress: func(cd *models.ChartData, _ time.Time) ChartView {
		v := Progress(cd)
		return ChartView{Type: models.WidgetTypeProgress, Progress: &v}
	},
	models.WidgetTypeStatistics: func(cd *models.ChartData, _ time.Time) ChartView {
		v := Pie(cd)
		return ChartView{Type: models.WidgetTypeStatistics, Pie: &v}
	},
	models.WidgetTypeTimeline: func(cd *models.ChartData, now time.Time) ChartView {
		v := Timeline(cd, now)
		return ChartView{Type: models.WidgetTypeTimeline, Timeline: &v}
	},
}

// Render looks up the renderer for t and derives its chart options.
func Render(t models.WidgetType, cd *models.ChartData, now time.Time) (ChartView, error) {
	r, ok := renderers[t]
	if !ok {
		return ChartView{}, errs.NewValidationError("unknown widget type: " + string(t))
	}
	return r(cd, now), nil
}
