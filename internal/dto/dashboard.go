package dto

import (
	"time"

	"github.com/GregMSThompson/widget-dashboard/internal/errs"
	"github.com/GregMSThompson/widget-dashboard/internal/form"
	"github.com/GregMSThompson/widget-dashboard/internal/models"
	"github.com/GregMSThompson/widget-dashboard/internal/views"
)

// --- Request types ---

// WidgetFormRequest is the create/edit dialog payload. Dates accept
// YYYY-MM-DD or RFC 3339; null or "" clears them.
type WidgetFormRequest struct {
	Name           string   `json:"name"`
	ProjectName    string   `json:"projectName"`
	Type           string   `json:"type"`
	TasksCompleted *float64 `json:"tasksCompleted"`
	TasksTotal     *float64 `json:"tasksTotal"`
	StartDate      *string  `json:"startDate"`
	EndDate        *string  `json:"endDate"`
}

// ToState converts the payload; numeric fields default to 0 when omitted.
func (r WidgetFormRequest) ToState() (form.State, error) {
	st := form.State{
		Name:        r.Name,
		ProjectName: r.ProjectName,
		Type:        models.WidgetType(r.Type),
	}
	if r.TasksCompleted != nil {
		st.TasksCompleted = *r.TasksCompleted
	}
	if r.TasksTotal != nil {
		st.TasksTotal = *r.TasksTotal
	}

	fields := map[string]string{}
	var ok bool
	if st.StartDate, ok = parseFormDate(r.StartDate); !ok {
		fields["startDate"] = "startDate must be YYYY-MM-DD or RFC 3339"
	}
	if st.EndDate, ok = parseFormDate(r.EndDate); !ok {
		fields["endDate"] = "endDate must be YYYY-MM-DD or RFC 3339"
	}
	if len(fields) > 0 {
		return form.State{}, errs.NewFieldValidationError("widget form is invalid", fields)
	}
	return st, nil
}

func parseFormDate(s *string) (*time.Time, bool) {
	if s == nil || *s == "" {
		return nil, true
	}
	if t, ok := models.ParseDay(*s); ok {
		return &t, true
	}
	t, err := time.Parse(time.RFC3339, *s)
	if err != nil {
		return nil, false
	}
	return &t, true
}

type ReorderWidgetsRequest struct {
	From int `json:"from"`
	To   int `json:"to"`
}

type SearchRequest struct {
	Query string `json:"query"`
}

// --- Response types ---

type FormStateResponse struct {
	ID             *int    `json:"id"`
	Name           string  `json:"name"`
	ProjectName    string  `json:"projectName"`
	Type           string  `json:"type"`
	TasksCompleted float64 `json:"tasksCompleted"`
	TasksTotal     float64 `json:"tasksTotal"`
	StartDate      *string `json:"startDate"`
	EndDate        *string `json:"endDate"`
	ActionLabel    string  `json:"actionLabel"`
}

func NewFormStateResponse(st form.State) FormStateResponse {
	return FormStateResponse{
		ID:             st.EditID,
		Name:           st.Name,
		ProjectName:    st.ProjectName,
		Type:           string(st.Type),
		TasksCompleted: st.TasksCompleted,
		TasksTotal:     st.TasksTotal,
		StartDate:      models.FormatDay(st.StartDate),
		EndDate:        models.FormatDay(st.EndDate),
		ActionLabel:    st.ActionLabel(),
	}
}

type HighlightResponse struct {
	WidgetID *int `json:"widgetId"`
}

// Card data sources, in order of preference.
const (
	CardSourceStream = "stream"
	CardSourceLoad   = "load"
	CardSourceWidget = "widget"
)

// WidgetCardResponse is everything one card needs to render.
type WidgetCardResponse struct {
	Widget      models.Widget   `json:"widget"`
	View        views.ChartView `json:"view"`
	Highlighted bool            `json:"highlighted"`
	Source      string          `json:"source"`
	LastUpdated time.Time       `json:"lastUpdated"`
}
