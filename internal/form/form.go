// Package form backs the create/edit widget dialog: it loads a widget into
// editable fields, validates them and turns them back into a Widget with the
// right ID and Order.
package form

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/GregMSThompson/widget-dashboard/internal/errs"
	"github.com/GregMSThompson/widget-dashboard/internal/models"
	"github.com/GregMSThompson/widget-dashboard/pkg/helpers"
)

// State holds the editable fields. EditID is nil while creating.
type State struct {
	EditID         *int
	Name           string
	ProjectName    string
	Type           models.WidgetType
	TasksCompleted float64
	TasksTotal     float64
	StartDate      *time.Time
	EndDate        *time.Time
}

func (s State) Editing() bool { return s.EditID != nil }

// ActionLabel is the caption of the dialog's submit button.
func (s State) ActionLabel() string {
	if s.Editing() {
		return "Save"
	}
	return "Create"
}

func InitBlank() State {
	return State{}
}

// InitFromExisting loads widget id from widgets for editing. Dates are only
// carried over when both ends of the range are set.
func InitFromExisting(widgets []models.Widget, id int) (State, error) {
	for _, w := range widgets {
		if w.ID != id {
			continue
		}
		st := State{
			EditID:      &id,
			Name:        w.NameOrEmpty(),
			ProjectName: helpers.Value(w.ProjectName),
			Type:        w.Type,
		}
		if cd := w.ChartData; cd != nil {
			st.TasksCompleted = helpers.Value(cd.TasksCompleted)
			st.TasksTotal = helpers.Value(cd.TasksTotal)
			start, okStart := parseStored(cd.StartDate)
			end, okEnd := parseStored(cd.EndDate)
			if okStart && okEnd {
				st.StartDate, st.EndDate = &start, &end
			}
		}
		return st, nil
	}
	return State{}, errs.NewNotFoundError(fmt.Sprintf("widget with id=%d not found", id))
}

// Result reports per-field problems keyed by field name.
type Result struct {
	Valid       bool              `json:"valid"`
	FieldErrors map[string]string `json:"fieldErrors,omitempty"`
}

func Validate(s State) Result {
	fields := map[string]string{}
	if strings.TrimSpace(s.Name) == "" {
		fields["name"] = "name is required"
	}
	if strings.TrimSpace(s.ProjectName) == "" {
		fields["projectName"] = "projectName is required"
	}
	if !s.Type.Valid() {
		fields["type"] = "type must be one of: progress, statistics, timeline"
	}
	if !finite(s.TasksCompleted) || s.TasksCompleted < 0 {
		fields["tasksCompleted"] = "tasksCompleted must be at least 0"
	}
	if !finite(s.TasksTotal) || s.TasksTotal < 1 {
		fields["tasksTotal"] = "tasksTotal must be at least 1"
	}
	if len(fields) == 0 {
		return Result{Valid: true}
	}
	return Result{FieldErrors: fields}
}

// finite rejects NaN and ±Inf, which cannot be stored as JSON.
func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Commit builds the widget to store. New widgets get the next free ID and
// Order; edited widgets keep theirs.
func Commit(s State, existing []models.Widget) (models.Widget, error) {
	if res := Validate(s); !res.Valid {
		return models.Widget{}, errs.NewFieldValidationError("widget form is invalid", res.FieldErrors)
	}

	var id, order int
	if s.Editing() {
		id = *s.EditID
		order = existingOrder(existing, id)
	} else {
		id = NextID(existing)
		order = NextOrder(existing)
	}

	name := strings.TrimSpace(s.Name)
	project := strings.TrimSpace(s.ProjectName)
	completed, total := s.TasksCompleted, s.TasksTotal
	return models.Widget{
		ID:          id,
		Order:       order,
		Name:        &name,
		ProjectName: &project,
		Type:        s.Type,
		ChartData: &models.ChartData{
			TasksCompleted: &completed,
			TasksTotal:     &total,
			StartDate:      models.FormatDay(s.StartDate),
			EndDate:        models.FormatDay(s.EndDate),
		},
	}, nil
}

// NextID is one past the largest ID, or 1 for an empty collection.
func NextID(widgets []models.Widget) int {
	if len(widgets) == 0 {
		return 1
	}
	highest := widgets[0].ID
	for _, w := range widgets[1:] {
		if w.ID > highest {
			highest = w.ID
		}
	}
	return highest + 1
}

// NextOrder is one past the largest Order, or 0 for an empty collection.
func NextOrder(widgets []models.Widget) int {
	if len(widgets) == 0 {
		return 0
	}
	highest := widgets[0].Order
	for _, w := range widgets[1:] {
		if w.Order > highest {
			highest = w.Order
		}
	}
	return highest + 1
}

func existingOrder(widgets []models.Widget, id int) int {
	for _, w := range widgets {
		if w.ID == id {
			return w.Order
		}
	}
	return 0
}

// SuggestTypes backs the type autocomplete.
func SuggestTypes(query string) []models.WidgetType {
	q := strings.ToLower(query)
	out := make([]models.WidgetType, 0, len(models.WidgetTypes))
	for _, t := range models.WidgetTypes {
		if strings.Contains(string(t), q) {
			out = append(out, t)
		}
	}
	return out
}

func parseStored(s *string) (time.Time, bool) {
	if s == nil {
		return time.Time{}, false
	}
	return models.ParseDay(*s)
}
