package form

import (
	"errors"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/GregMSThompson/widget-dashboard/internal/errs"
	"github.com/GregMSThompson/widget-dashboard/internal/models"
	"github.com/GregMSThompson/widget-dashboard/pkg/helpers"
)

func validState() State {
	return State{
		Name:           "  Launch  ",
		ProjectName:    "Growth",
		Type:           models.WidgetTypeTimeline,
		TasksCompleted: 2,
		TasksTotal:     8,
	}
}

func existing() []models.Widget {
	return []models.Widget{
		{ID: 3, Name: helpers.Ptr("a"), Type: models.WidgetTypeProgress, Order: 5},
		{ID: 7, Name: helpers.Ptr("b"), Type: models.WidgetTypeStatistics, Order: 3,
			ProjectName: helpers.Ptr("Ops"),
			ChartData: &models.ChartData{
				TasksCompleted: helpers.Ptr(4.0),
				TasksTotal:     helpers.Ptr(9.0),
				StartDate:      helpers.Ptr("2024-01-01"),
				EndDate:        helpers.Ptr("2024-01-10"),
			}},
	}
}

// --- ID / order generation ---

func TestNextID(t *testing.T) {
	if got := NextID(nil); got != 1 {
		t.Errorf("NextID(empty) = %d, want 1", got)
	}
	if got := NextID([]models.Widget{{ID: 7}, {ID: 2}}); got != 8 {
		t.Errorf("NextID(max 7) = %d, want 8", got)
	}
}

func TestNextOrder(t *testing.T) {
	if got := NextOrder(nil); got != 0 {
		t.Errorf("NextOrder(empty) = %d, want 0", got)
	}
	if got := NextOrder(existing()); got != 6 {
		t.Errorf("NextOrder = %d, want 6", got)
	}
}

// --- Validate ---

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*State)
		field  string
	}{
		{"blank name", func(s *State) { s.Name = "   " }, "name"},
		{"blank project", func(s *State) { s.ProjectName = "" }, "projectName"},
		{"unknown type", func(s *State) { s.Type = "gauge" }, "type"},
		{"negative completed", func(s *State) { s.TasksCompleted = -1 }, "tasksCompleted"},
		{"NaN completed", func(s *State) { s.TasksCompleted = math.NaN() }, "tasksCompleted"},
		{"zero total", func(s *State) { s.TasksTotal = 0 }, "tasksTotal"},
		{"infinite total", func(s *State) { s.TasksTotal = math.Inf(1) }, "tasksTotal"},
		{"infinite completed", func(s *State) { s.TasksCompleted = math.Inf(1) }, "tasksCompleted"},
		{"negative infinite completed", func(s *State) { s.TasksCompleted = math.Inf(-1) }, "tasksCompleted"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validState()
			tt.mutate(&s)
			res := Validate(s)
			if res.Valid {
				t.Fatal("expected invalid")
			}
			if _, ok := res.FieldErrors[tt.field]; !ok || len(res.FieldErrors) != 1 {
				t.Fatalf("field errors = %v, want only %q", res.FieldErrors, tt.field)
			}
		})
	}

	if res := Validate(validState()); !res.Valid || res.FieldErrors != nil {
		t.Fatalf("valid state rejected: %+v", res)
	}
	if res := Validate(InitBlank()); res.Valid || len(res.FieldErrors) != 4 {
		t.Fatalf("blank form should fail name, projectName, type and tasksTotal: %v", res.FieldErrors)
	}
}

// --- Commit ---

func TestCommitCreateAssignsIDAndOrder(t *testing.T) {
	s := validState()
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 10, 15, 0, 0, 0, time.UTC)
	s.StartDate, s.EndDate = &start, &end

	w, err := Commit(s, existing())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.ID != 8 || w.Order != 6 {
		t.Errorf("id/order = %d/%d, want 8/6", w.ID, w.Order)
	}
	if w.NameOrEmpty() != "Launch" {
		t.Errorf("name not trimmed: %q", w.NameOrEmpty())
	}
	want := &models.ChartData{
		TasksCompleted: helpers.Ptr(2.0),
		TasksTotal:     helpers.Ptr(8.0),
		StartDate:      helpers.Ptr("2024-01-01"),
		EndDate:        helpers.Ptr("2024-01-10"),
	}
	if !reflect.DeepEqual(w.ChartData, want) {
		t.Errorf("chartData = %+v, want %+v", w.ChartData, want)
	}
}

func TestCommitCreateOnEmptyCollection(t *testing.T) {
	w, err := Commit(validState(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.ID != 1 || w.Order != 0 {
		t.Errorf("id/order = %d/%d, want 1/0", w.ID, w.Order)
	}
	if w.ChartData.StartDate != nil || w.ChartData.EndDate != nil {
		t.Error("absent dates should stay nil")
	}
}

func TestCommitEditKeepsIDAndOrder(t *testing.T) {
	s, err := InitFromExisting(existing(), 7)
	if err != nil {
		t.Fatalf("InitFromExisting: %v", err)
	}
	s.Name = "renamed"

	w, err := Commit(s, existing())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.ID != 7 || w.Order != 3 {
		t.Errorf("id/order = %d/%d, want 7/3", w.ID, w.Order)
	}
	if w.NameOrEmpty() != "renamed" {
		t.Errorf("name = %q", w.NameOrEmpty())
	}
	if *w.ChartData.StartDate != "2024-01-01" || *w.ChartData.EndDate != "2024-01-10" {
		t.Errorf("dates changed: %v %v", *w.ChartData.StartDate, *w.ChartData.EndDate)
	}
}

func TestCommitRejectsInvalidState(t *testing.T) {
	_, err := Commit(InitBlank(), nil)
	var ve *errs.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %T: %v", err, err)
	}
	if ve.Fields["name"] == "" {
		t.Errorf("expected field error for name, got %v", ve.Fields)
	}

	s := validState()
	s.TasksTotal = math.Inf(1)
	if _, err := Commit(s, nil); !errors.As(err, &ve) || ve.Fields["tasksTotal"] == "" {
		t.Fatalf("infinite total must be rejected, got %v", err)
	}
}

// --- Init ---

func TestInitFromExisting(t *testing.T) {
	s, err := InitFromExisting(existing(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !s.Editing() || *s.EditID != 7 || s.ActionLabel() != "Save" {
		t.Errorf("edit state = %+v", s)
	}
	if s.ProjectName != "Ops" || s.TasksCompleted != 4 || s.TasksTotal != 9 {
		t.Errorf("fields = %+v", s)
	}
	if s.StartDate == nil || !s.StartDate.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("start date = %v", s.StartDate)
	}

	s, _ = InitFromExisting(existing(), 3)
	if s.TasksTotal != 0 || s.StartDate != nil || s.ProjectName != "" {
		t.Errorf("widget without chart data should load zero values, got %+v", s)
	}
}

func TestInitFromExistingDropsHalfRange(t *testing.T) {
	ws := []models.Widget{{ID: 1, ChartData: &models.ChartData{StartDate: helpers.Ptr("2024-01-01")}}}
	s, _ := InitFromExisting(ws, 1)
	if s.StartDate != nil || s.EndDate != nil {
		t.Fatalf("half range should be dropped, got %v %v", s.StartDate, s.EndDate)
	}
}

func TestInitFromExistingNotFound(t *testing.T) {
	_, err := InitFromExisting(existing(), 99)
	var nfe *errs.NotFoundError
	if !errors.As(err, &nfe) {
		t.Fatalf("expected NotFoundError, got %T: %v", err, err)
	}
}

func TestBlankActionLabel(t *testing.T) {
	if got := InitBlank().ActionLabel(); got != "Create" {
		t.Fatalf("ActionLabel = %q", got)
	}
}

func TestSuggestTypes(t *testing.T) {
	if got := SuggestTypes("T"); !reflect.DeepEqual(got, []models.WidgetType{models.WidgetTypeStatistics, models.WidgetTypeTimeline}) {
		t.Errorf("SuggestTypes(T) = %v", got)
	}
	if got := SuggestTypes(""); len(got) != 3 {
		t.Errorf("SuggestTypes(\"\") = %v", got)
	}
}
