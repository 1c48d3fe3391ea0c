package models

import (
	"encoding/json"
	"fmt"
)

type WidgetType string

const (
	WidgetTypeProgress   WidgetType = "progress"
	WidgetTypeStatistics WidgetType = "statistics"
	WidgetTypeTimeline   WidgetType = "timeline"
)

// WidgetTypes lists the supported widget types in display order.
var WidgetTypes = []WidgetType{WidgetTypeProgress, WidgetTypeStatistics, WidgetTypeTimeline}

func (t WidgetType) Valid() bool {
	switch t {
	case WidgetTypeProgress, WidgetTypeStatistics, WidgetTypeTimeline:
		return true
	}
	return false
}

// Widget is one dashboard card. Keys not modelled here are kept in Extra and
// written back unchanged.
type Widget struct {
	ID          int
	Name        *string
	ProjectName *string
	Type        WidgetType
	Order       int
	ChartData   *ChartData
	Extra       map[string]json.RawMessage
}

var widgetKeys = []string{"id", "name", "projectName", "type", "order", "chartData"}

func (w Widget) MarshalJSON() ([]byte, error) {
	out := cloneRaw(w.Extra)
	if out == nil {
		out = make(map[string]json.RawMessage, len(widgetKeys))
	}
	if err := putField(out, "id", w.ID); err != nil {
		return nil, err
	}
	if w.Name != nil {
		if err := putField(out, "name", *w.Name); err != nil {
			return nil, err
		}
	}
	if w.ProjectName != nil {
		if err := putField(out, "projectName", *w.ProjectName); err != nil {
			return nil, err
		}
	}
	if err := putField(out, "type", w.Type); err != nil {
		return nil, err
	}
	if err := putField(out, "order", w.Order); err != nil {
		return nil, err
	}
	if err := putField(out, "chartData", w.ChartData); err != nil {
		return nil, err
	}
	return json.Marshal(out)
}

func (w *Widget) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		return fmt.Errorf("widget: expected object")
	}

	var out Widget
	if err := takeField(raw, "id", &out.ID); err != nil {
		return err
	}
	if err := takeField(raw, "name", &out.Name); err != nil {
		return err
	}
	if err := takeField(raw, "projectName", &out.ProjectName); err != nil {
		return err
	}
	if err := takeField(raw, "type", &out.Type); err != nil {
		return err
	}
	if err := takeField(raw, "order", &out.Order); err != nil {
		return err
	}
	if err := takeField(raw, "chartData", &out.ChartData); err != nil {
		return err
	}
	if len(raw) > 0 {
		out.Extra = raw
	}
	*w = out
	return nil
}

// Clone returns a deep copy; snapshots handed out by the state manager never
// share memory with the canonical collection.
func (w Widget) Clone() Widget {
	out := w
	out.Name = clonePtr(w.Name)
	out.ProjectName = clonePtr(w.ProjectName)
	if w.ChartData != nil {
		cd := w.ChartData.Clone()
		out.ChartData = &cd
	}
	out.Extra = cloneRaw(w.Extra)
	return out
}

// NameOrEmpty returns the widget name or "" when it has none.
func (w Widget) NameOrEmpty() string {
	if w.Name == nil {
		return ""
	}
	return *w.Name
}

// CloneWidgets deep-copies a collection, preserving nil vs empty.
func CloneWidgets(in []Widget) []Widget {
	if in == nil {
		return nil
	}
	out := make([]Widget, len(in))
	for i, w := range in {
		out[i] = w.Clone()
	}
	return out
}

// WidgetPatch is a shallow merge onto a Widget: every non-nil field replaces
// the widget's value, Extra keys are merged one by one. ID is not patchable.
type WidgetPatch struct {
	Name        *string
	ProjectName *string
	Type        *WidgetType
	Order       *int
	ChartData   *ChartData
	Extra       map[string]json.RawMessage
}

func (w Widget) Apply(p WidgetPatch) Widget {
	out := w.Clone()
	if p.Name != nil {
		out.Name = clonePtr(p.Name)
	}
	if p.ProjectName != nil {
		out.ProjectName = clonePtr(p.ProjectName)
	}
	if p.Type != nil {
		out.Type = *p.Type
	}
	if p.Order != nil {
		out.Order = *p.Order
	}
	if p.ChartData != nil {
		cd := p.ChartData.Clone()
		out.ChartData = &cd
	}
	if len(p.Extra) > 0 {
		if out.Extra == nil {
			out.Extra = make(map[string]json.RawMessage, len(p.Extra))
		}
		for k, v := range p.Extra {
			out.Extra[k] = append(json.RawMessage(nil), v...)
		}
	}
	return out
}

// PatchFrom builds a patch that overwrites every modelled field of the target
// with the values of w.
func PatchFrom(w Widget) WidgetPatch {
	c := w.Clone()
	return WidgetPatch{
		Name:        c.Name,
		ProjectName: c.ProjectName,
		Type:        &c.Type,
		Order:       &c.Order,
		ChartData:   c.ChartData,
		Extra:       c.Extra,
	}
}
