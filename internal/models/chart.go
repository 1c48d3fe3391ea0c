package models

import (
	"encoding/json"
	"fmt"
)

// ChartData is the raw series a widget renders. Task counts are pointers so
// that "missing" and "zero" stay distinguishable; a non-numeric value found in
// storage is left in Extra and the field stays nil.
type ChartData struct {
	TasksCompleted *float64
	TasksTotal     *float64
	StartDate      *string
	EndDate        *string
	Extra          map[string]json.RawMessage
}

func (c ChartData) MarshalJSON() ([]byte, error) {
	out := cloneRaw(c.Extra)
	if out == nil {
		out = make(map[string]json.RawMessage, 4)
	}
	if c.TasksCompleted != nil {
		if err := putField(out, "tasksCompleted", *c.TasksCompleted); err != nil {
			return nil, err
		}
	}
	if c.TasksTotal != nil {
		if err := putField(out, "tasksTotal", *c.TasksTotal); err != nil {
			return nil, err
		}
	}
	for key, v := range map[string]*string{"startDate": c.StartDate, "endDate": c.EndDate} {
		if v == nil {
			if _, kept := out[key]; kept {
				continue
			}
		}
		if err := putField(out, key, v); err != nil {
			return nil, err
		}
	}
	return json.Marshal(out)
}

func (c *ChartData) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		return fmt.Errorf("chartData: expected object")
	}

	var out ChartData
	out.TasksCompleted = takeLenient[float64](raw, "tasksCompleted")
	out.TasksTotal = takeLenient[float64](raw, "tasksTotal")
	out.StartDate = takeLenient[string](raw, "startDate")
	out.EndDate = takeLenient[string](raw, "endDate")
	if len(raw) > 0 {
		out.Extra = raw
	}
	*c = out
	return nil
}

func (c ChartData) Clone() ChartData {
	return ChartData{
		TasksCompleted: clonePtr(c.TasksCompleted),
		TasksTotal:     clonePtr(c.TasksTotal),
		StartDate:      clonePtr(c.StartDate),
		EndDate:        clonePtr(c.EndDate),
		Extra:          cloneRaw(c.Extra),
	}
}

// HasCounts reports whether both task counts are present and numeric.
func (c *ChartData) HasCounts() bool {
	return c != nil && c.TasksCompleted != nil && c.TasksTotal != nil
}
