package store

import (
	"context"
	"encoding/json"

	"github.com/GregMSThompson/widget-dashboard/internal/errs"
	"github.com/GregMSThompson/widget-dashboard/internal/models"
	"github.com/GregMSThompson/widget-dashboard/pkg/logger"
)

// WidgetStore serializes the whole widget collection into a single slot key.
type WidgetStore struct {
	slot Slot
	key  string
}

func NewWidgetStore(slot Slot, key string) *WidgetStore {
	if key == "" {
		key = DefaultKey
	}
	return &WidgetStore{slot: slot, key: key}
}

func (s *WidgetStore) Key() string { return s.key }

// Load returns the stored collection. Absent, unreadable or malformed state
// all yield ok=false so the caller can fall back to its defaults.
func (s *WidgetStore) Load(ctx context.Context) ([]models.Widget, bool) {
	log := logger.FromContext(ctx)

	data, ok, err := s.slot.Read(ctx, s.key)
	if err != nil {
		log.Warn("failed to read widget state", "key", s.key, "error", err)
		return nil, false
	}
	if !ok || len(data) == 0 {
		return nil, false
	}

	var widgets []models.Widget
	if err := json.Unmarshal(data, &widgets); err != nil {
		log.Warn("stored widget state is malformed", "key", s.key, "error", err)
		return nil, false
	}
	if widgets == nil {
		// "null" is as good as nothing stored
		return nil, false
	}
	return widgets, true
}

// Save replaces the stored collection with widgets.
func (s *WidgetStore) Save(ctx context.Context, widgets []models.Widget) error {
	if widgets == nil {
		widgets = []models.Widget{}
	}
	data, err := json.Marshal(widgets)
	if err != nil {
		return errs.NewPersistenceError("encode", "failed to encode widget state", err)
	}
	if err := s.slot.Write(ctx, s.key, data); err != nil {
		return errs.NewPersistenceError("write", "failed to write widget state", err)
	}
	return nil
}
