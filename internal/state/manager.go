// Package state owns the canonical widget collection. Every mutation is
// written through to a single persistence observer before the lock is
// released, so no reader or writer can observe a half-applied change.
package state

import (
	"context"
	"sort"
	"sync"

	"github.com/GregMSThompson/widget-dashboard/internal/models"
	"github.com/GregMSThompson/widget-dashboard/pkg/logger"
)

// Persister receives a full copy of the collection after each mutation.
type Persister func(ctx context.Context, widgets []models.Widget) error

type widgetStore interface {
	Load(ctx context.Context) ([]models.Widget, bool)
	Save(ctx context.Context, widgets []models.Widget) error
}

type Manager struct {
	mu      sync.Mutex
	widgets []models.Widget
	persist Persister
}

// NewManager seeds the collection from store, or from the default dataset when
// store has nothing usable, and registers store.Save as the persistence
// observer. The seeded collection is written back once.
func NewManager(ctx context.Context, store widgetStore) *Manager {
	widgets, ok := store.Load(ctx)
	if !ok {
		logger.FromContext(ctx).Info("no stored widget state, using defaults")
		widgets = models.DefaultWidgets()
	}
	m := &Manager{widgets: models.CloneWidgets(widgets), persist: store.Save}

	m.mu.Lock()
	m.notify(ctx, "init")
	m.mu.Unlock()
	return m
}

// Observe replaces the persistence observer. A nil fn disables persistence.
func (m *Manager) Observe(fn Persister) {
	m.mu.Lock()
	m.persist = fn
	m.mu.Unlock()
}

// All returns a snapshot in insertion order; display order comes from Order.
func (m *Manager) All() []models.Widget {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := models.CloneWidgets(m.widgets)
	if out == nil {
		out = []models.Widget{}
	}
	return out
}

// Get returns a snapshot of the widget with id.
func (m *Manager) Get(id int) (models.Widget, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i := m.index(id); i >= 0 {
		return m.widgets[i].Clone(), true
	}
	return models.Widget{}, false
}

func (m *Manager) ReplaceAll(ctx context.Context, widgets []models.Widget) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.widgets = models.CloneWidgets(widgets)
	m.notify(ctx, "replace")
}

// Add appends w. The caller is responsible for a unique ID and a fitting Order.
func (m *Manager) Add(ctx context.Context, w models.Widget) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.widgets = append(m.widgets, w.Clone())
	m.notify(ctx, "add")
}

// Remove drops the first widget with id. An unknown id changes nothing but is
// still persisted like any other mutation.
func (m *Manager) Remove(ctx context.Context, id int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i := m.index(id); i >= 0 {
		next := make([]models.Widget, 0, len(m.widgets)-1)
		next = append(next, m.widgets[:i]...)
		m.widgets = append(next, m.widgets[i+1:]...)
	}
	m.notify(ctx, "remove")
}

// Update shallow-merges patch into the widget with id; unknown ids are a no-op.
func (m *Manager) Update(ctx context.Context, id int, patch models.WidgetPatch) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i := m.index(id); i >= 0 {
		m.widgets[i] = m.widgets[i].Apply(patch)
	}
	m.notify(ctx, "update")
}

// Move relocates the widget at display position from to display position to
// and renumbers every Order to its display index. Positions are clamped to the
// collection bounds.
func (m *Manager) Move(ctx context.Context, from, to int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if n := len(m.widgets); n > 0 {
		sorted := models.CloneWidgets(m.widgets)
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Order < sorted[j].Order })

		from, to = clamp(from, n), clamp(to, n)
		moved := sorted[from]
		copy(sorted[from:], sorted[from+1:])
		sorted = sorted[:n-1]
		sorted = append(sorted[:to], append([]models.Widget{moved}, sorted[to:]...)...)

		for i := range sorted {
			sorted[i].Order = i
		}
		m.widgets = sorted
	}
	m.notify(ctx, "reorder")
}

func (m *Manager) index(id int) int {
	for i := range m.widgets {
		if m.widgets[i].ID == id {
			return i
		}
	}
	return -1
}

// notify must be called with mu held. Persistence errors are logged and
// counted; the in-memory collection stays authoritative either way.
func (m *Manager) notify(ctx context.Context, op string) {
	metricMutations.WithLabelValues(op).Inc()
	metricWidgets.Set(float64(len(m.widgets)))
	if m.persist == nil {
		return
	}
	if err := m.persist(ctx, models.CloneWidgets(m.widgets)); err != nil {
		metricPersistFailures.Inc()
		logger.FromContext(ctx).Error("failed to persist widget state", "operation", op, "error", err)
	}
}

func clamp(i, n int) int {
	if i < 0 {
		return 0
	}
	if i > n-1 {
		return n - 1
	}
	return i
}
