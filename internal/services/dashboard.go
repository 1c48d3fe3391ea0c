package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/GregMSThompson/widget-dashboard/internal/dto"
	"github.com/GregMSThompson/widget-dashboard/internal/errs"
	"github.com/GregMSThompson/widget-dashboard/internal/form"
	"github.com/GregMSThompson/widget-dashboard/internal/models"
	"github.com/GregMSThompson/widget-dashboard/internal/views"
	"github.com/GregMSThompson/widget-dashboard/pkg/logger"
)

// widgetState is the state manager contract used by dashboardService.
type widgetState interface {
	All() []models.Widget
	Get(id int) (models.Widget, bool)
	ReplaceAll(ctx context.Context, widgets []models.Widget)
	Add(ctx context.Context, w models.Widget)
	Remove(ctx context.Context, id int)
	Update(ctx context.Context, id int, patch models.WidgetPatch)
	Move(ctx context.Context, from, to int)
}

type dashboardService struct {
	state   widgetState
	session *Session
	now     func() time.Time

	// serialises read-compute-write sequences such as ID assignment
	mu sync.Mutex
}

func NewDashboardService(state widgetState, session *Session) *dashboardService {
	return &dashboardService{state: state, session: session, now: time.Now}
}

// --- Public service methods ---

// GetDashboard returns the visible widgets for q, applied without debounce.
func (s *dashboardService) GetDashboard(ctx context.Context, q string) []models.Widget {
	return views.Filter(s.state.All(), q)
}

// VisibleWidgets applies the session's debounced filter text.
func (s *dashboardService) VisibleWidgets(ctx context.Context) []models.Widget {
	return views.Filter(s.state.All(), s.session.Filter())
}

func (s *dashboardService) Search(ctx context.Context, req dto.SearchRequest) {
	s.session.Search(req.Query)
}

func (s *dashboardService) Highlighted(ctx context.Context) dto.HighlightResponse {
	id, ok := s.session.Highlighted()
	if !ok {
		return dto.HighlightResponse{}
	}
	return dto.HighlightResponse{WidgetID: &id}
}

func (s *dashboardService) ReplaceWidgets(ctx context.Context, widgets []models.Widget) error {
	seen := make(map[int]struct{}, len(widgets))
	for _, w := range widgets {
		if w.ID <= 0 {
			return errs.NewValidationError(fmt.Sprintf("widget id must be positive, got %d", w.ID))
		}
		if !w.Type.Valid() {
			return errs.NewValidationError("unknown widget type: " + string(w.Type))
		}
		if _, dup := seen[w.ID]; dup {
			return errs.NewAlreadyExistsError(fmt.Sprintf("duplicate widget id=%d", w.ID))
		}
		seen[w.ID] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.ReplaceAll(ctx, widgets)
	logger.FromContext(ctx).Info("widgets replaced", "count", len(widgets))
	return nil
}

func (s *dashboardService) CreateWidget(ctx context.Context, req dto.WidgetFormRequest) (models.Widget, error) {
	st, err := req.ToState()
	if err != nil {
		return models.Widget{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	w, err := form.Commit(st, s.state.All())
	if err != nil {
		return models.Widget{}, err
	}
	s.state.Add(ctx, w)
	logger.FromContext(ctx).Info("widget created", "widgetId", w.ID, "type", w.Type)
	return w, nil
}

func (s *dashboardService) EditWidget(ctx context.Context, id int, req dto.WidgetFormRequest) (models.Widget, error) {
	st, err := req.ToState()
	if err != nil {
		return models.Widget{}, err
	}
	st.EditID = &id

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.state.Get(id); !ok {
		return models.Widget{}, widgetNotFound(id)
	}
	w, err := form.Commit(st, s.state.All())
	if err != nil {
		return models.Widget{}, err
	}
	s.state.Update(ctx, id, models.PatchFrom(w))

	updated, _ := s.state.Get(id)
	logger.FromContext(ctx).Info("widget updated", "widgetId", id)
	return updated, nil
}

// DeleteWidget is a no-op for an unknown id.
func (s *dashboardService) DeleteWidget(ctx context.Context, id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Remove(ctx, id)
}

func (s *dashboardService) ReorderWidgets(ctx context.Context, req dto.ReorderWidgetsRequest) error {
	if req.From < 0 || req.To < 0 {
		return errs.NewValidationError("reorder positions must not be negative")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Move(ctx, req.From, req.To)
	return nil
}

// GetWidgetCard resolves the card's chart data from the stream when it is
// the highlighted card, else from the load subscription, else from the
// widget itself, and renders it.
func (s *dashboardService) GetWidgetCard(ctx context.Context, id int) (dto.WidgetCardResponse, error) {
	w, ok := s.state.Get(id)
	if !ok {
		return dto.WidgetCardResponse{}, widgetNotFound(id)
	}

	log := logger.FromContext(ctx)
	hid, has := s.session.Highlighted()
	highlighted := has && hid == id

	data, source := w.ChartData, dto.CardSourceWidget
	if highlighted {
		if sw, err := views.Stream(s.state, id); err == nil {
			data, source = sw.ChartData, dto.CardSourceStream
		}
	} else if loaded, err := s.session.Subscription().Load(ctx); err != nil {
		log.Debug("load subscription unavailable", "widgetId", id, "error", err)
	} else if lw, found := findWidget(loaded, id); found {
		data, source = lw.ChartData, dto.CardSourceLoad
	}

	now := s.now()
	view, err := views.Render(w.Type, data, now)
	if err != nil {
		return dto.WidgetCardResponse{}, err
	}
	return dto.WidgetCardResponse{
		Widget:      w,
		View:        view,
		Highlighted: highlighted,
		Source:      source,
		LastUpdated: now,
	}, nil
}

func (s *dashboardService) StreamWidget(ctx context.Context, id int) (models.Widget, error) {
	return views.Stream(s.state, id)
}

func (s *dashboardService) EditForm(ctx context.Context, id int) (dto.FormStateResponse, error) {
	st, err := form.InitFromExisting(s.state.All(), id)
	if err != nil {
		return dto.FormStateResponse{}, err
	}
	return dto.NewFormStateResponse(st), nil
}

func (s *dashboardService) BlankForm(ctx context.Context) dto.FormStateResponse {
	return dto.NewFormStateResponse(form.InitBlank())
}

func (s *dashboardService) WidgetTypes(ctx context.Context, q string) []models.WidgetType {
	return form.SuggestTypes(q)
}

// --- Helpers ---

func findWidget(widgets []models.Widget, id int) (models.Widget, bool) {
	for _, w := range widgets {
		if w.ID == id {
			return w, true
		}
	}
	return models.Widget{}, false
}

func widgetNotFound(id int) error {
	return errs.NewNotFoundError(fmt.Sprintf("widget with id=%d not found", id))
}
