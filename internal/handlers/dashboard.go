package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/widget-dashboard/internal/dto"
	"github.com/GregMSThompson/widget-dashboard/internal/errs"
	"github.com/GregMSThompson/widget-dashboard/internal/models"
	"github.com/GregMSThompson/widget-dashboard/internal/response"
)

type DashboardService interface {
	GetDashboard(ctx context.Context, q string) []models.Widget
	VisibleWidgets(ctx context.Context) []models.Widget
	Search(ctx context.Context, req dto.SearchRequest)
	Highlighted(ctx context.Context) dto.HighlightResponse
	ReplaceWidgets(ctx context.Context, widgets []models.Widget) error
	CreateWidget(ctx context.Context, req dto.WidgetFormRequest) (models.Widget, error)
	EditWidget(ctx context.Context, id int, req dto.WidgetFormRequest) (models.Widget, error)
	DeleteWidget(ctx context.Context, id int)
	ReorderWidgets(ctx context.Context, req dto.ReorderWidgetsRequest) error
	GetWidgetCard(ctx context.Context, id int) (dto.WidgetCardResponse, error)
	StreamWidget(ctx context.Context, id int) (models.Widget, error)
	EditForm(ctx context.Context, id int) (dto.FormStateResponse, error)
	BlankForm(ctx context.Context) dto.FormStateResponse
	WidgetTypes(ctx context.Context, q string) []models.WidgetType
}

type dashboardHandlers struct {
	ResponseHandler response.ResponseHandler
	DashboardSvc    DashboardService
}

func NewDashboardHandlers(deps *Deps) *dashboardHandlers {
	return &dashboardHandlers{
		ResponseHandler: deps.ResponseHandler,
		DashboardSvc:    deps.DashboardSvc,
	}
}

func (h *dashboardHandlers) DashboardRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.GetDashboard)
	r.Get("/visible", h.VisibleWidgets)
	r.Post("/search", h.Search)
	r.Get("/highlight", h.Highlighted)
	r.Get("/form", h.BlankForm)
	r.Get("/widget-types", h.GetWidgetTypes)
	r.Put("/widgets", h.ReplaceWidgets)
	r.Post("/widgets", h.CreateWidget)
	r.Put("/widgets/reorder", h.ReorderWidgets) // must be before /{widgetId}
	r.Put("/widgets/{widgetId}", h.EditWidget)
	r.Delete("/widgets/{widgetId}", h.DeleteWidget)
	r.Get("/widgets/{widgetId}", h.GetWidgetCard)
	r.Get("/widgets/{widgetId}/stream", h.StreamWidget)
	r.Get("/widgets/{widgetId}/form", h.EditForm)
	return r
}

func (h *dashboardHandlers) GetDashboard(w http.ResponseWriter, r *http.Request) {
	widgets := h.DashboardSvc.GetDashboard(r.Context(), r.URL.Query().Get("q"))
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, widgets)
}

func (h *dashboardHandlers) VisibleWidgets(w http.ResponseWriter, r *http.Request) {
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, h.DashboardSvc.VisibleWidgets(r.Context()))
}

func (h *dashboardHandlers) Search(w http.ResponseWriter, r *http.Request) {
	var req dto.SearchRequest
	if err := decode(r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.DashboardSvc.Search(r.Context(), req)
	h.ResponseHandler.WriteSuccess(w, r, http.StatusAccepted, nil)
}

func (h *dashboardHandlers) Highlighted(w http.ResponseWriter, r *http.Request) {
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, h.DashboardSvc.Highlighted(r.Context()))
}

func (h *dashboardHandlers) ReplaceWidgets(w http.ResponseWriter, r *http.Request) {
	var widgets []models.Widget
	if err := decode(r, &widgets); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	if err := h.DashboardSvc.ReplaceWidgets(r.Context(), widgets); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}

func (h *dashboardHandlers) CreateWidget(w http.ResponseWriter, r *http.Request) {
	var req dto.WidgetFormRequest
	if err := decode(r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	widget, err := h.DashboardSvc.CreateWidget(r.Context(), req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusCreated, widget)
}

func (h *dashboardHandlers) EditWidget(w http.ResponseWriter, r *http.Request) {
	id, err := widgetID(r)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	var req dto.WidgetFormRequest
	if err := decode(r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	widget, err := h.DashboardSvc.EditWidget(r.Context(), id, req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, widget)
}

func (h *dashboardHandlers) ReorderWidgets(w http.ResponseWriter, r *http.Request) {
	var req dto.ReorderWidgetsRequest
	if err := decode(r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	if err := h.DashboardSvc.ReorderWidgets(r.Context(), req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}

func (h *dashboardHandlers) DeleteWidget(w http.ResponseWriter, r *http.Request) {
	id, err := widgetID(r)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.DashboardSvc.DeleteWidget(r.Context(), id)
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}

func (h *dashboardHandlers) GetWidgetCard(w http.ResponseWriter, r *http.Request) {
	id, err := widgetID(r)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	card, err := h.DashboardSvc.GetWidgetCard(r.Context(), id)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, card)
}

func (h *dashboardHandlers) StreamWidget(w http.ResponseWriter, r *http.Request) {
	id, err := widgetID(r)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	widget, err := h.DashboardSvc.StreamWidget(r.Context(), id)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, widget)
}

func (h *dashboardHandlers) EditForm(w http.ResponseWriter, r *http.Request) {
	id, err := widgetID(r)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	st, err := h.DashboardSvc.EditForm(r.Context(), id)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, st)
}

func (h *dashboardHandlers) BlankForm(w http.ResponseWriter, r *http.Request) {
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, h.DashboardSvc.BlankForm(r.Context()))
}

// GetWidgetTypes returns the widget types matching q, for the form's type autocomplete.
func (h *dashboardHandlers) GetWidgetTypes(w http.ResponseWriter, r *http.Request) {
	types := h.DashboardSvc.WidgetTypes(r.Context(), r.URL.Query().Get("q"))
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, types)
}

// --- Helpers ---

func widgetID(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "widgetId")
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errs.NewValidationError(fmt.Sprintf("invalid widget id %q", raw))
	}
	return id, nil
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errs.NewValidationError("invalid request body: " + err.Error())
	}
	return nil
}
