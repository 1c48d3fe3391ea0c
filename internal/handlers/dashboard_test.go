package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/widget-dashboard/internal/dto"
	"github.com/GregMSThompson/widget-dashboard/internal/errs"
	"github.com/GregMSThompson/widget-dashboard/internal/models"
	"github.com/GregMSThompson/widget-dashboard/internal/response"
	"github.com/GregMSThompson/widget-dashboard/pkg/helpers"
	"github.com/GregMSThompson/widget-dashboard/pkg/logger"
)

// --- Stub response handler ---

type stubResponseHandler struct {
	writeSuccessCalled bool
	writeSuccessStatus int
	writeSuccessData   any

	handleErrorCalled bool
	handleError       error
}

func (s *stubResponseHandler) WriteSuccess(w http.ResponseWriter, _ *http.Request, status int, data any) {
	s.writeSuccessCalled = true
	s.writeSuccessStatus = status
	s.writeSuccessData = data
	w.WriteHeader(status)
}

func (s *stubResponseHandler) WriteError(w http.ResponseWriter, _ *http.Request, status int, _, _ string) {
	w.WriteHeader(status)
}

func (s *stubResponseHandler) HandleError(w http.ResponseWriter, _ *http.Request, err error) {
	s.handleErrorCalled = true
	s.handleError = err
	w.WriteHeader(http.StatusInternalServerError)
}

// --- Stub service ---

type stubDashboardService struct {
	widgets     []models.Widget
	createdW    models.Widget
	createErr   error
	editErr     error
	replaceErr  error
	reorderErr  error
	card        dto.WidgetCardResponse
	cardErr     error
	streamErr   error
	formErr     error
	highlighted dto.HighlightResponse

	lastQuery      string
	lastSearch     dto.SearchRequest
	lastCreateReq  dto.WidgetFormRequest
	lastEditID     int
	lastEditReq    dto.WidgetFormRequest
	lastDeleteID   int
	lastReorderReq dto.ReorderWidgetsRequest
	lastReplaced   []models.Widget
	lastCardID     int
}

func (s *stubDashboardService) GetDashboard(_ context.Context, q string) []models.Widget {
	s.lastQuery = q
	return s.widgets
}

func (s *stubDashboardService) VisibleWidgets(context.Context) []models.Widget { return s.widgets }

func (s *stubDashboardService) Search(_ context.Context, req dto.SearchRequest) { s.lastSearch = req }

func (s *stubDashboardService) Highlighted(context.Context) dto.HighlightResponse {
	return s.highlighted
}

func (s *stubDashboardService) ReplaceWidgets(_ context.Context, widgets []models.Widget) error {
	s.lastReplaced = widgets
	return s.replaceErr
}

func (s *stubDashboardService) CreateWidget(_ context.Context, req dto.WidgetFormRequest) (models.Widget, error) {
	s.lastCreateReq = req
	return s.createdW, s.createErr
}

func (s *stubDashboardService) EditWidget(_ context.Context, id int, req dto.WidgetFormRequest) (models.Widget, error) {
	s.lastEditID = id
	s.lastEditReq = req
	return s.createdW, s.editErr
}

func (s *stubDashboardService) DeleteWidget(_ context.Context, id int) { s.lastDeleteID = id }

func (s *stubDashboardService) ReorderWidgets(_ context.Context, req dto.ReorderWidgetsRequest) error {
	s.lastReorderReq = req
	return s.reorderErr
}

func (s *stubDashboardService) GetWidgetCard(_ context.Context, id int) (dto.WidgetCardResponse, error) {
	s.lastCardID = id
	return s.card, s.cardErr
}

func (s *stubDashboardService) StreamWidget(_ context.Context, id int) (models.Widget, error) {
	return models.Widget{ID: id}, s.streamErr
}

func (s *stubDashboardService) EditForm(_ context.Context, id int) (dto.FormStateResponse, error) {
	return dto.FormStateResponse{ID: &id, ActionLabel: "Save"}, s.formErr
}

func (s *stubDashboardService) BlankForm(context.Context) dto.FormStateResponse {
	return dto.FormStateResponse{ActionLabel: "Create"}
}

func (s *stubDashboardService) WidgetTypes(_ context.Context, q string) []models.WidgetType {
	s.lastQuery = q
	return []models.WidgetType{models.WidgetTypeTimeline}
}

// withChiParam injects a chi URL parameter into the request context.
func withChiParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	ctx := context.WithValue(r.Context(), chi.RouteCtxKey, rctx)
	return r.WithContext(ctx)
}

func newHandlers(svc DashboardService) (*dashboardHandlers, *stubResponseHandler) {
	resp := &stubResponseHandler{}
	return NewDashboardHandlers(&Deps{ResponseHandler: resp, DashboardSvc: svc}), resp
}

// --- Tests ---

func TestGetDashboard_PassesQuery(t *testing.T) {
	svc := &stubDashboardService{widgets: []models.Widget{{ID: 1, Type: models.WidgetTypeProgress}}}
	h, resp := newHandlers(svc)

	req := httptest.NewRequest(http.MethodGet, "/dashboard?q=road", nil)
	h.GetDashboard(httptest.NewRecorder(), req)

	if !resp.writeSuccessCalled || resp.writeSuccessStatus != http.StatusOK {
		t.Fatalf("expected WriteSuccess with 200, got called=%v status=%d", resp.writeSuccessCalled, resp.writeSuccessStatus)
	}
	if svc.lastQuery != "road" {
		t.Fatalf("expected query road, got %q", svc.lastQuery)
	}
}

func TestSearch_Accepted(t *testing.T) {
	svc := &stubDashboardService{}
	h, resp := newHandlers(svc)

	req := httptest.NewRequest(http.MethodPost, "/dashboard/search", strings.NewReader(`{"query":"ro"}`))
	h.Search(httptest.NewRecorder(), req)

	if resp.writeSuccessStatus != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", resp.writeSuccessStatus)
	}
	if svc.lastSearch.Query != "ro" {
		t.Fatalf("unexpected search %+v", svc.lastSearch)
	}
}

func TestCreateWidget_OK(t *testing.T) {
	svc := &stubDashboardService{createdW: models.Widget{ID: 5}}
	h, resp := newHandlers(svc)

	body := `{"name":"Roadmap","projectName":"Apollo","type":"progress","tasksCompleted":1,"tasksTotal":4,"startDate":null,"endDate":null}`
	req := httptest.NewRequest(http.MethodPost, "/dashboard/widgets", strings.NewReader(body))
	h.CreateWidget(httptest.NewRecorder(), req)

	if resp.writeSuccessStatus != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.writeSuccessStatus)
	}
	if svc.lastCreateReq.Name != "Roadmap" || svc.lastCreateReq.Type != "progress" || *svc.lastCreateReq.TasksTotal != 4 {
		t.Fatalf("unexpected request forwarded: %+v", svc.lastCreateReq)
	}
}

func TestCreateWidget_BadJSON(t *testing.T) {
	svc := &stubDashboardService{}
	h, resp := newHandlers(svc)

	req := httptest.NewRequest(http.MethodPost, "/dashboard/widgets", strings.NewReader(`{`))
	h.CreateWidget(httptest.NewRecorder(), req)

	var vErr *errs.ValidationError
	if !resp.handleErrorCalled || !errors.As(resp.handleError, &vErr) {
		t.Fatalf("expected ValidationError, got %v", resp.handleError)
	}
}

func TestEditWidget_ParsesID(t *testing.T) {
	svc := &stubDashboardService{}
	h, resp := newHandlers(svc)

	req := httptest.NewRequest(http.MethodPut, "/dashboard/widgets/12", strings.NewReader(`{"name":"x"}`))
	req = withChiParam(req, "widgetId", "12")
	h.EditWidget(httptest.NewRecorder(), req)

	if !resp.writeSuccessCalled || svc.lastEditID != 12 || svc.lastEditReq.Name != "x" {
		t.Fatalf("unexpected edit call id=%d req=%+v", svc.lastEditID, svc.lastEditReq)
	}
}

func TestEditWidget_InvalidID(t *testing.T) {
	svc := &stubDashboardService{}
	h, resp := newHandlers(svc)

	req := httptest.NewRequest(http.MethodPut, "/dashboard/widgets/abc", strings.NewReader(`{}`))
	req = withChiParam(req, "widgetId", "abc")
	h.EditWidget(httptest.NewRecorder(), req)

	var vErr *errs.ValidationError
	if !errors.As(resp.handleError, &vErr) {
		t.Fatalf("expected ValidationError, got %v", resp.handleError)
	}
	if svc.lastEditID != 0 {
		t.Fatal("service must not be called with an invalid id")
	}
}

func TestDeleteWidget_OK(t *testing.T) {
	svc := &stubDashboardService{}
	h, resp := newHandlers(svc)

	req := withChiParam(httptest.NewRequest(http.MethodDelete, "/dashboard/widgets/3", nil), "widgetId", "3")
	h.DeleteWidget(httptest.NewRecorder(), req)

	if !resp.writeSuccessCalled || svc.lastDeleteID != 3 {
		t.Fatalf("expected delete of 3, got %d", svc.lastDeleteID)
	}
}

func TestReorderWidgets_Forwards(t *testing.T) {
	svc := &stubDashboardService{}
	h, _ := newHandlers(svc)

	req := httptest.NewRequest(http.MethodPut, "/dashboard/widgets/reorder", strings.NewReader(`{"from":2,"to":0}`))
	h.ReorderWidgets(httptest.NewRecorder(), req)

	if svc.lastReorderReq.From != 2 || svc.lastReorderReq.To != 0 {
		t.Fatalf("unexpected reorder request %+v", svc.lastReorderReq)
	}
}

func TestReplaceWidgets_ServiceError(t *testing.T) {
	svc := &stubDashboardService{replaceErr: errs.NewAlreadyExistsError("duplicate widget id=1")}
	h, resp := newHandlers(svc)

	body := `[{"id":1,"type":"progress","order":0,"chartData":null},{"id":1,"type":"timeline","order":1,"chartData":null}]`
	req := httptest.NewRequest(http.MethodPut, "/dashboard/widgets", strings.NewReader(body))
	h.ReplaceWidgets(httptest.NewRecorder(), req)

	if len(svc.lastReplaced) != 2 {
		t.Fatalf("expected 2 widgets decoded, got %d", len(svc.lastReplaced))
	}
	if !resp.handleErrorCalled {
		t.Fatal("expected HandleError to be called")
	}
}

func TestGetWidgetCard_NotFound(t *testing.T) {
	svc := &stubDashboardService{cardErr: errs.NewNotFoundError("widget with id=9 not found")}
	h, resp := newHandlers(svc)

	req := withChiParam(httptest.NewRequest(http.MethodGet, "/dashboard/widgets/9", nil), "widgetId", "9")
	h.GetWidgetCard(httptest.NewRecorder(), req)

	if svc.lastCardID != 9 || !resp.handleErrorCalled {
		t.Fatalf("expected not found handling, id=%d called=%v", svc.lastCardID, resp.handleErrorCalled)
	}
}

// Routes are exercised end to end with the real response handler so status
// codes and path matching are covered together.
func TestDashboardRoutes_StatusCodes(t *testing.T) {
	svc := &stubDashboardService{
		streamErr: errs.NewNotFoundError("widget with id=4 not found"),
		createErr: errs.NewFieldValidationError("widget form is invalid", map[string]string{"name": "name is required"}),
	}
	h := NewDashboardHandlers(&Deps{
		ResponseHandler: response.New(slog.New(logger.NewTestHandler(slog.LevelInfo))),
		DashboardSvc:    svc,
	})
	routes := h.DashboardRoutes()

	tests := []struct {
		method string
		path   string
		body   string
		status int
	}{
		{http.MethodGet, "/", "", http.StatusOK},
		{http.MethodGet, "/visible", "", http.StatusOK},
		{http.MethodGet, "/highlight", "", http.StatusOK},
		{http.MethodPost, "/search", `{"query":"a"}`, http.StatusAccepted},
		{http.MethodPost, "/widgets", `{}`, http.StatusBadRequest},
		{http.MethodPut, "/widgets/reorder", `{"from":0,"to":1}`, http.StatusOK},
		{http.MethodGet, "/widgets/4/stream", "", http.StatusNotFound},
		{http.MethodGet, "/widgets/4/form", "", http.StatusOK},
		{http.MethodGet, "/form", "", http.StatusOK},
		{http.MethodGet, "/widget-types?q=time", "", http.StatusOK},
		{http.MethodDelete, "/widgets/4", "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body)).WithContext(helpers.TestCtx())
			rr := httptest.NewRecorder()
			routes.ServeHTTP(rr, req)

			if rr.Code != tt.status {
				t.Fatalf("expected %d, got %d: %s", tt.status, rr.Code, rr.Body.String())
			}
		})
	}
}

func TestDashboardRoutes_ValidationFieldsInBody(t *testing.T) {
	svc := &stubDashboardService{
		createErr: errs.NewFieldValidationError("widget form is invalid", map[string]string{"tasksTotal": "tasksTotal must be at least 1"}),
	}
	h := NewDashboardHandlers(&Deps{
		ResponseHandler: response.New(slog.New(logger.NewTestHandler(slog.LevelInfo))),
		DashboardSvc:    svc,
	})

	req := httptest.NewRequest(http.MethodPost, "/widgets", strings.NewReader(`{}`)).WithContext(helpers.TestCtx())
	rr := httptest.NewRecorder()
	h.DashboardRoutes().ServeHTTP(rr, req)

	var body response.ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Fields["tasksTotal"] == "" {
		t.Fatalf("expected tasksTotal field error, got %+v", body)
	}
}
