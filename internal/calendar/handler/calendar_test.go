package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"calview/internal/calendar/dispatch"
	"calview/internal/calendar/gesture"
	"calview/internal/calendar/service"
	"calview/internal/calendar/view"
	apperrors "calview/pkg/errors"
	"calview/pkg/logger"
	"calview/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type mockCalendarService struct {
	viewFunc         func(ctx context.Context) (*service.CalendarView, error)
	setViewFunc      func(mode, anchor string) (dispatch.Snapshot, error)
	updateStatusFunc func(ctx context.Context, id string, status model.BookingStatus) error
	deleteFunc       func(ctx context.Context, id string) error
	releaseDragFunc  func(ctx context.Context, target *gesture.DropTarget) (*model.Booking, error)
}

func (m *mockCalendarService) Refresh(ctx context.Context) (dispatch.Snapshot, error) {
	return dispatch.Snapshot{}, nil
}

func (m *mockCalendarService) View(ctx context.Context) (*service.CalendarView, error) {
	if m.viewFunc != nil {
		return m.viewFunc(ctx)
	}
	return &service.CalendarView{}, nil
}

func (m *mockCalendarService) SetView(mode, anchor string) (dispatch.Snapshot, error) {
	if m.setViewFunc != nil {
		return m.setViewFunc(mode, anchor)
	}
	return dispatch.Snapshot{}, nil
}

func (m *mockCalendarService) Navigate(direction int) (dispatch.Snapshot, error) {
	return dispatch.Snapshot{}, nil
}

func (m *mockCalendarService) SetFilter(f view.Filter) dispatch.Snapshot {
	return dispatch.Snapshot{Filter: f}
}

func (m *mockCalendarService) CreateOptimistic(ctx context.Context, b *model.Booking) (model.Booking, error) {
	return *b, nil
}

func (m *mockCalendarService) UpdateStatus(ctx context.Context, id string, status model.BookingStatus) error {
	if m.updateStatusFunc != nil {
		return m.updateStatusFunc(ctx, id, status)
	}
	return nil
}

func (m *mockCalendarService) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *mockCalendarService) SetRoster(staff []model.Staff) {}

func (m *mockCalendarService) StartDrag(id string) error { return nil }

func (m *mockCalendarService) HoverDrag(target gesture.DropTarget) (gesture.Preview, error) {
	return gesture.Preview{}, nil
}

func (m *mockCalendarService) ReleaseDrag(ctx context.Context, target *gesture.DropTarget) (*model.Booking, error) {
	if m.releaseDragFunc != nil {
		return m.releaseDragFunc(ctx, target)
	}
	return nil, nil
}

func (m *mockCalendarService) StartResize(id string, edge gesture.Kind, pointerY, pixelsPerInterval float64) error {
	return nil
}

func (m *mockCalendarService) MoveResize(pointerY float64) (gesture.Preview, bool, error) {
	return gesture.Preview{}, false, nil
}

func (m *mockCalendarService) ReleaseResize(ctx context.Context) (*model.Booking, error) {
	return nil, nil
}

func (m *mockCalendarService) CancelGesture() {}

func newTestRouter(svc service.CalendarService) *httprouter.Router {
	router := httprouter.New()
	NewCalendarHandler(svc, logger.Discard()).RegisterRoutes(router)
	return router
}

func TestGetView(t *testing.T) {
	mock := &mockCalendarService{
		viewFunc: func(ctx context.Context) (*service.CalendarView, error) {
			return &service.CalendarView{
				View:  view.State{Mode: view.ModeDay, Anchor: "2024-06-01"},
				Range: model.DateRange{Start: "2024-06-01", End: "2024-06-01"},
			}, nil
		},
	}
	router := newTestRouter(mock)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/calendar", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200", rec.Code)
	}
	var body struct {
		Data service.CalendarView `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Data.View.Anchor != "2024-06-01" {
		t.Errorf("got anchor %s, want 2024-06-01", body.Data.View.Anchor)
	}
}

func TestSetViewInvalidMode(t *testing.T) {
	mock := &mockCalendarService{
		setViewFunc: func(mode, anchor string) (dispatch.Snapshot, error) {
			return dispatch.Snapshot{}, apperrors.InvalidInput("View mode must be one of day, week, month")
		},
	}
	router := newTestRouter(mock)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/v1/calendar/view", strings.NewReader(`{"mode":"quarter","anchor":"2024-06-01"}`))
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("got status %d, want 400", rec.Code)
	}
}

func TestSetViewMalformedBody(t *testing.T) {
	router := newTestRouter(&mockCalendarService{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/v1/calendar/view", strings.NewReader(`{not json`))
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("got status %d, want 400", rec.Code)
	}
}

func TestUpdateStatus(t *testing.T) {
	var gotID string
	var gotStatus model.BookingStatus
	mock := &mockCalendarService{
		updateStatusFunc: func(ctx context.Context, id string, status model.BookingStatus) error {
			gotID = id
			gotStatus = status
			return nil
		},
	}
	router := newTestRouter(mock)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/calendar/bookings/b1/status", strings.NewReader(`{"status":"completed"}`))
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("got status %d, want 204", rec.Code)
	}
	if gotID != "b1" || gotStatus != model.StatusCompleted {
		t.Errorf("service received %s/%s, want b1/completed", gotID, gotStatus)
	}
}

func TestDeleteBookingNotFound(t *testing.T) {
	mock := &mockCalendarService{
		deleteFunc: func(ctx context.Context, id string) error {
			return apperrors.NotFoundWithID("Booking", id)
		},
	}
	router := newTestRouter(mock)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/calendar/bookings/ghost", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("got status %d, want 404", rec.Code)
	}
}

func TestStartResizeRejectsUnknownEdge(t *testing.T) {
	router := newTestRouter(&mockCalendarService{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/calendar/gestures/resize",
		strings.NewReader(`{"booking_id":"b1","edge":"middle","pointer_y":0,"pixels_per_interval":20}`))
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("got status %d, want 400", rec.Code)
	}
}

func TestReleaseDragConflict(t *testing.T) {
	mock := &mockCalendarService{
		releaseDragFunc: func(ctx context.Context, target *gesture.DropTarget) (*model.Booking, error) {
			return nil, apperrors.Conflict("Target slot conflicts with an existing booking")
		},
	}
	router := newTestRouter(mock)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/calendar/gestures/drag/release",
		strings.NewReader(`{"staff_id":"staff-1","date":"2024-06-01","start_min":615}`))
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Errorf("got status %d, want 409", rec.Code)
	}
}

func TestReleaseDragNoOpReturnsNoContent(t *testing.T) {
	router := newTestRouter(&mockCalendarService{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/calendar/gestures/drag/release", nil))

	if rec.Code != http.StatusNoContent {
		t.Errorf("got status %d, want 204", rec.Code)
	}
}
