package handler

import (
	"encoding/json"
	"net/http"

	"calview/internal/calendar/gesture"
	"calview/internal/calendar/service"
	"calview/internal/calendar/view"
	apperrors "calview/pkg/errors"
	httputil "calview/pkg/http"
	"calview/pkg/logger"
	"calview/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type CalendarHandler struct {
	service service.CalendarService
	log     *logger.Logger
}

func NewCalendarHandler(service service.CalendarService, log *logger.Logger) *CalendarHandler {
	return &CalendarHandler{
		service: service,
		log:     log,
	}
}

type setViewRequest struct {
	Mode   string `json:"mode"`
	Anchor string `json:"anchor"`
}

type navigateRequest struct {
	Direction int `json:"direction"`
}

type statusRequest struct {
	Status model.BookingStatus `json:"status"`
}

type startDragRequest struct {
	BookingID string `json:"booking_id"`
}

type startResizeRequest struct {
	BookingID         string  `json:"booking_id"`
	Edge              string  `json:"edge"`
	PointerY          float64 `json:"pointer_y"`
	PixelsPerInterval float64 `json:"pixels_per_interval"`
}

type moveResizeRequest struct {
	PointerY float64 `json:"pointer_y"`
}

func (h *CalendarHandler) GetView(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	cv, err := h.service.View(r.Context())
	if err != nil {
		h.writeError(w, "GetView", err)
		return
	}
	h.writeSuccess(w, "GetView", cv)
}

func (h *CalendarHandler) SetView(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req setViewRequest
	if !h.decode(w, r, "SetView", &req) {
		return
	}

	snap, err := h.service.SetView(req.Mode, req.Anchor)
	if err != nil {
		h.writeError(w, "SetView", err)
		return
	}
	h.writeSuccess(w, "SetView", snap.View)
}

func (h *CalendarHandler) Navigate(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req navigateRequest
	if !h.decode(w, r, "Navigate", &req) {
		return
	}

	snap, err := h.service.Navigate(req.Direction)
	if err != nil {
		h.writeError(w, "Navigate", err)
		return
	}
	h.writeSuccess(w, "Navigate", snap.View)
}

func (h *CalendarHandler) SetFilter(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var filter view.Filter
	if !h.decode(w, r, "SetFilter", &filter) {
		return
	}

	snap := h.service.SetFilter(filter)
	h.writeSuccess(w, "SetFilter", snap.Filter)
}

func (h *CalendarHandler) Refresh(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	snap, err := h.service.Refresh(r.Context())
	if err != nil {
		h.writeError(w, "Refresh", err)
		return
	}
	h.writeSuccess(w, "Refresh", snap.Bookings)
}

func (h *CalendarHandler) SetRoster(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var staff []model.Staff
	if !h.decode(w, r, "SetRoster", &staff) {
		return
	}

	h.service.SetRoster(staff)
	httputil.WriteNoContent(w)
}

func (h *CalendarHandler) CreateBooking(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var booking model.Booking
	if !h.decode(w, r, "CreateBooking", &booking) {
		return
	}

	created, err := h.service.CreateOptimistic(r.Context(), &booking)
	if err != nil {
		h.writeError(w, "CreateBooking", err)
		return
	}

	if err := httputil.WriteCreated(w, created); err != nil {
		h.log.Error("failed to write created response", "handler", "CreateBooking", "error", err)
	}
}

func (h *CalendarHandler) UpdateStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req statusRequest
	if !h.decode(w, r, "UpdateStatus", &req) {
		return
	}

	if err := h.service.UpdateStatus(r.Context(), ps.ByName("id"), req.Status); err != nil {
		h.writeError(w, "UpdateStatus", err)
		return
	}
	httputil.WriteNoContent(w)
}

func (h *CalendarHandler) DeleteBooking(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Delete(r.Context(), ps.ByName("id")); err != nil {
		h.writeError(w, "DeleteBooking", err)
		return
	}
	httputil.WriteNoContent(w)
}

func (h *CalendarHandler) StartDrag(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req startDragRequest
	if !h.decode(w, r, "StartDrag", &req) {
		return
	}

	if err := h.service.StartDrag(req.BookingID); err != nil {
		h.writeError(w, "StartDrag", err)
		return
	}
	httputil.WriteNoContent(w)
}

func (h *CalendarHandler) HoverDrag(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var target gesture.DropTarget
	if !h.decode(w, r, "HoverDrag", &target) {
		return
	}

	preview, err := h.service.HoverDrag(target)
	if err != nil {
		h.writeError(w, "HoverDrag", err)
		return
	}
	h.writeSuccess(w, "HoverDrag", preview)
}

func (h *CalendarHandler) ReleaseDrag(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var target *gesture.DropTarget
	if r.ContentLength != 0 {
		target = &gesture.DropTarget{}
		if !h.decode(w, r, "ReleaseDrag", target) {
			return
		}
	}

	updated, err := h.service.ReleaseDrag(r.Context(), target)
	if err != nil {
		h.writeError(w, "ReleaseDrag", err)
		return
	}
	if updated == nil {
		httputil.WriteNoContent(w)
		return
	}
	h.writeSuccess(w, "ReleaseDrag", updated)
}

func (h *CalendarHandler) StartResize(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req startResizeRequest
	if !h.decode(w, r, "StartResize", &req) {
		return
	}

	var edge gesture.Kind
	switch req.Edge {
	case "start":
		edge = gesture.KindResizeStart
	case "end":
		edge = gesture.KindResizeEnd
	default:
		h.writeError(w, "StartResize", apperrors.InvalidInput("Edge must be 'start' or 'end'"))
		return
	}

	if err := h.service.StartResize(req.BookingID, edge, req.PointerY, req.PixelsPerInterval); err != nil {
		h.writeError(w, "StartResize", err)
		return
	}
	httputil.WriteNoContent(w)
}

func (h *CalendarHandler) MoveResize(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req moveResizeRequest
	if !h.decode(w, r, "MoveResize", &req) {
		return
	}

	preview, changed, err := h.service.MoveResize(req.PointerY)
	if err != nil {
		h.writeError(w, "MoveResize", err)
		return
	}
	h.writeSuccess(w, "MoveResize", map[string]any{
		"preview": preview,
		"changed": changed,
	})
}

func (h *CalendarHandler) ReleaseResize(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	updated, err := h.service.ReleaseResize(r.Context())
	if err != nil {
		h.writeError(w, "ReleaseResize", err)
		return
	}
	if updated == nil {
		httputil.WriteNoContent(w)
		return
	}
	h.writeSuccess(w, "ReleaseResize", updated)
}

func (h *CalendarHandler) CancelGesture(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.service.CancelGesture()
	httputil.WriteNoContent(w)
}

func (h *CalendarHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/calendar", h.GetView)
	router.PUT("/api/v1/calendar/view", h.SetView)
	router.POST("/api/v1/calendar/navigate", h.Navigate)
	router.PUT("/api/v1/calendar/filter", h.SetFilter)
	router.POST("/api/v1/calendar/refresh", h.Refresh)
	router.PUT("/api/v1/calendar/roster", h.SetRoster)

	router.POST("/api/v1/calendar/bookings", h.CreateBooking)
	router.PATCH("/api/v1/calendar/bookings/:id/status", h.UpdateStatus)
	router.DELETE("/api/v1/calendar/bookings/:id", h.DeleteBooking)

	router.POST("/api/v1/calendar/gestures/drag", h.StartDrag)
	router.PUT("/api/v1/calendar/gestures/drag", h.HoverDrag)
	router.POST("/api/v1/calendar/gestures/drag/release", h.ReleaseDrag)
	router.POST("/api/v1/calendar/gestures/resize", h.StartResize)
	router.PUT("/api/v1/calendar/gestures/resize", h.MoveResize)
	router.POST("/api/v1/calendar/gestures/resize/release", h.ReleaseResize)
	router.DELETE("/api/v1/calendar/gestures", h.CancelGesture)
}

func (h *CalendarHandler) decode(w http.ResponseWriter, r *http.Request, op string, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", op, "error", writeErr)
		}
		return false
	}
	return true
}

func (h *CalendarHandler) writeError(w http.ResponseWriter, op string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", op, "error", writeErr)
	}
}

func (h *CalendarHandler) writeSuccess(w http.ResponseWriter, op string, data any) {
	if err := httputil.WriteSuccess(w, data); err != nil {
		h.log.Error("failed to write success response", "handler", op, "error", err)
	}
}
