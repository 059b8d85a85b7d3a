package handler

import (
	"encoding/json"
	"net/http"

	"calview/internal/prefs/service"
	httputil "calview/pkg/http"
	"calview/pkg/logger"
	"calview/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type PreferencesHandler struct {
	service service.PreferencesService
	log     *logger.Logger
}

func NewPreferencesHandler(service service.PreferencesService, log *logger.Logger) *PreferencesHandler {
	return &PreferencesHandler{
		service: service,
		log:     log,
	}
}

func (h *PreferencesHandler) Get(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	prefs, err := h.service.Get(r.Context(), ps.ByName("userId"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Get", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, prefs); err != nil {
		h.log.Error("failed to write success response", "handler", "Get", "error", err)
	}
}

func (h *PreferencesHandler) Put(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var prefs model.CalendarPreferences
	if err := json.NewDecoder(r.Body).Decode(&prefs); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Put", "error", writeErr)
		}
		return
	}
	prefs.UserID = ps.ByName("userId")

	if err := h.service.Save(r.Context(), &prefs); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Put", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, prefs); err != nil {
		h.log.Error("failed to write success response", "handler", "Put", "error", err)
	}
}

func (h *PreferencesHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Reset(r.Context(), ps.ByName("userId")); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Delete", "error", writeErr)
		}
		return
	}
	httputil.WriteNoContent(w)
}

func (h *PreferencesHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/calendar/preferences/:userId", h.Get)
	router.PUT("/api/v1/calendar/preferences/:userId", h.Put)
	router.DELETE("/api/v1/calendar/preferences/:userId", h.Delete)
}
