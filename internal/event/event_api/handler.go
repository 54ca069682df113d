package event_api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"jastip-express/internal/auth"
	"jastip-express/internal/event"
	"jastip-express/internal/logger"
	"jastip-express/internal/models"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	EventService *event.EventService
	Logger       *logger.Logger
}

func NewHandler(eventService *event.EventService, log *logger.Logger) *Handler {
	return &Handler{EventService: eventService, Logger: log}
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, event.ErrValidation):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, event.ErrForbidden):
		http.Error(w, err.Error(), http.StatusForbidden)
	default:
		http.Error(w, err.Error(), http.StatusNotFound)
	}
}

func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	h.Logger.Info("API", "CreateEvent")

	var req models.EventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Error("API", fmt.Sprintf("CreateEvent: failed to decode request body: %v", err))
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	created, err := h.EventService.CreateEvent(r.Context(), auth.UserID(r.Context()), auth.UserEmail(r.Context()), req)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("CreateEvent: %v", err))
		h.writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(created); err != nil {
		h.Logger.Error("API", fmt.Sprintf("CreateEvent: failed to encode response: %v", err))
		return
	}
	h.Logger.LogEvent("CREATE", created.ID, "event created successfully")
}

func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventId")
	h.Logger.Info("API", fmt.Sprintf("GetEvent: eventId=%s", eventID))

	eventData, err := h.EventService.GetEvent(r.Context(), eventID)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("GetEvent: event not found: %v", err))
		http.Error(w, "Event not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(eventData); err != nil {
		h.Logger.Error("API", fmt.Sprintf("GetEvent: failed to encode response: %v", err))
	}
}

func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	h.Logger.Info("API", "ListEvents")

	events, err := h.EventService.ListEvents(r.Context())
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("ListEvents: %v", err))
		http.Error(w, "Failed to list events", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(events); err != nil {
		h.Logger.Error("API", fmt.Sprintf("ListEvents: failed to encode response: %v", err))
	}
}

func (h *Handler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventId")
	h.Logger.Info("API", fmt.Sprintf("UpdateEvent: eventId=%s", eventID))

	var req models.EventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Error("API", fmt.Sprintf("UpdateEvent: failed to decode request body: %v", err))
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	updated, err := h.EventService.UpdateEvent(r.Context(), eventID, auth.UserID(r.Context()), auth.UserEmail(r.Context()), req)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("UpdateEvent: %v", err))
		h.writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(updated); err != nil {
		h.Logger.Error("API", fmt.Sprintf("UpdateEvent: failed to encode response: %v", err))
	}
}

func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventId")
	h.Logger.Info("API", fmt.Sprintf("DeleteEvent: eventId=%s", eventID))

	if err := h.EventService.DeleteEvent(r.Context(), eventID, auth.UserID(r.Context()), auth.UserEmail(r.Context())); err != nil {
		h.Logger.Error("API", fmt.Sprintf("DeleteEvent: %v", err))
		h.writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
	h.Logger.LogEvent("DELETE", eventID, "event deleted")
}
