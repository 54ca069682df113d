package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"jastip-express/internal/activity"
	"jastip-express/internal/logger"
)

const (
	defaultLogLimit = 100
	maxLogLimit     = 500
)

type Handler struct {
	Store  activity.Store
	Logger *logger.Logger
}

func NewHandler(store activity.Store, log *logger.Logger) *Handler {
	return &Handler{Store: store, Logger: log}
}

// ListLogs returns the newest activity entries first. An optional "limit"
// query parameter caps the result size, clamped to maxLogLimit so a
// client cannot request a full-table scan.
func (h *Handler) ListLogs(w http.ResponseWriter, r *http.Request) {
	limit := defaultLogLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			http.Error(w, "Invalid limit parameter", http.StatusBadRequest)
			return
		}
		if parsed > maxLogLimit {
			parsed = maxLogLimit
		}
		limit = parsed
	}

	entries, err := h.Store.ListRecent(r.Context(), limit)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("ListLogs: failed to fetch activity log: %v", err))
		http.Error(w, "Failed to retrieve activity log", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(entries); err != nil {
		h.Logger.Error("API", fmt.Sprintf("ListLogs: failed to encode response: %v", err))
	}
}
