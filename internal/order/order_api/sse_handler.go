package order_api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"jastip-express/internal/logger"
	"jastip-express/internal/models"
	"jastip-express/internal/sse"

	"github.com/go-chi/chi/v5"
)

// SSEHandler manages Server-Sent Events endpoints for order changes
type SSEHandler struct {
	Logger       *logger.Logger
	EventEmitter *sse.OrderEventEmitter
}

// NewSSEHandler creates a new SSE handler for order change events
func NewSSEHandler(logger *logger.Logger, emitter *sse.OrderEventEmitter) *SSEHandler {
	return &SSEHandler{
		Logger:       logger,
		EventEmitter: emitter,
	}
}

// HandleEventOrders streams order changes for a specific jastip event
func (h *SSEHandler) HandleEventOrders(w http.ResponseWriter, r *http.Request) {
	// Extract event ID from URL
	eventID := chi.URLParam(r, "eventId")
	if eventID == "" {
		http.Error(w, "Event ID is required", http.StatusBadRequest)
		return
	}

	// Set headers for SSE
	h.setupSSEHeaders(w)

	// Create a context that cancels when the client disconnects
	ctx := r.Context()

	// Subscribe to order changes for this event
	changeChan := h.EventEmitter.Subscribe(ctx, eventID)

	// Send initial connection established message
	fmt.Fprintf(w, "event: connected\ndata: {\"status\":\"connected\",\"eventId\":\"%s\"}\n\n", eventID)
	w.(http.Flusher).Flush()

	h.Logger.Info("SSE", fmt.Sprintf("Client connected to order changes for event: %s", eventID))

	// Stream events until the client goes away
	for {
		select {
		case change := <-changeChan:
			jsonData, err := json.Marshal(change)
			if err != nil {
				h.Logger.Error("SSE", fmt.Sprintf("Failed to serialize order change: %v", err))
				continue
			}

			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", change.Kind, jsonData)
			w.(http.Flusher).Flush()

		case <-ctx.Done():
			h.Logger.Debug("SSE", fmt.Sprintf("Client disconnected from order changes for: %s", eventID))
			return
		}
	}
}

// EmitOrderChange broadcasts an order change to all subscribed clients
func (h *SSEHandler) EmitOrderChange(change models.OrderChange) {
	h.EventEmitter.Emit(change)
}

// Helper function to set up SSE headers
func (h *SSEHandler) setupSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream;charset=UTF-8")
	w.Header().Set("Cache-Control", "no-cache, no-store, max-age=0, must-revalidate")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Pragma", "no-cache")
	w.Header().Set("Expires", "0")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("X-Frame-Options", "DENY")
	w.Header().Set("X-XSS-Protection", "0")
	w.Header().Set("Referrer-Policy", "no-referrer")
}
