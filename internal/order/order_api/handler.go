package order_api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"jastip-express/internal/auth"
	"jastip-express/internal/billing"
	"jastip-express/internal/logger"
	"jastip-express/internal/models"
	"jastip-express/internal/order"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	OrderService *order.OrderService
	Logger       *logger.Logger
}

func NewHandler(orderService *order.OrderService, log *logger.Logger) *Handler {
	return &Handler{OrderService: orderService, Logger: log}
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, order.ErrValidation):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, order.ErrForbidden):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, order.ErrAlreadyPaid), errors.Is(err, order.ErrUnknownStatus):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, err.Error(), http.StatusNotFound)
	}
}

func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventId")
	h.Logger.Info("API", fmt.Sprintf("PlaceOrder: eventId=%s", eventID))

	var req models.OrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Error("API", fmt.Sprintf("PlaceOrder: failed to decode request body: %v", err))
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	created, err := h.OrderService.PlaceOrder(r.Context(), eventID, auth.UserID(r.Context()), auth.UserEmail(r.Context()), req)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("PlaceOrder: %v", err))
		h.writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(created); err != nil {
		h.Logger.Error("API", fmt.Sprintf("PlaceOrder: failed to encode response: %v", err))
		return
	}
	h.Logger.LogOrder("CREATE", created.ID, "order created successfully")
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderId")
	h.Logger.Info("API", fmt.Sprintf("GetOrder: orderId=%s", orderID))

	orderData, err := h.OrderService.GetOrder(r.Context(), orderID)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("GetOrder: order not found: %v", err))
		http.Error(w, "Order not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(orderData); err != nil {
		h.Logger.Error("API", fmt.Sprintf("GetOrder: failed to encode response: %v", err))
	}
}

func (h *Handler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderId")
	h.Logger.Info("API", fmt.Sprintf("UpdateOrder: orderId=%s", orderID))

	var req models.OrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Error("API", fmt.Sprintf("UpdateOrder: failed to decode request body: %v", err))
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	updated, err := h.OrderService.UpdateOrder(r.Context(), orderID, auth.UserID(r.Context()), auth.UserEmail(r.Context()), req)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("UpdateOrder: %v", err))
		h.writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(updated); err != nil {
		h.Logger.Error("API", fmt.Sprintf("UpdateOrder: failed to encode response: %v", err))
	}
}

func (h *Handler) MarkPaid(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderId")
	h.Logger.Info("API", fmt.Sprintf("MarkPaid: orderId=%s", orderID))

	paid, err := h.OrderService.MarkPaid(r.Context(), orderID, auth.UserID(r.Context()), auth.UserEmail(r.Context()))
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("MarkPaid: %v", err))
		h.writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(paid); err != nil {
		h.Logger.Error("API", fmt.Sprintf("MarkPaid: failed to encode response: %v", err))
		return
	}
	h.Logger.LogOrder("PAY", orderID, "order marked paid")
}

func (h *Handler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderId")
	h.Logger.Info("API", fmt.Sprintf("DeleteOrder: orderId=%s", orderID))

	if err := h.OrderService.DeleteOrder(r.Context(), orderID, auth.UserID(r.Context()), auth.UserEmail(r.Context())); err != nil {
		h.Logger.Error("API", fmt.Sprintf("DeleteOrder: %v", err))
		h.writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) DeleteCustomerOrders(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventId")
	customerName := chi.URLParam(r, "customerName")
	h.Logger.Info("API", fmt.Sprintf("DeleteCustomerOrders: eventId=%s customer=%s", eventID, customerName))

	deleted, err := h.OrderService.DeleteCustomerOrders(r.Context(), eventID, customerName,
		auth.UserID(r.Context()), auth.UserEmail(r.Context()))
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("DeleteCustomerOrders: %v", err))
		h.writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]int{"deleted": deleted})
}

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventId")
	h.Logger.Info("API", fmt.Sprintf("ListOrders: eventId=%s", eventID))

	orders, err := h.OrderService.ListForUser(r.Context(), eventID, auth.UserID(r.Context()))
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("ListOrders: %v", err))
		h.writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(orders); err != nil {
		h.Logger.Error("API", fmt.Sprintf("ListOrders: failed to encode response: %v", err))
	}
}

// groupedOrders is one dashboard accordion section: a customer's orders
// plus their running totals.
type groupedOrders struct {
	CustomerName string         `json:"customer_name"`
	Orders       []models.Order `json:"orders"`
	Totals       billing.Totals `json:"totals"`
}

// ListGroupedOrders returns the event's orders partitioned by customer
// with per-customer totals, the shape the dashboard renders directly.
func (h *Handler) ListGroupedOrders(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventId")
	h.Logger.Info("API", fmt.Sprintf("ListGroupedOrders: eventId=%s", eventID))

	orders, err := h.OrderService.ListForUser(r.Context(), eventID, auth.UserID(r.Context()))
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("ListGroupedOrders: %v", err))
		h.writeServiceError(w, err)
		return
	}

	groups := billing.GroupByCustomer(orders)
	response := make([]groupedOrders, 0, len(groups))
	for _, group := range groups {
		totals, err := billing.ComputeTotals(group.Orders)
		if err != nil {
			h.Logger.Error("API", fmt.Sprintf("ListGroupedOrders: totals failed for %s: %v", group.Name, err))
			http.Error(w, "Corrupt order data: "+err.Error(), http.StatusInternalServerError)
			return
		}
		response = append(response, groupedOrders{
			CustomerName: group.Name,
			Orders:       group.Orders,
			Totals:       totals,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.Logger.Error("API", fmt.Sprintf("ListGroupedOrders: failed to encode response: %v", err))
	}
}

func (h *Handler) ImportOrders(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventId")
	h.Logger.Info("API", fmt.Sprintf("ImportOrders: eventId=%s", eventID))

	var payload struct {
		Rows []models.ImportRow `json:"rows"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.Logger.Error("API", fmt.Sprintf("ImportOrders: failed to decode request body: %v", err))
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	imported, err := h.OrderService.ImportOrders(r.Context(), eventID,
		auth.UserID(r.Context()), auth.UserEmail(r.Context()), payload.Rows)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("ImportOrders: %v", err))
		h.writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]int{"imported": imported})
	h.Logger.Info("API", fmt.Sprintf("ImportOrders: imported %d orders for event %s", imported, eventID))
}
