package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"jastip-express/internal/models"

	"github.com/google/uuid"
)

var (
	ErrValidation    = errors.New("invalid order data")
	ErrForbidden     = errors.New("not allowed to modify this order")
	ErrAlreadyPaid   = errors.New("order is already paid")
	ErrUnknownStatus = errors.New("order has an unknown payment status")
)

type DBLayer interface {
	GetOrderByID(ctx context.Context, id string) (*models.Order, error)
	CreateOrder(ctx context.Context, order models.Order) error
	CreateOrders(ctx context.Context, orders []models.Order) error
	UpdateOrder(ctx context.Context, order models.Order) error
	DeleteOrder(ctx context.Context, id string) error
	ListByEvent(ctx context.Context, eventID string) ([]models.Order, error)
	ListByEventAndCreator(ctx context.Context, eventID, userID string) ([]models.Order, error)
	ListByEventAndCustomer(ctx context.Context, eventID, customerName string) ([]models.Order, error)
	DeleteByEventAndCustomer(ctx context.Context, eventID, customerName string) (int, error)
}

// EventLookup resolves the parent event for permission decisions.
type EventLookup interface {
	GetEventByID(ctx context.Context, id string) (*models.Event, error)
}

type ActivityRecorder interface {
	Record(userID, userEmail, action, entityType, entityID, details string)
}

type ChangeEmitter interface {
	Emit(change models.OrderChange)
}

type OrderService struct {
	DB       DBLayer
	Events   EventLookup
	Activity ActivityRecorder
	Emitter  ChangeEmitter
}

func NewOrderService(db DBLayer, events EventLookup, activity ActivityRecorder, emitter ChangeEmitter) *OrderService {
	return &OrderService{DB: db, Events: events, Activity: activity, Emitter: emitter}
}

func validateRequest(req models.OrderRequest) error {
	if req.ItemDescription == "" {
		return fmt.Errorf("%w: item description is required", ErrValidation)
	}
	if req.Quantity < 1 {
		return fmt.Errorf("%w: quantity must be at least 1", ErrValidation)
	}
	if req.Price < 0 || req.OriginalPrice < 0 || req.JastipFee < 0 {
		return fmt.Errorf("%w: price and fee must not be negative", ErrValidation)
	}
	return nil
}

// PlaceOrder creates a new order against an event. New orders always start
// as Not Paid.
func (s *OrderService) PlaceOrder(ctx context.Context, eventID, userID, userEmail string, req models.OrderRequest) (*models.Order, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if _, err := s.Events.GetEventByID(ctx, eventID); err != nil {
		return nil, fmt.Errorf("event %s not found: %w", eventID, err)
	}

	order := models.Order{
		ID:               uuid.NewString(),
		EventID:          eventID,
		UserID:           userID,
		CustomerName:     req.CustomerName,
		ItemDescription:  req.ItemDescription,
		Quantity:         req.Quantity,
		Price:            req.Price,
		OriginalPrice:    req.OriginalPrice,
		JastipFee:        req.JastipFee,
		SpecificRequests: req.SpecificRequests,
		Status:           models.StatusNotPaid,
		CreatedAt:        time.Now(),
	}

	if err := s.DB.CreateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.Activity.Record(userID, userEmail, models.ActionCreate, models.EntityOrder, order.ID,
		fmt.Sprintf("Created order %q for event %s.", order.ItemDescription, eventID))
	s.Emitter.Emit(models.OrderChange{Kind: "created", EventID: eventID, OrderID: order.ID, Order: &order})

	return &order, nil
}

func (s *OrderService) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	return s.DB.GetOrderByID(ctx, id)
}

// canModifyOrder: order creators can always touch their own orders; the
// event owner can touch every order under the event.
func (s *OrderService) canModifyOrder(ctx context.Context, order *models.Order, userID string) bool {
	if order.UserID == userID {
		return true
	}
	event, err := s.Events.GetEventByID(ctx, order.EventID)
	if err != nil {
		return false
	}
	return event.CanModify(userID)
}

// UpdateOrder edits the mutable fields of an order. Payment status changes
// go through MarkPaid instead.
func (s *OrderService) UpdateOrder(ctx context.Context, orderID, userID, userEmail string, req models.OrderRequest) (*models.Order, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	order, err := s.DB.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("order %s not found: %w", orderID, err)
	}
	if !s.canModifyOrder(ctx, order, userID) {
		return nil, ErrForbidden
	}

	order.CustomerName = req.CustomerName
	order.ItemDescription = req.ItemDescription
	order.Quantity = req.Quantity
	order.Price = req.Price
	order.OriginalPrice = req.OriginalPrice
	order.JastipFee = req.JastipFee
	order.SpecificRequests = req.SpecificRequests

	if err := s.DB.UpdateOrder(ctx, *order); err != nil {
		return nil, fmt.Errorf("failed to update order: %w", err)
	}

	s.Activity.Record(userID, userEmail, models.ActionUpdate, models.EntityOrder, orderID,
		fmt.Sprintf("Updated order %q.", order.ItemDescription))
	s.Emitter.Emit(models.OrderChange{Kind: "updated", EventID: order.EventID, OrderID: orderID, Order: order})

	return order, nil
}

// MarkPaid transitions an order from Not Paid to Paid. An order whose
// stored status is outside the two known values is left untouched: paying
// it would overwrite state we cannot interpret.
func (s *OrderService) MarkPaid(ctx context.Context, orderID, userID, userEmail string) (*models.Order, error) {
	order, err := s.DB.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("order %s not found: %w", orderID, err)
	}
	if !s.canModifyOrder(ctx, order, userID) {
		return nil, ErrForbidden
	}
	if order.Status == models.StatusPaid {
		return nil, ErrAlreadyPaid
	}
	if !models.StatusKnown(order.Status) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStatus, order.Status)
	}

	order.Status = models.StatusPaid
	if err := s.DB.UpdateOrder(ctx, *order); err != nil {
		return nil, fmt.Errorf("failed to mark order paid: %w", err)
	}

	s.Activity.Record(userID, userEmail, models.ActionUpdate, models.EntityOrder, orderID,
		fmt.Sprintf("Marked order %q as paid.", order.ItemDescription))
	s.Emitter.Emit(models.OrderChange{Kind: "paid", EventID: order.EventID, OrderID: orderID, Order: order})

	return order, nil
}

// DeleteOrder removes one order permanently.
func (s *OrderService) DeleteOrder(ctx context.Context, orderID, userID, userEmail string) error {
	order, err := s.DB.GetOrderByID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("order %s not found: %w", orderID, err)
	}
	if !s.canModifyOrder(ctx, order, userID) {
		return ErrForbidden
	}

	if err := s.DB.DeleteOrder(ctx, orderID); err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}

	s.Activity.Record(userID, userEmail, models.ActionDelete, models.EntityOrder, orderID,
		fmt.Sprintf("Deleted order %q.", order.ItemDescription))
	s.Emitter.Emit(models.OrderChange{Kind: "deleted", EventID: order.EventID, OrderID: orderID})

	return nil
}

// DeleteCustomerOrders removes every order one customer has on an event.
// Only someone who may modify the event can do this.
func (s *OrderService) DeleteCustomerOrders(ctx context.Context, eventID, customerName, userID, userEmail string) (int, error) {
	event, err := s.Events.GetEventByID(ctx, eventID)
	if err != nil {
		return 0, fmt.Errorf("event %s not found: %w", eventID, err)
	}
	if !event.CanModify(userID) {
		return 0, ErrForbidden
	}

	deleted, err := s.DB.DeleteByEventAndCustomer(ctx, eventID, customerName)
	if err != nil {
		return 0, fmt.Errorf("failed to delete orders for %s: %w", customerName, err)
	}

	if deleted > 0 {
		s.Activity.Record(userID, userEmail, models.ActionDelete, models.EntityOrder,
			fmt.Sprintf("customer-%s", customerName),
			fmt.Sprintf("Deleted all %d orders for %s on event %s.", deleted, customerName, eventID))
		s.Emitter.Emit(models.OrderChange{Kind: "deleted", EventID: eventID})
	}

	return deleted, nil
}

// ListForUser returns the orders a caller may see on an event: everything
// for whoever can modify the event, otherwise only the caller's own orders.
func (s *OrderService) ListForUser(ctx context.Context, eventID, userID string) ([]models.Order, error) {
	event, err := s.Events.GetEventByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("event %s not found: %w", eventID, err)
	}
	if event.CanModify(userID) {
		return s.DB.ListByEvent(ctx, eventID)
	}
	return s.DB.ListByEventAndCreator(ctx, eventID, userID)
}

// ImportOrders lands a batch of already-parsed spreadsheet rows as orders
// in one transaction. Rows missing a customer name or item description are
// skipped, matching the import dialog's own filtering; missing numbers
// default to zero and a missing quantity to one.
func (s *OrderService) ImportOrders(ctx context.Context, eventID, userID, userEmail string, rows []models.ImportRow) (int, error) {
	if _, err := s.Events.GetEventByID(ctx, eventID); err != nil {
		return 0, fmt.Errorf("event %s not found: %w", eventID, err)
	}

	now := time.Now()
	orders := make([]models.Order, 0, len(rows))
	for _, row := range rows {
		if row.CustomerName == "" || row.ItemDescription == "" {
			continue
		}
		if row.Quantity == 0 {
			row.Quantity = 1
		}
		if row.Quantity < 1 || row.Price < 0 || row.OriginalPrice < 0 || row.JastipFee < 0 {
			return 0, fmt.Errorf("%w: row for %q has invalid numbers", ErrValidation, row.CustomerName)
		}
		orders = append(orders, models.Order{
			ID:               uuid.NewString(),
			EventID:          eventID,
			UserID:           userID,
			CustomerName:     row.CustomerName,
			ItemDescription:  row.ItemDescription,
			Quantity:         row.Quantity,
			Price:            row.Price,
			OriginalPrice:    row.OriginalPrice,
			JastipFee:        row.JastipFee,
			SpecificRequests: row.SpecificRequests,
			Status:           models.StatusNotPaid,
			CreatedAt:        now,
		})
	}

	if len(orders) == 0 {
		return 0, fmt.Errorf("%w: no valid rows to import", ErrValidation)
	}

	if err := s.DB.CreateOrders(ctx, orders); err != nil {
		return 0, fmt.Errorf("failed to import orders: %w", err)
	}

	s.Activity.Record(userID, userEmail, models.ActionCreate, models.EntityOrder,
		fmt.Sprintf("batch-import-%d", now.UnixMilli()),
		fmt.Sprintf("Imported %d orders for event %s.", len(orders), eventID))
	s.Emitter.Emit(models.OrderChange{Kind: "created", EventID: eventID})

	return len(orders), nil
}
