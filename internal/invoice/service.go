package invoice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"jastip-express/internal/billing"
	"jastip-express/internal/models"
)

var ErrNoOrders = errors.New("customer has no orders on this event")

// Invoice is the customer-facing bill for one customer on one event.
// Original purchase prices never appear here, only the sale price and
// the jastip fee.
type Invoice struct {
	EventID      string         `json:"event_id"`
	EventName    string         `json:"event_name"`
	EventDate    time.Time      `json:"event_date"`
	CustomerName string         `json:"customer_name"`
	Lines        []Line         `json:"lines"`
	Totals       billing.Totals `json:"totals"`
	GrandTotal   string         `json:"grand_total"`
	AllPaid      bool           `json:"all_paid"`
	IssuedAt     time.Time      `json:"issued_at"`
}

type Line struct {
	ItemDescription  string `json:"item_description"`
	Quantity         int    `json:"quantity"`
	Price            int64  `json:"price"`
	JastipFee        int64  `json:"jastip_fee"`
	LineTotal        int64  `json:"line_total"`
	Status           string `json:"status"`
	SpecificRequests string `json:"specific_requests,omitempty"`
}

type OrderLister interface {
	ListByEventAndCustomer(ctx context.Context, eventID, customerName string) ([]models.Order, error)
}

type EventLookup interface {
	GetEventByID(ctx context.Context, id string) (*models.Event, error)
}

type InvoiceService struct {
	Orders OrderLister
	Events EventLookup
}

func NewInvoiceService(orders OrderLister, events EventLookup) *InvoiceService {
	return &InvoiceService{Orders: orders, Events: events}
}

// Build assembles the invoice for one customer on one event.
func (s *InvoiceService) Build(ctx context.Context, eventID, customerName string) (*Invoice, error) {
	event, err := s.Events.GetEventByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("event %s not found: %w", eventID, err)
	}

	orders, err := s.Orders.ListByEventAndCustomer(ctx, eventID, customerName)
	if err != nil {
		return nil, fmt.Errorf("failed to load orders: %w", err)
	}
	if len(orders) == 0 {
		return nil, ErrNoOrders
	}

	totals, err := billing.ComputeTotals(orders)
	if err != nil {
		return nil, fmt.Errorf("failed to compute totals: %w", err)
	}

	lines := make([]Line, 0, len(orders))
	allPaid := true
	for _, o := range orders {
		if o.Status != models.StatusPaid {
			allPaid = false
		}
		lineTotal, err := billing.LineTotal(o)
		if err != nil {
			return nil, fmt.Errorf("failed to compute line total: %w", err)
		}
		lines = append(lines, Line{
			ItemDescription:  o.ItemDescription,
			Quantity:         o.Quantity,
			Price:            o.Price,
			JastipFee:        o.JastipFee,
			LineTotal:        lineTotal,
			Status:           models.StatusLabel(o.Status),
			SpecificRequests: o.SpecificRequests,
		})
	}

	name := customerName
	if name == "" {
		name = models.UnnamedCustomer
	}

	return &Invoice{
		EventID:      event.ID,
		EventName:    event.Name,
		EventDate:    event.Date,
		CustomerName: name,
		Lines:        lines,
		Totals:       totals,
		GrandTotal:   billing.FormatRupiah(totals.GrandTotal),
		AllPaid:      allPaid,
		IssuedAt:     time.Now(),
	}, nil
}
