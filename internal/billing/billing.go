package billing

import (
	"errors"
	"fmt"

	"jastip-express/internal/models"
)

// ErrInvalidQuantity is returned when a record with quantity < 1 reaches a
// totals computation. Quantity is validated at the API boundary, so hitting
// this means a data contract violation; the caller gets an error instead of
// a silently corrupted total.
var ErrInvalidQuantity = errors.New("order quantity must be at least 1")

// CustomerGroup is one bucket of the per-customer partition.
type CustomerGroup struct {
	Name   string         `json:"customer_name"`
	Orders []models.Order `json:"orders"`
}

// GroupByCustomer partitions orders into per-customer buckets keyed by the
// exact customer-name string. Relative order of orders within a bucket is
// the input order, and buckets appear in first-seen order. Orders with an
// empty customer name land in the "Unnamed Customer" bucket. Names are
// matched verbatim: no case folding, no whitespace trimming.
func GroupByCustomer(orders []models.Order) []CustomerGroup {
	groups := []CustomerGroup{}
	index := make(map[string]int, len(orders))

	for _, order := range orders {
		name := order.CustomerName
		if name == "" {
			name = models.UnnamedCustomer
		}
		i, seen := index[name]
		if !seen {
			i = len(groups)
			index[name] = i
			groups = append(groups, CustomerGroup{Name: name})
		}
		groups[i].Orders = append(groups[i].Orders, order)
	}
	return groups
}

// Find returns the group for name, or nil if no order carried that name.
func Find(groups []CustomerGroup, name string) *CustomerGroup {
	for i := range groups {
		if groups[i].Name == name {
			return &groups[i]
		}
	}
	return nil
}

// Totals holds the invoice sums for a set of orders. Amounts are rupiah,
// a zero-decimal currency, so int64 is exact.
type Totals struct {
	ItemTotal  int64 `json:"item_total"`
	FeeTotal   int64 `json:"fee_total"`
	GrandTotal int64 `json:"grand_total"`
}

// ComputeTotals sums per-line item cost and service fee over orders.
// Missing price or fee fields decode to zero upstream and contribute
// nothing; an invalid quantity fails the whole computation.
func ComputeTotals(orders []models.Order) (Totals, error) {
	var t Totals
	for _, order := range orders {
		if order.Quantity < 1 {
			return Totals{}, fmt.Errorf("order %s: %w", order.ID, ErrInvalidQuantity)
		}
		qty := int64(order.Quantity)
		t.ItemTotal += order.Price * qty
		t.FeeTotal += order.JastipFee * qty
	}
	t.GrandTotal = t.ItemTotal + t.FeeTotal
	return t, nil
}

// LineTotal is the customer-facing amount for a single order line.
func LineTotal(order models.Order) (int64, error) {
	if order.Quantity < 1 {
		return 0, fmt.Errorf("order %s: %w", order.ID, ErrInvalidQuantity)
	}
	return (order.Price + order.JastipFee) * int64(order.Quantity), nil
}
