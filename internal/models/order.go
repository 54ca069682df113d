package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Payment status values persisted on orders. Anything else found in the
// database is surfaced as unknown, never coerced to one of these.
const (
	StatusPaid         = "Paid"
	StatusNotPaid      = "Not Paid"
	StatusUnknownLabel = "Unknown"
	UnnamedCustomer    = "Unnamed Customer"
)

type Order struct {
	bun.BaseModel `bun:"table:orders"`

	ID               string    `bun:"id,pk" json:"id"`
	EventID          string    `bun:"event_id,notnull" json:"event_id"`
	UserID           string    `bun:"user_id,notnull" json:"user_id"`
	CustomerName     string    `bun:"customer_name" json:"customer_name"`
	ItemDescription  string    `bun:"item_description,notnull" json:"item_description"`
	Quantity         int       `bun:"quantity,notnull" json:"quantity"`
	Price            int64     `bun:"price,nullzero" json:"price"`
	OriginalPrice    int64     `bun:"original_price,nullzero" json:"original_price,omitempty"`
	JastipFee        int64     `bun:"jastip_fee,nullzero" json:"jastip_fee"`
	SpecificRequests string    `bun:"specific_requests,nullzero" json:"specific_requests,omitempty"`
	Status           string    `bun:"status,notnull" json:"status"`
	CreatedAt        time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}

// StatusKnown reports whether the stored status is one of the two
// enumerated payment states.
func StatusKnown(status string) bool {
	return status == StatusPaid || status == StatusNotPaid
}

// StatusLabel maps a stored status to its display label. Legacy or
// malformed values render as "Unknown" rather than defaulting to either
// payment state.
func StatusLabel(status string) string {
	if StatusKnown(status) {
		return status
	}
	return StatusUnknownLabel
}

type OrderRequest struct {
	CustomerName     string `json:"customer_name"`
	ItemDescription  string `json:"item_description"`
	Quantity         int    `json:"quantity"`
	Price            int64  `json:"price"`
	OriginalPrice    int64  `json:"original_price"`
	JastipFee        int64  `json:"jastip_fee"`
	SpecificRequests string `json:"specific_requests"`
}

// ImportRow is one already-parsed spreadsheet row submitted by the bulk
// import dialog. Parsing the workbook itself stays on the client.
type ImportRow struct {
	CustomerName     string `json:"customer_name"`
	ItemDescription  string `json:"item_description"`
	Quantity         int    `json:"quantity"`
	Price            int64  `json:"price"`
	OriginalPrice    int64  `json:"original_price"`
	JastipFee        int64  `json:"jastip_fee"`
	SpecificRequests string `json:"specific_requests"`
}

// OrderChange is the payload fanned out to SSE subscribers when an order
// is created, edited, paid or deleted.
type OrderChange struct {
	Kind    string `json:"kind"` // created, updated, paid, deleted
	EventID string `json:"event_id"`
	OrderID string `json:"order_id"`
	Order   *Order `json:"order,omitempty"`
}
