package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Event struct {
	bun.BaseModel `bun:"table:events"`

	ID          string    `bun:"id,pk" json:"id"`
	Name        string    `bun:"name,notnull" json:"name"`
	Description string    `bun:"description" json:"description"`
	Date        time.Time `bun:"date,notnull" json:"date"`
	CatalogURL  string    `bun:"catalog_url,nullzero" json:"catalog_url,omitempty"`
	OwnerID     string    `bun:"owner_id,nullzero" json:"owner_id,omitempty"`
	CreatedAt   time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}

// CanModify reports whether userID may edit or delete this event.
// An event with no owner recorded is modifiable by any authenticated
// user. TEMPORARY: kept for compatibility with events created before
// owner_id existed; drop the empty-owner branch once those are backfilled.
func (e *Event) CanModify(userID string) bool {
	if userID == "" {
		return false
	}
	return e.OwnerID == userID || e.OwnerID == ""
}

type EventRequest struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	CatalogURL  string    `json:"catalog_url"`
}
