package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Audit actions and entity kinds recorded in the activity log.
const (
	ActionCreate = "CREATE"
	ActionUpdate = "UPDATE"
	ActionDelete = "DELETE"

	EntityOrder = "Order"
	EntityEvent = "Event"
	EntityUser  = "User"
)

// ActivityLog is an append-only audit record. Rows are inserted and never
// updated or deleted.
type ActivityLog struct {
	bun.BaseModel `bun:"table:activity_logs"`

	ID         string    `bun:"id,pk" json:"id"`
	UserID     string    `bun:"user_id,notnull" json:"user_id"`
	UserEmail  string    `bun:"user_email,notnull" json:"user_email"`
	Action     string    `bun:"action,notnull" json:"action"`
	EntityType string    `bun:"entity_type,notnull" json:"entity_type"`
	EntityID   string    `bun:"entity_id,notnull" json:"entity_id"`
	Details    string    `bun:"details" json:"details"`
	Timestamp  time.Time `bun:"timestamp,notnull,default:current_timestamp" json:"timestamp"`
}
