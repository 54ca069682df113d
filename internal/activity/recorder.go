package activity

import (
	"context"
	"fmt"
	"time"

	"jastip-express/internal/logger"
	"jastip-express/internal/models"

	"github.com/google/uuid"
)

// Publisher streams audit records to the activity topic.
type Publisher interface {
	PublishActivity(entry models.ActivityLog) error
}

// Store persists audit records.
type Store interface {
	Insert(ctx context.Context, entry models.ActivityLog) error
	ListRecent(ctx context.Context, limit int) ([]models.ActivityLog, error)
}

// Recorder writes the append-only activity log. Entries normally flow
// through Kafka and are persisted by the consumer; when no publisher is
// configured they are inserted directly.
type Recorder struct {
	Publisher Publisher
	Store     Store
	Logger    *logger.Logger
}

func NewRecorder(publisher Publisher, store Store, log *logger.Logger) *Recorder {
	return &Recorder{Publisher: publisher, Store: store, Logger: log}
}

// Record logs one user action. Recording is best-effort: a failure is
// logged, never propagated, so audit problems cannot fail the operation
// being audited.
func (r *Recorder) Record(userID, userEmail, action, entityType, entityID, details string) {
	if userID == "" || userEmail == "" {
		r.Logger.Warn("ACTIVITY", "Activity not logged: user is not properly authenticated")
		return
	}

	entry := models.ActivityLog{
		ID:         uuid.NewString(),
		UserID:     userID,
		UserEmail:  userEmail,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    details,
		Timestamp:  time.Now(),
	}

	if r.Publisher != nil {
		if err := r.Publisher.PublishActivity(entry); err != nil {
			r.Logger.Error("ACTIVITY", fmt.Sprintf("Failed to publish activity entry: %v", err))
		}
		return
	}

	if err := r.Store.Insert(context.Background(), entry); err != nil {
		r.Logger.Error("ACTIVITY", fmt.Sprintf("Failed to insert activity entry: %v", err))
	}
}

// Persist is the consumer-side handler that lands streamed entries in the
// store.
func (r *Recorder) Persist(entry models.ActivityLog) {
	if err := r.Store.Insert(context.Background(), entry); err != nil {
		r.Logger.Error("ACTIVITY", fmt.Sprintf("Failed to persist activity entry %s: %v", entry.ID, err))
		return
	}
	r.Logger.LogActivity(entry.Action, entry.EntityType, entry.Details)
}
