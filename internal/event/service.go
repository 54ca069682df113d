package event

import (
	"context"
	"errors"
	"fmt"
	"time"

	"jastip-express/internal/models"

	"github.com/google/uuid"
)

var (
	ErrValidation = errors.New("invalid event data")
	ErrForbidden  = errors.New("not allowed to modify this event")
)

type DBLayer interface {
	GetEventByID(ctx context.Context, id string) (*models.Event, error)
	CreateEvent(ctx context.Context, event models.Event) error
	UpdateEvent(ctx context.Context, event models.Event) error
	DeleteEvent(ctx context.Context, id string) error
	ListEvents(ctx context.Context) ([]models.Event, error)
}

type ActivityRecorder interface {
	Record(userID, userEmail, action, entityType, entityID, details string)
}

type EventService struct {
	DB       DBLayer
	Activity ActivityRecorder
}

func NewEventService(db DBLayer, activity ActivityRecorder) *EventService {
	return &EventService{DB: db, Activity: activity}
}

func validateRequest(req models.EventRequest) error {
	if req.Name == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrValidation)
	}
	return nil
}

// CreateEvent registers a new jastip trip owned by the caller.
func (s *EventService) CreateEvent(ctx context.Context, userID, userEmail string, req models.EventRequest) (*models.Event, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	event := models.Event{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Description: req.Description,
		Date:        req.Date,
		CatalogURL:  req.CatalogURL,
		OwnerID:     userID,
		CreatedAt:   time.Now(),
	}

	if err := s.DB.CreateEvent(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	s.Activity.Record(userID, userEmail, models.ActionCreate, models.EntityEvent, event.ID,
		fmt.Sprintf("Created event %q.", event.Name))

	return &event, nil
}

func (s *EventService) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	return s.DB.GetEventByID(ctx, id)
}

func (s *EventService) ListEvents(ctx context.Context) ([]models.Event, error) {
	return s.DB.ListEvents(ctx)
}

// UpdateEvent edits an event's details. Ownership never changes here.
func (s *EventService) UpdateEvent(ctx context.Context, eventID, userID, userEmail string, req models.EventRequest) (*models.Event, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	event, err := s.DB.GetEventByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("event %s not found: %w", eventID, err)
	}
	if !event.CanModify(userID) {
		return nil, ErrForbidden
	}

	event.Name = req.Name
	event.Description = req.Description
	event.Date = req.Date
	event.CatalogURL = req.CatalogURL

	if err := s.DB.UpdateEvent(ctx, *event); err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}

	s.Activity.Record(userID, userEmail, models.ActionUpdate, models.EntityEvent, eventID,
		fmt.Sprintf("Updated event %q.", event.Name))

	return event, nil
}

// DeleteEvent removes an event. Its orders are not cascaded.
func (s *EventService) DeleteEvent(ctx context.Context, eventID, userID, userEmail string) error {
	event, err := s.DB.GetEventByID(ctx, eventID)
	if err != nil {
		return fmt.Errorf("event %s not found: %w", eventID, err)
	}
	if !event.CanModify(userID) {
		return ErrForbidden
	}

	if err := s.DB.DeleteEvent(ctx, eventID); err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}

	s.Activity.Record(userID, userEmail, models.ActionDelete, models.EntityEvent, eventID,
		fmt.Sprintf("Deleted event %q.", event.Name))

	return nil
}
