package activity_test

import (
	"context"
	"errors"
	"testing"

	"jastip-express/internal/activity"
	"jastip-express/internal/logger"
	"jastip-express/internal/models"

	"github.com/stretchr/testify/mock"
)

// Mock implementations
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishActivity(entry models.ActivityLog) error {
	args := m.Called(entry)
	return args.Error(0)
}

type MockStore struct {
	mock.Mock
}

func (m *MockStore) Insert(ctx context.Context, entry models.ActivityLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockStore) ListRecent(ctx context.Context, limit int) ([]models.ActivityLog, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ActivityLog), args.Error(1)
}

// Tests start here
func TestRecordPublishesToKafka(t *testing.T) {
	mockPublisher := new(MockPublisher)
	mockStore := new(MockStore)
	recorder := activity.NewRecorder(mockPublisher, mockStore, logger.NewLogger())

	mockPublisher.On("PublishActivity", mock.MatchedBy(func(e models.ActivityLog) bool {
		return e.UserID == "user1" && e.Action == models.ActionCreate &&
			e.EntityType == models.EntityOrder && e.ID != ""
	})).Return(nil)

	recorder.Record("user1", "user@example.com", models.ActionCreate, models.EntityOrder, "order1", "Created order.")

	mockPublisher.AssertExpectations(t)
	// The store is only hit by the consumer, never directly
	mockStore.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestRecordFallsBackToStore(t *testing.T) {
	mockStore := new(MockStore)
	recorder := activity.NewRecorder(nil, mockStore, logger.NewLogger())

	mockStore.On("Insert", mock.Anything, mock.MatchedBy(func(e models.ActivityLog) bool {
		return e.UserID == "user1" && e.Details == "Created order."
	})).Return(nil)

	recorder.Record("user1", "user@example.com", models.ActionCreate, models.EntityOrder, "order1", "Created order.")

	mockStore.AssertExpectations(t)
}

func TestRecordSkipsUnauthenticated(t *testing.T) {
	mockPublisher := new(MockPublisher)
	mockStore := new(MockStore)
	recorder := activity.NewRecorder(mockPublisher, mockStore, logger.NewLogger())

	// Missing user identity means the entry is dropped, not attributed to nobody
	recorder.Record("", "", models.ActionDelete, models.EntityOrder, "order1", "Deleted order.")

	mockPublisher.AssertNotCalled(t, "PublishActivity", mock.Anything)
	mockStore.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestRecordSwallowsPublishErrors(t *testing.T) {
	mockPublisher := new(MockPublisher)
	mockStore := new(MockStore)
	recorder := activity.NewRecorder(mockPublisher, mockStore, logger.NewLogger())

	mockPublisher.On("PublishActivity", mock.Anything).Return(errors.New("broker down"))

	// Must not panic or propagate; auditing never fails the audited call
	recorder.Record("user1", "user@example.com", models.ActionUpdate, models.EntityOrder, "order1", "Updated order.")

	mockPublisher.AssertExpectations(t)
}

func TestPersist(t *testing.T) {
	mockStore := new(MockStore)
	recorder := activity.NewRecorder(nil, mockStore, logger.NewLogger())

	entry := models.ActivityLog{
		ID:         "entry1",
		UserID:     "user1",
		UserEmail:  "user@example.com",
		Action:     models.ActionCreate,
		EntityType: models.EntityOrder,
		EntityID:   "order1",
		Details:    "Created order.",
	}
	mockStore.On("Insert", mock.Anything, entry).Return(nil)

	recorder.Persist(entry)

	mockStore.AssertExpectations(t)
}
