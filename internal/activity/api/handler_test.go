package api_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"jastip-express/internal/activity"
	"jastip-express/internal/activity/api"
	"jastip-express/internal/logger"
	"jastip-express/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) Insert(ctx context.Context, entry models.ActivityLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockStore) ListRecent(ctx context.Context, limit int) ([]models.ActivityLog, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]models.ActivityLog), args.Error(1)
}

var _ activity.Store = (*MockStore)(nil)

func listLogs(t *testing.T, store *MockStore, target string) *httptest.ResponseRecorder {
	t.Helper()
	handler := api.NewHandler(store, logger.NewLogger())
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	handler.ListLogs(rec, req)
	return rec
}

func TestListLogsDefaultLimit(t *testing.T) {
	store := new(MockStore)
	store.On("ListRecent", mock.Anything, 100).Return([]models.ActivityLog{}, nil)

	rec := listLogs(t, store, "/api/activity-logs")

	assert.Equal(t, http.StatusOK, rec.Code)
	store.AssertExpectations(t)
}

func TestListLogsClampsOversizedLimit(t *testing.T) {
	store := new(MockStore)
	store.On("ListRecent", mock.Anything, 500).Return([]models.ActivityLog{}, nil)

	rec := listLogs(t, store, "/api/activity-logs?limit=10000000")

	assert.Equal(t, http.StatusOK, rec.Code)
	store.AssertExpectations(t)
}

func TestListLogsRejectsBadLimit(t *testing.T) {
	for _, raw := range []string{"0", "-5", "abc"} {
		store := new(MockStore)

		rec := listLogs(t, store, "/api/activity-logs?limit="+raw)

		assert.Equal(t, http.StatusBadRequest, rec.Code, "limit=%s", raw)
		store.AssertNotCalled(t, "ListRecent", mock.Anything, mock.Anything)
	}
}
