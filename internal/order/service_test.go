package order_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"jastip-express/internal/models"
	"jastip-express/internal/order"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// Mock implementations
type MockDBLayer struct {
	mock.Mock
}

func (m *MockDBLayer) GetOrderByID(ctx context.Context, id string) (*models.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockDBLayer) CreateOrder(ctx context.Context, o models.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockDBLayer) CreateOrders(ctx context.Context, orders []models.Order) error {
	args := m.Called(ctx, orders)
	return args.Error(0)
}

func (m *MockDBLayer) UpdateOrder(ctx context.Context, o models.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockDBLayer) DeleteOrder(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockDBLayer) ListByEvent(ctx context.Context, eventID string) ([]models.Order, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *MockDBLayer) ListByEventAndCreator(ctx context.Context, eventID, userID string) ([]models.Order, error) {
	args := m.Called(ctx, eventID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *MockDBLayer) ListByEventAndCustomer(ctx context.Context, eventID, customerName string) ([]models.Order, error) {
	args := m.Called(ctx, eventID, customerName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *MockDBLayer) DeleteByEventAndCustomer(ctx context.Context, eventID, customerName string) (int, error) {
	args := m.Called(ctx, eventID, customerName)
	return args.Int(0), args.Error(1)
}

type MockEventLookup struct {
	mock.Mock
}

func (m *MockEventLookup) GetEventByID(ctx context.Context, id string) (*models.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Event), args.Error(1)
}

type MockActivityRecorder struct {
	mock.Mock
}

func (m *MockActivityRecorder) Record(userID, userEmail, action, entityType, entityID, details string) {
	m.Called(userID, userEmail, action, entityType, entityID, details)
}

type MockChangeEmitter struct {
	mock.Mock
}

func (m *MockChangeEmitter) Emit(change models.OrderChange) {
	m.Called(change)
}

func newTestService() (*order.OrderService, *MockDBLayer, *MockEventLookup, *MockActivityRecorder, *MockChangeEmitter) {
	mockDB := new(MockDBLayer)
	mockEvents := new(MockEventLookup)
	mockActivity := new(MockActivityRecorder)
	mockEmitter := new(MockChangeEmitter)
	svc := order.NewOrderService(mockDB, mockEvents, mockActivity, mockEmitter)
	return svc, mockDB, mockEvents, mockActivity, mockEmitter
}

// Tests start here
func TestPlaceOrder(t *testing.T) {
	svc, mockDB, mockEvents, mockActivity, mockEmitter := newTestService()
	ctx := context.Background()

	testEvent := &models.Event{ID: "event456", Name: "Japan Trip", OwnerID: "owner1"}
	mockEvents.On("GetEventByID", ctx, "event456").Return(testEvent, nil)
	mockDB.On("CreateOrder", ctx, mock.MatchedBy(func(o models.Order) bool {
		return o.EventID == "event456" && o.Status == models.StatusNotPaid && o.ID != ""
	})).Return(nil)
	mockActivity.On("Record", "user123", "user@example.com", models.ActionCreate, models.EntityOrder,
		mock.Anything, mock.Anything).Return()
	mockEmitter.On("Emit", mock.MatchedBy(func(c models.OrderChange) bool {
		return c.Kind == "created" && c.EventID == "event456"
	})).Return()

	result, err := svc.PlaceOrder(ctx, "event456", "user123", "user@example.com", models.OrderRequest{
		CustomerName:    "Alice",
		ItemDescription: "Tokyo Banana",
		Quantity:        2,
		Price:           150000,
		JastipFee:       20000,
	})

	assert.NoError(t, err)
	assert.Equal(t, "Alice", result.CustomerName)
	assert.Equal(t, models.StatusNotPaid, result.Status)

	mockDB.AssertExpectations(t)
	mockActivity.AssertExpectations(t)
	mockEmitter.AssertExpectations(t)
}

func TestPlaceOrderValidation(t *testing.T) {
	svc, _, _, _, _ := newTestService()
	ctx := context.Background()

	// Missing item description
	_, err := svc.PlaceOrder(ctx, "event456", "user123", "user@example.com", models.OrderRequest{
		CustomerName: "Alice",
		Quantity:     1,
	})
	assert.ErrorIs(t, err, order.ErrValidation)

	// Quantity below one
	_, err = svc.PlaceOrder(ctx, "event456", "user123", "user@example.com", models.OrderRequest{
		ItemDescription: "Tokyo Banana",
		Quantity:        0,
	})
	assert.ErrorIs(t, err, order.ErrValidation)

	// Negative price
	_, err = svc.PlaceOrder(ctx, "event456", "user123", "user@example.com", models.OrderRequest{
		ItemDescription: "Tokyo Banana",
		Quantity:        1,
		Price:           -1,
	})
	assert.ErrorIs(t, err, order.ErrValidation)
}

func TestGetOrder(t *testing.T) {
	svc, mockDB, _, _, _ := newTestService()
	ctx := context.Background()

	testOrder := &models.Order{
		ID:              uuid.NewString(),
		EventID:         "event456",
		UserID:          "user123",
		CustomerName:    "Alice",
		ItemDescription: "Tokyo Banana",
		Quantity:        2,
		Status:          models.StatusNotPaid,
		CreatedAt:       time.Now(),
	}
	mockDB.On("GetOrderByID", ctx, testOrder.ID).Return(testOrder, nil)
	mockDB.On("GetOrderByID", ctx, "non-existent").Return(nil, errors.New("order not found"))

	result, err := svc.GetOrder(ctx, testOrder.ID)
	assert.NoError(t, err)
	assert.Equal(t, testOrder.ID, result.ID)

	result, err = svc.GetOrder(ctx, "non-existent")
	assert.Error(t, err)
	assert.Nil(t, result)

	mockDB.AssertExpectations(t)
}

func TestMarkPaid(t *testing.T) {
	svc, mockDB, mockEvents, mockActivity, mockEmitter := newTestService()
	ctx := context.Background()

	testOrder := &models.Order{
		ID:              "order1",
		EventID:         "event456",
		UserID:          "user123",
		CustomerName:    "Alice",
		ItemDescription: "Tokyo Banana",
		Quantity:        1,
		Status:          models.StatusNotPaid,
	}
	mockDB.On("GetOrderByID", ctx, "order1").Return(testOrder, nil)
	mockEvents.On("GetEventByID", ctx, "event456").Return(&models.Event{ID: "event456", OwnerID: "owner1"}, nil).Maybe()
	mockDB.On("UpdateOrder", ctx, mock.MatchedBy(func(o models.Order) bool {
		return o.ID == "order1" && o.Status == models.StatusPaid
	})).Return(nil)
	mockActivity.On("Record", "user123", "user@example.com", models.ActionUpdate, models.EntityOrder,
		"order1", mock.Anything).Return()
	mockEmitter.On("Emit", mock.MatchedBy(func(c models.OrderChange) bool {
		return c.Kind == "paid" && c.OrderID == "order1"
	})).Return()

	result, err := svc.MarkPaid(ctx, "order1", "user123", "user@example.com")

	assert.NoError(t, err)
	assert.Equal(t, models.StatusPaid, result.Status)
	mockDB.AssertExpectations(t)
}

func TestMarkPaidAlreadyPaid(t *testing.T) {
	svc, mockDB, _, _, _ := newTestService()
	ctx := context.Background()

	paidOrder := &models.Order{
		ID:      "order1",
		EventID: "event456",
		UserID:  "user123",
		Status:  models.StatusPaid,
	}
	mockDB.On("GetOrderByID", ctx, "order1").Return(paidOrder, nil)

	_, err := svc.MarkPaid(ctx, "order1", "user123", "user@example.com")

	assert.ErrorIs(t, err, order.ErrAlreadyPaid)
}

func TestMarkPaidUnknownStatus(t *testing.T) {
	svc, mockDB, _, _, _ := newTestService()
	ctx := context.Background()

	// A status outside the two known values must not be overwritten.
	weirdOrder := &models.Order{
		ID:      "order1",
		EventID: "event456",
		UserID:  "user123",
		Status:  "Refunded",
	}
	mockDB.On("GetOrderByID", ctx, "order1").Return(weirdOrder, nil)

	_, err := svc.MarkPaid(ctx, "order1", "user123", "user@example.com")

	assert.ErrorIs(t, err, order.ErrUnknownStatus)
}

func TestUpdateOrderForbidden(t *testing.T) {
	svc, mockDB, mockEvents, _, _ := newTestService()
	ctx := context.Background()

	testOrder := &models.Order{
		ID:      "order1",
		EventID: "event456",
		UserID:  "creator",
		Status:  models.StatusNotPaid,
	}
	mockDB.On("GetOrderByID", ctx, "order1").Return(testOrder, nil)
	mockEvents.On("GetEventByID", ctx, "event456").Return(&models.Event{ID: "event456", OwnerID: "owner1"}, nil)

	_, err := svc.UpdateOrder(ctx, "order1", "stranger", "stranger@example.com", models.OrderRequest{
		ItemDescription: "Tokyo Banana",
		Quantity:        1,
	})

	assert.ErrorIs(t, err, order.ErrForbidden)
}

func TestUpdateOrderEventOwnerAllowed(t *testing.T) {
	svc, mockDB, mockEvents, mockActivity, mockEmitter := newTestService()
	ctx := context.Background()

	testOrder := &models.Order{
		ID:      "order1",
		EventID: "event456",
		UserID:  "creator",
		Status:  models.StatusNotPaid,
	}
	mockDB.On("GetOrderByID", ctx, "order1").Return(testOrder, nil)
	mockEvents.On("GetEventByID", ctx, "event456").Return(&models.Event{ID: "event456", OwnerID: "owner1"}, nil)
	mockDB.On("UpdateOrder", ctx, mock.Anything).Return(nil)
	mockActivity.On("Record", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return()
	mockEmitter.On("Emit", mock.Anything).Return()

	result, err := svc.UpdateOrder(ctx, "order1", "owner1", "owner@example.com", models.OrderRequest{
		CustomerName:    "Alice",
		ItemDescription: "Shiroi Koibito",
		Quantity:        3,
		Price:           120000,
	})

	assert.NoError(t, err)
	assert.Equal(t, "Shiroi Koibito", result.ItemDescription)
	assert.Equal(t, 3, result.Quantity)
	mockDB.AssertExpectations(t)
}

func TestDeleteOrder(t *testing.T) {
	svc, mockDB, _, mockActivity, mockEmitter := newTestService()
	ctx := context.Background()

	testOrder := &models.Order{
		ID:              "order1",
		EventID:         "event456",
		UserID:          "user123",
		ItemDescription: "Tokyo Banana",
		Status:          models.StatusNotPaid,
	}
	mockDB.On("GetOrderByID", ctx, "order1").Return(testOrder, nil)
	mockDB.On("DeleteOrder", ctx, "order1").Return(nil)
	mockActivity.On("Record", "user123", "user@example.com", models.ActionDelete, models.EntityOrder,
		"order1", mock.Anything).Return()
	mockEmitter.On("Emit", mock.MatchedBy(func(c models.OrderChange) bool {
		return c.Kind == "deleted" && c.OrderID == "order1"
	})).Return()

	err := svc.DeleteOrder(ctx, "order1", "user123", "user@example.com")

	assert.NoError(t, err)
	mockDB.AssertExpectations(t)
}

func TestDeleteCustomerOrders(t *testing.T) {
	svc, mockDB, mockEvents, mockActivity, mockEmitter := newTestService()
	ctx := context.Background()

	mockEvents.On("GetEventByID", ctx, "event456").Return(&models.Event{ID: "event456", OwnerID: "owner1"}, nil)
	mockDB.On("DeleteByEventAndCustomer", ctx, "event456", "Alice").Return(3, nil)
	mockActivity.On("Record", "owner1", "owner@example.com", models.ActionDelete, models.EntityOrder,
		"customer-Alice", mock.Anything).Return()
	mockEmitter.On("Emit", mock.Anything).Return()

	deleted, err := svc.DeleteCustomerOrders(ctx, "event456", "Alice", "owner1", "owner@example.com")

	assert.NoError(t, err)
	assert.Equal(t, 3, deleted)
	mockDB.AssertExpectations(t)
}

func TestDeleteCustomerOrdersForbidden(t *testing.T) {
	svc, _, mockEvents, _, _ := newTestService()
	ctx := context.Background()

	mockEvents.On("GetEventByID", ctx, "event456").Return(&models.Event{ID: "event456", OwnerID: "owner1"}, nil)

	_, err := svc.DeleteCustomerOrders(ctx, "event456", "Alice", "stranger", "stranger@example.com")

	assert.ErrorIs(t, err, order.ErrForbidden)
}

func TestListForUser(t *testing.T) {
	svc, mockDB, mockEvents, _, _ := newTestService()
	ctx := context.Background()

	all := []models.Order{
		{ID: "o1", EventID: "event456", UserID: "owner1"},
		{ID: "o2", EventID: "event456", UserID: "helper"},
	}
	own := []models.Order{{ID: "o2", EventID: "event456", UserID: "helper"}}

	mockEvents.On("GetEventByID", ctx, "event456").Return(&models.Event{ID: "event456", OwnerID: "owner1"}, nil)
	mockDB.On("ListByEvent", ctx, "event456").Return(all, nil)
	mockDB.On("ListByEventAndCreator", ctx, "event456", "helper").Return(own, nil)

	// Event owner sees everything
	result, err := svc.ListForUser(ctx, "event456", "owner1")
	assert.NoError(t, err)
	assert.Len(t, result, 2)

	// Everyone else only their own orders
	result, err = svc.ListForUser(ctx, "event456", "helper")
	assert.NoError(t, err)
	assert.Len(t, result, 1)
	assert.Equal(t, "o2", result[0].ID)

	mockDB.AssertExpectations(t)
}

func TestListForUserOwnerlessEvent(t *testing.T) {
	svc, mockDB, mockEvents, _, _ := newTestService()
	ctx := context.Background()

	// Events with no recorded owner are open to any signed-in user.
	mockEvents.On("GetEventByID", ctx, "legacy").Return(&models.Event{ID: "legacy"}, nil)
	mockDB.On("ListByEvent", ctx, "legacy").Return([]models.Order{{ID: "o1"}}, nil)

	result, err := svc.ListForUser(ctx, "legacy", "anyone")

	assert.NoError(t, err)
	assert.Len(t, result, 1)
}

func TestImportOrders(t *testing.T) {
	svc, mockDB, mockEvents, mockActivity, mockEmitter := newTestService()
	ctx := context.Background()

	mockEvents.On("GetEventByID", ctx, "event456").Return(&models.Event{ID: "event456", OwnerID: "owner1"}, nil)
	mockDB.On("CreateOrders", ctx, mock.MatchedBy(func(orders []models.Order) bool {
		return len(orders) == 2 &&
			orders[0].Status == models.StatusNotPaid &&
			orders[1].Quantity == 1 // defaulted from zero
	})).Return(nil)
	mockActivity.On("Record", mock.Anything, mock.Anything, models.ActionCreate, models.EntityOrder,
		mock.Anything, mock.Anything).Return()
	mockEmitter.On("Emit", mock.Anything).Return()

	rows := []models.ImportRow{
		{CustomerName: "Alice", ItemDescription: "Tokyo Banana", Quantity: 2, Price: 150000},
		{CustomerName: "Bob", ItemDescription: "KitKat Matcha", Price: 50000},
		{CustomerName: "", ItemDescription: "No name, skipped"},
		{CustomerName: "Skipped too", ItemDescription: ""},
	}

	imported, err := svc.ImportOrders(ctx, "event456", "owner1", "owner@example.com", rows)

	assert.NoError(t, err)
	assert.Equal(t, 2, imported)
	mockDB.AssertExpectations(t)
}

func TestImportOrdersNoValidRows(t *testing.T) {
	svc, _, mockEvents, _, _ := newTestService()
	ctx := context.Background()

	mockEvents.On("GetEventByID", ctx, "event456").Return(&models.Event{ID: "event456"}, nil)

	_, err := svc.ImportOrders(ctx, "event456", "owner1", "owner@example.com", []models.ImportRow{
		{CustomerName: "", ItemDescription: ""},
	})

	assert.ErrorIs(t, err, order.ErrValidation)
}
