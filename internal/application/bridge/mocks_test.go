package bridge

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/syncbridge/backend/internal/domain/integration"
)

// MockCRMClient is a mock implementation of CRMClient
type MockCRMClient struct {
	mock.Mock
}

func (m *MockCRMClient) QueryRecentApprovedOrders(ctx context.Context, since time.Time) ([]integration.Order, error) {
	args := m.Called(ctx, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]integration.Order), args.Error(1)
}

func (m *MockCRMClient) QueryRecentAccounts(ctx context.Context, since time.Time) ([]integration.Account, error) {
	args := m.Called(ctx, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]integration.Account), args.Error(1)
}

func (m *MockCRMClient) GetAccountName(ctx context.Context, accountID string) (string, error) {
	args := m.Called(ctx, accountID)
	return args.String(0), args.Error(1)
}

func (m *MockCRMClient) GetOrderProducts(ctx context.Context, orderID string) (map[string]integration.OrderItem, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]integration.OrderItem), args.Error(1)
}

func (m *MockCRMClient) UpdateOrderStatus(ctx context.Context, orderID, status, trackingNumbers string) (bool, []byte) {
	args := m.Called(ctx, orderID, status, trackingNumbers)
	body, _ := args.Get(1).([]byte)
	return args.Bool(0), body
}

func (m *MockCRMClient) CreateProduct(ctx context.Context, payload *integration.ProductPayload) (bool, []byte) {
	args := m.Called(ctx, payload)
	body, _ := args.Get(1).([]byte)
	return args.Bool(0), body
}

// MockInventoryClient is a mock implementation of InventoryClient
type MockInventoryClient struct {
	mock.Mock
}

func (m *MockInventoryClient) ListProducts(ctx context.Context) integration.ProductIndex {
	args := m.Called(ctx)
	return args.Get(0).(integration.ProductIndex)
}

func (m *MockInventoryClient) ListCustomers(ctx context.Context) integration.CustomerIndex {
	args := m.Called(ctx)
	return args.Get(0).(integration.CustomerIndex)
}

func (m *MockInventoryClient) GetOrder(ctx context.Context, salesOrderID string) (*integration.SalesOrder, error) {
	args := m.Called(ctx, salesOrderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.SalesOrder), args.Error(1)
}

func (m *MockInventoryClient) PutOrder(ctx context.Context, payload *integration.OrderPayload) (bool, []byte) {
	args := m.Called(ctx, payload)
	body, _ := args.Get(1).([]byte)
	return args.Bool(0), body
}

func (m *MockInventoryClient) PutCustomer(ctx context.Context, payload *integration.CustomerPayload) (bool, []byte) {
	args := m.Called(ctx, payload)
	body, _ := args.Get(1).([]byte)
	return args.Bool(0), body
}

// MockNotifier is a mock implementation of Notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) OrderCreated(ctx context.Context, orderNumber string) {
	m.Called(ctx, orderNumber)
}

func (m *MockNotifier) OrderCreateFailed(ctx context.Context, orderNumber, detail string) {
	m.Called(ctx, orderNumber, detail)
}

func (m *MockNotifier) CustomerCreated(ctx context.Context, name string) {
	m.Called(ctx, name)
}

func (m *MockNotifier) CustomerCreateFailed(ctx context.Context, name, detail string) {
	m.Called(ctx, name, detail)
}

func (m *MockNotifier) ProductCreated(ctx context.Context, name string) {
	m.Called(ctx, name)
}

func (m *MockNotifier) ProductCreateFailed(ctx context.Context, name, detail string) {
	m.Called(ctx, name, detail)
}

func (m *MockNotifier) OrderUpdated(ctx context.Context, orderNumber string) {
	m.Called(ctx, orderNumber)
}

func (m *MockNotifier) OrderUpdateFailed(ctx context.Context, orderNumber, detail string) {
	m.Called(ctx, orderNumber, detail)
}

// MockCheckpointStore is a mock implementation of CheckpointStore
type MockCheckpointStore struct {
	mock.Mock
}

func (m *MockCheckpointStore) Cursor(ctx context.Context, pipeline string) (time.Time, error) {
	args := m.Called(ctx, pipeline)
	return args.Get(0).(time.Time), args.Error(1)
}

func (m *MockCheckpointStore) SaveCursor(ctx context.Context, pipeline string, t time.Time) error {
	args := m.Called(ctx, pipeline, t)
	return args.Error(0)
}
