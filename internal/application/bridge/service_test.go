package bridge

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/syncbridge/backend/internal/domain/integration"
)

func newTestService(crm *MockCRMClient, inv *MockInventoryClient, notifier *MockNotifier, checkpoints CheckpointStore, now time.Time) *Service {
	log := zap.NewNop()
	orders := NewOrderDetector(crm, time.Minute, log)
	orders.now = func() time.Time { return now }
	customers := NewCustomerDetector(crm, time.Minute, log)
	customers.now = func() time.Time { return now }
	products := NewProductTransitionDetector(inv, time.Minute, log)
	products.now = func() time.Time { return now }
	translator := NewTranslator(crm, inv, log)
	translator.now = func() time.Time { return now }

	svc := NewService(orders, customers, products, translator, crm, inv, notifier, checkpoints, log)
	svc.now = func() time.Time { return now }
	return svc
}

func TestService_RunTick(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	ctx := context.Background()

	t.Run("order pipeline creates and notifies", func(t *testing.T) {
		crm := new(MockCRMClient)
		inv := new(MockInventoryClient)
		notifier := new(MockNotifier)
		svc := newTestService(crm, inv, notifier, nil, now)

		order := integration.Order{ID: "801xx", OrderNumber: "00001042"}
		crm.On("QueryRecentApprovedOrders", mock.Anything, mock.Anything).
			Return([]integration.Order{order}, nil)
		crm.On("QueryRecentAccounts", mock.Anything, mock.Anything).
			Return([]integration.Account{}, nil)
		crm.On("GetOrderProducts", mock.Anything, "801xx").
			Return(map[string]integration.OrderItem{}, nil)
		inv.On("ListProducts", mock.Anything).Return(integration.ProductIndex{})
		inv.On("PutOrder", mock.Anything, mock.MatchedBy(func(p *integration.OrderPayload) bool {
			return p.OrderNumber == "SO-00001042"
		})).Return(true, []byte(nil))
		notifier.On("OrderCreated", mock.Anything, "SO-00001042").Return()

		svc.RunTick(ctx)

		inv.AssertExpectations(t)
		notifier.AssertExpectations(t)
	})

	t.Run("rejected create notifies failure and later pipelines still run", func(t *testing.T) {
		crm := new(MockCRMClient)
		inv := new(MockInventoryClient)
		notifier := new(MockNotifier)
		svc := newTestService(crm, inv, notifier, nil, now)

		crm.On("QueryRecentApprovedOrders", mock.Anything, mock.Anything).
			Return([]integration.Order{{ID: "801xx", OrderNumber: "00001042"}}, nil)
		crm.On("GetOrderProducts", mock.Anything, "801xx").
			Return(map[string]integration.OrderItem{}, nil)
		inv.On("ListProducts", mock.Anything).Return(integration.ProductIndex{})
		inv.On("PutOrder", mock.Anything, mock.Anything).Return(false, []byte("bad request"))
		notifier.On("OrderCreateFailed", mock.Anything, "SO-00001042", "bad request").Return()

		crm.On("QueryRecentAccounts", mock.Anything, mock.Anything).
			Return([]integration.Account{{ID: "001xx", Name: "Acme Corp"}}, nil)
		inv.On("PutCustomer", mock.Anything, mock.MatchedBy(func(p *integration.CustomerPayload) bool {
			return p.Name == "Acme Corp"
		})).Return(true, []byte(nil))
		notifier.On("CustomerCreated", mock.Anything, "Acme Corp").Return()

		svc.RunTick(ctx)

		notifier.AssertExpectations(t)
		inv.AssertExpectations(t)
	})

	t.Run("finished product transition creates a CRM product", func(t *testing.T) {
		crm := new(MockCRMClient)
		inv := new(MockInventoryClient)
		notifier := new(MockNotifier)
		svc := newTestService(crm, inv, notifier, nil, now)

		crm.On("QueryRecentApprovedOrders", mock.Anything, mock.Anything).
			Return([]integration.Order{}, nil)
		crm.On("QueryRecentAccounts", mock.Anything, mock.Anything).
			Return([]integration.Account{}, nil)

		inv.On("ListProducts", mock.Anything).Return(integration.ProductIndex{
			"WID-100": {SKU: "WID-100", Finished: "", LastModified: stamp(now.Add(-time.Hour))},
		}).Once()
		svc.products.Seed(ctx)

		inv.On("ListProducts", mock.Anything).Return(integration.ProductIndex{
			"WID-100": {SKU: "WID-100", Name: "Widget", UnitPrice: "19.99", Finished: integration.FinishedYes, LastModified: stamp(now.Add(-5 * time.Second))},
		}).Once()
		crm.On("CreateProduct", mock.Anything, mock.MatchedBy(func(p *integration.ProductPayload) bool {
			return p.SKU == "WID-100" && p.ListPrice == "19.99"
		})).Return(true, []byte(nil))
		notifier.On("ProductCreated", mock.Anything, "Widget").Return()

		svc.RunTick(ctx)

		crm.AssertExpectations(t)
		notifier.AssertExpectations(t)
	})

	t.Run("cursors are saved per pipeline", func(t *testing.T) {
		crm := new(MockCRMClient)
		inv := new(MockInventoryClient)
		notifier := new(MockNotifier)
		checkpoints := new(MockCheckpointStore)
		svc := newTestService(crm, inv, notifier, checkpoints, now)

		crm.On("QueryRecentApprovedOrders", mock.Anything, mock.Anything).
			Return([]integration.Order{}, nil)
		crm.On("QueryRecentAccounts", mock.Anything, mock.Anything).
			Return([]integration.Account{}, nil)
		inv.On("ListProducts", mock.Anything).Return(integration.ProductIndex{})
		checkpoints.On("SaveCursor", mock.Anything, "orders", now).Return(nil)
		checkpoints.On("SaveCursor", mock.Anything, "customers", now).Return(nil)
		checkpoints.On("SaveCursor", mock.Anything, "products", now).Return(errors.New("disk full"))

		svc.RunTick(ctx)

		checkpoints.AssertExpectations(t)
	})
}

func TestService_Restore(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	ctx := context.Background()

	t.Run("nil store is a no-op", func(t *testing.T) {
		svc := newTestService(new(MockCRMClient), new(MockInventoryClient), new(MockNotifier), nil, now)
		svc.Restore(ctx)
	})

	t.Run("persisted cursors widen the first windows", func(t *testing.T) {
		crm := new(MockCRMClient)
		checkpoints := new(MockCheckpointStore)
		svc := newTestService(crm, new(MockInventoryClient), new(MockNotifier), checkpoints, now)

		cursor := now.Add(-2 * time.Hour)
		checkpoints.On("Cursor", mock.Anything, "orders").Return(cursor, nil)
		checkpoints.On("Cursor", mock.Anything, "customers").Return(time.Time{}, nil)

		svc.Restore(ctx)

		crm.On("QueryRecentApprovedOrders", mock.Anything, cursor).
			Return([]integration.Order{}, nil).Once()
		crm.On("QueryRecentAccounts", mock.Anything, now.Add(-time.Minute)).
			Return([]integration.Account{}, nil).Once()

		svc.orders.Latest(ctx)
		svc.customers.Latest(ctx)

		crm.AssertExpectations(t)
	})
}
