// Package bridge implements the reconciliation engine between the CRM and
// inventory systems: the poll-window change detectors, the record
// translation, the webhook-driven status propagation and the tick pipeline
// that strings them together.
package bridge

import (
	"context"
	"time"

	"github.com/syncbridge/backend/internal/domain/integration"
)

// CRMClient is the CRM system seen from the engine.
type CRMClient interface {
	QueryRecentApprovedOrders(ctx context.Context, since time.Time) ([]integration.Order, error)
	QueryRecentAccounts(ctx context.Context, since time.Time) ([]integration.Account, error)
	GetAccountName(ctx context.Context, accountID string) (string, error)
	GetOrderProducts(ctx context.Context, orderID string) (map[string]integration.OrderItem, error)
	UpdateOrderStatus(ctx context.Context, orderID, status, trackingNumbers string) (bool, []byte)
	CreateProduct(ctx context.Context, payload *integration.ProductPayload) (bool, []byte)
}

// InventoryClient is the inventory system seen from the engine. The list
// operations return empty indexes on failure; callers treat empty as
// "unknown", never as "no records exist".
type InventoryClient interface {
	ListProducts(ctx context.Context) integration.ProductIndex
	ListCustomers(ctx context.Context) integration.CustomerIndex
	GetOrder(ctx context.Context, salesOrderID string) (*integration.SalesOrder, error)
	PutOrder(ctx context.Context, payload *integration.OrderPayload) (bool, []byte)
	PutCustomer(ctx context.Context, payload *integration.CustomerPayload) (bool, []byte)
}

// Notifier announces create/update outcomes on the notification channel.
// Implementations are fire-and-forget and must never block a pipeline.
type Notifier interface {
	OrderCreated(ctx context.Context, orderNumber string)
	OrderCreateFailed(ctx context.Context, orderNumber, detail string)
	CustomerCreated(ctx context.Context, name string)
	CustomerCreateFailed(ctx context.Context, name, detail string)
	ProductCreated(ctx context.Context, name string)
	ProductCreateFailed(ctx context.Context, name, detail string)
	OrderUpdated(ctx context.Context, orderNumber string)
	OrderUpdateFailed(ctx context.Context, orderNumber, detail string)
}

// CheckpointStore persists the last successful poll window boundary per
// pipeline. Optional: a nil store keeps the best-effort,
// at-most-one-per-window semantics.
type CheckpointStore interface {
	Cursor(ctx context.Context, pipeline string) (time.Time, error)
	SaveCursor(ctx context.Context, pipeline string, t time.Time) error
}
