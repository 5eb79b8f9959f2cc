package bridge

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Pipeline names used as checkpoint cursor keys.
const (
	pipelineOrders    = "orders"
	pipelineCustomers = "customers"
	pipelineProducts  = "products"
)

// Service runs the three forward-sync pipelines on every scheduler tick:
// approved CRM orders into the inventory system, new CRM accounts into the
// inventory system and finished inventory products into the CRM. Pipelines
// are independent; a failure in one never suppresses the others.
type Service struct {
	orders      *OrderDetector
	customers   *CustomerDetector
	products    *ProductTransitionDetector
	translator  *Translator
	crm         CRMClient
	inv         InventoryClient
	notifier    Notifier
	checkpoints CheckpointStore
	now         func() time.Time
	log         *zap.Logger
}

// NewService wires the tick pipeline. checkpoints may be nil, in which case
// restarts fall back to the plain trailing window.
func NewService(
	orders *OrderDetector,
	customers *CustomerDetector,
	products *ProductTransitionDetector,
	translator *Translator,
	crm CRMClient,
	inv InventoryClient,
	notifier Notifier,
	checkpoints CheckpointStore,
	log *zap.Logger,
) *Service {
	return &Service{
		orders:      orders,
		customers:   customers,
		products:    products,
		translator:  translator,
		crm:         crm,
		inv:         inv,
		notifier:    notifier,
		checkpoints: checkpoints,
		now:         time.Now,
		log:         log,
	}
}

// Restore loads persisted poll cursors and widens each detector's first
// window back to its last checkpoint. Missing or unreadable cursors are
// logged and skipped.
func (s *Service) Restore(ctx context.Context) {
	if s.checkpoints == nil {
		return
	}
	for _, p := range []struct {
		name   string
		resume func(time.Time)
	}{
		{pipelineOrders, s.orders.Resume},
		{pipelineCustomers, s.customers.Resume},
	} {
		cursor, err := s.checkpoints.Cursor(ctx, p.name)
		if err != nil {
			s.log.Warn("cursor load failed", zap.String("pipeline", p.name), zap.Error(err))
			continue
		}
		if cursor.IsZero() {
			continue
		}
		p.resume(cursor)
		s.log.Info("resuming pipeline from checkpoint",
			zap.String("pipeline", p.name),
			zap.Time("cursor", cursor),
		)
	}
}

// RunTick executes the three pipelines sequentially. Each pipeline detects
// at most one change, translates it and writes it to the counterpart system.
func (s *Service) RunTick(ctx context.Context) {
	s.syncOrders(ctx)
	s.syncCustomers(ctx)
	s.syncProducts(ctx)
}

func (s *Service) syncOrders(ctx context.Context) {
	tickStart := s.now()

	order, changed := s.orders.Latest(ctx)
	if changed {
		payload := s.translator.TranslateOrder(ctx, order)
		ok, body := s.inv.PutOrder(ctx, payload)
		if ok {
			s.log.Info("order created in inventory",
				zap.String("order_number", payload.OrderNumber),
				zap.String("crm_order_id", order.ID),
			)
			s.notifier.OrderCreated(ctx, payload.OrderNumber)
		} else {
			s.log.Error("order create rejected",
				zap.String("order_number", payload.OrderNumber),
				zap.ByteString("response", body),
			)
			s.notifier.OrderCreateFailed(ctx, payload.OrderNumber, string(body))
		}
	}

	s.saveCursor(ctx, pipelineOrders, tickStart)
}

func (s *Service) syncCustomers(ctx context.Context) {
	tickStart := s.now()

	account, changed := s.customers.Latest(ctx)
	if changed {
		payload := s.translator.TranslateCustomer(account)
		ok, body := s.inv.PutCustomer(ctx, payload)
		if ok {
			s.log.Info("customer created in inventory", zap.String("name", payload.Name))
			s.notifier.CustomerCreated(ctx, payload.Name)
		} else {
			s.log.Error("customer create rejected",
				zap.String("name", payload.Name),
				zap.ByteString("response", body),
			)
			s.notifier.CustomerCreateFailed(ctx, payload.Name, string(body))
		}
	}

	s.saveCursor(ctx, pipelineCustomers, tickStart)
}

func (s *Service) syncProducts(ctx context.Context) {
	tickStart := s.now()

	product, changed := s.products.Latest(ctx)
	if changed {
		payload := s.translator.TranslateProduct(product)
		ok, body := s.crm.CreateProduct(ctx, payload)
		if ok {
			s.log.Info("product created in crm",
				zap.String("sku", payload.SKU),
				zap.String("name", payload.Name),
			)
			s.notifier.ProductCreated(ctx, payload.Name)
		} else {
			s.log.Error("product create rejected",
				zap.String("sku", payload.SKU),
				zap.ByteString("response", body),
			)
			s.notifier.ProductCreateFailed(ctx, payload.Name, string(body))
		}
	}

	s.saveCursor(ctx, pipelineProducts, tickStart)
}

func (s *Service) saveCursor(ctx context.Context, pipeline string, t time.Time) {
	if s.checkpoints == nil {
		return
	}
	if err := s.checkpoints.SaveCursor(ctx, pipeline, t); err != nil {
		s.log.Warn("cursor save failed", zap.String("pipeline", pipeline), zap.Error(err))
	}
}
