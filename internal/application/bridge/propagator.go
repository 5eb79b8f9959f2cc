package bridge

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/syncbridge/backend/internal/domain/integration"
)

// shippedStatus is the CRM order status written on successful propagation.
const shippedStatus = "Shipped"

// Outcome is the terminal state of one webhook propagation attempt. Every
// outcome maps to the same HTTP response; the distinction exists for logs
// and tests.
type Outcome string

const (
	// OutcomeOrderUnknown - the owning system could not produce the order.
	OutcomeOrderUnknown Outcome = "order_unknown"
	// OutcomeNotActionable - completion or recency condition not met. Not an
	// error; the order is simply not ready.
	OutcomeNotActionable Outcome = "not_actionable"
	// OutcomeDuplicate - the order number was already propagated.
	OutcomeDuplicate Outcome = "duplicate"
	// OutcomeNoProvenance - the order carries no CRM back-reference.
	OutcomeNoProvenance Outcome = "no_provenance"
	// OutcomePropagated - the status update reached the CRM.
	OutcomePropagated Outcome = "propagated"
	// OutcomeFailed - the CRM rejected the status update.
	OutcomeFailed Outcome = "failed"
)

// Propagator pushes an order's shipped state back to the CRM when the
// inventory system reports it shipped. One inbound event runs the pipeline
// fetch → evaluate → deduplicate → propagate; every stage exit is terminal
// and failures are never retried here.
type Propagator struct {
	inv       InventoryClient
	crm       CRMClient
	dedup     integration.IdempotencyStore
	notifier  Notifier
	location  *time.Location
	tolerance time.Duration
	dedupTTL  time.Duration
	now       func() time.Time
	log       *zap.Logger
}

// NewPropagator creates a propagator. The tolerance bounds how old a shipped
// timestamp may be, evaluated against now in the given business timezone.
func NewPropagator(
	inv InventoryClient,
	crm CRMClient,
	dedup integration.IdempotencyStore,
	notifier Notifier,
	location *time.Location,
	tolerance, dedupTTL time.Duration,
	log *zap.Logger,
) *Propagator {
	return &Propagator{
		inv:       inv,
		crm:       crm,
		dedup:     dedup,
		notifier:  notifier,
		location:  location,
		tolerance: tolerance,
		dedupTTL:  dedupTTL,
		now:       time.Now,
		log:       log,
	}
}

// HandleOrderUpdate runs the propagation state machine for the referenced
// sales order.
func (p *Propagator) HandleOrderUpdate(ctx context.Context, salesOrderID string) Outcome {
	order, err := p.inv.GetOrder(ctx, salesOrderID)
	if err != nil {
		p.log.Warn("fetching sales order failed",
			zap.String("sales_order_id", salesOrderID),
			zap.Error(err),
		)
		return OutcomeOrderUnknown
	}

	if !p.shouldPropagate(order) {
		return OutcomeNotActionable
	}

	// Atomic check-and-mark: the tick path and concurrent webhook
	// deliveries race on the same order number, and exactly one caller may
	// proceed past this point.
	fresh, err := p.dedup.MarkProcessed(ctx, order.OrderNumber, p.dedupTTL)
	if err != nil {
		p.log.Error("dedup store unavailable",
			zap.String("order_number", order.OrderNumber),
			zap.Error(err),
		)
		return OutcomeNotActionable
	}
	if !fresh {
		p.log.Info("order already propagated", zap.String("order_number", order.OrderNumber))
		return OutcomeDuplicate
	}

	crmOrderID := order.CRMOrderID()
	if crmOrderID == "" {
		p.log.Warn("sales order has no provenance reference",
			zap.String("order_number", order.OrderNumber),
		)
		return OutcomeNoProvenance
	}

	tracking := strings.Join(order.TrackingNumbers(), ",")
	ok, body := p.crm.UpdateOrderStatus(ctx, crmOrderID, shippedStatus, tracking)
	if !ok {
		p.notifier.OrderUpdateFailed(ctx, order.OrderNumber, string(body))
		return OutcomeFailed
	}

	p.notifier.OrderUpdated(ctx, order.OrderNumber)
	return OutcomePropagated
}

// shouldPropagate evaluates the trigger condition: the order is completed
// and its shipped timestamp is within the tolerance of now in the business
// timezone. An absent or unparseable shipped date means "not yet
// actionable", not an error.
func (p *Propagator) shouldPropagate(order *integration.SalesOrder) bool {
	if !order.IsCompleted || order.ShippedDate == "" {
		return false
	}
	shipped, err := integration.ParseTimestamp(order.ShippedDate)
	if err != nil {
		p.log.Warn("unparseable shipped date",
			zap.String("order_number", order.OrderNumber),
			zap.Error(err),
		)
		return false
	}
	elapsed := p.now().In(p.location).Sub(shipped)
	return elapsed <= p.tolerance
}
