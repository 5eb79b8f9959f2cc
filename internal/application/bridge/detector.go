package bridge

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/syncbridge/backend/internal/domain/integration"
)

// OrderDetector is the timestamp-window change detector for CRM orders. Each
// invocation scans the trailing window for orders that reached the
// "Approved to Ship" status and yields at most one representative record.
type OrderDetector struct {
	crm    CRMClient
	window time.Duration
	now    func() time.Time
	log    *zap.Logger

	mu         sync.Mutex
	resumeFrom time.Time
}

// NewOrderDetector creates a detector with the given trailing window.
func NewOrderDetector(crm CRMClient, window time.Duration, log *zap.Logger) *OrderDetector {
	return &OrderDetector{crm: crm, window: window, now: time.Now, log: log}
}

// Resume extends the first window back to a persisted boundary so events
// that occurred while the process was down are re-scanned.
func (d *OrderDetector) Resume(from time.Time) {
	d.mu.Lock()
	d.resumeFrom = from
	d.mu.Unlock()
}

// Latest returns the most recent order whose status changed within the
// window, plus a changed flag. Query failures are logged and reported as
// "no change".
func (d *OrderDetector) Latest(ctx context.Context) (integration.Order, bool) {
	w := nextWindow(&d.mu, &d.resumeFrom, d.now(), d.window)

	orders, err := d.crm.QueryRecentApprovedOrders(ctx, w.Start)
	if err != nil {
		d.log.Warn("order poll failed", zap.Error(err))
		return integration.Order{}, false
	}
	if len(orders) == 0 {
		d.log.Debug("no order status updates in window", zap.Time("window_start", w.Start))
		return integration.Order{}, false
	}
	return orders[0], true
}

// CustomerDetector is the timestamp-window change detector for newly created
// CRM accounts. There is no status predicate; creation inside the window is
// the change.
type CustomerDetector struct {
	crm    CRMClient
	window time.Duration
	now    func() time.Time
	log    *zap.Logger

	mu         sync.Mutex
	resumeFrom time.Time
}

// NewCustomerDetector creates a detector with the given trailing window.
func NewCustomerDetector(crm CRMClient, window time.Duration, log *zap.Logger) *CustomerDetector {
	return &CustomerDetector{crm: crm, window: window, now: time.Now, log: log}
}

// Resume extends the first window back to a persisted boundary.
func (d *CustomerDetector) Resume(from time.Time) {
	d.mu.Lock()
	d.resumeFrom = from
	d.mu.Unlock()
}

// Latest returns the most recently created account within the window, plus a
// changed flag.
func (d *CustomerDetector) Latest(ctx context.Context) (integration.Account, bool) {
	w := nextWindow(&d.mu, &d.resumeFrom, d.now(), d.window)

	accounts, err := d.crm.QueryRecentAccounts(ctx, w.Start)
	if err != nil {
		d.log.Warn("customer poll failed", zap.Error(err))
		return integration.Account{}, false
	}
	if len(accounts) == 0 {
		d.log.Debug("no customer creations in window", zap.Time("window_start", w.Start))
		return integration.Account{}, false
	}
	return accounts[0], true
}

// nextWindow computes the trailing window and consumes a pending resume
// boundary, widening the first window after a restart.
func nextWindow(mu *sync.Mutex, resumeFrom *time.Time, now time.Time, interval time.Duration) integration.Window {
	w := integration.NewWindow(now, interval)
	mu.Lock()
	if !resumeFrom.IsZero() {
		if resumeFrom.Before(w.Start) {
			w.Start = *resumeFrom
		}
		*resumeFrom = time.Time{}
	}
	mu.Unlock()
	return w
}
