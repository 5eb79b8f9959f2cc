package bridge

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/syncbridge/backend/internal/domain/integration"
)

// ProductTransitionDetector is the state-diff change detector for inventory
// products. It compares each refreshed product index against a cached
// snapshot and fires once per finished-flag transition: previous flag empty,
// current flag terminal, and the record's own timestamp close enough to now.
//
// The snapshot must be seeded before the first tick; products already
// finished at seed time never fire. The snapshot is shared state between
// ticks, so transition consumption is a synchronized compare-and-swap: the
// tick that consumes a transition marks the snapshot entry in place and no
// later tick can observe the same transition again.
type ProductTransitionDetector struct {
	inv    InventoryClient
	window time.Duration
	now    func() time.Time
	log    *zap.Logger

	mu       sync.Mutex
	snapshot integration.ProductIndex
}

// NewProductTransitionDetector creates an unseeded detector.
func NewProductTransitionDetector(inv InventoryClient, window time.Duration, log *zap.Logger) *ProductTransitionDetector {
	return &ProductTransitionDetector{
		inv:      inv,
		window:   window,
		now:      time.Now,
		log:      log,
		snapshot: integration.ProductIndex{},
	}
}

// Seed establishes the "previous" baseline from a full fetch. An empty fetch
// (remote failure) leaves an empty baseline; unknown SKUs observed later are
// treated as not-a-transition until a reseed.
func (d *ProductTransitionDetector) Seed(ctx context.Context) {
	index := d.inv.ListProducts(ctx)
	d.mu.Lock()
	d.snapshot = index
	d.mu.Unlock()
	d.log.Info("product snapshot seeded", zap.Int("products", len(index)))
}

// Latest re-fetches the product index and returns the first unconsumed
// finished-flag transition whose record timestamp is within the window,
// plus a changed flag.
func (d *ProductTransitionDetector) Latest(ctx context.Context) (integration.Product, bool) {
	current := d.inv.ListProducts(ctx)
	now := d.now()

	for sku, cur := range current {
		if cur.Finished != integration.FinishedYes {
			continue
		}
		ts, err := integration.ParseTimestamp(cur.LastModified)
		if err != nil {
			d.log.Warn("unparseable product timestamp",
				zap.String("sku", sku),
				zap.Error(err),
			)
			continue
		}
		if now.Sub(ts) > d.window {
			continue
		}
		if d.consumeTransition(sku) {
			return cur, true
		}
	}

	d.log.Debug("no finished product transitions")
	return integration.Product{}, false
}

// consumeTransition atomically claims the sku's transition. It returns true
// only when the cached entry exists with an empty finished flag, and marks
// it terminal so the transition cannot fire twice.
func (d *ProductTransitionDetector) consumeTransition(sku string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	prev, ok := d.snapshot[sku]
	if !ok || prev.Finished != "" {
		return false
	}
	prev.Finished = integration.FinishedYes
	d.snapshot[sku] = prev
	return true
}
