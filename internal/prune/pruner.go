// Package prune implements the order retention job: orders older than
// the retention window are deleted from the store in one
// load-filter-save pass.
package prune

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/viduramedix/pos/internal/models"
	"github.com/viduramedix/pos/internal/storage"
	"github.com/viduramedix/pos/pkg/metrics"
)

// DefaultRetentionMonths is the retention window when none is
// configured.
const DefaultRetentionMonths = 3

// Result reports one pruning run.
type Result struct {
	Pruned int
	Kept   int
	Cutoff time.Time
}

// Pruner deletes orders whose created_at predates the retention
// window. Orders with a missing or unparsable created_at are
// conservatively retained.
type Pruner struct {
	orders          storage.Collection[models.Order]
	retentionMonths int
	now             func() time.Time
}

// New creates a Pruner. retentionMonths <= 0 selects the default.
func New(orders storage.Collection[models.Order], retentionMonths int) *Pruner {
	if retentionMonths <= 0 {
		retentionMonths = DefaultRetentionMonths
	}
	return &Pruner{
		orders:          orders,
		retentionMonths: retentionMonths,
		now:             time.Now,
	}
}

// Run prunes once and reports counts plus the cutoff used. The save is
// part of the store's critical section, so a run cannot clobber an
// order created while it filters.
func (p *Pruner) Run(ctx context.Context) (Result, error) {
	cutoff := p.now().AddDate(0, -p.retentionMonths, 0)
	res := Result{Cutoff: cutoff}

	err := p.orders.Update(ctx, func(orders []models.Order) ([]models.Order, error) {
		retained := make([]models.Order, 0, len(orders))
		for _, order := range orders {
			if keepOrder(order, cutoff) {
				retained = append(retained, order)
				res.Kept++
			} else {
				res.Pruned++
			}
		}
		return retained, nil
	})
	if err != nil {
		return Result{}, fmt.Errorf("prune orders: %w", err)
	}

	metrics.PrunedOrders.Add(float64(res.Pruned))
	slog.Info("order pruning finished",
		"pruned", res.Pruned, "kept", res.Kept,
		"cutoff", cutoff.Format(models.TimeFormat))
	return res, nil
}

func keepOrder(order models.Order, cutoff time.Time) bool {
	if order.CreatedAt == "" {
		slog.Warn("order kept during pruning: missing created_at", "order_id", order.ID)
		return true
	}
	createdAt, err := time.Parse(models.TimeFormat, order.CreatedAt)
	if err != nil {
		slog.Warn("order kept during pruning: unparsable created_at",
			"order_id", order.ID, "created_at", order.CreatedAt)
		return true
	}
	return !createdAt.Before(cutoff)
}
