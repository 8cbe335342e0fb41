package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/viduramedix/pos/internal/calculator"
	"github.com/viduramedix/pos/internal/ident"
	"github.com/viduramedix/pos/internal/models"
	"github.com/viduramedix/pos/internal/storage"
)

var (
	ErrOrderNotFound         = errors.New("order not found")
	ErrOrderNotActive        = errors.New("order is no longer active")
	ErrOrderNotRefundable    = errors.New("only paid, completed orders can be refunded")
	ErrNoItems               = errors.New("order must contain at least one item")
	ErrPaymentMethodRequired = errors.New("payment method is required")
)

// OrderService owns the order lifecycle: active orders move to
// completed on payment or to cancelled on explicit cancel, and neither
// terminal state transitions further. Every mutation recomputes or
// stamps what it must and is durable only once the collection save
// succeeds.
type OrderService struct {
	orders  storage.Collection[models.Order]
	menu    storage.Collection[models.MenuItem]
	tables  *TableService
	taxRate decimal.Decimal
}

// NewOrderService creates an OrderService. taxRatePercent is the
// process-wide tax rate applied to every total computation.
func NewOrderService(orders storage.Collection[models.Order], menu storage.Collection[models.MenuItem], tables *TableService, taxRatePercent decimal.Decimal) *OrderService {
	return &OrderService{
		orders:  orders,
		menu:    menu,
		tables:  tables,
		taxRate: taxRatePercent,
	}
}

// Create opens a new active order. Lines with non-positive quantities
// are dropped before anything is persisted; an order with no remaining
// lines is rejected. The seated table, if given, is marked occupied.
func (s *OrderService) Create(ctx context.Context, tableID string, items []models.OrderItem, discount decimal.Decimal) (*models.Order, error) {
	lines := make([]models.OrderItem, 0, len(items))
	for _, item := range items {
		if item.Quantity <= 0 {
			continue
		}
		if item.Status == "" {
			item.Status = "pending"
		}
		lines = append(lines, item)
	}
	if len(lines) == 0 {
		return nil, ErrNoItems
	}
	if discount.IsNegative() {
		discount = decimal.Zero
	}

	catalog, _, err := s.menu.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load menu: %w", err)
	}
	totals := calculator.Calculate(lines, catalog, discount, s.taxRate)

	now := time.Now().Format(models.TimeFormat)
	order := models.Order{
		ID:            ident.New(),
		TableID:       tableID,
		Items:         lines,
		Status:        models.OrderActive,
		Discount:      totals.Discount,
		Tax:           totals.Tax,
		Total:         totals.Total,
		PaymentStatus: models.PaymentPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if tableID != "" {
		if err := s.tables.Occupy(ctx, tableID); err != nil {
			return nil, err
		}
	}

	err = s.orders.Update(ctx, func(orders []models.Order) ([]models.Order, error) {
		return append(orders, order), nil
	})
	if err != nil {
		return nil, fmt.Errorf("save order: %w", err)
	}

	slog.Info("order created", "order_id", order.ID, "table_id", tableID,
		"items", len(lines), "total", order.Total)
	return &order, nil
}

// UpdateItems replaces the line items and discount of an active order
// and stores the recomputed totals.
func (s *OrderService) UpdateItems(ctx context.Context, orderID string, items []models.OrderItem, discount decimal.Decimal) (*models.Order, error) {
	lines := make([]models.OrderItem, 0, len(items))
	for _, item := range items {
		if item.Quantity <= 0 {
			continue
		}
		if item.Status == "" {
			item.Status = "pending"
		}
		lines = append(lines, item)
	}
	if len(lines) == 0 {
		return nil, ErrNoItems
	}
	if discount.IsNegative() {
		discount = decimal.Zero
	}

	catalog, _, err := s.menu.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load menu: %w", err)
	}
	totals := calculator.Calculate(lines, catalog, discount, s.taxRate)

	var updated models.Order
	err = s.orders.Update(ctx, func(orders []models.Order) ([]models.Order, error) {
		i := findOrder(orders, orderID)
		if i < 0 {
			return nil, ErrOrderNotFound
		}
		if orders[i].Status != models.OrderActive {
			return nil, ErrOrderNotActive
		}
		orders[i].Items = lines
		orders[i].Discount = totals.Discount
		orders[i].Tax = totals.Tax
		orders[i].Total = totals.Total
		orders[i].UpdatedAt = time.Now().Format(models.TimeFormat)
		updated = orders[i]
		return orders, nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("order items updated", "order_id", orderID, "items", len(lines), "total", updated.Total)
	return &updated, nil
}

// CompletePayment moves an active order to completed with its payment
// marked paid. The payment method is the one caller-supplied value
// this transition is gated on: empty means the order is left exactly
// as it was. The order's table, if any, is released afterwards.
func (s *OrderService) CompletePayment(ctx context.Context, orderID, paymentMethod string) (*models.Order, error) {
	if paymentMethod == "" {
		return nil, ErrPaymentMethodRequired
	}

	var completed models.Order
	err := s.orders.Update(ctx, func(orders []models.Order) ([]models.Order, error) {
		i := findOrder(orders, orderID)
		if i < 0 {
			return nil, ErrOrderNotFound
		}
		if orders[i].Status != models.OrderActive {
			return nil, ErrOrderNotActive
		}
		orders[i].Status = models.OrderCompleted
		orders[i].PaymentMethod = paymentMethod
		orders[i].PaymentStatus = models.PaymentPaid
		orders[i].UpdatedAt = time.Now().Format(models.TimeFormat)
		completed = orders[i]
		return orders, nil
	})
	if err != nil {
		return nil, err
	}

	s.releaseTable(ctx, completed.TableID)
	slog.Info("order completed", "order_id", orderID, "payment_method", paymentMethod,
		"total", completed.Total)
	return &completed, nil
}

// Cancel moves an active order to cancelled and releases its table.
func (s *OrderService) Cancel(ctx context.Context, orderID string) (*models.Order, error) {
	var cancelled models.Order
	err := s.orders.Update(ctx, func(orders []models.Order) ([]models.Order, error) {
		i := findOrder(orders, orderID)
		if i < 0 {
			return nil, ErrOrderNotFound
		}
		if orders[i].Status != models.OrderActive {
			return nil, ErrOrderNotActive
		}
		orders[i].Status = models.OrderCancelled
		orders[i].UpdatedAt = time.Now().Format(models.TimeFormat)
		cancelled = orders[i]
		return orders, nil
	})
	if err != nil {
		return nil, err
	}

	s.releaseTable(ctx, cancelled.TableID)
	slog.Info("order cancelled", "order_id", orderID)
	return &cancelled, nil
}

// Refund marks the payment of a paid, completed order as refunded.
// The order status itself stays completed.
func (s *OrderService) Refund(ctx context.Context, orderID string) (*models.Order, error) {
	var refunded models.Order
	err := s.orders.Update(ctx, func(orders []models.Order) ([]models.Order, error) {
		i := findOrder(orders, orderID)
		if i < 0 {
			return nil, ErrOrderNotFound
		}
		if orders[i].Status != models.OrderCompleted || orders[i].PaymentStatus != models.PaymentPaid {
			return nil, ErrOrderNotRefundable
		}
		orders[i].PaymentStatus = models.PaymentRefunded
		orders[i].UpdatedAt = time.Now().Format(models.TimeFormat)
		refunded = orders[i]
		return orders, nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("order refunded", "order_id", orderID, "total", refunded.Total)
	return &refunded, nil
}

// Get returns one order by id.
func (s *OrderService) Get(ctx context.Context, orderID string) (*models.Order, error) {
	orders, _, err := s.orders.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load orders: %w", err)
	}
	if i := findOrder(orders, orderID); i >= 0 {
		return &orders[i], nil
	}
	return nil, ErrOrderNotFound
}

// List returns every order.
func (s *OrderService) List(ctx context.Context) ([]models.Order, error) {
	orders, _, err := s.orders.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load orders: %w", err)
	}
	return orders, nil
}

// ListActive returns the orders still open for mutation or payment.
func (s *OrderService) ListActive(ctx context.Context) ([]models.Order, error) {
	orders, _, err := s.orders.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load orders: %w", err)
	}
	active := make([]models.Order, 0)
	for _, o := range orders {
		if o.Status == models.OrderActive {
			active = append(active, o)
		}
	}
	return active, nil
}

// releaseTable is best-effort: a missing or already-free table must
// not fail a payment that has already been persisted.
func (s *OrderService) releaseTable(ctx context.Context, tableID string) {
	if tableID == "" {
		return
	}
	if err := s.tables.Release(ctx, tableID); err != nil {
		slog.Warn("failed to release table after order left active state",
			"table_id", tableID, "error", err)
	}
}

func findOrder(orders []models.Order, id string) int {
	for i := range orders {
		if orders[i].ID == id {
			return i
		}
	}
	return -1
}
