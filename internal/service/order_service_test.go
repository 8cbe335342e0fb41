package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/viduramedix/pos/internal/models"
	"github.com/viduramedix/pos/internal/storage"
	"github.com/viduramedix/pos/internal/storage/jsonfile"
)

type fixture struct {
	orders   storage.Collection[models.Order]
	tables   storage.Collection[models.Table]
	orderSvc *OrderService
	tableID  string
}

func setupOrderTest(t *testing.T) *fixture {
	t.Helper()
	store, err := jsonfile.New(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	orders := jsonfile.Open[models.Order](store, "orders")
	menu := jsonfile.Open[models.MenuItem](store, "menu")
	tables := jsonfile.Open[models.Table](store, "tables")
	ctx := context.Background()

	catalog := []models.MenuItem{
		{ID: "mi-1", Code: "MAI001", Category: "Mains", Name: "Rice & Curry", Price: decimal.NewFromInt(10), Available: true},
		{ID: "mi-2", Code: "BEV001", Category: "Beverages", Name: "Lime Juice", Price: decimal.NewFromFloat(3.5), Available: true},
	}
	if err := menu.Save(ctx, catalog, storage.None); err != nil {
		t.Fatalf("failed to seed menu: %v", err)
	}
	seed := []models.Table{{ID: "t-1", Name: "Table 1", Capacity: 4, Status: models.TableAvailable}}
	if err := tables.Save(ctx, seed, storage.None); err != nil {
		t.Fatalf("failed to seed tables: %v", err)
	}

	return &fixture{
		orders:   orders,
		tables:   tables,
		orderSvc: NewOrderService(orders, menu, NewTableService(tables), decimal.NewFromInt(10)),
		tableID:  "t-1",
	}
}

func (f *fixture) table(t *testing.T) models.Table {
	t.Helper()
	tables, _, err := f.tables.Load(context.Background())
	if err != nil {
		t.Fatalf("failed to load tables: %v", err)
	}
	for _, tb := range tables {
		if tb.ID == f.tableID {
			return tb
		}
	}
	t.Fatalf("table %s missing", f.tableID)
	return models.Table{}
}

func TestCreateOrder(t *testing.T) {
	f := setupOrderTest(t)
	ctx := context.Background()

	order, err := f.orderSvc.Create(ctx, f.tableID, []models.OrderItem{
		{MenuItemID: "mi-1", Quantity: 2},
		{MenuItemID: "mi-2", Quantity: 0}, // dropped
		{IsCustom: true, CustomName: "Chef special", CustomPrice: decimal.NewFromFloat(7.5), Quantity: 1},
	}, decimal.Zero)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if order.ID == "" {
		t.Error("expected generated order id")
	}
	if order.Status != models.OrderActive || order.PaymentStatus != models.PaymentPending {
		t.Errorf("unexpected initial state: %s/%s", order.Status, order.PaymentStatus)
	}
	if len(order.Items) != 2 {
		t.Errorf("zero-quantity line persisted: %+v", order.Items)
	}
	// 10*2 + 7.5 = 27.5, 10% tax on 27.5 = 2.75, total 30.25
	if !order.Tax.Equal(decimal.NewFromFloat(2.75)) || !order.Total.Equal(decimal.NewFromFloat(30.25)) {
		t.Errorf("totals: tax=%s total=%s, want 2.75/30.25", order.Tax, order.Total)
	}
	if order.CreatedAt == "" || order.UpdatedAt == "" {
		t.Error("expected timestamps to be stamped")
	}

	if got := f.table(t).Status; got != models.TableOccupied {
		t.Errorf("table status = %s, want occupied", got)
	}

	persisted, _, err := f.orders.Load(ctx)
	if err != nil {
		t.Fatalf("failed to load orders: %v", err)
	}
	if len(persisted) != 1 || persisted[0].ID != order.ID {
		t.Errorf("order not persisted: %+v", persisted)
	}
}

func TestCreateOrderRejectsEmpty(t *testing.T) {
	f := setupOrderTest(t)

	_, err := f.orderSvc.Create(context.Background(), "", []models.OrderItem{
		{MenuItemID: "mi-1", Quantity: 0},
	}, decimal.Zero)
	if !errors.Is(err, ErrNoItems) {
		t.Errorf("expected ErrNoItems, got %v", err)
	}
}

func TestCompletePayment(t *testing.T) {
	f := setupOrderTest(t)
	ctx := context.Background()

	order, err := f.orderSvc.Create(ctx, f.tableID, []models.OrderItem{{MenuItemID: "mi-1", Quantity: 1}}, decimal.Zero)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	t.Run("empty payment method mutates nothing", func(t *testing.T) {
		_, err := f.orderSvc.CompletePayment(ctx, order.ID, "")
		if !errors.Is(err, ErrPaymentMethodRequired) {
			t.Fatalf("expected ErrPaymentMethodRequired, got %v", err)
		}
		got, err := f.orderSvc.Get(ctx, order.ID)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if got.PaymentStatus != models.PaymentPending || got.Status != models.OrderActive {
			t.Errorf("order mutated by rejected payment: %s/%s", got.Status, got.PaymentStatus)
		}
	})

	t.Run("valid payment completes and releases table", func(t *testing.T) {
		completed, err := f.orderSvc.CompletePayment(ctx, order.ID, "cash")
		if err != nil {
			t.Fatalf("CompletePayment failed: %v", err)
		}
		if completed.Status != models.OrderCompleted || completed.PaymentStatus != models.PaymentPaid {
			t.Errorf("unexpected state: %s/%s", completed.Status, completed.PaymentStatus)
		}
		if completed.PaymentMethod != "cash" {
			t.Errorf("payment method = %q, want cash", completed.PaymentMethod)
		}
		if got := f.table(t).Status; got != models.TableAvailable {
			t.Errorf("table status = %s, want available", got)
		}
	})

	t.Run("terminal order does not transition again", func(t *testing.T) {
		_, err := f.orderSvc.CompletePayment(ctx, order.ID, "card")
		if !errors.Is(err, ErrOrderNotActive) {
			t.Errorf("expected ErrOrderNotActive, got %v", err)
		}
		_, err = f.orderSvc.Cancel(ctx, order.ID)
		if !errors.Is(err, ErrOrderNotActive) {
			t.Errorf("expected ErrOrderNotActive, got %v", err)
		}
	})

	t.Run("completed paid order can be refunded", func(t *testing.T) {
		refunded, err := f.orderSvc.Refund(ctx, order.ID)
		if err != nil {
			t.Fatalf("Refund failed: %v", err)
		}
		if refunded.PaymentStatus != models.PaymentRefunded {
			t.Errorf("payment status = %s, want refunded", refunded.PaymentStatus)
		}
		if refunded.Status != models.OrderCompleted {
			t.Errorf("refund changed order status to %s", refunded.Status)
		}
		if _, err := f.orderSvc.Refund(ctx, order.ID); !errors.Is(err, ErrOrderNotRefundable) {
			t.Errorf("expected ErrOrderNotRefundable on double refund, got %v", err)
		}
	})
}

func TestCancelOrder(t *testing.T) {
	f := setupOrderTest(t)
	ctx := context.Background()

	order, err := f.orderSvc.Create(ctx, f.tableID, []models.OrderItem{{MenuItemID: "mi-1", Quantity: 1}}, decimal.Zero)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	cancelled, err := f.orderSvc.Cancel(ctx, order.ID)
	if err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	if cancelled.Status != models.OrderCancelled {
		t.Errorf("status = %s, want cancelled", cancelled.Status)
	}
	if got := f.table(t).Status; got != models.TableAvailable {
		t.Errorf("table status = %s, want available", got)
	}
}

func TestUpdateItemsRecomputesTotals(t *testing.T) {
	f := setupOrderTest(t)
	ctx := context.Background()

	order, err := f.orderSvc.Create(ctx, "", []models.OrderItem{{MenuItemID: "mi-1", Quantity: 1}}, decimal.Zero)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	updated, err := f.orderSvc.UpdateItems(ctx, order.ID, []models.OrderItem{
		{MenuItemID: "mi-2", Quantity: 2},
	}, decimal.NewFromInt(2))
	if err != nil {
		t.Fatalf("UpdateItems failed: %v", err)
	}
	// 3.5*2 = 7, minus 2 discount = 5, 10% tax = 0.5, total 5.5
	if !updated.Total.Equal(decimal.NewFromFloat(5.5)) {
		t.Errorf("total = %s, want 5.5", updated.Total)
	}

	if _, err := f.orderSvc.UpdateItems(ctx, "missing", updated.Items, decimal.Zero); !errors.Is(err, ErrOrderNotFound) {
		t.Errorf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestGetUnknownOrder(t *testing.T) {
	f := setupOrderTest(t)

	if _, err := f.orderSvc.Get(context.Background(), "missing"); !errors.Is(err, ErrOrderNotFound) {
		t.Errorf("expected ErrOrderNotFound, got %v", err)
	}
}
