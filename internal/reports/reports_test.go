package reports

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/viduramedix/pos/internal/models"
	"github.com/viduramedix/pos/internal/storage"
	"github.com/viduramedix/pos/internal/storage/jsonfile"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func setupReportTest(t *testing.T) *Service {
	t.Helper()
	store, err := jsonfile.New(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	orders := jsonfile.Open[models.Order](store, "orders")
	menu := jsonfile.Open[models.MenuItem](store, "menu")
	ctx := context.Background()

	catalog := []models.MenuItem{
		{ID: "mi-1", Name: "Rice & Curry", Price: dec("10")},
		{ID: "mi-2", Name: "Lime Juice", Price: dec("3.5")},
	}
	if err := menu.Save(ctx, catalog, storage.None); err != nil {
		t.Fatalf("failed to seed menu: %v", err)
	}

	seed := []models.Order{
		{
			ID:        "o-1",
			Status:    models.OrderCompleted,
			Items:     []models.OrderItem{{MenuItemID: "mi-1", Quantity: 2}},
			Total:     dec("22"),
			Tax:       dec("2"),
			Discount:  dec("0"),
			CreatedAt: "2026-08-29 12:30:00",
		},
		{
			ID:        "o-2",
			Status:    models.OrderCompleted,
			Items:     []models.OrderItem{{MenuItemID: "mi-1", Quantity: 1}, {IsCustom: true, CustomName: "Chef special", CustomPrice: dec("7.5"), Quantity: 1}},
			Total:     dec("18"),
			Tax:       dec("0.5"),
			Discount:  dec("1"),
			CreatedAt: "2026-08-29 19:00:00",
		},
		{
			ID:        "o-3",
			Status:    models.OrderCancelled,
			Items:     []models.OrderItem{{MenuItemID: "mi-2", Quantity: 4}},
			Total:     dec("14"),
			CreatedAt: "2026-08-29 20:00:00",
		},
		{
			ID:        "o-4",
			Status:    models.OrderCompleted,
			Items:     []models.OrderItem{{MenuItemID: "mi-2", Quantity: 1}},
			Total:     dec("3.5"),
			CreatedAt: "2026-08-28 09:00:00",
		},
	}
	if err := orders.Save(ctx, seed, storage.None); err != nil {
		t.Fatalf("failed to seed orders: %v", err)
	}

	return NewService(orders, menu)
}

func TestDailyReport(t *testing.T) {
	svc := setupReportTest(t)

	report, err := svc.Daily(context.Background(), "2026-08-29")
	if err != nil {
		t.Fatalf("Daily failed: %v", err)
	}

	if report.TotalOrders != 3 {
		t.Errorf("total orders = %d, want 3", report.TotalOrders)
	}
	if report.CompletedOrders != 2 || report.CancelledOrders != 1 || report.ActiveOrders != 0 {
		t.Errorf("status counts = %d/%d/%d, want 2/1/0",
			report.CompletedOrders, report.CancelledOrders, report.ActiveOrders)
	}
	// Only completed orders count toward revenue: 22 + 18.
	if !report.Revenue.Equal(dec("40")) {
		t.Errorf("revenue = %s, want 40", report.Revenue)
	}
	if !report.Tax.Equal(dec("2.5")) {
		t.Errorf("tax = %s, want 2.5", report.Tax)
	}
	if !report.Discount.Equal(dec("1")) {
		t.Errorf("discount = %s, want 1", report.Discount)
	}

	// Item sales: mi-1 sold 3 (two orders), custom line sold 1; the
	// cancelled order's items do not count.
	if len(report.ItemSales) != 2 {
		t.Fatalf("item sales = %+v, want 2 entries", report.ItemSales)
	}
	top := report.ItemSales[0]
	if top.MenuItemID != "mi-1" || top.Quantity != 3 || !top.Total.Equal(dec("30")) {
		t.Errorf("top item = %+v, want mi-1 qty 3 total 30", top)
	}
	custom := report.ItemSales[1]
	if custom.Name != "Chef special" || custom.Quantity != 1 || !custom.Total.Equal(dec("7.5")) {
		t.Errorf("custom item = %+v, want Chef special qty 1 total 7.5", custom)
	}
}

func TestDailyReportBadDateFallsBackToToday(t *testing.T) {
	svc := setupReportTest(t)

	report, err := svc.Daily(context.Background(), "29/08/2026")
	if err != nil {
		t.Fatalf("Daily failed: %v", err)
	}
	if report.StartDate == "29/08/2026" {
		t.Error("malformed date was not replaced")
	}
	if report.StartDate != report.EndDate {
		t.Errorf("daily report spans %s..%s", report.StartDate, report.EndDate)
	}
}

func TestSummaryReport(t *testing.T) {
	svc := setupReportTest(t)

	report, err := svc.Summary(context.Background(), "2026-08-28", "2026-08-29")
	if err != nil {
		t.Fatalf("Summary failed: %v", err)
	}

	if report.TotalOrders != 4 {
		t.Errorf("total orders = %d, want 4", report.TotalOrders)
	}
	if !report.Revenue.Equal(dec("43.5")) {
		t.Errorf("revenue = %s, want 43.5", report.Revenue)
	}

	if len(report.DailyRevenue) != 2 {
		t.Fatalf("daily series = %+v, want 2 days", report.DailyRevenue)
	}
	day1, day2 := report.DailyRevenue[0], report.DailyRevenue[1]
	if day1.Date != "2026-08-28" || day1.Orders != 1 || !day1.Revenue.Equal(dec("3.5")) {
		t.Errorf("day one = %+v", day1)
	}
	if day2.Date != "2026-08-29" || day2.Orders != 2 || !day2.Revenue.Equal(dec("40")) {
		t.Errorf("day two = %+v", day2)
	}
}

func TestSummaryReportSwapsReversedBounds(t *testing.T) {
	svc := setupReportTest(t)

	report, err := svc.Summary(context.Background(), "2026-08-29", "2026-08-28")
	if err != nil {
		t.Fatalf("Summary failed: %v", err)
	}
	if report.StartDate != "2026-08-28" || report.EndDate != "2026-08-29" {
		t.Errorf("bounds = %s..%s, want swapped to 2026-08-28..2026-08-29",
			report.StartDate, report.EndDate)
	}
}
