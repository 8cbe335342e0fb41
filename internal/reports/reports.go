// Package reports builds read-side sales rollups over the order
// store. Nothing here mutates any collection.
package reports

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/viduramedix/pos/internal/models"
	"github.com/viduramedix/pos/internal/storage"
)

// dateLayout is the day-granularity prefix of models.TimeFormat.
const dateLayout = "2006-01-02"

// ItemSales is the aggregated sales of one item across a report range.
// Custom order lines aggregate under their custom name with an empty
// MenuItemID.
type ItemSales struct {
	MenuItemID string          `json:"menu_item_id,omitempty"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	Quantity   int             `json:"quantity"`
	Total      decimal.Decimal `json:"total"`
}

// DayRevenue is one day of a range report's revenue series.
type DayRevenue struct {
	Date    string          `json:"date"`
	Orders  int             `json:"orders"`
	Revenue decimal.Decimal `json:"revenue"`
}

// Report is a rollup over one day or a day range. Revenue, tax and
// discount only count completed orders; the status counts cover all
// orders in range.
type Report struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`

	TotalOrders     int `json:"total_orders"`
	CompletedOrders int `json:"completed_orders"`
	CancelledOrders int `json:"cancelled_orders"`
	ActiveOrders    int `json:"active_orders"`

	Revenue  decimal.Decimal `json:"revenue"`
	Tax      decimal.Decimal `json:"tax"`
	Discount decimal.Decimal `json:"discount"`

	ItemSales    []ItemSales  `json:"item_sales"`
	DailyRevenue []DayRevenue `json:"daily_revenue,omitempty"`
}

// Service reads orders and the catalog to build reports.
type Service struct {
	orders storage.Collection[models.Order]
	menu   storage.Collection[models.MenuItem]
}

func NewService(orders storage.Collection[models.Order], menu storage.Collection[models.MenuItem]) *Service {
	return &Service{orders: orders, menu: menu}
}

// Daily reports one calendar day. An empty or malformed date falls
// back to today.
func (s *Service) Daily(ctx context.Context, date string) (*Report, error) {
	if _, err := time.Parse(dateLayout, date); err != nil {
		date = time.Now().Format(dateLayout)
	}
	return s.build(ctx, date, date, false)
}

// Summary reports an inclusive day range, defaulting to the last seven
// days and swapping reversed bounds. The report carries a per-day
// revenue series covering every day in range, including zero days.
func (s *Service) Summary(ctx context.Context, startDate, endDate string) (*Report, error) {
	end, err := time.Parse(dateLayout, endDate)
	if err != nil {
		end = time.Now()
		endDate = end.Format(dateLayout)
	}
	start, err := time.Parse(dateLayout, startDate)
	if err != nil {
		start = end.AddDate(0, 0, -6)
		startDate = start.Format(dateLayout)
	}
	if start.After(end) {
		startDate, endDate = endDate, startDate
	}
	return s.build(ctx, startDate, endDate, true)
}

func (s *Service) build(ctx context.Context, startDate, endDate string, withSeries bool) (*Report, error) {
	orders, _, err := s.orders.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load orders: %w", err)
	}
	catalog, _, err := s.menu.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load menu: %w", err)
	}

	report := &Report{
		StartDate: startDate,
		EndDate:   endDate,
		Revenue:   decimal.Zero,
		Tax:       decimal.Zero,
		Discount:  decimal.Zero,
	}

	var series map[string]*DayRevenue
	if withSeries {
		series = make(map[string]*DayRevenue)
		start, _ := time.Parse(dateLayout, startDate)
		end, _ := time.Parse(dateLayout, endDate)
		for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
			day := d.Format(dateLayout)
			series[day] = &DayRevenue{Date: day, Revenue: decimal.Zero}
		}
	}

	sales := make(map[string]*ItemSales)
	var salesOrder []string

	for _, order := range orders {
		day := orderDate(order)
		if day < startDate || day > endDate {
			continue
		}
		report.TotalOrders++

		switch order.Status {
		case models.OrderCompleted:
			report.CompletedOrders++
		case models.OrderCancelled:
			report.CancelledOrders++
		case models.OrderActive:
			report.ActiveOrders++
		}

		if order.Status != models.OrderCompleted {
			continue
		}
		report.Revenue = report.Revenue.Add(order.Total)
		report.Tax = report.Tax.Add(order.Tax)
		report.Discount = report.Discount.Add(order.Discount)

		if entry, ok := series[day]; ok {
			entry.Orders++
			entry.Revenue = entry.Revenue.Add(order.Total)
		}

		for _, item := range order.Items {
			key, name, price, ok := itemIdentity(item, catalog)
			if !ok {
				continue
			}
			entry, exists := sales[key]
			if !exists {
				entry = &ItemSales{
					MenuItemID: item.MenuItemID,
					Name:       name,
					Price:      price,
					Total:      decimal.Zero,
				}
				sales[key] = entry
				salesOrder = append(salesOrder, key)
			}
			entry.Quantity += item.Quantity
			entry.Total = entry.Total.Add(price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		}
	}

	report.ItemSales = make([]ItemSales, 0, len(salesOrder))
	for _, key := range salesOrder {
		report.ItemSales = append(report.ItemSales, *sales[key])
	}
	sort.SliceStable(report.ItemSales, func(i, j int) bool {
		return report.ItemSales[i].Quantity > report.ItemSales[j].Quantity
	})

	if withSeries {
		start, _ := time.Parse(dateLayout, startDate)
		end, _ := time.Parse(dateLayout, endDate)
		for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
			report.DailyRevenue = append(report.DailyRevenue, *series[d.Format(dateLayout)])
		}
	}
	return report, nil
}

// orderDate extracts the calendar day of created_at; timestamps are
// persisted in models.TimeFormat, so the day is the leading prefix.
func orderDate(order models.Order) string {
	if len(order.CreatedAt) < len(dateLayout) {
		return ""
	}
	return order.CreatedAt[:len(dateLayout)]
}

// itemIdentity resolves the aggregation key, display name and unit
// price of an order line. Regular lines referencing a missing catalog
// entry are skipped: their price is unknown.
func itemIdentity(item models.OrderItem, catalog []models.MenuItem) (key, name string, price decimal.Decimal, ok bool) {
	switch item.Kind() {
	case models.ItemCustom:
		return "custom:" + item.CustomName, item.CustomName, item.CustomPrice, true
	case models.ItemRegular:
		for _, mi := range catalog {
			if mi.ID == item.MenuItemID {
				return mi.ID, mi.Name, mi.Price, true
			}
		}
	}
	return "", "", decimal.Zero, false
}
