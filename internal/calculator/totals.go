// Package calculator computes order totals. Everything here is pure:
// no storage access, no mutation of inputs.
package calculator

import (
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/viduramedix/pos/internal/models"
)

// Totals is the monetary breakdown of an order.
type Totals struct {
	Subtotal decimal.Decimal
	Discount decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// Calculate derives the totals for a list of order lines against the
// menu catalog.
//
// Lines with a non-positive quantity are skipped. Custom lines use
// their embedded price; regular lines resolve their price by catalog
// join on MenuItemID, first match wins. A regular line whose id is
// absent from the catalog contributes zero and is logged as a
// data-integrity warning, never a failure; the order must still total
// up for display. The discount is a flat amount, floored so it can
// never drive the discounted subtotal negative; tax applies to the
// discounted subtotal at taxRatePercent.
func Calculate(items []models.OrderItem, catalog []models.MenuItem, discount, taxRatePercent decimal.Decimal) Totals {
	subtotal := decimal.Zero

	for _, item := range items {
		if item.Quantity <= 0 {
			continue
		}

		var price decimal.Decimal
		switch item.Kind() {
		case models.ItemCustom:
			price = item.CustomPrice
		case models.ItemRegular:
			menuItem, ok := lookupMenuItem(catalog, item.MenuItemID)
			if !ok {
				slog.Warn("order line references unknown menu item",
					"menu_item_id", item.MenuItemID)
				continue
			}
			price = menuItem.Price
		default:
			slog.Warn("order line is neither custom nor references a menu item")
			continue
		}

		qty := decimal.NewFromInt(int64(item.Quantity))
		subtotal = subtotal.Add(price.Mul(qty))
	}

	if discount.IsNegative() {
		discount = decimal.Zero
	}
	discounted := subtotal.Sub(discount)
	if discounted.IsNegative() {
		discounted = decimal.Zero
	}

	tax := discounted.Mul(taxRatePercent).Div(decimal.NewFromInt(100))
	total := discounted.Add(tax)

	return Totals{
		Subtotal: subtotal,
		Discount: discount,
		Tax:      tax,
		Total:    total,
	}
}

func lookupMenuItem(catalog []models.MenuItem, id string) (models.MenuItem, bool) {
	for _, mi := range catalog {
		if mi.ID == id {
			return mi, true
		}
	}
	return models.MenuItem{}, false
}
