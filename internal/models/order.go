package models

import "github.com/shopspring/decimal"

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderActive    OrderStatus = "active"
	OrderCompleted OrderStatus = "completed"
	OrderCancelled OrderStatus = "cancelled"
)

// PaymentStatus is the payment sub-state of an order.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

// Order represents a dine-in order. Tax and Total hold the values
// computed at the time of the last mutation; they are authoritative for
// display even if catalog prices change afterwards.
type Order struct {
	// ID is the unique identifier for the order.
	ID string `json:"id"`

	// TableID references the table this order is seated at, if any.
	TableID string `json:"table_id,omitempty"`

	// Items are the line items in insertion (receipt) order.
	Items []OrderItem `json:"items"`

	// Status is the lifecycle state (active, completed, cancelled).
	Status OrderStatus `json:"status"`

	// Discount is a flat currency amount, never a percentage.
	Discount decimal.Decimal `json:"discount"`

	// Tax is the computed tax stored at last mutation.
	Tax decimal.Decimal `json:"tax"`

	// Total is the computed grand total stored at last mutation.
	Total decimal.Decimal `json:"total"`

	// PaymentMethod is free-form ("cash", "card", ...), empty until set.
	PaymentMethod string `json:"payment_method"`

	// PaymentStatus is pending until payment completes.
	PaymentStatus PaymentStatus `json:"payment_status"`

	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// ItemKind classifies an order line item. The classification is closed:
// a line that is neither a catalog reference nor a self-priced custom
// line is ItemInvalid and must be handled explicitly, never priced.
type ItemKind int

const (
	ItemInvalid ItemKind = iota
	ItemRegular
	ItemCustom
)

// OrderItem is one line on an order. Two shapes share the struct:
// regular lines reference a MenuItem by ID and resolve their price by
// catalog join at calculation time; custom lines carry their own name
// and price and are never joined.
type OrderItem struct {
	// MenuItemID references the catalog entry for regular lines.
	MenuItemID string `json:"menu_item_id,omitempty"`

	// IsCustom marks a self-priced line not backed by the catalog.
	IsCustom bool `json:"is_custom,omitempty"`

	// CustomName is the display name for custom lines.
	CustomName string `json:"custom_name,omitempty"`

	// CustomPrice is the unit price for custom lines.
	CustomPrice decimal.Decimal `json:"custom_price"`

	// Quantity must be positive; non-positive lines are dropped during
	// total calculation and never persisted.
	Quantity int `json:"quantity"`

	Notes  string `json:"notes"`
	Status string `json:"status"`
}

// Kind reports which shape this line takes.
func (i OrderItem) Kind() ItemKind {
	switch {
	case i.IsCustom:
		return ItemCustom
	case i.MenuItemID != "":
		return ItemRegular
	default:
		return ItemInvalid
	}
}
