package models

import "github.com/shopspring/decimal"

// MenuItem is one catalog entry.
type MenuItem struct {
	// ID is the unique identifier for the menu item.
	ID string `json:"id"`

	// Code is a short, unique display code (e.g. "BEV001").
	Code string `json:"code"`

	// Category groups items on the order screen (e.g. "Beverages").
	Category string `json:"category"`

	Name        string `json:"name"`
	Description string `json:"description"`

	// Price is the unit price; must be positive.
	Price decimal.Decimal `json:"price"`

	// Stock is the remaining count; must be non-negative.
	Stock int `json:"stock"`

	// Available toggles whether the item can be ordered.
	Available bool `json:"available"`
}
