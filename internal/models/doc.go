// Package models defines the core domain records persisted by the
// flat-file store.
//
// Each record type maps one-to-one onto an element of its collection's
// JSON array file (menu.json, orders.json, tables.json, users.json).
// Relationships between records are plain ID strings resolved at read
// time; there is no foreign-key enforcement.
//
// Monetary fields use shopspring decimal values so that stored totals
// survive repeated marshal/unmarshal cycles without float drift.
package models

import "github.com/shopspring/decimal"

func init() {
	// Collection files store amounts as bare JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// TimeFormat is the fixed textual layout for every timestamp persisted
// in the collection files.
const TimeFormat = "2006-01-02 15:04:05"
