package models

// TableStatus is the occupancy state of a dining table.
type TableStatus string

const (
	TableAvailable TableStatus = "available"
	TableOccupied  TableStatus = "occupied"
)

// Table is one dining table.
type Table struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Capacity int         `json:"capacity"`
	Status   TableStatus `json:"status"`
}
