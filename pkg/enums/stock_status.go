package enums

import "fmt"

// StockStatus is the badge shown next to a product's stock level.
type StockStatus string

const (
	StockStatusOutOfStock StockStatus = "out-of-stock"
	StockStatusLowStock   StockStatus = "low-stock"
	StockStatusInStock    StockStatus = "in-stock"
)

var validStockStatuses = []StockStatus{
	StockStatusOutOfStock,
	StockStatusLowStock,
	StockStatusInStock,
}

// String implements fmt.Stringer.
func (s StockStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known StockStatus.
func (s StockStatus) IsValid() bool {
	for _, candidate := range validStockStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// Label returns the human readable badge text.
func (s StockStatus) Label() string {
	switch s {
	case StockStatusOutOfStock:
		return "Out of Stock"
	case StockStatusLowStock:
		return "Low Stock"
	case StockStatusInStock:
		return "In Stock"
	default:
		return ""
	}
}

// ParseStockStatus converts raw input into a StockStatus.
func ParseStockStatus(value string) (StockStatus, error) {
	for _, candidate := range validStockStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid stock status %q", value)
}
