package models

import (
	"github.com/angelmondragon/warehouse-console/pkg/enums"
	"github.com/shopspring/decimal"
)

type Category struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Product stock status is derived from StockLevel and never stored.
type Product struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	SKU         string    `json:"sku"`
	Unit        string    `json:"unit,omitempty"`
	Description string    `json:"description,omitempty"`
	CategoryID  int64     `json:"category_id"`
	Category    *Category `json:"category,omitempty"`
	StockLevel  int       `json:"stock_level"`
}

type Supplier struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Contact string `json:"contact,omitempty"`
	Address string `json:"address,omitempty"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Notes   string `json:"notes,omitempty"`
}

// Purchase.TotalCost is invalid when the backend omitted it or sent null.
type Purchase struct {
	ID           int64               `json:"id"`
	SupplierID   int64               `json:"supplier_id"`
	Supplier     *Supplier           `json:"supplier,omitempty"`
	PurchaseDate Timestamp           `json:"purchase_date"`
	Notes        string              `json:"notes,omitempty"`
	TotalCost    decimal.NullDecimal `json:"total_cost"`
	Items        []PurchaseItem      `json:"items,omitempty"`
}

type PurchaseItem struct {
	ID         int64           `json:"id"`
	PurchaseID int64           `json:"purchase_id"`
	ProductID  int64           `json:"product_id"`
	Product    *Product        `json:"product,omitempty"`
	Quantity   int             `json:"quantity"`
	UnitCost   decimal.Decimal `json:"unit_cost"`
}

type BusinessLocation struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Address       string `json:"address,omitempty"`
	ContactPerson string `json:"contact_person,omitempty"`
	Phone         string `json:"phone,omitempty"`
	Notes         string `json:"notes,omitempty"`
	IsActive      bool   `json:"is_active"`
	IsDeleted     bool   `json:"is_deleted"`
}

// Deletable reports whether the soft-delete transition is allowed.
func (b BusinessLocation) Deletable() bool {
	return !b.IsActive && !b.IsDeleted
}

type StockTransfer struct {
	ID           int64              `json:"id"`
	TransferType enums.TransferType `json:"transfer_type"`
	LocationID   int64              `json:"location_id"`
	Location     *BusinessLocation  `json:"location,omitempty"`
	Date         Timestamp          `json:"date"`
	Notes        string             `json:"notes,omitempty"`
	Items        []TransferItem     `json:"items,omitempty"`
}

type TransferItem struct {
	ID              int64    `json:"id"`
	StockTransferID int64    `json:"stock_transfer_id"`
	ProductID       int64    `json:"product_id"`
	Product         *Product `json:"product,omitempty"`
	Quantity        int      `json:"quantity"`
}

type Movement struct {
	ID           int64              `json:"id"`
	Type         enums.MovementType `json:"type"`
	Quantity     int                `json:"quantity"`
	BusinessID   *int64             `json:"business_id,omitempty"`
	ProductID    int64              `json:"product_id"`
	Notes        string             `json:"notes,omitempty"`
	MovementDate Timestamp          `json:"movement_date"`
}

type DashboardSummary struct {
	TotalItems             int                `json:"total_items"`
	TotalStock             int                `json:"total_stock"`
	LowStockCount          int                `json:"low_stock_count"`
	OutOfStockCount        int                `json:"out_of_stock_count"`
	InventoryValue         decimal.Decimal    `json:"inventory_value"`
	TotalPurchaseValue     decimal.Decimal    `json:"total_purchase_value"`
	RecentPurchases        []Purchase         `json:"recent_purchases"`
	RecentTransfers        []StockTransfer    `json:"recent_transfers"`
	LowStockItems          []Product          `json:"low_stock_items"`
	OutOfStockItems        []Product          `json:"out_of_stock_items"`
	InStockItems           []Product          `json:"in_stock_items"`
	SupplierSpendingTrends []SupplierSpending `json:"supplier_spending_trends"`
}

type SupplierSpending struct {
	SupplierID   int64           `json:"supplier_id"`
	SupplierName string          `json:"supplier_name"`
	TotalSpent   decimal.Decimal `json:"total_spent"`
}

// DashboardMovement is one row of the combined purchase/transfer activity feed.
type DashboardMovement struct {
	ID                  int64     `json:"id"`
	Type                string    `json:"type"`
	Quantity            int       `json:"quantity"`
	Date                Timestamp `json:"date"`
	SourceOrDestination string    `json:"source_or_destination,omitempty"`
	Notes               string    `json:"notes,omitempty"`
}

// MessageResponse is the acknowledgement body returned by delete endpoints.
type MessageResponse struct {
	Message string `json:"message"`
}

type ToggleActiveResponse struct {
	Message  string           `json:"message"`
	IsActive bool             `json:"is_active"`
	Location BusinessLocation `json:"location"`
}

type SoftDeleteResponse struct {
	Message   string `json:"message"`
	IsDeleted bool   `json:"is_deleted"`
}
