package forms

import (
	"strings"

	"github.com/angelmondragon/warehouse-console/pkg/enums"
	"github.com/angelmondragon/warehouse-console/pkg/models"
	"github.com/shopspring/decimal"
)

type ProductInput struct {
	Name        string `json:"name" validate:"tmin=2" label:"Product name"`
	SKU         string `json:"sku" validate:"tmin=1" label:"SKU"`
	Unit        string `json:"unit,omitempty"`
	Description string `json:"description,omitempty"`
	CategoryID  int64  `json:"category_id" validate:"ref" label:"Category"`
	StockLevel  int    `json:"stock_level" validate:"gte=0" label:"Stock level"`
}

func (p *ProductInput) normalize() {
	p.Name = strings.TrimSpace(p.Name)
	p.SKU = strings.TrimSpace(p.SKU)
	p.Unit = strings.TrimSpace(p.Unit)
	p.Description = strings.TrimSpace(p.Description)
}

type CategoryInput struct {
	Name        string `json:"name" validate:"tmin=2" label:"Category name"`
	Description string `json:"description,omitempty"`
}

func (c *CategoryInput) normalize() {
	c.Name = strings.TrimSpace(c.Name)
	c.Description = strings.TrimSpace(c.Description)
}

type SupplierInput struct {
	Name    string `json:"name" validate:"tmin=2" label:"Supplier name"`
	Contact string `json:"contact,omitempty"`
	Address string `json:"address,omitempty"`
	Email   string `json:"email,omitempty" validate:"omitempty,email" label:"Email"`
	Phone   string `json:"phone,omitempty" validate:"omitempty,min=5" label:"Phone"`
	Notes   string `json:"notes,omitempty"`
}

func (s *SupplierInput) normalize() {
	s.Name = strings.TrimSpace(s.Name)
	s.Contact = strings.TrimSpace(s.Contact)
	s.Address = strings.TrimSpace(s.Address)
	s.Email = strings.TrimSpace(s.Email)
	s.Phone = strings.TrimSpace(s.Phone)
	s.Notes = strings.TrimSpace(s.Notes)
}

// PurchaseInput creates a purchase together with its lines.
type PurchaseInput struct {
	SupplierID   int64               `json:"supplier_id" validate:"ref" label:"Supplier"`
	PurchaseDate *models.Timestamp   `json:"purchase_date,omitempty"`
	Notes        string              `json:"notes,omitempty"`
	TotalCost    *decimal.Decimal    `json:"total_cost,omitempty" validate:"omitempty,gte=0" label:"Total cost"`
	Items        []PurchaseLineInput `json:"items" validate:"min=1,dive" label:"Item"`
}

func (p *PurchaseInput) normalize() {
	p.Notes = strings.TrimSpace(p.Notes)
}

// PurchaseLineInput is one line of a purchase that does not exist yet.
type PurchaseLineInput struct {
	ProductID int64           `json:"product_id" validate:"ref" label:"Product"`
	Quantity  int             `json:"quantity" validate:"min=1" label:"Quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost" validate:"gte=0" label:"Unit cost"`
}

// PurchaseUpdateInput replaces the header fields of an existing purchase.
type PurchaseUpdateInput struct {
	SupplierID int64            `json:"supplier_id" validate:"ref" label:"Supplier"`
	Notes      string           `json:"notes,omitempty"`
	TotalCost  *decimal.Decimal `json:"total_cost,omitempty" validate:"omitempty,gte=0" label:"Total cost"`
}

func (p *PurchaseUpdateInput) normalize() {
	p.Notes = strings.TrimSpace(p.Notes)
}

// PurchaseItemInput is the body of /purchase_items requests.
type PurchaseItemInput struct {
	PurchaseID int64           `json:"purchase_id" validate:"ref" label:"Purchase"`
	ProductID  int64           `json:"product_id" validate:"ref" label:"Product"`
	Quantity   int             `json:"quantity" validate:"min=1" label:"Quantity"`
	UnitCost   decimal.Decimal `json:"unit_cost" validate:"gte=0" label:"Unit cost"`
}

type StockTransferInput struct {
	TransferType enums.TransferType  `json:"transfer_type" validate:"required,oneof=IN OUT" label:"Transfer type"`
	LocationID   int64               `json:"location_id" validate:"ref" label:"Location"`
	Date         *models.Timestamp   `json:"date,omitempty"`
	Notes        string              `json:"notes,omitempty"`
	Items        []TransferLineInput `json:"items" validate:"min=1,dive" label:"Product"`
}

func (s *StockTransferInput) normalize() {
	if parsed, err := enums.ParseTransferType(string(s.TransferType)); err == nil {
		s.TransferType = parsed
	}
	s.Notes = strings.TrimSpace(s.Notes)
}

// TransferUpdateInput replaces the header fields of an existing transfer.
type TransferUpdateInput struct {
	TransferType enums.TransferType `json:"transfer_type" validate:"required,oneof=IN OUT" label:"Transfer type"`
	LocationID   int64              `json:"location_id" validate:"ref" label:"Location"`
	Notes        string             `json:"notes,omitempty"`
}

func (s *TransferUpdateInput) normalize() {
	if parsed, err := enums.ParseTransferType(string(s.TransferType)); err == nil {
		s.TransferType = parsed
	}
	s.Notes = strings.TrimSpace(s.Notes)
}

type TransferLineInput struct {
	ProductID int64 `json:"product_id" validate:"ref" label:"Product"`
	Quantity  int   `json:"quantity" validate:"min=1" label:"Quantity"`
}

// TransferItemInput is the body of /stock_transfer_items requests.
type TransferItemInput struct {
	StockTransferID int64 `json:"stock_transfer_id" validate:"ref" label:"Stock transfer"`
	ProductID       int64 `json:"product_id" validate:"ref" label:"Product"`
	Quantity        int   `json:"quantity" validate:"min=1" label:"Quantity"`
}

type BusinessLocationInput struct {
	Name          string `json:"name" validate:"tmin=2" label:"Business name"`
	Address       string `json:"address" validate:"tmin=5" label:"Address"`
	ContactPerson string `json:"contact_person,omitempty"`
	Phone         string `json:"phone,omitempty"`
	Notes         string `json:"notes,omitempty"`
	IsActive      *bool  `json:"is_active,omitempty"`
}

func (b *BusinessLocationInput) normalize() {
	b.Name = strings.TrimSpace(b.Name)
	b.Address = strings.TrimSpace(b.Address)
	b.ContactPerson = strings.TrimSpace(b.ContactPerson)
	b.Phone = strings.TrimSpace(b.Phone)
	b.Notes = strings.TrimSpace(b.Notes)
	if b.IsActive == nil {
		active := true
		b.IsActive = &active
	}
}

type MovementInput struct {
	Type         enums.MovementType `json:"type" validate:"required,oneof=out_to_business in_from_business adjustment" label:"Movement type"`
	Quantity     int                `json:"quantity" validate:"min=1" label:"Quantity"`
	ProductID    int64              `json:"product_id" validate:"ref" label:"Product"`
	BusinessID   *int64             `json:"business_id,omitempty" validate:"omitnil,ref" label:"Business"`
	Notes        string             `json:"notes,omitempty"`
	MovementDate *models.Timestamp  `json:"movement_date,omitempty"`
}

func (m *MovementInput) normalize() {
	m.Notes = strings.TrimSpace(m.Notes)
}
