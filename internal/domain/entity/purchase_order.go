package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una orden de compra.
const (
	PurchaseStatusPending   = "PENDING"
	PurchaseStatusReceived  = "RECEIVED"
	PurchaseStatusCancelled = "CANCELLED"
)

// PurchaseOrder representa una orden de compra a un proveedor para una bodega.
// Solo una orden PENDING puede recibirse, y se recibe una única vez.
type PurchaseOrder struct {
	ID          string
	SupplierID  string
	WarehouseID string
	Status      string
	TotalCost   decimal.Decimal
	Items       []PurchaseItem
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	ReceivedAt  *time.Time
}

// PurchaseItem es una línea de la orden de compra.
type PurchaseItem struct {
	ID              string
	PurchaseOrderID string
	ProductID       string
	Quantity        int64
	UnitCost        decimal.Decimal
}

// Subtotal devuelve Quantity * UnitCost.
func (i PurchaseItem) Subtotal() decimal.Decimal {
	return i.UnitCost.Mul(decimal.NewFromInt(i.Quantity))
}
