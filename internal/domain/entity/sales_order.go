package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalesOrder representa una venta despachada desde una bodega.
type SalesOrder struct {
	ID           string
	CustomerName string
	WarehouseID  string
	TotalAmount  decimal.Decimal
	Items        []SalesItem
	CreatedBy    string
	CreatedAt    time.Time
}

// SalesItem es una línea de la venta.
type SalesItem struct {
	ID           string
	SalesOrderID string
	ProductID    string
	Quantity     int64
	UnitPrice    decimal.Decimal
}

// Subtotal devuelve Quantity * UnitPrice.
func (i SalesItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(i.Quantity))
}
