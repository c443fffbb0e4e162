package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo. El stock no vive aquí sino en
// InventoryRecord, uno por bodega.
type Product struct {
	ID           string
	SKU          string // código único
	Name         string
	Category     string
	Description  string
	CostPrice    decimal.Decimal
	SellingPrice decimal.Decimal
	ReorderLevel int64 // umbral de alerta de stock bajo (quantity <= ReorderLevel)
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
