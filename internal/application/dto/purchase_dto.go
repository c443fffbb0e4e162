package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreatePurchaseOrderRequest body para POST /api/purchases.
type CreatePurchaseOrderRequest struct {
	SupplierID  string                `json:"supplier_id"`
	WarehouseID string                `json:"warehouse_id"`
	Items       []PurchaseItemRequest `json:"items"`
}

// PurchaseItemRequest línea de la orden de compra.
type PurchaseItemRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
}

// PurchaseOrderResponse orden de compra con sus ítems.
type PurchaseOrderResponse struct {
	ID          string                 `json:"id"`
	SupplierID  string                 `json:"supplier_id"`
	WarehouseID string                 `json:"warehouse_id"`
	Status      string                 `json:"status"`
	TotalCost   decimal.Decimal        `json:"total_cost"`
	Items       []PurchaseItemResponse `json:"items"`
	CreatedAt   time.Time              `json:"created_at"`
	ReceivedAt  *time.Time             `json:"received_at,omitempty"`
}

// PurchaseItemResponse línea en la respuesta.
type PurchaseItemResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}
